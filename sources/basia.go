package sources

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"genesearch/config"
	"genesearch/match"
	"genesearch/models"
)

// BaSIA drives basia.famula.pl, an index of scanned civil-registry
// documents. Rows carry one combined name field, so they are audit-only.
type BaSIA struct {
	http   *resty.Client
	logger *zap.Logger
}

func NewBaSIA(cfg *config.Config, logger *zap.Logger) *BaSIA {
	return &BaSIA{
		http:   resty.New().SetBaseURL(cfg.BaSIABaseURL).SetTimeout(cfg.SearchTimeout),
		logger: logger,
	}
}

func (b *BaSIA) Name() string { return "BaSIA" }

func (b *BaSIA) RecordTypes() []models.RecordType {
	return []models.RecordType{models.RecordBirth}
}

func (b *BaSIA) DomesticOnly() bool { return false }

func (b *BaSIA) Search(ctx context.Context, q match.Query) ([]models.ResultRow, error) {
	params := map[string]string{}
	if q.GivenName != "" {
		params["firstname"] = q.GivenName
	}
	if q.Surname != "" {
		params["lastname"] = q.Surname
	}
	if q.Years != nil {
		params["yearfrom"] = strconv.Itoa(q.Years.From)
		params["yearto"] = strconv.Itoa(q.Years.To)
	}

	resp, err := b.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("basia search: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("basia search: status %d", resp.StatusCode())
	}

	rows := b.parsePage(resp.String())
	b.logger.Debug("BaSIA results", zap.String("surname", q.Surname), zap.Int("rows", len(rows)))
	return rows, nil
}

func (b *BaSIA) parsePage(page string) []models.ResultRow {
	table := tableByClass(page, "results")
	if table == "" {
		return nil
	}

	cells, rawRows := tableRows(table)
	var rows []models.ResultRow
	for i, cols := range cells {
		// Name, Year, Place, Document type
		if len(cols) < 4 {
			continue
		}
		rows = append(rows, &models.BirthRow{
			RowCommon: models.RowCommon{
				Year:     cols[1],
				Locality: cols[2],
				Link:     firstLink(rawRows[i]),
				Raw:      cols[0] + " (" + cols[3] + ")",
			},
		})
	}
	return rows
}
