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

// Poznan drives the Poznan Project, a marriage-records index for the
// historic Greater Poland region. Rows name the groom and bride as combined
// full-name fields, so they are audit-only and never confirmed matches.
type Poznan struct {
	http   *resty.Client
	logger *zap.Logger
}

func NewPoznan(cfg *config.Config, logger *zap.Logger) *Poznan {
	return &Poznan{
		http:   resty.New().SetBaseURL(cfg.PoznanBaseURL).SetTimeout(cfg.SearchTimeout),
		logger: logger,
	}
}

func (p *Poznan) Name() string { return "Poznan Project" }

func (p *Poznan) RecordTypes() []models.RecordType {
	return []models.RecordType{models.RecordMarriage}
}

func (p *Poznan) DomesticOnly() bool { return false }

func (p *Poznan) Search(ctx context.Context, q match.Query) ([]models.ResultRow, error) {
	params := map[string]string{}
	if q.GivenName != "" {
		params["firstname1"] = q.GivenName
	}
	if q.Surname != "" {
		params["surname1"] = q.Surname
	}
	if q.Years != nil {
		params["yearfrom"] = strconv.Itoa(q.Years.From)
		params["yearto"] = strconv.Itoa(q.Years.To)
	}

	resp, err := p.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/search.php")
	if err != nil {
		return nil, fmt.Errorf("poznan search: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("poznan search: status %d", resp.StatusCode())
	}

	rows := p.parsePage(resp.String())
	p.logger.Debug("Poznan Project results", zap.String("surname", q.Surname), zap.Int("rows", len(rows)))
	return rows, nil
}

func (p *Poznan) parsePage(page string) []models.ResultRow {
	table := tableByID(page, "results")
	if table == "" {
		return nil
	}

	cells, rawRows := tableRows(table)
	var rows []models.ResultRow
	for i, cols := range cells {
		// Groom, Bride, Year, Parish
		if len(cols) < 4 {
			continue
		}
		rows = append(rows, &models.MarriageRow{
			RowCommon: models.RowCommon{
				Year:   cols[2],
				Parish: cols[3],
				Link:   firstLink(rawRows[i]),
				Raw:    "groom: " + cols[0] + ", bride: " + cols[1],
			},
		})
	}
	return rows
}
