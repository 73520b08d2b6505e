package sources

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"genesearch/config"
	"genesearch/match"
	"genesearch/models"
)

var ptgRowRegex = regexp.MustCompile(`(?s)<div[^>]*class="[^"]*ptg-search-row[^"]*"[^>]*>(.*?)</div>`)

// PTG drives the PomGenBaza index at ptg.gda.pl. Its single search form has
// no record-type breakdown, and result rows carry one combined name field,
// so rows land in the audit log but never qualify as confirmed matches.
type PTG struct {
	http   *resty.Client
	logger *zap.Logger
}

func NewPTG(cfg *config.Config, logger *zap.Logger) *PTG {
	return &PTG{
		http:   resty.New().SetBaseURL(cfg.PTGBaseURL).SetTimeout(cfg.SearchTimeout),
		logger: logger,
	}
}

func (p *PTG) Name() string { return "PTG PomGenBaza" }

// RecordTypes: one undifferentiated form, anchored on the birth window.
func (p *PTG) RecordTypes() []models.RecordType {
	return []models.RecordType{models.RecordBirth}
}

func (p *PTG) DomesticOnly() bool { return false }

func (p *PTG) Search(ctx context.Context, q match.Query) ([]models.ResultRow, error) {
	params := map[string]string{}
	if q.GivenName != "" {
		params["mim"] = q.GivenName
	}
	if q.Surname != "" {
		params["mnz"] = q.Surname
	}
	if q.Years != nil {
		params["ode"] = strconv.Itoa(q.Years.From)
		params["doe"] = strconv.Itoa(q.Years.To)
	}

	resp, err := p.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/index.php")
	if err != nil {
		return nil, fmt.Errorf("ptg search: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("ptg search: status %d", resp.StatusCode())
	}

	rows := p.parsePage(resp.String())
	p.logger.Debug("PTG results", zap.String("surname", q.Surname), zap.Int("rows", len(rows)))
	return rows, nil
}

func (p *PTG) parsePage(page string) []models.ResultRow {
	// Row divs only ever appear inside the results container, so its
	// presence is checked but the rows are matched over the whole page;
	// the container div nests and is not regexp territory.
	if !strings.Contains(page, `id="ptgSearchResults"`) {
		return nil
	}

	var rows []models.ResultRow
	for _, rowMatch := range ptgRowRegex.FindAllStringSubmatch(page, -1) {
		name := spanByClass(rowMatch[1], "name")
		year := spanByClass(rowMatch[1], "year")
		parish := spanByClass(rowMatch[1], "parish")
		if name == "" && year == "" && parish == "" {
			continue
		}
		// Combined name field only: GivenName/Surname stay empty and the
		// match policy rejects the row by construction.
		rows = append(rows, &models.BirthRow{
			RowCommon: models.RowCommon{
				Year:   year,
				Parish: parish,
				Raw:    name,
			},
		})
	}
	return rows
}

// spanByClass extracts the text of the first <span class="..."> in a chunk.
func spanByClass(markup, class string) string {
	re := regexp.MustCompile(`(?s)<span[^>]*class="[^"]*` + regexp.QuoteMeta(class) + `[^"]*"[^>]*>(.*?)</span>`)
	m := re.FindStringSubmatch(markup)
	if m == nil {
		return ""
	}
	return cellText(m[1])
}
