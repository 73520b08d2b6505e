package sources

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"genesearch/config"
	"genesearch/match"
	"genesearch/models"
)

// genetekaRowsPerPage is the site's fixed result page size.
const genetekaRowsPerPage = 50

// genetekaCodes maps standardized voivodeship names to the codes the
// Geneteka search form expects.
var genetekaCodes = map[string]string{
	"dolnośląskie":        "01ds",
	"kujawsko-pomorskie":  "02kp",
	"lubelskie":           "03lb",
	"lubuskie":            "04ls",
	"łódzkie":             "05ld",
	"małopolskie":         "06mp",
	"mazowieckie":         "07mz",
	"opolskie":            "08op",
	"podkarpackie":        "09pk",
	"podlaskie":           "10pl",
	"pomorskie":           "11pm",
	"śląskie":             "12sl",
	"świętokrzyskie":      "13sk",
	"warmińsko-mazurskie": "14wm",
	"wielkopolskie":       "15wp",
	"zachodniopomorskie":  "16zp",
}

var genetekaTables = map[models.RecordType]struct {
	bdm     string
	tableID string
}{
	models.RecordBirth:    {"B", "table_b"},
	models.RecordMarriage: {"M", "table_s"},
	models.RecordDeath:    {"D", "table_d"},
}

// Geneteka drives geneteka.genealodzy.pl, the largest of the four sites.
// It is the only driver whose rows carry a separate given name and surname,
// which makes it the only source that can ever produce a confirmed match.
type Geneteka struct {
	http       *resty.Client
	logger     *zap.Logger
	maxPages   int
	recentOnly bool
}

// NewGeneteka creates the Geneteka driver. maxPages 0 means unlimited;
// recentOnly restricts the search to records updated in the last 60 days.
func NewGeneteka(cfg *config.Config, logger *zap.Logger) *Geneteka {
	return &Geneteka{
		http:       resty.New().SetBaseURL(cfg.GenetekaBaseURL).SetTimeout(cfg.SearchTimeout),
		logger:     logger,
		maxPages:   cfg.MaxPages,
		recentOnly: cfg.RecentOnly,
	}
}

func (g *Geneteka) Name() string { return "Geneteka" }

func (g *Geneteka) RecordTypes() []models.RecordType {
	return []models.RecordType{models.RecordBirth, models.RecordMarriage, models.RecordDeath}
}

// DomesticOnly is true: Geneteka indexes Polish registries exclusively.
func (g *Geneteka) DomesticOnly() bool { return true }

// Search runs one typed query. With a known region only that voivodeship is
// searched; without one the search fans out over all sixteen.
func (g *Geneteka) Search(ctx context.Context, q match.Query) ([]models.ResultRow, error) {
	table, ok := genetekaTables[q.RecordType]
	if !ok {
		return nil, fmt.Errorf("geneteka: unsupported record type %q", q.RecordType)
	}

	regions := make(map[string]string)
	if code, ok := genetekaCodes[q.Region]; q.HasRegion() && ok {
		regions[q.Region] = code
	} else {
		for name, code := range genetekaCodes {
			regions[name] = code
		}
		g.logger.Debug("No voivodeship known, searching all",
			zap.String("surname", q.Surname), zap.Int("regions", len(regions)))
	}

	var all []models.ResultRow
	for regionName, regionCode := range regions {
		rows, err := g.searchRegion(ctx, q, table.bdm, table.tableID, regionName, regionCode)
		if err != nil {
			if ctx.Err() != nil {
				return all, ctx.Err()
			}
			g.logger.Warn("Geneteka region search failed",
				zap.String("region", regionName), zap.Error(err))
			continue
		}
		all = append(all, rows...)
	}
	return all, nil
}

func (g *Geneteka) searchRegion(ctx context.Context, q match.Query, bdm, tableID, regionName, regionCode string) ([]models.ResultRow, error) {
	params := map[string]string{
		"op":   "gt",
		"lang": "pol",
		"bdm":  bdm,
		"w":    regionCode,
	}
	if q.Surname != "" {
		params["search_lastname"] = q.Surname
	}
	if q.GivenName != "" {
		params["search_name"] = q.GivenName
	}
	if q.Years != nil {
		params["from_date"] = strconv.Itoa(q.Years.From)
		params["to_date"] = strconv.Itoa(q.Years.To)
	}
	if g.recentOnly {
		params["search_only_recent"] = "1"
	}

	var all []models.ResultRow
	for page := 1; ; page++ {
		params["start"] = strconv.Itoa((page - 1) * genetekaRowsPerPage)

		resp, err := g.http.R().
			SetContext(ctx).
			SetQueryParams(params).
			Get("/index.php")
		if err != nil {
			return all, fmt.Errorf("fetch page %d: %w", page, err)
		}
		if resp.StatusCode() != http.StatusOK {
			return all, fmt.Errorf("page %d: status %d", page, resp.StatusCode())
		}

		rows := g.parsePage(resp.String(), q.RecordType, tableID, regionName)
		if len(rows) == 0 {
			break
		}
		all = append(all, rows...)

		if g.maxPages > 0 && page >= g.maxPages {
			g.logger.Debug("Reached max pages limit", zap.Int("max_pages", g.maxPages))
			break
		}
		if len(rows) < genetekaRowsPerPage {
			break
		}
	}

	if len(all) > 0 {
		g.logger.Debug("Geneteka region results",
			zap.String("region", regionName), zap.String("bdm", bdm), zap.Int("rows", len(all)))
	}
	return all, nil
}

func (g *Geneteka) parsePage(page string, recordType models.RecordType, tableID, regionName string) []models.ResultRow {
	table := tableByID(page, tableID)
	if table == "" {
		return nil
	}

	cells, rawRows := tableRows(table)
	var rows []models.ResultRow
	for i, cols := range cells {
		row := g.parseRow(recordType, cols, rawRows[i], regionName)
		if row != nil {
			rows = append(rows, row)
		}
	}
	return rows
}

// parseRow maps one result-table row onto the typed row for its record
// type. Column layouts differ per table.
func (g *Geneteka) parseRow(recordType models.RecordType, cols []string, rawRow, regionName string) models.ResultRow {
	raw := strings.Join(cols, ", ")

	switch recordType {
	case models.RecordBirth:
		// Rok, Akt, Imię, Nazwisko, Imię ojca, Imię matki, Nazwisko matki,
		// Parafia, Miejscowość, Uwagi
		if len(cols) < 10 {
			return nil
		}
		return &models.BirthRow{
			RowCommon: models.RowCommon{
				Voivodeship: regionName,
				Year:        cols[0],
				Act:         cols[1],
				GivenName:   cols[2],
				Surname:     cols[3],
				Parish:      cols[7],
				Locality:    cols[8],
				Link:        firstLink(rawRow),
				Raw:         raw,
			},
			FatherGivenName: cols[4],
			MotherGivenName: cols[5],
			MotherSurname:   cols[6],
		}
	case models.RecordMarriage:
		// Rok, Akt, Imię, Nazwisko, Imię małżonka, Nazwisko małżonka,
		// Parafia, Miejscowość
		if len(cols) < 8 {
			return nil
		}
		return &models.MarriageRow{
			RowCommon: models.RowCommon{
				Voivodeship: regionName,
				Year:        cols[0],
				Act:         cols[1],
				GivenName:   cols[2],
				Surname:     cols[3],
				Parish:      cols[6],
				Locality:    cols[7],
				Link:        firstLink(rawRow),
				Raw:         raw,
			},
			SpouseGivenName: cols[4],
			SpouseSurname:   cols[5],
		}
	case models.RecordDeath:
		// Rok, Akt, Imię, Nazwisko, Wiek, Parafia, Miejscowość
		if len(cols) < 7 {
			return nil
		}
		return &models.DeathRow{
			RowCommon: models.RowCommon{
				Voivodeship: regionName,
				Year:        cols[0],
				Act:         cols[1],
				GivenName:   cols[2],
				Surname:     cols[3],
				Parish:      cols[5],
				Locality:    cols[6],
				Link:        firstLink(rawRow),
				Raw:         raw,
			},
			Age: cols[4],
		}
	}
	return nil
}
