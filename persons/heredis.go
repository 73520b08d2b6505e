package persons

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"genesearch/models"
	"genesearch/regions"
)

// HeredisAdapter reads persons out of a Heredis genealogy database, which
// is a sqlite file with a French-named relational schema. The file is
// opened read-only; nothing here ever writes to it.
type HeredisAdapter struct {
	path     string
	resolver *regions.Resolver
	logger   *zap.Logger
}

func NewHeredisAdapter(path string, resolver *regions.Resolver, logger *zap.Logger) *HeredisAdapter {
	return &HeredisAdapter{path: path, resolver: resolver, logger: logger}
}

type heredisIndividual struct {
	CodeID                 int64
	Prenoms                string
	Surname                string
	XrefMainEventNaissance *int64
	XrefMainEventDeces     *int64
}

type heredisEvent struct {
	DateGed     string
	Ville       string
	Departement string
	Region      string
	Pays        string
}

// Parse extracts all individuals with their birth and death events.
func (a *HeredisAdapter) Parse(ctx context.Context) ([]*models.Person, error) {
	db, err := gorm.Open(sqlite.Open("file:"+a.path+"?mode=ro"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open heredis database: %w", err)
	}

	var individuals []heredisIndividual
	err = db.WithContext(ctx).Raw(`
		SELECT
			i.CodeID AS code_id,
			i.Prenoms AS prenoms,
			n.Nom AS surname,
			i.XrefMainEventNaissance AS xref_main_event_naissance,
			i.XrefMainEventDeces AS xref_main_event_deces
		FROM Individus i
		JOIN Noms n ON i.XrefNom = n.CodeID
		ORDER BY i.CodeID
	`).Scan(&individuals).Error
	if err != nil {
		return nil, fmt.Errorf("read heredis individuals: %w", err)
	}

	var out []*models.Person
	skippedNameless := 0
	skippedUncertain := 0

	for _, indi := range individuals {
		given := strings.TrimSpace(indi.Prenoms)
		surname := strings.TrimSpace(indi.Surname)
		if given == "" && surname == "" {
			skippedNameless++
			continue
		}
		if strings.Contains(given, "?") || strings.Contains(surname, "?") {
			skippedUncertain++
			continue
		}

		p := &models.Person{
			// Heredis ids are numeric; keep the GEDCOM-style @N@ form so
			// both adapters produce interchangeable identifiers.
			ID:        fmt.Sprintf("@%d@", indi.CodeID),
			GivenName: given,
			Surname:   surname,
		}

		var birthEv, deathEv *heredisEvent
		if indi.XrefMainEventNaissance != nil {
			if ev, err := a.loadEvent(ctx, db, *indi.XrefMainEventNaissance); err == nil && ev != nil {
				p.BirthYear = models.ExtractYear(ev.DateGed)
				p.BirthPlace = ev.placeString()
				birthEv = ev
			}
		}
		if indi.XrefMainEventDeces != nil {
			if ev, err := a.loadEvent(ctx, db, *indi.XrefMainEventDeces); err == nil && ev != nil {
				p.DeathYear = models.ExtractYear(ev.DateGed)
				p.DeathPlace = ev.placeString()
				deathEv = ev
			}
		}

		p.BirthRegion = a.resolveRegion(ctx, birthEv, p.BirthPlace)
		p.DeathRegion = a.resolveRegion(ctx, deathEv, p.DeathPlace)
		out = append(out, p)
	}

	if skippedNameless > 0 {
		a.logger.Info("Skipped persons without names", zap.Int("count", skippedNameless))
	}
	if skippedUncertain > 0 {
		a.logger.Info("Skipped persons with uncertain names", zap.Int("count", skippedUncertain))
	}
	return out, nil
}

// resolveRegion tries the event's explicit Region column first; in Heredis
// databases it usually names the voivodeship outright. Only when that fails
// does the full place-string resolver run.
func (a *HeredisAdapter) resolveRegion(ctx context.Context, ev *heredisEvent, place string) string {
	if ev != nil {
		if region, ok := regions.Canonical(ev.Region); ok {
			return region
		}
	}
	return a.resolver.Resolve(ctx, place)
}

func (a *HeredisAdapter) loadEvent(ctx context.Context, db *gorm.DB, eventID int64) (*heredisEvent, error) {
	var ev heredisEvent
	err := db.WithContext(ctx).Raw(`
		SELECT
			e.DateGed AS date_ged,
			l.Ville AS ville,
			l.Departement AS departement,
			l.Region AS region,
			l.Pays AS pays
		FROM Evenements e
		LEFT JOIN Lieux l ON e.XrefLieu = l.CodeID
		WHERE e.CodeID = ?
	`, eventID).Scan(&ev).Error
	if err != nil {
		return nil, fmt.Errorf("read heredis event %d: %w", eventID, err)
	}
	return &ev, nil
}

// placeString rebuilds the conventional comma-separated place format from
// the Heredis location columns.
func (e *heredisEvent) placeString() string {
	var parts []string
	for _, part := range []string{e.Ville, e.Departement, e.Region, e.Pays} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, strings.TrimSpace(part))
		}
	}
	return strings.Join(parts, ", ")
}
