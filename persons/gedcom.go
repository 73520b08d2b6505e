// Package persons contains the person-source adapters. Both adapters
// produce the same Person shape, with voivodeships resolved via the region
// resolver before the persons are handed to the search pipeline.
package persons

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/iand/gedcom"
	"go.uber.org/zap"

	"genesearch/models"
	"genesearch/regions"
)

// GedcomAdapter reads persons from a GEDCOM export.
type GedcomAdapter struct {
	path     string
	resolver *regions.Resolver
	logger   *zap.Logger
}

func NewGedcomAdapter(path string, resolver *regions.Resolver, logger *zap.Logger) *GedcomAdapter {
	return &GedcomAdapter{path: path, resolver: resolver, logger: logger}
}

// Parse decodes the GEDCOM file into persons. Individuals without any name
// and individuals whose names carry the uncertainty marker "?" are skipped
// and counted; the match policy assumes clean names.
func (a *GedcomAdapter) Parse(ctx context.Context) ([]*models.Person, error) {
	f, err := os.Open(a.path)
	if err != nil {
		return nil, fmt.Errorf("open gedcom file: %w", err)
	}
	defer f.Close()

	g, err := gedcom.NewDecoder(f).Decode()
	if err != nil {
		return nil, fmt.Errorf("decode gedcom file: %w", err)
	}

	var out []*models.Person
	skippedNameless := 0
	skippedUncertain := 0

	for _, indi := range g.Individual {
		person := a.extractPerson(ctx, indi)
		if person == nil {
			skippedNameless++
			continue
		}
		if strings.Contains(person.GivenName, "?") || strings.Contains(person.Surname, "?") {
			skippedUncertain++
			continue
		}
		out = append(out, person)
	}

	if skippedNameless > 0 {
		a.logger.Info("Skipped persons without names", zap.Int("count", skippedNameless))
	}
	if skippedUncertain > 0 {
		a.logger.Info("Skipped persons with uncertain names", zap.Int("count", skippedUncertain))
	}
	return out, nil
}

func (a *GedcomAdapter) extractPerson(ctx context.Context, indi *gedcom.IndividualRecord) *models.Person {
	given, surname := "", ""
	if len(indi.Name) > 0 {
		given, surname = splitGedcomName(indi.Name[0].Name)
	}
	if given == "" && surname == "" {
		return nil
	}

	p := &models.Person{
		ID:        indi.Xref,
		GivenName: given,
		Surname:   surname,
	}

	for _, ev := range indi.Event {
		switch ev.Tag {
		case "BIRT":
			p.BirthYear = models.ExtractYear(ev.Date)
			p.BirthPlace = strings.TrimSpace(ev.Place.Name)
		case "DEAT":
			p.DeathYear = models.ExtractYear(ev.Date)
			p.DeathPlace = strings.TrimSpace(ev.Place.Name)
		}
	}

	p.BirthRegion = a.resolver.Resolve(ctx, p.BirthPlace)
	p.DeathRegion = a.resolver.Resolve(ctx, p.DeathPlace)
	return p
}

// splitGedcomName splits the GEDCOM "Given /Surname/" convention.
func splitGedcomName(name string) (given, surname string) {
	if i := strings.Index(name, "/"); i >= 0 {
		given = strings.TrimSpace(name[:i])
		rest := name[i+1:]
		if j := strings.Index(rest, "/"); j >= 0 {
			surname = strings.TrimSpace(rest[:j])
		} else {
			surname = strings.TrimSpace(rest)
		}
		return given, surname
	}
	return strings.TrimSpace(name), ""
}
