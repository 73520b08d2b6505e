// Package match builds per-site search queries for a person and decides
// whether a raw result row is the same person.
package match

import (
	"strings"

	"genesearch/models"
)

// Year-window offsets around the anchor year, per record type. Marriage has
// no year of its own in the source data, so it is anchored at an estimated
// marriage age of 25 with a wider window.
const (
	birthWindow        = 5
	deathWindow        = 5
	marriageAgeGuess   = 25
	marriageYearWindow = 10
)

// YearWindow is an inclusive year range constraint for a search.
type YearWindow struct {
	From int
	To   int
}

// Query carries the normalized parameters one site search needs. GivenName
// is already reduced to the first name token. Region is the standardized
// voivodeship name, or "" when no region is known — a driver seeing ""
// decides for itself whether to search unconstrained or fan out over every
// region it knows.
type Query struct {
	RecordType models.RecordType
	GivenName  string
	Surname    string
	Years      *YearWindow
	Region     string
}

// HasRegion reports whether the query is constrained to a single region.
func (q Query) HasRegion() bool { return q.Region != "" }

// BuildQuery constructs the query for one record type from a person's
// attributes. An unknown anchor year yields a query without a year window.
func BuildQuery(p *models.Person, recordType models.RecordType) Query {
	q := Query{
		RecordType: recordType,
		GivenName:  models.FirstName(p.GivenName),
		Surname:    strings.TrimSpace(p.Surname),
		Region:     preferredRegion(p),
	}

	switch recordType {
	case models.RecordBirth:
		if p.BirthYear != nil {
			q.Years = &YearWindow{From: *p.BirthYear - birthWindow, To: *p.BirthYear + birthWindow}
		}
	case models.RecordMarriage:
		if p.BirthYear != nil {
			anchor := *p.BirthYear + marriageAgeGuess
			q.Years = &YearWindow{From: anchor - marriageYearWindow, To: anchor + marriageYearWindow}
		}
	case models.RecordDeath:
		if p.DeathYear != nil {
			q.Years = &YearWindow{From: *p.DeathYear - deathWindow, To: *p.DeathYear + deathWindow}
		}
	}

	return q
}

// BuildQueries returns the birth, marriage and death queries for a person.
func BuildQueries(p *models.Person) []Query {
	return []Query{
		BuildQuery(p, models.RecordBirth),
		BuildQuery(p, models.RecordMarriage),
		BuildQuery(p, models.RecordDeath),
	}
}

func preferredRegion(p *models.Person) string {
	if p.BirthRegion != "" {
		return p.BirthRegion
	}
	return p.DeathRegion
}

// IsMatch decides whether a result row is an exact match for the person.
// Only the first token of each given name is compared, case-insensitively;
// surnames are compared in full. No fuzzy matching: a missed spelling
// variant is acceptable, a false positive is not.
func IsMatch(p *models.Person, row models.ResultRow) bool {
	if row == nil {
		return false
	}
	c := row.Common()
	return NamesMatch(p.GivenName, p.Surname, c.GivenName, c.Surname)
}

// NamesMatch is the raw name comparison behind IsMatch, shared with the
// store's defensive re-validation on upsert. Both result fields must be
// non-empty for a positive answer.
func NamesMatch(personGiven, personSurname, resultGiven, resultSurname string) bool {
	if strings.TrimSpace(resultGiven) == "" || strings.TrimSpace(resultSurname) == "" {
		return false
	}

	personFirst := strings.ToLower(strings.TrimSpace(models.FirstName(personGiven)))
	resultFirst := strings.ToLower(strings.TrimSpace(models.FirstName(resultGiven)))

	if personFirst == "" || personFirst != resultFirst {
		return false
	}

	return strings.EqualFold(strings.TrimSpace(personSurname), strings.TrimSpace(resultSurname))
}
