package models

import (
	"regexp"
	"strings"
)

var yearRegex = regexp.MustCompile(`\b(1\d{3}|20\d{2})\b`)

// Person represents one individual from a genealogy data source.
//
// BirthRegion/DeathRegion are standardized voivodeship names and are only
// ever set via the region resolver, never directly by an adapter.
type Person struct {
	ID        string `json:"id"`
	GivenName string `json:"given_name"`
	Surname   string `json:"surname"`

	BirthYear *int `json:"birth_year,omitempty"`
	DeathYear *int `json:"death_year,omitempty"`

	BirthPlace string `json:"birth_place,omitempty"`
	DeathPlace string `json:"death_place,omitempty"`

	BirthRegion string `json:"birth_region,omitempty"`
	DeathRegion string `json:"death_region,omitempty"`

	FatherName string `json:"father_name,omitempty"`
	MotherName string `json:"mother_name,omitempty"`
}

// Valid reports whether the person carries at least one usable name.
func (p *Person) Valid() bool {
	return strings.TrimSpace(p.GivenName) != "" || strings.TrimSpace(p.Surname) != ""
}

// HasDomesticConnection reports whether the person plausibly has records in
// Polish registries. It is true when a voivodeship is known, when a place
// string names Poland, or when no location is known at all. Treating missing
// location data as a Polish connection is a deliberate policy choice: it
// errs on the side of searching too much rather than too little.
func (p *Person) HasDomesticConnection() bool {
	if p.BirthRegion != "" || p.DeathRegion != "" {
		return true
	}

	if p.BirthPlace == "" && p.DeathPlace == "" {
		return true
	}

	for _, place := range []string{p.BirthPlace, p.DeathPlace} {
		if place == "" {
			continue
		}
		upper := strings.ToUpper(place)
		if strings.Contains(upper, "POLAND") || strings.Contains(upper, "POLSKA") || strings.Contains(upper, "POL") {
			return true
		}
	}

	return false
}

// ExtractYear pulls the first plausible four-digit year (1000-2099) out of a
// free-text date such as "20 MAR 1918". Returns nil when none is present.
func ExtractYear(dateText string) *int {
	m := yearRegex.FindString(dateText)
	if m == "" {
		return nil
	}
	y := 0
	for _, r := range m {
		y = y*10 + int(r-'0')
	}
	return &y
}

// FirstName returns the first token of a given-name string, so multi-name
// entries like "Jan Walenty" turn into "Jan". Empty input yields "".
func FirstName(fullName string) string {
	fields := strings.Fields(strings.TrimSpace(fullName))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
