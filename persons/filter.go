package persons

import (
	"sort"

	"genesearch/models"
)

// FilterByCutoff drops persons born after the cutoff year; they are assumed
// to be alive and are never searched. Persons without a birth year pass.
func FilterByCutoff(list []*models.Person, cutoffYear int) []*models.Person {
	var out []*models.Person
	for _, p := range list {
		if p.BirthYear != nil && *p.BirthYear > cutoffYear {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortByBirthYear orders persons oldest first, those without a birth year
// last. Older persons are likelier to have indexed records, so they are the
// better use of a bounded run.
func SortByBirthYear(list []*models.Person) {
	sort.SliceStable(list, func(i, j int) bool {
		yi, yj := list[i].BirthYear, list[j].BirthYear
		if yi == nil {
			return false
		}
		if yj == nil {
			return true
		}
		return *yi < *yj
	})
}

// FindByID returns the person with the given id, accepting both "53" and
// "@53@" forms, or nil.
func FindByID(list []*models.Person, id string) *models.Person {
	if id == "" {
		return nil
	}
	if id[0] != '@' {
		id = "@" + id
	}
	if id[len(id)-1] != '@' {
		id = id + "@"
	}
	for _, p := range list {
		if p.ID == id {
			return p
		}
	}
	return nil
}
