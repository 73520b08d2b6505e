// Package sources contains the drivers for the external genealogical record
// sites. Each driver turns a normalized query into raw result rows; deciding
// what a row means is the caller's business.
package sources

import (
	"context"

	"genesearch/match"
	"genesearch/models"
)

// Source is the interface every site driver implements.
type Source interface {
	// Name returns the source's display name, e.g. "Geneteka". It is also
	// the value stored in the records' source column.
	Name() string

	// RecordTypes lists which typed queries this site accepts. Sites with a
	// single undifferentiated search form expose exactly one type.
	RecordTypes() []models.RecordType

	// DomesticOnly reports whether the site only holds Polish registries,
	// in which case persons without a domestic connection are skipped.
	DomesticOnly() bool

	// Search runs one query and returns the raw rows. An error means the
	// site could not be searched at all for this query; partial results
	// with a nil error are normal.
	Search(ctx context.Context, q match.Query) ([]models.ResultRow, error)
}
