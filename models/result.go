package models

// RecordType classifies a civil-registry record.
type RecordType string

const (
	RecordBirth    RecordType = "births"
	RecordMarriage RecordType = "marriages"
	RecordDeath    RecordType = "deaths"
)

// RowCommon carries the fields every search result row has, whatever the
// record type. Year is kept as text: sites return ranges and approximations
// ("ok. 1880") that must survive round-tripping into the store.
type RowCommon struct {
	Voivodeship string `json:"voivodeship,omitempty"`
	Year        string `json:"year,omitempty"`
	Act         string `json:"act,omitempty"`
	GivenName   string `json:"given_name"`
	Surname     string `json:"surname"`
	Parish      string `json:"parish,omitempty"`
	Locality    string `json:"locality,omitempty"`
	Link        string `json:"link,omitempty"`
	Raw         string `json:"raw,omitempty"`
}

// ResultRow is the closed set of row shapes a source driver can produce.
// Each record type gets its own struct so type-specific columns are fields,
// not keys in an open map.
type ResultRow interface {
	RecordType() RecordType
	Common() *RowCommon
}

// BirthRow is one row of a birth-records result table.
type BirthRow struct {
	RowCommon
	FatherGivenName string `json:"father_given_name,omitempty"`
	MotherGivenName string `json:"mother_given_name,omitempty"`
	MotherSurname   string `json:"mother_surname,omitempty"`
}

func (r *BirthRow) RecordType() RecordType { return RecordBirth }
func (r *BirthRow) Common() *RowCommon     { return &r.RowCommon }

// MarriageRow is one row of a marriage-records result table.
type MarriageRow struct {
	RowCommon
	SpouseGivenName string `json:"spouse_given_name,omitempty"`
	SpouseSurname   string `json:"spouse_surname,omitempty"`
}

func (r *MarriageRow) RecordType() RecordType { return RecordMarriage }
func (r *MarriageRow) Common() *RowCommon     { return &r.RowCommon }

// DeathRow is one row of a death-records result table.
type DeathRow struct {
	RowCommon
	Age string `json:"age,omitempty"`
}

func (r *DeathRow) RecordType() RecordType { return RecordDeath }
func (r *DeathRow) Common() *RowCommon     { return &r.RowCommon }
