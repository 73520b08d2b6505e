package persons

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genesearch/models"
)

func intPtr(v int) *int { return &v }

func TestFilterByCutoff(t *testing.T) {
	list := []*models.Person{
		{ID: "@1@", BirthYear: intPtr(1880)},
		{ID: "@2@", BirthYear: intPtr(1978)},
		{ID: "@3@", BirthYear: intPtr(1979)},
		{ID: "@4@"}, // no birth year passes
	}

	out := FilterByCutoff(list, 1978)
	require.Len(t, out, 3)
	assert.Equal(t, "@1@", out[0].ID)
	assert.Equal(t, "@2@", out[1].ID, "cutoff year itself is inclusive")
	assert.Equal(t, "@4@", out[2].ID)
}

func TestSortByBirthYear(t *testing.T) {
	list := []*models.Person{
		{ID: "@a@"},
		{ID: "@b@", BirthYear: intPtr(1920)},
		{ID: "@c@", BirthYear: intPtr(1850)},
		{ID: "@d@"},
	}

	SortByBirthYear(list)

	assert.Equal(t, "@c@", list[0].ID)
	assert.Equal(t, "@b@", list[1].ID)
	// Persons without a birth year keep their relative order at the end.
	assert.Equal(t, "@a@", list[2].ID)
	assert.Equal(t, "@d@", list[3].ID)
}

func TestFindByID(t *testing.T) {
	list := []*models.Person{
		{ID: "@53@", GivenName: "Jan"},
		{ID: "@54@", GivenName: "Anna"},
	}

	for _, id := range []string{"@53@", "53", "53@", "@53"} {
		p := FindByID(list, id)
		require.NotNil(t, p, id)
		assert.Equal(t, "Jan", p.GivenName)
	}

	assert.Nil(t, FindByID(list, "99"))
	assert.Nil(t, FindByID(list, ""))
}

func TestSplitGedcomName(t *testing.T) {
	tests := []struct {
		name    string
		given   string
		surname string
	}{
		{"Jan Walenty /Nowak/", "Jan Walenty", "Nowak"},
		{"Jan /Nowak", "Jan", "Nowak"},
		{"/Nowak/", "", "Nowak"},
		{"Jan", "Jan", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		given, surname := splitGedcomName(tt.name)
		assert.Equal(t, tt.given, given, tt.name)
		assert.Equal(t, tt.surname, surname, tt.name)
	}
}
