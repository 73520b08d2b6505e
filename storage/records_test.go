package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"genesearch/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	return store
}

func testPerson() *models.Person {
	return &models.Person{ID: "@53@", GivenName: "Jan Walenty", Surname: "Nowak"}
}

func testBirthRow() *models.BirthRow {
	return &models.BirthRow{
		RowCommon: models.RowCommon{
			Voivodeship: "małopolskie",
			Year:        "1881",
			Act:         "12",
			GivenName:   "Jan",
			Surname:     "Nowak",
			Parish:      "Kraków św. Anny",
			Locality:    "Kraków",
		},
		FatherGivenName: "Walenty",
		MotherGivenName: "Anna",
		MotherSurname:   "Wiśniewska",
	}
}

func TestUpsertMatchIdempotent(t *testing.T) {
	store := testStore(t)
	person := testPerson()
	row := testBirthRow()

	stored, err := store.UpsertMatch(person, row, "Geneteka")
	require.NoError(t, err)
	assert.True(t, stored)

	first, err := store.ListMatches(MatchFilter{PersonID: person.ID})
	require.NoError(t, err)
	require.Len(t, first, 1)

	stored, err = store.UpsertMatch(person, row, "Geneteka")
	require.NoError(t, err)
	assert.True(t, stored)

	second, err := store.ListMatches(MatchFilter{PersonID: person.ID})
	require.NoError(t, err)
	require.Len(t, second, 1, "repeat upsert must not duplicate")
	assert.False(t, second[0].FoundAt.Before(first[0].FoundAt), "repeat upsert refreshes the timestamp")
	assert.Equal(t, "Jan", second[0].ResultGivenName)
	assert.Equal(t, "Walenty", second[0].FatherGivenName)
}

func TestUpsertMatchRejectsMalformedRows(t *testing.T) {
	store := testStore(t)
	person := testPerson()

	t.Run("missing name pair", func(t *testing.T) {
		row := testBirthRow()
		row.GivenName = ""
		stored, err := store.UpsertMatch(person, row, "Geneteka")
		require.NoError(t, err)
		assert.False(t, stored)
	})

	t.Run("mismatched names", func(t *testing.T) {
		row := testBirthRow()
		row.GivenName = "Janusz"
		stored, err := store.UpsertMatch(person, row, "Geneteka")
		require.NoError(t, err)
		assert.False(t, stored)
	})

	matches, err := store.ListMatches(MatchFilter{PersonID: person.ID})
	require.NoError(t, err)
	assert.Empty(t, matches, "rejected rows must not touch the matched table")
}

func TestAppendRetrievedOverwrites(t *testing.T) {
	store := testStore(t)
	person := testPerson()
	row := testBirthRow()

	require.NoError(t, store.AppendRetrieved(person, row, "Geneteka"))
	require.NoError(t, store.AppendRetrieved(person, row, "Geneteka"))

	rows, err := store.ListRetrieved(person.ID, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "same logical row must overwrite, not duplicate")

	// A different year is a different logical row.
	other := testBirthRow()
	other.Year = "1882"
	require.NoError(t, store.AppendRetrieved(person, other, "Geneteka"))

	rows, err = store.ListRetrieved(person.ID, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestAppendRetrievedKeepsNonMatches(t *testing.T) {
	store := testStore(t)
	person := testPerson()
	row := testBirthRow()
	row.GivenName = "Stanisław"

	require.NoError(t, store.AppendRetrieved(person, row, "Geneteka"))

	rows, err := store.ListRetrieved(person.ID, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "the audit log stores every retrieved row, match or not")
}

func TestHasMatchedRecords(t *testing.T) {
	store := testStore(t)
	person := testPerson()

	has, err := store.HasMatchedRecords(person.ID)
	require.NoError(t, err)
	assert.False(t, has)

	stored, err := store.UpsertMatch(person, testBirthRow(), "Geneteka")
	require.NoError(t, err)
	require.True(t, stored)

	has, err = store.HasMatchedRecords(person.ID)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = store.HasMatchedRecords("@unknown@")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRegionCacheThreeStates(t *testing.T) {
	store := testStore(t)

	res, err := store.GetCachedRegion("Kraków")
	require.NoError(t, err)
	assert.Equal(t, NotCached, res.Status)

	require.NoError(t, store.SetCachedRegion("Kraków", "małopolskie"))
	res, err = store.GetCachedRegion("Kraków")
	require.NoError(t, err)
	assert.Equal(t, CachedFound, res.Status)
	assert.Equal(t, "małopolskie", res.Region)

	// A confirmed negative is cached and distinguishable from "never asked".
	require.NoError(t, store.SetCachedRegion("Atlantis", ""))
	res, err = store.GetCachedRegion("Atlantis")
	require.NoError(t, err)
	assert.Equal(t, CachedNotFound, res.Status)

	// Overwriting an entry is an upsert, not an insert conflict.
	require.NoError(t, store.SetCachedRegion("Kraków", "małopolskie"))
	res, err = store.GetCachedRegion("Kraków")
	require.NoError(t, err)
	assert.Equal(t, CachedFound, res.Status)
}
