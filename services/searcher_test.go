package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"genesearch/config"
	"genesearch/match"
	"genesearch/models"
	"genesearch/sources"
	"genesearch/storage"
)

// stubSource replays canned rows and records the queries it received.
type stubSource struct {
	name         string
	types        []models.RecordType
	domesticOnly bool
	rows         map[models.RecordType][]models.ResultRow
	err          error

	mu      sync.Mutex
	queries []match.Query
}

func (s *stubSource) Name() string                    { return s.name }
func (s *stubSource) RecordTypes() []models.RecordType { return s.types }
func (s *stubSource) DomesticOnly() bool              { return s.domesticOnly }

func (s *stubSource) Search(_ context.Context, q match.Query) ([]models.ResultRow, error) {
	s.mu.Lock()
	s.queries = append(s.queries, q)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.rows[q.RecordType], nil
}

func testService(t *testing.T, srcs ...sources.Source) *SearchService {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	cfg := &config.Config{
		SearchTimeout: 5 * time.Second,
		PersonPause:   0,
	}
	return NewSearchService(cfg, store, zap.NewNop(), srcs)
}

func intPtr(v int) *int { return &v }

func krakowPerson() *models.Person {
	return &models.Person{
		ID:          "@53@",
		GivenName:   "Jan Walenty",
		Surname:     "Nowak",
		BirthYear:   intPtr(1880),
		BirthPlace:  "Kraków, , , MAŁOPOLSKIE, Polska,",
		BirthRegion: "małopolskie",
	}
}

func krakowBirthRow(givenName string) *models.BirthRow {
	return &models.BirthRow{
		RowCommon: models.RowCommon{
			Voivodeship: "małopolskie",
			Year:        "1881",
			Act:         "12",
			GivenName:   givenName,
			Surname:     "Nowak",
			Parish:      "Kraków św. Anny",
			Locality:    "Kraków",
		},
		FatherGivenName: "Walenty",
	}
}

func TestRunAllStoresExactMatchOnce(t *testing.T) {
	src := &stubSource{
		name:  "Geneteka",
		types: []models.RecordType{models.RecordBirth, models.RecordMarriage, models.RecordDeath},
		rows: map[models.RecordType][]models.ResultRow{
			models.RecordBirth: {
				krakowBirthRow("Jan"),
				krakowBirthRow("Janusz"), // near miss, audit only
			},
		},
	}
	svc := testService(t, src)
	person := krakowPerson()

	summary, err := svc.RunAll(context.Background(), []*models.Person{person}, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.PersonsProcessed)
	assert.Equal(t, 2, summary.RowsRetrieved)
	assert.Equal(t, 1, summary.MatchesStored)
	assert.NotEmpty(t, summary.RunID)

	// One typed query per record type, birth window anchored at 1880±5.
	require.Len(t, src.queries, 3)
	birth := src.queries[0]
	assert.Equal(t, models.RecordBirth, birth.RecordType)
	assert.Equal(t, "Jan", birth.GivenName)
	assert.Equal(t, "Nowak", birth.Surname)
	require.NotNil(t, birth.Years)
	assert.Equal(t, 1875, birth.Years.From)
	assert.Equal(t, 1885, birth.Years.To)
	assert.Equal(t, "małopolskie", birth.Region)

	matches, err := svc.Store.ListMatches(storage.MatchFilter{PersonID: person.ID})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Jan", matches[0].ResultGivenName)

	retrieved, err := svc.Store.ListRetrieved(person.ID, 0)
	require.NoError(t, err)
	assert.Len(t, retrieved, 2, "the near miss stays in the audit log")
}

func TestRunAllRerunDoesNotDuplicate(t *testing.T) {
	src := &stubSource{
		name:  "Geneteka",
		types: []models.RecordType{models.RecordBirth},
		rows: map[models.RecordType][]models.ResultRow{
			models.RecordBirth: {krakowBirthRow("Jan")},
		},
	}
	svc := testService(t, src)
	person := krakowPerson()

	_, err := svc.RunAll(context.Background(), []*models.Person{person}, RunOptions{})
	require.NoError(t, err)
	_, err = svc.RunAll(context.Background(), []*models.Person{person}, RunOptions{})
	require.NoError(t, err)

	matches, err := svc.Store.ListMatches(storage.MatchFilter{PersonID: person.ID})
	require.NoError(t, err)
	assert.Len(t, matches, 1, "rerunning the same search must not duplicate matches")
}

func TestRunAllDomesticGate(t *testing.T) {
	domestic := &stubSource{name: "Geneteka", domesticOnly: true,
		types: []models.RecordType{models.RecordBirth}}
	svc := testService(t, domestic)

	abroad := krakowPerson()
	abroad.BirthPlace = "Berlin, , , , Deutschland,"
	abroad.BirthRegion = ""

	summary, err := svc.RunAll(context.Background(), []*models.Person{abroad}, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.PersonsProcessed)
	assert.Empty(t, domestic.queries, "a Poland-only site is skipped for persons abroad")
}

func TestRunAllSkipsInvalidPersons(t *testing.T) {
	src := &stubSource{name: "Geneteka", types: []models.RecordType{models.RecordBirth}}
	svc := testService(t, src)

	persons := []*models.Person{
		{ID: "@1@"},
		{ID: "@2@", GivenName: "   ", Surname: ""},
		krakowPerson(),
	}

	summary, err := svc.RunAll(context.Background(), persons, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.PersonsSkipped)
	assert.Equal(t, 1, summary.PersonsProcessed)
}

func TestRunAllSkipMatched(t *testing.T) {
	src := &stubSource{
		name:  "Geneteka",
		types: []models.RecordType{models.RecordBirth},
		rows: map[models.RecordType][]models.ResultRow{
			models.RecordBirth: {krakowBirthRow("Jan")},
		},
	}
	svc := testService(t, src)
	person := krakowPerson()

	summary, err := svc.RunAll(context.Background(), []*models.Person{person}, RunOptions{SkipMatched: true})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.PersonsProcessed)

	summary, err = svc.RunAll(context.Background(), []*models.Person{person}, RunOptions{SkipMatched: true})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.PersonsProcessed)
	assert.Equal(t, 1, summary.PersonsSkipped)

	// The option is read per call, not retained on the service: a later run
	// without it processes the person again.
	summary, err = svc.RunAll(context.Background(), []*models.Person{person}, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.PersonsProcessed)
}

func TestRunAllConcurrentTriggers(t *testing.T) {
	src := &stubSource{
		name:  "Geneteka",
		types: []models.RecordType{models.RecordBirth},
		rows: map[models.RecordType][]models.ResultRow{
			models.RecordBirth: {krakowBirthRow("Jan")},
		},
	}
	svc := testService(t, src)
	person := krakowPerson()

	// Overlapping runs with different options must not interfere: the
	// service holds no per-run state for them to collide on.
	var wg sync.WaitGroup
	for _, opts := range []RunOptions{{}, {SkipMatched: true}} {
		wg.Add(1)
		go func(opts RunOptions) {
			defer wg.Done()
			_, err := svc.RunAll(context.Background(), []*models.Person{person}, opts)
			assert.NoError(t, err)
		}(opts)
	}
	wg.Wait()

	matches, err := svc.Store.ListMatches(storage.MatchFilter{PersonID: person.ID})
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestRunAllSourceFailureIsSoft(t *testing.T) {
	failing := &stubSource{
		name:  "PTG",
		types: []models.RecordType{models.RecordBirth},
		err:   errors.New("status 503"),
	}
	working := &stubSource{
		name:  "Geneteka",
		types: []models.RecordType{models.RecordBirth},
		rows: map[models.RecordType][]models.ResultRow{
			models.RecordBirth: {krakowBirthRow("Jan")},
		},
	}
	svc := testService(t, failing, working)

	summary, err := svc.RunAll(context.Background(), []*models.Person{krakowPerson()}, RunOptions{})
	require.NoError(t, err, "one failing site must not abort the run")
	assert.Equal(t, 1, summary.SourceFailures)
	assert.Equal(t, 1, summary.MatchesStored)
}

func TestRunAllCancelled(t *testing.T) {
	src := &stubSource{name: "Geneteka", types: []models.RecordType{models.RecordBirth}}
	svc := testService(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.RunAll(ctx, []*models.Person{krakowPerson()}, RunOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, src.queries)
}
