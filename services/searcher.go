package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"genesearch/config"
	"genesearch/match"
	"genesearch/models"
	"genesearch/sources"
	"genesearch/storage"
)

// SearchService orchestrates one search pass: persons one at a time, sites
// one at a time, each site call bounded by a timeout. The sequential model
// is deliberate; the sites are community-run and get a politeness pause
// between persons instead of concurrent fan-out.
type SearchService struct {
	Config  *config.Config
	Store   *storage.Store
	Logger  *zap.Logger
	Sources []sources.Source
}

// NewSearchService creates a new search orchestrator.
func NewSearchService(cfg *config.Config, store *storage.Store, logger *zap.Logger, srcs []sources.Source) *SearchService {
	return &SearchService{Config: cfg, Store: store, Logger: logger, Sources: srcs}
}

// RunOptions narrow one triggered run.
type RunOptions struct {
	// Limit caps how many persons are processed (0 = all).
	Limit int `json:"limit"`
	// Random shuffles the order instead of oldest-first.
	Random bool `json:"random"`
	// PersonID restricts the run to a single person ("53" or "@53@").
	PersonID string `json:"person_id"`
	// SkipMatched skips persons that already have stored matches.
	SkipMatched bool `json:"skip_matched"`
}

// Summary totals one run.
type Summary struct {
	RunID            string `json:"run_id"`
	PersonsProcessed int    `json:"persons_processed"`
	PersonsSkipped   int    `json:"persons_skipped"`
	RowsRetrieved    int    `json:"rows_retrieved"`
	MatchesStored    int    `json:"matches_stored"`
	SourceFailures   int    `json:"source_failures"`
}

// RunAll processes every person in order. A failed site or a malformed
// person never aborts the run; context cancellation does. Person selection
// (limit, order, single person) is the caller's business; of opts only
// SkipMatched is consulted here. The service itself holds no per-run state,
// so concurrent RunAll calls do not interfere.
func (s *SearchService) RunAll(ctx context.Context, persons []*models.Person, opts RunOptions) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}
	log := s.Logger.With(zap.String("run_id", summary.RunID))
	log.Info("Starting search run", zap.Int("persons", len(persons)), zap.Int("sources", len(s.Sources)))

	for i, person := range persons {
		if err := ctx.Err(); err != nil {
			log.Warn("Run cancelled", zap.Int("processed", summary.PersonsProcessed))
			return summary, err
		}

		if !person.Valid() {
			log.Warn("Skipping person without usable name", zap.String("person_id", person.ID))
			summary.PersonsSkipped++
			continue
		}

		if opts.SkipMatched {
			has, err := s.Store.HasMatchedRecords(person.ID)
			if err != nil {
				log.Error("Matched-records check failed, person skipped",
					zap.String("person_id", person.ID), zap.Error(err))
				summary.PersonsSkipped++
				continue
			}
			if has {
				log.Debug("Person already has stored matches, skipping",
					zap.String("person_id", person.ID))
				summary.PersonsSkipped++
				continue
			}
		}

		s.runForPerson(ctx, log, person, &summary)
		summary.PersonsProcessed++

		// Politeness pause between persons, skipped after the last one.
		if i < len(persons)-1 && s.Config.PersonPause > 0 {
			select {
			case <-time.After(s.Config.PersonPause):
			case <-ctx.Done():
				return summary, ctx.Err()
			}
		}
	}

	log.Info("Search run complete",
		zap.Int("persons_processed", summary.PersonsProcessed),
		zap.Int("persons_skipped", summary.PersonsSkipped),
		zap.Int("rows_retrieved", summary.RowsRetrieved),
		zap.Int("matches_stored", summary.MatchesStored),
		zap.Int("source_failures", summary.SourceFailures))
	return summary, nil
}

func (s *SearchService) runForPerson(ctx context.Context, log *zap.Logger, person *models.Person, summary *Summary) {
	plog := log.With(
		zap.String("person_id", person.ID),
		zap.String("name", person.GivenName+" "+person.Surname))
	plog.Info("Searching for person")

	queries := match.BuildQueries(person)

	for _, src := range s.Sources {
		if src.DomesticOnly() && !person.HasDomesticConnection() {
			plog.Info("Skipped source, no Polish connection", zap.String("source", src.Name()))
			continue
		}

		for _, q := range queries {
			if !acceptsType(src, q.RecordType) {
				continue
			}
			s.runQuery(ctx, plog, person, src, q, summary)
		}
	}
}

func (s *SearchService) runQuery(ctx context.Context, log *zap.Logger, person *models.Person, src sources.Source, q match.Query, summary *Summary) {
	slog := log.With(zap.String("source", src.Name()), zap.String("record_type", string(q.RecordType)))

	callCtx, cancel := context.WithTimeout(ctx, s.Config.SearchTimeout)
	defer cancel()

	rows, err := src.Search(callCtx, q)
	if err != nil {
		// A failed site query is a per-site outcome, not a run failure:
		// log, count, move on without retrying.
		slog.Warn("Source search failed", zap.Error(err))
		summary.SourceFailures++
		return
	}
	if len(rows) == 0 {
		slog.Debug("No records found")
		return
	}
	slog.Info("Source returned records", zap.Int("rows", len(rows)))

	matched := 0
	for _, row := range rows {
		if err := s.Store.AppendRetrieved(person, row, src.Name()); err != nil {
			slog.Error("Audit log write failed", zap.Error(err))
		}
		summary.RowsRetrieved++

		if !match.IsMatch(person, row) {
			continue
		}
		stored, err := s.Store.UpsertMatch(person, row, src.Name())
		if err != nil {
			slog.Error("Match upsert failed", zap.Error(err))
			continue
		}
		if stored {
			matched++
			summary.MatchesStored++
		}
	}
	if matched > 0 {
		slog.Info("Stored exact matches", zap.Int("matches", matched))
	}
}

func acceptsType(src sources.Source, t models.RecordType) bool {
	for _, rt := range src.RecordTypes() {
		if rt == t {
			return true
		}
	}
	return false
}
