package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"genesearch/match"
	"genesearch/models"
)

// matchTupleColumns is the uniqueness key shared by the retrieved and
// matched tables: one logical row per person, source, record type, year,
// parish and result name pair.
var matchTupleColumns = []clause.Column{
	{Name: "person_id"},
	{Name: "source"},
	{Name: "record_type"},
	{Name: "year"},
	{Name: "parish"},
	{Name: "result_given_name"},
	{Name: "result_surname"},
}

var matchTupleUpdates = []string{
	"person_given_name", "person_surname", "voivodeship", "act",
	"father_given_name", "mother_given_name", "mother_surname",
	"spouse_given_name", "spouse_surname",
	"locality", "link", "raw_data", "found_at", "updated_at",
}

func buildRecordFields(p *models.Person, row models.ResultRow, source string) models.RetrievedRecord {
	c := row.Common()

	rec := models.RetrievedRecord{
		PersonID:        p.ID,
		PersonGivenName: p.GivenName,
		PersonSurname:   p.Surname,
		RecordType:      string(row.RecordType()),
		Source:          source,
		Voivodeship:     c.Voivodeship,
		Year:            c.Year,
		Act:             c.Act,
		ResultGivenName: c.GivenName,
		ResultSurname:   c.Surname,
		Parish:          c.Parish,
		Locality:        c.Locality,
		Link:            c.Link,
		FoundAt:         time.Now().UTC(),
	}

	switch r := row.(type) {
	case *models.BirthRow:
		rec.FatherGivenName = r.FatherGivenName
		rec.MotherGivenName = r.MotherGivenName
		rec.MotherSurname = r.MotherSurname
	case *models.MarriageRow:
		rec.SpouseGivenName = r.SpouseGivenName
		rec.SpouseSurname = r.SpouseSurname
	}

	if raw, err := json.Marshal(row); err == nil {
		rec.RawData = raw
	}

	return rec
}

// AppendRetrieved writes one retrieved row to the audit log, match or not.
// Retrieving the same logical row again overwrites it and refreshes FoundAt.
func (s *Store) AppendRetrieved(p *models.Person, row models.ResultRow, source string) error {
	rec := buildRecordFields(p, row, source)
	err := s.db.Clauses(clause.OnConflict{
		Columns:   matchTupleColumns,
		DoUpdates: clause.AssignmentColumns(matchTupleUpdates),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("append retrieved record: %w", err)
	}
	return nil
}

// UpsertMatch persists a confirmed match. The name comparison is re-run here
// so a malformed row can never be forced into the matched table: rows with a
// missing name pair or a name mismatch return false without touching the
// database. Repeat upserts of the same tuple overwrite and refresh FoundAt.
func (s *Store) UpsertMatch(p *models.Person, row models.ResultRow, source string) (bool, error) {
	c := row.Common()
	if !match.NamesMatch(p.GivenName, p.Surname, c.GivenName, c.Surname) {
		return false, nil
	}

	retrieved := buildRecordFields(p, row, source)
	rec := models.MatchedRecord(retrieved)

	err := s.db.Clauses(clause.OnConflict{
		Columns:   matchTupleColumns,
		DoUpdates: clause.AssignmentColumns(matchTupleUpdates),
	}).Create(&rec).Error
	if err != nil {
		return false, fmt.Errorf("upsert matched record: %w", err)
	}
	return true, nil
}

// HasMatchedRecords reports whether any match is stored for the person,
// letting a caller skip persons that are already fully resolved.
func (s *Store) HasMatchedRecords(personID string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.MatchedRecord{}).Where("person_id = ?", personID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count matched records: %w", err)
	}
	return count > 0, nil
}

// MatchFilter narrows ListMatches. Zero values mean "no constraint".
type MatchFilter struct {
	PersonID   string
	Source     string
	RecordType string
	Limit      int
}

// ListMatches returns stored matches, newest first.
func (s *Store) ListMatches(f MatchFilter) ([]models.MatchedRecord, error) {
	q := s.db.Model(&models.MatchedRecord{})
	if f.PersonID != "" {
		q = q.Where("person_id = ?", f.PersonID)
	}
	if f.Source != "" {
		q = q.Where("source = ?", f.Source)
	}
	if f.RecordType != "" {
		q = q.Where("record_type = ?", f.RecordType)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var matches []models.MatchedRecord
	if err := q.Order("found_at desc").Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("list matched records: %w", err)
	}
	return matches, nil
}

// ListRetrieved returns audit-log rows for a person, newest first.
func (s *Store) ListRetrieved(personID string, limit int) ([]models.RetrievedRecord, error) {
	q := s.db.Model(&models.RetrievedRecord{}).Where("person_id = ?", personID)
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []models.RetrievedRecord
	if err := q.Order("found_at desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list retrieved records: %w", err)
	}
	return rows, nil
}
