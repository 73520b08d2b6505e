package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"genesearch/models"
)

// CacheStatus is the three-state outcome of a region-cache lookup. A query
// that was geocoded before but yielded no voivodeship is cached as a
// negative result and must not trigger another geocoder call, which is why
// "not found" and "never looked up" are separate states rather than a
// sentinel value.
type CacheStatus int

const (
	NotCached CacheStatus = iota
	CachedFound
	CachedNotFound
)

// CachedRegion is the result of GetCachedRegion. Region is only meaningful
// when Status is CachedFound.
type CachedRegion struct {
	Status CacheStatus
	Region string
}

// GetCachedRegion looks up a geocoder query in the persistent cache, keyed
// by the exact query text.
func (s *Store) GetCachedRegion(query string) (CachedRegion, error) {
	var entry models.RegionCacheEntry
	err := s.db.Where("query = ?", query).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return CachedRegion{Status: NotCached}, nil
	}
	if err != nil {
		return CachedRegion{}, fmt.Errorf("region cache lookup: %w", err)
	}
	if entry.Region == "" {
		return CachedRegion{Status: CachedNotFound}, nil
	}
	return CachedRegion{Status: CachedFound, Region: entry.Region}, nil
}

// SetCachedRegion stores a geocoder outcome, overwriting any previous entry
// for the same query. An empty region records a confirmed "no voivodeship
// found" so the geocoder is never asked about this query again.
func (s *Store) SetCachedRegion(query, region string) error {
	entry := models.RegionCacheEntry{Query: query, Region: region}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "query"}},
		DoUpdates: clause.AssignmentColumns([]string{"region", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("region cache upsert: %w", err)
	}
	return nil
}
