// Package storage is the persistent record store: the region-resolution
// cache, the audit log of every retrieved row, and the deduplicated matched
// records, all in one local sqlite database.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"genesearch/models"
)

// Store is an explicit handle to the database. Components that need
// persistence receive one; there is no process-wide singleton. Every method
// is a single implicit transaction, so a crash loses at most the in-flight
// call.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
	path   string
}

// Open opens (creating if needed) the sqlite database at path and migrates
// the schema. The parent directory is created when missing.
func Open(path string, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Busy timeout so HTTP read endpoints can overlap a running search's
	// writes without immediate SQLITE_BUSY errors.
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	if err := db.AutoMigrate(&models.RegionCacheEntry{}, &models.RetrievedRecord{}, &models.MatchedRecord{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &Store{db: db, logger: log, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// DB exposes the underlying handle for read-only query endpoints.
func (s *Store) DB() *gorm.DB { return s.db }
