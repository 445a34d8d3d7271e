// Package history keeps a persistent log of applied wallpapers.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/genricoloni/weatherdesk/internal/domain"
	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store records wallpaper changes in a SQLite database
type Store struct {
	db *gorm.DB
}

// Open connects to the database at path, creating the file, its directory
// and the schema when needed
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&Change{}); err != nil {
		if sqlDB, derr := db.DB(); derr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record inserts a completed change.
// This method satisfies the domain.HistoryRecorder interface
func (s *Store) Record(change domain.WallpaperChange) error {
	if result := s.db.Create(fromDomain(change)); result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert wallpaper change")
	}
	return nil
}

// Recent returns up to limit changes, newest first
func (s *Store) Recent(limit int) ([]Change, error) {
	var changes []Change
	result := s.db.Order("timestamp DESC").Order("id DESC").Limit(limit).Find(&changes)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query wallpaper changes")
	}
	return changes, nil
}

// Prune deletes changes recorded before the given time
func (s *Store) Prune(before time.Time) (int64, error) {
	result := s.db.Where("timestamp < ?", before).Delete(&Change{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old wallpaper changes")
	}
	return result.RowsAffected, nil
}

// Close releases the database handle
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
