package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marek/biopsy-classifier/internal/core"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the PredictionStore interface
type SQLiteStore struct {
	db          *sql.DB
	logger      *zap.Logger
	ttl         time.Duration
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewSQLiteStore creates a new SQLite prediction store
func NewSQLiteStore(dbPath string, logger *zap.Logger, ttl, cleanupFreq time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS predictions (
			id TEXT PRIMARY KEY,
			features TEXT,
			diagnosis TEXT,
			confidence REAL,
			created_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	// Create index on created_at for recency queries and cleanup
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_created_at ON predictions(created_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	store := &SQLiteStore{
		db:          db,
		logger:      logger,
		ttl:         ttl,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	// Start background cleanup
	go store.startCleanupTask()

	return store, nil
}

// Record stores one prediction record
func (s *SQLiteStore) Record(ctx context.Context, record *core.PredictionRecord) error {
	features, err := json.Marshal(record.Features)
	if err != nil {
		return fmt.Errorf("failed to encode features: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO predictions (id, features, diagnosis, confidence, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, record.ID, string(features), record.Diagnosis, record.Confidence, record.CreatedAt.UTC().Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("failed to insert prediction record: %w", err)
	}

	return nil
}

// Recent retrieves up to limit records, newest first
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]*core.PredictionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, features, diagnosis, confidence, created_at
		FROM predictions
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query prediction records: %w", err)
	}
	defer rows.Close()

	var records []*core.PredictionRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Cleanup removes records older than the retention window
func (s *SQLiteStore) Cleanup(ctx context.Context) error {
	cutoff := time.Now().Add(-s.ttl).UTC().Format(time.RFC3339)
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM predictions
		WHERE created_at <= ?
	`, cutoff)

	if err != nil {
		return fmt.Errorf("failed to clean up expired records: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		s.logger.Debug("Cleaned up expired prediction records", zap.Int64("expired_count", rowsAffected))
	}

	return nil
}

// startCleanupTask starts a background task to clean up expired records
func (s *SQLiteStore) startCleanupTask() {
	ticker := time.NewTicker(s.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Cleanup(context.Background()); err != nil {
				s.logger.Error("Failed to clean up prediction store", zap.Error(err))
			}
		case <-s.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and closes the database connection
func (s *SQLiteStore) Stop() {
	close(s.stopCh)
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}

// scanRecord decodes one predictions row
func scanRecord(rows *sql.Rows) (*core.PredictionRecord, error) {
	var record core.PredictionRecord
	var features, createdAt string

	if err := rows.Scan(&record.ID, &features, &record.Diagnosis, &record.Confidence, &createdAt); err != nil {
		return nil, fmt.Errorf("failed to scan prediction record: %w", err)
	}

	if err := json.Unmarshal([]byte(features), &record.Features); err != nil {
		return nil, fmt.Errorf("failed to decode features: %w", err)
	}

	parsed, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
	}
	record.CreatedAt = parsed

	return &record, nil
}
