package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/marek/biopsy-classifier/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the PredictionStore interface
type MySQLStore struct {
	db          *sql.DB
	logger      *zap.Logger
	ttl         time.Duration
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMySQLStore creates a new MySQL prediction store
func NewMySQLStore(dsn string, logger *zap.Logger, ttl, cleanupFreq time.Duration) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS predictions (
			id VARCHAR(36) PRIMARY KEY,
			features TEXT,
			diagnosis VARCHAR(16),
			confidence FLOAT,
			created_at TIMESTAMP,
			INDEX idx_created_at (created_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	store := &MySQLStore{
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
func (s *MySQLStore) Record(ctx context.Context, record *core.PredictionRecord) error {
	features, err := json.Marshal(record.Features)
	if err != nil {
		return fmt.Errorf("failed to encode features: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO predictions (id, features, diagnosis, confidence, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			features = VALUES(features),
			diagnosis = VALUES(diagnosis),
			confidence = VALUES(confidence),
			created_at = VALUES(created_at)
	`, record.ID, string(features), record.Diagnosis, record.Confidence, record.CreatedAt.UTC().Format("2006-01-02 15:04:05"))

	if err != nil {
		return fmt.Errorf("failed to insert prediction record: %w", err)
	}

	return nil
}

// Recent retrieves up to limit records, newest first
func (s *MySQLStore) Recent(ctx context.Context, limit int) ([]*core.PredictionRecord, error) {
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
		var record core.PredictionRecord
		var features string
		var createdAt time.Time

		if err := rows.Scan(&record.ID, &features, &record.Diagnosis, &record.Confidence, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction record: %w", err)
		}
		if err := json.Unmarshal([]byte(features), &record.Features); err != nil {
			return nil, fmt.Errorf("failed to decode features: %w", err)
		}
		record.CreatedAt = createdAt
		records = append(records, &record)
	}
	return records, rows.Err()
}

// Cleanup removes records older than the retention window
func (s *MySQLStore) Cleanup(ctx context.Context) error {
	cutoff := time.Now().Add(-s.ttl).UTC().Format("2006-01-02 15:04:05")
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
func (s *MySQLStore) startCleanupTask() {
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
func (s *MySQLStore) Stop() {
	close(s.stopCh)
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
