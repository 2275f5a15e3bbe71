package store

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/marek/biopsy-classifier/internal/core"
	"go.uber.org/zap"
)

const defaultCapacity = 512

// MemoryStore is an in-memory implementation of the PredictionStore
// interface, bounded by an LRU so retention is by capacity rather than age
type MemoryStore struct {
	records *lru.Cache[string, *core.PredictionRecord]
	logger  *zap.Logger
}

// NewMemoryStore creates a new in-memory prediction store
func NewMemoryStore(capacity int, logger *zap.Logger) (*MemoryStore, error) {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	records, err := lru.New[string, *core.PredictionRecord](capacity)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{
		records: records,
		logger:  logger,
	}, nil
}

// Record stores one prediction record, evicting the oldest at capacity
func (s *MemoryStore) Record(ctx context.Context, record *core.PredictionRecord) error {
	if evicted := s.records.Add(record.ID, record); evicted {
		s.logger.Debug("Evicted oldest prediction record")
	}
	return nil
}

// Recent retrieves up to limit records, newest first
func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]*core.PredictionRecord, error) {
	// Keys returns oldest first; walk backwards for recency order
	keys := s.records.Keys()
	records := make([]*core.PredictionRecord, 0, limit)
	for i := len(keys) - 1; i >= 0 && len(records) < limit; i-- {
		if record, ok := s.records.Peek(keys[i]); ok {
			records = append(records, record)
		}
	}
	return records, nil
}

// Cleanup is a no-op: the LRU bounds retention by capacity
func (s *MemoryStore) Cleanup(ctx context.Context) error {
	return nil
}

// Stop releases the store
func (s *MemoryStore) Stop() {
	s.records.Purge()
}
