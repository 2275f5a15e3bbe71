package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/marek/biopsy-classifier/internal/adapters/store"
	"github.com/marek/biopsy-classifier/internal/config"
	"github.com/marek/biopsy-classifier/internal/core"
	"go.uber.org/zap"
)

// StoreFactory creates prediction stores based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStore creates a prediction store based on the configuration
func (f *StoreFactory) CreateStore() (core.PredictionStore, error) {
	historyCfg := f.cfg.GetHistory()
	ttl, err := f.cfg.GetDuration("history.ttl")
	if err != nil {
		return nil, fmt.Errorf("invalid history ttl: %w", err)
	}
	cleanupFreq, err := f.cfg.GetDuration("history.cleanup_frequency")
	if err != nil {
		return nil, fmt.Errorf("invalid history cleanup frequency: %w", err)
	}

	switch historyCfg.Type {
	case "memory":
		return store.NewMemoryStore(historyCfg.Capacity, f.logger)
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(historyCfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteStore(historyCfg.SQLitePath, f.logger, ttl, cleanupFreq)
	case "mysql":
		return store.NewMySQLStore(historyCfg.MySQLDSN, f.logger, ttl, cleanupFreq)
	default:
		return nil, fmt.Errorf("unsupported history store type: %s", historyCfg.Type)
	}
}

// IsHistoryEnabled returns whether prediction history is enabled
func (f *StoreFactory) IsHistoryEnabled() bool {
	return f.cfg.GetBool("history.enabled")
}
