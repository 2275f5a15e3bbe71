package factory

import (
	"fmt"

	"github.com/marek/biopsy-classifier/internal/adapters/logreg"
	"github.com/marek/biopsy-classifier/internal/adapters/tree"
	"github.com/marek/biopsy-classifier/internal/config"
	"github.com/marek/biopsy-classifier/internal/core"
	"go.uber.org/zap"
)

// ClassifierFactory creates classifiers based on configuration
type ClassifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClassifier creates an untrained classifier of the configured type
func (f *ClassifierFactory) CreateClassifier() (core.Classifier, error) {
	modelCfg := f.cfg.GetModel()

	switch modelCfg.Type {
	case "decision_tree":
		return tree.New(modelCfg.MaxDepth), nil
	case "logistic_regression":
		return logreg.New(modelCfg.LearningRate, modelCfg.Epochs), nil
	default:
		return nil, fmt.Errorf("unsupported model type: %s", modelCfg.Type)
	}
}
