package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/marek/biopsy-classifier/internal/config"
	"github.com/marek/biopsy-classifier/internal/core"
	"github.com/marek/biopsy-classifier/internal/factory"
	"github.com/marek/biopsy-classifier/internal/logging"
	"github.com/marek/biopsy-classifier/internal/ports"
	"github.com/marek/biopsy-classifier/internal/server"
	"github.com/marek/biopsy-classifier/internal/trainer"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}

	// Register the classifier, bootstrapped to the ready state: an existing
	// model file is loaded, otherwise one training run happens here, before
	// the server is constructed
	if err := container.Provide(func(f *factory.ClassifierFactory, cfg *config.Config, logger *zap.Logger) (core.Classifier, error) {
		classifier, err := f.CreateClassifier()
		if err != nil {
			return nil, err
		}
		modelCfg := cfg.GetModel()
		datasetCfg := cfg.GetDataset()
		if err := trainer.Bootstrap(classifier, logger, datasetCfg.Path, modelCfg.Path, modelCfg.TestRatio, modelCfg.Seed); err != nil {
			return nil, err
		}
		return classifier, nil
	}); err != nil {
		return nil, err
	}

	// Register prediction store
	if err := container.Provide(func(f *factory.StoreFactory) (core.PredictionStore, error) {
		return f.CreateStore()
	}); err != nil {
		return nil, err
	}

	// Register history enabled flag
	if err := container.Provide(func(f *factory.StoreFactory) bool {
		return f.IsHistoryEnabled()
	}); err != nil {
		return nil, err
	}

	// Register diagnosis service
	if err := container.Provide(core.NewDiagnosisService); err != nil {
		return nil, err
	}

	// Register HTTP frontend
	if err := container.Provide(func(cfg *config.Config, service *core.DiagnosisService, logger *zap.Logger) ports.Frontend {
		return server.New(cfg.GetServer(), service, cfg.GetDataset().Path, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
