// Package trainer fits a classifier on the labeled dataset and persists the
// resulting model file. It runs either at first-boot bootstrap, before the
// server accepts traffic, or from the offline training CLI.
package trainer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/marek/biopsy-classifier/internal/core"
	"github.com/marek/biopsy-classifier/internal/dataset"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// Trainer fits and persists one classifier
type Trainer struct {
	classifier  core.Classifier
	logger      *zap.Logger
	datasetPath string
	modelPath   string
	testRatio   float64
	seed        int64
}

// Metrics summarizes holdout evaluation after training
type Metrics struct {
	TrainRows       int
	TestRows        int
	Accuracy        float64
	BenignRecall    float64
	MalignantRecall float64
}

// New creates a trainer for the given classifier
func New(classifier core.Classifier, logger *zap.Logger, datasetPath, modelPath string, testRatio float64, seed int64) *Trainer {
	return &Trainer{
		classifier:  classifier,
		logger:      logger,
		datasetPath: datasetPath,
		modelPath:   modelPath,
		testRatio:   testRatio,
		seed:        seed,
	}
}

// Run loads the dataset, fits the classifier, evaluates it on a holdout
// split and writes the model file, overwriting any prior one
func (t *Trainer) Run() (*Metrics, error) {
	ds, err := dataset.Load(t.datasetPath)
	if err != nil {
		return nil, err
	}

	trainX, trainY, testX, testY := ds.Split(t.testRatio, t.seed)
	t.logger.Info("Training classifier",
		zap.String("dataset", t.datasetPath),
		zap.Int("train_rows", len(trainY)),
		zap.Int("test_rows", len(testY)))

	if err := t.classifier.Train(trainX, trainY); err != nil {
		return nil, fmt.Errorf("training failed: %w", err)
	}

	metrics := t.evaluate(testX, testY)
	metrics.TrainRows = len(trainY)
	metrics.TestRows = len(testY)

	if err := os.MkdirAll(filepath.Dir(t.modelPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create model directory: %w", err)
	}
	if err := t.classifier.Save(t.modelPath); err != nil {
		return nil, fmt.Errorf("failed to save model: %w", err)
	}

	t.logger.Info("Model trained and saved",
		zap.String("path", t.modelPath),
		zap.Float64("accuracy", metrics.Accuracy),
		zap.Float64("benign_recall", metrics.BenignRecall),
		zap.Float64("malignant_recall", metrics.MalignantRecall))

	return metrics, nil
}

// evaluate scores the trained classifier on the holdout split
func (t *Trainer) evaluate(testX [][]float64, testY []int) *Metrics {
	metrics := &Metrics{}
	if len(testY) == 0 {
		return metrics
	}

	correct := make([]float64, len(testY))
	var benignHits, benignTotal, malignantHits, malignantTotal float64
	for i, row := range testX {
		label, _, err := t.classifier.Predict(row)
		if err != nil {
			continue
		}
		if label == testY[i] {
			correct[i] = 1
		}
		if testY[i] == core.LabelBenign {
			benignTotal++
			if label == core.LabelBenign {
				benignHits++
			}
		} else {
			malignantTotal++
			if label == core.LabelMalignant {
				malignantHits++
			}
		}
	}

	metrics.Accuracy = stat.Mean(correct, nil)
	if benignTotal > 0 {
		metrics.BenignRecall = benignHits / benignTotal
	}
	if malignantTotal > 0 {
		metrics.MalignantRecall = malignantHits / malignantTotal
	}
	return metrics
}

// Bootstrap brings the classifier to the ready state: load the model file
// if present, otherwise train once from the dataset and load the result.
// Any failure here means the process cannot serve.
func Bootstrap(classifier core.Classifier, logger *zap.Logger, datasetPath, modelPath string, testRatio float64, seed int64) error {
	if _, err := os.Stat(modelPath); err == nil {
		if err := classifier.Load(modelPath); err != nil {
			return fmt.Errorf("model file %s is unreadable: %w", modelPath, err)
		}
		logger.Info("Loaded pre-trained model", zap.String("path", modelPath))
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat model file: %w", err)
	}

	logger.Info("Pre-trained model not found, starting fresh training session",
		zap.String("model_path", modelPath))

	t := New(classifier, logger, datasetPath, modelPath, testRatio, seed)
	if _, err := t.Run(); err != nil {
		return fmt.Errorf("bootstrap training failed: %w", err)
	}
	if err := classifier.Load(modelPath); err != nil {
		return fmt.Errorf("failed to load freshly trained model: %w", err)
	}
	return nil
}
