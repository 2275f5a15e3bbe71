package trainer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marek/biopsy-classifier/internal/adapters/tree"
	"github.com/marek/biopsy-classifier/internal/core"
	"go.uber.org/zap"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	header := strings.Join(core.FeatureSchema, ",") + ",diagnosis"
	benign := "12.1,17.9,78.0,462.8,0.0925,0.0801,0.0461,0.0257,0.1742,0.0629,1"
	malignant := "17.5,21.6,115.4,978.4,0.1029,0.1452,0.1607,0.0880,0.1929,0.0627,0"

	rows := []string{header}
	for i := 0; i < 15; i++ {
		rows = append(rows, benign, malignant)
	}
	path := filepath.Join(t.TempDir(), "dataset.csv")
	if err := os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0o600); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}
	return path
}

func TestRunTrainsAndPersists(t *testing.T) {
	datasetPath := writeDataset(t)
	modelPath := filepath.Join(t.TempDir(), "models", "model.json")

	trainer := New(tree.New(4), zap.NewNop(), datasetPath, modelPath, 0.2, 1)
	metrics, err := trainer.Run()
	if err != nil {
		t.Fatalf("training failed: %v", err)
	}
	if metrics.TrainRows == 0 || metrics.TestRows == 0 {
		t.Fatalf("unexpected split sizes: %+v", metrics)
	}
	// The two classes are perfectly separated in this dataset
	if metrics.Accuracy != 1.0 {
		t.Fatalf("expected perfect holdout accuracy, got %v", metrics.Accuracy)
	}

	restored := tree.New(4)
	if err := restored.Load(modelPath); err != nil {
		t.Fatalf("trained model is not loadable: %v", err)
	}
}

func TestRunFailsOnMissingDataset(t *testing.T) {
	modelPath := filepath.Join(t.TempDir(), "model.json")
	trainer := New(tree.New(4), zap.NewNop(), filepath.Join(t.TempDir(), "absent.csv"), modelPath, 0.2, 1)
	if _, err := trainer.Run(); err == nil {
		t.Fatal("expected error for missing dataset")
	}
	if _, err := os.Stat(modelPath); !os.IsNotExist(err) {
		t.Fatal("no model file should be written on failure")
	}
}

func TestBootstrapTrainsWhenModelAbsent(t *testing.T) {
	datasetPath := writeDataset(t)
	modelPath := filepath.Join(t.TempDir(), "model.json")

	classifier := tree.New(4)
	if err := Bootstrap(classifier, zap.NewNop(), datasetPath, modelPath, 0.2, 1); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if _, err := os.Stat(modelPath); err != nil {
		t.Fatalf("bootstrap did not write a model file: %v", err)
	}

	// Classifier is ready to serve
	label, _, err := classifier.Predict([]float64{12.1, 17.9, 78.0, 462.8, 0.0925, 0.0801, 0.0461, 0.0257, 0.1742, 0.0629})
	if err != nil {
		t.Fatalf("predict after bootstrap failed: %v", err)
	}
	if label != core.LabelBenign {
		t.Fatalf("expected benign label, got %d", label)
	}
}

func TestBootstrapLoadsExistingModel(t *testing.T) {
	datasetPath := writeDataset(t)
	modelPath := filepath.Join(t.TempDir(), "model.json")

	// First bootstrap trains and saves
	if err := Bootstrap(tree.New(4), zap.NewNop(), datasetPath, modelPath, 0.2, 1); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	// Second bootstrap must load without needing the dataset
	classifier := tree.New(4)
	if err := Bootstrap(classifier, zap.NewNop(), filepath.Join(t.TempDir(), "gone.csv"), modelPath, 0.2, 1); err != nil {
		t.Fatalf("bootstrap with existing model failed: %v", err)
	}
	if _, _, err := classifier.Predict(make([]float64, len(core.FeatureSchema))); err != nil {
		t.Fatalf("loaded model cannot predict: %v", err)
	}
}

func TestBootstrapFailsWhenTrainingImpossible(t *testing.T) {
	modelPath := filepath.Join(t.TempDir(), "model.json")
	err := Bootstrap(tree.New(4), zap.NewNop(), filepath.Join(t.TempDir(), "absent.csv"), modelPath, 0.2, 1)
	if err == nil {
		t.Fatal("expected fatal bootstrap error when dataset is missing")
	}
}

func TestBootstrapRejectsCorruptModelFile(t *testing.T) {
	datasetPath := writeDataset(t)
	modelPath := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(modelPath, []byte("not json"), 0o600); err != nil {
		t.Fatalf("failed to write corrupt model: %v", err)
	}

	// A present-but-unreadable model is an operational error, not a
	// trigger for silent retraining
	if err := Bootstrap(tree.New(4), zap.NewNop(), datasetPath, modelPath, 0.2, 1); err == nil {
		t.Fatal("expected error for corrupt model file")
	}
}
