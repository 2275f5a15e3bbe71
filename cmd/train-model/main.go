package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/marek/biopsy-classifier/internal/adapters/logreg"
	"github.com/marek/biopsy-classifier/internal/adapters/tree"
	"github.com/marek/biopsy-classifier/internal/core"
	"github.com/marek/biopsy-classifier/internal/logging"
	"github.com/marek/biopsy-classifier/internal/trainer"
	"go.uber.org/zap"
)

var (
	// Model flags
	modelType    = flag.String("model", "decision_tree", "Model type (decision_tree, logistic_regression)")
	modelPath    = flag.String("out", "models/biopsy_model.json", "Output path for the trained model file")
	maxDepth     = flag.Int("max-depth", 6, "Maximum tree depth (decision_tree)")
	learningRate = flag.Float64("learning-rate", 0.1, "Learning rate (logistic_regression)")
	epochs       = flag.Int("epochs", 500, "Training epochs (logistic_regression)")

	// Dataset flags
	datasetPath = flag.String("dataset", "data/breast_cancer.csv", "Labeled dataset CSV")
	testRatio   = flag.Float64("test-ratio", 0.2, "Fraction of rows held out for evaluation")
	seed        = flag.Int64("seed", 42, "Shuffle seed for the train/test split")

	// Logging flags
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var classifier core.Classifier
	switch *modelType {
	case "decision_tree":
		classifier = tree.New(*maxDepth)
	case "logistic_regression":
		classifier = logreg.New(*learningRate, *epochs)
	default:
		logger.Fatal("Unsupported model type", zap.String("model", *modelType))
	}

	t := trainer.New(classifier, logger, *datasetPath, *modelPath, *testRatio, *seed)
	metrics, err := t.Run()
	if err != nil {
		logger.Fatal("Training failed", zap.Error(err))
	}

	fmt.Printf("Model:            %s\n", *modelType)
	fmt.Printf("Saved to:         %s\n", *modelPath)
	fmt.Printf("Training rows:    %d\n", metrics.TrainRows)
	fmt.Printf("Holdout rows:     %d\n", metrics.TestRows)
	fmt.Printf("Accuracy:         %.3f\n", metrics.Accuracy)
	fmt.Printf("Benign recall:    %.3f\n", metrics.BenignRecall)
	fmt.Printf("Malignant recall: %.3f\n", metrics.MalignantRecall)
}
