package core

import (
	"context"
)

// Classifier defines the interface for the underlying binary classifier.
// Labels are 0 (malignant) and 1 (benign); the returned probability is the
// probability of the benign class.
type Classifier interface {
	// Train fits the classifier on labeled feature vectors
	Train(features [][]float64, labels []int) error

	// Predict classifies one feature vector laid out in schema order
	Predict(features []float64) (label int, pBenign float64, err error)

	// Save persists the trained parameters to a file
	Save(path string) error

	// Load restores trained parameters from a file
	Load(path string) error
}

// PredictionStore defines the interface for recording served diagnoses
type PredictionStore interface {
	// Record stores one prediction record
	Record(ctx context.Context, record *PredictionRecord) error

	// Recent retrieves up to limit records, newest first
	Recent(ctx context.Context, limit int) ([]*PredictionRecord, error)

	// Cleanup removes expired records
	Cleanup(ctx context.Context) error
}
