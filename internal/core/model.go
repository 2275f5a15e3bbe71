package core

import (
	"time"
)

// Label values produced by the underlying classifier
const (
	LabelMalignant = 0
	LabelBenign    = 1
)

// Diagnosis strings surfaced to clients
const (
	DiagnosisBenign    = "Benign"
	DiagnosisMalignant = "Malignant"
)

// Disclaimer is attached to every successful diagnosis
const Disclaimer = "This AI tool is for academic use only. Consult medical professionals for clinical validation."

// FeatureVector is a complete, validated set of measurements keyed by the
// feature schema
type FeatureVector map[string]float64

// Ordered returns the vector's values in feature schema order, the layout
// trained models expect
func (fv FeatureVector) Ordered() []float64 {
	values := make([]float64, len(FeatureSchema))
	for i, name := range FeatureSchema {
		values[i] = fv[name]
	}
	return values
}

// DiagnosisReport represents the outcome of classifying one feature vector
type DiagnosisReport struct {
	Diagnosis  string
	IsBenign   bool
	Confidence float64
	Message    string
	Disclaimer string
}

// SampleCase is a labeled historical row from the training dataset, used
// only for UI demonstration
type SampleCase struct {
	Features FeatureVector
	IsBenign bool
}

// PredictionRecord is a persisted record of one served diagnosis
type PredictionRecord struct {
	ID         string
	Features   FeatureVector
	Diagnosis  string
	Confidence float64
	CreatedAt  time.Time
}
