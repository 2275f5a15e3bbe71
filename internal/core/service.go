package core

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	benignMessage    = "✓ Analysis suggests a BENIGN (non-cancerous) tumor"
	malignantMessage = "⚠️ Analysis suggests a MALIGNANT (cancerous) tumor"
)

// DiagnosisService is the core service for biopsy classification
type DiagnosisService struct {
	classifier     Classifier
	store          PredictionStore
	logger         *zap.Logger
	historyEnabled bool
}

// NewDiagnosisService creates a new diagnosis service
func NewDiagnosisService(
	classifier Classifier,
	store PredictionStore,
	logger *zap.Logger,
	historyEnabled bool,
) *DiagnosisService {
	return &DiagnosisService{
		classifier:     classifier,
		store:          store,
		logger:         logger,
		historyEnabled: historyEnabled,
	}
}

// Validate checks a raw request payload against the feature schema. It is
// fail-fast: the first violated rule, in schema order, is returned.
func (s *DiagnosisService) Validate(raw map[string]any) (FeatureVector, error) {
	validated := make(FeatureVector, len(FeatureSchema))
	for _, name := range FeatureSchema {
		value, ok := raw[name]
		if !ok {
			return nil, &ValidationError{Kind: MissingField, Field: name}
		}
		parsed, ok := toFloat(value)
		if !ok {
			return nil, &ValidationError{Kind: InvalidNumber, Field: name}
		}
		if parsed < 0 {
			return nil, &ValidationError{Kind: NegativeValue, Field: name}
		}
		validated[name] = parsed
	}
	return validated, nil
}

// Diagnose classifies a validated feature vector and maps the raw model
// output to a human-readable report
func (s *DiagnosisService) Diagnose(ctx context.Context, features FeatureVector) (*DiagnosisReport, error) {
	label, pBenign, err := s.classifier.Predict(features.Ordered())
	if err != nil {
		return nil, fmt.Errorf("prediction failed: %w", err)
	}

	isBenign := label == LabelBenign
	certainty := pBenign
	if !isBenign {
		certainty = 1.0 - pBenign
	}

	report := &DiagnosisReport{
		Diagnosis:  DiagnosisMalignant,
		IsBenign:   isBenign,
		Confidence: math.Round(certainty*1000) / 10,
		Message:    malignantMessage,
		Disclaimer: Disclaimer,
	}
	if isBenign {
		report.Diagnosis = DiagnosisBenign
		report.Message = benignMessage
	}

	s.logger.Debug("Diagnosis computed",
		zap.String("diagnosis", report.Diagnosis),
		zap.Float64("confidence", report.Confidence))

	if s.historyEnabled {
		record := &PredictionRecord{
			ID:         uuid.NewString(),
			Features:   features,
			Diagnosis:  report.Diagnosis,
			Confidence: report.Confidence,
			CreatedAt:  time.Now(),
		}
		// History is an audit trail; a failed write never fails the request
		if err := s.store.Record(ctx, record); err != nil {
			s.logger.Error("Failed to record prediction", zap.Error(err))
		}
	}

	return report, nil
}

// History returns recent prediction records, newest first
func (s *DiagnosisService) History(ctx context.Context, limit int) ([]*PredictionRecord, error) {
	if !s.historyEnabled {
		return nil, nil
	}
	return s.store.Recent(ctx, limit)
}

// toFloat coerces the value shapes JSON decoding can produce
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
