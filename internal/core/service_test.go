package core

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type fakeClassifier struct {
	label   int
	pBenign float64
	err     error
	calls   int
}

func (f *fakeClassifier) Train(features [][]float64, labels []int) error { return nil }
func (f *fakeClassifier) Save(path string) error                         { return nil }
func (f *fakeClassifier) Load(path string) error                         { return nil }

func (f *fakeClassifier) Predict(features []float64) (int, float64, error) {
	f.calls++
	return f.label, f.pBenign, f.err
}

type fakeStore struct {
	records []*PredictionRecord
	err     error
}

func (f *fakeStore) Record(ctx context.Context, record *PredictionRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeStore) Recent(ctx context.Context, limit int) ([]*PredictionRecord, error) {
	return f.records, nil
}

func (f *fakeStore) Cleanup(ctx context.Context) error { return nil }

func validInput() map[string]any {
	input := make(map[string]any, len(FeatureSchema))
	for _, name := range FeatureSchema {
		input[name] = 1.0
	}
	return input
}

func newService(classifier Classifier, store PredictionStore) *DiagnosisService {
	return NewDiagnosisService(classifier, store, zap.NewNop(), true)
}

func TestValidateAcceptsCompleteInput(t *testing.T) {
	s := newService(&fakeClassifier{}, &fakeStore{})

	input := validInput()
	input["radius_mean"] = "12.5" // numeric strings are accepted
	input["texture_mean"] = 0     // and so are integers

	features, err := s.Validate(input)
	if err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	if features["radius_mean"] != 12.5 {
		t.Fatalf("unexpected parsed value: %v", features["radius_mean"])
	}
	if len(features) != len(FeatureSchema) {
		t.Fatalf("expected %d features, got %d", len(FeatureSchema), len(features))
	}
}

func TestValidateMissingField(t *testing.T) {
	s := newService(&fakeClassifier{}, &fakeStore{})

	input := validInput()
	delete(input, "area_mean")

	_, err := s.Validate(input)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Kind != MissingField || validationErr.Field != "area_mean" {
		t.Fatalf("unexpected error: %+v", validationErr)
	}
	if validationErr.Error() != "Metric missing: area_mean" {
		t.Fatalf("unexpected message: %s", validationErr.Error())
	}
}

func TestValidateReportsFirstMissingInSchemaOrder(t *testing.T) {
	s := newService(&fakeClassifier{}, &fakeStore{})

	input := validInput()
	delete(input, "symmetry_mean")
	delete(input, "texture_mean")

	_, err := s.Validate(input)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	// texture_mean comes before symmetry_mean in the schema
	if validationErr.Field != "texture_mean" {
		t.Fatalf("expected texture_mean, got %s", validationErr.Field)
	}
}

func TestValidateInvalidNumber(t *testing.T) {
	s := newService(&fakeClassifier{}, &fakeStore{})

	input := validInput()
	input["smoothness_mean"] = "abc"

	_, err := s.Validate(input)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Kind != InvalidNumber || validationErr.Field != "smoothness_mean" {
		t.Fatalf("unexpected error: %+v", validationErr)
	}
}

func TestValidateNegativeValue(t *testing.T) {
	s := newService(&fakeClassifier{}, &fakeStore{})

	input := validInput()
	input["concavity_mean"] = -1

	_, err := s.Validate(input)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Kind != NegativeValue || validationErr.Field != "concavity_mean" {
		t.Fatalf("unexpected error: %+v", validationErr)
	}
}

func TestDiagnoseBenign(t *testing.T) {
	store := &fakeStore{}
	s := newService(&fakeClassifier{label: LabelBenign, pBenign: 0.875}, store)

	features, err := s.Validate(validInput())
	if err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	report, err := s.Diagnose(context.Background(), features)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Diagnosis != DiagnosisBenign || !report.IsBenign {
		t.Fatalf("expected benign diagnosis, got %+v", report)
	}
	if report.Confidence != 87.5 {
		t.Fatalf("expected confidence 87.5, got %v", report.Confidence)
	}
	if report.Disclaimer != Disclaimer {
		t.Fatalf("missing disclaimer")
	}
	if len(store.records) != 1 || store.records[0].Diagnosis != DiagnosisBenign {
		t.Fatalf("expected one recorded prediction, got %d", len(store.records))
	}
}

func TestDiagnoseMalignantInvertsConfidence(t *testing.T) {
	s := newService(&fakeClassifier{label: LabelMalignant, pBenign: 0.126}, &fakeStore{})

	report, err := s.Diagnose(context.Background(), FeatureVector{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Diagnosis != DiagnosisMalignant || report.IsBenign {
		t.Fatalf("expected malignant diagnosis, got %+v", report)
	}
	// 1 - 0.126 = 0.874 -> 87.4%
	if report.Confidence != 87.4 {
		t.Fatalf("expected confidence 87.4, got %v", report.Confidence)
	}
}

func TestDiagnoseIsIdempotent(t *testing.T) {
	s := newService(&fakeClassifier{label: LabelBenign, pBenign: 0.64}, &fakeStore{})

	features, _ := s.Validate(validInput())
	first, err := s.Diagnose(context.Background(), features)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.Diagnose(context.Background(), features)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *first != *second {
		t.Fatalf("expected identical reports, got %+v and %+v", first, second)
	}
}

func TestDiagnoseStoreFailureDoesNotFailRequest(t *testing.T) {
	s := newService(&fakeClassifier{label: LabelBenign, pBenign: 0.9}, &fakeStore{err: errors.New("db down")})

	if _, err := s.Diagnose(context.Background(), FeatureVector{}); err != nil {
		t.Fatalf("store failure should not fail the request: %v", err)
	}
}

func TestDiagnosePredictionError(t *testing.T) {
	s := newService(&fakeClassifier{err: errors.New("model not trained")}, &fakeStore{})

	if _, err := s.Diagnose(context.Background(), FeatureVector{}); err == nil {
		t.Fatal("expected error from failing classifier")
	}
}

func TestOrderedFollowsSchema(t *testing.T) {
	features := make(FeatureVector, len(FeatureSchema))
	for i, name := range FeatureSchema {
		features[name] = float64(i)
	}
	ordered := features.Ordered()
	for i, value := range ordered {
		if value != float64(i) {
			t.Fatalf("position %d holds %v", i, value)
		}
	}
}
