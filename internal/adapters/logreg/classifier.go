// Package logreg implements the classifier port with logistic regression
// trained by batch gradient descent over standardized features.
package logreg

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	defaultLearningRate = 0.1
	defaultEpochs       = 500
)

// Classifier is a logistic-regression implementation of the classifier port
type Classifier struct {
	learningRate float64
	epochs       int
	model        logregModel
}

type logregModel struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
	// Means and Scales standardize inputs to the distribution the model
	// was trained on
	Means  []float64 `json:"means"`
	Scales []float64 `json:"scales"`
}

// New creates an untrained logistic-regression classifier
func New(learningRate float64, epochs int) *Classifier {
	if learningRate <= 0 {
		learningRate = defaultLearningRate
	}
	if epochs <= 0 {
		epochs = defaultEpochs
	}
	return &Classifier{learningRate: learningRate, epochs: epochs}
}

// Train fits weights on labeled feature vectors
func (c *Classifier) Train(features [][]float64, labels []int) error {
	if len(features) == 0 || len(labels) == 0 {
		return errors.New("features or labels empty")
	}
	if len(features) != len(labels) {
		return errors.New("features and labels size mismatch")
	}

	numFeatures := len(features[0])
	means := make([]float64, numFeatures)
	scales := make([]float64, numFeatures)
	column := make([]float64, len(features))
	for j := 0; j < numFeatures; j++ {
		for i, row := range features {
			column[i] = row[j]
		}
		means[j] = stat.Mean(column, nil)
		scales[j] = stat.StdDev(column, nil)
		if scales[j] == 0 || math.IsNaN(scales[j]) {
			scales[j] = 1
		}
	}

	standardized := make([][]float64, len(features))
	for i, row := range features {
		standardized[i] = standardize(row, means, scales)
	}

	weights := make([]float64, numFeatures)
	bias := 0.0
	gradient := make([]float64, numFeatures)
	for epoch := 0; epoch < c.epochs; epoch++ {
		for j := range gradient {
			gradient[j] = 0
		}
		biasGradient := 0.0
		for i, row := range standardized {
			p := sigmoid(floats.Dot(weights, row) + bias)
			residual := p - float64(labels[i])
			floats.AddScaled(gradient, residual, row)
			biasGradient += residual
		}
		step := c.learningRate / float64(len(standardized))
		floats.AddScaled(weights, -step, gradient)
		bias -= step * biasGradient
	}

	c.model = logregModel{
		Weights: weights,
		Bias:    bias,
		Means:   means,
		Scales:  scales,
	}
	return nil
}

// Predict returns the label and benign probability for one feature vector
func (c *Classifier) Predict(features []float64) (int, float64, error) {
	if len(c.model.Weights) == 0 {
		return 0, 0, errors.New("model not trained")
	}
	if len(features) != len(c.model.Weights) {
		return 0, 0, fmt.Errorf("expected %d features, got %d", len(c.model.Weights), len(features))
	}

	row := standardize(features, c.model.Means, c.model.Scales)
	pBenign := sigmoid(floats.Dot(c.model.Weights, row) + c.model.Bias)

	label := 0
	if pBenign >= 0.5 {
		label = 1
	}
	return label, pBenign, nil
}

// Save persists the trained weights as JSON
func (c *Classifier) Save(path string) error {
	if len(c.model.Weights) == 0 {
		return errors.New("model not trained")
	}
	payload, err := json.Marshal(c.model)
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// Load restores trained weights from JSON
func (c *Classifier) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var model logregModel
	if err := json.Unmarshal(payload, &model); err != nil {
		return err
	}
	if len(model.Weights) == 0 || len(model.Weights) != len(model.Means) || len(model.Weights) != len(model.Scales) {
		return errors.New("model file contains no trained weights")
	}
	c.model = model
	return nil
}

func standardize(row, means, scales []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - means[j]) / scales[j]
	}
	return out
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
