// Package dataset loads the labeled biopsy CSV the classifier trains on.
// The file carries one column per schema feature plus a diagnosis column
// where 1 is benign and 0 is malignant.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"

	"github.com/marek/biopsy-classifier/internal/core"
)

// LabelColumn is the name of the CSV label column
const LabelColumn = "diagnosis"

// Dataset holds the parsed training rows
type Dataset struct {
	Features [][]float64
	Labels   []int
}

// Load reads and parses the dataset CSV at path
func Load(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	labelIdx, ok := columns[LabelColumn]
	if !ok {
		return nil, fmt.Errorf("dataset is missing the %q column", LabelColumn)
	}
	featureIdx := make([]int, len(core.FeatureSchema))
	for i, name := range core.FeatureSchema {
		idx, ok := columns[name]
		if !ok {
			return nil, fmt.Errorf("dataset is missing the %q column", name)
		}
		featureIdx[i] = idx
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset rows: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("dataset contains no rows")
	}

	ds := &Dataset{
		Features: make([][]float64, 0, len(records)),
		Labels:   make([]int, 0, len(records)),
	}
	for line, record := range records {
		row := make([]float64, len(featureIdx))
		for i, idx := range featureIdx {
			value, err := strconv.ParseFloat(record[idx], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid value for %s: %w", line+2, core.FeatureSchema[i], err)
			}
			row[i] = value
		}
		label, err := strconv.Atoi(record[labelIdx])
		if err != nil || (label != 0 && label != 1) {
			return nil, fmt.Errorf("row %d: invalid %s value %q", line+2, LabelColumn, record[labelIdx])
		}
		ds.Features = append(ds.Features, row)
		ds.Labels = append(ds.Labels, label)
	}
	return ds, nil
}

// Samples returns the first benign and first malignant rows as demo cases
func (ds *Dataset) Samples() (benign, malignant *core.SampleCase, err error) {
	for i, label := range ds.Labels {
		if label == core.LabelBenign && benign == nil {
			benign = &core.SampleCase{Features: rowVector(ds.Features[i]), IsBenign: true}
		}
		if label == core.LabelMalignant && malignant == nil {
			malignant = &core.SampleCase{Features: rowVector(ds.Features[i])}
		}
		if benign != nil && malignant != nil {
			return benign, malignant, nil
		}
	}
	return nil, nil, errors.New("dataset does not contain both a benign and a malignant case")
}

// Split shuffles the dataset and partitions it into train and test sets
func (ds *Dataset) Split(testRatio float64, seed int64) (trainX [][]float64, trainY []int, testX [][]float64, testY []int) {
	if testRatio <= 0 || testRatio >= 1 {
		testRatio = 0.2
	}
	rnd := rand.New(rand.NewSource(seed))
	indices := rnd.Perm(len(ds.Features))

	split := int(math.Round(float64(len(ds.Features)) * (1 - testRatio)))
	for i, idx := range indices {
		if i < split {
			trainX = append(trainX, ds.Features[idx])
			trainY = append(trainY, ds.Labels[idx])
		} else {
			testX = append(testX, ds.Features[idx])
			testY = append(testY, ds.Labels[idx])
		}
	}
	return trainX, trainY, testX, testY
}

func rowVector(row []float64) core.FeatureVector {
	vector := make(core.FeatureVector, len(core.FeatureSchema))
	for i, name := range core.FeatureSchema {
		vector[name] = row[i]
	}
	return vector
}
