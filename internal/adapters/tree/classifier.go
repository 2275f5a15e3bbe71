// Package tree implements the classifier port with a CART-style decision
// tree: binary splits chosen by weighted gini impurity, with class
// probabilities taken from the training rows that reach each leaf.
package tree

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
)

const defaultMaxDepth = 6

// Classifier is a decision-tree implementation of the classifier port
type Classifier struct {
	maxDepth int
	model    treeModel
}

type treeModel struct {
	NumFeatures int    `json:"num_features"`
	Nodes       []node `json:"nodes"`
}

type node struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	Left       int     `json:"left"`
	Right      int     `json:"right"`
	Label      int     `json:"label"`
	// PBenign is the fraction of benign training rows at this node
	PBenign float64 `json:"p_benign"`
	Leaf    bool    `json:"leaf"`
}

// New creates an untrained decision-tree classifier
func New(maxDepth int) *Classifier {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &Classifier{maxDepth: maxDepth}
}

// Train fits the tree on labeled feature vectors
func (c *Classifier) Train(features [][]float64, labels []int) error {
	if len(features) == 0 || len(labels) == 0 {
		return errors.New("features or labels empty")
	}
	if len(features) != len(labels) {
		return errors.New("features and labels size mismatch")
	}

	c.model = treeModel{
		NumFeatures: len(features[0]),
		Nodes:       buildSubtree(features, labels, 0, c.maxDepth),
	}
	return nil
}

// Predict walks the tree for one feature vector and returns the majority
// label and benign probability of the reached leaf
func (c *Classifier) Predict(features []float64) (int, float64, error) {
	if len(c.model.Nodes) == 0 {
		return 0, 0, errors.New("model not trained")
	}
	if len(features) != c.model.NumFeatures {
		return 0, 0, fmt.Errorf("expected %d features, got %d", c.model.NumFeatures, len(features))
	}

	idx := 0
	for {
		n := c.model.Nodes[idx]
		if n.Leaf {
			return n.Label, n.PBenign, nil
		}
		if features[n.FeatureIdx] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
		if idx <= 0 || idx >= len(c.model.Nodes) {
			return 0, 0, errors.New("invalid tree state")
		}
	}
}

// Save persists the trained tree as JSON
func (c *Classifier) Save(path string) error {
	if len(c.model.Nodes) == 0 {
		return errors.New("model not trained")
	}
	payload, err := json.Marshal(c.model)
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// Load restores a trained tree from JSON
func (c *Classifier) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var model treeModel
	if err := json.Unmarshal(payload, &model); err != nil {
		return err
	}
	if len(model.Nodes) == 0 || model.NumFeatures <= 0 {
		return errors.New("model file contains no trained tree")
	}
	c.model = model
	return nil
}

// buildSubtree returns the node slice for one subtree, root first. Child
// indexes are relative to the returned slice, so embedding a subtree only
// requires shifting its non-leaf nodes by the embedding offset.
func buildSubtree(features [][]float64, labels []int, depth, maxDepth int) []node {
	if depth >= maxDepth || isPure(labels) {
		return []node{leafNode(labels)}
	}

	featureIdx, threshold, ok := bestSplit(features, labels)
	if !ok {
		return []node{leafNode(labels)}
	}

	leftX, leftY, rightX, rightY := partition(features, labels, featureIdx, threshold)
	if len(leftY) == 0 || len(rightY) == 0 {
		return []node{leafNode(labels)}
	}

	left := buildSubtree(leftX, leftY, depth+1, maxDepth)
	right := buildSubtree(rightX, rightY, depth+1, maxDepth)

	leftOffset := 1
	rightOffset := 1 + len(left)

	nodes := make([]node, 0, 1+len(left)+len(right))
	nodes = append(nodes, node{
		FeatureIdx: featureIdx,
		Threshold:  threshold,
		Left:       leftOffset,
		Right:      rightOffset,
		Label:      majorityLabel(labels),
		PBenign:    benignFraction(labels),
	})
	for _, n := range left {
		if !n.Leaf {
			n.Left += leftOffset
			n.Right += leftOffset
		}
		nodes = append(nodes, n)
	}
	for _, n := range right {
		if !n.Leaf {
			n.Left += rightOffset
			n.Right += rightOffset
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func leafNode(labels []int) node {
	return node{
		FeatureIdx: -1,
		Left:       -1,
		Right:      -1,
		Label:      majorityLabel(labels),
		PBenign:    benignFraction(labels),
		Leaf:       true,
	}
}

// bestSplit scans every feature at its median threshold and keeps the one
// minimizing weighted gini impurity
func bestSplit(features [][]float64, labels []int) (int, float64, bool) {
	featureCount := len(features[0])
	bestFeature := -1
	bestThreshold := 0.0
	bestImpurity := math.MaxFloat64

	for featureIdx := 0; featureIdx < featureCount; featureIdx++ {
		values := make([]float64, len(features))
		for i := range features {
			values[i] = features[i][featureIdx]
		}
		threshold := median(values)

		var leftLabels, rightLabels []int
		for i, row := range features {
			if row[featureIdx] <= threshold {
				leftLabels = append(leftLabels, labels[i])
			} else {
				rightLabels = append(rightLabels, labels[i])
			}
		}
		if len(leftLabels) == 0 || len(rightLabels) == 0 {
			continue
		}

		impurity := weightedGini(leftLabels, rightLabels)
		if impurity < bestImpurity {
			bestImpurity = impurity
			bestFeature = featureIdx
			bestThreshold = threshold
		}
	}
	if bestFeature == -1 {
		return -1, 0, false
	}
	return bestFeature, bestThreshold, true
}

func partition(features [][]float64, labels []int, featureIdx int, threshold float64) ([][]float64, []int, [][]float64, []int) {
	var leftX, rightX [][]float64
	var leftY, rightY []int
	for i, row := range features {
		if row[featureIdx] <= threshold {
			leftX = append(leftX, row)
			leftY = append(leftY, labels[i])
		} else {
			rightX = append(rightX, row)
			rightY = append(rightY, labels[i])
		}
	}
	return leftX, leftY, rightX, rightY
}

func weightedGini(left, right []int) float64 {
	leftWeight := float64(len(left))
	rightWeight := float64(len(right))
	total := leftWeight + rightWeight
	return (leftWeight/total)*gini(left) + (rightWeight/total)*gini(right)
}

func gini(labels []int) float64 {
	if len(labels) == 0 {
		return 0
	}
	counts := make(map[int]int)
	for _, label := range labels {
		counts[label]++
	}
	impurity := 1.0
	for _, count := range counts {
		p := float64(count) / float64(len(labels))
		impurity -= p * p
	}
	return impurity
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func majorityLabel(labels []int) int {
	benign := 0
	for _, label := range labels {
		if label == 1 {
			benign++
		}
	}
	if benign*2 >= len(labels) {
		return 1
	}
	return 0
}

func benignFraction(labels []int) float64 {
	if len(labels) == 0 {
		return 0
	}
	benign := 0
	for _, label := range labels {
		if label == 1 {
			benign++
		}
	}
	return float64(benign) / float64(len(labels))
}

func isPure(labels []int) bool {
	if len(labels) == 0 {
		return true
	}
	first := labels[0]
	for _, label := range labels[1:] {
		if label != first {
			return false
		}
	}
	return true
}
