// Package model loads the fitted rain classifier and adapts it to a scoring
// function over (temperature, humidity, pressure).
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
)

// Artifact kinds.
const (
	KindRandomForest = "random_forest"
	KindLogistic     = "logistic"
)

// FeatureNames is the only accepted feature order.
var FeatureNames = []string{"temperature", "humidity", "pressure"}

// ClassNames is the only accepted class order.
var ClassNames = []string{"no_rain", "rain"}

// FeatureVector is the classifier input in FeatureNames order.
type FeatureVector [3]float64

// Classifier is a fitted binary probabilistic classifier.
type Classifier interface {
	// PredictProbability returns [p(no_rain), p(rain)].
	PredictProbability(x FeatureVector) ([2]float64, error)
}

// artifact is the serialized classifier document.
type artifact struct {
	Kind     string   `json:"kind"`
	Features []string `json:"features"`
	Classes  []string `json:"classes"`

	// random_forest
	Trees []treeDoc `json:"trees,omitempty"`

	// logistic
	Coefficients []float64 `json:"coefficients,omitempty"`
	Intercept    float64   `json:"intercept,omitempty"`
}

type treeDoc struct {
	Nodes []nodeDoc `json:"nodes"`
}

// nodeDoc is either a split (Value empty) or a leaf (Value holds per-class
// sample counts or fractions).
type nodeDoc struct {
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      int       `json:"left,omitempty"`
	Right     int       `json:"right,omitempty"`
	Value     []float64 `json:"value,omitempty"`
}

// Load reads and validates a classifier artifact from disk.
func Load(path string) (Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	clf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return clf, nil
}

// Parse decodes and validates a classifier artifact.
func Parse(data []byte) (Classifier, error) {
	var doc artifact
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if !slices.Equal(doc.Features, FeatureNames) {
		return nil, fmt.Errorf("model features %v, want %v", doc.Features, FeatureNames)
	}
	if !slices.Equal(doc.Classes, ClassNames) {
		return nil, fmt.Errorf("model classes %v, want %v", doc.Classes, ClassNames)
	}

	switch doc.Kind {
	case KindRandomForest:
		return newForest(doc.Trees)
	case KindLogistic:
		return newLogistic(doc.Coefficients, doc.Intercept)
	case "":
		return nil, errors.New("model kind is required")
	default:
		return nil, fmt.Errorf("unsupported model kind %q", doc.Kind)
	}
}
