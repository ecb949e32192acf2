package model

import (
	"fmt"
	"math"
)

// Logistic is a binary logistic regression: p(rain) = σ(w·x + b).
type Logistic struct {
	weights   FeatureVector
	intercept float64
}

func newLogistic(coefficients []float64, intercept float64) (*Logistic, error) {
	if len(coefficients) != len(FeatureNames) {
		return nil, fmt.Errorf("logistic model has %d coefficients, want %d", len(coefficients), len(FeatureNames))
	}
	var w FeatureVector
	for i, c := range coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("coefficient %d is not finite", i)
		}
		w[i] = c
	}
	if math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return nil, fmt.Errorf("intercept is not finite")
	}
	return &Logistic{weights: w, intercept: intercept}, nil
}

// PredictProbability implements Classifier.
func (l *Logistic) PredictProbability(x FeatureVector) ([2]float64, error) {
	z := l.intercept
	for i := range x {
		z += l.weights[i] * x[i]
	}
	p := 1 / (1 + math.Exp(-z))
	return [2]float64{1 - p, p}, nil
}
