package model

import (
	"fmt"
	"math"

	"github.com/couchcryptid/rain-risk-service/internal/domain"
)

// probabilityTolerance bounds |p(no_rain) + p(rain) - 1|.
const probabilityTolerance = 1e-6

// Scorer adapts a Classifier to a rain probability percentage. It holds no
// mutable state and is safe for concurrent use.
type Scorer struct {
	clf Classifier
}

// NewScorer wraps a loaded classifier. A nil classifier yields a scorer that
// reports domain.ErrModelUnavailable on every call.
func NewScorer(clf Classifier) *Scorer {
	return &Scorer{clf: clf}
}

// LoadScorer loads the classifier artifact at path. On failure it returns a
// scorer without a model together with an error wrapping
// domain.ErrModelUnavailable.
func LoadScorer(path string) (*Scorer, error) {
	clf, err := Load(path)
	if err != nil {
		return NewScorer(nil), fmt.Errorf("%w: %w", domain.ErrModelUnavailable, err)
	}
	return NewScorer(clf), nil
}

// Ready reports whether a classifier is loaded.
func (s *Scorer) Ready() bool {
	return s != nil && s.clf != nil
}

// Score returns the probability of rain, in percent rounded to two decimals,
// for the given temperature, humidity, and pressure.
func (s *Scorer) Score(temperature, humidity, pressure float64) (float64, error) {
	if !s.Ready() {
		return 0, domain.ErrModelUnavailable
	}

	x := FeatureVector{temperature, humidity, pressure}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %s=%v", domain.ErrInvalidFeatureVector, FeatureNames[i], v)
		}
	}

	proba, err := s.clf.PredictProbability(x)
	if err != nil {
		return 0, fmt.Errorf("predict probability: %w", err)
	}
	if err := checkDistribution(proba); err != nil {
		return 0, err
	}
	return roundPercent(proba[1]), nil
}

func checkDistribution(p [2]float64) error {
	for _, v := range p {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("classifier returned invalid probability %v", p)
		}
	}
	if math.Abs(p[0]+p[1]-1) > probabilityTolerance {
		return fmt.Errorf("classifier probabilities %v do not sum to 1", p)
	}
	return nil
}

func roundPercent(p float64) float64 {
	return math.Round(p*100*100) / 100
}
