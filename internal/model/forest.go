package model

import (
	"errors"
	"fmt"
	"math"
)

// Forest is a random forest of binary decision trees. Its prediction is the mean
// of the normalized leaf class distributions across trees.
type Forest struct {
	trees []tree
}

type tree struct {
	nodes []node
}

type node struct {
	leaf      bool
	feature   int
	threshold float64
	left      int
	right     int
	proba     [2]float64
}

func newForest(docs []treeDoc) (*Forest, error) {
	if len(docs) == 0 {
		return nil, errors.New("random forest has no trees")
	}
	trees := make([]tree, len(docs))
	for i, d := range docs {
		t, err := newTree(d)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		trees[i] = t
	}
	return &Forest{trees: trees}, nil
}

func newTree(doc treeDoc) (tree, error) {
	if len(doc.Nodes) == 0 {
		return tree{}, errors.New("tree has no nodes")
	}
	nodes := make([]node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if len(n.Value) > 0 {
			proba, err := normalizeLeaf(n.Value)
			if err != nil {
				return tree{}, fmt.Errorf("node %d: %w", i, err)
			}
			nodes[i] = node{leaf: true, proba: proba}
			continue
		}
		if n.Feature < 0 || n.Feature >= len(FeatureNames) {
			return tree{}, fmt.Errorf("node %d: feature index %d out of range", i, n.Feature)
		}
		// Children must point forward so evaluation always terminates.
		if n.Left <= i || n.Left >= len(doc.Nodes) || n.Right <= i || n.Right >= len(doc.Nodes) {
			return tree{}, fmt.Errorf("node %d: invalid children %d/%d", i, n.Left, n.Right)
		}
		if math.IsNaN(n.Threshold) || math.IsInf(n.Threshold, 0) {
			return tree{}, fmt.Errorf("node %d: non-finite threshold", i)
		}
		nodes[i] = node{feature: n.Feature, threshold: n.Threshold, left: n.Left, right: n.Right}
	}
	return tree{nodes: nodes}, nil
}

func normalizeLeaf(value []float64) ([2]float64, error) {
	if len(value) != len(ClassNames) {
		return [2]float64{}, fmt.Errorf("leaf has %d class values, want %d", len(value), len(ClassNames))
	}
	if value[0] < 0 || value[1] < 0 {
		return [2]float64{}, errors.New("leaf has negative class value")
	}
	sum := value[0] + value[1]
	if sum <= 0 || math.IsInf(sum, 0) || math.IsNaN(sum) {
		return [2]float64{}, errors.New("leaf class values must have a positive finite sum")
	}
	return [2]float64{value[0] / sum, value[1] / sum}, nil
}

// PredictProbability implements Classifier.
func (f *Forest) PredictProbability(x FeatureVector) ([2]float64, error) {
	var sum [2]float64
	for _, t := range f.trees {
		p := t.predict(x)
		sum[0] += p[0]
		sum[1] += p[1]
	}
	n := float64(len(f.trees))
	return [2]float64{sum[0] / n, sum[1] / n}, nil
}

func (t tree) predict(x FeatureVector) [2]float64 {
	i := 0
	for {
		n := t.nodes[i]
		if n.leaf {
			return n.proba
		}
		if x[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
}
