// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

package pricing

import (
	"fmt"
	"math/rand"
	"sort"
)

// ForestConfig contains hyperparameters for the random-forest regressor.
type ForestConfig struct {
	// Trees is the number of trees in the ensemble.
	Trees int `json:"trees"`

	// MaxDepth limits tree depth.
	MaxDepth int `json:"max_depth"`

	// MinSamplesSplit is the minimum number of samples required to split
	// an internal node.
	MinSamplesSplit int `json:"min_samples_split"`

	// Seed makes bootstrap sampling deterministic so repeated training on
	// identical data produces identical models.
	Seed int64 `json:"seed"`
}

// DefaultForestConfig returns the reference hyperparameters.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:           100,
		MaxDepth:        20,
		MinSamplesSplit: 5,
		Seed:            42,
	}
}

// TreeNode is one node of a regression tree in flattened form. Leaf nodes
// have Feature == -1 and carry the mean target value of their samples.
// The flat layout keeps trees directly serializable in the snapshot schema.
type TreeNode struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t,omitempty"`
	Left      int     `json:"l,omitempty"`
	Right     int     `json:"r,omitempty"`
	Value     float64 `json:"v"`
}

// Tree is a single CART regression tree.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// Predict walks the tree for one input vector.
func (t *Tree) Predict(x []float64) float64 {
	i := 0
	for {
		node := t.Nodes[i]
		if node.Feature < 0 {
			return node.Value
		}
		if x[node.Feature] <= node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
}

// Forest is a bootstrap-aggregated ensemble of regression trees capable of
// modelling interaction effects between features. Predictions average the
// per-tree outputs.
type Forest struct {
	Config      ForestConfig `json:"config"`
	NumFeatures int          `json:"num_features"`
	Trees       []Tree       `json:"trees"`
}

// TrainForest fits a random forest on the given samples. X is row-major
// with one row per sample; y holds the (already scaled) targets. Sampling
// is deterministic under cfg.Seed.
func TrainForest(cfg ForestConfig, X [][]float64, y []float64) (*Forest, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, fmt.Errorf("train forest: %d samples, %d targets", len(X), len(y))
	}
	if cfg.Trees < 1 {
		return nil, fmt.Errorf("train forest: tree count %d < 1", cfg.Trees)
	}

	n := len(X)
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic sampling, not cryptography

	forest := &Forest{
		Config:      cfg,
		NumFeatures: len(X[0]),
		Trees:       make([]Tree, cfg.Trees),
	}

	indices := make([]int, n)
	for b := 0; b < cfg.Trees; b++ {
		for i := range indices {
			indices[i] = rng.Intn(n)
		}
		forest.Trees[b] = growTree(cfg, X, y, indices)
	}

	return forest, nil
}

// Predict returns the ensemble mean for one input vector.
func (f *Forest) Predict(x []float64) (float64, error) {
	if len(x) != f.NumFeatures {
		return 0, fmt.Errorf("predict: got %d features, forest trained on %d", len(x), f.NumFeatures)
	}
	var sum float64
	for i := range f.Trees {
		sum += f.Trees[i].Predict(x)
	}
	return sum / float64(len(f.Trees)), nil
}

// treeBuilder accumulates nodes while growing one tree.
type treeBuilder struct {
	cfg ForestConfig
	X   [][]float64
	y   []float64

	nodes []TreeNode
}

// growTree builds a single regression tree on a bootstrap sample.
func growTree(cfg ForestConfig, X [][]float64, y []float64, sample []int) Tree {
	b := &treeBuilder{cfg: cfg, X: X, y: y}
	idx := make([]int, len(sample))
	copy(idx, sample)
	b.build(idx, 0)
	return Tree{Nodes: b.nodes}
}

// build grows the subtree for the given sample indices and returns its
// node index.
func (b *treeBuilder) build(idx []int, depth int) int {
	mean, sse := meanSSE(b.y, idx)

	nodeIdx := len(b.nodes)
	b.nodes = append(b.nodes, TreeNode{Feature: -1, Value: mean})

	if depth >= b.cfg.MaxDepth || len(idx) < b.cfg.MinSamplesSplit || sse <= 1e-12 {
		return nodeIdx
	}

	feat, threshold, ok := b.bestSplit(idx, sse)
	if !ok {
		return nodeIdx
	}

	var left, right []int
	for _, i := range idx {
		if b.X[i][feat] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return nodeIdx
	}

	leftIdx := b.build(left, depth+1)
	rightIdx := b.build(right, depth+1)

	b.nodes[nodeIdx] = TreeNode{
		Feature:   feat,
		Threshold: threshold,
		Left:      leftIdx,
		Right:     rightIdx,
		Value:     mean,
	}
	return nodeIdx
}

// bestSplit finds the (feature, threshold) pair minimizing the summed
// squared error of the two children. All features are considered at every
// split; the randomness of the forest comes from bootstrap sampling alone.
func (b *treeBuilder) bestSplit(idx []int, parentSSE float64) (feature int, threshold float64, ok bool) {
	bestSSE := parentSSE
	numFeatures := len(b.X[idx[0]])

	order := make([]int, len(idx))
	for j := 0; j < numFeatures; j++ {
		copy(order, idx)
		sort.Slice(order, func(a, c int) bool {
			return b.X[order[a]][j] < b.X[order[c]][j]
		})

		// Running sums let every candidate split be scored in O(1):
		// SSE = sumSq - sum^2/n for each side.
		var leftSum, leftSq float64
		totalSum, totalSq := sums(b.y, order)

		for k := 0; k < len(order)-1; k++ {
			yi := b.y[order[k]]
			leftSum += yi
			leftSq += yi * yi

			cur, next := b.X[order[k]][j], b.X[order[k+1]][j]
			if cur == next {
				continue
			}

			nl := float64(k + 1)
			nr := float64(len(order) - k - 1)
			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq

			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if sse < bestSSE {
				bestSSE = sse
				feature = j
				threshold = (cur + next) / 2
				ok = true
			}
		}
	}

	return feature, threshold, ok
}

// meanSSE returns the mean and the sum of squared deviations of y over idx.
func meanSSE(y []float64, idx []int) (mean, sse float64) {
	var sum, sq float64
	for _, i := range idx {
		sum += y[i]
		sq += y[i] * y[i]
	}
	n := float64(len(idx))
	mean = sum / n
	sse = sq - sum*sum/n
	if sse < 0 {
		sse = 0 // guard against floating-point rounding below zero
	}
	return mean, sse
}

// sums returns the sum and sum of squares of y over idx.
func sums(y []float64, idx []int) (sum, sq float64) {
	for _, i := range idx {
		sum += y[i]
		sq += y[i] * y[i]
	}
	return sum, sq
}
