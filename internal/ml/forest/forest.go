// Package forest implements a random forest binary classifier: bagged CART
// trees with gini splits over bootstrap samples, probability by averaging
// leaf estimates. The fitted model embeds its feature scaler so inference
// can never skip the normalization the trees were trained on.
package forest

import (
	"math"
	"math/rand"
)

// Options controls ensemble training
type Options struct {
	Trees      int   // number of bagged trees
	MaxDepth   int   // depth limit per tree
	MinSamples int   // minimum samples to attempt a split
	Seed       int64 // rng seed for bootstrap + feature sampling
}

// DefaultOptions mirrors the parameters the persisted artifacts were trained with
func DefaultOptions() Options {
	return Options{Trees: 100, MaxDepth: 8, MinSamples: 2, Seed: 42}
}

// Node is a tree node; Left/Right nil means leaf
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      *Node   `json:"left,omitempty"`
	Right     *Node   `json:"right,omitempty"`
	Prob      float64 `json:"prob"` // P(class=1) at this node
}

// Model is a trained forest plus the scaler fitted on the training features
type Model struct {
	Trees  []*Node `json:"trees"`
	Scaler *Scaler `json:"scaler"`
}

// Train fits the ensemble on raw (unscaled) features. The scaler is fitted on
// X here and stored in the model; callers pass raw features to PredictProba.
func Train(X [][]float64, y []int, opts Options) *Model {
	if opts.Trees <= 0 {
		opts = DefaultOptions()
	}
	scaler := FitScaler(X)
	scaled := make([][]float64, len(X))
	for i, row := range X {
		scaled[i] = scaler.Transform(row)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	m := &Model{Trees: make([]*Node, opts.Trees), Scaler: scaler}
	for t := 0; t < opts.Trees; t++ {
		idx := make([]int, len(scaled))
		for i := range idx {
			idx[i] = rng.Intn(len(scaled))
		}
		m.Trees[t] = grow(scaled, y, idx, 0, opts, rng)
	}
	return m
}

// PredictProba scales the raw feature vector with the fitted scaler and
// averages the leaf probabilities across the ensemble.
func (m *Model) PredictProba(raw []float64) float64 {
	x := m.Scaler.Transform(raw)
	var sum float64
	for _, root := range m.Trees {
		sum += root.predict(x)
	}
	return sum / float64(len(m.Trees))
}

func (n *Node) predict(x []float64) float64 {
	for n.Left != nil {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Prob
}

func grow(X [][]float64, y []int, idx []int, depth int, opts Options, rng *rand.Rand) *Node {
	pos := 0
	for _, i := range idx {
		pos += y[i]
	}
	node := &Node{Prob: float64(pos) / float64(len(idx))}

	if depth >= opts.MaxDepth || len(idx) < opts.MinSamples || pos == 0 || pos == len(idx) {
		return node
	}

	feature, threshold, ok := bestSplit(X, y, idx, rng)
	if !ok {
		return node
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return node
	}

	node.Feature = feature
	node.Threshold = threshold
	node.Left = grow(X, y, left, depth+1, opts, rng)
	node.Right = grow(X, y, right, depth+1, opts, rng)
	return node
}

// bestSplit scans a random sqrt(d) feature subset and every midpoint between
// adjacent distinct values, minimizing weighted gini impurity.
func bestSplit(X [][]float64, y []int, idx []int, rng *rand.Rand) (int, float64, bool) {
	dims := len(X[0])
	mtry := int(math.Sqrt(float64(dims)))
	if mtry < 1 {
		mtry = 1
	}
	features := rng.Perm(dims)[:mtry]

	bestGini := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	for _, f := range features {
		values := make([]float64, 0, len(idx))
		for _, i := range idx {
			values = append(values, X[i][f])
		}
		for _, threshold := range midpoints(values) {
			g := splitGini(X, y, idx, f, threshold)
			if g < bestGini {
				bestGini = g
				bestFeature = f
				bestThreshold = threshold
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func midpoints(values []float64) []float64 {
	uniq := make(map[float64]struct{}, len(values))
	for _, v := range values {
		uniq[v] = struct{}{}
	}
	sorted := make([]float64, 0, len(uniq))
	for v := range uniq {
		sorted = append(sorted, v)
	}
	if len(sorted) < 2 {
		return nil
	}
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	mids := make([]float64, 0, len(sorted)-1)
	for i := 0; i+1 < len(sorted); i++ {
		mids = append(mids, (sorted[i]+sorted[i+1])/2)
	}
	return mids
}

func splitGini(X [][]float64, y []int, idx []int, feature int, threshold float64) float64 {
	var nL, posL, nR, posR int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			nL++
			posL += y[i]
		} else {
			nR++
			posR += y[i]
		}
	}
	if nL == 0 || nR == 0 {
		return math.Inf(1)
	}
	return (float64(nL)*gini(posL, nL) + float64(nR)*gini(posR, nR)) / float64(nL+nR)
}

func gini(pos, n int) float64 {
	p := float64(pos) / float64(n)
	return 2 * p * (1 - p)
}
