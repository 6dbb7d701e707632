// Package kmeans implements fixed-k centroid clustering (Lloyd's algorithm)
// over sparse row vectors, with random multi-start initialization and
// convergence on within-cluster squared distance.
package kmeans

import (
	"math"
	"math/rand"
)

// Options controls the iterative refinement
type Options struct {
	MaxIters int
	Restarts int // independent random initializations; best inertia wins
	Seed     int64
}

// DefaultOptions mirrors the training pipeline configuration
func DefaultOptions() Options {
	return Options{MaxIters: 100, Restarts: 5, Seed: 42}
}

// Model holds k dense centroids in the source vector space and the cluster
// assignment for every corpus row, aligned to fit order.
type Model struct {
	K         int         `json:"k"`
	Dim       int         `json:"dim"`
	Centroids [][]float64 `json:"centroids"`
	Labels    []int       `json:"labels"`
	Inertia   float64     `json:"inertia"`
}

// Fit clusters rows (sparse column->weight vectors of dimensionality dim)
// into k groups. k is capped at the number of rows.
func Fit(rows []map[int]float64, dim, k int, opts Options) *Model {
	if opts.MaxIters <= 0 {
		opts = DefaultOptions()
	}
	if k > len(rows) {
		k = len(rows)
	}
	if k < 1 {
		k = 1
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	best := &Model{Inertia: math.Inf(1)}
	restarts := opts.Restarts
	if restarts < 1 {
		restarts = 1
	}
	for r := 0; r < restarts; r++ {
		m := run(rows, dim, k, opts.MaxIters, rng)
		if m.Inertia < best.Inertia {
			best = m
		}
	}
	return best
}

func run(rows []map[int]float64, dim, k, maxIters int, rng *rand.Rand) *Model {
	centroids := make([][]float64, k)
	for i, ri := range rng.Perm(len(rows))[:k] {
		centroids[i] = toDense(rows[ri], dim)
	}

	labels := make([]int, len(rows))
	var inertia float64
	for iter := 0; iter < maxIters; iter++ {
		inertia = 0
		moved := false
		for i, row := range rows {
			c, d := nearest(row, centroids)
			if c != labels[i] {
				moved = true
			}
			labels[i] = c
			inertia += d
		}

		next := make([][]float64, k)
		counts := make([]int, k)
		for i := range next {
			next[i] = make([]float64, dim)
		}
		for i, row := range rows {
			counts[labels[i]]++
			for col, w := range row {
				next[labels[i]][col] += w
			}
		}
		for c := range next {
			if counts[c] == 0 {
				// empty cluster: reseed from a random row
				next[c] = toDense(rows[rng.Intn(len(rows))], dim)
				continue
			}
			for col := range next[c] {
				next[c][col] /= float64(counts[c])
			}
		}
		centroids = next
		if !moved && iter > 0 {
			break
		}
	}

	return &Model{K: k, Dim: dim, Centroids: centroids, Labels: labels, Inertia: inertia}
}

// Assign returns the nearest centroid for a new vector. The vector must come
// from the same fitted vectorizer that produced the training matrix.
func (m *Model) Assign(vec map[int]float64) int {
	c, _ := nearest(vec, m.Centroids)
	return c
}

func nearest(row map[int]float64, centroids [][]float64) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		d := sqDist(row, centroid)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}

// sqDist computes ||row - centroid||^2 without densifying the row:
// ||c||^2 plus per-nonzero corrections.
func sqDist(row map[int]float64, centroid []float64) float64 {
	var d float64
	for _, cv := range centroid {
		d += cv * cv
	}
	for col, w := range row {
		var cv float64
		if col < len(centroid) {
			cv = centroid[col]
		}
		d += w*w - 2*w*cv
	}
	return d
}

func toDense(row map[int]float64, dim int) []float64 {
	dense := make([]float64, dim)
	for col, w := range row {
		if col < dim {
			dense[col] = w
		}
	}
	return dense
}
