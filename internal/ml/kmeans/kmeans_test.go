package kmeans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoGroups returns well-separated sparse rows: the first half loads on
// columns 0-1, the second half on columns 8-9.
func twoGroups() []map[int]float64 {
	return []map[int]float64{
		{0: 1.0, 1: 0.9},
		{0: 0.9, 1: 1.1},
		{0: 1.1, 1: 1.0},
		{8: 1.0, 9: 0.9},
		{8: 0.9, 9: 1.1},
		{8: 1.1, 9: 1.0},
	}
}

func TestFitSeparatesGroups(t *testing.T) {
	rows := twoGroups()
	model := Fit(rows, 10, 2, DefaultOptions())

	require.Equal(t, 2, model.K)
	require.Len(t, model.Labels, len(rows))

	first := model.Labels[0]
	second := model.Labels[3]
	assert.NotEqual(t, first, second)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, model.Labels[i])
	}
	for i := 3; i < 6; i++ {
		assert.Equal(t, second, model.Labels[i])
	}
}

func TestAssignMatchesTrainingLabel(t *testing.T) {
	rows := twoGroups()
	model := Fit(rows, 10, 2, DefaultOptions())

	for i, row := range rows {
		assert.Equal(t, model.Labels[i], model.Assign(row))
	}

	// a fresh vector near the first group lands in its cluster
	assert.Equal(t, model.Labels[0], model.Assign(map[int]float64{0: 1.05, 1: 0.95}))
}

func TestFitCapsKAtRowCount(t *testing.T) {
	rows := []map[int]float64{{0: 1}, {1: 1}}
	model := Fit(rows, 2, 6, DefaultOptions())

	assert.Equal(t, 2, model.K)
	assert.Len(t, model.Centroids, 2)
}

func TestFitIsDeterministicForSeed(t *testing.T) {
	rows := twoGroups()
	a := Fit(rows, 10, 2, DefaultOptions())
	b := Fit(rows, 10, 2, DefaultOptions())

	assert.Equal(t, a.Labels, b.Labels)
	assert.Equal(t, a.Inertia, b.Inertia)
}

func TestInertiaReflectsTightClusters(t *testing.T) {
	rows := twoGroups()
	model := Fit(rows, 10, 2, DefaultOptions())

	// within-group spread is small; a single-cluster fit must be much worse
	single := Fit(rows, 10, 1, DefaultOptions())
	assert.Less(t, model.Inertia, single.Inertia)
}
