package analysis

import (
	"math/rand"

	"github.com/muesli/clusters"
)

const (
	// maxClusters caps automatic cluster-count selection.
	maxClusters = 5
	// maxIterations bounds the assignment/recenter loop.
	maxIterations = 100
)

// rowObservation wraps a matrix row to implement clusters.Observation.
type rowObservation struct {
	index  int
	coords clusters.Coordinates
}

func (o rowObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o rowObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// Partition groups the matrix rows into at most k non-empty clusters and
// returns one 0-based label per row, aligned positionally with the matrix,
// together with the number of clusters in the result.
//
// When k <= 0 the cluster count is chosen automatically as min(5, rows/2),
// never below 2. Identical input and seed always produce identical labels:
// initial centers are drawn from the rows with a seeded generator instead
// of the wall clock. Clusters left empty after convergence are removed and
// the remaining labels renumbered densely, so degenerate input (for
// example all-identical rows) yields a valid single-cluster partition.
func Partition(m *FeatureMatrix, k int, seed int64) ([]int, int) {
	n := len(m.Rows)
	if n == 0 {
		return nil, 0
	}

	if k <= 0 {
		k = autoClusterCount(n)
	}
	if k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}

	obs := make([]rowObservation, n)
	for i, row := range m.Rows {
		coords := make(clusters.Coordinates, len(row))
		copy(coords, row)
		obs[i] = rowObservation{index: i, coords: coords}
	}

	// Seed centers from k distinct rows.
	rng := rand.New(rand.NewSource(seed))
	cc := make(clusters.Clusters, 0, k)
	for _, idx := range rng.Perm(n)[:k] {
		center := make(clusters.Coordinates, len(obs[idx].coords))
		copy(center, obs[idx].coords)
		cc = append(cc, clusters.Cluster{Center: center})
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < maxIterations; iter++ {
		changes := 0
		cc.Reset()
		for i, o := range obs {
			ci := cc.Nearest(o)
			cc[ci].Append(o)
			if labels[i] != ci {
				labels[i] = ci
				changes++
			}
		}
		cc.Recenter()
		if changes == 0 {
			break
		}
	}

	return compactLabels(labels, k)
}

// autoClusterCount picks a cluster count for n rows: min(5, n/2), at least 2.
func autoClusterCount(n int) int {
	k := n / 2
	if k > maxClusters {
		k = maxClusters
	}
	if k < 2 {
		k = 2
	}
	return k
}

// compactLabels renumbers labels into a dense 0..k'-1 range, dropping any
// cluster index that ended up with no members. Relative order of surviving
// clusters is preserved.
func compactLabels(labels []int, k int) ([]int, int) {
	used := make([]bool, k)
	for _, old := range labels {
		used[old] = true
	}

	// Renumber in ascending original-index order so label values do not
	// depend on row order quirks.
	remap := make([]int, k)
	next := 0
	for old := 0; old < k; old++ {
		if used[old] {
			remap[old] = next
			next++
		}
	}

	out := make([]int, len(labels))
	for i, old := range labels {
		out[i] = remap[old]
	}
	return out, next
}
