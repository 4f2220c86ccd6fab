package dtboruvka

import (
	"math"

	"golang.org/x/sync/errgroup"
)

// parallelCoreDistanceThreshold is the point count above which the kNN
// pass is split into chunks and queried concurrently.
const parallelCoreDistanceThreshold = 16384

// coreDistanceInitializer computes per-point core distances and seeds the
// initial candidate edges: a bulk kNN query against the supplied tree,
// optionally chunked across goroutines.
type coreDistanceInitializer struct {
	tree       TreeView
	oracle     DistanceOracle
	minSamples int
	rdistSpace bool // true for KD-tree runs: store core distance as rdist
	nJobs      int
}

// run performs the kNN pass, derives core distances, and returns a
// candidateSet seeded by a first-match rule: scan each point's m nearest
// neighbors in rank order and take the first one whose own core distance
// does not exceed the query point's, rather than scanning all m neighbors
// for the tightest one. This reproduces a known quirk of the reference
// implementation rather than the theoretically tighter seed.
func (c *coreDistanceInitializer) run() ([]float64, *candidateSet, error) {
	n := c.tree.NumPoints()
	m := c.minSamples
	k := m + 1
	if k > n {
		k = n
	}

	indices, distances, err := c.queryAll(k)
	if err != nil {
		return nil, nil, err
	}

	coreDistance := make([]float64, n)
	for i := 0; i < n; i++ {
		if m >= len(distances[i]) {
			return nil, nil, preconditionf("minSamples (%d) exceeds available neighbors for point %d", m, i)
		}
		d := distances[i][m]
		if math.IsNaN(d) {
			nb := -1
			if m < len(indices[i]) {
				nb = indices[i][m]
			}
			return nil, nil, &NumericDegeneracyError{PointA: i, PointB: nb, Value: d}
		}
		coreDistance[i] = d
	}

	if c.rdistSpace {
		for i := range coreDistance {
			coreDistance[i] = c.oracle.DistToRdist(coreDistance[i])
		}
	}

	cands := newCandidateSet(n)
	for i := 0; i < n; i++ {
		neighbors := indices[i]
		limit := m
		if limit > len(neighbors)-1 {
			limit = len(neighbors) - 1
		}
		for rank := 1; rank <= limit; rank++ {
			nb := neighbors[rank]
			if nb == i {
				continue
			}
			if coreDistance[nb] <= coreDistance[i] {
				cands.update(i, i, nb, coreDistance[i])
				break
			}
		}
	}

	return coreDistance, cands, nil
}

// queryAll performs the kNN pass, chunking across goroutines when N is
// large enough and more than one worker is configured. BLAS/vector
// backends inside QueryKNN are the caller's responsibility to
// pin to a single inner thread; this package issues no BLAS calls itself.
func (c *coreDistanceInitializer) queryAll(k int) (indices [][]int, distances [][]float64, err error) {
	n := c.tree.NumPoints()
	dims := c.tree.NumFeatures()
	data := c.tree.Data()

	if n <= parallelCoreDistanceThreshold || c.nJobs <= 1 {
		idx, dist := c.tree.QueryKNN(data, n, k)
		return idx, dist, nil
	}

	indices = make([][]int, n)
	distances = make([][]float64, n)

	chunk := (n + c.nJobs - 1) / c.nJobs
	g := new(errgroup.Group)

	for start := 0; start < n; start += chunk {
		start := start
		end := start + chunk
		if end > n {
			end = n
		}
		g.Go(func() error {
			qIdx, qDist := c.tree.QueryKNN(data[start*dims:end*dims], end-start, k)
			copy(indices[start:end], qIdx)
			copy(distances[start:end], qDist)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return indices, distances, nil
}
