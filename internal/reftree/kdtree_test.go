package reftree

import (
	"math"
	"sort"
	"testing"

	"github.com/clusterscan/dtboruvka"
)

func TestKDTreeConstructionBasicProperties(t *testing.T) {
	data := []float64{
		0, 0,
		1, 0,
		2, 0,
		0, 3,
		1, 3,
		2, 3,
	}
	n, dims := 6, 2
	tree := NewKDTree(data, n, dims, dtboruvka.EuclideanOracle{}, 2)

	if tree.NumPoints() != n {
		t.Errorf("NumPoints() = %d, want %d", tree.NumPoints(), n)
	}
	if tree.NumFeatures() != dims {
		t.Errorf("NumFeatures() = %d, want %d", tree.NumFeatures(), dims)
	}
	if tree.NumNodes() < 1 {
		t.Errorf("NumNodes() = %d, want >= 1", tree.NumNodes())
	}

	idx := tree.IdxArray()
	if len(idx) != n {
		t.Fatalf("IdxArray length = %d, want %d", len(idx), n)
	}
	seen := make(map[int]bool)
	for _, v := range idx {
		if v < 0 || v >= n {
			t.Errorf("IdxArray contains out-of-range index %d", v)
		}
		if seen[v] {
			t.Errorf("IdxArray contains duplicate index %d", v)
		}
		seen[v] = true
	}
}

func TestKDTreeLeafSizeOneGivesSingletonLeaves(t *testing.T) {
	data := []float64{0, 0, 1, 1, 2, 2, 3, 3}
	tree := NewKDTree(data, 4, 2, dtboruvka.EuclideanOracle{}, 1)

	for _, nd := range tree.NodeDataArray() {
		if nd.IsLeaf && (nd.IdxEnd-nd.IdxStart) != 1 {
			t.Errorf("leaf has %d points, want 1", nd.IdxEnd-nd.IdxStart)
		}
	}
}

func TestKDTreeLeafSizeLargerThanN(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	tree := NewKDTree(data, 2, 2, dtboruvka.EuclideanOracle{}, 100)

	nodes := tree.NodeDataArray()
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node for leafSize > n, got %d", len(nodes))
	}
	if !nodes[0].IsLeaf {
		t.Error("root should be a leaf when leafSize > n")
	}
}

func TestKDTreeAxisBoundsContainAllPoints(t *testing.T) {
	data := []float64{0, 0, 5, 2, -3, 7, 1, -4}
	tree := NewKDTree(data, 4, 2, dtboruvka.EuclideanOracle{}, 1)

	idx := tree.IdxArray()
	for n, nd := range tree.NodeDataArray() {
		lo, hi := tree.AxisBounds(n)
		for i := nd.IdxStart; i < nd.IdxEnd; i++ {
			p := idx[i]
			for d := 0; d < 2; d++ {
				v := data[p*2+d]
				if v < lo[d]-1e-12 || v > hi[d]+1e-12 {
					t.Errorf("node %d: point %d axis %d value %v out of bounds [%v, %v]", n, p, d, v, lo[d], hi[d])
				}
			}
		}
	}
}

func TestKDTreeQueryKNNMatchesBruteForce(t *testing.T) {
	data := []float64{
		0, 0,
		1, 0,
		3, 0,
		0, 4,
		10, 10,
		-5, -5,
	}
	n, dims, k := 6, 2, 3
	tree := NewKDTree(data, n, dims, dtboruvka.EuclideanOracle{}, 2)

	indices, distances := tree.QueryKNN(data, n, k)

	for q := 0; q < n; q++ {
		wantIdx, wantDist := bruteForceKNN(data, n, dims, q, k)
		if len(indices[q]) != len(wantIdx) {
			t.Fatalf("query %d: got %d neighbors, want %d", q, len(indices[q]), len(wantIdx))
		}
		for i := range wantDist {
			if math.Abs(distances[q][i]-wantDist[i]) > 1e-9 {
				t.Errorf("query %d rank %d: dist = %v, want %v", q, i, distances[q][i], wantDist[i])
			}
		}
	}
}

func bruteForceKNN(data []float64, n, dims, query, k int) ([]int, []float64) {
	type cand struct {
		idx  int
		dist float64
	}
	cands := make([]cand, 0, n)
	qp := data[query*dims : (query+1)*dims]
	for j := 0; j < n; j++ {
		var sum float64
		for d := 0; d < dims; d++ {
			diff := qp[d] - data[j*dims+d]
			sum += diff * diff
		}
		cands = append(cands, cand{j, math.Sqrt(sum)})
	}
	sort.Slice(cands, func(a, b int) bool {
		if cands[a].dist != cands[b].dist {
			return cands[a].dist < cands[b].dist
		}
		return cands[a].idx < cands[b].idx
	})
	if k > len(cands) {
		k = len(cands)
	}
	idx := make([]int, k)
	dist := make([]float64, k)
	for i := 0; i < k; i++ {
		idx[i] = cands[i].idx
		dist[i] = cands[i].dist
	}
	return idx, dist
}
