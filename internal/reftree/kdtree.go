// Package reftree provides reference spatial-tree implementations of
// dtboruvka.TreeView, adapted from a production HDBSCAN package's KD-tree
// and Ball-tree, for use by dtboruvka's own tests and examples. Neither
// tree is part of the engine's public surface: callers are expected to
// supply their own TreeView implementation.
package reftree

import (
	"container/heap"
	"math"
	"sort"

	"github.com/clusterscan/dtboruvka"
)

// KDTree is an axis-aligned KD-tree stored as a complete binary tree in
// array form: node i has children at 2*i+1 and 2*i+2. It implements both
// dtboruvka.TreeView and dtboruvka.KDBoundedTree.
type KDTree struct {
	data     []float64
	n        int
	dims     int
	leafSize int
	oracle   dtboruvka.DistanceOracle

	idxArray []int
	nodes    []dtboruvka.NodeData

	boundsLo []float64 // node*dims + j
	boundsHi []float64

	numNodes int
	maxID    int
}

// NewKDTree builds a KD-tree over n points of dimensionality dims stored
// row-major in data. leafSize caps the number of points per leaf.
func NewKDTree(data []float64, n, dims int, oracle dtboruvka.DistanceOracle, leafSize int) *KDTree {
	if leafSize < 1 {
		leafSize = 1
	}

	dataCopy := make([]float64, len(data))
	copy(dataCopy, data)
	idxArray := make([]int, n)
	for i := range idxArray {
		idxArray[i] = i
	}

	maxNodes := maxNodeCount(n, leafSize)
	t := &KDTree{
		data:     dataCopy,
		n:        n,
		dims:     dims,
		leafSize: leafSize,
		oracle:   oracle,
		idxArray: idxArray,
		nodes:    make([]dtboruvka.NodeData, maxNodes),
		boundsLo: make([]float64, maxNodes*dims),
		boundsHi: make([]float64, maxNodes*dims),
	}

	if n > 0 {
		t.build(0, 0, n)
		t.numNodes = t.maxID + 1
	}
	return t
}

// maxNodeCount upper-bounds the node count of a leafSize-capped complete
// binary tree over n points, with a small safety margin for uneven splits.
func maxNodeCount(n, leafSize int) int {
	if n == 0 {
		return 1
	}
	leaves := (n + leafSize - 1) / leafSize
	depth := 0
	v := 1
	for v < leaves {
		v *= 2
		depth++
	}
	return (1 << (depth + 1)) - 1 + 2
}

func (t *KDTree) build(id, start, end int) {
	for id >= len(t.nodes) {
		t.nodes = append(t.nodes, dtboruvka.NodeData{})
		t.boundsLo = append(t.boundsLo, make([]float64, t.dims)...)
		t.boundsHi = append(t.boundsHi, make([]float64, t.dims)...)
	}
	if id > t.maxID {
		t.maxID = id
	}

	t.computeBounds(id, start, end)
	radius := t.computeRadius(id, start, end)

	count := end - start
	if count <= t.leafSize {
		t.nodes[id] = dtboruvka.NodeData{IdxStart: start, IdxEnd: end, IsLeaf: true, Radius: radius}
		return
	}

	splitDim := 0
	maxSpread := -1.0
	base := id * t.dims
	for d := 0; d < t.dims; d++ {
		spread := t.boundsHi[base+d] - t.boundsLo[base+d]
		if spread > maxSpread {
			maxSpread = spread
			splitDim = d
		}
	}

	sub := t.idxArray[start:end]
	dims := t.dims
	data := t.data
	sort.Slice(sub, func(i, j int) bool {
		return data[sub[i]*dims+splitDim] < data[sub[j]*dims+splitDim]
	})
	mid := start + count/2

	t.nodes[id] = dtboruvka.NodeData{IdxStart: start, IdxEnd: end, IsLeaf: false, Radius: radius}
	t.build(2*id+1, start, mid)
	t.build(2*id+2, mid, end)
}

func (t *KDTree) computeBounds(id, start, end int) {
	base := id * t.dims
	for d := 0; d < t.dims; d++ {
		t.boundsLo[base+d] = math.Inf(1)
		t.boundsHi[base+d] = math.Inf(-1)
	}
	for i := start; i < end; i++ {
		p := t.idxArray[i]
		for d := 0; d < t.dims; d++ {
			v := t.data[p*t.dims+d]
			if v < t.boundsLo[base+d] {
				t.boundsLo[base+d] = v
			}
			if v > t.boundsHi[base+d] {
				t.boundsHi[base+d] = v
			}
		}
	}
}

// computeRadius returns the true-distance radius of the smallest ball,
// centered at the node's bounding-box midpoint, enclosing every point in
// [start,end). Every node carries this even though KD pruning itself goes
// through AxisBounds, since the traversal also needs a tree-kind-agnostic
// radius for descend-order tie-breaking and bound tightening.
func (t *KDTree) computeRadius(id, start, end int) float64 {
	base := id * t.dims
	mid := make([]float64, t.dims)
	for d := 0; d < t.dims; d++ {
		mid[d] = 0.5 * (t.boundsLo[base+d] + t.boundsHi[base+d])
	}
	var radius float64
	for i := start; i < end; i++ {
		p := t.idxArray[i]
		pt := t.data[p*t.dims : (p+1)*t.dims]
		d := t.oracle.Dist(mid, pt)
		if d > radius {
			radius = d
		}
	}
	return radius
}

func (t *KDTree) Data() []float64                      { return t.data }
func (t *KDTree) NumPoints() int                        { return t.n }
func (t *KDTree) NumFeatures() int                       { return t.dims }
func (t *KDTree) IdxArray() []int                        { return t.idxArray }
func (t *KDTree) NodeDataArray() []dtboruvka.NodeData    { return t.nodes[:t.numNodes] }
func (t *KDTree) NumNodes() int                          { return t.numNodes }
func (t *KDTree) ChildNodes(node int) (left, right int)  { return 2*node + 1, 2*node + 2 }

func (t *KDTree) AxisBounds(node int) (lo, hi []float64) {
	base := node * t.dims
	return t.boundsLo[base : base+t.dims], t.boundsHi[base : base+t.dims]
}

// QueryKNN runs a single-tree pruned nearest-neighbor search per query
// row, breaking ties on neighbor index so chunked and unchunked callers
// agree bit-for-bit.
func (t *KDTree) QueryKNN(queryData []float64, queryRows, k int) ([][]int, [][]float64) {
	indices := make([][]int, queryRows)
	distances := make([][]float64, queryRows)

	for q := 0; q < queryRows; q++ {
		query := queryData[q*t.dims : (q+1)*t.dims]
		h := &knnHeap{}
		heap.Init(h)
		t.knnSearch(0, query, k, h)

		n := h.Len()
		idx := make([]int, n)
		dist := make([]float64, n)
		items := make([]knnItem, n)
		for i := n - 1; i >= 0; i-- {
			items[i] = heap.Pop(h).(knnItem)
		}
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].dist != items[j].dist {
				return items[i].dist < items[j].dist
			}
			return items[i].index < items[j].index
		})
		for i, it := range items {
			idx[i] = it.index
			dist[i] = it.dist
		}
		indices[q] = idx
		distances[q] = dist
	}
	return indices, distances
}

func (t *KDTree) knnSearch(id int, query []float64, k int, h *knnHeap) {
	if id >= len(t.nodes) {
		return
	}
	node := t.nodes[id]
	if node.IdxStart == node.IdxEnd && id != 0 {
		return
	}

	if node.IsLeaf {
		for i := node.IdxStart; i < node.IdxEnd; i++ {
			p := t.idxArray[i]
			pt := t.data[p*t.dims : (p+1)*t.dims]
			d := t.oracle.Dist(query, pt)
			if h.Len() < k {
				heap.Push(h, knnItem{index: p, dist: d})
			} else if d < (*h)[0].dist {
				(*h)[0] = knnItem{index: p, dist: d}
				heap.Fix(h, 0)
			}
		}
		return
	}

	left, right := 2*id+1, 2*id+2
	leftRdist := t.minRdistPoint(left, query)
	rightRdist := t.minRdistPoint(right, query)

	nearChild, farChild, farRdist := left, right, rightRdist
	if rightRdist < leftRdist {
		nearChild, farChild, farRdist = right, left, leftRdist
	}

	t.knnSearch(nearChild, query, k, h)
	if h.Len() < k || t.oracle.DistToRdist((*h)[0].dist) > farRdist {
		t.knnSearch(farChild, query, k, h)
	}
}

func (t *KDTree) minRdistPoint(node int, point []float64) float64 {
	if node >= len(t.nodes) {
		return math.Inf(1)
	}
	lo, hi := t.AxisBounds(node)
	p := t.oracle.P()
	if math.IsInf(p, 1) {
		var rdist float64
		for j := range lo {
			var d float64
			if point[j] < lo[j] {
				d = lo[j] - point[j]
			} else if point[j] > hi[j] {
				d = point[j] - hi[j]
			}
			if d > rdist {
				rdist = d
			}
		}
		return rdist
	}
	var rdist float64
	for j := range lo {
		var d float64
		if point[j] < lo[j] {
			d = lo[j] - point[j]
		} else if point[j] > hi[j] {
			d = point[j] - hi[j]
		}
		rdist += math.Pow(d, p)
	}
	return rdist
}

type knnItem struct {
	index int
	dist  float64
}

// knnHeap is a bounded max-heap (largest distance on top) used to track
// the current k best candidates during a KNN search.
type knnHeap []knnItem

func (h knnHeap) Len() int            { return len(h) }
func (h knnHeap) Less(i, j int) bool  { return h[i].dist > h[j].dist }
func (h knnHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *knnHeap) Push(x interface{}) { *h = append(*h, x.(knnItem)) }
func (h *knnHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
