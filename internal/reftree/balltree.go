package reftree

import (
	"container/heap"
	"math"
	"sort"

	"github.com/clusterscan/dtboruvka"
)

// BallTree is a ball tree stored as a complete binary tree in array form,
// with a precomputed pairwise centroid-distance matrix enabling O(1)
// node-to-node lower bounds. It implements both dtboruvka.TreeView and
// dtboruvka.BallCentroidTree.
type BallTree struct {
	data     []float64
	n        int
	dims     int
	leafSize int
	oracle   dtboruvka.DistanceOracle

	idxArray []int
	nodes    []dtboruvka.NodeData

	centroids     []float64 // node*dims + j
	centroidDists []float64 // i*width + j
	width         int

	numNodes int
	maxID    int
}

// NewBallTree builds a ball tree over n points of dimensionality dims
// stored row-major in data. leafSize caps the number of points per leaf.
func NewBallTree(data []float64, n, dims int, oracle dtboruvka.DistanceOracle, leafSize int) *BallTree {
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
	t := &BallTree{
		data:      dataCopy,
		n:         n,
		dims:      dims,
		leafSize:  leafSize,
		oracle:    oracle,
		idxArray:  idxArray,
		nodes:     make([]dtboruvka.NodeData, maxNodes),
		centroids: make([]float64, maxNodes*dims),
		width:     maxNodes,
	}

	if n > 0 {
		t.build(0, 0, n)
		t.numNodes = t.maxID + 1
		t.precomputeCentroidDists()
	}
	return t
}

func (t *BallTree) build(id, start, end int) {
	for id >= len(t.nodes) {
		t.nodes = append(t.nodes, dtboruvka.NodeData{})
		t.centroids = append(t.centroids, make([]float64, t.dims)...)
	}
	if id > t.maxID {
		t.maxID = id
	}

	t.computeCentroid(id, start, end)
	centroid := t.centroids[id*t.dims : (id+1)*t.dims]

	var radius float64
	for i := start; i < end; i++ {
		p := t.idxArray[i]
		pt := t.data[p*t.dims : (p+1)*t.dims]
		d := t.oracle.Dist(centroid, pt)
		if d > radius {
			radius = d
		}
	}

	count := end - start
	if count <= t.leafSize {
		t.nodes[id] = dtboruvka.NodeData{IdxStart: start, IdxEnd: end, IsLeaf: true, Radius: radius}
		return
	}

	t.nodes[id] = dtboruvka.NodeData{IdxStart: start, IdxEnd: end, IsLeaf: false, Radius: radius}

	splitDim := t.widestSpreadDim(start, end)
	sub := t.idxArray[start:end]
	dims := t.dims
	data := t.data
	sort.Slice(sub, func(i, j int) bool {
		return data[sub[i]*dims+splitDim] < data[sub[j]*dims+splitDim]
	})
	mid := start + count/2

	t.build(2*id+1, start, mid)
	t.build(2*id+2, mid, end)
}

// widestSpreadDim picks the feature with greatest range over the node's
// points, the same simple partitioning heuristic used for moderate
// dimensionality rather than a full principal-axis split.
func (t *BallTree) widestSpreadDim(start, end int) int {
	lo := make([]float64, t.dims)
	hi := make([]float64, t.dims)
	for d := 0; d < t.dims; d++ {
		lo[d] = math.Inf(1)
		hi[d] = math.Inf(-1)
	}
	for i := start; i < end; i++ {
		p := t.idxArray[i]
		for d := 0; d < t.dims; d++ {
			v := t.data[p*t.dims+d]
			if v < lo[d] {
				lo[d] = v
			}
			if v > hi[d] {
				hi[d] = v
			}
		}
	}
	best := 0
	bestSpread := -1.0
	for d := 0; d < t.dims; d++ {
		spread := hi[d] - lo[d]
		if spread > bestSpread {
			bestSpread = spread
			best = d
		}
	}
	return best
}

func (t *BallTree) computeCentroid(id, start, end int) {
	base := id * t.dims
	count := float64(end - start)
	for d := 0; d < t.dims; d++ {
		t.centroids[base+d] = 0
	}
	if count == 0 {
		return
	}
	for i := start; i < end; i++ {
		p := t.idxArray[i]
		for d := 0; d < t.dims; d++ {
			t.centroids[base+d] += t.data[p*t.dims+d]
		}
	}
	for d := 0; d < t.dims; d++ {
		t.centroids[base+d] /= count
	}
}

func (t *BallTree) precomputeCentroidDists() {
	t.width = len(t.nodes)
	t.centroidDists = make([]float64, t.width*t.width)
	for i := 0; i < t.numNodes; i++ {
		ci := t.centroids[i*t.dims : (i+1)*t.dims]
		for j := i; j < t.numNodes; j++ {
			cj := t.centroids[j*t.dims : (j+1)*t.dims]
			d := t.oracle.Dist(ci, cj)
			t.centroidDists[i*t.width+j] = d
			t.centroidDists[j*t.width+i] = d
		}
	}
}

func (t *BallTree) Data() []float64                     { return t.data }
func (t *BallTree) NumPoints() int                       { return t.n }
func (t *BallTree) NumFeatures() int                     { return t.dims }
func (t *BallTree) IdxArray() []int                      { return t.idxArray }
func (t *BallTree) NodeDataArray() []dtboruvka.NodeData  { return t.nodes[:t.numNodes] }
func (t *BallTree) NumNodes() int                        { return t.numNodes }
func (t *BallTree) ChildNodes(node int) (left, right int) { return 2*node + 1, 2*node + 2 }

func (t *BallTree) CentroidDistance(a, b int) float64 {
	return t.centroidDists[a*t.width+b]
}

// QueryKNN runs a single-tree pruned nearest-neighbor search per query
// row using centroid-distance pruning, breaking ties on neighbor index so
// chunked and unchunked callers agree bit-for-bit.
func (t *BallTree) QueryKNN(queryData []float64, queryRows, k int) ([][]int, [][]float64) {
	indices := make([][]int, queryRows)
	distances := make([][]float64, queryRows)

	for q := 0; q < queryRows; q++ {
		query := queryData[q*t.dims : (q+1)*t.dims]
		h := &knnHeap{}
		heap.Init(h)
		t.knnSearch(0, query, k, h)

		n := h.Len()
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
		idx := make([]int, n)
		dist := make([]float64, n)
		for i, it := range items {
			idx[i] = it.index
			dist[i] = it.dist
		}
		indices[q] = idx
		distances[q] = dist
	}
	return indices, distances
}

func (t *BallTree) knnSearch(id int, query []float64, k int, h *knnHeap) {
	if id >= len(t.nodes) {
		return
	}
	node := t.nodes[id]
	if node.IdxStart == node.IdxEnd && id != 0 {
		return
	}

	centroid := t.centroids[id*t.dims : (id+1)*t.dims]
	lowerBound := t.oracle.Dist(centroid, query) - node.Radius
	if lowerBound < 0 {
		lowerBound = 0
	}
	if h.Len() >= k && lowerBound > (*h)[0].dist {
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
	leftCentroid := t.centroids[left*t.dims : (left+1)*t.dims]
	rightCentroid := t.centroids[right*t.dims : (right+1)*t.dims]
	leftDist := t.oracle.Dist(leftCentroid, query) - t.nodes[left].Radius
	rightDist := t.oracle.Dist(rightCentroid, query) - t.nodes[right].Radius

	nearChild, farChild := left, right
	if rightDist < leftDist {
		nearChild, farChild = right, left
	}
	t.knnSearch(nearChild, query, k, h)
	t.knnSearch(farChild, query, k, h)
}
