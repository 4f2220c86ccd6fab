package dtboruvka

// NodeData describes a single node of a caller-supplied spatial tree: its
// span over the permuted index array, whether it is a leaf, and its
// radius, the true-distance radius of a ball around the node's center
// that encloses every point under the node. Radius is populated for both tree kinds: Ball
// -tree nodes use it directly as their bounding volume; KD-tree nodes
// still carry it for the traversal's descend-order tie-break and bound
// -tightening step, even though pruning itself goes through the tighter
// axis-aligned box via [KDBoundedTree.AxisBounds].
type NodeData struct {
	IdxStart, IdxEnd int
	IsLeaf           bool
	Radius           float64
}

// TreeView is the narrow interface the engine consumes from an external
// spatial tree. Node ids are integers in [0, NumNodes()); node 0 is the
// root. For inner node n, children are ChildNodes(n), which must follow
// the array-form convention (2n+1, 2n+2) that the reference trees in
// internal/reftree use: bound propagation walks to a node's parent as
// (n-1)/2 without consulting ChildNodes.
type TreeView interface {
	// NumPoints returns N, the number of points in the tree.
	NumPoints() int

	// NumFeatures returns the dimensionality of each point.
	NumFeatures() int

	// NumNodes returns M, the total number of nodes (internal + leaf).
	NumNodes() int

	// Data returns the flat row-major point data, N*NumFeatures() long.
	Data() []float64

	// IdxArray returns the permutation mapping tree-order positions to
	// original point ids: points of node n are IdxArray()[idxStart:idxEnd].
	IdxArray() []int

	// NodeDataArray returns metadata for every node.
	NodeDataArray() []NodeData

	// ChildNodes returns the left and right child node ids of an inner
	// node. Behavior is undefined for leaf nodes.
	ChildNodes(node int) (left, right int)

	// QueryKNN finds the k nearest neighbors of each row of queryData
	// (flat row-major, queryRows rows), sorted by ascending distance.
	// Ties among equidistant neighbors must break in a stable, deterministic
	// order so that a chunked, concurrent query reproduces the same result
	// as a single unchunked one, bit-for-bit.
	QueryKNN(queryData []float64, queryRows, k int) (indices [][]int, distances [][]float64)
}

// KDBoundedTree is implemented by KD-tree-backed TreeViews. It exposes the
// per-axis min/max bounds used by the KD-tree node-to-node lower bound.
type KDBoundedTree interface {
	TreeView

	// AxisBounds returns the per-feature lo/hi bounds of node, each
	// NumFeatures() long.
	AxisBounds(node int) (lo, hi []float64)
}

// BallCentroidTree is implemented by Ball-tree-backed TreeViews. It
// exposes precomputed pairwise centroid distances used by the Ball-tree
// node-to-node lower bound.
type BallCentroidTree interface {
	TreeView

	// CentroidDistance returns the true distance between the centroids of
	// node a and node b.
	CentroidDistance(a, b int) float64
}

// treeKind is resolved once at Driver construction so the hot traversal
// loop never branches on tree kind via a type switch.
type treeKind int

const (
	kdTreeKind treeKind = iota
	ballTreeKind
)

// detectTreeKind inspects which optional interface tree implements and
// returns the corresponding kind, or an error if it implements neither or
// both.
func detectTreeKind(tree TreeView) (treeKind, error) {
	_, isKD := tree.(KDBoundedTree)
	_, isBall := tree.(BallCentroidTree)
	switch {
	case isKD && isBall:
		return 0, preconditionf("tree implements both KDBoundedTree and BallCentroidTree; exactly one is required")
	case isKD:
		return kdTreeKind, nil
	case isBall:
		return ballTreeKind, nil
	default:
		return 0, preconditionf("tree implements neither KDBoundedTree nor BallCentroidTree")
	}
}
