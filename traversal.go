package dtboruvka

import "math"

// dualTreeTraversal is the recursive pruned traversal that finds, for
// each current component, a best (minimum mutual-reachability) edge to
// another component. It is specialized over tree kind at construction, so
// Traverse itself never branches on tree kind except through the single
// treeKind field set once at construction time.
type dualTreeTraversal struct {
	tree   TreeView
	oracle DistanceOracle
	kind   treeKind
	alpha  float64

	nodes []NodeData
	idx   []int
	data  []float64
	dims  int

	kdTree   KDBoundedTree
	ballTree BallCentroidTree

	bounds *boundsState
	comps  *componentMap
	cands  *candidateSet
	core   []float64

	degenerate *NumericDegeneracyError
}

func newDualTreeTraversal(tree TreeView, oracle DistanceOracle, kind treeKind, alpha float64,
	bounds *boundsState, comps *componentMap, cands *candidateSet, core []float64) *dualTreeTraversal {

	t := &dualTreeTraversal{
		tree:   tree,
		oracle: oracle,
		kind:   kind,
		alpha:  alpha,
		nodes:  tree.NodeDataArray(),
		idx:    tree.IdxArray(),
		data:   tree.Data(),
		dims:   tree.NumFeatures(),
		bounds: bounds,
		comps:  comps,
		cands:  cands,
		core:   core,
	}
	if kind == kdTreeKind {
		t.kdTree = tree.(KDBoundedTree)
	} else {
		t.ballTree = tree.(BallCentroidTree)
	}
	return t
}

// nodeLowerBound returns a lower bound on the distance between any point
// of qNode and any point of rNode, in the native unit space of the tree
// kind: rdist for KD, true distance for Ball.
func (t *dualTreeTraversal) nodeLowerBound(qNode, rNode int) float64 {
	if t.kind == kdTreeKind {
		loA, hiA := t.kdTree.AxisBounds(qNode)
		loB, hiB := t.kdTree.AxisBounds(rNode)
		return kdBoxLowerBoundRdist(loA, hiA, loB, hiB, t.oracle.P())
	}
	d := t.ballTree.CentroidDistance(qNode, rNode) - t.nodes[qNode].Radius - t.nodes[rNode].Radius
	if d < 0 {
		d = 0
	}
	return d
}

// kdBoxLowerBoundRdist computes the KD-tree node-to-node lower bound:
// per-axis gap d1/d2, contribution max(d1,0)+max(d2,0), then aggregated
// by p (max for Chebyshev, sum of p-th powers otherwise). The result is
// already in rdist units matching the oracle's P.
func kdBoxLowerBoundRdist(loA, hiA, loB, hiB []float64, p float64) float64 {
	if math.IsInf(p, 1) {
		var maxContrib float64
		for j := range loA {
			d1 := loA[j] - hiB[j]
			d2 := loB[j] - hiA[j]
			contrib := 0.5 * ((d1 + math.Abs(d1)) + (d2 + math.Abs(d2)))
			if contrib > maxContrib {
				maxContrib = contrib
			}
		}
		return maxContrib
	}
	var sum float64
	for j := range loA {
		d1 := loA[j] - hiB[j]
		d2 := loB[j] - hiA[j]
		contrib := 0.5 * ((d1 + math.Abs(d1)) + (d2 + math.Abs(d2)))
		sum += math.Pow(contrib, p)
	}
	return sum
}

// Traverse recurses over the pair (qNode, rNode), mutating bounds and
// candidates in place. Single-threaded within a sweep.
func (t *dualTreeTraversal) Traverse(qNode, rNode int) {
	if t.degenerate != nil {
		return
	}

	nodeDist := t.nodeLowerBound(qNode, rNode)
	if nodeDist >= t.bounds.Value(qNode) {
		return
	}
	cq := t.comps.ofNode[qNode]
	if cq == t.comps.ofNode[rNode] && cq >= 0 {
		return
	}

	q := t.nodes[qNode]
	r := t.nodes[rNode]

	if q.IsLeaf && r.IsLeaf {
		t.processLeafPair(qNode, rNode)
		return
	}

	// Case B: descend in the reference tree.
	if q.IsLeaf || (!r.IsLeaf && q.Radius <= r.Radius) {
		left, right := t.tree.ChildNodes(rNode)
		leftDist := t.nodeLowerBound(qNode, left)
		rightDist := t.nodeLowerBound(qNode, right)
		if leftDist <= rightDist {
			t.Traverse(qNode, left)
			t.Traverse(qNode, right)
		} else {
			t.Traverse(qNode, right)
			t.Traverse(qNode, left)
		}
		return
	}

	// Case C: descend in the query tree.
	left, right := t.tree.ChildNodes(qNode)
	leftDist := t.nodeLowerBound(left, rNode)
	rightDist := t.nodeLowerBound(right, rNode)
	if leftDist <= rightDist {
		t.Traverse(left, rNode)
		t.Traverse(right, rNode)
	} else {
		t.Traverse(right, rNode)
		t.Traverse(left, rNode)
	}
}

// processLeafPair handles the base case where both nodes are leaves: an
// exhaustive point-pair scan, pruned per-point by core distance.
func (t *dualTreeTraversal) processLeafPair(qNode, rNode int) {
	q := t.nodes[qNode]
	r := t.nodes[rNode]

	newUpper := 0.0
	newLower := math.Inf(1)
	touched := false

	for i := q.IdxStart; i < q.IdxEnd; i++ {
		p := t.idx[i]
		cp := t.comps.ofPoint[p]

		if t.core[p] > t.cands.distance[cp] {
			continue
		}

		pSlice := t.data[p*t.dims : (p+1)*t.dims]

		for j := r.IdxStart; j < r.IdxEnd; j++ {
			qq := t.idx[j]
			cqq := t.comps.ofPoint[qq]

			if t.core[qq] > t.cands.distance[cp] {
				continue
			}
			if cp == cqq {
				continue
			}

			qSlice := t.data[qq*t.dims : (qq+1)*t.dims]

			var d float64
			if t.kind == kdTreeKind {
				d = t.oracle.Rdist(pSlice, qSlice)
			} else {
				d = t.oracle.Dist(pSlice, qSlice)
			}
			if math.IsNaN(d) {
				t.degenerate = &NumericDegeneracyError{PointA: p, PointB: qq, Value: d}
				return
			}

			mr := d
			if t.alpha != 1.0 {
				mr = d / t.alpha
			}
			if t.core[p] > mr {
				mr = t.core[p]
			}
			if t.core[qq] > mr {
				mr = t.core[qq]
			}

			if mr < t.cands.distance[cp] {
				t.cands.update(cp, p, qq, mr)
			}
		}

		if t.cands.distance[cp] > newUpper {
			newUpper = t.cands.distance[cp]
		}
		if t.cands.distance[cp] < newLower {
			newLower = t.cands.distance[cp]
		}
		touched = true
	}

	if !touched {
		return
	}

	var radius float64
	if t.kind == kdTreeKind {
		radius = t.oracle.DistToRdist(q.Radius)
	} else {
		radius = q.Radius
	}

	newBound := math.Min(newUpper, newLower+2*radius)
	if t.bounds.TryLower(qNode, newBound) {
		t.bounds.PropagateUp(qNode, func(n int) float64 { return t.nodes[n].Radius })
	}
}
