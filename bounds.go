package dtboruvka

import "math"

// boundsState is the per-node pruning upper bound array used by the dual
// -tree traversal. Bounds are monotonically non-increasing within a sweep;
// Reset restores them to +Inf between sweeps, except when approximate
// mode is both enabled and the prior sweep made no progress.
type boundsState struct {
	values []float64
	kind   treeKind
}

func newBoundsState(numNodes int, kind treeKind) *boundsState {
	b := &boundsState{values: make([]float64, numNodes), kind: kind}
	b.forceReset()
	return b
}

func (b *boundsState) forceReset() {
	for i := range b.values {
		b.values[i] = math.Inf(1)
	}
}

// Reset applies the bound reset policy: always reset unless approx mode
// is enabled and componentsDecreased is false, in which case the reset is
// skipped to break out of a stuck configuration faster.
func (b *boundsState) Reset(approx bool, componentsDecreased bool) {
	if approx && !componentsDecreased {
		return
	}
	b.forceReset()
}

func (b *boundsState) Value(node int) float64 { return b.values[node] }

// TryLower lowers the bound on node to newBound if it is an improvement,
// reporting whether it did so.
func (b *boundsState) TryLower(node int, newBound float64) bool {
	if newBound < b.values[node] {
		b.values[node] = newBound
		return true
	}
	return false
}

// PropagateUp walks from node up to the root along the parent chain
// (parent = (node-1)/2, the array-form convention the reference trees
// use), recomposing each parent's bound from its children, and stops as
// soon as a parent does not improve.
//
// radius returns the radius of a node. It is consulted only for Ball-tree
// nodes; a KD-tree parent takes the plain max of its two children.
func (b *boundsState) PropagateUp(node int, radius func(int) float64) {
	for node > 0 {
		parent := (node - 1) / 2
		left := 2*parent + 1
		right := 2*parent + 2

		boundMax := math.Max(b.values[left], b.values[right])

		var newBound float64
		switch b.kind {
		case ballTreeKind:
			rp := radius(parent)
			rl := radius(left)
			rr := radius(right)
			boundMin := math.Min(
				b.values[left]+2*(rp-rl),
				b.values[right]+2*(rp-rr),
			)
			if boundMin > 0 {
				newBound = math.Min(boundMax, boundMin)
			} else {
				newBound = boundMax
			}
		default: // kdTreeKind
			newBound = boundMax
		}

		if newBound < b.values[parent] {
			b.values[parent] = newBound
			node = parent
		} else {
			return
		}
	}
}
