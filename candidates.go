package dtboruvka

import "math"

// candidateSet holds the per-component best-edge-found-this-sweep triple:
// candidate point, candidate neighbor, candidate distance. Arrays are
// sized N, not "number of components": component ids are point ids
// (UnionFind roots), so a dense N-indexed array gives O(1) access keyed
// by component id at the cost of a bit of unused memory for merged
// components.
type candidateSet struct {
	point    []int
	neighbor []int
	distance []float64
}

func newCandidateSet(n int) *candidateSet {
	c := &candidateSet{
		point:    make([]int, n),
		neighbor: make([]int, n),
		distance: make([]float64, n),
	}
	c.reset()
	return c
}

// reset clears every entry to "no candidate".
func (c *candidateSet) reset() {
	for i := range c.point {
		c.point[i] = -1
		c.neighbor[i] = -1
		c.distance[i] = math.Inf(1)
	}
}

// clear resets a single component's candidate triple.
func (c *candidateSet) clear(comp int) {
	c.point[comp] = -1
	c.neighbor[comp] = -1
	c.distance[comp] = math.Inf(1)
}

// update overwrites comp's candidate triple unconditionally. Callers must
// check c.distance[comp] against the new value first.
func (c *candidateSet) update(comp, point, neighbor int, distance float64) {
	c.point[comp] = point
	c.neighbor[comp] = neighbor
	c.distance[comp] = distance
}
