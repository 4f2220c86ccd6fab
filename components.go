package dtboruvka

// componentMap holds the derived per-point and per-node component
// assignments recomputed after each sweep. componentOfNode[n] is
// non-negative iff every point under node n belongs to the same
// component; otherwise it holds a sentinel negative value unique to n,
// so two mixed nodes never compare equal.
type componentMap struct {
	ofPoint []int
	ofNode  []int
}

func newComponentMap(numPoints, numNodes int) *componentMap {
	cm := &componentMap{
		ofPoint: make([]int, numPoints),
		ofNode:  make([]int, numNodes),
	}
	for i := range cm.ofPoint {
		cm.ofPoint[i] = i
	}
	cm.resetNodes()
	return cm
}

// resetNodes assigns every node a unique negative sentinel, marking it as
// mixed/unknown until the first recompute.
func (cm *componentMap) resetNodes() {
	for n := range cm.ofNode {
		cm.ofNode[n] = -(n + 1)
	}
}

// recompute refreshes ofPoint from the union-find, then recomputes ofNode
// bottom-up from the tree's leaf/inner layout.
func (cm *componentMap) recompute(uf *UnionFind, tree TreeView) {
	for i := range cm.ofPoint {
		cm.ofPoint[i] = uf.Find(i)
	}

	nodes := tree.NodeDataArray()
	idx := tree.IdxArray()

	for n := len(nodes) - 1; n >= 0; n-- {
		nd := nodes[n]
		if !nd.IsLeaf && nd.IdxStart == nd.IdxEnd && n != 0 {
			// Gap slot: an array-form index with no corresponding tree
			// node (e.g. an unused child of a leaf). Never a real
			// ancestor of any point, so it contributes nothing and its
			// ChildNodes would fall outside the node array.
			cm.ofNode[n] = -(n + 1)
			continue
		}
		if nd.IsLeaf {
			if nd.IdxStart >= nd.IdxEnd {
				cm.ofNode[n] = -(n + 1)
				continue
			}
			comp := cm.ofPoint[idx[nd.IdxStart]]
			allSame := true
			for i := nd.IdxStart + 1; i < nd.IdxEnd; i++ {
				if cm.ofPoint[idx[i]] != comp {
					allSame = false
					break
				}
			}
			if allSame {
				cm.ofNode[n] = comp
			} else {
				cm.ofNode[n] = -(n + 1)
			}
			continue
		}

		left, right := tree.ChildNodes(n)
		if cm.ofNode[left] == cm.ofNode[right] && cm.ofNode[left] >= 0 {
			cm.ofNode[n] = cm.ofNode[left]
		} else {
			cm.ofNode[n] = -(n + 1)
		}
	}
}
