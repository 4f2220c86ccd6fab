package dtboruvka

import "log"

// Driver orchestrates the dual-tree Boruvka sweep loop: repeated
// full-tree traversals, each producing at most one candidate edge per
// live component, drained into the union-find and the spanning tree
// until N-1 edges have been found.
type Driver struct {
	tree   TreeView
	oracle DistanceOracle
	cfg    Config
	kind   treeKind

	n int

	core  []float64
	cands *candidateSet
	uf    *UnionFind
	comps *componentMap
	bnds  *boundsState
}

// NewDriver validates the configuration, runs the core-distance pass
// (skipped when N = 1), and returns a Driver ready to produce a spanning tree. tree must implement
// either KDBoundedTree or BallCentroidTree; which one determines the
// traversal specialization used by SpanningTree.
func NewDriver(tree TreeView, oracle DistanceOracle, cfg Config) (*Driver, error) {
	n := tree.NumPoints()
	applyDefaults(&cfg)
	if err := validateConfig(&cfg, n); err != nil {
		return nil, err
	}

	kind, err := detectTreeKind(tree)
	if err != nil {
		return nil, err
	}

	init := &coreDistanceInitializer{
		tree:       tree,
		oracle:     oracle,
		minSamples: cfg.MinSamples,
		rdistSpace: kind == kdTreeKind && usesRdistShortcut(oracle),
		nJobs:      cfg.NJobs,
	}
	// A single point has no neighbors and no edges: skip the kNN pass.
	core, cands := make([]float64, n), newCandidateSet(n)
	if n > 1 {
		core, cands, err = init.run()
		if err != nil {
			return nil, err
		}
	}

	return &Driver{
		tree:   tree,
		oracle: oracle,
		cfg:    cfg,
		kind:   kind,
		n:      n,
		core:   core,
		cands:  cands,
		uf:     NewUnionFind(n),
		comps:  newComponentMap(n, tree.NumNodes()),
		bnds:   newBoundsState(tree.NumNodes(), kind),
	}, nil
}

// SpanningTree runs the sweep loop to completion and returns the N-1
// edges of the minimum spanning tree under mutual reachability, with
// weights in true-distance units regardless of the tree kind used
// internally. In approximate mode, a sweep that adds no edge ends the loop
// with a logged warning, and the edges found so far (fewer than N-1) are
// returned.
func (d *Driver) SpanningTree() ([]Edge, error) {
	if d.n <= 1 {
		return []Edge{}, nil
	}

	d.comps.recompute(d.uf, d.tree)

	edges := make([]Edge, 0, d.n-1)
	prevComponents := d.uf.NumComponents()

	for len(edges) < d.n-1 {
		traversal := newDualTreeTraversal(d.tree, d.oracle, d.kind, d.cfg.Alpha, d.bnds, d.comps, d.cands, d.core)
		traversal.Traverse(0, 0)
		if traversal.degenerate != nil {
			return nil, traversal.degenerate
		}

		progressed := false
		for comp := 0; comp < d.n; comp++ {
			p := d.cands.point[comp]
			if p < 0 {
				continue
			}
			nb := d.cands.neighbor[comp]
			dist := d.cands.distance[comp]

			if d.uf.Find(p) == d.uf.Find(nb) {
				d.cands.clear(comp)
				continue
			}

			weight := dist
			if d.kind == kdTreeKind {
				weight = d.oracle.RdistToDist(dist)
			}

			d.uf.Union(p, nb)
			edges = append(edges, Edge{Source: p, Sink: nb, Weight: weight})
			d.cands.clear(comp)
			progressed = true
		}

		d.comps.recompute(d.uf, d.tree)
		curComponents := d.uf.NumComponents()
		componentsDecreased := curComponents < prevComponents
		prevComponents = curComponents

		if !progressed {
			if d.cfg.ApproxMinSpanTree {
				log.Printf("dtboruvka: approximate sweep made no progress with %d components remaining, stopping early", curComponents)
				break
			}
			return nil, unreachablef("sweep made no progress with %d components remaining and %d edges found", curComponents, len(edges))
		}

		d.bnds.Reset(d.cfg.ApproxMinSpanTree, componentsDecreased)
	}

	return edges, nil
}
