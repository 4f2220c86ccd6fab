// Package dtboruvka implements the dual-tree Borůvka minimum spanning tree
// engine that drives HDBSCAN-style single-linkage clustering under a mutual
// reachability metric.
//
// The engine consumes a caller-supplied spatial tree (KD-tree or Ball-tree)
// through the narrow [TreeView] interface and a [DistanceOracle] for the
// metric, and produces a minimum spanning tree over mutual reachability
// distance in O(log N) global sweeps of a pruned dual-tree traversal.
//
// Basic usage:
//
//	cfg := dtboruvka.DefaultConfig()
//	cfg.MinSamples = 5
//	driver, err := dtboruvka.NewDriver(tree, dtboruvka.EuclideanOracle{}, cfg)
//	edges, err := driver.SpanningTree()
//	// edges[i] is a (Source, Sink, Weight) triple; len(edges) == N-1.
//
// Spatial trees, their node layout, and SIMD distance kernels are treated
// as external collaborators and are out of scope for this package; see
// [TreeView] for the interface this package consumes. HDBSCAN label
// extraction, the condensed tree, and cluster stability/selection are
// unrelated subsystems and are not implemented here.
package dtboruvka
