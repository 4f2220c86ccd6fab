package dtboruvka_test

import (
	"math"
	"testing"

	dtboruvka "github.com/clusterscan/dtboruvka"
	"github.com/clusterscan/dtboruvka/internal/reftree"
)

func TestCoreDistanceInitializerMatchesBruteForce(t *testing.T) {
	data := []float64{
		0, 0,
		1, 0,
		0, 2,
		100, 0,
	}
	const n, dims, minSamples = 4, 2, 2

	tree := reftree.NewKDTree(data, n, dims, dtboruvka.EuclideanOracle{}, 1)
	init := dtboruvka.NewCoreDistanceInitializerForTest(tree, dtboruvka.EuclideanOracle{}, minSamples, false, 1)
	core, _, err := init.Run()
	if err != nil {
		t.Fatalf("run() error: %v", err)
	}

	want := bruteForceCoreDistances(data, n, dims, minSamples)
	for i := range want {
		if math.Abs(core[i]-want[i]) > 1e-9 {
			t.Errorf("core[%d] = %v, want %v", i, core[i], want[i])
		}
	}
}

func TestCoreDistanceInitializerRdistSpaceSquaresTrueDistance(t *testing.T) {
	data := []float64{0, 0, 1, 0, 0, 2, 100, 0}
	const n, dims, minSamples = 4, 2, 2

	tree := reftree.NewKDTree(data, n, dims, dtboruvka.EuclideanOracle{}, 1)

	plain := dtboruvka.NewCoreDistanceInitializerForTest(tree, dtboruvka.EuclideanOracle{}, minSamples, false, 1)
	trueCore, _, err := plain.Run()
	if err != nil {
		t.Fatalf("run() error: %v", err)
	}

	rdist := dtboruvka.NewCoreDistanceInitializerForTest(tree, dtboruvka.EuclideanOracle{}, minSamples, true, 1)
	rdistCore, _, err := rdist.Run()
	if err != nil {
		t.Fatalf("run() error: %v", err)
	}

	for i := range trueCore {
		want := trueCore[i] * trueCore[i]
		if math.Abs(rdistCore[i]-want) > 1e-9 {
			t.Errorf("rdistCore[%d] = %v, want %v (= trueCore^2)", i, rdistCore[i], want)
		}
	}
}

// TestCoreDistanceInitializerFirstMatchSeeding exercises the first-match
// seeding rule: scanning candidate neighbors in rank order and stopping
// at the first one whose own core distance does not exceed the query
// point's, rather than scanning every neighbor in the window for the
// overall best (lowest-distance) qualifying one. Point 0's
// nearest neighbor (point 1) is disqualified by a high core distance of
// its own; the second-nearest (point 2) is qualifying and gets chosen.
func TestCoreDistanceInitializerFirstMatchSeeding(t *testing.T) {
	data := []float64{
		0, 0, // p0
		1, 0, // p1: p0's nearest neighbor, but has a high core distance
		0, 2, // p2: p0's second-nearest neighbor, qualifies
		100, 0, // p3: distant outlier, no other point's core distance depends on it
		0, 2.01, // p4: drags p2's core distance down so it qualifies
	}
	const n, dims, minSamples = 5, 2, 2

	tree := reftree.NewKDTree(data, n, dims, dtboruvka.EuclideanOracle{}, 1)
	init := dtboruvka.NewCoreDistanceInitializerForTest(tree, dtboruvka.EuclideanOracle{}, minSamples, false, 1)
	core, cands, err := init.Run()
	if err != nil {
		t.Fatalf("run() error: %v", err)
	}

	if math.Abs(core[0]-2.0) > 1e-9 {
		t.Fatalf("core[0] = %v, want 2.0", core[0])
	}
	if core[1] <= core[0] {
		t.Fatalf("core[1] = %v, want > core[0] = %v so rank-1 neighbor is disqualified", core[1], core[0])
	}
	if core[2] > core[0]+1e-9 {
		t.Fatalf("core[2] = %v, want <= core[0] = %v so rank-2 neighbor qualifies", core[2], core[0])
	}

	if cands.Point(0) != 0 {
		t.Fatalf("cands.point[0] = %d, want 0", cands.Point(0))
	}
	if cands.Neighbor(0) != 2 {
		t.Errorf("cands.neighbor[0] = %d, want 2 (rank-2 neighbor, skipping the disqualified rank-1 neighbor 1)", cands.Neighbor(0))
	}
	if math.Abs(cands.Distance(0)-core[0]) > 1e-9 {
		t.Errorf("cands.distance[0] = %v, want core[0] = %v", cands.Distance(0), core[0])
	}
}

func bruteForceCoreDistances(data []float64, n, dims, minSamples int) []float64 {
	core := make([]float64, n)
	for i := 0; i < n; i++ {
		dists := make([]float64, 0, n-1)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			var sum float64
			for d := 0; d < dims; d++ {
				diff := data[i*dims+d] - data[j*dims+d]
				sum += diff * diff
			}
			dists = append(dists, math.Sqrt(sum))
		}
		for a := 0; a < len(dists); a++ {
			for b := a + 1; b < len(dists); b++ {
				if dists[b] < dists[a] {
					dists[a], dists[b] = dists[b], dists[a]
				}
			}
		}
		core[i] = dists[minSamples-1]
	}
	return core
}
