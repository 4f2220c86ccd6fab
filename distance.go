package dtboruvka

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DistanceOracle provides both the true distance between two points and a
// reduced distance (rdist): a monotone, cheaper-to-compute surrogate used
// to defer expensive operations (square roots, p-th roots) until the true
// distance is actually needed, e.g. at edge-emission time.
//
// dist_to_rdist and rdist_to_dist must be mutually inverse and must
// preserve ordering exactly: for any non-negative a, b,
// dist(a) < dist(b) iff rdist(a) < rdist(b).
type DistanceOracle interface {
	// Dist returns the true distance between a and b.
	Dist(a, b []float64) float64

	// Rdist returns the reduced distance between a and b. For metrics
	// without a cheaper surrogate, Rdist is identical to Dist.
	Rdist(a, b []float64) float64

	// DistToRdist converts a true distance to its reduced-distance form.
	DistToRdist(d float64) float64

	// RdistToDist converts a reduced distance back to true distance.
	RdistToDist(r float64) float64

	// P returns the Minkowski exponent, or +Inf for Chebyshev.
	P() float64
}

// EuclideanOracle computes Euclidean (L2) distance. Rdist is squared
// Euclidean distance: the sqrt is deferred until RdistToDist is called,
// the canonical example of a genuinely cheaper-to-compute rdist.
type EuclideanOracle struct{}

func (EuclideanOracle) Dist(a, b []float64) float64 { return floats.Distance(a, b, 2) }

func (EuclideanOracle) Rdist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func (EuclideanOracle) DistToRdist(d float64) float64 { return d * d }
func (EuclideanOracle) RdistToDist(r float64) float64 { return math.Sqrt(r) }
func (EuclideanOracle) P() float64                    { return 2 }

// ManhattanOracle computes Manhattan (L1 / city-block) distance. There is
// no cheaper surrogate, so Rdist is identical to Dist.
type ManhattanOracle struct{}

func (ManhattanOracle) Dist(a, b []float64) float64  { return floats.Distance(a, b, 1) }
func (ManhattanOracle) Rdist(a, b []float64) float64 { return floats.Distance(a, b, 1) }
func (ManhattanOracle) DistToRdist(d float64) float64 { return d }
func (ManhattanOracle) RdistToDist(r float64) float64 { return r }
func (ManhattanOracle) P() float64                    { return 1 }

// ChebyshevOracle computes Chebyshev (L-infinity) distance. There is no
// cheaper surrogate, so Rdist is identical to Dist.
type ChebyshevOracle struct{}

func (ChebyshevOracle) Dist(a, b []float64) float64 { return floats.Distance(a, b, math.Inf(1)) }
func (ChebyshevOracle) Rdist(a, b []float64) float64 {
	return floats.Distance(a, b, math.Inf(1))
}
func (ChebyshevOracle) DistToRdist(d float64) float64 { return d }
func (ChebyshevOracle) RdistToDist(r float64) float64 { return r }
func (ChebyshevOracle) P() float64                    { return math.Inf(1) }

// MinkowskiOracle computes the Minkowski distance parameterized by P. P
// must be >= 1. Rdist is the p-th-power sum without the final p-th root.
type MinkowskiOracle struct {
	PVal float64
}

func (m MinkowskiOracle) Dist(a, b []float64) float64 { return floats.Distance(a, b, m.PVal) }

func (m MinkowskiOracle) Rdist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Pow(math.Abs(a[i]-b[i]), m.PVal)
	}
	return sum
}

func (m MinkowskiOracle) DistToRdist(d float64) float64 { return math.Pow(d, m.PVal) }
func (m MinkowskiOracle) RdistToDist(r float64) float64 { return math.Pow(r, 1.0/m.PVal) }
func (m MinkowskiOracle) P() float64                    { return m.PVal }

// usesRdistShortcut reports whether the oracle's Rdist is a genuinely
// cheaper surrogate (KD-tree runs may stay in rdist space throughout) as
// opposed to an identity passthrough (Ball-tree runs require rdist ==
// dist, since the tree's own pruning bounds are already true-distance).
func usesRdistShortcut(o DistanceOracle) bool {
	switch o.(type) {
	case EuclideanOracle, MinkowskiOracle:
		return true
	default:
		return false
	}
}
