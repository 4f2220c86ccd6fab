package dtboruvka

// Test-only exported accessors. This file is compiled only by `go test`
// and exists so that _test.go files can live in the external
// dtboruvka_test package (avoiding an import cycle with internal/reftree,
// which itself imports dtboruvka) while still reaching package-internal
// state.

type ComponentMapForTest struct {
	cm *componentMap
}

func NewComponentMapForTest(numPoints, numNodes int) *ComponentMapForTest {
	return &ComponentMapForTest{cm: newComponentMap(numPoints, numNodes)}
}

func (c *ComponentMapForTest) Recompute(uf *UnionFind, tree TreeView) { c.cm.recompute(uf, tree) }
func (c *ComponentMapForTest) OfPoint(i int) int                     { return c.cm.ofPoint[i] }
func (c *ComponentMapForTest) OfNode(i int) int                      { return c.cm.ofNode[i] }

type CandidateSetForTest struct {
	cands *candidateSet
}

func (c CandidateSetForTest) Point(i int) int       { return c.cands.point[i] }
func (c CandidateSetForTest) Neighbor(i int) int    { return c.cands.neighbor[i] }
func (c CandidateSetForTest) Distance(i int) float64 { return c.cands.distance[i] }

type CoreDistanceInitializerForTest struct {
	init *coreDistanceInitializer
}

func NewCoreDistanceInitializerForTest(tree TreeView, oracle DistanceOracle, minSamples int, rdistSpace bool, nJobs int) *CoreDistanceInitializerForTest {
	return &CoreDistanceInitializerForTest{init: &coreDistanceInitializer{
		tree:       tree,
		oracle:     oracle,
		minSamples: minSamples,
		rdistSpace: rdistSpace,
		nJobs:      nJobs,
	}}
}

func (c *CoreDistanceInitializerForTest) Run() ([]float64, CandidateSetForTest, error) {
	core, cands, err := c.init.run()
	if err != nil {
		return nil, CandidateSetForTest{}, err
	}
	return core, CandidateSetForTest{cands: cands}, nil
}

const (
	KDTreeKindForTest   = int(kdTreeKind)
	BallTreeKindForTest = int(ballTreeKind)
)

func DetectTreeKindForTest(tree TreeView) (int, error) {
	kind, err := detectTreeKind(tree)
	return int(kind), err
}
