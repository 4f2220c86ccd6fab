package dtboruvka

import (
	"math"
	"testing"
)

func TestCandidateSetResetClearsAllSlots(t *testing.T) {
	c := newCandidateSet(3)
	for i := 0; i < 3; i++ {
		if c.point[i] != -1 || c.neighbor[i] != -1 || !math.IsInf(c.distance[i], 1) {
			t.Errorf("slot %d not cleared: point=%d neighbor=%d distance=%v", i, c.point[i], c.neighbor[i], c.distance[i])
		}
	}
}

func TestCandidateSetUpdateAndClear(t *testing.T) {
	c := newCandidateSet(2)
	c.update(0, 5, 9, 1.5)
	if c.point[0] != 5 || c.neighbor[0] != 9 || c.distance[0] != 1.5 {
		t.Fatalf("update did not set slot 0 correctly: %d %d %v", c.point[0], c.neighbor[0], c.distance[0])
	}
	c.clear(0)
	if c.point[0] != -1 || c.neighbor[0] != -1 || !math.IsInf(c.distance[0], 1) {
		t.Errorf("clear did not reset slot 0: %d %d %v", c.point[0], c.neighbor[0], c.distance[0])
	}
}
