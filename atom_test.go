package liga

import "testing"

func TestAtomAverageBadnessBeforeAnyRecordIsCurrentBadness(t *testing.T) {
	a := &Atom{Badness: 3.5}
	if got := a.averageBadness(); got != 3.5 {
		t.Errorf("averageBadness with RollingAge=0 = %v, want current Badness 3.5", got)
	}
}

func TestAtomRecordBadnessAccumulatesRollingAverage(t *testing.T) {
	a := &Atom{}
	a.recordBadness(2)
	a.recordBadness(4)
	a.recordBadness(6)
	if a.RollingAge != 3 {
		t.Errorf("RollingAge = %d, want 3", a.RollingAge)
	}
	if got := a.averageBadness(); got != 4 {
		t.Errorf("averageBadness = %v, want 4 (mean of 2,4,6)", got)
	}
	if a.Badness != 6 {
		t.Errorf("Badness should track the most recently recorded value, got %v", a.Badness)
	}
}

func TestAtomCopyIsIndependent(t *testing.T) {
	a := &Atom{PMXIndex: 2, Badness: 1, Triang: PLANAR}
	cp := a.Copy()
	cp.Badness = 99
	cp.Triang = SPATIAL
	if a.Badness == 99 || a.Triang == SPATIAL {
		t.Error("Copy should not alias the original atom's fields")
	}
	if cp.PMXIndex != a.PMXIndex {
		t.Error("Copy should preserve PMXIndex")
	}
}

func TestTriangulationString(t *testing.T) {
	cases := map[Triangulation]string{
		LINEAR:        "LINEAR",
		PLANAR:        "PLANAR",
		SPATIAL:       "SPATIAL",
		Triangulation(99): "UNKNOWN",
	}
	for tt, want := range cases {
		if got := tt.String(); got != want {
			t.Errorf("Triangulation(%d).String() = %q, want %q", tt, got, want)
		}
	}
}
