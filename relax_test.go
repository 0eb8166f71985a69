package liga

import (
	"math"
	"testing"

	v3 "github.com/rmera/liga/v3"
)

// TestAtomRelaxTetrahedron exercises S1: three base atoms at the vertices
// of an equilateral triangle of side 1, a fourth atom started far from its
// correct position, and AtomRelax must pull it to the apex of the regular
// tetrahedron.
func TestAtomRelaxTetrahedron(t *testing.T) {
	targets := []float64{1, 1, 1, 1, 1, 1}
	m, err := NewMolecule(targets, 4, PenaltyPow2, 0.01)
	if err != nil {
		t.Fatal(err)
	}

	b0 := v3.New(-0.5, -math.Sqrt(3)/6, 0)
	b1 := v3.New(0.5, -math.Sqrt(3)/6, 0)
	b2 := v3.New(0, math.Sqrt(3)/3, 0)
	for _, p := range []v3.Vec{b0, b1, b2} {
		if err := m.Add(p, LINEAR); err != nil {
			t.Fatal(err)
		}
	}

	start := v3.New(1, 2, 3)
	if err := m.Add(start, SPATIAL); err != nil {
		t.Fatal(err)
	}

	if err := AtomRelax(m, 3, 0.01); err != nil {
		t.Fatal(err)
	}

	got := m.Atoms()[3].Pos
	want := v3.New(0, 0, math.Sqrt(2.0/3.0))
	if got.Dist(want) > 1e-6 {
		t.Errorf("AtomRelax converged to %v, want %v (dist %g)", got, want, got.Dist(want))
	}
}

// TestAtomRelaxNoopBelowThreeAtoms checks the documented short-circuit.
func TestAtomRelaxNoopBelowThreeAtoms(t *testing.T) {
	m, err := NewMolecule([]float64{1}, 2, PenaltyPow2, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Add(v3.Zero, LINEAR); err != nil {
		t.Fatal(err)
	}
	if err := m.Add(v3.New(1, 0, 0), LINEAR); err != nil {
		t.Fatal(err)
	}
	before := m.Atoms()[1].Pos
	if err := AtomRelax(m, 1, 0.01); err != nil {
		t.Fatal(err)
	}
	after := m.Atoms()[1].Pos
	if before != after {
		t.Errorf("AtomRelax moved an atom in a 2-atom structure: %v -> %v", before, after)
	}
}
