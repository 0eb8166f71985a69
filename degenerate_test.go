package liga

import (
	"testing"

	v3 "github.com/rmera/liga/v3"
)

func TestDegeneratePopsRequestedCount(t *testing.T) {
	m, err := NewMolecule([]float64{1, 1, 1, 1, 1, 1}, 4, PenaltyPow2, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	pts := []v3.Vec{v3.Zero, v3.New(1, 0, 0), v3.New(0, 1, 0), v3.New(0, 0, 1)}
	for _, p := range pts {
		if err := m.Add(p, LINEAR); err != nil {
			t.Fatal(err)
		}
	}
	rnd := NewRand(1)
	if err := Degenerate(m, 2, false, 0.01, rnd); err != nil {
		t.Fatal(err)
	}
	if got := m.Len(); got != 2 {
		t.Errorf("Degenerate(npop=2) left %d atoms, want 2", got)
	}
}

func TestDegenerateStopsWhenNoFreeAtomsRemain(t *testing.T) {
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
	for _, a := range m.Atoms() {
		a.Fixed = true
	}
	rnd := NewRand(1)
	if err := Degenerate(m, 5, false, 0.01, rnd); err != nil {
		t.Fatal(err)
	}
	if got := m.Len(); got != 2 {
		t.Errorf("Degenerate popped a Fixed atom: %d atoms remain, want 2", got)
	}
}

func TestDegenerateDemoteRelax(t *testing.T) {
	m, err := NewMolecule([]float64{1, 1, 1, 1, 1, 1}, 4, PenaltyPow2, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	pts := []v3.Vec{v3.Zero, v3.New(1, 0, 0), v3.New(0, 1, 0), v3.New(5, 5, 5)}
	for _, p := range pts {
		if err := m.Add(p, LINEAR); err != nil {
			t.Fatal(err)
		}
	}
	rnd := NewRand(7)
	// Popping nothing (npop=0) but demoteRelax=true should still attempt a
	// relax of the current worst atom without error.
	if err := Degenerate(m, 0, true, 0.01, rnd); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 4 {
		t.Errorf("Degenerate(npop=0) changed atom count to %d, want 4", m.Len())
	}
}
