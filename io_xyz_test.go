package liga

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	v3 "github.com/rmera/liga/v3"
)

func TestReadXYZRoundTripsThroughWriteXYZ(t *testing.T) {
	m, err := NewMolecule([]float64{1, 1, 1}, 3, PenaltyPow2, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	pts := []v3.Vec{v3.New(0, 0, 0), v3.New(1, 0, 0), v3.New(0.5, 0.8, 0)}
	for _, p := range pts {
		if err := m.Add(p, LINEAR); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := WriteXYZ(m, &buf); err != nil {
		t.Fatal(err)
	}

	m2, err := NewMolecule([]float64{1, 1, 1}, 3, PenaltyPow2, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	if err := ReadXYZ(m2, &buf); err != nil {
		t.Fatal(err)
	}
	if m2.Len() != 3 {
		t.Fatalf("read back %d atoms, want 3", m2.Len())
	}
	for i, p := range pts {
		if got := m2.Atoms()[i].Pos; got.Dist(p) > 1e-9 {
			t.Errorf("atom %d = %v, want %v", i, got, p)
		}
	}
}

func TestReadXYZRejectsNAtomsMismatch(t *testing.T) {
	m, err := NewMolecule([]float64{1}, 2, PenaltyPow2, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	in := strings.NewReader("# LIGA molecule format = xyz\n# NAtoms = 3\n0 0 0\n1 0 0\n")
	if err := ReadXYZ(m, in); err == nil {
		t.Error("expected an error when the declared NAtoms disagrees with the coordinate count")
	}
}

func TestReadXYZRejectsNonMultipleOfThree(t *testing.T) {
	m, err := NewMolecule([]float64{1}, 2, PenaltyPow2, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	in := strings.NewReader("0 0 0\n1 0\n")
	if err := ReadXYZ(m, in); err == nil {
		t.Error("expected an error for a coordinate count not divisible by 3")
	}
}

func TestReadXYZClearsExistingAtoms(t *testing.T) {
	m, err := NewMolecule([]float64{1, 1, 1}, 3, PenaltyPow2, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Add(v3.New(9, 9, 9), LINEAR); err != nil {
		t.Fatal(err)
	}
	in := strings.NewReader("0 0 0\n1 0 0\n")
	if err := ReadXYZ(m, in); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 2 {
		t.Fatalf("got %d atoms, want 2 (stale atom not cleared)", m.Len())
	}
	if got := m.Atoms()[0].Pos; got != v3.Zero {
		t.Errorf("first atom = %v, want origin", got)
	}
}

func TestWriteAtomEyeRejectsEmptyStructure(t *testing.T) {
	m, err := NewMolecule([]float64{1}, 2, PenaltyPow2, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteAtomEye(m, &buf, 1.0); err == nil {
		t.Error("expected an error writing AtomEye format for an empty structure")
	}
}

func TestWriteAtomEyeFractionalCoordinatesInUnitRange(t *testing.T) {
	m, err := NewMolecule([]float64{1, 1, 1}, 3, PenaltyPow2, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []v3.Vec{v3.New(0, 0, 0), v3.New(1, 0, 0), v3.New(0.5, 0.8, 0)} {
		if err := m.Add(p, LINEAR); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := WriteAtomEye(m, &buf, 1.5); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Number of particles = 3") {
		t.Errorf("missing particle count header: %s", buf.String())
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) < 3 {
		t.Fatalf("output too short: %q", buf.String())
	}
	for _, line := range lines[len(lines)-3:] {
		fields := strings.Split(line, "\t")
		if len(fields) != 4 {
			t.Fatalf("atom line %q: want 4 tab-separated fields", line)
		}
		for _, f := range fields[:3] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				t.Fatalf("atom line %q: %v", line, err)
			}
			if v < 0 || v > 1 {
				t.Errorf("fractional coordinate %g outside [0,1] in line %q", v, line)
			}
		}
	}
}

func TestWriteRawXYZHasNoHeader(t *testing.T) {
	m, err := NewMolecule([]float64{1}, 2, PenaltyPow2, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Add(v3.New(1, 2, 3), LINEAR); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteRawXYZ(m, &buf); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "#") {
		t.Errorf("rawxyz output should carry no header, got %q", buf.String())
	}
	if strings.TrimSpace(buf.String()) != "1\t2\t3" {
		t.Errorf("got %q, want a bare coordinate triple", buf.String())
	}
}
