package liga

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCropToRmaxDropsDistancesBeyondCutoff(t *testing.T) {
	in := []float64{0.5, 1.0, 1.5, 2.0}
	out := cropToRmax(in, 1.0)
	want := []float64{0.5, 1.0}
	if len(out) != len(want) {
		t.Fatalf("cropToRmax = %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("cropToRmax[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestCropToRmaxFallsBackToFullSetWhenNothingSurvives(t *testing.T) {
	in := []float64{5, 6, 7}
	out := cropToRmax(in, 1.0)
	if len(out) != len(in) {
		t.Errorf("cropToRmax with an empty result should fall back to the original set, got %v", out)
	}
}

func TestEstNumAtomsOfRecoversTriangleCount(t *testing.T) {
	// 3 atoms -> 3 pairwise distances.
	n, err := estNumAtomsOf([]float64{1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("estNumAtomsOf(3 distances) = %d, want 3", n)
	}
}

func TestEstNumAtomsOfRejectsImpossibleCount(t *testing.T) {
	// No integer N has N(N-1)/2 == 2.
	if _, err := estNumAtomsOf([]float64{1, 2}); err == nil {
		t.Error("estNumAtomsOf with a distance count matching no atom count should error")
	}
}

func TestBuildStructureFactoryMoleculeMode(t *testing.T) {
	p := DefaultParams()
	p.Crystal = false
	newEmpty, table, err := buildStructureFactory(p, []float64{1, 1, 1}, 3, PenaltyPow2)
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 3 {
		t.Errorf("molecule-mode table.Len() = %d, want 3", table.Len())
	}
	s := newEmpty()
	if _, ok := s.(*Molecule); !ok {
		t.Errorf("buildStructureFactory in molecule mode produced %T, want *Molecule", s)
	}
	if s.ReuseDistances() {
		t.Error("a freshly built Molecule should not reuse distances")
	}
}

func TestBuildStructureFactoryCrystalMode(t *testing.T) {
	p := DefaultParams()
	p.Crystal = true
	p.LatPar = [6]float64{1, 1, 1, 90, 90, 90}
	p.Rmax = 1.0
	newEmpty, table, err := buildStructureFactory(p, []float64{0.5, 2.0}, 1, PenaltyPow2)
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 1 {
		t.Errorf("crystal-mode table should be cropped to rmax=1.0, got Len()=%d", table.Len())
	}
	s := newEmpty()
	if _, ok := s.(*Crystal); !ok {
		t.Errorf("buildStructureFactory in crystal mode produced %T, want *Crystal", s)
	}
	if !s.ReuseDistances() {
		t.Error("a freshly built Crystal should reuse distances")
	}
}

func TestLoadDistancesCrystalModeRequiresIniStru(t *testing.T) {
	dir := t.TempDir()
	distPath := filepath.Join(dir, "dist.txt")
	if err := os.WriteFile(distPath, []byte("1.0\n1.0\n1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := DefaultParams()
	p.DistFile = distPath
	p.Crystal = true
	if _, _, err := loadDistances(p); err == nil {
		t.Error("loadDistances in crystal mode without inistru should error")
	}
}

func TestLoadDistancesMoleculeModeInfersAtomCount(t *testing.T) {
	dir := t.TempDir()
	distPath := filepath.Join(dir, "dist.txt")
	if err := os.WriteFile(distPath, []byte("1.0\n1.0\n1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := DefaultParams()
	p.DistFile = distPath
	distances, n, err := loadDistances(p)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("loadDistances inferred %d atoms, want 3", n)
	}
	if len(distances) != 3 {
		t.Errorf("loadDistances returned %d distances, want 3", len(distances))
	}
}

func TestCountXYZAtomsReadsCoordinateCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ini.xyz")
	content := "# LIGA molecule format = xyz\n# NAtoms = 2\n0 0 0\n1 0 0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	n, err := countXYZAtoms(path)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("countXYZAtoms = %d, want 2", n)
	}
}

func TestLoadInitialStructureSeedsTheRightDivision(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ini.xyz")
	content := "0 0 0\n1 0 0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	params := DefaultParams()
	table, err := NewDistanceTable([]float64{1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	schedParams := SchedulerParams{
		EprobMin: params.EprobMin, EprobMax: params.EprobMax,
		BustProb: params.BustProb, TolBad: params.TolBad, TolNBad: params.TolNBad,
		NDim: params.NDim, LogSize: params.LogSize,
		Table: table, Tri: NewTriangulator(NewRand(1)),
	}
	rnd := NewRand(1)
	newEmpty := func() Structure {
		m, _ := NewMolecule([]float64{1, 1, 1}, 3, PenaltyPow2, 0.01)
		return m
	}
	lg := NewLiga(3, 4, schedParams, rnd, newEmpty)

	if err := loadInitialStructure(lg, path); err != nil {
		t.Fatal(err)
	}
	if len(lg.Divisions[0].Members) != 0 {
		t.Error("loadInitialStructure should clear the empty division's seed member")
	}
	if len(lg.Divisions[2].Members) != 1 {
		t.Fatalf("loadInitialStructure should place a 2-atom seed in division 2, got %d members", len(lg.Divisions[2].Members))
	}
	if lg.Divisions[2].Members[0].Len() != 2 {
		t.Errorf("seeded structure has %d atoms, want 2", lg.Divisions[2].Members[0].Len())
	}
}

func TestLoadInitialStructureRejectsOversizedSeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ini.xyz")
	content := "0 0 0\n1 0 0\n0 1 0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := NewDistanceTable([]float64{1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	schedParams := SchedulerParams{Table: table, Tri: NewTriangulator(NewRand(1))}
	rnd := NewRand(1)
	newEmpty := func() Structure {
		m, _ := NewMolecule([]float64{1, 1, 1}, 3, PenaltyPow2, 0.01)
		return m
	}
	// maxAtoms 2: a 3-atom seed file has no division to land in.
	lg := NewLiga(2, 4, schedParams, rnd, newEmpty)
	if err := loadInitialStructure(lg, path); err == nil {
		t.Error("loadInitialStructure should reject a seed structure bigger than max_atom_count")
	}
}

func TestRunCLIMissingDistFileErrors(t *testing.T) {
	p := DefaultParams()
	p.DistFile = filepath.Join(t.TempDir(), "does-not-exist.txt")
	if _, err := RunCLI(p, new(strings.Builder), false); err == nil {
		t.Error("RunCLI with an unreadable distfile should error")
	}
}
