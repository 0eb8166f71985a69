package liga

import (
	"math"
	"testing"

	v3 "github.com/rmera/liga/v3"
)

func newBCCTestCrystal(t *testing.T) (*Crystal, *Lattice, v3.Vec, v3.Vec) {
	lat := NewLattice(1, 1, 1, math.Pi/2, math.Pi/2, math.Pi/2)
	rmax := 0.9
	nn := math.Sqrt(3) / 2
	c, err := NewCrystal(lat, []float64{nn}, 2, PenaltyPow2, 0.01, rmax)
	if err != nil {
		t.Fatal(err)
	}
	cartA := v3.Zero
	cartB := lat.FracToCart(v3.New(0.5, 0.5, 0.5))
	if err := c.Add(cartA, LINEAR); err != nil {
		t.Fatal(err)
	}
	if err := c.Add(cartB, LINEAR); err != nil {
		t.Fatal(err)
	}
	return c, lat, cartA, cartB
}

// TestCrystalBCCSelfConsistentCostIsZero checks that a BCC structure built
// exactly against its own first-neighbour-shell distance table costs
// (near) nothing.
func TestCrystalBCCSelfConsistentCostIsZero(t *testing.T) {
	c, _, _, _ := newBCCTestCrystal(t)
	if c.Cost() > 1e-9 {
		t.Errorf("self-consistent BCC cost = %g, want ~0", c.Cost())
	}
}

// TestCrystalCountPairsMatchesCountsSum checks that CountPairs ==
// sum of every pmx_pair_counts entry.
func TestCrystalCountPairsMatchesCountsSum(t *testing.T) {
	c, _, _, _ := newBCCTestCrystal(t)
	total := 0.0
	for _, v := range c.counts {
		total += v
	}
	if got := c.CountPairs(); got != total {
		t.Errorf("CountPairs() = %g, want %g (sum of counts)", got, total)
	}
	// The BCC corner-center pair has 8 first-neighbour images within rmax.
	if total < 16 { // counted symmetrically for both off-diagonal entries
		t.Errorf("CountPairs() = %g, want at least 16 (8 images, stored symmetrically)", total)
	}
}

// TestCrystalAtomRelaxBCC exercises S5: displace the body-center atom
// slightly, pop and re-add it at the displaced position, then relax it;
// it must return within eps_distance of the original site.
func TestCrystalAtomRelaxBCC(t *testing.T) {
	c, _, _, cartB := newBCCTestCrystal(t)

	if err := c.Pop(1); err != nil {
		t.Fatal(err)
	}
	offset := v3.New(0.013, -0.07, -0.03)
	if err := c.Add(cartB.Add(offset), LINEAR); err != nil {
		t.Fatal(err)
	}

	if err := AtomRelax(c, 1, 0.01); err != nil {
		t.Fatal(err)
	}

	got := c.Atoms()[1].Pos
	if d := got.Dist(cartB); d > eps_distance {
		t.Errorf("AtomRelax returned %v, want within %g of %v (dist %g)", got, eps_distance, cartB, d)
	}
}

// TestCrystalAddPopInvertibility exercises S4 for the crystal variant: Pop
// then re-Add the same atom must restore the pair matrices bitwise, since
// crystal-mode distances are always reused rather than consumed.
func TestCrystalAddPopInvertibility(t *testing.T) {
	c, _, _, cartB := newBCCTestCrystal(t)
	before := append([]float64(nil), c.partial...)
	beforeCost := c.Cost()

	if err := c.Pop(1); err != nil {
		t.Fatal(err)
	}
	if err := c.Add(cartB, LINEAR); err != nil {
		t.Fatal(err)
	}

	if got := c.Cost(); got != beforeCost {
		t.Errorf("Pop/Add round trip changed badness from %g to %g", beforeCost, got)
	}
	for i, v := range c.partial {
		if v != before[i] {
			t.Fatalf("pair matrix entry %d changed from %g to %g across Pop/Add", i, before[i], v)
		}
	}
}

func TestCrystalCanonicalizesOutOfCellPositions(t *testing.T) {
	lat := NewLattice(1, 1, 1, math.Pi/2, math.Pi/2, math.Pi/2)
	c, err := NewCrystal(lat, []float64{1}, 2, PenaltyPow2, 0.01, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	outside := v3.New(1.25, -0.25, 0.5)
	if err := c.Add(outside, LINEAR); err != nil {
		t.Fatal(err)
	}
	got := c.Atoms()[0].Pos
	want := lat.Canonicalize(outside)
	if got.Dist(want) > 1e-12 {
		t.Errorf("Add did not canonicalise %v into the unit cell: got %v, want %v", outside, got, want)
	}
	for _, x := range []float64{got.X, got.Y, got.Z} {
		if x < -1e-9 || x >= 1+1e-9 {
			t.Errorf("canonicalised coordinate %g outside [0,1)", x)
		}
	}
}
