package liga

import (
	"math"
	"testing"

	v3 "github.com/rmera/liga/v3"
)

func TestLatticeFracCartRoundTripsCubic(t *testing.T) {
	lat := NewLattice(2, 2, 2, math.Pi/2, math.Pi/2, math.Pi/2)
	f := v3.New(0.25, 0.5, 0.75)
	c := lat.FracToCart(f)
	if got := v3.New(0.5, 1, 1.5); c.Dist(got) > eps_distance {
		t.Errorf("FracToCart(%v) = %v, want %v", f, c, got)
	}
	back := lat.CartToFrac(c)
	if back.Dist(f) > eps_distance {
		t.Errorf("CartToFrac(FracToCart(f)) = %v, want %v", back, f)
	}
}

func TestLatticeFracCartRoundTripsTriclinic(t *testing.T) {
	lat := NewLattice(3, 4, 5, 1.4, 1.3, 1.2)
	for _, f := range []v3.Vec{
		v3.New(0.1, 0.2, 0.3),
		v3.New(0.9, 0.05, 0.5),
		v3.New(-0.3, 1.7, 0.0),
	} {
		c := lat.FracToCart(f)
		back := lat.CartToFrac(c)
		if back.Dist(f) > eps_distance {
			t.Errorf("triclinic round trip for %v: got %v", f, back)
		}
	}
}

func TestLatticeCanonicalizeWrapsIntoUnitCell(t *testing.T) {
	lat := NewLattice(1, 1, 1, math.Pi/2, math.Pi/2, math.Pi/2)
	c := lat.Canonicalize(v3.New(1.25, -0.5, 2.75))
	f := lat.CartToFrac(c)
	for _, x := range []float64{f.X, f.Y, f.Z} {
		if x < -eps_distance || x >= 1+eps_distance {
			t.Errorf("canonicalized fractional coordinate %v out of [0,1)", f)
		}
	}
}

func TestLatticeCanonicalizeIsIdempotentInsideCell(t *testing.T) {
	lat := NewLattice(1, 1, 1, math.Pi/2, math.Pi/2, math.Pi/2)
	p := v3.New(0.3, 0.4, 0.5)
	if got := lat.Canonicalize(p); got.Dist(p) > eps_distance {
		t.Errorf("Canonicalize moved an already-in-cell point: %v -> %v", p, got)
	}
}

func TestLatticeMaxDiagonalCubic(t *testing.T) {
	lat := NewLattice(1, 1, 1, math.Pi/2, math.Pi/2, math.Pi/2)
	want := math.Sqrt(3)
	if got := lat.MaxDiagonal(); math.Abs(got-want) > eps_distance {
		t.Errorf("MaxDiagonal() = %v, want %v", got, want)
	}
}

func TestPointsInSphereIncludesOrigin(t *testing.T) {
	lat := NewLattice(1, 1, 1, math.Pi/2, math.Pi/2, math.Pi/2)
	pts := lat.PointsInSphere(0.5)
	found := false
	for _, p := range pts {
		if p.N1 == 0 && p.N2 == 0 && p.N3 == 0 {
			found = true
		}
		if p.Cart.Norm() > 0.5+eps_distance {
			t.Errorf("PointsInSphere returned a vector outside the requested radius: %v (norm %v)", p, p.Cart.Norm())
		}
	}
	if !found {
		t.Error("PointsInSphere(0.5) did not include the zero translation")
	}
}

func TestPointsInSphereCubicNearestNeighbourShell(t *testing.T) {
	lat := NewLattice(1, 1, 1, math.Pi/2, math.Pi/2, math.Pi/2)
	pts := lat.PointsInSphere(1.01)
	count := 0
	for _, p := range pts {
		if p.Cart.Norm() > 1e-9 && p.Cart.Norm() <= 1.01 {
			count++
		}
	}
	if count != 6 {
		t.Errorf("expected the 6 face-neighbour translations within radius 1.01, got %d", count)
	}
}

func TestPointsInSphereNegativeRadiusIsEmpty(t *testing.T) {
	lat := NewLattice(1, 1, 1, math.Pi/2, math.Pi/2, math.Pi/2)
	if pts := lat.PointsInSphere(-1); pts != nil {
		t.Errorf("PointsInSphere(-1) = %v, want nil", pts)
	}
}
