/*
 * lattice.go, part of liga.
 *
 * Copyright 2026 The liga authors.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 */

// Lattice and PointsInSphere implement the periodic-geometry primitives
// Crystal needs as an external collaborator: fractional<->cartesian
// conversion, the reciprocal basis, and a spherical-shell lattice-point
// enumerator. This file supplies the minimal working implementation, built
// on v3.Vec for per-point geometry and gonum/mat for the 3x3
// basis/reciprocal-basis algebra.
package liga

import (
	"math"

	"gonum.org/v1/gonum/mat"

	v3 "github.com/rmera/liga/v3"
)

// Lattice holds the 6 cell parameters and a cached cartesian basis (and
// its inverse, the reciprocal basis) for a periodic Structure.
type Lattice struct {
	A, B, C                float64
	Alpha, Beta, Gamma     float64 // radians
	basis                  *mat.Dense // rows are the cartesian a, b, c vectors
	recip                  *mat.Dense // reciprocal basis, rows are a*, b*, c*
	maxDiagonal            float64
}

// NewLattice builds the cartesian basis for a unit cell with edge lengths
// a, b, c and angles alpha (b,c), beta (a,c), gamma (a,b) in radians, using
// the standard crystallographic convention: a along x, b in the xy plane.
func NewLattice(a, b, c, alpha, beta, gamma float64) *Lattice {
	cosA, cosB, cosG := math.Cos(alpha), math.Cos(beta), math.Cos(gamma)
	sinG := math.Sin(gamma)

	ax, ay, az := a, 0.0, 0.0
	bx, by, bz := b*cosG, b*sinG, 0.0
	cx := c * cosB
	cy := c * (cosA - cosB*cosG) / sinG
	cz2 := c*c - cx*cx - cy*cy
	cz := 0.0
	if cz2 > 0 {
		cz = math.Sqrt(cz2)
	}

	basis := mat.NewDense(3, 3, []float64{
		ax, ay, az,
		bx, by, bz,
		cx, cy, cz,
	})
	l := &Lattice{A: a, B: b, C: c, Alpha: alpha, Beta: beta, Gamma: gamma, basis: basis}
	l.computeReciprocal()
	l.computeMaxDiagonal()
	return l
}

func (l *Lattice) computeReciprocal() {
	var inv mat.Dense
	if err := inv.Inverse(l.basis); err != nil {
		panic("liga: degenerate lattice, cannot invert basis: " + err.Error())
	}
	// Rows of basis^-T are the reciprocal vectors a*, b*, c* such that
	// a_i . a*_j = delta_ij.
	l.recip = mat.DenseCopyOf(inv.T())
}

func (l *Lattice) computeMaxDiagonal() {
	corners := [][3]float64{
		{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {-1, 1, 1},
	}
	max := 0.0
	for _, c := range corners {
		v := l.FracToCart(v3.New(c[0], c[1], c[2]))
		if n := v.Norm(); n > max {
			max = n
		}
	}
	l.maxDiagonal = max
}

// basisRow returns cartesian basis vector i (0=a, 1=b, 2=c).
func (l *Lattice) basisRow(i int) v3.Vec {
	return v3.New(l.basis.At(i, 0), l.basis.At(i, 1), l.basis.At(i, 2))
}

// recipRow returns reciprocal basis vector i.
func (l *Lattice) recipRow(i int) v3.Vec {
	return v3.New(l.recip.At(i, 0), l.recip.At(i, 1), l.recip.At(i, 2))
}

// FracToCart converts fractional coordinates to cartesian.
func (l *Lattice) FracToCart(f v3.Vec) v3.Vec {
	out := v3.Zero
	out = out.Add(l.basisRow(0).Scale(f.X))
	out = out.Add(l.basisRow(1).Scale(f.Y))
	out = out.Add(l.basisRow(2).Scale(f.Z))
	return out
}

// CartToFrac converts cartesian coordinates to fractional.
func (l *Lattice) CartToFrac(c v3.Vec) v3.Vec {
	return v3.New(c.Dot(l.recipRow(0)), c.Dot(l.recipRow(1)), c.Dot(l.recipRow(2)))
}

// Canonicalize wraps a cartesian position into the [0,1) unit cell. Atom
// positions are canonicalised into the unit cell on every mutation.
func (l *Lattice) Canonicalize(pos v3.Vec) v3.Vec {
	f := l.CartToFrac(pos)
	wrap := func(x float64) float64 {
		x = math.Mod(x, 1)
		if x < 0 {
			x += 1
		}
		return x
	}
	return l.FracToCart(v3.New(wrap(f.X), wrap(f.Y), wrap(f.Z)))
}

// MaxDiagonal returns the cached length of the unit cell's longest
// body diagonal.
func (l *Lattice) MaxDiagonal() float64 { return l.maxDiagonal }

// LatticeVec is one translation vector found by PointsInSphere.
type LatticeVec struct {
	N1, N2, N3 int
	Cart       v3.Vec
}

// PointsInSphere enumerates every lattice translation vector
// n1*a + n2*b + n3*c (integer n1,n2,n3) whose cartesian length is at most
// radius.
//
// Integer bounds on each n_i are derived from the reciprocal lattice
// (n_i_max = ceil(radius * |recip_i|) + 1), the standard technique for
// bounding a search over a sphere in a non-orthogonal basis; the loop
// itself still filters by the exact cartesian norm.
func (l *Lattice) PointsInSphere(radius float64) []LatticeVec {
	if radius < 0 {
		return nil
	}
	bound := func(i int) int {
		return int(math.Ceil(radius*l.recipRow(i).Norm())) + 1
	}
	n1max, n2max, n3max := bound(0), bound(1), bound(2)
	var out []LatticeVec
	r2 := radius * radius
	for n1 := -n1max; n1 <= n1max; n1++ {
		for n2 := -n2max; n2 <= n2max; n2++ {
			for n3 := -n3max; n3 <= n3max; n3++ {
				t := l.basisRow(0).Scale(float64(n1)).
					Add(l.basisRow(1).Scale(float64(n2))).
					Add(l.basisRow(2).Scale(float64(n3)))
				if t.Norm2() <= r2 {
					out = append(out, LatticeVec{N1: n1, N2: n2, N3: n3, Cart: t})
				}
			}
		}
	}
	return out
}
