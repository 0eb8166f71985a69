/*
 * vec.go, part of liga.
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

package v3

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// appzero is used to correct floating point errors. Everything equal to or
// less than this in magnitude is considered zero.
const appzero = 1e-12

// Vec is a point or displacement in 3-D cartesian space.
type Vec struct {
	X, Y, Z float64
}

// New builds a Vec from three coordinates.
func New(x, y, z float64) Vec {
	return Vec{x, y, z}
}

// Zero is the origin.
var Zero = Vec{0, 0, 0}

// UnitZ is the +z axis, the default direction used when a triangulation
// anchor has no second atom to orient against.
var UnitZ = Vec{0, 0, 1}

func (v Vec) Add(w Vec) Vec { return Vec{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }
func (v Vec) Sub(w Vec) Vec { return Vec{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }
func (v Vec) Scale(f float64) Vec {
	return Vec{v.X * f, v.Y * f, v.Z * f}
}

// Dot returns the scalar product of v and w.
func (v Vec) Dot(w Vec) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the vector product v x w.
func (v Vec) Cross(w Vec) Vec {
	return Vec{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Norm returns the euclidean length of v.
func (v Vec) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Norm2 returns the squared euclidean length of v, avoiding a Sqrt when
// only comparisons are needed.
func (v Vec) Norm2() float64 {
	return v.Dot(v)
}

// Dist returns the euclidean distance between v and w.
func (v Vec) Dist(w Vec) float64 {
	return v.Sub(w).Norm()
}

// Unit returns v scaled to unit length. Panics if v is (near) the zero
// vector rather than returning a silently wrong unit vector.
func (v Vec) Unit() Vec {
	n := v.Norm()
	if n <= appzero {
		panic("v3: Unit of a zero-length vector")
	}
	return v.Scale(1 / n)
}

// Angle returns the angle in radians between v and w.
func (v Vec) Angle(w Vec) float64 {
	normproduct := v.Norm() * w.Norm()
	if normproduct <= appzero {
		return 0
	}
	arg := v.Dot(w) / normproduct
	if math.Abs(arg-1) <= appzero {
		arg = 1
	} else if math.Abs(arg+1) <= appzero {
		arg = -1
	}
	return math.Acos(arg)
}

// SmallestAxis returns the standard basis vector (X, Y or Z) whose
// component of v has the smallest magnitude. It is used to deterministically
// pick an axis that is not (nearly) parallel to v when building an
// orthonormal frame, a reference axis derived from the input vector's own
// components.
func (v Vec) SmallestAxis() Vec {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	switch {
	case ax <= ay && ax <= az:
		return Vec{1, 0, 0}
	case ay <= ax && ay <= az:
		return Vec{0, 1, 0}
	default:
		return Vec{0, 0, 1}
	}
}

func (v Vec) String() string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}

// Row writes v into row i of dst, a N-by-3 matrix, so callers that need
// the full coordinate set backed by gonum/mat (I/O, lattice basis changes)
// can assemble it from individual Vecs rather than a single atom.
func (v Vec) Row(dst *mat.Dense, i int) {
	dst.SetRow(i, []float64{v.X, v.Y, v.Z})
}

// FromRow reads row i of a N-by-3 matrix into a Vec.
func FromRow(m *mat.Dense, i int) Vec {
	return Vec{m.At(i, 0), m.At(i, 1), m.At(i, 2)}
}

// NewMatrix builds an N-by-3 gonum matrix from a slice of Vecs.
func NewMatrix(vecs []Vec) *mat.Dense {
	m := mat.NewDense(len(vecs), 3, nil)
	for i, v := range vecs {
		v.Row(m, i)
	}
	return m
}
