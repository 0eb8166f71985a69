/*
 * relax.go, part of liga.
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

package liga

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/rmera/liga/internal/leastsq"
	v3 "github.com/rmera/liga/v3"
)

// AtomRelax refines the position of atom i in s by
// Levenberg-Marquardt against the pairing (neighbour, target distance) its
// current position realizes, popping it out and re-adding it at the
// improved position found. If fewer than 3 anchors (real neighbours, or
// real-plus-periodic-image for Crystal) are available to refine against,
// this is a no-op: a single residual direction cannot pin down a 3-D
// position.
func AtomRelax(s Structure, i int, tolDD float64) error {
	atoms := s.Atoms()
	if i < 0 || i >= len(atoms) {
		return newError(RangeError, "AtomRelax", "atom index %d out of range [0,%d)", i, len(atoms))
	}
	target := atoms[i]
	triang := target.Triang
	orig := target.Pos

	if err := s.Pop(i); err != nil {
		return err
	}
	// anchorAtoms augments remaining with periodic-image copies for Crystal,
	// the same way Evolve's candidate generation does: a crystal atom's
	// position is only pinned down in 3-D by distance constraints against
	// several image directions, not by a single nearest-neighbour residual.
	remaining := anchorAtoms(s, s.Atoms())
	if len(remaining) < 3 {
		return s.Add(orig, triang)
	}
	usedDist := AssignNearest(orig, remaining, s.WorkingTable(), s.ReuseDistances())

	prob := leastsq.Problem{
		NParams: 3,
		Residuals: func(p []float64) ([]float64, *mat.Dense) {
			pos := v3.New(p[0], p[1], p[2])
			rs := Residuals(pos, remaining, usedDist)
			r := make([]float64, len(rs))
			jac := mat.NewDense(len(rs), 3, nil)
			for k, res := range rs {
				r[k] = res.R
				jac.SetRow(k, []float64{res.Grad.X, res.Grad.Y, res.Grad.Z})
			}
			return r, jac
		},
	}
	p0 := []float64{orig.X, orig.Y, orig.Z}
	epsGrad := eps_cost / math.Max(tolDD, eps_cost)
	result := leastsq.LevenbergMarquardt(prob, p0, maxRelaxOuter, maxRelaxInner, eps_cost, epsGrad)
	newPos := v3.New(result.P[0], result.P[1], result.P[2])

	return s.Add(newPos, triang)
}
