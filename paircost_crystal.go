/*
 * paircost_crystal.go, part of liga.
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

import v3 "github.com/rmera/liga/v3"

// AtomCostCrystal is the crystal-mode pair-cost evaluator: it
// enumerates lattice translations inside the sphere of radius
// Rmax+maxDiagonal and, for every periodic image distance, accumulates a
// penalty against the (never-shrinking, always-reusable) full distance
// table.
type AtomCostCrystal struct {
	Penalty Penalty
	TolDD   float64
	Rmax    float64
	Lattice *Lattice

	sphere []LatticeVec // cached PointsInSphere(Rmax+MaxDiagonal)
}

// NewAtomCostCrystal builds a crystal evaluator and precomputes the
// translation shell once; every pair/self-cost evaluation reuses it.
func NewAtomCostCrystal(kind Penalty, tolDD, rmax float64, lat *Lattice) *AtomCostCrystal {
	e := &AtomCostCrystal{Penalty: kind, TolDD: tolDD, Rmax: rmax, Lattice: lat}
	e.sphere = lat.PointsInSphere(rmax + lat.MaxDiagonal())
	return e
}

// EvaluatePair returns the accumulated cost and the number of periodic
// image pairs that contributed to it, for two distinct atoms a and b.
func (e *AtomCostCrystal) EvaluatePair(a, b v3.Vec, table *DistanceTable) (cost float64, count int) {
	for _, t := range e.sphere {
		d := a.Dist(b.Add(t.Cart))
		if d > e.Rmax || d < 1e-9 {
			continue
		}
		_, nearest := table.FindNearest(d)
		dd := nearest - d
		cost += applyPenalty(e.Penalty, dd, e.TolDD)
		count++
	}
	return cost, count
}

// SelfCost computes the self-image cost of a single atom under periodic
// images: the cost of its distances to its own images at every nonzero
// lattice translation within range. It is identical for every atom (it
// only depends on the lattice and the table), so callers compute it once
// and reuse it as a diagonal pair cost.
func (e *AtomCostCrystal) SelfCost(table *DistanceTable) (cost float64, count int) {
	for _, t := range e.sphere {
		if t.N1 == 0 && t.N2 == 0 && t.N3 == 0 {
			continue
		}
		d := t.Cart.Norm()
		if d > e.Rmax || d < 1e-9 {
			continue
		}
		_, nearest := table.FindNearest(d)
		dd := nearest - d
		cost += applyPenalty(e.Penalty, dd, e.TolDD)
		count++
	}
	return cost, count
}
