/*
 * triangulate.go, part of liga.
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

	v3 "github.com/rmera/liga/v3"
)

// Triangulator generates candidate atom positions from anchors drawn from a
// Structure's existing atoms. It holds only the random stream; the
// distance-reuse policy is passed on each call and the target radii always
// come from the caller's working DistanceTable, so a Triangulator has no state of its own between
// calls.
type Triangulator struct {
	rand *Rand
}

// NewTriangulator builds a Triangulator drawing from r.
func NewTriangulator(r *Rand) *Triangulator { return &Triangulator{rand: r} }

// anchorWeights builds the fitness-weighted-anchor-selection argument common
// to all three push operations: reciprocal cost, uniform if every atom has
// zero cost.
func anchorWeights(atoms []*Atom) []float64 {
	cost := make([]float64, len(atoms))
	for i, a := range atoms {
		cost[i] = a.Badness
	}
	return fitnessFromCost(cost)
}

// pickDistances returns k distance values from table, with replacement if
// reuse is true (the crystal and explicit dist_reuse case), else without.
func (tr *Triangulator) pickDistances(table *DistanceTable, k int, reuse bool) []float64 {
	n := table.Len()
	out := make([]float64, k)
	if reuse {
		for i := 0; i < k; i++ {
			out[i] = table.At(tr.rand.Intn(n))
		}
		return out
	}
	idx := tr.rand.chooseFew(minInt(k, n), n)
	for i := range out {
		if i < len(idx) {
			out[i] = table.At(idx[i])
		} else {
			out[i] = table.At(tr.rand.Intn(n))
		}
	}
	return out
}

// Line builds candidates along a direction anchored at one or two base
// atoms: direction B1-B0 normalised if two distinct anchors are drawn, else
// +z; a single radius drawn from the table per trial, pushed both along and
// (when the direction is real) against that direction. Anchors are drawn as
// a single weighted-without-replacement pick of k distinct atoms, not k
// independent single picks, so one trial can never double-count an atom as
// both B0 and B1.
func (tr *Triangulator) Line(atoms []*Atom, table *DistanceTable, reuse bool, trials int) []v3.Vec {
	if len(atoms) == 0 || table.Len() == 0 {
		return nil
	}
	w := anchorWeights(atoms)
	k := minInt(2, len(atoms))
	var out []v3.Vec
	for nt := 0; nt < trials; nt++ {
		anchors := tr.rand.weightedChooseK(w, k)
		b0 := atoms[anchors[0]].Pos
		dir := v3.UnitZ
		realDir := false
		if len(anchors) > 1 {
			diff := atoms[anchors[1]].Pos.Sub(b0)
			if n := diff.Norm(); n > eps_distance {
				dir = diff.Scale(1 / n)
				realDir = true
			}
		}
		radius := tr.pickDistances(table, 1, reuse)[0]
		out = append(out, b0.Add(dir.Scale(radius)))
		if realDir {
			out = append(out, b0.Sub(dir.Scale(radius)))
			nt++
		}
	}
	return out
}

// Plane builds candidates in the plane spanned by two or three base atoms:
// two drawn target distances crossed against the two roots of the planar
// triangle (xlong, r01-xlong) and the two perpendicular signs, yielding 4
// candidates when the third anchor gives a real perpendicular direction
// (latticePlane) and 1 otherwise. Anchors are drawn as a single
// weighted-without-replacement pick of k distinct atoms; with only one atom
// available B1 falls back to B0, which collapses r01 to zero and the trial
// is skipped below.
func (tr *Triangulator) Plane(atoms []*Atom, table *DistanceTable, reuse bool, trials int) []v3.Vec {
	if len(atoms) < 1 || table.Len() == 0 {
		return nil
	}
	w := anchorWeights(atoms)
	k := minInt(3, len(atoms))
	var out []v3.Vec
	for nt := 0; nt < trials; {
		anchors := tr.rand.weightedChooseK(w, k)
		b0idx := anchors[0]
		b1idx := anchors[0]
		if len(anchors) > 1 {
			b1idx = anchors[1]
		}
		haveB2 := len(anchors) > 2
		var b2idx int
		if haveB2 {
			b2idx = anchors[2]
		}
		b0, b1 := atoms[b0idx].Pos, atoms[b1idx].Pos

		r01 := b0.Dist(b1)
		if r01 < eps_distance {
			nt++
			continue
		}
		ds := tr.pickDistances(table, 2, reuse)
		r02, r12 := ds[0], ds[1]

		xl0 := (r02*r02 + r01*r01 - r12*r12) / (2 * r01)
		xlong := [2]float64{xl0, r01 - xl0}
		xp2 := r02*r02 - xlong[0]*xlong[0]
		if xp2 < 0 {
			nt++
			continue
		}
		xp := math.Sqrt(math.Abs(xp2))
		if xp < eps_distance {
			xp = 0
		}
		xperp := [2]float64{-xp, xp}

		longdir := b1.Sub(b0).Scale(1 / r01)
		var perpdir v3.Vec
		latticePlane := false
		if haveB2 {
			b2 := atoms[b2idx].Pos
			v02 := b2.Sub(b0)
			pd := v02.Sub(longdir.Scale(longdir.Dot(v02)))
			if n := pd.Norm(); n > eps_distance {
				perpdir = pd.Scale(1 / n)
				latticePlane = true
			}
		}
		if !latticePlane {
			perpdir = longdir.Cross(longdir.SmallestAxis()).Unit()
		}

		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				p := b0.Add(longdir.Scale(xlong[i])).Add(perpdir.Scale(xperp[j]))
				out = append(out, p)
				nt++
				if !latticePlane {
					break
				}
			}
			if !latticePlane {
				break
			}
		}
	}
	return out
}

// Pyramid builds apex candidates above a base triangle of three anchor
// atoms: three drawn target distances permuted six ways, each permutation
// solved for an apex in the orthonormal frame (uvi, uvj, uvk) built from the
// base triangle. The general case yields two mirrored apices, consuming an
// extra trial for the second. Anchors are drawn as a single
// weighted-without-replacement pick of 3 distinct atoms.
func (tr *Triangulator) Pyramid(atoms []*Atom, table *DistanceTable, reuse bool, trials int) []v3.Vec {
	if len(atoms) < 3 || table.Len() == 0 {
		return nil
	}
	w := anchorWeights(atoms)
	var out []v3.Vec
	for nt := 0; nt < trials; nt++ {
		anchors := tr.rand.weightedChooseK(w, 3)
		b0idx, b1idx, b2idx := anchors[0], anchors[1], anchors[2]
		b0, b1, b2 := atoms[b0idx].Pos, atoms[b1idx].Pos, atoms[b2idx].Pos

		uvi := b1.Sub(b0)
		r01 := uvi.Norm()
		if r01 < eps_distance {
			continue
		}
		uvi = uvi.Scale(1 / r01)
		v02 := b2.Sub(b0)
		uvj := v02.Sub(uvi.Scale(uvi.Dot(v02)))
		nmUvj := uvj.Norm()
		if nmUvj < eps_distance {
			continue
		}
		uvj = uvj.Scale(1 / nmUvj)
		uvk := uvi.Cross(uvj)

		ds := tr.pickDistances(table, 3, reuse)
		for _, perm := range permutations3 {
			r03, r13, r23 := ds[perm[0]], ds[perm[1]], ds[perm[2]]

			xP1 := -0.5 / r01 * (r01*r01 + r03*r03 - r13*r13)
			vT := b0.Sub(uvi.Scale(xP1))
			xP3 := xP1 + uvi.Dot(v02)
			yP3 := uvj.Dot(v02)

			h2 := r03*r03 - xP1*xP1
			switch {
			case math.Abs(h2) < eps_distance:
				p3norm := v3.New(xP3, yP3, 0).Norm()
				if math.Abs(p3norm-r03) > eps_distance {
					continue
				}
				out = append(out, vT)
				continue
			case h2 < 0:
				continue
			}

			yP4 := 0.5 / yP3 * (h2 + xP3*xP3 + yP3*yP3 - r23*r23)
			z2P4 := h2 - yP4*yP4
			switch {
			case math.Abs(z2P4) < eps_distance:
				out = append(out, uvj.Scale(yP4).Add(vT))
				continue
			case z2P4 < 0:
				continue
			}

			zP4 := math.Sqrt(z2P4)
			out = append(out, uvj.Scale(yP4).Add(uvk.Scale(zP4)).Add(vT))
			out = append(out, uvj.Scale(yP4).Add(uvk.Scale(-zP4)).Add(vT))
			nt++
		}
	}
	return out
}

// permutations3 enumerates the 6 orderings of 3 picked distances that
// push_good_pyramids tries per trial.
var permutations3 = [6][3]int{
	{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
}
