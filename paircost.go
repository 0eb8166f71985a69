/*
 * paircost.go, part of liga.
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
	"sort"

	v3 "github.com/rmera/liga/v3"
)

// Penalty selects the per-pair cost function applied to dd = d_nearest - d,
// chosen by the CLI's `penalty` parameter.
type Penalty int

const (
	PenaltyPow2 Penalty = iota // dd^2 (default)
	PenaltyFabs                // |dd|
	PenaltyWell                // 0 if |dd| < tol_dd, else 1
)

func penaltyFromName(name string) (Penalty, bool) {
	switch name {
	case "pow2":
		return PenaltyPow2, true
	case "fabs":
		return PenaltyFabs, true
	case "well":
		return PenaltyWell, true
	default:
		return 0, false
	}
}

func applyPenalty(kind Penalty, dd, tolDD float64) float64 {
	switch kind {
	case PenaltyFabs:
		return math.Abs(dd)
	case PenaltyWell:
		if math.Abs(dd) < tolDD {
			return 0
		}
		return 1
	default: // PenaltyPow2
		return dd * dd
	}
}

// PairCostEval computes, for a candidate atom position, the per-pair
// penalties against a structure's existing atoms and chooses which target
// distances the candidate "uses". An evaluator carries the penalty
// kind, the distance-resolution tolerance and an optional cutoff used to
// abandon an unpromising candidate early (SetCutoff/SetCutoffRange).
type PairCostEval struct {
	Penalty Penalty
	TolDD   float64

	cutoffHi    float64 // +Inf if unset
	cutoffRange float64 // +Inf if unset
}

// NewPairCostEval builds an evaluator with no cutoff configured.
func NewPairCostEval(kind Penalty, tolDD float64) *PairCostEval {
	return &PairCostEval{
		Penalty:     kind,
		TolDD:       tolDD,
		cutoffHi:    math.Inf(1),
		cutoffRange: math.Inf(1),
	}
}

// SetCutoff sets the absolute cutoff: evaluation abandons a candidate as
// soon as its running partial cost exceeds hi.
func (e *PairCostEval) SetCutoff(hi float64) { e.cutoffHi = hi }

// SetCutoffRange sets a cutoff relative to the lowest candidate badness
// seen so far in the current round; callers recompute the effective
// cutoff as min(hi, currentMin+rng) before each Evaluate call.
func (e *PairCostEval) SetCutoffRange(rng float64) { e.cutoffRange = rng }

// EvalResult is the outcome of evaluating one candidate position against a
// structure's existing atoms.
type EvalResult struct {
	Total       float64
	Partial     []float64 // parallel to atoms
	UsedDist    []float64 // the target distance value consumed per pair, or NaN if none
	Complete    bool      // false if evaluation was abandoned by the cutoff
}

// Evaluate scores pos against atoms, consulting (but not mutating) the
// structure's real working table: a local clone is used so that a single
// target distance cannot satisfy two pairs within the *same* candidate
// evaluation, while the caller decides separately whether to
// actually consume those distances from the real table (Structure.Add does,
// candidate scoring during Evolve does not).
//
// cutoff is the caller's early-exit threshold for this call; the value
// set by SetCutoff, when lower, takes its place. Pass +Inf with no
// SetCutoff to disable early exit.
func (e *PairCostEval) Evaluate(pos v3.Vec, atoms []*Atom, table *DistanceTable, cutoff float64) EvalResult {
	if e.cutoffHi < cutoff {
		cutoff = e.cutoffHi
	}
	local := table.Clone()
	partial := make([]float64, len(atoms))
	used := make([]float64, len(atoms))
	total := 0.0
	for i, a := range atoms {
		used[i] = math.NaN()
		d := a.Pos.Dist(pos)
		if local.Len() == 0 {
			partial[i] = applyPenalty(e.Penalty, d, e.TolDD)
			total += partial[i]
			continue
		}
		pos2, nearest := local.FindNearest(d)
		dd := nearest - d
		cost := applyPenalty(e.Penalty, dd, e.TolDD)
		partial[i] = cost
		total += cost
		if math.Abs(dd) < e.TolDD {
			used[i] = nearest
			local.Erase(pos2)
		}
		if total > cutoff {
			return EvalResult{Total: total, Partial: partial, UsedDist: used, Complete: false}
		}
	}
	return EvalResult{Total: total, Partial: partial, UsedDist: used, Complete: true}
}

// Residual is one row of the least-squares problem AtomRelax solves: the
// signed difference between the candidate's current distance to atom a_m
// and the target distance it is assigned to reproduce, plus the analytic
// gradient of that residual with respect to the candidate position.
type Residual struct {
	R     float64
	Grad  v3.Vec // d(r)/d(pos)
}

// AssignNearest pairs each of atoms with a target distance from table.
// AtomRelax needs this rather than Evaluate's tol_dd-gated UsedDist:
// relaxation must recover which distance each neighbour pair is refining
// toward even when pos starts far enough from correct that no pair would
// pass the tol_dd "good match" gate yet.
//
// When reuse is true (Crystal, where many pairs legitimately share the same
// periodic-image distance) every atom is independently paired with its own
// nearest table value. When false (Molecule) atoms are paired by rank — the
// atom currently nearest pos gets the smallest remaining target, and so on,
// the same rearrangement-inequality pairing Molecule.reassignPairs uses
// internally — since a Molecule's target distances are each meant to be
// consumed once. Atoms beyond table.Len() in the non-reuse case get NaN,
// meaning no target to refine against.
func AssignNearest(pos v3.Vec, atoms []*Atom, table *DistanceTable, reuse bool) []float64 {
	used := make([]float64, len(atoms))
	if reuse {
		for i, a := range atoms {
			_, used[i] = table.FindNearest(a.Pos.Dist(pos))
		}
		return used
	}

	type ranked struct {
		idx int
		d   float64
	}
	order := make([]ranked, len(atoms))
	for i, a := range atoms {
		order[i] = ranked{i, a.Pos.Dist(pos)}
	}
	sort.Slice(order, func(i, j int) bool { return order[i].d < order[j].d })

	avail := table.AsSlice()
	for i := range used {
		used[i] = math.NaN()
	}
	for rank, r := range order {
		if rank >= len(avail) {
			break
		}
		used[r.idx] = avail[rank]
	}
	return used
}

// Residuals builds the residual vector and Jacobian AtomRelax needs,
// against a fixed pairing (atom, target distance) given in usedDist, which
// AtomRelax takes from AssignNearest — relaxation does not re-choose which distance an atom
// pair uses, it only moves pos to better satisfy the existing assignment.
func Residuals(pos v3.Vec, atoms []*Atom, usedDist []float64) []Residual {
	out := make([]Residual, 0, len(atoms))
	for i, a := range atoms {
		if math.IsNaN(usedDist[i]) {
			continue
		}
		diff := pos.Sub(a.Pos)
		d := diff.Norm()
		if d < 1e-12 {
			continue
		}
		r := d - usedDist[i]
		grad := diff.Scale(1 / d) // d(|pos-a|)/d(pos)
		out = append(out, Residual{R: r, Grad: grad})
	}
	return out
}
