/*
 * evolve.go, part of liga.
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

// Filter inspects a candidate position against a Structure before it is
// scored, and rejects it by returning false. User-defined filters (bond
// angle, lone-atom) implement this.
type Filter interface {
	Accept(s Structure, pos v3.Vec) bool
}

// EvolveParams bundles the tunables Evolve consumes from a Liga run's
// configuration.
type EvolveParams struct {
	Trials      [numTriangulationTypes]int // n_linear, n_planar, n_spatial
	TolNBad     float64
	TolDD       float64
	PromoteFrac float64
	PromoteJump bool
	LookoutProb float64
	Filters     []Filter
	RelaxWorst  bool // "relax the atom with the highest free cost", step 7
}

// EvolveResult reports what one call to Evolve accepted and attempted, per
// triangulation type.
type EvolveResult struct {
	Accepted [numTriangulationTypes]int
	Attempted [numTriangulationTypes]int
}

func (r *EvolveResult) record(t Triangulation, accepted bool) {
	r.Attempted[t]++
	if accepted {
		r.Accepted[t]++
	}
}

// evolveCandidate is a position together with the triangulation rule that
// produced it.
type evolveCandidate struct {
	pos    v3.Vec
	triang Triangulation
}

// scoredCandidate pairs an evolveCandidate with its EvaluateCandidate result.
type scoredCandidate struct {
	evolveCandidate
	res EvalResult
}

// Evolve adds one atom to s, chosen among candidates
// produced by the Triangulator within the per-type trial budget, evaluated
// against a cutoff and (optionally) re-run greedily until the structure is
// full or no candidate survives.
func Evolve(s Structure, tri *Triangulator, p EvolveParams, rnd *Rand) (EvolveResult, error) {
	var result EvolveResult
	for {
		accepted, err := evolveOnce(s, tri, p, rnd, &result)
		if err != nil {
			return result, err
		}
		if !accepted || !p.PromoteJump || s.Full() {
			return result, nil
		}
	}
}

// latticeAware is implemented by Crystal: structures that expose it get
// their anchor atoms augmented with periodic-image positions.
type latticeAware interface {
	Lattice() *Lattice
}

// anchorAtoms returns the atoms the Triangulator should anchor against:
// the real atoms, plus one synthetic Atom per periodic image for crystal
// structures, each inheriting its source atom's Badness so anchor weighting
// is unaffected.
func anchorAtoms(s Structure, atoms []*Atom) []*Atom {
	la, ok := s.(latticeAware)
	if !ok {
		return atoms
	}
	lat := la.Lattice()
	out := append([]*Atom(nil), atoms...)
	for _, a := range atoms {
		for dx := 0; dx <= 1; dx++ {
			for dy := 0; dy <= 1; dy++ {
				for dz := 0; dz <= 1; dz++ {
					if dx == 0 && dy == 0 && dz == 0 {
						continue
					}
					off := lat.FracToCart(v3.New(float64(dx), float64(dy), float64(dz)))
					out = append(out, &Atom{Pos: a.Pos.Add(off), Badness: a.Badness, RollingSum: a.RollingSum, RollingAge: a.RollingAge})
				}
			}
		}
	}
	return out
}

// evolveOnce runs steps 1-7 once; it reports whether an atom was added.
func evolveOnce(s Structure, tri *Triangulator, p EvolveParams, rnd *Rand, result *EvolveResult) (bool, error) {
	realAtoms := s.Atoms()
	table := s.WorkingTable()

	// Step 1: special cases.
	if len(realAtoms) == 0 {
		if err := s.Add(v3.Zero, LINEAR); err != nil {
			return false, err
		}
		result.record(LINEAR, true)
		return true, nil
	}
	if len(realAtoms) == 1 {
		return evolveSecondAtom(s, table, p, rnd, result)
	}
	atoms := anchorAtoms(s, realAtoms)

	// Steps 2-3: fitness-weighted anchors, candidate generation per type.
	var candidates []evolveCandidate
	for _, pos := range tri.Line(atoms, table, s.ReuseDistances(), p.Trials[LINEAR]) {
		candidates = append(candidates, evolveCandidate{pos, LINEAR})
	}
	for _, pos := range tri.Plane(atoms, table, s.ReuseDistances(), p.Trials[PLANAR]) {
		candidates = append(candidates, evolveCandidate{pos, PLANAR})
	}
	for _, pos := range tri.Pyramid(atoms, table, s.ReuseDistances(), p.Trials[SPATIAL]) {
		candidates = append(candidates, evolveCandidate{pos, SPATIAL})
	}

	for _, c := range candidates {
		result.Attempted[c.triang]++
	}

	// Step 4: user filters.
	filtered := candidates[:0:0]
	for _, c := range candidates {
		ok := true
		for _, f := range p.Filters {
			if !f.Accept(s, c.pos) {
				ok = false
				break
			}
		}
		if ok {
			filtered = append(filtered, c)
		}
	}
	candidates = filtered
	if len(candidates) == 0 {
		return false, nil
	}

	// Step 5: evaluate with cutoff = min_so_far + evolve_range.
	evolveRange := float64(len(realAtoms)) * p.TolNBad * p.PromoteFrac
	results := make([]scoredCandidate, len(candidates))
	minSoFar := math.Inf(1)
	for i, c := range candidates {
		res := s.EvaluateCandidate(c.pos, minSoFar+evolveRange)
		results[i] = scoredCandidate{c, res}
		if res.Total < minSoFar {
			minSoFar = res.Total
		}
	}
	cutoff := minSoFar + evolveRange
	var kept []scoredCandidate
	for _, sc := range results {
		if sc.res.Total <= cutoff {
			kept = append(kept, sc)
		}
	}
	if len(kept) == 0 {
		return false, nil
	}

	// Step 6: select one, by fitness-weighted sampling, or by lookout count.
	var chosen int
	if rnd.Float64() < p.LookoutProb {
		chosen = lookoutSelect(kept)
	} else {
		cost := make([]float64, len(kept))
		for i, sc := range kept {
			cost[i] = sc.res.Total
		}
		chosen = rnd.weightedChoose(fitnessFromCost(cost))
	}
	pick := kept[chosen]
	if err := s.Add(pick.pos, pick.triang); err != nil {
		return false, err
	}
	result.record(pick.triang, true)

	// Step 7: optionally relax the free atom with the highest averaged
	// badness.
	if p.RelaxWorst {
		relaxWorstAtom(s, p.TolDD)
	}
	return true, nil
}

// evolveSecondAtom handles the single-existing-atom case of step 1: push
// one candidate at radius 0 along +z, or, in lookout mode, scan every
// unique radius in +-z and keep the one with the most good neighbours (here
// there is only one existing atom, so this degenerates to picking the
// radius whose nearest-table match is tightest).
func evolveSecondAtom(s Structure, table *DistanceTable, p EvolveParams, rnd *Rand, result *EvolveResult) (bool, error) {
	base := s.Atoms()[0].Pos
	if rnd.Float64() >= p.LookoutProb || table.Len() == 0 {
		r := 0.0
		if table.Len() > 0 {
			r = table.At(0)
		}
		pos := base.Add(v3.UnitZ.Scale(r))
		if err := s.Add(pos, LINEAR); err != nil {
			return false, err
		}
		result.record(LINEAR, true)
		return true, nil
	}
	best := v3.Zero
	bestCost := math.Inf(1)
	found := false
	for _, r := range table.Unique() {
		for _, sign := range [2]float64{1, -1} {
			pos := base.Add(v3.UnitZ.Scale(r * sign))
			res := s.EvaluateCandidate(pos, math.Inf(1))
			if res.Total < bestCost {
				bestCost = res.Total
				best = pos
				found = true
			}
		}
	}
	if !found {
		return false, nil
	}
	if err := s.Add(best, LINEAR); err != nil {
		return false, err
	}
	result.record(LINEAR, true)
	return true, nil
}

// lookoutSelect picks the candidate that would form the most "good
// neighbours" (pairs whose residual falls within tol_dd of zero) rather
// than the lowest-cost one; this is the lookout-mode selection rule.
func lookoutSelect(kept []scoredCandidate) int {
	best := 0
	bestGood := -1
	for i, sc := range kept {
		good := 0
		for _, u := range sc.res.UsedDist {
			if !math.IsNaN(u) {
				good++
			}
		}
		if good > bestGood {
			bestGood = good
			best = i
		}
	}
	return best
}

// relaxWorstAtom picks the free atom with the highest averaged badness and
// relaxes it via AtomRelax; Degenerate's demoteRelax option uses the same
// selection rule on its own pop-and-demote path.
func relaxWorstAtom(s Structure, tolDD float64) {
	atoms := s.Atoms()
	worst := -1
	worstBadness := -1.0
	for i, a := range atoms {
		if a.Fixed {
			continue
		}
		if b := a.averageBadness(); b > worstBadness {
			worstBadness = b
			worst = i
		}
	}
	if worst < 0 {
		return
	}
	_ = AtomRelax(s, worst, tolDD)
}
