/*
 * scheduler.go, part of liga.
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
	"time"
)

// SchedulerParams bundles the run parameters threaded through every
// scheduler iteration.
type SchedulerParams struct {
	EprobMin, EprobMax float64
	BustProb           float64
	TolBad             float64
	TolNBad            float64
	NDim               int
	LogSize            int
	MaxCPUTime         time.Duration

	Evolve EvolveParams
	Table  *DistanceTable
	Tri    *Triangulator
}

// Liga is the top-level search scheduler: a sequence of Divisions indexed 0..N (N is
// the final atom count), a champion pointer holding the best full-size
// structure seen, and the bookkeeping (bestMNBadness, a rolling improvement
// log) that drives the evolve-vs-degenerate probability.
type Liga struct {
	Divisions []*Division // index 0..N
	Champion  Structure
	Solved    bool

	bestMNBadness []float64
	improved      []bool
	iteration     int

	params SchedulerParams
	rand   *Rand

	started time.Time
}

// NewLiga builds an empty liga over N+1 levels (0..N atoms), seeding level
// 0 with a single empty structure produced by newEmpty.
func NewLiga(maxAtoms, ligaSize int, params SchedulerParams, rnd *Rand, newEmpty func() Structure) *Liga {
	divs := make([]*Division, maxAtoms+1)
	for l := 0; l <= maxAtoms; l++ {
		size := ligaSize
		if l == 0 {
			size = 1
		}
		divs[l] = NewDivision(l, size)
	}
	divs[0].Members = append(divs[0].Members, newEmpty())

	best := make([]float64, maxAtoms+1)
	for i := range best {
		best[i] = math.Inf(1)
	}
	logSize := params.LogSize
	if logSize <= 0 {
		logSize = 10
	}
	improved := make([]bool, logSize)
	for i := range improved {
		improved[i] = true
	}
	return &Liga{
		Divisions:     divs,
		bestMNBadness: best,
		improved:      improved,
		params:        params,
		rand:          rnd,
	}
}

func (lg *Liga) maxLevel() int { return len(lg.Divisions) - 1 }

func (lg *Liga) improvementRate() float64 {
	n := 0
	for _, v := range lg.improved {
		if v {
			n++
		}
	}
	return float64(n) / float64(len(lg.improved))
}

// probEvolve computes pe the way djoser.cpp's prob_evolve does, generalised
// to a candidate parent chosen from any division rather than a single
// walker: a parent already at the final level can only degenerate; a
// structure with at most one atom must evolve; a "bust" forces a full
// evolve; otherwise pe interpolates eprob_min..eprob_max by the recent
// improvement rate.
func (lg *Liga) probEvolve(parent Structure, bustNow bool) float64 {
	switch {
	case parent.Len() >= lg.maxLevel():
		return 0
	case parent.Len() <= 1:
		return 1
	case bustNow:
		return 1
	default:
		rate := lg.improvementRate()
		return rate*(lg.params.EprobMax-lg.params.EprobMin) + lg.params.EprobMin
	}
}

// pickSourceLevel picks a division index (0..maxLevel-1, non-empty) with
// probability weighted by its population size, approximating "weighted by
// per-level trial budget": a division that currently holds more
// structures has received more trials.
func (lg *Liga) pickSourceLevel() int {
	weights := make([]float64, lg.maxLevel())
	for l := 0; l < lg.maxLevel(); l++ {
		weights[l] = float64(len(lg.Divisions[l].Members))
	}
	return lg.rand.weightedChoose(weights)
}

// RunIteration executes one scheduler step and reports whether a solved
// structure was found.
func (lg *Liga) RunIteration() bool {
	lg.iteration++
	bustNow := lg.improvementRate() >= 0.5 && lg.rand.Float64() < lg.params.BustProb

	level := lg.pickSourceLevel()
	div := lg.Divisions[level]
	parentIdx := div.findWinner(lg.rand)
	parent := div.Members[parentIdx]
	pe := lg.probEvolve(parent, bustNow)

	child := parent.Clone()
	var newLevel int
	if lg.rand.Float64() < pe {
		before := child.Len()
		totalTrials := 0
		for _, n := range lg.params.Evolve.Trials {
			totalTrials += n
		}
		evolveParams := lg.params.Evolve
		evolveParams.Trials = div.estimateTriangulations(lg.params.NDim, totalTrials, lg.rand)
		res, err := Evolve(child, lg.params.Tri, evolveParams, lg.rand)
		if err != nil {
			return lg.Solved
		}
		added := child.Atoms()[before:]
		triangs := make([]Triangulation, len(added))
		for i, a := range added {
			triangs[i] = a.Triang
		}
		div.noteTriangulations(triangs)
		_ = res
		newLevel = child.Len()
	} else {
		npop := 1
		if nb := child.NormalizedCost(); nb > lg.params.TolBad {
			frac := float64(child.Len()) / 4.0
			npop = int(math.Ceil(frac * (1 - lg.params.TolBad/nb)))
			if npop < 1 {
				npop = 1
			}
			npop = 1 + lg.rand.Intn(npop)
		}
		if err := Degenerate(child, npop, lg.params.Evolve.RelaxWorst, lg.params.Evolve.TolDD, lg.rand); err != nil {
			return lg.Solved
		}
		newLevel = child.Len()
	}

	if newLevel >= 0 && newLevel <= lg.maxLevel() && newLevel != level {
		lg.Divisions[newLevel].Insert(child, lg.rand)
	}

	ilog := lg.iteration % len(lg.improved)
	nb := child.NormalizedCost()
	if nb < lg.bestMNBadness[newLevel] {
		lg.bestMNBadness[newLevel] = nb
		lg.improved[ilog] = true
	} else {
		lg.improved[ilog] = false
		if lg.bestMNBadness[newLevel] < lg.params.TolBad {
			lg.bestMNBadness[newLevel] = lg.params.TolBad
		}
	}

	lg.maybeDemoteChampion()
	lg.updateChampion()
	return lg.Solved
}

// maybeDemoteChampion periodically demotes the looser of the champion
// division back one level and runs Degenerate: whenever the top division
// is full, a clone of its cost-weighted looser loses one atom and is
// inserted into the division below. The original stays in the top
// division.
func (lg *Liga) maybeDemoteChampion() {
	top := lg.Divisions[lg.maxLevel()]
	if !top.Full() || len(top.Members) == 0 {
		return
	}
	loserIdx := top.findLooser(lg.rand)
	loser := top.Members[loserIdx].Clone()
	if err := Degenerate(loser, 1, lg.params.Evolve.RelaxWorst, lg.params.Evolve.TolDD, lg.rand); err != nil {
		return
	}
	lg.Divisions[loser.Len()].Insert(loser, lg.rand)
}

// updateChampion keeps Champion pointed at the best full-size structure
// seen and marks the run Solved once one reaches tol_bad. Only Full
// structures are eligible for the champion slot; only Solved terminates
// the run.
func (lg *Liga) updateChampion() {
	top := lg.Divisions[lg.maxLevel()]
	if len(top.Members) == 0 {
		return
	}
	best := top.Members[top.findBest()]
	if lg.Champion == nil || best.NormalizedCost() < lg.Champion.NormalizedCost() {
		lg.Champion = best
	}
	if best.NormalizedCost() <= lg.params.TolBad {
		lg.Solved = true
	}
}

// Run drives the scheduler until Solved or maxcputime elapses.
func (lg *Liga) Run() {
	lg.started = time.Now()
	for {
		if lg.Solved {
			return
		}
		if lg.params.MaxCPUTime > 0 && time.Since(lg.started) > lg.params.MaxCPUTime {
			return
		}
		lg.RunIteration()
	}
}
