/*
 * division.go, part of liga.
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

	"gonum.org/v1/gonum/floats"
)

// Division holds the pool of structures at a fixed atom count (its
// "level"): a capacity, success counters per triangulation type
// and the per-season estimated trial budget those counters drive.
type Division struct {
	Level    int
	Capacity int

	Members []Structure

	accTriang [numTriangulationTypes]int
	totTriang [numTriangulationTypes]int

	estTriang [numTriangulationTypes]int
}

// NewDivision builds an empty division at the given level (atom count) and
// capacity.
func NewDivision(level, capacity int) *Division {
	return &Division{Level: level, Capacity: capacity}
}

func (d *Division) Full() bool { return len(d.Members) >= d.Capacity }
func (d *Division) Empty() bool { return len(d.Members) == 0 }

// defaultTriangProb are the triangulation-type priors used before any
// trials have been recorded for a type (2:4:12 out of 18, favouring
// pyramids), matching the real Division_t::estimateTriangulations default.
var defaultTriangProb = [numTriangulationTypes]float64{2.0 / 18, 4.0 / 18, 12.0 / 18}

// estimateTriangulations draws p_t from a Beta(acc_t+1, tot_t-acc_t+1)
// posterior per triangulation type once a type has been tried at least
// once (else it keeps its default prior), zeroes out types that exceed the
// structure's degrees of freedom (ndim), renormalises over the remaining
// types and rounds up to get est_triang[t] = ceil(p_t * trials).
func (d *Division) estimateTriangulations(ndim, trials int, rnd *Rand) [numTriangulationTypes]int {
	dof := minInt(ndim, d.Level)
	p := defaultTriangProb
	for t := 0; t < numTriangulationTypes; t++ {
		if d.totTriang[t] == 0 {
			continue
		}
		acc, tot := d.accTriang[t], d.totTriang[t]
		p[t] = rnd.beta(float64(acc)+1, float64(tot-acc)+1)
	}
	if dof == 0 {
		p[LINEAR] = 0
	}
	if dof <= 1 {
		p[PLANAR] = 0
	}
	if dof <= 2 {
		p[SPATIAL] = 0
	}
	if sum := floats.Sum(p[:]); sum > 0 {
		floats.Scale(1/sum, p[:])
	}
	var est [numTriangulationTypes]int
	for t := 0; t < numTriangulationTypes; t++ {
		d.estTriang[t] = int(math.Ceil(p[t] * float64(trials)))
		est[t] = d.estTriang[t]
	}
	return est
}

// noteTriangulations folds the outcome of one Evolve call into the
// division's running acc_triang/tot_triang counters: every triangulation
// type actually used by a newly added atom counts as a success, and the
// previously estimated budget for every type counts toward its trials,
// per the real Division_t::noteTriangulations.
func (d *Division) noteTriangulations(addedTriangs []Triangulation) {
	for _, tt := range addedTriangs {
		d.accTriang[tt]++
	}
	for t := 0; t < numTriangulationTypes; t++ {
		d.totTriang[t] += d.estTriang[t]
		d.estTriang[t] = 0
	}
}

// findWinner is the fitness-weighted selection pick:
// weight = reciprocal of normalised badness.
func (d *Division) findWinner(rnd *Rand) int {
	cost := make([]float64, len(d.Members))
	for i, m := range d.Members {
		cost[i] = m.NormalizedCost()
	}
	return rnd.weightedChoose(fitnessFromCost(cost))
}

// findLooser is the cost-weighted pick: weight = normalised badness.
func (d *Division) findLooser(rnd *Rand) int {
	weight := make([]float64, len(d.Members))
	for i, m := range d.Members {
		weight[i] = m.NormalizedCost()
	}
	return rnd.weightedChoose(weight)
}

// findBest is the argmin of normalised badness.
func (d *Division) findBest() int {
	cost := make([]float64, len(d.Members))
	for i, m := range d.Members {
		cost[i] = m.NormalizedCost()
	}
	return floats.MinIdx(cost)
}

// Insert adds s to the division if it is not full, else replaces its
// current looser if s scores better.
func (d *Division) Insert(s Structure, rnd *Rand) {
	if !d.Full() {
		d.Members = append(d.Members, s)
		return
	}
	loser := d.findLooser(rnd)
	if s.NormalizedCost() < d.Members[loser].NormalizedCost() {
		d.Members[loser] = s
	}
}
