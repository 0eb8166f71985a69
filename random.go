/*
 * random.go, part of liga.
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
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Rand is the single pseudo-random stream that every stochastic primitive
// in liga draws from. It is threaded explicitly through call sites rather
// than kept as a package-level global, so that two independent Ligas (an
// outer ensemble) never share state and a run is fully reproducible from
// its seed alone.
type Rand struct {
	*rand.Rand
}

// NewRand seeds a new stream.
func NewRand(seed int64) *Rand {
	return &Rand{rand.New(rand.NewSource(seed))}
}

// weightedChoose returns the index of one element of w chosen with
// probability proportional to its weight. If every weight is zero (or w is
// empty of positive mass) it falls back to a uniform choice.
func (r *Rand) weightedChoose(w []float64) int {
	if len(w) == 0 {
		panic("liga: weightedChoose on an empty slice")
	}
	total := 0.0
	for _, wi := range w {
		if wi > 0 {
			total += wi
		}
	}
	if total <= 0 {
		return r.Intn(len(w))
	}
	target := r.Float64() * total
	acc := 0.0
	for i, wi := range w {
		if wi <= 0 {
			continue
		}
		acc += wi
		if target <= acc {
			return i
		}
	}
	// Floating point round-off can leave target just past the sum; return
	// the last weighted candidate rather than indexing out of range.
	for i := len(w) - 1; i >= 0; i-- {
		if w[i] > 0 {
			return i
		}
	}
	return len(w) - 1
}

// weightedChooseK draws k distinct indices from w without replacement,
// each successive pick fitness-weighted among the remaining candidates.
func (r *Rand) weightedChooseK(w []float64, k int) []int {
	if k > len(w) {
		k = len(w)
	}
	pool := make([]int, len(w))
	weights := make([]float64, len(w))
	for i := range w {
		pool[i] = i
		weights[i] = w[i]
	}
	out := make([]int, 0, k)
	for len(out) < k && len(pool) > 0 {
		pick := r.weightedChoose(weights)
		out = append(out, pool[pick])
		last := len(pool) - 1
		pool[pick], pool[last] = pool[last], pool[pick]
		weights[pick], weights[last] = weights[last], weights[pick]
		pool = pool[:last]
		weights = weights[:last]
	}
	return out
}

// chooseFew samples k distinct integers in [0,n) via a swap-remap: build
// the identity permutation lazily and swap chosen slots to the back, so no
// O(n) allocation is required up front for large n.
func (r *Rand) chooseFew(k, n int) []int {
	if k > n {
		k = n
	}
	remap := make(map[int]int, k)
	out := make([]int, k)
	last := n
	for i := 0; i < k; i++ {
		last--
		j := r.Intn(last + 1)
		vj, ok := remap[j]
		if !ok {
			vj = j
		}
		vlast, ok := remap[last]
		if !ok {
			vlast = last
		}
		remap[j] = vlast
		remap[last] = vj
		out[i] = vj
	}
	return out
}

// expRandSource adapts *rand.Rand to the golang.org/x/exp/rand.Source
// interface expected by gonum/stat/distuv, whose Seed takes a uint64
// rather than math/rand's int64.
type expRandSource struct {
	*rand.Rand
}

func (s expRandSource) Seed(seed uint64) {
	s.Rand.Seed(int64(seed))
}

// beta draws from a Beta(alpha, beta) distribution using this stream's
// source, the way Division.estimateTriangulations needs a posterior draw
// per triangulation type.
func (r *Rand) beta(alpha, betaParam float64) float64 {
	d := distuv.Beta{Alpha: alpha, Beta: betaParam, Src: expRandSource{r.Rand}}
	return d.Rand()
}

// fitnessFromCost converts a slice of non-negative costs into fitness
// weights (reciprocal cost), with the "all-zero fitness: uniform" rule:
// if every cost is zero the fitness is uniform (here: all 1).
func fitnessFromCost(cost []float64) []float64 {
	fit := make([]float64, len(cost))
	anyPositive := false
	for i, c := range cost {
		if c > eps_cost {
			fit[i] = 1 / c
			anyPositive = true
		}
	}
	if !anyPositive {
		for i := range fit {
			fit[i] = 1
		}
	}
	return fit
}
