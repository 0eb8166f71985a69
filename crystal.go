/*
 * crystal.go, part of liga.
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
	"gonum.org/v1/gonum/mat"

	v3 "github.com/rmera/liga/v3"
)

// Crystal is the periodic Structure variant: it owns a Lattice and a
// non-shrinking, unique-valued distance table cropped to Rmax; diagonal
// pair-matrix entries hold each atom's self-image cost, and distance reuse
// is always on.
type Crystal struct {
	pool *atomPool

	lattice *Lattice
	partial []float64 // cap*cap, including diagonal self costs
	counts  []float64 // cap*cap, image-pair counts per entry

	badness float64

	table *DistanceTable // full, cropped, read-only, safe to share across clones
	eval  *AtomCostCrystal

	selfCost      float64
	selfPairCount int
}

// NewCrystal builds an empty Crystal for the given lattice, cropped
// distance table and maximum atom count.
func NewCrystal(lat *Lattice, uniqueDistances []float64, maxAtoms int, penalty Penalty, tolDD, rmax float64) (*Crystal, error) {
	table, err := NewDistanceTable(uniqueDistances)
	if err != nil {
		return nil, err
	}
	eval := NewAtomCostCrystal(penalty, tolDD, rmax, lat)
	self, selfCount := eval.SelfCost(table)
	return &Crystal{
		pool:          newAtomPool(maxAtoms),
		lattice:       lat,
		table:         table,
		eval:          eval,
		selfCost:      self,
		selfPairCount: selfCount,
	}, nil
}

func (c *Crystal) cap() int { return c.pool.capacity() }
func (c *Crystal) idx(i, j int) int { return i*c.cap() + j }

func (c *Crystal) grow(newCap int) {
	oldCap := c.cap()
	c.partial = growSquare(c.partial, oldCap, newCap)
	c.counts = growSquare(c.counts, oldCap, newCap)
}

func (c *Crystal) Atoms() []*Atom       { return c.pool.seq }
func (c *Crystal) Len() int             { return c.pool.len() }
func (c *Crystal) MaxAtoms() int        { return c.pool.maxAtoms }
func (c *Crystal) Full() bool           { return c.pool.full() }
func (c *Crystal) Cost() float64        { return c.badness }
func (c *Crystal) ReuseDistances() bool       { return true }
func (c *Crystal) Lattice() *Lattice          { return c.lattice }
func (c *Crystal) WorkingTable() *DistanceTable { return c.table }

func (c *Crystal) NormalizedCost() float64 {
	n := c.Len()
	npairs := n * (n - 1) / 2
	if npairs == 0 {
		return 0
	}
	return c.badness / float64(npairs)
}

func (c *Crystal) Coords() *mat.Dense { return coordsFromAtoms(c.pool.seq) }

// CountPairs sums every pmx_pair_counts entry (including diagonals); it
// must always equal the running pair count the caller tracks separately.
func (c *Crystal) CountPairs() float64 {
	return floats.Sum(c.counts)
}

// EvaluateCandidate scores pos (canonicalised into the unit cell first)
// against existing atoms, including its own self-cost, without mutating
// the structure.
func (c *Crystal) EvaluateCandidate(pos v3.Vec, cutoff float64) EvalResult {
	pos = c.lattice.Canonicalize(pos)
	atoms := c.pool.seq
	partial := make([]float64, len(atoms))
	used := make([]float64, len(atoms)) // crystal never consumes distances
	total := c.selfCost
	for i, a := range atoms {
		used[i] = math.NaN()
		cost, _ := c.eval.EvaluatePair(pos, a.Pos, c.table)
		partial[i] = cost
		total += cost
		if total > cutoff {
			return EvalResult{Total: total, Partial: partial, UsedDist: used, Complete: false}
		}
	}
	return EvalResult{Total: total, Partial: partial, UsedDist: used, Complete: true}
}

// Add places a new atom, canonicalised into the unit cell, with its
// self-image cost recorded on the diagonal and its pair costs against
// every existing atom recorded symmetrically.
func (c *Crystal) Add(pos v3.Vec, triang Triangulation) error {
	pos = c.lattice.Canonicalize(pos)
	existing := append([]*Atom(nil), c.pool.seq...)

	slot, err := c.pool.allocSlot(c.grow)
	if err != nil {
		return err
	}
	na := &Atom{Pos: pos, PMXIndex: slot, Triang: triang}

	c.partial[c.idx(slot, slot)] = c.selfCost
	c.counts[c.idx(slot, slot)] = float64(c.selfPairCount)

	costs := make([]float64, len(existing))
	for i, other := range existing {
		cost, count := c.eval.EvaluatePair(pos, other.Pos, c.table)
		c.partial[c.idx(slot, other.PMXIndex)] = cost
		c.partial[c.idx(other.PMXIndex, slot)] = cost
		c.counts[c.idx(slot, other.PMXIndex)] = float64(count)
		c.counts[c.idx(other.PMXIndex, slot)] = float64(count)
		other.Badness += cost / 2
		costs[i] = cost
	}
	rowSum := floats.Sum(costs)
	na.Badness = c.selfCost + rowSum/2
	na.RollingSum = na.Badness
	na.RollingAge = 1
	c.pool.add(slot, na)
	c.badness = snapZero(c.badness + c.selfCost + rowSum)
	return nil
}

// Pop is the exact inverse of Add.
func (c *Crystal) Pop(i int) error {
	a, err := c.pool.removeAt(i)
	if err != nil {
		return err
	}
	c.badness -= c.partial[c.idx(a.PMXIndex, a.PMXIndex)]
	c.partial[c.idx(a.PMXIndex, a.PMXIndex)] = 0
	c.counts[c.idx(a.PMXIndex, a.PMXIndex)] = 0
	for _, other := range c.pool.seq {
		cost := c.partial[c.idx(a.PMXIndex, other.PMXIndex)]
		other.Badness -= cost / 2
		c.badness -= cost
		c.partial[c.idx(a.PMXIndex, other.PMXIndex)] = 0
		c.partial[c.idx(other.PMXIndex, a.PMXIndex)] = 0
		c.counts[c.idx(a.PMXIndex, other.PMXIndex)] = 0
		c.counts[c.idx(other.PMXIndex, a.PMXIndex)] = 0
	}
	c.badness = snapZero(c.badness)
	return nil
}

// Clear empties the structure; the lattice and the (read-only, shared)
// distance table are untouched.
func (c *Crystal) Clear() {
	c.pool.clear()
	c.partial = nil
	c.counts = nil
	c.badness = 0
}

// Recalculate rebuilds every cost from atom positions.
func (c *Crystal) Recalculate() {
	atoms := c.pool.seq
	positions := make([]v3.Vec, len(atoms))
	triangs := make([]Triangulation, len(atoms))
	for i, a := range atoms {
		positions[i] = a.Pos
		triangs[i] = a.Triang
	}
	maxAtoms := c.pool.maxAtoms
	c.pool = newAtomPool(maxAtoms)
	c.partial = nil
	c.counts = nil
	c.badness = 0
	for i, p := range positions {
		_ = c.Add(p, triangs[i])
	}
}

// Clone returns an independent deep copy. The full distance table is
// shared (it is read-only in crystal mode), per the copy-semantics design
// note's Crystal exception.
func (c *Crystal) Clone() Structure {
	cp := &Crystal{
		pool:          newAtomPool(c.pool.maxAtoms),
		lattice:       c.lattice,
		table:         c.table,
		eval:          c.eval,
		selfCost:      c.selfCost,
		selfPairCount: c.selfPairCount,
		badness:       c.badness,
	}
	cp.partial = append([]float64(nil), c.partial...)
	cp.counts = append([]float64(nil), c.counts...)
	cp.pool.bySlot = make([]*Atom, len(c.pool.bySlot))
	cp.pool.free = append([]int(nil), c.pool.free...)
	for _, a := range c.pool.seq {
		na := a.Copy()
		cp.pool.bySlot[na.PMXIndex] = na
		cp.pool.seq = append(cp.pool.seq, na)
	}
	return cp
}
