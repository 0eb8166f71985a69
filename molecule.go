/*
 * molecule.go, part of liga.
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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	v3 "github.com/rmera/liga/v3"
)

// noUsedDistance is the pmx_used_distances sentinel meaning "this pair
// consumed no target distance". Target distances are strictly positive so
// zero is unambiguous.
const noUsedDistance = 0.0

// Molecule is the non-periodic Structure variant: it owns a shrinking
// working DistanceTable and consumes one target distance per realized
// pair.
type Molecule struct {
	pool *atomPool

	partial []float64 // cap*cap, symmetric, pair cost contributions
	used    []float64 // cap*cap, symmetric, consumed distance value or noUsedDistance

	badness float64

	table    *DistanceTable // working copy, shrinks as distances are consumed
	original *DistanceTable // kept to restore on Clear

	eval *PairCostEval
}

// NewMolecule builds an empty Molecule targeting the given distances, able
// to hold up to maxAtoms atoms.
func NewMolecule(targetDistances []float64, maxAtoms int, penalty Penalty, tolDD float64) (*Molecule, error) {
	table, err := NewDistanceTable(targetDistances)
	if err != nil {
		return nil, err
	}
	return &Molecule{
		pool:     newAtomPool(maxAtoms),
		table:    table.Clone(),
		original: table,
		eval:     NewPairCostEval(penalty, tolDD),
	}, nil
}

func (m *Molecule) cap() int { return m.pool.capacity() }

func (m *Molecule) grow(newCap int) {
	oldCap := m.cap()
	m.partial = growSquare(m.partial, oldCap, newCap)
	m.used = growSquare(m.used, oldCap, newCap)
}

func (m *Molecule) idx(i, j int) int { return i*m.cap() + j }

func (m *Molecule) Atoms() []*Atom      { return m.pool.seq }
func (m *Molecule) Len() int            { return m.pool.len() }
func (m *Molecule) MaxAtoms() int       { return m.pool.maxAtoms }
func (m *Molecule) Full() bool          { return m.pool.full() }
func (m *Molecule) Cost() float64       { return m.badness }
func (m *Molecule) ReuseDistances() bool { return false }

func (m *Molecule) NormalizedCost() float64 {
	n := m.Len()
	npairs := n * (n - 1) / 2
	if npairs == 0 {
		return 0
	}
	return m.badness / float64(npairs)
}

func (m *Molecule) Coords() *mat.Dense { return coordsFromAtoms(m.pool.seq) }

// WorkingTable exposes the current (shrinking) target-distance pool, for
// the Triangulator to pick candidate radii from.
func (m *Molecule) WorkingTable() *DistanceTable { return m.table }

// EvaluateCandidate scores pos without mutating the structure.
func (m *Molecule) EvaluateCandidate(pos v3.Vec, cutoff float64) EvalResult {
	return m.eval.Evaluate(pos, m.pool.seq, m.table, cutoff)
}

// Add allocates a slot, scores against existing atoms,
// record costs into the matrices split half-and-half between the two
// endpoint atoms, consume any used distances from the working table, and
// run reassignPairs once the structure fills up.
func (m *Molecule) Add(pos v3.Vec, triang Triangulation) error {
	existing := append([]*Atom(nil), m.pool.seq...)
	res := m.eval.Evaluate(pos, existing, m.table, math.Inf(1))

	slot, err := m.pool.allocSlot(m.grow)
	if err != nil {
		return err
	}
	na := &Atom{Pos: pos, PMXIndex: slot, Triang: triang}

	rowSum := floats.Sum(res.Partial)
	for i, other := range existing {
		cost := res.Partial[i]
		m.partial[m.idx(slot, other.PMXIndex)] = cost
		m.partial[m.idx(other.PMXIndex, slot)] = cost
		other.Badness += cost / 2
		other.RollingSum += cost / 2

		if !math.IsNaN(res.UsedDist[i]) {
			val := res.UsedDist[i]
			m.used[m.idx(slot, other.PMXIndex)] = val
			m.used[m.idx(other.PMXIndex, slot)] = val
			pos2, found := m.table.FindNearest(val)
			if found == val {
				m.table.Erase(pos2)
			}
		}
	}
	na.Badness = rowSum / 2
	na.RollingSum = na.Badness
	na.RollingAge = 1
	m.pool.add(slot, na)
	m.badness = snapZero(m.badness + rowSum)

	if m.pool.full() {
		m.reassignPairs()
	}
	return nil
}

// Pop is the exact inverse of Add: remove all of the atom's pair
// contributions, return its used distances, free its slot.
func (m *Molecule) Pop(i int) error {
	a, err := m.pool.removeAt(i)
	if err != nil {
		return err
	}
	for _, other := range m.pool.seq {
		cost := m.partial[m.idx(a.PMXIndex, other.PMXIndex)]
		other.Badness -= cost / 2
		m.badness -= cost
		m.partial[m.idx(a.PMXIndex, other.PMXIndex)] = 0
		m.partial[m.idx(other.PMXIndex, a.PMXIndex)] = 0

		val := m.used[m.idx(a.PMXIndex, other.PMXIndex)]
		if val != noUsedDistance {
			m.table.ReturnBack(val)
			m.used[m.idx(a.PMXIndex, other.PMXIndex)] = 0
			m.used[m.idx(other.PMXIndex, a.PMXIndex)] = 0
		}
	}
	m.badness = snapZero(m.badness)
	return nil
}

// Clear returns all distances and atoms.
func (m *Molecule) Clear() {
	m.pool.clear()
	m.partial = nil
	m.used = nil
	m.badness = 0
	m.table = m.original.Clone()
}

// Recalculate does a full rebuild from atom positions: clears badness,
// returns every consumed distance, and re-adds atoms one at a time in
// their existing AtomSequence order and positions. Required after any
// change that invalidates incremental state.
func (m *Molecule) Recalculate() {
	atoms := m.pool.seq
	positions := make([]v3.Vec, len(atoms))
	triangs := make([]Triangulation, len(atoms))
	for i, a := range atoms {
		positions[i] = a.Pos
		triangs[i] = a.Triang
	}
	maxAtoms := m.pool.maxAtoms
	m.pool = newAtomPool(maxAtoms)
	m.partial = nil
	m.used = nil
	m.badness = 0
	m.table = m.original.Clone()
	for i, p := range positions {
		_ = m.Add(p, triangs[i])
	}
}

// reassignPairs re-sorts the realized pair
// distances and the assigned used-distances, and re-pair them by rank. By
// the rearrangement inequality this never increases the sum of squared
// differences, so badness cannot increase beyond a small relative
// tolerance; a violation indicates a bug in the incremental bookkeeping.
func (m *Molecule) reassignPairs() {
	type pairRef struct {
		a, b      *Atom
		realized  float64
		oldUsed   float64
	}
	var pairs []pairRef
	seq := m.pool.seq
	for i := 0; i < len(seq); i++ {
		for j := i + 1; j < len(seq); j++ {
			used := m.used[m.idx(seq[i].PMXIndex, seq[j].PMXIndex)]
			if used == noUsedDistance {
				continue
			}
			pairs = append(pairs, pairRef{
				a: seq[i], b: seq[j],
				realized: seq[i].Pos.Dist(seq[j].Pos),
				oldUsed:  used,
			})
		}
	}
	if len(pairs) == 0 {
		return
	}
	byRealized := append([]pairRef(nil), pairs...)
	sort.Slice(byRealized, func(i, j int) bool { return byRealized[i].realized < byRealized[j].realized })
	usedVals := make([]float64, len(pairs))
	for i, p := range pairs {
		usedVals[i] = p.oldUsed
	}
	sort.Float64s(usedVals)

	oldBadness := m.badness
	for rank, p := range byRealized {
		newUsed := usedVals[rank]
		oldCost := m.partial[m.idx(p.a.PMXIndex, p.b.PMXIndex)]
		dd := newUsed - p.realized
		newCost := applyPenalty(m.eval.Penalty, dd, m.eval.TolDD)

		m.partial[m.idx(p.a.PMXIndex, p.b.PMXIndex)] = newCost
		m.partial[m.idx(p.b.PMXIndex, p.a.PMXIndex)] = newCost
		m.used[m.idx(p.a.PMXIndex, p.b.PMXIndex)] = newUsed
		m.used[m.idx(p.b.PMXIndex, p.a.PMXIndex)] = newUsed

		delta := newCost - oldCost
		p.a.Badness += delta / 2
		p.b.Badness += delta / 2
		m.badness += delta
	}
	m.badness = snapZero(m.badness)
	if m.badness > oldBadness*(1+1e-6)+eps_cost {
		panic("liga: reassignPairs increased badness beyond tolerance")
	}
}

// Clone returns an independent deep copy, with its own DistanceTable and
// atoms that keep their pair-matrix indices.
func (m *Molecule) Clone() Structure {
	cp := &Molecule{
		pool:     newAtomPool(m.pool.maxAtoms),
		table:    m.table.Clone(),
		original: m.original.Clone(),
		eval:     m.eval,
		badness:  m.badness,
	}
	cp.partial = append([]float64(nil), m.partial...)
	cp.used = append([]float64(nil), m.used...)
	cp.pool.bySlot = make([]*Atom, len(m.pool.bySlot))
	cp.pool.free = append([]int(nil), m.pool.free...)
	for _, a := range m.pool.seq {
		na := a.Copy()
		cp.pool.bySlot[na.PMXIndex] = na
		cp.pool.seq = append(cp.pool.seq, na)
	}
	return cp
}
