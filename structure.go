/*
 * structure.go, part of liga.
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
	"gonum.org/v1/gonum/mat"

	v3 "github.com/rmera/liga/v3"
)

// Structure is the shared capability set of Molecule and Crystal, per the
// "Polymorphism Molecule vs Crystal" design note: a common interface, with
// distance-consumption/reassignPairs living only in Molecule and periodic
// images/canonicalisation living only in Crystal.
type Structure interface {
	// Add places a new atom at pos, generated by the given triangulation
	// rule, and folds its cost into the structure's bookkeeping.
	Add(pos v3.Vec, triang Triangulation) error
	// Pop removes the atom at AtomSequence position i, the exact inverse
	// of the Add that created it.
	Pop(i int) error
	// Clear returns all atoms and distances, leaving an empty structure.
	Clear()
	// Cost returns the aggregate badness.
	Cost() float64
	// NormalizedCost returns badness divided by the number of pairs.
	NormalizedCost() float64
	// Recalculate does a full rebuild of the cost matrices from the
	// current atom positions.
	Recalculate()
	// Atoms returns the AtomSequence: atoms in the order they were added.
	Atoms() []*Atom
	// Len returns the number of atoms currently in the structure.
	Len() int
	// MaxAtoms returns the structure's maximum atom count.
	MaxAtoms() int
	// Full reports whether the structure has reached MaxAtoms.
	Full() bool
	// EvaluateCandidate scores pos against the current atoms without
	// mutating the structure, for use by Evolve's candidate filtering.
	EvaluateCandidate(pos v3.Vec, cutoff float64) EvalResult
	// Clone returns an independent deep copy (own pair matrices and atoms,
	// same pair-matrix indices) per the copy-semantics design note.
	Clone() Structure
	// Coords returns the current atom positions as an N-by-3 matrix, for
	// I/O and whole-structure geometry (AtomEye export, lattice changes).
	Coords() *mat.Dense
	// ReuseDistances reports whether a target distance may satisfy more
	// than one pair — always true for Crystal, false for Molecule.
	ReuseDistances() bool
	// WorkingTable exposes the structure's current target-distance pool
	// (shrinking for Molecule, static for Crystal), the source the
	// Triangulator draws candidate radii from.
	WorkingTable() *DistanceTable
}

// atomPool is the atom-list and pair-matrix-slot bookkeeping shared by
// Molecule and Crystal: an insertion-ordered sequence (AtomSequence) plus
// a set of free pair-matrix slots so Pop'd indices are reused, per the
// "Atom identity across the structure" design note.
type atomPool struct {
	bySlot   []*Atom // index by PMXIndex; nil for a free/unused slot
	seq      []*Atom // AtomSequence: insertion order
	free     []int
	maxAtoms int
}

func newAtomPool(maxAtoms int) *atomPool {
	return &atomPool{maxAtoms: maxAtoms}
}

func (p *atomPool) len() int { return len(p.seq) }

func (p *atomPool) full() bool { return len(p.seq) >= p.maxAtoms }

// allocSlot reserves a pair-matrix slot, reusing a freed one when
// available, else appending — growing the backing capacity by the caller's
// grow callback when the slice itself needs to be extended, to
// max(requested, 2x current, capped at max_atom_count).
func (p *atomPool) allocSlot(grow func(newCap int)) (int, error) {
	if p.full() {
		return 0, newError(InvalidMolecule, "allocSlot", "structure already at max_atom_count (%d)", p.maxAtoms)
	}
	if len(p.free) > 0 {
		slot := p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
		return slot, nil
	}
	// With no free slot, slots 0..len(seq)-1 are all in use.
	slot := len(p.seq)
	if slot >= p.maxAtoms {
		return 0, newError(InvalidMolecule, "allocSlot", "cannot grow past max_atom_count (%d)", p.maxAtoms)
	}
	if slot >= len(p.bySlot) {
		newCap := maxInt(slot+1, minInt(2*maxInt(len(p.bySlot), 1), p.maxAtoms))
		grow(newCap)
		extra := make([]*Atom, newCap-len(p.bySlot))
		p.bySlot = append(p.bySlot, extra...)
	}
	return slot, nil
}

func (p *atomPool) add(slot int, a *Atom) {
	p.bySlot[slot] = a
	p.seq = append(p.seq, a)
}

// removeAt removes the atom at AtomSequence position i and frees its slot,
// returning the removed atom.
func (p *atomPool) removeAt(i int) (*Atom, error) {
	if i < 0 || i >= len(p.seq) {
		return nil, newError(RangeError, "removeAt", "atom index %d out of range [0,%d)", i, len(p.seq))
	}
	a := p.seq[i]
	p.seq = append(p.seq[:i:i], p.seq[i+1:]...)
	p.bySlot[a.PMXIndex] = nil
	p.free = append(p.free, a.PMXIndex)
	return a, nil
}

func (p *atomPool) clear() {
	p.bySlot = nil
	p.seq = nil
	p.free = nil
}

func (p *atomPool) capacity() int { return len(p.bySlot) }

// growSquare grows a symmetric n-by-n matrix (stored row-major as a flat
// slice) to newCap-by-newCap, preserving existing entries. Used by Molecule
// and Crystal for pmx_partial_costs / pmx_used_distances / pmx_pair_counts.
func growSquare(m []float64, oldCap, newCap int) []float64 {
	if newCap <= oldCap {
		return m
	}
	grown := make([]float64, newCap*newCap)
	for i := 0; i < oldCap; i++ {
		copy(grown[i*newCap:i*newCap+oldCap], m[i*oldCap:i*oldCap+oldCap])
	}
	return grown
}

func coordsFromAtoms(atoms []*Atom) *mat.Dense {
	m := mat.NewDense(len(atoms), 3, nil)
	for i, a := range atoms {
		a.Pos.Row(m, i)
	}
	return m
}
