/*
 * distancetable.go, part of liga.
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
)

// DistanceTable is a sorted multiset of target interatomic distances. It
// supports nearest-value lookup, erase-at-position and order-preserving
// insertion, the primitives the cost evaluator and Structure.Add/Pop need
// to consume and return distances as atoms are added and removed.
//
// Entries are always kept sorted ascending and strictly positive; this is
// checked once at construction and preserved by every mutator.
type DistanceTable struct {
	d []float64
}

// NewDistanceTable builds a DistanceTable from ds, which need not be
// pre-sorted. It fails with InvalidDistanceTable if ds is empty or contains
// a non-positive entry.
func NewDistanceTable(ds []float64) (*DistanceTable, error) {
	if len(ds) == 0 {
		return nil, newError(InvalidDistanceTable, "NewDistanceTable", "empty distance table")
	}
	cp := make([]float64, len(ds))
	copy(cp, ds)
	sort.Float64s(cp)
	if cp[0] <= 0 {
		return nil, newError(InvalidDistanceTable, "NewDistanceTable", "non-positive distance %g", cp[0])
	}
	return &DistanceTable{d: cp}, nil
}

// Len returns the number of entries currently in the table.
func (t *DistanceTable) Len() int { return len(t.d) }

// At returns the value at position i.
func (t *DistanceTable) At(i int) float64 { return t.d[i] }

// Clone returns an independent copy of t; per the copy-semantics design
// note, a Structure's working DistanceTable is never shared between clones.
func (t *DistanceTable) Clone() *DistanceTable {
	cp := make([]float64, len(t.d))
	copy(cp, t.d)
	return &DistanceTable{d: cp}
}

// findNearest returns the position of the entry numerically closest to d.
// Ties (equal distance to two neighbouring entries) break toward the
// smaller index. Panics if the table is empty.
func (t *DistanceTable) findNearest(d float64) int {
	n := len(t.d)
	if n == 0 {
		panic("liga: findNearest on an empty DistanceTable")
	}
	pos := sort.SearchFloat64s(t.d, d)
	if pos == 0 {
		return 0
	}
	if pos == n {
		return n - 1
	}
	below, above := t.d[pos-1], t.d[pos]
	if math.Abs(d-below) <= math.Abs(above-d) {
		return pos - 1
	}
	return pos
}

// FindNearest is the exported form of findNearest, returning both the
// position and the value found there.
func (t *DistanceTable) FindNearest(d float64) (pos int, value float64) {
	pos = t.findNearest(d)
	return pos, t.d[pos]
}

// Erase removes the entry at position pos and returns the position of its
// successor (which, after removal, is simply pos again unless pos was the
// last element).
func (t *DistanceTable) Erase(pos int) int {
	t.d = append(t.d[:pos], t.d[pos+1:]...)
	if pos >= len(t.d) {
		return len(t.d)
	}
	return pos
}

// ReturnBack inserts d preserving sort order and returns its insertion
// position.
func (t *DistanceTable) ReturnBack(d float64) int {
	pos := sort.SearchFloat64s(t.d, d)
	t.d = append(t.d, 0)
	copy(t.d[pos+1:], t.d[pos:len(t.d)-1])
	t.d[pos] = d
	return pos
}

// Unique returns the sorted distinct values in the table.
func (t *DistanceTable) Unique() []float64 {
	if len(t.d) == 0 {
		return nil
	}
	out := make([]float64, 0, len(t.d))
	out = append(out, t.d[0])
	for _, v := range t.d[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// CountUnique returns the number of distinct values in the table.
func (t *DistanceTable) CountUnique() int {
	return len(t.Unique())
}

// MaxDistance returns the largest entry. Implemented as back() after sort
// rather than dereferencing a reverse iterator one-past the data, which is
// undefined behaviour in the source this spec was distilled from (open
// question 3).
func (t *DistanceTable) MaxDistance() float64 {
	if len(t.d) == 0 {
		panic("liga: MaxDistance of an empty DistanceTable")
	}
	return t.d[len(t.d)-1]
}

// EstNumAtoms solves N(N-1)/2 = Len() for the integer N. It fails with
// InvalidDistanceTable if Len() is not exactly a triangular number; this is
// only meaningful for molecule-mode tables.
func (t *DistanceTable) EstNumAtoms() (int, error) {
	size := t.Len()
	// N(N-1)/2 = size  =>  N = (1 + sqrt(1+8*size)) / 2
	n := (1 + math.Sqrt(1+8*float64(size))) / 2
	rounded := math.Round(n)
	if rounded < 2 || int(rounded)*(int(rounded)-1)/2 != size {
		return 0, newError(InvalidDistanceTable, "EstNumAtoms", "table size %d is not a triangular number", size)
	}
	return int(rounded), nil
}

// AsSlice returns a defensive copy of the current contents, sorted ascending.
func (t *DistanceTable) AsSlice() []float64 {
	cp := make([]float64, len(t.d))
	copy(cp, t.d)
	return cp
}
