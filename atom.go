/*
 * atom.go, part of liga.
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

import v3 "github.com/rmera/liga/v3"

// Triangulation records how an atom's position was generated.
type Triangulation int

const (
	LINEAR Triangulation = iota
	PLANAR
	SPATIAL
)

func (tt Triangulation) String() string {
	switch tt {
	case LINEAR:
		return "LINEAR"
	case PLANAR:
		return "PLANAR"
	case SPATIAL:
		return "SPATIAL"
	default:
		return "UNKNOWN"
	}
}

// numTriangulationTypes is the size of a [n_linear, n_planar, n_spatial]
// style array.
const numTriangulationTypes = 3

// Atom is owned exclusively by one Structure. Pos is its cartesian
// position; PMXIndex is the stable pair-matrix index assigned by the owning
// structure and valid for the atom's lifetime there. Badness is a mutable
// cost accumulator kept in sync by the owning structure's Add/Pop/Recalculate;
// RollingSum/RollingAge back a plain running mean of that badness over
// every time it was scored, used by relaxation and by the
// worst-atom selection Evolve and Degenerate both need.
type Atom struct {
	Pos      v3.Vec
	PMXIndex int
	Fixed    bool
	Triang   Triangulation

	Badness     float64
	RollingSum  float64
	RollingAge  int
}

// Copy returns an independent copy of a, with the same PMXIndex — callers
// that re-home an Atom into another structure must reassign PMXIndex
// themselves since slot allocation is the owning structure's job.
func (a *Atom) Copy() *Atom {
	cp := *a
	return &cp
}

// recordBadness folds a freshly computed per-atom badness into the
// rolling average used to flag the atom with the highest free cost, both
// during Evolve and for the worst-atom pick in Degenerate's optional relax.
func (a *Atom) recordBadness(b float64) {
	a.Badness = b
	a.RollingSum += b
	a.RollingAge++
}

// averageBadness returns the atom's badness averaged over every time it
// has been scored, or its current badness if it has never been scored.
func (a *Atom) averageBadness() float64 {
	if a.RollingAge == 0 {
		return a.Badness
	}
	return a.RollingSum / float64(a.RollingAge)
}
