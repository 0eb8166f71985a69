/*
 * filters.go, part of liga.
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
	v3 "github.com/rmera/liga/v3"
)

// MinAngleFilter rejects a candidate position that would form an angle
// tighter than MinAngle (radians) at any existing atom between the
// candidate and one of that atom's current nearest neighbours. It is one
// of the optional user-defined structure filters.
type MinAngleFilter struct {
	MinAngle float64
	// MaxNeighbors bounds how many of an atom's closest neighbours are
	// checked; 0 means check against every other atom.
	MaxNeighbors int
}

func (f MinAngleFilter) Accept(s Structure, pos v3.Vec) bool {
	atoms := s.Atoms()
	for _, center := range atoms {
		neighbors := nearestNeighbors(center, atoms, f.MaxNeighbors)
		toCand := pos.Sub(center.Pos)
		if toCand.Norm() < eps_distance {
			continue
		}
		for _, nb := range neighbors {
			toNb := nb.Pos.Sub(center.Pos)
			if toNb.Norm() < eps_distance {
				continue
			}
			if toCand.Angle(toNb) < f.MinAngle {
				return false
			}
		}
	}
	return true
}

// nearestNeighbors returns up to k atoms (all of them if k <= 0) closest to
// center, excluding center itself.
func nearestNeighbors(center *Atom, atoms []*Atom, k int) []*Atom {
	others := make([]*Atom, 0, len(atoms))
	for _, a := range atoms {
		if a != center {
			others = append(others, a)
		}
	}
	if k <= 0 || k >= len(others) {
		return others
	}
	dist := make([]float64, len(others))
	for i, a := range others {
		dist[i] = center.Pos.Dist(a.Pos)
	}
	for i := 0; i < k; i++ {
		best := i
		for j := i + 1; j < len(others); j++ {
			if dist[j] < dist[best] {
				best = j
			}
		}
		others[i], others[best] = others[best], others[i]
		dist[i], dist[best] = dist[best], dist[i]
	}
	return others[:k]
}

// MaxDistanceFilter rejects a candidate more distant than MaxDistance from
// every existing atom — the "lone atom" filter: without it Evolve can place
// an atom that satisfies the cost model's nearest-distance bookkeeping
// while having no real neighbour within reach, an isolated outlier that a
// connected-structure search should never accept.
type MaxDistanceFilter struct {
	MaxDistance float64
}

func (f MaxDistanceFilter) Accept(s Structure, pos v3.Vec) bool {
	atoms := s.Atoms()
	if len(atoms) == 0 {
		return true
	}
	for _, a := range atoms {
		if a.Pos.Dist(pos) <= f.MaxDistance {
			return true
		}
	}
	return false
}
