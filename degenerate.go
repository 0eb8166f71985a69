/*
 * degenerate.go, part of liga.
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

// Degenerate removes npop free (non-fixed) atoms from s by
// cost-weighted sampling (weight = normalised badness, i.e. the atom's own
// Badness, the opposite of Evolve's reciprocal-cost fitness), optionally
// relaxing the remaining worst atom afterward ("demoterelax").
func Degenerate(s Structure, npop int, demoteRelax bool, tolDD float64, rnd *Rand) error {
	for k := 0; k < npop; k++ {
		atoms := s.Atoms()
		var freeIdx []int
		var weight []float64
		for i, a := range atoms {
			if a.Fixed {
				continue
			}
			freeIdx = append(freeIdx, i)
			weight = append(weight, a.Badness)
		}
		if len(freeIdx) == 0 {
			break
		}
		pick := rnd.weightedChoose(weight)
		if err := s.Pop(freeIdx[pick]); err != nil {
			return err
		}
	}
	if demoteRelax {
		relaxWorstAtom(s, tolDD)
	}
	return nil
}
