/*
 * constants.go, part of liga.
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

// eps_cost is the round-off floor below which a badness value snaps to
// exactly zero, preserving the invariant that an empty structure has zero
// badness.
const eps_cost = 1e-10

// eps_distance is the length tolerance used by the triangulation and filter
// degenerate-geometry checks, and when comparing reconstructed atom
// positions to reference sites in tests.
const eps_distance = 1e-6

// maxRelaxOuter and maxRelaxInner bound AtomRelax's Levenberg-Marquardt
// loop.
const (
	maxRelaxOuter = 20
	maxRelaxInner = 500
)
