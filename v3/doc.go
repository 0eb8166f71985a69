/*
 * doc.go, part of liga.
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

// Package v3 provides a small 3-D vector type used throughout liga for
// atom positions, triangulation anchors and lattice geometry. Unlike a
// general NxM matrix it carries no allocation: a Vec is 3 float64s passed
// by value, which is what the search engine's inner loops need since they
// touch one atom pair at a time rather than whole trajectories.
package v3
