/*
 * io_xyz.go, part of liga.
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
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	v3 "github.com/rmera/liga/v3"
)

// MoleculeFormat is the "BGA molecule format"/"LIGA molecule format" header
// token written and recognised by the Read/Write pair below.
type MoleculeFormat int

const (
	FormatGrid MoleculeFormat = iota
	FormatXYZ
	FormatAtomEye
)

func (f MoleculeFormat) String() string {
	switch f {
	case FormatGrid:
		return "grid"
	case FormatXYZ:
		return "xyz"
	case FormatAtomEye:
		return "atomeye"
	default:
		return "unknown"
	}
}

type xyzHeader struct {
	format    MoleculeFormat
	hasNAtoms bool
	nAtoms    int
}

// parseXYZHeader extracts the "LIGA molecule format = ..." (or legacy "BGA
// molecule format = ...") and "NAtoms = ..." tokens from a block of header
// lines, mirroring Molecule::ParseHeader's find-token-then-strip-":= "
// approach.
func parseXYZHeader(lines []string) xyzHeader {
	h := xyzHeader{format: FormatXYZ}
	for _, line := range lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "molecule format") {
			if v, ok := headerValue(line, "format"); ok {
				switch strings.ToLower(v) {
				case "grid":
					h.format = FormatGrid
				case "xyz":
					h.format = FormatXYZ
				case "atomeye":
					h.format = FormatAtomEye
				}
			}
		}
		if strings.Contains(lower, "natoms") {
			if v, ok := headerValue(line, "NAtoms"); ok {
				if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
					h.nAtoms = n
					h.hasNAtoms = true
				}
			}
		}
	}
	return h
}

// headerValue finds token in line and returns everything after the first
// run of ":= " that follows it, trimmed.
func headerValue(line, token string) (string, bool) {
	idx := strings.Index(strings.ToLower(line), strings.ToLower(token))
	if idx < 0 {
		return "", false
	}
	rest := line[idx+len(token):]
	rest = strings.TrimLeft(rest, ":= \t")
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", false
	}
	return rest, true
}

// ReadXYZ reads the plain-coordinate structure format: a header of
// non-numeric lines (optionally naming the format and atom count) followed
// by NAtoms*3 whitespace-separated cartesian values, mirrored from
// Molecule::ReadGrid/ReadXYZ (BGAlib.cpp): read_header, read_data, cross
// check vec.size()/3 against any declared NAtoms, Clear, then re-Add every
// triple as a LINEAR-tagged atom (the triangulation type is not recoverable
// from the file and is not used again once a structure is fully loaded).
func ReadXYZ(s Structure, r io.Reader) error {
	sc := bufio.NewScanner(r)
	var header, body []string
	inHeader := true
	for sc.Scan() {
		line := sc.Text()
		if inHeader {
			fields := strings.Fields(line)
			if len(fields) > 0 {
				if _, err := strconv.ParseFloat(fields[0], 64); err == nil {
					inHeader = false
				}
			}
			if inHeader {
				header = append(header, line)
				continue
			}
		}
		body = append(body, line)
	}
	if err := sc.Err(); err != nil {
		return newError(IOError, "ReadXYZ", "%v", err)
	}
	h := parseXYZHeader(header)

	var vals []float64
	for _, line := range body {
		for _, tok := range strings.Fields(line) {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return newError(IOError, "ReadXYZ", "malformed coordinate token %q", tok)
			}
			vals = append(vals, v)
		}
	}
	if len(vals)%3 != 0 {
		return newError(IOError, "ReadXYZ", "coordinate count %d is not a multiple of 3", len(vals))
	}
	n := len(vals) / 3
	if h.hasNAtoms && h.nAtoms != n {
		return newError(IOError, "ReadXYZ", "header declares NAtoms = %d but found %d coordinate triples", h.nAtoms, n)
	}

	s.Clear()
	for i := 0; i < n; i++ {
		pos := v3.New(vals[3*i], vals[3*i+1], vals[3*i+2])
		if err := s.Add(pos, LINEAR); err != nil {
			return err
		}
	}
	return nil
}

// WriteGrid and WriteXYZ both write the plain-coordinate format; they exist
// as separate entry points (rather than one WriteFormat call) because the
// source keeps WriteGrid/WriteXYZ/WriteAtomEye as distinct methods that
// differ only in their header's format token and, for AtomEye, their body.
func WriteGrid(s Structure, w io.Writer) error { return writePlain(s, w, FormatGrid) }
func WriteXYZ(s Structure, w io.Writer) error  { return writePlain(s, w, FormatXYZ) }

func writePlain(s Structure, w io.Writer, format MoleculeFormat) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# LIGA molecule format = %s\n", format)
	fmt.Fprintf(bw, "# NAtoms = %d\n", s.Len())
	for _, a := range s.Atoms() {
		fmt.Fprintf(bw, "%g\t%g\t%g\n", a.Pos.X, a.Pos.Y, a.Pos.Z)
	}
	return bw.Flush()
}

// WriteRawXYZ writes coordinates only, with no header at all, alongside the
// headered xyz/grid/atomeye formats, for piping into tools that expect bare
// whitespace-separated triples.
func WriteRawXYZ(s Structure, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, a := range s.Atoms() {
		fmt.Fprintf(bw, "%g\t%g\t%g\n", a.Pos.X, a.Pos.Y, a.Pos.Z)
	}
	return bw.Flush()
}

// WriteAtomEye writes the AtomEye extended-XYZ visualisation format,
// mirroring operator<<'s ATOMEYE branch in BGAlib.cpp: a bounding box built
// from +-maxDistance and each axis' atom-position extremes scaled by 1%
// margin, a single hardcoded carbon species (this search engine carries no
// per-atom element identity), fractional coordinates, and the atom's
// badness as the sole auxiliary field.
func WriteAtomEye(s Structure, w io.Writer, maxDistance float64) error {
	atoms := s.Atoms()
	if len(atoms) == 0 {
		return newError(IOError, "WriteAtomEye", "cannot write an empty structure")
	}

	lo := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, a := range atoms {
		p := [3]float64{a.Pos.X, a.Pos.Y, a.Pos.Z}
		for k := 0; k < 3; k++ {
			if p[k] < lo[k] {
				lo[k] = p[k]
			}
			if p[k] > hi[k] {
				hi[k] = p[k]
			}
		}
	}
	extremes := []float64{maxDistance, -maxDistance}
	for k := 0; k < 3; k++ {
		extremes = append(extremes, lo[k]*1.01, hi[k]*1.01)
	}
	xyzLo, xyzHi := extremes[0], extremes[0]
	for _, v := range extremes {
		if v < xyzLo {
			xyzLo = v
		}
		if v > xyzHi {
			xyzHi = v
		}
	}
	xyzRange := xyzHi - xyzLo
	if xyzRange <= 0 {
		xyzRange = 1
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Number of particles = %d\n", len(atoms))
	fmt.Fprintf(bw, "H0(1,1) = %g A\n", xyzRange)
	fmt.Fprintf(bw, "H0(1,2) = 0 A\n")
	fmt.Fprintf(bw, "H0(1,3) = 0 A\n")
	fmt.Fprintf(bw, "H0(2,1) = 0 A\n")
	fmt.Fprintf(bw, "H0(2,2) = %g A\n", xyzRange)
	fmt.Fprintf(bw, "H0(2,3) = 0 A\n")
	fmt.Fprintf(bw, "H0(3,1) = 0 A\n")
	fmt.Fprintf(bw, "H0(3,2) = 0 A\n")
	fmt.Fprintf(bw, "H0(3,3) = %g A\n", xyzRange)
	fmt.Fprintf(bw, ".NO_VELOCITY.\n")
	fmt.Fprintf(bw, "entry_count = 4\n")
	fmt.Fprintf(bw, "auxiliary[0] = abad [au]\n")
	fmt.Fprintf(bw, "12.0111\n")
	fmt.Fprintf(bw, "C\n")
	for _, a := range atoms {
		fx := (a.Pos.X - xyzLo) / xyzRange
		fy := (a.Pos.Y - xyzLo) / xyzRange
		fz := (a.Pos.Z - xyzLo) / xyzRange
		fmt.Fprintf(bw, "%g\t%g\t%g\t%g\n", fx, fy, fz, a.Badness)
	}
	return bw.Flush()
}
