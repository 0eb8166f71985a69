/*
 * io_distances.go, part of liga.
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
	"io"
	"strconv"
	"strings"
)

// ReadDistances reads a text distance table: a header of
// non-numeric lines (ignored, but scanned for the PWA auto-detect key) is
// followed by whitespace-separated positive doubles running to EOF, mirrored
// from the source's read_header/read_data pair (BGAlib.cpp) — skip every
// line that does not parse as a leading number, then read every remaining
// token as a float.
//
// If any header line contains the key "resolution" (case-insensitive), the
// body is parsed as the two-column PWA format instead: distance value,
// multiplicity count, one pair per line, expanded into `count` repeated
// distance entries (DistanceTable.hpp's readPWAFormat).
func ReadDistances(r io.Reader) ([]float64, error) {
	sc := bufio.NewScanner(r)
	var headerLines []string
	var bodyLines []string
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
				headerLines = append(headerLines, line)
				continue
			}
		}
		bodyLines = append(bodyLines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, newError(IOError, "ReadDistances", "%v", err)
	}

	pwa := false
	for _, h := range headerLines {
		if strings.Contains(strings.ToLower(h), "resolution") {
			pwa = true
			break
		}
	}

	if pwa {
		return parsePWA(bodyLines)
	}
	return parseSimple(bodyLines)
}

func parseSimple(lines []string) ([]float64, error) {
	var out []float64
	for _, line := range lines {
		for _, tok := range strings.Fields(line) {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, newError(IOError, "parseSimple", "malformed distance token %q", tok)
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func parsePWA(lines []string) ([]float64, error) {
	var out []float64
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, newError(IOError, "parsePWA", "expected 'distance count' pair, got %q", line)
		}
		d, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, newError(IOError, "parsePWA", "malformed distance %q", fields[0])
		}
		count, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, newError(IOError, "parsePWA", "malformed multiplicity %q", fields[1])
		}
		for i := 0; i < count; i++ {
			out = append(out, d)
		}
	}
	return out, nil
}
