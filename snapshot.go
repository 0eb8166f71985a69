/*
 * snapshot.go, part of liga.
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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// SnapshotWriter writes periodic snapshot files at a configurable
// iteration cadence, gated by monotone improvement (a larger
// atom count, or the same atom count with lower normalised badness, than
// any prior snapshot this writer has produced). A path ending in ".gz" is
// transparently gzip-compressed.
type SnapshotWriter struct {
	path string
	rate int

	bestLen     int
	bestNBad    float64
	wroteAny    bool
}

// NewSnapshotWriter builds a writer for path, firing every rate iterations
// at minimum (rate <= 0 disables it entirely).
func NewSnapshotWriter(path string, rate int) *SnapshotWriter {
	return &SnapshotWriter{path: path, rate: rate}
}

func (sw *SnapshotWriter) enabled() bool { return sw.path != "" && sw.rate > 0 }

// improved reports whether s is a monotone improvement over the best this
// writer has seen: strictly more atoms, or the same atom count with a
// strictly lower normalised badness.
func (sw *SnapshotWriter) improved(s Structure) bool {
	if !sw.wroteAny {
		return true
	}
	if s.Len() > sw.bestLen {
		return true
	}
	return s.Len() == sw.bestLen && s.NormalizedCost() < sw.bestNBad
}

// MaybeWrite writes a snapshot of s if iteration is a multiple of rate and
// s is a monotone improvement over every prior snapshot written.
func (sw *SnapshotWriter) MaybeWrite(s Structure, iteration int) error {
	if !sw.enabled() || sw.rate <= 0 || iteration%sw.rate != 0 {
		return nil
	}
	if !sw.improved(s) {
		return nil
	}
	if err := writeStructureFile(sw.path, s, "xyz"); err != nil {
		return err
	}
	sw.bestLen = s.Len()
	sw.bestNBad = s.NormalizedCost()
	sw.wroteAny = true
	return nil
}

// FramesWriter appends every rate-th iteration to a single running
// trajectory file, independent of whether it
// improves on anything (unlike SnapshotWriter, which keeps only the best).
type FramesWriter struct {
	path string
	rate int
	f    *os.File
	gz   *gzip.Writer
}

// NewFramesWriter builds a frames writer. Call Close when the run ends.
func NewFramesWriter(path string, rate int) *FramesWriter {
	return &FramesWriter{path: path, rate: rate}
}

func (fw *FramesWriter) enabled() bool { return fw.path != "" && fw.rate > 0 }

func (fw *FramesWriter) open() error {
	if fw.f != nil {
		return nil
	}
	f, err := os.Create(fw.path)
	if err != nil {
		return newError(IOError, "FramesWriter.open", "%v", err)
	}
	fw.f = f
	if strings.HasSuffix(fw.path, ".gz") {
		fw.gz = gzip.NewWriter(f)
	}
	return nil
}

func (fw *FramesWriter) writer() io.Writer {
	if fw.gz != nil {
		return fw.gz
	}
	return fw.f
}

// MaybeWrite appends a frame if iteration is a multiple of rate.
func (fw *FramesWriter) MaybeWrite(s Structure, iteration int) error {
	if !fw.enabled() || iteration%fw.rate != 0 {
		return nil
	}
	if err := fw.open(); err != nil {
		return err
	}
	fmt.Fprintf(fw.writer(), "# iteration %d\n", iteration)
	return WriteXYZ(s, fw.writer())
}

// Close flushes and closes any open file.
func (fw *FramesWriter) Close() error {
	if fw.gz != nil {
		if err := fw.gz.Close(); err != nil {
			return err
		}
	}
	if fw.f != nil {
		return fw.f.Close()
	}
	return nil
}

// writeStructureFile writes s to path in the given format (xyz, atomeye,
// rawxyz), gzip-compressing if path ends in ".gz".
func writeStructureFile(path string, s Structure, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return newError(IOError, "writeStructureFile", "%v", err)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}

	var writeErr error
	switch format {
	case "atomeye":
		writeErr = WriteAtomEye(s, w, s.WorkingTable().MaxDistance())
	case "rawxyz":
		writeErr = WriteRawXYZ(s, w)
	default:
		writeErr = WriteXYZ(s, w)
	}

	if gz != nil {
		if closeErr := gz.Close(); closeErr != nil && writeErr == nil {
			writeErr = closeErr
		}
	}
	return writeErr
}
