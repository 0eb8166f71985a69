/*
 * runcli.go, part of liga.
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
	"math"
	"os"
	"time"
)

// RunResult is what RunCLI reports back to the command-line entry point.
type RunResult struct {
	Solved     bool
	Iterations int
	Champion   Structure
}

// RunCLI wires every external-interface piece together: read the
// target distances (and, for crystal mode, the lattice), build the
// structure variant, drive a Liga to termination, and write the requested
// outputs. It is the glue the cmd/liga binary calls; the search engine
// itself lives in evolve.go/degenerate.go/division.go/scheduler.go.
func RunCLI(p Params, out io.Writer, verbose bool) (RunResult, error) {
	distances, maxAtoms, err := loadDistances(p)
	if err != nil {
		return RunResult{}, err
	}
	penalty := p.PenaltyKind()

	newEmpty, table, err := buildStructureFactory(p, distances, maxAtoms, penalty)
	if err != nil {
		return RunResult{}, err
	}

	rnd := NewRand(p.Seed)
	tri := NewTriangulator(rnd)

	var filters []Filter
	evolveParams := EvolveParams{
		Trials:      [numTriangulationTypes]int{p.DistTrials, p.TriTrials, p.PyrTrials},
		TolNBad:     p.TolNBad,
		TolDD:       p.TolDD,
		PromoteFrac: p.PromoteFrac,
		PromoteJump: p.PromoteJump,
		LookoutProb: p.LookoutProb,
		Filters:     filters,
		RelaxWorst:  p.PromoteRelax,
	}
	schedParams := SchedulerParams{
		EprobMin:   p.EprobMin,
		EprobMax:   p.EprobMax,
		BustProb:   p.BustProb,
		TolBad:     p.TolBad,
		TolNBad:    p.TolNBad,
		NDim:       p.NDim,
		LogSize:    p.LogSize,
		MaxCPUTime: p.MaxCPUDuration(),
		Evolve:     evolveParams,
		Table:      table,
		Tri:        tri,
	}

	lg := NewLiga(maxAtoms, p.LigaSize, schedParams, rnd, newEmpty)

	if p.IniStru != "" {
		if err := loadInitialStructure(lg, p.IniStru); err != nil {
			return RunResult{}, err
		}
	}

	snap := NewSnapshotWriter(p.Snapshot, p.SnapRate)
	frames := NewFramesWriter(p.Frames, p.FramesRate)
	defer frames.Close()

	deadline := time.Now().Add(schedParams.MaxCPUTime)
	started := 0
	for {
		solved := lg.RunIteration()
		started++
		if lg.Champion != nil {
			if err := snap.MaybeWrite(lg.Champion, started); err != nil {
				return RunResult{}, err
			}
			if err := frames.MaybeWrite(lg.Champion, started); err != nil {
				return RunResult{}, err
			}
		}
		if verbose && started%1000 == 0 {
			nbad := math.NaN()
			if lg.Champion != nil {
				nbad = lg.Champion.NormalizedCost()
			}
			fmt.Fprintf(out, "iteration %d: champion nbad=%g\n", started, nbad)
		}
		if solved {
			break
		}
		if schedParams.MaxCPUTime > 0 && time.Now().After(deadline) {
			break
		}
	}

	result := RunResult{Solved: lg.Solved, Iterations: started, Champion: lg.Champion}

	if p.OutStru != "" && lg.Champion != nil {
		if err := writeStructureFile(p.OutStru, lg.Champion, p.OutFmt); err != nil {
			return result, err
		}
	}
	return result, nil
}

func loadDistances(p Params) (distances []float64, maxAtoms int, err error) {
	f, err := os.Open(p.DistFile)
	if err != nil {
		return nil, 0, newError(IOError, "loadDistances", "%v", err)
	}
	defer f.Close()
	distances, err = ReadDistances(f)
	if err != nil {
		return nil, 0, err
	}
	if !p.Crystal {
		n, err := estNumAtomsOf(distances)
		if err != nil {
			return nil, 0, err
		}
		return distances, n, nil
	}
	// Crystal mode: the asymmetric-unit atom count is not recoverable from
	// a cropped radial distance table, so it must come from the initial
	// structure file.
	if p.IniStru == "" {
		return nil, 0, newError(ParseArgsError, "loadDistances", "crystal mode requires inistru to determine the asymmetric unit's atom count")
	}
	n, err := countXYZAtoms(p.IniStru)
	if err != nil {
		return nil, 0, err
	}
	return distances, n, nil
}

// estNumAtomsOf solves N(N-1)/2 = len(ds) via a throwaway DistanceTable,
// for loadDistances's molecule-mode atom-count inference.
func estNumAtomsOf(ds []float64) (int, error) {
	full, err := NewDistanceTable(ds)
	if err != nil {
		return 0, err
	}
	return full.EstNumAtoms()
}

func countXYZAtoms(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, newError(IOError, "countXYZAtoms", "%v", err)
	}
	defer f.Close()
	// maxAtoms is a generous ceiling, not a real constraint: this Molecule
	// only exists to run ReadXYZ's Clear/Add loop far enough to count atoms.
	probe, err := NewMolecule([]float64{1}, 1<<20, PenaltyPow2, 1)
	if err != nil {
		return 0, err
	}
	if err := ReadXYZ(probe, f); err != nil {
		return 0, err
	}
	return probe.Len(), nil
}

func buildStructureFactory(p Params, distances []float64, maxAtoms int, penalty Penalty) (func() Structure, *DistanceTable, error) {
	if !p.Crystal {
		table, err := NewDistanceTable(distances)
		if err != nil {
			return nil, nil, err
		}
		newEmpty := func() Structure {
			m, _ := NewMolecule(distances, maxAtoms, penalty, p.TolDD)
			return m
		}
		return newEmpty, table, nil
	}

	deg := func(d float64) float64 { return d * math.Pi / 180 }
	lat := NewLattice(p.LatPar[0], p.LatPar[1], p.LatPar[2], deg(p.LatPar[3]), deg(p.LatPar[4]), deg(p.LatPar[5]))
	table, err := NewDistanceTable(cropToRmax(distances, p.Rmax))
	if err != nil {
		return nil, nil, err
	}
	newEmpty := func() Structure {
		c, _ := NewCrystal(lat, table.AsSlice(), maxAtoms, penalty, p.TolDD, p.Rmax)
		return c
	}
	return newEmpty, table, nil
}

func cropToRmax(ds []float64, rmax float64) []float64 {
	out := make([]float64, 0, len(ds))
	for _, d := range ds {
		if d <= rmax {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return ds
	}
	return out
}

func loadInitialStructure(lg *Liga, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return newError(IOError, "loadInitialStructure", "%v", err)
	}
	defer f.Close()
	if len(lg.Divisions) == 0 || len(lg.Divisions[0].Members) == 0 {
		return newError(InvalidMolecule, "loadInitialStructure", "liga has no seed structure to populate")
	}
	seed := lg.Divisions[0].Members[0]
	if err := ReadXYZ(seed, f); err != nil {
		return err
	}
	lg.Divisions[0].Members = nil
	lvl := seed.Len()
	if lvl >= len(lg.Divisions) {
		return newError(InvalidMolecule, "loadInitialStructure", "initial structure has %d atoms, beyond max_atom_count", lvl)
	}
	lg.Divisions[lvl].Members = append(lg.Divisions[lvl].Members, seed)
	return nil
}
