/*
 * main.go, part of liga.
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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	liga "github.com/rmera/liga"
)

const version = "0.1.0"

var (
	parfile string
	verbose bool
	latpar  []float64
	params  = liga.DefaultParams()
)

var rootCmd = &cobra.Command{
	Use:     "liga [distfile]",
	Short:   "Reconstruct atomic coordinates from an interatomic distance table",
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runLiga,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&parfile, "parfile", "", "parameter file to read before applying flags")
	flags.BoolVarP(&verbose, "v", "v", false, "verbose progress output")

	flags.StringVar(&params.IniStru, "inistru", params.IniStru, "initial structure file (xyz) to resume from")
	flags.StringVar(&params.OutStru, "outstru", params.OutStru, "output structure file")
	flags.StringVar(&params.OutFmt, "outfmt", params.OutFmt, "output format: xyz, atomeye, rawxyz")
	flags.StringVar(&params.Snapshot, "snapshot", params.Snapshot, "snapshot file path")
	flags.IntVar(&params.SnapRate, "snaprate", params.SnapRate, "iterations between snapshot attempts")
	flags.StringVar(&params.Frames, "frames", params.Frames, "frames trajectory file path")
	flags.IntVar(&params.FramesRate, "framesrate", params.FramesRate, "iterations between frame writes")

	flags.Float64Var(&params.TolDD, "tol_dd", params.TolDD, "distance-resolution tolerance")
	flags.Float64Var(&params.TolBad, "tol_bad", params.TolBad, "normalised badness solved threshold")
	flags.Float64Var(&params.TolNBad, "tol_nbad", params.TolNBad, "normalised badness evolve-range scale")

	flags.Int64Var(&params.Seed, "seed", params.Seed, "random seed")
	flags.IntVar(&params.LogSize, "logsize", params.LogSize, "improvement-rate rolling log size")

	flags.Float64Var(&params.EprobMin, "eprob_min", params.EprobMin, "minimum evolve probability")
	flags.Float64Var(&params.EprobMax, "eprob_max", params.EprobMax, "maximum evolve probability")
	flags.Float64Var(&params.BustProb, "bustprob", params.BustProb, "bust-mode trigger probability")
	flags.Float64Var(&params.PromoteFrac, "promotefrac", params.PromoteFrac, "evolve cutoff-range fraction")
	flags.BoolVar(&params.PromoteRelax, "promoterelax", params.PromoteRelax, "relax worst atom on promotion")
	flags.BoolVar(&params.DemoteRelax, "demoterelax", params.DemoteRelax, "accepted but not read by the search; demotion relaxes the worst atom when promoterelax is set")
	flags.BoolVar(&params.PromoteJump, "promotejump", params.PromoteJump, "greedily repeat evolve while it keeps accepting")
	flags.Float64Var(&params.EvolveFrac, "evolve_frac", params.EvolveFrac, "accepted but not read by the search (lookout mode uses lookout_prob)")

	flags.StringVar(&params.Penalty, "penalty", params.Penalty, "pair cost penalty: pow2, fabs, well")

	flags.IntVar(&params.DistTrials, "dist_trials", params.DistTrials, "line anchor trial budget")
	flags.IntVar(&params.TriTrials, "tri_trials", params.TriTrials, "plane anchor trial budget")
	flags.IntVar(&params.PyrTrials, "pyr_trials", params.PyrTrials, "pyramid anchor trial budget")

	flags.BoolVar(&params.Crystal, "crystal", params.Crystal, "run in crystal (periodic) mode")
	flags.Float64SliceVar(&latpar, "latpar", nil, "crystal cell parameters: a b c alpha beta gamma (degrees)")
	flags.Float64Var(&params.Rmax, "rmax", params.Rmax, "crystal cutoff radius")
	flags.IntVar(&params.NDim, "ndim", params.NDim, "structure dimensionality (0,1,2,3)")

	flags.Float64Var(&params.LookoutProb, "lookout_prob", params.LookoutProb, "lookout-mode selection probability")
	flags.IntVar(&params.LigaSize, "ligasize", params.LigaSize, "per-division member capacity")
	flags.Float64Var(&params.MaxCPUTime, "maxcputime", params.MaxCPUTime, "wall-clock budget in seconds (0 = unbounded)")
}

func runLiga(cmd *cobra.Command, args []string) error {
	if parfile != "" {
		f, err := os.Open(parfile)
		if err != nil {
			return fmt.Errorf("liga: opening parfile: %w", err)
		}
		defer f.Close()
		if err := params.ParseParfile(f); err != nil {
			return err
		}
	}
	if len(args) == 1 {
		params.DistFile = args[0]
	}
	if len(latpar) == 6 {
		for i, v := range latpar {
			params.LatPar[i] = v
		}
	}
	if err := params.Validate(); err != nil {
		return err
	}

	result, err := liga.RunCLI(params, os.Stdout, verbose)
	if err != nil {
		return err
	}
	if !result.Solved {
		os.Exit(1)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
