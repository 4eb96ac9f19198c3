// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"

	"github.com/engthiago/xc-sub000/out"
	"github.com/engthiago/xc-sub000/verif"
)

// check flags
var (
	checkLimitStates []string
	checkWorkers     int
	checkStrict      bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the RC sections against the journals of the limit states",
	Long: `Reads the internal-force journal of each limit state, solves the phantom
model of every (element, section) pair for every combination and writes
the worst control variables of each pair.

Examples:
  rcverif check --config bridge.yaml
  rcverif check -c bridge.yaml --limit-state ULS_normal --limit-state SLS_crack`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	f := checkCmd.Flags()
	f.StringSliceVarP(&checkLimitStates, "limit-state", "l", nil, "limit states to check; all if not given")
	f.IntVarP(&checkWorkers, "workers", "w", 0, "maximum number of concurrent phantom models; overrides the configuration")
	f.BoolVar(&checkStrict, "strict", false, "exit with an error if any section is not verified")
}

func runCheck(cmd *cobra.Command, args []string) (err error) {
	cfg, err := readConfig()
	if err != nil {
		return
	}
	log := newLogger()
	metrics := out.NewMetrics()

	// run
	v := verif.NewVerifier(cfg, log)
	v.Recorder = metrics
	v.Verbose = verbose
	if checkWorkers > 0 {
		v.Workers = checkWorkers
	}
	start := time.Now()
	res, err := v.Run(cmd.Context(), checkLimitStates)
	if err != nil {
		return
	}
	log.Info("verification finished", "sections", len(res), "elapsed", time.Since(start).String())

	// results
	fn := cfg.OutPath(cfg.Results)
	if err = verif.WriteResults(fn, res); err != nil {
		return
	}
	sum := out.Aggregate(res)
	if err = sum.Write(cfg.OutPath("summary.json")); err != nil {
		return
	}
	if cfg.Metrics != "" {
		if err = metrics.WriteTextfile(cfg.OutPath(cfg.Metrics)); err != nil {
			return
		}
	}
	if verbose {
		io.Pf("\n%s\n", sum.Table())
		io.Pf("> results written to %q\n", fn)
		if sum.Passed {
			io.PfGreen("> all sections verified\n")
		} else {
			io.PfRed("> some sections are not verified\n")
		}
	}
	if checkStrict && !sum.Passed {
		return chk.Err("some sections are not verified; see %q", fn)
	}
	return
}
