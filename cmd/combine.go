// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"

	"github.com/engthiago/xc-sub000/comb"
	"github.com/engthiago/xc-sub000/out"
)

// combine flags
var (
	combineNames   []string
	combineStore   string
	combineJournal string
	combineElems   []int
)

var combineCmd = &cobra.Command{
	Use:   "combine",
	Short: "Solve the load combinations of the model and write the journals",
	Long: `Solves the combinations of the primary model described in the configuration.
Each combination starts from the saved state of its closest ancestor. The
internal forces are written to the journal of every limit state listing the
combination; limit states listing none receive all combinations.

Examples:
  rcverif combine --config bridge.yaml
  rcverif combine -c bridge.yaml --store /tmp/bridge-ckpt --journal all.json`,
	RunE: runCombine,
}

func init() {
	rootCmd.AddCommand(combineCmd)
	f := combineCmd.Flags()
	f.StringSliceVar(&combineNames, "comb", nil, "combinations to solve; all if not given")
	f.StringVar(&combineStore, "store", "", "directory of the checkpoint database; in memory if not given")
	f.StringVar(&combineJournal, "journal", "", "also write the journal of all solved combinations to this file")
	f.IntSliceVar(&combineElems, "elems", nil, "elements whose forces are recorded; all if not given")
}

func runCombine(cmd *cobra.Command, args []string) (err error) {
	cfg, err := readConfig()
	if err != nil {
		return
	}
	if cfg.Model == nil {
		return chk.Err("configuration %q has no model to combine", cfgPath)
	}
	log := newLogger()
	metrics := out.NewMetrics()

	// model
	d, err := comb.BuildModel(cfg)
	if err != nil {
		return
	}
	proc, err := comb.Procedure(cfg)
	if err != nil {
		return
	}
	set, err := comb.NewSet(cfg.Model.Combinations)
	if err != nil {
		return
	}

	// driver
	store, err := comb.OpenStore(comb.StoreConfig{
		Path:     combineStore,
		InMemory: combineStore == "",
		Encoder:  cfg.Model.Encoder,
		Logger:   log,
	})
	if err != nil {
		return
	}
	defer store.Close()
	drv, err := comb.NewDriver(d, proc, set, comb.DriverConfig{Store: store, Logger: log, Elems: combineElems, Verbose: verbose})
	if err != nil {
		return
	}
	defer drv.Close()
	log.Info("combination loop started", "session", store.Session().String(), "procedure", proc.Name)

	// loop
	nits := 0
	start := time.Now()
	if err = drv.Start(combineNames); err != nil {
		return
	}
	for drv.Next(cmd.Context()) {
		s := drv.State
		nits += s.Nits
		if verbose {
			from := "virgin state"
			if s.Restored != "" {
				from = io.Sf("%s (+%d -%d terms)", s.Restored, s.Added, s.Dropped)
			}
			io.Pf("> %-16s from %-32s %3d iterations %v\n", s.Comb.Name, from, s.Nits, s.Elapsed)
		}
	}
	if err = drv.Err(); err != nil {
		return
	}
	metrics.Combinations(drv.Nsolved, drv.Nrestored, drv.Nscratch, nits)
	saves, restores := store.Stats()
	log.Info("combination loop finished", "solved", drv.Nsolved, "restored", drv.Nrestored,
		"fallbacks", drv.Nscratch, "saves", saves, "restores", restores, "elapsed", time.Since(start).String())

	// journals
	j := drv.Journal
	if combineJournal != "" {
		if err = j.Write(cfg.Path(combineJournal)); err != nil {
			return
		}
	}
	for _, ls := range cfg.LimitStates {
		sub := j
		if len(ls.Combinations) > 0 {
			sub = make(comb.Journal)
			for _, name := range ls.Combinations {
				fs, ok := j[name]
				if !ok {
					log.Warn("combination of limit state not solved", "limitState", ls.Name, "comb", name)
					continue
				}
				sub[name] = fs
			}
		}
		fn := cfg.Path(ls.Journal)
		if err = sub.Write(fn); err != nil {
			return
		}
		if verbose {
			io.Pf("> journal of %q: %d combinations written to %q\n", ls.Name, len(sub), fn)
		}
	}
	if cfg.Metrics != "" {
		err = metrics.WriteTextfile(cfg.OutPath(cfg.Metrics))
	}
	return
}
