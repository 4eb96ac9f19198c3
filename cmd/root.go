// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package cmd implements the rcverif command line interface
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/engthiago/xc-sub000/inp"
)

// global flags
var (
	cfgPath  string
	logJSON  bool
	logLevel string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "rcverif",
	Short: "Limit-state verification of reinforced concrete sections",
	Long: `rcverif - limit-state verification of reinforced concrete sections

Solves the load combinations of a structural model, writes the internal
forces of each combination to a journal and checks every RC section of the
distribution against the ultimate normal stresses, ultimate shear and crack
control limit states.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Interrupts cancel the running command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	f := rootCmd.PersistentFlags()
	f.StringVarP(&cfgPath, "config", "c", "", "configuration file (YAML or JSON)")
	f.BoolVar(&logJSON, "log-json", false, "write structured records as JSON")
	f.StringVar(&logLevel, "log-level", "info", "minimum level of structured records: debug, info, warn or error")
	f.BoolVarP(&verbose, "verbose", "v", true, "show messages")
}

// newLogger returns the logger of a run with its session id
func newLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if logJSON {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(h).With("run", uuid.NewString())
}

// readConfig reads the configuration given by --config
func readConfig() (*inp.Config, error) {
	if cfgPath == "" {
		return nil, chk.Err("the --config flag is required")
	}
	cfg, err := inp.ReadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		io.Pf("> configuration %q: %s\n", cfgPath, cfg.Desc)
	}
	return cfg, nil
}
