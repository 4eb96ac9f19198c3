// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"runtime"
	"strings"

	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"

	"github.com/engthiago/xc-sub000/inp"
)

// Version of rcverif
const Version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number and the available procedures",
	Run: func(cmd *cobra.Command, args []string) {
		io.Pf("rcverif %s (%s %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		if verbose {
			conc, steel := inp.CatalogueIds()
			io.Pf("procedures: %s\n", strings.Join(inp.ProcedureNames(), ", "))
			io.Pf("concretes:  %s\n", strings.Join(conc, ", "))
			io.Pf("steels:     %s\n", strings.Join(steel, ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
