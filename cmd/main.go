// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	limit          int
	showAnomalies  bool
	showDiag       bool
	showObjHeaders bool
	kinds          []string
	version        = "0.1.0"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "dwgdump",
		Short: "A DWG drawing file parser",
		Long:  "A DWG (AutoCAD binary drawing) parser covering R2000 through R2013, built for archival migration and recovery tooling.",
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("You are using version " + version)
		},
	}

	var dumpCmd = &cobra.Command{
		Use:   "dump [file...]",
		Short: "Dumps entities, headers and diagnostics from a DWG file",
		Args:  cobra.MinimumNArgs(1),
		Run:   runDump,
	}

	dumpCmd.Flags().IntVarP(&limit, "limit", "l", 0, "limit the number of records printed per kind (0 = all)")
	dumpCmd.Flags().BoolVar(&showAnomalies, "anomalies", false, "print non-fatal parse anomalies")
	dumpCmd.Flags().BoolVar(&showDiag, "diagnostics", false, "print section diagnostics (sizes, xxhash, compression ratio)")
	dumpCmd.Flags().BoolVar(&showObjHeaders, "object-headers", false, "print every object record's header row")
	dumpCmd.Flags().StringSliceVarP(&kinds, "kind", "k", nil, "entity kinds to dump (e.g. LINE,CIRCLE,LAYER); default is all")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(dumpCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
