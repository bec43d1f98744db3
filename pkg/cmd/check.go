// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-bounds/pkg/checkedc/bounds"
	"github.com/consensys/go-bounds/pkg/checkedc/compiler"
	"github.com/consensys/go-bounds/pkg/util"
	"github.com/consensys/go-bounds/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] file1.lisp file2.lisp ...",
	Short: "check array pointer bounds in one or more source files.",
	Long: `Compile a given set of source file(s), inferring bounds for every value written
into an array pointer.  Any such write whose bounds cannot be determined is reported
as an error.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			dump   = GetFlag(cmd, "dump-inferred-bounds")
			colour = !GetFlag(cmd, "no-colour") && termio.IsTerminal()
			layout = getDataLayout(cmd)
			stats  = util.NewPerfStats()
		)
		// Compile source files
		units, errors := compiler.NewCompiler(layout).Compile(readSourceFiles(args)...)
		//
		stats.Log("Checking source files")
		logSiteSummary(units)
		// Dump inferred bounds (if requested)
		if dump {
			writeInferredBounds(units, getTextWidth(cmd))
		}
		// Check for errors
		if len(errors) != 0 {
			// Report errors
			for _, err := range errors {
				printSyntaxError(&err, colour)
			}
			// Fail
			os.Exit(4)
		}
	},
}

// Log (at debug level) how many writes into array pointers were found in each
// unit, and how many of those have no provable bounds.
func logSiteSummary(units []*compiler.Unit) {
	for _, unit := range units {
		if unit == nil {
			continue
		}
		//
		missing := 0
		//
		for _, site := range unit.Sites {
			if !site.IsValid() {
				missing++
			}
		}
		//
		log.Debugf("%s: %d site(s), %d without bounds", unit.File.Filename(), len(unit.Sites), missing)
	}
}

// Write the bounds inferred for every site in every successfully compiled unit.
func writeInferredBounds(units []*compiler.Unit, width uint) {
	for _, unit := range units {
		// Skip units which failed to compile
		if unit == nil {
			continue
		}
		//
		if err := bounds.Dump(os.Stdout, unit.Sites, width); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	}
}

func init() {
	checkCmd.Flags().Bool("dump-inferred-bounds", false, "print the bounds inferred for each write into an array pointer")
	checkCmd.Flags().Bool("no-colour", false, "disable coloured output")
	checkCmd.Flags().Uint("textwidth", 0, "maximum width of dumped bounds (default terminal width)")
	rootCmd.AddCommand(checkCmd)
}
