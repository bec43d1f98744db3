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
	"strings"

	"github.com/consensys/go-bounds/pkg/checkedc/target"
	"github.com/consensys/go-bounds/pkg/util/source"
	"github.com/consensys/go-bounds/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetString gets an expected string flag, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetUint gets an expected unsigned int flag, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// Determine the data layout to use, which is either read from the file given
// by the "layout" flag or, if none, the default LP64 layout.
func getDataLayout(cmd *cobra.Command) target.DataLayout {
	filename := GetString(cmd, "layout")
	//
	if filename == "" {
		return target.LP64
	}
	//
	log.Debugf("reading data layout %s", filename)
	//
	layout, err := target.ReadDataLayout(filename)
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return layout
}

// Determine the width to use when formatting text.  If the "textwidth" flag is
// zero, the width of the terminal is used.
func getTextWidth(cmd *cobra.Command) uint {
	if width := GetUint(cmd, "textwidth"); width != 0 {
		return width
	}
	//
	return termio.TerminalWidth()
}

// Read a given set of source files, reporting any failure and exiting.
func readSourceFiles(filenames []string) []*source.File {
	for _, n := range filenames {
		log.Debugf("including source file %s", n)
	}
	//
	files, err := source.ReadFiles(filenames...)
	// Sanity check for errors
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	srcfiles := make([]*source.File, len(files))
	//
	for i := range files {
		srcfiles[i] = &files[i]
	}
	//
	return srcfiles
}

// Print a syntax error with appropriate highlighting.  When colour is enabled,
// the message and the highlighted portion of the line are shown in red.
func printSyntaxError(err *source.SyntaxError, colour bool) {
	var (
		red        = termio.NewAnsiEscape().Bold().FgColour(termio.TERM_RED)
		span       = err.Span()
		line       = err.FirstEnclosingLine()
		lineOffset = span.Start() - line.Start()
		// Calculate length (ensures don't overflow line)
		length = max(0, min(line.Length()-lineOffset, span.Length()))
	)
	// Print error + line number
	fmt.Printf("%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, red.Wrap(err.Message(), colour))
	// Print separator line
	fmt.Println()
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", max(0, lineOffset)))
	// Print highlight
	fmt.Println(red.Wrap(strings.Repeat("^", length), colour))
}
