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

	"github.com/consensys/go-bounds/pkg/checkedc/ast"
	"github.com/consensys/go-bounds/pkg/checkedc/target"
	"github.com/consensys/go-bounds/pkg/util/termio"
	"github.com/spf13/cobra"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [flags]",
	Short: "print the data layout used for computing type sizes.",
	Long: `Print the size (in bytes) of each primitive type under the effective data layout.
This is the default LP64 layout, unless a layout file is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		layout := getDataLayout(cmd)
		//
		if GetFlag(cmd, "yaml") {
			fmt.Print(layout.Yaml())
		} else if err := writeLayoutTable(layout); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	},
}

// Types whose sizes are reported, in order.
var layoutTypes = []ast.Type{
	ast.CHAR_TYPE,
	&ast.ScalarType{Kind: ast.SHORT},
	ast.INT_TYPE,
	ast.LONG_TYPE,
	&ast.ScalarType{Kind: ast.LONGLONG},
	ast.NewPointerType(ast.ARRAY, ast.VOID_TYPE),
}

func writeLayoutTable(layout target.DataLayout) error {
	var (
		table  = termio.NewTablePrinter(2)
		header = termio.NewAnsiEscape().Bold()
	)
	//
	table.AnsiEscapes(termio.IsTerminal())
	table.AddRow("type", "bytes")
	table.SetEscape(0, 0, header)
	table.SetEscape(1, 0, header)
	//
	for _, t := range layoutTypes {
		size, err := layout.SizeOf(t)
		//
		if err != nil {
			return err
		}
		//
		table.AddRow(t.String(), fmt.Sprintf("%d", size))
	}
	//
	return table.Print(os.Stdout)
}

func init() {
	layoutCmd.Flags().Bool("yaml", false, "print layout in YAML form")
	rootCmd.AddCommand(layoutCmd)
}
