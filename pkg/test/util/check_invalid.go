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
package util

import (
	"fmt"
	"os"
	"testing"

	"github.com/consensys/go-bounds/pkg/checkedc/target"
	"github.com/consensys/go-bounds/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ErrorCompiler compiles a source file under a given data layout, producing
// zero or more errors.
type ErrorCompiler func(source.File, target.DataLayout) []source.SyntaxError

// CheckInvalid checks that a given source file fails to compile under every
// default data layout, producing exactly the errors declared at the start of
// the file.
func CheckInvalid(t *testing.T, test, ext string, compiler ErrorCompiler) {
	var filename = fmt.Sprintf("%s/%s.%s", TestDir, test, ext)
	// Enable testing each file in parallel
	t.Parallel()
	//
	srcfile := readSourceFile(t, filename)
	expected, err := ExpectedErrors(srcfile)
	// Report malformed declarations themselves.
	require.NoError(t, err)
	require.NotEmpty(t, expected, "%s declares no expected errors", filename)
	//
	for _, layout := range LAYOUTS {
		actual := compiler(*srcfile, layout)
		// Errors are compared by span and message, in the order reported.
		assert.Equal(t, errorsToStrings(expected), errorsToStrings(actual), "%s (pointer size %d)", filename,
			layout.Pointer)
	}
}

func readSourceFile(t *testing.T, filename string) *source.File {
	bytes, err := os.ReadFile(filename)
	require.NoError(t, err)
	//
	return source.NewSourceFile(filename, bytes)
}

func errorsToStrings(errs []source.SyntaxError) []string {
	strs := make([]string, len(errs))
	//
	for i := range errs {
		strs[i] = errorToString(&errs[i])
	}
	//
	return strs
}

// Render an error in the same form used to declare it.  Spans crossing onto
// following lines render with an end column beyond their first line.
func errorToString(err *source.SyntaxError) string {
	var (
		span   = err.Span()
		line   = err.FirstEnclosingLine()
		offset = span.Start() - line.Start()
	)
	//
	return fmt.Sprintf(";;error:%d:%d-%d:%s", line.Number(), 1+offset, 1+offset+span.Length(), err.Message())
}
