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
	"path/filepath"
	"strings"
	"testing"

	"github.com/consensys/go-bounds/pkg/checkedc/target"
	"github.com/consensys/go-bounds/pkg/util/source"
	"github.com/sebdah/goldie/v2"
)

// OutputCompiler compiles a source file under a given data layout, producing
// either some textual output or one or more errors.
type OutputCompiler func(source.File, target.DataLayout) ([]byte, []source.SyntaxError)

// CheckValid checks that a given source file compiles without errors under
// every default data layout, and that its output matches the golden file of
// the same name.
func CheckValid(t *testing.T, test, ext string, compiler OutputCompiler) {
	CheckValidWithLayouts(t, test, ext, compiler, LAYOUTS...)
}

// CheckValidWithLayouts checks that a given source file compiles without
// errors under all of the given data layouts, and that its output matches the
// golden file of the same name in each case.
func CheckValidWithLayouts(t *testing.T, test, ext string, compiler OutputCompiler, layouts ...target.DataLayout) {
	var filename = fmt.Sprintf("%s/%s.%s", TestDir, test, ext)
	// Sanity check
	if len(layouts) == 0 {
		panic("no data layouts")
	}
	// Enable testing each file in parallel
	t.Parallel()
	//
	srcfile := readSourceFile(t, filename)
	//
	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	//
	for _, layout := range layouts {
		output, errs := compiler(*srcfile, layout)
		// Check program did compile!
		if len(errs) > 0 {
			t.Fatalf("%s should have compiled\n%s", filename, strings.Join(errorsToStrings(errs), "\n"))
		}
		//
		g.Assert(t, filepath.Base(test), output)
	}
}
