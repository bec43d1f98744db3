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
package test

import (
	"bytes"
	"testing"

	"github.com/consensys/go-bounds/pkg/checkedc/bounds"
	"github.com/consensys/go-bounds/pkg/checkedc/compiler"
	"github.com/consensys/go-bounds/pkg/checkedc/target"
	"github.com/consensys/go-bounds/pkg/test/util"
	"github.com/consensys/go-bounds/pkg/util/source"
)

// Width used when dumping inferred bounds.
const dumpWidth = 130

func Test_Valid_Basic(t *testing.T) {
	checkValid(t, "valid/basic")
}

func Test_Valid_Contracts(t *testing.T) {
	checkValid(t, "valid/contracts")
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkValid(t *testing.T, test string) {
	util.CheckValid(t, test, "lisp", dumpBounds)
}

func dumpBounds(srcfile source.File, layout target.DataLayout) ([]byte, []source.SyntaxError) {
	var buf bytes.Buffer
	//
	unit, errs := compiler.NewCompiler(layout).CompileUnit(&srcfile)
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	if err := bounds.Dump(&buf, unit.Sites, dumpWidth); err != nil {
		panic(err)
	}
	//
	return buf.Bytes(), nil
}
