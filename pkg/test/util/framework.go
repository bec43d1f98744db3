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
	"github.com/consensys/go-bounds/pkg/checkedc/target"
)

// TestDir determines the (relative) location of the test directory.  That is
// where the checked C test files (lisp) are found.
const TestDir = "../../testdata"

// GoldenDir determines the (relative) location of the golden files, which hold
// the expected output for each valid test.
const GoldenDir = "../../testdata/golden"

// LAYOUTS identifies the data layouts against which valid tests are checked
// by default.  Output is expected to be the same for every layout.
var LAYOUTS = []target.DataLayout{target.LP64, target.ILP32}
