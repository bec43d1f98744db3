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
package bounds_test

import (
	"bytes"
	"testing"

	"github.com/consensys/go-bounds/pkg/checkedc/bounds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Dump_Functions(t *testing.T) {
	sites := resolveValid(t, `(defun f ((a (ptr int) (count 5)) (b (ptr int) (count 5))) void (= a b) (= b a))
(defun g () void (var d (ptr int) (count 5) 0))`)
	//
	expected := `;; f
(= a (read b))
Target Bounds:
(bounds (read a) (+ (read a) 5))
RHS Bounds:
(bounds (read b) (+ (read b) 5))
(= b (read a))
Target Bounds:
(bounds (read b) (+ (read b) 5))
RHS Bounds:
(bounds (read a) (+ (read a) 5))
;; g
(var d (ptr int) (count 5) (null 0))
Declared Bounds:
(bounds (read d) (+ (read d) 5))
Initializer Bounds:
any
`
	checkDump(t, sites, 130, expected)
}

func Test_Dump_Invalid(t *testing.T) {
	unit, errs := compile(t, "(defun f ((a (ptr int) (count 5))) void (= a (cast (ptr int) 5)))")
	require.Len(t, errs, 1)
	//
	expected := `;; f
(= a (cast (ptr int) 5))
Target Bounds:
(bounds (read a) (+ (read a) 5))
RHS Bounds:
invalid
`
	checkDump(t, unit.Sites, 130, expected)
}

func Test_Dump_Narrow(t *testing.T) {
	sites := resolveValid(t, "(defun g () void (var d (ptr int) (count 5) 0))")
	//
	expected := `;; g
(var d
  (ptr int)
  (count 5)
  (null 0))
Declared Bounds:
(bounds
  (read d)
  (+ (read d) 5))
Initializer Bounds:
any
`
	checkDump(t, sites, 20, expected)
}

func Test_Dump_Empty(t *testing.T) {
	checkDump(t, nil, 130, "")
}

func checkDump(t *testing.T, sites []*bounds.Site, width uint, expected string) {
	t.Helper()
	//
	var buf bytes.Buffer
	//
	require.NoError(t, bounds.Dump(&buf, sites, width))
	assert.Equal(t, expected, buf.String())
}
