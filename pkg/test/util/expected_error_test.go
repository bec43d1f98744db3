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
	"testing"

	"github.com/consensys/go-bounds/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ExpectedErrors(t *testing.T) {
	srcfile := source.NewSourceFile("test.lisp", []byte(";;error:3:2-5:unknown symbol \"abc\"\n;;error:3:6-9:a:b\n(abc def)\n"))
	//
	expected, err := ExpectedErrors(srcfile)
	//
	require.NoError(t, err)
	require.Len(t, expected, 2)
	assert.Equal(t, "unknown symbol \"abc\"", expected[0].Message())
	assert.Equal(t, "abc", srcfile.Text(expected[0].Span()))
	// Messages may themselves contain colons
	assert.Equal(t, "a:b", expected[1].Message())
	assert.Equal(t, "def", srcfile.Text(expected[1].Span()))
}

func Test_ExpectedErrors_HeaderOnly(t *testing.T) {
	srcfile := source.NewSourceFile("test.lisp", []byte(";;error:2:1-3:first\n(x)\n;;error:2:1-2:second\n"))
	//
	expected, err := ExpectedErrors(srcfile)
	//
	require.NoError(t, err)
	require.Len(t, expected, 1)
	assert.Equal(t, "first", expected[0].Message())
}

func Test_ExpectedErrors_Malformed(t *testing.T) {
	text := ";;error:0:1-2:zero line\n;;error:5:x-2:bad column\n;;error:5:3-2:backwards\n" +
		";;error:9:1-2:missing line\n;;error:6:1-10:overflow\n(x)\n"
	//
	expected, err := ExpectedErrors(source.NewSourceFile("test.lisp", []byte(text)))
	//
	assert.Empty(t, expected)
	require.Error(t, err)
	//
	for _, line := range []string{"test.lisp:1:", "test.lisp:2:", "test.lisp:3:", "test.lisp:4:", "test.lisp:5:"} {
		assert.Contains(t, err.Error(), line)
	}
}
