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
package target

import (
	"testing"

	"github.com/consensys/go-bounds/pkg/checkedc/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DataLayout_Defaults(t *testing.T) {
	layout, err := ParseDataLayout([]byte("int: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), layout.Int)
	assert.Equal(t, LP64.Long, layout.Long)
	assert.Equal(t, LP64.Pointer, layout.Pointer)
}

func Test_DataLayout_Empty(t *testing.T) {
	layout, err := ParseDataLayout([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, LP64, layout)
}

func Test_DataLayout_ZeroSize(t *testing.T) {
	_, err := ParseDataLayout([]byte("short: 0\n"))
	assert.ErrorContains(t, err, "size of short cannot be zero")
}

func Test_DataLayout_UnknownKey(t *testing.T) {
	_, err := ParseDataLayout([]byte("float: 4\n"))
	assert.Error(t, err)
}

func Test_DataLayout_SizeOf(t *testing.T) {
	layout := LP64
	//
	checkSize(t, &layout, ast.CHAR_TYPE, 1)
	checkSize(t, &layout, ast.INT_TYPE, 4)
	checkSize(t, &layout, ast.SIZE_TYPE, 8)
	checkSize(t, &layout, ast.NewPointerType(ast.ARRAY, ast.INT_TYPE), 8)
	checkSize(t, &layout, ast.NewArrayType(ast.INT_TYPE, 5), 20)
	checkSize(t, &layout, ast.NewArrayType(ast.NewArrayType(ast.INT_TYPE, 5), 5), 100)
	//
	layout = ILP32
	checkSize(t, &layout, ast.LONG_TYPE, 4)
	checkSize(t, &layout, ast.NewPointerType(ast.UNCHECKED, ast.CHAR_TYPE), 4)
}

func Test_DataLayout_SizeOfVoid(t *testing.T) {
	_, err := LP64.SizeOf(ast.VOID_TYPE)
	assert.ErrorIs(t, err, ErrIncompleteType)
}

func Test_DataLayout_SizeOfOverflow(t *testing.T) {
	huge := ast.NewArrayType(ast.NewArrayType(ast.INT_TYPE, 1<<40), 1<<40)
	_, err := LP64.SizeOf(huge)
	assert.ErrorIs(t, err, ErrSizeOverflow)
}

func Test_DataLayout_Yaml(t *testing.T) {
	layout, err := ParseDataLayout([]byte(LP64.Yaml()))
	require.NoError(t, err)
	assert.Equal(t, LP64, layout)
}

func checkSize(t *testing.T, layout *DataLayout, datatype ast.Type, expected uint64) {
	t.Helper()
	//
	size, err := layout.SizeOf(datatype)
	require.NoError(t, err)
	assert.Equal(t, expected, size, datatype.String())
}
