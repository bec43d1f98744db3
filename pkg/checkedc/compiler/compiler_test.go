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
package compiler

import (
	"testing"

	"github.com/consensys/go-bounds/pkg/checkedc/ast"
	"github.com/consensys/go-bounds/pkg/checkedc/target"
	"github.com/consensys/go-bounds/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===================================================================
// Parsing
// ===================================================================

func Test_Parse_Function(t *testing.T) {
	program := checkParse(t, "(defun f ((a (ptr int) (count 5)) (n int)) void (var x int) (= a 0))")
	//
	require.Len(t, program.Functions, 1)
	//
	fn := program.Functions[0]
	assert.Equal(t, "(defun f ((a (ptr int) (count 5)) (n int)) void (var x int) (= a 0))", fn.Lisp().String(false))
	assert.Equal(t, ast.PARAMETER, fn.Params[0].Kind)
	assert.True(t, fn.Params[0].HasBounds())
	assert.False(t, fn.Params[1].HasBounds())
	assert.Same(t, fn.Params[1], fn.Parameter("n"))
	assert.Nil(t, fn.Parameter("x"))
}

func Test_Parse_Contracts(t *testing.T) {
	program := checkParse(t, `(defun f ((a (ptr int) (count 5)) (b (ptr int) (byte-count 8)) (c (ptr int) (bounds a b)))
  void)`)
	//
	params := program.Functions[0].Params
	assert.Equal(t, ast.ELEMENT_COUNT, params[0].Bounds.(*ast.CountBounds).Kind)
	assert.Equal(t, ast.BYTE_COUNT, params[1].Bounds.(*ast.CountBounds).Kind)
	assert.IsType(t, &ast.RangeBounds{}, params[2].Bounds)
}

func Test_Parse_Enum(t *testing.T) {
	program := checkParse(t, "(defenum E A (B 5) C)")
	//
	require.Len(t, program.Enums, 1)
	//
	constants := program.Enums[0].Constants
	require.Len(t, constants, 3)
	assert.Equal(t, int64(0), constants[0].Value)
	assert.Equal(t, int64(5), constants[1].Value)
	assert.Equal(t, int64(6), constants[2].Value)
}

func Test_Parse_Types(t *testing.T) {
	program := checkParse(t, "(defun f ((a (* (checked uint))) (b (array (ptr char) 4))) (ptr void))")
	//
	fn := program.Functions[0]
	assert.Equal(t, "_Ptr<unsigned int> *", fn.Params[0].DataType.String())
	assert.True(t, fn.Params[1].DataType.Equals(ast.NewArrayType(ast.NewPointerType(ast.ARRAY, ast.CHAR_TYPE), 4)))
	assert.Equal(t, "_Array_ptr<void>", fn.Return.String())
}

func Test_Parse_Invalid_01(t *testing.T) {
	checkParseError(t, "(defun f)", "malformed function declaration")
}

func Test_Parse_Invalid_02(t *testing.T) {
	checkParseError(t, "(f x)", "unknown declaration")
}

func Test_Parse_Invalid_03(t *testing.T) {
	checkParseError(t, "(defun f ((a (ptr int) (count 5) 1)) void)", "malformed parameter declaration")
}

func Test_Parse_Invalid_04(t *testing.T) {
	checkParseError(t, "(defun f ((a (ptr int) 1)) void)", "malformed bounds expression")
}

func Test_Parse_Invalid_05(t *testing.T) {
	checkParseError(t, "(defun f ((a (ptr foo))) void)", "unknown type")
}

func Test_Parse_Invalid_06(t *testing.T) {
	checkParseError(t, "(defun f ((a (array void 2))) void)", "array of void")
}

func Test_Parse_Invalid_07(t *testing.T) {
	checkParseError(t, "(defun f ((a (array int 0))) void)", "invalid array length")
}

func Test_Parse_Invalid_08(t *testing.T) {
	checkParseError(t, "(defun f () void (var x int 1 2))", "unexpected element")
}

func Test_Parse_Invalid_09(t *testing.T) {
	checkParseError(t, "(defun f () void (cast int))", "malformed cast")
}

func Test_Parse_Invalid_10(t *testing.T) {
	checkParseError(t, "(defenum E (A x))", "invalid enum value")
}

// ===================================================================
// Resolution
// ===================================================================

func Test_Resolve_Bindings(t *testing.T) {
	unit := checkCompile(t, `(defenum E A)
(defun g ((x int)) int)
(defun f ((p (ptr int) (count n)) (n int)) void
  (var y int A)
  (= y (g y)))`)
	//
	var (
		g = unit.Program.Functions[0]
		f = unit.Program.Functions[1]
	)
	// Parameters are visible in all contracts
	count := f.Params[0].Bounds.(*ast.CountBounds).Count.(*ast.Cast)
	assert.Same(t, f.Params[1], count.Arg.(*ast.VariableAccess).Binding)
	// Constants and calls
	y := f.Body[0].(*ast.DeclStmt).Var
	assert.Same(t, unit.Program.Enums[0].Constants[0], y.Init.(*ast.VariableAccess).Binding)
	//
	call := f.Body[1].(*ast.ExprStmt).Expr.(*ast.Assign).Rhs.(*ast.Call)
	assert.Same(t, g, call.Function)
}

func Test_Resolve_Shadowing(t *testing.T) {
	unit := checkCompile(t, "(defenum E A) (defun f ((A int)) void (= A 1))")
	//
	fn := unit.Program.Functions[0]
	lhs := fn.Body[0].(*ast.ExprStmt).Expr.(*ast.Assign).Lhs.(*ast.VariableAccess)
	// Variables shadow enumeration constants
	assert.Same(t, fn.Params[0], lhs.Binding)
}

func Test_Resolve_Invalid_01(t *testing.T) {
	checkCompileError(t, "(defun f () void (= x 0) (var x int))", "unknown symbol \"x\"")
}

func Test_Resolve_Invalid_02(t *testing.T) {
	checkCompileError(t, "(defun g ((x int)) void) (defun f () void (g))",
		"incorrect number of arguments (expected 1, found 0)")
}

func Test_Resolve_Invalid_03(t *testing.T) {
	checkCompileError(t, "(defun f () void) (defun f () void)", "symbol already declared")
}

func Test_Resolve_Invalid_04(t *testing.T) {
	checkCompileError(t, "(defun g () void) (defun f ((g int)) void)", "symbol already declared")
}

func Test_Resolve_Invalid_05(t *testing.T) {
	checkCompileError(t, "(defenum E A) (defenum F A)", "symbol already declared")
}

// ===================================================================
// Typing
// ===================================================================

func Test_Type_Arithmetic(t *testing.T) {
	checkTyped(t, "(defun f ((n long)) void (= n (+ n 1)))", "(= n (+ (read n) (intcast 1)))")
}

func Test_Type_SizeOf(t *testing.T) {
	checkTyped(t, "(defun f ((n int)) void (= n (sizeof int)))", "(= n (intcast (sizeof int)))")
}

func Test_Type_Null(t *testing.T) {
	checkTyped(t, "(defun f ((p (ptr int))) void (= p 0))", "(= p (null 0))")
}

func Test_Type_Decay(t *testing.T) {
	checkTyped(t, "(defun f () void (var a (array int 2)) (var p (* int) a))", "(var p (* int) (decay a))")
}

func Test_Type_CastKinds(t *testing.T) {
	unit := checkCompile(t, `(defun f ((p (ptr int)) (n int)) void
  (cast (ptr int) 5)
  (cast (ptr int) 0)
  (cast (* char) p)
  (cast long n)
  (cast int p)
  (cast int n))`)
	//
	expected := []ast.CastKind{ast.INTEGRAL_TO_POINTER, ast.NULL_TO_POINTER, ast.BIT_CAST, ast.INTEGRAL_CAST,
		ast.POINTER_TO_INTEGRAL, ast.NO_OP}
	//
	for i, stmt := range unit.Program.Functions[0].Body {
		cast := stmt.(*ast.ExprStmt).Expr.(*ast.Cast)
		assert.Equal(t, expected[i], cast.Kind, "cast %d", i)
		assert.False(t, cast.Implicit)
	}
}

func Test_Type_CastWraps(t *testing.T) {
	unit := checkCompile(t, `(defun f () void
  (cast (ptr int) (cast uchar 256))
  (cast (ptr int) (cast uchar 257))
  (cast uchar (- 0 1))
  (- (cast uint 0) (cast uint 4294967292)))`)
	body := unit.Program.Functions[0].Body
	//
	assert.Equal(t, ast.NULL_TO_POINTER, body[0].(*ast.ExprStmt).Expr.(*ast.Cast).Kind)
	assert.Equal(t, ast.INTEGRAL_TO_POINTER, body[1].(*ast.ExprStmt).Expr.(*ast.Cast).Kind)
	assert.Equal(t, uint(64), body[1].(*ast.ExprStmt).Expr.(*ast.Cast).Width)
	assert.Equal(t, int64(255), body[2].(*ast.ExprStmt).Expr.AsConstant().Int64())
	assert.Equal(t, int64(4), body[3].(*ast.ExprStmt).Expr.AsConstant().Int64())
	assert.Equal(t, uint(32), body[3].(*ast.ExprStmt).Expr.(*ast.Binary).Width)
}

func Test_Type_CastWrapsWithLayout(t *testing.T) {
	text := "(defun f () void (cast (ptr int) (cast long 4294967296)))"
	srcfile := source.NewSourceFile("test.lisp", []byte(text))
	//
	lp64, errs := NewCompiler(target.LP64).CompileUnit(srcfile)
	require.Empty(t, errs)
	ilp32, errs := NewCompiler(target.ILP32).CompileUnit(srcfile)
	require.Empty(t, errs)
	// Long is only 32 bits wide under ILP32
	assert.Equal(t, ast.INTEGRAL_TO_POINTER, lp64.Program.Functions[0].Body[0].(*ast.ExprStmt).Expr.(*ast.Cast).Kind)
	assert.Equal(t, ast.NULL_TO_POINTER, ilp32.Program.Functions[0].Body[0].(*ast.ExprStmt).Expr.(*ast.Cast).Kind)
}

func Test_Type_AddressKinds(t *testing.T) {
	unit := checkCompile(t, `(defun f ((p (ptr int) (count 1)) (c (checked int)) (x int)) void
  (& x)
  (& (* p))
  (& (index p 0))
  (& (* c)))`)
	//
	expected := []ast.PointerKind{ast.UNCHECKED, ast.ARRAY, ast.ARRAY, ast.CHECKED}
	//
	for i, stmt := range unit.Program.Functions[0].Body {
		ptr := stmt.(*ast.ExprStmt).Expr.Type().(*ast.PointerType)
		assert.Equal(t, expected[i], ptr.Kind, "address %d", i)
	}
}

func Test_Type_Invalid_01(t *testing.T) {
	checkCompileError(t, "(defun f () void (sizeof void))", "type has no size (void)")
}

func Test_Type_Invalid_02(t *testing.T) {
	checkCompileError(t, "(defun f () void (var x void))", "variable has void type")
}

func Test_Type_Invalid_03(t *testing.T) {
	checkCompileError(t, "(defun f () void (= 1 2))", "expected lvalue")
}

func Test_Type_Invalid_04(t *testing.T) {
	checkCompileError(t, "(defun f ((p (ptr int))) void (cast (array int 2) p))", "invalid cast")
}

func Test_Type_Invalid_05(t *testing.T) {
	checkCompileError(t, "(defun f () void (var a (array int 2) 0))", "array initialiser not supported")
}

// ===================================================================
// Compilation
// ===================================================================

func Test_Compile_Order(t *testing.T) {
	files := []*source.File{
		source.NewSourceFile("a.lisp", []byte("(defun f ((a (ptr int) (count 1))) void (= a 0))")),
		source.NewSourceFile("b.lisp", []byte("(defun g () void (= x 0))")),
		source.NewSourceFile("c.lisp", []byte("(defun h ((a (ptr int) (count 1))) void (= a (cast (ptr int) 1)))")),
	}
	//
	units, errs := NewCompiler(target.LP64).Compile(files...)
	//
	require.Len(t, units, 3)
	assert.NotNil(t, units[0])
	assert.Nil(t, units[1])
	// Units are still produced when bounds are missing
	assert.NotNil(t, units[2])
	// Errors are reported in file order
	require.Len(t, errs, 2)
	assert.Equal(t, "b.lisp", errs[0].SourceFile().Filename())
	assert.Equal(t, "c.lisp", errs[1].SourceFile().Filename())
	//
	assert.Len(t, units[0].Sites, 1)
	assert.Same(t, files[0], units[0].File)
}

// ===================================================================
// Helpers
// ===================================================================

func checkParse(t *testing.T, text string) ast.Program {
	t.Helper()
	//
	program, srcmap, errs := ParseSourceFile(source.NewSourceFile("test.lisp", []byte(text)))
	//
	require.Empty(t, errs)
	require.NotNil(t, srcmap)
	//
	return program
}

func checkParseError(t *testing.T, text string, msg string) {
	t.Helper()
	//
	_, _, errs := ParseSourceFile(source.NewSourceFile("test.lisp", []byte(text)))
	//
	require.NotEmpty(t, errs)
	assert.Equal(t, msg, errs[0].Message())
}

func checkCompile(t *testing.T, text string) *Unit {
	t.Helper()
	//
	unit, errs := NewCompiler(target.LP64).CompileUnit(source.NewSourceFile("test.lisp", []byte(text)))
	//
	require.Empty(t, errs)
	//
	return unit
}

func checkCompileError(t *testing.T, text string, msg string) {
	t.Helper()
	//
	unit, errs := NewCompiler(target.LP64).CompileUnit(source.NewSourceFile("test.lisp", []byte(text)))
	//
	assert.Nil(t, unit)
	require.NotEmpty(t, errs)
	assert.Equal(t, msg, errs[0].Message())
}

// Check the lisp form of the (only) statement in a typed function.
func checkTyped(t *testing.T, text string, expected string) {
	t.Helper()
	//
	unit := checkCompile(t, text)
	body := unit.Program.Functions[0].Body
	//
	assert.Equal(t, expected, body[len(body)-1].Lisp().String(false))
}
