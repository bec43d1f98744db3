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
	"testing"

	"github.com/consensys/go-bounds/pkg/checkedc/ast"
	"github.com/consensys/go-bounds/pkg/checkedc/bounds"
	"github.com/consensys/go-bounds/pkg/checkedc/compiler"
	"github.com/consensys/go-bounds/pkg/checkedc/target"
	"github.com/consensys/go-bounds/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===================================================================
// Null Pointers
// ===================================================================

func Test_Resolve_NullCount(t *testing.T) {
	sites := resolveValid(t, "(defun f ((a (ptr int) (count 5))) void (= a 0))")
	//
	checkSite(t, sites[0], "(bounds (read a) (+ (read a) 5))", "any")
}

func Test_Resolve_NullRange(t *testing.T) {
	sites := resolveValid(t, "(defun f ((a (ptr int) (bounds a (+ a 5)))) void (= a 0))")
	//
	checkSite(t, sites[0], "(bounds (read a) (+ (read a) 5))", "any")
}

func Test_Resolve_NullByteCount(t *testing.T) {
	sites := resolveValid(t, "(defun f ((c (ptr int) (byte-count (* (sizeof int) 5)))) void (= c 0))")
	//
	checkSite(t, sites[0], "(bounds (read c) (+ (read c) 5))", "any")
	assert.False(t, sites[0].Underspecified)
}

func Test_Resolve_NullEnum(t *testing.T) {
	sites := resolveValid(t, `(defenum E1 EnumVal1 EnumVal2)
(defun f ((d (ptr int) (count 5))) void (= d (cast (ptr int) EnumVal1)))`)
	//
	checkSite(t, sites[0], "(bounds (read d) (+ (read d) 5))", "any")
}

func Test_Resolve_NullDeclaration(t *testing.T) {
	sites := resolveValid(t, "(defun f () void (var d (ptr int) (count 5) 0))")
	//
	require.Equal(t, bounds.DECLARATION, sites[0].Kind)
	checkSite(t, sites[0], "(bounds (read d) (+ (read d) 5))", "any")
}

func Test_Resolve_NullWrapped(t *testing.T) {
	sites := resolveValid(t, "(defun f ((c (ptr int) (count 5))) void (= c (cast (ptr int) (cast uchar 256))))")
	//
	assert.Equal(t, "(= c (cast (ptr int) (cast uchar 256)))", sites[0].Node.Lisp().String(false))
	checkSite(t, sites[0], "(bounds (read c) (+ (read c) 5))", "any")
}

// ===================================================================
// Integers
// ===================================================================

func Test_Resolve_IntegerToPointer(t *testing.T) {
	checkMissing(t, "(defun f ((a (ptr int) (count 5))) void (= a (cast (ptr int) 5)))", "(cast (ptr int) 5)")
}

func Test_Resolve_IntegerCastToPointer(t *testing.T) {
	checkMissing(t, "(defun f ((a (ptr int) (count 5))) void (= a (cast (ptr int) (cast int 5))))",
		"(cast (ptr int) (cast int 5))")
}

func Test_Resolve_IntegerWrappedToPointer(t *testing.T) {
	checkMissing(t, "(defun f ((a (ptr int) (count 5))) void (= a (cast (ptr int) (cast uchar 257))))",
		"(cast (ptr int) (cast uchar 257))")
}

// ===================================================================
// Variables
// ===================================================================

func Test_Resolve_Variable(t *testing.T) {
	sites := resolveValid(t, "(defun f ((a (ptr int) (count 5)) (b (ptr int) (count 5))) void (= a b))")
	//
	assert.Equal(t, "(= a (read b))", sites[0].Node.Lisp().String(false))
	checkSite(t, sites[0], "(bounds (read a) (+ (read a) 5))", "(bounds (read b) (+ (read b) 5))")
}

func Test_Resolve_RangeMatchesCount(t *testing.T) {
	sites := resolveValid(t, `(defun f ((a (ptr int) (count 5)) (b (ptr int) (bounds b (+ b 5)))) void
  (= a b)
  (= b a))`)
	// Bounds of a variable are the same whether written or read
	assert.True(t, bounds.Equal(sites[0].TargetBounds, sites[1].SourceBounds))
	assert.True(t, bounds.Equal(sites[0].SourceBounds, sites[1].TargetBounds))
	// Both forms of contract yield a range with a known extent
	for _, b := range []bounds.Bounds{sites[0].TargetBounds, sites[0].SourceBounds} {
		extent := b.(*bounds.Range).Extent()
		require.NotNil(t, extent)
		assert.Equal(t, int64(5), extent.AsConstant().Int64())
	}
}

func Test_Resolve_MissingContract(t *testing.T) {
	checkMissing(t, "(defun f ((a (ptr int) (count 5)) (b (ptr int))) void (= a b))", "b")
}

func Test_Resolve_MissingTargetContract(t *testing.T) {
	sites := resolveValid(t, "(defun f ((a (ptr int) (count 5)) (b (ptr int))) void (= b a))")
	// Only the source is checked for bounds
	assert.True(t, sites[0].TargetBounds.IsInvalid())
	assert.True(t, sites[0].IsValid())
	assert.Nil(t, sites[0].Declared)
}

func Test_Resolve_Checked(t *testing.T) {
	sites := resolveValid(t, "(defun f ((c (checked int)) (p (ptr int) (count 1))) void (= p c))")
	//
	assert.Equal(t, "(= p (bitcast (read c)))", sites[0].Node.Lisp().String(false))
	checkSite(t, sites[0], "(bounds (read p) (+ (read p) 1))", "(bounds (read c) (+ (read c) 1))")
}

func Test_Resolve_Call(t *testing.T) {
	checkMissing(t, `(defun g () (ptr int))
(defun f ((a (ptr int) (count 1))) void (= a (g)))`, "(g)")
}

// ===================================================================
// Addresses
// ===================================================================

func Test_Resolve_AddressOfVariable(t *testing.T) {
	sites := resolveValid(t, "(defun f () void (var x int) (var p (ptr int) (count 1) (& x)))")
	//
	require.Len(t, sites, 1)
	assert.Equal(t, "(var p (ptr int) (count 1) (bitcast (& x)))", sites[0].Node.Lisp().String(false))
	checkSite(t, sites[0], "(bounds (read p) (+ (read p) 1))", "(bounds (& x) (+ (& x) 1))")
}

func Test_Resolve_ArrayMatchesAddress(t *testing.T) {
	sites := resolveValid(t, `(defun f () void
  (var arr (array int 5))
  (var b (ptr int) (count 5) arr)
  (var c (ptr int) (count 5) (& arr)))`)
	//
	require.Len(t, sites, 2)
	checkSite(t, sites[0], "(bounds (read b) (+ (read b) 5))", "(bounds (decay arr) (+ (decay arr) 5))")
	checkSite(t, sites[1], "(bounds (read c) (+ (read c) 5))", "(bounds (decay arr) (+ (decay arr) 5))")
	assert.True(t, bounds.Equal(sites[0].SourceBounds, sites[1].SourceBounds))
}

func Test_Resolve_AddressOfDereference(t *testing.T) {
	sites := resolveValid(t, `(defun f ((p (ptr int) (count 5))) void
  (var q (ptr int) (count 5) (& (* p)))
  (var r (ptr int) (count 5) (& (index p 0)))
  (= q p))`)
	//
	require.Len(t, sites, 3)
	// &*p, &p[0] and p all share the same bounds
	assert.Equal(t, "(bounds (read p) (+ (read p) 5))", sites[0].SourceBounds.String())
	assert.True(t, bounds.Equal(sites[0].SourceBounds, sites[1].SourceBounds))
	assert.True(t, bounds.Equal(sites[0].SourceBounds, sites[2].SourceBounds))
}

func Test_Resolve_MultiDimensional(t *testing.T) {
	sites := resolveValid(t, `(defun f () void
  (var m (array (array int 3) 2))
  (var p (ptr int) (count 3) (index m 1)))`)
	//
	assert.Equal(t, "(var p (ptr int) (count 3) (bitcast (decay (index (decay m) 1))))",
		sites[0].Node.Lisp().String(false))
	checkSite(t, sites[0], "(bounds (read p) (+ (read p) 3))", "(bounds (decay m) (+ (decay m) 2))")
}

// ===================================================================
// Contracts
// ===================================================================

func Test_Resolve_ByteCountUnderspecified(t *testing.T) {
	sites := resolveValid(t, "(defun f ((p (ptr int) (byte-count 6))) void (= p 0))")
	//
	checkSite(t, sites[0], "(bounds (bitcast (read p)) (+ (bitcast (read p)) 6))", "any")
	assert.True(t, sites[0].Underspecified)
}

func Test_Resolve_ByteCountWrapped(t *testing.T) {
	// (uchar) 260 is 4 bytes, hence a single int
	sites := resolveValid(t, "(defun f ((c (ptr int) (byte-count (cast uchar 260)))) void (= c 0))")
	//
	checkSite(t, sites[0], "(bounds (read c) (+ (read c) 1))", "any")
	assert.False(t, sites[0].Underspecified)
}

func Test_Resolve_ByteCountUnsignedArithmetic(t *testing.T) {
	// 0u - 4294967292u wraps to 4
	sites := resolveValid(t,
		"(defun f ((c (ptr int) (byte-count (- (cast uint 0) (cast uint 4294967292))))) void (= c 0))")
	//
	checkSite(t, sites[0], "(bounds (read c) (+ (read c) 1))", "any")
	assert.False(t, sites[0].Underspecified)
}

func Test_Resolve_ExplicitRange(t *testing.T) {
	sites := resolveValid(t, "(defun f ((lo (ptr int)) (hi (ptr int)) (p (ptr int) (bounds lo hi))) void (= p 0))")
	//
	checkSite(t, sites[0], "(bounds (read lo) (read hi))", "any")
	assert.Nil(t, sites[0].TargetBounds.(*bounds.Range).Extent())
}

func Test_Resolve_VariableCount(t *testing.T) {
	sites := resolveValid(t, "(defun f ((n int) (a (ptr int) (count n)) (b (ptr int) (count n))) void (= a b))")
	//
	checkSite(t, sites[0], "(bounds (read a) (+ (read a) (read n)))", "(bounds (read b) (+ (read b) (read n)))")
}

// ===================================================================
// Assignments
// ===================================================================

func Test_Resolve_NestedAssignment(t *testing.T) {
	sites := resolveValid(t, "(defun f ((a (ptr int) (count 5)) (b (ptr int) (count 5))) void (= a (= b 0)))")
	//
	require.Len(t, sites, 2)
	// Enclosing site comes first
	assert.Equal(t, "(= a (= b (null 0)))", sites[0].Node.Lisp().String(false))
	checkSite(t, sites[0], "(bounds (read a) (+ (read a) 5))", "(bounds (read b) (+ (read b) 5))")
	checkSite(t, sites[1], "(bounds (read b) (+ (read b) 5))", "any")
}

func Test_Resolve_NonPointerAssignment(t *testing.T) {
	sites := resolveValid(t, "(defun f ((n int) (c (checked int))) void (= n 1) (= c 0))")
	//
	assert.Empty(t, sites)
}

func Test_Resolve_Failures(t *testing.T) {
	resolver := bounds.NewResolver(&target.LP64)
	unit, errs := compile(t, `(defun f ((a (ptr int) (count 5)) (b (ptr int))) void
  (= a b)
  (= a 0)
  (= a (cast (ptr int) 1)))`)
	//
	require.Len(t, errs, 2)
	//
	sites, failures := resolver.ResolveFunction(unit.Program.Functions[0])
	//
	require.Len(t, sites, 3)
	require.Len(t, failures, 2)
	assert.Same(t, sites[0], failures[0].Site)
	assert.Same(t, sites[2], failures[1].Site)
	assert.Equal(t, "expression has no bounds", failures[0].Message())
}

// ===================================================================
// Synthesis
// ===================================================================

// Every subexpression of a well-typed program has exactly one kind of bounds.
func Test_Synthesize_Total(t *testing.T) {
	var (
		synthesizer = bounds.NewSynthesizer(bounds.NewNormalizer(&target.LP64))
		count       = 0
	)
	//
	unit, errs := compile(t, `(defenum E A B)
(defun g ((x int)) (ptr int))
(defun f ((p (ptr int) (count 5)) (c (checked int)) (n int)) void
  (var arr (array int 4))
  (var q (ptr int) (count n) (+ p 1))
  (= n (+ (* n 2) (- n)))
  (= n (sizeof int))
  (= n (index p (++ n)))
  (= q (g n))
  (= q (& (index arr 2)))
  (= q (cast (ptr int) A))
  (= n (* c))
  (= n (cast int p))
  (-- n))`)
	// Some of these writes have no bounds
	require.NotEmpty(t, errs)
	//
	for _, fn := range unit.Program.Functions {
		for _, e := range expressions(fn) {
			ast.Walk(e, func(n ast.Expr) {
				b := synthesizer.Synthesize(n)
				_, isRange := b.(*bounds.Range)
				//
				tags := 0
				for _, tag := range []bool{b.IsAny(), b.IsInvalid(), isRange} {
					if tag {
						tags++
					}
				}
				//
				assert.Equal(t, 1, tags, "bounds of %s", n.Lisp().String(false))
				count++
			})
		}
	}
	//
	assert.Greater(t, count, 30)
}

func Test_Synthesize_Fresh(t *testing.T) {
	synthesizer := bounds.NewSynthesizer(bounds.NewNormalizer(&target.LP64))
	sites := resolveValid(t, "(defun f ((a (ptr int) (count 5)) (b (ptr int) (count 5))) void (= a b))")
	//
	rhs := sites[0].Source
	before := rhs.Lisp().String(false)
	b := synthesizer.Synthesize(rhs).(*bounds.Range)
	// The source is left untouched, and no nodes are shared with it
	assert.Equal(t, before, rhs.Lisp().String(false))
	assert.NotSame(t, rhs, b.Lower)
	assert.NotSame(t, rhs.(*ast.Cast).Arg, b.Lower.(*ast.Cast).Arg)
}

// ===================================================================
// Helpers
// ===================================================================

func compile(t *testing.T, text string) (*compiler.Unit, []compiler.SyntaxError) {
	t.Helper()
	//
	srcfile := source.NewSourceFile("test.lisp", []byte(text))
	unit, errs := compiler.NewCompiler(target.LP64).CompileUnit(srcfile)
	// Bounds failures still produce a unit
	require.NotNil(t, unit, "%v", errs)
	//
	return unit, errs
}

func resolveValid(t *testing.T, text string) []*bounds.Site {
	t.Helper()
	//
	unit, errs := compile(t, text)
	require.Empty(t, errs)
	//
	return unit.Sites
}

func checkSite(t *testing.T, site *bounds.Site, expectedTarget string, expectedSource string) {
	t.Helper()
	//
	assert.Equal(t, expectedTarget, site.TargetBounds.String())
	assert.Equal(t, expectedSource, site.SourceBounds.String())
}

// Check that exactly one write has no bounds, and that it is reported against
// the expression written.
func checkMissing(t *testing.T, text string, expr string) {
	t.Helper()
	//
	unit, errs := compile(t, text)
	//
	require.Len(t, errs, 1)
	assert.Equal(t, "expression has no bounds", errs[0].Message())
	assert.Equal(t, expr, errs[0].SourceFile().Text(errs[0].Span()))
	//
	invalid := 0
	//
	for _, site := range unit.Sites {
		if !site.IsValid() {
			assert.True(t, site.SourceBounds.IsInvalid())
			invalid++
		}
	}
	//
	assert.Equal(t, 1, invalid)
}

func expressions(fn *ast.FunctionDecl) []ast.Expr {
	var exprs []ast.Expr
	//
	for _, stmt := range fn.Body {
		switch s := stmt.(type) {
		case *ast.DeclStmt:
			if s.Var.Init != nil {
				exprs = append(exprs, s.Var.Init)
			}
		case *ast.ExprStmt:
			exprs = append(exprs, s.Expr)
		}
	}
	//
	return exprs
}

