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
	"fmt"
	"math"

	"github.com/consensys/go-bounds/pkg/checkedc/ast"
	"github.com/consensys/go-bounds/pkg/checkedc/target"
	"github.com/consensys/go-bounds/pkg/util/source"
)

// TypeCheckProgram computes the static type of every expression in a given
// program, whose symbols must already be resolved.  Implicit conversions are
// made explicit by inserting implicit casts into the tree, such that: reads of
// lvalues are marked with LValueToRValue; arrays used as values are marked
// with ArrayToPointerDecay; null pointer constants converted to pointers are
// marked with NullToPointer; pointer conversions are marked with BitCast; and,
// the usual arithmetic conversions are marked with IntegralCast.  Bounds
// contracts are checked to be well-formed.
func TypeCheckProgram(program ast.Program, layout *target.DataLayout, srcmap *source.Map[ast.Node]) []SyntaxError {
	p := typeChecker{layout, srcmap, nil}
	//
	for _, fn := range program.Functions {
		p.typeFunction(fn)
	}
	//
	return p.errors
}

type typeChecker struct {
	layout *target.DataLayout
	srcmap *source.Map[ast.Node]
	errors []SyntaxError
}

func (p *typeChecker) typeFunction(fn *ast.FunctionDecl) {
	for _, param := range fn.Params {
		p.typeVariable(param)
	}
	//
	for _, stmt := range fn.Body {
		switch s := stmt.(type) {
		case *ast.DeclStmt:
			p.typeVariable(s.Var)
		case *ast.ExprStmt:
			p.typeExpr(s.Expr)
		default:
			panic(fmt.Sprintf("unknown statement encountered (%s)", stmt.Lisp().String(false)))
		}
	}
}

func (p *typeChecker) typeVariable(decl *ast.VarDecl) {
	if _, ok := decl.DataType.(*ast.VoidType); ok {
		p.error(decl, "variable has void type")
		return
	}
	//
	if decl.Bounds != nil {
		p.typeContract(decl)
	}
	//
	if decl.Init == nil {
		return
	} else if ast.IsArray(decl.DataType) {
		p.error(decl.Init, "array initialiser not supported")
		return
	}
	//
	decl.Init = p.convert(p.typeRValue(decl.Init), decl.DataType)
}

// Check a bounds contract attached to a variable or parameter.  Contracts can
// only be attached to array and unchecked pointers, and must be free of side
// effects.
func (p *typeChecker) typeContract(decl *ast.VarDecl) {
	ptr, ok := decl.DataType.(*ast.PointerType)
	//
	if !ok || ptr.Kind == ast.CHECKED {
		p.error(decl.Bounds, "invalid bounds expression")
		return
	}
	//
	switch c := decl.Bounds.(type) {
	case *ast.CountBounds:
		c.Count = p.typeRValue(c.Count)
		//
		if t := c.Count.Type(); t != nil && !ast.IsInteger(t) {
			p.error(c.Count, "invalid bounds expression")
		} else if _, void := ptr.Pointee.(*ast.VoidType); void && c.Kind == ast.ELEMENT_COUNT {
			p.error(c, "invalid bounds expression")
		}
	case *ast.RangeBounds:
		c.Lower = p.typeRValue(c.Lower)
		c.Upper = p.typeRValue(c.Upper)
		//
		for _, e := range c.Exprs() {
			if t := e.Type(); t != nil && !ast.IsPointer(t) {
				p.error(e, "invalid bounds expression")
			}
		}
	default:
		panic(fmt.Sprintf("unknown bounds expression encountered (%s)", c.Lisp().String(false)))
	}
	//
	for _, e := range decl.Bounds.Exprs() {
		if ast.HasSideEffects(e) {
			p.error(e, "bounds expression has side effects")
		}
	}
}

// ===================================================================
// Expressions
// ===================================================================

// Type an expression used as a value.  Arrays decay into pointers, whilst
// other lvalues are read.
func (p *typeChecker) typeRValue(e ast.Expr) ast.Expr {
	p.typeExpr(e)
	//
	switch t := e.Type(); {
	case t == nil:
		return e
	case ast.IsArray(t):
		return p.implicitCast(ast.ARRAY_TO_POINTER_DECAY, e, ast.DecayedType(t))
	case e.IsLValue():
		return p.implicitCast(ast.LVALUE_TO_RVALUE, e, t)
	default:
		return e
	}
}

// Type an expression in place, without converting the expression itself.
// Subexpressions are converted as necessary.  If the type of an expression
// cannot be determined (because of some error), its type remains nil.
func (p *typeChecker) typeExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.IntegerLiteral:
		p.typeIntegerLiteral(e)
	case *ast.VariableAccess:
		// Determined by its binding
	case *ast.Cast:
		p.typeCast(e)
	case *ast.Unary:
		p.typeUnary(e)
	case *ast.Subscript:
		p.typeSubscript(e)
	case *ast.Binary:
		p.typeBinary(e)
	case *ast.Assign:
		p.typeAssign(e)
	case *ast.SizeOf:
		if size, err := p.layout.SizeOf(e.Arg); err != nil {
			p.error(e, err.Error())
		} else {
			e.Size, e.DataType = size, ast.SIZE_TYPE
		}
	case *ast.Call:
		p.typeCall(e)
	default:
		panic(fmt.Sprintf("unknown expression encountered (%s)", e.Lisp().String(false)))
	}
}

// Literals have the first type from int, long and unsigned long long in which
// their value fits.
func (p *typeChecker) typeIntegerLiteral(e *ast.IntegerLiteral) {
	switch {
	case e.Value.IsInt64() && e.Value.Int64() <= math.MaxInt32:
		e.DataType = ast.INT_TYPE
	case e.Value.IsInt64():
		e.DataType = ast.LONG_TYPE
	case e.Value.IsUint64():
		e.DataType = ast.SIZE_TYPE
	default:
		p.error(e, "integer constant too large")
	}
}

// Classify an explicit cast by the kind of conversion it performs.
func (p *typeChecker) typeCast(e *ast.Cast) {
	e.Arg = p.typeRValue(e.Arg)
	//
	from, to := e.Arg.Type(), e.DataType
	//
	switch {
	case from == nil:
		return
	case from.Equals(to):
		e.Kind = ast.NO_OP
	case ast.IsInteger(from) && ast.IsInteger(to):
		e.Kind = ast.INTEGRAL_CAST
	case ast.IsInteger(from) && ast.IsPointer(to) && ast.IsNullPointerConstant(e.Arg):
		e.Kind = ast.NULL_TO_POINTER
	case ast.IsInteger(from) && ast.IsPointer(to):
		e.Kind = ast.INTEGRAL_TO_POINTER
	case ast.IsPointer(from) && ast.IsPointer(to):
		e.Kind = ast.BIT_CAST
	case ast.IsPointer(from) && ast.IsInteger(to):
		e.Kind = ast.POINTER_TO_INTEGRAL
	default:
		p.error(e, "invalid cast")
	}
	//
	e.Width = p.width(to)
}

func (p *typeChecker) typeUnary(e *ast.Unary) {
	switch e.Op {
	case ast.ADDRESS_OF:
		p.typeExpr(e.Arg)
		//
		if t := e.Arg.Type(); t == nil {
			return
		} else if !e.Arg.IsLValue() {
			p.error(e.Arg, "expected lvalue")
		} else {
			e.DataType = ast.NewPointerType(addressKind(e.Arg), t)
		}
	case ast.DEREFERENCE:
		e.Arg = p.typeRValue(e.Arg)
		//
		if t := e.Arg.Type(); t == nil {
			return
		} else if !isObjectPointer(t) {
			p.error(e.Arg, "expected pointer")
		} else {
			e.DataType = ast.PointeeOf(t)
		}
	case ast.NEGATE:
		e.Arg = p.typeRValue(e.Arg)
		//
		if t, ok := e.Arg.Type().(*ast.ScalarType); ok {
			e.Arg = p.integralCast(e.Arg, p.promote(t))
			e.DataType = e.Arg.Type()
			e.Width = p.width(e.DataType)
		} else if e.Arg.Type() != nil {
			p.error(e.Arg, "incompatible types")
		}
	case ast.PRE_INCREMENT, ast.PRE_DECREMENT:
		p.typeExpr(e.Arg)
		//
		if t := e.Arg.Type(); t == nil {
			return
		} else if !e.Arg.IsLValue() || ast.IsArray(t) {
			p.error(e.Arg, "expected lvalue")
		} else if !ast.IsInteger(t) && !isObjectPointer(t) {
			p.error(e.Arg, "incompatible types")
		} else {
			e.DataType = t
		}
	default:
		panic(fmt.Sprintf("unknown unary operator (%s)", e.Op.String()))
	}
}

func (p *typeChecker) typeSubscript(e *ast.Subscript) {
	e.Base = p.typeRValue(e.Base)
	e.Index = p.typeRValue(e.Index)
	//
	base, index := e.Base.Type(), e.Index.Type()
	//
	switch {
	case base == nil || index == nil:
		return
	case !isObjectPointer(base):
		p.error(e.Base, "expected pointer")
	case !ast.IsInteger(index):
		p.error(e.Index, "incompatible types")
	default:
		e.DataType = ast.PointeeOf(base)
	}
}

func (p *typeChecker) typeBinary(e *ast.Binary) {
	e.Lhs = p.typeRValue(e.Lhs)
	e.Rhs = p.typeRValue(e.Rhs)
	//
	lhs, rhs := e.Lhs.Type(), e.Rhs.Type()
	//
	switch {
	case lhs == nil || rhs == nil:
		return
	case ast.IsInteger(lhs) && ast.IsInteger(rhs):
		common := p.commonType(lhs.(*ast.ScalarType), rhs.(*ast.ScalarType))
		e.Lhs = p.integralCast(e.Lhs, common)
		e.Rhs = p.integralCast(e.Rhs, common)
		e.DataType = common
		e.Width = p.width(common)
	case e.Op == ast.ADD && isObjectPointer(lhs) && ast.IsInteger(rhs):
		e.DataType = lhs
	case e.Op == ast.ADD && ast.IsInteger(lhs) && isObjectPointer(rhs):
		e.DataType = rhs
	case e.Op == ast.SUB && isObjectPointer(lhs) && ast.IsInteger(rhs):
		e.DataType = lhs
	case e.Op == ast.SUB && isObjectPointer(lhs) && isObjectPointer(rhs) &&
		ast.PointeeOf(lhs).Equals(ast.PointeeOf(rhs)):
		e.DataType = ast.LONG_TYPE
	default:
		p.error(e, "incompatible types")
	}
}

func (p *typeChecker) typeAssign(e *ast.Assign) {
	p.typeExpr(e.Lhs)
	e.Rhs = p.typeRValue(e.Rhs)
	//
	if t := e.Lhs.Type(); t == nil {
		return
	} else if !e.Lhs.IsLValue() || ast.IsArray(t) {
		p.error(e.Lhs, "expected lvalue")
	} else {
		e.Rhs = p.convert(e.Rhs, t)
		e.DataType = t
	}
}

func (p *typeChecker) typeCall(e *ast.Call) {
	for i, arg := range e.Args {
		e.Args[i] = p.typeRValue(arg)
		// Arity errors are reported during resolution
		if e.Function != nil && i < len(e.Function.Params) {
			e.Args[i] = p.convert(e.Args[i], e.Function.Params[i].DataType)
		}
	}
}

// ===================================================================
// Conversions
// ===================================================================

// Convert a value as though by assignment to a location of the given type.
func (p *typeChecker) convert(e ast.Expr, to ast.Type) ast.Expr {
	from := e.Type()
	//
	switch {
	case from == nil || from.Equals(to):
		return e
	case ast.IsInteger(from) && ast.IsInteger(to):
		return p.integralCast(e, to)
	case ast.IsInteger(from) && ast.IsPointer(to) && ast.IsNullPointerConstant(e):
		return p.implicitCast(ast.NULL_TO_POINTER, e, to)
	case ast.IsPointer(from) && ast.IsPointer(to) && compatiblePointers(from.(*ast.PointerType), to.(*ast.PointerType)):
		return p.implicitCast(ast.BIT_CAST, e, to)
	}
	//
	p.error(e, "incompatible types")
	//
	return e
}

func (p *typeChecker) integralCast(e ast.Expr, to ast.Type) ast.Expr {
	if e.Type().Equals(to) {
		return e
	}
	//
	return p.implicitCast(ast.INTEGRAL_CAST, e, to)
}

// Construct an implicit cast, which inherits the source mapping of its
// argument.
func (p *typeChecker) implicitCast(kind ast.CastKind, arg ast.Expr, to ast.Type) ast.Expr {
	cast := ast.NewImplicitCast(kind, arg, to)
	cast.Width = p.width(to)
	p.srcmap.Copy(arg, cast)
	//
	return cast
}

// Apply the integer promotions to a given type.
func (p *typeChecker) promote(t *ast.ScalarType) *ast.ScalarType {
	if t.Kind < ast.INT {
		return &ast.ScalarType{Kind: ast.INT, Unsigned: false}
	}
	//
	return t
}

// Determine the common type of two integer operands, as determined by the
// usual arithmetic conversions.
func (p *typeChecker) commonType(lhs, rhs *ast.ScalarType) *ast.ScalarType {
	lhs, rhs = p.promote(lhs), p.promote(rhs)
	//
	switch {
	case lhs.Equals(rhs):
		return lhs
	case lhs.Unsigned == rhs.Unsigned:
		return maxRank(lhs, rhs)
	}
	// Mixed signedness
	unsigned, signed := lhs, rhs
	if signed.Unsigned {
		unsigned, signed = signed, unsigned
	}
	//
	if unsigned.Kind >= signed.Kind {
		return unsigned
	}
	// Signed type can represent all values of the unsigned type only if it is
	// strictly wider.
	usize, _ := p.layout.SizeOf(unsigned)
	ssize, _ := p.layout.SizeOf(signed)
	//
	if ssize > usize {
		return signed
	}
	//
	return &ast.ScalarType{Kind: signed.Kind, Unsigned: true}
}

// Determine the width in bits of an integer or pointer type under the current
// layout, such that constants of that type wrap as they would on the target.
func (p *typeChecker) width(t ast.Type) uint {
	if !ast.IsInteger(t) && !ast.IsPointer(t) {
		return 0
	} else if size, err := p.layout.SizeOf(t); err == nil {
		return uint(size) * 8
	}
	//
	return 0
}

func (p *typeChecker) error(node ast.Node, msg string) {
	p.errors = append(p.errors, *p.srcmap.SyntaxError(node, msg))
}

// ===================================================================
// Helpers
// ===================================================================

func maxRank(lhs, rhs *ast.ScalarType) *ast.ScalarType {
	if lhs.Kind >= rhs.Kind {
		return lhs
	}
	//
	return rhs
}

// Determine the kind of pointer produced by taking the address of an lvalue.
// Taking the address of a dereference (or subscript) yields the same kind of
// pointer as was dereferenced.
func addressKind(lval ast.Expr) ast.PointerKind {
	var ptr ast.Type
	//
	switch e := lval.(type) {
	case *ast.Unary:
		ptr = e.Arg.Type()
	case *ast.Subscript:
		ptr = e.Base.Type()
	}
	//
	if t, ok := ptr.(*ast.PointerType); ok {
		return t.Kind
	}
	//
	return ast.UNCHECKED
}

// Check whether a given type is a pointer to a complete object type (i.e. not
// void).
func isObjectPointer(t ast.Type) bool {
	if ptr, ok := t.(*ast.PointerType); ok {
		_, void := ptr.Pointee.(*ast.VoidType)
		return !void
	}
	//
	return false
}

// Pointers are compatible if either points to void, or both point to the same
// type.  A pointer to an array is also compatible with a pointer to its
// element type, since both hold the same address.
func compatiblePointers(from, to *ast.PointerType) bool {
	_, fvoid := from.Pointee.(*ast.VoidType)
	_, tvoid := to.Pointee.(*ast.VoidType)
	//
	if fvoid || tvoid || from.Pointee.Equals(to.Pointee) {
		return true
	} else if arr, ok := from.Pointee.(*ast.ArrayType); ok {
		return arr.Element.Equals(to.Pointee)
	}
	//
	return false
}
