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
package bounds

import (
	"fmt"

	"github.com/consensys/go-bounds/pkg/checkedc/ast"
	"github.com/consensys/go-bounds/pkg/checkedc/target"
	log "github.com/sirupsen/logrus"
)

// Normalized holds the result of normalizing a declared contract.
type Normalized struct {
	// Bounds in canonical form.
	Bounds Bounds
	// Underspecified indicates a byte count contract whose extent is not a
	// multiple of the element size.  The bounds are then expressed over a byte
	// view of the object.
	Underspecified bool
}

// Normalizer converts the bounds contract declared for a variable or parameter
// into a range, instantiated for a specific object constrained by that
// contract.  Normalization is total, and never fails.
type Normalizer struct {
	layout *target.DataLayout
}

// NewNormalizer constructs a normalizer for a given data layout.
func NewNormalizer(layout *target.DataLayout) *Normalizer {
	return &Normalizer{layout}
}

// Normalize the contract declared for a given variable, against a given
// object.  The object is an lvalue designating the storage constrained by the
// contract (e.g. an access of the variable itself).  The object is never
// modified, and every call returns fresh expressions.  Variables without a
// contract have invalid bounds, except for checked pointers which have an
// implicit count of one.
func (p *Normalizer) Normalize(decl *ast.VarDecl, object ast.Expr) Normalized {
	if ast.HasSideEffects(object) {
		return Normalized{INVALID, false}
	}
	//
	switch c := decl.Bounds.(type) {
	case nil:
		if ptr, ok := decl.DataType.(*ast.PointerType); ok && ptr.Kind == ast.CHECKED {
			return Normalized{NewRange(p.base(object), ast.NewIntegerLiteral(1, ast.INT_TYPE)), false}
		}
		//
		return Normalized{INVALID, false}
	case *ast.CountBounds:
		if c.Kind == ast.BYTE_COUNT {
			return p.normalizeByteCount(decl, c.Count, object)
		}
		//
		return Normalized{NewRange(p.base(object), p.substitute(decl, c.Count, object)), false}
	case *ast.RangeBounds:
		return Normalized{p.normalizeRange(decl, c, object), false}
	default:
		panic(fmt.Sprintf("unknown bounds expression encountered (%s)", c.Lisp().String(false)))
	}
}

// A byte count is converted into an element count when it is a constant
// multiple of the element size.  Otherwise, the range is expressed over a byte
// view of the object.
func (p *Normalizer) normalizeByteCount(decl *ast.VarDecl, count ast.Expr, object ast.Expr) Normalized {
	size, err := p.layout.SizeOf(ast.PointeeOf(object.Type()))
	//
	if err == nil && size == 1 {
		return Normalized{NewRange(p.base(object), p.substitute(decl, count, object)), false}
	} else if n := count.AsConstant(); err == nil && n != nil && n.IsUint64() {
		if elements, ok := BytesToElements(n.Uint64(), size); ok {
			return Normalized{NewRange(p.base(object), ast.NewIntegerLiteral(elements, ast.SIZE_TYPE)), false}
		}
		//
		log.Debugf("byte count %s for %s is not a multiple of %d", n.String(), decl.Name, size)
		//
		return Normalized{NewByteRange(p.base(object), p.substitute(decl, count, object)), true}
	}
	//
	return Normalized{NewByteRange(p.base(object), p.substitute(decl, count, object)), false}
}

// An explicit range is re-expressed in terms of the object.  When its upper
// bound is its lower bound plus some extent, the range is rebuilt around a
// single base.  Otherwise, both bounds are kept as written.
func (p *Normalizer) normalizeRange(decl *ast.VarDecl, contract *ast.RangeBounds, object ast.Expr) *Range {
	lower := p.substitute(decl, contract.Lower, object)
	upper := p.substitute(decl, contract.Upper, object)
	//
	if add, ok := upper.(*ast.Binary); ok && add.Op == ast.ADD && ast.Equal(add.Lhs, lower) &&
		!ast.HasSideEffects(lower) {
		return NewRange(lower, add.Rhs)
	}
	//
	return NewExplicitRange(lower, upper)
}

// Construct the base of a range for a given object.  Pointers are read, arrays
// decay and anything else has its address taken.
func (p *Normalizer) base(object ast.Expr) ast.Expr {
	obj := ast.Clone(object)
	//
	switch t := obj.Type(); {
	case ast.IsArray(t):
		return ast.NewImplicitCast(ast.ARRAY_TO_POINTER_DECAY, obj, ast.DecayedType(t))
	case ast.IsPointer(t):
		return ast.NewImplicitCast(ast.LVALUE_TO_RVALUE, obj, t)
	default:
		return &ast.Unary{Op: ast.ADDRESS_OF, Arg: obj, DataType: ast.NewPointerType(ast.UNCHECKED, t)}
	}
}

// Copy an expression from a contract, replacing any accesses of the declared
// variable with the given object.
func (p *Normalizer) substitute(decl *ast.VarDecl, e ast.Expr, object ast.Expr) ast.Expr {
	return ast.Rewrite(e, func(n ast.Expr) ast.Expr {
		if v, ok := n.(*ast.VariableAccess); ok && v.Binding == ast.Binding(decl) {
			return ast.Clone(object)
		}
		//
		return nil
	})
}
