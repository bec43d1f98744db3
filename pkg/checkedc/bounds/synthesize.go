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
	"github.com/consensys/go-bounds/pkg/checkedc/ast"
)

// Synthesizer determines the bounds of an arbitrary (typed) expression from its
// shape alone.  The result is conservative: whenever the shape of an expression
// does not justify a region, its bounds are invalid.  Expressions are never
// evaluated, and the bounds returned are always fresh expressions which do not
// share nodes with the original.
type Synthesizer struct {
	normalizer *Normalizer
}

// NewSynthesizer constructs a synthesizer which uses a given normalizer for
// variables with declared contracts.
func NewSynthesizer(normalizer *Normalizer) *Synthesizer {
	return &Synthesizer{normalizer}
}

// Synthesize the bounds of a given expression.  This always terminates, since
// it recurses only on subexpressions.
func (p *Synthesizer) Synthesize(e ast.Expr) Bounds {
	// Any constant zero (e.g. the null pointer) has vacuous bounds.
	if ast.IsNullPointerConstant(e) {
		return ANY
	}
	//
	switch e := e.(type) {
	case *ast.IntegerLiteral:
		return INVALID
	case *ast.Cast:
		return p.synthesizeCast(e)
	case *ast.Unary:
		if e.Op == ast.ADDRESS_OF {
			return p.synthesizeAddressOf(e.Arg)
		}
		//
		return INVALID
	case *ast.Assign:
		return p.synthesizeAssign(e)
	default:
		// Calls, arithmetic, increments and anything else.
		return INVALID
	}
}

func (p *Synthesizer) synthesizeCast(e *ast.Cast) Bounds {
	switch e.Kind {
	case ast.BIT_CAST, ast.NO_OP:
		return p.Synthesize(e.Arg)
	case ast.LVALUE_TO_RVALUE:
		return p.synthesizeRead(e.Arg)
	case ast.ARRAY_TO_POINTER_DECAY:
		return p.synthesizeDecay(e.Arg)
	default:
		// Non-zero integers converted to pointers have no provable region.
		return INVALID
	}
}

// The bounds of a value read from storage are determined by the contract
// declared for that storage.  Only variables carry contracts, except that a
// checked pointer always addresses a single element.
func (p *Synthesizer) synthesizeRead(lval ast.Expr) Bounds {
	if v, ok := lval.(*ast.VariableAccess); ok && v.Variable() != nil {
		return p.normalizer.Normalize(v.Variable(), v).Bounds
	} else if ptr, ok := lval.Type().(*ast.PointerType); ok && ptr.Kind == ast.CHECKED && !ast.HasSideEffects(lval) {
		read := ast.NewImplicitCast(ast.LVALUE_TO_RVALUE, ast.Clone(lval), ptr)
		return NewRange(read, ast.NewIntegerLiteral(1, ast.INT_TYPE))
	}
	//
	return INVALID
}

// An array variable decays into a pointer addressing the whole array.  A row
// of a multi-dimensional array (e.g. "a[i]" or "*a") takes the bounds of the
// pointer it was selected from.
func (p *Synthesizer) synthesizeDecay(arr ast.Expr) Bounds {
	switch e := arr.(type) {
	case *ast.VariableAccess:
		t, ok := e.Type().(*ast.ArrayType)
		//
		if !ok {
			return INVALID
		}
		//
		base := ast.NewImplicitCast(ast.ARRAY_TO_POINTER_DECAY, ast.Clone(e), ast.DecayedType(t))
		//
		return NewRange(base, ast.NewIntegerLiteral(t.Length, ast.SIZE_TYPE))
	case *ast.Subscript:
		return p.Synthesize(e.Base)
	case *ast.Unary:
		if e.Op == ast.DEREFERENCE {
			return p.Synthesize(e.Arg)
		}
		//
		return INVALID
	default:
		return INVALID
	}
}

// Taking the address of a dereference (or subscript) recovers the original
// pointer along with its bounds.  Taking the address of an array is the same
// as its decay, whilst any other variable is a single element region.
func (p *Synthesizer) synthesizeAddressOf(lval ast.Expr) Bounds {
	switch e := lval.(type) {
	case *ast.Unary:
		if e.Op == ast.DEREFERENCE {
			return p.Synthesize(e.Arg)
		}
		//
		return INVALID
	case *ast.Subscript:
		return p.Synthesize(e.Base)
	case *ast.VariableAccess:
		t := e.Type()
		//
		if ast.IsArray(t) {
			return p.synthesizeDecay(e)
		}
		//
		addr := &ast.Unary{Op: ast.ADDRESS_OF, Arg: ast.Clone(e), DataType: ast.NewPointerType(ast.UNCHECKED, t)}
		//
		return NewRange(addr, ast.NewIntegerLiteral(1, ast.INT_TYPE))
	default:
		return INVALID
	}
}

// The value of an assignment is the value stored, whose bounds are those
// declared for the location assigned.  These are expressed over a fresh read of
// that location, rather than the right-hand side.
func (p *Synthesizer) synthesizeAssign(e *ast.Assign) Bounds {
	if v, ok := e.Lhs.(*ast.VariableAccess); ok && v.Variable() != nil {
		return p.normalizer.Normalize(v.Variable(), v).Bounds
	}
	//
	return INVALID
}
