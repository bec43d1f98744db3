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
	"math/bits"

	"github.com/consensys/go-bounds/pkg/checkedc/ast"
	"github.com/consensys/go-bounds/pkg/checkedc/target"
	"github.com/consensys/go-bounds/pkg/util/source/sexp"
)

// Bounds describes the region of memory which a pointer-valued expression is
// known to address.  This is either a concrete range, the vacuous region of a
// null pointer, or no known region at all.
type Bounds interface {
	// IsAny determines whether these bounds are compatible with every other
	// bounds (i.e. the expression is null).
	IsAny() bool
	// IsInvalid determines whether no region could be determined.
	IsInvalid() bool
	// Lisp returns a lisp representation of these bounds.
	Lisp() sexp.SExp
	// String returns a textual representation of these bounds.
	String() string
}

// ANY represents the bounds of a null pointer, which are compatible with all
// other bounds.
var ANY Bounds = &AnyBounds{}

// INVALID represents the absence of any provable bounds.
var INVALID Bounds = &InvalidBounds{}

// ============================================================================
// Any
// ============================================================================

// AnyBounds represents the vacuous region of a null pointer.
type AnyBounds struct{}

// IsAny implementation for the Bounds interface.
func (p *AnyBounds) IsAny() bool { return true }

// IsInvalid implementation for the Bounds interface.
func (p *AnyBounds) IsInvalid() bool { return false }

// Lisp implementation for the Bounds interface.
func (p *AnyBounds) Lisp() sexp.SExp { return sexp.NewSymbol("any") }

func (p *AnyBounds) String() string { return "any" }

// ============================================================================
// Invalid
// ============================================================================

// InvalidBounds indicates that no region could be determined for an expression.
type InvalidBounds struct{}

// IsAny implementation for the Bounds interface.
func (p *InvalidBounds) IsAny() bool { return false }

// IsInvalid implementation for the Bounds interface.
func (p *InvalidBounds) IsInvalid() bool { return true }

// Lisp implementation for the Bounds interface.
func (p *InvalidBounds) Lisp() sexp.SExp { return sexp.NewSymbol("invalid") }

func (p *InvalidBounds) String() string { return "invalid" }

// ============================================================================
// Range
// ============================================================================

// Range represents the half-open region [Lower, Upper), measured in elements of
// the type pointed to by Lower.  A range constructed from a base and an extent
// has an upper bound "base + extent" which holds the same base node as the
// lower bound.  Thus, the base is logically evaluated only once, even though it
// occurs in both positions.
type Range struct {
	Lower ast.Expr
	Upper ast.Expr
}

// NewRange constructs the range "[base, base + extent)".  The base must be free
// of side effects, since it appears in both bounds.
func NewRange(base ast.Expr, extent ast.Expr) *Range {
	if ast.HasSideEffects(base) {
		panic(fmt.Sprintf("range base has side effects (%s)", base.Lisp().String(false)))
	}
	//
	upper := &ast.Binary{Op: ast.ADD, Lhs: base, Rhs: extent, DataType: base.Type()}
	//
	return &Range{base, upper}
}

// NewExplicitRange constructs a range from two independent bounds.  No
// relationship between them is assumed.
func NewExplicitRange(lower ast.Expr, upper ast.Expr) *Range {
	return &Range{lower, upper}
}

// NewByteRange constructs a range of a given number of bytes starting at some
// base, by viewing the base as a pointer to char.
func NewByteRange(base ast.Expr, bytes ast.Expr) *Range {
	view := ast.NewImplicitCast(ast.BIT_CAST, base, ast.NewPointerType(ast.ARRAY, ast.CHAR_TYPE))
	//
	return NewRange(view, bytes)
}

// IsAny implementation for the Bounds interface.
func (p *Range) IsAny() bool { return false }

// IsInvalid implementation for the Bounds interface.
func (p *Range) IsInvalid() bool { return false }

// Base returns the base of this range, which is its lower bound.
func (p *Range) Base() ast.Expr {
	return p.Lower
}

// Extent returns the extent of this range, provided the upper bound is given
// relative to the lower bound (i.e. "base + extent").  Otherwise, nil is
// returned.
func (p *Range) Extent() ast.Expr {
	if add, ok := p.Upper.(*ast.Binary); ok && add.Op == ast.ADD && add.Lhs == p.Lower {
		return add.Rhs
	}
	//
	return nil
}

// ByteSize determines the size of this range in bytes, when its extent is a
// known constant.
func (p *Range) ByteSize(layout *target.DataLayout) (uint64, bool) {
	extent := p.Extent()
	//
	if extent == nil {
		return 0, false
	}
	//
	n := extent.AsConstant()
	//
	if n == nil || !n.IsUint64() {
		return 0, false
	}
	//
	size, err := layout.SizeOf(ast.PointeeOf(p.Lower.Type()))
	//
	if err != nil {
		return 0, false
	}
	//
	return ElementsToBytes(n.Uint64(), size)
}

// Lisp implementation for the Bounds interface.
func (p *Range) Lisp() sexp.SExp {
	return sexp.ListOf("bounds", p.Lower.Lisp(), p.Upper.Lisp())
}

func (p *Range) String() string {
	return p.Lisp().String(false)
}

// ============================================================================
// Helpers
// ============================================================================

// Equal determines whether two bounds are structurally identical.
func Equal(lhs Bounds, rhs Bounds) bool {
	switch l := lhs.(type) {
	case *Range:
		r, ok := rhs.(*Range)
		return ok && ast.Equal(l.Lower, r.Lower) && ast.Equal(l.Upper, r.Upper)
	default:
		return lhs.IsAny() == rhs.IsAny() && lhs.IsInvalid() == rhs.IsInvalid()
	}
}

// ElementsToBytes converts a number of elements of a given size into a number
// of bytes.  This fails if the result overflows.
func ElementsToBytes(n uint64, size uint64) (uint64, bool) {
	hi, lo := bits.Mul64(n, size)
	//
	return lo, hi == 0
}

// BytesToElements converts a number of bytes into a number of elements of a
// given size.  This fails if the size does not divide the number of bytes.
func BytesToElements(n uint64, size uint64) (uint64, bool) {
	if size == 0 || n%size != 0 {
		return 0, false
	}
	//
	return n / size, true
}
