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
package ast

import "github.com/consensys/go-bounds/pkg/util/source/sexp"

// BoundsExpr represents a bounds contract as written in the source, attached to
// the declaration of a variable or parameter.  There are three surface forms:
// an element count, a byte count and an explicit range.
type BoundsExpr interface {
	Node
	// Exprs returns the expressions making up this contract.
	Exprs() []Expr
}

// CountKind distinguishes element counts from byte counts.
type CountKind uint8

const (
	// ELEMENT_COUNT indicates the count is given in elements of the pointee.
	ELEMENT_COUNT CountKind = iota
	// BYTE_COUNT indicates the count is given in bytes.
	BYTE_COUNT
)

// CountBounds represents a contract "count(n)" or "byte_count(n)".
type CountBounds struct {
	Kind  CountKind
	Count Expr
}

// Exprs implementation for BoundsExpr interface.
func (b *CountBounds) Exprs() []Expr {
	return []Expr{b.Count}
}

// Lisp implementation for Node interface.
func (b *CountBounds) Lisp() sexp.SExp {
	if b.Kind == BYTE_COUNT {
		return sexp.ListOf("byte-count", b.Count.Lisp())
	}
	//
	return sexp.ListOf("count", b.Count.Lisp())
}

// RangeBounds represents a contract "bounds(lo, hi)", where both lo and hi are
// pointer-valued expressions.
type RangeBounds struct {
	Lower Expr
	Upper Expr
}

// Exprs implementation for BoundsExpr interface.
func (b *RangeBounds) Exprs() []Expr {
	return []Expr{b.Lower, b.Upper}
}

// Lisp implementation for Node interface.
func (b *RangeBounds) Lisp() sexp.SExp {
	return sexp.ListOf("bounds", b.Lower.Lisp(), b.Upper.Lisp())
}
