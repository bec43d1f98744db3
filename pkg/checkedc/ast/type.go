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

import (
	"fmt"

	"github.com/consensys/go-bounds/pkg/util/source/sexp"
)

// Type represents the static type of an expression, variable or parameter.
type Type interface {
	// Equals determines whether this type is identical to another.
	Equals(Type) bool
	// Lisp returns the lisp representation of this type, which coincides with
	// the syntax used to write it in a source file.
	Lisp() sexp.SExp
	// String returns the C-style rendering of this type (e.g. "int (*)[5]").
	String() string
}

// VOID_TYPE represents the void type.
var VOID_TYPE Type = &VoidType{}

// CHAR_TYPE represents the (signed) char type.
var CHAR_TYPE Type = &ScalarType{CHAR, false}

// INT_TYPE represents the (signed) int type.
var INT_TYPE Type = &ScalarType{INT, false}

// LONG_TYPE represents the (signed) long type.
var LONG_TYPE Type = &ScalarType{LONG, false}

// SIZE_TYPE represents the type of sizeof expressions and array extents,
// namely unsigned long long.
var SIZE_TYPE Type = &ScalarType{LONGLONG, true}

// ============================================================================
// Void
// ============================================================================

// VoidType represents the absence of a value.  It can only be used as a
// function return type, or as the pointee of a pointer.
type VoidType struct{}

// Equals implementation for Type interface.
func (p *VoidType) Equals(other Type) bool {
	_, ok := other.(*VoidType)
	return ok
}

// Lisp implementation for Type interface.
func (p *VoidType) Lisp() sexp.SExp {
	return sexp.NewSymbol("void")
}

func (p *VoidType) String() string {
	return "void"
}

// ============================================================================
// Scalars
// ============================================================================

// ScalarKind identifies the various integer types.  These are ordered by their
// conversion rank.
type ScalarKind uint8

const (
	// CHAR represents the char type.
	CHAR ScalarKind = iota
	// SHORT represents the short type.
	SHORT
	// INT represents the int type.
	INT
	// LONG represents the long type.
	LONG
	// LONGLONG represents the long long type.
	LONGLONG
)

var scalarNames = []string{"char", "short", "int", "long", "long long"}

var scalarSymbols = []string{"char", "short", "int", "long", "longlong"}

// ScalarType represents an integer type of some kind.
type ScalarType struct {
	Kind     ScalarKind
	Unsigned bool
}

// ScalarTypeFromSymbol parses the lisp name of a scalar type (e.g. "uint").
func ScalarTypeFromSymbol(name string) (*ScalarType, bool) {
	unsigned := false
	//
	if len(name) > 1 && name[0] == 'u' && name != "unsigned" {
		unsigned = true
		name = name[1:]
	}
	//
	for i, n := range scalarSymbols {
		if n == name {
			return &ScalarType{ScalarKind(i), unsigned}, true
		}
	}
	//
	return nil, false
}

// Equals implementation for Type interface.
func (p *ScalarType) Equals(other Type) bool {
	if o, ok := other.(*ScalarType); ok {
		return p.Kind == o.Kind && p.Unsigned == o.Unsigned
	}
	//
	return false
}

// Lisp implementation for Type interface.
func (p *ScalarType) Lisp() sexp.SExp {
	if p.Unsigned {
		return sexp.NewSymbol("u" + scalarSymbols[p.Kind])
	}
	//
	return sexp.NewSymbol(scalarSymbols[p.Kind])
}

func (p *ScalarType) String() string {
	if p.Unsigned {
		return "unsigned " + scalarNames[p.Kind]
	}
	//
	return scalarNames[p.Kind]
}

// ============================================================================
// Pointers
// ============================================================================

// PointerKind distinguishes the three kinds of pointer supported by the
// language extension.
type PointerKind uint8

const (
	// UNCHECKED represents a traditional C pointer (T*), which carries no
	// bounds whatsoever.
	UNCHECKED PointerKind = iota
	// CHECKED represents a pointer to a single element (_Ptr<T>).
	CHECKED
	// ARRAY represents an array pointer (_Array_ptr<T>), which must always
	// carry a bounds contract.
	ARRAY
)

// PointerType represents a pointer to some underlying type.
type PointerType struct {
	Kind    PointerKind
	Pointee Type
}

// NewPointerType constructs a new pointer of a given kind.
func NewPointerType(kind PointerKind, pointee Type) *PointerType {
	return &PointerType{kind, pointee}
}

// Equals implementation for Type interface.
func (p *PointerType) Equals(other Type) bool {
	if o, ok := other.(*PointerType); ok {
		return p.Kind == o.Kind && p.Pointee.Equals(o.Pointee)
	}
	//
	return false
}

// Lisp implementation for Type interface.
func (p *PointerType) Lisp() sexp.SExp {
	switch p.Kind {
	case CHECKED:
		return sexp.ListOf("checked", p.Pointee.Lisp())
	case ARRAY:
		return sexp.ListOf("ptr", p.Pointee.Lisp())
	default:
		return sexp.ListOf("*", p.Pointee.Lisp())
	}
}

func (p *PointerType) String() string {
	return declarator(p, "")
}

// ============================================================================
// Arrays
// ============================================================================

// ArrayType represents a fixed-size array of some underlying element type.
type ArrayType struct {
	Element Type
	Length  uint64
}

// NewArrayType constructs a new array type.
func NewArrayType(element Type, length uint64) *ArrayType {
	return &ArrayType{element, length}
}

// Equals implementation for Type interface.
func (p *ArrayType) Equals(other Type) bool {
	if o, ok := other.(*ArrayType); ok {
		return p.Length == o.Length && p.Element.Equals(o.Element)
	}
	//
	return false
}

// Lisp implementation for Type interface.
func (p *ArrayType) Lisp() sexp.SExp {
	return sexp.ListOf("array", p.Element.Lisp(), sexp.NewSymbol(fmt.Sprintf("%d", p.Length)))
}

func (p *ArrayType) String() string {
	return declarator(p, "")
}

// ============================================================================
// Helpers
// ============================================================================

// IsInteger checks whether a given type is an integer type.
func IsInteger(t Type) bool {
	_, ok := t.(*ScalarType)
	return ok
}

// IsPointer checks whether a given type is a pointer type of any kind.
func IsPointer(t Type) bool {
	_, ok := t.(*PointerType)
	return ok
}

// IsArrayPointer checks whether a given type is an array pointer type (i.e.
// _Array_ptr<T>).
func IsArrayPointer(t Type) bool {
	p, ok := t.(*PointerType)
	return ok && p.Kind == ARRAY
}

// IsArray checks whether a given type is an array type.
func IsArray(t Type) bool {
	_, ok := t.(*ArrayType)
	return ok
}

// PointeeOf returns the type pointed to by a pointer type, or nil if the type
// is not a pointer.
func PointeeOf(t Type) Type {
	if p, ok := t.(*PointerType); ok {
		return p.Pointee
	}
	//
	return nil
}

// DecayedType returns the pointer type which an array of the given type decays
// into.  Non-array types are returned unchanged.
func DecayedType(t Type) Type {
	if arr, ok := t.(*ArrayType); ok {
		return NewPointerType(UNCHECKED, arr.Element)
	}
	//
	return t
}

// Render a type in C declarator syntax around an (optional) inner declarator.
// For example, a pointer to an array of five ints around an empty declarator
// is "int (*)[5]".
func declarator(t Type, inner string) string {
	switch t := t.(type) {
	case *PointerType:
		if t.Kind == UNCHECKED {
			if IsArray(t.Pointee) {
				return declarator(t.Pointee, "(*"+inner+")")
			}
			//
			return declarator(t.Pointee, "*"+inner)
		} else if t.Kind == CHECKED {
			return withInner(fmt.Sprintf("_Ptr<%s>", t.Pointee.String()), inner)
		}
		//
		return withInner(fmt.Sprintf("_Array_ptr<%s>", t.Pointee.String()), inner)
	case *ArrayType:
		return declarator(t.Element, fmt.Sprintf("%s[%d]", inner, t.Length))
	default:
		return withInner(t.String(), inner)
	}
}

func withInner(base string, inner string) string {
	if inner == "" {
		return base
	}
	//
	return base + " " + inner
}
