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

// Binding represents something which a variable access can refer to, namely a
// variable (or parameter) declaration, or an enumeration constant.
type Binding interface {
	Node
	// Identifier returns the name under which this binding is declared.
	Identifier() string
	// BindingType returns the declared type of this binding.
	BindingType() Type
}

// ============================================================================
// Variables
// ============================================================================

// VarKind distinguishes local variables from function parameters.
type VarKind uint8

const (
	// LOCAL indicates a variable declared within a function body.
	LOCAL VarKind = iota
	// PARAMETER indicates a function parameter.
	PARAMETER
)

// VarDecl represents the declaration of a local variable or parameter.  A
// declaration may carry a bounds contract which, once declared, is fixed for
// the lifetime of the variable.
type VarDecl struct {
	Name     string
	Kind     VarKind
	DataType Type
	// Declared bounds contract (or nil if none).
	Bounds BoundsExpr
	// Initialising expression (or nil if none).  Parameters never have an
	// initialiser.
	Init Expr
}

// NewVarDecl constructs a new variable declaration.
func NewVarDecl(name string, kind VarKind, datatype Type, bounds BoundsExpr, init Expr) *VarDecl {
	return &VarDecl{name, kind, datatype, bounds, init}
}

// Identifier implementation for Binding interface.
func (d *VarDecl) Identifier() string {
	return d.Name
}

// BindingType implementation for Binding interface.
func (d *VarDecl) BindingType() Type {
	return d.DataType
}

// HasBounds checks whether this variable has a declared bounds contract.
func (d *VarDecl) HasBounds() bool {
	return d.Bounds != nil
}

// Lisp implementation for Node interface.
func (d *VarDecl) Lisp() sexp.SExp {
	var elements []sexp.SExp
	//
	if d.Kind == LOCAL {
		elements = append(elements, sexp.NewSymbol("var"))
	}
	//
	elements = append(elements, sexp.NewSymbol(d.Name), d.DataType.Lisp())
	//
	if d.Bounds != nil {
		elements = append(elements, d.Bounds.Lisp())
	}
	//
	if d.Init != nil {
		elements = append(elements, d.Init.Lisp())
	}
	//
	return sexp.NewList(elements)
}

// ============================================================================
// Functions
// ============================================================================

// FunctionDecl represents a function declaration, along with its body.
type FunctionDecl struct {
	Name   string
	Params []*VarDecl
	Return Type
	Body   []Stmt
}

// Parameter returns the parameter with the given name, or nil if none exists.
func (d *FunctionDecl) Parameter(name string) *VarDecl {
	for _, p := range d.Params {
		if p.Name == name {
			return p
		}
	}
	//
	return nil
}

// Lisp implementation for Node interface.
func (d *FunctionDecl) Lisp() sexp.SExp {
	params := make([]sexp.SExp, len(d.Params))
	//
	for i, p := range d.Params {
		params[i] = p.Lisp()
	}
	//
	elements := []sexp.SExp{sexp.NewSymbol("defun"), sexp.NewSymbol(d.Name), sexp.NewList(params), d.Return.Lisp()}
	//
	for _, s := range d.Body {
		elements = append(elements, s.Lisp())
	}
	//
	return sexp.NewList(elements)
}

// ============================================================================
// Enumerations
// ============================================================================

// EnumDecl represents the declaration of an enumeration.
type EnumDecl struct {
	Name      string
	Constants []*EnumConstant
}

// Lisp implementation for Node interface.
func (d *EnumDecl) Lisp() sexp.SExp {
	elements := []sexp.SExp{sexp.NewSymbol("defenum"), sexp.NewSymbol(d.Name)}
	//
	for _, c := range d.Constants {
		elements = append(elements, c.Lisp())
	}
	//
	return sexp.NewList(elements)
}

// EnumConstant represents a single constant declared by an enumeration.
// Enumeration constants have type int.
type EnumConstant struct {
	Name  string
	Value int64
}

// Identifier implementation for Binding interface.
func (c *EnumConstant) Identifier() string {
	return c.Name
}

// BindingType implementation for Binding interface.
func (c *EnumConstant) BindingType() Type {
	return INT_TYPE
}

// Lisp implementation for Node interface.
func (c *EnumConstant) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol(c.Name), sexp.NewSymbol(fmt.Sprintf("%d", c.Value))})
}
