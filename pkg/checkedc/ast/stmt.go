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

// Stmt represents a statement within a function body.
type Stmt interface {
	Node
	// Declaration returns the variable declared by this statement, or nil if
	// it declares nothing.
	Declaration() *VarDecl
}

// DeclStmt represents the declaration of a local variable, possibly with an
// initialiser.
type DeclStmt struct {
	Var *VarDecl
}

// Declaration implementation for Stmt interface.
func (s *DeclStmt) Declaration() *VarDecl { return s.Var }

// Lisp implementation for Node interface.
func (s *DeclStmt) Lisp() sexp.SExp {
	return s.Var.Lisp()
}

// ExprStmt represents an expression evaluated for its side effects, such as an
// assignment.
type ExprStmt struct {
	Expr Expr
}

// Declaration implementation for Stmt interface.
func (s *ExprStmt) Declaration() *VarDecl { return nil }

// Lisp implementation for Node interface.
func (s *ExprStmt) Lisp() sexp.SExp {
	return s.Expr.Lisp()
}
