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

	"github.com/consensys/go-bounds/pkg/checkedc/ast"
	"github.com/consensys/go-bounds/pkg/util/source"
)

// ResolveProgram resolves all symbols used within a given program to their
// declarations.  Symbols are either functions, variables (including
// parameters) or enumeration constants.  Parameters are visible in all
// parameter contracts, whilst local variables are visible from their point of
// declaration onwards (including their own contract and initialiser).
func ResolveProgram(program ast.Program, srcmap *source.Map[ast.Node]) []SyntaxError {
	r := resolver{NewGlobalScope(), srcmap, nil}
	// Declare all enumeration constants
	for _, enum := range program.Enums {
		for _, c := range enum.Constants {
			if !r.global.DeclareConstant(c) {
				r.errors = append(r.errors, *srcmap.SyntaxError(c, "symbol already declared"))
			}
		}
	}
	// Declare all functions, so they can be called in any order
	for _, fn := range program.Functions {
		if !r.global.DeclareFunction(fn) {
			r.errors = append(r.errors, *srcmap.SyntaxError(fn, "symbol already declared"))
		}
	}
	// Resolve function bodies
	for _, fn := range program.Functions {
		r.resolveFunction(fn)
	}
	//
	return r.errors
}

type resolver struct {
	global *GlobalScope
	srcmap *source.Map[ast.Node]
	errors []SyntaxError
}

func (r *resolver) resolveFunction(fn *ast.FunctionDecl) {
	scope := NewLocalScope(r.global)
	// Declare parameters
	for _, param := range fn.Params {
		r.declare(scope, param)
	}
	// Resolve parameter contracts
	for _, param := range fn.Params {
		r.resolveBounds(scope, param.Bounds)
	}
	// Resolve statements
	for _, stmt := range fn.Body {
		switch s := stmt.(type) {
		case *ast.DeclStmt:
			r.declare(scope, s.Var)
			r.resolveBounds(scope, s.Var.Bounds)
			//
			if s.Var.Init != nil {
				r.resolveExpr(scope, s.Var.Init)
			}
		case *ast.ExprStmt:
			r.resolveExpr(scope, s.Expr)
		default:
			panic(fmt.Sprintf("unknown statement encountered (%s)", stmt.Lisp().String(false)))
		}
	}
}

func (r *resolver) declare(scope *LocalScope, decl *ast.VarDecl) {
	if r.global.Function(decl.Name) != nil || !scope.Declare(decl) {
		r.errors = append(r.errors, *r.srcmap.SyntaxError(decl, "symbol already declared"))
	}
}

func (r *resolver) resolveBounds(scope *LocalScope, contract ast.BoundsExpr) {
	if contract != nil {
		for _, e := range contract.Exprs() {
			r.resolveExpr(scope, e)
		}
	}
}

func (r *resolver) resolveExpr(scope *LocalScope, e ast.Expr) {
	ast.Walk(e, func(n ast.Expr) {
		switch n := n.(type) {
		case *ast.VariableAccess:
			if n.Binding = scope.Bind(n.Name); n.Binding == nil {
				r.errors = append(r.errors, *r.srcmap.SyntaxError(n, fmt.Sprintf("unknown symbol \"%s\"", n.Name)))
			}
		case *ast.Call:
			if n.Function = r.global.Function(n.Name); n.Function == nil {
				r.errors = append(r.errors, *r.srcmap.SyntaxError(n, fmt.Sprintf("unknown function \"%s\"", n.Name)))
			} else if len(n.Args) != len(n.Function.Params) {
				msg := fmt.Sprintf("incorrect number of arguments (expected %d, found %d)", len(n.Function.Params),
					len(n.Args))
				r.errors = append(r.errors, *r.srcmap.SyntaxError(n, msg))
			}
		}
	})
}
