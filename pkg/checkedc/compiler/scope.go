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

import "github.com/consensys/go-bounds/pkg/checkedc/ast"

// GlobalScope represents the top-level scope of a translation unit, which holds
// all function declarations and enumeration constants.
type GlobalScope struct {
	functions map[string]*ast.FunctionDecl
	constants map[string]*ast.EnumConstant
}

// NewGlobalScope constructs an initially empty global scope.
func NewGlobalScope() *GlobalScope {
	return &GlobalScope{make(map[string]*ast.FunctionDecl), make(map[string]*ast.EnumConstant)}
}

// DeclareFunction declares a new function in this scope, returning false if the
// name is already taken.
func (p *GlobalScope) DeclareFunction(fn *ast.FunctionDecl) bool {
	if p.IsDeclared(fn.Name) {
		return false
	}
	//
	p.functions[fn.Name] = fn
	//
	return true
}

// DeclareConstant declares a new enumeration constant in this scope, returning
// false if the name is already taken.
func (p *GlobalScope) DeclareConstant(c *ast.EnumConstant) bool {
	if p.IsDeclared(c.Name) {
		return false
	}
	//
	p.constants[c.Name] = c
	//
	return true
}

// IsDeclared checks whether a given name is declared in this scope.
func (p *GlobalScope) IsDeclared(name string) bool {
	_, ok1 := p.functions[name]
	_, ok2 := p.constants[name]
	//
	return ok1 || ok2
}

// Function looks up a function in this scope, returning nil if none exists.
func (p *GlobalScope) Function(name string) *ast.FunctionDecl {
	return p.functions[name]
}

// LocalScope represents the scope of a single function body.  Parameters and
// local variables share the same scope, and may shadow enumeration constants.
type LocalScope struct {
	global    *GlobalScope
	variables map[string]*ast.VarDecl
}

// NewLocalScope constructs an empty local scope within a given global scope.
func NewLocalScope(global *GlobalScope) *LocalScope {
	return &LocalScope{global, make(map[string]*ast.VarDecl)}
}

// Declare a variable in this scope, returning false if the name is already
// taken by another variable.
func (p *LocalScope) Declare(decl *ast.VarDecl) bool {
	if _, ok := p.variables[decl.Name]; ok {
		return false
	}
	//
	p.variables[decl.Name] = decl
	//
	return true
}

// Bind looks up the binding for a given name, checking variables first and then
// enumeration constants.  This returns nil if no binding exists.
func (p *LocalScope) Bind(name string) ast.Binding {
	if decl, ok := p.variables[name]; ok {
		return decl
	} else if c, ok := p.global.constants[name]; ok {
		return c
	}
	//
	return nil
}
