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
	"github.com/consensys/go-bounds/pkg/util/source"
	"github.com/consensys/go-bounds/pkg/util/source/sexp"
)

// Node provides common functionality across all elements of the Abstract Syntax
// Tree.  For example, it ensures every element can be converted back into Lisp
// form for debugging.  Furthermore, it provides a reference point for
// constructing a suitable source map for reporting syntax errors.
type Node interface {
	// Lisp converts this node into its lisp representation.  This is primarily
	// used for debugging purposes.
	Lisp() sexp.SExp
}

// SourceMap is a shorthand for the source map used throughout the front end,
// mapping nodes back to the spans of text they were parsed from.
type SourceMap = source.Map[Node]

// Program represents a single translation unit.  That is, the set of all
// declarations found in one source file.
type Program struct {
	// Enumerations declared in this translation unit.
	Enums []*EnumDecl
	// Functions declared in this translation unit.
	Functions []*FunctionDecl
}

// Function looks up a function by name, returning nil if none exists.
func (p *Program) Function(name string) *FunctionDecl {
	for _, f := range p.Functions {
		if f.Name == name {
			return f
		}
	}
	//
	return nil
}
