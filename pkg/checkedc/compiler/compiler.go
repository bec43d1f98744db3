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
	"github.com/consensys/go-bounds/pkg/checkedc/ast"
	"github.com/consensys/go-bounds/pkg/checkedc/bounds"
	"github.com/consensys/go-bounds/pkg/checkedc/target"
	"github.com/consensys/go-bounds/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// Unit represents a successfully compiled translation unit, along with the
// bounds inferred for it.
type Unit struct {
	// Source file from which this unit was compiled.
	File *source.File
	// Program declared in this unit.
	Program ast.Program
	// Sites at which values are written into array pointers.
	Sites []*bounds.Site
	// Mapping of nodes to their spans in the source file.
	SourceMap *source.Map[ast.Node]
}

// Compiler packages up everything needed to compile a set of translation
// units.
type Compiler struct {
	layout target.DataLayout
}

// NewCompiler constructs a compiler for a given data layout.
func NewCompiler(layout target.DataLayout) *Compiler {
	return &Compiler{layout}
}

// Compile a set of source files, each of which is a separate translation unit.
// Translation units are compiled in parallel, since they share no state.  Units
// are returned in the same order as the source files given.  Units which fail
// to compile are nil.
func (p *Compiler) Compile(srcfiles ...*source.File) ([]*Unit, []SyntaxError) {
	var (
		units   = make([]*Unit, len(srcfiles))
		results = make([][]SyntaxError, len(srcfiles))
		errors  []SyntaxError
		c       = make(chan unitResult, len(srcfiles))
	)
	// Dispatch go-routines
	for i, srcfile := range srcfiles {
		go func(i int, srcfile *source.File) {
			unit, errs := p.CompileUnit(srcfile)
			c <- unitResult{i, unit, errs}
		}(i, srcfile)
	}
	// Collect results
	for range srcfiles {
		res := <-c
		units[res.index], results[res.index] = res.unit, res.errors
	}
	// Report errors in file order, for determinism
	for _, errs := range results {
		errors = append(errors, errs...)
	}
	//
	return units, errors
}

// Outcome of compiling the translation unit at a given index.
type unitResult struct {
	index  int
	unit   *Unit
	errors []SyntaxError
}

// CompileUnit compiles a single translation unit.  The unit is parsed, its
// symbols are resolved and its types checked.  Finally, bounds are inferred
// for every write into an array pointer, and a syntax error is reported for
// every value written without provable bounds.
func (p *Compiler) CompileUnit(srcfile *source.File) (*Unit, []SyntaxError) {
	log.Debugf("compiling %s", srcfile.Filename())
	// Parse the source file
	program, srcmap, errs := ParseSourceFile(srcfile)
	//
	if len(errs) > 0 {
		return nil, errs
	}
	// Resolve symbols
	if errs = ResolveProgram(program, srcmap); len(errs) > 0 {
		return nil, errs
	}
	// Check types
	if errs = TypeCheckProgram(program, &p.layout, srcmap); len(errs) > 0 {
		return nil, errs
	}
	// Infer bounds
	sites, failures := bounds.NewResolver(&p.layout).ResolveProgram(program)
	//
	for _, failure := range failures {
		errs = append(errs, *srcmap.SyntaxError(failure.Expr, failure.Message()))
	}
	//
	return &Unit{srcfile, program, sites, srcmap}, errs
}
