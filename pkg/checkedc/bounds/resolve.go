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

	"github.com/consensys/go-bounds/pkg/checkedc/ast"
	"github.com/consensys/go-bounds/pkg/checkedc/target"
	log "github.com/sirupsen/logrus"
)

// SiteKind distinguishes the two kinds of site at which a value is written into
// an array pointer.
type SiteKind uint8

const (
	// ASSIGNMENT represents a simple assignment "lhs = rhs".
	ASSIGNMENT SiteKind = iota
	// DECLARATION represents a declaration with an initialiser.
	DECLARATION
)

// Site records the bounds inferred at a point where a value is written into an
// array pointer.
type Site struct {
	Kind SiteKind
	// Function enclosing this site.
	Function *ast.FunctionDecl
	// Node is the assignment (or declaration) itself.
	Node ast.Node
	// Source is the expression whose value is written.
	Source ast.Expr
	// Declared is the contract of the destination (or nil if none).
	Declared ast.BoundsExpr
	// TargetBounds are the normalized declared bounds of the destination.
	TargetBounds Bounds
	// SourceBounds are the bounds synthesized for the source expression.
	SourceBounds Bounds
	// Underspecified indicates the destination contract could not be
	// expressed in element units.
	Underspecified bool
}

// IsValid determines whether the value written has some provable bounds.  This
// says nothing about whether those bounds satisfy the target bounds.
func (p *Site) IsValid() bool {
	return !p.SourceBounds.IsInvalid()
}

// FailureKind classifies the failures reported by the resolver.
type FailureKind uint8

const (
	// MISSING_BOUNDS indicates a value without provable bounds is written into
	// an array pointer.
	MISSING_BOUNDS FailureKind = iota
)

// Failure identifies an expression which failed bounds resolution.
type Failure struct {
	Kind FailureKind
	// Expr is the offending expression.
	Expr ast.Expr
	// Site at which the failure arose.
	Site *Site
}

// Message returns a human-readable description of this failure.
func (p *Failure) Message() string {
	switch p.Kind {
	case MISSING_BOUNDS:
		return "expression has no bounds"
	default:
		panic(fmt.Sprintf("unknown failure kind (%d)", p.Kind))
	}
}

// Resolver determines the target and source bounds at every site where a value
// is written into an array pointer.  The resolver does not check that the
// source bounds satisfy the target bounds.  Resolution carries no state
// between sites.
type Resolver struct {
	layout      *target.DataLayout
	normalizer  *Normalizer
	synthesizer *Synthesizer
}

// NewResolver constructs a resolver for a given data layout.
func NewResolver(layout *target.DataLayout) *Resolver {
	normalizer := NewNormalizer(layout)
	//
	return &Resolver{layout, normalizer, NewSynthesizer(normalizer)}
}

// ResolveProgram resolves all sites within all functions of a given program.
func (p *Resolver) ResolveProgram(program ast.Program) ([]*Site, []Failure) {
	var (
		sites    []*Site
		failures []Failure
	)
	//
	for _, fn := range program.Functions {
		s, f := p.ResolveFunction(fn)
		sites = append(sites, s...)
		failures = append(failures, f...)
	}
	//
	return sites, failures
}

// ResolveFunction resolves all sites within a given function.  Sites are
// returned in the order they occur, with enclosing sites before any sites
// nested within them.
func (p *Resolver) ResolveFunction(fn *ast.FunctionDecl) ([]*Site, []Failure) {
	var sites []*Site
	//
	visit := func(e ast.Expr) {
		ast.Walk(e, func(n ast.Expr) {
			if assign, ok := n.(*ast.Assign); ok && ast.IsArrayPointer(assign.Lhs.Type()) {
				sites = append(sites, p.ResolveAssignment(fn, assign))
			}
		})
	}
	//
	for _, stmt := range fn.Body {
		switch s := stmt.(type) {
		case *ast.DeclStmt:
			if s.Var.Init == nil {
				continue
			} else if ast.IsArrayPointer(s.Var.DataType) {
				sites = append(sites, p.ResolveDeclaration(fn, s.Var))
			}
			//
			visit(s.Var.Init)
		case *ast.ExprStmt:
			visit(s.Expr)
		default:
			panic(fmt.Sprintf("unknown statement encountered (%s)", stmt.Lisp().String(false)))
		}
	}
	//
	return sites, failures(sites)
}

// ResolveAssignment resolves the target and source bounds of a simple
// assignment whose left-hand side is an array pointer.
func (p *Resolver) ResolveAssignment(fn *ast.FunctionDecl, e *ast.Assign) *Site {
	site := &Site{Kind: ASSIGNMENT, Function: fn, Node: e, Source: e.Rhs, TargetBounds: INVALID}
	// Only variables have declared contracts
	if v, ok := e.Lhs.(*ast.VariableAccess); ok && v.Variable() != nil {
		declared := p.normalizer.Normalize(v.Variable(), v)
		site.Declared = v.Variable().Bounds
		site.TargetBounds, site.Underspecified = declared.Bounds, declared.Underspecified
	}
	//
	site.SourceBounds = p.synthesizer.Synthesize(e.Rhs)
	p.log(site)
	//
	return site
}

// ResolveDeclaration resolves the declared and initialiser bounds of a
// declaration of an array pointer with an initialiser.
func (p *Resolver) ResolveDeclaration(fn *ast.FunctionDecl, decl *ast.VarDecl) *Site {
	object := &ast.VariableAccess{Name: decl.Name, Binding: decl}
	declared := p.normalizer.Normalize(decl, object)
	//
	site := &Site{Kind: DECLARATION, Function: fn, Node: decl, Source: decl.Init, Declared: decl.Bounds,
		TargetBounds: declared.Bounds, Underspecified: declared.Underspecified}
	site.SourceBounds = p.synthesizer.Synthesize(decl.Init)
	p.log(site)
	//
	return site
}

func (p *Resolver) log(site *Site) {
	if !log.IsLevelEnabled(log.DebugLevel) {
		return
	}
	//
	log.Debugf("%s: target %s, source %s", site.Node.Lisp().String(false), site.TargetBounds.String(),
		site.SourceBounds.String())
	//
	if r, ok := site.TargetBounds.(*Range); ok {
		if n, ok := r.ByteSize(p.layout); ok {
			log.Debugf("%s: target region spans %d bytes", site.Node.Lisp().String(false), n)
		}
	}
}

// Each invalid source produces exactly one failure.
func failures(sites []*Site) []Failure {
	var failures []Failure
	//
	for _, site := range sites {
		if !site.IsValid() {
			failures = append(failures, Failure{MISSING_BOUNDS, site.Source, site})
		}
	}
	//
	return failures
}
