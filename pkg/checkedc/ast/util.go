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

import "fmt"

// Rewriter is applied to each node visited by Rewrite.  Returning a non-nil
// expression replaces that node (and its children) in the rewritten copy.
type Rewriter func(Expr) Expr

// Clone produces a deep copy of a given expression.  Bindings, functions and
// types are shared with the original, since these are immutable once resolved.
func Clone(e Expr) Expr {
	return Rewrite(e, func(Expr) Expr { return nil })
}

// Rewrite produces a deep copy of a given expression, where the rewriter can
// substitute any subexpression in the copy.  The rewriter is applied top-down,
// such that outer expressions are considered before their children.
func Rewrite(e Expr, fn Rewriter) Expr {
	if r := fn(e); r != nil {
		return r
	}
	//
	switch e := e.(type) {
	case *IntegerLiteral:
		lit := &IntegerLiteral{DataType: e.DataType}
		lit.Value.Set(&e.Value)
		//
		return lit
	case *VariableAccess:
		return &VariableAccess{e.Name, e.Binding}
	case *Cast:
		return &Cast{e.Kind, e.Implicit, Rewrite(e.Arg, fn), e.DataType, e.Width}
	case *Unary:
		return &Unary{e.Op, Rewrite(e.Arg, fn), e.DataType, e.Width}
	case *Subscript:
		return &Subscript{Rewrite(e.Base, fn), Rewrite(e.Index, fn), e.DataType}
	case *Binary:
		return &Binary{e.Op, Rewrite(e.Lhs, fn), Rewrite(e.Rhs, fn), e.DataType, e.Width}
	case *Assign:
		return &Assign{Rewrite(e.Lhs, fn), Rewrite(e.Rhs, fn), e.DataType}
	case *SizeOf:
		return &SizeOf{e.Arg, e.Size, e.DataType}
	case *Call:
		args := make([]Expr, len(e.Args))
		//
		for i, arg := range e.Args {
			args[i] = Rewrite(arg, fn)
		}
		//
		return &Call{e.Name, e.Function, args}
	default:
		panic(fmt.Sprintf("unknown expression encountered (%s)", e.Lisp().String(false)))
	}
}

// Children returns the immediate subexpressions of a given expression, in
// evaluation order.
func Children(e Expr) []Expr {
	switch e := e.(type) {
	case *IntegerLiteral, *VariableAccess, *SizeOf:
		return nil
	case *Cast:
		return []Expr{e.Arg}
	case *Unary:
		return []Expr{e.Arg}
	case *Subscript:
		return []Expr{e.Base, e.Index}
	case *Binary:
		return []Expr{e.Lhs, e.Rhs}
	case *Assign:
		return []Expr{e.Lhs, e.Rhs}
	case *Call:
		return e.Args
	default:
		panic(fmt.Sprintf("unknown expression encountered (%s)", e.Lisp().String(false)))
	}
}

// Walk visits every node of a given expression tree, outermost first.
func Walk(e Expr, visit func(Expr)) {
	visit(e)
	//
	for _, child := range Children(e) {
		Walk(child, visit)
	}
}

// Equal determines whether two expressions are structurally identical.  That
// is, they have the same shape, refer to the same declarations and have the
// same static types.
func Equal(lhs Expr, rhs Expr) bool {
	if !equalTypes(lhs.Type(), rhs.Type()) {
		return false
	}
	//
	switch l := lhs.(type) {
	case *IntegerLiteral:
		r, ok := rhs.(*IntegerLiteral)
		return ok && l.Value.Cmp(&r.Value) == 0
	case *VariableAccess:
		r, ok := rhs.(*VariableAccess)
		return ok && l.Name == r.Name && l.Binding == r.Binding
	case *Cast:
		r, ok := rhs.(*Cast)
		return ok && l.Kind == r.Kind && l.Implicit == r.Implicit && Equal(l.Arg, r.Arg)
	case *Unary:
		r, ok := rhs.(*Unary)
		return ok && l.Op == r.Op && Equal(l.Arg, r.Arg)
	case *Subscript:
		r, ok := rhs.(*Subscript)
		return ok && Equal(l.Base, r.Base) && Equal(l.Index, r.Index)
	case *Binary:
		r, ok := rhs.(*Binary)
		return ok && l.Op == r.Op && Equal(l.Lhs, r.Lhs) && Equal(l.Rhs, r.Rhs)
	case *Assign:
		r, ok := rhs.(*Assign)
		return ok && Equal(l.Lhs, r.Lhs) && Equal(l.Rhs, r.Rhs)
	case *SizeOf:
		r, ok := rhs.(*SizeOf)
		return ok && l.Arg.Equals(r.Arg)
	case *Call:
		r, ok := rhs.(*Call)
		//
		if !ok || l.Name != r.Name || len(l.Args) != len(r.Args) {
			return false
		}
		//
		for i := range l.Args {
			if !Equal(l.Args[i], r.Args[i]) {
				return false
			}
		}
		//
		return true
	default:
		panic(fmt.Sprintf("unknown expression encountered (%s)", lhs.Lisp().String(false)))
	}
}

// HasSideEffects determines whether evaluating a given expression may modify
// program state.  Assignments, increments and decrements all have side effects.
// Calls are assumed to have side effects.
func HasSideEffects(e Expr) bool {
	switch e := e.(type) {
	case *Assign, *Call:
		return true
	case *Unary:
		if e.Op == PRE_INCREMENT || e.Op == PRE_DECREMENT {
			return true
		}
	}
	//
	for _, child := range Children(e) {
		if HasSideEffects(child) {
			return true
		}
	}
	//
	return false
}

// References determines whether a given expression refers to a given binding
// anywhere.
func References(e Expr, binding Binding) bool {
	found := false
	//
	Walk(e, func(n Expr) {
		if v, ok := n.(*VariableAccess); ok && v.Binding == binding {
			found = true
		}
	})
	//
	return found
}

func equalTypes(lhs Type, rhs Type) bool {
	if lhs == nil || rhs == nil {
		return lhs == nil && rhs == nil
	}
	//
	return lhs.Equals(rhs)
}
