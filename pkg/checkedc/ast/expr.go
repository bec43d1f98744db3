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
	"math/big"

	"github.com/consensys/go-bounds/pkg/util/source/sexp"
)

// Expr represents an arbitrary expression used within a function body, or
// within a bounds contract.  The set of expression shapes is closed, and
// consists of exactly those types declared in this file.
type Expr interface {
	Node
	// Type returns the static type of this expression.  This is nil until the
	// expression has been type checked.
	Type() Type
	// IsLValue determines whether or not this expression designates a storage
	// location (i.e. can be assigned to, or have its address taken).
	IsLValue() bool
	// AsConstant determines whether or not this is a constant expression.  If
	// so, the constant is returned; otherwise, nil is returned.
	AsConstant() *big.Int
}

// ============================================================================
// IntegerLiteral
// ============================================================================

// IntegerLiteral represents a literal integer constant, such as "0" or "5".
type IntegerLiteral struct {
	Value    big.Int
	DataType Type
}

// NewIntegerLiteral constructs a new (typed) integer literal.
func NewIntegerLiteral(value uint64, datatype Type) *IntegerLiteral {
	var val big.Int
	//
	val.SetUint64(value)
	//
	return &IntegerLiteral{val, datatype}
}

// Type implementation for Expr interface.
func (e *IntegerLiteral) Type() Type { return e.DataType }

// IsLValue implementation for Expr interface.
func (e *IntegerLiteral) IsLValue() bool { return false }

// AsConstant implementation for Expr interface.
func (e *IntegerLiteral) AsConstant() *big.Int {
	var val big.Int
	// Return a copy so the caller cannot mutate the literal.
	return val.Set(&e.Value)
}

// Lisp implementation for Node interface.
func (e *IntegerLiteral) Lisp() sexp.SExp {
	return sexp.NewSymbol(e.Value.String())
}

// ============================================================================
// VariableAccess
// ============================================================================

// VariableAccess represents an access to a named variable, parameter or
// enumeration constant.  The binding is nil until names are resolved.
type VariableAccess struct {
	Name    string
	Binding Binding
}

// Type implementation for Expr interface.
func (e *VariableAccess) Type() Type {
	if e.Binding == nil {
		return nil
	}
	//
	return e.Binding.BindingType()
}

// IsLValue implementation for Expr interface.  Variables are lvalues, whilst
// enumeration constants are not.
func (e *VariableAccess) IsLValue() bool {
	_, ok := e.Binding.(*VarDecl)
	return ok
}

// AsConstant implementation for Expr interface.
func (e *VariableAccess) AsConstant() *big.Int {
	if c, ok := e.Binding.(*EnumConstant); ok {
		return big.NewInt(c.Value)
	}
	//
	return nil
}

// Variable returns the variable declaration this access refers to, or nil if
// it refers to something else (e.g. an enumeration constant).
func (e *VariableAccess) Variable() *VarDecl {
	if d, ok := e.Binding.(*VarDecl); ok {
		return d
	}
	//
	return nil
}

// Lisp implementation for Node interface.
func (e *VariableAccess) Lisp() sexp.SExp {
	return sexp.NewSymbol(e.Name)
}

// ============================================================================
// Cast
// ============================================================================

// CastKind classifies the conversion performed by a cast.
type CastKind uint8

const (
	// LVALUE_TO_RVALUE reads the value held in an lvalue.
	LVALUE_TO_RVALUE CastKind = iota
	// ARRAY_TO_POINTER_DECAY converts an array into a pointer to its first
	// element.
	ARRAY_TO_POINTER_DECAY
	// NULL_TO_POINTER converts a null pointer constant into a pointer.
	NULL_TO_POINTER
	// BIT_CAST reinterprets one pointer type as another.
	BIT_CAST
	// INTEGRAL_TO_POINTER converts an arbitrary integer into a pointer.
	INTEGRAL_TO_POINTER
	// INTEGRAL_CAST converts between integer types.
	INTEGRAL_CAST
	// POINTER_TO_INTEGRAL converts a pointer into an integer.
	POINTER_TO_INTEGRAL
	// NO_OP converts between identical types.
	NO_OP
)

var castKindNames = []string{"LValueToRValue", "ArrayToPointerDecay", "NullToPointer", "BitCast",
	"IntegralToPointer", "IntegralCast", "PointerToIntegral", "NoOp"}

var castKindSymbols = []string{"read", "decay", "null", "bitcast", "int->ptr", "intcast", "ptr->int", "noop"}

func (k CastKind) String() string {
	return castKindNames[k]
}

// Cast represents a conversion of a value from one type to another.  Casts are
// either written explicitly in the source, or inserted implicitly by the type
// checker.
type Cast struct {
	Kind     CastKind
	Implicit bool
	Arg      Expr
	DataType Type
	// Width (in bits) of the converted value, or zero if not yet known.
	Width uint
}

// NewImplicitCast constructs a new implicit cast of the given kind.
func NewImplicitCast(kind CastKind, arg Expr, datatype Type) *Cast {
	return &Cast{kind, true, arg, datatype, 0}
}

// Type implementation for Expr interface.
func (e *Cast) Type() Type { return e.DataType }

// IsLValue implementation for Expr interface.
func (e *Cast) IsLValue() bool { return false }

// AsConstant implementation for Expr interface.  Only integer-to-integer and
// integer-to-pointer conversions preserve constant values, which are wrapped
// to the width of the target type.
func (e *Cast) AsConstant() *big.Int {
	switch e.Kind {
	case INTEGRAL_CAST, NULL_TO_POINTER, INTEGRAL_TO_POINTER, NO_OP:
		return Wrap(e.Arg.AsConstant(), e.DataType, e.Width)
	default:
		return nil
	}
}

// Lisp implementation for Node interface.
func (e *Cast) Lisp() sexp.SExp {
	if e.Implicit {
		return sexp.ListOf(castKindSymbols[e.Kind], e.Arg.Lisp())
	}
	//
	return sexp.ListOf("cast", e.DataType.Lisp(), e.Arg.Lisp())
}

// ============================================================================
// Unary
// ============================================================================

// UnaryOp identifies a unary operator.
type UnaryOp uint8

const (
	// ADDRESS_OF represents "&e".
	ADDRESS_OF UnaryOp = iota
	// DEREFERENCE represents "*e".
	DEREFERENCE
	// NEGATE represents "-e".
	NEGATE
	// PRE_INCREMENT represents "++e".
	PRE_INCREMENT
	// PRE_DECREMENT represents "--e".
	PRE_DECREMENT
)

var unaryOpSymbols = []string{"&", "*", "-", "++", "--"}

func (op UnaryOp) String() string {
	return unaryOpSymbols[op]
}

// Unary represents a unary operator applied to a single argument.
type Unary struct {
	Op       UnaryOp
	Arg      Expr
	DataType Type
	// Width (in bits) of an integer result, or zero if not yet known.
	Width uint
}

// Type implementation for Expr interface.
func (e *Unary) Type() Type { return e.DataType }

// IsLValue implementation for Expr interface.
func (e *Unary) IsLValue() bool { return e.Op == DEREFERENCE }

// AsConstant implementation for Expr interface.
func (e *Unary) AsConstant() *big.Int {
	if e.Op == NEGATE {
		if c := e.Arg.AsConstant(); c != nil {
			return Wrap(c.Neg(c), e.DataType, e.Width)
		}
	}
	//
	return nil
}

// Lisp implementation for Node interface.
func (e *Unary) Lisp() sexp.SExp {
	return sexp.ListOf(unaryOpSymbols[e.Op], e.Arg.Lisp())
}

// ============================================================================
// Constants
// ============================================================================

// Wrap reduces a constant (in place) into the range of values representable
// by an integer type of the given width in bits.  Signed types wrap in two's
// complement, whilst unsigned and pointer types wrap modulo 2^width.  A width
// of zero leaves the constant unchanged, as does a nil constant.
func Wrap(c *big.Int, datatype Type, width uint) *big.Int {
	if c == nil || width == 0 {
		return c
	}
	//
	var modulus big.Int
	//
	modulus.Lsh(big.NewInt(1), width)
	// Euclidean modulus, hence never negative
	c.Mod(c, &modulus)
	//
	if t, ok := datatype.(*ScalarType); ok && !t.Unsigned && c.Bit(int(width)-1) == 1 {
		c.Sub(c, &modulus)
	}
	//
	return c
}

// IsNullPointerConstant checks whether a given expression is a null pointer
// constant.  That is, an integer constant expression whose value is zero, or
// such an expression converted to a pointer.
func IsNullPointerConstant(e Expr) bool {
	if t := e.Type(); !IsInteger(t) && !IsPointer(t) {
		return false
	}
	//
	c := e.AsConstant()
	//
	return c != nil && c.Sign() == 0
}

// ============================================================================
// Subscript
// ============================================================================

// Subscript represents an array subscript "b[i]", which is equivalent to
// "*(b + i)".
type Subscript struct {
	Base     Expr
	Index    Expr
	DataType Type
}

// Type implementation for Expr interface.
func (e *Subscript) Type() Type { return e.DataType }

// IsLValue implementation for Expr interface.
func (e *Subscript) IsLValue() bool { return true }

// AsConstant implementation for Expr interface.
func (e *Subscript) AsConstant() *big.Int { return nil }

// Lisp implementation for Node interface.
func (e *Subscript) Lisp() sexp.SExp {
	return sexp.ListOf("index", e.Base.Lisp(), e.Index.Lisp())
}

// ============================================================================
// Binary
// ============================================================================

// BinaryOp identifies a binary arithmetic operator.
type BinaryOp uint8

const (
	// ADD represents "l + r", including pointer arithmetic.
	ADD BinaryOp = iota
	// SUB represents "l - r", including pointer arithmetic.
	SUB
	// MUL represents "l * r".
	MUL
	// DIV represents "l / r".
	DIV
)

var binaryOpSymbols = []string{"+", "-", "*", "/"}

func (op BinaryOp) String() string {
	return binaryOpSymbols[op]
}

// Binary represents a binary arithmetic operator.
type Binary struct {
	Op       BinaryOp
	Lhs      Expr
	Rhs      Expr
	DataType Type
	// Width (in bits) of an integer result, or zero if not yet known.
	Width uint
}

// Type implementation for Expr interface.
func (e *Binary) Type() Type { return e.DataType }

// IsLValue implementation for Expr interface.
func (e *Binary) IsLValue() bool { return false }

// AsConstant implementation for Expr interface.  Pointer arithmetic is never
// constant.
func (e *Binary) AsConstant() *big.Int {
	if e.DataType != nil && !IsInteger(e.DataType) {
		return nil
	}
	//
	lhs := e.Lhs.AsConstant()
	rhs := e.Rhs.AsConstant()
	//
	if lhs == nil || rhs == nil {
		return nil
	}
	//
	switch e.Op {
	case ADD:
		lhs.Add(lhs, rhs)
	case SUB:
		lhs.Sub(lhs, rhs)
	case MUL:
		lhs.Mul(lhs, rhs)
	case DIV:
		if rhs.Sign() == 0 {
			return nil
		}
		// C division truncates towards zero
		lhs.Quo(lhs, rhs)
	default:
		panic(fmt.Sprintf("unknown binary operator (%d)", e.Op))
	}
	//
	return Wrap(lhs, e.DataType, e.Width)
}

// Lisp implementation for Node interface.
func (e *Binary) Lisp() sexp.SExp {
	return sexp.ListOf(binaryOpSymbols[e.Op], e.Lhs.Lisp(), e.Rhs.Lisp())
}

// ============================================================================
// Assign
// ============================================================================

// Assign represents a simple assignment "lhs = rhs".  The value of an
// assignment is the value stored.
type Assign struct {
	Lhs      Expr
	Rhs      Expr
	DataType Type
}

// Type implementation for Expr interface.
func (e *Assign) Type() Type { return e.DataType }

// IsLValue implementation for Expr interface.
func (e *Assign) IsLValue() bool { return false }

// AsConstant implementation for Expr interface.
func (e *Assign) AsConstant() *big.Int { return nil }

// Lisp implementation for Node interface.
func (e *Assign) Lisp() sexp.SExp {
	return sexp.ListOf("=", e.Lhs.Lisp(), e.Rhs.Lisp())
}

// ============================================================================
// SizeOf
// ============================================================================

// SizeOf represents "sizeof(T)" for some type T.  The size itself is only
// known once a data layout has been applied by the type checker.
type SizeOf struct {
	Arg      Type
	Size     uint64
	DataType Type
}

// Type implementation for Expr interface.
func (e *SizeOf) Type() Type { return e.DataType }

// IsLValue implementation for Expr interface.
func (e *SizeOf) IsLValue() bool { return false }

// AsConstant implementation for Expr interface.
func (e *SizeOf) AsConstant() *big.Int {
	if e.DataType == nil {
		return nil
	}
	//
	var val big.Int
	//
	return val.SetUint64(e.Size)
}

// Lisp implementation for Node interface.
func (e *SizeOf) Lisp() sexp.SExp {
	return sexp.ListOf("sizeof", e.Arg.Lisp())
}

// ============================================================================
// Call
// ============================================================================

// Call represents a call to a named function.
type Call struct {
	Name     string
	Function *FunctionDecl
	Args     []Expr
}

// Type implementation for Expr interface.
func (e *Call) Type() Type {
	if e.Function == nil {
		return nil
	}
	//
	return e.Function.Return
}

// IsLValue implementation for Expr interface.
func (e *Call) IsLValue() bool { return false }

// AsConstant implementation for Expr interface.
func (e *Call) AsConstant() *big.Int { return nil }

// Lisp implementation for Node interface.
func (e *Call) Lisp() sexp.SExp {
	args := make([]sexp.SExp, len(e.Args))
	//
	for i, arg := range e.Args {
		args[i] = arg.Lisp()
	}
	//
	return sexp.ListOf(e.Name, args...)
}
