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
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"unicode"

	"github.com/consensys/go-bounds/pkg/checkedc/ast"
	"github.com/consensys/go-bounds/pkg/util/source"
	"github.com/consensys/go-bounds/pkg/util/source/sexp"
)

// SyntaxError defines the kind of errors that can be reported by this compiler.
// Syntax errors are always associated with some line in one of the original
// source files.  For simplicity, we reuse existing notion of syntax error from
// the S-Expression library.
type SyntaxError = source.SyntaxError

// ===================================================================
// Public
// ===================================================================

// ParseSourceFile parses the contents of a single lisp file into a program.
// Names are not resolved, and types are not checked at this stage.
func ParseSourceFile(srcfile *source.File) (ast.Program, *source.Map[ast.Node], []SyntaxError) {
	var (
		program ast.Program
		errors  []SyntaxError
	)
	// Parse bytes into an S-Expression
	terms, srcmap, err := sexp.ParseAll(srcfile)
	// Check test file parsed ok
	if err != nil {
		return program, nil, []SyntaxError{*err}
	}
	// Construct parser for checked C syntax
	p := NewParser(srcfile, srcmap)
	// Parse each declaration in turn
	for _, term := range terms {
		var errs []SyntaxError
		//
		switch {
		case term.AsList() != nil && term.AsList().Head() == "defun":
			var fn *ast.FunctionDecl
			//
			if fn, errs = p.parseDefun(term.AsList()); len(errs) == 0 {
				program.Functions = append(program.Functions, fn)
			}
		case term.AsList() != nil && term.AsList().Head() == "defenum":
			var enum *ast.EnumDecl
			//
			if enum, errs = p.parseDefEnum(term.AsList()); len(errs) == 0 {
				program.Enums = append(program.Enums, enum)
			}
		default:
			errs = p.translator.SyntaxErrors(term, "unknown declaration")
		}
		//
		errors = append(errors, errs...)
	}
	// Done
	if len(errors) > 0 {
		return program, nil, errors
	}
	//
	return program, p.NodeMap(), nil
}

// Parser is responsible for parsing S-expressions into an Abstract Syntax
// Tree.
type Parser struct {
	// Translator used for expressions
	translator *sexp.Translator[ast.Expr]
	// Mapping from constructed AST nodes to their spans in the original text.
	nodemap *source.Map[ast.Node]
}

// NewParser constructs a new parser using a given mapping from S-Expressions
// to spans in the underlying source file.
func NewParser(srcfile *source.File, srcmap *source.Map[sexp.SExp]) *Parser {
	p := sexp.NewTranslator[ast.Expr](srcfile, srcmap)
	// Construct (initially empty) node map
	nodemap := source.NewSourceMap[ast.Node](srcmap.Source())
	// Construct parser
	parser := &Parser{p, nodemap}
	// Configure expression translator
	p.AddSymbolRule(constantParserRule)
	p.AddSymbolRule(varAccessParserRule)
	p.AddRecursiveListRule("+", binaryParserRule(ast.ADD))
	p.AddRecursiveListRule("-", subParserRule)
	p.AddRecursiveListRule("*", mulParserRule)
	p.AddRecursiveListRule("/", binaryParserRule(ast.DIV))
	p.AddRecursiveListRule("&", unaryParserRule(ast.ADDRESS_OF))
	p.AddRecursiveListRule("++", unaryParserRule(ast.PRE_INCREMENT))
	p.AddRecursiveListRule("--", unaryParserRule(ast.PRE_DECREMENT))
	p.AddRecursiveListRule("index", indexParserRule)
	p.AddRecursiveListRule("=", assignParserRule)
	p.AddListRule("cast", castParserRule(parser))
	p.AddListRule("sizeof", sizeofParserRule(parser))
	p.AddDefaultListRule(invokeParserRule(parser))
	//
	return parser
}

// NodeMap extract the node map constructed by this parser.  A key task here is
// to copy all mappings from the expression translator, which maintains its own
// map.
func (p *Parser) NodeMap() *source.Map[ast.Node] {
	// Copy all mappings from translator's source map into this map.  A mapping
	// function is required to coerce the types.
	source.JoinMaps(p.nodemap, p.translator.SourceMap(), func(e ast.Expr) ast.Node { return e })
	// Done
	return p.nodemap
}

// Register a source mapping from a given S-Expression to a given target node.
func (p *Parser) mapSourceNode(from sexp.SExp, to ast.Node) {
	span := p.translator.SpanOf(from)
	p.nodemap.Put(to, span)
}

// ===================================================================
// Declarations
// ===================================================================

// Parse an enumeration declaration of the form "(defenum name c1 ... cn)",
// where each constant is either a symbol or a list "(name value)".  Constants
// without an explicit value take the value of their predecessor plus one.
func (p *Parser) parseDefEnum(list *sexp.List) (*ast.EnumDecl, []SyntaxError) {
	var (
		errors []SyntaxError
		next   int64
	)
	//
	if list.Len() < 2 || !isIdentifier(list.Get(1)) {
		return nil, p.translator.SyntaxErrors(list, "malformed enum declaration")
	}
	//
	enum := &ast.EnumDecl{Name: list.Get(1).AsSymbol().Value}
	//
	for _, element := range list.Elements[2:] {
		var (
			name  *sexp.Symbol
			value = next
		)
		//
		if isIdentifier(element) {
			name = element.AsSymbol()
		} else if l := element.AsList(); l != nil && l.Len() == 2 && isIdentifier(l.Get(0)) && l.Get(1).AsSymbol() != nil {
			val, err := strconv.ParseInt(l.Get(1).AsSymbol().Value, 10, 32)
			//
			if err != nil {
				errors = append(errors, *p.translator.SyntaxError(l.Get(1), "invalid enum value"))
				continue
			}
			//
			name, value = l.Get(0).AsSymbol(), val
		} else {
			errors = append(errors, *p.translator.SyntaxError(element, "malformed enum constant"))
			continue
		}
		//
		constant := &ast.EnumConstant{Name: name.Value, Value: value}
		enum.Constants = append(enum.Constants, constant)
		p.mapSourceNode(element, constant)
		//
		next = value + 1
	}
	//
	if len(errors) > 0 {
		return nil, errors
	}
	//
	p.mapSourceNode(list, enum)
	//
	return enum, nil
}

// Parse a function declaration of the form "(defun name (params) ret body)".
func (p *Parser) parseDefun(list *sexp.List) (*ast.FunctionDecl, []SyntaxError) {
	var errors []SyntaxError
	//
	if list.Len() < 4 || !isIdentifier(list.Get(1)) || list.Get(2).AsList() == nil {
		return nil, p.translator.SyntaxErrors(list, "malformed function declaration")
	}
	// Parse parameters
	params := make([]*ast.VarDecl, list.Get(2).AsList().Len())
	//
	for i, element := range list.Get(2).AsList().Elements {
		var errs []SyntaxError
		//
		params[i], errs = p.parseParameter(element)
		errors = append(errors, errs...)
	}
	// Parse return type
	ret, err := p.parseType(list.Get(3))
	if err != nil {
		errors = append(errors, *err)
	}
	// Parse body
	body := make([]ast.Stmt, list.Len()-4)
	//
	for i, element := range list.Elements[4:] {
		var errs []SyntaxError
		//
		body[i], errs = p.parseStatement(element)
		errors = append(errors, errs...)
	}
	//
	if len(errors) > 0 {
		return nil, errors
	}
	//
	fn := &ast.FunctionDecl{Name: list.Get(1).AsSymbol().Value, Params: params, Return: ret, Body: body}
	p.mapSourceNode(list, fn)
	//
	return fn, nil
}

// Parse a parameter of the form "(name type [contract])".
func (p *Parser) parseParameter(element sexp.SExp) (*ast.VarDecl, []SyntaxError) {
	list := element.AsList()
	//
	if list == nil || list.Len() < 2 || list.Len() > 3 || !isIdentifier(list.Get(0)) {
		return nil, p.translator.SyntaxErrors(element, "malformed parameter declaration")
	}
	//
	return p.parseVariable(list, ast.PARAMETER, list.Elements)
}

// Parse a statement, which is either a local variable declaration or an
// expression statement.
func (p *Parser) parseStatement(element sexp.SExp) (ast.Stmt, []SyntaxError) {
	if list := element.AsList(); list != nil && list.Head() == "var" {
		if list.Len() < 3 || list.Len() > 5 || !isIdentifier(list.Get(1)) {
			return nil, p.translator.SyntaxErrors(element, "malformed variable declaration")
		}
		//
		decl, errs := p.parseVariable(list, ast.LOCAL, list.Elements[1:])
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		stmt := &ast.DeclStmt{Var: decl}
		p.mapSourceNode(element, stmt)
		//
		return stmt, nil
	}
	//
	expr, errs := p.translator.Translate(element)
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	stmt := &ast.ExprStmt{Expr: expr}
	p.mapSourceNode(element, stmt)
	//
	return stmt, nil
}

// Parse the components of a variable declaration, namely "name type [contract]
// [init]".  The contract is distinguished from the initialiser by its leading
// symbol.
func (p *Parser) parseVariable(node sexp.SExp, kind ast.VarKind, elements []sexp.SExp) (*ast.VarDecl,
	[]SyntaxError) {
	var (
		contract ast.BoundsExpr
		init     ast.Expr
		errors   []SyntaxError
	)
	//
	name := elements[0].AsSymbol().Value
	datatype, err := p.parseType(elements[1])
	//
	if err != nil {
		errors = append(errors, *err)
	}
	//
	rest := elements[2:]
	//
	if len(rest) > 0 && isBoundsExpr(rest[0]) {
		var errs []SyntaxError
		//
		contract, errs = p.parseBoundsExpr(rest[0].AsList())
		errors = append(errors, errs...)
		rest = rest[1:]
	}
	//
	if len(rest) > 0 && kind == ast.PARAMETER {
		errors = append(errors, *p.translator.SyntaxError(rest[0], "malformed bounds expression"))
	} else if len(rest) > 1 {
		errors = append(errors, *p.translator.SyntaxError(rest[1], "unexpected element"))
	} else if len(rest) == 1 {
		var errs []SyntaxError
		//
		init, errs = p.translator.Translate(rest[0])
		errors = append(errors, errs...)
	}
	//
	if len(errors) > 0 {
		return nil, errors
	}
	//
	decl := ast.NewVarDecl(name, kind, datatype, contract, init)
	p.mapSourceNode(node, decl)
	//
	return decl, nil
}

// Parse a bounds contract, which is one of "(count n)", "(byte-count n)" or
// "(bounds lo hi)".
func (p *Parser) parseBoundsExpr(list *sexp.List) (ast.BoundsExpr, []SyntaxError) {
	var (
		contract ast.BoundsExpr
		errors   []SyntaxError
	)
	//
	switch {
	case list.MatchSymbols(1, "count") && list.Len() == 2, list.MatchSymbols(1, "byte-count") && list.Len() == 2:
		kind := ast.ELEMENT_COUNT
		//
		if list.Head() == "byte-count" {
			kind = ast.BYTE_COUNT
		}
		//
		count, errs := p.translator.Translate(list.Get(1))
		contract, errors = &ast.CountBounds{Kind: kind, Count: count}, errs
	case list.MatchSymbols(1, "bounds") && list.Len() == 3:
		lower, errs1 := p.translator.Translate(list.Get(1))
		upper, errs2 := p.translator.Translate(list.Get(2))
		contract, errors = &ast.RangeBounds{Lower: lower, Upper: upper}, append(errs1, errs2...)
	default:
		return nil, p.translator.SyntaxErrors(list, "malformed bounds expression")
	}
	//
	if len(errors) > 0 {
		return nil, errors
	}
	//
	p.mapSourceNode(list, contract)
	//
	return contract, nil
}

// Parse a type, which is either a scalar name (e.g. "int" or "uchar"), "void",
// or one of "(ptr T)", "(checked T)", "(* T)" or "(array T n)".
func (p *Parser) parseType(term sexp.SExp) (ast.Type, *SyntaxError) {
	if symbol := term.AsSymbol(); symbol != nil {
		if symbol.Value == "void" {
			return ast.VOID_TYPE, nil
		} else if t, ok := ast.ScalarTypeFromSymbol(symbol.Value); ok {
			return t, nil
		}
		//
		return nil, p.translator.SyntaxError(term, "unknown type")
	}
	//
	list := term.AsList()
	//
	switch {
	case list.Len() == 2 && list.MatchSymbols(1, "ptr"), list.Len() == 2 && list.MatchSymbols(1, "checked"),
		list.Len() == 2 && list.MatchSymbols(1, "*"):
		pointee, err := p.parseType(list.Get(1))
		//
		if err != nil {
			return nil, err
		}
		//
		return ast.NewPointerType(pointerKinds[list.Head()], pointee), nil
	case list.Len() == 3 && list.MatchSymbols(1, "array"):
		element, err := p.parseType(list.Get(1))
		//
		if err != nil {
			return nil, err
		} else if element == ast.VOID_TYPE {
			return nil, p.translator.SyntaxError(list.Get(1), "array of void")
		}
		//
		length, ok := parseLength(list.Get(2))
		//
		if !ok {
			return nil, p.translator.SyntaxError(list.Get(2), "invalid array length")
		}
		//
		return ast.NewArrayType(element, length), nil
	default:
		return nil, p.translator.SyntaxError(term, "unknown type")
	}
}

var pointerKinds = map[string]ast.PointerKind{"*": ast.UNCHECKED, "checked": ast.CHECKED, "ptr": ast.ARRAY}

// ===================================================================
// Expressions
// ===================================================================

func constantParserRule(symbol string) (ast.Expr, bool, error) {
	var num big.Int
	//
	if symbol[0] < '0' || symbol[0] > '9' {
		// Not applicable
		return nil, false, nil
	}
	// Attempt to parse
	if _, ok := num.SetString(symbol, 0); !ok {
		return nil, true, errors.New("invalid integer constant")
	}
	// Done
	return &ast.IntegerLiteral{Value: num}, true, nil
}

func varAccessParserRule(name string) (ast.Expr, bool, error) {
	// Sanity check what we have
	if name[0] != '_' && !unicode.IsLetter(rune(name[0])) {
		return nil, false, nil
	}
	//
	return &ast.VariableAccess{Name: name}, true, nil
}

func binaryParserRule(op ast.BinaryOp) sexp.RecursiveRule[ast.Expr] {
	return func(_ string, args []ast.Expr) (ast.Expr, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("incorrect number of arguments (found %d)", len(args))
		}
		//
		return &ast.Binary{Op: op, Lhs: args[0], Rhs: args[1]}, nil
	}
}

func unaryParserRule(op ast.UnaryOp) sexp.RecursiveRule[ast.Expr] {
	return func(_ string, args []ast.Expr) (ast.Expr, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("incorrect number of arguments (found %d)", len(args))
		}
		//
		return &ast.Unary{Op: op, Arg: args[0]}, nil
	}
}

// "(- e)" is negation, whilst "(- l r)" is subtraction.
func subParserRule(name string, args []ast.Expr) (ast.Expr, error) {
	if len(args) == 1 {
		return unaryParserRule(ast.NEGATE)(name, args)
	}
	//
	return binaryParserRule(ast.SUB)(name, args)
}

// "(* e)" is dereference, whilst "(* l r)" is multiplication.
func mulParserRule(name string, args []ast.Expr) (ast.Expr, error) {
	if len(args) == 1 {
		return unaryParserRule(ast.DEREFERENCE)(name, args)
	}
	//
	return binaryParserRule(ast.MUL)(name, args)
}

func indexParserRule(_ string, args []ast.Expr) (ast.Expr, error) {
	if len(args) != 2 {
		return nil, errors.New("malformed array access")
	}
	//
	return &ast.Subscript{Base: args[0], Index: args[1]}, nil
}

func assignParserRule(_ string, args []ast.Expr) (ast.Expr, error) {
	if len(args) != 2 {
		return nil, errors.New("malformed assignment")
	}
	//
	return &ast.Assign{Lhs: args[0], Rhs: args[1]}, nil
}

func castParserRule(p *Parser) sexp.ListRule[ast.Expr] {
	return func(list *sexp.List) (ast.Expr, []SyntaxError) {
		if list.Len() != 3 {
			return nil, p.translator.SyntaxErrors(list, "malformed cast")
		}
		//
		datatype, err := p.parseType(list.Get(1))
		arg, errs := p.translator.Translate(list.Get(2))
		//
		if err != nil {
			errs = append(errs, *err)
		}
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		return &ast.Cast{Kind: ast.NO_OP, Arg: arg, DataType: datatype}, nil
	}
}

func sizeofParserRule(p *Parser) sexp.ListRule[ast.Expr] {
	return func(list *sexp.List) (ast.Expr, []SyntaxError) {
		if list.Len() != 2 {
			return nil, p.translator.SyntaxErrors(list, "malformed sizeof")
		}
		//
		datatype, err := p.parseType(list.Get(1))
		//
		if err != nil {
			return nil, []SyntaxError{*err}
		}
		//
		return &ast.SizeOf{Arg: datatype}, nil
	}
}

func invokeParserRule(p *Parser) sexp.ListRule[ast.Expr] {
	return func(list *sexp.List) (ast.Expr, []SyntaxError) {
		var errors []SyntaxError
		// Extract function name
		name := list.Get(0).AsSymbol()
		// Sanity check what we have
		if !isIdentifier(name) {
			return nil, p.translator.SyntaxErrors(list.Get(0), "invalid function name")
		}
		// Parse arguments
		args := make([]ast.Expr, list.Len()-1)
		for i := 0; i < len(args); i++ {
			var errs []SyntaxError
			args[i], errs = p.translator.Translate(list.Get(i + 1))
			errors = append(errors, errs...)
		}
		// Error check
		if len(errors) > 0 {
			return nil, errors
		}
		// Done
		return &ast.Call{Name: name.Value, Args: args}, nil
	}
}

// ===================================================================
// Helpers
// ===================================================================

var reservedSymbols = map[string]bool{
	"var": true, "defun": true, "defenum": true, "cast": true, "sizeof": true, "index": true,
	"count": true, "byte-count": true, "bounds": true, "void": true,
}

func isIdentifier(s sexp.SExp) bool {
	symbol := s.AsSymbol()
	//
	if symbol == nil || len(symbol.Value) == 0 || reservedSymbols[symbol.Value] {
		return false
	} else if _, ok := ast.ScalarTypeFromSymbol(symbol.Value); ok {
		return false
	}
	//
	for i, c := range symbol.Value {
		if c != '_' && !unicode.IsLetter(c) && (i == 0 || !unicode.IsDigit(c)) {
			return false
		}
	}
	//
	return true
}

func isBoundsExpr(s sexp.SExp) bool {
	if list := s.AsList(); list != nil {
		head := list.Head()
		return head == "count" || head == "byte-count" || head == "bounds"
	}
	//
	return false
}

func parseLength(s sexp.SExp) (uint64, bool) {
	if symbol := s.AsSymbol(); symbol != nil {
		n, err := strconv.ParseUint(symbol.Value, 10, 64)
		return n, err == nil && n > 0
	}
	//
	return 0, false
}
