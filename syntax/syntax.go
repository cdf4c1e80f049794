// Copyright 2025 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax provides a Lode parser and phrase tree.
package syntax

// A Node is a node in a Lode phrase tree.
type Node interface {
	// Span returns the start and end position of the expression.
	Span() (start, end Position)
}

// Start returns the start position of the expression.
func Start(n Node) Position {
	start, _ := n.Span()
	return start
}

// End returns the end position of the expression.
func End(n Node) Position {
	_, end := n.Span()
	return end
}

// A File represents a Lode source file: a module body of
// definitions and bare statements.
type File struct {
	Path  string
	Stmts []Stmt
}

func (x *File) Span() (start, end Position) {
	if len(x.Stmts) == 0 {
		return
	}
	start, _ = x.Stmts[0].Span()
	_, end = x.Stmts[len(x.Stmts)-1].Span()
	return start, end
}

// A Stmt is a Lode statement: a definition, or an expression
// evaluated for effect.
type Stmt interface {
	Node
	stmt()
}

func (*DefStmt) stmt()  {}
func (*ExprStmt) stmt() {}

// A DefStmt represents one binding:
//	x = 1         data definition (recursive form)
//	x := 1        data definition (sequential form)
//	f(a, b) = e   function definition
// Params is nil for a data definition.
type DefStmt struct {
	Name   *Ident
	Params []*Ident
	OpPos  Position
	Op     Token // EQ or DEFINE
	RHS    Expr
}

func (x *DefStmt) Span() (start, end Position) {
	start, _ = x.Name.Span()
	_, end = x.RHS.Span()
	return start, end
}

// An ExprStmt is an expression evaluated for side effects.
type ExprStmt struct {
	X Expr
}

func (x *ExprStmt) Span() (start, end Position) {
	return x.X.Span()
}

// An Expr is a Lode expression.
type Expr interface {
	Node
	expr()
}

func (*BinaryExpr) expr() {}
func (*BlockExpr) expr()  {}
func (*CallExpr) expr()   {}
func (*CondExpr) expr()   {}
func (*DotExpr) expr()    {}
func (*Ident) expr()      {}
func (*Literal) expr()    {}
func (*ModuleExpr) expr() {}
func (*ParenExpr) expr()  {}
func (*UnaryExpr) expr()  {}

// An Ident represents an identifier.
type Ident struct {
	NamePos Position
	Name    string
}

func (x *Ident) Span() (start, end Position) {
	return x.NamePos, x.NamePos.add(x.Name)
}

// A Literal represents a literal string or number.
type Literal struct {
	Token    Token // = STRING | INT | FLOAT
	TokenPos Position
	Raw      string      // uninterpreted text
	Value    interface{} // = string | int64 | float64
}

func (x *Literal) Span() (start, end Position) {
	return x.TokenPos, x.TokenPos.add(x.Raw)
}

// A CallExpr represents a function call expression: Fn(Args).
type CallExpr struct {
	Fn     Expr
	Lparen Position
	Args   []Expr
	Rparen Position
}

func (x *CallExpr) Span() (start, end Position) {
	start, _ = x.Fn.Span()
	return start, x.Rparen.add(")")
}

// A DotExpr represents a module field selection: X.Name.
type DotExpr struct {
	X    Expr
	Dot  Position
	Name *Ident
}

func (x *DotExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Name.Span()
	return
}

// A CondExpr represents a conditional: if Cond then True else False.
type CondExpr struct {
	If      Position
	Cond    Expr
	True    Expr
	ElsePos Position
	False   Expr
}

func (x *CondExpr) Span() (start, end Position) {
	_, end = x.False.Span()
	return x.If, end
}

// A BlockExpr represents a scoped expression:
//	let defs in body    (recursive scope)
//	do defs in body     (sequential scope)
type BlockExpr struct {
	TokPos Position
	Tok    Token // LET or DO
	Defs   []Stmt
	In     Position
	Body   Expr
}

func (x *BlockExpr) Span() (start, end Position) {
	_, end = x.Body.Span()
	return x.TokPos, end
}

// A ModuleExpr represents a module literal: { defs }.
// Its bindings are order-independent, and its name dictionary is
// published to readers of the module value.
type ModuleExpr struct {
	Lbrace Position
	Stmts  []Stmt
	Rbrace Position
}

func (x *ModuleExpr) Span() (start, end Position) {
	return x.Lbrace, x.Rbrace.add("}")
}

// A ParenExpr represents a parenthesized expression: (X).
type ParenExpr struct {
	Lparen Position
	X      Expr
	Rparen Position
}

func (x *ParenExpr) Span() (start, end Position) {
	return x.Lparen, x.Rparen.add(")")
}

// A UnaryExpr represents a unary expression: Op X.
type UnaryExpr struct {
	OpPos Position
	Op    Token
	X     Expr
}

func (x *UnaryExpr) Span() (start, end Position) {
	_, end = x.X.Span()
	return x.OpPos, end
}

// A BinaryExpr represents a binary expression: X Op Y.
type BinaryExpr struct {
	X     Expr
	OpPos Position
	Op    Token
	Y     Expr
}

func (x *BinaryExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Y.Span()
	return start, end
}
