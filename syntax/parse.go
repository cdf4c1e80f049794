// Copyright 2025 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file defines a recursive-descent parser for Lode.

// Parse parses the input data and returns the corresponding parse tree.
//
// If src != nil, Parse parses the source from src and the filename is
// only used when recording position information. The type of the
// argument for the src parameter must be string or []byte.
// If src == nil, Parse parses the file specified by filename.
func Parse(filename string, src interface{}) (f *File, err error) {
	in, err := newScanner(filename, src)
	if err != nil {
		return nil, err
	}
	p := parser{in: in}
	defer p.in.recover(&err)

	p.nextToken() // read first lookahead token
	stmts := p.parseStmts(EOF, LET)
	p.consume(EOF)
	return &File{Path: filename, Stmts: stmts}, nil
}

// ParseExpr parses a single Lode expression.
// See Parse for explanation of parameters.
func ParseExpr(filename string, src interface{}) (expr Expr, err error) {
	in, err := newScanner(filename, src)
	if err != nil {
		return nil, err
	}
	p := parser{in: in}
	defer p.in.recover(&err)

	p.nextToken() // read first lookahead token
	expr = p.parseExpr()
	p.consume(EOF)
	return expr, nil
}

type parser struct {
	in     *scanner
	tok    Token
	tokval tokenValue
}

// nextToken advances the scanner and returns the position of the
// previous token.
func (p *parser) nextToken() Position {
	oldpos := p.tokval.pos
	p.tok = p.in.nextToken(&p.tokval)
	return oldpos
}

func (p *parser) consume(t Token) Position {
	if p.tok != t {
		p.in.errorf(p.tokval.pos, "got %s, want %s", p.tok, t)
	}
	return p.nextToken()
}

// parseStmts parses a semicolon-separated sequence of definitions and
// bare statements, terminated by term (EOF, RBRACE, or IN).
//
// kind is LET for a recursive block (definitions use '=') or DO for a
// sequential block (definitions use ':='); the distinction is enforced
// here so a function definition can never reach a sequential scope.
func (p *parser) parseStmts(term, kind Token) []Stmt {
	var stmts []Stmt
	for p.tok != term && p.tok != EOF {
		stmts = append(stmts, p.parseStmt(kind))
		if p.tok != SEMICOLON {
			break
		}
		p.nextToken() // ;
	}
	return stmts
}

// parseStmt parses a single definition or bare statement.
func (p *parser) parseStmt(kind Token) Stmt {
	x := p.parseExpr()
	if p.tok != EQ && p.tok != DEFINE {
		return &ExprStmt{X: x}
	}
	op := p.tok
	opPos := p.nextToken()
	rhs := p.parseExpr()

	var def *DefStmt
	switch lhs := x.(type) {
	case *Ident:
		def = &DefStmt{Name: lhs, OpPos: opPos, Op: op, RHS: rhs}
	case *CallExpr:
		name, ok := lhs.Fn.(*Ident)
		if !ok {
			p.in.errorf(opPos, "bad definition left-hand side")
		}
		params := make([]*Ident, len(lhs.Args))
		for i, arg := range lhs.Args {
			id, ok := arg.(*Ident)
			if !ok {
				p.in.errorf(Start(arg), "function parameter must be an identifier")
			}
			params[i] = id
		}
		def = &DefStmt{Name: name, Params: params, OpPos: opPos, Op: op, RHS: rhs}
	default:
		p.in.errorf(opPos, "bad definition left-hand side")
	}

	switch {
	case kind == DO && def.Params != nil:
		p.in.errorf(opPos, "function definition not allowed in a sequential block")
	case kind == DO && def.Op != DEFINE:
		p.in.errorf(opPos, "sequential definition requires ':='")
	case kind != DO && def.Op != EQ:
		p.in.errorf(opPos, "':=' definition allowed only in a do-block")
	}
	return def
}

// parseExpr parses an expression, including the low-precedence
// prefix forms let, do, and if.
func (p *parser) parseExpr() Expr {
	switch p.tok {
	case LET, DO:
		tok := p.tok
		tokPos := p.nextToken()
		defs := p.parseStmts(IN, tok)
		in := p.consume(IN)
		body := p.parseExpr()
		return &BlockExpr{TokPos: tokPos, Tok: tok, Defs: defs, In: in, Body: body}

	case IF:
		ifPos := p.nextToken()
		cond := p.parseExpr()
		p.consume(THEN)
		truebody := p.parseExpr()
		elsePos := p.consume(ELSE)
		falsebody := p.parseExpr()
		return &CondExpr{If: ifPos, Cond: cond, True: truebody, ElsePos: elsePos, False: falsebody}
	}
	return p.parseBinopExpr(1)
}

// binopPrec[op] is the precedence of binary operator op, or 0.
var binopPrec = [maxToken]int{
	OR:      1,
	AND:     2,
	EQL:     3,
	NEQ:     3,
	LT:      4,
	GT:      4,
	LE:      4,
	GE:      4,
	PLUS:    5,
	MINUS:   5,
	STAR:    6,
	SLASH:   6,
	PERCENT: 6,
}

// parseBinopExpr parses a binary expression whose operators all have
// precedence >= prec. All Lode binary operators are left-associative.
func (p *parser) parseBinopExpr(prec int) Expr {
	x := p.parseUnaryExpr()
	for {
		opprec := binopPrec[p.tok]
		if opprec < prec {
			return x
		}
		op := p.tok
		opPos := p.nextToken()
		y := p.parseBinopExpr(opprec + 1)
		x = &BinaryExpr{X: x, OpPos: opPos, Op: op, Y: y}
	}
}

// parseUnaryExpr parses a unary expression: -x, !x.
func (p *parser) parseUnaryExpr() Expr {
	if p.tok == MINUS || p.tok == NOT {
		op := p.tok
		opPos := p.nextToken()
		x := p.parseUnaryExpr()
		return &UnaryExpr{OpPos: opPos, Op: op, X: x}
	}
	return p.parsePostfixExpr()
}

// parsePostfixExpr parses a primary expression followed by any number
// of call and selection suffixes: f(x)(y).z.
func (p *parser) parsePostfixExpr() Expr {
	x := p.parsePrimaryExpr()
	for {
		switch p.tok {
		case LPAREN:
			lparen := p.nextToken()
			var args []Expr
			for p.tok != RPAREN {
				args = append(args, p.parseExpr())
				if p.tok != COMMA {
					break
				}
				p.nextToken() // ,
			}
			rparen := p.consume(RPAREN)
			x = &CallExpr{Fn: x, Lparen: lparen, Args: args, Rparen: rparen}

		case DOT:
			dot := p.nextToken()
			name := p.parseIdent()
			x = &DotExpr{X: x, Dot: dot, Name: name}

		default:
			return x
		}
	}
}

func (p *parser) parsePrimaryExpr() Expr {
	switch p.tok {
	case IDENT:
		return p.parseIdent()

	case INT, FLOAT, STRING:
		return p.parseLiteral()

	case LPAREN:
		lparen := p.nextToken()
		x := p.parseExpr()
		rparen := p.consume(RPAREN)
		return &ParenExpr{Lparen: lparen, X: x, Rparen: rparen}

	case LBRACE:
		lbrace := p.nextToken()
		stmts := p.parseStmts(RBRACE, LET)
		rbrace := p.consume(RBRACE)
		return &ModuleExpr{Lbrace: lbrace, Stmts: stmts, Rbrace: rbrace}
	}
	p.in.errorf(p.tokval.pos, "got %s, want expression", p.tok)
	panic("unreachable")
}

func (p *parser) parseIdent() *Ident {
	if p.tok != IDENT {
		p.in.errorf(p.tokval.pos, "got %s, want identifier", p.tok)
	}
	id := &Ident{NamePos: p.tokval.pos, Name: p.tokval.raw}
	p.nextToken()
	return id
}

func (p *parser) parseLiteral() *Literal {
	lit := &Literal{Token: p.tok, TokenPos: p.tokval.pos, Raw: p.tokval.raw}
	switch p.tok {
	case INT:
		lit.Value = p.tokval.int
	case FLOAT:
		lit.Value = p.tokval.float
	case STRING:
		lit.Value = p.tokval.string
	}
	p.nextToken()
	return lit
}
