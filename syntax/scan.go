// Copyright 2025 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// A lexical scanner for Lode.

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// A Token represents a Lode lexical token.
type Token int8

const (
	ILLEGAL Token = iota
	EOF

	IDENT  // x
	INT    // 123
	FLOAT  // 1.23e45
	STRING // "foo"

	// Punctuation
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	COMMA     // ,
	SEMICOLON // ;
	DOT       // .

	// Operators
	EQ      // =
	DEFINE  // :=
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	LT      // <
	GT      // >
	LE      // <=
	GE      // >=
	EQL     // ==
	NEQ     // !=
	AND     // &&
	OR      // ||
	NOT     // !

	// Keywords
	LET
	DO
	IN
	IF
	THEN
	ELSE

	maxToken
)

func (tok Token) String() string { return tokenNames[tok] }

var tokenNames = [...]string{
	ILLEGAL:   "illegal token",
	EOF:       "end of file",
	IDENT:     "identifier",
	INT:       "int literal",
	FLOAT:     "float literal",
	STRING:    "string literal",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	COMMA:     ",",
	SEMICOLON: ";",
	DOT:       ".",
	EQ:        "=",
	DEFINE:    ":=",
	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	LT:        "<",
	GT:        ">",
	LE:        "<=",
	GE:        ">=",
	EQL:       "==",
	NEQ:       "!=",
	AND:       "&&",
	OR:        "||",
	NOT:       "!",
	LET:       "let",
	DO:        "do",
	IN:        "in",
	IF:        "if",
	THEN:      "then",
	ELSE:      "else",
}

var keywordToken = map[string]Token{
	"let":  LET,
	"do":   DO,
	"in":   IN,
	"if":   IF,
	"then": THEN,
	"else": ELSE,
}

// A Position describes the location of a rune of input.
type Position struct {
	file *string // filename (indirect for compactness)
	Line int32   // 1-based line number; 0 if unknown
	Col  int32   // 1-based column (rune) number; 0 if unknown
}

// MakePosition returns position with the specified components.
func MakePosition(file *string, line, col int32) Position {
	return Position{file, line, col}
}

// IsValid reports whether the position is valid.
func (p Position) IsValid() bool { return p.file != nil }

// Filename returns the name of the file containing this position.
func (p Position) Filename() string {
	if p.file != nil {
		return *p.file
	}
	return "<invalid>"
}

func (p Position) String() string {
	file := p.Filename()
	if p.Line > 0 {
		if p.Col > 0 {
			return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Col)
		}
		return fmt.Sprintf("%s:%d", file, p.Line)
	}
	return file
}

// add returns the position at the end of s, assuming it contains no newlines.
func (p Position) add(s string) Position {
	p.Col += int32(utf8.RuneCountInString(s))
	return p
}

// An Error describes the nature and position of a scanner or parser error.
type Error struct {
	Pos Position
	Msg string
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// tokenValue records the position and value associated with each token.
type tokenValue struct {
	raw    string   // raw text of token
	int    int64    // decoded int
	float  float64  // decoded float
	string string   // decoded string
	pos    Position // start position of token
}

type scanner struct {
	rest     []byte   // rest of input
	token    []byte   // token being scanned
	pos      Position // current input position
	filename string
}

func newScanner(filename string, src interface{}) (*scanner, error) {
	data, err := readSource(filename, src)
	if err != nil {
		return nil, err
	}
	sc := &scanner{
		rest:     data,
		filename: filename,
	}
	sc.pos = MakePosition(&sc.filename, 1, 1)
	return sc, nil
}

func readSource(filename string, src interface{}) ([]byte, error) {
	switch src := src.(type) {
	case string:
		return []byte(src), nil
	case []byte:
		return src, nil
	case nil:
		return os.ReadFile(filename)
	default:
		return nil, fmt.Errorf("invalid source: %T", src)
	}
}

// An eof rune is returned by peek at end of input.
const eof rune = -1

// errorf reports a scan error at the specified position
// by panicking; the parser's recover intercepts it.
func (sc *scanner) errorf(pos Position, format string, args ...interface{}) {
	panic(Error{pos, fmt.Sprintf(format, args...)})
}

// recover runs a deferred cleanup, converting a scanner or parser
// panic into an Error return value.
func (sc *scanner) recover(err *error) {
	switch e := recover().(type) {
	case nil:
		// no panic
	case Error:
		*err = e
	default:
		*err = fmt.Errorf("internal error: %v", e)
	}
}

func (sc *scanner) peek() rune {
	if len(sc.rest) == 0 {
		return eof
	}
	r, _ := utf8.DecodeRune(sc.rest)
	return r
}

func (sc *scanner) read() rune {
	if len(sc.rest) == 0 {
		return eof
	}
	r, size := utf8.DecodeRune(sc.rest)
	sc.rest = sc.rest[size:]
	if r == '\n' {
		sc.pos.Line++
		sc.pos.Col = 1
	} else {
		sc.pos.Col++
	}
	return r
}

func (sc *scanner) mark() { sc.token = sc.rest }

func (sc *scanner) text() string {
	return string(sc.token[:len(sc.token)-len(sc.rest)])
}

// nextToken scans the next token, records its position and value
// in val, and returns its kind.
func (sc *scanner) nextToken(val *tokenValue) Token {
	// Skip spaces and comments.
	for {
		c := sc.peek()
		if c == '#' {
			for c != '\n' && c != eof {
				sc.read()
				c = sc.peek()
			}
		} else if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			sc.read()
		} else {
			break
		}
	}

	val.pos = sc.pos
	sc.mark()

	c := sc.peek()
	if c == eof {
		val.raw = ""
		return EOF
	}

	if isIdentStart(c) {
		return sc.scanIdent(val)
	}
	if isdigit(c) {
		return sc.scanNumber(val)
	}
	if c == '"' {
		return sc.scanString(val)
	}

	sc.read()
	switch c {
	case '(':
		return sc.punct(val, LPAREN)
	case ')':
		return sc.punct(val, RPAREN)
	case '{':
		return sc.punct(val, LBRACE)
	case '}':
		return sc.punct(val, RBRACE)
	case ',':
		return sc.punct(val, COMMA)
	case ';':
		return sc.punct(val, SEMICOLON)
	case '.':
		return sc.punct(val, DOT)
	case '+':
		return sc.punct(val, PLUS)
	case '-':
		return sc.punct(val, MINUS)
	case '*':
		return sc.punct(val, STAR)
	case '/':
		return sc.punct(val, SLASH)
	case '%':
		return sc.punct(val, PERCENT)
	case ':':
		if sc.peek() == '=' {
			sc.read()
			return sc.punct(val, DEFINE)
		}
	case '<':
		if sc.peek() == '=' {
			sc.read()
			return sc.punct(val, LE)
		}
		return sc.punct(val, LT)
	case '>':
		if sc.peek() == '=' {
			sc.read()
			return sc.punct(val, GE)
		}
		return sc.punct(val, GT)
	case '=':
		if sc.peek() == '=' {
			sc.read()
			return sc.punct(val, EQL)
		}
		return sc.punct(val, EQ)
	case '!':
		if sc.peek() == '=' {
			sc.read()
			return sc.punct(val, NEQ)
		}
		return sc.punct(val, NOT)
	case '&':
		if sc.peek() == '&' {
			sc.read()
			return sc.punct(val, AND)
		}
	case '|':
		if sc.peek() == '|' {
			sc.read()
			return sc.punct(val, OR)
		}
	}
	sc.errorf(val.pos, "unexpected character %q", c)
	panic("unreachable")
}

func (sc *scanner) punct(val *tokenValue, tok Token) Token {
	val.raw = sc.text()
	return tok
}

// peekAt returns the rune at byte offset >= 1 past the current rune,
// assuming ASCII context (used only for the "1.5" fraction lookahead).
func (sc *scanner) peekAt(off int) rune {
	if off >= len(sc.rest) {
		return eof
	}
	r, _ := utf8.DecodeRune(sc.rest[off:])
	return r
}

func (sc *scanner) scanIdent(val *tokenValue) Token {
	for isIdent(sc.peek()) {
		sc.read()
	}
	val.raw = sc.text()
	if tok, ok := keywordToken[val.raw]; ok {
		return tok
	}
	return IDENT
}

func (sc *scanner) scanNumber(val *tokenValue) Token {
	isfloat := false
	for isdigit(sc.peek()) {
		sc.read()
	}
	if sc.peek() == '.' && isdigit(sc.peekAt(1)) {
		isfloat = true
		sc.read()
		for isdigit(sc.peek()) {
			sc.read()
		}
	}
	if c := sc.peek(); c == 'e' || c == 'E' {
		isfloat = true
		sc.read()
		if c := sc.peek(); c == '+' || c == '-' {
			sc.read()
		}
		if !isdigit(sc.peek()) {
			sc.errorf(sc.pos, "invalid float literal")
		}
		for isdigit(sc.peek()) {
			sc.read()
		}
	}
	val.raw = sc.text()
	var err error
	if isfloat {
		val.float, err = strconv.ParseFloat(val.raw, 64)
		if err != nil {
			sc.errorf(val.pos, "invalid float literal")
		}
		return FLOAT
	}
	val.int, err = strconv.ParseInt(val.raw, 10, 64)
	if err != nil {
		sc.errorf(val.pos, "invalid int literal")
	}
	return INT
}

func (sc *scanner) scanString(val *tokenValue) Token {
	sc.read() // consume '"'
	var sb strings.Builder
	for {
		c := sc.read()
		switch c {
		case eof, '\n':
			sc.errorf(val.pos, "unexpected EOF in string")
		case '"':
			val.raw = sc.text()
			val.string = sb.String()
			return STRING
		case '\\':
			switch e := sc.read(); e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			default:
				sc.errorf(sc.pos, "invalid escape sequence \\%c", e)
			}
		default:
			sb.WriteRune(c)
		}
	}
}

func isIdentStart(c rune) bool {
	return 'a' <= c && c <= 'z' ||
		'A' <= c && c <= 'Z' ||
		c == '_' ||
		c >= utf8.RuneSelf && unicode.IsLetter(c)
}

func isIdent(c rune) bool { return isdigit(c) || isIdentStart(c) }

func isdigit(c rune) bool { return '0' <= c && c <= '9' }
