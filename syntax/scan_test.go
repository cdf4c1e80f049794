// Copyright 2025 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"bytes"
	"fmt"
	"testing"
)

func scan(src interface{}) (tokens string, err error) {
	sc, err := newScanner("foo.lode", src)
	if err != nil {
		return "", err
	}

	defer sc.recover(&err)

	var buf bytes.Buffer
	var val tokenValue
	for {
		tok := sc.nextToken(&val)

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		switch tok {
		case EOF:
			buf.WriteString("EOF")
		case IDENT:
			buf.WriteString(val.raw)
		case INT:
			fmt.Fprintf(&buf, "%d", val.int)
		case FLOAT:
			fmt.Fprintf(&buf, "%e", val.float)
		case STRING:
			fmt.Fprintf(&buf, "%q", val.string)
		default:
			buf.WriteString(tok.String())
		}
		if tok == EOF {
			break
		}
	}
	return buf.String(), nil
}

func TestScanner(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{``, "EOF"},
		{`123`, "123 EOF"},
		{`x.y`, "x . y EOF"},
		{`chocolate.éclair`, `chocolate . éclair EOF`},
		{`123 "foo" hello x.y`, `123 "foo" hello x . y EOF`},
		{`print(x); print(y)`, "print ( x ) ; print ( y ) EOF"},
		{"\nprint(\n1\n)\n", "print ( 1 ) EOF"},
		{`# hello
print(x)`, "print ( x ) EOF"},
		{`f(x, y) = x + y`, "f ( x , y ) = x + y EOF"},
		{`a := 1; b := a`, "a := 1 ; b := a EOF"},
		{`x == y != z`, "x == y != z EOF"},
		{`x <= y >= z < w > v`, "x <= y >= z < w > v EOF"},
		{`a && b || !c`, "a && b || ! c EOF"},
		{`1.5`, "1.500000e+00 EOF"},
		// '.' after an expression is always selection, never a float.
		{`m.1`, "m . 1 EOF"},
		{`1e3`, "1.000000e+03 EOF"},
		{`1.5e-2`, "1.500000e-02 EOF"},
		{`let a = 1 in a`, "let a = 1 in a EOF"},
		{`do a := 1 in a`, "do a := 1 in a EOF"},
		{`if x then y else z`, "if x then y else z EOF"},
		{`{ a = 1 }`, "{ a = 1 } EOF"},
		{`"hello \"world\""`, `"hello \"world\"" EOF`},
		{`"a\nb"`, `"a\nb" EOF`},
		{`x - -1`, "x - - 1 EOF"},
		{`1 % 2 * 3 / 4`, "1 % 2 * 3 / 4 EOF"},

		// errors
		{`"unterminated`, `foo.lode:1:1: unexpected EOF in string`},
		{`"bad \q escape"`, `foo.lode:1:8: invalid escape sequence \q`},
		{`1e`, `foo.lode:1:3: invalid float literal`},
		{`@`, `foo.lode:1:1: unexpected character '@'`},
		{`x ? y`, `foo.lode:1:3: unexpected character '?'`},
	} {
		got, err := scan(test.input)
		if err != nil {
			got = err.Error()
		}
		if test.want != got {
			t.Errorf("scan `%s` = [%s], want [%s]", test.input, got, test.want)
		}
	}
}
