// Copyright 2025 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"bytes"
	"fmt"
	"testing"

	"go.lodelang.net/syntax"
)

// treeString prints a phrase tree in a compact form for comparison.
func treeString(n syntax.Node) string {
	var buf bytes.Buffer
	writeTree(&buf, n)
	return buf.String()
}

func writeTree(out *bytes.Buffer, n syntax.Node) {
	switch n := n.(type) {
	case *syntax.File:
		out.WriteString("(File")
		for _, stmt := range n.Stmts {
			out.WriteByte(' ')
			writeTree(out, stmt)
		}
		out.WriteString(")")
	case *syntax.DefStmt:
		if n.Params != nil {
			fmt.Fprintf(out, "(FuncDef %s (", n.Name.Name)
			for i, p := range n.Params {
				if i > 0 {
					out.WriteByte(' ')
				}
				out.WriteString(p.Name)
			}
			out.WriteString(") ")
		} else {
			fmt.Fprintf(out, "(DataDef %s ", n.Name.Name)
		}
		writeTree(out, n.RHS)
		out.WriteString(")")
	case *syntax.ExprStmt:
		writeTree(out, n.X)
	case *syntax.Ident:
		out.WriteString(n.Name)
	case *syntax.Literal:
		out.WriteString(n.Raw)
	case *syntax.ParenExpr:
		out.WriteString("(Paren ")
		writeTree(out, n.X)
		out.WriteString(")")
	case *syntax.UnaryExpr:
		fmt.Fprintf(out, "(Unary %s ", n.Op)
		writeTree(out, n.X)
		out.WriteString(")")
	case *syntax.BinaryExpr:
		fmt.Fprintf(out, "(Binary %s ", n.Op)
		writeTree(out, n.X)
		out.WriteByte(' ')
		writeTree(out, n.Y)
		out.WriteString(")")
	case *syntax.CallExpr:
		out.WriteString("(Call ")
		writeTree(out, n.Fn)
		for _, arg := range n.Args {
			out.WriteByte(' ')
			writeTree(out, arg)
		}
		out.WriteString(")")
	case *syntax.DotExpr:
		out.WriteString("(Dot ")
		writeTree(out, n.X)
		out.WriteByte(' ')
		out.WriteString(n.Name.Name)
		out.WriteString(")")
	case *syntax.CondExpr:
		out.WriteString("(If ")
		writeTree(out, n.Cond)
		out.WriteByte(' ')
		writeTree(out, n.True)
		out.WriteByte(' ')
		writeTree(out, n.False)
		out.WriteString(")")
	case *syntax.BlockExpr:
		fmt.Fprintf(out, "(%s", n.Tok)
		for _, def := range n.Defs {
			out.WriteByte(' ')
			writeTree(out, def)
		}
		out.WriteString(" in ")
		writeTree(out, n.Body)
		out.WriteString(")")
	case *syntax.ModuleExpr:
		out.WriteString("(Module")
		for _, stmt := range n.Stmts {
			out.WriteByte(' ')
			writeTree(out, stmt)
		}
		out.WriteString(")")
	default:
		fmt.Fprintf(out, "%T", n)
	}
}

func TestExprParseTrees(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`x + 1`, `(Binary + x 1)`},
		{`x + y * z`, `(Binary + x (Binary * y z))`},
		{`x % y - z`, `(Binary - (Binary % x y) z)`},
		{`x == y || a < b`, `(Binary || (Binary == x y) (Binary < a b))`},
		{`-x + y`, `(Binary + (Unary - x) y)`},
		{`!a && b`, `(Binary && (Unary ! a) b)`},
		{`f(1, g(2))`, `(Call f 1 (Call g 2))`},
		{`f()`, `(Call f)`},
		{`m.x`, `(Dot m x)`},
		{`f(x).y`, `(Dot (Call f x) y)`},
		{`(x + y) * z`, `(Binary * (Paren (Binary + x y)) z)`},
		{`if a then b else c`, `(If a b c)`},
		{`if a < 0 then -a else a`, `(If (Binary < a 0) (Unary - a) a)`},
		{`let a = 1; b = a in a + b`,
			`(let (DataDef a 1) (DataDef b a) in (Binary + a b))`},
		{`let f(x) = x in f(1)`, `(let (FuncDef f (x) x) in (Call f 1))`},
		{`do a := 1; print(a) in a`,
			`(do (DataDef a 1) (Call print a) in a)`},
		{`{ a = 1; f(x, y) = x }`,
			`(Module (DataDef a 1) (FuncDef f (x y) x))`},
		{`{}`, `(Module)`},
		{`"a" + "b"`, `(Binary + "a" "b")`},
	} {
		e, err := syntax.ParseExpr("foo.lode", test.input)
		if err != nil {
			t.Errorf("parse `%s` failed: %v", test.input, err)
			continue
		}
		if got := treeString(e); test.want != got {
			t.Errorf("parse `%s` = %s, want %s", test.input, got, test.want)
		}
	}
}

func TestFileParseTrees(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`x = 1; y = x`, `(File (DataDef x 1) (DataDef y x))`},
		{`f() = g() + 1; g() = 2`,
			`(File (FuncDef f () (Binary + (Call g) 1)) (FuncDef g () 2))`},
		{`print(1); x = 2;`, `(File (Call print 1) (DataDef x 2))`},
		{"x = 1;\ny = x", `(File (DataDef x 1) (DataDef y x))`},
		{``, `(File)`},
	} {
		f, err := syntax.Parse("foo.lode", test.input)
		if err != nil {
			t.Errorf("parse `%s` failed: %v", test.input, err)
			continue
		}
		if got := treeString(f); test.want != got {
			t.Errorf("parse `%s` = %s, want %s", test.input, got, test.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`x +`, `foo.lode:1:4: got end of file, want expression`},
		{`f(x`, `foo.lode:1:4: got end of file, want )`},
		{`let a = 1`, `foo.lode:1:10: got end of file, want in`},
		{`if a then b`, `foo.lode:1:12: got end of file, want else`},
		{`1 = 2`, `foo.lode:1:3: bad definition left-hand side`},
		{`f(1) = 2`, `foo.lode:1:3: function parameter must be an identifier`},
		{`do f(x) = x in f`, `foo.lode:1:9: function definition not allowed in a sequential block`},
		{`do a = 1 in a`, `foo.lode:1:6: sequential definition requires ':='`},
		{`a := 1`, `foo.lode:1:3: ':=' definition allowed only in a do-block`},
		{`m.1`, `foo.lode:1:3: got int literal, want identifier`},
		// A newline is not a statement separator; ';' is required.
		{"x = 1\ny = 2", `foo.lode:2:1: got identifier, want end of file`},
	} {
		_, err := syntax.Parse("foo.lode", test.input)
		if err == nil {
			t.Errorf("parse `%s` unexpectedly succeeded", test.input)
			continue
		}
		if err.Error() != test.want {
			t.Errorf("parse `%s` error %q, want %q", test.input, err, test.want)
		}
	}
}
