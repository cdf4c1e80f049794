// Copyright 2025 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package interp_test

import (
	"testing"

	"go.lodelang.net/interp"
	"go.lodelang.net/resolve"
	"go.lodelang.net/syntax"
)

// evalResult parses, resolves, and initializes src as a module body,
// then returns the value of its "result" binding.
func evalResult(t *testing.T, src string) (interp.Value, error) {
	t.Helper()
	f, err := syntax.Parse("test.lode", src)
	if err != nil {
		t.Fatal(err)
	}
	prog, err := resolve.File(f, nil)
	if err != nil {
		t.Fatal(err)
	}
	m, err := prog.Init()
	if err != nil {
		return nil, err
	}
	v, ok := m.Get("result")
	if !ok {
		t.Fatalf("no result binding in `%s`", src)
	}
	return v, nil
}

func TestExecFile(t *testing.T) {
	for _, test := range []struct{ src, want string }{
		// operators
		{`result = 1 + 2 * 3`, "7"},
		{`result = (1 + 2) * 3`, "9"},
		{`result = 7 % 3`, "1"},
		{`result = 7 % 0.5`, "0"},
		{`result = 7.5 % 2`, "1.5"},
		{`result = -3 + 1`, "-2"},
		{`result = "foo" + "bar"`, `"foobar"`},
		{`result = 1 < 2`, "true"},
		{`result = "a" >= "b"`, "false"},
		{`result = 1 == 2 || 2 == 2`, "true"},
		{`result = false && error("not reached")`, "false"},
		{`result = !null`, "true"},
		{`result = if 1 < 2 then "a" else "b"`, `"a"`},

		// builtins
		{`result = sqrt(9) + abs(0 - 1)`, "4"},
		{`result = len("hello")`, "5"},

		// forward references and closures
		{`result = b; b = 5`, "5"},
		{`a = 10; f(x) = x + a; result = f(5)`, "15"},
		{`f() = g() + 1; g() = 2; result = f()`, "3"},
		{`fact(n) = if n < 2 then 1 else n * fact(n - 1); result = fact(5)`, "120"},
		{`even(n) = if n == 0 then true else odd(n - 1);
		  odd(n) = if n == 0 then false else even(n - 1);
		  result = even(10)`, "true"},
		{`k = 2;
		  f(n) = if n == 0 then 0 else g(n - 1) + k;
		  g(n) = f(n);
		  result = f(4)`, "8"},

		// block expressions
		{`result = let a = 1; b = a + 1 in a + b`, "3"},
		{`result = let b = a + 1; a = 1 in a + b`, "3"},
		{`result = let f(x) = if x == 0 then 0 else f(x - 1) + 2 in f(3)`, "6"},
		{`result = do a := 1; b := a + 1 in a * b`, "2"},
		{`f(x) = let g(y) = y + x in g(x); result = f(3)`, "6"},

		// module literals
		{`m = { a = 1; b = a + 1 }; result = m.a + m.b`, "3"},
		{`m = { double(x) = x * 2 }; result = m.double(21)`, "42"},
		{`x = 2; m = { g(n) = n * x }; result = m.g(10)`, "20"},
		{`m = { a = 1 }; result = len(m)`, "1"},
	} {
		v, err := evalResult(t, test.src)
		if err != nil {
			t.Errorf("eval `%s` failed: %v", test.src, err)
			continue
		}
		if got := v.String(); got != test.want {
			t.Errorf("eval `%s` = %s, want %s", test.src, got, test.want)
		}
	}
}

func TestExecErrors(t *testing.T) {
	for _, test := range []struct{ src, want string }{
		{`result = 1 / 0`, `test.lode:1:12: division by zero`},
		{`result = 5 % 0`, `test.lode:1:12: division by zero`},
		{`result = 1 + "a"`, `test.lode:1:12: invalid operands number + string`},
		{`result = -"a"`, `test.lode:1:10: invalid operand string for unary -`},
		{`x = 1; result = x(1)`, `test.lode:1:18: number value is not callable`},
		{`f(a, b) = a; result = f(1)`, `test.lode:1:24: function f takes 2 arguments (1 given)`},
		{`m = { a = 1 }; result = m.b`, `test.lode:1:27: module has no field "b"`},
		{`x = 1; result = x.field`, `test.lode:1:19: number value has no fields`},
		{`result = error("boom")`, `test.lode:1:15: boom`},
		{`result = sqrt("x")`, `test.lode:1:14: sqrt: want number, got string`},
	} {
		_, err := evalResult(t, test.src)
		if err == nil {
			t.Errorf("eval `%s` unexpectedly succeeded", test.src)
			continue
		}
		if err.Error() != test.want {
			t.Errorf("eval `%s` error %q, want %q", test.src, err, test.want)
		}
	}
}

// TestModule checks the published surface of an initialized module.
func TestModule(t *testing.T) {
	f, err := syntax.Parse("test.lode", `b = "x"; a = 1; f(n) = n`)
	if err != nil {
		t.Fatal(err)
	}
	prog, err := resolve.File(f, nil)
	if err != nil {
		t.Fatal(err)
	}
	m, err := prog.Init()
	if err != nil {
		t.Fatal(err)
	}

	names := m.Names()
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "f" {
		t.Errorf("names = %v, want [a b f]", names)
	}
	v, _ := m.Get("f")
	if _, ok := v.(*interp.Closure); !ok {
		t.Errorf("f is %s, want function", v.Type())
	}
	if v.Truth() != true {
		t.Errorf("function truth = false, want true")
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("Get(missing) unexpectedly succeeded")
	}
}
