// Copyright 2025 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.lodelang.net/internal/chunkedfile"
	"go.lodelang.net/interp"
	"go.lodelang.net/resolve"
	"go.lodelang.net/syntax"
)

func TestResolve(t *testing.T) {
	filename := filepath.Join("testdata", "resolve.lode")
	for _, chunk := range chunkedfile.Read(filename, t) {
		f, err := syntax.Parse(filename, chunk.Source)
		if err != nil {
			t.Error(err)
			continue
		}
		if _, err := resolve.File(f, nil); err != nil {
			rerr := err.(resolve.Error)
			chunk.GotError(int(rerr.Pos.Line), rerr.Msg)
		}
		chunk.Done()
	}
}

func TestFileProgram(t *testing.T) {
	f, err := syntax.Parse("test.lode", `x = 1; y = 2; f(n) = n`)
	if err != nil {
		t.Fatal(err)
	}
	prog, err := resolve.File(f, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int{"x": 0, "y": 1, "f": 2}
	if diff := cmp.Diff(want, prog.Globals); diff != "" {
		t.Errorf("globals mismatch (-want +got):\n%s", diff)
	}
	// The top-level frame holds only the module value; the bindings
	// live in module fields, and function bodies get their own frames.
	if prog.FrameSize != 1 {
		t.Errorf("frame size = %d, want 1", prog.FrameSize)
	}
	if prog.ModuleSlot != 0 {
		t.Errorf("module slot = %d, want 0", prog.ModuleSlot)
	}
}

func TestExpr(t *testing.T) {
	predeclared := map[string]interp.Value{"pi": interp.Number(3)}

	e, err := syntax.ParseExpr("expr.lode", `pi * 2`)
	if err != nil {
		t.Fatal(err)
	}
	op, frameSize, err := resolve.Expr(e, predeclared)
	if err != nil {
		t.Fatal(err)
	}
	if frameSize != 0 {
		t.Errorf("frame size = %d, want 0", frameSize)
	}
	v, err := op.Exec(&interp.Frame{Locals: make([]interp.Value, frameSize)})
	if err != nil {
		t.Fatal(err)
	}
	if got := v.String(); got != "6" {
		t.Errorf("pi * 2 = %s, want 6", got)
	}
}

func TestExprBlock(t *testing.T) {
	e, err := syntax.ParseExpr("expr.lode", `let a = 1; b = a + 1 in a + b`)
	if err != nil {
		t.Fatal(err)
	}
	op, frameSize, err := resolve.Expr(e, nil)
	if err != nil {
		t.Fatal(err)
	}
	if frameSize != 2 {
		t.Errorf("frame size = %d, want 2", frameSize)
	}
	v, err := op.Exec(&interp.Frame{Locals: make([]interp.Value, frameSize)})
	if err != nil {
		t.Fatal(err)
	}
	if got := v.String(); got != "3" {
		t.Errorf("block = %s, want 3", got)
	}
}

func TestExprUndefined(t *testing.T) {
	e, err := syntax.ParseExpr("expr.lode", `x + 1`)
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = resolve.Expr(e, nil)
	want := "expr.lode:1:1: undefined: x"
	if err == nil || err.Error() != want {
		t.Errorf("error = %v, want %s", err, want)
	}
}
