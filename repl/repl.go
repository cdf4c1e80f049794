// Copyright 2025 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repl provides a read/eval/print loop for Lode.
//
// It supports readline-style command editing and interrupts through
// Control-C.
//
// If an input line can be parsed as an expression, the REPL resolves
// and evaluates it and prints its result. Otherwise the input is
// parsed as a list of definitions and statements; the resulting
// bindings are added to the session's environment, visible to later
// inputs as predeclared constants.
package repl // import "go.lodelang.net/repl"

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"go.lodelang.net/interp"
	"go.lodelang.net/resolve"
	"go.lodelang.net/syntax"
)

// REPL executes a read, eval, print loop.
// globals is the mutable environment of the session.
func REPL(globals map[string]interp.Value) {
	rl, err := readline.New(">>> ")
	if err != nil {
		PrintError(err)
		return
	}
	defer rl.Close()
	for {
		if err := rep(rl, globals); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
	fmt.Println()
}

// rep reads, evaluates, and prints one item.
//
// It returns an error (possibly readline.ErrInterrupt)
// only if readline failed. Lode errors are printed.
func rep(rl *readline.Instance, globals map[string]interp.Value) error {
	line, err := rl.Readline()
	if err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return err
	}

	// An expression?
	if expr, err := syntax.ParseExpr("<stdin>", line); err == nil {
		op, frameSize, err := resolve.Expr(expr, globals)
		if err != nil {
			PrintError(err)
			return nil
		}
		fr := &interp.Frame{Locals: make([]interp.Value, frameSize)}
		v, err := op.Exec(fr)
		if err != nil {
			PrintError(err)
			return nil
		}
		if v != interp.NullV {
			fmt.Println(v)
		}
		return nil
	}

	// A list of definitions and statements.
	f, err := syntax.Parse("<stdin>", line)
	if err != nil {
		PrintError(err)
		return nil
	}
	prog, err := resolve.File(f, globals)
	if err != nil {
		PrintError(err)
		return nil
	}
	m, err := prog.Init()
	if err != nil {
		PrintError(err)
		return nil
	}
	for name, i := range m.Dict {
		globals[name] = m.Fields[i]
	}
	return nil
}

// PrintError prints the error to stderr.
func PrintError(err error) {
	fmt.Fprintln(os.Stderr, err)
}
