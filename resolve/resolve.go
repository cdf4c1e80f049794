// Copyright 2025 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve binds the names of a parsed Lode program.
//
// Resolution turns each phrase into an operation of the interp
// package, assigning every binding a storage slot: a frame offset,
// or, for a module-target scope, a stable module field index. The
// result of resolving a file is an ordered list of initializer
// actions plus the module's name dictionary; executing the actions in
// order initializes every slot exactly once, dependencies first.
//
// Resolution is all-or-nothing: the first error aborts the analysis
// of the enclosing program.
package resolve // import "go.lodelang.net/resolve"

import (
	"fmt"

	"go.lodelang.net/interp"
	"go.lodelang.net/syntax"
)

// An Error describes a name-resolution failure and its position.
type Error struct {
	Pos syntax.Position
	Msg string
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// failf reports a resolution error by panicking; the exported entry
// points recover it. There is no recovery or retry within an
// analysis.
func failf(pos syntax.Position, format string, args ...interface{}) {
	panic(Error{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

func recoverError(err *error) {
	switch e := recover().(type) {
	case nil:
		// no panic
	case Error:
		*err = e
	default:
		panic(e)
	}
}

// File resolves the definitions and bare statements of a Lode file as
// a module body, returning its executable program: the dependency-
// ordered action list and the published name dictionary.
//
// predeclared, which may be nil, supplies constant bindings consulted
// after the file's own scope and before the universe.
func File(file *syntax.File, predeclared map[string]interp.Value) (prog *interp.Program, err error) {
	defer recoverError(&err)

	env := rootEnviron(predeclared)
	fi := env.frame()
	sc := newRecursiveScope(env, true)
	sc.analyze(newCompound(file.Stmts))
	return &interp.Program{
		FrameSize:  fi.maxSlots,
		ModuleSlot: sc.moduleSlot,
		Globals:    sc.dictionary(),
		Actions:    sc.actions,
	}, nil
}

// Expr resolves a single expression against the predeclared and
// universal bindings, returning the operation and the size of the
// frame needed to execute it.
func Expr(expr syntax.Expr, predeclared map[string]interp.Value) (op interp.Operation, frameSize int, err error) {
	defer recoverError(&err)

	env := rootEnviron(predeclared)
	op = analyzeExpr(expr, env)
	return op, env.frame().maxSlots, nil
}

// An environ is one ring of the lexical environment chain.
// Name lookup proceeds outward from the innermost ring.
type environ interface {
	// lookupLocal resolves a name against this ring only;
	// nil means the ring does not bind the name.
	lookupLocal(id *syntax.Ident) interp.Operation
	// outer returns the enclosing ring, or nil.
	outer() environ
	// frame returns the slot allocator of the enclosing frame.
	frame() *frameInfo
	// visible appends the names bound by this ring, for spelling
	// suggestions.
	visible(names []string) []string
}

// A frameInfo allocates the slots of one frame. Rings belonging to
// the same frame share one allocator, so nested blocks extend the
// frame rather than starting a new one; only a function body starts
// afresh.
type frameInfo struct {
	maxSlots int
}

func (fi *frameInfo) makeSlot() int {
	slot := fi.maxSlots
	fi.maxSlots++
	return slot
}

// lookup resolves id against the environment chain, or fails with
// "undefined". The lookup may drive further analysis: resolving a
// name of a recursive scope analyzes its unit first.
func lookup(env environ, id *syntax.Ident) interp.Operation {
	for e := env; e != nil; e = e.outer() {
		if op := e.lookupLocal(id); op != nil {
			return op
		}
	}
	msg := "undefined: " + id.Name
	var names []string
	for e := env; e != nil; e = e.outer() {
		names = e.visible(names)
	}
	if n := nearest(id.Name, names); n != "" {
		msg += fmt.Sprintf(" (did you mean %s?)", n)
	}
	failf(id.NamePos, "%s", msg)
	panic("unreachable")
}

// rootEnviron returns the outermost rings: the universe, plus
// optional predeclared constants, with a fresh top-level frame.
func rootEnviron(predeclared map[string]interp.Value) environ {
	var env environ = &constEnviron{values: interp.Universe}
	if predeclared != nil {
		env = &constEnviron{parent: env, values: predeclared}
	}
	return &baseEnviron{parent: env, fi: new(frameInfo)}
}

// A constEnviron binds names to compile-time constants
// (the universe, and any predeclared values).
type constEnviron struct {
	parent environ
	values map[string]interp.Value
}

func (e *constEnviron) lookupLocal(id *syntax.Ident) interp.Operation {
	if v, ok := e.values[id.Name]; ok {
		return &interp.Constant{V: v}
	}
	return nil
}

func (e *constEnviron) outer() environ    { return e.parent }
func (e *constEnviron) frame() *frameInfo { return nil }

func (e *constEnviron) visible(names []string) []string {
	for name := range e.values {
		names = append(names, name)
	}
	return names
}

// A baseEnviron owns the top-level frame of a program or expression.
type baseEnviron struct {
	parent environ
	fi     *frameInfo
}

func (e *baseEnviron) lookupLocal(id *syntax.Ident) interp.Operation { return nil }
func (e *baseEnviron) outer() environ                                { return e.parent }
func (e *baseEnviron) frame() *frameInfo                             { return e.fi }
func (e *baseEnviron) visible(names []string) []string               { return names }

// A paramsEnviron binds the parameters of one function body to the
// leading slots of its call frame.
type paramsEnviron struct {
	parent environ
	fi     *frameInfo
	params []*syntax.Ident
}

func (e *paramsEnviron) lookupLocal(id *syntax.Ident) interp.Operation {
	for i, p := range e.params {
		if p.Name == id.Name {
			return &interp.FrameRef{Name: id.Name, Slot: i}
		}
	}
	return nil
}

func (e *paramsEnviron) outer() environ    { return e.parent }
func (e *paramsEnviron) frame() *frameInfo { return e.fi }

func (e *paramsEnviron) visible(names []string) []string {
	for _, p := range e.params {
		names = append(names, p.Name)
	}
	return names
}

// analyzeExpr resolves an expression phrase to an operation in the
// given environment. The environment is threaded explicitly through
// every call; there is no ambient current scope.
func analyzeExpr(e syntax.Expr, env environ) interp.Operation {
	switch e := e.(type) {
	case *syntax.Ident:
		return lookup(env, e)

	case *syntax.Literal:
		switch v := e.Value.(type) {
		case int64:
			return &interp.Constant{V: interp.Number(v)}
		case float64:
			return &interp.Constant{V: interp.Number(v)}
		case string:
			return &interp.Constant{V: interp.String(v)}
		}

	case *syntax.ParenExpr:
		return analyzeExpr(e.X, env)

	case *syntax.UnaryExpr:
		return &interp.Unary{Pos: e.OpPos, Op: e.Op, X: analyzeExpr(e.X, env)}

	case *syntax.BinaryExpr:
		return &interp.Binary{
			Pos: e.OpPos,
			Op:  e.Op,
			X:   analyzeExpr(e.X, env),
			Y:   analyzeExpr(e.Y, env),
		}

	case *syntax.CondExpr:
		return &interp.Cond{
			Pos:   e.If,
			Cond:  analyzeExpr(e.Cond, env),
			True:  analyzeExpr(e.True, env),
			False: analyzeExpr(e.False, env),
		}

	case *syntax.CallExpr:
		call := &interp.Call{Pos: e.Lparen, Fn: analyzeExpr(e.Fn, env)}
		for _, arg := range e.Args {
			call.Args = append(call.Args, analyzeExpr(arg, env))
		}
		return call

	case *syntax.DotExpr:
		return &interp.Select{
			Pos:  e.Name.NamePos,
			X:    analyzeExpr(e.X, env),
			Name: e.Name.Name,
		}

	case *syntax.BlockExpr:
		return analyzeBlock(e, env)

	case *syntax.ModuleExpr:
		return analyzeModule(e, env)
	}
	panic(fmt.Sprintf("internal error: unexpected expression %T", e))
}

// analyzeBlock resolves a let- or do-expression. Both allocate their
// slots in the enclosing frame; they differ only in scope discipline.
func analyzeBlock(e *syntax.BlockExpr, env environ) interp.Operation {
	c := newCompound(e.Defs)
	if e.Tok == syntax.DO {
		sc := newSequentialScope(env, false)
		sc.analyze(c)
		return &interp.Block{Actions: sc.actions, Body: analyzeExpr(e.Body, sc)}
	}
	sc := newRecursiveScope(env, false)
	sc.analyze(c)
	return &interp.Block{Actions: sc.actions, Body: analyzeExpr(e.Body, sc)}
}

// analyzeModule resolves a module literal: a recursive module-target
// scope whose dictionary is published on the module value.
func analyzeModule(e *syntax.ModuleExpr, env environ) interp.Operation {
	sc := newRecursiveScope(env, true)
	sc.analyze(newCompound(e.Stmts))
	return &interp.ScopedModule{
		ModuleSlot: sc.moduleSlot,
		Dict:       sc.dictionary(),
		Actions:    sc.actions,
	}
}
