// Copyright 2025 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

// This file defines the resolver's view of definitions: one
// definition per binding, plus the compound definition that registers
// a block's bindings and bare statements into a scope.

import (
	"go.lodelang.net/interp"
	"go.lodelang.net/syntax"
)

// A definition is one binding of a block: a name, an unresolved
// right-hand side, and, once registered, a slot.
//
// Lifecycle: constructed from a DefStmt, registered into exactly one
// scope (addToScope, which reserves its slot), analyzed exactly once
// (analyze, which resolves the right-hand side), then consumed by
// makeSetter to produce its initializer action.
type definition interface {
	// addToScope registers the definition, reserving its slot.
	addToScope(sc scope)
	// analyze resolves the right-hand side in the given environment.
	analyze(env environ)
	// makeSetter returns the action that initializes the definition's
	// slot, or the field moduleSlot's module if moduleSlot >= 0.
	makeSetter(moduleSlot int) interp.Operation
	// ident returns the defined name.
	ident() *syntax.Ident
}

// A dataDef is a data definition: name = expr.
type dataDef struct {
	id   *syntax.Ident
	rhs  syntax.Expr
	slot int              // assigned at registration
	expr interp.Operation // resolved right-hand side, set by analyze
}

func (d *dataDef) ident() *syntax.Ident { return d.id }

func (d *dataDef) addToScope(sc scope) {
	un := sc.beginUnit(d)
	d.slot = sc.addBinding(d.id, un)
	sc.endUnit(un, d)
}

func (d *dataDef) analyze(env environ) {
	d.expr = analyzeExpr(d.rhs, env)
}

func (d *dataDef) makeSetter(moduleSlot int) interp.Operation {
	if moduleSlot >= 0 {
		return &interp.ModuleDataSetter{ModuleSlot: moduleSlot, Index: d.slot, Expr: d.expr}
	}
	return &interp.DataSetter{Slot: d.slot, Expr: d.expr}
}

// A funcDef is a function definition: name(params) = expr.
// Analysis resolves it to a reusable lambda template; free variables
// of the body are captured symbolically through the enclosing
// recursive scope, so the template is independent of any one set of
// captured values.
type funcDef struct {
	id     *syntax.Ident
	params []*syntax.Ident
	body   syntax.Expr
	slot   int            // assigned at registration
	lambda *interp.Lambda // set by analyze
}

func (d *funcDef) ident() *syntax.Ident { return d.id }

func (d *funcDef) addToScope(sc scope) {
	un := sc.beginUnit(d)
	d.slot = sc.addBinding(d.id, un)
	sc.endUnit(un, d)
}

func (d *funcDef) analyze(env environ) {
	seen := make(map[string]bool, len(d.params))
	for _, p := range d.params {
		if seen[p.Name] {
			failf(p.NamePos, "%s: multiply defined", p.Name)
		}
		seen[p.Name] = true
	}
	fi := &frameInfo{maxSlots: len(d.params)}
	penv := &paramsEnviron{parent: env, fi: fi, params: d.params}
	body := analyzeExpr(d.body, penv)
	d.lambda = &interp.Lambda{
		Name:      d.id.Name,
		NumParams: len(d.params),
		FrameSize: fi.maxSlots,
		Body:      body,
	}
}

// Function slots are always initialized by the grouped setter of the
// enclosing recursive scope, never individually; the parser keeps
// function definitions out of sequential scopes, so this is
// unreachable except by a resolver bug.
func (d *funcDef) makeSetter(moduleSlot int) interp.Operation {
	panic("internal error: standalone setter for function definition " + d.id.Name)
}

// A compound is an ordered sequence of definitions and bare
// statements within one syntactic block. Order is semantically
// significant only under a sequential scope; a recursive scope
// reconstructs its order from the dependency graph.
type compound struct {
	entries []compoundEntry
}

// compoundEntry is a definition or a bare statement, never both.
type compoundEntry struct {
	def  definition
	stmt syntax.Expr
}

// newCompound builds a compound definition from parsed statements.
func newCompound(stmts []syntax.Stmt) *compound {
	c := &compound{entries: make([]compoundEntry, 0, len(stmts))}
	for _, stmt := range stmts {
		switch stmt := stmt.(type) {
		case *syntax.DefStmt:
			var def definition
			if stmt.Params != nil {
				def = &funcDef{id: stmt.Name, params: stmt.Params, body: stmt.RHS}
			} else {
				def = &dataDef{id: stmt.Name, rhs: stmt.RHS}
			}
			c.entries = append(c.entries, compoundEntry{def: def})
		case *syntax.ExprStmt:
			c.entries = append(c.entries, compoundEntry{stmt: stmt.X})
		}
	}
	return c
}

// addToScope registers the compound's entries in source order.
func (c *compound) addToScope(sc scope) {
	for _, e := range c.entries {
		if e.def == nil {
			sc.addAction(e.stmt)
		} else {
			e.def.addToScope(sc)
		}
	}
}
