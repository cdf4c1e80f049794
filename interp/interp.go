// Copyright 2025 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package interp

// This file defines the resolved-operation tree produced by the
// resolver, and its execution. An Operation reads and writes the
// slots of a Frame; the resolver guarantees that every slot is
// written by exactly one setter action before any operation reads it.

import (
	"fmt"
	"math"

	"go.lodelang.net/syntax"
)

// A Frame holds the local slots of one function activation (or of the
// top-level program), plus the module of nonlocal values shared by
// the recursion group of the running function, if any.
type Frame struct {
	Locals    []Value
	Nonlocals *Module
}

// An Operation is a resolved expression or action.
type Operation interface {
	// Exec executes the operation in the given frame.
	Exec(fr *Frame) (Value, error)
}

// An EvalError is a Lode evaluation error and its position.
type EvalError struct {
	Pos syntax.Position
	Msg string
}

func (e *EvalError) Error() string { return e.Pos.String() + ": " + e.Msg }

func errorf(pos syntax.Position, format string, args ...interface{}) *EvalError {
	return &EvalError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// A Program is the executable form of a resolved module body:
// the ordered action list and the published name dictionary.
// Executing the actions in order initializes every module field
// exactly once, dependencies first.
type Program struct {
	FrameSize  int            // number of top-level frame slots
	ModuleSlot int            // frame slot holding the module value
	Globals    map[string]int // name → module field index
	Actions    []Operation
}

// Init executes the program's action list in a fresh frame and
// returns the initialized module.
func (p *Program) Init() (*Module, error) {
	fr := &Frame{Locals: make([]Value, p.FrameSize)}
	m := &Module{Dict: p.Globals, Fields: make([]Value, len(p.Globals))}
	fr.Locals[p.ModuleSlot] = m
	for _, act := range p.Actions {
		if _, err := act.Exec(fr); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// A Constant is a value known at resolve time.
type Constant struct {
	V Value
}

func (c *Constant) Exec(fr *Frame) (Value, error) { return c.V, nil }

// A FrameRef reads a local slot of the current frame.
type FrameRef struct {
	Name string
	Slot int
}

func (r *FrameRef) Exec(fr *Frame) (Value, error) { return fr.Locals[r.Slot], nil }

// A ModuleRef reads field Index of the module held in frame slot
// ModuleSlot. Module-target scopes produce these instead of FrameRefs
// so that field identity is stable across the module's lifetime.
type ModuleRef struct {
	Name       string
	ModuleSlot int
	Index      int
}

func (r *ModuleRef) Exec(fr *Frame) (Value, error) {
	return fr.Locals[r.ModuleSlot].(*Module).Fields[r.Index], nil
}

// A NonlocalRef reads a free variable of the running function from
// the nonlocals module shared by its recursion group.
type NonlocalRef struct {
	Pos  syntax.Position
	Name string
}

func (r *NonlocalRef) Exec(fr *Frame) (Value, error) {
	v, ok := fr.Nonlocals.Get(r.Name)
	if !ok {
		panic("internal error: nonlocal " + r.Name + " missing from enumeration")
	}
	return v, nil
}

// A DataSetter writes the value of a data definition into its frame
// slot. It is the initializer action emitted when the definition's
// unit finishes analysis.
type DataSetter struct {
	Slot int
	Expr Operation
}

func (s *DataSetter) Exec(fr *Frame) (Value, error) {
	v, err := s.Expr.Exec(fr)
	if err != nil {
		return nil, err
	}
	fr.Locals[s.Slot] = v
	return NullV, nil
}

// A ModuleDataSetter writes the value of a data definition into a
// field of the module held in frame slot ModuleSlot.
type ModuleDataSetter struct {
	ModuleSlot int
	Index      int
	Expr       Operation
}

func (s *ModuleDataSetter) Exec(fr *Frame) (Value, error) {
	v, err := s.Expr.Exec(fr)
	if err != nil {
		return nil, err
	}
	fr.Locals[s.ModuleSlot].(*Module).Fields[s.Index] = v
	return NullV, nil
}

// A FuncEntry pairs one function of a recursion group with its
// destination slot.
type FuncEntry struct {
	Slot   int
	Lambda *Lambda
}

// A FunctionSetter is the grouped initializer for one strongly
// connected component of function definitions. In a single step it
// evaluates the shared nonlocals enumeration and installs a closure
// for every function of the group, so each closure observes every
// other member's slot as already initialized.
//
// ModuleSlot is -1 for a frame-target scope; otherwise the entries'
// slots index the fields of the module held in that frame slot.
type FunctionSetter struct {
	ModuleSlot int
	Nonlocals  *EnumModule
	Entries    []FuncEntry
}

func (s *FunctionSetter) Exec(fr *Frame) (Value, error) {
	nl, err := s.Nonlocals.eval(fr)
	if err != nil {
		return nil, err
	}
	var module *Module
	if s.ModuleSlot >= 0 {
		module = fr.Locals[s.ModuleSlot].(*Module)
	}
	for _, e := range s.Entries {
		c := &Closure{Lambda: e.Lambda, Nonlocals: nl}
		if module != nil {
			module.Fields[e.Slot] = c
		} else {
			fr.Locals[e.Slot] = c
		}
	}
	return NullV, nil
}

// An EnumModule constructs a module from a fixed enumeration of
// expressions. It is used for the shared nonlocals of a recursion
// group: the group's own lambda templates first, then each free
// variable captured by any member, once.
type EnumModule struct {
	Dict  map[string]int
	Exprs []Operation
}

func (e *EnumModule) eval(fr *Frame) (*Module, error) {
	fields := make([]Value, len(e.Exprs))
	for i, x := range e.Exprs {
		v, err := x.Exec(fr)
		if err != nil {
			return nil, err
		}
		fields[i] = v
	}
	return &Module{Dict: e.Dict, Fields: fields}, nil
}

// A ScopedModule evaluates a module literal: it installs a fresh
// module value in its base slot, runs the scope's action list to
// initialize the fields, and yields the module.
type ScopedModule struct {
	ModuleSlot int
	Dict       map[string]int
	Actions    []Operation
}

func (m *ScopedModule) Exec(fr *Frame) (Value, error) {
	mod := &Module{Dict: m.Dict, Fields: make([]Value, len(m.Dict))}
	fr.Locals[m.ModuleSlot] = mod
	for _, act := range m.Actions {
		if _, err := act.Exec(fr); err != nil {
			return nil, err
		}
	}
	return mod, nil
}

// A Block evaluates the action list of a let- or do-expression,
// then its body.
type Block struct {
	Actions []Operation
	Body    Operation
}

func (b *Block) Exec(fr *Frame) (Value, error) {
	for _, act := range b.Actions {
		if _, err := act.Exec(fr); err != nil {
			return nil, err
		}
	}
	return b.Body.Exec(fr)
}

// A Call invokes a function value.
type Call struct {
	Pos  syntax.Position // position of '('
	Fn   Operation
	Args []Operation
}

func (c *Call) Exec(fr *Frame) (Value, error) {
	fnv, err := c.Fn.Exec(fr)
	if err != nil {
		return nil, err
	}
	args := make([]Value, len(c.Args))
	for i, a := range c.Args {
		if args[i], err = a.Exec(fr); err != nil {
			return nil, err
		}
	}
	switch fn := fnv.(type) {
	case *Builtin:
		v, err := fn.fn(args)
		if err != nil {
			return nil, errorf(c.Pos, "%v", err)
		}
		return v, nil
	case *Closure:
		return c.call(fn.Lambda, fn.Nonlocals, args)
	case *Lambda:
		// A bare lambda template is only reachable through the
		// nonlocals of its own recursion group, so the caller's
		// nonlocals are the group's shared enumeration.
		return c.call(fn, fr.Nonlocals, args)
	}
	return nil, errorf(c.Pos, "%s value is not callable", fnv.Type())
}

func (c *Call) call(l *Lambda, nonlocals *Module, args []Value) (Value, error) {
	if len(args) != l.NumParams {
		return nil, errorf(c.Pos, "function %s takes %d arguments (%d given)",
			l.Name, l.NumParams, len(args))
	}
	fr := &Frame{Locals: make([]Value, l.FrameSize), Nonlocals: nonlocals}
	copy(fr.Locals, args)
	return l.Body.Exec(fr)
}

// A Select reads a field of a module value: X.Name.
type Select struct {
	Pos  syntax.Position
	X    Operation
	Name string
}

func (s *Select) Exec(fr *Frame) (Value, error) {
	x, err := s.X.Exec(fr)
	if err != nil {
		return nil, err
	}
	m, ok := x.(*Module)
	if !ok {
		return nil, errorf(s.Pos, "%s value has no fields", x.Type())
	}
	v, ok := m.Get(s.Name)
	if !ok {
		return nil, errorf(s.Pos, "module has no field %q", s.Name)
	}
	return v, nil
}

// A Cond evaluates one of two expressions, by a condition.
type Cond struct {
	Pos               syntax.Position
	Cond, True, False Operation
}

func (c *Cond) Exec(fr *Frame) (Value, error) {
	cond, err := c.Cond.Exec(fr)
	if err != nil {
		return nil, err
	}
	if cond.Truth() {
		return c.True.Exec(fr)
	}
	return c.False.Exec(fr)
}

// A Unary evaluates a unary operation: -x, !x.
type Unary struct {
	Pos syntax.Position
	Op  syntax.Token
	X   Operation
}

func (u *Unary) Exec(fr *Frame) (Value, error) {
	x, err := u.X.Exec(fr)
	if err != nil {
		return nil, err
	}
	switch u.Op {
	case syntax.MINUS:
		if n, ok := x.(Number); ok {
			return -n, nil
		}
	case syntax.NOT:
		return Bool(!x.Truth()), nil
	}
	return nil, errorf(u.Pos, "invalid operand %s for unary %s", x.Type(), u.Op)
}

// A Binary evaluates a binary operation. The logical operators &&
// and || are short-circuiting.
type Binary struct {
	Pos  syntax.Position
	Op   syntax.Token
	X, Y Operation
}

func (b *Binary) Exec(fr *Frame) (Value, error) {
	x, err := b.X.Exec(fr)
	if err != nil {
		return nil, err
	}
	switch b.Op {
	case syntax.AND:
		if !x.Truth() {
			return False, nil
		}
		y, err := b.Y.Exec(fr)
		if err != nil {
			return nil, err
		}
		return Bool(y.Truth()), nil
	case syntax.OR:
		if x.Truth() {
			return True, nil
		}
		y, err := b.Y.Exec(fr)
		if err != nil {
			return nil, err
		}
		return Bool(y.Truth()), nil
	}

	y, err := b.Y.Exec(fr)
	if err != nil {
		return nil, err
	}
	switch b.Op {
	case syntax.EQL:
		return Bool(Equal(x, y)), nil
	case syntax.NEQ:
		return Bool(!Equal(x, y)), nil
	}

	switch x := x.(type) {
	case Number:
		if y, ok := y.(Number); ok {
			switch b.Op {
			case syntax.PLUS:
				return x + y, nil
			case syntax.MINUS:
				return x - y, nil
			case syntax.STAR:
				return x * y, nil
			case syntax.SLASH:
				if y == 0 {
					return nil, errorf(b.Pos, "division by zero")
				}
				return x / y, nil
			case syntax.PERCENT:
				if y == 0 {
					return nil, errorf(b.Pos, "division by zero")
				}
				return Number(math.Mod(float64(x), float64(y))), nil
			case syntax.LT:
				return Bool(x < y), nil
			case syntax.GT:
				return Bool(x > y), nil
			case syntax.LE:
				return Bool(x <= y), nil
			case syntax.GE:
				return Bool(x >= y), nil
			}
		}
	case String:
		if y, ok := y.(String); ok {
			switch b.Op {
			case syntax.PLUS:
				return x + y, nil
			case syntax.LT:
				return Bool(x < y), nil
			case syntax.GT:
				return Bool(x > y), nil
			case syntax.LE:
				return Bool(x <= y), nil
			case syntax.GE:
				return Bool(x >= y), nil
			}
		}
	}
	return nil, errorf(b.Pos, "invalid operands %s %s %s", x.Type(), b.Op, y.Type())
}
