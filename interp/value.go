// Copyright 2025 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package interp defines the Lode runtime: values, resolved
// operations, and frames, plus execution of the action lists
// produced by the resolver.
package interp

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Value is a value in the Lode interpreter.
type Value interface {
	// String returns the string form of the value.
	String() string
	// Type returns a short string describing the value's type.
	Type() string
	// Truth returns the truth value of an object.
	Truth() bool
}

// Null is the type of a Lode null. Its only legal value is NullV.
type Null byte

// NullV is the Lode null value.
const NullV = Null(0)

func (Null) String() string { return "null" }
func (Null) Type() string   { return "null" }
func (Null) Truth() bool    { return false }

// Bool is the type of a Lode bool.
type Bool bool

const (
	False Bool = false
	True  Bool = true
)

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }
func (b Bool) Type() string   { return "bool" }
func (b Bool) Truth() bool    { return bool(b) }

// Number is the type of a Lode number.
// Lode has a single numeric type, double-precision float.
type Number float64

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}
func (n Number) Type() string { return "number" }
func (n Number) Truth() bool  { return n != 0 && !math.IsNaN(float64(n)) }

// String is the type of a Lode string.
type String string

func (s String) String() string { return strconv.Quote(string(s)) }
func (s String) Type() string   { return "string" }
func (s String) Truth() bool    { return len(s) > 0 }

// A Lambda is a function template: a resolved body plus the shape of
// its call frame. It is not yet bound to the nonlocal values its body
// captures; a Closure supplies those. A bare Lambda appears as a value
// only inside the nonlocals of its own recursion group, where a call
// reuses the caller's nonlocals (see Call.Exec).
type Lambda struct {
	Name      string // name of defining binding
	NumParams int
	FrameSize int // number of local slots, parameters first
	Body      Operation
}

func (l *Lambda) String() string { return "<lambda " + l.Name + ">" }
func (l *Lambda) Type() string   { return "lambda" }
func (l *Lambda) Truth() bool    { return true }

// A Closure is a callable function: a lambda template bound to the
// module of nonlocal values shared by its recursion group.
type Closure struct {
	Lambda    *Lambda
	Nonlocals *Module
}

func (c *Closure) String() string { return "<function " + c.Lambda.Name + ">" }
func (c *Closure) Type() string   { return "function" }
func (c *Closure) Truth() bool    { return true }

// A Module is a finite enumeration of named fields.
// Dict maps each field name to its index in Fields.
type Module struct {
	Dict   map[string]int
	Fields []Value
}

// Get returns the value of the named field.
func (m *Module) Get(name string) (Value, bool) {
	if i, ok := m.Dict[name]; ok {
		return m.Fields[i], true
	}
	return nil, false
}

// Names returns the sorted field names of the module.
func (m *Module) Names() []string {
	names := make([]string, 0, len(m.Dict))
	for name := range m.Dict {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Module) String() string { return fmt.Sprintf("<module of %d fields>", len(m.Dict)) }
func (m *Module) Type() string   { return "module" }
func (m *Module) Truth() bool    { return true }

// A Builtin is a function predeclared by the interpreter.
type Builtin struct {
	name string
	fn   func(args []Value) (Value, error)
}

// NewBuiltin returns a builtin function with the given name
// and implementation.
func NewBuiltin(name string, fn func(args []Value) (Value, error)) *Builtin {
	return &Builtin{name, fn}
}

func (b *Builtin) Name() string   { return b.name }
func (b *Builtin) String() string { return "<builtin " + b.name + ">" }
func (b *Builtin) Type() string   { return "builtin" }
func (b *Builtin) Truth() bool    { return true }

// Equal reports whether two values are equal.
// Reference values compare by identity.
func Equal(x, y Value) bool {
	switch x := x.(type) {
	case Null:
		_, ok := y.(Null)
		return ok
	case Bool, Number, String:
		return x == y
	default:
		return x == y // identity
	}
}

// Universe defines the set of universal bindings in the Lode
// environment. Every universe binding is a compile-time constant,
// so references to them are inlined and never captured.
var Universe = map[string]Value{
	"null":  NullV,
	"true":  True,
	"false": False,
	"abs":   NewBuiltin("abs", builtinAbs),
	"sqrt":  NewBuiltin("sqrt", builtinSqrt),
	"len":   NewBuiltin("len", builtinLen),
	"print": NewBuiltin("print", builtinPrint),
	"error": NewBuiltin("error", builtinError),
}

func builtinAbs(args []Value) (Value, error) {
	n, err := oneNumber("abs", args)
	if err != nil {
		return nil, err
	}
	return Number(math.Abs(float64(n))), nil
}

func builtinSqrt(args []Value) (Value, error) {
	n, err := oneNumber("sqrt", args)
	if err != nil {
		return nil, err
	}
	return Number(math.Sqrt(float64(n))), nil
}

func builtinLen(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("len: got %d arguments, want 1", len(args))
	}
	switch x := args[0].(type) {
	case String:
		return Number(len(x)), nil
	case *Module:
		return Number(len(x.Dict)), nil
	}
	return nil, fmt.Errorf("len: %s has no length", args[0].Type())
}

func builtinPrint(args []Value) (Value, error) {
	for i, arg := range args {
		if i > 0 {
			fmt.Print(" ")
		}
		if s, ok := arg.(String); ok {
			fmt.Print(string(s))
		} else {
			fmt.Print(arg.String())
		}
	}
	fmt.Println()
	return NullV, nil
}

func builtinError(args []Value) (Value, error) {
	msg := "error"
	if len(args) > 0 {
		if s, ok := args[0].(String); ok {
			msg = string(s)
		} else {
			msg = args[0].String()
		}
	}
	return nil, fmt.Errorf("%s", msg)
}

func oneNumber(name string, args []Value) (Number, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s: got %d arguments, want 1", name, len(args))
	}
	n, ok := args[0].(Number)
	if !ok {
		return 0, fmt.Errorf("%s: want number, got %s", name, args[0].Type())
	}
	return n, nil
}
