// Copyright 2025 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

// This file defines the two scope disciplines.
//
// A sequential scope has strict left-to-right visibility: each
// definition is analyzed at its point of registration, and its
// initializer action is appended immediately, so a reference to a
// name defined later simply fails lookup.
//
// A recursive scope is order-independent. Analysis of a definition is
// deferred until its name is first looked up; the lookup recursively
// analyzes everything the definition depends on, emitting initializer
// actions in dependency order. Tarjan's strongly-connected-components
// algorithm, run lazily over this recursion, groups mutually
// recursive function definitions into a single grouped initializer
// and rejects recursion through data definitions.

import (
	"go.lodelang.net/interp"
	"go.lodelang.net/syntax"
)

// A scope owns the slots and name dictionary of one block.
// Definitions register through the beginUnit/addBinding/endUnit
// protocol; bare statements arrive through addAction.
type scope interface {
	environ
	beginUnit(def definition) int
	addBinding(id *syntax.Ident, unitno int) int
	endUnit(unitno int, def definition)
	addAction(stmt syntax.Expr)
}

// scopeCore holds the parts common to both scope variants.
// If targetModule is set, slots are stable module field indices and
// lookups produce module-indirect references through moduleSlot, the
// frame slot holding the module value; otherwise slots are frame
// offsets, and moduleSlot is -1.
type scopeCore struct {
	parent       environ
	fi           *frameInfo // shared with enclosing rings of the same frame
	targetModule bool
	moduleSlot   int
	actions      []interp.Operation
}

func (sc *scopeCore) outer() environ    { return sc.parent }
func (sc *scopeCore) frame() *frameInfo { return sc.fi }

// A sequentialScope implements strict source-order visibility.
type sequentialScope struct {
	scopeCore
	dict map[string]int // name → slot
}

func newSequentialScope(parent environ, targetModule bool) *sequentialScope {
	core := scopeCore{parent: parent, fi: parent.frame(), moduleSlot: -1}
	if targetModule {
		core.targetModule = true
		core.moduleSlot = core.fi.makeSlot()
	}
	return &sequentialScope{scopeCore: core, dict: make(map[string]int)}
}

// dictionary publishes the scope's name → slot mapping.
func (s *sequentialScope) dictionary() map[string]int {
	d := make(map[string]int, len(s.dict))
	for name, slot := range s.dict {
		d[name] = slot
	}
	return d
}

// analyze registers and analyzes the compound definition.
// Sequential units are analyzed immediately, in source order.
func (s *sequentialScope) analyze(c *compound) {
	c.addToScope(s)
}

func (s *sequentialScope) beginUnit(def definition) int {
	def.analyze(s)
	return 0
}

func (s *sequentialScope) addBinding(id *syntax.Ident, unitno int) int {
	if _, ok := s.dict[id.Name]; ok {
		failf(id.NamePos, "%s: multiply defined", id.Name)
	}
	var slot int
	if s.targetModule {
		slot = len(s.dict)
	} else {
		slot = s.fi.makeSlot()
	}
	s.dict[id.Name] = slot
	return slot
}

func (s *sequentialScope) endUnit(unitno int, def definition) {
	s.actions = append(s.actions, def.makeSetter(s.moduleSlot))
}

func (s *sequentialScope) addAction(stmt syntax.Expr) {
	s.actions = append(s.actions, analyzeExpr(stmt, s))
}

func (s *sequentialScope) lookupLocal(id *syntax.Ident) interp.Operation {
	slot, ok := s.dict[id.Name]
	if !ok {
		return nil
	}
	if s.targetModule {
		return &interp.ModuleRef{Name: id.Name, ModuleSlot: s.moduleSlot, Index: slot}
	}
	return &interp.FrameRef{Name: id.Name, Slot: slot}
}

func (s *sequentialScope) visible(names []string) []string {
	for name := range s.dict {
		names = append(names, name)
	}
	return names
}

// Unit lifecycle states.
const (
	unitNotAnalyzed int8 = iota
	unitInProgress
	unitAnalyzed // terminal
)

// A unit pairs one definition of a recursive scope with its
// cycle-detection state.
type unit struct {
	def     definition
	state   int8
	ord     int // discovery-order number
	lowlink int // smallest ord reachable from this unit

	// Free variables captured while analyzing a function unit's body,
	// in first-reference order. The operations are resolved against
	// the enclosing scope and are evaluated by the grouped setter to
	// build the shared nonlocals enumeration.
	captures     map[string]interp.Operation
	captureNames []string
}

func (u *unit) isData() bool {
	_, ok := u.def.(*dataDef)
	return ok
}

// recBinding is a recursive scope's dictionary entry.
type recBinding struct {
	slot    int
	unitIdx int
}

// A recursiveScope supports forward references and mutual recursion
// among functions.
type recursiveScope struct {
	scopeCore
	dict  map[string]recBinding
	units []unit

	actionStmts []syntax.Expr // bare statements, analyzed after registration

	// Tarjan SCC state. Both stacks hold indices into units: the
	// analysis stack is the current depth-first path; the SCC stack
	// holds members of components not yet emitted.
	sccStack      []int
	analysisStack []int
	sccCount      int
}

func newRecursiveScope(parent environ, targetModule bool) *recursiveScope {
	core := scopeCore{parent: parent, fi: parent.frame(), moduleSlot: -1}
	if targetModule {
		core.targetModule = true
		core.moduleSlot = core.fi.makeSlot()
	}
	return &recursiveScope{scopeCore: core, dict: make(map[string]recBinding)}
}

// analyze registers the compound definition, analyzes the bare
// statements, then force-analyzes any unit never triggered by a
// lookup (covering bindings unused by other bindings).
func (s *recursiveScope) analyze(c *compound) {
	c.addToScope(s)
	for _, stmt := range s.actionStmts {
		s.actions = append(s.actions, analyzeExpr(stmt, s))
	}
	for i := range s.units {
		if s.units[i].state == unitNotAnalyzed {
			s.analyzeUnit(i, nil)
		}
	}
}

func (s *recursiveScope) beginUnit(def definition) int {
	s.units = append(s.units, unit{def: def})
	return len(s.units) - 1
}

func (s *recursiveScope) addBinding(id *syntax.Ident, unitno int) int {
	if _, ok := s.dict[id.Name]; ok {
		failf(id.NamePos, "%s: multiply defined", id.Name)
	}
	var slot int
	if s.targetModule {
		slot = len(s.dict)
	} else {
		slot = s.fi.makeSlot()
	}
	s.dict[id.Name] = recBinding{slot: slot, unitIdx: unitno}
	return slot
}

func (s *recursiveScope) endUnit(unitno int, def definition) {}

func (s *recursiveScope) addAction(stmt syntax.Expr) {
	s.actionStmts = append(s.actionStmts, stmt)
}

// lookupLocal resolves a name of this scope, first ensuring its unit
// is analyzed. This is how a forward reference resolves: the lookup
// recursively drives the analysis of everything it depends on.
func (s *recursiveScope) lookupLocal(id *syntax.Ident) interp.Operation {
	b, ok := s.dict[id.Name]
	if !ok {
		return nil
	}
	s.analyzeUnit(b.unitIdx, id)
	if s.targetModule {
		return &interp.ModuleRef{Name: id.Name, ModuleSlot: s.moduleSlot, Index: b.slot}
	}
	return &interp.FrameRef{Name: id.Name, Slot: b.slot}
}

func (s *recursiveScope) visible(names []string) []string {
	for name := range s.dict {
		names = append(names, name)
	}
	return names
}

// dictionary publishes the scope's name → slot mapping.
func (s *recursiveScope) dictionary() map[string]int {
	d := make(map[string]int, len(s.dict))
	for name, b := range s.dict {
		d[name] = b.slot
	}
	return d
}

// analyzeUnit analyzes the unit with index ui, then appends the
// action that initializes its bindings. Analyzing a unit first
// analyzes, and emits the initializers of, every unit it depends on,
// so slots are initialized in dependency order.
//
// This is Tarjan's SCC algorithm computed lazily: a component is
// discovered the first time one of its members is looked up, and a
// component of mutually recursive functions is emitted as one grouped
// initializer. id is the identifier whose lookup triggered the
// analysis; it is nil only for force-analysis of unreferenced units,
// in which case the analysis stack is empty.
func (s *recursiveScope) analyzeUnit(ui int, id *syntax.Ident) {
	switch s.units[ui].state {
	case unitNotAnalyzed:
		s.units[ui].state = unitInProgress
		s.units[ui].ord = s.sccCount
		s.units[ui].lowlink = s.sccCount
		s.sccCount++
		s.sccStack = append(s.sccStack, ui)

		s.analysisStack = append(s.analysisStack, ui)
		if s.units[ui].isData() {
			s.units[ui].def.analyze(s)
		} else {
			s.units[ui].captures = make(map[string]interp.Operation)
			s.units[ui].def.analyze(&functionEnviron{scope: s, unit: ui})
		}
		s.analysisStack = s.analysisStack[:len(s.analysisStack)-1]

		if n := len(s.analysisStack); n > 0 {
			parent := &s.units[s.analysisStack[n-1]]
			if s.units[ui].lowlink < parent.lowlink {
				parent.lowlink = s.units[ui].lowlink
				if s.units[ui].isData() {
					// The unit closed a cycle back through a data
					// definition still on the path.
					failf(id.NamePos, "illegal recursive reference")
				}
			}
		}

	case unitInProgress:
		// Recursion detected: the unit is already on both stacks.
		if s.units[ui].isData() {
			failf(id.NamePos, "illegal recursive reference")
		}
		// Propagate the cycle head's discovery number down the path;
		// completion of the intervening units propagates it further.
		n := len(s.analysisStack)
		parent := &s.units[s.analysisStack[n-1]]
		if s.units[ui].ord < parent.lowlink {
			parent.lowlink = s.units[ui].ord
		}
		return

	case unitAnalyzed:
		return
	}

	if s.units[ui].lowlink == s.units[ui].ord {
		// The unit is the root of its component; all members are on
		// top of the SCC stack. Emit one initialization action.
		if s.units[ui].isData() {
			// A single-member data component.
			s.sccStack = s.sccStack[:len(s.sccStack)-1]
			s.units[ui].state = unitAnalyzed
			s.actions = append(s.actions, s.units[ui].def.makeSetter(s.moduleSlot))
		} else {
			first := len(s.sccStack) - 1
			for s.sccStack[first] != ui {
				first--
			}
			members := s.sccStack[first:]
			s.actions = append(s.actions, s.makeFunctionSetter(members))
			for _, m := range members {
				s.units[m].state = unitAnalyzed
			}
			s.sccStack = s.sccStack[:first]
		}
	}
}

// makeFunctionSetter builds the grouped initializer for a component
// of function units, given in discovery order. The shared nonlocals
// enumeration holds each member's lambda template as a constant,
// then every free variable captured by any member that is not itself
// a member, once each.
func (s *recursiveScope) makeFunctionSetter(members []int) interp.Operation {
	dict := make(map[string]int)
	var exprs []interp.Operation
	entries := make([]interp.FuncEntry, 0, len(members))

	for _, m := range members {
		f, ok := s.units[m].def.(*funcDef)
		if !ok {
			pos, _ := s.units[m].def.ident().Span()
			failf(pos, "recursive data definition")
		}
		dict[f.id.Name] = len(exprs)
		exprs = append(exprs, &interp.Constant{V: f.lambda})
		entries = append(entries, interp.FuncEntry{Slot: f.slot, Lambda: f.lambda})
	}

	for _, m := range members {
		u := &s.units[m]
		for _, name := range u.captureNames {
			if _, ok := dict[name]; !ok {
				dict[name] = len(exprs)
				exprs = append(exprs, u.captures[name])
			}
		}
	}

	return &interp.FunctionSetter{
		ModuleSlot: s.moduleSlot,
		Nonlocals:  &interp.EnumModule{Dict: dict, Exprs: exprs},
		Entries:    entries,
	}
}

// A functionEnviron is the environment in which one function unit's
// body is analyzed. A free-variable lookup is forwarded to the
// enclosing recursive scope (possibly triggering further unit
// analysis); a compile-time constant is inlined, and anything else is
// recorded once as a capture of the unit and replaced by a nonlocal
// reference into the group's shared enumeration.
type functionEnviron struct {
	scope *recursiveScope
	unit  int
}

func (fe *functionEnviron) lookupLocal(id *syntax.Ident) interp.Operation {
	u := &fe.scope.units[fe.unit]
	if _, ok := u.captures[id.Name]; ok {
		return &interp.NonlocalRef{Pos: id.NamePos, Name: id.Name}
	}
	op := lookup(fe.scope, id)
	if c, ok := op.(*interp.Constant); ok {
		return c
	}
	u.captures[id.Name] = op
	u.captureNames = append(u.captureNames, id.Name)
	return &interp.NonlocalRef{Pos: id.NamePos, Name: id.Name}
}

// The wrapped lookup covers the entire enclosing chain, so the
// environ chain ends here.
func (fe *functionEnviron) outer() environ { return nil }

func (fe *functionEnviron) frame() *frameInfo { return fe.scope.frame() }

func (fe *functionEnviron) visible(names []string) []string { return names }
