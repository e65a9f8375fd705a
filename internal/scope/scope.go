// Package scope implements the two-level identifier lookup described in
// identifier.c: at any moment only the current local scope (the function
// being executed, or the top-level module before any call) and the single
// global scope are visible. There are no closures and no full parent chain
// walk — a name not found locally falls through directly to global.
package scope

import "github.com/exin-lang/exin/internal/value"

// Scope is one level of the scope hierarchy: a flat table of bound
// identifiers plus an Indentation field that starts as [0]. The scanner
// keeps its own indentation stack (lexer.Scanner.PushIndent/PopIndent at
// function calls) and does not read this field.
type Scope struct {
	parent      *Scope
	vars        map[string]value.Value
	Indentation []int // stack of indent columns open in this scope
}

func newScope(parent *Scope) *Scope {
	return &Scope{parent: parent, vars: make(map[string]value.Value), Indentation: []int{0}}
}

// Manager tracks the global scope and whichever scope is currently local,
// mirroring the 'global'/'local' globals in identifier.c.
type Manager struct {
	Global *Scope
	Local  *Scope
}

// NewManager creates a manager whose global and local scope are initially
// the same level, matching "Scope *local = &top" at program start.
func NewManager() *Manager {
	top := newScope(nil)
	return &Manager{Global: top, Local: top}
}

// Push creates a new local scope (entering a function call) and returns it.
func (m *Manager) Push() *Scope {
	m.Local = newScope(m.Local)
	return m.Local
}

// Pop discards the current local scope and releases every value bound in
// it, restoring the parent as local. Popping the global scope is a no-op,
// matching removeScopeLevel's "if (local != global)" guard.
func (m *Manager) Pop() {
	if m.Local == m.Global {
		return
	}
	for _, v := range m.Local.vars {
		value.Decref(v)
	}
	m.Local = m.Local.parent
}

// Lookup searches local then global, returning (nil, false) if name is
// bound nowhere visible (search()).
func (m *Manager) Lookup(name string) (value.Value, bool) {
	if v, ok := m.Local.vars[name]; ok {
		return v, true
	}
	if m.Local != m.Global {
		if v, ok := m.Global.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Declare binds name in the local scope if it is not already bound there,
// taking ownership of v (add()+bind()). It reports whether the name was
// newly declared.
func (m *Manager) Declare(name string, v value.Value) bool {
	if _, exists := m.Local.vars[name]; exists {
		return false
	}
	m.Local.vars[name] = value.Incref(v)
	return true
}

// Assign rebinds an already-declared identifier found via Lookup's rules,
// releasing its previous value (bind() calling unbind() first). ok is false
// if name is not bound anywhere visible.
func (m *Manager) Assign(name string, v value.Value) bool {
	if old, ok := m.Local.vars[name]; ok {
		value.Decref(old)
		m.Local.vars[name] = value.Incref(v)
		return true
	}
	if m.Local != m.Global {
		if old, ok := m.Global.vars[name]; ok {
			value.Decref(old)
			m.Global.vars[name] = value.Incref(v)
			return true
		}
	}
	return false
}

// DeclareGlobal binds name directly in the global scope, used by the
// pre-scan pass to register every "def" before the body of any function
// runs, regardless of where in the file the pre-scan currently is.
func (m *Manager) DeclareGlobal(name string, v value.Value) bool {
	if _, exists := m.Global.vars[name]; exists {
		return false
	}
	m.Global.vars[name] = value.Incref(v)
	return true
}

// Names returns every identifier bound in scope, for the debug dump (§A.2
// TraceDump).
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.vars))
	for n := range s.vars {
		names = append(names, n)
	}
	return names
}
