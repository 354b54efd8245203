package symtab

import "github.com/cwbudde/goapl/internal/errors"

// maxChain scales the per-namespace name limit: Lookup raises
// SYSTEM_LIMIT_NAMES once a namespace already holds maxChain*4096
// names. The table is a Go map, so no per-slot chain length is bounded.
const maxChain = 255

// Table is the hash table of §2.7/§4.7: name → Symbol, with quad-names
// occupying a distinct namespace so "IO" (a variable) and "⎕IO" (a
// system variable) never collide.
type Table struct {
	names  map[string]*Symbol
	quads  map[string]*Symbol
	erased map[string]bool
}

// New creates an empty symbol table.
func New() *Table {
	return &Table{
		names:  make(map[string]*Symbol),
		quads:  make(map[string]*Symbol),
		erased: make(map[string]bool),
	}
}

func (t *Table) bucket(quad bool) map[string]*Symbol {
	if quad {
		return t.quads
	}
	return t.names
}

// Lookup returns the existing Symbol for name, creating it (as Unused)
// if absent (§4.7 "create-if-missing").
func (t *Table) Lookup(name string, quad bool) (*Symbol, error) {
	b := t.bucket(quad)
	if sym, ok := b[name]; ok {
		delete(t.erased, key(name, quad))
		return sym, nil
	}
	if len(b) >= maxChain*4096 {
		return nil, errors.New(errors.SYSTEM_LIMIT_NAMES, "too many distinct names")
	}
	sym := newSymbol(name)
	b[name] = sym
	return sym, nil
}

// LookupExisting returns the Symbol for name without creating one;
// returns nil if absent or erased (§4.7 "no create").
func (t *Table) LookupExisting(name string, quad bool) *Symbol {
	if t.erased[key(name, quad)] {
		return nil
	}
	return t.bucket(quad)[name]
}

// Erase pops all stack levels of name to Unused and marks it erased.
// It does not check whether the symbol is pending on an SI stack, and
// no code outside the tests calls it.
func (t *Table) Erase(name string, quad bool) {
	b := t.bucket(quad)
	sym, ok := b[name]
	if !ok {
		return
	}
	for len(sym.Stack) > 1 {
		sym.Pop()
	}
	sym.Stack[0] = StackItem{Class: Unused}
	t.erased[key(name, quad)] = true
}

// PushAll shadows each named Symbol with a fresh Unused binding —
// used on user-function entry to shadow locals/formals (§4.7).
func (t *Table) PushAll(names []string, quad bool) []*Symbol {
	syms := make([]*Symbol, len(names))
	for i, n := range names {
		sym, _ := t.Lookup(n, quad)
		sym.Push()
		syms[i] = sym
	}
	return syms
}

// PopAll pops the shadowing binding pushed by a matching PushAll call,
// in reverse order (LIFO, matching call-stack discipline).
func (t *Table) PopAll(syms []*Symbol) {
	for i := len(syms) - 1; i >= 0; i-- {
		syms[i].Pop()
	}
}

func key(name string, quad bool) string {
	if quad {
		return "⎕" + name
	}
	return name
}
