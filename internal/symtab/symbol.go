// Package symtab implements §2.7/§3.4/§4.7 of the core spec: named
// objects carrying a stack of (name-class, payload) bindings, and the
// hash table of them a Workspace looks names up in.
//
// Grounded on the teacher's approach to scoped bindings (push/pop
// shadowing at call boundaries), generalized here to the name-class
// lattice §3.4 requires (Unused/Variable/Label/Function/Operator/Shared)
// instead of DWScript's single-typed-value-per-scope model.
package symtab

import (
	"github.com/cwbudde/goapl/internal/errors"
	"github.com/cwbudde/goapl/internal/value"
)

// Class is the name-class lattice of §3.4.
type Class int

const (
	Unused Class = iota
	Variable
	Label
	Function
	Operator
	Shared
)

func (c Class) String() string {
	switch c {
	case Unused:
		return "unused"
	case Variable:
		return "variable"
	case Label:
		return "label"
	case Function:
		return "function"
	case Operator:
		return "operator"
	case Shared:
		return "shared"
	default:
		return "unknown"
	}
}

// Callable is the minimal surface a Function/Operator binding needs;
// both built-in primitives and workspace.UserFunction satisfy it.
// Defined here (rather than imported from workspace) to avoid a cycle:
// workspace depends on symtab, not the reverse.
type Callable interface {
	Name() string
}

// StackItem is one (name-class, payload) binding on a Symbol's value
// stack (§3.4).
type StackItem struct {
	Class    Class
	Value    *value.Value // populated iff Class == Variable
	Line     int          // populated iff Class == Label
	Callable Callable     // populated iff Class == Function or Operator
	SharedID string       // populated iff Class == Shared (opaque protocol key, §3.4 "surface only")
}

// Symbol is a named object with a non-empty stack of StackItems; the
// top is the current binding (§3.4).
type Symbol struct {
	Name  string
	Stack []StackItem
}

// newSymbol creates a Symbol with a single Unused binding, matching
// §3.4's "the stack is non-empty for every live Symbol" invariant.
func newSymbol(name string) *Symbol {
	return &Symbol{Name: name, Stack: []StackItem{{Class: Unused}}}
}

// Top returns the current (topmost) binding.
func (s *Symbol) Top() StackItem {
	return s.Stack[len(s.Stack)-1]
}

// Push adds a new Unused binding on top, shadowing the previous one
// (§3.4 "push() adds Unused") — used on user-function entry for
// locals/formals.
func (s *Symbol) Push() {
	s.Stack = append(s.Stack, StackItem{Class: Unused})
}

// Pop drops the top binding; any Variable's Value reference is
// released (§3.4 "pop() drops the top (VALUE references are
// released)").
func (s *Symbol) Pop() {
	if len(s.Stack) <= 1 {
		return // never pop below the single mandatory binding
	}
	top := s.Stack[len(s.Stack)-1]
	if top.Class == Variable && top.Value != nil {
		top.Value.Release()
	}
	s.Stack = s.Stack[:len(s.Stack)-1]
}

// SetVariable rebinds the top of stack to a Variable holding v,
// releasing whatever the top previously held.
func (s *Symbol) SetVariable(v *value.Value) {
	s.releaseTop()
	s.Stack[len(s.Stack)-1] = StackItem{Class: Variable, Value: v}
}

// SetLabel rebinds the top of stack to a Label at the given line.
func (s *Symbol) SetLabel(line int) {
	s.releaseTop()
	s.Stack[len(s.Stack)-1] = StackItem{Class: Label, Line: line}
}

// SetFunction rebinds the top of stack to a Function/Operator
// callable.
func (s *Symbol) SetFunction(class Class, c Callable) {
	s.releaseTop()
	s.Stack[len(s.Stack)-1] = StackItem{Class: class, Callable: c}
}

func (s *Symbol) releaseTop() {
	top := s.Stack[len(s.Stack)-1]
	if top.Class == Variable && top.Value != nil {
		top.Value.Release()
	}
}

// RequireVariable resolves the current binding as a variable value, or
// returns a VALUE error (§7: "referenced a symbol with no variable
// binding").
func (s *Symbol) RequireVariable() (*value.Value, error) {
	top := s.Top()
	if top.Class != Variable {
		return nil, errors.New(errors.VALUE, "no value assigned to "+s.Name)
	}
	return top.Value, nil
}
