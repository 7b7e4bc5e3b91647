// Package value implements the tagged-union result type every node in the
// evaluator's dispatch produces, grounded on the VeriRego model.Value
// pattern (other_examples/vhavlena-VeriRego__value.go) but carrying this
// evaluator's own payload set: a Boolean/integer constant, or one of the
// theory package's automaton families.
package value

import (
	"strconv"

	"github.com/vhavlena/abc-go/theory"
)

// Kind discriminates the payload a Value carries, mirroring ABC's
// Value::Type (BOOL_CONSTANT / INT_CONSTANT / STRING_AUTOMATON / ...).
type Kind int

const (
	KindBoolConstant Kind = iota
	KindIntConstant
	KindIntAutomaton
	KindStringAutomaton
	KindMultiTrackAutomaton
	KindBinaryIntAutomaton

	// KindBoolAutomaton is reserved per spec.md §3/§9 Open Question (a): no
	// constructor produces it, and solver.evalNot's fatal on this tag is the
	// documented behavior for "Not applied to a reserved Boolean automaton".
	KindBoolAutomaton
)

// Value is the result type every Visit/dispatch method returns: exactly one
// of the payload fields is meaningful, selected by Kind. There is no
// Dispose() counterpart to the original's manual ownership discipline —
// Go's GC owns the aliasing/mutation-in-place concerns the original's
// dispose() calls guarded against — but Clone() is kept because the
// evaluator still relies on independent copies when a variable's bound
// value is narrowed in one branch without affecting another.
type Value struct {
	kind Kind

	boolVal bool
	intVal  int

	intAuto        *theory.IntAutomaton
	stringAuto     *theory.StringAutomaton
	multiTrackAuto *theory.MultiTrackAutomaton
	binaryIntAuto  *theory.BinaryIntAutomaton
}

func NewBool(v bool) *Value { return &Value{kind: KindBoolConstant, boolVal: v} }
func NewInt(v int) *Value   { return &Value{kind: KindIntConstant, intVal: v} }

func NewIntAutomaton(a *theory.IntAutomaton) *Value {
	return &Value{kind: KindIntAutomaton, intAuto: a}
}

func NewStringAutomaton(a *theory.StringAutomaton) *Value {
	return &Value{kind: KindStringAutomaton, stringAuto: a}
}

func NewMultiTrackAutomaton(a *theory.MultiTrackAutomaton) *Value {
	return &Value{kind: KindMultiTrackAutomaton, multiTrackAuto: a}
}

func NewBinaryIntAutomaton(a *theory.BinaryIntAutomaton) *Value {
	return &Value{kind: KindBinaryIntAutomaton, binaryIntAuto: a}
}

func (v *Value) Kind() Kind { return v.kind }

func (v *Value) BoolConstant() bool { return v.boolVal }
func (v *Value) IntConstant() int   { return v.intVal }

func (v *Value) IntAutomaton() *theory.IntAutomaton               { return v.intAuto }
func (v *Value) StringAutomaton() *theory.StringAutomaton         { return v.stringAuto }
func (v *Value) MultiTrackAutomaton() *theory.MultiTrackAutomaton { return v.multiTrackAuto }
func (v *Value) BinaryIntAutomaton() *theory.BinaryIntAutomaton   { return v.binaryIntAuto }

// IsSatisfiable mirrors Value::isSatisfiable(): for automaton-backed kinds
// it means "the represented language/model set is non-empty"; for a bare
// Boolean constant, the constant itself.
func (v *Value) IsSatisfiable() bool {
	switch v.kind {
	case KindBoolConstant:
		return v.boolVal
	case KindIntConstant:
		return true
	case KindIntAutomaton:
		return !v.intAuto.IsEmptyLanguage()
	case KindStringAutomaton:
		return !v.stringAuto.IsEmptyLanguage()
	case KindMultiTrackAutomaton:
		return v.multiTrackAuto.IsSatisfiable()
	case KindBinaryIntAutomaton:
		return v.binaryIntAuto.IsSatisfiable()
	}
	return false
}

func (v *Value) Clone() *Value {
	out := &Value{kind: v.kind, boolVal: v.boolVal, intVal: v.intVal}
	switch v.kind {
	case KindIntAutomaton:
		out.intAuto = v.intAuto.Clone()
	case KindStringAutomaton:
		out.stringAuto = v.stringAuto.Clone()
	case KindMultiTrackAutomaton:
		out.multiTrackAuto = v.multiTrackAuto.Clone()
	case KindBinaryIntAutomaton:
		out.binaryIntAuto = v.binaryIntAuto
	}
	return out
}

func (v *Value) String() string {
	switch v.kind {
	case KindBoolConstant:
		if v.boolVal {
			return "true"
		}
		return "false"
	case KindIntConstant:
		return strconv.Itoa(v.intVal)
	case KindIntAutomaton:
		return v.intAuto.String()
	case KindStringAutomaton:
		return v.stringAuto.String()
	case KindMultiTrackAutomaton:
		return v.multiTrackAuto.String()
	case KindBinaryIntAutomaton:
		return "<binary-int-automaton>"
	case KindBoolAutomaton:
		return "<reserved-bool-automaton>"
	}
	return "<value>"
}
