package solver

import (
	"github.com/vhavlena/abc-go/smt"
	"github.com/vhavlena/abc-go/value"
)

// refine implements the Variable Value Computer (spec.md §4.2): after a
// satisfiable leaf-level assertion body has been evaluated, walk each
// recorded root-to-variable path and, for the invertible shapes this
// evaluator recognizes, narrow the variable's symbol-table binding to the
// already-computed result instead of leaving it at whatever it was before
// the assertion. A path whose root isn't a recognized shape is left
// untouched: a documented safe over-approximation rather than a guess at
// how to invert an arbitrary operator (spec.md's own stated tolerance, §7).
func (e *Evaluator) refine() {
	for _, path := range e.pathTable {
		if len(path) < 2 {
			continue
		}
		leaf, ok := path[len(path)-1].(*smt.QualIdentifier)
		if !ok {
			continue
		}
		parent, ok := path[len(path)-2].(*smt.Binary)
		if !ok || parent.K != smt.KindEq {
			continue
		}
		if parent.Left != smt.Term(leaf) && parent.Right != smt.Term(leaf) {
			continue
		}
		e.refinePath(parent, leaf)
	}
}

// refinePath handles the one shape spec.md's examples spell out in full: an
// Eq node directly above a variable reference, where the computed Value at
// the Eq node is itself an automaton (not already collapsed to a plain
// bool) — that automaton *is* the narrowed set for the variable, so it can
// be written straight back. Concat-based prefix/suffix inversion is
// deliberately not attempted: doing it exactly would need a quotient/
// prefix-removal construction this package's bounded-enumeration
// StringAutomaton doesn't implement, so it is left as a no-op rather than
// an approximation that could look exact.
func (e *Evaluator) refinePath(eqNode *smt.Binary, leaf *smt.QualIdentifier) {
	rv, ok := e.termValues[eqNode]
	if !ok || !rv.IsSatisfiable() {
		return
	}
	switch rv.Kind() {
	case value.KindStringAutomaton, value.KindIntAutomaton:
		e.Symtab.UpdateValue(leaf.VarName, rv.Clone())
	}
}
