package solver

import (
	"github.com/vhavlena/abc-go/engine/arithmetic"
	"github.com/vhavlena/abc-go/smt"
	"github.com/vhavlena/abc-go/value"
)

// maxMixedBridgeIterations bounds the fixed point spec.md §4.5 describes:
// resolve a string-derived integer subterm, bind it into the arithmetic
// component, repeat until nothing changes. Four rounds is enough for the
// fragment's conjuncts, which never chain more than a couple of these
// subterms together; it is not a claim about general convergence.
const maxMixedBridgeIterations = 4

// resolveMixedBridge handles the string-derived integer subterms of an
// arithmetic component: for every conjunct that mentions a
// len/indexOf/lastIndexOf/toInt subterm, evaluate that subterm through the
// ordinary string-theory dispatch and, when the result is a single integer,
// bind it into the component's solved formula; repeat until no subterm's
// value changes (or the round cap is hit). A subterm whose value is not a
// single integer is not bound, and the arithmetic solution is not projected
// back onto the string variables.
func (e *Evaluator) resolveMixedBridge(and *smt.And, ae *arithmetic.Engine) {
	for iter := 0; iter < maxMixedBridgeIterations; iter++ {
		changed := false
		for _, c := range and.Terms {
			if !ae.HasStringTerms(c) {
				continue
			}
			for _, st := range ae.GetStringTermsIn(c) {
				v := e.eval(st)
				smt.Walk(st, func(t smt.Term) bool {
					delete(e.termValues, t)
					return true
				})

				n, ok := intValueOf(v)
				if !ok {
					continue
				}
				name := arithmetic.StringTermVarName(st)
				prev, had := ae.GetTermValue(st)
				if had && intValuesEqual(prev, v) {
					continue
				}
				ae.Bind(name, n)
				ae.UpdateTermValue(st, v)
				changed = true
			}
		}
		if !changed {
			break
		}
	}
}

// intValueOf extracts a concrete integer from a Value that has collapsed to
// a single int (constant, or a singleton IntAutomaton); the -1 sentinel
// (indexOf "not found", toInt parse failure) is a valid concrete value here.
func intValueOf(v *value.Value) (int, bool) {
	switch v.Kind() {
	case value.KindIntConstant:
		return v.IntConstant(), true
	case value.KindIntAutomaton:
		if v.IntAutomaton().IsAcceptingSingleInt() {
			return v.IntAutomaton().GetAnAcceptingInt(), true
		}
	}
	return 0, false
}

func intValuesEqual(a, b *value.Value) bool {
	an, aok := intValueOf(a)
	bn, bok := intValueOf(b)
	return aok && bok && an == bn
}
