package theory

// UnaryAutomaton is the conversion waypoint between IntAutomaton and
// BinaryIntAutomaton spec.md §6 names (`toUnaryAutomaton`/`toIntAutomaton`/
// `toBinaryIntAutomaton`): a unary-length automaton that knows how to widen
// itself into a bit-tuple encoding or narrow back down.
type UnaryAutomaton struct {
	body         *nfa
	negativeOne  bool
	numVariables int
}

func (u *UnaryAutomaton) ToIntAutomaton() *IntAutomaton {
	return &IntAutomaton{body: cloneNFA(u.body), negativeOne: u.negativeOne, numVariables: u.numVariables}
}

// ToBinaryIntAutomaton collects every accepted unary length and hands the
// list to MakeBinaryIntSet as the formula variable's admitted values, the
// enumeration-backed counterpart of the widening BinaryIntAutomatonTest.cpp
// exercises against ArithmeticFormula variable widths.
func (u *UnaryAutomaton) ToBinaryIntAutomaton(formula *ArithmeticFormula) *BinaryIntAutomaton {
	values, ok := u.enumerateLengths(1 << 16)
	if !ok {
		// Safe over-approximation: the unbounded case degenerates to "any
		// value of this width is admissible" rather than attempting an
		// exact periodic-to-bitvector translation.
		return MakeAnyBinaryInt(formula)
	}
	return MakeBinaryIntSet(formula, values)
}

// ToStringAutomaton renders every accepted length n as the decimal string of
// n (spec.md's toString bridge for integer-valued terms appearing in a
// string-theory position).
func (u *UnaryAutomaton) ToStringAutomaton() *StringAutomaton {
	values, ok := u.enumerateLengths(maxEnumCount)
	if !ok {
		return MakeAnyString()
	}
	return stringAutomatonFromInts(values)
}

// enumerateLengths reads the prefix+cycle lasso shape (see int_automaton.go)
// and returns every accepted length up to limit, or ok=false if the
// language is infinite (has an accepting cycle) — that case has no finite
// enumeration and callers fall back to an over-approximation.
func (u *UnaryAutomaton) enumerateLengths(limit int) ([]int, bool) {
	d := u.body.determinize()
	path, cycleStart, hasCycle := d.unaryLasso()
	if hasCycle {
		for i := cycleStart; i < len(path); i++ {
			if d.accept[path[i]] {
				return nil, false
			}
		}
	}
	var out []int
	if u.negativeOne {
		out = append(out, -1)
	}
	for i, s := range path {
		if d.accept[s] {
			out = append(out, i)
			if len(out) > limit {
				return nil, false
			}
		}
	}
	return out, true
}
