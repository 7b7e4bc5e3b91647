// Package arithmetic implements the Arithmetic Engine façade (spec.md §4.3):
// given an And node the constraint-information oracle has marked a
// component, collect its linear-arithmetic conjuncts into one
// ArithmeticFormula and solve it once via theory.BinaryIntAutomaton. The
// evaluator records the component's satisfiability under the aggregate name
// and reads per-term Values only for the mixed bridge's string-derived
// subterms; it still evaluates each conjunct itself, and the engine's
// verdict does not decide the conjunction's result.
package arithmetic

import (
	"fmt"

	"github.com/vhavlena/abc-go/smt"
	"github.com/vhavlena/abc-go/theory"
	"github.com/vhavlena/abc-go/value"
)

// Engine owns one component's solved arithmetic state. A fresh Engine is
// created per component by the evaluator (it does not persist across
// components the way the symbol table does).
type Engine struct {
	formula      *theory.ArithmeticFormula
	solution     *theory.BinaryIntAutomaton
	aggregate    string
	naturalsOnly bool
	termValues   map[smt.Term]*value.Value
	stringTerms  map[smt.Term][]smt.Term
}

// New seeds an engine for the given And node: the aggregate variable name
// is derived from the node's identity so repeated components never collide.
// naturalsOnly mirrors solver.Config.LIANaturalNumbersOnly (spec.md §6):
// every automaton this engine builds restricts its domain to ℕ when set.
func New(and *smt.And, naturalsOnly bool) *Engine {
	return &Engine{
		aggregate:    fmt.Sprintf("int_agg_%p", and),
		naturalsOnly: naturalsOnly,
		termValues:   map[smt.Term]*value.Value{},
		stringTerms:  map[smt.Term][]smt.Term{},
	}
}

// Start collects every Lt/Le/Gt/Ge/Eq/NotEq conjunct whose sides are linear
// over variables and numerals (variable sorts are not checked) into a single
// ArithmeticFormula and solves it, mirroring start(and_node). String-derived
// integer subterms (len/indexOf/lastIndexOf/toInt) enter the formula as
// fresh variables and are recorded for the mixed bridge; conjuncts the
// engine can't linearize are skipped.
func (e *Engine) Start(and *smt.And) {
	var constraints []*theory.ArithmeticFormula
	for _, c := range and.Terms {
		f, strTerms, ok := linearize(c)
		if !ok {
			continue
		}
		constraints = append(constraints, f)
		if len(strTerms) > 0 {
			e.stringTerms[c] = strTerms
		}
	}
	if len(constraints) == 0 {
		e.formula = theory.NewArithmeticFormula(theory.FormulaEQ, 0)
		e.solution = theory.MakeAnyBinaryInt(e.formula).Naturals(e.naturalsOnly)
		return
	}
	theory.MergeVariables(constraints...)
	e.formula = constraints[0]
	e.solution = theory.MakeAutomaton(constraints[0]).Naturals(e.naturalsOnly)
	for _, f := range constraints[1:] {
		e.solution = e.solution.Intersect(theory.MakeAutomaton(f).Naturals(e.naturalsOnly))
	}
}

// GetTermValue returns the solved Value for a term previously seen by
// Start, wrapping the component's satisfiability as a Boolean (the
// aggregate's per-term breakdown is approximated uniformly by the
// component's overall satisfiability, since this package's BinaryIntAutomaton
// doesn't keep a separate per-conjunct witness).
func (e *Engine) GetTermValue(t smt.Term) (*value.Value, bool) {
	if v, ok := e.termValues[t]; ok {
		return v.Clone(), true
	}
	if e.solution == nil {
		return nil, false
	}
	return value.NewBool(e.solution.IsSatisfiable()), true
}

func (e *Engine) UpdateTermValue(t smt.Term, v *value.Value) {
	e.termValues[t] = v
}

// HasStringTerms reports whether t (already linearized by Start) mentions a
// string-derived integer subterm (len/indexOf/parseInt), the mixed bridge's
// trigger condition (spec.md §4.5).
func (e *Engine) HasStringTerms(t smt.Term) bool {
	return len(e.stringTerms[t]) > 0
}

func (e *Engine) GetStringTermsIn(t smt.Term) []smt.Term {
	return e.stringTerms[t]
}

// GetIntVariableName returns the aggregate variable name this engine
// installs the component's solved Value under (get_int_variable_name).
func (e *Engine) GetIntVariableName(*smt.And) string { return e.aggregate }

func (e *Engine) IsSatisfiable() bool {
	if e.solution == nil {
		return true
	}
	return e.solution.IsSatisfiable()
}

func (e *Engine) Formula() *theory.ArithmeticFormula { return e.formula }
func (e *Engine) Solution() *theory.BinaryIntAutomaton { return e.solution }

// Bind narrows the solved component by intersecting in `varName == v`,
// the step the mixed integer/string bridge (spec.md §4.5) uses once a
// string-derived subterm (len/indexOf/toInt) has been resolved to a concrete
// integer and needs folding back into the arithmetic component's solution.
func (e *Engine) Bind(varName string, v int) {
	f := theory.NewArithmeticFormula(theory.FormulaEQ, v)
	f.AddVariable(varName, 1)
	if e.formula != nil {
		theory.MergeVariables(e.formula, f)
	}
	bound := theory.MakeAutomaton(f).Naturals(e.naturalsOnly)
	if e.solution == nil {
		e.solution = bound
		return
	}
	e.solution = e.solution.Intersect(bound)
}

// linearize extracts an ArithmeticFormula from a single comparison term
// (x relop k, or x relop y, or sums thereof) if it is pure linear
// arithmetic, reporting any string-derived integer leaves it found along
// the way so the caller can register them for the mixed bridge.
func linearize(t smt.Term) (*theory.ArithmeticFormula, []smt.Term, bool) {
	b, ok := t.(*smt.Binary)
	if !ok {
		return nil, nil, false
	}
	var ftype theory.FormulaType
	switch b.K {
	case smt.KindEq:
		ftype = theory.FormulaEQ
	case smt.KindNotEq:
		ftype = theory.FormulaNOTEQ
	case smt.KindLt:
		ftype = theory.FormulaLT
	case smt.KindLe:
		ftype = theory.FormulaLE
	case smt.KindGt:
		ftype = theory.FormulaGT
	case smt.KindGe:
		ftype = theory.FormulaGE
	default:
		return nil, nil, false
	}

	var strTerms []smt.Term
	coeffs := map[string]int{}
	constant := 0
	ok = collectLinear(b.Left, 1, coeffs, &constant, &strTerms) && collectLinear(b.Right, -1, coeffs, &constant, &strTerms)
	if !ok {
		return nil, nil, false
	}
	f := theory.NewArithmeticFormula(ftype, -constant)
	for name, c := range coeffs {
		f.AddVariable(name, c)
	}
	return f, strTerms, true
}

// collectLinear accumulates sign*term into coeffs/constant, treating
// QualIdentifier leaves as variables, TermConstant numerals as constants,
// and recognized string-derived integer applications (Len/IndexOf/
// LastIndexOf/ToInt) as a fresh named term to defer to the mixed bridge
// rather than a variable with a coefficient.
func collectLinear(t smt.Term, sign int, coeffs map[string]int, constant *int, strTerms *[]smt.Term) bool {
	switch n := t.(type) {
	case *smt.QualIdentifier:
		coeffs[n.VarName] += sign
		return true
	case *smt.TermConstant:
		if n.ValueType != smt.ConstNumeral {
			return false
		}
		v, err := parseInt(n.Text)
		if err != nil {
			return false
		}
		*constant += sign * v
		return true
	case *smt.Unary:
		switch n.K {
		case smt.KindUMinus:
			return collectLinear(n.Term, -sign, coeffs, constant, strTerms)
		case smt.KindLen, smt.KindToInt:
			*strTerms = append(*strTerms, n)
			coeffs[StringTermVarName(n)] += sign
			return true
		}
		return false
	case *smt.Binary:
		switch n.K {
		case smt.KindIndexOf, smt.KindLastIndexOf:
			*strTerms = append(*strTerms, n)
			coeffs[StringTermVarName(n)] += sign
			return true
		case smt.KindMinus:
			return collectLinear(n.Left, sign, coeffs, constant, strTerms) &&
				collectLinear(n.Right, -sign, coeffs, constant, strTerms)
		}
		return false
	case *smt.NAry:
		switch n.K {
		case smt.KindPlus:
			for _, c := range n.Terms {
				if !collectLinear(c, sign, coeffs, constant, strTerms) {
					return false
				}
			}
			return true
		}
		return false
	}
	return false
}

// StringTermVarName is the synthetic coefficient-map name a string-derived
// integer subterm (len/indexOf/lastIndexOf/toInt) is registered under,
// shared with the mixed bridge so it can bind the same name once the
// subterm's value is known.
func StringTermVarName(t smt.Term) string { return fmt.Sprintf("str_%p", t) }

func parseInt(s string) (int, error) {
	var v int
	_, err := fmt.Sscanf(s, "%d", &v)
	return v, err
}
