package theory

import (
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// FormulaType mirrors ArithmeticFormula::Type from BinaryIntAutomatonTest.cpp
// (EQ/NOTEQ/LT/LE/GT/GE), the relation a linear combination of integer
// variables is compared against a constant with.
type FormulaType int

const (
	FormulaEQ FormulaType = iota
	FormulaNOTEQ
	FormulaLT
	FormulaLE
	FormulaGT
	FormulaGE
)

// ArithmeticFormula holds one linear inequality/equality over an ordered set
// of named integer variables: sum(coeff[i]*var[i]) <type> constant. The
// variable order matters (it fixes each BinaryIntAutomaton's bit-tuple track
// assignment), so it's kept as a slice of names alongside a coefficient
// vector rather than a map — mirroring add_variable(name, index)'s explicit
// indexing in the original. The coefficient vector itself is a gonum
// mat.VecDense, used for coefficient storage and copying, the way netrix's
// go.mod pulls in gonum for its own graph/vector bookkeeping; evaluating an
// assignment still walks the coefficients one entry at a time.
type ArithmeticFormula struct {
	Type     FormulaType
	Constant int
	varNames []string
	coeffs   *mat.VecDense
}

func NewArithmeticFormula(t FormulaType, constant int) *ArithmeticFormula {
	// gonum's mat.NewVecDense panics on a zero length, so the coefficient
	// vector starts out nil and is only allocated once a variable is added.
	return &ArithmeticFormula{Type: t, Constant: constant}
}

// AddVariable appends a variable with the given coefficient, mirroring
// ArithmeticFormula::add_variable(name, coefficient).
func (f *ArithmeticFormula) AddVariable(name string, coefficient int) {
	old := f.coeffs
	n := 0
	if old != nil {
		n = old.Len()
	}
	next := mat.NewVecDense(n+1, nil)
	for i := 0; i < n; i++ {
		next.SetVec(i, old.AtVec(i))
	}
	next.SetVec(n, float64(coefficient))
	f.varNames = append(f.varNames, name)
	f.coeffs = next
}

func (f *ArithmeticFormula) NumVariables() int { return len(f.varNames) }

func (f *ArithmeticFormula) VariableNames() []string {
	return append([]string(nil), f.varNames...)
}

// VariableCoefficientMap mirrors get_variable_coefficient_map(), returning
// the ordered name->coefficient view most of the evaluator's arithmetic
// component code actually wants.
func (f *ArithmeticFormula) VariableCoefficientMap() map[string]int {
	out := make(map[string]int, len(f.varNames))
	for i, name := range f.varNames {
		out[name] = int(f.coeffs.AtVec(i))
	}
	return out
}

func (f *ArithmeticFormula) CoefficientOf(name string) (int, bool) {
	for i, n := range f.varNames {
		if n == name {
			return int(f.coeffs.AtVec(i)), true
		}
	}
	return 0, false
}

// Evaluate applies the formula's linear combination to a concrete
// assignment and reports whether the comparison holds, used by
// BinaryIntAutomaton's bounded-model enumeration fallback.
func (f *ArithmeticFormula) Evaluate(assignment map[string]int) bool {
	sum := 0.0
	for i, name := range f.varNames {
		sum += f.coeffs.AtVec(i) * float64(assignment[name])
	}
	lhs := int(sum)
	switch f.Type {
	case FormulaEQ:
		return lhs == f.Constant
	case FormulaNOTEQ:
		return lhs != f.Constant
	case FormulaLT:
		return lhs < f.Constant
	case FormulaLE:
		return lhs <= f.Constant
	case FormulaGT:
		return lhs > f.Constant
	case FormulaGE:
		return lhs >= f.Constant
	}
	return false
}

func (f *ArithmeticFormula) Clone() *ArithmeticFormula {
	out := &ArithmeticFormula{Type: f.Type, Constant: f.Constant, varNames: append([]string(nil), f.varNames...)}
	if f.coeffs != nil {
		out.coeffs = mat.NewVecDense(f.coeffs.Len(), nil)
		out.coeffs.CopyVec(f.coeffs)
	}
	return out
}

// MergeVariables extends both formulas onto the union of their variable
// sets (coefficient 0 for a name a formula didn't already mention), the
// step BinaryIntAutomaton::intersect needs before it can build a product
// automaton over a shared track layout.
func MergeVariables(fs ...*ArithmeticFormula) {
	all := map[string]bool{}
	for _, f := range fs {
		for _, n := range f.varNames {
			all[n] = true
		}
	}
	names := make([]string, 0, len(all))
	for n := range all {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, f := range fs {
		have := map[string]bool{}
		for _, n := range f.varNames {
			have[n] = true
		}
		for _, n := range names {
			if !have[n] {
				f.AddVariable(n, 0)
			}
		}
	}
}

func (f *ArithmeticFormula) String() string {
	var b strings.Builder
	for i, n := range f.varNames {
		if i > 0 {
			b.WriteString(" + ")
		}
		b.WriteString(strconv.Itoa(int(f.coeffs.AtVec(i))) + "*" + n)
	}
	switch f.Type {
	case FormulaEQ:
		b.WriteString(" = ")
	case FormulaNOTEQ:
		b.WriteString(" != ")
	case FormulaLT:
		b.WriteString(" < ")
	case FormulaLE:
		b.WriteString(" <= ")
	case FormulaGT:
		b.WriteString(" > ")
	case FormulaGE:
		b.WriteString(" >= ")
	}
	b.WriteString(strconv.Itoa(f.Constant))
	return b.String()
}
