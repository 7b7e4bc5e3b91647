package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formulaEqXPlusYConstant(constant int) *ArithmeticFormula {
	f := NewArithmeticFormula(FormulaEQ, constant)
	f.AddVariable("x", 1)
	f.AddVariable("y", 1)
	return f
}

func TestBinaryIntAutomatonSatisfiableForSolvableFormula(t *testing.T) {
	f := formulaEqXPlusYConstant(5)
	auto := MakeAutomaton(f)
	assert.True(t, auto.IsSatisfiable())
}

func TestBinaryIntAutomatonGetPositiveValuesFor(t *testing.T) {
	f := NewArithmeticFormula(FormulaEQ, 3)
	f.AddVariable("x", 1)
	auto := MakeAutomaton(f)
	require.True(t, auto.IsSatisfiable())
	values := auto.GetPositiveValuesFor("x")
	assert.True(t, values.IsAcceptingSingleInt())
	assert.Equal(t, 3, values.GetAnAcceptingInt())
}

func TestBinaryIntAutomatonIntersect(t *testing.T) {
	f1 := NewArithmeticFormula(FormulaGE, 0)
	f1.AddVariable("x", 1)
	f2 := NewArithmeticFormula(FormulaLE, 5)
	f2.AddVariable("x", 1)

	a1 := MakeAutomaton(f1)
	a2 := MakeAutomaton(f2)
	got := a1.Intersect(a2)
	require.True(t, got.IsSatisfiable())
	values := got.GetPositiveValuesFor("x")
	assert.True(t, values.IsGreaterThanOrEqual(0))
	assert.True(t, values.IsLessThanOrEqual(5))
}

func TestBinaryIntAutomatonManyVariablesStillEnumerates(t *testing.T) {
	f := NewArithmeticFormula(FormulaEQ, 0)
	f.AddVariable("a", 1)
	f.AddVariable("b", 1)
	f.AddVariable("c", 1)
	f.AddVariable("d", 1)
	auto := MakeAutomaton(f)
	assert.True(t, auto.IsSatisfiable())
}

func TestBinaryIntAutomatonUnsatisfiableFormula(t *testing.T) {
	f := NewArithmeticFormula(FormulaEQ, 1)
	f.AddVariable("x", 0) // 0*x == 1 is never satisfiable
	auto := MakeAutomaton(f)
	assert.False(t, auto.IsSatisfiable())
}

func TestMakeAnyBinaryIntIsAlwaysSatisfiable(t *testing.T) {
	f := NewArithmeticFormula(FormulaEQ, 0)
	auto := MakeAnyBinaryInt(f)
	assert.True(t, auto.IsSatisfiable())
}

func TestNaturalsOnlyExcludesNegativeAssignments(t *testing.T) {
	f := NewArithmeticFormula(FormulaLT, 0)
	f.AddVariable("x", 1)

	withNegatives := MakeAutomaton(f.Clone())
	assert.True(t, withNegatives.IsSatisfiable(), "x < 0 is solvable over Z")

	naturalsOnly := MakeAutomaton(f.Clone()).Naturals(true)
	assert.False(t, naturalsOnly.IsSatisfiable(), "x < 0 has no solution over N")
}

func TestMakeBinaryIntSetHoldsExactValues(t *testing.T) {
	f := NewArithmeticFormula(FormulaEQ, 0)
	f.AddVariable("x", 1)
	auto := MakeBinaryIntSet(f, []int{1, 2, 3})
	values := auto.GetPositiveValuesFor("x")
	assert.True(t, values.IsGreaterThanOrEqual(1))
	assert.True(t, values.IsLessThanOrEqual(3))
}
