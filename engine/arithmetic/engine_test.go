package arithmetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhavlena/abc-go/smt"
	"github.com/vhavlena/abc-go/theory"
	"github.com/vhavlena/abc-go/value"
)

func num(n int) *smt.TermConstant {
	return &smt.TermConstant{ValueType: smt.ConstNumeral, Text: itoa(n)}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{byte('0' + n%10)}, buf...)
		n /= 10
	}
	if neg {
		buf = append([]byte{'-'}, buf...)
	}
	return string(buf)
}

func qi(name string) *smt.QualIdentifier { return &smt.QualIdentifier{VarName: name} }

func TestStartSolvesSingleLinearConjunct(t *testing.T) {
	x := qi("x")
	cmp := &smt.Binary{K: smt.KindLt, Left: x, Right: num(10)}
	and := &smt.And{Terms: []smt.Term{cmp}}

	e := New(and, false)
	e.Start(and)

	assert.True(t, e.IsSatisfiable())
	require.NotNil(t, e.Formula())
}

func TestStartMergesMultipleConjuncts(t *testing.T) {
	x := qi("x")
	y := qi("y")
	c1 := &smt.Binary{K: smt.KindGe, Left: x, Right: num(0)}
	c2 := &smt.Binary{K: smt.KindLe, Left: y, Right: num(5)}
	and := &smt.And{Terms: []smt.Term{c1, c2}}

	e := New(and, false)
	e.Start(and)

	assert.True(t, e.IsSatisfiable())
}

func TestStartWithNoLinearConjunctsIsTriviallySatisfiable(t *testing.T) {
	and := &smt.And{Terms: nil}
	e := New(and, false)
	e.Start(and)
	assert.True(t, e.IsSatisfiable())
}

func TestHasStringTermsDetectsLenSubterm(t *testing.T) {
	lenTerm := &smt.Unary{K: smt.KindLen, Term: qi("s")}
	cmp := &smt.Binary{K: smt.KindEq, Left: lenTerm, Right: num(3)}
	and := &smt.And{Terms: []smt.Term{cmp}}

	e := New(and, false)
	e.Start(and)

	assert.True(t, e.HasStringTerms(cmp))
	assert.Len(t, e.GetStringTermsIn(cmp), 1)
}

func TestGetTermValueFallsBackToComponentSatisfiability(t *testing.T) {
	x := qi("x")
	cmp := &smt.Binary{K: smt.KindEq, Left: x, Right: num(1)}
	and := &smt.And{Terms: []smt.Term{cmp}}

	e := New(and, false)
	e.Start(and)

	v, ok := e.GetTermValue(cmp)
	require.True(t, ok)
	assert.Equal(t, value.KindBoolConstant, v.Kind())
}

func TestUpdateAndGetTermValueOverridesFallback(t *testing.T) {
	and := &smt.And{Terms: nil}
	e := New(and, false)
	e.Start(and)

	leaf := qi("z")
	e.UpdateTermValue(leaf, value.NewInt(7))

	v, ok := e.GetTermValue(leaf)
	require.True(t, ok)
	assert.Equal(t, 7, v.IntConstant())
}

func TestBindNarrowsSolutionToEqualityAndRejectsConflict(t *testing.T) {
	x := qi("x")
	cmp := &smt.Binary{K: smt.KindGe, Left: x, Right: num(0)}
	and := &smt.And{Terms: []smt.Term{cmp}}

	e := New(and, false)
	e.Start(and)
	name := StringTermVarName(cmp)
	_ = name // not used directly here; Bind takes an explicit var name

	e.Bind("x", 3)
	assert.True(t, e.IsSatisfiable())

	e.Bind("x", 4)
	assert.False(t, e.IsSatisfiable())
}

func TestNaturalsOnlyConfigRestrictsEngineDomain(t *testing.T) {
	x := qi("x")
	cmp := &smt.Binary{K: smt.KindLt, Left: x, Right: num(0)}
	and := &smt.And{Terms: []smt.Term{cmp}}

	withNegatives := New(and, false)
	withNegatives.Start(and)
	assert.True(t, withNegatives.IsSatisfiable(), "x < 0 is solvable over Z")

	naturalsOnly := New(and, true)
	naturalsOnly.Start(and)
	assert.False(t, naturalsOnly.IsSatisfiable(), "x < 0 has no solution over N")
}

func TestGetIntVariableNameIsStablePerEngine(t *testing.T) {
	and := &smt.And{Terms: nil}
	e := New(and, false)
	a := e.GetIntVariableName(and)
	b := e.GetIntVariableName(and)
	assert.Equal(t, a, b)
}

func TestLinearizeRejectsNonComparisonTerm(t *testing.T) {
	_, _, ok := linearize(qi("x"))
	assert.False(t, ok)
}

func TestLinearizeHandlesPlusAndUMinus(t *testing.T) {
	sum := &smt.NAry{K: smt.KindPlus, Terms: []smt.Term{qi("x"), &smt.Unary{K: smt.KindUMinus, Term: qi("y")}}}
	cmp := &smt.Binary{K: smt.KindEq, Left: sum, Right: num(0)}
	f, strTerms, ok := linearize(cmp)
	require.True(t, ok)
	assert.Empty(t, strTerms)
	assert.Equal(t, theory.FormulaEQ, f.Type)
}
