package smtlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhavlena/abc-go/smt"
	"github.com/vhavlena/abc-go/symtab"
)

func TestParseDeclareConstAndAssert(t *testing.T) {
	st := symtab.New()
	script, err := Parse(`
		(declare-const x Int)
		(assert (>= x 0))
	`, st)
	require.NoError(t, err)
	require.Len(t, script.Asserts, 1)

	decl, ok := st.Variable("x")
	require.True(t, ok)
	assert.Equal(t, symtab.SortInt, decl.Sort)

	b, ok := script.Asserts[0].Term.(*smt.Binary)
	require.True(t, ok)
	assert.Equal(t, smt.KindGe, b.K)
}

func TestParseDeclareFunNullary(t *testing.T) {
	st := symtab.New()
	_, err := Parse(`(declare-fun s () String)`, st)
	require.NoError(t, err)
	decl, ok := st.Variable("s")
	require.True(t, ok)
	assert.Equal(t, symtab.SortString, decl.Sort)
}

func TestParseDeclareFunWithArgumentsIsRejected(t *testing.T) {
	st := symtab.New()
	_, err := Parse(`(declare-fun f (Int) Int)`, st)
	assert.Error(t, err)
}

func TestParseAndFlattensConjuncts(t *testing.T) {
	st := symtab.New()
	script, err := Parse(`
		(declare-const x Int)
		(declare-const y Int)
		(assert (and (>= x 0) (<= y 10)))
	`, st)
	require.NoError(t, err)
	and, ok := script.Asserts[0].Term.(*smt.And)
	require.True(t, ok)
	assert.Len(t, and.Terms, 2)
}

func TestParseUnaryAndBinaryMinusDisambiguation(t *testing.T) {
	st := symtab.New()
	script, err := Parse(`
		(declare-const x Int)
		(assert (= x (- 5)))
	`, st)
	require.NoError(t, err)
	eq := script.Asserts[0].Term.(*smt.Binary)
	u, ok := eq.Right.(*smt.Unary)
	require.True(t, ok)
	assert.Equal(t, smt.KindUMinus, u.K)

	script2, err := Parse(`
		(declare-const x Int)
		(declare-const y Int)
		(assert (= x (- y 1)))
	`, st)
	require.NoError(t, err)
	eq2 := script2.Asserts[0].Term.(*smt.Binary)
	b, ok := eq2.Right.(*smt.Binary)
	require.True(t, ok)
	assert.Equal(t, smt.KindMinus, b.K)
}

func TestParseStrReplaceAndSubstr(t *testing.T) {
	st := symtab.New()
	script, err := Parse(`
		(declare-const s String)
		(assert (= s (str.replace s "a" "b")))
	`, st)
	require.NoError(t, err)
	eq := script.Asserts[0].Term.(*smt.Binary)
	_, ok := eq.Right.(*smt.Replace)
	assert.True(t, ok)

	script2, err := Parse(`
		(declare-const s String)
		(assert (= s (str.substr s 0 3)))
	`, st)
	require.NoError(t, err)
	eq2 := script2.Asserts[0].Term.(*smt.Binary)
	sub, ok := eq2.Right.(*smt.SubString)
	require.True(t, ok)
	assert.Equal(t, smt.SubStringFromIndexToIndex, sub.Mode)
}

func TestParseIteBuildsIteTerm(t *testing.T) {
	st := symtab.New()
	script, err := Parse(`
		(declare-const b Bool)
		(assert (ite b true false))
	`, st)
	require.NoError(t, err)
	_, ok := script.Asserts[0].Term.(*smt.Ite)
	assert.True(t, ok)
}

func TestParseUnknownOperatorBecomesUnknownTerm(t *testing.T) {
	st := symtab.New()
	script, err := Parse(`
		(declare-const s String)
		(assert (= s (str.reverse s)))
	`, st)
	require.NoError(t, err)
	eq := script.Asserts[0].Term.(*smt.Binary)
	u, ok := eq.Right.(*smt.Unknown)
	require.True(t, ok)
	assert.Equal(t, "str.reverse", u.Name)
}

func TestParseStringAndNumeralLiterals(t *testing.T) {
	st := symtab.New()
	script, err := Parse(`
		(declare-const s String)
		(assert (= s "hello"))
	`, st)
	require.NoError(t, err)
	eq := script.Asserts[0].Term.(*smt.Binary)
	c, ok := eq.Right.(*smt.TermConstant)
	require.True(t, ok)
	assert.Equal(t, smt.ConstString, c.ValueType)
	assert.Equal(t, "hello", c.Text)
}

func TestParseRejectsUnknownTopLevelCommand(t *testing.T) {
	st := symtab.New()
	_, err := Parse(`(frobnicate x)`, st)
	assert.Error(t, err)
}

func TestParseIgnoresSessionCommands(t *testing.T) {
	st := symtab.New()
	script, err := Parse(`
		(set-logic QF_S)
		(declare-const s String)
		(assert (= s "x"))
		(check-sat)
	`, st)
	require.NoError(t, err)
	assert.Len(t, script.Asserts, 1)
}
