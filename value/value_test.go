package value

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vhavlena/abc-go/theory"
)

func TestBoolConstantSatisfiability(t *testing.T) {
	assert.True(t, NewBool(true).IsSatisfiable())
	assert.False(t, NewBool(false).IsSatisfiable())
}

func TestIntConstantIsAlwaysSatisfiable(t *testing.T) {
	assert.True(t, NewInt(-5).IsSatisfiable())
}

func TestStringAutomatonSatisfiability(t *testing.T) {
	sat := NewStringAutomaton(theory.MakeString("foo"))
	unsat := NewStringAutomaton(theory.MakePhi())
	assert.True(t, sat.IsSatisfiable())
	assert.False(t, unsat.IsSatisfiable())
}

func TestIntAutomatonSatisfiability(t *testing.T) {
	sat := NewIntAutomaton(theory.MakeInt(3))
	unsat := NewIntAutomaton(theory.MakePhiInt())
	assert.True(t, sat.IsSatisfiable())
	assert.False(t, unsat.IsSatisfiable())
}

func TestCloneOfStringAutomatonIsIndependent(t *testing.T) {
	orig := NewStringAutomaton(theory.MakeString("foo"))
	clone := orig.Clone()
	assert.Equal(t, orig.Kind(), clone.Kind())
	assert.Equal(t, "foo", clone.StringAutomaton().GetAnAcceptingString())
}

func TestStringRepresentation(t *testing.T) {
	assert.Equal(t, "true", NewBool(true).String())
	assert.Equal(t, "42", NewInt(42).String())
	assert.Equal(t, `"foo"`, NewStringAutomaton(theory.MakeString("foo")).String())
}

func TestMultiTrackAutomatonValue(t *testing.T) {
	tracks := theory.NewVariableTrackMap("x")
	m := theory.MakeMultiTrack(tracks)
	v := NewMultiTrackAutomaton(m)
	assert.True(t, v.IsSatisfiable())
}

func TestBinaryIntAutomatonValue(t *testing.T) {
	f := theory.NewArithmeticFormula(theory.FormulaEQ, 0)
	auto := theory.MakeAnyBinaryInt(f)
	v := NewBinaryIntAutomaton(auto)
	assert.True(t, v.IsSatisfiable())
}
