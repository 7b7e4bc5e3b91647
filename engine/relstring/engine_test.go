package relstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhavlena/abc-go/smt"
	"github.com/vhavlena/abc-go/value"
)

func qi(name string) *smt.QualIdentifier { return &smt.QualIdentifier{VarName: name} }

func TestStartWithNoRelationsIsTriviallySatisfiable(t *testing.T) {
	and := &smt.And{Terms: nil}
	e := New()
	e.Start(and)
	assert.True(t, e.IsSatisfiable())
	assert.Nil(t, e.TrackMap())
}

func TestStartEqualityUnifiesRepresentative(t *testing.T) {
	eq := &smt.Binary{K: smt.KindEq, Left: qi("x"), Right: qi("y")}
	and := &smt.And{Terms: []smt.Term{eq}}

	e := New()
	e.Start(and)

	require.NotNil(t, e.TrackMap())
	assert.True(t, e.IsSatisfiable())
	assert.Equal(t, e.GetRepresentativeVariableOfAtScope(0, "x"), e.GetRepresentativeVariableOfAtScope(0, "y"))
}

func TestStartNotEqualKeepsVariablesTracked(t *testing.T) {
	neq := &smt.Binary{K: smt.KindNotEq, Left: qi("x"), Right: qi("y")}
	and := &smt.And{Terms: []smt.Term{neq}}

	e := New()
	e.Start(and)

	require.NotNil(t, e.TrackMap())
	assert.Equal(t, 2, e.TrackMap().NumTracks())
}

func TestGetVariableValueReturnsTrackedAutomaton(t *testing.T) {
	eq := &smt.Binary{K: smt.KindEq, Left: qi("x"), Right: qi("y")}
	and := &smt.And{Terms: []smt.Term{eq}}

	e := New()
	e.Start(and)

	v, ok := e.GetVariableValue("x", false)
	require.True(t, ok)
	assert.Equal(t, value.KindStringAutomaton, v.Kind())
}

func TestGetVariableValueForUntrackedNameFails(t *testing.T) {
	and := &smt.And{Terms: nil}
	e := New()
	e.Start(and)
	_, ok := e.GetVariableValue("nope", false)
	assert.False(t, ok)
}

func TestUpdateVariableValueRejectsNonStringValue(t *testing.T) {
	eq := &smt.Binary{K: smt.KindEq, Left: qi("x"), Right: qi("y")}
	and := &smt.And{Terms: []smt.Term{eq}}

	e := New()
	e.Start(and)

	ok := e.UpdateVariableValue("x", value.NewInt(5))
	assert.False(t, ok, "a non-string Value must be rejected")
}

func TestSetAndGetTermValue(t *testing.T) {
	e := New()
	term := qi("x")
	e.SetTermValue(term, value.NewInt(1))
	v, ok := e.GetTermValue(term)
	require.True(t, ok)
	assert.Equal(t, 1, v.IntConstant())
}
