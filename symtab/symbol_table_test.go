package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhavlena/abc-go/value"
)

func TestDeclareAndGetValue(t *testing.T) {
	st := New()
	st.Declare("x", SortInt, value.NewInt(0))

	v, ok := st.GetValue("x")
	require.True(t, ok)
	assert.Equal(t, 0, v.IntConstant())

	decl, ok := st.Variable("x")
	require.True(t, ok)
	assert.Equal(t, SortInt, decl.Sort)
}

func TestPushPopScopeShadowsAndRestores(t *testing.T) {
	st := New()
	st.Declare("x", SortInt, value.NewInt(1))

	st.PushScope()
	st.SetValue("x", value.NewInt(2))
	v, _ := st.GetValue("x")
	assert.Equal(t, 2, v.IntConstant())
	st.PopScope()

	v, _ = st.GetValue("x")
	assert.Equal(t, 1, v.IntConstant())
}

func TestUpdateValueNarrowsDeclaredScope(t *testing.T) {
	st := New()
	st.Declare("x", SortInt, value.NewInt(1))
	st.PushScope()
	st.UpdateValue("x", value.NewInt(5))
	st.PopScope()

	v, ok := st.GetValue("x")
	require.True(t, ok)
	assert.Equal(t, 5, v.IntConstant())
}

func TestUpdateValueMarksUnsatOnUnsatisfiableBinding(t *testing.T) {
	st := New()
	st.Declare("flag", SortBool, value.NewBool(true))
	assert.True(t, st.IsSatisfiable())

	st.UpdateValue("flag", value.NewBool(false))
	assert.False(t, st.IsSatisfiable())
}

func TestGetRepresentativeVariableOfAtScopeIsStablePerKey(t *testing.T) {
	st := New()
	first := st.GetRepresentativeVariableOfAtScope("agg", SortInt, value.NewInt(0))
	second := st.GetRepresentativeVariableOfAtScope("agg", SortInt, value.NewInt(0))
	assert.Equal(t, first, second)

	st.PushScope()
	third := st.GetRepresentativeVariableOfAtScope("agg", SortInt, value.NewInt(0))
	assert.NotEqual(t, first, third, "a different scope must get its own alias")
}

func TestGetValueOfUndeclaredVariable(t *testing.T) {
	st := New()
	_, ok := st.GetValue("nope")
	assert.False(t, ok)
}
