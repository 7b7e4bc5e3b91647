package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringRelationEqualityNarrowsBothTracks(t *testing.T) {
	tracks := NewVariableTrackMap("x", "y")
	m := MakeMultiTrack(tracks)
	m.SetTrack("x", MakeString("foo").Union(MakeString("bar")))
	m.SetTrack("y", MakeString("bar").Union(MakeString("baz")))

	rel := NewStringRelation(RelationEQ, "x", "y", tracks)
	out := rel.Apply(m)

	xTrack, ok := out.Track("x")
	require.True(t, ok)
	assert.True(t, xTrack.IsAcceptingSingleString())
	assert.Equal(t, "bar", xTrack.GetAnAcceptingString())

	yTrack, ok := out.Track("y")
	require.True(t, ok)
	assert.Equal(t, "bar", yTrack.GetAnAcceptingString())
}

func TestStringRelationNotEqualRemovesSharedValue(t *testing.T) {
	tracks := NewVariableTrackMap("x", "y")
	m := MakeMultiTrack(tracks)
	m.SetTrack("x", MakeString("foo"))
	m.SetTrack("y", MakeString("foo"))

	rel := NewStringRelation(RelationNOTEQ, "x", "y", tracks)
	out := rel.Apply(m)

	assert.False(t, out.IsSatisfiable())
}

func TestMultiTrackAutomatonIntersect(t *testing.T) {
	tracks := NewVariableTrackMap("x")
	m1 := MakeMultiTrack(tracks)
	m1.SetTrack("x", MakeString("a").Union(MakeString("b")))
	m2 := MakeMultiTrack(tracks)
	m2.SetTrack("x", MakeString("b").Union(MakeString("c")))

	got := m1.Intersect(m2)
	track, ok := got.Track("x")
	require.True(t, ok)
	assert.True(t, track.IsAcceptingSingleString())
	assert.Equal(t, "b", track.GetAnAcceptingString())
}

func TestVariableTrackMapOrder(t *testing.T) {
	tracks := NewVariableTrackMap("x", "y", "z")
	assert.Equal(t, 3, tracks.NumTracks())
	i, ok := tracks.TrackOf("y")
	require.True(t, ok)
	assert.Equal(t, 1, i)
	_, ok = tracks.TrackOf("missing")
	assert.False(t, ok)
}
