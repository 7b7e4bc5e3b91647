package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeStringAcceptsExactlyItself(t *testing.T) {
	a := MakeString("foo")
	assert.True(t, a.IsAcceptingSingleString())
	assert.Equal(t, "foo", a.GetAnAcceptingString())
}

func TestIntersectNarrowsToCommonStrings(t *testing.T) {
	a := MakeString("foo").Union(MakeString("bar"))
	b := MakeString("bar").Union(MakeString("baz"))
	got := a.Intersect(b)
	assert.True(t, got.IsAcceptingSingleString())
	assert.Equal(t, "bar", got.GetAnAcceptingString())
}

func TestDifferenceRemovesOverlap(t *testing.T) {
	a := MakeString("foo").Union(MakeString("bar"))
	b := MakeString("bar")
	got := a.Difference(b)
	assert.True(t, got.IsAcceptingSingleString())
	assert.Equal(t, "foo", got.GetAnAcceptingString())
}

func TestPhiAndAnyStringAreOpposites(t *testing.T) {
	assert.True(t, MakePhi().IsEmptyLanguage())
	assert.False(t, MakeAnyString().IsEmptyLanguage())
}

func TestConcatJoinsSingletons(t *testing.T) {
	got := MakeString("foo").Concat(MakeString("bar"))
	assert.True(t, got.IsAcceptingSingleString())
	assert.Equal(t, "foobar", got.GetAnAcceptingString())
}

func TestContainsNarrowsToSubjectsWithSubstring(t *testing.T) {
	subject := MakeString("hello world")
	got := subject.Contains(MakeString("world"))
	assert.True(t, got.IsAcceptingSingleString())

	miss := subject.Contains(MakeString("bye"))
	assert.True(t, miss.IsEmptyLanguage())
}

func TestBeginsAndEnds(t *testing.T) {
	subject := MakeString("hello world")
	assert.False(t, subject.Begins(MakeString("hello")).IsEmptyLanguage())
	assert.True(t, subject.Begins(MakeString("world")).IsEmptyLanguage())
	assert.False(t, subject.Ends(MakeString("world")).IsEmptyLanguage())
	assert.True(t, subject.Ends(MakeString("hello")).IsEmptyLanguage())
}

func TestNotContainsExcludesMatchingSubjects(t *testing.T) {
	subject := MakeString("hello").Union(MakeString("goodbye"))
	got := subject.NotContains(MakeString("ood"))
	assert.True(t, got.IsAcceptingSingleString())
	assert.Equal(t, "hello", got.GetAnAcceptingString())
}

func TestLengthOfSingletonString(t *testing.T) {
	got := MakeString("abcd").Length()
	require.True(t, got.IsAcceptingSingleInt())
	assert.Equal(t, 4, got.GetAnAcceptingInt())
}

func TestLengthOfUnionTakesBothLengths(t *testing.T) {
	got := MakeString("ab").Union(MakeString("abcd")).Length()
	assert.False(t, got.IsAcceptingSingleInt())
	assert.True(t, got.IsGreaterThanOrEqual(2))
}

func TestIndexOfFindsFirstOccurrence(t *testing.T) {
	got := MakeString("ababab").IndexOf(MakeString("ab"))
	require.True(t, got.IsAcceptingSingleInt())
	assert.Equal(t, 0, got.GetAnAcceptingInt())
}

func TestIndexOfNotFoundIsNegativeOne(t *testing.T) {
	got := MakeString("hello").IndexOf(MakeString("xyz"))
	require.True(t, got.IsAcceptingSingleInt())
	assert.Equal(t, -1, got.GetAnAcceptingInt())
}

func TestLastIndexOfFindsFinalOccurrence(t *testing.T) {
	got := MakeString("abcabc").LastIndexOf(MakeString("abc"))
	require.True(t, got.IsAcceptingSingleInt())
	assert.Equal(t, 3, got.GetAnAcceptingInt())
}

func TestCharAtSingleIndex(t *testing.T) {
	got := MakeString("hello").CharAt(MakeInt(1))
	assert.True(t, got.IsAcceptingSingleString())
	assert.Equal(t, "e", got.GetAnAcceptingString())
}

func TestSubStringFromIndexToIndex(t *testing.T) {
	got := MakeString("hello world").SubString(SubStringFromIndexToIndex, MakeInt(0), MakeInt(5), nil)
	assert.True(t, got.IsAcceptingSingleString())
	assert.Equal(t, "hello", got.GetAnAcceptingString())
}

func TestSubStringFromFirstOf(t *testing.T) {
	got := MakeString("key=value").SubString(SubStringFromFirstOf, nil, nil, MakeString("="))
	assert.True(t, got.IsAcceptingSingleString())
	assert.Equal(t, "value", got.GetAnAcceptingString())
}

func TestToUpperToLowerTrim(t *testing.T) {
	assert.Equal(t, "FOO", MakeString("foo").ToUpper().GetAnAcceptingString())
	assert.Equal(t, "foo", MakeString("FOO").ToLower().GetAnAcceptingString())
	assert.Equal(t, "foo", MakeString("  foo  ").Trim().GetAnAcceptingString())
}

func TestReplaceFirstOccurrenceOnly(t *testing.T) {
	got := MakeString("ababab").Replace(MakeString("ab"), MakeString("X"))
	assert.True(t, got.IsAcceptingSingleString())
	assert.Equal(t, "Xabab", got.GetAnAcceptingString())
}

func TestParseToIntAutomatonAdmitsNegativeOneForNonNumeric(t *testing.T) {
	got := MakeString("not-a-number").ParseToIntAutomaton()
	require.True(t, got.IsAcceptingSingleInt())
	assert.Equal(t, -1, got.GetAnAcceptingInt())
}

func TestParseToIntAutomatonParsesDigits(t *testing.T) {
	got := MakeString("42").ParseToIntAutomaton()
	require.True(t, got.IsAcceptingSingleInt())
	assert.Equal(t, 42, got.GetAnAcceptingInt())
}

func TestRegexAutoCompilesAlternationAndStar(t *testing.T) {
	auto, err := MakeRegexAuto("ab*|cd")
	require.NoError(t, err)
	assert.False(t, auto.Intersect(MakeString("abbb")).IsEmptyLanguage())
	assert.False(t, auto.Intersect(MakeString("cd")).IsEmptyLanguage())
	assert.True(t, auto.Intersect(MakeString("ce")).IsEmptyLanguage())
}

func TestRegexAutoCharacterClass(t *testing.T) {
	auto, err := MakeRegexAuto("[a-c]+")
	require.NoError(t, err)
	assert.False(t, auto.Intersect(MakeString("abc")).IsEmptyLanguage())
	assert.True(t, auto.Intersect(MakeString("abd")).IsEmptyLanguage())
}
