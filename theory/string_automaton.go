package theory

import (
	"sort"
	"strconv"
	"strings"
)

// maxEnumLen and maxEnumCount bound the bounded-enumeration fallback used by
// the string operations (indexOf, replace, case conversion, trim, ...) for
// which exact automaton-algebra is impractical to hand-roll here: spec.md
// treats these as "safe over-approximation is acceptable when exact
// computation is impractical" (§7), and bounded enumeration over small
// automata is the concrete form that takes in this package. An automaton
// that doesn't fit the bound is treated as "too big to enumerate" and the
// operation falls back to its documented over-approximation instead of
// guessing.
const (
	maxEnumLen   = 48
	maxEnumCount = 4096
)

// StringAutomaton is the public string-theory value every QualIdentifier
// bound to a string-sorted variable, and every string-valued subterm, is
// represented by. It wraps the package's private interval-nfa.
type StringAutomaton struct {
	body *nfa
}

func MakePhi() *StringAutomaton          { return &StringAutomaton{body: makePhiNFA()} }
func MakeEmptyString() *StringAutomaton  { return &StringAutomaton{body: makeEmptyStringNFA()} }
func MakeAnyString() *StringAutomaton    { return &StringAutomaton{body: star(makeAnyCharNFA())} }
func MakeString(s string) *StringAutomaton { return &StringAutomaton{body: makeStringNFA(s)} }

// MakeRegexAuto compiles a regex-constant fast path per spec.md §4.1's
// visitIn handling of a TermConstant tagged ConstRegex.
func MakeRegexAuto(pattern string) (*StringAutomaton, error) {
	m, err := compileRegex(pattern)
	if err != nil {
		return nil, err
	}
	return &StringAutomaton{body: m}, nil
}

func (a *StringAutomaton) Clone() *StringAutomaton {
	return &StringAutomaton{body: cloneNFA(a.body)}
}

func (a *StringAutomaton) IsEmptyLanguage() bool { return a.body.isEmpty() }

func (a *StringAutomaton) Intersect(b *StringAutomaton) *StringAutomaton {
	return &StringAutomaton{body: product(a.body, b.body, func(x, y bool) bool { return x && y })}
}

func (a *StringAutomaton) Union(b *StringAutomaton) *StringAutomaton {
	return &StringAutomaton{body: union(a.body, b.body)}
}

func (a *StringAutomaton) Difference(b *StringAutomaton) *StringAutomaton {
	return a.Intersect(b.Complement())
}

func (a *StringAutomaton) Complement() *StringAutomaton {
	return &StringAutomaton{body: a.body.complement()}
}

func (a *StringAutomaton) Concat(b *StringAutomaton) *StringAutomaton {
	return &StringAutomaton{body: concat(a.body, b.body)}
}

// Contains, Begins and Ends mirror ConstraintSolver::visitContains/
// visitBegins/visitEnds: the result is not a boolean but the subset of the
// subject automaton that actually has the requested relation to search, so
// that Value::isSatisfiable on the result is the boolean the caller wants,
// while an unsatisfiable subject keeps flowing through the evaluator as a
// refined automaton rather than collapsing early.
func (a *StringAutomaton) Contains(search *StringAutomaton) *StringAutomaton {
	anyAny := star(makeAnyCharNFA())
	pattern := concat(anyAny, search.body, cloneNFA(anyAny))
	return a.Intersect(&StringAutomaton{body: pattern})
}

func (a *StringAutomaton) Begins(search *StringAutomaton) *StringAutomaton {
	pattern := concat(search.body, star(makeAnyCharNFA()))
	return a.Intersect(&StringAutomaton{body: pattern})
}

func (a *StringAutomaton) Ends(search *StringAutomaton) *StringAutomaton {
	pattern := concat(star(makeAnyCharNFA()), search.body)
	return a.Intersect(&StringAutomaton{body: pattern})
}

func (a *StringAutomaton) NotContains(search *StringAutomaton) *StringAutomaton {
	anyAny := star(makeAnyCharNFA())
	pattern := &StringAutomaton{body: concat(anyAny, search.body, cloneNFA(anyAny))}
	return a.Difference(pattern)
}

func (a *StringAutomaton) NotBegins(search *StringAutomaton) *StringAutomaton {
	pattern := &StringAutomaton{body: concat(search.body, star(makeAnyCharNFA()))}
	return a.Difference(pattern)
}

func (a *StringAutomaton) NotEnds(search *StringAutomaton) *StringAutomaton {
	pattern := &StringAutomaton{body: concat(star(makeAnyCharNFA()), search.body)}
	return a.Difference(pattern)
}

func (a *StringAutomaton) IsAcceptingSingleString() bool {
	_, ok := a.singleString()
	return ok
}

func (a *StringAutomaton) GetAnAcceptingString() string {
	s, _ := a.singleString()
	return s
}

// singleString checks whether exactly one string is accepted by doing a
// bounded walk of the determinized automaton: at most one accepting path,
// and no branching within the explored bound.
func (a *StringAutomaton) singleString() (string, bool) {
	strs, ok := a.enumerate(maxEnumLen, 2)
	if !ok || len(strs) != 1 {
		return "", false
	}
	return strs[0], true
}

// enumerate performs a bounded BFS over the determinized automaton,
// returning every accepted string up to maxLen, bailing out (ok=false) if
// it would need to explore more than limit strings or cross an edge whose
// interval is too wide to enumerate rune-by-rune (a practical stand-in for
// "this automaton's language is effectively infinite/unbounded for our
// purposes").
func (a *StringAutomaton) enumerate(maxLen, limit int) ([]string, bool) {
	const maxEdgeWidth = 4
	d := a.body.determinize()
	type item struct {
		state int
		s     string
	}
	var out []string
	queue := []item{{d.start, ""}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if d.accept[cur.state] {
			out = append(out, cur.s)
			if len(out) > limit {
				return nil, false
			}
		}
		if len(cur.s) >= maxLen {
			continue
		}
		for _, e := range d.states[cur.state].edges {
			width := int(e.hi - e.lo + 1)
			if width > maxEdgeWidth {
				return nil, false
			}
			for r := e.lo; r <= e.hi; r++ {
				queue = append(queue, item{e.to, cur.s + string(r)})
				if len(queue)+len(out) > limit*4 {
					return nil, false
				}
			}
		}
	}
	return out, true
}

// Length projects the string automaton onto the lengths it admits, producing
// an IntAutomaton by walking the same lasso analysis int_automaton.go uses,
// applied to the determinized string automaton rather than a unary one
// (every edge, regardless of width, advances length by exactly one
// character, so the length language is still unary-shaped once the specific
// character identities are forgotten).
func (a *StringAutomaton) Length() *IntAutomaton {
	d := a.body.determinize()
	lenNFA := newNFA()
	stateMap := map[int]int{d.start: lenNFA.start}
	get := func(s int) int {
		if id, ok := stateMap[s]; ok {
			return id
		}
		id := lenNFA.addState()
		stateMap[s] = id
		return id
	}
	visited := map[int]bool{}
	queue := []int{d.start}
	visited[d.start] = true
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if d.accept[s] {
			lenNFA.accept[get(s)] = true
		}
		targets := map[int]bool{}
		for _, e := range d.states[s].edges {
			targets[e.to] = true
		}
		for t := range targets {
			lenNFA.addEdge(get(s), unaryChar, unaryChar, get(t))
			if !visited[t] {
				visited[t] = true
				queue = append(queue, t)
			}
		}
	}
	return &IntAutomaton{body: lenNFA, numVariables: DefaultNumOfVariables}
}

func (a *StringAutomaton) IndexOf(search *StringAutomaton) *IntAutomaton {
	subjects, subjOK := a.enumerate(maxEnumLen, maxEnumCount)
	searches, searchOK := search.enumerate(maxEnumLen, maxEnumCount)
	if !subjOK || !searchOK {
		// Safe over-approximation per spec.md §7: admit -1 (not found) and
		// every non-negative offset up to the enumeration bound.
		return MakeRange(0, maxEnumLen, true)
	}
	found := map[int]bool{}
	for _, subj := range subjects {
		idx := -1
		for _, needle := range searches {
			if i := strings.Index(subj, needle); i >= 0 {
				idx = i
				break
			}
		}
		found[idx] = true
	}
	return intAutomatonFromSet(found)
}

func (a *StringAutomaton) LastIndexOf(search *StringAutomaton) *IntAutomaton {
	subjects, subjOK := a.enumerate(maxEnumLen, maxEnumCount)
	searches, searchOK := search.enumerate(maxEnumLen, maxEnumCount)
	if !subjOK || !searchOK {
		return MakeRange(0, maxEnumLen, true)
	}
	found := map[int]bool{}
	for _, subj := range subjects {
		idx := -1
		for _, needle := range searches {
			if i := strings.LastIndex(subj, needle); i > idx {
				idx = i
			}
		}
		found[idx] = true
	}
	return intAutomatonFromSet(found)
}

func (a *StringAutomaton) CharAt(index *IntAutomaton) *StringAutomaton {
	subjects, ok := a.enumerate(maxEnumLen, maxEnumCount)
	if !ok || !index.IsAcceptingSingleInt() {
		return MakeAnyString()
	}
	i := index.GetAnAcceptingInt()
	var out *nfa
	for _, s := range subjects {
		runes := []rune(s)
		if i < 0 || i >= len(runes) {
			continue
		}
		m := makeStringNFA(string(runes[i]))
		if out == nil {
			out = m
		} else {
			out = union(out, m)
		}
	}
	if out == nil {
		return MakePhi()
	}
	return &StringAutomaton{body: out}
}

// SubStringMode enumerates the four modes spec.md marks "fully supported";
// the solver package maps smt.SubStringMode's wider set onto these before
// calling SubString, diagnosing the unsupported modes itself.
type SubStringMode int

const (
	SubStringFromIndex SubStringMode = iota
	SubStringFromIndexToIndex
	SubStringFromFirstOf
	SubStringFromLastOf
)

// SubString mirrors ConstraintSolver::visitSubString's index arithmetic via
// bounded enumeration of the subject and, where relevant, the marker
// automaton: for each candidate subject string, compute the substring
// start/end per mode and union the results.
func (a *StringAutomaton) SubString(mode SubStringMode, start *IntAutomaton, end *IntAutomaton, marker *StringAutomaton) *StringAutomaton {
	subjects, ok := a.enumerate(maxEnumLen, maxEnumCount)
	if !ok {
		return MakeAnyString()
	}
	var starts, ends []int
	if start != nil {
		if vs, ok := intSetOf(start); ok {
			starts = vs
		}
	}
	if end != nil {
		if vs, ok := intSetOf(end); ok {
			ends = vs
		}
	}
	var markers []string
	if marker != nil {
		if ms, ok := marker.enumerate(maxEnumLen, maxEnumCount); ok {
			markers = ms
		}
	}

	var out *nfa
	add := func(s string) {
		m := makeStringNFA(s)
		if out == nil {
			out = m
		} else {
			out = union(out, m)
		}
	}
	for _, subj := range subjects {
		runes := []rune(subj)
		switch mode {
		case SubStringFromIndex:
			for _, from := range starts {
				if from >= 0 && from <= len(runes) {
					add(string(runes[from:]))
				}
			}
		case SubStringFromIndexToIndex:
			for _, from := range starts {
				for _, to := range ends {
					if from >= 0 && to >= from && to <= len(runes) {
						add(string(runes[from:to]))
					}
				}
			}
		case SubStringFromFirstOf:
			for _, needle := range markers {
				if i := strings.Index(subj, needle); i >= 0 {
					add(subj[i+len(needle):])
				}
			}
		case SubStringFromLastOf:
			for _, needle := range markers {
				if i := strings.LastIndex(subj, needle); i >= 0 {
					add(subj[i+len(needle):])
				}
			}
		}
	}
	if out == nil {
		return MakePhi()
	}
	return &StringAutomaton{body: out}
}

// intSetOf enumerates the (small, bounded) set of values an IntAutomaton
// admits, used by SubString to drive its index arithmetic.
func intSetOf(a *IntAutomaton) ([]int, bool) {
	values, ok := a.ToUnaryAutomaton().enumerateLengths(maxEnumCount)
	if !ok {
		return nil, false
	}
	out := make([]int, 0, len(values))
	for _, v := range values {
		if v >= 0 {
			out = append(out, v)
		}
	}
	return out, true
}

func stringAutomatonFromInts(values []int) *StringAutomaton {
	var out *nfa
	for _, v := range values {
		m := makeStringNFA(strconv.Itoa(v))
		if out == nil {
			out = m
		} else {
			out = union(out, m)
		}
	}
	if out == nil {
		out = makePhiNFA()
	}
	return &StringAutomaton{body: out}
}

func intAutomatonFromSet(values map[int]bool) *IntAutomaton {
	ints := make([]int, 0, len(values))
	negOne := false
	for v := range values {
		if v < 0 {
			negOne = true
			continue
		}
		ints = append(ints, v)
	}
	sort.Ints(ints)
	if len(ints) == 0 {
		return &IntAutomaton{body: makePhiNFA(), negativeOne: negOne, numVariables: DefaultNumOfVariables}
	}
	chains := make([]*nfa, len(ints))
	for i, v := range ints {
		chains[i] = makeUnaryChain(v)
	}
	return &IntAutomaton{body: union(chains...), negativeOne: negOne, numVariables: DefaultNumOfVariables}
}

func (a *StringAutomaton) ToUpper() *StringAutomaton  { return a.mapStrings(strings.ToUpper) }
func (a *StringAutomaton) ToLower() *StringAutomaton  { return a.mapStrings(strings.ToLower) }
func (a *StringAutomaton) Trim() *StringAutomaton     { return a.mapStrings(strings.TrimSpace) }

func (a *StringAutomaton) mapStrings(f func(string) string) *StringAutomaton {
	strs, ok := a.enumerate(maxEnumLen, maxEnumCount)
	if !ok {
		return a.Clone()
	}
	var out *nfa
	for _, s := range strs {
		m := makeStringNFA(f(s))
		if out == nil {
			out = m
		} else {
			out = union(out, m)
		}
	}
	if out == nil {
		out = makePhiNFA()
	}
	return &StringAutomaton{body: out}
}

// Replace mirrors ConstraintSolver::visitReplace's first-occurrence
// semantics (strings.Replace with n=1), via the same bounded-enumeration
// fallback as ToUpper/ToLower/Trim.
func (a *StringAutomaton) Replace(search, with *StringAutomaton) *StringAutomaton {
	subjects, ok1 := a.enumerate(maxEnumLen, maxEnumCount)
	searches, ok2 := search.enumerate(maxEnumLen, maxEnumCount)
	withs, ok3 := with.enumerate(maxEnumLen, maxEnumCount)
	if !ok1 || !ok2 || !ok3 || len(searches) == 0 || len(withs) == 0 {
		return a.Clone()
	}
	var out *nfa
	for _, subj := range subjects {
		for _, needle := range searches {
			for _, repl := range withs {
				replaced := strings.Replace(subj, needle, repl, 1)
				m := makeStringNFA(replaced)
				if out == nil {
					out = m
				} else {
					out = union(out, m)
				}
			}
		}
	}
	if out == nil {
		out = makePhiNFA()
	}
	return &StringAutomaton{body: out}
}

// ParseToIntAutomaton implements ToInt's string->int bridge (spec.md §4.5),
// parsing every enumerable accepted string as a base-10 integer and
// admitting -1 (ABC's convention for "not a number") for anything that
// doesn't parse.
func (a *StringAutomaton) ParseToIntAutomaton() *IntAutomaton {
	strs, ok := a.enumerate(maxEnumLen, maxEnumCount)
	if !ok {
		return MakeRange(0, maxEnumLen, true)
	}
	found := map[int]bool{}
	for _, s := range strs {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			found[-1] = true
			continue
		}
		found[n] = true
	}
	return intAutomatonFromSet(found)
}

func (a *StringAutomaton) String() string {
	if a.IsAcceptingSingleString() {
		return strconv.Quote(a.GetAnAcceptingString())
	}
	return "<string-automaton>"
}
