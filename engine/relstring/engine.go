// Package relstring implements the Relational String Engine façade
// (spec.md §4.4): given an And component, collect its variable-to-variable
// string equalities/disequalities into one theory.MultiTrackAutomaton,
// solve it once, and maintain the union-find style equivalence classes
// get_representative_variable_of_at_scope needs.
package relstring

import (
	"fmt"

	"github.com/vhavlena/abc-go/smt"
	"github.com/vhavlena/abc-go/theory"
	"github.com/vhavlena/abc-go/value"
)

// Engine owns one component's solved relational-string state.
type Engine struct {
	tracks       *theory.VariableTrackMap
	solution     *theory.MultiTrackAutomaton
	representative map[string]string
	termValues   map[smt.Term]*value.Value
}

func New() *Engine {
	return &Engine{representative: map[string]string{}, termValues: map[smt.Term]*value.Value{}}
}

// Start collects every variable-to-variable Eq/NotEq string conjunct in the
// component, builds a shared VariableTrackMap, and applies each
// StringRelation to narrow the joint MultiTrackAutomaton.
func (e *Engine) Start(and *smt.And) {
	names := map[string]bool{}
	var relations []*theory.StringRelation
	for _, c := range and.Terms {
		b, ok := c.(*smt.Binary)
		if !ok {
			continue
		}
		left, lok := b.Left.(*smt.QualIdentifier)
		right, rok := b.Right.(*smt.QualIdentifier)
		if !lok || !rok {
			continue
		}
		var op theory.RelationOp
		switch b.K {
		case smt.KindEq:
			op = theory.RelationEQ
		case smt.KindNotEq:
			op = theory.RelationNOTEQ
		default:
			continue
		}
		names[left.VarName] = true
		names[right.VarName] = true
		relations = append(relations, theory.NewStringRelation(op, left.VarName, right.VarName, nil))
		if op == theory.RelationEQ {
			e.union(left.VarName, right.VarName)
		}
	}
	if len(names) == 0 {
		return
	}
	nameList := make([]string, 0, len(names))
	for n := range names {
		nameList = append(nameList, n)
	}
	e.tracks = theory.NewVariableTrackMap(nameList...)
	m := theory.MakeMultiTrack(e.tracks)
	for _, r := range relations {
		r.SetVariableTrackMap(e.tracks)
		m = r.Apply(m)
	}
	e.solution = m
}

func (e *Engine) union(a, b string) {
	ra, rb := e.find(a), e.find(b)
	if ra == rb {
		return
	}
	if ra < rb {
		e.representative[rb] = ra
	} else {
		e.representative[ra] = rb
	}
}

func (e *Engine) find(name string) string {
	cur := name
	for {
		next, ok := e.representative[cur]
		if !ok {
			return cur
		}
		cur = next
	}
}

// GetVariableValue returns the engine's current Value for a tracked
// variable, or the representative's Value if representativeFlag is set
// (get_variable_value(var[, representative_flag])).
func (e *Engine) GetVariableValue(name string, representativeFlag bool) (*value.Value, bool) {
	if e.solution == nil {
		return nil, false
	}
	lookup := name
	if representativeFlag {
		lookup = e.find(name)
	}
	auto, ok := e.solution.Track(lookup)
	if !ok {
		return nil, false
	}
	return value.NewStringAutomaton(auto), true
}

// UpdateVariableValue narrows a tracked variable's track and reports
// whether the variable is actually tracked by this engine, mirroring
// update_variable_value's bool return.
func (e *Engine) UpdateVariableValue(name string, v *value.Value) bool {
	if e.solution == nil || v.Kind() != value.KindStringAutomaton {
		return false
	}
	return e.solution.SetTrack(name, v.StringAutomaton())
}

func (e *Engine) GetTermValue(t smt.Term) (*value.Value, bool) {
	v, ok := e.termValues[t]
	return v, ok
}

func (e *Engine) SetTermValue(t smt.Term, v *value.Value) { e.termValues[t] = v }

// GetRepresentativeVariableOfAtScope returns the canonical member of var's
// equivalence class. The lookup key carries the scope, so an entry is found
// only under the scope it was stored with.
func (e *Engine) GetRepresentativeVariableOfAtScope(scope int, varName string) string {
	key := fmt.Sprintf("%s@%d", varName, scope)
	if r, ok := e.representative[key]; ok {
		return r
	}
	return e.find(varName)
}

func (e *Engine) IsSatisfiable() bool {
	if e.solution == nil {
		return true
	}
	return e.solution.IsSatisfiable()
}

func (e *Engine) TrackMap() *theory.VariableTrackMap { return e.tracks }
