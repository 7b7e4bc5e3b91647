package theory

// RelationOp mirrors StringRelation::Type: the shape of a relational-string
// conjunct the relational-string engine batches up before running a single
// multi-track computation over it (spec.md §6's relational-string row).
type RelationOp int

const (
	RelationEQ RelationOp = iota
	RelationNOTEQ
)

// StringRelation is one relational-string atom: a named left/right variable
// pair plus the comparison; both names must be tracks of the automaton it is
// applied to, and a variable-against-constant atom is not represented.
// get/set_variable_trackmap in the
// original is reified here as the relation simply carrying the track map it
// was built against.
type StringRelation struct {
	Op          RelationOp
	Left, Right string
	trackMap    *VariableTrackMap
}

func NewStringRelation(op RelationOp, left, right string, tracks *VariableTrackMap) *StringRelation {
	return &StringRelation{Op: op, Left: left, Right: right, trackMap: tracks}
}

func (r *StringRelation) GetVariableTrackMap() *VariableTrackMap { return r.trackMap }

func (r *StringRelation) SetVariableTrackMap(m *VariableTrackMap) { r.trackMap = m }

// Apply narrows a MultiTrackAutomaton to the tuples satisfying this
// relation: for EQ, intersect the two tracks with each other; for NOTEQ,
// remove a side's single string from the other side's track.
func (r *StringRelation) Apply(m *MultiTrackAutomaton) *MultiTrackAutomaton {
	left, okL := m.Track(r.Left)
	right, okR := m.Track(r.Right)
	if !okL || !okR {
		return m
	}
	switch r.Op {
	case RelationEQ:
		merged := left.Intersect(right)
		out := m.Clone()
		out.SetTrack(r.Left, merged)
		out.SetTrack(r.Right, merged.Clone())
		return out
	case RelationNOTEQ:
		// Safe over-approximation: an exact "these two tracks disagree
		// somewhere" constraint needs a genuine cross-track automaton;
		// lacking that, a track is narrowed only when the other side is a
		// single string, which is then excluded from it; otherwise both
		// tracks are kept as they are.
		out := m.Clone()
		if s, ok := right.singleString(); ok {
			out.SetTrack(r.Left, left.Difference(MakeString(s)))
		}
		if s, ok := left.singleString(); ok {
			out.SetTrack(r.Right, right.Difference(MakeString(s)))
		}
		return out
	}
	return m
}
