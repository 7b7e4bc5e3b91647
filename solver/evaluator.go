// Package solver implements the tree-directed constraint evaluator
// (spec.md §4.1): the dispatcher that walks an assertion AST, invokes the
// arithmetic and relational-string sub-engines at component boundaries,
// computes a Value at every node, refines variables via the path table, and
// resolves the mixed integer/string bridge. Grounded on
// ConstraintSolver.cpp's visit* dispatch table and, for the dispatch
// mechanism itself, on borzacchiello-gosmt's switch-on-kind eval_internal
// (other_examples/borzacchiello-gosmt__expr_eval.go).
package solver

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vhavlena/abc-go/engine/arithmetic"
	"github.com/vhavlena/abc-go/engine/relstring"
	"github.com/vhavlena/abc-go/smt"
	"github.com/vhavlena/abc-go/symtab"
	"github.com/vhavlena/abc-go/theory"
	"github.com/vhavlena/abc-go/value"
)

// fatalError is recovered at the top of Start and turned into an error
// return, mirroring spec.md §7's "Fatal; abort with diagnostic" policy
// without taking the process down over a single malformed script.
type fatalError struct {
	node smt.Term
	msg  string
}

func (e *fatalError) Error() string {
	if e.node != nil {
		return fmt.Sprintf("%s (at %s)", e.msg, e.node.String())
	}
	return e.msg
}

func fatal(node smt.Term, format string, args ...interface{}) {
	panic(&fatalError{node: node, msg: fmt.Sprintf(format, args...)})
}

// Evaluator is the per-assertion working state §5 describes as
// non-reentrant: term-value map, path trace/table, and tagged-variable set
// are all scoped to the assertion currently being walked.
type Evaluator struct {
	Symtab *symtab.SymbolTable
	Config Config
	Oracle *ConstraintInformation

	termValues map[smt.Term]*value.Value
	pathTrace  []smt.Term
	pathTable  [][]smt.Term
	taggedVars map[string]bool

	arithEngines map[*smt.And]*arithmetic.Engine
	relEngines   map[*smt.And]*relstring.Engine

	log *logrus.Logger
}

func New(st *symtab.SymbolTable, cfg Config) *Evaluator {
	return &Evaluator{
		Symtab:       st,
		Config:       cfg,
		Oracle:       NewConstraintInformation(),
		arithEngines: map[*smt.And]*arithmetic.Engine{},
		relEngines:   map[*smt.And]*relstring.Engine{},
		log:          logrus.StandardLogger(),
	}
}

// Start evaluates every assertion in order, short-circuiting to false as
// soon as one yields an unsatisfiable Value (spec.md §2 "the solver
// short-circuits to unsat as soon as any assertion yields an unsatisfiable
// Value"). It recovers a fatalError panic into a returned error rather than
// crashing the process.
func (e *Evaluator) Start(asserts []*smt.Assert) (sat bool, err error) {
	return e.StartIterations(asserts, 1)
}

// StartIterations runs the whole assertion list up to n times, stopping
// early once a pass produces no new refinement — spec.md §9 Open Question
// (b)'s chosen resolution: converge-or-stop rather than a fixed undocumented
// bound.
func (e *Evaluator) StartIterations(asserts []*smt.Assert, n int) (sat bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if fe, ok := r.(*fatalError); ok {
				err = errors.Wrap(fe, "solver: fatal evaluation error")
				sat = false
				return
			}
			panic(r)
		}
	}()

	sat = true
	for iter := 0; iter < n; iter++ {
		before := e.snapshotVariables(asserts)
		for _, a := range asserts {
			v := e.evalAssert(a)
			if !v.IsSatisfiable() {
				return false, nil
			}
		}
		if e.snapshotsEqual(before, e.snapshotVariables(asserts)) {
			break
		}
	}
	return sat, nil
}

func (e *Evaluator) snapshotVariables(asserts []*smt.Assert) map[string]string {
	out := map[string]string{}
	for _, a := range asserts {
		smt.Walk(a, func(t smt.Term) bool {
			if q, ok := t.(*smt.QualIdentifier); ok {
				if v, ok := e.Symtab.GetValue(q.VarName); ok {
					out[q.VarName] = v.String()
				}
			}
			return true
		})
	}
	return out
}

func (e *Evaluator) snapshotsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// evalAssert implements the Assert dispatch: evaluate the body, merge
// satisfiability, trigger refinement for a satisfiable non-And/non-Or body,
// then clear term-values and local let-scopes.
func (e *Evaluator) evalAssert(a *smt.Assert) *value.Value {
	e.termValues = map[smt.Term]*value.Value{}
	e.pathTrace = nil
	e.pathTable = nil
	e.taggedVars = map[string]bool{}

	v := e.eval(a.Term)
	if !v.IsSatisfiable() {
		e.Symtab.MarkUnsatisfiable()
	}
	switch a.Term.(type) {
	case *smt.And, *smt.Or:
	default:
		if v.IsSatisfiable() {
			e.refine()
		}
	}
	e.clearTermValues()
	return v
}

func (e *Evaluator) clearTermValues() {
	e.termValues = map[smt.Term]*value.Value{}
	e.pathTable = nil
}

// eval is the recursive dispatch entry point every Visit* method's children
// go through: push the node onto the path trace, dispatch via smt.Visit
// (which calls back into this Evaluator's VisitX methods, each of which
// calls setTermValue exactly once), then read the result back out of the
// term-value map.
func (e *Evaluator) eval(t smt.Term) *value.Value {
	e.pathTrace = append(e.pathTrace, t)
	smt.Visit(e, t)
	e.pathTrace = e.pathTrace[:len(e.pathTrace)-1]
	v, ok := e.termValues[t]
	if !ok {
		fatal(t, "evaluator: no value produced for node")
	}
	return v
}

func (e *Evaluator) setTermValue(t smt.Term, v *value.Value) {
	if _, ok := e.termValues[t]; ok {
		fatal(t, "evaluator: double-assignment of a term's value")
	}
	e.termValues[t] = v
}

// recordVariablePath stores the current ancestor chain, root-first, down to
// and including the QualIdentifier leaf itself: eval() pushes every node
// onto pathTrace on the way down before dispatching to it, so by the time
// VisitQualIdentifier runs, pathTrace already ends with the leaf.
func (e *Evaluator) recordVariablePath(leaf *smt.QualIdentifier) {
	path := append([]smt.Term(nil), e.pathTrace...)
	e.pathTable = append(e.pathTable, path)
}

// --- smt.Visitor implementation -------------------------------------------------

func (e *Evaluator) VisitAssert(a *smt.Assert) {
	e.setTermValue(a, e.eval(a.Term))
}

// VisitAnd implements the component-boundary behavior (spec.md §4.1's "And
// (component boundary)" bullet): on the first iteration for a component,
// run the enabled sub-engines once before walking conjuncts left-to-right,
// short-circuiting on the first unsatisfiable one.
func (e *Evaluator) VisitAnd(and *smt.And) {
	isComponent := e.Oracle.IsComponent(and) && e.Oracle.FirstIteration(and)
	if isComponent {
		if e.Config.LIAEngineEnabled {
			ae := arithmetic.New(and, e.Config.LIANaturalNumbersOnly)
			ae.Start(and)
			e.arithEngines[and] = ae
		}
		if e.Config.EnableRelationalStringAutomata {
			re := relstring.New()
			re.Start(and)
			e.relEngines[and] = re
		}
	}
	if ae, ok := e.arithEngines[and]; ok {
		e.resolveMixedBridge(and, ae)
	}

	result := value.NewBool(true)
	for _, c := range and.Terms {
		cv := e.eval(c)
		if !cv.IsSatisfiable() {
			result = value.NewBool(false)
			e.setTermValue(and, result)
			return
		}
		e.refine()
		delete(e.termValues, c)
	}

	if ae, ok := e.arithEngines[and]; ok {
		// The aggregate satisfiability flag needs a stable per-component
		// symbol-table slot; GetRepresentativeVariableOfAtScope declares one
		// on first use (keyed by the engine's own aggregate name) and hands
		// back the same synthetic name on every later iteration.
		key := ae.GetIntVariableName(and)
		name := e.Symtab.GetRepresentativeVariableOfAtScope(key, symtab.SortBool, value.NewBool(true))
		e.Symtab.UpdateValue(name, value.NewBool(ae.IsSatisfiable()))
	}
	if re, ok := e.relEngines[and]; ok && re.TrackMap() != nil {
		for _, name := range re.TrackMap().Names() {
			if v, ok := re.GetVariableValue(name, true); ok {
				e.Symtab.UpdateValue(name, v)
			}
		}
	}
	e.setTermValue(and, result)
}

// VisitOr walks each disjunct in a fresh scope; satisfiability is the
// disjunction, short-circuiting on the first satisfiable branch unless
// model-counting keeps every branch alive.
func (e *Evaluator) VisitOr(or *smt.Or) {
	any := false
	for _, d := range or.Terms {
		e.Symtab.PushScope()
		dv := e.eval(d)
		if dv.IsSatisfiable() {
			any = true
			switch d.(type) {
			case *smt.And, *smt.Or:
			default:
				e.refine()
			}
		}
		e.Symtab.PopScope()
		if any && !e.Config.ModelCounterEnabled {
			break
		}
	}
	e.setTermValue(or, value.NewBool(any))
}

func (e *Evaluator) VisitLet(l *smt.Let) {
	e.Symtab.PushScope()
	for _, b := range l.Bindings {
		bv := e.eval(b.Term)
		e.Symtab.SetValue(b.Symbol, bv)
	}
	bodyVal := e.eval(l.Body)
	e.Symtab.PopScope()
	e.setTermValue(l, bodyVal)
}

func (e *Evaluator) VisitUnary(u *smt.Unary) {
	child := e.eval(u.Term)
	var out *value.Value
	switch u.K {
	case smt.KindNot:
		out = e.evalNot(child)
	case smt.KindUMinus:
		out = e.evalUMinus(child)
	case smt.KindToUpper:
		out = value.NewStringAutomaton(child.StringAutomaton().ToUpper())
	case smt.KindToLower:
		out = value.NewStringAutomaton(child.StringAutomaton().ToLower())
	case smt.KindTrim:
		out = value.NewStringAutomaton(child.StringAutomaton().Trim())
	case smt.KindToString:
		out = e.evalToString(child)
	case smt.KindToInt:
		out = e.evalToInt(u, child)
	case smt.KindLen:
		out = e.evalLen(child)
	default:
		fatal(u, "evaluator: unhandled unary operator %s", u.K)
	}
	e.setTermValue(u, out)
}

func (e *Evaluator) evalNot(child *value.Value) *value.Value {
	switch child.Kind() {
	case value.KindBoolConstant:
		return value.NewBool(!child.BoolConstant())
	case value.KindIntAutomaton:
		auto := child.IntAutomaton()
		if auto.IsAcceptingSingleInt() {
			return value.NewIntAutomaton(auto.Complement(auto.GetAnAcceptingInt()))
		}
		return child.Clone()
	case value.KindStringAutomaton:
		if child.StringAutomaton().IsAcceptingSingleString() {
			return value.NewStringAutomaton(child.StringAutomaton().Complement())
		}
		return child.Clone()
	case value.KindBoolAutomaton:
		fatal(nil, "evaluator: Not applied to a reserved Boolean automaton tag is unsupported")
	}
	return child.Clone()
}

func (e *Evaluator) evalUMinus(child *value.Value) *value.Value {
	switch child.Kind() {
	case value.KindIntConstant:
		return value.NewInt(-child.IntConstant())
	case value.KindIntAutomaton:
		return value.NewIntAutomaton(child.IntAutomaton().Uminus())
	}
	fatal(nil, "evaluator: unary minus on non-numeric value")
	return nil
}

func (e *Evaluator) evalToString(child *value.Value) *value.Value {
	switch child.Kind() {
	case value.KindIntConstant:
		return value.NewStringAutomaton(theory.MakeString(strconv.Itoa(child.IntConstant())))
	case value.KindIntAutomaton:
		return value.NewStringAutomaton(child.IntAutomaton().ToUnaryAutomaton().ToStringAutomaton())
	}
	fatal(nil, "evaluator: toString on non-integer value")
	return nil
}

func (e *Evaluator) evalToInt(node smt.Term, child *value.Value) *value.Value {
	if child.Kind() != value.KindStringAutomaton {
		fatal(node, "evaluator: toInt on non-string value")
	}
	auto := child.StringAutomaton().ParseToIntAutomaton()
	if auto.IsAcceptingSingleInt() {
		return value.NewInt(auto.GetAnAcceptingInt())
	}
	return value.NewIntAutomaton(auto)
}

func (e *Evaluator) evalLen(child *value.Value) *value.Value {
	if child.Kind() != value.KindStringAutomaton {
		fatal(nil, "evaluator: len on non-string value")
	}
	auto := child.StringAutomaton().Length()
	if auto.IsAcceptingSingleInt() {
		return value.NewInt(auto.GetAnAcceptingInt())
	}
	return value.NewIntAutomaton(auto)
}

func (e *Evaluator) VisitBinary(b *smt.Binary) {
	switch b.K {
	case smt.KindIn:
		e.setTermValue(b, e.evalIn(b))
		return
	case smt.KindNotIn:
		e.setTermValue(b, e.evalNotIn(b))
		return
	}

	left := e.eval(b.Left)
	right := e.eval(b.Right)
	var out *value.Value
	switch b.K {
	case smt.KindEq:
		out = e.evalEq(left, right)
	case smt.KindNotEq:
		out = e.evalNotEq(b, left, right)
	case smt.KindLt, smt.KindLe, smt.KindGt, smt.KindGe:
		out = e.evalComparison(b, left, right)
	case smt.KindMinus:
		out = e.evalArith(b, left, right)
	case smt.KindContains:
		out = value.NewStringAutomaton(left.StringAutomaton().Contains(right.StringAutomaton()))
	case smt.KindBegins:
		out = value.NewStringAutomaton(left.StringAutomaton().Begins(right.StringAutomaton()))
	case smt.KindEnds:
		out = value.NewStringAutomaton(left.StringAutomaton().Ends(right.StringAutomaton()))
	case smt.KindNotContains:
		out = e.evalNotRelation(left, right, (*theory.StringAutomaton).Contains, (*theory.StringAutomaton).NotContains)
	case smt.KindNotBegins:
		out = e.evalNotRelation(left, right, (*theory.StringAutomaton).Begins, (*theory.StringAutomaton).NotBegins)
	case smt.KindNotEnds:
		out = e.evalNotRelation(left, right, (*theory.StringAutomaton).Ends, (*theory.StringAutomaton).NotEnds)
	case smt.KindIndexOf:
		out = e.collapseInt(left.StringAutomaton().IndexOf(right.StringAutomaton()))
	case smt.KindLastIndexOf:
		out = e.collapseInt(left.StringAutomaton().LastIndexOf(right.StringAutomaton()))
	case smt.KindCharAt:
		out = value.NewStringAutomaton(left.StringAutomaton().CharAt(e.toIntAutomaton(right)))
	default:
		fatal(b, "evaluator: unhandled binary operator %s", b.K)
	}
	e.setTermValue(b, out)
}

func (e *Evaluator) toIntAutomaton(v *value.Value) *theory.IntAutomaton {
	if v.Kind() == value.KindIntConstant {
		return theory.MakeInt(v.IntConstant())
	}
	return v.IntAutomaton()
}

func (e *Evaluator) collapseInt(auto *theory.IntAutomaton) *value.Value {
	if auto.IsAcceptingSingleInt() {
		return value.NewInt(auto.GetAnAcceptingInt())
	}
	return value.NewIntAutomaton(auto)
}

// evalIn handles the variable-vs-regex-constant fast path (write directly
// into the symbol table via the relational engine) and falls back to plain
// string-automaton intersection otherwise.
func (e *Evaluator) evalIn(b *smt.Binary) *value.Value {
	qi, isVar := b.Left.(*smt.QualIdentifier)
	constTerm, isConst := b.Right.(*smt.TermConstant)
	if isVar && isConst && constTerm.ValueType == smt.ConstRegex {
		regexAuto, err := theory.MakeRegexAuto(constTerm.Text)
		if err != nil {
			fatal(b, "evaluator: invalid regex literal: %v", err)
		}
		cur, ok := e.Symtab.GetValue(qi.VarName)
		if !ok {
			fatal(b, "evaluator: undeclared variable %q", qi.VarName)
		}
		narrowed := cur.StringAutomaton().Intersect(regexAuto)
		result := value.NewStringAutomaton(narrowed)
		e.Symtab.UpdateValue(qi.VarName, result.Clone())
		return result
	}
	left := e.eval(b.Left)
	right := e.eval(b.Right)
	return value.NewStringAutomaton(left.StringAutomaton().Intersect(right.StringAutomaton()))
}

// evalNotIn computes the set difference and, when the left side is a bare
// variable reference, writes the refined value straight back to the symbol
// table, per spec.md §4.1's NotIn bullet.
func (e *Evaluator) evalNotIn(b *smt.Binary) *value.Value {
	left := e.eval(b.Left)
	right := e.eval(b.Right)
	result := value.NewStringAutomaton(left.StringAutomaton().Difference(right.StringAutomaton()))
	if qi, ok := b.Left.(*smt.QualIdentifier); ok {
		e.Symtab.UpdateValue(qi.VarName, result.Clone())
	}
	return result
}

func (e *Evaluator) evalEq(left, right *value.Value) *value.Value {
	if left.Kind() == right.Kind() {
		switch left.Kind() {
		case value.KindBoolConstant:
			return value.NewBool(left.BoolConstant() == right.BoolConstant())
		case value.KindIntConstant:
			return value.NewBool(left.IntConstant() == right.IntConstant())
		}
	}
	return e.intersectValues(left, right)
}

func (e *Evaluator) intersectValues(left, right *value.Value) *value.Value {
	la, lok := asStringAutomaton(left)
	ra, rok := asStringAutomaton(right)
	if lok && rok {
		return value.NewStringAutomaton(la.Intersect(ra))
	}
	li, liok := asIntAutomaton(left)
	ri, riok := asIntAutomaton(right)
	if liok && riok {
		return e.collapseInt(li.Intersect(ri))
	}
	fatal(nil, "evaluator: incompatible operand kinds for equality/intersection")
	return nil
}

func asStringAutomaton(v *value.Value) (*theory.StringAutomaton, bool) {
	switch v.Kind() {
	case value.KindStringAutomaton:
		return v.StringAutomaton(), true
	}
	return nil, false
}

func asIntAutomaton(v *value.Value) (*theory.IntAutomaton, bool) {
	switch v.Kind() {
	case value.KindIntAutomaton:
		return v.IntAutomaton(), true
	case value.KindIntConstant:
		return theory.MakeInt(v.IntConstant()), true
	}
	return nil, false
}

func (e *Evaluator) evalNotEq(b *smt.Binary, left, right *value.Value) *value.Value {
	qi, isVar := b.Left.(*smt.QualIdentifier)
	constTerm, isConst := b.Right.(*smt.TermConstant)
	if isVar && isConst && constTerm.ValueType == smt.ConstString {
		complement := theory.MakeString(constTerm.Text).Complement()
		cur, ok := e.Symtab.GetValue(qi.VarName)
		if !ok {
			fatal(b, "evaluator: undeclared variable %q", qi.VarName)
		}
		narrowed := cur.StringAutomaton().Intersect(complement)
		result := value.NewStringAutomaton(narrowed)
		e.Symtab.UpdateValue(qi.VarName, result.Clone())
		return result
	}
	if left.Kind() == right.Kind() {
		switch left.Kind() {
		case value.KindBoolConstant:
			return value.NewBool(left.BoolConstant() != right.BoolConstant())
		case value.KindIntConstant:
			return value.NewBool(left.IntConstant() != right.IntConstant())
		}
	}
	if !left.IsSatisfiable() || !right.IsSatisfiable() {
		return value.NewBool(false)
	}
	inter := e.intersectValues(left, right)
	if !inter.IsSatisfiable() {
		return value.NewBool(true)
	}
	return inter
}

func (e *Evaluator) evalComparison(b *smt.Binary, left, right *value.Value) *value.Value {
	switch {
	case left.Kind() == value.KindIntConstant && right.Kind() == value.KindIntAutomaton:
		k, v := left.IntConstant(), right.IntAutomaton()
		return value.NewBool(compareConstAuto(b.K, k, v))
	case left.Kind() == value.KindIntAutomaton && right.Kind() == value.KindIntConstant:
		return value.NewBool(compareAutoConst(b.K, left.IntAutomaton(), right.IntConstant()))
	case left.Kind() == value.KindIntAutomaton && right.Kind() == value.KindIntAutomaton:
		return value.NewBool(compareAutoAuto(b.K, left.IntAutomaton(), right.IntAutomaton()))
	case left.Kind() == value.KindIntConstant && right.Kind() == value.KindIntConstant:
		return value.NewBool(compareConstConst(b.K, left.IntConstant(), right.IntConstant()))
	}
	fatal(b, "evaluator: unsupported operand combination for comparison %s", b.K)
	return nil
}

func compareConstConst(k smt.Kind, l, r int) bool {
	switch k {
	case smt.KindLt:
		return l < r
	case smt.KindLe:
		return l <= r
	case smt.KindGt:
		return l > r
	case smt.KindGe:
		return l >= r
	}
	return false
}

// compareConstAuto handles `k <relop> auto`, e.g. Gt(k, auto) means k > auto
// i.e. auto < k — implemented by calling the automaton's predicate with the
// relation mirrored, the same reduction ConstraintSolver.cpp's visitGt uses.
func compareConstAuto(k smt.Kind, konst int, auto *theory.IntAutomaton) bool {
	switch k {
	case smt.KindLt:
		return auto.IsGreaterThan(konst)
	case smt.KindLe:
		return auto.IsGreaterThanOrEqual(konst)
	case smt.KindGt:
		return auto.IsLessThan(konst)
	case smt.KindGe:
		return auto.IsLessThanOrEqual(konst)
	}
	return false
}

func compareAutoConst(k smt.Kind, auto *theory.IntAutomaton, konst int) bool {
	switch k {
	case smt.KindLt:
		return auto.IsLessThan(konst)
	case smt.KindLe:
		return auto.IsLessThanOrEqual(konst)
	case smt.KindGt:
		return auto.IsGreaterThan(konst)
	case smt.KindGe:
		return auto.IsGreaterThanOrEqual(konst)
	}
	return false
}

func compareAutoAuto(k smt.Kind, l, r *theory.IntAutomaton) bool {
	switch k {
	case smt.KindLt:
		return l.IsLessThanAuto(r)
	case smt.KindLe:
		return l.IsLessThanOrEqualAuto(r)
	case smt.KindGt:
		return l.IsGreaterThanAuto(r)
	case smt.KindGe:
		return l.IsGreaterThanOrEqualAuto(r)
	}
	return false
}

func (e *Evaluator) evalArith(b *smt.Binary, left, right *value.Value) *value.Value {
	if left.Kind() == value.KindIntConstant && right.Kind() == value.KindIntConstant {
		switch b.K {
		case smt.KindMinus:
			return value.NewInt(left.IntConstant() - right.IntConstant())
		}
	}
	fatal(b, "evaluator: arithmetic on automaton operands requires the arithmetic engine component")
	return nil
}

func (e *Evaluator) evalNotRelation(left, right *value.Value, relate func(*theory.StringAutomaton, *theory.StringAutomaton) *theory.StringAutomaton, notRelate func(*theory.StringAutomaton, *theory.StringAutomaton) *theory.StringAutomaton) *value.Value {
	if !left.IsSatisfiable() && !right.IsSatisfiable() {
		return value.NewBool(false)
	}
	subject, search := left.StringAutomaton(), right.StringAutomaton()
	if search.IsAcceptingSingleString() {
		return value.NewStringAutomaton(subject.Difference(relate(subject, search)))
	}
	if subject.IsAcceptingSingleString() {
		diff := notRelate(subject, search)
		if diff.IsEmptyLanguage() {
			return value.NewStringAutomaton(theory.MakePhi())
		}
		return value.NewStringAutomaton(subject.Clone())
	}
	return value.NewStringAutomaton(subject.Clone())
}

func (e *Evaluator) VisitNAry(n *smt.NAry) {
	var out *value.Value
	switch n.K {
	case smt.KindConcat:
		out = e.evalConcat(n)
	case smt.KindPlus:
		out = e.evalPlus(n)
	case smt.KindTimes:
		out = e.evalTimes(n)
	default:
		fatal(n, "evaluator: unhandled n-ary operator %s", n.K)
	}
	e.setTermValue(n, out)
}

func (e *Evaluator) evalConcat(n *smt.NAry) *value.Value {
	if len(n.Terms) == 0 {
		return value.NewStringAutomaton(theory.MakeEmptyString())
	}
	first := e.eval(n.Terms[0])
	acc := first.StringAutomaton().Clone()
	for _, t := range n.Terms[1:] {
		v := e.eval(t)
		acc = acc.Concat(v.StringAutomaton())
	}
	return value.NewStringAutomaton(acc)
}

func (e *Evaluator) evalPlus(n *smt.NAry) *value.Value {
	sum := 0
	allConst := true
	for _, t := range n.Terms {
		v := e.eval(t)
		if v.Kind() != value.KindIntConstant {
			allConst = false
			continue
		}
		sum += v.IntConstant()
	}
	if allConst {
		return value.NewInt(sum)
	}
	fatal(n, "evaluator: + over automaton operands requires the arithmetic engine component")
	return nil
}

func (e *Evaluator) evalTimes(n *smt.NAry) *value.Value {
	prod := 1
	allConst := true
	for _, t := range n.Terms {
		v := e.eval(t)
		if v.Kind() != value.KindIntConstant {
			allConst = false
			continue
		}
		prod *= v.IntConstant()
	}
	if allConst {
		return value.NewInt(prod)
	}
	fatal(n, "evaluator: * over automaton operands requires the arithmetic engine component")
	return nil
}

func (e *Evaluator) VisitSubString(s *smt.SubString) {
	subject := e.eval(s.Subject)
	start := e.eval(s.StartIdx)
	var end *value.Value
	if s.EndIdx != nil {
		end = e.eval(s.EndIdx)
	}

	var mode theory.SubStringMode
	var marker *theory.StringAutomaton
	var startAuto, endAuto *theory.IntAutomaton
	switch s.Mode {
	case smt.SubStringFromIndex:
		mode = theory.SubStringFromIndex
		startAuto = e.toIntAutomaton(start)
	case smt.SubStringFromIndexToIndex:
		mode = theory.SubStringFromIndexToIndex
		startAuto = e.toIntAutomaton(start)
		endAuto = e.toIntAutomaton(end)
	case smt.SubStringFromFirstOf:
		mode = theory.SubStringFromFirstOf
		marker = start.StringAutomaton()
	case smt.SubStringFromLastOf:
		mode = theory.SubStringFromLastOf
		marker = start.StringAutomaton()
	default:
		fatal(s, "evaluator: unimplemented SubString mode")
	}
	out := subject.StringAutomaton().SubString(mode, startAuto, endAuto, marker)
	e.setTermValue(s, value.NewStringAutomaton(out))
}

func (e *Evaluator) VisitReplace(r *smt.Replace) {
	subject := e.eval(r.Subject)
	search := e.eval(r.Search)
	with := e.eval(r.With)
	out := subject.StringAutomaton().Replace(search.StringAutomaton(), with.StringAutomaton())
	e.setTermValue(r, value.NewStringAutomaton(out))
}

// VisitCount is an Open Question (a) case: declared unimplemented in the
// original, so it parses but aborts on evaluation with a precise
// diagnostic rather than guessing semantics.
func (e *Evaluator) VisitCount(c *smt.Count) {
	fatal(c, "evaluator: Count is declared unimplemented")
}

func (e *Evaluator) VisitUnknown(u *smt.Unknown) {
	for _, t := range u.Terms {
		e.eval(t)
	}
	e.log.WithField("operator", u.Name).Warn("solver: unknown operator, over-approximating to top string automaton")
	e.setTermValue(u, value.NewStringAutomaton(theory.MakeAnyString()))
}

// VisitQualIdentifier implements the variable-reference dispatch: prefer a
// Value the relational string engine holds (tagging the variable for
// write-back), else read from the symbol table; clone either way, and
// record the ancestor path (root first, ending at this node) for later
// refinement.
func (e *Evaluator) VisitQualIdentifier(q *smt.QualIdentifier) {
	var v *value.Value
	for _, re := range e.relEngines {
		if rv, ok := re.GetVariableValue(q.VarName, false); ok {
			v = rv
			e.taggedVars[q.VarName] = true
			break
		}
	}
	if v == nil {
		sv, ok := e.Symtab.GetValue(q.VarName)
		if !ok {
			fatal(q, "evaluator: undeclared variable %q", q.VarName)
		}
		v = sv
	}
	e.recordVariablePath(q)
	e.setTermValue(q, v.Clone())
}

func (e *Evaluator) VisitTermConstant(t *smt.TermConstant) {
	var v *value.Value
	switch t.ValueType {
	case smt.ConstBool:
		v = value.NewBool(t.Text == "true")
	case smt.ConstNumeral:
		n, err := strconv.Atoi(t.Text)
		if err != nil {
			fatal(t, "evaluator: malformed numeral literal %q", t.Text)
		}
		v = value.NewInt(n)
	case smt.ConstString:
		v = value.NewStringAutomaton(theory.MakeString(t.Text))
	case smt.ConstRegex:
		auto, err := theory.MakeRegexAuto(t.Text)
		if err != nil {
			fatal(t, "evaluator: invalid regex literal: %v", err)
		}
		v = value.NewStringAutomaton(auto)
	default:
		fatal(t, "evaluator: unhandled constant kind")
	}
	e.setTermValue(t, v)
}

// VisitIte, VisitQuantifier: inert per spec.md §4.1 ("Quantifiers, ITE, ...
// are inert in this evaluator"); children are still walked so any embedded
// assignment or side effect (none exist in this fragment, but the contract
// is visit_children_of) happens, and a harmless placeholder Value is
// installed so the term-value map invariant holds.
func (e *Evaluator) VisitIte(i *smt.Ite) {
	smt.VisitChildrenOf(e, i)
	e.setTermValue(i, value.NewBool(true))
}

func (e *Evaluator) VisitQuantifier(q *smt.Quantifier) {
	smt.VisitChildrenOf(e, q)
	e.setTermValue(q, value.NewBool(true))
}
