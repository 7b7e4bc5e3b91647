package smt

// Visitor is the per-kind dispatch contract the evaluator implements,
// mirroring z3-go's Walk/Children pair (z3/ast_utils.go) generalized from a
// cgo-owned AST to this package's native Term tree.
type Visitor interface {
	VisitAssert(*Assert)
	VisitAnd(*And)
	VisitOr(*Or)
	VisitLet(*Let)
	VisitUnary(*Unary)
	VisitBinary(*Binary)
	VisitNAry(*NAry)
	VisitSubString(*SubString)
	VisitReplace(*Replace)
	VisitCount(*Count)
	VisitUnknown(*Unknown)
	VisitQualIdentifier(*QualIdentifier)
	VisitTermConstant(*TermConstant)
	VisitIte(*Ite)
	VisitQuantifier(*Quantifier)
}

// Visit dispatches a single term to the matching Visitor method, the Go
// analogue of a switch-on-kind dispatch table (see
// other_examples/borzacchiello-gosmt__expr_eval.go's eval_internal switch).
func Visit(v Visitor, t Term) {
	switch n := t.(type) {
	case *Assert:
		v.VisitAssert(n)
	case *And:
		v.VisitAnd(n)
	case *Or:
		v.VisitOr(n)
	case *Let:
		v.VisitLet(n)
	case *Unary:
		v.VisitUnary(n)
	case *Binary:
		v.VisitBinary(n)
	case *NAry:
		v.VisitNAry(n)
	case *SubString:
		v.VisitSubString(n)
	case *Replace:
		v.VisitReplace(n)
	case *Count:
		v.VisitCount(n)
	case *Unknown:
		v.VisitUnknown(n)
	case *QualIdentifier:
		v.VisitQualIdentifier(n)
	case *TermConstant:
		v.VisitTermConstant(n)
	case *Ite:
		v.VisitIte(n)
	case *Quantifier:
		v.VisitQuantifier(n)
	default:
		panic("smt: unhandled term type in Visit")
	}
}

// VisitChildrenOf walks a node's children without producing a result,
// matching Visitor::visit_children_of in ConstraintSolver.cpp.
func VisitChildrenOf(v Visitor, t Term) {
	for _, c := range t.Children() {
		Visit(v, c)
	}
}

// Walk performs a depth-first pre-order traversal over the term tree,
// mirroring z3-go's AST.Walk (z3/ast_utils.go). Returning false from fn
// skips the node's children.
func Walk(t Term, fn func(Term) bool) {
	if t == nil || !fn(t) {
		return
	}
	for _, c := range t.Children() {
		Walk(c, fn)
	}
}
