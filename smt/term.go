// Package smt defines the term language the evaluator walks: a closed set of
// AST node kinds mirroring the SMT-LIB fragment spec'd for Boolean, linear
// integer arithmetic, and string theories.
package smt

// Kind mirrors z3-go's ASTKind/DeclKind pair but collapses both into a single
// discriminator, since this module's AST is produced by our own parser rather
// than recovered from an opaque Z3 handle.
type Kind int

const (
	KindAssert Kind = iota
	KindAnd
	KindOr
	KindLet
	KindNot
	KindUMinus
	KindPlus
	KindMinus
	KindTimes
	KindEq
	KindNotEq
	KindLt
	KindLe
	KindGt
	KindGe
	KindConcat
	KindIn
	KindNotIn
	KindLen
	KindContains
	KindNotContains
	KindBegins
	KindNotBegins
	KindEnds
	KindNotEnds
	KindIndexOf
	KindLastIndexOf
	KindCharAt
	KindSubString
	KindToUpper
	KindToLower
	KindTrim
	KindToString
	KindToInt
	KindReplace
	KindCount
	KindIte
	KindForAll
	KindExists
	KindUnknown
	KindQualIdentifier
	KindTermConstant
)

var kindNames = map[Kind]string{
	KindAssert: "assert", KindAnd: "and", KindOr: "or", KindLet: "let",
	KindNot: "not", KindUMinus: "-", KindPlus: "+", KindMinus: "-",
	KindTimes: "*", KindEq: "=", KindNotEq: "distinct", KindLt: "<", KindLe: "<=",
	KindGt: ">", KindGe: ">=", KindConcat: "concat", KindIn: "in", KindNotIn: "not-in",
	KindLen: "len", KindContains: "contains", KindNotContains: "not-contains",
	KindBegins: "begins", KindNotBegins: "not-begins", KindEnds: "ends",
	KindNotEnds: "not-ends", KindIndexOf: "indexof", KindLastIndexOf: "lastindexof",
	KindCharAt: "charat", KindSubString: "substring", KindToUpper: "toupper",
	KindToLower: "tolower", KindTrim: "trim", KindToString: "tostring",
	KindToInt: "toint", KindReplace: "replace", KindCount: "count",
	KindIte: "ite", KindForAll: "forall", KindExists: "exists",
	KindUnknown: "unknown", KindQualIdentifier: "qualident", KindTermConstant: "const",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(?)"
}

// ConstType discriminates the primitive constant kinds a TermConstant can
// carry, mirroring ABC's Primitive::Type.
type ConstType int

const (
	ConstBool ConstType = iota
	ConstNumeral
	ConstString
	ConstRegex
)

// SubStringMode mirrors spec.md's SubString::Mode enumeration. Only the four
// modes spec.md marks "fully supported" are implemented by the evaluator;
// the rest can be built directly as AST nodes but abort with a diagnostic on
// evaluation, per spec.md §7/§9. smtlib.Parse only ever produces
// SubStringFromIndexToIndex.
type SubStringMode int

const (
	SubStringFromIndex SubStringMode = iota
	SubStringFromFirstOf
	SubStringFromLastOf
	SubStringFromIndexToIndex
	SubStringFromIndexToFirstOf
	SubStringFromIndexToLastOf
	SubStringFromFirstOfToIndex
	SubStringFromFirstOfToFirstOf
	SubStringFromFirstOfToLastOf
	SubStringFromLastOfToIndex
	SubStringFromLastOfToFirstOf
	SubStringFromLastOfToLastOf
)

// Term is the common interface every AST node satisfies. Term identity (the
// pointer value itself) is what the evaluator's term-value map keys on, so
// concrete term types are always used and passed as pointers.
type Term interface {
	Kind() Kind
	Children() []Term
	String() string
}

// base carries no state; it exists only so concrete term types can embed it
// instead of each declaring Children/String from scratch when they have no
// children of interest (leaves).
type base struct{}

func (base) Children() []Term { return nil }

// Assert is the top-level command: a single asserted term.
type Assert struct {
	base
	Term Term
}

func (*Assert) Kind() Kind            { return KindAssert }
func (a *Assert) Children() []Term    { return []Term{a.Term} }
func (a *Assert) String() string      { return "(assert " + a.Term.String() + ")" }

// And is an n-ary conjunction. It carries no component flag: the constraint
// information oracle (solver.ConstraintInformation) keeps its per-node
// component and first-iteration state itself, keyed on the node pointer.
type And struct {
	base
	Terms []Term
}

func (*And) Kind() Kind         { return KindAnd }
func (a *And) Children() []Term { return a.Terms }
func (a *And) String() string   { return joinTerms("and", a.Terms) }

// Or is an n-ary disjunction.
type Or struct {
	base
	Terms []Term
}

func (*Or) Kind() Kind         { return KindOr }
func (o *Or) Children() []Term { return o.Terms }
func (o *Or) String() string   { return joinTerms("or", o.Terms) }

// VarBinding is one (symbol term) pair inside a let.
type VarBinding struct {
	Symbol string
	Term   Term
}

// Let introduces local bindings visible only within Body.
type Let struct {
	base
	Bindings []VarBinding
	Body     Term
}

func (*Let) Kind() Kind { return KindLet }
func (l *Let) Children() []Term {
	cs := make([]Term, 0, len(l.Bindings)+1)
	for _, b := range l.Bindings {
		cs = append(cs, b.Term)
	}
	return append(cs, l.Body)
}
func (l *Let) String() string { return "(let (...) " + l.Body.String() + ")" }

// Unary wraps the single-child node kinds that don't need extra fields:
// Not, UMinus, ToUpper/ToLower/Trim/ToString/ToInt/Len all route through a
// subject term only.
type Unary struct {
	base
	K    Kind
	Term Term
}

func (u *Unary) Kind() Kind         { return u.K }
func (u *Unary) Children() []Term   { return []Term{u.Term} }
func (u *Unary) String() string     { return "(" + u.K.String() + " " + u.Term.String() + ")" }

// Binary wraps two-child node kinds: Eq, NotEq, Lt, Le, Gt, Ge, Minus, In,
// NotIn, Contains/NotContains/Begins/NotBegins/Ends/NotEnds, IndexOf,
// LastIndexOf, CharAt.
type Binary struct {
	base
	K     Kind
	Left  Term
	Right Term
}

func (b *Binary) Kind() Kind       { return b.K }
func (b *Binary) Children() []Term { return []Term{b.Left, b.Right} }
func (b *Binary) String() string {
	return "(" + b.K.String() + " " + b.Left.String() + " " + b.Right.String() + ")"
}

// NAry wraps the variadic node kinds: Plus, Times, Concat.
type NAry struct {
	base
	K     Kind
	Terms []Term
}

func (n *NAry) Kind() Kind         { return n.K }
func (n *NAry) Children() []Term   { return n.Terms }
func (n *NAry) String() string     { return joinTerms(n.K.String(), n.Terms) }

// SubString is the one node kind whose semantics branch on a mode tag (spec.md
// §4.1 "SubString").
type SubString struct {
	base
	Mode     SubStringMode
	Subject  Term
	StartIdx Term
	EndIdx   Term // nil unless Mode needs a second index/marker
}

func (*SubString) Kind() Kind { return KindSubString }
func (s *SubString) Children() []Term {
	cs := []Term{s.Subject, s.StartIdx}
	if s.EndIdx != nil {
		cs = append(cs, s.EndIdx)
	}
	return cs
}
func (s *SubString) String() string { return "(substring ...)" }

// Replace is the three-argument string replace term.
type Replace struct {
	base
	Subject Term
	Search  Term
	With    Term
}

func (*Replace) Kind() Kind         { return KindReplace }
func (r *Replace) Children() []Term { return []Term{r.Subject, r.Search, r.With} }
func (r *Replace) String() string   { return "(replace ...)" }

// Count is declared-but-unimplemented per spec.md §9 Open Question (a); it
// still needs an AST shape so a script containing it parses and then aborts
// at evaluation time with a precise diagnostic, rather than failing to parse.
type Count struct {
	base
	Subject Term
	Search  Term
}

func (*Count) Kind() Kind         { return KindCount }
func (c *Count) Children() []Term { return []Term{c.Subject, c.Search} }
func (c *Count) String() string   { return "(count ...)" }

// Unknown represents an opaque function application whose operator is not in
// the fragment's dispatch table. Evaluation over-approximates it to the top
// string automaton per spec.md §4.1/§7.
type Unknown struct {
	base
	Name  string
	Terms []Term
}

func (*Unknown) Kind() Kind         { return KindUnknown }
func (u *Unknown) Children() []Term { return u.Terms }
func (u *Unknown) String() string   { return joinTerms(u.Name, u.Terms) }

// QualIdentifier is a variable reference.
type QualIdentifier struct {
	base
	VarName string
}

func (*QualIdentifier) Kind() Kind     { return KindQualIdentifier }
func (q *QualIdentifier) String() string { return q.VarName }

// TermConstant is a leaf literal: bool, numeral, string, or regex.
type TermConstant struct {
	base
	ValueType ConstType
	Text      string // raw lexeme, e.g. "true", "42", the string/regex body
}

func (*TermConstant) Kind() Kind       { return KindTermConstant }
func (t *TermConstant) String() string { return t.Text }

// Ite, ForAll, Exists are inert per spec.md §4.1 ("Quantifiers, ITE, ... are
// inert in this evaluator"); they still need AST shapes to round-trip
// through the parser, Walk, and visit_children_of.
type Ite struct {
	base
	Cond, Then, Else Term
}

func (*Ite) Kind() Kind         { return KindIte }
func (i *Ite) Children() []Term { return []Term{i.Cond, i.Then, i.Else} }
func (i *Ite) String() string   { return "(ite ...)" }

type Quantifier struct {
	base
	K    Kind // KindForAll or KindExists
	Vars []string
	Body Term
}

func (q *Quantifier) Kind() Kind         { return q.K }
func (q *Quantifier) Children() []Term   { return []Term{q.Body} }
func (q *Quantifier) String() string     { return "(" + q.K.String() + " ...)" }

func joinTerms(op string, terms []Term) string {
	s := "(" + op
	for _, t := range terms {
		s += " " + t.String()
	}
	return s + ")"
}
