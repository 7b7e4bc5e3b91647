// Package smtlib implements a minimal SMT-LIB2 S-expression reader that
// builds smt.Term trees and symtab declarations, playing the role
// ParseSMTLIB2String/AssertSMTLIB2String play in the teacher's
// z3/ast_utils.go and z3/solver.go, but producing this module's own AST
// instead of opaque Z3_ast handles. Grammar coverage is deliberately
// shallow: declare-const/declare-fun, assert, and the operator vocabulary
// smt.Kind names — enough to drive the evaluator from a script, not a
// general SMT-LIB front-end.
package smtlib

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/vhavlena/abc-go/smt"
	"github.com/vhavlena/abc-go/symtab"
	"github.com/vhavlena/abc-go/theory"
	"github.com/vhavlena/abc-go/value"
)

// sexpr is either an atom or a list of children; list is set explicitly
// (rather than inferred from len(Children) == 0) so an empty list like the
// "()" in (declare-fun name () Sort) is never mistaken for an atom.
type sexpr struct {
	Atom     string
	Children []*sexpr
	list     bool
}

func (s *sexpr) isAtom() bool { return !s.list }

// Script is the parsed result: every asserted term, in source order.
// Declared variables go into the symbol table, not into the Script.
type Script struct {
	Asserts []*smt.Assert
}

// Parse tokenizes and parses src, declaring every (declare-const/declare-fun)
// into st and collecting every (assert ...) into the returned Script.
func Parse(src string, st *symtab.SymbolTable) (*Script, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &tokenParser{toks: toks}
	var top []*sexpr
	for !p.atEnd() {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		top = append(top, e)
	}

	script := &Script{}
	for _, cmd := range top {
		if cmd.isAtom() || len(cmd.Children) == 0 {
			continue
		}
		head := cmd.Children[0].Atom
		switch head {
		case "declare-const":
			if err := declareConst(cmd, st); err != nil {
				return nil, err
			}
		case "declare-fun":
			if err := declareFun(cmd, st); err != nil {
				return nil, err
			}
		case "assert":
			if len(cmd.Children) != 2 {
				return nil, errors.Errorf("smtlib: assert takes exactly one term, got %d", len(cmd.Children)-1)
			}
			t, err := toTerm(cmd.Children[1])
			if err != nil {
				return nil, err
			}
			script.Asserts = append(script.Asserts, &smt.Assert{Term: t})
		case "set-logic", "set-info", "check-sat", "exit", "get-model":
			// accepted and ignored: this reader only drives the evaluator's
			// own CLI, not a full SMT-LIB session protocol.
		default:
			return nil, errors.Errorf("smtlib: unsupported top-level command %q", head)
		}
	}
	return script, nil
}

func declareConst(cmd *sexpr, st *symtab.SymbolTable) error {
	if len(cmd.Children) != 3 {
		return errors.Errorf("smtlib: declare-const wants (declare-const name Sort)")
	}
	name := cmd.Children[1].Atom
	sort, err := toSort(cmd.Children[2].Atom)
	if err != nil {
		return err
	}
	st.Declare(name, sort, topValueFor(sort))
	return nil
}

func declareFun(cmd *sexpr, st *symtab.SymbolTable) error {
	// (declare-fun name (ARGSORT...) RETSORT); only the nullary (constant)
	// form is meaningful to this fragment's variable model.
	if len(cmd.Children) != 4 {
		return errors.Errorf("smtlib: declare-fun wants (declare-fun name (args) Sort)")
	}
	if len(cmd.Children[2].Children) != 0 {
		return errors.Errorf("smtlib: declare-fun with arguments is unsupported (only 0-ary symbols are variables)")
	}
	name := cmd.Children[1].Atom
	sort, err := toSort(cmd.Children[3].Atom)
	if err != nil {
		return err
	}
	st.Declare(name, sort, topValueFor(sort))
	return nil
}

func toSort(s string) (symtab.Sort, error) {
	switch s {
	case "Bool":
		return symtab.SortBool, nil
	case "Int":
		return symtab.SortInt, nil
	case "String":
		return symtab.SortString, nil
	}
	return 0, errors.Errorf("smtlib: unknown sort %q", s)
}

func topValueFor(sort symtab.Sort) *value.Value {
	switch sort {
	case symtab.SortBool:
		return value.NewBool(true)
	case symtab.SortInt:
		return value.NewIntAutomaton(theory.MakeAtLeast(0))
	case symtab.SortString:
		return value.NewStringAutomaton(theory.MakeAnyString())
	}
	return value.NewBool(true)
}

// The unaryOps/binaryOps/naryOps tables map an SMT-LIB operator symbol onto the
// smt.Kind it builds, so toTerm stays a single dispatch over cmd.Children[0].
var unaryOps = map[string]smt.Kind{
	"not": smt.KindNot, "-": smt.KindUMinus, "str.to_upper": smt.KindToUpper,
	"str.to_lower": smt.KindToLower, "str.trim": smt.KindTrim,
	"str.to.int": smt.KindToInt, "int.to.str": smt.KindToString,
	"str.len": smt.KindLen,
}

var binaryOps = map[string]smt.Kind{
	"=": smt.KindEq, "distinct": smt.KindNotEq, "<": smt.KindLt, "<=": smt.KindLe,
	">": smt.KindGt, ">=": smt.KindGe, "str.in.re": smt.KindIn,
	"str.contains": smt.KindContains, "str.prefixof": smt.KindBegins,
	"str.suffixof": smt.KindEnds, "str.indexof-simple": smt.KindIndexOf,
	"str.lastindexof": smt.KindLastIndexOf, "str.at": smt.KindCharAt,
}

var naryOps = map[string]smt.Kind{
	"str.++": smt.KindConcat, "+": smt.KindPlus, "*": smt.KindTimes,
}

func toTerm(e *sexpr) (smt.Term, error) {
	if e.isAtom() {
		return atomTerm(e.Atom)
	}
	if len(e.Children) == 0 {
		return nil, errors.New("smtlib: empty application")
	}
	head := e.Children[0].Atom
	args := e.Children[1:]

	switch head {
	case "and":
		terms, err := toTerms(args)
		if err != nil {
			return nil, err
		}
		var flat []smt.Term
		for _, t := range terms {
			if inner, ok := t.(*smt.And); ok {
				flat = append(flat, inner.Terms...)
				continue
			}
			flat = append(flat, t)
		}
		return &smt.And{Terms: flat}, nil
	case "or":
		terms, err := toTerms(args)
		if err != nil {
			return nil, err
		}
		return &smt.Or{Terms: terms}, nil
	case "let":
		return toLet(args)
	case "-":
		if len(args) == 1 {
			t, err := toTerm(args[0])
			if err != nil {
				return nil, err
			}
			return &smt.Unary{K: smt.KindUMinus, Term: t}, nil
		}
		if len(args) == 2 {
			l, err := toTerm(args[0])
			if err != nil {
				return nil, err
			}
			r, err := toTerm(args[1])
			if err != nil {
				return nil, err
			}
			return &smt.Binary{K: smt.KindMinus, Left: l, Right: r}, nil
		}
		return nil, errors.New("smtlib: '-' takes 1 or 2 arguments")
	case "str.replace":
		return toReplace(args)
	case "str.substr":
		return toSubstr(args)
	case "ite":
		return toIte(args)
	}

	if k, ok := unaryOps[head]; ok {
		if len(args) != 1 {
			return nil, errors.Errorf("smtlib: %s takes exactly one argument", head)
		}
		t, err := toTerm(args[0])
		if err != nil {
			return nil, err
		}
		return &smt.Unary{K: k, Term: t}, nil
	}
	if k, ok := binaryOps[head]; ok {
		if len(args) != 2 {
			return nil, errors.Errorf("smtlib: %s takes exactly two arguments", head)
		}
		l, err := toTerm(args[0])
		if err != nil {
			return nil, err
		}
		r, err := toTerm(args[1])
		if err != nil {
			return nil, err
		}
		return &smt.Binary{K: k, Left: l, Right: r}, nil
	}
	if k, ok := naryOps[head]; ok {
		terms, err := toTerms(args)
		if err != nil {
			return nil, err
		}
		return &smt.NAry{K: k, Terms: terms}, nil
	}

	terms, err := toTerms(args)
	if err != nil {
		return nil, err
	}
	return &smt.Unknown{Name: head, Terms: terms}, nil
}

func toTerms(exprs []*sexpr) ([]smt.Term, error) {
	out := make([]smt.Term, len(exprs))
	for i, e := range exprs {
		t, err := toTerm(e)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func toLet(args []*sexpr) (smt.Term, error) {
	if len(args) != 2 {
		return nil, errors.New("smtlib: let wants (let (bindings) body)")
	}
	var bindings []smt.VarBinding
	for _, b := range args[0].Children {
		if len(b.Children) != 2 {
			return nil, errors.New("smtlib: malformed let binding")
		}
		t, err := toTerm(b.Children[1])
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, smt.VarBinding{Symbol: b.Children[0].Atom, Term: t})
	}
	body, err := toTerm(args[1])
	if err != nil {
		return nil, err
	}
	return &smt.Let{Bindings: bindings, Body: body}, nil
}

func toReplace(args []*sexpr) (smt.Term, error) {
	if len(args) != 3 {
		return nil, errors.New("smtlib: str.replace takes 3 arguments")
	}
	terms, err := toTerms(args)
	if err != nil {
		return nil, err
	}
	return &smt.Replace{Subject: terms[0], Search: terms[1], With: terms[2]}, nil
}

func toSubstr(args []*sexpr) (smt.Term, error) {
	if len(args) != 3 {
		return nil, errors.New("smtlib: str.substr takes 3 arguments (subject start len)")
	}
	terms, err := toTerms(args)
	if err != nil {
		return nil, err
	}
	return &smt.SubString{
		Mode:     smt.SubStringFromIndexToIndex,
		Subject:  terms[0],
		StartIdx: terms[1],
		EndIdx:   terms[2],
	}, nil
}

func toIte(args []*sexpr) (smt.Term, error) {
	if len(args) != 3 {
		return nil, errors.New("smtlib: ite takes 3 arguments")
	}
	terms, err := toTerms(args)
	if err != nil {
		return nil, err
	}
	return &smt.Ite{Cond: terms[0], Then: terms[1], Else: terms[2]}, nil
}

func atomTerm(a string) (smt.Term, error) {
	switch {
	case a == "true":
		return &smt.TermConstant{ValueType: smt.ConstBool, Text: "true"}, nil
	case a == "false":
		return &smt.TermConstant{ValueType: smt.ConstBool, Text: "false"}, nil
	case isNumeral(a):
		return &smt.TermConstant{ValueType: smt.ConstNumeral, Text: a}, nil
	case strings.HasPrefix(a, `"`) && strings.HasSuffix(a, `"`) && len(a) >= 2:
		unquoted, err := strconv.Unquote(a)
		if err != nil {
			unquoted = strings.Trim(a, `"`)
		}
		return &smt.TermConstant{ValueType: smt.ConstString, Text: unquoted}, nil
	default:
		return &smt.QualIdentifier{VarName: a}, nil
	}
}

func isNumeral(a string) bool {
	if a == "" {
		return false
	}
	start := 0
	if a[0] == '-' {
		start = 1
	}
	if start >= len(a) {
		return false
	}
	for _, r := range a[start:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// --- tokenizer / recursive-descent s-expr reader --------------------------

type token struct {
	kind string // "(", ")", "atom", "str"
	text string
}

func tokenize(src string) ([]token, error) {
	var toks []token
	i := 0
	n := len(src)
	for i < n {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == ';':
			for i < n && src[i] != '\n' {
				i++
			}
		case c == '(' || c == ')':
			toks = append(toks, token{kind: string(c)})
			i++
		case c == '"':
			j := i + 1
			for j < n && src[j] != '"' {
				if src[j] == '\\' && j+1 < n {
					j++
				}
				j++
			}
			if j >= n {
				return nil, errors.New("smtlib: unterminated string literal")
			}
			toks = append(toks, token{kind: "atom", text: src[i : j+1]})
			i = j + 1
		default:
			j := i
			for j < n && !isDelim(src[j]) {
				j++
			}
			if j == i {
				return nil, errors.Errorf("smtlib: unexpected character %q", string(c))
			}
			toks = append(toks, token{kind: "atom", text: src[i:j]})
			i = j
		}
	}
	return toks, nil
}

func isDelim(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '(' || c == ')' || c == ';'
}

type tokenParser struct {
	toks []token
	pos  int
}

func (p *tokenParser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *tokenParser) parseExpr() (*sexpr, error) {
	if p.atEnd() {
		return nil, errors.New("smtlib: unexpected end of input")
	}
	t := p.toks[p.pos]
	switch t.kind {
	case "atom":
		p.pos++
		return &sexpr{Atom: t.text}, nil
	case "(":
		p.pos++
		var children []*sexpr
		for {
			if p.atEnd() {
				return nil, errors.New("smtlib: unterminated list")
			}
			if p.toks[p.pos].kind == ")" {
				p.pos++
				break
			}
			c, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			children = append(children, c)
		}
		return &sexpr{Children: children, list: true}, nil
	default:
		return nil, fmt.Errorf("smtlib: unexpected token %q", t.kind)
	}
}
