// Package symtab implements the scoped variable->Value bindings the
// evaluator reads and narrows as it walks a constraint tree, grounded on
// ABC's SymbolTable (push_scope/pop_scope around each And/Or's component
// boundary) and on the teacher's own Env-style scoping in z3-go's examples.
package symtab

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/vhavlena/abc-go/value"
)

// Variable is one declared symbol: a name plus the sort it was declared
// with (spec.md's "Bool | Int | String" declaration surface).
type Variable struct {
	Name string
	Sort Sort
}

type Sort int

const (
	SortBool Sort = iota
	SortInt
	SortString
)

// scope holds one nested level of bindings; SymbolTable keeps a stack of
// these so push_scope/pop_scope is O(1) and narrowing inside a branch never
// leaks back out once the branch's scope pops.
type scope struct {
	values map[string]*value.Value
}

// SymbolTable is the evaluator's working variable store: declared
// variables, their current Value (possibly narrowed mid-walk), and a
// satisfiability flag any single update can clear.
type SymbolTable struct {
	declared map[string]Variable
	scopes   []scope
	unsat    bool
	aliases  map[string]string
}

func New() *SymbolTable {
	return &SymbolTable{
		declared: map[string]Variable{},
		scopes:   []scope{{values: map[string]*value.Value{}}},
	}
}

// Declare registers a variable with its sort and an initial top value
// (Any-string/Any-int/unconstrained-bool), mirroring the original's
// set_symbolic_variable wiring at parse time.
func (t *SymbolTable) Declare(name string, sort Sort, initial *value.Value) {
	t.declared[name] = Variable{Name: name, Sort: sort}
	t.scopes[len(t.scopes)-1].values[name] = initial
}

func (t *SymbolTable) PushScope() {
	t.scopes = append(t.scopes, scope{values: map[string]*value.Value{}})
}

func (t *SymbolTable) PopScope() {
	if len(t.scopes) > 1 {
		t.scopes = t.scopes[:len(t.scopes)-1]
	}
}

func (t *SymbolTable) TopScope() int { return len(t.scopes) - 1 }

// GetValue looks a name up scope-by-scope from the top down, the usual
// lexical-shadowing lookup a `let`-introduced binding needs over an
// outer declared variable of the same name.
func (t *SymbolTable) GetValue(name string) (*value.Value, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if v, ok := t.scopes[i].values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// SetValue binds name in the current (innermost) scope.
func (t *SymbolTable) SetValue(name string, v *value.Value) {
	t.scopes[len(t.scopes)-1].values[name] = v
}

// UpdateValue narrows an already-bound variable's value at the scope it was
// declared in, mirroring update_variable/update_term_value: if the new
// value is unsatisfiable, the whole table is marked unsat so the evaluator
// can short-circuit the containing And.
func (t *SymbolTable) UpdateValue(name string, v *value.Value) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if _, ok := t.scopes[i].values[name]; ok {
			t.scopes[i].values[name] = v
			if !v.IsSatisfiable() {
				t.unsat = true
			}
			return
		}
	}
	t.SetValue(name, v)
	if !v.IsSatisfiable() {
		t.unsat = true
	}
}

func (t *SymbolTable) IsSatisfiable() bool { return !t.unsat }

func (t *SymbolTable) MarkUnsatisfiable() { t.unsat = true }

func (t *SymbolTable) Variable(name string) (Variable, bool) {
	v, ok := t.declared[name]
	return v, ok
}

// GetRepresentativeVariableOfAtScope mirrors
// get_representative_variable_of_at_scope: the arithmetic/relational-string
// engines need one stable per-component alias for a subterm that isn't
// already a bare variable reference (e.g. an arithmetic expression nested
// inside a relational string constraint); this hands back a scope-unique
// synthetic name for it, declaring it on first use.
func (t *SymbolTable) GetRepresentativeVariableOfAtScope(key string, sort Sort, initial *value.Value) string {
	if t.aliases == nil {
		t.aliases = map[string]string{}
	}
	scopedKey := fmt.Sprintf("%s@%d", key, t.TopScope())
	if name, ok := t.aliases[scopedKey]; ok {
		return name
	}
	name := "v_" + uuid.NewString()
	t.Declare(name, sort, initial)
	t.aliases[scopedKey] = name
	return name
}
