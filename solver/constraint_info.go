package solver

import "github.com/vhavlena/abc-go/smt"

// ConstraintInformation is the "is_component" oracle spec.md §6 names: a
// pre-pass that identifies which And nodes are maximal conjunctive solver
// units. The scripts this evaluator targets arrive with conjunctions
// already flattened by the parser (smtlib.Parse folds nested (and (and a b)
// c) into one n-ary And), so every And node a script actually contains is
// already maximal; the oracle's job reduces to "have we already run the
// sub-engines for this node," tracked per-node rather than recomputed.
type ConstraintInformation struct {
	started map[*smt.And]bool
}

func NewConstraintInformation() *ConstraintInformation {
	return &ConstraintInformation{started: map[*smt.And]bool{}}
}

// IsComponent reports whether and is a maximal conjunction the sub-engines
// should run against; it always answers true and records nothing. Marking a
// node started, §4.1's "first iteration" gate, is FirstIteration's job.
func (c *ConstraintInformation) IsComponent(and *smt.And) bool {
	return true
}

func (c *ConstraintInformation) FirstIteration(and *smt.And) bool {
	if c.started[and] {
		return false
	}
	c.started[and] = true
	return true
}
