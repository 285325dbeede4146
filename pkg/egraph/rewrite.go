package egraph

import (
	"fmt"
	"slices"

	"github.com/authzed/rpqplan/pkg/plan"
)

// Rewrite is a directed equality: wherever LHS matches, the instantiated RHS
// is merged into the matched class.
type Rewrite struct {
	Name string
	LHS  *Pattern
	RHS  *Pattern
}

// NewRewrite parses a rewrite from the s-expression forms of both sides.
// Every variable used by the right-hand side must be bound by the left.
func NewRewrite(name, lhs, rhs string) (*Rewrite, error) {
	lhsPattern, err := ParsePattern(lhs)
	if err != nil {
		return nil, fmt.Errorf("rewrite %s: invalid left-hand side: %w", name, err)
	}
	if lhsPattern.IsVariable() {
		return nil, fmt.Errorf("rewrite %s: left-hand side must not be a bare variable", name)
	}

	rhsPattern, err := ParsePattern(rhs)
	if err != nil {
		return nil, fmt.Errorf("rewrite %s: invalid right-hand side: %w", name, err)
	}
	for _, v := range rhsPattern.Vars() {
		if !slices.Contains(lhsPattern.Vars(), v) {
			return nil, fmt.Errorf("rewrite %s: variable %s is not bound by the left-hand side", name, v)
		}
	}

	return &Rewrite{Name: name, LHS: lhsPattern, RHS: rhsPattern}, nil
}

// MustNewRewrite is NewRewrite that panics on error. Intended for static
// rule tables.
func MustNewRewrite(name, lhs, rhs string) *Rewrite {
	rw, err := NewRewrite(name, lhs, rhs)
	if err != nil {
		panic(err)
	}
	return rw
}

// Search returns every match of the left-hand side.
func (rw *Rewrite) Search(g *EGraph) []Match {
	return rw.LHS.Search(g)
}

// Apply instantiates the right-hand side for one substitution and merges it
// into the matched class. Returns true if the merge changed the e-graph.
func (rw *Rewrite) Apply(g *EGraph, class plan.ID, subst Subst) (bool, error) {
	id, err := rw.RHS.Instantiate(g, subst)
	if err != nil {
		return false, fmt.Errorf("rewrite %s: %w", rw.Name, err)
	}
	return g.Union(class, id), nil
}

func (rw *Rewrite) String() string {
	return rw.Name + ": " + rw.LHS.String() + " => " + rw.RHS.String()
}
