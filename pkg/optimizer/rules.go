package optimizer

import (
	"fmt"
	"slices"

	"github.com/authzed/rpqplan/pkg/egraph"
)

const (
	// RuleSetFull is the default rule set.
	RuleSetFull = "full"

	// RuleSetMinimal omits the mirrored associativity and distributivity
	// rules.
	RuleSetMinimal = "minimal"
)

// minimalRules are sound for the boolean path semiring: Seq is associative,
// Alt is associative and commutative, Seq distributes over Alt, and a
// sequence around a star fuses into the corresponding one-sided closure.
var minimalRules = []*egraph.Rewrite{
	egraph.MustNewRewrite("assoc-seq-1", "(/ ?a (/ ?b ?c))", "(/ (/ ?a ?b) ?c)"),
	egraph.MustNewRewrite("assoc-seq-2", "(/ (/ ?a ?b) ?c)", "(/ ?a (/ ?b ?c))"),
	egraph.MustNewRewrite("assoc-alt-1", "(| ?a (| ?b ?c))", "(| (| ?a ?b) ?c)"),
	egraph.MustNewRewrite("commute-alt", "(| ?a ?b)", "(| ?b ?a)"),
	egraph.MustNewRewrite("distribute-right", "(/ ?a (| ?b ?c))", "(| (/ ?a ?b) (/ ?a ?c))"),
	egraph.MustNewRewrite("build-rstar", "(/ ?a (* ?b))", "(/* ?a ?b)"),
	egraph.MustNewRewrite("build-lstar", "(/ (* ?a) ?b)", "(*/ ?a ?b)"),
}

var fullRules = append(slices.Clone(minimalRules),
	egraph.MustNewRewrite("assoc-alt-2", "(| (| ?a ?b) ?c)", "(| ?a (| ?b ?c))"),
	egraph.MustNewRewrite("distribute-left", "(/ (| ?a ?b) ?c)", "(| (/ ?a ?c) (/ ?b ?c))"),
)

// MinimalRules returns the minimal rule set.
func MinimalRules() []*egraph.Rewrite { return slices.Clone(minimalRules) }

// FullRules returns the full rule set.
func FullRules() []*egraph.Rewrite { return slices.Clone(fullRules) }

// RuleSetNames returns the names accepted by RuleSetByName.
func RuleSetNames() []string { return []string{RuleSetFull, RuleSetMinimal} }

// RuleSetByName returns the named rule set.
func RuleSetByName(name string) ([]*egraph.Rewrite, error) {
	switch name {
	case RuleSetFull:
		return FullRules(), nil
	case RuleSetMinimal:
		return MinimalRules(), nil
	default:
		return nil, fmt.Errorf("unknown rule set %q, expected one of %v", name, RuleSetNames())
	}
}
