// Package egraph implements equality saturation over plan terms.
//
// An EGraph stores equivalence classes of plan.Node values whose children are
// class ids. Classes live in a flat arena indexed by id, with a parallel
// union-find mapping stale ids to canonical ones, and a hash-cons table that
// guarantees structurally identical nodes share a class.
//
// Unions are cheap and leave the graph temporarily non-congruent; Rebuild
// drains a worklist of merged classes, re-canonicalizes their parents and
// merges any that collide, until a fixpoint is reached.
//
// A Runner repeatedly searches every Rewrite against the graph, applies all
// matches and rebuilds, until no rule changes anything or one of its Limits
// is hit. An Extractor then picks the cheapest node per class under a
// CostFunction and reconstructs a plan.Expr from the root class.
package egraph
