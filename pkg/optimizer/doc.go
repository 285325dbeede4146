// Package optimizer chooses evaluation plans for regular path queries.
//
// A compiled plan is seeded into an e-graph and saturated with one of the
// rule sets in this package. The cheapest equivalent plan is then extracted
// under DeterministicCost, or a random equivalent plan under RandomCost when
// sampling the plan space.
package optimizer
