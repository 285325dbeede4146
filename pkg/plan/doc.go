// This package defines the term language that regular path query plans are written in, and the compiler
// that lowers a parsed query into a plan.
//
// A plan is a tree of matrix operations over edge-label relations: Label leaves, Seq (composition),
// Alt (union), Star (reflexive-transitive closure), and the fused LStar and RStar forms which stand for
// Seq(Star(a), b) and Seq(a, Star(b)) respectively.
//
// Plans are stored flat in an Expr, in post-order, with children referenced by ID. The same Node type is
// used by the e-graph, where the IDs refer to equivalence classes instead of earlier nodes.
//
// For example, the query
//
//	<alice> <knows>/<worksAt>* ?x
//
// compiles to
//
//	(/ <alice>:1 (/ <knows>:120 (* <worksAt>:40)))
//
// where the number after each label is its estimated edge count.
package plan
