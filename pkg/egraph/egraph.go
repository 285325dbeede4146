package egraph

import (
	"github.com/authzed/rpqplan/pkg/plan"
	"github.com/authzed/rpqplan/pkg/rpqerrors"
)

// Class is an equivalence class of plan nodes. Nodes are kept in insertion
// order; after a rebuild they are canonical and free of duplicates.
type Class struct {
	ID    plan.ID
	Nodes []plan.Node

	parents []parentRef
}

// parentRef records that node, which lives in class, has this class as a
// child.
type parentRef struct {
	node  plan.Node
	class plan.ID
}

// EGraph holds a congruence-closed set of equivalence classes over plan
// nodes. It is not safe for concurrent use.
type EGraph struct {
	uf          unionFind
	classes     []*Class
	memo        map[plan.Node]plan.ID
	pending     []plan.ID
	liveClasses int
}

// New returns an empty e-graph.
func New() *EGraph {
	return &EGraph{memo: map[plan.Node]plan.ID{}}
}

// Find returns the canonical id of the class containing id.
func (g *EGraph) Find(id plan.ID) plan.ID {
	return g.uf.find(id)
}

// Class returns the class containing id.
func (g *EGraph) Class(id plan.ID) *Class {
	return g.classes[g.Find(id)]
}

// Classes returns every canonical class in id order.
func (g *EGraph) Classes() []*Class {
	classes := make([]*Class, 0, g.liveClasses)
	for _, cls := range g.classes {
		if cls != nil {
			classes = append(classes, cls)
		}
	}
	return classes
}

// ClassCount returns the number of canonical classes.
func (g *EGraph) ClassCount() int { return g.liveClasses }

// NodeCount returns the number of distinct hash-consed nodes.
func (g *EGraph) NodeCount() int { return len(g.memo) }

// IsClean returns true if there are no merges awaiting a rebuild.
func (g *EGraph) IsClean() bool { return len(g.pending) == 0 }

func (g *EGraph) canonicalize(n plan.Node) plan.Node {
	return n.MapChildren(g.Find)
}

// Lookup returns the class of a node if it is already present.
func (g *EGraph) Lookup(n plan.Node) (plan.ID, bool) {
	id, ok := g.memo[g.canonicalize(n)]
	if !ok {
		return 0, false
	}
	return g.Find(id), true
}

// Add returns the class of the node, creating a new class if no equal node
// exists. Children must be ids of existing classes.
func (g *EGraph) Add(n plan.Node) plan.ID {
	for _, child := range n.Args() {
		if int(child) >= g.uf.size() {
			rpqerrors.MustPanic("node %v references unknown class %d", n, child)
		}
	}

	n = g.canonicalize(n)
	if id, ok := g.memo[n]; ok {
		return g.Find(id)
	}

	id := g.uf.makeSet()
	g.classes = append(g.classes, &Class{ID: id, Nodes: []plan.Node{n}})
	g.liveClasses++
	for _, child := range n.Args() {
		cls := g.classes[child]
		cls.parents = append(cls.parents, parentRef{node: n, class: id})
	}
	g.memo[n] = id
	return id
}

// AddExpr adds every node of the expression and returns the class of its
// root.
func (g *EGraph) AddExpr(e plan.Expr) (plan.ID, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	ids := make([]plan.ID, e.Len())
	for i, n := range e.Nodes() {
		ids[i] = g.Add(n.MapChildren(func(child plan.ID) plan.ID { return ids[child] }))
	}
	return ids[len(ids)-1], nil
}

// Union merges the classes of a and b and returns true if they were
// distinct. The older class stays canonical. Congruence is restored by the
// next Rebuild.
func (g *EGraph) Union(a, b plan.ID) bool {
	a, b = g.Find(a), g.Find(b)
	if a == b {
		return false
	}
	if b < a {
		a, b = b, a
	}

	g.uf.union(a, b)
	root, other := g.classes[a], g.classes[b]
	root.Nodes = append(root.Nodes, other.Nodes...)
	root.parents = append(root.parents, other.parents...)
	g.classes[b] = nil
	g.liveClasses--
	g.pending = append(g.pending, a)
	return true
}

// Rebuild restores the congruence invariant after unions and returns the
// number of additional unions it performed.
func (g *EGraph) Rebuild() int {
	unions := 0
	for len(g.pending) > 0 {
		todo := g.pending
		g.pending = nil

		repaired := make(map[plan.ID]struct{}, len(todo))
		for _, id := range todo {
			id = g.Find(id)
			if _, ok := repaired[id]; ok {
				continue
			}
			repaired[id] = struct{}{}
			unions += g.repair(id)
		}
	}

	for _, cls := range g.classes {
		if cls != nil {
			cls.Nodes = g.dedupNodes(cls.Nodes)
		}
	}
	return unions
}

// repair re-canonicalizes the parents of a class, merging any that have
// become congruent.
func (g *EGraph) repair(id plan.ID) int {
	cls := g.classes[id]
	parents := cls.parents
	cls.parents = nil

	for _, p := range parents {
		delete(g.memo, p.node)
	}
	for _, p := range parents {
		g.memo[g.canonicalize(p.node)] = g.Find(p.class)
	}

	unions := 0
	deduped := make([]parentRef, 0, len(parents))
	index := make(map[plan.Node]int, len(parents))
	for _, p := range parents {
		n := g.canonicalize(p.node)
		if i, ok := index[n]; ok {
			if g.Union(deduped[i].class, p.class) {
				unions++
			}
			deduped[i].class = g.Find(p.class)
			continue
		}
		index[n] = len(deduped)
		deduped = append(deduped, parentRef{node: n, class: g.Find(p.class)})
	}

	// The class may itself have been merged away by the unions above.
	root := g.classes[g.Find(id)]
	root.parents = append(root.parents, deduped...)
	return unions
}

func (g *EGraph) dedupNodes(nodes []plan.Node) []plan.Node {
	seen := make(map[plan.Node]struct{}, len(nodes))
	out := nodes[:0]
	for _, n := range nodes {
		n = g.canonicalize(n)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
