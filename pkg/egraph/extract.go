package egraph

import (
	"slices"

	log "github.com/authzed/rpqplan/internal/logging"
	"github.com/authzed/rpqplan/pkg/plan"
	"github.com/authzed/rpqplan/pkg/rpqerrors"
)

// CostFunction assigns a cost to a node given the best costs of the classes
// it references. childCost is only called for children of n, and every such
// child is guaranteed to already have a cost.
type CostFunction interface {
	Cost(n plan.Node, childCost func(plan.ID) float64) float64
}

// CostFunc adapts a function to the CostFunction interface.
type CostFunc func(n plan.Node, childCost func(plan.ID) float64) float64

func (f CostFunc) Cost(n plan.Node, childCost func(plan.ID) float64) float64 {
	return f(n, childCost)
}

type choice struct {
	cost float64
	node plan.Node
}

// Extractor selects the cheapest node of every class. Costs are computed
// bottom-up as a fixpoint so cyclic classes are handled without recursion.
type Extractor struct {
	g       *EGraph
	costFn  CostFunction
	best    map[plan.ID]choice
	acyclic map[plan.ID]choice
}

// NewExtractor computes the best node of every class under the cost
// function. The e-graph must be rebuilt.
func NewExtractor(g *EGraph, costFn CostFunction) (*Extractor, error) {
	if !g.IsClean() {
		return nil, rpqerrors.MustBugf("extraction requires a rebuilt e-graph")
	}

	e := &Extractor{g: g, costFn: costFn, best: map[plan.ID]choice{}}
	e.findCosts()
	return e, nil
}

func (e *Extractor) childCost(costs map[plan.ID]choice) func(plan.ID) float64 {
	return func(id plan.ID) float64 {
		return costs[e.g.Find(id)].cost
	}
}

func (e *Extractor) costed(costs map[plan.ID]choice, n plan.Node) bool {
	for _, child := range n.Args() {
		if _, ok := costs[e.g.Find(child)]; !ok {
			return false
		}
	}
	return true
}

// cheapest returns the first node in insertion order with the lowest cost
// among the nodes accepted by allow.
func (e *Extractor) cheapest(costs map[plan.ID]choice, cls *Class, allow func(plan.Node) bool) (choice, bool) {
	var best choice
	found := false
	for _, n := range cls.Nodes {
		if !e.costed(costs, n) || (allow != nil && !allow(n)) {
			continue
		}
		cost := e.costFn.Cost(n, e.childCost(costs))
		if !found || cost < best.cost {
			best = choice{cost: cost, node: n}
			found = true
		}
	}
	return best, found
}

func (e *Extractor) findCosts() {
	classes := e.g.Classes()

	// Every class has a finite term, so each pass costs at least one more
	// level of the e-graph; the bound only matters for cost functions that
	// keep improving around a cycle.
	maxPasses := len(classes) + 1
	for pass := 0; pass < maxPasses; pass++ {
		changed := false
		for _, cls := range classes {
			candidate, ok := e.cheapest(e.best, cls, nil)
			if !ok {
				continue
			}
			if old, ok := e.best[cls.ID]; !ok || candidate.cost < old.cost {
				e.best[cls.ID] = candidate
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	// Settle ties on the first-inserted node now that costs are final.
	for _, cls := range classes {
		if final, ok := e.cheapest(e.best, cls, nil); ok {
			e.best[cls.ID] = final
		}
	}
}

// Cost returns the best cost of the class containing id.
func (e *Extractor) Cost(id plan.ID) (float64, bool) {
	c, ok := e.best[e.g.Find(id)]
	return c.cost, ok
}

// FindBest returns the cost and the cheapest term of the class containing
// root. Shared classes appear once in the returned expression.
func (e *Extractor) FindBest(root plan.ID) (float64, plan.Expr, error) {
	root = e.g.Find(root)
	best, ok := e.best[root]
	if !ok {
		return 0, plan.Expr{}, rpqerrors.MustBugf("class %d has no cost", root)
	}

	if expr, ok := e.build(root, e.best); ok {
		return best.cost, expr, nil
	}

	// The cheapest choices form a cycle. Rebuild restricted to nodes whose
	// children are strictly lower in the e-graph, which cannot cycle.
	log.Warn().Uint32("class", uint32(root)).Msg("cheapest plan is cyclic; extracting an acyclic plan instead")
	if e.acyclic == nil {
		e.acyclic = e.findAcyclicCosts()
	}
	expr, ok := e.build(root, e.acyclic)
	if !ok {
		return 0, plan.Expr{}, rpqerrors.MustBugf("acyclic extraction of class %d found a cycle", root)
	}
	return e.acyclic[root].cost, expr, nil
}

// build reconstructs the term chosen for root, returning false if the
// choices lead back to a class that is still being built.
func (e *Extractor) build(root plan.ID, choices map[plan.ID]choice) (plan.Expr, bool) {
	var expr plan.Expr
	built := map[plan.ID]plan.ID{}
	inProgress := map[plan.ID]struct{}{}

	var visit func(id plan.ID) (plan.ID, bool)
	visit = func(id plan.ID) (plan.ID, bool) {
		id = e.g.Find(id)
		if exprID, ok := built[id]; ok {
			return exprID, true
		}
		if _, ok := inProgress[id]; ok {
			return 0, false
		}
		c, ok := choices[id]
		if !ok {
			return 0, false
		}

		inProgress[id] = struct{}{}
		n := c.node
		for i, child := range n.Args() {
			childID, ok := visit(child)
			if !ok {
				return 0, false
			}
			n.Children[i] = childID
		}
		delete(inProgress, id)

		exprID := expr.Add(n)
		built[id] = exprID
		return exprID, true
	}

	if _, ok := visit(root); !ok {
		return plan.Expr{}, false
	}
	return expr, true
}

// findAcyclicCosts computes, for every class, the cheapest node among those
// whose children all have a strictly smaller height than the class. Height
// is the depth of the shallowest term in the class.
func (e *Extractor) findAcyclicCosts() map[plan.ID]choice {
	classes := e.g.Classes()
	heights := map[plan.ID]int{}

	for changed := true; changed; {
		changed = false
		for _, cls := range classes {
			for _, n := range cls.Nodes {
				h, ok := 1, true
				for _, child := range n.Args() {
					ch, found := heights[e.g.Find(child)]
					if !found {
						ok = false
						break
					}
					h = max(h, ch+1)
				}
				if !ok {
					continue
				}
				if old, found := heights[cls.ID]; !found || h < old {
					heights[cls.ID] = h
					changed = true
				}
			}
		}
	}

	ordered := slices.Clone(classes)
	slices.SortStableFunc(ordered, func(a, b *Class) int {
		return heights[a.ID] - heights[b.ID]
	})

	costs := map[plan.ID]choice{}
	for _, cls := range ordered {
		height := heights[cls.ID]
		c, ok := e.cheapest(costs, cls, func(n plan.Node) bool {
			for _, child := range n.Args() {
				if heights[e.g.Find(child)] >= height {
					return false
				}
			}
			return true
		})
		if ok {
			costs[cls.ID] = c
		}
	}
	return costs
}
