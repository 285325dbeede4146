package optimizer

import (
	"math"
	"math/rand/v2"

	"github.com/authzed/rpqplan/pkg/egraph"
	"github.com/authzed/rpqplan/pkg/plan"
)

// seqExponent is applied to the cheaper operand of a product or union.
const seqExponent = 1.1

// DeterministicCost estimates the work of a plan from label sizes.
type DeterministicCost struct{}

var _ egraph.CostFunction = DeterministicCost{}

func (DeterministicCost) Cost(n plan.Node, childCost func(plan.ID) float64) float64 {
	switch n.Op {
	case plan.LabelOp:
		return float64(n.Label.Nvals)
	case plan.SeqOp, plan.AltOp:
		return math.Pow(math.Min(childCost(n.Children[0]), childCost(n.Children[1])), seqExponent)
	case plan.StarOp:
		c := childCost(n.Children[0])
		return c * c
	case plan.LStarOp, plan.RStarOp:
		return childCost(n.Children[0]) * childCost(n.Children[1])
	default:
		return math.Inf(1)
	}
}

// PlanCost returns the cost of a whole plan under the cost function. An
// empty plan costs nothing.
func PlanCost(expr plan.Expr, costFn egraph.CostFunction) float64 {
	if expr.Len() == 0 {
		return 0
	}
	costs := make([]float64, expr.Len())
	for i, n := range expr.Nodes() {
		costs[i] = costFn.Cost(n, func(id plan.ID) float64 { return costs[id] })
	}
	return costs[expr.Root()]
}

// RandomCost assigns every distinct node an independent uniform cost, so
// extraction picks a uniformly random node in every class. Draws are
// remembered, which keeps extraction a fixpoint. Use a new RandomCost for
// each extraction.
type RandomCost struct {
	rng   *rand.Rand
	draws map[plan.Node]float64
}

var _ egraph.CostFunction = (*RandomCost)(nil)

// NewRandomCost returns a random cost function drawing from rng.
func NewRandomCost(rng *rand.Rand) *RandomCost {
	return &RandomCost{rng: rng, draws: map[plan.Node]float64{}}
}

func (rc *RandomCost) Cost(n plan.Node, _ func(plan.ID) float64) float64 {
	if c, ok := rc.draws[n]; ok {
		return c
	}
	c := rc.rng.Float64()
	rc.draws[n] = c
	return c
}
