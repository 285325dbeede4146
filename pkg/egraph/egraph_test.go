package egraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/authzed/rpqplan/pkg/plan"
)

func label(name string, nvals uint64) plan.Node {
	return plan.Label(plan.LabelMeta{Name: name, Nvals: nvals})
}

func TestAddHashConses(t *testing.T) {
	t.Parallel()

	g := New()
	a := g.Add(label("a", 1))
	b := g.Add(label("b", 2))
	require.NotEqual(t, a, b)
	require.Equal(t, a, g.Add(label("a", 1)))

	// Size participates in equality.
	require.NotEqual(t, a, g.Add(label("a", 2)))

	seq := g.Add(plan.Seq(a, b))
	require.Equal(t, seq, g.Add(plan.Seq(a, b)))
	require.NotEqual(t, seq, g.Add(plan.Seq(b, a)))

	require.Equal(t, 5, g.ClassCount())
	require.Equal(t, 5, g.NodeCount())

	found, ok := g.Lookup(plan.Seq(a, b))
	require.True(t, ok)
	require.Equal(t, seq, found)

	_, ok = g.Lookup(plan.Alt(a, b))
	require.False(t, ok)
}

func TestAddRejectsUnknownClass(t *testing.T) {
	t.Parallel()

	g := New()
	require.Panics(t, func() {
		g.Add(plan.Star(3))
	})
}

func TestAddExpr(t *testing.T) {
	t.Parallel()

	g := New()
	root, err := g.AddExpr(plan.MustParseExpr("(/ (/ <a>:1 <b>:2) (/ <a>:1 <b>:2))"))
	require.NoError(t, err)

	// The repeated subterm is shared.
	require.Equal(t, 4, g.ClassCount())
	cls := g.Class(root)
	require.Len(t, cls.Nodes, 1)
	require.Equal(t, cls.Nodes[0].Children[0], cls.Nodes[0].Children[1])
}

func TestUnionAndRebuildRestoreCongruence(t *testing.T) {
	t.Parallel()

	g := New()
	a := g.Add(label("a", 1))
	b := g.Add(label("b", 2))
	c := g.Add(label("c", 3))
	starA := g.Add(plan.Star(a))
	starB := g.Add(plan.Star(b))
	seqA := g.Add(plan.Seq(starA, c))
	seqB := g.Add(plan.Seq(starB, c))
	require.NotEqual(t, g.Find(seqA), g.Find(seqB))

	require.True(t, g.Union(a, b))
	require.False(t, g.Union(a, b))
	require.False(t, g.IsClean())

	// Star(a) and Star(b) are now congruent, and so are their parents.
	unions := g.Rebuild()
	require.Equal(t, 2, unions)
	require.True(t, g.IsClean())

	require.Equal(t, g.Find(starA), g.Find(starB))
	require.Equal(t, g.Find(seqA), g.Find(seqB))

	// The older class stays canonical.
	require.Equal(t, a, g.Find(b))
	require.Equal(t, starA, g.Find(starB))

	// The merged class holds both labels in insertion order and the
	// duplicate star node has been removed.
	require.Equal(t, []plan.Node{label("a", 1), label("b", 2)}, g.Class(a).Nodes)
	require.Equal(t, []plan.Node{plan.Star(a)}, g.Class(starA).Nodes)

	require.Equal(t, 4, g.ClassCount())
	require.Equal(t, 5, g.NodeCount())
}

func TestRebuildCascades(t *testing.T) {
	t.Parallel()

	g := New()
	a := g.Add(label("a", 1))
	b := g.Add(label("b", 1))

	// Build two towers Star(Star(Star(x))) and merge their bases.
	towerA, towerB := a, b
	for range 3 {
		towerA = g.Add(plan.Star(towerA))
		towerB = g.Add(plan.Star(towerB))
	}

	g.Union(a, b)
	require.Equal(t, 3, g.Rebuild())
	require.Equal(t, g.Find(towerA), g.Find(towerB))
	require.Equal(t, 4, g.ClassCount())
}

func TestSelfReferentialClass(t *testing.T) {
	t.Parallel()

	g := New()
	a := g.Add(label("a", 1))
	star := g.Add(plan.Star(a))
	starStar := g.Add(plan.Star(star))

	// Star(Star(a)) = Star(a) makes the class reference itself.
	g.Union(star, starStar)
	g.Rebuild()

	cls := g.Class(star)
	require.ElementsMatch(t, []plan.Node{plan.Star(a), plan.Star(g.Find(star))}, cls.Nodes)

	id, ok := g.Lookup(plan.Star(star))
	require.True(t, ok)
	require.Equal(t, g.Find(star), id)
}
