package plan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseExprRoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range []string{
		"<a>:10",
		"(/ <a>:10 <b>:4)",
		"(| (/ <a>:1 <b>:2) (* <c>:3))",
		"(*/ <a>:1 <b>:2)",
		"(/* <a>:1 (| <b>:2 <c>:3))",
		"(/ <http://example.org/knows>:12 <x y>:0)",
	} {
		t.Run(s, func(t *testing.T) {
			t.Parallel()

			expr, err := ParseExpr(s)
			require.NoError(t, err)
			require.NoError(t, expr.Validate())
			require.Equal(t, s, expr.String())
		})
	}
}

func TestParseExprErrors(t *testing.T) {
	t.Parallel()

	for _, s := range []string{
		"",
		"a",
		"<a>",
		"<a>:x",
		"(/ <a>:1)",
		"(* <a>:1 <b>:2)",
		"(? <a>:1)",
		"((/) <a>:1)",
	} {
		t.Run(s, func(t *testing.T) {
			t.Parallel()

			_, err := ParseExpr(s)
			require.Error(t, err)
		})
	}
}

func TestExprDepth(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, MustParseExpr("<a>:1").Depth())
	require.Equal(t, 3, MustParseExpr("(/ <a>:1 (* <b>:2))").Depth())
	require.Equal(t, 4, MustParseExpr("(| <a>:1 (/ <b>:1 (* <c>:1)))").Depth())
}

func TestNodeHelpers(t *testing.T) {
	t.Parallel()

	require.Empty(t, Label(LabelMeta{Name: "a", Nvals: 1}).Args())
	require.Equal(t, []ID{3}, Star(3).Args())
	require.Equal(t, []ID{1, 2}, RStar(1, 2).Args())

	mapped := Seq(1, 2).MapChildren(func(id ID) ID { return id * 10 })
	require.Equal(t, Seq(10, 20), mapped)

	// Unused children stay zero so that equal nodes hash equally.
	require.Equal(t, Star(5), Star(5).MapChildren(func(id ID) ID { return id }))
	require.Equal(t, ID(0), Star(5).MapChildren(func(id ID) ID { return id + 1 }).Children[1])

	require.True(t, Seq(1, 2).Matches(Seq(3, 4)))
	require.False(t, Seq(1, 2).Matches(Alt(1, 2)))
	require.False(t, Label(LabelMeta{Name: "a", Nvals: 1}).Matches(Label(LabelMeta{Name: "a", Nvals: 2})))
}

func TestOpStrings(t *testing.T) {
	t.Parallel()

	for _, op := range []Op{SeqOp, AltOp, StarOp, LStarOp, RStarOp} {
		parsed, ok := OpFromString(op.String())
		require.True(t, ok)
		require.Equal(t, op, parsed)
	}

	_, ok := OpFromString("label")
	require.False(t, ok)
}

func TestValidateRejectsForwardReferences(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		_ = NewExpr(Seq(0, 1), Label(LabelMeta{Name: "a", Nvals: 1})).Validate()
	})
	require.Panics(t, func() {
		_ = Expr{}.Validate()
	})
}

func TestExplain(t *testing.T) {
	t.Parallel()

	expr := MustParseExpr("(/ <X>:1 (| (* <a>:10) <b>:4))")
	expected := `Seq
├─ Label(X, nvals=1)
└─ Alt
   ├─ Star
   │  └─ Label(a, nvals=10)
   └─ Label(b, nvals=4)
`
	require.Equal(t, expected, expr.Explain().String())
}
