package eval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/authzed/rpqplan/pkg/eval/mocks"
	"github.com/authzed/rpqplan/pkg/graph"
	"github.com/authzed/rpqplan/pkg/matrix"
	"github.com/authzed/rpqplan/pkg/plan"
)

func mustMatrix(t *testing.T, n uint, entries ...[2]uint) *matrix.Matrix {
	t.Helper()
	m := matrix.New(n, n)
	for _, e := range entries {
		require.NoError(t, m.Set(e[0], e[1]))
	}
	return m
}

// testGraph is a chain 1 -a-> 2 -a-> 3 -b-> 4.
func testGraph(t *testing.T) *graph.Graph {
	return &graph.Graph{
		Matrices: map[string]*matrix.Matrix{
			"a": mustMatrix(t, 4, [2]uint{0, 1}, [2]uint{1, 2}),
			"b": mustMatrix(t, 4, [2]uint{2, 3}),
		},
		LabelSizes:  plan.LabelSizes{"a": 2, "b": 1},
		Vertices:    map[string]uint{"v1": 1, "v2": 2, "v3": 3, "v4": 4},
		NumVertices: 4,
	}
}

func TestEvaluateMatrixEngine(t *testing.T) {
	t.Parallel()

	engine := NewMatrixEngine(testGraph(t))

	tcs := []struct {
		expr  string
		count uint64
	}{
		{"<a>:2", 2},
		{"(/ <a>:2 <b>:1)", 1},
		{"(| <a>:2 <b>:1)", 3},
		{"(* <a>:2)", 7},
		{"(/ <a>:2 (* <a>:2))", 3},
		{"(/* <a>:2 <a>:2)", 3},
		{"(*/ <a>:2 <b>:1)", 3},
		{"(/ (* <a>:2) <b>:1)", 3},
		{"(/ <v1>:1 (/ (* <a>:2) <b>:1))", 1},
		{"(/ (* <a>:2) <v2>:1)", 2},
	}

	for _, tc := range tcs {
		t.Run(tc.expr, func(t *testing.T) {
			t.Parallel()

			result, err := Evaluate(context.Background(), engine, plan.MustParseExpr(tc.expr))
			require.NoError(t, err)
			require.Equal(t, tc.count, result.Count)
		})
	}
}

func TestEvaluateUnknownName(t *testing.T) {
	t.Parallel()

	_, err := Evaluate(context.Background(), NewMatrixEngine(testGraph(t)), plan.MustParseExpr("(/ <a>:2 <missing>:1)"))
	require.ErrorIs(t, err, ErrEval)

	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
	require.Equal(t, plan.ID(1), evalErr.Node)
	require.Equal(t, plan.LabelOp, evalErr.Op)
	require.ErrorContains(t, err, `"missing" is neither a label nor a vertex`)
}

func TestEvaluateEngineFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)

	m := matrix.New(2, 2)
	boom := errors.New("out of memory")
	engine.EXPECT().Label("a").Return(m, nil).Times(2)
	engine.EXPECT().Closure(m).Return(m, nil).Times(2)
	engine.EXPECT().Compose(m, m).Return(nil, boom).Times(1)

	_, err := Evaluate(context.Background(), engine, plan.MustParseExpr("(/ (* <a>:1) (* <a>:1))"))
	require.ErrorIs(t, err, ErrEval)
	require.ErrorIs(t, err, boom)
}

func TestEvaluateSharesNodes(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	clk := clock.NewMock()

	a := matrix.New(2, 2)
	star := matrix.Identity(2)

	// The shared label and star are each evaluated once.
	engine.EXPECT().Label("a").DoAndReturn(func(string) (*matrix.Matrix, error) {
		clk.Add(time.Second)
		return a, nil
	}).Times(1)
	engine.EXPECT().Closure(a).Return(star, nil).Times(1)
	engine.EXPECT().Union(star, star).Return(star, nil).Times(1)
	engine.EXPECT().Nvals(star).Return(uint64(2)).Times(1)

	expr := plan.Expr{}
	label := expr.Add(plan.Label(plan.LabelMeta{Name: "a", Nvals: 1}))
	shared := expr.Add(plan.Star(label))
	expr.Add(plan.Alt(shared, shared))

	result, err := NewEvaluator(engine, clk).Evaluate(context.Background(), expr)
	require.NoError(t, err)
	require.Equal(t, uint64(2), result.Count)
	require.Equal(t, time.Second, result.Elapsed)
}
