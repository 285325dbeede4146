package sexpr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		input    string
		expected string
	}{
		{"a", "a"},
		{"(/ a b)", "(/ a b)"},
		{"  ( |   ?a\n(* ?b) )  ", "(| ?a (* ?b))"},
		{"(/ <http://example.org/p x>:10 <b>:4)", "(/ <http://example.org/p x>:10 <b>:4)"},
		{"(*/ <a(1)>:3 <b>:1)", "(*/ <a(1)>:3 <b>:1)"},
	}

	for _, tc := range tcs {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			n, err := Parse(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.expected, n.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		input string
		pos   int
	}{
		{"", 0},
		{"(", 0},
		{"()", 0},
		{")", 0},
		{"(a b) c", 6},
		{"<abc", 0},
	}

	for _, tc := range tcs {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tc.input)
			require.Error(t, err)

			var serr SyntaxError
			require.ErrorAs(t, err, &serr)
			require.Equal(t, tc.pos, serr.Pos)
		})
	}
}

func TestAtomPositions(t *testing.T) {
	t.Parallel()

	n, err := Parse("(/ a  bb)")
	require.NoError(t, err)
	require.False(t, n.IsAtom())
	require.Len(t, n.List, 3)
	require.Equal(t, 1, n.List[0].Pos)
	require.Equal(t, 3, n.List[1].Pos)
	require.Equal(t, 6, n.List[2].Pos)
}
