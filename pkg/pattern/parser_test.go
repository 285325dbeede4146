package pattern

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name     string
		query    string
		expected string
	}{
		{"single label", "?x <a> ?y", "?x <a> ?y"},
		{"sequence", "?x <a>/<b> ?y", "?x (<a>/<b>) ?y"},
		{"sequence is left associative", "?x <a>/<b>/<c> ?y", "?x ((<a>/<b>)/<c>) ?y"},
		{"alternation is left associative", "?x <a>|<b>|<c> ?y", "?x ((<a>|<b>)|<c>) ?y"},
		{"sequence binds tighter than alternation", "?x <a>/<b>|<c> ?y", "?x ((<a>/<b>)|<c>) ?y"},
		{"parentheses group", "?x <a>/(<b>|<c>) ?y", "?x (<a>/(<b>|<c>)) ?y"},
		{"postfix modifiers", "?x <a>*/<b>+/<c>? ?y", "?x ((<a>*/<b>+)/<c>?) ?y"},
		{"group with modifier", "?sub (<coauthor>)+ <Fiorenza_Summerset>", "?sub <coauthor>+ <Fiorenza_Summerset>"},
		{"constant source", "<Article1659> (<references>/<cite>)* ?obj", "<Article1659> (<references>/<cite>)* ?obj"},
		{"both constant", "<1> <a> <2>", "<1> <a> <2>"},
		{"no whitespace around operators", "?x <a> / <b> | <c> ?y", "?x ((<a>/<b>)|<c>) ?y"},
		{"uri with punctuation", "?x <http://example.org/knows#x> ?y", "?x <http://example.org/knows#x> ?y"},
		{"anonymous destination", "?x <a> ?", "?x <a> ?"},
		{"optional before anonymous destination", "?x <a>? ?", "?x <a>? ?"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			q, err := Parse(tc.query)
			require.NoError(t, err)
			require.Equal(t, tc.expected, q.String())
		})
	}
}

func TestParseStructure(t *testing.T) {
	t.Parallel()

	q, err := Parse("<alice> <knows>/<worksAt>* ?x")
	require.NoError(t, err)

	require.Equal(t, Constant("alice"), q.Src)
	require.Equal(t, Any("x"), q.Dest)
	require.Equal(t, &Seq{
		Left:  &Label{URI: "knows"},
		Right: &Star{Inner: &Label{URI: "worksAt"}},
	}, q.Pattern)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name     string
		query    string
		position int
		contains string
	}{
		{"empty", "", 0, "expected a vertex"},
		{"missing pattern", "?x ?y", 3, "expected a label"},
		{"missing destination", "?x <a>", 6, "expected a vertex"},
		{"unterminated iri", "?x <a ?y", 3, "unterminated IRI"},
		{"unclosed group", "?x (<a>/<b> ?y", 12, "expected ')'"},
		{"dangling operator", "?x <a>/ ?y", 8, "expected a label"},
		{"bad character", "?x <a>&<b> ?y", 6, "unexpected character"},
		{"trailing input", "?x <a> ?y ?z", 10, "expected end of input"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tc.query)
			require.Error(t, err)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, tc.position, perr.Position)
			require.Contains(t, perr.Message, tc.contains)
		})
	}
}

func TestLabels(t *testing.T) {
	t.Parallel()

	q := MustParse("?x (<a>/<b>)*|<a>+/<c>? ?y")
	require.Equal(t, []string{"a", "b", "c"}, Labels(q.Pattern))
}

func TestReadQueries(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"1,?sub <references>/<cite>/<creator> ?obj",
		"2,?sub (<coauthor>)+ <Fiorenza_Summerset>",
		"",
		"not a query line",
		"x,?a <b> ?c",
		"3,?a <b ?c",
		"  4 , <Article1659> (<references>/<cite>)* ?obj  ",
	}, "\n")

	queries, err := ReadQueries(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, queries, 3)

	require.Equal(t, 1, queries[0].ID)
	require.Equal(t, "?sub <references>/<cite>/<creator> ?obj", queries[0].Text)
	require.Equal(t, 2, queries[1].ID)
	require.Equal(t, Constant("Fiorenza_Summerset"), queries[1].Query.Dest)
	require.Equal(t, 4, queries[2].ID)
	require.Equal(t, Constant("Article1659"), queries[2].Query.Src)
}
