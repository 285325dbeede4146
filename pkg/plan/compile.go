package plan

import (
	"github.com/authzed/rpqplan/pkg/pattern"
)

// LabelSizes maps a label name to the estimated number of edges carrying it.
type LabelSizes map[string]uint64

// selectorNvals is the size estimate of a constant-vertex selector, which
// denotes exactly one vertex.
const selectorNvals = 1

// Compile lowers a query to a plan term. Bound endpoints become selector
// labels composed onto the pattern's plan.
func Compile(sizes LabelSizes, q pattern.Query) (Expr, error) {
	var e Expr

	switch {
	case q.Src.IsConstant() && q.Dest.IsConstant():
		return Expr{}, &UnsupportedError{Reason: "queries with both endpoints bound are not supported"}

	case q.Src.IsConstant():
		selector := e.Add(Label(LabelMeta{Name: q.Src.Name, Nvals: selectorNvals}))
		body, err := compilePattern(&e, sizes, q.Pattern)
		if err != nil {
			return Expr{}, err
		}
		e.Add(Seq(selector, body))

	case q.Dest.IsConstant():
		body, err := compilePattern(&e, sizes, q.Pattern)
		if err != nil {
			return Expr{}, err
		}
		selector := e.Add(Label(LabelMeta{Name: q.Dest.Name, Nvals: selectorNvals}))
		e.Add(Seq(body, selector))

	default:
		if _, err := compilePattern(&e, sizes, q.Pattern); err != nil {
			return Expr{}, err
		}
	}

	return e, nil
}

func compilePattern(e *Expr, sizes LabelSizes, p pattern.Pattern) (ID, error) {
	switch p := p.(type) {
	case *pattern.Label:
		nvals, ok := sizes[p.URI]
		if !ok {
			return 0, &UnknownLabelError{Label: p.URI}
		}
		return e.Add(Label(LabelMeta{Name: p.URI, Nvals: nvals})), nil

	case *pattern.Seq:
		lhs, rhs, err := compilePair(e, sizes, p.Left, p.Right)
		if err != nil {
			return 0, err
		}
		return e.Add(Seq(lhs, rhs)), nil

	case *pattern.Alt:
		lhs, rhs, err := compilePair(e, sizes, p.Left, p.Right)
		if err != nil {
			return 0, err
		}
		return e.Add(Alt(lhs, rhs)), nil

	case *pattern.Star:
		inner, err := compilePattern(e, sizes, p.Inner)
		if err != nil {
			return 0, err
		}
		return e.Add(Star(inner)), nil

	case *pattern.Plus:
		// One or more is one followed by zero or more; both uses share the
		// compiled inner term.
		inner, err := compilePattern(e, sizes, p.Inner)
		if err != nil {
			return 0, err
		}
		star := e.Add(Star(inner))
		return e.Add(Seq(inner, star)), nil

	case *pattern.Opt:
		return 0, &UnsupportedError{Reason: "optional (?) path segments are not supported"}

	default:
		return 0, &UnsupportedError{Reason: "unknown pattern type"}
	}
}

func compilePair(e *Expr, sizes LabelSizes, left, right pattern.Pattern) (ID, ID, error) {
	lhs, err := compilePattern(e, sizes, left)
	if err != nil {
		return 0, 0, err
	}
	rhs, err := compilePattern(e, sizes, right)
	if err != nil {
		return 0, 0, err
	}
	return lhs, rhs, nil
}
