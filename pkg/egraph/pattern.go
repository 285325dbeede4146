package egraph

import (
	"fmt"
	"strings"

	"github.com/authzed/rpqplan/internal/sexpr"
	"github.com/authzed/rpqplan/pkg/plan"
)

// Subst binds pattern variables to classes.
type Subst map[string]plan.ID

func (s Subst) with(variable string, id plan.ID) Subst {
	out := make(Subst, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[variable] = id
	return out
}

// Match is every substitution under which a pattern matches a class.
type Match struct {
	Class  plan.ID
	Substs []Subst
}

// Pattern is a plan term whose leaves may be variables, written ?name.
type Pattern struct {
	root patternNode
	vars []string
}

type patternNode struct {
	variable string
	node     plan.Node
	children []patternNode
}

// ParsePattern parses a pattern from its s-expression form, for example
// "(/ ?a (* ?b))".
func ParsePattern(s string) (*Pattern, error) {
	root, err := sexpr.Parse(s)
	if err != nil {
		return nil, err
	}

	p := &Pattern{}
	seen := map[string]struct{}{}
	p.root, err = buildPatternNode(root, func(v string) {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			p.vars = append(p.vars, v)
		}
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func buildPatternNode(n sexpr.Node, onVar func(string)) (patternNode, error) {
	if n.IsAtom() {
		if strings.HasPrefix(n.Atom, "?") {
			if len(n.Atom) == 1 {
				return patternNode{}, sexpr.SyntaxError{Pos: n.Pos, Msg: "variable is missing a name"}
			}
			onVar(n.Atom)
			return patternNode{variable: n.Atom}, nil
		}
		meta, err := plan.ParseLabelAtom(n.Atom)
		if err != nil {
			return patternNode{}, sexpr.SyntaxError{Pos: n.Pos, Msg: err.Error()}
		}
		return patternNode{node: plan.Label(meta)}, nil
	}

	head := n.List[0]
	if !head.IsAtom() {
		return patternNode{}, sexpr.SyntaxError{Pos: head.Pos, Msg: "expected an operator"}
	}
	op, ok := plan.OpFromString(head.Atom)
	if !ok {
		return patternNode{}, sexpr.SyntaxError{Pos: head.Pos, Msg: fmt.Sprintf("unknown operator %q", head.Atom)}
	}
	if len(n.List)-1 != op.Arity() {
		return patternNode{}, sexpr.SyntaxError{Pos: n.Pos, Msg: fmt.Sprintf("operator %s takes %d arguments, found %d", op, op.Arity(), len(n.List)-1)}
	}

	pn := patternNode{node: plan.Node{Op: op}}
	for _, arg := range n.List[1:] {
		child, err := buildPatternNode(arg, onVar)
		if err != nil {
			return patternNode{}, err
		}
		pn.children = append(pn.children, child)
	}
	return pn, nil
}

// Vars returns the pattern's variables in order of first appearance.
func (p *Pattern) Vars() []string { return p.vars }

// IsVariable returns true if the whole pattern is a single variable.
func (p *Pattern) IsVariable() bool { return p.root.variable != "" }

func (p *Pattern) String() string {
	var sb strings.Builder
	p.root.write(&sb)
	return sb.String()
}

func (pn patternNode) write(sb *strings.Builder) {
	switch {
	case pn.variable != "":
		sb.WriteString(pn.variable)
	case pn.node.Op == plan.LabelOp:
		sb.WriteString(pn.node.Label.String())
	default:
		sb.WriteString("(")
		sb.WriteString(pn.node.Op.String())
		for _, child := range pn.children {
			sb.WriteString(" ")
			child.write(sb)
		}
		sb.WriteString(")")
	}
}

// Search returns the matches of the pattern against every class, in class
// id order.
func (p *Pattern) Search(g *EGraph) []Match {
	var matches []Match
	for _, cls := range g.Classes() {
		if substs := p.SearchClass(g, cls.ID); len(substs) > 0 {
			matches = append(matches, Match{Class: cls.ID, Substs: substs})
		}
	}
	return matches
}

// SearchClass returns every substitution under which the pattern matches
// the given class.
func (p *Pattern) SearchClass(g *EGraph, id plan.ID) []Subst {
	return p.root.match(g, g.Find(id), Subst{})
}

func (pn patternNode) match(g *EGraph, id plan.ID, subst Subst) []Subst {
	id = g.Find(id)
	if pn.variable != "" {
		if bound, ok := subst[pn.variable]; ok {
			if g.Find(bound) == id {
				return []Subst{subst}
			}
			return nil
		}
		return []Subst{subst.with(pn.variable, id)}
	}

	var out []Subst
	for _, n := range g.classes[id].Nodes {
		if !n.Matches(pn.node) {
			continue
		}

		partial := []Subst{subst}
		for i, childPattern := range pn.children {
			var next []Subst
			for _, s := range partial {
				next = append(next, childPattern.match(g, n.Children[i], s)...)
			}
			partial = next
			if len(partial) == 0 {
				break
			}
		}
		out = append(out, partial...)
	}
	return out
}

// Instantiate adds the pattern to the e-graph with variables replaced by
// their bound classes and returns the class of its root.
func (p *Pattern) Instantiate(g *EGraph, subst Subst) (plan.ID, error) {
	return p.root.instantiate(g, subst)
}

func (pn patternNode) instantiate(g *EGraph, subst Subst) (plan.ID, error) {
	if pn.variable != "" {
		id, ok := subst[pn.variable]
		if !ok {
			return 0, fmt.Errorf("variable %s is not bound", pn.variable)
		}
		return id, nil
	}

	n := pn.node
	for i, child := range pn.children {
		id, err := child.instantiate(g, subst)
		if err != nil {
			return 0, err
		}
		n.Children[i] = id
	}
	return g.Add(n), nil
}
