package plan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/authzed/rpqplan/internal/sexpr"
	"github.com/authzed/rpqplan/pkg/rpqerrors"
)

// Expr is a plan term stored as a flat post-order arena: every child
// reference points at an earlier node and the last node is the root.
type Expr struct {
	nodes []Node
}

// NewExpr returns an Expr holding the given nodes.
func NewExpr(nodes ...Node) Expr {
	return Expr{nodes: nodes}
}

// Add appends a node and returns its id. Children must reference nodes
// already in the Expr.
func (e *Expr) Add(n Node) ID {
	e.nodes = append(e.nodes, n)
	return ID(len(e.nodes) - 1)
}

// Len returns the number of nodes.
func (e Expr) Len() int { return len(e.nodes) }

// Nodes returns the nodes in post-order.
func (e Expr) Nodes() []Node { return e.nodes }

// Node returns the node with the given id.
func (e Expr) Node(id ID) Node { return e.nodes[id] }

// Root returns the id of the root node.
func (e Expr) Root() ID { return ID(len(e.nodes) - 1) }

// Validate checks that the Expr is non-empty and that every child reference
// points at an earlier node.
func (e Expr) Validate() error {
	if len(e.nodes) == 0 {
		return rpqerrors.MustBugf("empty plan expression")
	}
	for i, n := range e.nodes {
		if n.Op.Arity() < 0 {
			return rpqerrors.MustBugf("unknown operator %v at node %d", n.Op, i)
		}
		for _, child := range n.Args() {
			if int(child) >= i {
				return rpqerrors.MustBugf("node %d references child %d which does not precede it", i, child)
			}
		}
	}
	return nil
}

// String returns the s-expression form of the term rooted at the last node.
func (e Expr) String() string {
	if len(e.nodes) == 0 {
		return "()"
	}
	var sb strings.Builder
	e.write(&sb, e.Root())
	return sb.String()
}

func (e Expr) write(sb *strings.Builder, id ID) {
	n := e.nodes[id]
	if n.Op == LabelOp {
		sb.WriteString(n.Label.String())
		return
	}
	sb.WriteString("(")
	sb.WriteString(n.Op.String())
	for _, child := range n.Args() {
		sb.WriteString(" ")
		e.write(sb, child)
	}
	sb.WriteString(")")
}

// Depth returns the height of the term; a single label has depth 1.
func (e Expr) Depth() int {
	depths := make([]int, len(e.nodes))
	for i, n := range e.nodes {
		depth := 1
		for _, child := range n.Args() {
			depth = max(depth, depths[child]+1)
		}
		depths[i] = depth
	}
	if len(depths) == 0 {
		return 0
	}
	return depths[len(depths)-1]
}

// ParseExpr parses the s-expression form produced by Expr.String. Labels are
// written as <name>:nvals.
func ParseExpr(s string) (Expr, error) {
	root, err := sexpr.Parse(s)
	if err != nil {
		return Expr{}, err
	}

	var e Expr
	if _, err := e.addSExpr(root); err != nil {
		return Expr{}, err
	}
	return e, nil
}

// MustParseExpr is ParseExpr that panics on error. Intended for tests and
// static tables.
func MustParseExpr(s string) Expr {
	e, err := ParseExpr(s)
	if err != nil {
		panic(fmt.Sprintf("invalid plan expression %q: %v", s, err))
	}
	return e
}

func (e *Expr) addSExpr(n sexpr.Node) (ID, error) {
	if n.IsAtom() {
		meta, err := ParseLabelAtom(n.Atom)
		if err != nil {
			return 0, sexpr.SyntaxError{Pos: n.Pos, Msg: err.Error()}
		}
		return e.Add(Label(meta)), nil
	}

	head := n.List[0]
	if !head.IsAtom() {
		return 0, sexpr.SyntaxError{Pos: head.Pos, Msg: "expected an operator"}
	}
	op, ok := OpFromString(head.Atom)
	if !ok {
		return 0, sexpr.SyntaxError{Pos: head.Pos, Msg: fmt.Sprintf("unknown operator %q", head.Atom)}
	}
	if len(n.List)-1 != op.Arity() {
		return 0, sexpr.SyntaxError{Pos: n.Pos, Msg: fmt.Sprintf("operator %s takes %d arguments, found %d", op, op.Arity(), len(n.List)-1)}
	}

	node := Node{Op: op}
	for i, arg := range n.List[1:] {
		child, err := e.addSExpr(arg)
		if err != nil {
			return 0, err
		}
		node.Children[i] = child
	}
	return e.Add(node), nil
}

// ParseLabelAtom parses a label written as <name>:nvals.
func ParseLabelAtom(atom string) (LabelMeta, error) {
	if !strings.HasPrefix(atom, "<") {
		return LabelMeta{}, fmt.Errorf("expected a label of the form <name>:nvals, found %q", atom)
	}
	end := strings.LastIndex(atom, ">:")
	if end < 0 {
		return LabelMeta{}, fmt.Errorf("label %q is missing its size", atom)
	}
	nvals, err := strconv.ParseUint(atom[end+2:], 10, 64)
	if err != nil {
		return LabelMeta{}, fmt.Errorf("label %q has an invalid size: %w", atom, err)
	}
	return LabelMeta{Name: atom[1:end], Nvals: nvals}, nil
}
