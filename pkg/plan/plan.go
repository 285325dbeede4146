package plan

import (
	"fmt"
	"strconv"
)

// ID references a node. Inside an Expr it is the index of an earlier node in
// the same Expr; inside an e-graph it is an e-class id.
type ID uint32

// Op is the operator of a plan node.
type Op byte

const (
	// LabelOp is a leaf referencing an edge-label matrix or a vertex selector.
	LabelOp Op = 'L'

	// SeqOp is path concatenation.
	SeqOp Op = '/'

	// AltOp is path alternation.
	AltOp Op = '|'

	// StarOp is zero-or-more repetition.
	StarOp Op = '*'

	// LStarOp is the fused form of Seq(Star(a), b).
	LStarOp Op = 'l'

	// RStarOp is the fused form of Seq(a, Star(b)).
	RStarOp Op = 'r'
)

// Arity returns the number of children of a node with this operator.
func (op Op) Arity() int {
	switch op {
	case LabelOp:
		return 0
	case StarOp:
		return 1
	case SeqOp, AltOp, LStarOp, RStarOp:
		return 2
	default:
		return -1
	}
}

// String returns the operator as written at the head of an s-expression.
func (op Op) String() string {
	switch op {
	case LabelOp:
		return "label"
	case SeqOp:
		return "/"
	case AltOp:
		return "|"
	case StarOp:
		return "*"
	case LStarOp:
		return "*/"
	case RStarOp:
		return "/*"
	default:
		return "unknown(" + strconv.Itoa(int(op)) + ")"
	}
}

// OpFromString returns the operator written as s at the head of an
// s-expression. Labels are atoms and have no head.
func OpFromString(s string) (Op, bool) {
	switch s {
	case "/":
		return SeqOp, true
	case "|":
		return AltOp, true
	case "*":
		return StarOp, true
	case "*/":
		return LStarOp, true
	case "/*":
		return RStarOp, true
	default:
		return 0, false
	}
}

// LabelMeta names a label and carries the estimated number of edges in its
// matrix. Both fields participate in equality.
type LabelMeta struct {
	Name  string
	Nvals uint64
}

func (lm LabelMeta) String() string {
	return fmt.Sprintf("<%s>:%d", lm.Name, lm.Nvals)
}

// Node is a single plan operator. Nodes are comparable and are used directly
// as hash-consing keys; unused children are always zero.
type Node struct {
	Op       Op
	Label    LabelMeta
	Children [2]ID
}

// Label returns a leaf node for the given label.
func Label(meta LabelMeta) Node {
	return Node{Op: LabelOp, Label: meta}
}

// Seq returns a concatenation node.
func Seq(a, b ID) Node { return Node{Op: SeqOp, Children: [2]ID{a, b}} }

// Alt returns an alternation node.
func Alt(a, b ID) Node { return Node{Op: AltOp, Children: [2]ID{a, b}} }

// Star returns a closure node.
func Star(a ID) Node { return Node{Op: StarOp, Children: [2]ID{a, 0}} }

// LStar returns the fused node for Seq(Star(a), b).
func LStar(a, b ID) Node { return Node{Op: LStarOp, Children: [2]ID{a, b}} }

// RStar returns the fused node for Seq(a, Star(b)).
func RStar(a, b ID) Node { return Node{Op: RStarOp, Children: [2]ID{a, b}} }

// Args returns the children that are in use for the node's operator.
func (n Node) Args() []ID {
	arity := n.Op.Arity()
	if arity <= 0 {
		return nil
	}
	return n.Children[:arity]
}

// MapChildren returns a copy of the node with fn applied to every child.
func (n Node) MapChildren(fn func(ID) ID) Node {
	for i := range n.Op.Arity() {
		n.Children[i] = fn(n.Children[i])
	}
	return n
}

// Matches returns true if both nodes have the same operator and, for
// labels, the same metadata. Children are not compared.
func (n Node) Matches(other Node) bool {
	if n.Op != other.Op {
		return false
	}
	return n.Op != LabelOp || n.Label == other.Label
}

func (n Node) String() string {
	switch n.Op.Arity() {
	case 0:
		return n.Label.String()
	case 1:
		return fmt.Sprintf("(%s %d)", n.Op, n.Children[0])
	default:
		return fmt.Sprintf("(%s %d %d)", n.Op, n.Children[0], n.Children[1])
	}
}
