package plan

import (
	"strconv"
	"strings"
)

// Explain describes a plan node and its children for display.
type Explain struct {
	Info       string
	SubExplain []Explain
}

// Explain returns the display tree for the term rooted at the last node.
func (e Expr) Explain() Explain {
	if len(e.nodes) == 0 {
		return Explain{Info: "Empty"}
	}
	return e.explain(e.Root())
}

func (e Expr) explain(id ID) Explain {
	n := e.nodes[id]
	var info string
	switch n.Op {
	case LabelOp:
		info = "Label(" + n.Label.Name + ", nvals=" + strconv.FormatUint(n.Label.Nvals, 10) + ")"
	case SeqOp:
		info = "Seq"
	case AltOp:
		info = "Alt"
	case StarOp:
		info = "Star"
	case LStarOp:
		info = "LStar"
	case RStarOp:
		info = "RStar"
	}

	ex := Explain{Info: info}
	for _, child := range n.Args() {
		ex.SubExplain = append(ex.SubExplain, e.explain(child))
	}
	return ex
}

// String renders the tree with box-drawing branches.
func (ex Explain) String() string {
	var sb strings.Builder
	sb.WriteString(ex.Info)
	sb.WriteString("\n")
	for i, sub := range ex.SubExplain {
		sub.format(&sb, "", i == len(ex.SubExplain)-1)
	}
	return sb.String()
}

func (ex Explain) format(sb *strings.Builder, indent string, isLast bool) {
	if isLast {
		sb.WriteString(indent + "└─ ")
	} else {
		sb.WriteString(indent + "├─ ")
	}
	sb.WriteString(ex.Info)
	sb.WriteString("\n")

	childIndent := indent + "│  "
	if isLast {
		childIndent = indent + "   "
	}
	for i, sub := range ex.SubExplain {
		sub.format(sb, childIndent, i == len(ex.SubExplain)-1)
	}
}
