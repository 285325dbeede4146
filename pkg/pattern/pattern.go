package pattern

import (
	"fmt"

	"github.com/authzed/rpqplan/pkg/genutil/slicez"
)

// Pattern is a node of a parsed path expression.
type Pattern interface {
	fmt.Stringer

	isPattern()
}

// Label matches a single edge with the given label.
type Label struct {
	URI string
}

// Seq matches Left followed by Right.
type Seq struct {
	Left, Right Pattern
}

// Alt matches either Left or Right.
type Alt struct {
	Left, Right Pattern
}

// Star matches zero or more repetitions of Inner.
type Star struct {
	Inner Pattern
}

// Plus matches one or more repetitions of Inner.
type Plus struct {
	Inner Pattern
}

// Opt matches zero or one occurrence of Inner.
type Opt struct {
	Inner Pattern
}

func (*Label) isPattern() {}
func (*Seq) isPattern()   {}
func (*Alt) isPattern()   {}
func (*Star) isPattern()  {}
func (*Plus) isPattern()  {}
func (*Opt) isPattern()   {}

func (p *Label) String() string { return "<" + p.URI + ">" }
func (p *Seq) String() string   { return "(" + p.Left.String() + "/" + p.Right.String() + ")" }
func (p *Alt) String() string   { return "(" + p.Left.String() + "|" + p.Right.String() + ")" }
func (p *Star) String() string  { return p.Inner.String() + "*" }
func (p *Plus) String() string  { return p.Inner.String() + "+" }
func (p *Opt) String() string   { return p.Inner.String() + "?" }

// VertexKind distinguishes free and bound query endpoints.
type VertexKind int

const (
	// AnyVertex is a free endpoint, written ?name.
	AnyVertex VertexKind = iota

	// ConstantVertex is an endpoint bound to a named vertex, written <name>.
	ConstantVertex
)

// Vertex is a query endpoint. For AnyVertex the name is the variable name
// and is informational only.
type Vertex struct {
	Kind VertexKind
	Name string
}

// Any returns a free endpoint.
func Any(name string) Vertex { return Vertex{Kind: AnyVertex, Name: name} }

// Constant returns an endpoint bound to the named vertex.
func Constant(name string) Vertex { return Vertex{Kind: ConstantVertex, Name: name} }

// IsConstant returns true if the endpoint is bound to a vertex.
func (v Vertex) IsConstant() bool { return v.Kind == ConstantVertex }

func (v Vertex) String() string {
	if v.IsConstant() {
		return "<" + v.Name + ">"
	}
	return "?" + v.Name
}

// Query is a regular path query: all pairs (src, dest) connected by a path
// matching Pattern.
type Query struct {
	Src     Vertex
	Pattern Pattern
	Dest    Vertex
}

func (q Query) String() string {
	return q.Src.String() + " " + q.Pattern.String() + " " + q.Dest.String()
}

// Labels returns the distinct labels referenced by the pattern, in order of
// first appearance.
func Labels(p Pattern) []string {
	var labels []string
	var walk func(Pattern)
	walk = func(p Pattern) {
		switch p := p.(type) {
		case *Label:
			labels = append(labels, p.URI)
		case *Seq:
			walk(p.Left)
			walk(p.Right)
		case *Alt:
			walk(p.Left)
			walk(p.Right)
		case *Star:
			walk(p.Inner)
		case *Plus:
			walk(p.Inner)
		case *Opt:
			walk(p.Inner)
		}
	}
	walk(p)
	return slicez.Unique(labels)
}
