package eval

import (
	"fmt"

	"github.com/authzed/rpqplan/pkg/graph"
	"github.com/authzed/rpqplan/pkg/matrix"
)

//go:generate go run go.uber.org/mock/mockgen -source engine.go -destination ./mocks/mock_engine.go -package mocks Engine

// Engine performs the matrix operations a plan is evaluated with.
type Engine interface {
	// Label returns the matrix of an edge label, or the one-hot diagonal
	// selector of a vertex.
	Label(name string) (*matrix.Matrix, error)

	// Compose returns the boolean product a·b.
	Compose(a, b *matrix.Matrix) (*matrix.Matrix, error)

	// Union returns the element-wise OR of a and b.
	Union(a, b *matrix.Matrix) (*matrix.Matrix, error)

	// Closure returns the reflexive-transitive closure a*.
	Closure(a *matrix.Matrix) (*matrix.Matrix, error)

	// LStar returns a*·b.
	LStar(a, b *matrix.Matrix) (*matrix.Matrix, error)

	// RStar returns a·b*.
	RStar(a, b *matrix.Matrix) (*matrix.Matrix, error)

	// Nvals returns the number of entries of a matrix.
	Nvals(mat *matrix.Matrix) uint64
}

// MatrixEngine evaluates plans in process against a loaded graph.
type MatrixEngine struct {
	g *graph.Graph
}

var _ Engine = (*MatrixEngine)(nil)

// NewMatrixEngine returns an engine over the given graph.
func NewMatrixEngine(g *graph.Graph) *MatrixEngine {
	return &MatrixEngine{g: g}
}

func (me *MatrixEngine) Label(name string) (*matrix.Matrix, error) {
	if m, ok := me.g.Matrices[name]; ok {
		return m, nil
	}
	if idx, ok := me.g.Vertices[name]; ok && idx > 0 {
		return matrix.Selector(me.g.NumVertices, idx-1)
	}
	return nil, fmt.Errorf("%q is neither a label nor a vertex", name)
}

func (me *MatrixEngine) Compose(a, b *matrix.Matrix) (*matrix.Matrix, error) {
	return matrix.Compose(a, b)
}

func (me *MatrixEngine) Union(a, b *matrix.Matrix) (*matrix.Matrix, error) {
	return matrix.Union(a, b)
}

func (me *MatrixEngine) Closure(a *matrix.Matrix) (*matrix.Matrix, error) {
	return matrix.Closure(a)
}

func (me *MatrixEngine) LStar(a, b *matrix.Matrix) (*matrix.Matrix, error) {
	return matrix.LStar(a, b)
}

func (me *MatrixEngine) RStar(a, b *matrix.Matrix) (*matrix.Matrix, error) {
	return matrix.RStar(a, b)
}

func (me *MatrixEngine) Nvals(m *matrix.Matrix) uint64 { return m.Nvals() }
