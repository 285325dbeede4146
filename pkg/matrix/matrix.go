package matrix

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// ErrDimensionMismatch is returned when the shapes of the operands of an
// operation are incompatible.
var ErrDimensionMismatch = errors.New("matrix dimension mismatch")

// ErrOutOfRange is returned when an entry lies outside the matrix.
var ErrOutOfRange = errors.New("matrix index out of range")

// Matrix is a sparse boolean matrix stored as one bitset per non-empty row.
// Matrices are immutable once built by an operation and are safe to share
// between goroutines for reading.
type Matrix struct {
	nrows, ncols uint
	rows         []*bitset.BitSet
}

// New returns an empty nrows by ncols matrix.
func New(nrows, ncols uint) *Matrix {
	return &Matrix{nrows: nrows, ncols: ncols, rows: make([]*bitset.BitSet, nrows)}
}

// Identity returns the n by n identity matrix.
func Identity(n uint) *Matrix {
	m := New(n, n)
	for i := range n {
		m.row(i).Set(i)
	}
	return m
}

// Selector returns an n by n matrix whose only entry is (idx, idx). Composing
// with it restricts a path to start or end at vertex idx.
func Selector(n, idx uint) (*Matrix, error) {
	m := New(n, n)
	if err := m.Set(idx, idx); err != nil {
		return nil, err
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() uint { return m.nrows }

// Cols returns the number of columns.
func (m *Matrix) Cols() uint { return m.ncols }

func (m *Matrix) row(i uint) *bitset.BitSet {
	if m.rows[i] == nil {
		m.rows[i] = bitset.New(m.ncols)
	}
	return m.rows[i]
}

// Set adds the entry (i, j).
func (m *Matrix) Set(i, j uint) error {
	if i >= m.nrows || j >= m.ncols {
		return fmt.Errorf("%w: (%d, %d) in a %dx%d matrix", ErrOutOfRange, i, j, m.nrows, m.ncols)
	}
	m.row(i).Set(j)
	return nil
}

// Get returns true if the entry (i, j) is present.
func (m *Matrix) Get(i, j uint) bool {
	if i >= m.nrows || m.rows[i] == nil {
		return false
	}
	return m.rows[i].Test(j)
}

// Nvals returns the number of entries.
func (m *Matrix) Nvals() uint64 {
	var n uint64
	for _, r := range m.rows {
		if r != nil {
			n += uint64(r.Count())
		}
	}
	return n
}

// Clone returns a deep copy of the matrix.
func (m *Matrix) Clone() *Matrix {
	out := New(m.nrows, m.ncols)
	for i, r := range m.rows {
		if r != nil {
			out.rows[i] = r.Clone()
		}
	}
	return out
}

// Grow returns a copy of the matrix with nrows rows and ncols columns. New
// rows and columns are empty.
func (m *Matrix) Grow(nrows, ncols uint) (*Matrix, error) {
	if nrows < m.nrows || ncols < m.ncols {
		return nil, fmt.Errorf("%w: cannot shrink a %dx%d matrix to %dx%d", ErrDimensionMismatch, m.nrows, m.ncols, nrows, ncols)
	}

	out := New(nrows, ncols)
	for i, r := range m.rows {
		if r != nil {
			out.row(uint(i)).InPlaceUnion(r)
		}
	}
	return out, nil
}

// Equal returns true if both matrices have the same shape and entries.
func (m *Matrix) Equal(other *Matrix) bool {
	if m.nrows != other.nrows || m.ncols != other.ncols {
		return false
	}
	for i := range m.rows {
		a, b := m.rows[i], other.rows[i]
		switch {
		case a == nil && b == nil:
			continue
		case a == nil:
			if b.Any() {
				return false
			}
		case b == nil:
			if a.Any() {
				return false
			}
		case !a.Equal(b):
			return false
		}
	}
	return true
}

// Each calls fn for every entry in row-major order.
func (m *Matrix) Each(fn func(i, j uint)) {
	for i, r := range m.rows {
		if r == nil {
			continue
		}
		for j, ok := r.NextSet(0); ok; j, ok = r.NextSet(j + 1) {
			fn(uint(i), j)
		}
	}
}

func (m *Matrix) String() string {
	return fmt.Sprintf("%dx%d matrix with %d entries", m.nrows, m.ncols, m.Nvals())
}
