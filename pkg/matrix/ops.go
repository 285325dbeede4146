package matrix

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

func mismatch(op string, a, b *Matrix) error {
	return fmt.Errorf("%w: %s of %dx%d and %dx%d", ErrDimensionMismatch, op, a.nrows, a.ncols, b.nrows, b.ncols)
}

// composeRow returns the row vector v·b, or nil if it is empty.
func composeRow(v *bitset.BitSet, b *Matrix) *bitset.BitSet {
	var out *bitset.BitSet
	for k, ok := v.NextSet(0); ok; k, ok = v.NextSet(k + 1) {
		if k >= b.nrows || b.rows[k] == nil {
			continue
		}
		if out == nil {
			out = bitset.New(b.ncols)
		}
		out.InPlaceUnion(b.rows[k])
	}
	return out
}

// reach expands start along the edges of the square matrix a until no new
// columns appear, visiting each newly reached column once.
func reach(start *bitset.BitSet, a *Matrix) *bitset.BitSet {
	reached := start.Clone()
	frontier := start
	for frontier.Any() {
		next := composeRow(frontier, a)
		if next == nil {
			break
		}
		next.InPlaceDifference(reached)
		reached.InPlaceUnion(next)
		frontier = next
	}
	return reached
}

// Compose returns the boolean product a·b: (i, j) is set when some k has
// (i, k) in a and (k, j) in b.
func Compose(a, b *Matrix) (*Matrix, error) {
	if a.ncols != b.nrows {
		return nil, mismatch("compose", a, b)
	}

	out := New(a.nrows, b.ncols)
	for i, r := range a.rows {
		if r != nil {
			out.rows[i] = composeRow(r, b)
		}
	}
	return out, nil
}

// Union returns the element-wise OR of a and b.
func Union(a, b *Matrix) (*Matrix, error) {
	if a.nrows != b.nrows || a.ncols != b.ncols {
		return nil, mismatch("union", a, b)
	}

	out := a.Clone()
	for i, r := range b.rows {
		if r != nil {
			out.row(uint(i)).InPlaceUnion(r)
		}
	}
	return out, nil
}

// Closure returns the reflexive-transitive closure a*.
func Closure(a *Matrix) (*Matrix, error) {
	if a.nrows != a.ncols {
		return nil, mismatch("closure", a, a)
	}

	out := New(a.nrows, a.ncols)
	for i := range a.nrows {
		start := bitset.New(a.ncols)
		start.Set(i)
		out.rows[i] = reach(start, a)
	}
	return out, nil
}

// LStar returns a*·b without materializing a*.
func LStar(a, b *Matrix) (*Matrix, error) {
	if a.nrows != a.ncols {
		return nil, mismatch("closure", a, a)
	}
	if a.ncols != b.nrows {
		return nil, mismatch("compose", a, b)
	}

	out := New(a.nrows, b.ncols)
	for i := range a.nrows {
		start := bitset.New(a.ncols)
		start.Set(i)
		out.rows[i] = composeRow(reach(start, a), b)
	}
	return out, nil
}

// RStar returns a·b* without materializing b*.
func RStar(a, b *Matrix) (*Matrix, error) {
	if b.nrows != b.ncols {
		return nil, mismatch("closure", b, b)
	}
	if a.ncols != b.nrows {
		return nil, mismatch("compose", a, b)
	}

	out := New(a.nrows, b.ncols)
	for i, r := range a.rows {
		if r != nil && r.Any() {
			out.rows[i] = reach(r, b)
		}
	}
	return out, nil
}
