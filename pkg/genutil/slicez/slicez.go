// Package slicez contains small generic slice helpers missing from the
// standard slices package.
package slicez

import "slices"

// Filter returns a copy of xs holding only the elements pred accepts. The
// input is left untouched.
func Filter[T any, Slice ~[]T](xs Slice, pred func(T) bool) Slice {
	return slices.DeleteFunc(slices.Clone(xs), func(x T) bool { return !pred(x) })
}

// Map returns fn applied to every element of xs.
func Map[T, R any](xs []T, fn func(T) R) []R {
	out := make([]R, 0, len(xs))
	for _, x := range xs {
		out = append(out, fn(x))
	}
	return out
}

// Unique drops repeated elements, keeping the first occurrence of each in
// its original position.
func Unique[T comparable, Slice ~[]T](xs Slice) Slice {
	seen := make(map[T]struct{}, len(xs))
	return Filter(xs, func(x T) bool {
		if _, dup := seen[x]; dup {
			return false
		}
		seen[x] = struct{}{}
		return true
	})
}
