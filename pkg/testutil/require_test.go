package testutil

import "testing"

func TestRequireEqualEmptyNil(t *testing.T) {
	t.Parallel()
	RequireEqualEmptyNil(t, []string(nil), []string{})
	RequireEqualEmptyNil(t, map[string]int{}, map[string]int(nil))
	RequireEqualEmptyNil(t, []int{1, 2}, []int{1, 2})
}
