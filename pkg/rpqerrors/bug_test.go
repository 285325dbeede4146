package rpqerrors

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMustBugfPanicsUnderTest(t *testing.T) {
	require.PanicsWithValue(t, "BUG: class 3 has no cost", func() {
		_ = MustBugf("class %d has no cost", 3)
	})
}

func TestMustPanic(t *testing.T) {
	require.PanicsWithValue(t, "bad class 7", func() {
		MustPanic("bad class %d", 7)
	})
}
