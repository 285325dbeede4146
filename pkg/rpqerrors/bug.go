// Package rpqerrors holds the error helpers shared by the plan and e-graph
// packages.
package rpqerrors

import (
	"errors"
	"fmt"
	"testing"
)

// ErrBug marks errors caused by a broken internal invariant rather than by
// bad input.
var ErrBug = errors.New("BUG")

// MustBugf reports a broken invariant, such as a class that lost its cost
// during extraction. Test binaries panic so the failure cannot be swallowed;
// everything else gets an error wrapping ErrBug.
func MustBugf(format string, args ...any) error {
	err := fmt.Errorf("%w: %s", ErrBug, fmt.Sprintf(format, args...))
	if testing.Testing() {
		panic(err.Error())
	}
	return err
}

// MustPanic panics with a formatted message. It is reserved for states the
// caller cannot recover from.
func MustPanic(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}
