package plan

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownLabel is matched by errors.Is for any UnknownLabelError.
	ErrUnknownLabel = errors.New("unknown label")

	// ErrUnsupported is matched by errors.Is for any UnsupportedError.
	ErrUnsupported = errors.New("unsupported query")
)

// UnknownLabelError occurs when a pattern references a label for which the
// graph has no size estimate.
type UnknownLabelError struct {
	Label string
}

func (err *UnknownLabelError) Error() string {
	return fmt.Sprintf("no such label: %s", err.Label)
}

func (err *UnknownLabelError) Is(target error) bool {
	return target == ErrUnknownLabel
}

// UnsupportedError occurs when a query uses a construct that cannot be
// lowered to a plan.
type UnsupportedError struct {
	Reason string
}

func (err *UnsupportedError) Error() string {
	return "unsupported query: " + err.Reason
}

func (err *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}
