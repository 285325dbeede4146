package eval

import (
	"errors"
	"fmt"

	"github.com/authzed/rpqplan/pkg/plan"
)

// ErrEval matches every error returned by the engine during evaluation.
var ErrEval = errors.New("evaluation failed")

// EvalError is returned when the engine fails on a plan node.
type EvalError struct {
	Node plan.ID
	Op   plan.Op
	Err  error
}

func (err *EvalError) Error() string {
	return fmt.Sprintf("evaluating %s node %d: %s", err.Op, err.Node, err.Err)
}

func (err *EvalError) Unwrap() error { return err.Err }

func (err *EvalError) Is(target error) bool { return target == ErrEval }

func errUnknownOp(op plan.Op) error {
	return fmt.Errorf("unknown operator %s", op)
}
