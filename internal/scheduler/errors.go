package scheduler

import (
	"errors"
	"fmt"
)

// ErrUnknownAction is returned when a node's action_type has no
// registered NodeDefine or Runner.
var ErrUnknownAction = errors.New("scheduler: unknown action type")

// UnknownActionError names the offending node and action type.
type UnknownActionError struct {
	NodeID     string
	ActionType string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("scheduler: node %q: %s %q", e.NodeID, ErrUnknownAction, e.ActionType)
}

func (e *UnknownActionError) Unwrap() error { return ErrUnknownAction }

// RunnerFailureError wraps a node's terminal runner failure, after its
// retry policy is exhausted.
type RunnerFailureError struct {
	NodeID string
	Err    error
}

func (e *RunnerFailureError) Error() string {
	return fmt.Sprintf("scheduler: node %q: runner failed: %v", e.NodeID, e.Err)
}

func (e *RunnerFailureError) Unwrap() error { return e.Err }

// ConditionEvalFailureError wraps a syntax/type error from the
// condition evaluator (distinct from a well-formed false result, which
// is a skip, not an error).
type ConditionEvalFailureError struct {
	NodeID string
	Err    error
}

func (e *ConditionEvalFailureError) Error() string {
	return fmt.Sprintf("scheduler: node %q: condition evaluation failed: %v", e.NodeID, e.Err)
}

func (e *ConditionEvalFailureError) Unwrap() error { return e.Err }
