package interview

import (
	"errors"
	"fmt"

	"github.com/abhisek/interviewz/internal/evaluation"
)

var (
	// ErrInvalidTransition means the operation is not allowed in the
	// current state. The session is left untouched.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrCompletionFailure means the text-generation call failed or
	// returned nothing usable. It is never retried internally.
	ErrCompletionFailure = errors.New("completion failure")

	// ErrMalformedEvaluation means the grading reply could not be parsed.
	// The session stays in StateConcluding so grading can be retried.
	ErrMalformedEvaluation = evaluation.ErrMalformed

	// ErrConfiguration means a setting or the category is missing or
	// invalid.
	ErrConfiguration = errors.New("invalid configuration")
)

// TransitionError reports an operation attempted in the wrong state.
type TransitionError struct {
	Op     string
	State  State
	Reason string
}

func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s not allowed in state %s", e.Op, e.State)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// CompletionError wraps a failed completion for one turn of the interview.
type CompletionError struct {
	Turn string
	Err  error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("%s turn: %v: %v", e.Turn, ErrCompletionFailure, e.Err)
}

func (e *CompletionError) Is(target error) bool { return target == ErrCompletionFailure }

func (e *CompletionError) Unwrap() error { return e.Err }

// ConfigError names the setting that is invalid.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrConfiguration, e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

// errStaleDeadline is returned internally when a deadline fires after the
// question it was armed for has already been answered.
var errStaleDeadline = errors.New("stale deadline")

func resetError(op string) error {
	return &TransitionError{Op: op, State: StateIdle, Reason: "session was reset while the request was in flight"}
}
