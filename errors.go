package smoke

import (
	"errors"
	"fmt"
)

// RuntimeError represents an operational error such as a configuration
// problem, as opposed to a step failure against the backend
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// NewRuntimeError creates a new RuntimeError
func NewRuntimeError(err error) *RuntimeError {
	return &RuntimeError{Err: err}
}

// IsRuntimeError checks if the error is or wraps a RuntimeError
func IsRuntimeError(err error) bool {
	var runtimeErr *RuntimeError
	return err != nil && errors.As(err, &runtimeErr)
}

// StepFailureError represents a fatal step failing against the backend
type StepFailureError struct {
	Message string
}

func (e *StepFailureError) Error() string {
	return fmt.Sprintf("step failure: %s", e.Message)
}

// NewStepFailureError creates a new StepFailureError
func NewStepFailureError(message string) *StepFailureError {
	return &StepFailureError{Message: message}
}

// IsStepFailureError checks if the error is or wraps a StepFailureError
func IsStepFailureError(err error) bool {
	var stepErr *StepFailureError
	return err != nil && errors.As(err, &stepErr)
}

// InterruptedError signals that the run was cut short by a process-level
// interrupt. Its message is shown to the operator.
type InterruptedError struct{}

func (e *InterruptedError) Error() string {
	return "smoke run interrupted by user"
}

// IsInterruptedError checks if the error is or wraps an InterruptedError
func IsInterruptedError(err error) bool {
	var intErr *InterruptedError
	return err != nil && errors.As(err, &intErr)
}
