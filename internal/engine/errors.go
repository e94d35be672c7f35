package engine

import (
	"errors"
	"fmt"
)

// QueryError is an error raised while interpreting a query.
//
// The Kind names the phase that failed:
//   - VALIDATION: space mismatch between operands, incompatible operand
//     types, unsupported shape arity, unimplemented shape or projection
//   - PREDICTION: unknown space, unsupported shape
//   - EXECUTION: store failures, unknown space, unsupported shape,
//     unimplemented feature
//
// Errors are fail-fast: the first one aborts the whole interpretation.
type QueryError struct {
	// Kind identifies the failing phase.
	Kind ErrorKind

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorKind categorizes query errors.
type ErrorKind string

const (
	// ErrKindValidation indicates the query failed type checking.
	ErrKindValidation ErrorKind = "VALIDATION"

	// ErrKindPrediction indicates the cost estimate could not be computed.
	ErrKindPrediction ErrorKind = "PREDICTION"

	// ErrKindExecution indicates the query could not be executed.
	ErrKindExecution ErrorKind = "EXECUTION"
)

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// IsValidationError returns true if the error is a validation error.
// Uses errors.As to handle wrapped errors.
func IsValidationError(err error) bool {
	return hasKind(err, ErrKindValidation)
}

// IsPredictionError returns true if the error is a prediction error.
func IsPredictionError(err error) bool {
	return hasKind(err, ErrKindPrediction)
}

// IsExecutionError returns true if the error is an execution error.
func IsExecutionError(err error) bool {
	return hasKind(err, ErrKindExecution)
}

func hasKind(err error, kind ErrorKind) bool {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Kind == kind
	}
	return false
}

func newError(kind ErrorKind, format string, args ...any) *QueryError {
	return &QueryError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wrapError attaches kind to err. Errors that are already QueryErrors pass
// through unchanged, keeping the kind of the phase that raised them.
func wrapError(kind ErrorKind, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var qe *QueryError
	if errors.As(err, &qe) {
		return err
	}
	return &QueryError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}
