package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Process exit codes.
const (
	ExitSuccess      = 0 // query ran, scenarios passed
	ExitFailure      = 1 // query rejected by the engine, or a scenario failed
	ExitCommandError = 2 // unusable input: paths, documents, datasets, flags
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError returns an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError returns an ExitError caused by err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the exit code carried by err, or ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the envelope of every --format json answer.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error part of a CLIResponse.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OutputFormatter writes command results as text or as a JSON envelope.
// Results go to Writer; engine logs and verbose diagnostics go to Diag so
// that JSON output stays parseable.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	Diag    io.Writer
	Verbose bool
}

func (f *OutputFormatter) json() bool { return f.Format == "json" }

// Emit writes data as the JSON envelope, or calls text in text mode.
func (f *OutputFormatter) Emit(data any, text func(w io.Writer) error) error {
	if f.json() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	return text(f.Writer)
}

// Fail reports a coded error and returns its exit error.
func (f *OutputFormatter) Fail(ce *codedError) error {
	msg := ce.err.Error()
	if f.json() {
		resp := CLIResponse{Status: "error", Error: &CLIError{Code: ce.code, Message: msg}}
		if err := json.NewEncoder(f.Writer).Encode(resp); err != nil {
			return err
		}
		return ce.err
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", ce.code, msg)
	return ce.err
}

// Logger returns a text logger on Diag: warnings only, or down to debug in
// verbose mode.
func (f *OutputFormatter) Logger() *slog.Logger {
	w := f.Diag
	if w == nil {
		w = io.Discard
	}
	level := slog.LevelWarn
	if f.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
