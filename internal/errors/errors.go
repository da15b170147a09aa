package errors

import (
	"errors"
	"fmt"
)

// Exit codes reported by the CLI. ExitUsage mirrors the conventional flag
// package behavior for bad invocations; every other failure is ExitFailure.
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Kind classifies a pipeline failure. Every failure is fatal; the kind only
// determines how it is reported and which exit code the process uses.
type Kind string

const (
	// KindArgument is an invalid invocation (bad flag value, unknown format).
	KindArgument Kind = "ARGUMENT"
	// KindDataSource is an unreachable store or a missing source table.
	KindDataSource Kind = "DATA_SOURCE"
	// KindMalformedRecord is a record whose trade side is neither BUY nor SELL.
	KindMalformedRecord Kind = "MALFORMED_RECORD"
	// KindWrite is an artifact destination that cannot be written.
	KindWrite Kind = "WRITE"
)

// PipelineError is a classified, fatal pipeline failure.
type PipelineError struct {
	Kind    Kind
	Message string
	Path    string // failing file path, when one exists
	Err     error  // wrapped cause, may be nil
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (path: %s)", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped cause for errors.Is/errors.As chains.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code for this failure.
func (e *PipelineError) ExitCode() int {
	if e.Kind == KindArgument {
		return ExitUsage
	}
	return ExitFailure
}

// NewArgument creates an ArgumentError for an invalid invocation.
func NewArgument(message string) *PipelineError {
	return &PipelineError{Kind: KindArgument, Message: message}
}

// NewArgumentf creates an ArgumentError with a formatted message.
func NewArgumentf(format string, args ...any) *PipelineError {
	return &PipelineError{Kind: KindArgument, Message: fmt.Sprintf(format, args...)}
}

// NewDataSource creates a DataSourceError wrapping the store failure.
func NewDataSource(message string, path string, err error) *PipelineError {
	return &PipelineError{Kind: KindDataSource, Message: message, Path: path, Err: err}
}

// NewMalformedRecord creates a MalformedRecordError naming the bad value.
func NewMalformedRecord(message string, err error) *PipelineError {
	return &PipelineError{Kind: KindMalformedRecord, Message: message, Err: err}
}

// NewWrite creates a WriteError carrying the failing artifact path.
func NewWrite(message string, path string, err error) *PipelineError {
	return &PipelineError{Kind: KindWrite, Message: message, Path: path, Err: err}
}

// KindOf extracts the failure kind from an error chain.
func KindOf(err error) (Kind, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}

// ExitCodeFor maps an error chain to a process exit code. Unclassified errors
// exit with ExitFailure.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.ExitCode()
	}
	return ExitFailure
}
