package hook

import (
	"errors"
	"fmt"
)

var (
	// ErrHookPathUnset indicates no hook index path was configured
	ErrHookPathUnset = errors.New("container hook path is not set")

	// ErrResponseMissing indicates the response artifact was gone after the hook ran
	ErrResponseMissing = errors.New("hook response file is missing")

	// ErrResponseEmpty indicates the hook exited without writing a response
	ErrResponseEmpty = errors.New("hook response is empty")

	// ErrNotImplemented indicates a lifecycle command with no implementation
	ErrNotImplemented = errors.New("hook command not implemented")
)

// ConfigurationError is returned when the hook cannot be located.
// It is raised before any process is spawned.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("hook configuration invalid: %v", e.Err)
	}
	return fmt.Sprintf("hook configuration invalid (%s): %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewConfigurationError creates a ConfigurationError
func NewConfigurationError(path string, err error) *ConfigurationError {
	return &ConfigurationError{Path: path, Err: err}
}

// ExecutionError wraps a non-success result from the hook process.
// Err is set when the process could not run at all (including cancellation).
type ExecutionError struct {
	Command  Command
	ExitCode int
	Output   string
	Err      error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hook %s failed: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("hook %s failed (exit %d)", e.Command, e.ExitCode)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// NewExecutionError creates an ExecutionError
func NewExecutionError(cmd Command, exitCode int, output string, err error) *ExecutionError {
	return &ExecutionError{
		Command:  cmd,
		ExitCode: exitCode,
		Output:   output,
		Err:      err,
	}
}

// ProtocolError indicates the hook broke the response contract: the
// artifact was missing, empty, or not a valid response document.
type ProtocolError struct {
	Path string
	Err  error
}

func (e *ProtocolError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("hook protocol violation: %v", e.Err)
	}
	return fmt.Sprintf("hook protocol violation (%s): %v", e.Path, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// NewProtocolError creates a ProtocolError
func NewProtocolError(path string, err error) *ProtocolError {
	return &ProtocolError{Path: path, Err: err}
}

// UnsupportedError is returned for lifecycle commands outside the
// capability set. It always unwraps to ErrNotImplemented.
type UnsupportedError struct {
	Command Command
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, ErrNotImplemented)
}

func (e *UnsupportedError) Unwrap() error {
	return ErrNotImplemented
}
