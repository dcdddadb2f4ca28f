package errors

import (
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// Error types for better error handling and user feedback

// ToolError represents a required executable or SDK that could not be
// located after exhausting every detection strategy.
type ToolError struct {
	Tool    string
	Message string
	Hint    string
}

func (e *ToolError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s\nHint: %s", e.Tool, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Tool, e.Message)
}

// NewToolError creates a new tool error
func NewToolError(tool, message, hint string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Hint: hint}
}

// SubprocessError represents an invoked external tool exiting non-zero.
// The literal exit code is preserved and the call is never retried.
type SubprocessError struct {
	Tool     string
	ExitCode int
	Output   string // tail of captured stdout/stderr
	Cause    error
}

func (e *SubprocessError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

func (e *SubprocessError) Unwrap() error {
	return e.Cause
}

// NewSubprocessError wraps a failed exec.Cmd run, extracting the process
// exit code when available (-1 when the process never started).
func NewSubprocessError(tool string, err error, output string) *SubprocessError {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &SubprocessError{Tool: tool, ExitCode: code, Output: TailLines(output, 20), Cause: err}
}

// PackagingError represents a failed mobile package assembly step
// (AAR/HAR). It is recoverable: the native libraries and their archive
// remain valid without the package.
type PackagingError struct {
	Platform string
	Tool     string
	Recovery string // manual command to retry packaging
	Cause    error
}

func (e *PackagingError) Error() string {
	msg := fmt.Sprintf("%s packaging failed on %s", e.Tool, e.Platform)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.Recovery != "" {
		msg += fmt.Sprintf("\nRetry manually with: %s", e.Recovery)
	}
	return msg
}

func (e *PackagingError) Unwrap() error {
	return e.Cause
}

// NewPackagingError creates a new packaging error
func NewPackagingError(platform, tool, recovery string, cause error) *PackagingError {
	return &PackagingError{Platform: platform, Tool: tool, Recovery: recovery, Cause: cause}
}

// ContainerError represents container infrastructure failures
// (CLI missing, daemon unreachable, image resolution failed).
type ContainerError struct {
	Stage   string // cli, daemon, image, run, artifacts
	Message string
	Hint    string
}

func (e *ContainerError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("container %s: %s\nHint: %s", e.Stage, e.Message, e.Hint)
	}
	return fmt.Sprintf("container %s: %s", e.Stage, e.Message)
}

// NewContainerError creates a new container error
func NewContainerError(stage, message, hint string) *ContainerError {
	return &ContainerError{Stage: stage, Message: message, Hint: hint}
}

// AggregateError collects per-platform failures from a multi-platform
// run. It surfaces only after every sibling platform has finished.
type AggregateError struct {
	Failures map[string]error
}

func (e *AggregateError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for name := range e.Failures {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%d platform build(s) failed: %s", len(names), strings.Join(names, ", "))
}

// NewAggregateError creates an aggregate error from collected failures.
// Returns nil if no failures were recorded.
func NewAggregateError(failures map[string]error) error {
	if len(failures) == 0 {
		return nil
	}
	return &AggregateError{Failures: failures}
}

// IsToolError checks if error is a missing-tool error
func IsToolError(err error) bool {
	var toolErr *ToolError
	return errors.As(err, &toolErr)
}

// IsSubprocessError checks if error is a subprocess failure
func IsSubprocessError(err error) bool {
	var procErr *SubprocessError
	return errors.As(err, &procErr)
}

// IsPackagingError checks if error is a recoverable packaging failure
func IsPackagingError(err error) bool {
	var pkgErr *PackagingError
	return errors.As(err, &pkgErr)
}

// IsContainerError checks if error is a container infrastructure error
func IsContainerError(err error) bool {
	var ctErr *ContainerError
	return errors.As(err, &ctErr)
}

// ExitCode returns the subprocess exit code carried by err, or -1.
func ExitCode(err error) int {
	var procErr *SubprocessError
	if errors.As(err, &procErr) {
		return procErr.ExitCode
	}
	return -1
}

// TailLines returns the last n lines of s.
func TailLines(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
