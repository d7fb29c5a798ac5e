// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types and exit codes shared by the CLI commands.
//
// Handlers return errors and let the caller decide how to display them;
// the exit code is derived from the error with GetExitCode.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jeranaias/docildos/internal/config"
	"github.com/jeranaias/docildos/internal/errmap"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates a configuration file or settings error
	ExitConfigError = 3
	// ExitNetworkError indicates the backend could not be reached
	ExitNetworkError = 5
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
	// ExitServerError indicates the backend answered with a 5xx
	ExitServerError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "ask", "serve")
	Action  string // Action being performed (e.g., "dispatch", "listen")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure for user input.
type ValidationError struct {
	Field   string
	Value   string
	Reason  string
	Example string // optional
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// NotFoundError represents a missing resource, such as an unknown config key.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewCommandError creates a new command error.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{Command: command, Action: action, Reason: reason, Err: err}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, value, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// NewValidationErrorWithExample creates a validation error with an example.
func NewValidationErrorWithExample(field, value, reason, example string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason, Example: example}
}

// ErrMissingArgument creates an error for a missing required argument.
func ErrMissingArgument(argName, usage string) error {
	return &ValidationError{
		Field:   argName,
		Reason:  "required argument missing",
		Example: usage,
	}
}

// =============================================================================
// DISPLAY
// =============================================================================

// DisplayError writes err to w, as a JSON error response in JSON mode.
func DisplayError(w io.Writer, command string, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		_ = NewJSONErrorResponse(command, err).Write(w)
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERRO]"), err.Error())
}

// HandleErrorAndExit displays err on stderr (stdout in JSON mode) and exits
// with the code GetExitCode picks.
func HandleErrorAndExit(command string, err error, jsonMode bool) {
	if err == nil {
		return
	}
	w := io.Writer(os.Stderr)
	if jsonMode {
		w = os.Stdout
	}
	DisplayError(w, command, err, jsonMode)
	os.Exit(GetExitCode(err))
}

// GetExitCode determines the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return ExitUsageError
	}
	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) {
		return ExitNotFoundError
	}
	var configErrs config.ValidationErrors
	if errors.As(err, &configErrs) {
		return ExitConfigError
	}
	if code, ok := dispatchExitCode(err); ok {
		return code
	}

	switch errmap.Classify(err) {
	case errmap.KindNetwork:
		return ExitNetworkError
	case errmap.KindServer:
		return ExitServerError
	case errmap.KindClient:
		return ExitUsageError
	}
	return ExitGeneralError
}

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// errorDetails is the JSON shape of a structured error, used by --json
// output in place of a bare message.
func errorDetails(err error) map[string]any {
	out := map[string]any{"error_type": "generic_error"}
	switch e := err.(type) {
	case *CommandError:
		out["error_type"] = "command_error"
		out["command"] = e.Command
		out["action"] = e.Action
		out["reason"] = e.Reason
	case *ValidationError:
		out["error_type"] = "validation_error"
		out["field"] = e.Field
		out["value"] = e.Value
	case *NotFoundError:
		out["error_type"] = "not_found_error"
		out["resource"] = e.Resource
		out["id"] = e.ID
	case *DispatchError:
		out["error_type"] = e.Notice.Kind.String() + "_error"
		if e.Notice.Toast != "" {
			out["hint"] = e.Notice.Toast
		}
	default:
		if kind := errmap.Classify(err); kind != errmap.KindUnknown {
			out["error_type"] = kind.String() + "_error"
		}
	}
	return out
}
