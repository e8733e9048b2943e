// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/pinder-chat/pinder/campfire"
)

// ErrorCategory classifies command errors so that scripts can make
// decisions (retry, fix input, log in again) without parsing error text.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid input:
	// missing required arguments, unparseable dates, unknown formats.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced room or file does not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden indicates the service refused the operation,
	// usually because the session is not logged in or lacks rights.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryConflict indicates the operation conflicts with existing
	// state, such as creating a room whose name is taken.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryTransient indicates a temporary failure: network error,
	// timeout, server error. The caller should back off and retry.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected error: bugs, I/O
	// failures, markup the scraper does not understand.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error returned by CLI commands. It wraps an
// inner error, preserving the chain for errors.Is and errors.As. Use the
// category-specific constructors rather than constructing it directly.
type ToolError struct {
	// Category classifies the error for programmatic handling.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error
}

// Error returns the underlying error message. The category travels
// separately in --json error output.
func (e *ToolError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error.
func (e *ToolError) Unwrap() error { return e.Err }

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced resource does not exist.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error: the caller lacks permission.
func Forbidden(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error: the operation conflicts with existing state.
func Conflict(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error: a temporary failure that may succeed on retry.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or I/O error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// Classify wraps err in a ToolError chosen from what the error chain
// says about the failure. Errors that are already ToolErrors (or
// ExitErrors) are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var toolError *ToolError
	var exitError *ExitError
	if errors.As(err, &toolError) || errors.As(err, &exitError) {
		return err
	}

	category := CategoryInternal
	var responseError *campfire.ResponseError
	var netError net.Error
	switch {
	case errors.Is(err, campfire.ErrRoomNotFound):
		category = CategoryNotFound
	case errors.Is(err, campfire.ErrNotJoined), errors.Is(err, campfire.ErrSessionMismatch):
		category = CategoryValidation
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netError):
		category = CategoryTransient
	case errors.As(err, &responseError):
		switch {
		case responseError.StatusCode >= 500:
			category = CategoryTransient
		case responseError.StatusCode == 404:
			category = CategoryNotFound
		default:
			// Campfire answers an unauthenticated request with a
			// redirect to the login page or a 401/403.
			category = CategoryForbidden
		}
	}
	return &ToolError{Category: category, Err: err}
}
