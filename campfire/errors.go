// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package campfire

import (
	"errors"
	"fmt"
)

// ResponseError reports a response that did not meet the expectation of
// the operation that issued it. The service returns no structured
// errors, so the status code and redirect target are all there is.
// Callers can use errors.As to extract it:
//
//	var responseErr *ResponseError
//	if errors.As(err, &responseErr) && responseErr.StatusCode == http.StatusForbidden { ... }
type ResponseError struct {
	// Operation names the failed operation (e.g., "login", "lock room 42").
	Operation string
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// Location is the Location header of the response, if any.
	Location string
	// Expected describes what the operation needed.
	Expected Expectation
}

func (e *ResponseError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("campfire: %s: got %d (location %q), expected %s",
			e.Operation, e.StatusCode, e.Location, e.Expected)
	}
	return fmt.Sprintf("campfire: %s: got %d, expected %s", e.Operation, e.StatusCode, e.Expected)
}

// IsResponseError reports whether err is a *ResponseError with the
// given status code. A zero statusCode matches any ResponseError.
func IsResponseError(err error, statusCode int) bool {
	var responseErr *ResponseError
	if errors.As(err, &responseErr) {
		return statusCode == 0 || responseErr.StatusCode == statusCode
	}
	return false
}

var (
	// ErrRoomNotFound is returned when no lobby entry matches a room
	// name, or the matching entry carries no link to the room.
	ErrRoomNotFound = errors.New("campfire: room not found")

	// ErrNotJoined is returned by operations that need the polling
	// variables of a joined room.
	ErrNotJoined = errors.New("campfire: room not joined")

	// ErrSessionMismatch is returned by Restore when a saved session
	// belongs to a different account URI.
	ErrSessionMismatch = errors.New("campfire: saved session belongs to a different account")
)
