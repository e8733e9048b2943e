// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package campfire

import (
	"fmt"
	"net/http"
)

type expectKind int

const (
	expectSuccess expectKind = iota + 1
	expectRedirect
	expectRedirectTo
)

// Expectation is the condition a response must meet for an operation
// to count as successful.
type Expectation struct {
	kind     expectKind
	location string
}

var (
	// ExpectSuccess is met by status 200 exactly.
	ExpectSuccess = Expectation{kind: expectSuccess}

	// ExpectRedirect is met by any status in [300, 400).
	ExpectRedirect = Expectation{kind: expectRedirect}
)

// ExpectRedirectTo is met by a redirect whose Location header equals
// location.
func ExpectRedirectTo(location string) Expectation {
	return Expectation{kind: expectRedirectTo, location: location}
}

// Met reports whether a response with the given status code and
// Location header meets the expectation. The zero Expectation is never
// met.
func (e Expectation) Met(statusCode int, location string) bool {
	isRedirect := statusCode >= 300 && statusCode < 400
	switch e.kind {
	case expectSuccess:
		return statusCode == http.StatusOK
	case expectRedirect:
		return isRedirect
	case expectRedirectTo:
		return isRedirect && location == e.location
	default:
		return false
	}
}

func (e Expectation) String() string {
	switch e.kind {
	case expectSuccess:
		return "200"
	case expectRedirect:
		return "a redirect"
	case expectRedirectTo:
		return fmt.Sprintf("a redirect to %q", e.location)
	default:
		return "nothing"
	}
}

// Verify reports whether response meets expect.
func Verify(response *Response, expect Expectation) bool {
	if response == nil {
		return false
	}
	return expect.Met(response.StatusCode, response.Location)
}

// check returns a *ResponseError naming operation when response does
// not meet expect.
func check(operation string, response *Response, expect Expectation) error {
	if Verify(response, expect) {
		return nil
	}
	return &ResponseError{
		Operation:  operation,
		StatusCode: response.StatusCode,
		Location:   response.Location,
		Expected:   expect,
	}
}
