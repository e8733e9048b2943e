// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
)

// DefaultTimeout is the per-request timeout of clients built by
// NewHTTPClient when none is given.
const DefaultTimeout = 5 * time.Second

// NewHTTPClient returns an http.Client that never follows redirects
// and transparently decompresses gzip responses. A non-positive
// timeout selects DefaultTimeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Transport: gzhttp.Transport(http.DefaultTransport),
		Timeout:   timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
