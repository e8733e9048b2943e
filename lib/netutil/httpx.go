// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides the HTTP plumbing shared by the chat client
// and the CLI.
//
// [NewHTTPClient] builds the client the chat session uses: redirects
// are returned to the caller instead of followed (a redirect and its
// Location header are how the service reports a successful login or
// logout), responses are transparently decompressed by the gzhttp
// transport, and every request is bounded by a timeout.
//
// [ReadResponse] bounds body reads at [MaxResponseSize]
// so a misbehaving server cannot exhaust memory.
package netutil

import (
	"io"
)

// MaxResponseSize bounds response body reads: 64 MB. Lobby pages,
// transcripts and poll fragments are orders of magnitude smaller.
const MaxResponseSize int64 = 64 << 20

// ReadResponse reads a response body up to MaxResponseSize bytes.
// Use instead of io.ReadAll when reading HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}
