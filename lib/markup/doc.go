// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package markup extracts structured data from the chat service's
// server-rendered pages. The service has no JSON API: room lists, user
// lists, topics, guest links and transcripts exist only as HTML, and
// new messages arrive as JavaScript-escaped HTML fragments inside a
// script response.
//
// Every function here is pure: it takes a response body and returns
// values, never performing I/O. HTML documents are walked with
// golang.org/x/net/html; inline script variables and the escaped poll
// fragments, which are not DOM content, are matched with regular
// expressions.
//
// The scrapers are tolerant: entries missing a required part (a
// transcript link without a date, a poll line without a body cell) are
// skipped rather than failing the whole page. [ParseRoomPage] is the
// exception, because a room without its polling cursors cannot be used.
package markup
