// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package chat is the full-screen chat view behind "pinder chat". A
// bubbletea program shows a room's messages in a scrolling viewport
// above a single-line input. Messages are polled on a timer, presence
// is renewed once per [campfire.PresenceWindow], and log records are
// routed into the status line through [LogHandler] so they do not
// tear the alternate screen.
//
// Lines typed into the input are spoken. "/paste text" sends text as
// a paste and "/quit" leaves.
package chat
