// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package render formats chat messages and transcripts for people.
//
// [Renderer] produces terminal lines: the author's name in a stable
// per-person color, the body word-wrapped under it, and multi-line
// bodies (pastes) syntax highlighted with chroma when the language can
// be guessed. Colors are emitted only when the renderer is built with
// Color set, so piped output stays plain.
//
// [TranscriptMarkdown] and [TranscriptHTML] export a day's transcript;
// the HTML is the Markdown rendered by goldmark.
package render
