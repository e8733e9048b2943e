// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the pinder
// binary and library.
//
// Four package-level variables are injected at build time via
// -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [GitDirty] -- "true" if there were uncommitted changes
//   - [BuildTime] -- UTC timestamp of the build
//   - [Version] -- semantic version string (set manually for releases)
//
// These default to "unknown" / "0.1.0-dev" when not injected, which
// occurs during development builds and test runs.
//
// [UserAgent] is the value the chat client sends on every request
// ("Pinder/0.1.0-dev"). The service does not inspect it, but operators
// reading server logs can tell library versions apart.
package version
