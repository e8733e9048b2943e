// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the pinder CLI.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], flags bound from a params struct
// (see [BindFlags]) or a [pflag.FlagSet] factory, and a Run function.
// Commands are assembled into a tree by cmd/pinder/commands and
// dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3).
//
// Errors returned by commands are classified with [ToolError] so scripts
// driving the CLI with --json can tell bad input from a missing room or
// a flaky network. [ExitError] carries an exit code for commands that
// have already printed their own output.
package cli
