// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the pinder command tree.
//
// Every command that talks to an account embeds accountParams, which
// carries --config, --profile and the per-account overrides. The
// account is resolved from the config file (or flags alone), its saved
// session is loaded from the session store, and after the command runs
// the session (cookies plus the polling cursors of rooms the command
// touched) is written back. A second invocation therefore resumes the
// login and, for tail and chat, the message cursor.
package commands
