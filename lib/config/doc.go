// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the pinder CLI.
//
// Configuration is loaded from a single file specified by either the
// PINDER_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no ~/.config discovery and no automatic
// file search. The file is YAML; a file ending in .json or .jsonc is
// read as JSON with comments and trailing commas.
//
// Accounts are described by named profiles. The defaults section
// supplies base values and each entry under profiles overrides them,
// so several accounts can share an email, a password file or a
// timeout. [Config.Resolve] merges the two into a [Profile].
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${PINDER_ROOT}, and ${VAR:-default} patterns are expanded.
// No other environment variables override config values.
//
// Key exports:
//
//   - [Config] -- the file: defaults, profiles, paths, chat settings
//   - [Default] -- a Config with default paths and chat settings
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Profile] -- one resolved account
//
// This package depends on no other Pinder packages.
package config
