// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package sessionstore persists chat sessions between CLI invocations
// so a logged-in cookie and the polling cursors of joined rooms survive
// process exit.
//
// Each session is one file in a private (0700) directory. The file
// name is a BLAKE3 keyed hash of the account and email ([Key]), so one
// directory holds sessions for several accounts without leaking which
// accounts they are. The contents are the CBOR encoding (lib/codec) of
// whatever value the caller saves, typically a campfire.SessionState.
//
// When the store has a passphrase, files are encrypted with age using
// an scrypt passphrase recipient. Without one, files are plaintext CBOR
// readable only by the owner (0600). Load detects the format from the
// file header, so a store can read files written in either mode; an
// encrypted file loaded without a passphrase fails with
// [ErrPassphraseRequired].
//
// Writes are atomic: a temporary file in the same directory is
// written, synced and renamed over the old file.
package sessionstore
