// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds account passwords and session-store passphrases
// outside the Go heap.
//
// A Buffer is an anonymous mmap region locked into RAM (mlock) and
// excluded from core dumps (MADV_DONTDUMP). Close zeroes, unlocks and
// unmaps it. The garbage collector never sees the memory, so a password
// typed at the login prompt does not linger in a heap page after the
// login request is sent.
//
// String copies onto the heap and is meant only for the single boundary
// where a library needs a string (form encoding, age passphrases).
package secret
