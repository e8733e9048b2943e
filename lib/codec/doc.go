// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Pinder's standard CBOR encoding configuration.
//
// Pinder uses two serialization formats with a clear boundary:
//
//   - JSON for external interfaces: CLI --json output and the
//     configuration file's JSONC form.
//   - CBOR for files Pinder writes for itself: saved sessions
//     (lib/sessionstore) and transcript archives (lib/archive).
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items, so
// the same logical data always produces identical bytes. Archive
// digests depend on that. Times encode as RFC 3339 text.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// [Diagnose] renders encoded data in diagnostic notation for
// "pinder archive show --format diag".
//
// # Struct Tag Rules
//
// A `cbor` tag marks a type that is only ever CBOR. A `json` tag marks a
// type that may be either: fxamacker/cbor reads `json` tags when `cbor`
// tags are absent, so one tag controls naming for both formats. Never
// put both on the same field.
package codec
