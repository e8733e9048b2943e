// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive writes and reads self-verifying transcript archives.
//
// An archive is one [Transcript] encoded as deterministic CBOR
// (lib/codec), optionally compressed, behind a fixed 45-byte header:
//
//	offset  size  field
//	0       8     magic "PNDRARC1"
//	8       1     compression tag (0 none, 1 lz4 block, 2 zstd)
//	9       4     uncompressed payload size, big endian
//	13      32    BLAKE3 keyed digest of the uncompressed payload
//	45      ...   payload
//
// Decode rejects archives whose magic, tag, size or digest do not
// match. When compression would not shrink the payload, Encode stores
// it uncompressed and records tag 0.
package archive
