// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"

	"github.com/pinder-chat/pinder/lib/codec"
	"github.com/pinder-chat/pinder/lib/markup"
)

// Transcript is the archived content: one room's messages for one day.
type Transcript struct {
	RoomID   string           `json:"room_id"`
	RoomName string           `json:"room_name,omitempty"`
	Date     time.Time        `json:"date"`
	Messages []markup.Message `json:"messages"`
}

// CompressionTag identifies the payload compression. The values are
// stored in archive headers and must not change.
type CompressionTag uint8

const (
	CompressionNone CompressionTag = 0
	CompressionLZ4  CompressionTag = 1
	CompressionZstd CompressionTag = 2
)

func (tag CompressionTag) String() string {
	switch tag {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", tag)
	}
}

// ParseCompressionTag parses "none", "lz4" or "zstd".
func ParseCompressionTag(name string) (CompressionTag, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("archive: unknown compression %q (want none, lz4 or zstd)", name)
	}
}

const (
	magic      = "PNDRARC1"
	headerSize = len(magic) + 1 + 4 + 32

	// maxPayloadSize bounds the uncompressed payload a header may
	// claim, so a corrupt size cannot force a huge allocation.
	maxPayloadSize = 256 << 20
)

var (
	// ErrNotArchive is returned when the input does not start with the
	// archive magic.
	ErrNotArchive = errors.New("archive: not a transcript archive")

	// ErrDigestMismatch is returned when the payload does not hash to
	// the digest in the header.
	ErrDigestMismatch = errors.New("archive: payload digest mismatch")
)

var digestDomain = [32]byte{
	'p', 'i', 'n', 'd', 'e', 'r', '.', 'a', 'r', 'c', 'h', 'i', 'v', 'e', '.', 'p',
	'a', 'y', 'l', 'o', 'a', 'd', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Digest returns the keyed BLAKE3 digest of an uncompressed payload.
func Digest(payload []byte) [32]byte {
	hasher, err := blake3.NewKeyed(digestDomain[:])
	if err != nil {
		panic("archive: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(payload)
	var digest [32]byte
	copy(digest[:], hasher.Sum(nil))
	return digest
}

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		panic("archive: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("archive: zstd decoder initialization failed: " + err.Error())
	}
}

// Encode writes transcript to w as an archive compressed with tag.
func Encode(w io.Writer, transcript Transcript, tag CompressionTag) error {
	payload, err := codec.Marshal(transcript)
	if err != nil {
		return fmt.Errorf("archive: encoding transcript: %w", err)
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("archive: transcript payload is %d bytes, limit is %d", len(payload), maxPayloadSize)
	}

	body, tag, err := compress(payload, tag)
	if err != nil {
		return err
	}

	header := make([]byte, 0, headerSize)
	header = append(header, magic...)
	header = append(header, byte(tag))
	header = binary.BigEndian.AppendUint32(header, uint32(len(payload)))
	digest := Digest(payload)
	header = append(header, digest[:]...)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("archive: writing header: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("archive: writing payload: %w", err)
	}
	return nil
}

// Decode reads an archive, verifies its digest and returns the
// transcript. Input without the archive magic yields ErrNotArchive;
// a payload that does not match the recorded digest yields
// ErrDigestMismatch.
func Decode(r io.Reader) (Transcript, error) {
	payload, err := Payload(r)
	if err != nil {
		return Transcript{}, err
	}
	var transcript Transcript
	if err := codec.Unmarshal(payload, &transcript); err != nil {
		return Transcript{}, fmt.Errorf("archive: decoding transcript: %w", err)
	}
	return transcript, nil
}

// Payload reads an archive and returns its verified, decompressed CBOR
// payload without decoding it. It fails the same way Decode does.
func Payload(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(headerSize)+maxPayloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("archive: reading: %w", err)
	}
	if len(data) < headerSize || !bytes.Equal(data[:len(magic)], []byte(magic)) {
		return nil, ErrNotArchive
	}

	tag := CompressionTag(data[len(magic)])
	size := binary.BigEndian.Uint32(data[len(magic)+1:])
	var digest [32]byte
	copy(digest[:], data[len(magic)+5:headerSize])
	if size > maxPayloadSize {
		return nil, fmt.Errorf("archive: header claims %d byte payload, limit is %d", size, maxPayloadSize)
	}

	payload, err := decompress(data[headerSize:], tag, int(size))
	if err != nil {
		return nil, err
	}
	if Digest(payload) != digest {
		return nil, ErrDigestMismatch
	}
	return payload, nil
}

// compress returns the payload compressed with tag, or the payload
// itself with CompressionNone when compression does not help.
func compress(payload []byte, tag CompressionTag) ([]byte, CompressionTag, error) {
	switch tag {
	case CompressionNone:
		return payload, CompressionNone, nil

	case CompressionLZ4:
		destination := make([]byte, lz4.CompressBlockBound(len(payload)))
		written, err := lz4.CompressBlock(payload, destination, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("archive: lz4 compress: %w", err)
		}
		// CompressBlock returns 0 for incompressible input.
		if written == 0 || written >= len(payload) {
			return payload, CompressionNone, nil
		}
		return destination[:written], CompressionLZ4, nil

	case CompressionZstd:
		compressed := zstdEncoder.EncodeAll(payload, nil)
		if len(compressed) >= len(payload) {
			return payload, CompressionNone, nil
		}
		return compressed, CompressionZstd, nil

	default:
		return nil, 0, fmt.Errorf("archive: unsupported compression tag %d", tag)
	}
}

func decompress(body []byte, tag CompressionTag, size int) ([]byte, error) {
	switch tag {
	case CompressionNone:
		if len(body) != size {
			return nil, fmt.Errorf("archive: payload is %d bytes, header says %d", len(body), size)
		}
		return body, nil

	case CompressionLZ4:
		destination := make([]byte, size)
		read, err := lz4.UncompressBlock(body, destination)
		if err != nil {
			return nil, fmt.Errorf("archive: lz4 decompress: %w", err)
		}
		if read != size {
			return nil, fmt.Errorf("archive: lz4 decompressed %d bytes, header says %d", read, size)
		}
		return destination, nil

	case CompressionZstd:
		payload, err := zstdDecoder.DecodeAll(body, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("archive: zstd decompress: %w", err)
		}
		if len(payload) != size {
			return nil, fmt.Errorf("archive: zstd decompressed %d bytes, header says %d", len(payload), size)
		}
		return payload, nil

	default:
		return nil, fmt.Errorf("archive: unsupported compression tag %d", tag)
	}
}
