// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/pinder-chat/pinder/lib/codec"
	"github.com/pinder-chat/pinder/lib/markup"
)

func sampleTranscript(messages int) Transcript {
	transcript := Transcript{
		RoomID:   "12345",
		RoomName: "Room A",
		Date:     time.Date(2001, 9, 11, 0, 0, 0, 0, time.UTC),
		Messages: []markup.Message{},
	}
	for i := range messages {
		transcript.Messages = append(transcript.Messages, markup.Message{
			ID:     fmt.Sprint(1000 + i),
			UserID: "4242",
			Person: "Tom Jones",
			Body:   strings.Repeat("it's not unusual ", 1+i%5),
		})
	}
	return transcript
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	for _, tag := range []CompressionTag{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(tag.String(), func(t *testing.T) {
			original := sampleTranscript(200)

			var buffer bytes.Buffer
			if err := Encode(&buffer, original, tag); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			data := buffer.Bytes()
			if got := CompressionTag(data[len(magic)]); got != tag {
				t.Errorf("header tag = %s, want %s", got, tag)
			}

			decoded, err := Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if diff := cmp.Diff(original, decoded); diff != "" {
				t.Errorf("roundtrip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPayloadIsTheEncodedTranscript(t *testing.T) {
	original := sampleTranscript(3)
	var buffer bytes.Buffer
	if err := Encode(&buffer, original, CompressionZstd); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	payload, err := Payload(bytes.NewReader(buffer.Bytes()))
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	want, err := codec.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(payload, want) {
		t.Errorf("payload is not the deterministic CBOR encoding of the transcript")
	}

	if _, err := Payload(strings.NewReader("plain text")); !errors.Is(err, ErrNotArchive) {
		t.Errorf("Payload of non-archive error = %v, want ErrNotArchive", err)
	}
}

func TestCompressionShrinksRepetitiveTranscripts(t *testing.T) {
	original := sampleTranscript(500)
	var plain, zstdArchive bytes.Buffer
	if err := Encode(&plain, original, CompressionNone); err != nil {
		t.Fatal(err)
	}
	if err := Encode(&zstdArchive, original, CompressionZstd); err != nil {
		t.Fatal(err)
	}
	if zstdArchive.Len() >= plain.Len()/2 {
		t.Errorf("zstd archive is %d bytes, uncompressed %d", zstdArchive.Len(), plain.Len())
	}
}

func TestIncompressibleFallsBackToNone(t *testing.T) {
	random := make([]byte, 4096)
	if _, err := rand.Read(random); err != nil {
		t.Fatal(err)
	}
	for _, tag := range []CompressionTag{CompressionLZ4, CompressionZstd} {
		body, stored, err := compress(random, tag)
		if err != nil {
			t.Fatalf("compress(%s): %v", tag, err)
		}
		if stored != CompressionNone || !bytes.Equal(body, random) {
			t.Errorf("compress(%s) of random bytes stored as %s", tag, stored)
		}
	}
}

func TestDecodeRejectsDamage(t *testing.T) {
	var buffer bytes.Buffer
	if err := Encode(&buffer, sampleTranscript(10), CompressionNone); err != nil {
		t.Fatal(err)
	}
	good := buffer.Bytes()

	t.Run("not an archive", func(t *testing.T) {
		if _, err := Decode(strings.NewReader("hello")); !errors.Is(err, ErrNotArchive) {
			t.Errorf("error = %v, want ErrNotArchive", err)
		}
	})

	t.Run("flipped payload byte", func(t *testing.T) {
		damaged := bytes.Clone(good)
		damaged[len(damaged)-1] ^= 0xFF
		if _, err := Decode(bytes.NewReader(damaged)); !errors.Is(err, ErrDigestMismatch) {
			t.Errorf("error = %v, want ErrDigestMismatch", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		if _, err := Decode(bytes.NewReader(good[:len(good)-3])); err == nil {
			t.Error("truncated archive decoded")
		}
	})

	t.Run("unknown tag", func(t *testing.T) {
		damaged := bytes.Clone(good)
		damaged[len(magic)] = 9
		if _, err := Decode(bytes.NewReader(damaged)); err == nil {
			t.Error("archive with unknown tag decoded")
		}
	})
}

func TestParseCompressionTag(t *testing.T) {
	for _, tag := range []CompressionTag{CompressionNone, CompressionLZ4, CompressionZstd} {
		parsed, err := ParseCompressionTag(tag.String())
		if err != nil || parsed != tag {
			t.Errorf("ParseCompressionTag(%q) = %v, %v", tag.String(), parsed, err)
		}
	}
	if _, err := ParseCompressionTag("brotli"); err == nil {
		t.Error("ParseCompressionTag accepted brotli")
	}
}
