// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package sessionstore

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pinder-chat/pinder/lib/secret"
)

type savedSession struct {
	BaseURL  string            `cbor:"base_url"`
	Cookies  map[string]string `cbor:"cookies"`
	LoggedIn bool              `cbor:"logged_in"`
}

var sample = savedSession{
	BaseURL:  "https://acme.campfirenow.com",
	Cookies:  map[string]string{"_session_id": "abc123"},
	LoggedIn: true,
}

func testPassphrase(t *testing.T, value string) *secret.Buffer {
	t.Helper()
	buffer, err := secret.NewFromString(value)
	if err != nil {
		t.Fatalf("creating passphrase buffer: %v", err)
	}
	t.Cleanup(func() { buffer.Close() })
	return buffer
}

func openStore(t *testing.T, directory string, passphrase *secret.Buffer) *Store {
	t.Helper()
	store, err := Open(Config{Directory: directory, Passphrase: passphrase, WorkFactor: 10})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return store
}

func TestKey(t *testing.T) {
	first := Key("acme", "tom@example.com")
	if len(first) != 32 {
		t.Errorf("Key length = %d, want 32 hex characters", len(first))
	}
	if again := Key("acme", "tom@example.com"); again != first {
		t.Errorf("Key not stable: %q != %q", again, first)
	}
	if other := Key("acme", "gloria@example.com"); other == first {
		t.Error("different emails produced the same key")
	}
}

func TestSaveLoadPlaintext(t *testing.T) {
	directory := filepath.Join(t.TempDir(), "sessions")
	store := openStore(t, directory, nil)
	key := Key("acme", "tom@example.com")

	if err := store.Save(key, sample); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(store.Path(key))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0o600 {
		t.Errorf("session file mode = %o, want 600", mode)
	}
	directoryInfo, err := os.Stat(directory)
	if err != nil {
		t.Fatalf("Stat directory: %v", err)
	}
	if mode := directoryInfo.Mode().Perm(); mode != 0o700 {
		t.Errorf("directory mode = %o, want 700", mode)
	}

	var loaded savedSession
	if err := store.Load(key, &loaded); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(sample, loaded); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveLoadEncrypted(t *testing.T) {
	directory := t.TempDir()
	store := openStore(t, directory, testPassphrase(t, "correct horse"))
	key := Key("acme", "tom@example.com")

	if err := store.Save(key, sample); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(store.Path(key))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.HasPrefix(data, ageHeader) {
		t.Fatal("encrypted session does not start with the age header")
	}
	if bytes.Contains(data, []byte("abc123")) {
		t.Fatal("encrypted session contains the cookie in plaintext")
	}

	var loaded savedSession
	if err := store.Load(key, &loaded); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(sample, loaded); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}

	t.Run("no passphrase", func(t *testing.T) {
		plain := openStore(t, directory, nil)
		if err := plain.Load(key, &loaded); !errors.Is(err, ErrPassphraseRequired) {
			t.Errorf("Load error = %v, want ErrPassphraseRequired", err)
		}
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		wrong := openStore(t, directory, testPassphrase(t, "battery staple"))
		if err := wrong.Load(key, &loaded); err == nil {
			t.Error("Load with wrong passphrase succeeded")
		}
	})
}

func TestEncryptedStoreReadsPlaintextFiles(t *testing.T) {
	directory := t.TempDir()
	key := Key("acme", "tom@example.com")
	if err := openStore(t, directory, nil).Save(key, sample); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var loaded savedSession
	if err := openStore(t, directory, testPassphrase(t, "pw")).Load(key, &loaded); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.LoggedIn {
		t.Error("plaintext session not loaded by encrypted store")
	}
}

func TestLoadMissingAndDelete(t *testing.T) {
	store := openStore(t, t.TempDir(), nil)
	key := Key("acme", "tom@example.com")

	var loaded savedSession
	if err := store.Load(key, &loaded); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Load of missing session error = %v, want ErrNoSession", err)
	}
	if err := store.Delete(key); err != nil {
		t.Fatalf("Delete of missing session: %v", err)
	}

	if err := store.Save(key, sample); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Load(key, &loaded); !errors.Is(err, ErrNoSession) {
		t.Errorf("Load after Delete error = %v, want ErrNoSession", err)
	}

	entries, err := os.ReadDir(filepath.Dir(store.Path(key)))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("store directory not empty after delete: %v", entries)
	}
}

func TestInvalidKeys(t *testing.T) {
	store := openStore(t, t.TempDir(), nil)
	for _, key := range []string{"", ".", "..", "../escape", "a/b"} {
		if err := store.Save(key, sample); err == nil {
			t.Errorf("Save(%q) succeeded", key)
		}
	}
	if _, err := Open(Config{}); err == nil {
		t.Error("Open without a directory succeeded")
	}
}
