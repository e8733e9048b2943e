// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package sessionstore

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"filippo.io/age"
	"github.com/zeebo/blake3"

	"github.com/pinder-chat/pinder/lib/codec"
	"github.com/pinder-chat/pinder/lib/secret"
)

// fileExtension is appended to every session file name.
const fileExtension = ".session"

// ageHeader starts every age-encrypted file.
var ageHeader = []byte("age-encryption.org/")

var (
	// ErrNoSession is returned by Load when no session is saved under
	// the key.
	ErrNoSession = errors.New("sessionstore: no saved session")

	// ErrPassphraseRequired is returned by Load when the saved session
	// is encrypted and the store has no passphrase.
	ErrPassphraseRequired = errors.New("sessionstore: saved session is encrypted and no passphrase is configured")
)

// keyDomain separates session-name hashes from any other BLAKE3 use.
// Changing it orphans every saved session.
var keyDomain = [32]byte{
	'p', 'i', 'n', 'd', 'e', 'r', '.', 's', 'e', 's', 's', 'i', 'o', 'n', '.', 'k',
	'e', 'y', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Key returns the file key for an account: the first 16 bytes of the
// keyed BLAKE3 hash of "account|email", hex encoded.
func Key(account, email string) string {
	hasher, err := blake3.NewKeyed(keyDomain[:])
	if err != nil {
		panic("sessionstore: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write([]byte(account + "|" + email))
	return hex.EncodeToString(hasher.Sum(nil)[:16])
}

// Config holds configuration for opening a Store.
type Config struct {
	// Directory holds the session files. Created with mode 0700 if
	// missing.
	Directory string
	// Passphrase, when non-nil, encrypts saved sessions. The buffer is
	// borrowed; the caller closes it after the Store is done.
	Passphrase *secret.Buffer
	// WorkFactor is the scrypt work factor (log2 of N) for new
	// encrypted files. Zero uses age's default.
	WorkFactor int
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Store reads and writes session files in one directory.
type Store struct {
	directory  string
	passphrase *secret.Buffer
	workFactor int
	logger     *slog.Logger
}

// Open creates the directory if needed and returns a Store.
func Open(config Config) (*Store, error) {
	if config.Directory == "" {
		return nil, fmt.Errorf("sessionstore: Directory is required")
	}
	if err := os.MkdirAll(config.Directory, 0o700); err != nil {
		return nil, fmt.Errorf("sessionstore: creating %s: %w", config.Directory, err)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		directory:  config.Directory,
		passphrase: config.Passphrase,
		workFactor: config.WorkFactor,
		logger:     logger,
	}, nil
}

// Path returns the file path for key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.directory, key+fileExtension)
}

// Encrypted reports whether Save encrypts.
func (s *Store) Encrypted() bool {
	return s.passphrase != nil
}

// Save encodes value and atomically replaces the session file for key.
func (s *Store) Save(key string, value any) error {
	if err := validateKey(key); err != nil {
		return err
	}
	plaintext, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("sessionstore: encoding session: %w", err)
	}
	defer secret.Zero(plaintext)

	data := plaintext
	if s.passphrase != nil {
		data, err = s.encrypt(plaintext)
		if err != nil {
			return err
		}
	}

	path := s.Path(key)
	if err := writeAtomic(s.directory, path, data); err != nil {
		return err
	}
	s.logger.Debug("session saved", "path", path, "encrypted", s.passphrase != nil)
	return nil
}

// Load decodes the session file for key into value.
func (s *Store) Load(key string, value any) error {
	if err := validateKey(key); err != nil {
		return err
	}
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNoSession
		}
		return fmt.Errorf("sessionstore: reading session: %w", err)
	}

	plaintext := data
	if bytes.HasPrefix(data, ageHeader) {
		if s.passphrase == nil {
			return ErrPassphraseRequired
		}
		plaintext, err = s.decrypt(data)
		if err != nil {
			return err
		}
		defer secret.Zero(plaintext)
	}

	if err := codec.Unmarshal(plaintext, value); err != nil {
		return fmt.Errorf("sessionstore: decoding session: %w", err)
	}
	return nil
}

// Delete removes the session file for key. Deleting a missing session
// is not an error.
func (s *Store) Delete(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("sessionstore: removing session: %w", err)
	}
	return nil
}

func (s *Store) encrypt(plaintext []byte) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(s.passphrase.String())
	if err != nil {
		return nil, fmt.Errorf("sessionstore: creating scrypt recipient: %w", err)
	}
	if s.workFactor > 0 {
		recipient.SetWorkFactor(s.workFactor)
	}

	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, recipient)
	if err != nil {
		return nil, fmt.Errorf("sessionstore: creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("sessionstore: writing plaintext to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("sessionstore: finalizing age encryption: %w", err)
	}
	return ciphertext.Bytes(), nil
}

func (s *Store) decrypt(ciphertext []byte) ([]byte, error) {
	identity, err := age.NewScryptIdentity(s.passphrase.String())
	if err != nil {
		return nil, fmt.Errorf("sessionstore: creating scrypt identity: %w", err)
	}
	reader, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, fmt.Errorf("sessionstore: decrypting session (wrong passphrase?): %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("sessionstore: reading decrypted session: %w", err)
	}
	return plaintext, nil
}

// validateKey rejects keys that would escape the store directory.
func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || filepath.Base(key) != key {
		return fmt.Errorf("sessionstore: invalid key %q", key)
	}
	return nil
}

// writeAtomic writes data to a temporary file in directory with mode
// 0600, syncs it, and renames it to path.
func writeAtomic(directory, path string, data []byte) error {
	file, err := os.CreateTemp(directory, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("sessionstore: creating temporary file: %w", err)
	}
	temporaryPath := file.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(temporaryPath)
		}
	}()

	if err := file.Chmod(0o600); err != nil {
		file.Close()
		return fmt.Errorf("sessionstore: setting session file mode: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("sessionstore: writing session file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("sessionstore: syncing session file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("sessionstore: closing session file: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		return fmt.Errorf("sessionstore: renaming session file into place: %w", err)
	}
	success = true
	return nil
}
