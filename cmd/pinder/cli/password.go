// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/pinder-chat/pinder/lib/secret"
)

// ReadSecret reads a password or passphrase. A path other than "" or
// "-" is read with [secret.ReadFromPath]. Otherwise the user is
// prompted on the terminal with echo disabled, and prompting without a
// terminal is a validation error naming the flag to use instead.
//
// The caller must close the returned buffer.
func ReadSecret(path, prompt, flagName string) (*secret.Buffer, error) {
	if path != "" && path != "-" {
		buffer, err := secret.ReadFromPath(path)
		if err != nil {
			return nil, Validation("reading %s: %w", path, err)
		}
		return buffer, nil
	}

	stdinFileDescriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFileDescriptor) {
		if path == "-" {
			// Piped: read the first line of stdin.
			buffer, err := secret.ReadFromPath("-")
			if err != nil {
				return nil, Validation("reading stdin: %w", err)
			}
			return buffer, nil
		}
		return nil, Validation("no terminal available for interactive %s prompt (use %s)", prompt, flagName)
	}
	return promptSecret(os.Stderr, stdinFileDescriptor, prompt)
}

func promptSecret(w io.Writer, fileDescriptor int, prompt string) (*secret.Buffer, error) {
	fmt.Fprintf(w, "%s: ", prompt)
	data, err := term.ReadPassword(fileDescriptor)
	fmt.Fprintln(w)
	if err != nil {
		return nil, Internal("reading %s: %w", prompt, err)
	}
	if len(data) == 0 {
		return nil, Validation("%s is empty", prompt)
	}

	buffer, err := secret.NewFromBytes(data)
	if err != nil {
		secret.Zero(data)
		return nil, Internal("storing %s: %w", prompt, err)
	}
	return buffer, nil
}
