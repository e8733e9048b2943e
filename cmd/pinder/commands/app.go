// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/term"
)

// App holds the process-level dependencies of the command tree. Tests
// replace the streams and clock.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// HTTPClient, when set, is handed to every campfire client.
	HTTPClient *http.Client

	// Now returns the current time, for relative transcript dates.
	Now func() time.Time

	// Getenv reads the environment.
	Getenv func(string) string
}

// Default returns an App wired to the process streams.
func Default() *App {
	return &App{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Now:    time.Now,
		Getenv: os.Getenv,
	}
}

// stdoutIsTerminal reports whether output goes to a terminal, which
// turns on color.
func (app *App) stdoutIsTerminal() bool {
	file, ok := app.Stdout.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// terminalWidth returns the width of the output terminal, or 0.
func (app *App) terminalWidth() int {
	file, ok := app.Stdout.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil {
		return 0
	}
	return width
}
