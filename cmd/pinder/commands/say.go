// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pinder-chat/pinder/campfire"
	"github.com/pinder-chat/pinder/cmd/pinder/cli"
)

func (app *App) sayCommand() *cli.Command {
	var params accountParams

	return &cli.Command{
		Name:    "say",
		Summary: "Speak a message in a room",
		Usage:   "pinder say <room> <message...>",
		Examples: []cli.Example{
			{Command: "pinder say Releases 'v2.1 is out'"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) < 2 {
				return cli.Validation("a room and a message are required")
			}
			message := strings.Join(args[1:], " ")
			return app.withRoom(ctx, params, logger, args[0], func(_ *account, room *campfire.Room) error {
				return room.Speak(ctx, message)
			})
		},
	}
}

func (app *App) pasteCommand() *cli.Command {
	var params accountParams

	return &cli.Command{
		Name:    "paste",
		Summary: "Paste a file or stdin into a room",
		Description: `Send text as a paste: shown in a fixed-width block with its line
breaks kept. The text comes from the named file, or from stdin when the
file is "-" or omitted.`,
		Usage: "pinder paste <room> [file|-]",
		Examples: []cli.Example{
			{Command: "pinder paste Releases CHANGELOG.md"},
			{Command: "go test ./... 2>&1 | pinder paste Builds"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) < 1 || len(args) > 2 {
				return cli.Validation("a room and at most one file are required")
			}
			var source io.Reader = app.Stdin
			if len(args) == 2 && args[1] != "-" {
				file, err := os.Open(args[1])
				if err != nil {
					return cli.NotFound("%w", err)
				}
				defer file.Close()
				source = file
			}
			data, err := io.ReadAll(source)
			if err != nil {
				return cli.Internal("reading paste: %w", err)
			}
			text := strings.TrimRight(string(data), "\n")
			if strings.TrimSpace(text) == "" {
				return cli.Validation("nothing to paste")
			}
			return app.withRoom(ctx, params, logger, args[0], func(_ *account, room *campfire.Room) error {
				return room.Paste(ctx, text)
			})
		},
	}
}
