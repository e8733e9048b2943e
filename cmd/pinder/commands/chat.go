// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pinder-chat/pinder/cmd/pinder/chat"
	"github.com/pinder-chat/pinder/cmd/pinder/cli"
	"github.com/pinder-chat/pinder/lib/render"
)

type chatParams struct {
	accountParams
	Interval time.Duration `json:"interval" flag:"interval" desc:"delay between polls (default: chat.poll_interval)"`
	Resume   bool          `json:"resume"   flag:"resume" desc:"show messages posted since the last tail or chat"`
	NoColor  bool          `json:"-"        flag:"no-color" desc:"disable color"`
}

func (app *App) chatCommand() *cli.Command {
	var params chatParams

	return &cli.Command{
		Name:    "chat",
		Summary: "Chat in a room full-screen",
		Description: `Open a full-screen view of a room: messages scroll above an input
line. Enter speaks the line, "/paste text" pastes, esc or "/quit" leaves.

Log output is shown in the status line while the view is open.`,
		Usage:  "pinder chat <room> [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("exactly one room name is required")
			}
			if !app.stdoutIsTerminal() {
				return cli.Validation("chat needs a terminal (use tail and say in scripts)")
			}

			// Records written to stderr would tear the alternate
			// screen, so the client logs into the status line.
			logs := chat.NewLogHandler(slog.LevelWarn)
			opened, err := app.openAccount(params.accountParams, slog.New(logs))
			if err != nil {
				return err
			}
			defer opened.Close()

			room, err := opened.Room(ctx, args[0])
			if err != nil {
				return err
			}
			if err := enterRoom(ctx, room, params.Resume); err != nil {
				return cli.Classify(err)
			}

			interval := params.Interval
			if interval <= 0 {
				interval = opened.config.PollInterval()
			}
			final, err := chat.Run(ctx, room, chat.Options{
				PollInterval: interval,
				Render: render.Options{
					Color:      !params.NoColor,
					Style:      opened.config.Chat.Style,
					SelfUserID: room.State().UserID,
				},
			}, logs)

			opened.Remember(room)
			if saveErr := opened.Save(); saveErr != nil {
				logger.Warn("saving session failed", "error", saveErr)
			}
			if err != nil {
				return cli.Internal("chat: %w", err)
			}
			logger.Debug("chat closed", "room", room.Name(), "messages", len(final.Messages()))
			if ctx.Err() == nil {
				fmt.Fprintf(app.Stderr, "Left the chat view of %s (%d messages)\n", room.Name(), len(final.Messages()))
			}
			return nil
		},
	}
}
