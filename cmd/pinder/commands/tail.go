// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pinder-chat/pinder/campfire"
	"github.com/pinder-chat/pinder/cmd/pinder/cli"
	"github.com/pinder-chat/pinder/lib/render"
)

type tailParams struct {
	accountParams
	cli.JSONOutput
	Interval time.Duration `json:"interval" flag:"interval" desc:"delay between polls (default: chat.poll_interval)"`
	Resume   bool          `json:"resume"   flag:"resume" desc:"continue from the cursor saved by the last tail or chat"`
	NoColor  bool          `json:"-"        flag:"no-color" desc:"disable color even on a terminal"`
	Width    int           `json:"width"    flag:"width" desc:"wrap messages at this width (default: terminal width)"`
}

func (app *App) tailCommand() *cli.Command {
	var params tailParams

	return &cli.Command{
		Name:    "tail",
		Summary: "Print a room's messages as they arrive",
		Description: `Join a room and print new messages until interrupted.

With --resume, messages posted since the previous tail or chat of the
same room are printed first. With --json, each message is written as
one JSON object per line.`,
		Usage: "pinder tail <room> [flags]",
		Examples: []cli.Example{
			{Command: "pinder tail Releases"},
			{Description: "Feed messages to another program", Command: "pinder tail Releases --json | jq -r .body"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("exactly one room name is required")
			}
			opened, err := app.openAccount(params.accountParams, logger)
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
			opened.Remember(room)
			if err := opened.Save(); err != nil {
				return err
			}

			interval := params.Interval
			if interval <= 0 {
				interval = opened.config.PollInterval()
			}
			width := params.Width
			if width == 0 {
				width = app.terminalWidth()
			}
			renderer := render.New(app.Stdout, render.Options{
				Width:      width,
				Color:      !params.NoColor && app.stdoutIsTerminal(),
				Style:      opened.config.Chat.Style,
				SelfUserID: room.State().UserID,
			})

			err = room.Watch(ctx, interval, func(messages []campfire.Message) error {
				for _, message := range messages {
					if params.OutputJSON {
						if err := cli.WriteJSONLine(app.Stdout, message); err != nil {
							return err
						}
						continue
					}
					if _, err := fmt.Fprintln(app.Stdout, renderer.Message(message)); err != nil {
						return err
					}
				}
				opened.Remember(room)
				return opened.Save()
			})
			opened.Remember(room)
			saveErr := opened.Save()
			if errors.Is(err, context.Canceled) {
				err = nil
			}
			if err != nil {
				return cli.Classify(fmt.Errorf("watching %s: %w", room, err))
			}
			return saveErr
		},
	}
}

// enterRoom joins room, or with resume and a restored cursor only
// renews presence so polling continues where it stopped.
func enterRoom(ctx context.Context, room *campfire.Room, resume bool) error {
	if resume && room.Joined() {
		_, err := room.Ping(ctx, true)
		return err
	}
	return room.Join(ctx, true)
}
