// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pinder-chat/pinder/campfire"
	"github.com/pinder-chat/pinder/cmd/pinder/cli"
)

func (app *App) roomCommand() *cli.Command {
	return &cli.Command{
		Name:    "room",
		Summary: "Create, find and administer rooms",
		Subcommands: []*cli.Command{
			app.roomCreateCommand(),
			app.roomFindCommand(),
			app.roomTopicCommand(),
			app.roomRenameCommand(),
			app.roomActionCommand("lock", "Lock a room against new entrants", (*campfire.Room).Lock, "Locked"),
			app.roomActionCommand("unlock", "Unlock a locked room", (*campfire.Room).Unlock, "Unlocked"),
			app.roomActionCommand("join", "Join a room and remember its message cursor", nil, "Joined"),
			app.roomActionCommand("leave", "Leave a room", (*campfire.Room).Leave, "Left"),
			app.roomGuestCommand(),
			app.roomDestroyCommand(),
		},
	}
}

// withRoom opens the account, finds the named room, runs action and
// saves the session, including the room's cursor.
func (app *App) withRoom(ctx context.Context, params accountParams, logger *slog.Logger, name string,
	action func(*account, *campfire.Room) error) error {
	opened, err := app.openAccount(params, logger)
	if err != nil {
		return err
	}
	defer opened.Close()

	room, err := opened.Room(ctx, name)
	if err != nil {
		return err
	}
	if err := action(opened, room); err != nil {
		return cli.Classify(err)
	}
	opened.Remember(room)
	return opened.Save()
}

type roomCreateParams struct {
	accountParams
	cli.JSONOutput
	Topic string `json:"topic" flag:"topic" desc:"initial topic"`
}

func (app *App) roomCreateCommand() *cli.Command {
	var params roomCreateParams

	return &cli.Command{
		Name:    "create",
		Summary: "Create a room",
		Usage:   "pinder room create <name> [flags]",
		Examples: []cli.Example{
			{Command: "pinder room create Releases --topic 'Ship it'"},
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
			if err := opened.requireLogin(); err != nil {
				return err
			}

			if existing, err := opened.client.FindRoomByName(ctx, args[0]); err == nil {
				return cli.Conflict("room %q already exists (id %s)", existing.Name(), existing.ID())
			} else if !errors.Is(err, campfire.ErrRoomNotFound) {
				return cli.Classify(fmt.Errorf("checking for room %q: %w", args[0], err))
			}

			room, err := opened.client.CreateRoom(ctx, args[0], params.Topic)
			if err != nil {
				return cli.Classify(fmt.Errorf("creating room %q: %w", args[0], err))
			}
			summary := roomSummary{ID: room.ID(), Name: room.Name(), URI: room.URI()}
			if done, err := params.EmitJSON(app.Stdout, summary); done {
				return err
			}
			fmt.Fprintf(app.Stdout, "Created %s (%s)\n", summary.Name, summary.URI)
			return nil
		},
	}
}

type roomFindParams struct {
	accountParams
	cli.JSONOutput
}

func (app *App) roomFindCommand() *cli.Command {
	var params roomFindParams

	return &cli.Command{
		Name:    "find",
		Summary: "Print a room's id and URI (exit 1 when there is none)",
		Usage:   "pinder room find <name> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("exactly one room name is required")
			}
			opened, err := app.openAccount(params.accountParams, logger)
			if err != nil {
				return err
			}
			defer opened.Close()
			if err := opened.requireLogin(); err != nil {
				return err
			}

			room, err := opened.client.FindRoomByName(ctx, args[0])
			if errors.Is(err, campfire.ErrRoomNotFound) {
				fmt.Fprintf(app.Stderr, "no room named %q\n", args[0])
				return &cli.ExitError{Code: 1}
			}
			if err != nil {
				return cli.Classify(fmt.Errorf("finding room %q: %w", args[0], err))
			}
			summary := roomSummary{ID: room.ID(), Name: room.Name(), URI: room.URI()}
			if done, err := params.EmitJSON(app.Stdout, summary); done {
				return err
			}
			fmt.Fprintf(app.Stdout, "%s\t%s\n", summary.ID, summary.URI)
			return nil
		},
	}
}

func (app *App) roomTopicCommand() *cli.Command {
	var params accountParams

	return &cli.Command{
		Name:    "topic",
		Summary: "Show or change a room's topic",
		Usage:   "pinder room topic <room> [new topic...]",
		Examples: []cli.Example{
			{Description: "Show the topic", Command: "pinder room topic Releases"},
			{Description: "Change it", Command: "pinder room topic Releases Freeze starts Friday"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) == 0 {
				return cli.Validation("a room name is required")
			}
			return app.withRoom(ctx, params, logger, args[0], func(_ *account, room *campfire.Room) error {
				if len(args) == 1 {
					topic, err := room.Topic(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintln(app.Stdout, topic)
					return nil
				}
				return room.ChangeTopic(ctx, strings.Join(args[1:], " "))
			})
		},
	}
}

func (app *App) roomRenameCommand() *cli.Command {
	var params accountParams

	return &cli.Command{
		Name:    "rename",
		Summary: "Rename a room",
		Usage:   "pinder room rename <room> <new name>",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 2 {
				return cli.Validation("a room and its new name are required")
			}
			return app.withRoom(ctx, params, logger, args[0], func(_ *account, room *campfire.Room) error {
				if err := room.Rename(ctx, args[1]); err != nil {
					return err
				}
				fmt.Fprintf(app.Stderr, "Renamed %q to %q\n", args[0], room.Name())
				return nil
			})
		},
	}
}

// roomActionCommand builds a one-argument command around a room
// operation. A nil action only joins.
func (app *App) roomActionCommand(name, summary string, action func(*campfire.Room, context.Context) error, done string) *cli.Command {
	var params accountParams

	return &cli.Command{
		Name:    name,
		Summary: summary,
		Usage:   "pinder room " + name + " <room>",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("exactly one room name is required")
			}
			return app.withRoom(ctx, params, logger, args[0], func(_ *account, room *campfire.Room) error {
				var err error
				if action == nil {
					err = room.Join(ctx, true)
				} else {
					err = action(room, ctx)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(app.Stderr, "%s %s\n", done, room.Name())
				return nil
			})
		},
	}
}

type roomGuestParams struct {
	accountParams
	cli.JSONOutput
	Enable  bool `json:"-" flag:"enable" desc:"turn guest access on"`
	Disable bool `json:"-" flag:"disable" desc:"turn guest access off"`
}

// guestAccess is the output of "pinder room guest".
type guestAccess struct {
	Enabled    bool   `json:"enabled"`
	URL        string `json:"url,omitempty"`
	InviteCode string `json:"invite_code,omitempty"`
}

func (app *App) roomGuestCommand() *cli.Command {
	var params roomGuestParams

	return &cli.Command{
		Name:    "guest",
		Summary: "Show or toggle a room's guest access",
		Usage:   "pinder room guest <room> [--enable|--disable] [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("exactly one room name is required")
			}
			if params.Enable && params.Disable {
				return cli.Validation("--enable and --disable are exclusive")
			}
			return app.withRoom(ctx, params.accountParams, logger, args[0], func(_ *account, room *campfire.Room) error {
				enabled, err := room.GuestAccessEnabled(ctx)
				if err != nil {
					return err
				}
				if (params.Enable && !enabled) || (params.Disable && enabled) {
					if err := room.ToggleGuestAccess(ctx); err != nil {
						return err
					}
				}

				var access guestAccess
				if access.URL, err = room.GuestURL(ctx); err != nil {
					return err
				}
				if access.InviteCode, err = room.GuestInviteCode(ctx); err != nil {
					return err
				}
				access.Enabled = access.URL != ""
				if params.Enable && !access.Enabled {
					return fmt.Errorf("guest access for %s is still off after toggling", room.Name())
				}

				if done, err := params.EmitJSON(app.Stdout, access); done {
					return err
				}
				if !access.Enabled {
					fmt.Fprintf(app.Stdout, "Guest access to %s is off\n", room.Name())
					return nil
				}
				fmt.Fprintf(app.Stdout, "%s\t%s\n", access.URL, access.InviteCode)
				return nil
			})
		},
	}
}

type roomDestroyParams struct {
	accountParams
	Yes bool `json:"-" flag:"yes" desc:"confirm destroying the room and its transcripts"`
}

func (app *App) roomDestroyCommand() *cli.Command {
	var params roomDestroyParams

	return &cli.Command{
		Name:    "destroy",
		Summary: "Delete a room permanently",
		Usage:   "pinder room destroy <room> --yes",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("exactly one room name is required")
			}
			if !params.Yes {
				return cli.Validation("destroying %q deletes its transcripts too; pass --yes to confirm", args[0])
			}
			return app.withRoom(ctx, params.accountParams, logger, args[0], func(_ *account, room *campfire.Room) error {
				if err := room.Destroy(ctx); err != nil {
					return err
				}
				fmt.Fprintf(app.Stderr, "Destroyed %s\n", room.Name())
				return nil
			})
		},
	}
}
