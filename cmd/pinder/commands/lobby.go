// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pinder-chat/pinder/cmd/pinder/cli"
)

type listParams struct {
	accountParams
	cli.JSONOutput
}

// roomSummary is one row of "pinder rooms".
type roomSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

func (app *App) roomsCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "rooms",
		Summary: "List the rooms in the lobby",
		Description: `List the rooms shown in the lobby, sorted by name.

Rooms that are full appear in the lobby without a link and are left out.`,
		Usage:  "pinder rooms [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			opened, err := app.openAccount(params.accountParams, logger)
			if err != nil {
				return err
			}
			defer opened.Close()
			if err := opened.requireLogin(); err != nil {
				return err
			}

			rooms, err := opened.client.Rooms(ctx)
			if err != nil {
				return cli.Classify(fmt.Errorf("listing rooms: %w", err))
			}
			summaries := make([]roomSummary, 0, len(rooms))
			for _, room := range rooms {
				summaries = append(summaries, roomSummary{ID: room.ID(), Name: room.Name(), URI: room.URI()})
			}

			if done, err := params.EmitJSON(app.Stdout, summaries); done {
				return err
			}
			writer := tabwriter.NewWriter(app.Stdout, 2, 0, 3, ' ', 0)
			for _, summary := range summaries {
				fmt.Fprintf(writer, "%s\t%s\n", summary.Name, summary.ID)
			}
			return writer.Flush()
		},
	}
}

func (app *App) usersCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "users",
		Summary: "List the people present in rooms",
		Description: `List the people shown in the lobby as present, across all rooms or
only the named ones. Names are listed once, in lobby order.`,
		Usage: "pinder users [room...] [flags]",
		Examples: []cli.Example{
			{Description: "Everyone online", Command: "pinder users"},
			{Description: "Who is in two rooms", Command: "pinder users 'Room A' Releases"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			opened, err := app.openAccount(params.accountParams, logger)
			if err != nil {
				return err
			}
			defer opened.Close()
			if err := opened.requireLogin(); err != nil {
				return err
			}

			users, err := opened.client.Users(ctx, args...)
			if err != nil {
				return cli.Classify(fmt.Errorf("listing users: %w", err))
			}
			if done, err := params.EmitJSON(app.Stdout, users); done {
				return err
			}
			for _, user := range users {
				fmt.Fprintln(app.Stdout, user)
			}
			return nil
		},
	}
}

// transcriptSummary is one room's row of "pinder transcripts".
type transcriptSummary struct {
	RoomID   string   `json:"room_id"`
	RoomName string   `json:"room_name,omitempty"`
	Dates    []string `json:"dates"`
}

func (app *App) transcriptsCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "transcripts",
		Summary: "List the dates that have transcripts",
		Usage:   "pinder transcripts [room] [flags]",
		Examples: []cli.Example{
			{Description: "Every room's transcript dates", Command: "pinder transcripts"},
			{Description: "One room", Command: "pinder transcripts Releases"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 1 {
				return cli.Validation("at most one room may be named")
			}
			opened, err := app.openAccount(params.accountParams, logger)
			if err != nil {
				return err
			}
			defer opened.Close()

			var summaries []transcriptSummary
			if len(args) == 1 {
				room, err := opened.Room(ctx, args[0])
				if err != nil {
					return err
				}
				dates, err := room.Transcripts(ctx)
				if err != nil {
					return cli.Classify(fmt.Errorf("listing transcripts of %s: %w", room, err))
				}
				summaries = append(summaries, transcriptSummary{RoomID: room.ID(), RoomName: room.Name(), Dates: formatDates(dates)})
			} else {
				summaries, err = allTranscripts(ctx, opened)
				if err != nil {
					return err
				}
			}

			if done, err := params.EmitJSON(app.Stdout, summaries); done {
				return err
			}
			for _, summary := range summaries {
				label := summary.RoomName
				if label == "" {
					label = "room " + summary.RoomID
				}
				fmt.Fprintf(app.Stdout, "%s: %s\n", label, strings.Join(summary.Dates, " "))
			}
			return nil
		},
	}
}

// allTranscripts lists every room's transcript dates, named from the
// lobby where the room appears there.
func allTranscripts(ctx context.Context, opened *account) ([]transcriptSummary, error) {
	if err := opened.requireLogin(); err != nil {
		return nil, err
	}
	byRoom, err := opened.client.Transcripts(ctx)
	if err != nil {
		return nil, cli.Classify(fmt.Errorf("listing transcripts: %w", err))
	}
	rooms, err := opened.client.Rooms(ctx)
	if err != nil {
		return nil, cli.Classify(fmt.Errorf("listing rooms: %w", err))
	}
	names := make(map[string]string, len(rooms))
	for _, room := range rooms {
		names[room.ID()] = room.Name()
	}

	summaries := make([]transcriptSummary, 0, len(byRoom))
	for roomID, dates := range byRoom {
		summaries = append(summaries, transcriptSummary{RoomID: roomID, RoomName: names[roomID], Dates: formatDates(dates)})
	}
	slices.SortFunc(summaries, func(a, b transcriptSummary) int {
		if c := strings.Compare(a.RoomName, b.RoomName); c != 0 {
			return c
		}
		return strings.Compare(a.RoomID, b.RoomID)
	})
	return summaries, nil
}

func formatDates(dates []time.Time) []string {
	formatted := make([]string, len(dates))
	for i, date := range dates {
		formatted[i] = date.Format(time.DateOnly)
	}
	return formatted
}
