// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pinder-chat/pinder/cmd/pinder/cli"
	"github.com/pinder-chat/pinder/lib/version"
)

// Root builds the complete pinder command tree.
func (app *App) Root() *cli.Command {
	return &cli.Command{
		Name: "pinder",
		Description: `Pinder: a command-line client for Campfire chat.

Log in once, then list rooms, speak, paste, follow rooms as they talk,
and fetch or archive transcripts.`,
		Stderr: app.Stderr,
		Subcommands: []*cli.Command{
			app.loginCommand(),
			app.logoutCommand(),
			app.roomsCommand(),
			app.usersCommand(),
			app.roomCommand(),
			app.sayCommand(),
			app.pasteCommand(),
			app.tailCommand(),
			app.chatCommand(),
			app.transcriptsCommand(),
			app.transcriptCommand(),
			app.archiveCommand(),
			app.profilesCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(context.Context, []string, *slog.Logger) error {
					fmt.Fprintf(app.Stdout, "pinder %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{Description: "Log in (prompts for the password)", Command: "pinder login --subdomain acme --email tom@example.com"},
			{Description: "See who is around", Command: "pinder users"},
			{Description: "Say something", Command: "pinder say Releases 'v2.1 is out'"},
			{Description: "Follow a room", Command: "pinder tail Releases"},
			{Description: "Export yesterday as Markdown", Command: "pinder transcript Releases yesterday -f markdown"},
		},
	}
}
