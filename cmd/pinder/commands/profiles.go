// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/pinder-chat/pinder/cmd/pinder/cli"
	"github.com/pinder-chat/pinder/lib/config"
)

type profilesParams struct {
	ConfigPath string `json:"-" flag:"config,c" desc:"config file (default: $PINDER_CONFIG)"`
	cli.JSONOutput
}

// profileSummary is one row of "pinder profiles".
type profileSummary struct {
	Name     string `json:"name"`
	Account  string `json:"account"`
	Email    string `json:"email"`
	Selected bool   `json:"selected"`
}

func (app *App) profilesCommand() *cli.Command {
	var params profilesParams

	return &cli.Command{
		Name:    "profiles",
		Summary: "Validate the config file and list its profiles",
		Usage:   "pinder profiles [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			path := params.ConfigPath
			if path == "" {
				path = app.Getenv(config.EnvironmentVariable)
			}
			if path == "" {
				return cli.Validation("no config file: pass --config or set %s", config.EnvironmentVariable)
			}
			cfg, err := config.LoadFile(path)
			if err != nil {
				return cli.Validation("%w", err)
			}
			if err := cfg.Validate(); err != nil {
				return cli.Validation("invalid config %s:\n%w", path, err)
			}

			selected, _ := cfg.Resolve("")
			summaries := make([]profileSummary, 0, len(cfg.Profiles))
			for _, name := range cfg.ProfileNames() {
				profile, err := cfg.Resolve(name)
				if err != nil {
					return cli.Validation("%w", err)
				}
				account := profile.BaseURL
				if account == "" {
					account = profile.Subdomain
				}
				summaries = append(summaries, profileSummary{
					Name:     name,
					Account:  account,
					Email:    profile.Email,
					Selected: name == selected.Name,
				})
			}

			if done, err := params.EmitJSON(app.Stdout, summaries); done {
				return err
			}
			writer := tabwriter.NewWriter(app.Stdout, 2, 0, 3, ' ', 0)
			for _, summary := range summaries {
				marker := " "
				if summary.Selected {
					marker = "*"
				}
				fmt.Fprintf(writer, "%s %s\t%s\t%s\n", marker, summary.Name, summary.Account, summary.Email)
			}
			return writer.Flush()
		},
	}
}
