// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pinder-chat/pinder/cmd/pinder/cli"
)

type loginParams struct {
	accountParams
	PasswordFile string `json:"-" flag:"password-file" desc:"file containing the password, or - to read stdin (default: the profile's, else prompt)"`
}

func (app *App) loginCommand() *cli.Command {
	var params loginParams

	return &cli.Command{
		Name:    "login",
		Summary: "Log in and save the session",
		Description: `Log in to the account and save the session cookies.

Later commands reuse the saved session, so the password is only needed
again after "pinder logout" or when the service expires the session.
Sessions are stored under paths.sessions, encrypted when the profile
names a passphrase_file.`,
		Usage: "pinder login [flags]",
		Examples: []cli.Example{
			{Description: "Log in with the default profile (prompts for the password)", Command: "pinder login"},
			{Description: "Log in without a config file", Command: "pinder login --subdomain acme --email tom@example.com"},
		},
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

			if opened.profile.Email == "" {
				return cli.Validation("no email configured: pass --email or set email in the profile")
			}
			passwordFile := params.PasswordFile
			if passwordFile == "" {
				passwordFile = opened.profile.PasswordFile
			}
			password, err := cli.ReadSecret(passwordFile, "Password", "--password-file")
			if err != nil {
				return err
			}
			defer password.Close()

			if err := opened.client.Login(ctx, opened.profile.Email, password); err != nil {
				return cli.Classify(fmt.Errorf("logging in to %s: %w", opened.client.URI(), err))
			}
			if err := opened.Save(); err != nil {
				return err
			}
			fmt.Fprintf(app.Stderr, "Logged in to %s as %s\n", opened.client.URI(), opened.profile.Email)
			return nil
		},
	}
}

func (app *App) logoutCommand() *cli.Command {
	var params accountParams

	return &cli.Command{
		Name:    "logout",
		Summary: "Log out and forget the saved session",
		Usage:   "pinder logout [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			opened, err := app.openAccount(params, logger)
			if err != nil {
				return err
			}
			defer opened.Close()

			if opened.client.LoggedIn() {
				if err := opened.client.Logout(ctx); err != nil {
					// The local session is dropped either way; a failed
					// remote logout only leaves a cookie that expires.
					logger.Warn("remote logout failed", "error", err)
				}
			}
			if err := opened.Forget(); err != nil {
				return err
			}
			fmt.Fprintf(app.Stderr, "Logged out of %s\n", opened.client.URI())
			return nil
		},
	}
}
