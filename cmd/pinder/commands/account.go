// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/pinder-chat/pinder/campfire"
	"github.com/pinder-chat/pinder/cmd/pinder/cli"
	"github.com/pinder-chat/pinder/lib/config"
	"github.com/pinder-chat/pinder/lib/secret"
	"github.com/pinder-chat/pinder/lib/sessionstore"
)

// accountParams selects the account a command acts on. Embedded in
// every params struct that talks to the service.
type accountParams struct {
	ConfigPath string `json:"-" flag:"config,c" desc:"config file (default: $PINDER_CONFIG; none means flags only)"`
	Profile    string `json:"-" flag:"profile,p" desc:"config profile to use"`
	Subdomain  string `json:"-" flag:"subdomain" desc:"account subdomain (overrides the profile)"`
	BaseURL    string `json:"-" flag:"base-url" desc:"account base URL (overrides the subdomain)"`
	Email      string `json:"-" flag:"email" desc:"login email (overrides the profile)"`
}

// account is an opened account: resolved config, a client with the
// saved session restored, and the store to write it back to.
type account struct {
	config  *config.Config
	profile config.Profile
	client  *campfire.Client
	store   *sessionstore.Store
	key     string
	logger  *slog.Logger

	passphrase *secret.Buffer
	rooms      []campfire.RoomState
}

// openAccount resolves params against the config file, builds the
// client and restores the saved session. The caller must close the
// account.
func (app *App) openAccount(params accountParams, logger *slog.Logger) (*account, error) {
	configPath := params.ConfigPath
	if configPath == "" {
		configPath = app.Getenv(config.EnvironmentVariable)
	}
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid config %s:\n%w", configPath, err)
	}
	profile, err := cfg.Resolve(params.Profile)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	if params.Subdomain != "" {
		profile.Subdomain = params.Subdomain
		profile.BaseURL = ""
	}
	if params.BaseURL != "" {
		profile.BaseURL = params.BaseURL
	}
	if params.Email != "" {
		profile.Email = params.Email
	}
	if profile.Subdomain == "" && profile.BaseURL == "" {
		return nil, cli.Validation("no account selected: pass --subdomain or configure a profile (see --config)")
	}
	if err := cfg.EnsurePaths(); err != nil {
		return nil, cli.Internal("%w", err)
	}

	opened := &account{config: cfg, profile: profile, logger: logger}
	if profile.PassphraseFile != "" {
		opened.passphrase, err = cli.ReadSecret(profile.PassphraseFile, "Session passphrase", "passphrase_file")
		if err != nil {
			return nil, err
		}
	}

	opened.store, err = sessionstore.Open(sessionstore.Config{
		Directory:  cfg.Paths.Sessions,
		Passphrase: opened.passphrase,
		Logger:     logger,
	})
	if err != nil {
		opened.Close()
		return nil, cli.Internal("%w", err)
	}

	opened.client, err = campfire.NewClient(campfire.ClientConfig{
		Subdomain:  profile.Subdomain,
		SSL:        profile.SSL,
		BaseURL:    profile.BaseURL,
		HTTPClient: app.HTTPClient,
		Timeout:    profile.Timeout,
		Logger:     logger,
	})
	if err != nil {
		opened.Close()
		return nil, cli.Validation("%w", err)
	}
	opened.key = sessionstore.Key(opened.client.URI(), profile.Email)

	if err := opened.restore(); err != nil {
		opened.Close()
		return nil, err
	}
	return opened, nil
}

func (a *account) restore() error {
	var state campfire.SessionState
	err := a.store.Load(a.key, &state)
	switch {
	case errors.Is(err, sessionstore.ErrNoSession):
		return nil
	case errors.Is(err, sessionstore.ErrPassphraseRequired):
		return cli.Validation("%w (set passphrase_file in the profile)", err)
	case err != nil:
		return cli.Internal("loading session: %w", err)
	}

	if err := a.client.Restore(state); err != nil {
		// A session saved for another URL under the same key is stale,
		// not fatal: the user logs in again.
		a.logger.Warn("ignoring saved session", "error", err)
		return nil
	}
	a.rooms = state.Rooms
	return nil
}

// Save writes the session and remembered room cursors.
func (a *account) Save() error {
	state := a.client.Snapshot()
	state.Rooms = a.rooms
	if err := a.store.Save(a.key, state); err != nil {
		return cli.Internal("saving session: %w", err)
	}
	return nil
}

// Forget deletes the saved session.
func (a *account) Forget() error {
	a.rooms = nil
	if err := a.store.Delete(a.key); err != nil {
		return cli.Internal("deleting session: %w", err)
	}
	return nil
}

// Close releases the passphrase and idle connections.
func (a *account) Close() {
	if a.passphrase != nil {
		a.passphrase.Close()
	}
	if a.client != nil {
		a.client.CloseIdleConnections()
	}
}

// requireLogin fails unless the restored session is logged in.
func (a *account) requireLogin() error {
	if !a.client.LoggedIn() {
		return cli.Forbidden("not logged in to %s (run 'pinder login')", a.client.URI())
	}
	return nil
}

// Room finds a room by name. A saved polling cursor for it is
// restored. Unknown names get a suggestion from the lobby.
func (a *account) Room(ctx context.Context, name string) (*campfire.Room, error) {
	if err := a.requireLogin(); err != nil {
		return nil, err
	}
	room, err := a.client.FindRoomByName(ctx, name)
	if errors.Is(err, campfire.ErrRoomNotFound) {
		return nil, a.roomNotFound(ctx, name)
	}
	if err != nil {
		return nil, cli.Classify(fmt.Errorf("finding room %q: %w", name, err))
	}

	index := slices.IndexFunc(a.rooms, func(state campfire.RoomState) bool { return state.ID == room.ID() })
	if index >= 0 && a.rooms[index].Joined() {
		if err := room.RestoreState(a.rooms[index]); err != nil {
			return nil, cli.Internal("%w", err)
		}
	}
	return room, nil
}

func (a *account) roomNotFound(ctx context.Context, name string) error {
	names, err := a.client.RoomNames(ctx)
	if err == nil {
		if suggestion := cli.Closest(name, names); suggestion != "" {
			return cli.NotFound("no room named %q (did you mean %q?)", name, suggestion)
		}
	}
	return cli.NotFound("no room named %q", name)
}

// Remember records room's polling cursor for the next Save. Rooms
// that are not joined are dropped.
func (a *account) Remember(room *campfire.Room) {
	a.rooms = slices.DeleteFunc(a.rooms, func(state campfire.RoomState) bool { return state.ID == room.ID() })
	if state := room.State(); state.Joined() {
		a.rooms = append(a.rooms, state)
	}
}
