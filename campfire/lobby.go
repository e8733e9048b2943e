// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package campfire

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pinder-chat/pinder/lib/markup"
)

// Paths relative to the account base URI.
const (
	lobbyPath       = ""
	createRoomPath  = "account/create/room?from=lobby"
	transcriptsPath = "files%2Btranscripts"
)

// lobby fetches and scrapes the lobby page.
func (c *Client) lobby(ctx context.Context) ([]markup.LobbyRoom, error) {
	response, err := c.get(ctx, lobbyPath, false)
	if err != nil {
		return nil, fmt.Errorf("campfire: fetching lobby: %w", err)
	}
	if err := check("fetch lobby", response, ExpectSuccess); err != nil {
		return nil, err
	}
	rooms, err := markup.ParseLobby(response.Body)
	if err != nil {
		return nil, fmt.Errorf("campfire: parsing lobby: %w", err)
	}
	return rooms, nil
}

// CreateRoom creates a room and returns it. The service answers the
// create request without the new room's id, so the room is looked up
// in the lobby afterwards.
func (c *Client) CreateRoom(ctx context.Context, name, topic string) (*Room, error) {
	if name == "" {
		return nil, fmt.Errorf("campfire: create room: name is required")
	}
	form := url.Values{
		"room[name]":  {name},
		"room[topic]": {topic},
	}
	response, err := c.post(ctx, createRoomPath, form, true)
	if err != nil {
		return nil, fmt.Errorf("campfire: creating room %q: %w", name, err)
	}
	if err := check(fmt.Sprintf("create room %q", name), response, ExpectSuccess); err != nil {
		return nil, err
	}
	c.logger.Info("room created", "name", name)
	return c.FindRoomByName(ctx, name)
}

// FindRoomByName returns the lobby room whose name matches name,
// ignoring case. It returns ErrRoomNotFound when no room matches, or
// when the match is rendered without a link (a full room).
func (c *Client) FindRoomByName(ctx context.Context, name string) (*Room, error) {
	rooms, err := c.lobby(ctx)
	if err != nil {
		return nil, err
	}
	for _, room := range rooms {
		if !strings.EqualFold(room.Name, name) {
			continue
		}
		roomID := markup.RoomIDFromURI(room.Href)
		if roomID == "" {
			return nil, fmt.Errorf("%w: %q has no link (room full?)", ErrRoomNotFound, name)
		}
		return c.NewRoom(roomID, room.Name), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrRoomNotFound, name)
}

// FindOrCreateRoomByName returns the room named name, creating it
// with an empty topic when the lobby has no such room.
func (c *Client) FindOrCreateRoomByName(ctx context.Context, name string) (*Room, error) {
	room, err := c.FindRoomByName(ctx, name)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, ErrRoomNotFound) {
		return nil, err
	}
	return c.CreateRoom(ctx, name, "")
}

// Users returns the names of the people chatting in the given rooms
// (all rooms when none are given), each name once, in lobby order.
// Room names match ignoring case. Rooms with no user list are skipped.
func (c *Client) Users(ctx context.Context, roomNames ...string) ([]string, error) {
	rooms, err := c.lobby(ctx)
	if err != nil {
		return nil, err
	}

	var wanted map[string]bool
	if len(roomNames) > 0 {
		wanted = make(map[string]bool, len(roomNames))
		for _, name := range roomNames {
			wanted[strings.ToLower(name)] = true
		}
	}

	seen := make(map[string]bool)
	users := []string{}
	for _, room := range rooms {
		if wanted != nil && !wanted[strings.ToLower(room.Name)] {
			continue
		}
		if !room.HasUserList {
			continue
		}
		for _, user := range room.Users {
			if !seen[user] {
				seen[user] = true
				users = append(users, user)
			}
		}
	}
	return users, nil
}

// RoomNames returns the names of all lobby rooms, sorted.
func (c *Client) RoomNames(ctx context.Context) ([]string, error) {
	rooms, err := c.lobby(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rooms))
	for _, room := range rooms {
		names = append(names, room.Name)
	}
	sort.Strings(names)
	return names, nil
}

// Rooms returns a Room for every lobby room that has a link, sorted by
// name. Full rooms, rendered without a link, are omitted because their
// id cannot be known.
func (c *Client) Rooms(ctx context.Context) ([]*Room, error) {
	lobbyRooms, err := c.lobby(ctx)
	if err != nil {
		return nil, err
	}
	rooms := make([]*Room, 0, len(lobbyRooms))
	for _, lobbyRoom := range lobbyRooms {
		roomID := markup.RoomIDFromURI(lobbyRoom.Href)
		if roomID == "" {
			c.logger.Debug("skipping lobby room without link", "name", lobbyRoom.Name)
			continue
		}
		rooms = append(rooms, c.NewRoom(roomID, lobbyRoom.Name))
	}
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].Name() < rooms[j].Name()
	})
	return rooms, nil
}

// Transcripts returns the dates of available transcripts keyed by room
// id, newest first as the service lists them.
func (c *Client) Transcripts(ctx context.Context) (map[string][]time.Time, error) {
	entries, err := c.transcriptIndex(ctx, "")
	if err != nil {
		return nil, err
	}
	result := make(map[string][]time.Time)
	for _, entry := range entries {
		result[entry.RoomID] = append(result[entry.RoomID], entry.Date)
	}
	return result, nil
}

// RoomTranscripts returns the transcript dates of one room. A room
// without transcripts yields an empty slice.
func (c *Client) RoomTranscripts(ctx context.Context, roomID string) ([]time.Time, error) {
	entries, err := c.transcriptIndex(ctx, roomID)
	if err != nil {
		return nil, err
	}
	dates := []time.Time{}
	for _, entry := range entries {
		if entry.RoomID == roomID {
			dates = append(dates, entry.Date)
		}
	}
	return dates, nil
}

func (c *Client) transcriptIndex(ctx context.Context, roomID string) ([]markup.TranscriptEntry, error) {
	path := transcriptsPath
	if roomID != "" {
		path += "?room_id=" + url.QueryEscape(roomID)
	}
	response, err := c.get(ctx, path, false)
	if err != nil {
		return nil, fmt.Errorf("campfire: fetching transcript index: %w", err)
	}
	if err := check("fetch transcript index", response, ExpectSuccess); err != nil {
		return nil, err
	}
	entries, err := markup.ParseTranscriptIndex(response.Body)
	if err != nil {
		return nil, fmt.Errorf("campfire: parsing transcript index: %w", err)
	}
	return entries, nil
}

// RoomIDFromURI extracts the numeric room id from a room URI such as
// "https://acme.campfirenow.com/room/42". It returns "" when the URI
// has no room segment.
func RoomIDFromURI(uri string) string {
	return markup.RoomIDFromURI(uri)
}
