// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package markup

import "time"

// Message is one chat message scraped from a poll response or a
// transcript page.
type Message struct {
	// ID is the numeric message id from the "message_N" element id.
	ID string `json:"id"`
	// UserID is the numeric author id from the "user_N" class, or ""
	// for messages with no author (enter/leave notices, timestamps).
	UserID string `json:"user_id,omitempty"`
	// Person is the display name of the author, or "".
	Person string `json:"person,omitempty"`
	// Body is the message text, or "".
	Body string `json:"body,omitempty"`
}

// LobbyRoom is one room entry from the lobby page.
type LobbyRoom struct {
	// Name is the room name as displayed.
	Name string `json:"name"`
	// Href is the room link, or "" when the room is full and rendered
	// without one.
	Href string `json:"href,omitempty"`
	// HasUserList reports whether the entry carried a user list at all.
	// An empty room has no list, which differs from an empty list.
	HasUserList bool `json:"-"`
	// Users are the names of the people currently chatting in the room.
	Users []string `json:"users,omitempty"`
}

// TranscriptEntry is one link from the transcript index.
type TranscriptEntry struct {
	RoomID string    `json:"room_id"`
	Date   time.Time `json:"date"`
}

// RoomPage holds the per-session values scraped from a room page.
type RoomPage struct {
	// MembershipKey identifies this session's membership in the room.
	MembershipKey string
	// UserID is the numeric id of the logged-in user.
	UserID string
	// LastCacheID is the polling cursor: the id of the newest message
	// already delivered.
	LastCacheID string
	// Timestamp is the server's page timestamp, echoed back on polls.
	Timestamp string
	// GuestURL is the guest access link, or "" when guest access is off.
	GuestURL string
	// Topic is the room topic, or "".
	Topic string
}

// TranscriptDateLayout is the date format used in transcript paths
// ("room/42/transcript/2026/01/31").
const TranscriptDateLayout = "2006/01/02"
