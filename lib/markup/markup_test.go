// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package markup

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseLobby(t *testing.T) {
	rooms, err := ParseLobby([]byte(lobbyPage))
	if err != nil {
		t.Fatalf("ParseLobby failed: %v", err)
	}

	want := []LobbyRoom{
		{
			Name:        "Room A",
			Href:        "http://sample.campfirenow.com/room/12345",
			HasUserList: true,
			Users:       []string{"Tom Jones", "Gloria Estefan"},
		},
		{Name: "Room B"},
	}
	if diff := cmp.Diff(want, rooms); diff != "" {
		t.Errorf("ParseLobby mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLobbyNoRooms(t *testing.T) {
	rooms, err := ParseLobby([]byte(`<html><body><p>No rooms yet</p></body></html>`))
	if err != nil {
		t.Fatalf("ParseLobby failed: %v", err)
	}
	if len(rooms) != 0 {
		t.Errorf("expected no rooms, got %v", rooms)
	}
}

func TestRoomIDFromURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"http://www.google.com", ""},
		{"http://foo.campfirenow.com/room/1234/foo/bar", "1234"},
		{"/room/12345/transcript/2001/09/11", "12345"},
		{"/room/", ""},
	}
	for _, test := range tests {
		if got := RoomIDFromURI(test.uri); got != test.want {
			t.Errorf("RoomIDFromURI(%q) = %q, want %q", test.uri, got, test.want)
		}
	}
}

func TestInviteCodeFromURL(t *testing.T) {
	if got := InviteCodeFromURL("http://sample.campfirenow.com/99d14"); got != "99d14" {
		t.Errorf("InviteCodeFromURL = %q, want %q", got, "99d14")
	}
	if got := InviteCodeFromURL(""); got != "" {
		t.Errorf("InviteCodeFromURL(\"\") = %q, want empty", got)
	}
}

func TestParseTranscriptIndex(t *testing.T) {
	entries, err := ParseTranscriptIndex([]byte(transcriptIndexPage))
	if err != nil {
		t.Fatalf("ParseTranscriptIndex failed: %v", err)
	}

	date := func(year int, month time.Month, day int) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}
	want := []TranscriptEntry{
		{RoomID: "12345", Date: date(2001, time.September, 11)},
		{RoomID: "12345", Date: date(2001, time.September, 12)},
		{RoomID: "67890", Date: date(2008, time.February, 29)},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("ParseTranscriptIndex mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTranscript(t *testing.T) {
	messages, err := ParseTranscript([]byte(transcriptPage))
	if err != nil {
		t.Fatalf("ParseTranscript failed: %v", err)
	}

	want := []Message{
		{ID: "100"},
		{ID: "101", UserID: "4242", Person: "Tom Jones", Body: "It's not unusual"},
		{ID: "102", Person: "Gloria Estefan", Body: "has entered the room"},
	}
	if diff := cmp.Diff(want, messages); diff != "" {
		t.Errorf("ParseTranscript mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRoomPage(t *testing.T) {
	page, err := ParseRoomPage([]byte(roomPage))
	if err != nil {
		t.Fatalf("ParseRoomPage failed: %v", err)
	}

	want := RoomPage{
		MembershipKey: "0123abcd",
		UserID:        "4242",
		LastCacheID:   "987654",
		Timestamp:     "1199145600",
		GuestURL:      "http://sample.campfirenow.com/99d14",
		Topic:         "Release planning",
	}
	if diff := cmp.Diff(want, page); diff != "" {
		t.Errorf("ParseRoomPage mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRoomPageWithoutGuestAccess(t *testing.T) {
	page, err := ParseRoomPage([]byte(roomPageNoGuest))
	if err != nil {
		t.Fatalf("ParseRoomPage failed: %v", err)
	}
	if page.GuestURL != "" {
		t.Errorf("GuestURL = %q, want empty", page.GuestURL)
	}
	if page.Topic != "" {
		t.Errorf("Topic = %q, want empty", page.Topic)
	}
	if page.MembershipKey != "ffee" {
		t.Errorf("MembershipKey = %q, want %q", page.MembershipKey, "ffee")
	}
}

func TestParseRoomPageIncomplete(t *testing.T) {
	_, err := ParseRoomPage([]byte(`<html><body><form action="/login"></form></body></html>`))
	if !errors.Is(err, ErrIncompleteRoomPage) {
		t.Fatalf("expected ErrIncompleteRoomPage, got %v", err)
	}
}

func TestParsePoll(t *testing.T) {
	cursor, messages := ParsePoll([]byte(pollResponse))
	if cursor != "987700" {
		t.Errorf("cursor = %q, want %q", cursor, "987700")
	}

	want := []Message{
		{ID: "987699", UserID: "4242", Person: "Tom Jones", Body: "fish & chips"},
		{ID: "987700", UserID: "77", Person: "Gloria", Body: "hi"},
	}
	if diff := cmp.Diff(want, messages); diff != "" {
		t.Errorf("ParsePoll mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePollEmpty(t *testing.T) {
	cursor, messages := ParsePoll([]byte("try {} catch(e) {}"))
	if cursor != "" {
		t.Errorf("cursor = %q, want empty", cursor)
	}
	if len(messages) != 0 {
		t.Errorf("expected no messages, got %v", messages)
	}
}

func TestUnescapeFragment(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`plain`, "plain"},
		{`a &amp; b`, "a & b"},
		{`http:\/\/example.com`, "http://example.com"},
		{`say \"hi\"`, `say "hi"`},
		{`bare " quote`, `bare " quote`},
	}
	for _, test := range tests {
		if got := unescapeFragment(test.input); got != test.want {
			t.Errorf("unescapeFragment(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}
