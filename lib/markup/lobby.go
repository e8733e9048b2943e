// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package markup

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	roomIDPattern     = regexp.MustCompile(`room/(\d*)`)
	inviteCodePattern = regexp.MustCompile(`/(\w*)$`)
)

// ParseLobby extracts the room entries from the lobby page. Room
// entries are div elements whose id starts with "room_". The room name
// is the text of the heading link, or of the bare heading when the
// room is full and rendered without a link.
func ParseLobby(body []byte) ([]LobbyRoom, error) {
	document, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	entries := findAll(document, func(node *html.Node) bool {
		return node.Data == "div" && strings.HasPrefix(attribute(node, "id"), "room_")
	})

	rooms := make([]LobbyRoom, 0, len(entries))
	for _, entry := range entries {
		heading := findFirst(entry, isTag("h2"))
		if heading == nil {
			continue
		}

		var room LobbyRoom
		if link := findFirst(heading, isTag("a")); link != nil {
			room.Name = strings.TrimSpace(textContent(link))
			room.Href = attribute(link, "href")
		} else {
			room.Name = strings.TrimSpace(textContent(heading))
		}

		if list := findFirst(entry, isTag("ul")); list != nil {
			room.HasUserList = true
			for _, span := range findAll(list, isTag("span")) {
				room.Users = append(room.Users, strings.TrimSpace(textContent(span)))
			}
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// RoomIDFromURI returns the numeric room id following "room/" in uri,
// or "" when uri does not reference a room.
func RoomIDFromURI(uri string) string {
	match := roomIDPattern.FindStringSubmatch(uri)
	if match == nil {
		return ""
	}
	return match[1]
}

// InviteCodeFromURL returns the last path segment of a guest access
// URL ("http://sample.campfirenow.com/99d14" yields "99d14").
func InviteCodeFromURL(guestURL string) string {
	match := inviteCodePattern.FindStringSubmatch(guestURL)
	if match == nil {
		return ""
	}
	return match[1]
}
