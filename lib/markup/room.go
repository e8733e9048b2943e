// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package markup

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrIncompleteRoomPage is returned by ParseRoomPage when the page
// lacks one of the polling variables. This happens when the session
// was redirected to a login or "room full" page instead of the room.
var ErrIncompleteRoomPage = errors.New("markup: room page is missing session variables")

var (
	membershipKeyPattern = regexp.MustCompile(`"membershipKey": "([a-z0-9]+)"`)
	userIDVarPattern     = regexp.MustCompile(`"userID": (\d+)`)
	lastCacheIDPattern   = regexp.MustCompile(`"lastCacheID": (\d+)`)
	timestampPattern     = regexp.MustCompile(`"timestamp": (\d+)`)
)

// ParseRoomPage extracts the session variables, guest access URL and
// topic from a room page. The session variables live in an inline
// script object; all four must be present.
func ParseRoomPage(body []byte) (RoomPage, error) {
	var page RoomPage
	var missing []string

	capture := func(name string, pattern *regexp.Regexp, target *string) {
		match := pattern.FindSubmatch(body)
		if match == nil {
			missing = append(missing, name)
			return
		}
		*target = string(match[1])
	}
	capture("membershipKey", membershipKeyPattern, &page.MembershipKey)
	capture("userID", userIDVarPattern, &page.UserID)
	capture("lastCacheID", lastCacheIDPattern, &page.LastCacheID)
	capture("timestamp", timestampPattern, &page.Timestamp)
	if len(missing) > 0 {
		return RoomPage{}, fmt.Errorf("%w: %s", ErrIncompleteRoomPage, strings.Join(missing, ", "))
	}

	document, err := parseDocument(body)
	if err != nil {
		return RoomPage{}, err
	}

	if control := findFirst(document, hasID("guest_access_control")); control != nil && control.Data == "div" {
		if heading := findFirst(control, isTag("h4")); heading != nil {
			page.GuestURL = strings.TrimSpace(textContent(heading))
		}
	}

	if topic := findFirst(document, hasID("topic")); topic != nil {
		page.Topic = strings.TrimSpace(ownText(topic))
	}

	return page, nil
}
