// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package markup

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// The poll endpoint answers with JavaScript that inserts table rows.
// The row markup is embedded in JS string literals, so "<" arrives as
// < and quotes as \". Slashes may or may not be escaped.
var (
	pollCursorPattern = regexp.MustCompile(`lastCacheID = (\d+)`)
	pollPersonPattern = regexp.MustCompile(
		`\\u003Ctd class=\\"person\\"\\u003E(?:\\u003Cspan\\u003E)?(.+?)(?:\\u003C\\?/span\\u003E)?\\u003C\\?/td\\u003E`)
	pollBodyPattern = regexp.MustCompile(
		`\\u003Ctd class=\\"body\\"\\u003E\\u003Cdiv\\u003E(.+?)\\u003C\\?/div\\u003E\\u003C\\?/td\\u003E`)
)

// ParsePoll extracts the new polling cursor and the messages from a
// poll response. cursor is "" when the response did not advance it.
//
// Each line mentioning "message_N" describes one message. Timestamp
// rows are ignored, and a line that lacks the user id, person cell, or
// body cell is skipped. Person and body are decoded from their
// JavaScript and HTML escaping.
func ParsePoll(body []byte) (cursor string, messages []Message) {
	if match := pollCursorPattern.FindSubmatch(body); match != nil {
		cursor = string(match[1])
	}

	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.Contains(line, "timestamp_message") {
			continue
		}
		idMatch := messageIDPattern.FindStringSubmatch(line)
		if idMatch == nil {
			continue
		}
		userMatch := userIDPattern.FindStringSubmatch(line)
		personMatch := pollPersonPattern.FindStringSubmatch(line)
		bodyMatch := pollBodyPattern.FindStringSubmatch(line)
		if userMatch == nil || personMatch == nil || bodyMatch == nil {
			continue
		}
		messages = append(messages, Message{
			ID:     idMatch[1],
			UserID: userMatch[1],
			Person: unescapeFragment(personMatch[1]),
			Body:   unescapeFragment(bodyMatch[1]),
		})
	}
	return cursor, messages
}

// unescapeFragment decodes a JavaScript string fragment and then the
// HTML entities inside it. Fragments that are not valid JS escapes are
// returned HTML-unescaped only.
func unescapeFragment(fragment string) string {
	decoded := strings.ReplaceAll(fragment, `\/`, "/")
	if unquoted, err := strconv.Unquote(`"` + decoded + `"`); err == nil {
		decoded = unquoted
	}
	return html.UnescapeString(decoded)
}
