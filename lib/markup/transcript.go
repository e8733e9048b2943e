// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package markup

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
)

var (
	transcriptDatePattern = regexp.MustCompile(`/transcript/(\d{4}/\d{2}/\d{2})`)
	messageIDPattern      = regexp.MustCompile(`message_(\d+)`)
	userIDPattern         = regexp.MustCompile(`user_(\d+)`)
)

// ParseTranscriptIndex extracts the transcript links from the files
// and transcripts page. Each element whose class list contains
// "transcript" contributes its first link; links without a room id or
// a date are skipped. Entries are returned in document order.
func ParseTranscriptIndex(body []byte) ([]TranscriptEntry, error) {
	document, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	var entries []TranscriptEntry
	for _, node := range findAll(document, hasClass("transcript")) {
		link := findFirst(node, isTag("a"))
		if link == nil {
			continue
		}
		href := attribute(link, "href")
		roomID := RoomIDFromURI(href)
		dateMatch := transcriptDatePattern.FindStringSubmatch(href)
		if roomID == "" || dateMatch == nil {
			continue
		}
		date, err := time.Parse(TranscriptDateLayout, dateMatch[1])
		if err != nil {
			continue
		}
		entries = append(entries, TranscriptEntry{RoomID: roomID, Date: date})
	}
	return entries, nil
}

// ParseTranscript extracts the messages of a transcript page. Message
// rows are elements whose class list contains "message" and whose id
// carries "message_N". The author comes from the ".person" cell (its
// span when present), the text from the "td.body" cell's div.
func ParseTranscript(body []byte) ([]Message, error) {
	document, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	var messages []Message
	for _, row := range findAll(document, hasClass("message")) {
		idMatch := messageIDPattern.FindStringSubmatch(attribute(row, "id"))
		if idMatch == nil {
			continue
		}
		message := Message{ID: idMatch[1]}

		if userMatch := userIDPattern.FindStringSubmatch(attribute(row, "class")); userMatch != nil {
			message.UserID = userMatch[1]
		}

		if person := findFirst(row, hasClass("person")); person != nil {
			if span := findFirst(person, isTag("span")); span != nil {
				message.Person = strings.TrimSpace(textContent(span))
			} else {
				message.Person = strings.TrimSpace(textContent(person))
			}
		}

		bodyCell := findFirst(row, func(node *html.Node) bool {
			return node.Data == "td" && hasClass("body")(node)
		})
		if bodyCell != nil {
			if div := findFirst(bodyCell, isTag("div")); div != nil {
				message.Body = strings.TrimSpace(textContent(div))
			}
		}

		messages = append(messages, message)
	}
	return messages, nil
}
