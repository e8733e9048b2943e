// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/pinder-chat/pinder/lib/markup"
)

var transcriptMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// markdownEscaper backslash-escapes the characters Markdown would
// otherwise interpret inside a message body.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`, `[`, `\[`, `]`, `\]`,
	`<`, `\<`, `>`, `\>`, `#`, `\#`, `|`, `\|`, `~`, `\~`,
)

// TranscriptMarkdown renders a transcript as Markdown: a heading with
// the room and date, one bullet per message, and pastes as fenced code
// blocks.
func TranscriptMarkdown(roomName string, date time.Time, messages []markup.Message) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "# %s, %s\n\n", markdownEscaper.Replace(roomName), date.Format("Monday 2 January 2006"))
	if len(messages) == 0 {
		builder.WriteString("_No messages._\n")
		return builder.String()
	}

	for _, message := range messages {
		switch {
		case message.Person == "":
			fmt.Fprintf(&builder, "- _%s_\n", markdownEscaper.Replace(message.Body))
		case strings.Contains(message.Body, "\n"):
			fmt.Fprintf(&builder, "- **%s** pasted:\n\n", markdownEscaper.Replace(message.Person))
			builder.WriteString(indentLines(fence(message.Body), "  "))
			builder.WriteString("\n")
		default:
			fmt.Fprintf(&builder, "- **%s**: %s\n",
				markdownEscaper.Replace(message.Person), markdownEscaper.Replace(message.Body))
		}
	}
	return builder.String()
}

// TranscriptHTML renders a transcript as a standalone HTML page.
func TranscriptHTML(roomName string, date time.Time, messages []markup.Message) (string, error) {
	var body bytes.Buffer
	if err := transcriptMarkdown.Convert([]byte(TranscriptMarkdown(roomName, date, messages)), &body); err != nil {
		return "", fmt.Errorf("render: converting transcript: %w", err)
	}
	title := html.EscapeString(fmt.Sprintf("%s, %s", roomName, date.Format(time.DateOnly)))
	return "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>" + title +
		"</title></head>\n<body>\n" + body.String() + "</body></html>\n", nil
}

// fence wraps a paste in a fenced code block tagged with its guessed
// language. The fence is longer than any backtick run in the body.
func fence(body string) string {
	marker := "```"
	for strings.Contains(body, marker) {
		marker += "`"
	}
	language := ""
	if lexer := lexers.Analyse(body); lexer != nil && len(lexer.Config().Aliases) > 0 {
		language = lexer.Config().Aliases[0]
	}
	return marker + language + "\n" + strings.TrimRight(body, "\n") + "\n" + marker + "\n"
}

func indentLines(text, prefix string) string {
	lines := strings.SplitAfter(text, "\n")
	var builder strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		if line != "\n" {
			builder.WriteString(prefix)
		}
		builder.WriteString(line)
	}
	return builder.String()
}
