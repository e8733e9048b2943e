// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"hash/fnv"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/pinder-chat/pinder/lib/markup"
)

// DefaultStyle is the chroma style used when Options.Style is empty.
const DefaultStyle = "monokai"

// personColors are ANSI 256 colors that read well on dark and light
// backgrounds. A person keeps the same color across runs.
var personColors = []lipgloss.Color{"39", "208", "170", "114", "214", "75", "204", "150", "141", "180"}

// Options configures a Renderer.
type Options struct {
	// Width wraps message bodies. Zero disables wrapping.
	Width int
	// Color enables ANSI 256 color output.
	Color bool
	// Style is the chroma style for pastes.
	Style string
	// SelfUserID marks messages by the logged-in user.
	SelfUserID string
}

// Renderer formats messages for a terminal.
type Renderer struct {
	options Options
	lip     *lipgloss.Renderer

	personStyle lipgloss.Style
	selfStyle   lipgloss.Style
	noticeStyle lipgloss.Style
}

// New returns a Renderer writing escape sequences suitable for w.
func New(w io.Writer, options Options) *Renderer {
	if options.Style == "" {
		options.Style = DefaultStyle
	}
	// The profile is forced rather than detected so the Color option
	// alone decides, including under test with no TTY.
	profile := termenv.Ascii
	if options.Color {
		profile = termenv.ANSI256
	}
	lip := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	lip.SetColorProfile(profile)

	return &Renderer{
		options:     options,
		lip:         lip,
		personStyle: lip.NewStyle().Bold(true),
		selfStyle:   lip.NewStyle().Bold(true).Underline(true),
		noticeStyle: lip.NewStyle().Faint(true).Italic(true),
	}
}

// Message renders one message. Messages without an author (enter and
// leave notices) render as a faint notice line.
func (r *Renderer) Message(message markup.Message) string {
	if message.Person == "" {
		return renderLines(r.noticeStyle, "* "+r.wrap(message.Body, 2))
	}

	name := r.nameStyle(message).Render(message.Person)
	if strings.Contains(message.Body, "\n") {
		return name + ":\n" + indent(r.paste(message.Body), "    ")
	}

	return name + ": " + r.wrap(message.Body, ansi.StringWidth(message.Person)+2)
}

// Messages renders each message on its own line(s).
func (r *Renderer) Messages(messages []markup.Message) string {
	var builder strings.Builder
	for _, message := range messages {
		builder.WriteString(r.Message(message))
		builder.WriteByte('\n')
	}
	return builder.String()
}

func (r *Renderer) nameStyle(message markup.Message) lipgloss.Style {
	if r.options.SelfUserID != "" && message.UserID == r.options.SelfUserID {
		return r.selfStyle
	}
	return r.personStyle.Foreground(PersonColor(message.Person))
}

// PersonColor returns the stable color for a display name.
func PersonColor(person string) lipgloss.Color {
	hash := fnv.New32a()
	hash.Write([]byte(person))
	return personColors[hash.Sum32()%uint32(len(personColors))]
}

// wrap word-wraps text that starts hang columns in, indenting
// continuation lines to line up under the first.
func (r *Renderer) wrap(text string, hang int) string {
	if r.options.Width <= hang+10 {
		return text
	}
	wrapped := ansi.Wrap(text, r.options.Width-hang, " ,.;-+|")
	lines := strings.Split(wrapped, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = strings.Repeat(" ", hang) + lines[i]
	}
	return strings.Join(lines, "\n")
}

// paste highlights a multi-line body when color is on and chroma can
// guess its language.
func (r *Renderer) paste(body string) string {
	if !r.options.Color {
		return body
	}
	language := GuessLanguage(body)
	if language == "" {
		return body
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, body, language, "terminal256", r.options.Style); err != nil {
		return body
	}
	return strings.TrimRight(buffer.String(), "\n")
}

// GuessLanguage returns the chroma lexer name for text, or "" when no
// lexer claims it.
func GuessLanguage(text string) string {
	lexer := lexers.Analyse(text)
	if lexer == nil {
		return ""
	}
	return lexer.Config().Name
}

// renderLines styles each line on its own so lipgloss does not pad
// wrapped text out to a block.
func renderLines(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
