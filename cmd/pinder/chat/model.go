// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pinder-chat/pinder/campfire"
	"github.com/pinder-chat/pinder/lib/render"
)

// Room is the part of *campfire.Room the chat view drives.
type Room interface {
	Name() string
	Messages(ctx context.Context) ([]campfire.Message, error)
	Speak(ctx context.Context, message string) error
	Paste(ctx context.Context, message string) error
	Ping(ctx context.Context, force bool) (bool, error)
}

// Options configures the chat view.
type Options struct {
	// PollInterval is the delay between polls. Zero means
	// campfire.DefaultPollInterval.
	PollInterval time.Duration
	// Render is passed to the message renderer. Width is replaced by
	// the terminal width.
	Render render.Options
	// Now supplies the time for presence renewal. Defaults to time.Now.
	Now func() time.Time
}

// pollMsg asks for the next poll.
type pollMsg struct{}

// messagesMsg carries the result of one poll.
type messagesMsg struct {
	Messages []campfire.Message
	Err      error
}

// sentMsg reports the outcome of a speak or paste.
type sentMsg struct {
	Err error
}

// headerHeight and footerHeight are the lines around the viewport.
const (
	headerHeight = 1
	footerHeight = 2
)

// Model is the bubbletea model of the chat view.
type Model struct {
	ctx     context.Context
	room    Room
	options Options
	keys    KeyMap

	viewport viewport.Model
	input    textinput.Model
	renderer *render.Renderer

	messages []campfire.Message
	width    int
	ready    bool

	lastPing time.Time
	sending  bool
	status   string
	errorLog bool

	headerStyle lipgloss.Style
	statusStyle lipgloss.Style
	errorStyle  lipgloss.Style
}

// NewModel returns the chat model for room. ctx bounds every request
// the model issues.
func NewModel(ctx context.Context, room Room, options Options) Model {
	if options.PollInterval <= 0 {
		options.PollInterval = campfire.DefaultPollInterval
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	input := textinput.New()
	input.Placeholder = "Say something to " + room.Name()
	input.Prompt = "> "
	input.Focus()

	model := Model{
		ctx:         ctx,
		room:        room,
		options:     options,
		keys:        DefaultKeyMap,
		viewport:    viewport.New(80, 20),
		input:       input,
		headerStyle: lipgloss.NewStyle().Bold(true).Reverse(true),
		statusStyle: lipgloss.NewStyle().Faint(true),
		errorStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
	model.renderer = render.New(io.Discard, model.renderOptions())
	return model
}

func (model Model) renderOptions() render.Options {
	options := model.options.Render
	options.Width = model.width
	return options
}

// Init starts the cursor blink and the first poll.
func (model Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg { return pollMsg{} })
}

// Update handles one message.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.resize(message.Width, message.Height)
		return model, nil

	case tea.KeyMsg:
		return model.handleKey(message)

	case pollMsg:
		command := model.poll()
		return model, command

	case messagesMsg:
		if message.Err != nil {
			model.setStatus(fmt.Sprintf("poll failed: %v", message.Err), true)
		} else if len(message.Messages) > 0 {
			atBottom := model.viewport.AtBottom()
			model.messages = append(model.messages, message.Messages...)
			model.refresh()
			if atBottom {
				model.viewport.GotoBottom()
			}
		}
		return model, tea.Tick(model.options.PollInterval, func(time.Time) tea.Msg { return pollMsg{} })

	case sentMsg:
		model.sending = false
		if message.Err != nil {
			model.setStatus(fmt.Sprintf("send failed: %v", message.Err), true)
		} else {
			model.setStatus("", false)
		}
		return model, nil

	case logRecordMsg:
		model.setStatus(message.Summary, message.Level >= slog.LevelWarn)
		return model, nil
	}

	var command tea.Cmd
	model.input, command = model.input.Update(message)
	return model, command
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(message, model.keys.PageUp):
		model.viewport.SetYOffset(model.viewport.YOffset - model.viewport.Height/2)
		return model, nil
	case key.Matches(message, model.keys.PageDown):
		model.viewport.SetYOffset(model.viewport.YOffset + model.viewport.Height/2)
		return model, nil
	case key.Matches(message, model.keys.Bottom):
		model.viewport.GotoBottom()
		return model, nil
	case key.Matches(message, model.keys.Send):
		return model.submit()
	}

	var command tea.Cmd
	model.input, command = model.input.Update(message)
	return model, command
}

// submit sends the input line. Sends are serialized: while one is in
// flight the line stays in the input.
func (model Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(model.input.Value())
	if line == "" || model.sending {
		return model, nil
	}

	switch {
	case line == "/quit":
		return model, tea.Quit
	case strings.HasPrefix(line, "/paste "):
		text := strings.TrimSpace(strings.TrimPrefix(line, "/paste "))
		model.input.Reset()
		model.sending = true
		return model, model.send(text, true)
	case strings.HasPrefix(line, "/"):
		model.setStatus(fmt.Sprintf("unknown command %s (try /paste or /quit)", strings.Fields(line)[0]), true)
		return model, nil
	}

	model.input.Reset()
	model.sending = true
	return model, model.send(line, false)
}

func (model Model) send(text string, paste bool) tea.Cmd {
	ctx, room := model.ctx, model.room
	return func() tea.Msg {
		if paste {
			return sentMsg{Err: room.Paste(ctx, text)}
		}
		return sentMsg{Err: room.Speak(ctx, text)}
	}
}

// poll fetches new messages, renewing presence first when a window
// has passed since the last renewal.
func (model *Model) poll() tea.Cmd {
	ctx, room := model.ctx, model.room
	now := model.options.Now()
	renew := now.Sub(model.lastPing) >= campfire.PresenceWindow
	if renew {
		model.lastPing = now
	}
	return func() tea.Msg {
		if renew {
			if _, err := room.Ping(ctx, true); err != nil {
				return messagesMsg{Err: fmt.Errorf("renewing presence: %w", err)}
			}
		}
		messages, err := room.Messages(ctx)
		return messagesMsg{Messages: messages, Err: err}
	}
}

func (model *Model) resize(width, height int) {
	model.width = width
	model.viewport.Width = width
	model.viewport.Height = max(height-headerHeight-footerHeight, 1)
	model.input.Width = max(width-len(model.input.Prompt)-1, 1)
	model.renderer = render.New(io.Discard, model.renderOptions())
	model.ready = true
	model.refresh()
	model.viewport.GotoBottom()
}

// refresh re-renders every message into the viewport.
func (model *Model) refresh() {
	model.viewport.SetContent(strings.TrimRight(model.renderer.Messages(model.messages), "\n"))
}

func (model *Model) setStatus(status string, isError bool) {
	model.status = status
	model.errorLog = isError
}

// View renders the header, transcript, input and status line.
func (model Model) View() string {
	if !model.ready {
		return "Joining " + model.room.Name() + "..."
	}

	header := model.headerStyle.Width(model.width).Render(" " + model.room.Name())
	status := model.statusStyle.Render(model.keys.helpLine())
	if model.status != "" {
		style := model.statusStyle
		if model.errorLog {
			style = model.errorStyle
		}
		status = style.Render(model.status)
	}
	return header + "\n" + model.viewport.View() + "\n" + model.input.View() + "\n" + status
}

// Messages returns every message received so far.
func (model Model) Messages() []campfire.Message {
	return model.messages
}
