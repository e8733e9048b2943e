// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the chat view.
type KeyMap struct {
	Send     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Bottom   key.Binding
	Quit     key.Binding
}

// DefaultKeyMap is the built-in key binding set. Letters are left to
// the input line, so scrolling uses page keys only.
var DefaultKeyMap = KeyMap{
	Send: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "scroll up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "scroll down"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("ctrl+g", "latest"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "quit"),
	),
}

// helpLine renders the bindings for the status line.
func (keys KeyMap) helpLine() string {
	bindings := []key.Binding{keys.Send, keys.PageUp, keys.PageDown, keys.Bottom, keys.Quit}
	line := ""
	for index, binding := range bindings {
		if index > 0 {
			line += "  "
		}
		help := binding.Help()
		line += help.Key + " " + help.Desc
	}
	return line
}
