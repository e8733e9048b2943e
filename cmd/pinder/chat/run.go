// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the chat view for room until the user quits or ctx is
// cancelled. When logs is non-nil it is attached to the program so
// the client's log records land in the status line.
func Run(ctx context.Context, room Room, options Options, logs *LogHandler) (Model, error) {
	program := tea.NewProgram(NewModel(ctx, room, options), tea.WithAltScreen(), tea.WithContext(ctx))
	if logs != nil {
		logs.SetProgram(program)
	}

	final, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	model, _ := final.(Model)
	return model, err
}
