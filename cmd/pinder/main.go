// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

// Pinder is a command-line client for Campfire chat. See
// "pinder --help" for the commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pinder-chat/pinder/cmd/pinder/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output (like "room find")
		// return an ExitError with the desired exit code. Don't print
		// a redundant "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	if len(args) == 1 && (args[0] == "--version" || args[0] == "-V") {
		args = []string{"version"}
	}
	return commands.Default().Root().Execute(ctx, args)
}
