// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pinder-chat/pinder/cmd/pinder/cli"
	"github.com/pinder-chat/pinder/lib/archive"
	"github.com/pinder-chat/pinder/lib/codec"
	"github.com/pinder-chat/pinder/lib/render"
)

// transcriptFormats are the values --format accepts.
var transcriptFormats = []string{"text", "markdown", "html", "json", "archive"}

type transcriptParams struct {
	accountParams
	Format      string `json:"format"      flag:"format,f" desc:"output format: text, markdown, html, json or archive" default:"text"`
	Output      string `json:"output"      flag:"output,o" desc:"write to this file (archive default: paths.archives/<room>-<date>.pndr; - for stdout)"`
	Compression string `json:"compression" flag:"compression" desc:"archive compression: zstd, lz4 or none" default:"zstd"`
}

func (app *App) transcriptCommand() *cli.Command {
	var params transcriptParams

	return &cli.Command{
		Name:    "transcript",
		Summary: "Fetch one day's transcript of a room",
		Description: `Fetch the transcript of a room for one day and print or save it.

The date is YYYY-MM-DD, "today" or "yesterday". The archive format is a
compressed, checksummed file that "pinder archive show" reads back; by
default it is written under paths.archives.`,
		Usage: "pinder transcript <room> <date> [flags]",
		Examples: []cli.Example{
			{Command: "pinder transcript Releases yesterday"},
			{Description: "Publish a day as HTML", Command: "pinder transcript Releases 2026-03-14 -f html -o releases.html"},
			{Description: "Archive a day", Command: "pinder transcript Releases 2026-03-14 -f archive"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 2 {
				return cli.Validation("a room and a date are required")
			}
			if err := validateFormat(params.Format); err != nil {
				return err
			}
			compression, err := archive.ParseCompressionTag(params.Compression)
			if err != nil {
				return cli.Validation("%w", err)
			}
			date, err := parseDate(args[1], app.Now())
			if err != nil {
				return err
			}

			opened, err := app.openAccount(params.accountParams, logger)
			if err != nil {
				return err
			}
			defer opened.Close()
			room, err := opened.Room(ctx, args[0])
			if err != nil {
				return err
			}
			messages, err := room.Transcript(ctx, date)
			if err != nil {
				return cli.Classify(fmt.Errorf("fetching transcript of %s for %s: %w", room, date.Format(time.DateOnly), err))
			}

			transcript := archive.Transcript{RoomID: room.ID(), RoomName: room.Name(), Date: date, Messages: messages}
			output := params.Output
			if output == "" && params.Format == "archive" {
				output = filepath.Join(opened.config.Paths.Archives,
					fmt.Sprintf("%s-%s.pndr", room.ID(), date.Format(time.DateOnly)))
			}
			if err := app.writeTranscript(output, params.Format, transcript, compression, opened.config.Chat.Style); err != nil {
				return err
			}
			if params.Format == "archive" && output != "-" {
				fmt.Fprintf(app.Stderr, "Archived %d messages to %s\n", len(messages), output)
			}
			return nil
		},
	}
}

type archiveShowParams struct {
	Format string `json:"format" flag:"format,f" desc:"output format: text, markdown, html, json or diag (CBOR diagnostic notation)" default:"text"`
	Output string `json:"output" flag:"output,o" desc:"write to this file instead of stdout"`
}

func (app *App) archiveCommand() *cli.Command {
	var params archiveShowParams

	return &cli.Command{
		Name:    "archive",
		Summary: "Read saved transcript archives",
		Subcommands: []*cli.Command{{
			Name:    "show",
			Summary: "Verify an archive and print its transcript",
			Usage:   "pinder archive show <file> [flags]",
			Params:  func() any { return &params },
			Run: func(_ context.Context, args []string, _ *slog.Logger) error {
				if len(args) != 1 {
					return cli.Validation("exactly one archive file is required")
				}
				if params.Format == "archive" {
					return cli.Validation("archive show cannot write the archive format; copy the file instead")
				}
				if params.Format != "diag" {
					if err := validateFormat(params.Format); err != nil {
						return err
					}
				}
				file, err := os.Open(args[0])
				if err != nil {
					return cli.NotFound("%w", err)
				}
				defer file.Close()

				if params.Format == "diag" {
					return app.writeDiagnostic(params.Output, args[0], file)
				}
				transcript, err := archive.Decode(file)
				if err != nil {
					return cli.Validation("%s: %w", args[0], err)
				}
				return app.writeTranscript(params.Output, params.Format, transcript, archive.CompressionNone, "")
			},
		}},
	}
}

func validateFormat(format string) error {
	for _, known := range transcriptFormats {
		if format == known {
			return nil
		}
	}
	return cli.Validation("unknown format %q (want one of %s)", format, strings.Join(transcriptFormats, ", "))
}

// parseDate accepts YYYY-MM-DD, "today" and "yesterday" (relative to
// now, in UTC, which is how the service dates transcripts).
func parseDate(value string, now time.Time) (time.Time, error) {
	today := now.UTC().Truncate(24 * time.Hour)
	switch strings.ToLower(value) {
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	date, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, cli.Validation("invalid date %q (want YYYY-MM-DD, today or yesterday)", value)
	}
	return date, nil
}

// writeTranscript renders transcript in format to path, or to stdout
// when path is "" or "-".
func (app *App) writeTranscript(path, format string, transcript archive.Transcript, compression archive.CompressionTag, style string) (err error) {
	w, closeOutput, err := app.createOutput(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeOutput(); err == nil && closeErr != nil {
			err = cli.Internal("%w", closeErr)
		}
	}()

	switch format {
	case "archive":
		err = archive.Encode(w, transcript, compression)
	case "json":
		err = cli.WriteJSON(w, transcript)
	case "markdown":
		_, err = io.WriteString(w, render.TranscriptMarkdown(transcript.RoomName, transcript.Date, transcript.Messages))
	case "html":
		var page string
		page, err = render.TranscriptHTML(transcript.RoomName, transcript.Date, transcript.Messages)
		if err == nil {
			_, err = io.WriteString(w, page)
		}
	default:
		renderer := render.New(w, render.Options{
			Width: app.terminalWidth(),
			Color: w == app.Stdout && app.stdoutIsTerminal(),
			Style: style,
		})
		_, err = io.WriteString(w, renderer.Messages(transcript.Messages))
	}
	if err != nil {
		return cli.Internal("writing transcript: %w", err)
	}
	return nil
}

// writeDiagnostic prints the archive's verified CBOR payload in
// diagnostic notation, for inspecting archives written by other
// versions.
func (app *App) writeDiagnostic(path, name string, r io.Reader) (err error) {
	payload, err := archive.Payload(r)
	if err != nil {
		return cli.Validation("%s: %w", name, err)
	}
	notation, err := codec.Diagnose(payload)
	if err != nil {
		return cli.Validation("%s: %w", name, err)
	}

	w, closeOutput, err := app.createOutput(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeOutput(); err == nil && closeErr != nil {
			err = cli.Internal("%w", closeErr)
		}
	}()
	if _, err := io.WriteString(w, notation+"\n"); err != nil {
		return cli.Internal("writing diagnostic: %w", err)
	}
	return nil
}

// createOutput opens path for writing, or returns stdout when path is
// "" or "-". The returned close function must be called.
func (app *App) createOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return app.Stdout, func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, cli.Internal("%w", err)
	}
	return file, file.Close, nil
}
