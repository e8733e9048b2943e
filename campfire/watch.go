// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package campfire

import (
	"context"
	"time"
)

// DefaultPollInterval is the delay between polls when Watch is given a
// non-positive interval.
const DefaultPollInterval = 3 * time.Second

// MessageHandler receives each non-empty batch of polled messages. A
// non-nil error stops Watch and is returned from it.
type MessageHandler func([]Message) error

// Watch polls the room for new messages until ctx is cancelled, the
// handler returns an error, or a poll fails. Polls run one at a time,
// interval apart, and presence is renewed with a forced ping once per
// PresenceWindow. The room must be joined first. Watch returns
// ctx.Err() on cancellation.
func (r *Room) Watch(ctx context.Context, interval time.Duration, handler MessageHandler) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	clk := r.client.clock
	lastPing := clk.Now()

	for {
		messages, err := r.Messages(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if len(messages) > 0 {
			if err := handler(messages); err != nil {
				return err
			}
		}

		if now := clk.Now(); now.Sub(lastPing) >= PresenceWindow {
			lastPing = now
			if _, err := r.Ping(ctx, true); err != nil && ctx.Err() == nil {
				r.client.logger.Warn("presence ping failed", "room", r.id, "error", err)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clk.After(interval):
		}
	}
}
