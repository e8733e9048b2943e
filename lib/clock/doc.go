// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock instead of calling time.Now,
// time.After, or time.Sleep directly. In production, Real() provides
// the standard library behavior. In tests, Fake() provides a
// deterministic clock that advances only when Advance is called.
//
// The chat client uses it in two places: a room's idle window (pings
// are only sent while the room was active within the last minute) and
// the polling interval of Room.Watch.
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	room := client.NewRoom("42", "Lobby", campfire.WithClock(c))
//	go room.Watch(ctx, 2*time.Second, handler)
//	c.WaitForTimers(1)        // wait for Watch to register its timer
//	c.Advance(2 * time.Second) // deterministically fires the next poll
package clock
