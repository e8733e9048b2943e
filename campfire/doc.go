// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package campfire is a client for a hosted Campfire-style chat service
// that has no public API. It drives the same HTML forms a browser
// would: it logs in by posting the login form, carries the session
// cookie the server sets, and scrapes server-rendered pages (through
// [github.com/pinder-chat/pinder/lib/markup]) for rooms, users,
// topics, messages and transcripts.
//
// [Client] is the session. It holds the account's base URI
// (http[s]://<subdomain>.campfirenow.com), the session cookie and the
// HTTP transport, and it issues every request. Requests never follow
// redirects: the service reports a successful login by redirecting to
// the lobby and a successful logout or room leave by redirecting
// anywhere, so the redirect itself is the result. Each Set-Cookie
// header received replaces the stored value of that cookie, and the
// stored cookies ride on every later request.
//
// Success or failure of an operation is decided by an [Expectation]
// (exactly 200, any 3xx, or a 3xx to a specific location). Operations
// whose response does not meet their expectation return a
// [*ResponseError]; [IsResponseError] and errors.As extract it.
//
// [Room] is a chat room. Joining fetches the room page and scrapes the
// per-session polling variables (membership key, user id, last cache
// id, timestamp). [Room.Messages] polls for new messages using those
// variables and advances the cursor; [Room.Watch] repeats the poll on
// an interval. Rooms share their parent Client, so logging out of the
// Client invalidates every Room derived from it.
//
// Client and Room are safe for concurrent use, but the service expects
// one browser-like session: requests are issued one at a time by the
// caller and nothing here fans out.
package campfire
