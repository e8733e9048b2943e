// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package campfire

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/pinder-chat/pinder/lib/markup"
)

// Message is one chat message. See markup.Message.
type Message = markup.Message

// PresenceWindow is how long after the last ping the service still
// counts a session as present in a room. Ping without force only
// renews presence inside this window.
const PresenceWindow = 60 * time.Second

// Room is a chat room reached through a Client. The zero value is not
// usable; rooms come from Client.NewRoom, FindRoomByName, CreateRoom
// or Rooms.
type Room struct {
	client *Client
	id     string

	mu        sync.Mutex
	name      string
	page      *markup.RoomPage
	cursor    RoomState
	idleSince time.Time
}

// RoomState is the persistable polling state of a joined room.
type RoomState struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MembershipKey string `json:"membership_key,omitempty"`
	UserID        string `json:"user_id,omitempty"`
	LastCacheID   string `json:"last_cache_id,omitempty"`
	Timestamp     string `json:"timestamp,omitempty"`
}

// Joined reports whether the state carries polling variables.
func (s RoomState) Joined() bool {
	return s.MembershipKey != ""
}

// NewRoom returns a handle to the room with the given id. No request
// is made.
func (c *Client) NewRoom(id, name string) *Room {
	return &Room{
		client:    c,
		id:        id,
		name:      name,
		cursor:    RoomState{ID: id, Name: name},
		idleSince: c.clock.Now(),
	}
}

// ID returns the numeric room id.
func (r *Room) ID() string { return r.id }

// Name returns the room name as last known locally.
func (r *Room) Name() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name
}

// URI returns the absolute URI of the room page.
func (r *Room) URI() string { return r.client.URIFor(r.path("")) }

// Client returns the session the room belongs to.
func (r *Room) Client() *Client { return r.client }

// Equal reports whether two rooms have the same id. Names are ignored.
func (r *Room) Equal(other *Room) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.id == other.id
}

func (r *Room) String() string {
	return fmt.Sprintf("%s (%s)", r.Name(), r.id)
}

func (r *Room) path(suffix string) string {
	if suffix == "" {
		return "room/" + r.id
	}
	return "room/" + r.id + "/" + suffix
}

// State returns the room's polling state.
func (r *Room) State() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	state := r.cursor
	state.Name = r.name
	return state
}

// RestoreState installs saved polling variables so Messages resumes
// from the saved cursor without fetching the room page. The state must
// belong to this room.
func (r *Room) RestoreState(state RoomState) error {
	if state.ID != r.id {
		return fmt.Errorf("campfire: restoring room %s: state belongs to room %s", r.id, state.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursor = state
	if state.Name != "" {
		r.name = state.Name
	}
	return nil
}

// Joined reports whether the room has polling variables from a join or
// a restored state.
func (r *Room) Joined() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursor.Joined()
}

// Join enters the room. The room page is fetched and scraped unless it
// was already fetched and force is false. An unforced fetch keeps a
// restored polling position (last cache id and timestamp) so messages
// posted since it was saved are still delivered; a forced join starts
// from the page's position. A fresh fetch is followed by a forced
// Ping, otherwise presence is renewed only inside the window. A failed
// ping does not fail the join.
func (r *Room) Join(ctx context.Context, force bool) error {
	r.mu.Lock()
	fetched := r.page != nil
	r.mu.Unlock()

	refreshed := !fetched || force
	if refreshed {
		if err := r.fetchPage(ctx, !force); err != nil {
			return err
		}
	}

	if _, err := r.Ping(ctx, refreshed); err != nil {
		r.client.logger.Warn("presence ping after join failed", "room", r.id, "error", err)
	}
	return nil
}

func (r *Room) fetchPage(ctx context.Context, keepPosition bool) error {
	response, err := r.client.get(ctx, r.path(""), false)
	if err != nil {
		r.clearState()
		return fmt.Errorf("campfire: joining room %s: %w", r.id, err)
	}
	if err := check("join room "+r.id, response, ExpectSuccess); err != nil {
		r.clearState()
		return err
	}
	page, err := markup.ParseRoomPage(response.Body)
	if err != nil {
		r.clearState()
		return fmt.Errorf("campfire: joining room %s: %w", r.id, err)
	}

	r.mu.Lock()
	cursor := RoomState{
		ID:            r.id,
		Name:          r.name,
		MembershipKey: page.MembershipKey,
		UserID:        page.UserID,
		LastCacheID:   page.LastCacheID,
		Timestamp:     page.Timestamp,
	}
	if keepPosition && r.cursor.Joined() && r.cursor.LastCacheID != "" {
		cursor.LastCacheID = r.cursor.LastCacheID
		cursor.Timestamp = r.cursor.Timestamp
	}
	r.page = &page
	r.cursor = cursor
	r.mu.Unlock()

	r.client.logger.Debug("joined room", "room", r.id, "last_cache_id", page.LastCacheID)
	return nil
}

func (r *Room) clearState() {
	r.mu.Lock()
	r.page = nil
	r.cursor = RoomState{ID: r.id, Name: r.name}
	r.mu.Unlock()
}

// joinedPage joins if needed and returns the scraped room page.
func (r *Room) joinedPage(ctx context.Context) (markup.RoomPage, error) {
	if err := r.Join(ctx, false); err != nil {
		return markup.RoomPage{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.page == nil {
		return markup.RoomPage{}, ErrNotJoined
	}
	return *r.page, nil
}

// Leave exits the room. The local polling state is discarded whatever
// the outcome; the server confirms by redirecting.
func (r *Room) Leave(ctx context.Context) error {
	response, err := r.client.post(ctx, r.path("leave"), nil, false)
	r.clearState()
	r.mu.Lock()
	r.idleSince = time.Time{}
	r.mu.Unlock()
	if err != nil {
		return fmt.Errorf("campfire: leaving room %s: %w", r.id, err)
	}
	return check("leave room "+r.id, response, ExpectRedirect)
}

// ToggleGuestAccess turns guest access on or off, then re-fetches the
// room page so GuestURL reflects the new setting. The polling position
// is kept.
func (r *Room) ToggleGuestAccess(ctx context.Context) error {
	response, err := r.client.post(ctx, r.path("toggle_guest_access"), nil, false)
	if err != nil {
		return fmt.Errorf("campfire: toggling guest access for room %s: %w", r.id, err)
	}
	if err := check("toggle guest access for room "+r.id, response, ExpectSuccess); err != nil {
		return err
	}
	if err := r.fetchPage(ctx, true); err != nil {
		return err
	}
	if _, err := r.Ping(ctx, true); err != nil {
		r.client.logger.Warn("presence ping after guest access change failed", "room", r.id, "error", err)
	}
	return nil
}

// GuestURL returns the guest access link, or "" when guest access is
// off. Joins the room if needed.
func (r *Room) GuestURL(ctx context.Context) (string, error) {
	page, err := r.joinedPage(ctx)
	if err != nil {
		return "", err
	}
	return page.GuestURL, nil
}

// GuestAccessEnabled reports whether the room has a guest link.
func (r *Room) GuestAccessEnabled(ctx context.Context) (bool, error) {
	guestURL, err := r.GuestURL(ctx)
	if err != nil {
		return false, err
	}
	return guestURL != "", nil
}

// GuestInviteCode returns the last path segment of the guest link, or
// "" when guest access is off.
func (r *Room) GuestInviteCode(ctx context.Context) (string, error) {
	guestURL, err := r.GuestURL(ctx)
	if err != nil {
		return "", err
	}
	return markup.InviteCodeFromURL(guestURL), nil
}

// Rename changes the room name and updates the local name.
func (r *Room) Rename(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("campfire: rename room %s: name is required", r.id)
	}
	form := url.Values{"room[name]": {name}}
	response, err := r.client.post(ctx, "account/edit/room/"+r.id, form, true)
	if err != nil {
		return fmt.Errorf("campfire: renaming room %s: %w", r.id, err)
	}
	if err := check("rename room "+r.id, response, ExpectSuccess); err != nil {
		return err
	}
	r.mu.Lock()
	r.name = name
	r.cursor.Name = name
	r.mu.Unlock()
	return nil
}

// ChangeTopic sets the room topic. The cached room page keeps the old
// topic until the next forced join.
func (r *Room) ChangeTopic(ctx context.Context, topic string) error {
	form := url.Values{"room[topic]": {topic}}
	response, err := r.client.post(ctx, r.path("change_topic"), form, true)
	if err != nil {
		return fmt.Errorf("campfire: changing topic of room %s: %w", r.id, err)
	}
	if err := check("change topic of room "+r.id, response, ExpectSuccess); err != nil {
		return err
	}
	r.mu.Lock()
	if r.page != nil {
		r.page.Topic = topic
	}
	r.mu.Unlock()
	return nil
}

// Topic returns the room topic, or "" when none is set. Joins the room
// if needed.
func (r *Room) Topic(ctx context.Context) (string, error) {
	page, err := r.joinedPage(ctx)
	if err != nil {
		return "", err
	}
	return page.Topic, nil
}

// Lock prevents others from entering the room.
func (r *Room) Lock(ctx context.Context) error {
	return r.ajaxAction(ctx, "lock", "lock room")
}

// Unlock reopens a locked room.
func (r *Room) Unlock(ctx context.Context) error {
	return r.ajaxAction(ctx, "unlock", "unlock room")
}

func (r *Room) ajaxAction(ctx context.Context, suffix, operation string) error {
	response, err := r.client.post(ctx, r.path(suffix), nil, true)
	if err != nil {
		return fmt.Errorf("campfire: %s %s: %w", operation, r.id, err)
	}
	return check(operation+" "+r.id, response, ExpectSuccess)
}

// Ping renews presence in the room. Without force it only pings while
// the previous ping is younger than PresenceWindow; an expired session
// must re-join instead. sent reports whether a ping went out.
func (r *Room) Ping(ctx context.Context, force bool) (sent bool, err error) {
	now := r.client.clock.Now()
	r.mu.Lock()
	due := force || now.Sub(r.idleSince) < PresenceWindow
	if due {
		r.idleSince = now
	}
	r.mu.Unlock()
	if !due {
		return false, nil
	}

	response, err := r.client.post(ctx, r.path("tabs"), nil, true)
	if err != nil {
		return false, fmt.Errorf("campfire: pinging room %s: %w", r.id, err)
	}
	if err := check("ping room "+r.id, response, ExpectSuccess); err != nil {
		return false, err
	}
	return true, nil
}

// Destroy deletes the room. Administrators only.
func (r *Room) Destroy(ctx context.Context) error {
	response, err := r.client.post(ctx, "account/delete/room/"+r.id, nil, false)
	if err != nil {
		return fmt.Errorf("campfire: destroying room %s: %w", r.id, err)
	}
	if err := check("destroy room "+r.id, response, ExpectSuccess); err != nil {
		return err
	}
	r.clearState()
	r.client.logger.Info("room destroyed", "room", r.id)
	return nil
}

// Users returns the names of the people chatting in this room.
func (r *Room) Users(ctx context.Context) ([]string, error) {
	return r.client.Users(ctx, r.Name())
}

// Speak sends a chat message. Joins the room if needed.
func (r *Room) Speak(ctx context.Context, message string) error {
	return r.send(ctx, message, false)
}

// Paste sends a message rendered as a fixed-width paste. Joins the
// room if needed.
func (r *Room) Paste(ctx context.Context, message string) error {
	return r.send(ctx, message, true)
}

func (r *Room) send(ctx context.Context, message string, paste bool) error {
	if message == "" {
		return fmt.Errorf("campfire: speak in room %s: message is empty", r.id)
	}
	if err := r.Join(ctx, false); err != nil {
		return err
	}
	form := url.Values{
		"message": {message},
		"t":       {strconv.FormatInt(r.client.clock.Now().Unix(), 10)},
	}
	if paste {
		form.Set("paste", "true")
	}
	response, err := r.client.post(ctx, r.path("speak"), form, true)
	if err != nil {
		return fmt.Errorf("campfire: speaking in room %s: %w", r.id, err)
	}
	return check("speak in room "+r.id, response, ExpectSuccess)
}

// Messages polls for messages posted since the last poll and advances
// the cursor. The room must be joined (or restored) first; otherwise
// ErrNotJoined is returned. A poll with nothing new returns an empty
// slice.
func (r *Room) Messages(ctx context.Context) ([]Message, error) {
	r.mu.Lock()
	state := r.cursor
	r.mu.Unlock()
	if !state.Joined() {
		return nil, fmt.Errorf("%w: room %s", ErrNotJoined, r.id)
	}

	form := url.Values{
		"l": {state.LastCacheID},
		"m": {state.MembershipKey},
		"s": {state.Timestamp},
		"t": {strconv.FormatInt(r.client.clock.Now().Unix(), 10)},
	}
	response, err := r.client.post(ctx, "poll.fcgi", form, true)
	if err != nil {
		return nil, fmt.Errorf("campfire: polling room %s: %w", r.id, err)
	}
	if err := check("poll room "+r.id, response, ExpectSuccess); err != nil {
		return nil, err
	}

	cursor, messages := markup.ParsePoll(response.Body)
	if cursor != "" {
		r.mu.Lock()
		// A concurrent re-join may have replaced the cursor meanwhile.
		if r.cursor.MembershipKey == state.MembershipKey {
			r.cursor.LastCacheID = cursor
		}
		r.mu.Unlock()
	}
	if messages == nil {
		messages = []Message{}
	}
	return messages, nil
}

// Transcripts returns the dates this room has transcripts for.
func (r *Room) Transcripts(ctx context.Context) ([]time.Time, error) {
	return r.client.RoomTranscripts(ctx, r.id)
}

// Transcript returns the messages of the room's transcript for the
// calendar date of date.
func (r *Room) Transcript(ctx context.Context, date time.Time) ([]Message, error) {
	path := r.path("transcript/" + date.Format(markup.TranscriptDateLayout))
	response, err := r.client.get(ctx, path, false)
	if err != nil {
		return nil, fmt.Errorf("campfire: fetching transcript of room %s for %s: %w",
			r.id, date.Format(time.DateOnly), err)
	}
	if err := check("fetch transcript of room "+r.id, response, ExpectSuccess); err != nil {
		return nil, err
	}
	messages, err := markup.ParseTranscript(response.Body)
	if err != nil {
		return nil, fmt.Errorf("campfire: parsing transcript of room %s: %w", r.id, err)
	}
	return messages, nil
}
