// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package campfire

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/pinder-chat/pinder/lib/clock"
)

const lobbyPage = `<html><body><div id="rooms">
  <div id="room_12345" class="room available">
    <h2><a href="/room/12345">Room A</a></h2>
    <ul class="participant-list">
      <li class="user"><span>Tom Jones</span></li>
      <li class="user"><span>Gloria Estefan</span></li>
    </ul>
  </div>
  <div id="room_67890" class="room full"><h2>Room B</h2></div>
  <div id="room_3" class="room available">
    <h2><a href="/room/3">Room C</a></h2>
    <ul class="participant-list">
      <li class="user"><span>Gloria Estefan</span></li>
      <li class="user"><span>Ann Wilson</span></li>
    </ul>
  </div>
</div></body></html>`

const emptyLobbyPage = `<html><body><div id="rooms"></div></body></html>`

const roomPage = `<html><head><script type="text/javascript">
  chat = new Campfire.Chat({"membershipKey": "0123abcd", "userID": 4242, "lastCacheID": 987654, "timestamp": 1199145600});
</script></head><body>
<h2 id="topic">Release planning <span class="edit"><a href="#">change</a></span></h2>
<div id="guest_access_control"><h4>http://sample.campfirenow.com/99d14</h4></div>
</body></html>`

const roomPageNoGuest = `<html><head><script>
  {"membershipKey": "0123abcd", "userID": 4242, "lastCacheID": 987654, "timestamp": 1199145600}
</script></head><body><h2 id="topic"></h2>
<div id="guest_access_control"><p>off</p></div></body></html>`

const transcriptIndexPage = `<html><body><table>
  <tr class="transcript"><td><a href="/room/12345/transcript/2001/09/11">Sep 11</a></td></tr>
  <tr class="transcript"><td><a href="/room/67890/transcript/2008/02/29">Feb 29</a></td></tr>
  <tr class="transcript"><td><a href="/room/12345/transcript/2001/09/12">Sep 12</a></td></tr>
</table></body></html>`

const transcriptPage = `<html><body><table class="chat">
  <tr class="text_message message user_4242" id="message_101">
    <td class="person"><span>Tom Jones</span></td>
    <td class="body"><div>It's not unusual</div></td>
  </tr>
</table></body></html>`

const pollResponse = "try {\n" +
	`chat.poller.lastCacheID = 987700;` + "\n" +
	`chat.transcript.queueMessage("\u003Ctr class=\"text_message message user_4242\" id=\"message_987699\"\u003E\u003Ctd class=\"person\"\u003E\u003Cspan\u003ETom Jones\u003C/span\u003E\u003C/td\u003E\u003Ctd class=\"body\"\u003E\u003Cdiv\u003Efish &amp; chips\u003C/div\u003E\u003C/td\u003E\u003C/tr\u003E");` + "\n" +
	`chat.transcript.queueMessage("\u003Ctr class=\"text_message message user_77\" id=\"message_987700\"\u003E\u003Ctd class=\"person\"\u003EGloria\u003C\/td\u003E\u003Ctd class=\"body\"\u003E\u003Cdiv\u003Ehi\u003C\/div\u003E\u003C\/td\u003E\u003C\/tr\u003E");` + "\n" +
	"} catch(e) {}\n"

const emptyPollResponse = "try {\n} catch(e) {}\n"

// testEpoch is the fake clock's start time.
var testEpoch = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Form   url.Values
	Header http.Header
}

// fakeCampfire is an httptest server that routes by method and escaped
// path and records every request it receives.
type fakeCampfire struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []recordedRequest
}

func newFakeCampfire(t *testing.T) *fakeCampfire {
	t.Helper()
	fake := &fakeCampfire{t: t, routes: make(map[string]http.HandlerFunc)}
	fake.server = httptest.NewServer(fake)
	t.Cleanup(fake.server.Close)
	return fake
}

func (f *fakeCampfire) handle(method, path string, handler http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = handler
}

func (f *fakeCampfire) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseForm(); err != nil {
		f.t.Errorf("parsing form of %s %s: %v", request.Method, request.URL, err)
	}
	path := request.URL.EscapedPath()

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: request.Method,
		Path:   path,
		Query:  request.URL.Query(),
		Form:   request.PostForm,
		Header: request.Header.Clone(),
	})
	handler := f.routes[request.Method+" "+path]
	f.mu.Unlock()

	if handler == nil {
		http.NotFound(writer, request)
		return
	}
	handler(writer, request)
}

// matching returns the recorded requests for method and path.
func (f *fakeCampfire) matching(method, path string) []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []recordedRequest
	for _, request := range f.requests {
		if request.Method == method && request.Path == path {
			result = append(result, request)
		}
	}
	return result
}

func (f *fakeCampfire) count(method, path string) int {
	return len(f.matching(method, path))
}

// last returns the most recent request for method and path, failing
// the test when there is none.
func (f *fakeCampfire) last(method, path string) recordedRequest {
	f.t.Helper()
	requests := f.matching(method, path)
	if len(requests) == 0 {
		f.t.Fatalf("no %s %s request recorded", method, path)
	}
	return requests[len(requests)-1]
}

func respond(status int, body string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "text/html; charset=utf-8")
		writer.WriteHeader(status)
		writer.Write([]byte(body))
	}
}

func redirect(location string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Location", location)
		writer.WriteHeader(http.StatusFound)
	}
}

func newTestClient(t *testing.T, fake *fakeCampfire, clk clock.Clock) *Client {
	t.Helper()
	if clk == nil {
		clk = clock.Fake(testEpoch)
	}
	client, err := NewClient(ClientConfig{
		BaseURL: fake.server.URL,
		Clock:   clk,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(client.CloseIdleConnections)
	return client
}

// joinedRoom returns room 12345 after a successful join against fake.
func joinedRoom(t *testing.T, fake *fakeCampfire, client *Client) *Room {
	t.Helper()
	fake.handle("GET", "/room/12345", respond(http.StatusOK, roomPage))
	fake.handle("POST", "/room/12345/tabs", respond(http.StatusOK, ""))
	room := client.NewRoom("12345", "Room A")
	if err := room.Join(t.Context(), false); err != nil {
		t.Fatalf("Join: %v", err)
	}
	return room
}
