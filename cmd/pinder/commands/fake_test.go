// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	testEmail    = "tom@example.com"
	testPassword = "hunter2"
	testCookie   = "session_id"
)

const lobbyPage = `<html><body><div id="rooms">
  <div id="room_12345" class="room available">
    <h2><a href="/room/12345">Room A</a></h2>
    <ul class="participant-list">
      <li class="user"><span>Tom Jones</span></li>
      <li class="user"><span>Gloria Estefan</span></li>
    </ul>
  </div>
  <div id="room_3" class="room available">
    <h2><a href="/room/3">Room C</a></h2>
    <ul class="participant-list">
      <li class="user"><span>Ann Wilson</span></li>
    </ul>
  </div>
</div></body></html>`

const roomPage = `<html><head><script type="text/javascript">
  chat = new Campfire.Chat({"membershipKey": "0123abcd", "userID": 4242, "lastCacheID": 987654, "timestamp": 1199145600});
</script></head><body>
<h2 id="topic">Release planning</h2>
<div id="guest_access_control"><h4>http://sample.campfirenow.com/99d14</h4></div>
</body></html>`

const transcriptIndexPage = `<html><body><table>
  <tr class="transcript"><td><a href="/room/12345/transcript/2001/09/11">Sep 11</a></td></tr>
  <tr class="transcript"><td><a href="/room/3/transcript/2008/02/29">Feb 29</a></td></tr>
</table></body></html>`

const transcriptPage = `<html><body><table class="chat">
  <tr class="text_message message user_4242" id="message_101">
    <td class="person"><span>Tom Jones</span></td>
    <td class="body"><div>It's not unusual</div></td>
  </tr>
  <tr class="enter_message message user_77" id="message_102">
    <td class="person"></td>
    <td class="body"><div>Ann Wilson has entered the room</div></td>
  </tr>
</table></body></html>`

const pollResponse = "try {\n" +
	`chat.poller.lastCacheID = 987700;` + "\n" +
	`chat.transcript.queueMessage("\u003Ctr class=\"text_message message user_77\" id=\"message_987700\"\u003E\u003Ctd class=\"person\"\u003EGloria\u003C\/td\u003E\u003Ctd class=\"body\"\u003E\u003Cdiv\u003Ehi\u003C\/div\u003E\u003C\/td\u003E\u003C\/tr\u003E");` + "\n" +
	"} catch(e) {}\n"

const emptyPollResponse = "try {\n} catch(e) {}\n"

// fakeService is a minimal Campfire account behind httptest. Every
// route but /login requires the session cookie.
type fakeService struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	requests []serviceRequest
	polls    []string
	onPoll   func(count int)
}

type serviceRequest struct {
	Method string
	Path   string
	Form   url.Values
	Cookie string
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()
	service := &fakeService{t: t, polls: []string{pollResponse}}
	service.server = httptest.NewServer(service)
	t.Cleanup(service.server.Close)
	return service
}

func (s *fakeService) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseForm(); err != nil {
		s.t.Errorf("parsing form: %v", err)
	}
	path := request.URL.EscapedPath()
	s.mu.Lock()
	s.requests = append(s.requests, serviceRequest{
		Method: request.Method,
		Path:   path,
		Form:   request.PostForm,
		Cookie: request.Header.Get("Cookie"),
	})
	s.mu.Unlock()

	route := request.Method + " " + path
	if route == "POST /login" {
		if request.PostForm.Get("email_address") != testEmail || request.PostForm.Get("password") != testPassword {
			respondHTML(writer, http.StatusOK, "<html><body>Login failed</body></html>")
			return
		}
		http.SetCookie(writer, &http.Cookie{Name: "session", Value: testCookie})
		writer.Header().Set("Location", s.server.URL+"/")
		writer.WriteHeader(http.StatusFound)
		return
	}
	if !strings.Contains(request.Header.Get("Cookie"), "session="+testCookie) {
		writer.Header().Set("Location", s.server.URL+"/login")
		writer.WriteHeader(http.StatusFound)
		return
	}

	switch route {
	case "GET /logout":
		writer.Header().Set("Location", s.server.URL+"/login")
		writer.WriteHeader(http.StatusFound)
	case "GET /":
		respondHTML(writer, http.StatusOK, lobbyPage)
	case "GET /room/12345":
		respondHTML(writer, http.StatusOK, roomPage)
	case "POST /room/12345/tabs", "POST /room/12345/speak", "POST /room/12345/change_topic":
		respondHTML(writer, http.StatusOK, "")
	case "GET /files%2Btranscripts":
		respondHTML(writer, http.StatusOK, transcriptIndexPage)
	case "GET /room/12345/transcript/2001/09/11":
		respondHTML(writer, http.StatusOK, transcriptPage)
	case "POST /poll.fcgi":
		s.mu.Lock()
		body := emptyPollResponse
		if len(s.polls) > 0 {
			body, s.polls = s.polls[0], s.polls[1:]
		}
		count := len(s.matchingLocked("POST", "/poll.fcgi"))
		onPoll := s.onPoll
		s.mu.Unlock()
		respondHTML(writer, http.StatusOK, body)
		if onPoll != nil {
			onPoll(count)
		}
	default:
		http.NotFound(writer, request)
	}
}

func respondHTML(writer http.ResponseWriter, status int, body string) {
	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(status)
	io.WriteString(writer, body)
}

func (s *fakeService) matchingLocked(method, path string) []serviceRequest {
	var result []serviceRequest
	for _, request := range s.requests {
		if request.Method == method && request.Path == path {
			result = append(result, request)
		}
	}
	return result
}

func (s *fakeService) matching(method, path string) []serviceRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matchingLocked(method, path)
}

// testEnv is a config file pointing at a fake service plus captured
// output streams.
type testEnv struct {
	t       *testing.T
	service *fakeService
	root    string
	config  string
	stdin   *bytes.Buffer
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	service := newFakeService(t)
	root := t.TempDir()
	passwordFile := filepath.Join(root, "password")
	if err := os.WriteFile(passwordFile, []byte(testPassword+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	configFile := filepath.Join(root, "pinder.yaml")
	configText := "paths:\n" +
		"  root: " + root + "\n" +
		"defaults:\n" +
		"  base_url: " + service.server.URL + "\n" +
		"  email: " + testEmail + "\n" +
		"  password_file: " + passwordFile + "\n" +
		"chat:\n" +
		"  poll_interval: 10ms\n"
	if err := os.WriteFile(configFile, []byte(configText), 0o600); err != nil {
		t.Fatal(err)
	}
	return &testEnv{
		t:       t,
		service: service,
		root:    root,
		config:  configFile,
		stdin:   &bytes.Buffer{},
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
	}
}

// run executes the command line with the test config and returns the
// error. Output accumulates in stdout and stderr.
func (e *testEnv) run(ctx context.Context, args ...string) error {
	e.t.Helper()
	app := &App{
		Stdin:  e.stdin,
		Stdout: e.stdout,
		Stderr: e.stderr,
		Now:    func() time.Time { return time.Date(2001, 9, 12, 8, 30, 0, 0, time.UTC) },
		Getenv: func(name string) string {
			if name == "PINDER_CONFIG" {
				return e.config
			}
			return ""
		},
	}
	root := app.Root()
	root.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return root.Execute(ctx, args)
}

// mustRun runs the command line and fails the test on error.
func (e *testEnv) mustRun(args ...string) {
	e.t.Helper()
	if err := e.run(e.t.Context(), args...); err != nil {
		e.t.Fatalf("pinder %s: %v\nstderr: %s", strings.Join(args, " "), err, e.stderr.String())
	}
}

// loggedIn returns an env whose session store holds a logged-in
// session.
func loggedIn(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	env.mustRun("login")
	env.stdout.Reset()
	env.stderr.Reset()
	return env
}
