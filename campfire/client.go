// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package campfire

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pinder-chat/pinder/lib/clock"
	"github.com/pinder-chat/pinder/lib/netutil"
	"github.com/pinder-chat/pinder/lib/secret"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// Subdomain is the account subdomain: "acme" for
	// acme.campfirenow.com. Required unless BaseURL is set.
	Subdomain string
	// SSL selects https for the subdomain-derived base URI.
	SSL bool
	// BaseURL overrides the subdomain-derived base URI (e.g., an
	// httptest server or a self-hosted installation).
	BaseURL string
	// HTTPClient is used for all requests. If nil, a client from
	// netutil.NewHTTPClient is used. A supplied client is copied and
	// its redirect policy replaced so redirects are never followed.
	HTTPClient *http.Client
	// Timeout bounds each request when HTTPClient is nil.
	Timeout time.Duration
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
	// Clock supplies time for message timestamps and the presence
	// window. If nil, clock.Real() is used.
	Clock clock.Clock
}

// Client is a session against one account. It is not logged in until
// Login succeeds.
type Client struct {
	subdomain  string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	clock      clock.Clock

	mu       sync.Mutex
	cookies  []*http.Cookie
	loggedIn bool
}

// NewClient creates a new, logged-out client.
func NewClient(config ClientConfig) (*Client, error) {
	baseURL, err := resolveBaseURL(config)
	if err != nil {
		return nil, err
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = netutil.NewHTTPClient(config.Timeout)
	} else {
		copied := *httpClient
		copied.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
		httpClient = &copied
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	return &Client{
		subdomain:  config.Subdomain,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
		clock:      clk,
	}, nil
}

// resolveBaseURL returns the base URI without a trailing slash. Request
// URLs are built by direct concatenation so that escaped paths such as
// "files%2Btranscripts" reach the server exactly as written.
func resolveBaseURL(config ClientConfig) (string, error) {
	if config.BaseURL != "" {
		parsed, err := url.Parse(config.BaseURL)
		if err != nil {
			return "", fmt.Errorf("campfire: invalid BaseURL %q: %w", config.BaseURL, err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" || parsed.Host == "" {
			return "", fmt.Errorf("campfire: BaseURL %q must be an absolute http or https URL", config.BaseURL)
		}
		return strings.TrimRight(config.BaseURL, "/"), nil
	}
	if config.Subdomain == "" {
		return "", fmt.Errorf("campfire: Subdomain or BaseURL is required")
	}
	if strings.ContainsAny(config.Subdomain, "./:@ ") {
		return "", fmt.Errorf("campfire: invalid subdomain %q", config.Subdomain)
	}
	scheme := "http"
	if config.SSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s.campfirenow.com", scheme, config.Subdomain), nil
}

// Subdomain returns the account subdomain, or "" when the client was
// built from a BaseURL alone.
func (c *Client) Subdomain() string {
	return c.subdomain
}

// URI returns the base URI of the account, without a trailing slash.
func (c *Client) URI() string {
	return c.baseURL
}

// URIFor returns the absolute URI of a path relative to the account.
// URIFor("") is the lobby ("<base>/"), which is where a successful
// login redirects.
func (c *Client) URIFor(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// LoggedIn reports whether the last login succeeded and no logout has
// happened since.
func (c *Client) LoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loggedIn
}

// Cookie returns the stored session cookie as a Cookie request header
// value ("name=value; name2=value2"), or "" before the server has set
// any.
func (c *Client) Cookie() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cookieHeader(c.cookies)
}

// CloseIdleConnections closes idle connections in the underlying
// transport's pool.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// Login posts the login form. The login succeeds only when the server
// redirects to the lobby; any other response (including a 200 that
// re-renders the login form with an error) leaves the client logged
// out and returns a *ResponseError. The password buffer is read but
// not closed.
func (c *Client) Login(ctx context.Context, email string, password *secret.Buffer) error {
	if email == "" {
		return fmt.Errorf("campfire: login: email is required")
	}
	if password == nil {
		return fmt.Errorf("campfire: login: password is required")
	}

	form := url.Values{
		"email_address": {email},
		"password":      {password.String()},
	}
	response, err := c.post(ctx, "login", form, false)
	if err != nil {
		c.setLoggedIn(false)
		return fmt.Errorf("campfire: login: %w", err)
	}
	if err := check("login", response, ExpectRedirectTo(c.URIFor(""))); err != nil {
		c.setLoggedIn(false)
		return err
	}

	c.setLoggedIn(true)
	c.logger.Info("logged in", "uri", c.baseURL, "email", email)
	return nil
}

// Logout requests the logout page. Any redirect counts as success and
// marks the client logged out. Rooms derived from this client stop
// working once the server drops the session.
func (c *Client) Logout(ctx context.Context) error {
	response, err := c.get(ctx, "logout", false)
	if err != nil {
		return fmt.Errorf("campfire: logout: %w", err)
	}
	if err := check("logout", response, ExpectRedirect); err != nil {
		return err
	}
	c.setLoggedIn(false)
	c.logger.Info("logged out", "uri", c.baseURL)
	return nil
}

func (c *Client) setLoggedIn(loggedIn bool) {
	c.mu.Lock()
	c.loggedIn = loggedIn
	c.mu.Unlock()
}

// SessionState is the persistable part of a Client: enough to resume a
// logged-in session without posting the password again.
type SessionState struct {
	// BaseURL is the account URI the cookies belong to.
	BaseURL string `json:"base_url"`
	// Subdomain is the account subdomain, if known.
	Subdomain string `json:"subdomain,omitempty"`
	// Cookies are the stored session cookies in the order received.
	Cookies []SessionCookie `json:"cookies"`
	// LoggedIn records the login state at snapshot time.
	LoggedIn bool `json:"logged_in"`
	// Rooms are the polling cursors of rooms joined in this session.
	Rooms []RoomState `json:"rooms,omitempty"`
}

// SessionCookie is one stored cookie.
type SessionCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Snapshot returns the client's session state. Rooms is left empty;
// callers add the states of the rooms they want to resume.
func (c *Client) Snapshot() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := SessionState{
		BaseURL:   c.baseURL,
		Subdomain: c.subdomain,
		LoggedIn:  c.loggedIn,
		Cookies:   make([]SessionCookie, 0, len(c.cookies)),
	}
	for _, cookie := range c.cookies {
		state.Cookies = append(state.Cookies, SessionCookie{Name: cookie.Name, Value: cookie.Value})
	}
	return state
}

// Restore replaces the client's cookies and login state with a saved
// session. The saved session must belong to the same account URI.
func (c *Client) Restore(state SessionState) error {
	if strings.TrimRight(state.BaseURL, "/") != c.baseURL {
		return fmt.Errorf("%w: saved for %q, client is %q", ErrSessionMismatch, state.BaseURL, c.baseURL)
	}
	cookies := make([]*http.Cookie, 0, len(state.Cookies))
	for _, saved := range state.Cookies {
		cookies = append(cookies, &http.Cookie{Name: saved.Name, Value: saved.Value})
	}
	c.mu.Lock()
	c.cookies = cookies
	c.loggedIn = state.LoggedIn
	c.mu.Unlock()
	return nil
}
