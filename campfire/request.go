// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package campfire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pinder-chat/pinder/lib/netutil"
	"github.com/pinder-chat/pinder/lib/version"
)

// Response is the part of an HTTP response that operations inspect.
// Bodies are read completely (bounded by netutil.MaxResponseSize) so
// the connection can be reused before the markup is scraped.
type Response struct {
	StatusCode int
	// Location is the Location header, set on redirects.
	Location string
	Body     []byte
}

// Header values the service's page scripts send on XHR requests. Some
// endpoints answer differently (or not at all) without them.
const (
	requestedWithHeader = "XMLHttpRequest"
	prototypeVersion    = "1.5.1.1"
)

func (c *Client) get(ctx context.Context, path string, ajax bool) (*Response, error) {
	return c.doRequest(ctx, http.MethodGet, path, nil, ajax)
}

func (c *Client) post(ctx context.Context, path string, form url.Values, ajax bool) (*Response, error) {
	if form == nil {
		form = url.Values{}
	}
	return c.doRequest(ctx, http.MethodPost, path, form, ajax)
}

// doRequest sends one request with the session cookie and browser-like
// headers, stores any cookies the response sets, and returns the
// response without judging its status. Errors are transport failures
// only.
func (c *Client) doRequest(ctx context.Context, method, path string, form url.Values, ajax bool) (*Response, error) {
	requestURL := c.URIFor(path)

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	request.Header.Set("User-Agent", version.UserAgent())
	if form != nil {
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie := c.Cookie(); cookie != "" {
		request.Header.Set("Cookie", cookie)
	}
	if ajax {
		request.Header.Set("X-Requested-With", requestedWithHeader)
		request.Header.Set("X-Prototype-Version", prototypeVersion)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	data, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s %s response: %w", method, path, err)
	}

	c.storeCookies(response.Cookies())

	c.logger.Debug("campfire request",
		"method", method,
		"path", path,
		"ajax", ajax,
		"status", response.StatusCode,
		"bytes", len(data),
	)

	return &Response{
		StatusCode: response.StatusCode,
		Location:   response.Header.Get("Location"),
		Body:       data,
	}, nil
}

// storeCookies merges received cookies into the stored set. A received
// cookie replaces the stored cookie of the same name; an expired one
// removes it.
func (c *Client) storeCookies(received []*http.Cookie) {
	if len(received) == 0 {
		return
	}
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cookie := range received {
		index := -1
		for i, stored := range c.cookies {
			if stored.Name == cookie.Name {
				index = i
				break
			}
		}
		if cookieExpired(cookie, now) {
			if index >= 0 {
				c.cookies = append(c.cookies[:index], c.cookies[index+1:]...)
			}
			continue
		}
		replacement := &http.Cookie{Name: cookie.Name, Value: cookie.Value}
		if index >= 0 {
			c.cookies[index] = replacement
		} else {
			c.cookies = append(c.cookies, replacement)
		}
	}
}

// cookieExpired reports whether a Set-Cookie deletes the cookie: a
// zero or negative Max-Age, or, without Max-Age, an Expires time that
// is not in the future. Max-Age takes precedence over Expires.
func cookieExpired(cookie *http.Cookie, now time.Time) bool {
	if cookie.MaxAge != 0 {
		return cookie.MaxAge < 0
	}
	return !cookie.Expires.IsZero() && !cookie.Expires.After(now)
}

func cookieHeader(cookies []*http.Cookie) string {
	parts := make([]string, 0, len(cookies))
	for _, cookie := range cookies {
		parts = append(parts, cookie.Name+"="+cookie.Value)
	}
	return strings.Join(parts, "; ")
}
