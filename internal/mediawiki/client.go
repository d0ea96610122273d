// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package mediawiki

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/tidwall/gjson"

	"github.com/ccitool/ccitool/internal/log"
	"github.com/ccitool/ccitool/internal/version"
)

// DefaultAPI is the English Wikipedia action API endpoint.
const DefaultAPI = "https://en.wikipedia.org/w/api.php"

// Client talks to one wiki. Session cookies are kept in a jar so a login
// carries over to later edits. A Client is not safe for concurrent use.
type Client struct {
	api       string
	http      *http.Client
	userAgent string
	csrf      string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the pooled default client. A cookie jar is attached
// if the client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New returns a Client for the api.php endpoint at api.
func New(api string, opts ...Option) (*Client, error) {
	u, err := url.Parse(api)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API endpoint %q", api)
	}

	c := &Client{
		api:       api,
		http:      cleanhttp.DefaultPooledClient(),
		userAgent: version.UserAgent(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		c.http.Jar = jar
	}

	return c, nil
}

// API returns the endpoint the client talks to.
func (c *Client) API() string {
	return c.api
}

// Login authenticates with a bot password. The session cookie is kept for
// subsequent requests.
func (c *Client) Login(ctx context.Context, user, password string) error {
	token, err := c.token(ctx, "login")
	if err != nil {
		return fmt.Errorf("failed to fetch login token: %w", err)
	}

	res, err := c.post(ctx, url.Values{
		"action":     {"login"},
		"lgname":     {user},
		"lgpassword": {password},
		"lgtoken":    {token},
	})
	if err != nil {
		return fmt.Errorf("login as %s: %w", user, err)
	}

	if result := res.Get("login.result").String(); result != "Success" {
		reason := res.Get("login.reason").String()
		return fmt.Errorf("login as %s: %s %s", user, result, reason)
	}

	// Tokens are bound to the session, so any earlier one is stale now.
	c.csrf = ""
	log.Debugf("logged in: user=%s api=%s", user, c.api)
	return nil
}

// EditRequest describes one full-text page replacement.
type EditRequest struct {
	Title     string
	Text      string
	Summary   string
	BaseRevID int64
	// NoCreate refuses to create the page when it does not exist.
	NoCreate bool
	// Assert is sent as the assert parameter, usually "user".
	Assert string
}

// EditResult is the API's report of a successful edit.
type EditResult struct {
	Title    string
	OldRevID int64
	NewRevID int64
	NoChange bool
}

// Edit saves req. An edit conflict against BaseRevID, a failed assertion and
// any other API error are returned as *APIError.
func (c *Client) Edit(ctx context.Context, req EditRequest) (*EditResult, error) {
	if c.csrf == "" {
		token, err := c.token(ctx, "csrf")
		if err != nil {
			return nil, fmt.Errorf("failed to fetch edit token: %w", err)
		}
		c.csrf = token
	}

	params := url.Values{
		"action":  {"edit"},
		"title":   {req.Title},
		"text":    {req.Text},
		"summary": {req.Summary},
		"token":   {c.csrf},
	}
	if req.BaseRevID != 0 {
		params.Set("baserevid", strconv.FormatInt(req.BaseRevID, 10))
	}
	if req.NoCreate {
		params.Set("nocreate", "1")
	}
	if req.Assert != "" {
		params.Set("assert", req.Assert)
	}

	res, err := c.post(ctx, params)
	if err != nil {
		return nil, err
	}

	edit := res.Get("edit")
	if result := edit.Get("result").String(); result != "Success" {
		detail := ""
		for _, key := range []string{"info", "warning", "code"} {
			if v := edit.Get(key); v.Exists() {
				detail = v.String()
				break
			}
		}
		return nil, &EditError{Title: req.Title, Result: result, Detail: detail}
	}

	return &EditResult{
		Title:    edit.Get("title").String(),
		OldRevID: edit.Get("oldrevid").Int(),
		NewRevID: edit.Get("newrevid").Int(),
		NoChange: edit.Get("nochange").Bool(),
	}, nil
}

// Revision is the latest revision of a page.
type Revision struct {
	Title   string
	RevID   int64
	Content string
}

// Revision fetches the latest revision id and wikitext of title.
func (c *Client) Revision(ctx context.Context, title string) (*Revision, error) {
	res, err := c.get(ctx, url.Values{
		"action":  {"query"},
		"titles":  {title},
		"prop":    {"revisions"},
		"rvprop":  {"ids|content"},
		"rvslots": {"main"},
		"rvlimit": {"1"},
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", title, err)
	}

	page := res.Get("query.pages.0")
	if !page.Exists() || page.Get("missing").Bool() || page.Get("invalid").Bool() {
		return nil, fmt.Errorf("read %s: %w", title, ErrMissing)
	}

	rev := page.Get("revisions.0")
	if !rev.Exists() {
		return nil, fmt.Errorf("read %s: no revisions", title)
	}

	return &Revision{
		Title:   page.Get("title").String(),
		RevID:   rev.Get("revid").Int(),
		Content: rev.Get("slots.main.content").String(),
	}, nil
}

// token fetches a token of the given type ("login", "csrf").
func (c *Client) token(ctx context.Context, kind string) (string, error) {
	res, err := c.get(ctx, url.Values{
		"action": {"query"},
		"meta":   {"tokens"},
		"type":   {kind},
	})
	if err != nil {
		return "", err
	}
	token := res.Get("query.tokens." + kind + "token").String()
	if token == "" {
		return "", fmt.Errorf("no %s token in response", kind)
	}
	return token, nil
}

func (c *Client) get(ctx context.Context, params url.Values) (gjson.Result, error) {
	params = withFormat(params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.api+"?"+params.Encode(), nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, params.Get("action"))
}

func (c *Client) post(ctx context.Context, params url.Values) (gjson.Result, error) {
	params = withFormat(params)
	body := strings.NewReader(params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.api, body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, params.Get("action"))
}

func (c *Client) do(req *http.Request, action string) (gjson.Result, error) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	log.Tracef("mediawiki %s %s action=%s", req.Method, c.api, action)
	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	var doc bytes.Buffer
	if _, err := io.Copy(&doc, resp.Body); err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gjson.Result{}, fmt.Errorf("%s: HTTP %d", action, resp.StatusCode)
	}
	if !gjson.ValidBytes(doc.Bytes()) {
		return gjson.Result{}, fmt.Errorf("%s: response is not JSON", action)
	}

	res := gjson.ParseBytes(doc.Bytes())
	if apiErr := res.Get("error"); apiErr.Exists() {
		return gjson.Result{}, &APIError{
			Code: apiErr.Get("code").String(),
			Info: apiErr.Get("info").String(),
		}
	}
	return res, nil
}

func withFormat(params url.Values) url.Values {
	params.Set("format", "json")
	params.Set("formatversion", "2")
	return params
}
