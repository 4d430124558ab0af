// File: testharness/client.go
// Package testharness implements an in-process HTTP test harness:
// requests are dispatched directly to a router.Router's
// composed pipeline with no socket involved, a cookie jar tracks
// Set-Cookie/Cookie round trips with Path scoping and Max-Age=0 deletion,
// and 3xx responses are optionally followed. Ported from momentics-hioload-ws's
// testing conventions (table-driven tests asserting on httpmsg.Response
// values) generalized into a reusable client, the way momentics-hioload-ws's own
// test helpers wrap its server for assertions.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package testharness

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/momentics/hioload-web/httpmsg"
	"github.com/momentics/hioload-web/internal/arena"
	"github.com/momentics/hioload-web/middleware"
	"github.com/momentics/hioload-web/route"
	"github.com/momentics/hioload-web/router"
)

// Client drives a router.Router's entry pipeline in-process, without
// opening a socket.
type Client struct {
	router         *router.Router
	jar            *CookieJar
	followRedirects bool
	maxRedirects    int
}

// NewClient returns a Client targeting r, with an empty cookie jar and
// redirect-following enabled (up to 10 hops), matching common browser
// defaults.
func NewClient(r *router.Router) *Client {
	return &Client{router: r, jar: NewCookieJar(), followRedirects: true, maxRedirects: 10}
}

// SetFollowRedirects toggles automatic 3xx following.
func (c *Client) SetFollowRedirects(follow bool) { c.followRedirects = follow }

// Jar returns the client's cookie jar for direct inspection or seeding.
func (c *Client) Jar() *CookieJar { return c.jar }

// Result is the outcome of a single in-process request, after following any
// redirects.
type Result struct {
	Response *httpmsg.Response
	// Chain records every response in the redirect chain, in order, ending
	// with the final Response.
	Chain []*httpmsg.Response
}

// Do issues method against target (an absolute path, optionally with a
// query string), with the given headers and body, following redirects per
// the client's configuration.
func (c *Client) Do(method httpmsg.Method, target string, headers httpmsg.Headers, body []byte) (*Result, error) {
	res := &Result{}
	curMethod := method
	curTarget := target
	curBody := body

	for hop := 0; ; hop++ {
		if hop > c.maxRedirects {
			return res, fmt.Errorf("testharness: exceeded %d redirects", c.maxRedirects)
		}
		resp, err := c.doOnce(curMethod, curTarget, headers, curBody)
		if err != nil {
			return res, err
		}
		res.Chain = append(res.Chain, resp)
		res.Response = resp
		c.jar.Store(curTarget, resp)

		if !c.followRedirects || !isRedirect(resp.Status) {
			return res, nil
		}
		loc, ok := resp.Headers.Get("Location")
		if !ok {
			return res, nil
		}
		curTarget = resolveLocation(curTarget, loc)
		if resp.Status == 303 {
			curMethod = httpmsg.GET
			curBody = nil
		}
		// 301/302/307/308 preserve method and body unchanged.
	}
}

func isRedirect(status int) bool {
	switch status {
	case 301, 302, 303, 307, 308:
		return true
	default:
		return false
	}
}

func resolveLocation(current, location string) string {
	u, err := url.Parse(location)
	if err != nil || u.IsAbs() {
		return location
	}
	base, err := url.Parse(current)
	if err != nil {
		return location
	}
	return base.ResolveReference(u).String()
}

// doOnce runs a single request (no redirect following) through the
// router's composed entry pipeline.
func (c *Client) doOnce(method httpmsg.Method, target string, headers httpmsg.Headers, body []byte) (*httpmsg.Response, error) {
	path, query := splitTarget(target)

	var reqHeaders httpmsg.Headers
	for _, f := range headers.All() {
		reqHeaders.Add(f.Name, f.Value)
	}
	if cookieHeader := c.jar.CookieHeader(target); cookieHeader != "" {
		reqHeaders.Set("Cookie", cookieHeader)
	}

	req := &httpmsg.Request{
		Method:  method,
		Path:    []byte(path),
		Query:   []byte(query),
		Version: httpmsg.HTTP11,
		Headers: reqHeaders,
		Body:    body,
	}

	a := arena.New(4096)
	ctx := middleware.NewContext(req, a)
	route.ParseQuery(req.Query, &ctx.QueryParams)

	c.router.Entry()(ctx)
	return ctx.Response, nil
}

func splitTarget(target string) (path, query string) {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		return target[:i], target[i+1:]
	}
	return target, ""
}

// Get is shorthand for Do(GET, target, nil, nil).
func (c *Client) Get(target string) (*Result, error) {
	var h httpmsg.Headers
	return c.Do(httpmsg.GET, target, h, nil)
}

// PostJSON is shorthand for a POST with a JSON body and Content-Type set.
func (c *Client) PostJSON(target string, body []byte) (*Result, error) {
	var h httpmsg.Headers
	h.Set("Content-Type", "application/json")
	return c.Do(httpmsg.POST, target, h, body)
}
