// File: testharness/cookiejar.go
// CookieJar tracks Set-Cookie responses and replays matching cookies on
// subsequent requests, scoped by Path, with Max-Age=0 (or negative)
// treated as immediate deletion per RFC 6265 §5.3. Expires is not read.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package testharness

import (
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/momentics/hioload-web/httpmsg"
)

// storedCookie is one jar entry.
type storedCookie struct {
	name, value string
	path        string
	maxAge      int
	hasMaxAge   bool
}

// CookieJar is a minimal, path-scoped cookie store for the in-process test
// client.
type CookieJar struct {
	mu      sync.Mutex
	cookies map[string]*storedCookie // keyed by name
}

// NewCookieJar returns an empty jar.
func NewCookieJar() *CookieJar {
	return &CookieJar{cookies: make(map[string]*storedCookie)}
}

// Store parses every Set-Cookie header on resp and updates the jar,
// deleting entries whose Max-Age is 0.
func (j *CookieJar) Store(target string, resp *httpmsg.Response) {
	reqPath, _ := splitTarget(target)

	j.mu.Lock()
	defer j.mu.Unlock()
	for _, raw := range resp.Headers.GetAll("Set-Cookie") {
		sc, ok := parseSetCookie(raw)
		if !ok {
			continue
		}
		if sc.path == "" {
			sc.path = defaultCookiePath(reqPath)
		}
		if sc.hasMaxAge && sc.maxAge <= 0 {
			delete(j.cookies, sc.name)
			continue
		}
		j.cookies[sc.name] = sc
	}
}

// CookieHeader builds the Cookie header value for a request to target,
// including only cookies whose Path equals target's path or is a prefix of
// it ending at a '/' boundary.
func (j *CookieJar) CookieHeader(target string) string {
	path, _ := splitTarget(target)

	j.mu.Lock()
	defer j.mu.Unlock()
	var parts []string
	for _, c := range j.cookies {
		if pathMatches(c.path, path) {
			parts = append(parts, c.name+"="+c.value)
		}
	}
	return strings.Join(parts, "; ")
}

func defaultCookiePath(reqPath string) string {
	if i := strings.LastIndexByte(reqPath, '/'); i > 0 {
		return reqPath[:i]
	}
	return "/"
}

func pathMatches(cookiePath, reqPath string) bool {
	if cookiePath == "" || cookiePath == "/" {
		return true
	}
	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}
	rest := reqPath[len(cookiePath):]
	return rest == "" || rest[0] == '/'
}

// parseSetCookie parses one Set-Cookie header value into its name, value,
// Path and Max-Age attributes (the attributes the in-process harness
// actually needs; Domain/Secure/HttpOnly/SameSite are accepted but ignored).
func parseSetCookie(raw string) (*storedCookie, bool) {
	parts := strings.Split(raw, ";")
	if len(parts) == 0 {
		return nil, false
	}
	nv := strings.SplitN(strings.TrimSpace(parts[0]), "=", 2)
	if len(nv) != 2 {
		return nil, false
	}
	sc := &storedCookie{name: strings.TrimSpace(nv[0])}
	if v, err := url.QueryUnescape(strings.TrimSpace(nv[1])); err == nil {
		sc.value = v
	} else {
		sc.value = strings.TrimSpace(nv[1])
	}

	for _, attr := range parts[1:] {
		attr = strings.TrimSpace(attr)
		kv := strings.SplitN(attr, "=", 2)
		key := strings.ToLower(kv[0])
		switch key {
		case "path":
			if len(kv) == 2 {
				sc.path = kv[1]
			}
		case "max-age":
			if len(kv) == 2 {
				if n, err := strconv.Atoi(kv[1]); err == nil {
					sc.maxAge = n
					sc.hasMaxAge = true
				}
			}
		}
	}
	return sc, true
}
