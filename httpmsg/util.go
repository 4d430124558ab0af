// File: httpmsg/util.go
// Author: momentics <momentics@gmail.com>
package httpmsg

import "strings"

// headerContainsToken reports whether value is a comma-separated list
// containing token, case-insensitive, per RFC 7230 §7 list syntax. Used for
// Connection header matching in Request.KeepAlive.
func headerContainsToken(value, token string) bool {
	for _, part := range strings.Split(value, ",") {
		if strings.EqualFold(strings.TrimSpace(part), token) {
			return true
		}
	}
	return false
}

// HeaderContainsToken is the exported form, used by the server for its
// Transfer-Encoding check; the ws package has its own token matcher.
func HeaderContainsToken(value, token string) bool {
	return headerContainsToken(value, token)
}

// trimOWS trims RFC 7230 optional whitespace (space and horizontal tab)
// from both ends of s.
func trimOWS(s []byte) []byte {
	start := 0
	for start < len(s) && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	end := len(s)
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return s[start:end]
}
