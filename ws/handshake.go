// File: ws/handshake.go
// The RFC 6455 §4.2 opening handshake: validating the client's upgrade
// request and computing Sec-WebSocket-Accept. Ported from momentics-hioload-ws's
// protocol/native_handshake.go + protocol/upgrader.go, generalized from a
// fixed listener-bound upgrade path into a function usable from any
// httpmsg.Request (so it composes with the router like any other handler).
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package ws

import (
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/momentics/hioload-web/httpmsg"
)

// websocketGUID is the RFC 6455 §1.3 magic string.
const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

var (
	ErrNotUpgrade      = errors.New("ws: request is not a WebSocket upgrade")
	ErrBadVersion      = errors.New("ws: unsupported Sec-WebSocket-Version")
	ErrMissingKey      = errors.New("ws: missing Sec-WebSocket-Key")
)

// ComputeAcceptKey implements RFC 6455 §4.2.2 step 5: append the magic GUID
// to the client's key, SHA-1 the result, and base64-encode it. Matches the
// RFC's own worked example:
// ComputeAcceptKey("dGhlIHNhbXBsZSBub25jZQ==") == "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=".
func ComputeAcceptKey(clientKey string) string {
	h := sha1.New()
	h.Write([]byte(clientKey))
	h.Write([]byte(websocketGUID))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// HandshakeRequest is the subset of an incoming request the handshake
// validates.
type HandshakeRequest struct {
	Method  string
	Headers httpmsg.Headers
}

// ValidateUpgrade checks the RFC 6455 §4.2.1 required fields: GET method,
// Connection: Upgrade, Upgrade: websocket, Sec-WebSocket-Version: 13, and a
// present Sec-WebSocket-Key. It returns the client key and the negotiated
// extension offer (raw Sec-WebSocket-Extensions header value, parsed
// separately by NegotiateDeflate).
func ValidateUpgrade(req HandshakeRequest) (clientKey string, extensions string, err error) {
	if !strings.EqualFold(req.Method, "GET") {
		return "", "", ErrNotUpgrade
	}
	connVal, _ := req.Headers.Get("Connection")
	if !headerTokenContains(connVal, "upgrade") {
		return "", "", ErrNotUpgrade
	}
	upgradeVal, _ := req.Headers.Get("Upgrade")
	if !strings.EqualFold(strings.TrimSpace(upgradeVal), "websocket") {
		return "", "", ErrNotUpgrade
	}
	versionVal, _ := req.Headers.Get("Sec-WebSocket-Version")
	if v := strings.TrimSpace(versionVal); v != "13" {
		return "", "", ErrBadVersion
	}
	keyVal, _ := req.Headers.Get("Sec-WebSocket-Key")
	clientKey = strings.TrimSpace(keyVal)
	if clientKey == "" {
		return "", "", ErrMissingKey
	}
	extVal, _ := req.Headers.Get("Sec-WebSocket-Extensions")
	return clientKey, extVal, nil
}

// headerTokenContains reports whether the comma-separated header value
// contains token, ignoring case and surrounding whitespace (RFC 7230 §7
// list syntax — Connection: keep-alive, Upgrade is common).
func headerTokenContains(value, token string) bool {
	for _, part := range strings.Split(value, ",") {
		if strings.EqualFold(strings.TrimSpace(part), token) {
			return true
		}
	}
	return false
}

// AcceptResponseHeaders builds the 101 response's required headers, with
// the optional negotiated deflate extension echoed back.
func AcceptResponseHeaders(clientKey string, deflate bool) httpmsg.Headers {
	var h httpmsg.Headers
	h.Set("Upgrade", "websocket")
	h.Set("Connection", "Upgrade")
	h.Set("Sec-WebSocket-Accept", ComputeAcceptKey(clientKey))
	if deflate {
		h.Set("Sec-WebSocket-Extensions", "permessage-deflate; client_no_context_takeover; server_no_context_takeover")
	}
	return h
}
