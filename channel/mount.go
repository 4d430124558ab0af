// File: channel/mount.go
// Mount turns frames routed through the channel protocol into registered
// topic handlers: it turns a channel.Router into an HTTP route handler by
// composing ws.Upgrade with channel.Router's own
// dispatch loop, so applications wire channels onto the same
// *router.Router the rest of the HTTP surface uses.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package channel

import (
	"github.com/google/uuid"

	"github.com/momentics/hioload-web/middleware"
	"github.com/momentics/hioload-web/ws"
)

// Mount returns a middleware.Handler that performs the RFC 6455 handshake
// (ws.Upgrade) and, once the connection is open, wraps it in a Socket and
// runs router's dispatch loop against it until the client disconnects. The
// socket's Assigns bag is seeded from the upgrading request's ctx.Assigns,
// so state a prior middleware attached during the HTTP handshake (an
// authenticated user id, a request id) is visible to join/leave/event
// handlers without re-deriving it.
//
// The returned handler does not block: ws.Upgrade only registers the hijack
// callback and returns. The dispatch loop runs later, when the caller's
// server hands the upgraded connection to that callback, so only the
// connection's own worker ever blocks on its reads/writes.
func Mount(router *Router, wsCfg ws.Config) middleware.Handler {
	return func(ctx *middleware.Context) {
		assigns := ctx.Assigns
		upgrade := ws.Upgrade(wsCfg, func(conn *ws.Conn) {
			sock := NewSocket(uuid.NewString(), conn, nil)
			sock.Assigns = assigns
			router.HandleConnection(sock, func() ([]byte, error) {
				_, payload, err := conn.ReadMessage()
				return payload, err
			})
		})
		upgrade(ctx)
	}
}
