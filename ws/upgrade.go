// File: ws/upgrade.go
// Bridges the HTTP request pipeline (middleware.Context) to the WebSocket
// handshake and frame loop: a route handler installs Upgrade as its
// middleware.Handler, and once the pipeline's 101 response has been
// serialized and flushed, the server package invokes the registered hijack
// callback with the same transport connection the request arrived on.
// New glue code — momentics-hioload-ws wires its WebSocket
// upgrade directly into its own listener rather than composing it with an
// HTTP router — written in momentics-hioload-ws's handshake idiom
// (protocol/native_handshake.go) but adapted to the router/middleware
// surface this engine exposes.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package ws

import (
	"github.com/klauspost/compress/flate"

	"github.com/momentics/hioload-web/middleware"
	"github.com/momentics/hioload-web/transport"
)

// Handler is invoked with a fully established server-side WebSocket
// connection, once the handshake has completed and the caller's HTTP
// response has been flushed.
type Handler func(*Conn)

// Upgrade returns a middleware.Handler that performs the RFC 6455 opening
// handshake against ctx.Request. On success it writes the 101 response onto
// ctx.Response and registers a hijack so the connection's own worker hands
// the byte stream to onOpen after the response goes out. On failure it
// leaves a 400 response in place and does not register a hijack, so the
// connection serializes that response and (per the request's Connection
// header) either keeps serving HTTP or closes normally.
func Upgrade(cfg Config, onOpen Handler) middleware.Handler {
	return func(ctx *middleware.Context) {
		hreq := HandshakeRequest{Method: ctx.Request.Method.String(), Headers: ctx.Request.Headers}
		clientKey, extHeader, err := ValidateUpgrade(hreq)
		if err != nil {
			ctx.Response.SetStatus(400)
			ctx.Response.SetBody([]byte("400 Bad Request: " + err.Error()))
			return
		}

		deflateOffered := NegotiateDeflate(extHeader)
		var deflate *DeflateExt
		if deflateOffered {
			// Errors here only come from an invalid compression level, which
			// flate.DefaultCompression never produces; negotiation falls back
			// to uncompressed rather than failing the handshake.
			if d, derr := NewDeflateExt(flate.DefaultCompression); derr == nil {
				deflate = d
			} else {
				deflateOffered = false
			}
		}

		ctx.Response.SetStatus(101)
		hdrs := AcceptResponseHeaders(clientKey, deflateOffered)
		for _, f := range hdrs.All() {
			ctx.Response.Headers.Set(f.Name, f.Value)
		}

		connCfg := cfg
		connCfg.Deflate = deflate
		ctx.SetUpgrade(func(tc transport.Conn) {
			onOpen(NewConn(tc, true, connCfg))
		})
	}
}
