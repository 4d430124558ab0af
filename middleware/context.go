// File: middleware/context.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package middleware

import (
	"github.com/momentics/hioload-web/httpmsg"
	"github.com/momentics/hioload-web/internal/arena"
	"github.com/momentics/hioload-web/route"
	"github.com/momentics/hioload-web/transport"
)

// Handler is a single pipeline step. A handler that never calls ctx.Next
// short-circuits the remainder of the pipeline — the common pattern for
// authorization middleware.
type Handler func(ctx *Context)

// Context carries everything a handler needs: the request, the
// response-in-progress, both Params sets, the Assigns bag, a per-request
// arena, and the pointer to the next pipeline step.
type Context struct {
	Request     *httpmsg.Request
	Response    *httpmsg.Response
	PathParams  route.Params
	QueryParams route.Params
	Assigns     Assigns
	Arena       *arena.Arena

	next    Handler
	aborted bool
	upgrade func(transport.Conn)
}

// NewContext constructs a fresh Context for req, backed by arena.
func NewContext(req *httpmsg.Request, arena *arena.Arena) *Context {
	return &Context{
		Request:  req,
		Response: httpmsg.NewResponse(),
		Arena:    arena,
	}
}

// Next invokes the next pipeline step. It is a no-op if next is nil —
// either because this is the last step, or because a previous Compose call
// restored it to nil on exit.
func (c *Context) Next() {
	if c.next == nil || c.aborted {
		return
	}
	next := c.next
	next(c)
}

// Abort marks the context so that further Next calls (including ones made
// by callers higher in the stack after this handler returns) become no-ops.
// Used by middleware that wants to short-circuit even across an already
// chained ctx.Next() call higher in the stack.
func (c *Context) Abort() {
	c.aborted = true
}

// Aborted reports whether Abort has been called on this context.
func (c *Context) Aborted() bool {
	return c.aborted
}

// SetUpgrade registers fn as the connection's post-response hijack callback.
// A handler calls this (after writing a 101 response) to hand the raw
// transport connection over to the WebSocket frame loop once the HTTP
// response has been serialized and flushed — the same byte stream the
// upgrade transition continues on.
func (c *Context) SetUpgrade(fn func(transport.Conn)) {
	c.upgrade = fn
}

// Upgrade returns the registered hijack callback, or nil if the handler did
// not request a protocol upgrade.
func (c *Context) Upgrade() func(transport.Conn) {
	return c.upgrade
}
