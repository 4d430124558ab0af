// File: middleware/pipeline.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Compose turns a list of handlers into a single entry function. Each step,
// when invoked, sets ctx.next to its successor, calls itself, and restores
// the prior successor on return — so that a sub-pipeline (e.g. the router's
// per-route middleware, appended after the global pipeline has already set
// ctx.next to the dispatcher) composes correctly with whatever came before
// and after it.
package middleware

// Compose returns a Handler that runs handlers in order, each one able to
// call ctx.Next() to continue to the next handler in the list, or to return
// without calling it to short-circuit the remainder.
func Compose(handlers []Handler) Handler {
	return func(ctx *Context) {
		runChain(ctx, handlers, 0, ctx.next)
	}
}

func runChain(ctx *Context, handlers []Handler, i int, outer Handler) {
	if i >= len(handlers) {
		return
	}
	prev := ctx.next
	if i+1 < len(handlers) {
		rest := handlers
		idx := i + 1
		ctx.next = func(c *Context) { runChain(c, rest, idx, outer) }
	} else {
		// Last step in this sub-pipeline: its Next resumes whatever the
		// caller had already queued (e.g. the outer pipeline's remainder).
		ctx.next = outer
	}
	handlers[i](ctx)
	ctx.next = prev
}
