// File: router/router.go
// Package router implements the method+path dispatcher: for each incoming
// request it tries routes in declaration order, installs path params on a
// match, and runs the route's own middleware chain ending in its handler.
// No match on method-and-path but a match on path alone yields 405 with an
// Allow header; no match at all yields 404. Ported from the high-level
// regex router in momentics-hioload-ws's highlevel/server.go, rebuilt on
// the segment-based route.Pattern compiler/matcher instead of regexp.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/momentics/hioload-web/httpmsg"
	"github.com/momentics/hioload-web/middleware"
	"github.com/momentics/hioload-web/route"
)

// Route is one compiled entry in the router's route table.
type Route struct {
	Method     httpmsg.Method
	Pattern    *route.Pattern
	Middleware []middleware.Handler
	Handler    middleware.Handler
	Name       string
}

// Router holds the ordered route table and dispatches requests to it.
// Route order is significant: there is deliberately no specificity ranking,
// so authors order routes from most to least specific.
type Router struct {
	routes     []*Route
	registry   *route.Registry
	middleware []middleware.Handler

	NotFoundHandler         middleware.Handler
	MethodNotAllowedHandler func(allow []string) middleware.Handler
}

// New returns an empty Router with terse default 404/405 handlers.
func New() *Router {
	r := &Router{registry: route.NewRegistry()}
	r.NotFoundHandler = func(ctx *middleware.Context) {
		ctx.Response.SetStatus(404)
		ctx.Response.SetBody([]byte("404 Not Found"))
	}
	r.MethodNotAllowedHandler = func(allow []string) middleware.Handler {
		return func(ctx *middleware.Context) {
			ctx.Response.SetStatus(405)
			ctx.Response.Headers.Set("Allow", strings.Join(allow, ", "))
			ctx.Response.SetBody([]byte("405 Method Not Allowed"))
		}
	}
	return r
}

// Use appends global middleware, run ahead of the dispatcher for every
// request regardless of which route (if any) matches.
func (r *Router) Use(h ...middleware.Handler) {
	r.middleware = append(r.middleware, h...)
}

// Handle registers pattern for method with an optional per-route
// middleware chain ending in handler.
func (r *Router) Handle(method httpmsg.Method, pattern string, handler middleware.Handler, mw ...middleware.Handler) *Route {
	p := route.MustCompile(pattern)
	rt := &Route{Method: method, Pattern: p, Middleware: mw, Handler: handler}
	r.routes = append(r.routes, rt)
	return rt
}

// Named registers rt under name in the reverse-lookup registry used by
// BuildPath.
func (r *Router) Named(rt *Route, name string) *Route {
	rt.Name = name
	r.registry.Register(name, rt.Pattern)
	return rt
}

// BuildPath interpolates params into the named route's pattern.
func (r *Router) BuildPath(name string, params map[string]string) (string, error) {
	return r.registry.BuildPath(name, params)
}

func (r *Router) GET(pattern string, handler middleware.Handler, mw ...middleware.Handler) *Route {
	return r.Handle(httpmsg.GET, pattern, handler, mw...)
}
func (r *Router) POST(pattern string, handler middleware.Handler, mw ...middleware.Handler) *Route {
	return r.Handle(httpmsg.POST, pattern, handler, mw...)
}
func (r *Router) PUT(pattern string, handler middleware.Handler, mw ...middleware.Handler) *Route {
	return r.Handle(httpmsg.PUT, pattern, handler, mw...)
}
func (r *Router) PATCH(pattern string, handler middleware.Handler, mw ...middleware.Handler) *Route {
	return r.Handle(httpmsg.PATCH, pattern, handler, mw...)
}
func (r *Router) DELETE(pattern string, handler middleware.Handler, mw ...middleware.Handler) *Route {
	return r.Handle(httpmsg.DELETE, pattern, handler, mw...)
}
func (r *Router) OPTIONS(pattern string, handler middleware.Handler, mw ...middleware.Handler) *Route {
	return r.Handle(httpmsg.OPTIONS, pattern, handler, mw...)
}

// Group returns a RouteGroup rooted at prefix; routes registered through it
// have prefix prepended and inherit group-level middleware.
func (r *Router) Group(prefix string) *RouteGroup {
	return &RouteGroup{router: r, prefix: prefix}
}

// Entry returns the composed global-pipeline entry point: global middleware
// followed by the dispatcher itself as the terminal step.
func (r *Router) Entry() middleware.Handler {
	chain := append(append([]middleware.Handler{}, r.middleware...), r.dispatch)
	return middleware.Compose(chain)
}

// dispatch is the router's terminal pipeline step.
func (r *Router) dispatch(ctx *middleware.Context) {
	path := string(ctx.Request.Path)
	method := ctx.Request.Method

	if method == httpmsg.OPTIONS && path == "*" {
		r.handleAsteriskOptions(ctx)
		return
	}

	effectiveMethod := method
	suppressBody := false
	if method == httpmsg.HEAD {
		effectiveMethod = httpmsg.GET
		suppressBody = true
	}

	var allowed []string
	seenAllowed := map[string]bool{}
	for _, rt := range r.routes {
		ctx.PathParams.Reset()
		if !route.Match(rt.Pattern, path, &ctx.PathParams) {
			continue
		}
		if rt.Method != effectiveMethod {
			if !seenAllowed[rt.Method.String()] {
				seenAllowed[rt.Method.String()] = true
				allowed = append(allowed, rt.Method.String())
			}
			continue
		}

		chain := append(append([]middleware.Handler{}, rt.Middleware...), rt.Handler)
		middleware.Compose(chain)(ctx)

		if suppressBody {
			ctx.Response.SuppressBody()
		}
		return
	}

	ctx.PathParams.Reset()
	if len(allowed) > 0 {
		sort.Strings(allowed)
		r.MethodNotAllowedHandler(allowed)(ctx)
		return
	}

	r.NotFoundHandler(ctx)
}

// handleAsteriskOptions answers the server-wide "OPTIONS *" probe RFC 7231
// §4.3.7 describes: a 200 with an Allow header listing every method any
// route answers to, and no body. It never touches the route table's own
// path matching, since "*" is not a path any pattern can match.
func (r *Router) handleAsteriskOptions(ctx *middleware.Context) {
	seen := map[string]bool{}
	var methods []string
	for _, rt := range r.routes {
		name := rt.Method.String()
		if !seen[name] {
			seen[name] = true
			methods = append(methods, name)
		}
	}
	sort.Strings(methods)
	ctx.Response.SetStatus(200)
	ctx.Response.Headers.Set("Allow", strings.Join(methods, ", "))
}

// RouteGroup groups routes under a common path prefix and middleware set,
// mirroring momentics-hioload-ws's highlevel.RouteGroup.
type RouteGroup struct {
	router     *Router
	prefix     string
	middleware []middleware.Handler
}

func (g *RouteGroup) join(pattern string) string {
	if g.prefix == "" {
		return pattern
	}
	if strings.HasSuffix(g.prefix, "/") && strings.HasPrefix(pattern, "/") {
		return g.prefix + pattern[1:]
	}
	if !strings.HasSuffix(g.prefix, "/") && !strings.HasPrefix(pattern, "/") {
		return fmt.Sprintf("%s/%s", g.prefix, pattern)
	}
	return g.prefix + pattern
}

// Use appends middleware applied to routes registered through this group
// after the call, and inherited by sub-groups created after the call.
// Routes and sub-groups created earlier do not receive it.
func (g *RouteGroup) Use(h ...middleware.Handler) {
	g.middleware = append(g.middleware, h...)
}

func (g *RouteGroup) Group(prefix string) *RouteGroup {
	return &RouteGroup{router: g.router, prefix: g.join(prefix), middleware: append([]middleware.Handler{}, g.middleware...)}
}

func (g *RouteGroup) Handle(method httpmsg.Method, pattern string, handler middleware.Handler, mw ...middleware.Handler) *Route {
	all := append(append([]middleware.Handler{}, g.middleware...), mw...)
	return g.router.Handle(method, g.join(pattern), handler, all...)
}

func (g *RouteGroup) GET(pattern string, handler middleware.Handler, mw ...middleware.Handler) *Route {
	return g.Handle(httpmsg.GET, pattern, handler, mw...)
}
func (g *RouteGroup) POST(pattern string, handler middleware.Handler, mw ...middleware.Handler) *Route {
	return g.Handle(httpmsg.POST, pattern, handler, mw...)
}
func (g *RouteGroup) PUT(pattern string, handler middleware.Handler, mw ...middleware.Handler) *Route {
	return g.Handle(httpmsg.PUT, pattern, handler, mw...)
}
func (g *RouteGroup) PATCH(pattern string, handler middleware.Handler, mw ...middleware.Handler) *Route {
	return g.Handle(httpmsg.PATCH, pattern, handler, mw...)
}
func (g *RouteGroup) DELETE(pattern string, handler middleware.Handler, mw ...middleware.Handler) *Route {
	return g.Handle(httpmsg.DELETE, pattern, handler, mw...)
}
