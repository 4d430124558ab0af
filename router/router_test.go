// File: router/router_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-web/httpmsg"
	"github.com/momentics/hioload-web/internal/arena"
	"github.com/momentics/hioload-web/middleware"
)

func dispatchReq(r *Router, method httpmsg.Method, path string) *middleware.Context {
	req := &httpmsg.Request{Method: method, Path: []byte(path), Version: httpmsg.HTTP11}
	ctx := middleware.NewContext(req, arena.New(256))
	r.Entry()(ctx)
	return ctx
}

func TestRouter_ParamEcho(t *testing.T) {
	r := New()
	r.GET("/users/:id", func(ctx *middleware.Context) {
		id, _ := ctx.PathParams.Get("id")
		ctx.Response.SetStatus(200)
		ctx.Response.SetBody([]byte(id))
	})

	ctx := dispatchReq(r, httpmsg.GET, "/users/42")
	assert.Equal(t, 200, ctx.Response.Status)
	assert.Equal(t, "42", string(ctx.Response.Body))
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	r := New()
	r.GET("/users", func(ctx *middleware.Context) { ctx.Response.SetStatus(200) })
	r.POST("/users", func(ctx *middleware.Context) { ctx.Response.SetStatus(201) })

	ctx := dispatchReq(r, httpmsg.DELETE, "/users")
	assert.Equal(t, 405, ctx.Response.Status)
	allow, ok := ctx.Response.Headers.Get("Allow")
	require.True(t, ok)
	assert.Equal(t, "GET, POST", allow)
}

func TestRouter_NotFound(t *testing.T) {
	r := New()
	r.GET("/known", func(ctx *middleware.Context) {})

	ctx := dispatchReq(r, httpmsg.GET, "/unknown")
	assert.Equal(t, 404, ctx.Response.Status)
}

func TestRouter_HeadSuppressesBody(t *testing.T) {
	r := New()
	r.GET("/page", func(ctx *middleware.Context) {
		ctx.Response.SetStatus(200)
		ctx.Response.SetBody([]byte("full body"))
	})

	ctx := dispatchReq(r, httpmsg.HEAD, "/page")
	assert.Equal(t, 200, ctx.Response.Status)
	assert.Nil(t, ctx.Response.Body)
}

func TestRouter_DeclarationOrderWins(t *testing.T) {
	r := New()
	var hit string
	r.GET("/a/:x", func(ctx *middleware.Context) { hit = "param" })
	r.GET("/a/b", func(ctx *middleware.Context) { hit = "static" })

	dispatchReq(r, httpmsg.GET, "/a/b")
	assert.Equal(t, "param", hit)
}

func TestRouter_OptionsAsteriskCatchAll(t *testing.T) {
	r := New()
	r.GET("/a", func(ctx *middleware.Context) {})
	r.POST("/a", func(ctx *middleware.Context) {})
	r.DELETE("/b", func(ctx *middleware.Context) {})

	ctx := dispatchReq(r, httpmsg.OPTIONS, "*")
	assert.Equal(t, 200, ctx.Response.Status)
	allow, ok := ctx.Response.Headers.Get("Allow")
	require.True(t, ok)
	assert.Equal(t, "DELETE, GET, POST", allow)
}

func TestRouter_BuildPath(t *testing.T) {
	r := New()
	rt := r.GET("/users/:id", func(ctx *middleware.Context) {})
	r.Named(rt, "user.show")

	path, err := r.BuildPath("user.show", map[string]string{"id": "9"})
	require.NoError(t, err)
	assert.Equal(t, "/users/9", path)
}

func TestRouter_GlobalMiddlewareRunsBeforeDispatch(t *testing.T) {
	r := New()
	var order []string
	r.Use(func(ctx *middleware.Context) { order = append(order, "global"); ctx.Next() })
	r.GET("/x", func(ctx *middleware.Context) { order = append(order, "handler") })

	dispatchReq(r, httpmsg.GET, "/x")
	assert.Equal(t, []string{"global", "handler"}, order)
}

func TestRouteGroup_PrefixAndMiddleware(t *testing.T) {
	r := New()
	var order []string
	g := r.Group("/api")
	g.Use(func(ctx *middleware.Context) { order = append(order, "group-mw"); ctx.Next() })
	g.GET("/ping", func(ctx *middleware.Context) {
		order = append(order, "handler")
		ctx.Response.SetStatus(200)
	})

	ctx := dispatchReq(r, httpmsg.GET, "/api/ping")
	assert.Equal(t, 200, ctx.Response.Status)
	assert.Equal(t, []string{"group-mw", "handler"}, order)
}
