// File: server/server.go
// Package server wires the HTTP codec, the router's composed pipeline and
// the transport.Listener accept loop together into the classic
// accept-and-serve engine: one goroutine owns one connection's reader,
// writer and per-request state for its lifetime; requests on that
// connection are processed strictly sequentially; the only suspension
// points are the transport reads and writes. A handler that calls
// ctx.SetUpgrade hands the same byte stream to the WebSocket frame loop once
// the 101 response has been flushed. Grounded on momentics-hioload-ws's
// server/server.go accept-and-dispatch loop and transport/tcp listener,
// generalized from its WebSocket-only RecvZeroCopy loop to the HTTP
// request/response cycle.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package server

import (
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/momentics/hioload-web/httpmsg"
	"github.com/momentics/hioload-web/internal/arena"
	"github.com/momentics/hioload-web/middleware"
	"github.com/momentics/hioload-web/route"
	"github.com/momentics/hioload-web/router"
	"github.com/momentics/hioload-web/transport"
)

// Config tunes the server's timeouts and body-size limit. Zero values fall
// back to the defaults below.
type Config struct {
	Addr string

	// ReadHeaderTimeout is defaulted by New but not applied to connections:
	// the only read deadline the worker sets is IdleTimeout, renewed before
	// each request's header block is read.
	ReadHeaderTimeout time.Duration
	// IdleTimeout bounds how long a keep-alive connection may sit between
	// requests before the worker closes it.
	IdleTimeout time.Duration
	// MaxBodySize caps a Content-Length-delimited body; larger declarations
	// are rejected with 413.
	MaxBodySize int64

	Logger *logrus.Entry

	// DebugLogging turns on request/response tracing in the httpmsg codec
	// (request line, status code, byte counts) at logrus' debug level.
	DebugLogging bool
}

const (
	defaultReadHeaderTimeout = 10 * time.Second
	defaultIdleTimeout       = 60 * time.Second
)

func (c *Config) withDefaults() Config {
	out := *c
	if out.ReadHeaderTimeout <= 0 {
		out.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if out.IdleTimeout <= 0 {
		out.IdleTimeout = defaultIdleTimeout
	}
	if out.MaxBodySize <= 0 {
		out.MaxBodySize = httpmsg.MaxBodySize
	}
	if out.Logger == nil {
		out.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return out
}

// Server binds router to a listening address and drives the HTTP/1.1
// request lifecycle: bytes -> codec -> Context -> pipeline -> serialize ->
// bytes, with keep-alive across requests on the same connection.
type Server struct {
	router *router.Router
	cfg    Config
	ln     *transport.Listener
}

// New returns a Server dispatching matched requests to router. If
// cfg.DebugLogging is set, the httpmsg codec's debug logger is installed
// (process-wide) so Parse/Serialize trace every request and response.
func New(router *router.Router, cfg Config) *Server {
	resolved := cfg.withDefaults()
	if resolved.DebugLogging {
		httpmsg.SetDebugLogger(resolved.Logger)
	}
	return &Server{router: router, cfg: resolved}
}

// ListenAndServe binds cfg.Addr and serves connections until the listener is
// closed or Serve returns an error.
func (s *Server) ListenAndServe() error {
	ln, err := transport.Listen(s.cfg.Addr, s.handleConn, s.cfg.Logger)
	if err != nil {
		return err
	}
	s.ln = ln
	return ln.Serve()
}

// Addr returns the bound listening address; valid only after
// ListenAndServe has started.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Close stops the listener, preventing new connections from being accepted.
func (s *Server) Close() error {
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}

// handleConn owns conn for its entire lifetime: it parses and dispatches
// requests sequentially until the peer closes the connection, a protocol
// error occurs, or an upgraded handler takes over the stream.
func (s *Server) handleConn(conn *transport.NetConn) {
	defer conn.Close()

	reader := newHeaderReader(conn)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout))

		req, err := reader.next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.cfg.Logger.WithError(err).Debug("server: connection read error")
			}
			switch {
			case errors.Is(err, httpmsg.ErrInvalidRequestLine), errors.Is(err, httpmsg.ErrInvalidMethod),
				errors.Is(err, httpmsg.ErrInvalidVersion), errors.Is(err, httpmsg.ErrInvalidHeader),
				errors.Is(err, httpmsg.ErrURITooLong), errors.Is(err, httpmsg.ErrHeadersTooLarge):
				s.writeError(conn, 400)
			}
			return
		}

		if err := s.readBody(reader, req); err != nil {
			s.writeError(conn, statusFor(err))
			return
		}

		keepAlive := req.KeepAlive()
		a := arena.New(4096)
		ctx := middleware.NewContext(req, a)
		route.ParseQuery(req.Query, &ctx.QueryParams)

		s.dispatch(ctx)

		if up := ctx.Upgrade(); up != nil {
			if err := s.writeResponse(conn, ctx.Response); err != nil {
				return
			}
			up(conn)
			return
		}

		if !keepAlive {
			ctx.Response.Headers.Set("Connection", "close")
		}
		if err := s.writeResponse(conn, ctx.Response); err != nil {
			return
		}
		if !keepAlive {
			return
		}
	}
}

// dispatch runs the router's composed global pipeline, translating a
// handler panic into 500 so middleware sees a consistent post-condition.
func (s *Server) dispatch(ctx *middleware.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.cfg.Logger.WithField("panic", r).Error("server: handler panic")
			ctx.Response.SetStatus(500)
			ctx.Response.SetBody([]byte("500 Internal Server Error"))
		}
	}()
	s.router.Entry()(ctx)
}

func (s *Server) readBody(r *headerReader, req *httpmsg.Request) error {
	if te, ok := req.Header("Transfer-Encoding"); ok && httpmsg.HeaderContainsToken(te, "chunked") {
		return errChunkedUnsupported
	}
	all := req.Headers.GetAll("Content-Length")
	if len(all) == 0 {
		return nil
	}
	for _, v := range all[1:] {
		if v != all[0] {
			// RFC 7230 §3.3.3: conflicting Content-Length values are a
			// request-smuggling vector and must be rejected outright.
			return errInvalidContentLength
		}
	}
	n, err := parseContentLength(all[0])
	if err != nil {
		return errInvalidContentLength
	}
	if n == 0 {
		return nil
	}
	if n > s.cfg.MaxBodySize {
		return errBodyTooLarge
	}
	body := make([]byte, n)
	if err := r.readBody(body); err != nil {
		return err
	}
	req.Body = body
	return nil
}

func (s *Server) writeResponse(conn *transport.NetConn, resp *httpmsg.Response) error {
	out, err := httpmsg.Serialize(make([]byte, 0, 256+len(resp.Body)), resp)
	if err != nil {
		resp = &httpmsg.Response{Status: 500, Reason: httpmsg.ReasonPhrase(500)}
		out, _ = httpmsg.Serialize(out[:0], resp)
	}
	if err := conn.WriteAll(out); err != nil {
		return err
	}
	return conn.Flush()
}

func (s *Server) writeError(conn *transport.NetConn, status int) {
	resp := &httpmsg.Response{Status: status, Reason: httpmsg.ReasonPhrase(status)}
	resp.SetBody([]byte(resp.Reason))
	_ = s.writeResponse(conn, resp)
}

var (
	errChunkedUnsupported    = errors.New("server: chunked transfer encoding not supported")
	errInvalidContentLength  = errors.New("server: invalid Content-Length")
	errBodyTooLarge          = errors.New("server: body exceeds configured maximum")
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, errChunkedUnsupported):
		return 411
	case errors.Is(err, errBodyTooLarge):
		return 413
	default:
		return 400
	}
}

// maxContentLengthDigits bounds the digit count parseContentLength will
// accumulate: 18 nines is already far above MaxBodySize and comfortably
// below the point where n*10+digit could overflow int64, so no declared
// Content-Length can wrap around to a small or negative value.
const maxContentLengthDigits = 18

func parseContentLength(v string) (int64, error) {
	var n int64
	if v == "" || len(v) > maxContentLengthDigits {
		return 0, errInvalidContentLength
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c < '0' || c > '9' {
			return 0, errInvalidContentLength
		}
		n = n*10 + int64(c-'0')
	}
	return n, nil
}

// headerReader accumulates bytes from conn until a full request-line +
// header block has arrived, then hands the remainder of its buffer back to
// Parse for the next request on the same (keep-alive) connection.
type headerReader struct {
	conn *transport.NetConn
	buf  []byte
}

func newHeaderReader(conn *transport.NetConn) *headerReader {
	return &headerReader{conn: conn, buf: make([]byte, 0, 4096)}
}

// next reads and parses the next request's header block, growing buf as
// needed and leaving any bytes already read past the header's end (the
// start of a body, or a following request) in buf for readBody and the
// next call.
func (r *headerReader) next() (*httpmsg.Request, error) {
	for {
		req, consumed, err := httpmsg.Parse(r.buf)
		if err == nil {
			r.buf = r.buf[consumed:]
			return req, nil
		}
		if !errors.Is(err, httpmsg.ErrIncomplete) {
			return nil, err
		}
		if err := r.fill(); err != nil {
			return nil, err
		}
	}
}

// fill reads one more chunk of bytes from the connection into buf, going
// through the same buffered reader Peek/Discard/ReadFull use so no byte is
// ever read twice or dropped between the header scan and the body read.
func (r *headerReader) fill() error {
	chunk := make([]byte, 4096)
	b, err := r.conn.Read(chunk)
	if b > 0 {
		r.buf = append(r.buf, chunk[:b]...)
	}
	if err != nil {
		return err
	}
	if b == 0 {
		return io.EOF
	}
	return nil
}

// readBody copies exactly len(dst) bytes into dst, first draining any bytes
// already buffered by next()'s header scan before reading fresh bytes off
// the connection.
func (r *headerReader) readBody(dst []byte) error {
	n := copy(dst, r.buf)
	r.buf = r.buf[n:]
	if n == len(dst) {
		return nil
	}
	rest := dst[n:]
	return r.conn.ReadFull(rest)
}
