// File: transport/listener.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Listener implements the classic accept-and-serve loop: one incoming
// connection is handed to one goroutine, which owns that
// connection's reader, writer and per-request state for its lifetime.
// Ported from momentics-hioload-ws's transport/tcp/listener.go accept loop.
package transport

import (
	"net"

	"github.com/sirupsen/logrus"
)

// Handler processes one accepted connection to completion (it returns when
// the connection should be closed).
type Handler func(conn *NetConn)

// Listener wraps a net.Listener and dispatches each accepted connection to
// handler on its own goroutine.
type Listener struct {
	ln      net.Listener
	handler Handler
	log     *logrus.Entry
}

// Listen binds addr and returns a Listener ready to Serve.
func Listen(addr string, handler Handler, log *logrus.Entry) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Listener{ln: ln, handler: handler, log: log}, nil
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Close stops accepting new connections.
func (l *Listener) Close() error { return l.ln.Close() }

// Serve runs the accept loop until the listener is closed.
func (l *Listener) Serve() error {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			return err
		}
		tuneSocket(conn)
		nc := NewConn(conn)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					l.log.WithField("panic", r).Error("connection handler panicked")
				}
			}()
			l.handler(nc)
		}()
	}
}
