// File: channel/channel.go
// Router dispatches incoming envelopes from a Socket to the registered
// handler for the envelope's topic, implementing the join/leave/push/reply
// lifecycle. One Handler is registered per topic pattern
// (literal, prefix wildcard, or universal); the first registered pattern
// that matches wins, mirroring the router's first-match route semantics in
// router/router.go.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package channel

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// JoinFunc authorizes and initializes a socket joining topic, returning the
// response payload embedded in the phx_reply.
type JoinFunc func(socket *Socket, topic string, payload json.RawMessage) (response any, err error)

// LeaveFunc runs cleanup when a socket leaves topic.
type LeaveFunc func(socket *Socket, topic string)

// EventFunc handles a non-reserved event pushed to an already-joined topic.
type EventFunc func(socket *Socket, topic, event string, payload json.RawMessage) (response any, err error)

// Handler groups the callbacks for one topic pattern.
type Handler struct {
	Pattern string
	OnJoin  JoinFunc
	OnLeave LeaveFunc
	Events  map[string]EventFunc
}

var ErrTopicNotJoined = errors.New("channel: topic has not been joined")
var ErrNoHandler = errors.New("channel: no handler registered for topic")

// Router dispatches envelopes read from a socket's connection to the
// matching registered Handler.
type Router struct {
	broker *Broker
	log    *logrus.Entry

	mu       sync.RWMutex
	handlers []compiledHandler
}

type compiledHandler struct {
	pattern Pattern
	handler Handler
}

// NewRouter constructs a channel Router backed by broker.
func NewRouter(broker *Broker, log *logrus.Entry) *Router {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Router{broker: broker, log: log}
}

// Register adds h for topics matching pattern ("room:lobby", "room:*", or
// "*"). Patterns are checked in registration order; register more specific
// patterns first.
func (r *Router) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, compiledHandler{pattern: CompilePattern(h.Pattern), handler: h})
}

func (r *Router) find(topic string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ch := range r.handlers {
		if ch.pattern.Match(topic) {
			return ch.handler, true
		}
	}
	return Handler{}, false
}

// Dispatch processes one envelope received from socket, running the
// reserved-event lifecycle (phx_join/phx_leave/heartbeat) or forwarding to
// the topic's registered EventFunc, and always replies when the envelope
// carries a ref.
func (r *Router) Dispatch(socket *Socket, env Envelope) error {
	switch env.Event {
	case EventHeartbeat:
		return r.reply(socket, "phoenix", env.Ref, StatusOK, nil)
	case EventJoin:
		return r.handleJoin(socket, env)
	case EventLeave:
		return r.handleLeave(socket, env)
	default:
		return r.handlePush(socket, env)
	}
}

func (r *Router) handleJoin(socket *Socket, env Envelope) error {
	h, ok := r.find(env.Topic)
	if !ok {
		return r.reply(socket, env.Topic, env.Ref, StatusError, map[string]string{"reason": ErrNoHandler.Error()})
	}
	var resp any
	var err error
	if h.OnJoin != nil {
		resp, err = h.OnJoin(socket, env.Topic, env.Payload)
	}
	if err != nil {
		return r.reply(socket, env.Topic, env.Ref, StatusError, map[string]string{"reason": err.Error()})
	}
	socket.Join(env.Topic)
	r.broker.Subscribe(env.Topic, socket)
	return r.reply(socket, env.Topic, env.Ref, StatusOK, resp)
}

func (r *Router) handleLeave(socket *Socket, env Envelope) error {
	if !socket.Joined(env.Topic) {
		return r.reply(socket, env.Topic, env.Ref, StatusError, map[string]string{"reason": ErrTopicNotJoined.Error()})
	}
	if h, ok := r.find(env.Topic); ok && h.OnLeave != nil {
		h.OnLeave(socket, env.Topic)
	}
	r.broker.Unsubscribe(env.Topic, socket)
	socket.Leave(env.Topic)
	return r.reply(socket, env.Topic, env.Ref, StatusOK, nil)
}

func (r *Router) handlePush(socket *Socket, env Envelope) error {
	if !socket.Joined(env.Topic) {
		return r.reply(socket, env.Topic, env.Ref, StatusError, map[string]string{"reason": ErrTopicNotJoined.Error()})
	}
	h, ok := r.find(env.Topic)
	if !ok || h.Events == nil {
		return r.reply(socket, env.Topic, env.Ref, StatusError, map[string]string{"reason": ErrNoHandler.Error()})
	}
	fn, ok := h.Events[env.Event]
	if !ok {
		return r.reply(socket, env.Topic, env.Ref, StatusError, map[string]string{"reason": fmt.Sprintf("unrecognized event %q", env.Event)})
	}
	resp, err := fn(socket, env.Topic, env.Event, env.Payload)
	if err != nil {
		return r.reply(socket, env.Topic, env.Ref, StatusError, map[string]string{"reason": err.Error()})
	}
	if env.Ref == "" {
		return nil
	}
	return r.reply(socket, env.Topic, env.Ref, StatusOK, resp)
}

func (r *Router) reply(socket *Socket, topic, ref string, status ReplyStatus, response any) error {
	if ref == "" {
		return nil
	}
	env, err := NewReply(topic, ref, status, response)
	if err != nil {
		return err
	}
	return socket.Send(env)
}

// HandleConnection drives a just-upgraded Socket's read loop until the
// connection closes, dispatching each decoded envelope through r. It
// unsubscribes the socket from every topic on exit.
func (r *Router) HandleConnection(socket *Socket, readMessage func() (topicPayload []byte, err error)) {
	defer r.broker.UnsubscribeAll(socket)
	for {
		data, err := readMessage()
		if err != nil {
			return
		}
		env, err := Decode(data)
		if err != nil {
			r.log.WithError(err).Warn("channel: dropping malformed envelope")
			continue
		}
		if err := r.Dispatch(socket, env); err != nil {
			r.log.WithError(err).WithField("topic", env.Topic).Warn("channel: dispatch failed")
		}
	}
}
