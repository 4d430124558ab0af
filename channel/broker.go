// File: channel/broker.go
// Broker maps topics to the sockets subscribed to them and publishes
// messages to a snapshot of subscribers, tolerating individual delivery
// failures without aborting the broadcast.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package channel

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Broker is the pub/sub registry shared by all sockets on a Server.
type Broker struct {
	log *logrus.Entry

	mu       sync.RWMutex
	exact    map[string]map[*Socket]struct{}
	patterns map[string]patternEntry
}

type patternEntry struct {
	pattern Pattern
	subs    map[*Socket]struct{}
}

// NewBroker constructs an empty broker.
func NewBroker(log *logrus.Entry) *Broker {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Broker{
		log:      log,
		exact:    make(map[string]map[*Socket]struct{}),
		patterns: make(map[string]patternEntry),
	}
}

// Subscribe registers sock as a subscriber of topicPattern. A literal topic
// is tracked in the exact-match index; "*" and "prefix:*" patterns are
// tracked separately and checked on every publish.
func (b *Broker) Subscribe(topicPattern string, sock *Socket) {
	p := CompilePattern(topicPattern)
	b.mu.Lock()
	defer b.mu.Unlock()

	if p.literal != "" {
		set, ok := b.exact[p.literal]
		if !ok {
			set = make(map[*Socket]struct{})
			b.exact[p.literal] = set
		}
		set[sock] = struct{}{}
		return
	}
	entry, ok := b.patterns[topicPattern]
	if !ok {
		entry = patternEntry{pattern: p, subs: make(map[*Socket]struct{})}
	}
	entry.subs[sock] = struct{}{}
	b.patterns[topicPattern] = entry
}

// Unsubscribe removes sock from topicPattern's subscriber set.
func (b *Broker) Unsubscribe(topicPattern string, sock *Socket) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if set, ok := b.exact[topicPattern]; ok {
		delete(set, sock)
		if len(set) == 0 {
			delete(b.exact, topicPattern)
		}
		return
	}
	if entry, ok := b.patterns[topicPattern]; ok {
		delete(entry.subs, sock)
		if len(entry.subs) == 0 {
			delete(b.patterns, topicPattern)
		}
	}
}

// UnsubscribeAll removes sock from every topic it is registered against,
// used when a connection closes.
func (b *Broker) UnsubscribeAll(sock *Socket) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for topic, set := range b.exact {
		delete(set, sock)
		if len(set) == 0 {
			delete(b.exact, topic)
		}
	}
	for key, entry := range b.patterns {
		delete(entry.subs, sock)
		if len(entry.subs) == 0 {
			delete(b.patterns, key)
		}
	}
}

// subscribers returns a point-in-time snapshot of sockets matching topic,
// taken under the read lock so Publish never holds the lock during network
// I/O.
func (b *Broker) subscribers(topic string) []*Socket {
	b.mu.RLock()
	defer b.mu.RUnlock()

	seen := make(map[*Socket]struct{})
	var out []*Socket
	for s := range b.exact[topic] {
		if _, dup := seen[s]; !dup {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	for _, entry := range b.patterns {
		if !entry.pattern.Match(topic) {
			continue
		}
		for s := range entry.subs {
			if _, dup := seen[s]; !dup {
				seen[s] = struct{}{}
				out = append(out, s)
			}
		}
	}
	return out
}

// Publish delivers event/payload to every current subscriber of topic. A
// delivery failure to one subscriber is logged and does not prevent
// delivery to the rest.
func (b *Broker) Publish(topic, event string, payload any) error {
	return b.publish(topic, event, payload, nil)
}

// PublishFrom delivers event/payload to every current subscriber of topic
// except from, the originating socket — the broadcast_from semantics
// spec.md §4.9 describes for a handler that wants to exclude itself from
// its own broadcast.
func (b *Broker) PublishFrom(topic, event string, payload any, from *Socket) error {
	return b.publish(topic, event, payload, from)
}

func (b *Broker) publish(topic, event string, payload any, exclude *Socket) error {
	body, err := marshalPayload(payload)
	if err != nil {
		return err
	}
	env := Envelope{Topic: topic, Event: event, Payload: body}

	for _, sock := range b.subscribers(topic) {
		if exclude != nil && sock == exclude {
			continue
		}
		if err := sock.Send(env); err != nil {
			b.log.WithError(err).WithField("socket", sock.ID).Warn("channel: publish delivery failed")
		}
	}
	return nil
}
