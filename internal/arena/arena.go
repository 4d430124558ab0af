// File: internal/arena/arena.go
// Package arena implements the per-request allocator: a bump buffer that is
// dropped in one shot when the response has been serialized. Handlers that
// want to retain data borrowed from the read buffer (paths, header values,
// query params) copy it into the arena rather than holding onto the raw
// connection buffer.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package arena

// Arena is a simple growable byte arena, modeled on momentics-hioload-ws's
// pool.BytePool design (a reusable backing slice handed out in chunks)
// but specialized to per-request copy-and-forget use: there is no Put, only
// Reset between requests when the Arena is pooled by the caller.
type Arena struct {
	buf []byte
}

// New returns an Arena with capacity hint bytes pre-allocated.
func New(hint int) *Arena {
	return &Arena{buf: make([]byte, 0, hint)}
}

// Copy copies src into the arena and returns the arena-owned slice.
func (a *Arena) Copy(src []byte) []byte {
	start := len(a.buf)
	a.buf = append(a.buf, src...)
	return a.buf[start:len(a.buf):len(a.buf)]
}

// CopyString is Copy for a string source.
func (a *Arena) CopyString(s string) []byte {
	start := len(a.buf)
	a.buf = append(a.buf, s...)
	return a.buf[start:len(a.buf):len(a.buf)]
}

// Alloc returns a zeroed slice of length n carved from the arena.
func (a *Arena) Alloc(n int) []byte {
	start := len(a.buf)
	if cap(a.buf)-start < n {
		grown := make([]byte, start, (start+n)*2+16)
		copy(grown, a.buf)
		a.buf = grown
	}
	a.buf = a.buf[:start+n]
	clear(a.buf[start : start+n])
	return a.buf[start : start+n : start+n]
}

// Reset empties the arena for reuse without releasing the backing array.
func (a *Arena) Reset() {
	a.buf = a.buf[:0]
}
