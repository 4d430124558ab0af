// File: middleware/assigns.go
// Package middleware implements the per-request Context, the Assigns
// key/value bag, and the middleware pipeline composer.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package middleware

import "errors"

// MaxAssigns bounds the number of distinct keys an Assigns bag can hold —
// the same fixed-capacity, allocator-free design momentics-hioload-ws used
// for Params.
const MaxAssigns = 32

// ErrTooManyAssigns is returned once MaxAssigns distinct keys are stored.
var ErrTooManyAssigns = errors.New("middleware: too many assigns")

type assignEntry struct {
	key   string
	value string
}

// Assigns is a fixed-capacity key/value bag middleware uses to pass data
// (an authenticated user id, a request id, a trace span) to downstream
// handlers. Strings only — richer types are the caller's responsibility to
// serialize.
type Assigns struct {
	entries [MaxAssigns]assignEntry
	n       int
}

// Set stores or overwrites key=value.
func (a *Assigns) Set(key, value string) error {
	for i := 0; i < a.n; i++ {
		if a.entries[i].key == key {
			a.entries[i].value = value
			return nil
		}
	}
	if a.n >= MaxAssigns {
		return ErrTooManyAssigns
	}
	a.entries[a.n] = assignEntry{key: key, value: value}
	a.n++
	return nil
}

// Get returns the value for key and whether it was present.
func (a *Assigns) Get(key string) (string, bool) {
	for i := 0; i < a.n; i++ {
		if a.entries[i].key == key {
			return a.entries[i].value, true
		}
	}
	return "", false
}

// Reset empties the bag for reuse across requests.
func (a *Assigns) Reset() { a.n = 0 }
