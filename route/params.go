// File: route/params.go
// Package route implements the route-pattern compiler and matcher:
// "/users/:id/*rest" compiles into a segment sequence that is matched
// against an incoming path, extracting named parameters along the way.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package route

import "errors"

// MaxParams bounds the number of entries a Params value can hold, matching
// momentics-hioload-ws's fixed-capacity, allocator-free design for its own
// Params/Assigns maps.
const MaxParams = 32

// ErrTooManyParams is returned by Set when the fixed capacity is exceeded.
var ErrTooManyParams = errors.New("route: too many params")

// entry is one (name, value) pair in a Params set.
type entry struct {
	name  string
	value string
}

// Params is a fixed-capacity, insertion-ordered, case-sensitive mapping
// from parameter name to matched value. Two independent Params values exist
// per request: path params (from route matching) and query params (from
// the query string).
type Params struct {
	entries [MaxParams]entry
	n       int
}

// Set appends or overwrites name=value. Returns ErrTooManyParams once
// MaxParams distinct names have been stored.
func (p *Params) Set(name, value string) error {
	for i := 0; i < p.n; i++ {
		if p.entries[i].name == name {
			p.entries[i].value = value
			return nil
		}
	}
	if p.n >= MaxParams {
		return ErrTooManyParams
	}
	p.entries[p.n] = entry{name: name, value: value}
	p.n++
	return nil
}

// Get returns the value bound to name and whether it was present.
func (p *Params) Get(name string) (string, bool) {
	for i := 0; i < p.n; i++ {
		if p.entries[i].name == name {
			return p.entries[i].value, true
		}
	}
	return "", false
}

// Len reports how many distinct parameters are currently stored.
func (p *Params) Len() int { return p.n }

// Each calls fn for every (name, value) pair in insertion order.
func (p *Params) Each(fn func(name, value string)) {
	for i := 0; i < p.n; i++ {
		fn(p.entries[i].name, p.entries[i].value)
	}
}

// Reset empties the Params set for reuse.
func (p *Params) Reset() { p.n = 0 }
