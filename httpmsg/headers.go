// File: httpmsg/headers.go
// Author: momentics <momentics@gmail.com>
//
// Headers preserve insertion order (required for serialization and for
// multi-valued fields such as Set-Cookie) while offering case-insensitive
// lookup, matching RFC 7230 §3.2 field-name semantics.
package httpmsg

import "strings"

// Field is a single (name, value) header entry.
type Field struct {
	Name  string
	Value string
}

// Headers is an ordered sequence of header fields. Duplicates are allowed
// and preserved in order.
type Headers struct {
	fields []Field
}

// Add appends a header field, preserving any existing entries with the
// same name.
func (h *Headers) Add(name, value string) {
	h.fields = append(h.fields, Field{Name: name, Value: value})
}

// Set replaces all existing fields named name with a single field carrying
// value, preserving the position of the first match (or appending if none
// existed).
func (h *Headers) Set(name, value string) {
	for i := range h.fields {
		if strings.EqualFold(h.fields[i].Name, name) {
			h.fields[i].Value = value
			h.removeAfter(i, name)
			return
		}
	}
	h.Add(name, value)
}

func (h *Headers) removeAfter(keepIdx int, name string) {
	out := h.fields[:keepIdx+1]
	for i := keepIdx + 1; i < len(h.fields); i++ {
		if !strings.EqualFold(h.fields[i].Name, name) {
			out = append(out, h.fields[i])
		}
	}
	h.fields = out
}

// Get returns the value of the first field matching name, case-insensitive,
// and whether a match was found.
func (h *Headers) Get(name string) (string, bool) {
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// GetAll returns the values of every field matching name, in order.
func (h *Headers) GetAll(name string) []string {
	var out []string
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			out = append(out, f.Value)
		}
	}
	return out
}

// Del removes every field matching name.
func (h *Headers) Del(name string) {
	out := h.fields[:0]
	for _, f := range h.fields {
		if !strings.EqualFold(f.Name, name) {
			out = append(out, f)
		}
	}
	h.fields = out
}

// Len returns the number of header fields currently stored.
func (h *Headers) Len() int { return len(h.fields) }

// All returns the underlying field slice for iteration. Callers must not
// mutate the returned slice.
func (h *Headers) All() []Field { return h.fields }
