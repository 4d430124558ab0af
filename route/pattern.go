// File: route/pattern.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Patterns compile once (at router-build time) into a segment sequence.
// Matching walks the path segment by segment with no backtracking: static
// segments compare byte-for-byte, a named parameter consumes exactly one
// non-empty segment, and a wildcard — legal only as the final segment —
// consumes the remaining path including internal slashes.
package route

import (
	"errors"
	"strings"
)

// SegmentKind discriminates the three segment forms a pattern compiles to.
type SegmentKind int

const (
	SegStatic SegmentKind = iota
	SegParam
	SegWildcard
)

// Segment is one compiled piece of a route pattern.
type Segment struct {
	Kind  SegmentKind
	Value string // literal text (SegStatic) or parameter/wildcard name
}

// ErrWildcardNotLast is returned when a pattern places "*name" anywhere but
// the final segment.
var ErrWildcardNotLast = errors.New("route: wildcard must be the final segment")

// ErrEmptyPattern names an empty pattern. Compile does not return it: "/"
// (or "") compiles to a pattern with no segments that matches the root path.
var ErrEmptyPattern = errors.New("route: empty pattern")

// Pattern is a compiled route pattern.
type Pattern struct {
	Raw      string
	Segments []Segment
	Name     string // optional, for BuildPath lookups
}

// Compile parses pattern (e.g. "/users/:id/*rest") into a Pattern.
func Compile(pattern string) (*Pattern, error) {
	trimmed := strings.Trim(pattern, "/")
	var parts []string
	if trimmed != "" {
		parts = strings.Split(trimmed, "/")
	}

	segs := make([]Segment, 0, len(parts))
	for i, part := range parts {
		switch {
		case strings.HasPrefix(part, ":"):
			name := part[1:]
			segs = append(segs, Segment{Kind: SegParam, Value: name})
		case strings.HasPrefix(part, "*"):
			if i != len(parts)-1 {
				return nil, ErrWildcardNotLast
			}
			name := part[1:]
			segs = append(segs, Segment{Kind: SegWildcard, Value: name})
		default:
			segs = append(segs, Segment{Kind: SegStatic, Value: part})
		}
	}
	return &Pattern{Raw: pattern, Segments: segs}, nil
}

// MustCompile is Compile but panics on error; intended for use in package
// init or route-table literals where the pattern is a compile-time constant.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// Match attempts to match path against the compiled pattern, writing any
// captured parameters into params (which the caller owns and should Reset
// before reuse). Returns whether the match succeeded.
func Match(p *Pattern, path string, params *Params) bool {
	trimmed := strings.Trim(path, "/")
	var parts []string
	if trimmed != "" {
		parts = strings.Split(trimmed, "/")
	}

	segs := p.Segments
	for i, seg := range segs {
		switch seg.Kind {
		case SegWildcard:
			var tail string
			if i < len(parts) {
				tail = strings.Join(parts[i:], "/")
			}
			if params != nil {
				params.Set(seg.Value, tail)
			}
			return true
		case SegParam:
			if i >= len(parts) || parts[i] == "" {
				return false
			}
			if params != nil {
				params.Set(seg.Value, parts[i])
			}
		case SegStatic:
			if i >= len(parts) || parts[i] != seg.Value {
				return false
			}
		}
	}
	// No wildcard consumed the tail: segment counts must match exactly.
	return len(parts) == len(segs)
}
