// File: route/registry.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package route

import (
	"errors"
	"net/url"
	"strings"
)

// ErrRouteNotFound is returned by BuildPath when name has no registered
// pattern.
var ErrRouteNotFound = errors.New("route: named route not found")

// ErrMissingParam is returned by BuildPath when a required :param has no
// corresponding entry in params.
var ErrMissingParam = errors.New("route: missing param for named route")

// Registry is the reverse map from route name to compiled pattern, used by
// BuildPath to interpolate params back into a path.
type Registry struct {
	byName map[string]*Pattern
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Pattern)}
}

// Register associates name with pattern for later BuildPath lookups.
func (r *Registry) Register(name string, pattern *Pattern) {
	pattern.Name = name
	r.byName[name] = pattern
}

// BuildPath interpolates params into the named route's pattern. Named
// parameter values are percent-encoded; wildcard tails are not (they may
// legitimately contain slashes that must survive un-encoded).
func (r *Registry) BuildPath(name string, params map[string]string) (string, error) {
	pattern, ok := r.byName[name]
	if !ok {
		return "", ErrRouteNotFound
	}

	var b strings.Builder
	for _, seg := range pattern.Segments {
		b.WriteByte('/')
		switch seg.Kind {
		case SegStatic:
			b.WriteString(seg.Value)
		case SegParam:
			v, ok := params[seg.Value]
			if !ok {
				return "", ErrMissingParam
			}
			b.WriteString(url.PathEscape(v))
		case SegWildcard:
			v := params[seg.Value]
			b.WriteString(v)
		}
	}
	if b.Len() == 0 {
		return "/", nil
	}
	return b.String(), nil
}
