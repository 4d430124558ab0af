// File: route/query.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package route

import (
	"net/url"
	"strings"
)

// ParseQuery decodes a raw query string ("a=1&b=2") into params. Malformed
// percent-escapes are passed through verbatim rather than failing the
// whole request — query parsing is best-effort, not a strict RFC 3986
// validator.
func ParseQuery(query []byte, params *Params) {
	if len(query) == 0 {
		return
	}
	for _, pair := range strings.Split(string(query), "&") {
		if pair == "" {
			continue
		}
		var key, value string
		if eq := strings.IndexByte(pair, '='); eq >= 0 {
			key, value = pair[:eq], pair[eq+1:]
		} else {
			key = pair
		}
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		params.Set(key, value)
	}
}
