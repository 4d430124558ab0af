// File: httpmsg/serialize.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Serialize renders a Response onto a byte buffer: status line,
// Content-Length, Server identifier, each header in insertion order, the
// blank line, and the body.
package httpmsg

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/http/httpguts"
)

// ServerIdentifier is the value sent in the Server response header.
const ServerIdentifier = "hioload-web"

// Serialize appends the wire form of resp to dst and returns the extended
// slice. Header names/values are validated with httpguts (the same
// validator net/http itself uses) before being written — a handler that
// smuggles CR/LF into a header value gets ErrInvalidHeader instead of a
// response-splitting vulnerability.
func Serialize(dst []byte, resp *Response) ([]byte, error) {
	reason := resp.Reason
	if reason == "" {
		reason = ReasonPhrase(resp.Status)
	}
	dst = append(dst, "HTTP/1.1 "...)
	dst = strconv.AppendInt(dst, int64(resp.Status), 10)
	dst = append(dst, ' ')
	dst = append(dst, reason...)
	dst = append(dst, "\r\n"...)

	dst = append(dst, "Content-Length: "...)
	dst = strconv.AppendInt(dst, resp.ContentLength(), 10)
	dst = append(dst, "\r\n"...)

	dst = append(dst, "Server: "...)
	dst = append(dst, ServerIdentifier...)
	dst = append(dst, "\r\n"...)

	for _, f := range resp.Headers.All() {
		if !httpguts.ValidHeaderFieldName(f.Name) || !httpguts.ValidHeaderFieldValue(f.Value) {
			return dst, fmt.Errorf("httpmsg: %w: %q", ErrInvalidHeader, f.Name)
		}
		dst = append(dst, f.Name...)
		dst = append(dst, ": "...)
		dst = append(dst, f.Value...)
		dst = append(dst, "\r\n"...)
	}

	dst = append(dst, "\r\n"...)
	dst = append(dst, resp.Body...)

	if debugLog != nil {
		debugLog.WithFields(logrus.Fields{
			"status":     resp.Status,
			"body_bytes": len(resp.Body),
		}).Debug("httpmsg: serialized response")
	}

	return dst, nil
}
