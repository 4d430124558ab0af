// File: httpmsg/errors.go
// Package httpmsg implements the zero-copy HTTP/1.1 request parser and the
// response serializer that sit at the bottom of the request-handling engine.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package httpmsg

import "errors"

// Parser error taxonomy. A caller that receives anything other than
// ErrIncomplete should translate it to a 400 and close the connection,
// per the failure semantics of the engine.
var (
	// ErrIncomplete means the buffer does not yet contain a full header
	// block (\r\n\r\n was not found). The caller should read more bytes.
	ErrIncomplete = errors.New("httpmsg: incomplete request")

	ErrInvalidRequestLine = errors.New("httpmsg: invalid request line")
	ErrInvalidMethod      = errors.New("httpmsg: invalid method")
	ErrInvalidVersion     = errors.New("httpmsg: invalid version")
	ErrInvalidHeader      = errors.New("httpmsg: invalid header")
	ErrURITooLong         = errors.New("httpmsg: uri too long")
	ErrHeadersTooLarge    = errors.New("httpmsg: headers too large")
)

// MaxURILength is the maximum accepted length of the request-target.
const MaxURILength = 4096

// MaxHeaderBlockSize is the maximum accepted size of the header section
// (the bytes between the end of the request line and the blank line).
const MaxHeaderBlockSize = 8192

// MaxHeaderCount is the maximum accepted number of header fields.
const MaxHeaderCount = 100

// MaxBodySize is the hard cap on a Content-Length-delimited body. Requests
// declaring a larger body are rejected with 413 by the transport layer.
const MaxBodySize = 1 << 20 // 1 MiB
