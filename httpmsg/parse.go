// File: httpmsg/parse.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Parse implements the HTTP/1.1 request-line and header parser.
// Request.Path and Request.Query reference buf directly without copying;
// header names and values are copied into Go strings. The caller is
// responsible for keeping buf alive for as long as Path/Query are used (normally: the
// lifetime of the per-request arena), and for attaching a body slice
// separately once Content-Length bytes have been read from the transport.
package httpmsg

import (
	"bytes"

	"github.com/sirupsen/logrus"
)

// debugLog is nil unless SetDebugLogger has been called; Parse and Serialize
// skip the log call entirely in that case, so normal operation pays no
// logging cost.
var debugLog *logrus.Entry

// SetDebugLogger installs (or clears, with nil) the logger Parse and
// Serialize use for debug-level request/response tracing. Intended to be
// called once at startup by server.New when its Config enables debug
// logging, not from request-handling code.
func SetDebugLogger(log *logrus.Entry) {
	debugLog = log
}

// Parse scans buf for a complete HTTP/1.1 request-line + header block and
// returns the parsed Request along with the number of bytes consumed
// (the offset just past the blank line separating headers from body).
//
// Parse returns ErrIncomplete (with a nil Request) when buf does not yet
// contain a full "\r\n\r\n" terminated header block — the caller should
// read more bytes and retry. All other errors are terminal for the
// connection and should be translated to 400 Bad Request.
func Parse(buf []byte) (*Request, int, error) {
	sep := bytes.Index(buf, []byte("\r\n\r\n"))
	if sep < 0 {
		if len(buf) > MaxURILength+MaxHeaderBlockSize {
			return nil, 0, ErrHeadersTooLarge
		}
		return nil, 0, ErrIncomplete
	}
	headerBlock := buf[:sep]
	consumed := sep + 4

	lineEnd := bytes.Index(headerBlock, []byte("\r\n"))
	var requestLine []byte
	var rest []byte
	if lineEnd < 0 {
		requestLine = headerBlock
		rest = nil
	} else {
		requestLine = headerBlock[:lineEnd]
		rest = headerBlock[lineEnd+2:]
	}

	if len(rest) > MaxHeaderBlockSize {
		return nil, 0, ErrHeadersTooLarge
	}

	req := &Request{}
	if err := parseRequestLine(req, requestLine); err != nil {
		return nil, 0, err
	}

	if err := parseHeaderLines(req, rest); err != nil {
		return nil, 0, err
	}

	if debugLog != nil {
		debugLog.WithFields(logrus.Fields{
			"method":   req.Method.String(),
			"path":     string(req.Path),
			"consumed": consumed,
		}).Debug("httpmsg: parsed request")
	}

	return req, consumed, nil
}

func parseRequestLine(req *Request, line []byte) error {
	// METHOD SP request-target SP HTTP-version
	sp1 := bytes.IndexByte(line, ' ')
	if sp1 < 0 {
		return ErrInvalidRequestLine
	}
	rest := line[sp1+1:]
	sp2 := bytes.IndexByte(rest, ' ')
	if sp2 < 0 {
		return ErrInvalidRequestLine
	}

	methodTok := line[:sp1]
	uri := rest[:sp2]
	versionTok := rest[sp2+1:]

	if len(uri) > MaxURILength {
		return ErrURITooLong
	}

	method := ParseMethod(methodTok)
	if method == MethodUnknown {
		return ErrInvalidMethod
	}
	req.Method = method

	if q := bytes.IndexByte(uri, '?'); q >= 0 {
		req.Path = uri[:q]
		req.Query = uri[q+1:]
	} else {
		req.Path = uri
		req.Query = nil
	}

	switch string(versionTok) {
	case "HTTP/1.1":
		req.Version = HTTP11
	case "HTTP/1.0":
		req.Version = HTTP10
	default:
		return ErrInvalidVersion
	}
	return nil
}

func parseHeaderLines(req *Request, block []byte) error {
	count := 0
	for len(block) > 0 {
		var line []byte
		if idx := bytes.Index(block, []byte("\r\n")); idx >= 0 {
			line = block[:idx]
			block = block[idx+2:]
		} else {
			line = block
			block = nil
		}
		if len(line) == 0 {
			continue
		}
		colon := bytes.IndexByte(line, ':')
		if colon < 0 {
			return ErrInvalidHeader
		}
		name := trimOWS(line[:colon])
		value := trimOWS(line[colon+1:])
		if len(name) == 0 {
			return ErrInvalidHeader
		}
		count++
		if count > MaxHeaderCount {
			return ErrHeadersTooLarge
		}
		req.Headers.Add(string(name), string(value))
	}
	return nil
}
