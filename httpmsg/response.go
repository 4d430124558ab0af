// File: httpmsg/response.go
// Author: momentics <momentics@gmail.com>
package httpmsg

// reasonPhrases is the closed status table from which Response reason
// phrases are drawn. Codes outside this table still serialize (with an
// empty reason phrase) but are not expected to be used by handlers.
var reasonPhrases = map[int]string{
	200: "OK",
	201: "Created",
	204: "No Content",
	206: "Partial Content",
	301: "Moved Permanently",
	302: "Found",
	303: "See Other",
	304: "Not Modified",
	307: "Temporary Redirect",
	308: "Permanent Redirect",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	408: "Request Timeout",
	409: "Conflict",
	411: "Length Required",
	413: "Payload Too Large",
	414: "URI Too Long",
	415: "Unsupported Media Type",
	426: "Upgrade Required",
	431: "Request Header Fields Too Large",
	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	101: "Switching Protocols",
}

// ReasonPhrase returns the canonical reason phrase for code, or "" if code
// is not in the closed table.
func ReasonPhrase(code int) string {
	return reasonPhrases[code]
}

// Response is the response-in-progress a handler mutates. BodyOwned
// indicates the body slice was allocated from the per-request arena (and
// must not be retained past the request scope); handlers returning a
// caller-owned buffer (e.g., a static asset) leave BodyOwned false.
type Response struct {
	Status    int
	Reason    string
	Headers   Headers
	Body      []byte
	BodyOwned bool

	// contentLength and contentLengthSet override len(Body) as the value
	// Serialize emits for Content-Length when contentLengthSet is true. The
	// router sets this before clearing a HEAD response's body, so the
	// header stays accurate to what the body would have been (spec.md
	// §4.4) even though no body bytes are sent. The zero value of Response
	// (contentLengthSet == false) falls back to len(Body), so a literal
	// &Response{...} built without NewResponse behaves exactly as before.
	contentLength    int64
	contentLengthSet bool
}

// NewResponse returns an empty 200 OK response, matching the zero value a
// fresh Context hands to a handler.
func NewResponse() *Response {
	return &Response{Status: 200, Reason: ReasonPhrase(200)}
}

// SuppressBody clears the response body while pinning Content-Length to the
// length it had just before clearing, so a HEAD response (or any other
// caller needing a bodiless response with an accurate length) still
// serializes the correct Content-Length. Safe to call more than once.
func (r *Response) SuppressBody() {
	if !r.contentLengthSet {
		r.contentLength = int64(len(r.Body))
		r.contentLengthSet = true
	}
	r.Body = nil
	r.BodyOwned = false
}

// ContentLength returns the value Serialize will emit for Content-Length:
// the pinned override from SuppressBody if one was set, otherwise
// len(Body).
func (r *Response) ContentLength() int64 {
	if r.contentLengthSet {
		return r.contentLength
	}
	return int64(len(r.Body))
}

// SetStatus sets the status code and derives the reason phrase from the
// closed table (falling back to empty if unknown).
func (r *Response) SetStatus(code int) {
	r.Status = code
	r.Reason = ReasonPhrase(code)
}

// SetBody replaces the response body with an unowned slice (not released by
// the per-request arena).
func (r *Response) SetBody(b []byte) {
	r.Body = b
	r.BodyOwned = false
}

// SetOwnedBody replaces the response body with a slice allocated from the
// per-request arena.
func (r *Response) SetOwnedBody(b []byte) {
	r.Body = b
	r.BodyOwned = true
}
