// response/envelope.go
/* The response package normalizes the outcome of every API call into a single
Envelope value, regardless of which API family produced it or whether the
request ever reached the server. */
package response

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/thedzy/jamf-classes/status"
)

// Envelope is the uniform success/failure/result wrapper returned from every
// call. It is immutable once constructed; all failure classes surface through
// Err rather than through raised errors.
type Envelope struct {
	success      bool
	url          string
	rawBody      string
	httpCode     int
	err          string
	parsed       any
	isStructured bool
}

// New builds an Envelope from a received HTTP response. Success is computed
// solely from the status code; a structured body is derived opportunistically
// and never fails construction.
func New(url string, httpCode int, rawBody string) *Envelope {
	return NewFromResponse(url, httpCode, rawBody, "")
}

// NewFromResponse builds an Envelope like New, using the response's
// Content-Type header to order the body parse attempts.
func NewFromResponse(url string, httpCode int, rawBody, contentType string) *Envelope {
	e := &Envelope{
		success:  status.IsSuccessStatusCode(httpCode),
		url:      url,
		rawBody:  rawBody,
		httpCode: httpCode,
	}
	e.parsed, e.isStructured = ParseWithContentType(rawBody, contentType)

	if !e.success {
		e.err = DeriveErrorMessage(httpCode, rawBody)
	}

	return e
}

// NewTransportError builds an Envelope for a request that never produced a
// response: connection failures, TLS failures and timeouts. The code is 0.
func NewTransportError(url string, err error) *Envelope {
	return &Envelope{
		success:  false,
		url:      url,
		httpCode: 0,
		err:      err.Error(),
	}
}

// NewWithError builds an Envelope whose error message is supplied by the
// caller instead of derived from the body. The dispatcher uses it when a
// credential renewal fails: the envelope carries the original call's URL and
// status, with the renewal failure as the error.
func NewWithError(url string, httpCode int, rawBody string, errMsg string) *Envelope {
	e := &Envelope{
		success:  false,
		url:      url,
		rawBody:  rawBody,
		httpCode: httpCode,
		err:      errMsg,
	}
	e.parsed, e.isStructured = Parse(rawBody)
	return e
}

// NewRequestError builds an Envelope for a request that could not be built
// at all, before any network I/O.
func NewRequestError(err error) *Envelope {
	return &Envelope{
		success:  false,
		httpCode: 0,
		err:      err.Error(),
	}
}

// Success reports whether the HTTP status code was in the 2xx range.
func (e *Envelope) Success() bool { return e.success }

// URL returns the fully-resolved request URL, or "" when the request could
// not be built.
func (e *Envelope) URL() string { return e.url }

// RawBody returns the raw response payload.
func (e *Envelope) RawBody() string { return e.rawBody }

// HTTPCode returns the HTTP status code, or 0 when no response was received.
func (e *Envelope) HTTPCode() int { return e.httpCode }

// Err returns the error message for transport failures and non-2xx statuses,
// or "" on success.
func (e *Envelope) Err() string { return e.err }

// Data returns the structured value derived from the body (JSON object/array
// or the XML root mapping) and whether derivation succeeded.
func (e *Envelope) Data() (any, bool) { return e.parsed, e.isStructured }

// IsStructured reports whether the body parsed as JSON or XML.
func (e *Envelope) IsStructured() bool { return e.isStructured }

// Get looks up a dotted path in a JSON body, e.g. Get("results.0.name").
// The zero Result is returned for non-JSON bodies or missing paths.
func (e *Envelope) Get(path string) gjson.Result {
	if !gjson.Valid(e.rawBody) {
		return gjson.Result{}
	}
	return gjson.Get(e.rawBody, path)
}

func (e *Envelope) String() string {
	return fmt.Sprintf("<Envelope(success=%t, http_code=%d, url=%s)>", e.success, e.httpCode, e.url)
}
