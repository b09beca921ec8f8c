package fcgi

import "github.com/pkg/errors"

// Failure kinds for one request/response exchange. Callers classify
// with errors.Cause; the surrounding wrap carries the detail.
var (
	// ErrBackendUnavailable means the connection to the backend
	// could not be established.
	ErrBackendUnavailable = errors.New("fcgi: backend unavailable")

	// ErrBackendIO means a read or write failed mid-exchange.
	ErrBackendIO = errors.New("fcgi: backend i/o failure")

	// ErrBackendProtocol means the backend's response framing was
	// not valid FastCGI.
	ErrBackendProtocol = errors.New("fcgi: invalid response framing")

	// ErrMissingBodyBoundary means the response carried no blank
	// line separating the header block from the body.
	ErrMissingBodyBoundary = errors.New("fcgi: response has no header/body boundary")

	// ErrMalformedHeaderLine means a response header line had no
	// name/value separator.
	ErrMalformedHeaderLine = errors.New("fcgi: malformed response header line")

	// ErrInvalidStatus means a Status header carried no parseable
	// numeric code, or a code outside the valid 100-999 range.
	ErrInvalidStatus = errors.New("fcgi: invalid status header")
)
