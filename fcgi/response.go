package fcgi

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Response is a backend response parsed out of the raw stdout stream:
// a pseudo-CGI header block followed by the body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

var (
	crlf      = []byte("\r\n")
	crlfcrlf  = []byte("\r\n\r\n")
	headerSep = []byte(": ")
)

// ParseResponse splits raw at the first blank line into the header
// block and the body. A Status header supplies the HTTP status code
// and is consumed; without one the status defaults to 200. The body
// is returned byte for byte with no transformation.
func ParseResponse(raw []byte) (*Response, error) {
	ix := bytes.Index(raw, crlfcrlf)
	if ix < 0 {
		return nil, ErrMissingBodyBoundary
	}

	resp := &Response{
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
		Body:       raw[ix+len(crlfcrlf):],
	}

	block := raw[:ix]
	if len(block) == 0 {
		return resp, nil
	}

	for _, line := range bytes.Split(block, crlf) {
		sep := bytes.Index(line, headerSep)
		if sep < 0 {
			return nil, errors.Wrapf(ErrMalformedHeaderLine, "%q", line)
		}

		name := string(line[:sep])
		val := string(line[sep+len(headerSep):])
		if strings.EqualFold(name, "Status") {
			code, err := parseStatus(val)
			if err != nil {
				return nil, err
			}
			resp.StatusCode = code
			continue
		}

		// Set, not Add: for duplicate names the last one wins.
		resp.Header.Set(name, val)
	}

	return resp, nil
}

// parseStatus takes the leading run of ASCII digits from a Status
// value, so "204 No Content" yields 204. Codes outside 100-999 are
// rejected; they are not valid HTTP status codes and would not be
// writable as a response.
func parseStatus(val string) (int, error) {
	n := 0
	for n < len(val) && val[n] >= '0' && val[n] <= '9' {
		n++
	}
	if n == 0 {
		return 0, errors.Wrapf(ErrInvalidStatus, "%q", val)
	}

	code, err := strconv.ParseUint(val[:n], 10, 16)
	if err != nil || code < 100 || code > 999 {
		return 0, errors.Wrapf(ErrInvalidStatus, "%q", val)
	}
	return int(code), nil
}
