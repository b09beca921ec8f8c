package gateway

import (
	"net/http"
	"strconv"

	"github.com/pkg/errors"
)

// ErrMalformedHeader means an inbound header that feeds a FastCGI
// parameter could not be parsed.
var ErrMalformedHeader = errors.New("gateway: malformed content-length header")

// fcgiParams maps an inbound request onto the parameter set for the
// backend. Script identity and the network values are fixed: the
// gateway funnels every request to the single configured script and
// does not propagate client network identity. SCRIPT_FILENAME always
// comes from the config, never from the request. The request body is
// left untouched for the transport to stream.
func fcgiParams(r *http.Request, opt *FpmOptions) (map[string]string, error) {
	params := map[string]string{
		"REQUEST_METHOD":  r.Method,
		"SCRIPT_FILENAME": opt.ScriptPath,
		"SCRIPT_NAME":     "/index.php",
		"REQUEST_URI":     "/",
		"REMOTE_ADDR":     "127.0.0.1",
		"REMOTE_PORT":     "12345",
		"SERVER_ADDR":     "127.0.0.1",
		"SERVER_PORT":     "80",
		"SERVER_NAME":     "localhost",
	}

	if v := r.Header.Get("Content-Length"); v != "" {
		if _, err := strconv.ParseUint(v, 10, 63); err != nil {
			return nil, errors.Wrapf(ErrMalformedHeader, "content-length %q", v)
		}
		params["CONTENT_LENGTH"] = v
	}
	if v := r.Header.Get("Content-Type"); v != "" {
		params["CONTENT_TYPE"] = v
	}

	return params, nil
}
