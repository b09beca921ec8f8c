package fcgi

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"net"
	"time"

	"github.com/pkg/errors"
)

// Client issues FastCGI requests against a fixed backend address,
// one request per connection. There is no pooling: every Do dials
// fresh and closes the connection when the exchange is over.
type Client struct {
	Address     string
	DialTimeout time.Duration
}

// RawResponse is the backend's unparsed output for one request: the
// accumulated stdout stream and whatever was written to stderr.
type RawResponse struct {
	Stdout []byte
	Stderr []byte
}

// Do performs one request/response exchange. The params are sent
// first, then body is streamed to the backend in record-sized chunks;
// the body is never materialized in memory. The full response, on the
// other hand, is accumulated before returning. Canceling ctx aborts
// an in-flight exchange by closing the connection.
func (c *Client) Do(ctx context.Context, params map[string]string, body io.Reader) (*RawResponse, error) {
	d := net.Dialer{Timeout: c.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", c.Address)
	if err != nil {
		return nil, errors.Wrapf(ErrBackendUnavailable, "dial %s: %v", c.Address, err)
	}
	defer conn.Close()

	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-watchDone:
		}
	}()

	if err := writeRequest(conn, params, body); err != nil {
		return nil, err
	}

	resp, err := readResponse(conn)
	if err != nil && ctx.Err() != nil {
		return nil, errors.Wrapf(ErrBackendIO, "exchange aborted: %v", ctx.Err())
	}
	return resp, err
}

func writeRequest(conn net.Conn, params map[string]string, body io.Reader) error {
	var buf buffer
	buf.Reset()

	if err := writeBeginReq(conn, &buf, requestID); err != nil {
		return errors.Wrapf(ErrBackendIO, "write begin request: %v", err)
	}
	if err := writeParams(conn, &buf, requestID, params); err != nil {
		return errors.Wrapf(ErrBackendIO, "write params: %v", err)
	}

	var bodyBuf buffer
	bodyBuf.Reset()
	if err := writeStdin(conn, &bodyBuf, requestID, body); err != nil {
		return errors.Wrapf(ErrBackendIO, "write stdin: %v", err)
	}
	return nil
}

// readResponse consumes records off the connection until the backend
// signals end-of-request, splitting payloads into the stdout and
// stderr streams.
func readResponse(r io.Reader) (*RawResponse, error) {
	var h header
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	for {
		if err := binary.Read(r, binary.BigEndian, &h); err != nil {
			return nil, errors.Wrapf(ErrBackendIO, "read record header: %v", err)
		}
		if h.Version != fcgiVersion {
			return nil, errors.Wrapf(ErrBackendProtocol, "unexpected protocol version %d", h.Version)
		}
		if h.ID != requestID {
			return nil, errors.Wrapf(ErrBackendProtocol, "unexpected request id %d", h.ID)
		}

		buf := make([]byte, int(h.ContentLength)+int(h.PaddingLength))
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, errors.Wrapf(ErrBackendIO, "read record payload: %v", err)
		}

		buf = buf[:h.ContentLength]
		switch h.Type {
		case typeStdout:
			stdout.Write(buf)
		case typeStderr:
			stderr.Write(buf)
		case typeEndRequest:
			return &RawResponse{
				Stdout: stdout.Bytes(),
				Stderr: stderr.Bytes(),
			}, nil
		default:
			return nil, errors.Wrapf(ErrBackendProtocol, "unexpected record type %d", h.Type)
		}
	}
}
