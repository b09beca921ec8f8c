package fcgi

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func TestParseResponse(t *testing.T) {
	raw := []byte("Status: 404 Not Found\r\nX-Foo: bar\r\n\r\nbody-bytes")

	resp, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if resp.StatusCode != 404 {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Foo"); got != "bar" {
		t.Errorf("X-Foo = %q, want %q", got, "bar")
	}
	if _, ok := resp.Header["Status"]; ok {
		t.Errorf("Status header must not be forwarded: %v", resp.Header)
	}
	if !bytes.Equal(resp.Body, []byte("body-bytes")) {
		t.Errorf("body = %q, want %q", resp.Body, "body-bytes")
	}
}

func TestParseResponseDefaultStatus(t *testing.T) {
	resp, err := ParseResponse([]byte("Content-Type: text/plain\r\n\r\nhi"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if len(resp.Header) != 1 {
		t.Errorf("header count = %d, want 1", len(resp.Header))
	}
	if !bytes.Equal(resp.Body, []byte("hi")) {
		t.Errorf("body = %q, want %q", resp.Body, "hi")
	}
}

func TestParseResponseMissingBoundary(t *testing.T) {
	_, err := ParseResponse([]byte("Content-Type: text/plain\r\nno boundary here"))
	if errors.Cause(err) != ErrMissingBodyBoundary {
		t.Errorf("err = %v, want %v", err, ErrMissingBodyBoundary)
	}
}

func TestParseResponseMalformedHeaderLine(t *testing.T) {
	_, err := ParseResponse([]byte("Content-Type text/plain\r\n\r\nhi"))
	if errors.Cause(err) != ErrMalformedHeaderLine {
		t.Errorf("err = %v, want %v", err, ErrMalformedHeaderLine)
	}
}

func TestParseResponseStatus(t *testing.T) {
	tests := []struct {
		val    string
		status int
		fails  bool
	}{
		{"200 OK", 200, false},
		{"204 No Content", 204, false},
		{"301", 301, false},
		{"100", 100, false},
		{"999", 999, false},
		{"abc", 0, true},
		{"", 0, true},
		{" 200", 0, true},
		{"42 Whatever", 0, true},
		{"99", 0, true},
		{"1000", 0, true},
		{"9999", 0, true},
	}

	for _, tt := range tests {
		raw := []byte("Status: " + tt.val + "\r\n\r\n")
		resp, err := ParseResponse(raw)
		if tt.fails {
			if errors.Cause(err) != ErrInvalidStatus {
				t.Errorf("Status %q: err = %v, want %v", tt.val, err, ErrInvalidStatus)
			}
			continue
		}
		if err != nil {
			t.Errorf("Status %q: parse failed: %v", tt.val, err)
			continue
		}
		if resp.StatusCode != tt.status {
			t.Errorf("Status %q: status = %d, want %d", tt.val, resp.StatusCode, tt.status)
		}
	}
}

func TestParseResponseStatusCaseInsensitive(t *testing.T) {
	resp, err := ParseResponse([]byte("sTaTuS: 503\r\n\r\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if resp.StatusCode != 503 {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
	if len(resp.Header) != 0 {
		t.Errorf("headers = %v, want none", resp.Header)
	}
}

func TestParseResponseDuplicateHeaders(t *testing.T) {
	resp, err := ParseResponse([]byte("X-Foo: one\r\nX-Foo: two\r\n\r\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := resp.Header.Get("X-Foo"); got != "two" {
		t.Errorf("X-Foo = %q, want %q (last occurrence wins)", got, "two")
	}
}

func TestParseResponseEmptyHeaderBlock(t *testing.T) {
	resp, err := ParseResponse([]byte("\r\n\r\nraw body"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if len(resp.Header) != 0 {
		t.Errorf("headers = %v, want none", resp.Header)
	}
	if !bytes.Equal(resp.Body, []byte("raw body")) {
		t.Errorf("body = %q, want %q", resp.Body, "raw body")
	}
}

func TestParseResponseIdempotent(t *testing.T) {
	raw := []byte("Status: 418\r\nX-Foo: bar\r\n\r\nteapot")

	first, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	second, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated parses differ: %+v vs %+v", first, second)
	}
}
