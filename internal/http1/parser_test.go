package http1

import (
	"errors"
	"testing"
)

func TestParseRequest_Basic(t *testing.T) {
	raw := "GET /index.html HTTP/1.1\r\nHost: example.test\r\nAccept-Encoding: gzip\r\n\r\n"
	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest error: %v", err)
	}
	if req.Method != "GET" || req.Target != "/index.html" || req.Proto != "HTTP/1.1" {
		t.Fatalf("request line parsed as %q %q %q", req.Method, req.Target, req.Proto)
	}
	if req.RequestLine != "GET /index.html HTTP/1.1" {
		t.Fatalf("RequestLine=%q", req.RequestLine)
	}
	if got := req.HeaderValue("Host"); got != "example.test" {
		t.Fatalf("Host=%q", got)
	}
	if got := req.HeaderValue("Accept-Encoding"); got != "gzip" {
		t.Fatalf("Accept-Encoding=%q", got)
	}
	if req.Body != nil {
		t.Fatalf("unexpected body %q", req.Body)
	}
}

func TestParseRequest_InlineBody(t *testing.T) {
	raw := "POST /echo HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello"
	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest error: %v", err)
	}
	if string(req.Body) != "hello" {
		t.Fatalf("body=%q", req.Body)
	}
	if got := req.HeaderValue("Content-Length"); got != "5" {
		t.Fatalf("Content-Length=%q", got)
	}
}

func TestParseRequest_ValueWhitespaceTrimmed(t *testing.T) {
	raw := "GET / HTTP/1.1\r\nAccept-Encoding:   gzip, deflate  \r\n\r\n"
	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest error: %v", err)
	}
	if got := req.HeaderValue("Accept-Encoding"); got != "gzip, deflate" {
		t.Fatalf("Accept-Encoding=%q", got)
	}
}

func TestParseRequest_RequestLineOnly(t *testing.T) {
	req, err := ParseRequest([]byte("GET / HTTP/1.1\r\n"))
	if err != nil {
		t.Fatalf("ParseRequest error: %v", err)
	}
	if req.Method != "GET" || req.Target != "/" {
		t.Fatalf("parsed %q %q", req.Method, req.Target)
	}
}

func TestParseRequest_Empty(t *testing.T) {
	if _, err := ParseRequest(nil); !errors.Is(err, ErrEmptyRequest) {
		t.Fatalf("err=%v, want ErrEmptyRequest", err)
	}
}

func TestParseRequest_ShortRequestLine(t *testing.T) {
	if _, err := ParseRequest([]byte("GARBAGE\r\n\r\n")); !errors.Is(err, ErrBadRequestLine) {
		t.Fatalf("err=%v, want ErrBadRequestLine", err)
	}
}

func TestParseRequest_HeaderWithoutColon(t *testing.T) {
	raw := "GET / HTTP/1.1\r\nno colon here\r\n\r\n"
	if _, err := ParseRequest([]byte(raw)); !errors.Is(err, ErrBadHeaderLine) {
		t.Fatalf("err=%v, want ErrBadHeaderLine", err)
	}
}

func TestParseRequest_HeaderKeysCaseSensitive(t *testing.T) {
	raw := "GET / HTTP/1.1\r\ncontent-length: 3\r\n\r\n"
	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest error: %v", err)
	}
	if got := req.HeaderValue("Content-Length"); got != "" {
		t.Fatalf("expected case-sensitive miss, got %q", got)
	}
	if got := req.HeaderValue("content-length"); got != "3" {
		t.Fatalf("content-length=%q", got)
	}
}
