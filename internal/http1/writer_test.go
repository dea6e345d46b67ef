package http1

import (
	"bufio"
	"bytes"
	"testing"
)

func TestWriteStatusLine(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := WriteStatusLine(bw, "405 Not Allowed"); err != nil {
		t.Fatalf("WriteStatusLine: %v", err)
	}
	bw.Flush()
	if got := buf.String(); got != "HTTP/1.1 405 Not Allowed\r\n" {
		t.Fatalf("status line = %q", got)
	}
}

func TestHeaderBlockFraming(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	WriteHeader(bw, "Content-Type", "text/html")
	WriteHeader(bw, "Connection", "close")
	EndHeaders(bw)
	bw.Flush()
	want := "Content-Type: text/html\r\nConnection: close\r\n\r\n"
	if got := buf.String(); got != want {
		t.Fatalf("header block = %q, want %q", got, want)
	}
}

func TestWriteHeader_SanitizesValue(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	WriteHeader(bw, "X-Test", "a\r\nInjected: b")
	bw.Flush()
	if got := buf.String(); got != "X-Test: aInjected: b\r\n" {
		t.Fatalf("sanitized header = %q", got)
	}
}

func TestWriteChunk_Framing(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	n, err := WriteChunk(bw, []byte("hello, world"))
	if err != nil {
		t.Fatalf("WriteChunk: %v", err)
	}
	if n != 12 {
		t.Fatalf("n=%d", n)
	}
	bw.Flush()
	if got := buf.String(); got != "c\r\nhello, world\r\n" {
		t.Fatalf("chunk = %q", got)
	}
}

func TestWriteChunk_EmptySkipped(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	n, err := WriteChunk(bw, nil)
	if err != nil || n != 0 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	bw.Flush()
	if buf.Len() != 0 {
		t.Fatalf("empty chunk wrote %q", buf.String())
	}
}

func TestEndChunked(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := EndChunked(bw); err != nil {
		t.Fatalf("EndChunked: %v", err)
	}
	bw.Flush()
	if got := buf.String(); got != "0\r\n\r\n" {
		t.Fatalf("terminator = %q", got)
	}
}
