package http1

import (
	"bufio"
	"fmt"
	"strings"
)

// WriteStatusLine writes `HTTP/1.1 <status>\r\n` where status is the full
// code-and-reason string, e.g. "200 OK" or "405 Not Allowed".
func WriteStatusLine(bw *bufio.Writer, status string) error {
	_, err := fmt.Fprintf(bw, "HTTP/1.1 %s\r\n", status)
	return err
}

// WriteHeader writes one `Name: Value\r\n` header line. The value is
// sanitized so a provider-supplied string can never split the header block.
func WriteHeader(bw *bufio.Writer, name, value string) error {
	_, err := fmt.Fprintf(bw, "%s: %s\r\n", name, sanitizeHeaderValue(value))
	return err
}

// EndHeaders terminates the header block with a blank CRLF line.
func EndHeaders(bw *bufio.Writer) error {
	_, err := bw.WriteString("\r\n")
	return err
}

// WriteChunk frames one HTTP/1.1 chunk: `<hex-length>\r\n<bytes>\r\n`.
// Empty chunks are skipped, since a zero length would terminate the stream.
func WriteChunk(bw *bufio.Writer, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if _, err := fmt.Fprintf(bw, "%x\r\n", len(p)); err != nil {
		return 0, err
	}
	if _, err := bw.Write(p); err != nil {
		return 0, err
	}
	if _, err := bw.WriteString("\r\n"); err != nil {
		return 0, err
	}
	return len(p), nil
}

// EndChunked writes the terminating zero-length chunk.
func EndChunked(bw *bufio.Writer) error {
	_, err := bw.WriteString("0\r\n\r\n")
	return err
}

func sanitizeHeaderValue(v string) string {
	if v == "" {
		return v
	}
	// Remove CR/LF and other control chars except HTAB.
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\r' || c == '\n' || c == 0x7f {
			continue
		}
		if c < 0x20 && c != '\t' {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
