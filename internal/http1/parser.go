package http1

import (
	"errors"
	"strings"
)

var (
	ErrEmptyRequest    = errors.New("http1: empty request")
	ErrBadRequestLine  = errors.New("http1: malformed request line")
	ErrBadHeaderLine   = errors.New("http1: malformed header line")
)

// Request is the structured form of one raw header block as read off the
// wire in a single bounded read. Header keys are kept case-sensitive as
// received; values are trimmed of surrounding whitespace.
type Request struct {
	RequestLine string
	Method      string
	Target      string
	Proto       string
	Header      map[string]string
	Body        []byte
}

// HeaderValue returns the trimmed value for an exact header name, or "".
func (r *Request) HeaderValue(name string) string {
	if r == nil || r.Header == nil {
		return ""
	}
	return strings.TrimSpace(r.Header[name])
}

// ParseRequest turns a raw header block into a Request. The block is split
// on CRLF; the first line is `METHOD target HTTP-VERSION`, subsequent lines
// up to the first blank line are `Name: Value` headers, and any non-empty
// material after the blank delimiter is an inline body. The parser performs
// no network I/O and never panics on malformed input.
func ParseRequest(raw []byte) (*Request, error) {
	lines := strings.Split(string(raw), "\r\n")
	first := strings.TrimSpace(lines[0])
	if first == "" {
		return nil, ErrEmptyRequest
	}

	fields := strings.Fields(first)
	if len(fields) < 2 {
		return nil, ErrBadRequestLine
	}
	req := &Request{
		RequestLine: first,
		Method:      fields[0],
		Target:      fields[1],
		Header:      make(map[string]string),
	}
	if len(fields) > 2 {
		req.Proto = fields[2]
	}

	// Headers run until the blank delimiter line.
	i := 1
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, ErrBadHeaderLine
		}
		req.Header[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	// Inline body: whatever followed the blank delimiter in the same read.
	if i < len(lines)-1 {
		body := strings.Join(lines[i+1:], "\r\n")
		if body != "" {
			req.Body = []byte(body)
		}
	}
	return req, nil
}
