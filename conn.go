package httpserv

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"dqx0.com/go/httpserv/internal/http1"
	"dqx0.com/go/httpserv/internal/obs"
)

// handle executes exactly one request/response cycle, emits one access-log
// line, and closes the connection. A provider panic is isolated to this
// connection: it is logged with status 500 and never reaches the accept
// loop.
func (s *Server) handle(c net.Conn) {
	start := time.Now()
	connID := uuid.NewString()
	requestLine := "-"
	logged := false

	defer c.Close()
	defer func() {
		if r := recover(); r != nil {
			s.log.Logf(obs.Error, "conn %s: provider panic: %v", connID, r)
			if !logged {
				s.logAccess(c, requestLine, statusInternal, "-")
			}
			s.count(statusInternal, 0, start)
		}
	}()

	buf := make([]byte, headerReadCap)
	n, err := c.Read(buf)
	if err != nil && n == 0 {
		s.log.Logf(obs.Debug, "conn %s: read: %v", connID, err)
		return
	}
	req, perr := http1.ParseRequest(buf[:n])

	var (
		status string
		target string
		allow  string
		method string
		body   []byte
	)
	if perr != nil {
		status, target = statusBadRequest, "/400.html"
	} else {
		switch s.reg.route(req.Method, req.Target, s.allowed) {
		case MethodNotAllowed:
			status, target = statusNotAllowed, "/405.html"
			allow = s.allowHeader
		case Found:
			status, target = statusOK, req.Target
		default:
			status, target = statusNotFound, "/404.html"
		}
	}
	if req != nil {
		requestLine = req.RequestLine
		method = req.Method
		body = req.Body
		// POST bodies not captured by the initial read arrive in exactly
		// one follow-up bounded read sized by Content-Length.
		if method == "POST" && len(body) == 0 {
			if cl, err := strconv.Atoi(req.HeaderValue("Content-Length")); err == nil && cl > 0 {
				b := make([]byte, cl)
				if m, _ := c.Read(b); m > 0 {
					body = b[:m]
				}
			}
		}
	}

	provider, ok := s.reg.lookup(target)
	if !ok {
		// Only /400.html can legitimately be unregistered; Run verified
		// the 404/405 pages at startup.
		provider = BadRequestPage()
	}

	// Compression is a per-connection decision: the server must have been
	// built with negotiation enabled and the client must advertise gzip.
	gz := s.gzip == GzipNegotiate && req != nil &&
		strings.Contains(req.HeaderValue("Accept-Encoding"), "gzip")

	declared := provider.Size(method, target, body)
	sizeStr := "-"
	if declared != SizeUnknown {
		sizeStr = strconv.FormatInt(declared, 10)
	}
	s.logAccess(c, requestLine, status, sizeStr)
	logged = true

	content := provider.Content(method, target, body)
	var sent int
	if content.Streamed {
		sent, err = s.transmitChunked(c, status, provider.ContentType(), allow, gz, method, content.Next)
	} else {
		sent, err = s.transmitFixed(c, status, provider.ContentType(), allow, gz, method, content.Payload)
	}
	if err != nil {
		// A failed connection is abandoned, not retried.
		s.log.Logf(obs.Debug, "conn %s: write: %v", connID, err)
	}
	s.count(status, sent, start)
}

// transmitFixed sends a fixed-length response: status line, headers, blank
// line, then the full body. The body is omitted for HEAD. When compressing,
// Content-Length carries the post-compression length.
func (s *Server) transmitFixed(c net.Conn, status, ctype, allow string, gz bool, method string, payload []byte) (int, error) {
	bw := bufio.NewWriter(c)
	if gz {
		zp, err := gzipBytes(payload)
		if err != nil {
			gz = false
		} else {
			payload = zp
		}
	}
	if err := http1.WriteStatusLine(bw, status); err != nil {
		return 0, err
	}
	http1.WriteHeader(bw, "Content-Type", ctype)
	http1.WriteHeader(bw, "Connection", "close")
	if allow != "" {
		http1.WriteHeader(bw, "Allow", allow)
	}
	http1.WriteHeader(bw, "Content-Length", strconv.Itoa(len(payload)))
	if gz {
		http1.WriteHeader(bw, "Content-Encoding", "gzip")
	}
	if err := http1.EndHeaders(bw); err != nil {
		return 0, err
	}
	sent := 0
	if method != "HEAD" {
		n, err := bw.Write(payload)
		sent = n
		if err != nil {
			return sent, err
		}
	}
	return sent, bw.Flush()
}

// transmitChunked sends a chunked response from a lazy chunk producer.
// When compressing, a single compressor spans the whole response: chunks
// are accumulated, compressed once, and flushed at the end rather than
// chunk by chunk. The terminal zero-length chunk is always written.
func (s *Server) transmitChunked(c net.Conn, status, ctype, allow string, gz bool, method string, next func() ([]byte, bool)) (int, error) {
	bw := bufio.NewWriter(c)
	if err := http1.WriteStatusLine(bw, status); err != nil {
		return 0, err
	}
	http1.WriteHeader(bw, "Content-Type", ctype)
	http1.WriteHeader(bw, "Connection", "close")
	if allow != "" {
		http1.WriteHeader(bw, "Allow", allow)
	}
	http1.WriteHeader(bw, "Transfer-Encoding", "chunked")
	if gz {
		http1.WriteHeader(bw, "Content-Encoding", "gzip")
	}
	if err := http1.EndHeaders(bw); err != nil {
		return 0, err
	}

	sent := 0
	if method != "HEAD" {
		if gz {
			var all []byte
			for {
				chunk, ok := next()
				if !ok {
					break
				}
				all = append(all, chunk...)
			}
			zp, err := gzipBytes(all)
			if err != nil {
				return sent, err
			}
			n, err := http1.WriteChunk(bw, zp)
			sent += n
			if err != nil {
				return sent, err
			}
		} else {
			for {
				chunk, ok := next()
				if !ok {
					break
				}
				n, err := http1.WriteChunk(bw, chunk)
				sent += n
				if err != nil {
					return sent, err
				}
			}
		}
	}
	if err := http1.EndChunked(bw); err != nil {
		return sent, err
	}
	return sent, bw.Flush()
}

func (s *Server) logAccess(c net.Conn, requestLine, status, size string) {
	peer := "-"
	if host, _, err := net.SplitHostPort(c.RemoteAddr().String()); err == nil {
		peer = host
	}
	code, _, _ := strings.Cut(status, " ")
	line := fmt.Sprintf("%s [ident] [user] [%s] %q %s %s",
		peer, obs.Stamp(time.Now()), requestLine, code, size)
	if err := s.access.Line(line); err != nil {
		s.log.Logf(obs.Error, "access log: %v", err)
	}
}

func (s *Server) count(status string, sent int, start time.Time) {
	code, _, _ := strings.Cut(status, " ")
	s.meter.Counter("connections_total", 1, obs.Label{Key: "status", Value: code})
	s.meter.Counter("bytes_transmitted_total", float64(sent))
	s.meter.Histogram("handle_seconds", time.Since(start).Seconds())
}

func gzipBytes(p []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(p); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
