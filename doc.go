// Package httpserv is a minimal, embeddable HTTP/1.1 server engine. It
// owns a listening socket, accepts connections, parses requests, routes
// them to registered content providers, and writes responses with
// optional gzip compression and chunked streaming.
//
// Highlights
//   - One request/response cycle per connection (always Connection:
//     close), with a fixed 4096-byte header read.
//   - Endpoint patterns are literal paths or regexes matched full-string;
//     first registered match wins.
//   - Providers decide the transfer mode: a fixed payload gets a
//     Content-Length body, a streamed one gets chunked framing, both with
//     per-request gzip negotiation.
//   - Foreground (inline) or background (worker pool) dispatch, a
//     pollable accept loop, and a shutdown protocol that verifies the
//     port actually closed.
//   - Pluggable Logger and Meter interfaces, access logging in a fixed
//     CLF-like format, optional Prometheus-backed metrics.
//
// Quick start:
//
//	s, err := httpserv.New(httpserv.Config{Port: 8000, Background: true})
//	if err != nil {
//		log.Fatal(err)
//	}
//	s.Register("/", httpserv.HomePage())
//	s.Register("/404.html", httpserv.NotFoundPage())
//	s.Register("/405.html", httpserv.NotAllowedPage())
//	if err := s.Run(); err != nil {
//		log.Fatal(err)
//	}
//	// ... later
//	if err := s.Shutdown(); err != nil {
//		log.Fatal(err)
//	}
package httpserv
