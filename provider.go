package httpserv

// SizeUnknown is the Size sentinel for providers that stream content of
// unknown total length. It is logged as "-".
const SizeUnknown int64 = -1

// Body is the content a provider hands back for one request. It is a
// tagged value: either a complete payload with known length, or a lazy
// chunk producer consumed via Next. The Streamed flag, not the shape of
// the data, decides the transfer mode.
type Body struct {
	Streamed bool
	Payload  []byte
	Next     func() (chunk []byte, ok bool)
}

// FixedBody wraps a complete payload.
func FixedBody(p []byte) Body {
	return Body{Payload: p}
}

// StreamedBody wraps a pull-style chunk producer. next returns ok=false
// once the sequence is exhausted.
func StreamedBody(next func() ([]byte, bool)) Body {
	return Body{Streamed: true, Next: next}
}

// Provider supplies the content bound to an endpoint pattern. Size may
// return SizeUnknown for streamed content; Content's Body decides the
// transfer mode (fixed-length vs chunked). Method, target and request
// body are passed through so dynamic providers can vary their output.
type Provider interface {
	ContentType() string
	Size(method, target string, body []byte) int64
	Content(method, target string, body []byte) Body
}
