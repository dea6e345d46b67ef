package httpserv

import (
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"dqx0.com/go/httpserv/internal/obs"
)

const (
	headerReadCap  = 4096
	acceptInterval = time.Second
	listenBacklog  = 10

	// Workers that fail to drain within this window make Shutdown report
	// ErrWorkersAlive.
	workerJoinTimeout = 5 * time.Second
)

// Status lines as they appear on the wire.
const (
	statusOK         = "200 OK"
	statusBadRequest = "400 Bad Request"
	statusNotFound   = "404 Not Found"
	statusNotAllowed = "405 Not Allowed"
	statusInternal   = "500 Internal Server Error"
)

// GzipMode separates "compression unavailable" from "available but
// negotiated per request". Whether a given response is actually compressed
// is decided per connection from the Accept-Encoding header.
type GzipMode int

const (
	GzipDisabled GzipMode = iota
	GzipNegotiate
)

// State tracks the server lifecycle. Bound is reached during construction;
// Closed is terminal and verified by probing the port.
type State int32

const (
	StateCreated State = iota
	StateBound
	StateListening
	StateRunning
	StateShuttingDown
	StateClosed
)

var validMethods = map[string]bool{
	"GET": true, "HEAD": true, "POST": true, "PUT": true, "DELETE": true,
	"CONNECT": true, "OPTIONS": true, "TRACE": true, "PATCH": true,
}

// Config is the construction-time configuration. It is copied by New and
// immutable afterwards.
type Config struct {
	// Addr is the bind address in numeric form; "localhost" is rewritten
	// to 127.0.0.1. Default 127.0.0.1.
	Addr string
	// Port must be in the range 1024-65535.
	Port int
	// Methods is the allowed HTTP method set; it is intersected with the
	// nine standard verbs so invalid tokens can never leak in.
	// Default GET and HEAD.
	Methods []string
	// Workers sizes the handler pool in background mode. Default 8.
	Workers int
	// LogFile is the access log path. Default server.log.
	LogFile string
	// Gzip enables per-request compression negotiation.
	Gzip GzipMode
	// Verbose echoes access-log lines to stdout and enables startup and
	// shutdown diagnostics.
	Verbose bool
	// Background runs the accept loop in its own goroutine with a worker
	// pool; otherwise Run blocks and handles connections inline.
	Background bool
	// TLS serves HTTPS using CertFile. A missing certificate file is a
	// warning, not an error: the server falls back to plaintext.
	TLS      bool
	CertFile string

	// Logger and Meter default to no-ops (StdLogger on stdout when
	// Verbose is set).
	Logger obs.Logger
	Meter  obs.Meter
}

// Server is an embeddable HTTP/1.1 server: it owns a listening socket,
// accepts connections, parses requests, routes them to registered
// providers and writes responses. Every connection is served exactly one
// request/response cycle and closed (no keep-alive).
type Server struct {
	addr        string
	port        int
	allowed     map[string]bool
	allowHeader string
	workers     int
	gzip        GzipMode
	background  bool
	verbose     bool

	log    obs.Logger
	meter  obs.Meter
	access *obs.AccessLog

	reg   registry
	ln    net.Listener
	tcpLn *net.TCPListener

	state      atomic.Int32
	quit       chan struct{}
	acceptDone chan struct{}
	conns      chan net.Conn
	pool       *errgroup.Group
}

// New validates the configuration, binds the socket (with SO_REUSEADDR and
// a backlog of 10) and truncates the access log. Configuration errors fail
// fast here; nothing is retried.
func New(cfg Config) (*Server, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "127.0.0.1"
	}
	if addr == "localhost" {
		addr = "127.0.0.1"
	}
	ip := net.ParseIP(addr)
	if ip == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, cfg.Addr)
	}
	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: %d", ErrPortOutOfRange, cfg.Port)
	}

	methods := cfg.Methods
	if methods == nil {
		methods = []string{"GET", "HEAD"}
	}
	allowed := make(map[string]bool)
	for _, m := range methods {
		if validMethods[m] {
			allowed[m] = true
		}
	}
	if len(allowed) == 0 {
		return nil, ErrNoMethods
	}
	names := make([]string, 0, len(allowed))
	for m := range allowed {
		names = append(names, m)
	}
	sort.Strings(names)

	logFile := cfg.LogFile
	if logFile == "" {
		logFile = "server.log"
	}
	if err := validateLogPath(logFile); err != nil {
		return nil, err
	}

	s := &Server{
		addr:        addr,
		port:        cfg.Port,
		allowed:     allowed,
		allowHeader: strings.Join(names, ", "),
		workers:     cfg.Workers,
		gzip:        cfg.Gzip,
		background:  cfg.Background,
		verbose:     cfg.Verbose,
		log:         cfg.Logger,
		meter:       cfg.Meter,
		quit:        make(chan struct{}),
		acceptDone:  make(chan struct{}),
	}
	if s.workers <= 0 {
		s.workers = 8
	}
	if s.log == nil {
		if cfg.Verbose {
			s.log = obs.NewStdLogger(os.Stdout, obs.Info)
		} else {
			s.log = obs.NopLogger{}
		}
	}
	if s.meter == nil {
		s.meter = obs.NopMeter{}
	}

	access, err := obs.NewAccessLog(logFile, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLogPath, err)
	}
	s.access = access

	ln, err := listen(ip, cfg.Port)
	if err != nil {
		return nil, err
	}
	s.ln = ln
	s.tcpLn, _ = ln.(*net.TCPListener)
	s.state.Store(int32(StateBound))

	if cfg.TLS {
		certFile := cfg.CertFile
		if certFile == "" {
			certFile = "./server.pem"
		}
		if _, err := os.Stat(certFile); err == nil {
			cert, err := tls.LoadX509KeyPair(certFile, certFile)
			if err != nil {
				s.ln.Close()
				return nil, fmt.Errorf("httpserv: load certificate: %w", err)
			}
			s.ln = tls.NewListener(s.ln, &tls.Config{Certificates: []tls.Certificate{cert}})
		} else {
			s.log.Logf(obs.Warn, "no server certificate found at %s, serving over HTTP", certFile)
		}
	}

	s.state.Store(int32(StateListening))
	return s, nil
}

// Register binds a pattern (literal path or regex, full-string match) to a
// provider. Later registrations for the same pattern overwrite earlier
// ones. Registration must complete before Run.
func (s *Server) Register(pattern string, p Provider) error {
	if State(s.state.Load()) >= StateRunning {
		return ErrAlreadyRunning
	}
	return s.reg.register(pattern, p)
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	return State(s.state.Load())
}

// Run starts the accept loop. In background mode it returns immediately
// with the loop and worker pool running; otherwise it blocks until
// Shutdown stops the loop. The error-page endpoints /404.html and
// /405.html must be registered, or Run fails fast.
func (s *Server) Run() error {
	if _, ok := s.reg.lookup("/404.html"); !ok {
		return fmt.Errorf("%w: /404.html", ErrMissingErrorPage)
	}
	if _, ok := s.reg.lookup("/405.html"); !ok {
		return fmt.Errorf("%w: /405.html", ErrMissingErrorPage)
	}
	if !s.state.CompareAndSwap(int32(StateListening), int32(StateRunning)) {
		return ErrAlreadyRunning
	}

	s.log.Logf(obs.Info, "serving web server at port %d on host %s", s.port, s.addr)

	if s.background {
		s.conns = make(chan net.Conn)
		g := new(errgroup.Group)
		for i := 0; i < s.workers; i++ {
			g.Go(func() error {
				for c := range s.conns {
					s.handle(c)
				}
				return nil
			})
		}
		s.pool = g
		go s.acceptLoop()
		return nil
	}

	s.acceptLoop()
	return nil
}

// acceptLoop polls the listener with a short deadline so a shutdown
// request is observed within one interval. Accept timeouts and transient
// errors are expected steady-state events and are swallowed.
func (s *Server) acceptLoop() {
	defer close(s.acceptDone)
	for {
		select {
		case <-s.quit:
			return
		default:
		}
		if s.tcpLn != nil {
			_ = s.tcpLn.SetDeadline(time.Now().Add(acceptInterval))
		}
		c, err := s.ln.Accept()
		if err != nil {
			continue
		}
		if s.background {
			s.conns <- c
		} else {
			s.handle(c)
		}
	}
}

// Shutdown stops accepting, joins the accept loop and worker pool, closes
// the socket, and verifies closure by dialing the same port and requiring
// the connection to fail. It reports failure as an error value and never
// panics; the caller may retry.
func (s *Server) Shutdown() error {
	if !s.state.CompareAndSwap(int32(StateRunning), int32(StateShuttingDown)) {
		return ErrNotRunning
	}
	close(s.quit)
	<-s.acceptDone

	workersOK := true
	if s.background && s.pool != nil {
		close(s.conns)
		done := make(chan struct{})
		go func() {
			_ = s.pool.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(workerJoinTimeout):
			workersOK = false
		}
	}

	_ = s.ln.Close()

	// Probe from loopback: dialing the freed port must fail.
	probeHost := "127.0.0.1"
	if strings.Contains(s.addr, ":") {
		probeHost = "::1"
	}
	closed := true
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(probeHost, strconv.Itoa(s.port)), time.Second)
	if err == nil {
		closed = false
		_ = conn.Close()
	}

	result := "fail"
	if closed {
		result = "success"
	}
	_ = s.access.Line(fmt.Sprintf("%s [ident] sys [%s] \"server shutdown\" %s -",
		s.addr, obs.Stamp(time.Now()), result))

	if !closed {
		s.log.Logf(obs.Error, "failed to close port %d on host %s", s.port, s.addr)
		return ErrPortStillOpen
	}
	if !workersOK {
		s.log.Logf(obs.Error, "failed to shut down background workers")
		return ErrWorkersAlive
	}
	s.state.Store(int32(StateClosed))
	s.log.Logf(obs.Info, "closed port %d on host %s and shut down server", s.port, s.addr)
	return nil
}

// HandleSignals installs an interrupt handler that triggers Shutdown. The
// handler only signals; Shutdown stays the single teardown path.
func (s *Server) HandleSignals() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	go func() {
		<-ch
		if err := s.Shutdown(); err != nil {
			s.log.Logf(obs.Error, "shutdown: %v", err)
		}
	}()
}

// validateLogPath rejects null bytes and path segments of 256 bytes or
// more before the file is ever created.
func validateLogPath(path string) error {
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("%w: contains null byte", ErrInvalidLogPath)
	}
	for _, seg := range strings.Split(path, "/") {
		if len(seg) >= 256 {
			return fmt.Errorf("%w: path segment too long", ErrInvalidLogPath)
		}
	}
	return nil
}
