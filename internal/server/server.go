// Package server accepts LZERO protocol connections and answers them from
// the POS archive. One goroutine is spawned per accepted connection; a
// handler decodes a single request, writes the full response and closes.
package server

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	proxyproto "github.com/pires/go-proxyproto"
	"github.com/rs/zerolog"

	"frednet.dev/lzero/internal/archive"
	"frednet.dev/lzero/internal/observability"
	"frednet.dev/lzero/internal/protocol"
)

// requestBufSize bounds the single read used to decode a request. This is
// part of the wire contract: there is no framing, a request longer than the
// buffer is truncated.
const requestBufSize = 4096

var (
	ErrAlreadyRunning = errors.New("server already running")
	ErrNotRunning     = errors.New("server not running")
)

type Config struct {
	// Root is the archive directory containing one subdirectory per station.
	Root string `validate:"required"`
	// ListenAddr is the TCP address to bind, e.g. ":5000".
	ListenAddr string `validate:"required"`
	// MaxConns caps concurrently running handlers. 0 means unbounded.
	MaxConns int `validate:"min=0"`
	// ProxyProtocol wraps the listener so a fronting load balancer can pass
	// the real client address via the PROXY protocol.
	ProxyProtocol bool
}

// Server is an explicit handle for one running instance. Create with New,
// then Start, Stop and Status on the handle; there is no package-level
// singleton.
type Server struct {
	mu       sync.Mutex
	logger   zerolog.Logger
	config   *Config
	metrics  *observability.Metrics
	listener net.Listener
	loopDone chan struct{}
	running  bool
	started  time.Time
	cid      uint64
	sem      chan struct{}
}

// Status is a point-in-time snapshot of a server handle.
type Status struct {
	Root        string    `json:"root"`
	ListenAddr  string    `json:"listen_addr"`
	Running     bool      `json:"running"`
	Started     time.Time `json:"started,omitempty"`
	Connections uint64    `json:"connections"`
}

func New(config *Config, metrics *observability.Metrics, logger zerolog.Logger) (*Server, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, err
	}
	s := &Server{}
	s.logger = logger.With().Str("module", "server").Logger()
	s.config = config
	s.metrics = metrics
	if config.MaxConns > 0 {
		s.sem = make(chan struct{}, config.MaxConns)
	}
	return s, nil
}

// Start binds the listening socket and launches the accept loop. The bound
// address is available through Addr once Start returns.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}
	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return err
	}
	if s.config.ProxyProtocol {
		ln = &proxyproto.Listener{Listener: ln}
	}
	s.listener = ln
	s.loopDone = make(chan struct{})
	s.running = true
	s.started = time.Now()
	s.logger.Info().Msgf("listening on %s", ln.Addr().String())
	go s.acceptLoop(ln, s.loopDone)
	return nil
}

// Stop closes the listening socket and waits for the accept loop to exit.
// In-flight handlers are not tracked; responses already being written are
// not waited on.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	ln, done := s.listener, s.loopDone
	s.running = false
	s.listener = nil
	s.mu.Unlock()

	ln.Close()
	<-done
	s.logger.Info().Msg("server stopped")
	return nil
}

// Restart stops the server if it is running and starts it again.
func (s *Server) Restart() error {
	if err := s.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
		return err
	}
	return s.Start()
}

// Addr returns the bound listener address, or nil when stopped.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		Root:        s.config.Root,
		ListenAddr:  s.config.ListenAddr,
		Running:     s.running,
		Connections: atomic.LoadUint64(&s.cid),
	}
	if s.running {
		st.Started = s.started
	}
	return st
}

// Stations lists the station directories currently present in the archive.
func (s *Server) Stations() []string {
	return archive.ListStations(s.config.Root)
}

func (s *Server) acceptLoop(ln net.Listener, done chan struct{}) {
	defer close(done)
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.logger.Debug().Msg("listener closed, accept loop exiting")
			} else {
				s.logger.Error().Err(err).Msg("failed to accept new connection")
			}
			return
		}
		cid := atomic.AddUint64(&s.cid, 1)
		s.metrics.ConnectionsTotal.Inc()
		c := newWconn(conn, cid, s.logger)
		go s.handle(c)
	}
}

// handle serves one connection: a single bounded read, one response, close.
func (s *Server) handle(c *wconn) {
	defer c.Close()
	if s.sem != nil {
		s.sem <- struct{}{}
		defer func() { <-s.sem }()
	}
	s.metrics.ActiveHandlers.Inc()
	defer s.metrics.ActiveHandlers.Dec()

	buf := make([]byte, requestBufSize)
	n, err := c.Read(buf)
	if err != nil && n == 0 {
		s.logger.Error().Err(err).Str("remote_address", c.RemoteAddr()).Msg("error reading request")
		return
	}
	raw := string(buf[:n])
	s.logger.Debug().Str("remote_address", c.RemoteAddr()).Str("request", raw).Msg("received request")

	response := s.process(raw)
	if _, err := c.Write([]byte(response)); err != nil {
		s.logger.Error().Err(err).Str("remote_address", c.RemoteAddr()).Msg("error writing response")
	}
}

func (s *Server) process(raw string) string {
	req, err := protocol.ParseRequest(raw)
	if err != nil {
		s.metrics.RequestErrorsTotal.Inc()
		return protocol.ErrorResponse(err)
	}
	s.metrics.RequestsTotal.WithLabelValues(string(req.Command)).Inc()

	var lines []string
	switch req.Command {
	case protocol.CmdListStations:
		lines = archive.ListStations(s.config.Root)
	case protocol.CmdListTime:
		for _, iv := range archive.AvailableIntervals(s.config.Root, req.Station) {
			lines = append(lines, iv.String())
		}
	case protocol.CmdGetData:
		lines = archive.QueryRange(s.config.Root, req.Station, req.Start, req.End)
		s.metrics.PosLinesServedTotal.Add(float64(len(lines)))
	}
	return protocol.EncodeLines(lines)
}
