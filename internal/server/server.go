// Package server is a tiny single-request-per-connection web server, every accepted connection is handled as a
// threadpool job.
package server

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sherifabdlnaby/threadpool"
)

//go:embed static/*.html
var static embed.FS

const readTimeout = 10 * time.Second

const (
	statusOK       = "HTTP/1.1 200 OK"
	statusNotFound = "HTTP/1.1 404 NOT FOUND"
)

// Server accepts connections on a listener and hands each one to a pool.
type Server struct {
	listener    net.Listener
	pool        *threadpool.Pool
	logger      *slog.Logger
	sleepDelay  time.Duration
	maxRequests int
	served      atomic.Int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithSleepDelay sets how long GET /sleep waits before answering.
func WithSleepDelay(d time.Duration) Option {
	return func(s *Server) { s.sleepDelay = d }
}

// WithMaxRequests makes Serve return after n connections were accepted, 0 means no limit.
func WithMaxRequests(n int) Option {
	return func(s *Server) { s.maxRequests = n }
}

// New returns a server for listener l. The server does not own pool, the caller closes it after Serve returns.
func New(l net.Listener, pool *threadpool.Pool, opts ...Option) *Server {
	s := &Server{
		listener:   l,
		pool:       pool,
		logger:     slog.New(slog.DiscardHandler),
		sleepDelay: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the listener address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Served returns the number of connections fully answered.
func (s *Server) Served() int64 {
	return s.served.Load()
}

// Serve accepts connections until the listener is closed or max requests is reached.
// Connections already handed to the pool are answered once the pool is closed.
//
// @Returns nil when the listener was closed through Close or max requests was reached.
// @Returns threadpool.ErrPoolClosed if the pool was closed while still serving.
func (s *Server) Serve() error {
	defer s.listener.Close()

	accepted := 0
	for s.maxRequests == 0 || accepted < s.maxRequests {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		accepted++

		if err := s.pool.Execute(func() { s.handle(conn) }); err != nil {
			_ = conn.Close()
			return err
		}
	}

	s.logger.Info("max requests reached, no longer accepting", slog.Int("max_requests", s.maxRequests))
	return nil
}

// Close stops accepting connections.
func (s *Server) Close() error {
	return s.listener.Close()
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

	requestLine, err := readRequestHead(bufio.NewReader(conn))
	if err != nil {
		s.logger.Warn("failed to read request", slog.String("remote", conn.RemoteAddr().String()), slog.String("error", err.Error()))
		return
	}

	status, page := s.route(requestLine)

	body, err := static.ReadFile("static/" + page)
	if err != nil {
		s.logger.Error("missing page", slog.String("page", page), slog.String("error", err.Error()))
		return
	}

	response := fmt.Sprintf("%s\r\nContent-Length: %d\r\n\r\n%s", status, len(body), body)
	if _, err := conn.Write([]byte(response)); err != nil {
		s.logger.Warn("failed to write response", slog.String("remote", conn.RemoteAddr().String()), slog.String("error", err.Error()))
		return
	}

	s.served.Add(1)
	s.logger.Debug("request served", slog.String("request", requestLine), slog.String("status", status))
}

// readRequestHead returns the request line and consumes the headers up to the blank line, closing a connection with
// unread input would reset it before the client reads the response.
func readRequestHead(r *bufio.Reader) (string, error) {
	requestLine, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}

	for {
		header, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}
		if strings.TrimRight(header, "\r\n") == "" {
			break
		}
	}

	return strings.TrimRight(requestLine, "\r\n"), nil
}

func (s *Server) route(requestLine string) (status, page string) {
	switch requestLine {
	case "GET / HTTP/1.1":
		return statusOK, "hello.html"
	case "GET /sleep HTTP/1.1":
		time.Sleep(s.sleepDelay)
		return statusOK, "hello.html"
	default:
		return statusNotFound, "404.html"
	}
}
