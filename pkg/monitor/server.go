package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"digital.vasic.mobilelogin/pkg/logging"
)

const (
	clientBuffer = 32
	writeTimeout = 5 * time.Second
)

// Message is the envelope sent to WebSocket clients: the dashboard
// snapshot once on connect, then one message per event.
type Message struct {
	Kind      string             `json:"kind"`
	Event     *Event             `json:"event,omitempty"`
	Dashboard *DashboardSnapshot `json:"dashboard,omitempty"`
}

// Message kinds.
const (
	KindDashboard = "dashboard"
	KindEvent     = "event"
)

// Server streams run events to browsers. It serves:
//
//	/ws         WebSocket stream of Messages
//	/events     Server-Sent Events stream
//	/dashboard  current DashboardSnapshot as JSON
//	/health     liveness probe
type Server struct {
	mu        sync.RWMutex
	collector *EventCollector
	dashboard *Dashboard
	logger    logging.Logger
	clients   map[chan []byte]struct{}
	upgrader  websocket.Upgrader
	addr      string
	mux       *http.ServeMux
	server    *http.Server
	extra     map[string]http.Handler
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLogger sets the logger for connection errors.
func WithServerLogger(l logging.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logging.OrNull(l)
	}
}

// WithHandler mounts h on pattern next to the built-in routes, e.g.
// a metrics exporter on /metrics.
func WithHandler(pattern string, h http.Handler) ServerOption {
	return func(s *Server) {
		if s.extra == nil {
			s.extra = make(map[string]http.Handler)
		}
		s.extra[pattern] = h
	}
}

// NewServer creates a monitor server on addr. Every event the
// collector emits from now on updates dashboard and is broadcast.
func NewServer(
	addr string,
	collector *EventCollector,
	dashboard *Dashboard,
	opts ...ServerOption,
) *Server {
	s := &Server{
		addr:      addr,
		collector: collector,
		dashboard: dashboard,
		logger:    logging.NullLogger{},
		clients:   make(map[chan []byte]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/ws", s.handleWS)
	s.mux.HandleFunc("/events", s.handleSSE)
	s.mux.HandleFunc("/dashboard", s.handleDashboard)
	s.mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	for pattern, h := range s.extra {
		s.mux.Handle(pattern, h)
	}

	collector.OnEvent(func(event Event) {
		dashboard.UpdateFromEvent(event)
		data, err := json.Marshal(event)
		if err != nil {
			return
		}
		s.broadcast(data)
	})
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.mux }

// Start listens on the configured address and serves until ctx is
// done.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("monitor server: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("monitor server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Clients returns the number of connected stream clients.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) subscribe() (chan []byte, func()) {
	ch := make(chan []byte, clientBuffer)
	s.mu.Lock()
	s.clients[ch] = struct{}{}
	s.mu.Unlock()
	return ch, func() {
		s.mu.Lock()
		delete(s.clients, ch)
		s.mu.Unlock()
		close(ch)
	}
}

func (s *Server) broadcast(data []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.clients {
		select {
		case ch <- data:
		default:
			// slow client, drop
		}
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("monitor websocket upgrade failed", logging.ErrorField(err))
		return
	}
	defer func() { _ = conn.Close() }()

	ch, unsubscribe := s.subscribe()
	defer unsubscribe()

	// Client messages are ignored; reading detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	snap := s.dashboard.Snapshot()
	if err := s.writeMessage(conn, Message{Kind: KindDashboard, Dashboard: &snap}); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case data := <-ch:
			var event Event
			if err := json.Unmarshal(data, &event); err != nil {
				continue
			}
			if err := s.writeMessage(conn, Message{Kind: KindEvent, Event: &event}); err != nil {
				s.logger.Debug("monitor websocket write failed", logging.ErrorField(err))
				return
			}
		}
	}
}

func (s *Server) writeMessage(conn *websocket.Conn, msg Message) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(msg)
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	ch, unsubscribe := s.subscribe()
	defer unsubscribe()

	snap := s.dashboard.Snapshot()
	if data, err := json.Marshal(snap); err == nil {
		fmt.Fprintf(w, "event: dashboard\ndata: %s\n\n", data)
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case data := <-ch:
			fmt.Fprintf(w, "event: scenario\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.dashboard.Snapshot())
}
