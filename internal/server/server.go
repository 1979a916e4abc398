// Package server exposes table commands over websockets and pushes a
// per-recipient view of every committed change to connected clients.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/jesmun04/logbait/internal/auth"
	"github.com/jesmun04/logbait/internal/game"
	"github.com/jesmun04/logbait/internal/registry"
	"github.com/jesmun04/logbait/internal/table"
)

// Directory lists tables and resolves their seat order.
type Directory interface {
	List(ctx context.Context) []registry.TableInfo
	Lookup(ctx context.Context, tableID string) (registry.TableInfo, error)
}

// Server represents the WebSocket server
type Server struct {
	service     *table.Service
	directory   Directory
	validator   auth.Validator
	clock       quartz.Clock
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	startOnce   sync.Once
}

// Option configures a Server.
type Option func(*Server)

func WithClock(clock quartz.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

// WithValidator sets the token validator. The default accepts any account.
func WithValidator(v auth.Validator) Option {
	return func(s *Server) { s.validator = v }
}

// NewServer creates a new WebSocket server. The table service is attached
// with SetService because the service publishes through the server.
func NewServer(directory Directory, logger *log.Logger, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		directory: directory,
		validator: auth.NewNoopValidator(),
		clock:     quartz.NewReal(),
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetService sets the table service for the server
func (s *Server) SetService(service *table.Service) {
	s.service = service
}

// Handler returns the HTTP routes: /ws, /health and /tables.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/tables", s.handleTables)
	return mux
}

// Start runs the connection registry loop. It is safe to call more than once.
func (s *Server) Start() {
	s.startOnce.Do(func() { go s.run() })
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.Start()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting WebSocket server", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Stop()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		s.Stop()
		return err
	}
}

// Stop closes every connection and ends the registry loop.
func (s *Server) Stop() {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()
}

func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Debug("Client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Debug("Client disconnected", "account", conn.Account(), "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := newConnection(ws, s)
	select {
	case s.register <- client:
	case <-s.ctx.Done():
		_ = client.Close()
		return
	}
	client.Start()

	go func() {
		<-client.ctx.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(TableListData{Tables: s.directory.List(r.Context())}); err != nil {
		s.logger.Error("Failed to write table list", "error", err)
	}
}

// Publish sends every connection following ev.TableID its own view of the
// committed table. Members see their hole cards; everyone else spectates.
func (s *Server) Publish(ctx context.Context, ev table.Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if conn.Table() != ev.TableID {
			continue
		}
		viewer := conn.Account()
		if !ev.Table.IsMember(viewer) {
			viewer = ""
		}
		msg, err := NewMessage(MessageTypeState, StateData{
			Event: ev.Type,
			View:  game.NewView(ev.Table, viewer, ev.SeatOrder),
		}, s.clock.Now())
		if err != nil {
			s.logger.Error("Failed to encode table view", "error", err, "table", ev.TableID)
			continue
		}
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Warn("Failed to send table view", "error", err, "account", conn.Account())
			continue
		}
		count++
	}

	s.logger.Debug("Published table event", "table", ev.TableID, "event", ev.Type, "recipients", count)
}

// Connections returns the number of open connections.
func (s *Server) Connections() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}
