// Package server provides a read-only live status server for a pit
// repository: repository summaries over HTTP and push updates over
// WebSocket, driven by a filesystem watcher.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rybkr/pit/internal/pitcore"
)

// Server watches one repository and serves its state to clients.
type Server struct {
	repo   *pitcore.Repository
	addr   string
	logger *slog.Logger

	httpServer *http.Server

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]*sync.Mutex // per-connection write lock

	lastSummaryMu sync.Mutex
	lastSummary   []byte

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a Server for the given repository and listen address.
func New(repo *pitcore.Repository, addr string) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		repo:    repo,
		addr:    addr,
		logger:  slog.Default(),
		clients: make(map[*websocket.Conn]*sync.Mutex),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins watching the repository and serving HTTP until Shutdown.
func (s *Server) Start() error {
	if err := s.startWatcher(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.logger.Info("Serving repository status", "repo", s.repo.Name(), "addr", s.addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the watcher, closes all clients, and shuts down HTTP.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()

	s.clientsMu.Lock()
	for conn := range s.clients {
		_ = conn.Close()
	}
	s.clients = make(map[*websocket.Conn]*sync.Mutex)
	s.clientsMu.Unlock()

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.wg.Wait()
	return err
}

// handleSummary serves the current repository summary as JSON.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	summary, err := BuildSummary(s.repo)
	if err != nil {
		s.logger.Error("Failed to build summary", "err", err)
		http.Error(w, "failed to read repository", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		s.logger.Error("Failed to encode summary", "err", err)
	}
}

// broadcastSummary rebuilds the summary and pushes it to every connected
// client when it changed since the last broadcast.
func (s *Server) broadcastSummary() {
	summary, err := BuildSummary(s.repo)
	if err != nil {
		s.logger.Error("Failed to build summary", "err", err)
		return
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		s.logger.Error("Failed to encode summary", "err", err)
		return
	}

	s.lastSummaryMu.Lock()
	unchanged := string(payload) == string(s.lastSummary)
	if !unchanged {
		s.lastSummary = payload
	}
	s.lastSummaryMu.Unlock()
	if unchanged {
		return
	}

	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for conn, writeMu := range s.clients {
		writeMu.Lock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			s.logger.Warn("Dropping client", "addr", conn.RemoteAddr(), "err", err)
			_ = conn.Close()
			delete(s.clients, conn)
		}
		writeMu.Unlock()
	}
}
