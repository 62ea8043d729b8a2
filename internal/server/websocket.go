package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
)

// upgrader allows all origins: the server is only intended to listen on
// localhost.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// handleWebSocket upgrades the connection, sends the current summary as the
// initial state, and keeps the client registered for broadcasts until it
// disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed", "err", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.logger.Error("Failed to set read deadline", "addr", conn.RemoteAddr(), "err", err)
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	s.logger.Info("WebSocket client connected", "addr", conn.RemoteAddr())

	// Initial state before registration so a broadcast cannot race ahead
	// of the client's baseline.
	writeMu := &sync.Mutex{}
	s.sendInitialState(conn, writeMu)

	s.clientsMu.Lock()
	s.clients[conn] = writeMu
	s.clientsMu.Unlock()

	s.wg.Add(2)
	go s.clientReadPump(conn)
	go s.clientPingLoop(conn, writeMu)
}

func (s *Server) sendInitialState(conn *websocket.Conn, writeMu *sync.Mutex) {
	summary, err := BuildSummary(s.repo)
	if err != nil {
		s.logger.Error("Failed to build initial summary", "err", err)
		return
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(summary); err != nil {
		s.logger.Warn("Failed to send initial state", "addr", conn.RemoteAddr(), "err", err)
	}
}

// clientReadPump drains incoming messages (only pongs are expected) and
// unregisters the client when the connection dies.
func (s *Server) clientReadPump(conn *websocket.Conn) {
	defer s.wg.Done()
	defer s.removeClient(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// clientPingLoop keeps the connection alive with periodic pings.
func (s *Server) clientPingLoop(conn *websocket.Conn, writeMu *sync.Mutex) {
	defer s.wg.Done()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			writeMu.Lock()
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if _, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		_ = conn.Close()
		s.logger.Info("WebSocket client disconnected", "addr", conn.RemoteAddr())
	}
}
