package main

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// TelemetryMessage is the JSON state snapshot broadcast to observers:
// where the projection is rooted, how big the current terrain is and
// where the player stands on the planet.
type TelemetryMessage struct {
	Type        string  `json:"type"`
	CenterLon   float64 `json:"centerLon"`
	CenterLat   float64 `json:"centerLat"`
	CenterCell  [3]int  `json:"centerCell"`
	Cells       int     `json:"cells"`
	Triangles   int     `json:"triangles"`
	PlayerLon   float64 `json:"playerLon"`
	PlayerLat   float64 `json:"playerLat"`
	PlayerCell  [3]int  `json:"playerCell"`
	Metric      string  `json:"metric"`
	Recreations int     `json:"recreations"`
	Time        float64 `json:"time"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // observer endpoint, any origin may connect
	},
}

// TelemetryServer pushes terrain state to websocket observers at a
// fixed interval. The game loop publishes snapshots; the server owns
// the client set and per-connection write locks.
type TelemetryServer struct {
	interval time.Duration

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
	state   TelemetryMessage
	haveOne bool
}

func NewTelemetryServer(interval time.Duration) *TelemetryServer {
	return &TelemetryServer{
		interval: interval,
		clients:  make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Start serves the websocket endpoint and runs the broadcast ticker.
// Runs in its own goroutines; the game loop only calls Publish.
func (s *TelemetryServer) Start(port int) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)

	go s.broadcastLoop()
	go func() {
		addr := fmt.Sprintf(":%d", port)
		logrus.WithField("addr", addr).Info("Telemetry server listening")
		if err := http.ListenAndServe(addr, mux); err != nil {
			logrus.WithError(err).Error("Telemetry server stopped")
		}
	}()
}

// Publish replaces the state that the next broadcast will send.
func (s *TelemetryServer) Publish(msg TelemetryMessage) {
	s.mu.Lock()
	s.state = msg
	s.haveOne = true
	s.mu.Unlock()
}

func (s *TelemetryServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	s.mu.Lock()
	s.clients[conn] = connMutex
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	// Send current state immediately so observers don't wait a tick
	s.mu.RLock()
	state, haveOne := s.state, s.haveOne
	s.mu.RUnlock()
	if haveOne {
		connMutex.Lock()
		_ = conn.WriteJSON(state)
		connMutex.Unlock()
	}

	// Drain incoming messages until the peer disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *TelemetryServer) broadcastLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		state, haveOne := s.state, s.haveOne
		var failed []*websocket.Conn
		if haveOne {
			for client, mutex := range s.clients {
				mutex.Lock()
				err := client.WriteJSON(state)
				mutex.Unlock()
				if err != nil {
					logrus.WithError(err).Debug("WebSocket write failed, dropping client")
					client.Close()
					failed = append(failed, client)
				}
			}
		}
		s.mu.RUnlock()

		if len(failed) > 0 {
			s.mu.Lock()
			for _, client := range failed {
				delete(s.clients, client)
			}
			s.mu.Unlock()
		}
	}
}
