package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-forecast/internal/metrics"
	"github.com/yourusername/prop-forecast/internal/scenario"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// streamHub tracks websocket clients following scenario store events
type streamHub struct {
	store  *scenario.Store
	logger *logrus.Entry

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	done    chan struct{}
	once    sync.Once
}

func newStreamHub(store *scenario.Store, logger *logrus.Logger) *streamHub {
	return &streamHub{
		store:   store,
		logger:  logger.WithField("component", "scenario_stream"),
		clients: make(map[*websocket.Conn]struct{}),
		done:    make(chan struct{}),
	}
}

func (h *streamHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	metrics.UpdateStreamClients(count)
}

func (h *streamHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	count := len(h.clients)
	h.mu.Unlock()
	metrics.UpdateStreamClients(count)
}

func (h *streamHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *streamHub) close() {
	h.once.Do(func() { close(h.done) })
}

func (s *Server) handleScenarioStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.stream.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	s.stream.serve(conn)
}

// serve forwards store events to one client until it disconnects or the hub closes
func (h *streamHub) serve(conn *websocket.Conn) {
	events, unsubscribe := h.store.Subscribe()
	h.add(conn)
	defer func() {
		unsubscribe()
		h.remove(conn)
		conn.Close()
	}()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case evt, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(evt); err != nil {
				h.logger.WithError(err).Debug("Websocket write failed")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-h.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		}
	}
}
