package plot

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/raykavin/signalscope/pkg/logger"
)

// Message is a message sent over WebSocket
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// WebSocketManager handles WebSocket connections
type WebSocketManager struct {
	sync.RWMutex
	clients       map[*websocket.Conn]struct{}
	upgrader      websocket.Upgrader
	broadcastChan chan Message
	initial       func() View
	log           logger.Logger
	closeOnce     sync.Once
	done          chan struct{}
}

// NewWebSocketManager creates a manager that greets every new client with
// the view returned by initial
func NewWebSocketManager(log logger.Logger, initial func() View) *WebSocketManager {
	manager := &WebSocketManager{
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		broadcastChan: make(chan Message, 100),
		initial:       initial,
		log:           log,
		done:          make(chan struct{}),
	}

	go manager.handleBroadcasts()

	return manager
}

func (m *WebSocketManager) handleBroadcasts() {
	for {
		select {
		case <-m.done:
			return
		case msg := <-m.broadcastChan:
			m.RLock()
			for conn := range m.clients {
				if err := conn.WriteJSON(msg); err != nil {
					m.log.WithError(err).Error("sending websocket message")
					// removed by handleClient once its read fails
					conn.Close()
				}
			}
			m.RUnlock()
		}
	}
}

// HandleWebSocket upgrades the request and registers the client
func (m *WebSocketManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	select {
	case <-m.done:
		http.Error(w, "server closing", http.StatusServiceUnavailable)
		return
	default:
	}

	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.WithError(err).Error("upgrading connection to websocket")
		return
	}

	// written before registration so it never races a broadcast
	if err := conn.WriteJSON(Message{Type: "view", Payload: m.initial()}); err != nil {
		m.log.WithError(err).Error("sending initial view")
		conn.Close()
		return
	}

	m.Lock()
	m.clients[conn] = struct{}{}
	count := len(m.clients)
	m.Unlock()
	m.log.Debugf("websocket client connected, total %d", count)

	go m.handleClient(conn)
}

func (m *WebSocketManager) handleClient(conn *websocket.Conn) {
	defer func() {
		m.Lock()
		delete(m.clients, conn)
		count := len(m.clients)
		m.Unlock()
		conn.Close()
		m.log.Debugf("websocket client disconnected, remaining %d", count)
	}()

	conn.SetPingHandler(func(string) error {
		return conn.WriteControl(websocket.PongMessage, []byte{}, time.Now().Add(10*time.Second))
	})

	// clients never send anything; reading detects disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				m.log.WithError(err).Warn("websocket read")
			}
			return
		}
	}
}

// Broadcast queues msg for every connected client. Messages are dropped
// when the queue is full or the manager is closed.
func (m *WebSocketManager) Broadcast(msg Message) {
	select {
	case <-m.done:
	case m.broadcastChan <- msg:
	default:
		m.log.Warnf("websocket queue full, dropping %s message", msg.Type)
	}
}

// Clients returns the number of connected clients
func (m *WebSocketManager) Clients() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.clients)
}

// Close stops broadcasting and disconnects every client
func (m *WebSocketManager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)

		m.Lock()
		defer m.Unlock()
		for conn := range m.clients {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closing"),
				time.Now().Add(time.Second))
			conn.Close()
		}
	})
}
