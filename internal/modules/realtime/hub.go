package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 64 * 1024
)

type connection struct {
	userID int64
	conn   *websocket.Conn
	send   chan []byte
}

// Hub keeps one live connection per signed-in user. A newer connection for
// the same user replaces the older one. Every connection is released on every
// exit path of its pumps, so repeated connects never accumulate listeners.
type Hub struct {
	mu          sync.RWMutex
	connections map[int64]*connection
	log         *zap.Logger

	onConnect    func(userID int64)
	onDisconnect func(userID int64)
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		connections: make(map[int64]*connection),
		log:         log,
	}
}

// OnConnect registers a callback fired after a user's connection is live.
// The dispatcher uses it to re-deliver pending notifications.
func (h *Hub) OnConnect(fn func(userID int64)) { h.onConnect = fn }

// OnDisconnect registers a callback fired after a user's last connection closes.
func (h *Hub) OnDisconnect(fn func(userID int64)) { h.onDisconnect = fn }

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	if old, ok := h.connections[c.userID]; ok {
		close(old.send)
		_ = old.conn.Close()
	}
	h.connections[c.userID] = c
	h.mu.Unlock()

	if h.onConnect != nil {
		h.onConnect(c.userID)
	}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	replaced := false
	if existing, ok := h.connections[c.userID]; ok {
		if existing == c {
			delete(h.connections, c.userID)
			close(c.send)
		} else {
			replaced = true
		}
	}
	h.mu.Unlock()

	if !replaced && h.onDisconnect != nil {
		h.onDisconnect(c.userID)
	}
}

// SendToUser pushes an event to the user's connection. Returns false when the
// user has no live connection or the send buffer is full.
func (h *Hub) SendToUser(userID int64, event *Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		return false
	}

	// Send channels are closed only while the write lock is held (register,
	// unregister, CloseUser), so the buffered send must stay under the read
	// lock or it can hit a channel that was just closed.
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.connections[userID]
	if !ok {
		return false
	}

	select {
	case c.send <- data:
		return true
	default:
		h.log.Warn("dropping event for slow client", zap.Int64("user_id", userID))
		return false
	}
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[userID]
	return ok
}

func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// ServeConn registers the connection and runs its pumps. Blocks until the
// client disconnects; teardown always runs.
func (h *Hub) ServeConn(conn *websocket.Conn, userID int64) {
	c := &connection{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 256),
	}

	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket closed", zap.Int64("user_id", c.userID), zap.Error(err))
			}
			return
		}
		// Inbound frames are ignored; chat messages go through the REST API
		// and fan back out over this channel.
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// CloseUser force-closes a user's connection, if any. Used after a forced
// sign-out so a banned client cannot keep listening.
func (h *Hub) CloseUser(userID int64) {
	h.mu.Lock()
	c, ok := h.connections[userID]
	if ok {
		delete(h.connections, userID)
		close(c.send)
		_ = c.conn.Close()
	}
	h.mu.Unlock()
}

// Close tears down every connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, c := range h.connections {
		close(c.send)
		_ = c.conn.Close()
		delete(h.connections, userID)
	}
}
