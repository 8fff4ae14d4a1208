package live

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Hub fans fragments out to every connected viewer. Each client owns a
// buffered queue drained by its own writer goroutine, since a websocket
// connection supports a single concurrent writer.
type Hub struct {
	log          logrus.FieldLogger
	writeTimeout time.Duration
	pingInterval time.Duration
	sendBuffer   int

	mu      sync.Mutex
	clients map[uuid.UUID]*client
	closed  bool
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

func NewHub(log logrus.FieldLogger, writeTimeout, pingInterval time.Duration, sendBuffer int) *Hub {
	return &Hub{
		log:          log,
		writeTimeout: writeTimeout,
		pingInterval: pingInterval,
		sendBuffer:   sendBuffer,
		clients:      make(map[uuid.UUID]*client),
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Serve registers conn and blocks until the viewer goes away. Viewers only
// listen; anything they send is discarded. Once the hub is closed, conn is
// sent a close frame and dropped.
func (h *Hub) Serve(conn *websocket.Conn) {
	c := &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, h.sendBuffer),
		done: make(chan struct{}),
	}
	log := h.log.WithField("client", c.id)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		log.Debug("viewer refused, hub closed")
		return
	}
	h.clients[c.id] = c
	h.mu.Unlock()
	log.Debug("viewer connected")

	go h.writeLoop(c, log)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("abnormal ws break")
			}
			break
		}
	}

	h.remove(c)
	<-c.done
	log.Debug("viewer disconnected")
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
}

func (h *Hub) writeLoop(c *client, log logrus.FieldLogger) {
	defer close(c.done)
	defer c.conn.Close()

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.WithError(err).Warn("unable to write to viewer")
				h.remove(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

// Broadcast queues message for every viewer. Viewers whose queue is full
// are disconnected rather than block the game.
func (h *Hub) Broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		select {
		case c.send <- message:
		default:
			h.log.WithField("client", id).Warn("viewer too slow, dropping")
			delete(h.clients, id)
			close(c.send)
		}
	}
}

// Close disconnects every viewer and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
}
