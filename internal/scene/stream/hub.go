// Package stream broadcasts rig poses to websocket clients.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/wyrmrig/internal/logger"
	"github.com/Faultbox/wyrmrig/internal/scene"
)

const (
	sendBuffer   = 32
	writeTimeout = 10 * time.Second
	pingPeriod   = 30 * time.Second
	pongTimeout  = 40 * time.Second
)

// VisualMessage is one visual's world transform, column-major.
type VisualMessage struct {
	ID     int         `json:"id"`
	Kind   string      `json:"kind"`
	Matrix [16]float32 `json:"matrix"`
}

// FrameMessage is broadcast once per published frame.
type FrameMessage struct {
	Run     string          `json:"run"`
	Frame   int             `json:"frame"`
	T       float64         `json:"t"`
	Visuals []VisualMessage `json:"visuals"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub is a rig.Scene that records pushed transforms and broadcasts them to
// every connected client on Publish.
type Hub struct {
	*scene.Recorder

	run      uuid.UUID
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte
}

// NewHub returns a hub tagging every message with run.
func NewHub(run uuid.UUID) *Hub {
	return &Hub{
		Recorder: scene.NewRecorder(false),
		run:      run,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Message builds the frame message from the latest recorded pose.
func (h *Hub) Message(frame int, t float64) FrameMessage {
	visuals := h.Snapshot()
	msg := FrameMessage{
		Run:     h.run.String(),
		Frame:   frame,
		T:       t,
		Visuals: make([]VisualMessage, len(visuals)),
	}
	for i, v := range visuals {
		msg.Visuals[i] = VisualMessage{
			ID:     int(v.Handle),
			Kind:   v.Shape.Kind.String(),
			Matrix: v.Transform.Float32(),
		}
	}
	return msg
}

// Publish broadcasts the current pose. Clients whose buffer is full are
// disconnected rather than blocking the frame loop.
func (h *Hub) Publish(frame int, t float64) error {
	data, err := json.Marshal(h.Message(frame, t))
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			logger.Warn("dropping slow stream client", zap.Int("frame", frame))
			delete(h.clients, c)
			close(c.send)
		}
	}
	return nil
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// Handler serves /ws (websocket stream) and /frame (latest message).
func (h *Hub) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/ws", h.serveWS)
	r.HandleFunc("/frame", h.serveFrame).Methods(http.MethodGet)

	var hh http.Handler = handlers.RecoveryHandler()(r)
	hh = handlers.LoggingHandler(zap.NewStdLog(logger.Log).Writer(), hh)
	return hh
}

func (h *Hub) serveFrame(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	data := h.last
	h.mu.Unlock()

	if data == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
	h.mu.Unlock()

	logger.Debug("stream client connected", zap.String("remote", r.RemoteAddr))
	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump discards client messages and handles pongs until the connection
// fails.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("stream write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Debug("stream ping failed", zap.Error(err))
				return
			}
		}
	}
}
