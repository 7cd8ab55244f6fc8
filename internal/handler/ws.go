package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"blogauto/internal/logging"
	"blogauto/internal/service"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

// WebSocket message types
const (
	MessageTypeAck    = "ack"
	MessageTypeError  = "error"
	MessageTypeInput  = "input"
	MessageTypeCursor = "cursor"
	MessageTypePing   = "ping"
	MessageTypePong   = "pong"
)

// WSMessage is an inbound command or an outbound acknowledgement
type WSMessage struct {
	Type      string    `json:"type"`
	RequestID string    `json:"request_id,omitempty"`
	SurfaceID string    `json:"surface_id,omitempty"`
	Content   string    `json:"content,omitempty"`
	Cursor    int       `json:"cursor,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// WSHandler streams one surface's events over a WebSocket and applies the
// input and cursor commands it receives
type WSHandler struct {
	svc      *service.SurfaceService
	bus      *service.EventBus
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWSHandler creates a WebSocket handler. An empty allowedOrigins accepts any origin.
func NewWSHandler(svc *service.SurfaceService, bus *service.EventBus, allowedOrigins []string, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		svc: svc,
		bus: bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || originAllowed(allowedOrigins, origin)
			},
		},
		logger: logging.OrDiscard(logger),
	}
}

type wsClient struct {
	id        string
	surfaceID string
	conn      *websocket.Conn
	send      chan WSMessage
	done      chan struct{}
	handler   *WSHandler
}

// ServeHTTP upgrades GET /ws/surfaces/{id}
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	surfaceID := r.PathValue("id")
	if _, err := h.svc.Snapshot(surfaceID); err != nil {
		writeJSON(w, h.logger, ErrorResponse{Error: "Unknown surface", Details: err.Error()}, statusFor(err))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	c := &wsClient{
		id:        uuid.NewString(),
		surfaceID: surfaceID,
		conn:      conn,
		send:      make(chan WSMessage, 64),
		done:      make(chan struct{}),
		handler:   h,
	}

	events := make(chan service.Event, 256)
	h.bus.Subscribe(events)
	h.logger.Info("WebSocket client connected", "client", c.id, "surface", surfaceID)

	c.send <- WSMessage{Type: MessageTypeAck, SurfaceID: surfaceID, Timestamp: time.Now()}

	go c.writePump(events)
	c.readPump(r)

	h.bus.Unsubscribe(events)
	close(c.done)
	h.logger.Info("WebSocket client disconnected", "client", c.id, "surface", surfaceID)
}

// writePump is the only writer on the connection
func (c *wsClient) writePump(events <-chan service.Event) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev := <-events:
			if ev.Scope() != "" && ev.Scope() != c.surfaceID {
				continue
			}
			if err := c.write(ev); err != nil {
				return
			}

		case msg := <-c.send:
			if err := c.write(msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (c *wsClient) write(v any) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(v); err != nil {
		c.handler.logger.Debug("WebSocket write failed", "client", c.id, "error", err)
		return err
	}
	return nil
}

// readPump applies inbound commands until the connection closes
func (c *wsClient) readPump(r *http.Request) {
	c.conn.SetReadLimit(maxBodyBytes)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var message WSMessage
		if err := c.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.handler.logger.Warn("WebSocket error", "client", c.id, "error", err)
			}
			return
		}

		reply, err := c.handleMessage(r, message)
		if err != nil {
			reply = &WSMessage{Type: MessageTypeError, RequestID: message.RequestID, Error: err.Error()}
		}
		if reply == nil {
			continue
		}
		reply.Timestamp = time.Now()

		select {
		case c.send <- *reply:
		default:
			c.handler.logger.Debug("WebSocket client is slow, dropping reply", "client", c.id)
		}
	}
}

func (c *wsClient) handleMessage(r *http.Request, message WSMessage) (*WSMessage, error) {
	svc := c.handler.svc

	switch message.Type {
	case MessageTypeInput:
		if err := svc.Input(r.Context(), c.surfaceID, message.Content, message.Cursor); err != nil {
			return nil, err
		}
	case MessageTypeCursor:
		if err := svc.MoveCursor(r.Context(), c.surfaceID, message.Cursor); err != nil {
			return nil, err
		}
	case MessageTypePing:
		return &WSMessage{Type: MessageTypePong, RequestID: message.RequestID}, nil
	default:
		return nil, fmt.Errorf("unknown message type: %s", message.Type)
	}

	if message.RequestID == "" {
		return nil, nil
	}
	return &WSMessage{Type: MessageTypeAck, RequestID: message.RequestID, SurfaceID: c.surfaceID}, nil
}
