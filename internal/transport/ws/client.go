package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"unilang/internal/app"
	"unilang/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket viewer of one session
type Client struct {
	conn            *websocket.Conn
	session         *app.Session
	clientID        string
	leaderboardSize int
	send            chan []byte
	done            chan struct{}
	logger          *slog.Logger
	mu              sync.Mutex
	closed          bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, session *app.Session, clientID string, leaderboardSize int, logger *slog.Logger) *Client {
	return &Client{
		conn:            conn,
		session:         session,
		clientID:        clientID,
		leaderboardSize: leaderboardSize,
		send:            make(chan []byte, sendBufferSize),
		done:            make(chan struct{}),
		logger:          logger,
	}
}

// GetClientID implements app.Listener
func (c *Client) GetClientID() string {
	return c.clientID
}

// Send implements app.Listener. Session events are converted to server messages.
func (c *Client) Send(message interface{}) error {
	if event, ok := message.(*domain.SessionEvent); ok {
		msg := messageForEvent(event)
		if msg == nil {
			return nil
		}
		message = msg
	}

	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped", "clientID", c.clientID)
		return nil
	}
}

// Close implements app.Listener. Queued messages are flushed by the write
// pump before the connection is closed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.done)
	}
	return nil
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.session.UnregisterListener(c.clientID)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection.
// Each message is written as its own frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.flush()
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// flush writes whatever is still queued without blocking
func (c *Client) flush() {
	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		default:
			return
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgSubmit:
		c.handleSubmit(msg.Payload)
	case MsgPing:
		c.Send(NewServerMessage(MsgPong, nil))
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleSubmit handles a submit message
func (c *Client) handleSubmit(raw json.RawMessage) {
	var payload SubmitPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	category, err := domain.ParseCategory(payload.Category)
	if err != nil {
		c.sendDomainError(err)
		return
	}

	result, err := c.session.Submit(payload.Text, category, payload.Target)
	if err != nil {
		c.sendDomainError(err)
		return
	}

	c.Send(NewServerMessage(MsgSubmitResult, result))
}

// sendConnected sends the connected message to the client
func (c *Client) sendConnected() {
	payload := &ConnectedPayload{
		ClientID:        c.clientID,
		SessionID:       c.session.ID(),
		SubmissionCount: c.session.Len(),
		Leaderboard:     c.session.Leaderboard(c.leaderboardSize),
	}

	c.Send(NewServerMessage(MsgConnected, payload))
}

func (c *Client) sendDomainError(err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		c.sendError(ErrCodeEmptyInput, "Text cannot be empty")
	case errors.Is(err, domain.ErrInvalidCategory):
		c.sendError(ErrCodeInvalidCategory, "Category must be Idiom or Joke")
	case errors.Is(err, domain.ErrSessionClosed):
		c.sendError(ErrCodeSessionClosed, "Session is closed")
	default:
		c.logger.Error("submit failed", "clientID", c.clientID, "error", err)
		c.sendError(ErrCodeInternalError, "Internal server error")
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	c.Send(NewServerMessage(MsgError, &ErrorPayload{
		Code:    code,
		Message: message,
	}))
}
