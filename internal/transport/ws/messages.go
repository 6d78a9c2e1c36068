package ws

import (
	"encoding/json"
	"time"

	"unilang/internal/domain"
	"unilang/internal/store"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgSubmit MessageType = "submit"
	MsgPing   MessageType = "ping"
)

// Server → Client message types
const (
	MsgConnected       MessageType = "connected"
	MsgError           MessageType = "error"
	MsgSubmitResult    MessageType = "submit_result"
	MsgSubmissionAdded MessageType = "submission_added"
	MsgSessionClosed   MessageType = "session_closed"
	MsgPong            MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// messageForEvent converts a session event into the message viewers receive
func messageForEvent(event *domain.SessionEvent) *ServerMessage {
	switch event.Type {
	case domain.EventSubmissionAdded:
		return NewServerMessage(MsgSubmissionAdded, event.Payload)
	case domain.EventSessionClosed:
		return NewServerMessage(MsgSessionClosed, nil)
	default:
		return nil
	}
}

// Client message payloads

// SubmitPayload is the payload for submit message
type SubmitPayload struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Target   string `json:"target"`
}

// Server message payloads

// ConnectedPayload is the payload for connected message
type ConnectedPayload struct {
	ClientID        string         `json:"clientId"`
	SessionID       string         `json:"sessionId"`
	SubmissionCount int            `json:"submissionCount"`
	Leaderboard     []store.Ranked `json:"leaderboard"`
}

// ErrorPayload is the payload for error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage  = "INVALID_MESSAGE"
	ErrCodeEmptyInput      = "EMPTY_INPUT"
	ErrCodeInvalidCategory = "INVALID_CATEGORY"
	ErrCodeSessionClosed   = "SESSION_CLOSED"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)
