package domain

import "time"

// EventType represents the type of session event
type EventType string

const (
	EventSubmissionAdded EventType = "SUBMISSION_ADDED"
	EventSessionClosed   EventType = "SESSION_CLOSED"
)

// SessionEvent represents something that happened in a session
type SessionEvent struct {
	Type      EventType   `json:"type"`
	SessionID string      `json:"sessionId"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new session event
func NewEvent(eventType EventType, sessionID string, payload interface{}) *SessionEvent {
	return &SessionEvent{
		Type:      eventType,
		SessionID: sessionID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// SubmissionAddedPayload is sent to session viewers after each submission
type SubmissionAddedPayload struct {
	Submission      Submission `json:"submission"`
	SubmissionCount int        `json:"submissionCount"`
}
