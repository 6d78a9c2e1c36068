package app

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"unilang/internal/domain"
)

const (
	// DefaultIdleTimeout is how long before an unused session is cleaned up
	DefaultIdleTimeout = 2 * time.Hour

	// DefaultCleanupInterval is how often idle sessions are looked for
	DefaultCleanupInterval = 10 * time.Minute
)

// HubConfig configures a SessionHub
type HubConfig struct {
	Session SessionOptions

	// Seed makes session randomness reproducible: session n is seeded with
	// Seed+n. Zero seeds every session randomly.
	Seed int64

	IdleTimeout     time.Duration
	CleanupInterval time.Duration
}

// SessionHub manages all active sessions. Each session owns its own store;
// nothing is shared between them except the read-only translator.
type SessionHub struct {
	sessions   map[string]*Session
	mu         sync.RWMutex
	translator Translator
	cfg        HubConfig
	created    atomic.Int64
	logger     *slog.Logger
	done       chan struct{}
	closeOnce  sync.Once
}

// NewSessionHub creates a new session hub
func NewSessionHub(translator Translator, cfg HubConfig, logger *slog.Logger) *SessionHub {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultCleanupInterval
	}

	hub := &SessionHub{
		sessions:   make(map[string]*Session),
		translator: translator,
		cfg:        cfg,
		logger:     logger,
		done:       make(chan struct{}),
	}

	// Start cleanup goroutine
	go hub.cleanupLoop()

	return hub
}

// CreateSession creates a new session
func (h *SessionHub) CreateSession() (*Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	var seed int64
	n := h.created.Add(1)
	if h.cfg.Seed != 0 {
		seed = h.cfg.Seed + n
	}

	session := NewSession(id.String(), h.translator, gofakeit.New(seed), h.cfg.Session, h.logger)

	h.mu.Lock()
	h.sessions[session.ID()] = session
	h.mu.Unlock()

	h.logger.Info("session created", "sessionID", session.ID())

	return session, nil
}

// GetSession returns a session by ID
func (h *SessionHub) GetSession(id string) (*Session, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	return session, nil
}

// DeleteSession closes and removes a session
func (h *SessionHub) DeleteSession(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	session, ok := h.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}

	session.Close()
	delete(h.sessions, id)
	h.logger.Info("session deleted", "sessionID", id)

	return nil
}

// GetSessionCount returns the number of active sessions
func (h *SessionHub) GetSessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// GetTotalSubmissionCount returns the number of submissions across all sessions
func (h *SessionHub) GetTotalSubmissionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, session := range h.sessions {
		total += session.Len()
	}
	return total
}

// Close shuts down the hub and all sessions
func (h *SessionHub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, session := range h.sessions {
		session.Close()
	}
	h.sessions = make(map[string]*Session)
}

// cleanupLoop periodically cleans up idle sessions
func (h *SessionHub) cleanupLoop() {
	ticker := time.NewTicker(h.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.cleanupIdleSessions(time.Now())
		}
	}
}

// cleanupIdleSessions removes sessions unused since before now-IdleTimeout
func (h *SessionHub) cleanupIdleSessions(now time.Time) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	removed := 0
	for id, session := range h.sessions {
		if now.Sub(session.LastActive()) > h.cfg.IdleTimeout {
			session.Close()
			delete(h.sessions, id)
			removed++
			h.logger.Info("idle session cleaned up", "sessionID", id)
		}
	}
	return removed
}
