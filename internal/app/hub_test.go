package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unilang/internal/domain"
)

func newTestHub(t *testing.T, cfg HubConfig) *SessionHub {
	t.Helper()

	h := NewSessionHub(testTranslator(t), cfg, testLogger())
	t.Cleanup(h.Close)
	return h
}

func TestHub_CreateGetDelete(t *testing.T) {
	h := newTestHub(t, HubConfig{Session: SessionOptions{TopCountries: 3}})

	s, err := h.CreateSession()
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, 1, h.GetSessionCount())

	got, err := h.GetSession(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, h.DeleteSession(s.ID()))
	assert.Equal(t, 0, h.GetSessionCount())

	_, err = h.GetSession(s.ID())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, h.DeleteSession(s.ID()), domain.ErrSessionNotFound)
}

func TestHub_SessionsAreIndependent(t *testing.T) {
	h := newTestHub(t, HubConfig{Session: SessionOptions{TopCountries: 3}})

	a, err := h.CreateSession()
	require.NoError(t, err)
	b, err := h.CreateSession()
	require.NoError(t, err)

	_, err = a.Submit("Break the ice", domain.CategoryIdiom, "Spanish")
	require.NoError(t, err)

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 1, h.GetTotalSubmissionCount())
}

func TestHub_SeededSessions(t *testing.T) {
	submitScores := func() []int {
		h := NewSessionHub(testTranslator(t), HubConfig{Seed: 11, Session: SessionOptions{TopCountries: 3}}, testLogger())
		defer h.Close()

		s, err := h.CreateSession()
		require.NoError(t, err)

		var scores []int
		for i := 0; i < 3; i++ {
			res, err := s.Submit("Break the ice", domain.CategoryIdiom, "Spanish")
			require.NoError(t, err)
			scores = append(scores, res.Score)
		}
		return scores
	}

	assert.Equal(t, submitScores(), submitScores())
}

func TestHub_CleanupIdleSessions(t *testing.T) {
	h := newTestHub(t, HubConfig{IdleTimeout: time.Minute, Session: SessionOptions{TopCountries: 3}})

	s, err := h.CreateSession()
	require.NoError(t, err)

	assert.Equal(t, 0, h.cleanupIdleSessions(time.Now()))
	assert.Equal(t, 1, h.GetSessionCount())

	assert.Equal(t, 1, h.cleanupIdleSessions(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, h.GetSessionCount())

	_, err = s.Submit("Break the ice", domain.CategoryIdiom, "Spanish")
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}
