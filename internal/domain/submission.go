package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Outcome records how a submission's translation was produced
type Outcome string

const (
	OutcomeResolved  Outcome = "resolved"  // Found in the dataset
	OutcomeFallback  Outcome = "fallback"  // Letter-shuffled rendering of the input
	OutcomePreloaded Outcome = "preloaded" // Demo item seeded into a new session
)

const (
	MinScore = 0
	MaxScore = 100
)

// Submission is a single expression submitted during a session.
// It is immutable once appended to a store.
type Submission struct {
	ID             string    `json:"id"`
	InputText      string    `json:"inputText"`
	Category       Category  `json:"category"`
	Target         string    `json:"target"`
	Translation    string    `json:"translation"`
	Outcome        Outcome   `json:"outcome"`
	Score          int       `json:"score"`
	Countries      []string  `json:"countries"`
	SourceLanguage string    `json:"sourceLanguage,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SubmissionParams holds the values a submission is built from
type SubmissionParams struct {
	InputText      string
	Category       Category
	Target         string
	Translation    string
	Outcome        Outcome
	Score          int
	Countries      []string
	SourceLanguage string
}

// NewSubmission creates a new submission, resolving every field up front.
// Text is trimmed and the score is clamped to [MinScore, MaxScore].
func NewSubmission(p SubmissionParams) Submission {
	text := strings.TrimSpace(p.InputText)

	translation := p.Translation
	if translation == "" {
		translation = text
	}

	outcome := p.Outcome
	if outcome == "" {
		outcome = OutcomeFallback
	}

	return Submission{
		ID:             uuid.New().String(),
		InputText:      text,
		Category:       p.Category,
		Target:         strings.TrimSpace(p.Target),
		Translation:    translation,
		Outcome:        outcome,
		Score:          min(max(p.Score, MinScore), MaxScore),
		Countries:      slices.Clone(p.Countries),
		SourceLanguage: p.SourceLanguage,
		CreatedAt:      time.Now(),
	}
}
