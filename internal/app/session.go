package app

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"unilang/internal/domain"
	"unilang/internal/store"
	"unilang/internal/translate"
)

// Listener receives live events for a session (a websocket viewer)
type Listener interface {
	Send(message interface{}) error
	GetClientID() string
	Close() error
}

// Translator resolves a phrase into a target language
type Translator interface {
	ResolveResult(input, target string) translate.Result
}

// SessionOptions holds per-session parameters
type SessionOptions struct {
	TopCountries int
	Preload      bool
	Catalog      domain.Catalog
}

// SubmitResult is what a user sees after submitting an expression
type SubmitResult struct {
	Submission   domain.Submission `json:"submission"`
	Translation  string            `json:"translation"`
	Score        int               `json:"score"`
	TopCountries []string          `json:"topCountries"`
}

// MapMarker is one country on the world map with the expressions tied to it
type MapMarker struct {
	Country     string   `json:"country"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Count       int      `json:"count"`
	Expressions []string `json:"expressions"`
}

// SessionInfo summarizes a session
type SessionInfo struct {
	ID              string    `json:"id"`
	SubmissionCount int       `json:"submissionCount"`
	Viewers         int       `json:"viewers"`
	CreatedAt       time.Time `json:"createdAt"`
	LastActive      time.Time `json:"lastActive"`
}

// Session owns the submissions of one user session
type Session struct {
	id         string
	store      *store.Store
	translator Translator
	faker      *gofakeit.Faker
	opts       SessionOptions
	mu         sync.RWMutex // guards store and faker
	logger     *slog.Logger

	createdAt  time.Time
	lastActive atomic.Int64

	listeners   map[string]Listener // clientID -> listener
	listenersMu sync.RWMutex

	// Event channel for broadcasting
	events   chan *domain.SessionEvent
	done     chan struct{}
	loopDone chan struct{} // closed when eventLoop has drained and exited
	once     sync.Once
}

// NewSession creates a new session. faker is the session's random source.
func NewSession(id string, translator Translator, faker *gofakeit.Faker, opts SessionOptions, logger *slog.Logger) *Session {
	if len(opts.Catalog) == 0 {
		opts.Catalog = domain.DefaultCatalog()
	}
	opts.TopCountries = min(max(opts.TopCountries, 1), len(opts.Catalog))

	session := &Session{
		id:         id,
		store:      store.New(),
		translator: translator,
		faker:      faker,
		opts:       opts,
		logger:     logger.With("sessionID", id),
		createdAt:  time.Now(),
		listeners:  make(map[string]Listener),
		events:     make(chan *domain.SessionEvent, 100),
		done:       make(chan struct{}),
		loopDone:   make(chan struct{}),
	}
	session.touch()

	if opts.Preload {
		for _, rec := range preloadedSubmissions() {
			session.store.Append(rec)
		}
	}

	// Start event broadcaster
	go session.eventLoop()

	return session
}

// ID returns the session ID
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns when the session was created
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// LastActive returns when the session was last used
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// Len returns the number of submissions
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Len()
}

// Info returns a summary of the session
func (s *Session) Info() SessionInfo {
	s.listenersMu.RLock()
	viewers := len(s.listeners)
	s.listenersMu.RUnlock()

	return SessionInfo{
		ID:              s.id,
		SubmissionCount: s.Len(),
		Viewers:         viewers,
		CreatedAt:       s.createdAt,
		LastActive:      s.LastActive(),
	}
}

// Submit translates input, scores it, associates countries with it and
// appends the resulting submission. Blank input is rejected and leaves the
// store untouched.
func (s *Session) Submit(input string, category domain.Category, target string) (*SubmitResult, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, domain.NewValidationError("text", domain.ErrEmptyInput, "text cannot be empty")
	}
	if !category.IsValid() {
		return nil, domain.NewValidationError("category", domain.ErrInvalidCategory, "category must be Idiom or Joke")
	}
	if s.isClosed() {
		return nil, domain.ErrSessionClosed
	}

	resolved := s.translator.ResolveResult(text, target)
	sourceLang := translate.DetectLanguage(text)

	s.mu.Lock()
	rec := domain.NewSubmission(domain.SubmissionParams{
		InputText:      text,
		Category:       category,
		Target:         target,
		Translation:    resolved.Text,
		Outcome:        resolved.Outcome,
		Score:          s.faker.Number(domain.MinScore, domain.MaxScore),
		Countries:      s.sampleCountries(target),
		SourceLanguage: sourceLang,
	})
	s.store.Append(rec)
	count := s.store.Len()
	s.mu.Unlock()

	s.touch()

	s.logger.Info("submission added",
		"category", rec.Category,
		"target", rec.Target,
		"outcome", rec.Outcome,
		"score", rec.Score,
	)

	s.queueEvent(domain.NewEvent(domain.EventSubmissionAdded, s.id, &domain.SubmissionAddedPayload{
		Submission:      rec,
		SubmissionCount: count,
	}))

	return &SubmitResult{
		Submission:   rec,
		Translation:  rec.Translation,
		Score:        rec.Score,
		TopCountries: rec.Countries,
	}, nil
}

// sampleCountries picks the countries shown as most similar. The target
// language's home country, when known, comes first. Caller must hold mu.
func (s *Session) sampleCountries(target string) []string {
	n := s.opts.TopCountries
	picked := make([]string, 0, n)

	pool := s.opts.Catalog.Names()
	if home, ok := domain.HomeCountry(target); ok {
		if c, ok := s.opts.Catalog.Find(home); ok {
			picked = append(picked, c.Name)
			pool = slices.DeleteFunc(pool, func(name string) bool { return name == c.Name })
		}
	}

	s.faker.ShuffleStrings(pool)
	for _, name := range pool {
		if len(picked) >= n {
			break
		}
		picked = append(picked, name)
	}
	return picked
}

// ListSubmissions returns submissions matching filter in insertion order
func (s *Session) ListSubmissions(filter domain.Filter) []domain.Submission {
	s.touch()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Filtered(filter)
}

// Leaderboard ranks expressions by submission count
func (s *Session) Leaderboard(limit int) []store.Ranked {
	s.touch()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Leaderboard(limit)
}

// CountryRanking ranks countries by how often they were associated with a
// submission
func (s *Session) CountryRanking(limit int) []store.Ranked {
	s.touch()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.CountryRanking(limit)
}

// CountryScoreRanking ranks countries by the summed score of their submissions
func (s *Session) CountryScoreRanking(limit int) []store.Ranked {
	s.touch()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.CountryScoreRanking(limit)
}

// MapMarkers groups filtered submissions by country. Countries without
// catalog coordinates are left off the map.
func (s *Session) MapMarkers(filter domain.Filter) []MapMarker {
	records := s.ListSubmissions(filter)

	index := make(map[string]int)
	markers := make([]MapMarker, 0)
	for _, rec := range records {
		for _, name := range rec.Countries {
			i, ok := index[name]
			if !ok {
				country, found := s.opts.Catalog.Find(name)
				if !found {
					continue
				}
				i = len(markers)
				index[name] = i
				markers = append(markers, MapMarker{Country: country.Name, Lat: country.Lat, Lon: country.Lon})
			}

			m := &markers[i]
			m.Count++
			if !slices.Contains(m.Expressions, rec.InputText) {
				m.Expressions = append(m.Expressions, rec.InputText)
			}
		}
	}
	return markers
}

// RegisterListener registers a live viewer
func (s *Session) RegisterListener(l Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners[l.GetClientID()] = l
}

// UnregisterListener removes a live viewer
func (s *Session) UnregisterListener(clientID string) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	delete(s.listeners, clientID)
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

func (s *Session) isClosed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// queueEvent adds an event to the broadcast queue
func (s *Session) queueEvent(event *domain.SessionEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.Type)
	}
}

// eventLoop processes events and broadcasts to listeners
func (s *Session) eventLoop() {
	defer close(s.loopDone)

	for {
		select {
		case <-s.done:
			s.drainEvents()
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

// drainEvents broadcasts whatever is still queued
func (s *Session) drainEvents() {
	for {
		select {
		case event := <-s.events:
			s.broadcastEvent(event)
		default:
			return
		}
	}
}

func (s *Session) broadcastEvent(event *domain.SessionEvent) {
	s.listenersMu.RLock()
	defer s.listenersMu.RUnlock()

	for clientID, l := range s.listeners {
		if err := l.Send(event); err != nil {
			s.logger.Debug("failed to send to listener", "clientID", clientID, "error", err)
		}
	}
}

// Close shuts down the session and disconnects its listeners
func (s *Session) Close() {
	s.once.Do(func() {
		close(s.done)
		<-s.loopDone

		// Queued events have been delivered; the close notice is last.
		s.broadcastEvent(domain.NewEvent(domain.EventSessionClosed, s.id, nil))

		s.listenersMu.Lock()
		for _, l := range s.listeners {
			l.Close()
		}
		s.listeners = make(map[string]Listener)
		s.listenersMu.Unlock()
	})
}
