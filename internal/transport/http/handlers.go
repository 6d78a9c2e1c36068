package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"unilang/internal/app"
	"unilang/internal/domain"
	"unilang/internal/store"
	"unilang/internal/translate"
)

const maxBodyBytes = 64 << 10

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeEmptyInput      = "EMPTY_INPUT"
	ErrCodeInvalidCategory = "INVALID_CATEGORY"
	ErrCodeInvalidLimit    = "INVALID_LIMIT"
	ErrCodeSessionNotFound = "SESSION_NOT_FOUND"
	ErrCodeSessionClosed   = "SESSION_CLOSED"
	ErrCodeCreationFailed  = "CREATION_FAILED"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// CreateSessionResponse is the response for session creation
type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
}

// SubmitRequest is the body of a submission
type SubmitRequest struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Target   string `json:"target"`
}

// SubmissionsResponse is the response for listing submissions
type SubmissionsResponse struct {
	Filter      domain.Filter       `json:"filter"`
	Submissions []domain.Submission `json:"submissions"`
}

// RankingResponse is the response for leaderboard and country rankings
type RankingResponse struct {
	Entries []store.Ranked `json:"entries"`
}

// MapResponse is the response for the world map view
type MapResponse struct {
	Filter  domain.Filter   `json:"filter"`
	Markers []app.MapMarker `json:"markers"`
}

// LanguagesResponse lists the target languages in the dataset
type LanguagesResponse struct {
	Languages []string `json:"languages"`
}

// TranslateResponse is the response for a one-off lookup
type TranslateResponse struct {
	Input  string `json:"input"`
	Target string `json:"target"`
	translate.Result
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	ActiveSessions   int `json:"activeSessions"`
	TotalSubmissions int `json:"totalSubmissions"`
}

// handleCreateSession handles POST /api/sessions
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.hub.CreateSession()
	if err != nil {
		s.logger.Error("failed to create session", "error", err)
		s.sendError(w, http.StatusInternalServerError, ErrCodeCreationFailed, "Failed to create session")
		return
	}

	s.sendSuccess(w, &CreateSessionResponse{SessionID: session.ID()})
}

// handleGetSession handles GET /api/sessions/{sessionId}
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	s.sendSuccess(w, session.Info())
}

// handleDeleteSession handles DELETE /api/sessions/{sessionId}
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.hub.DeleteSession(r.PathValue("sessionId")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.sendSuccess(w, nil)
}

// handleSubmit handles POST /api/sessions/{sessionId}/submissions
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid request body")
		return
	}

	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	result, err := session.Submit(req.Text, category, req.Target)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.sendSuccess(w, result)
}

// handleListSubmissions handles GET /api/sessions/{sessionId}/submissions?category=
func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	filter, err := domain.ParseFilter(r.URL.Query().Get("category"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.sendSuccess(w, &SubmissionsResponse{
		Filter:      filter,
		Submissions: session.ListSubmissions(filter),
	})
}

// handleLeaderboard handles GET /api/sessions/{sessionId}/leaderboard?limit=
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	s.sendRanking(w, r, (*app.Session).Leaderboard)
}

// handleCountryRanking handles GET /api/sessions/{sessionId}/countries?limit=
func (s *Server) handleCountryRanking(w http.ResponseWriter, r *http.Request) {
	s.sendRanking(w, r, (*app.Session).CountryRanking)
}

// handleCountryScores handles GET /api/sessions/{sessionId}/countries/scores?limit=
func (s *Server) handleCountryScores(w http.ResponseWriter, r *http.Request) {
	s.sendRanking(w, r, (*app.Session).CountryScoreRanking)
}

func (s *Server) sendRanking(w http.ResponseWriter, r *http.Request, ranking func(*app.Session, int) []store.Ranked) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	limit, err := s.parseLimit(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.sendSuccess(w, &RankingResponse{Entries: ranking(session, limit)})
}

// handleMap handles GET /api/sessions/{sessionId}/map?category=
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	filter, err := domain.ParseFilter(r.URL.Query().Get("category"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.sendSuccess(w, &MapResponse{
		Filter:  filter,
		Markers: session.MapMarkers(filter),
	})
}

// handleLanguages handles GET /api/languages
func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &LanguagesResponse{Languages: s.translator.Targets()})
}

// handleTranslate handles GET /api/translate?text=&target=
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.URL.Query().Get("text"))
	target := r.URL.Query().Get("target")
	if text == "" {
		s.sendError(w, http.StatusBadRequest, ErrCodeEmptyInput, "Text is required")
		return
	}

	s.sendSuccess(w, &TranslateResponse{
		Input:  text,
		Target: target,
		Result: s.translator.ResolveResult(text, target),
	})
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{
		Status: "ok",
	})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &StatsResponse{
		ActiveSessions:   s.hub.GetSessionCount(),
		TotalSubmissions: s.hub.GetTotalSubmissionCount(),
	})
}

// handleStatic serves static files
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/static/")

	file, err := s.webFS.Open("static/" + path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil || stat.IsDir() {
		http.NotFound(w, r)
		return
	}

	rs, ok := file.(io.ReadSeeker)
	if !ok {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, stat.Name(), stat.ModTime(), rs)
}

// handleSPA serves the single-page application
func (s *Server) handleSPA(w http.ResponseWriter, r *http.Request) {
	file, err := s.webFS.Open("index.html")
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	rs, ok := file.(io.ReadSeeker)
	if !ok {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, "index.html", stat.ModTime(), rs)
}

// session resolves the {sessionId} path value, writing a 404 when unknown
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*app.Session, bool) {
	session, err := s.hub.GetSession(r.PathValue("sessionId"))
	if err != nil {
		s.handleDomainError(w, err)
		return nil, false
	}
	return session, true
}

// parseLimit reads ?limit=, defaulting to the configured leaderboard size.
// Zero means no limit.
func (s *Server) parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return s.config.Session.LeaderboardSize, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, domain.NewValidationError("limit", domain.ErrInvalidLimit, "limit must be a non-negative integer")
	}
	return limit, nil
}

// handleDomainError maps domain errors onto HTTP responses
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	message := "Invalid request"
	if errors.As(err, &ve) {
		message = ve.Message
	}

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		s.sendError(w, http.StatusNotFound, ErrCodeSessionNotFound, "Session not found")
	case errors.Is(err, domain.ErrSessionClosed):
		s.sendError(w, http.StatusGone, ErrCodeSessionClosed, "Session is closed")
	case errors.Is(err, domain.ErrEmptyInput):
		s.sendError(w, http.StatusBadRequest, ErrCodeEmptyInput, message)
	case errors.Is(err, domain.ErrInvalidCategory):
		s.sendError(w, http.StatusBadRequest, ErrCodeInvalidCategory, message)
	case errors.Is(err, domain.ErrInvalidLimit):
		s.sendError(w, http.StatusBadRequest, ErrCodeInvalidLimit, message)
	case errors.Is(err, domain.ErrValidation):
		s.sendError(w, http.StatusBadRequest, ErrCodeInvalidRequest, message)
	default:
		s.logger.Error("request failed", "error", err)
		s.sendError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error")
	}
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	}); err != nil {
		s.logger.Debug("failed to write response", "error", err)
	}
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}); err != nil {
		s.logger.Debug("failed to write response", "error", err)
	}
}
