package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-search-agent/internal/db"
	"github.com/jonathan/job-search-agent/internal/enrich"
	"github.com/jonathan/job-search-agent/internal/pipeline"
	"github.com/jonathan/job-search-agent/internal/resume"
)

// SearchJobsRequest represents the request body for /search-jobs
type SearchJobsRequest struct {
	Roles      string `json:"roles" validate:"required,min=1"`
	Country    string `json:"country" validate:"required,min=1"`
	ResumeText string `json:"resume_text"`
}

// Validate validates the SearchJobsRequest using the validator.
func (r *SearchJobsRequest) Validate() error {
	return validator.New().Struct(r)
}

// SearchJobsResponse represents the response for /search-jobs
type SearchJobsResponse struct {
	Jobs []enrich.Match `json:"jobs"`
}

// ChatInitResponse represents the response for /chat/init
type ChatInitResponse struct {
	Message string `json:"message"`
}

// ParseResumeResponse represents the response for /parse-resume
type ParseResumeResponse struct {
	Text string `json:"text"`
}

// handleSearchJobs retrieves listings and runs the matching pipeline
func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	var req SearchJobsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	listings := s.deps.Retriever.SearchJobs(r.Context(), req.Roles, req.Country, s.searchLimit)
	if len(listings) == 0 {
		s.jsonResponse(w, http.StatusOK, SearchJobsResponse{Jobs: []enrich.Match{}})
		return
	}

	matches, err := s.deps.Coordinator.Run(r.Context(), pipeline.SearchRequest{
		Roles:      req.Roles,
		Country:    req.Country,
		ResumeText: req.ResumeText,
	}, listings)
	if err != nil {
		s.logger.Error("search pipeline failed", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to process search results")
		return
	}

	s.jsonResponse(w, http.StatusOK, SearchJobsResponse{Jobs: matches})
}

// handleChatInit returns the opening assistant message
func (s *Server) handleChatInit(w http.ResponseWriter, r *http.Request) {
	if s.deps.Greeter == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Chat is not configured")
		return
	}
	s.jsonResponse(w, http.StatusOK, ChatInitResponse{Message: s.deps.Greeter.Greeting(r.Context())})
}

// handleParseResume extracts plain text from an uploaded PDF resume
func (s *Server) handleParseResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, resume.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "Resume file is too large")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Missing file upload: "+err.Error())
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !resume.IsPDFContentType(contentType) && !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		s.errorResponse(w, http.StatusUnsupportedMediaType, "Only PDF resumes are supported")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read upload: "+err.Error())
		return
	}

	text, err := resume.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		s.logger.Warn("resume parse failed", zap.String("filename", header.Filename), zap.Error(err))
		s.errorResponse(w, http.StatusUnprocessableEntity, "Could not extract text from resume")
		return
	}

	s.jsonResponse(w, http.StatusOK, ParseResumeResponse{Text: text})
}

// handleSearchHistory lists recent searches with match counts
func (s *Server) handleSearchHistory(w http.ResponseWriter, r *http.Request) {
	if s.deps.History == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Search history is not available")
		return
	}

	limit := parseQueryInt(r, "limit", 10)
	searches, err := s.deps.History.ListRecentSearches(r.Context(), limit)
	if err != nil {
		s.logger.Error("listing search history", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list searches")
		return
	}
	if searches == nil {
		searches = []db.SearchSummary{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"history": searches})
}

// handleSearchResults returns a stored search and its matches
func (s *Server) handleSearchResults(w http.ResponseWriter, r *http.Request) {
	if s.deps.History == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Search history is not available")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid search ID")
		return
	}

	search, err := s.deps.History.GetSearch(r.Context(), id)
	if err != nil {
		s.logger.Error("getting search", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load search")
		return
	}
	if search == nil {
		s.errorResponse(w, http.StatusNotFound, "Search not found")
		return
	}

	matches, err := s.deps.History.ListMatches(r.Context(), id)
	if err != nil {
		s.logger.Error("listing matches", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load matches")
		return
	}
	if matches == nil {
		matches = []db.MatchRecord{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"jobs": matches})
}

// parseQueryInt reads a positive integer query parameter with a default.
func parseQueryInt(r *http.Request, key string, defaultValue int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
