package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/abhisek/interviewz/internal/interview"
	"github.com/abhisek/interviewz/internal/report"
	"github.com/abhisek/interviewz/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// HTTPStatus maps an interview error to a response status.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, interview.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, interview.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, interview.ErrMalformedEvaluation), errors.Is(err, interview.ErrCompletionFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	Error(w, status, err.Error())
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := s.validator.Struct(v); err != nil {
		Error(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		ve := verrs[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}

type categoryRequest struct {
	Category string `json:"category" validate:"required"`
}

type answerRequest struct {
	Answer string `json:"answer" validate:"max=10000"`
}

type sessionResponse struct {
	interview.Session
	QuestionLimit   int        `json:"question_limit"`
	DeadlineSeconds int        `json:"deadline_seconds"`
	DeadlineAt      *time.Time `json:"deadline_at,omitempty"`
	LastError       string     `json:"last_error,omitempty"`
}

type turnResponse struct {
	Question *interview.Question `json:"question,omitempty"`
	Report   *report.Report      `json:"report,omitempty"`
	ReportID int                 `json:"report_id,omitempty"`
}

type reportSummary struct {
	ID         int       `json:"id"`
	SessionID  string    `json:"session_id"`
	Category   string    `json:"category"`
	Questions  int       `json:"questions"`
	Score      int       `json:"score"`
	MaxScore   int       `json:"max_score"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListCategories returns the configured categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := s.orch.Settings().Categories
	if categories == nil {
		categories = []string{}
	}
	JSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// GetSession returns the current session snapshot.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	settings := s.orch.Settings()
	resp := sessionResponse{
		Session:         s.orch.Snapshot(),
		QuestionLimit:   settings.QuestionLimit,
		DeadlineSeconds: int(settings.Deadline / time.Second),
	}
	if at, ok := s.orch.Deadline(); ok {
		resp.DeadlineAt = &at
	}
	s.mu.Lock()
	resp.LastError = s.lastError
	s.mu.Unlock()
	JSON(w, http.StatusOK, resp)
}

// SelectCategory sets the interview topic.
func (s *Server) SelectCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.orch.SelectCategory(req.Category); err != nil {
		s.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]string{"state": s.orch.State().String()})
}

// Start asks the first question.
func (s *Server) Start(w http.ResponseWriter, r *http.Request) {
	s.clearLastError()
	q, err := s.orch.Start(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, turnResponse{Question: &q})
}

// Answer submits the answer to the current question.
func (s *Server) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.clearLastError()
	turn, err := s.orch.Submit(r.Context(), req.Answer)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeTurn(w, turn.Question, turn.Report)
}

// RetryGrading grades a session left unfinished by a failed grading call.
func (s *Server) RetryGrading(w http.ResponseWriter, r *http.Request) {
	rep, err := s.orch.RetryGrading(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeTurn(w, nil, rep)
}

func (s *Server) writeTurn(w http.ResponseWriter, q *interview.Question, rep *report.Report) {
	resp := turnResponse{Question: q, Report: rep}
	if rep != nil {
		resp.ReportID, _ = s.reportID(rep.SessionID)
	}
	JSON(w, http.StatusOK, resp)
}

// Reset abandons the current session.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	s.orch.Reset()
	s.clearLastError()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearLastError() {
	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()
}

// ListReports returns stored report summaries, newest first.
func (s *Server) ListReports(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		JSON(w, http.StatusOK, map[string]any{"reports": []reportSummary{}})
		return
	}
	opts := store.QueryOpts{Limit: 50, Category: r.URL.Query().Get("category")}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		opts.Limit = n
	}

	recs, err := s.reports.ListReports(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]reportSummary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, reportSummary{
			ID:         rec.ID,
			SessionID:  rec.SessionID,
			Category:   rec.Category,
			Questions:  rec.QuestionCount,
			Score:      rec.Score,
			MaxScore:   rec.MaxScore,
			DurationMs: rec.DurationMs,
			CreatedAt:  rec.Timestamp,
		})
	}
	JSON(w, http.StatusOK, map[string]any{"reports": out})
}

func (s *Server) loadReport(w http.ResponseWriter, r *http.Request) (*report.Report, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid report id")
		return nil, false
	}
	if s.reports == nil {
		Error(w, http.StatusNotFound, "report not found")
		return nil, false
	}
	rep, err := report.Load(r.Context(), s.reports, id)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	if rep == nil {
		Error(w, http.StatusNotFound, "report not found")
		return nil, false
	}
	return rep, true
}

// GetReport returns one stored report.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadReport(w, r)
	if !ok {
		return
	}
	JSON(w, http.StatusOK, rep)
}

// ExportReport renders one stored report as a document.
func (s *Server) ExportReport(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	rep, ok := s.loadReport(w, r)
	if !ok {
		return
	}
	renderer, err := report.NewRenderer(format)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := renderer.Render(r.Context(), rep, &buf); err != nil {
		s.logger.Error("render failed", "format", format, "error", err)
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName(rep, format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
