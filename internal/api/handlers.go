package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"careerdash/internal/dashboard"
	"careerdash/internal/output"
)

// AddTaskRequest is the body of POST /api/tasks.
type AddTaskRequest struct {
	Text string `json:"text" validate:"required"`

	// Category is a label or alias. Empty selects the first category.
	Category string `json:"category" validate:"omitempty,max=64"`
}

// MutationResponse is returned by every task intent.
type MutationResponse struct {
	TaskID    string      `json:"task_id"`
	Dashboard output.View `json:"dashboard"`
}

// CategoryResponse describes one category.
type CategoryResponse struct {
	Letter string `json:"letter"`
	Name   string `json:"name"`
	Alias  string `json:"alias"`
}

// GetDashboard handles GET /api/dashboard.
func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, output.NewView(s.eng.Snapshot()))
}

// GetCategories handles GET /api/categories.
func (s *Server) GetCategories(w http.ResponseWriter, r *http.Request) {
	cats := dashboard.Categories()
	resp := make([]CategoryResponse, 0, len(cats))
	for _, cat := range cats {
		resp = append(resp, CategoryResponse{
			Letter: string(cat.Letter()),
			Name:   string(cat),
			Alias:  cat.Alias(),
		})
	}
	RespondWithJSON(w, http.StatusOK, resp)
}

// Reload handles POST /api/reload.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	if err := s.eng.Load(r.Context()); err != nil {
		s.respondWithEngineError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, output.NewView(s.eng.Snapshot()))
}

// AddTask handles POST /api/tasks.
func (s *Server) AddTask(w http.ResponseWriter, r *http.Request) {
	var req AddTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	category := dashboard.CategoryPreparation
	if req.Category != "" {
		cat, err := dashboard.ParseCategory(req.Category)
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		category = cat
	}

	op, err := s.eng.AddTask(req.Text, category)
	s.respondToIntent(w, r, op, err)
}

// ToggleTask handles POST /api/tasks/{id}/toggle.
func (s *Server) ToggleTask(w http.ResponseWriter, r *http.Request) {
	op, err := s.eng.ToggleTask(chi.URLParam(r, "id"))
	s.respondToIntent(w, r, op, err)
}

// RetryTask handles POST /api/tasks/{id}/retry.
func (s *Server) RetryTask(w http.ResponseWriter, r *http.Request) {
	op, err := s.eng.Retry(chi.URLParam(r, "id"))
	s.respondToIntent(w, r, op, err)
}

// DeleteTask handles DELETE /api/tasks/{id}.
func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	op, err := s.eng.DeleteTask(chi.URLParam(r, "id"))
	s.respondToIntent(w, r, op, err)
}

// respondToIntent answers 202 with the optimistic dashboard, or, with
// ?wait=true, waits for the remote result first.
func (s *Server) respondToIntent(w http.ResponseWriter, r *http.Request, op *dashboard.Op, err error) {
	if err != nil {
		s.respondWithEngineError(w, r, err)
		return
	}

	status := http.StatusAccepted
	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		if err := op.Wait(r.Context()); err != nil {
			s.respondWithEngineError(w, r, err)
			return
		}
		status = http.StatusOK
	}

	RespondWithJSON(w, status, MutationResponse{
		TaskID:    op.TaskID,
		Dashboard: output.NewView(s.eng.Snapshot()),
	})
}

func (s *Server) respondWithEngineError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	if status >= http.StatusInternalServerError {
		s.logger.Warn("request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	RespondWithError(w, status, err.Error())
}
