package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/leetcoach/leetcoach-api/internal/api/middleware"
	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/service/practice"
)

// ProblemHandler handles problem collection endpoints.
type ProblemHandler struct {
	practice  *practice.Service
	validator *validator.Validate
}

// NewProblemHandler creates a new ProblemHandler with the given dependencies.
func NewProblemHandler(practiceService *practice.Service) *ProblemHandler {
	return &ProblemHandler{
		practice:  practiceService,
		validator: validator.New(),
	}
}

// Create handles POST /problems. Adding a problem the user already tracks
// refreshes its fields and keeps the existing card's scheduling history.
func (h *ProblemHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateProblemRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	problem, card, err := h.practice.AddProblem(r.Context(), userID, practice.AddProblemRequest{
		Title:      req.Title,
		URL:        req.URL,
		Difficulty: domain.Difficulty(req.Difficulty),
		Tags:       req.Tags,
	})
	if err != nil {
		RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, ProblemResponse{Problem: problem, Card: card})
}

// List handles GET /problems.
func (h *ProblemHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	items, err := h.practice.ListProblems(r.Context(), userID)
	if err != nil {
		RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, items)
}

// Delete handles DELETE /problems/{id}.
func (h *ProblemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	problemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid problem ID")
		return
	}

	if err := h.practice.DeleteProblem(r.Context(), userID, problemID); err != nil {
		if errors.Is(err, practice.ErrProblemNotFound) {
			RespondWithError(w, r, http.StatusNotFound, "Problem not found")
			return
		}
		RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
