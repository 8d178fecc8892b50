package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/leetcoach/leetcoach-api/internal/api/middleware"
	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/service/practice"
)

// CardHandler handles manual card adjustments.
type CardHandler struct {
	practice  *practice.Service
	validator *validator.Validate
}

// NewCardHandler creates a new CardHandler with the given dependencies.
func NewCardHandler(practiceService *practice.Service) *CardHandler {
	return &CardHandler{
		practice:  practiceService,
		validator: validator.New(),
	}
}

// Reschedule handles PATCH /cards/{id}. It moves the card's due date without
// touching its scheduling state, so the next review advances from the same
// ease factor and interval as before.
func (h *CardHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	cardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return
	}

	var req RescheduleCardRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	dueAt, err := domain.ParseDay(req.DueAt)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid due date, expected YYYY-MM-DD")
		return
	}

	if err := h.practice.RescheduleCard(r.Context(), userID, cardID, dueAt); err != nil {
		RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
