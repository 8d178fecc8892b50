package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/leetcoach/leetcoach-api/internal/api/middleware"
	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/store"
)

// PushHandler handles web push subscription registration.
type PushHandler struct {
	subs      store.PushSubscriptionStore
	validator *validator.Validate
}

// NewPushHandler creates a new PushHandler with the given dependencies.
func NewPushHandler(subs store.PushSubscriptionStore) *PushHandler {
	return &PushHandler{
		subs:      subs,
		validator: validator.New(),
	}
}

// Subscribe handles POST /push/subscribe. Re-registering an endpoint the
// user already has is accepted silently.
func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req PushSubscribeRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	sub, err := domain.NewPushSubscription(userID, req.Endpoint, req.Keys.P256dh, req.Keys.Auth)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}

	if err := h.subs.Create(r.Context(), sub); err != nil {
		RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, sub)
}
