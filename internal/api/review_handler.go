package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/leetcoach/leetcoach-api/internal/api/middleware"
	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/service/practice"
	"github.com/leetcoach/leetcoach-api/internal/service/review"
	"github.com/leetcoach/leetcoach-api/internal/store"
)

// ReviewHandler handles review submission, review history and the queue views.
type ReviewHandler struct {
	review    *review.Service
	practice  *practice.Service
	reviews   store.ReviewStore
	loc       *time.Location
	validator *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler with the given dependencies.
func NewReviewHandler(
	reviewService *review.Service,
	practiceService *practice.Service,
	reviews store.ReviewStore,
	loc *time.Location,
) *ReviewHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ReviewHandler{
		review:    reviewService,
		practice:  practiceService,
		reviews:   reviews,
		loc:       loc,
		validator: validator.New(),
	}
}

// Submit handles POST /reviews.
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req SubmitReviewRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.review.Submit(r.Context(), userID, review.SubmitRequest{
		CardID:      req.CardID,
		Result:      domain.ReviewResult(req.Result),
		Q:           req.Q,
		DurationSec: req.DurationSec,
		ErrorTypes:  req.ErrorTypes,
		Notes:       req.Notes,
	})
	if err != nil {
		RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, SubmitReviewResponse{
		Review: result.Review,
		Card:   result.Card,
	})
}

// History handles GET /reviews. The optional from and to query parameters
// bound the window by finished_at, in RFC 3339.
func (h *ReviewHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var from, to *time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			RespondWithError(w, r, http.StatusBadRequest, "Invalid from timestamp")
			return
		}
		from = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			RespondWithError(w, r, http.StatusBadRequest, "Invalid to timestamp")
			return
		}
		to = &t
	}

	reviews, err := h.reviews.ListByUser(r.Context(), userID, from, to)
	if err != nil {
		RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, reviews)
}

// Queue handles GET /review-queue. The optional limit query parameter caps
// the number of returned items.
func (h *ReviewHandler) Queue(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	items, err := h.practice.DueQueue(r.Context(), userID, limit)
	if err != nil {
		RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, QueueResponse{
		Day:   domain.Today(h.loc),
		Items: items,
	})
}

// Week handles GET /review-week.
func (h *ReviewHandler) Week(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	days, err := h.practice.WeekView(r.Context(), userID)
	if err != nil {
		RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, WeekResponse{Days: days})
}
