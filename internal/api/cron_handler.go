package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/service/digest"
)

// CronKeyHeader carries the shared secret authenticating scheduled triggers.
const CronKeyHeader = "X-Cron-Key"

// CronHandler exposes the daily digest trigger to the scheduler.
type CronHandler struct {
	dispatcher *digest.Dispatcher
	secret     string
	loc        *time.Location
}

// NewCronHandler creates a new CronHandler with the given dependencies.
func NewCronHandler(dispatcher *digest.Dispatcher, secret string, loc *time.Location) *CronHandler {
	if secret == "" {
		panic("cron secret cannot be empty")
	}
	if loc == nil {
		loc = time.Local
	}
	return &CronHandler{
		dispatcher: dispatcher,
		secret:     secret,
		loc:        loc,
	}
}

// RunDaily handles POST /cron/daily. The dispatch is synchronous: the
// response carries the full run report.
func (h *CronHandler) RunDaily(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get(CronKeyHeader)
	if subtle.ConstantTimeCompare([]byte(key), []byte(h.secret)) != 1 {
		RespondWithError(w, r, http.StatusUnauthorized, "Invalid cron key")
		return
	}

	report, err := h.dispatcher.Run(r.Context(), domain.Today(h.loc))
	if err != nil {
		RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Digest run failed", err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, DigestRunResponse{Report: report})
}
