package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leetcoach/leetcoach-api/internal/mocks"
	"github.com/leetcoach/leetcoach-api/internal/service/digest"
)

const testCronSecret = "cron-secret-for-tests"

func newCronHandler(t *testing.T) *CronHandler {
	t.Helper()

	agg := digest.NewAggregator(
		&mocks.MockUserStore{},
		&mocks.MockCardStore{},
		&mocks.MockProblemStore{},
		&mocks.MockReviewStore{},
		nil,
	)
	dispatcher := digest.NewDispatcher(
		agg,
		&mocks.MockCardStore{},
		&mocks.MockPushSubscriptionStore{},
		nil,
		nil,
		"https://app.example.com",
		1,
		nil,
	)
	return NewCronHandler(dispatcher, testCronSecret, nil)
}

func TestCronHandlerRejectsMissingKey(t *testing.T) {
	t.Parallel()

	handler := newCronHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/cron/daily", nil)
	rec := httptest.NewRecorder()
	handler.RunDaily(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCronHandlerRejectsWrongKey(t *testing.T) {
	t.Parallel()

	handler := newCronHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/cron/daily", nil)
	req.Header.Set(CronKeyHeader, "wrong-key")
	rec := httptest.NewRecorder()
	handler.RunDaily(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCronHandlerRunsDigest(t *testing.T) {
	t.Parallel()

	handler := newCronHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/cron/daily", nil)
	req.Header.Set(CronKeyHeader, testCronSecret)
	rec := httptest.NewRecorder()
	handler.RunDaily(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DigestRunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Report)
	assert.Equal(t, 0, resp.Report.Candidates)
	assert.Equal(t, 0, resp.Report.Failures)
}
