package digest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/store"
)

func renderSummary() *Summary {
	return &Summary{
		UserID:      uuid.New(),
		Email:       "dev@example.com",
		Name:        "Ada",
		Day:         domain.NewDay(2026, time.August, 31),
		DueCount:    4,
		Overdue:     2,
		DueToday:    2,
		DueTomorrow: 1,
		Preview: []PreviewItem{
			{Title: "Two Sum", URL: "https://leetcode.com/problems/two-sum", Difficulty: domain.DifficultyEasy, DueAt: domain.NewDay(2026, time.August, 29)},
			{Title: "Course Schedule", URL: "https://leetcode.com/problems/course-schedule", Difficulty: domain.DifficultyMedium, DueAt: domain.NewDay(2026, time.August, 31)},
		},
		Weekly: &store.ReviewStats{Total: 10, Pass: 7},
	}
}

func TestEmailSubject(t *testing.T) {
	t.Parallel()

	sum := renderSummary()
	assert.Equal(t, "4 problems due for review", EmailSubject(sum))

	sum.DueCount = 1
	assert.Equal(t, "1 problem due for review", EmailSubject(sum))
}

func TestRenderEmail(t *testing.T) {
	t.Parallel()

	html, err := RenderEmail(renderSummary(), "https://app.example.com/")
	require.NoError(t, err)

	assert.Contains(t, html, "Hi Ada")
	assert.Contains(t, html, "4 problems to review today")
	assert.Contains(t, html, "<strong>2</strong>")
	assert.Contains(t, html, "Two Sum")
	assert.Contains(t, html, "https://leetcode.com/problems/two-sum")
	assert.Contains(t, html, "10 reviews, 70% passed.")
	assert.Contains(t, html, `href="https://app.example.com/review"`, "trailing slash in app URL is trimmed")
}

func TestRenderEmailOmitsEmptySections(t *testing.T) {
	t.Parallel()

	sum := renderSummary()
	sum.Name = ""
	sum.Overdue = 0
	sum.DueTomorrow = 0
	sum.Preview = nil
	sum.Weekly = nil

	html, err := RenderEmail(sum, "https://app.example.com")
	require.NoError(t, err)

	assert.Contains(t, html, "Hi there")
	assert.NotContains(t, html, "overdue")
	assert.NotContains(t, html, "Up first")
	assert.NotContains(t, html, "Coming up")
	assert.NotContains(t, html, "Last 7 days", "weekly section is omitted with no history")
}

func TestRenderEmailEscapesContent(t *testing.T) {
	t.Parallel()

	sum := renderSummary()
	sum.Name = "<script>alert(1)</script>"

	html, err := RenderEmail(sum, "https://app.example.com")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
}

func TestRenderPush(t *testing.T) {
	t.Parallel()

	payload, err := RenderPush(renderSummary(), "https://app.example.com/")
	require.NoError(t, err)

	var msg struct {
		Title string `json:"title"`
		Body  string `json:"body"`
		URL   string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(payload, &msg))

	assert.Equal(t, "4 problems due for review", msg.Title)
	assert.Contains(t, msg.Body, "4 problems are waiting")
	assert.Contains(t, msg.Body, "2 overdue")
	assert.Equal(t, "https://app.example.com/review", msg.URL)
}

func TestPassRateRounds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, passRate(0, 0))
	assert.Equal(t, 70, passRate(7, 10))
	assert.Equal(t, 67, passRate(2, 3))
	assert.Equal(t, 33, passRate(1, 3))
}
