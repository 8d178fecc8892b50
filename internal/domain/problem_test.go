package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugForProblem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		url   string
		title string
		want  string
	}{
		{
			name:  "leetcode url",
			url:   "https://leetcode.com/problems/two-sum/",
			title: "Two Sum",
			want:  "two-sum",
		},
		{
			name:  "leetcode url with description suffix",
			url:   "https://leetcode.com/problems/merge-k-sorted-lists/description/",
			title: "Merge k Sorted Lists",
			want:  "merge-k-sorted-lists",
		},
		{
			name:  "uppercase url is normalized",
			url:   "https://LeetCode.com/problems/Two-Sum",
			title: "Two Sum",
			want:  "two-sum",
		},
		{
			name:  "non leetcode url falls back to title",
			url:   "https://example.com/puzzles/17",
			title: "Course  Schedule II",
			want:  "course-schedule-ii",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SlugForProblem(tt.url, tt.title))
		})
	}
}

func TestNewProblem(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	problem, err := NewProblem(userID, "https://leetcode.com/problems/two-sum", "Two Sum", DifficultyEasy, nil)
	require.NoError(t, err)
	assert.Equal(t, "two-sum", problem.Slug)
	assert.Equal(t, userID, problem.UserID)
	assert.NotNil(t, problem.Tags, "nil tags become an empty slice")

	_, err = NewProblem(userID, "", "Two Sum", DifficultyEasy, nil)
	assert.ErrorIs(t, err, ErrProblemURLEmpty)

	_, err = NewProblem(userID, "https://leetcode.com/problems/two-sum", "Two Sum", "Impossible", nil)
	assert.ErrorIs(t, err, ErrInvalidDifficulty)
}

func TestProblemHasTag(t *testing.T) {
	t.Parallel()

	problem := &Problem{Tags: []string{"Array", "Graph"}}
	assert.True(t, problem.HasTag("Graph"))
	assert.False(t, problem.HasTag("graph"), "tag match is case sensitive")
	assert.False(t, problem.HasTag("DP"))
}
