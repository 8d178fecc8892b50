package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty classifies a practice problem.
type Difficulty string

// Possible difficulty values.
const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// IsValid reports whether the difficulty is one of the known values.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// Problem-specific validation errors.
var (
	// ErrProblemIDEmpty is returned when a problem ID is empty or nil.
	ErrProblemIDEmpty = errors.New("problem ID cannot be empty")

	// ErrProblemUserIDEmpty is returned when a problem's user ID is empty or nil.
	ErrProblemUserIDEmpty = errors.New("problem user ID cannot be empty")

	// ErrProblemTitleEmpty is returned when a problem's title is empty.
	ErrProblemTitleEmpty = errors.New("problem title cannot be empty")

	// ErrProblemURLEmpty is returned when a problem's URL is empty.
	ErrProblemURLEmpty = errors.New("problem URL cannot be empty")
)

var leetcodeSlugPattern = regexp.MustCompile(`leetcode\.com/problems/([a-z0-9-]+)`)

// Problem is a practice item owned by a single user. Each problem has at
// most one Card per owner, created alongside it.
type Problem struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Source     string     `json:"source"`
	Slug       string     `json:"slug"`
	URL        string     `json:"url"`
	Title      string     `json:"title"`
	Difficulty Difficulty `json:"difficulty"`
	Tags       []string   `json:"tags"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewProblem creates a Problem for the given user. The slug is derived from
// the LeetCode URL when possible, otherwise from the title.
// Returns an error if validation fails.
func NewProblem(userID uuid.UUID, url, title string, difficulty Difficulty, tags []string) (*Problem, error) {
	now := time.Now().UTC()
	if tags == nil {
		tags = []string{}
	}

	problem := &Problem{
		ID:         uuid.New(),
		UserID:     userID,
		Source:     "LeetCode",
		Slug:       SlugForProblem(url, title),
		URL:        url,
		Title:      title,
		Difficulty: difficulty,
		Tags:       tags,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := problem.Validate(); err != nil {
		return nil, err
	}

	return problem, nil
}

// SlugForProblem extracts the problem slug from a LeetCode URL, falling back
// to a slugified title when the URL doesn't match.
func SlugForProblem(url, title string) string {
	if m := leetcodeSlugPattern.FindStringSubmatch(strings.ToLower(url)); m != nil {
		return m[1]
	}
	return strings.Join(strings.Fields(strings.ToLower(title)), "-")
}

// Validate checks if the Problem has valid data.
// Returns an error if any field fails validation.
func (p *Problem) Validate() error {
	if p.ID == uuid.Nil {
		return ErrProblemIDEmpty
	}

	if p.UserID == uuid.Nil {
		return ErrProblemUserIDEmpty
	}

	if strings.TrimSpace(p.Title) == "" {
		return ErrProblemTitleEmpty
	}

	if strings.TrimSpace(p.URL) == "" {
		return ErrProblemURLEmpty
	}

	if !p.Difficulty.IsValid() {
		return ErrInvalidDifficulty
	}

	return nil
}

// HasTag reports whether the problem carries the given tag.
func (p *Problem) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
