package model

import "time"

// EnrichedQuestion is a question merged with one user's progress plus the
// cross-user completion summary.
type EnrichedQuestion struct {
	Question

	Status          ProgressStatus `json:"status"`
	Notes           string         `json:"notes"`
	TimeComplexity  string         `json:"timeComplexity"`
	SpaceComplexity string         `json:"spaceComplexity"`
	ComplexityNotes string         `json:"complexityNotes"`
	Explanation     string         `json:"explanation"`
	Topics          []string       `json:"topics"`
	StartedAt       *time.Time     `json:"startedAt,omitempty"`
	CompletedAt     *time.Time     `json:"completedAt,omitempty"`

	CompletedByUsers []Completion          `json:"completedByUsers"`
	TotalCompletions int                   `json:"totalCompletions"`
	AllUsersProgress []UserProgressSummary `json:"allUsersProgress"`
}

type Completion struct {
	Username        string     `json:"username"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	TimeComplexity  *string    `json:"timeComplexity,omitempty"`
	SpaceComplexity *string    `json:"spaceComplexity,omitempty"`
	ComplexityNotes *string    `json:"complexityNotes,omitempty"`
	Explanation     *string    `json:"explanation,omitempty"`
}

type UserProgressSummary struct {
	Username        string         `json:"username"`
	Status          ProgressStatus `json:"status"`
	Notes           *string        `json:"notes,omitempty"`
	StartedAt       *time.Time     `json:"startedAt,omitempty"`
	CompletedAt     *time.Time     `json:"completedAt,omitempty"`
	TimeComplexity  *string        `json:"timeComplexity,omitempty"`
	SpaceComplexity *string        `json:"spaceComplexity,omitempty"`
	Explanation     *string        `json:"explanation,omitempty"`
}

// ProgressSummary counts one user's questions per status.
type ProgressSummary struct {
	Todo       int `json:"todo"`
	InProgress int `json:"inProgress"`
	Done       int `json:"done"`
	Total      int `json:"total"`
}
