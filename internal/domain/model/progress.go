package model

import (
	"strings"
	"time"
)

type ProgressStatus string

const (
	ProgressTodo       ProgressStatus = "TODO"
	ProgressInProgress ProgressStatus = "IN_PROGRESS"
	ProgressDone       ProgressStatus = "DONE"
)

func (s ProgressStatus) Valid() bool {
	switch s {
	case ProgressTodo, ProgressInProgress, ProgressDone:
		return true
	}
	return false
}

// LegacyUsername is how the legacy slot is presented to readers.
const LegacyUsername = "legacy_user"

// Owner identifies whose progress a record tracks. The zero value is the
// shared legacy slot that predates per-user tracking; it is stored with no
// username.
type Owner struct {
	username string
}

var LegacyOwner = Owner{}

// OwnerFor maps a username to its owner. Blank names resolve to the legacy slot.
func OwnerFor(username string) Owner {
	return Owner{username: strings.TrimSpace(username)}
}

func OwnerFromPtr(username *string) Owner {
	if username == nil {
		return LegacyOwner
	}
	return OwnerFor(*username)
}

func (o Owner) IsLegacy() bool {
	return o.username == ""
}

// Username returns the stored form: nil for the legacy slot.
func (o Owner) Username() *string {
	if o.IsLegacy() {
		return nil
	}
	name := o.username
	return &name
}

func (o Owner) DisplayName() string {
	if o.IsLegacy() {
		return LegacyUsername
	}
	return o.username
}

// ProgressRecord is one user's state for one question. At most one exists per
// (owner, question) pair as long as writers go through the upsert path.
type ProgressRecord struct {
	ID              string         `json:"id"`
	QuestionID      string         `json:"questionId"`
	Username        *string        `json:"username,omitempty"`
	Status          ProgressStatus `json:"status"`
	Notes           *string        `json:"notes,omitempty"`
	TimeComplexity  *string        `json:"timeComplexity,omitempty"`
	SpaceComplexity *string        `json:"spaceComplexity,omitempty"`
	ComplexityNotes *string        `json:"complexityNotes,omitempty"`
	Explanation     *string        `json:"explanation,omitempty"`
	Topics          []string       `json:"topics,omitempty"`
	StartedAt       *time.Time     `json:"startedAt,omitempty"`
	CompletedAt     *time.Time     `json:"completedAt,omitempty"`
}

func (p *ProgressRecord) Owner() Owner {
	return OwnerFromPtr(p.Username)
}

// Annotations are the caller-supplied fields an upsert writes wholesale.
type Annotations struct {
	Notes           *string  `json:"notes,omitempty"`
	TimeComplexity  *string  `json:"timeComplexity,omitempty"`
	SpaceComplexity *string  `json:"spaceComplexity,omitempty"`
	ComplexityNotes *string  `json:"complexityNotes,omitempty"`
	Explanation     *string  `json:"explanation,omitempty"`
	Topics          []string `json:"topics,omitempty"`
}

// Apply overwrites every annotation field, clearing the ones a is missing.
func (a Annotations) Apply(p *ProgressRecord) {
	p.Notes = a.Notes
	p.TimeComplexity = a.TimeComplexity
	p.SpaceComplexity = a.SpaceComplexity
	p.ComplexityNotes = a.ComplexityNotes
	p.Explanation = a.Explanation
	p.Topics = a.Topics
}
