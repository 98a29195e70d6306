package model

import "time"

type InterviewStatus string

const (
	InterviewScheduled InterviewStatus = "SCHEDULED"
	InterviewCompleted InterviewStatus = "COMPLETED"
	InterviewCancelled InterviewStatus = "CANCELLED"
)

func (s InterviewStatus) Valid() bool {
	switch s {
	case InterviewScheduled, InterviewCompleted, InterviewCancelled:
		return true
	}
	return false
}

type MockInterview struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Date         time.Time       `json:"date"`
	Duration     int             `json:"duration"` // minutes
	Participants []string        `json:"participants"`
	QuestionIDs  []string        `json:"questionIds"`
	Notes        *string         `json:"notes,omitempty"`
	Status       InterviewStatus `json:"status"`
	MeetingLink  *string         `json:"meetingLink,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// InterviewWithQuestions carries the questions an interview still resolves to,
// in questionIds order.
type InterviewWithQuestions struct {
	MockInterview
	Questions []Question `json:"questions"`
}
