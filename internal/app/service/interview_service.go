package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"leet_tracker/internal/common"
	"leet_tracker/internal/domain/model"
	"leet_tracker/internal/domain/repository"
	"leet_tracker/internal/platform/logger"
)

type InterviewService struct {
	interviewRepo repository.InterviewRepository
	questionRepo  repository.QuestionRepository
	log           *logger.Logger
	now           func() time.Time
}

func NewInterviewService(interviewRepo repository.InterviewRepository, questionRepo repository.QuestionRepository, log *logger.Logger) *InterviewService {
	return &InterviewService{
		interviewRepo: interviewRepo,
		questionRepo:  questionRepo,
		log:           log,
		now:           systemNow,
	}
}

type CreateInterviewRequest struct {
	Title        string    `json:"title"`
	Date         time.Time `json:"date"`
	Duration     int       `json:"duration"` // minutes
	Participants []string  `json:"participants"`
	QuestionIDs  []string  `json:"questionIds"`
	Notes        *string   `json:"notes,omitempty"`
	MeetingLink  *string   `json:"meetingLink,omitempty"`
}

type UpdateInterviewStatusRequest struct {
	Status model.InterviewStatus `json:"status"`
	Notes  *string               `json:"notes,omitempty"` // replaces the stored notes, nil clears them
}

// CreateInterview schedules a mock interview. Question ids are stored as given;
// ones that do not resolve are dropped when the interview is read.
func (s *InterviewService) CreateInterview(ctx context.Context, req CreateInterviewRequest) (*model.MockInterview, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, common.Validationf("title is required")
	}
	if req.Date.IsZero() {
		return nil, common.Validationf("date is required")
	}
	if req.Duration <= 0 {
		return nil, common.Validationf("duration must be a positive number of minutes, got %d", req.Duration)
	}

	participants := make([]string, 0, len(req.Participants))
	for _, p := range req.Participants {
		if p = strings.TrimSpace(p); p != "" {
			participants = append(participants, p)
		}
	}
	questionIDs := req.QuestionIDs
	if questionIDs == nil {
		questionIDs = []string{}
	}

	iv := &model.MockInterview{
		ID:           uuid.NewString(),
		Title:        title,
		Date:         req.Date.UTC().Truncate(time.Millisecond),
		Duration:     req.Duration,
		Participants: participants,
		QuestionIDs:  questionIDs,
		Notes:        optionalString(req.Notes),
		Status:       model.InterviewScheduled,
		MeetingLink:  optionalString(req.MeetingLink),
		CreatedAt:    s.now(),
	}
	if err := s.interviewRepo.Create(ctx, iv); err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}
	s.log.Info("interview scheduled", "interview_id", iv.ID, "date", iv.Date, "questions", len(iv.QuestionIDs))
	return iv, nil
}

func (s *InterviewService) SetInterviewStatus(ctx context.Context, id string, req UpdateInterviewStatusRequest) (*model.MockInterview, error) {
	if !req.Status.Valid() {
		return nil, common.Validationf("status %q is not one of SCHEDULED, COMPLETED, CANCELLED", req.Status)
	}
	if err := s.interviewRepo.UpdateStatus(ctx, id, req.Status, req.Notes); err != nil {
		return nil, err
	}
	s.log.Info("interview status changed", "interview_id", id, "status", req.Status)
	return s.interviewRepo.FindByID(ctx, id)
}

func (s *InterviewService) DeleteInterview(ctx context.Context, id string) error {
	if err := s.interviewRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("interview deleted", "interview_id", id)
	return nil
}

// ListInterviews returns every interview, earliest first.
func (s *InterviewService) ListInterviews(ctx context.Context) ([]model.InterviewWithQuestions, error) {
	interviews, err := s.interviewRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.attachQuestions(ctx, interviews)
}

// ListInterviewsByDateRange returns interviews dated within [start, end].
func (s *InterviewService) ListInterviewsByDateRange(ctx context.Context, start, end time.Time) ([]model.InterviewWithQuestions, error) {
	interviews, err := s.interviewRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return s.attachQuestions(ctx, interviews)
}

// ListInterviewsForMonth covers the calendar month containing year/month in loc.
func (s *InterviewService) ListInterviewsForMonth(ctx context.Context, year int, month time.Month, loc *time.Location) ([]model.InterviewWithQuestions, error) {
	if month < time.January || month > time.December {
		return nil, common.Validationf("month %d out of range", month)
	}
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return s.ListInterviewsByDateRange(ctx, start, end)
}

// ListUpcomingInterviews returns scheduled interviews dated after now, soonest first.
func (s *InterviewService) ListUpcomingInterviews(ctx context.Context) ([]model.InterviewWithQuestions, error) {
	interviews, err := s.interviewRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	upcoming := interviews[:0]
	for _, iv := range interviews {
		if iv.Status == model.InterviewScheduled && iv.Date.After(now) {
			upcoming = append(upcoming, iv)
		}
	}
	return s.attachQuestions(ctx, upcoming)
}

func (s *InterviewService) attachQuestions(ctx context.Context, interviews []model.MockInterview) ([]model.InterviewWithQuestions, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, iv := range interviews {
		for _, id := range iv.QuestionIDs {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	questions, err := s.questionRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]model.InterviewWithQuestions, 0, len(interviews))
	for _, iv := range interviews {
		resolved := make([]model.Question, 0, len(iv.QuestionIDs))
		for _, id := range iv.QuestionIDs {
			if q, ok := questions[id]; ok {
				resolved = append(resolved, q)
			} else {
				s.log.Debug("dropping unresolved interview question", "interview_id", iv.ID, "question_id", id)
			}
		}
		out = append(out, model.InterviewWithQuestions{MockInterview: iv, Questions: resolved})
	}
	return out, nil
}
