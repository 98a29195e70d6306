package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"leet_tracker/internal/common"
	"leet_tracker/internal/domain/model"
	"leet_tracker/internal/domain/repository"
	"leet_tracker/internal/platform/logger"
)

type ProgressService struct {
	progressRepo repository.ProgressRepository
	questionRepo repository.QuestionRepository
	log          *logger.Logger
	now          func() time.Time
}

func NewProgressService(progressRepo repository.ProgressRepository, questionRepo repository.QuestionRepository, log *logger.Logger) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		questionRepo: questionRepo,
		log:          log,
		now:          systemNow,
	}
}

// UpsertProgressRequest is a full write of one user's state for a question.
// Annotation fields left out are cleared on the stored record.
type UpsertProgressRequest struct {
	QuestionID string               `json:"questionId"`
	Username   string               `json:"username"` // blank writes the legacy slot
	Status     model.ProgressStatus `json:"status"`
	model.Annotations
}

type MigrationResult struct {
	Message        string `json:"message"`
	TotalRecords   int    `json:"totalRecords"`
	UpdatedRecords int    `json:"updatedRecords"`
}

func (s *ProgressService) ListProgress(ctx context.Context) ([]model.ProgressRecord, error) {
	return s.progressRepo.ListAll(ctx)
}

// UpsertProgress creates the (user, question) record on first write and
// patches it in place afterwards. It returns the record id.
func (s *ProgressService) UpsertProgress(ctx context.Context, req UpsertProgressRequest) (string, error) {
	if strings.TrimSpace(req.QuestionID) == "" {
		return "", common.Validationf("questionId is required")
	}
	if !req.Status.Valid() {
		return "", common.Validationf("status %q is not one of TODO, IN_PROGRESS, DONE", req.Status)
	}
	if _, err := s.questionRepo.FindByID(ctx, req.QuestionID); err != nil {
		return "", err
	}

	owner := model.OwnerFor(req.Username)
	now := s.now()

	existing, err := s.progressRepo.FindByOwner(ctx, owner, req.QuestionID)
	switch {
	case err == nil:
		previous := existing.Status
		existing.Status = req.Status
		req.Annotations.Apply(existing)
		existing.StartedAt = nextStartedAt(existing.StartedAt, req.Status, now)
		existing.CompletedAt = nextCompletedAt(previous, existing.CompletedAt, req.Status, now)

		if err := s.progressRepo.Update(ctx, existing); err != nil {
			return "", fmt.Errorf("failed to update progress: %w", err)
		}
		s.log.Info("progress updated",
			"progress_id", existing.ID, "question_id", req.QuestionID,
			"user", owner.DisplayName(), "from", previous, "to", req.Status)
		return existing.ID, nil

	case errors.Is(err, common.ErrNotFound):
		record := &model.ProgressRecord{
			ID:         uuid.NewString(),
			QuestionID: req.QuestionID,
			Username:   owner.Username(),
			Status:     req.Status,
		}
		req.Annotations.Apply(record)
		record.StartedAt = nextStartedAt(nil, req.Status, now)
		record.CompletedAt = nextCompletedAt("", nil, req.Status, now)

		if err := s.progressRepo.Create(ctx, record); err != nil {
			return "", fmt.Errorf("failed to create progress: %w", err)
		}
		s.log.Info("progress created",
			"progress_id", record.ID, "question_id", req.QuestionID,
			"user", owner.DisplayName(), "status", req.Status)
		return record.ID, nil

	default:
		return "", fmt.Errorf("failed to look up progress: %w", err)
	}
}

// nextStartedAt is set once, on the first move to IN_PROGRESS.
func nextStartedAt(current *time.Time, status model.ProgressStatus, now time.Time) *time.Time {
	if current != nil {
		return current
	}
	if status == model.ProgressInProgress {
		return &now
	}
	return nil
}

// nextCompletedAt tracks the current status: set while DONE, cleared otherwise.
// Staying DONE keeps the first completion time.
func nextCompletedAt(previous model.ProgressStatus, current *time.Time, status model.ProgressStatus, now time.Time) *time.Time {
	if status != model.ProgressDone {
		return nil
	}
	if previous == model.ProgressDone && current != nil {
		return current
	}
	return &now
}

// MigrateLegacyUsernames hands every username-less record to defaultUsername.
// Re-running only touches records still lacking a username.
func (s *ProgressService) MigrateLegacyUsernames(ctx context.Context, defaultUsername string) (*MigrationResult, error) {
	defaultUsername = strings.TrimSpace(defaultUsername)
	if defaultUsername == "" {
		return nil, common.Validationf("defaultUsername is required")
	}

	total, err := s.progressRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := s.progressRepo.AssignLegacyOwner(ctx, defaultUsername)
	if err != nil {
		return nil, err
	}

	s.log.Info("legacy progress migrated", "username", defaultUsername, "total", total, "updated", updated)
	return &MigrationResult{
		Message:        fmt.Sprintf("Migration completed. Updated %d records with username: %s", updated, defaultUsername),
		TotalRecords:   total,
		UpdatedRecords: updated,
	}, nil
}
