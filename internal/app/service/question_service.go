package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"

	"leet_tracker/internal/common"
	"leet_tracker/internal/domain/model"
	"leet_tracker/internal/domain/repository"
	"leet_tracker/internal/platform/logger"
)

type QuestionService struct {
	questionRepo repository.QuestionRepository
	progressRepo repository.ProgressRepository
	log          *logger.Logger
	now          func() time.Time
}

func NewQuestionService(questionRepo repository.QuestionRepository, progressRepo repository.ProgressRepository, log *logger.Logger) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		progressRepo: progressRepo,
		log:          log,
		now:          systemNow,
	}
}

type AddQuestionRequest struct {
	Title       string           `json:"title"`
	Difficulty  model.Difficulty `json:"difficulty"`
	Category    string           `json:"category"`
	Company     *string          `json:"company,omitempty"`
	URL         *string          `json:"url,omitempty"`
	Description *string          `json:"description,omitempty"`
}

func (s *QuestionService) AddQuestion(ctx context.Context, req AddQuestionRequest) (*model.Question, error) {
	title := strings.TrimSpace(req.Title)
	category := strings.TrimSpace(req.Category)
	if title == "" || category == "" {
		return nil, common.Validationf("title and category are required")
	}
	if !req.Difficulty.Valid() {
		return nil, common.Validationf("difficulty %q is not one of Easy, Medium, Hard", req.Difficulty)
	}

	q := &model.Question{
		ID:          uuid.NewString(),
		Title:       title,
		Slug:        slug.Make(title),
		Difficulty:  req.Difficulty,
		Category:    category,
		Company:     optionalString(req.Company),
		URL:         optionalString(req.URL),
		Description: optionalString(req.Description),
		CreatedAt:   s.now(),
	}
	if err := s.questionRepo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	s.log.Info("question added", "question_id", q.ID, "slug", q.Slug, "difficulty", q.Difficulty)
	return q, nil
}

func (s *QuestionService) ListQuestions(ctx context.Context) ([]model.Question, error) {
	return s.questionRepo.ListAll(ctx)
}

// ListQuestionsWithProgress enriches every question for currentUser. A blank
// currentUser views the legacy slot.
func (s *QuestionService) ListQuestionsWithProgress(ctx context.Context, currentUser string) ([]model.EnrichedQuestion, error) {
	var (
		questions []model.Question
		progress  []model.ProgressRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		questions, err = s.questionRepo.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		progress, err = s.progressRepo.ListAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byQuestion := make(map[string][]model.ProgressRecord, len(questions))
	for _, p := range progress {
		byQuestion[p.QuestionID] = append(byQuestion[p.QuestionID], p)
	}

	current := model.OwnerFor(currentUser)
	enriched := make([]model.EnrichedQuestion, 0, len(questions))
	for _, q := range questions {
		enriched = append(enriched, enrichQuestion(q, byQuestion[q.ID], current))
	}
	return enriched, nil
}

// GetQuestion returns common.ErrNotFound when id does not name a question.
func (s *QuestionService) GetQuestion(ctx context.Context, id, currentUser string) (*model.EnrichedQuestion, error) {
	q, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enrichOne(ctx, *q, currentUser)
}

func (s *QuestionService) GetQuestionBySlug(ctx context.Context, questionSlug, currentUser string) (*model.EnrichedQuestion, error) {
	q, err := s.questionRepo.FindBySlug(ctx, questionSlug)
	if err != nil {
		return nil, err
	}
	return s.enrichOne(ctx, *q, currentUser)
}

func (s *QuestionService) enrichOne(ctx context.Context, q model.Question, currentUser string) (*model.EnrichedQuestion, error) {
	records, err := s.progressRepo.ListByQuestion(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	eq := enrichQuestion(q, records, model.OwnerFor(currentUser))
	return &eq, nil
}

// ListCompanies returns each company once, alphabetically.
func (s *QuestionService) ListCompanies(ctx context.Context) ([]string, error) {
	companies, err := s.questionRepo.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(companies)
	return companies, nil
}

// ProgressSummary counts currentUser's questions per status; questions with
// no record count as TODO.
func (s *QuestionService) ProgressSummary(ctx context.Context, currentUser string) (*model.ProgressSummary, error) {
	g, gctx := errgroup.WithContext(ctx)
	var (
		questions []model.Question
		mine      []model.ProgressRecord
	)
	g.Go(func() error {
		var err error
		questions, err = s.questionRepo.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		mine, err = s.progressRepo.ListByOwner(gctx, model.OwnerFor(currentUser))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	status := make(map[string]model.ProgressStatus, len(mine))
	for _, p := range mine {
		if _, seen := status[p.QuestionID]; !seen {
			status[p.QuestionID] = p.Status
		}
	}

	summary := &model.ProgressSummary{Total: len(questions)}
	for _, q := range questions {
		switch status[q.ID] {
		case model.ProgressInProgress:
			summary.InProgress++
		case model.ProgressDone:
			summary.Done++
		default:
			summary.Todo++
		}
	}
	return summary, nil
}
