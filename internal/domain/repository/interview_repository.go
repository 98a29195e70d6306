package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"leet_tracker/internal/common"
	"leet_tracker/internal/domain/model"
)

type InterviewRepository interface {
	Create(ctx context.Context, iv *model.MockInterview) error
	FindByID(ctx context.Context, id string) (*model.MockInterview, error)
	UpdateStatus(ctx context.Context, id string, status model.InterviewStatus, notes *string) error
	Delete(ctx context.Context, id string) error
	// ListAll and ListByDateRange return interviews ordered by date.
	ListAll(ctx context.Context) ([]model.MockInterview, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]model.MockInterview, error)
}

type sqlInterviewRepository struct {
	db *sql.DB
}

func NewInterviewRepository(db *sql.DB) InterviewRepository {
	return &sqlInterviewRepository{db: db}
}

const interviewColumns = `id, title, scheduled_at, duration, participants, question_ids, notes, status, meeting_link, created_at`

func scanInterview(row rowScanner) (*model.MockInterview, error) {
	iv := &model.MockInterview{}
	var scheduledAt, createdAt int64
	var participants, questionIDs sql.NullString
	if err := row.Scan(&iv.ID, &iv.Title, &scheduledAt, &iv.Duration, &participants, &questionIDs,
		&iv.Notes, &iv.Status, &iv.MeetingLink, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if iv.Participants, err = parseJSONStrings(participants); err != nil {
		return nil, err
	}
	if iv.QuestionIDs, err = parseJSONStrings(questionIDs); err != nil {
		return nil, err
	}
	if iv.Participants == nil {
		iv.Participants = []string{}
	}
	if iv.QuestionIDs == nil {
		iv.QuestionIDs = []string{}
	}
	iv.Date = fromMillis(scheduledAt)
	iv.CreatedAt = fromMillis(createdAt)
	return iv, nil
}

func (r *sqlInterviewRepository) Create(ctx context.Context, iv *model.MockInterview) error {
	participants, err := jsonStrings(iv.Participants)
	if err != nil {
		return fmt.Errorf("sqlInterviewRepository.Create participants: %w", err)
	}
	questionIDs, err := jsonStrings(iv.QuestionIDs)
	if err != nil {
		return fmt.Errorf("sqlInterviewRepository.Create question ids: %w", err)
	}

	query := `INSERT INTO mock_interviews (` + interviewColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.db.ExecContext(ctx, query, iv.ID, iv.Title, millis(iv.Date), iv.Duration, participants,
		questionIDs, iv.Notes, string(iv.Status), iv.MeetingLink, millis(iv.CreatedAt))
	if err != nil {
		return fmt.Errorf("sqlInterviewRepository.Create: %w", err)
	}
	return nil
}

func (r *sqlInterviewRepository) FindByID(ctx context.Context, id string) (*model.MockInterview, error) {
	query := `SELECT ` + interviewColumns + ` FROM mock_interviews WHERE id = $1`
	iv, err := scanInterview(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("interview %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("sqlInterviewRepository.FindByID: %w", err)
	}
	return iv, nil
}

func (r *sqlInterviewRepository) UpdateStatus(ctx context.Context, id string, status model.InterviewStatus, notes *string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE mock_interviews SET status = $1, notes = $2 WHERE id = $3`,
		string(status), notes, id)
	if err != nil {
		return fmt.Errorf("sqlInterviewRepository.UpdateStatus: %w", err)
	}
	return requireAffected(res, "interview", id)
}

func (r *sqlInterviewRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM mock_interviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("sqlInterviewRepository.Delete: %w", err)
	}
	return requireAffected(res, "interview", id)
}

func (r *sqlInterviewRepository) ListAll(ctx context.Context) ([]model.MockInterview, error) {
	query := `SELECT ` + interviewColumns + ` FROM mock_interviews ORDER BY scheduled_at ASC, id ASC`
	return r.list(ctx, "ListAll", query)
}

// ListByDateRange includes both ends of [start, end].
func (r *sqlInterviewRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]model.MockInterview, error) {
	query := `SELECT ` + interviewColumns + ` FROM mock_interviews
	          WHERE scheduled_at >= $1 AND scheduled_at <= $2
	          ORDER BY scheduled_at ASC, id ASC`
	return r.list(ctx, "ListByDateRange", query, millis(start), millis(end))
}

func (r *sqlInterviewRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]model.MockInterview, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlInterviewRepository.%s query: %w", op, err)
	}
	defer rows.Close()

	interviews := []model.MockInterview{}
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlInterviewRepository.%s scan: %w", op, err)
		}
		interviews = append(interviews, *iv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlInterviewRepository.%s rows.Err: %w", op, err)
	}
	return interviews, nil
}

func requireAffected(res sql.Result, kind, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s rows affected: %w", kind, id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, common.ErrNotFound)
	}
	return nil
}
