package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"leet_tracker/internal/common"
	"leet_tracker/internal/domain/model"
)

type ProgressRepository interface {
	Create(ctx context.Context, p *model.ProgressRecord) error
	// Update replaces every mutable column of an existing record.
	Update(ctx context.Context, p *model.ProgressRecord) error
	FindByID(ctx context.Context, id string) (*model.ProgressRecord, error)
	// FindByOwner looks a record up by its (owner, question) identity. The
	// legacy owner matches records stored without a username.
	FindByOwner(ctx context.Context, owner model.Owner, questionID string) (*model.ProgressRecord, error)
	ListByQuestion(ctx context.Context, questionID string) ([]model.ProgressRecord, error)
	ListByOwner(ctx context.Context, owner model.Owner) ([]model.ProgressRecord, error)
	ListAll(ctx context.Context) ([]model.ProgressRecord, error)
	// AssignLegacyOwner gives every username-less record the username and
	// reports how many records it touched.
	AssignLegacyOwner(ctx context.Context, username string) (int, error)
	Count(ctx context.Context) (int, error)
}

type sqlProgressRepository struct {
	db *sql.DB
}

func NewProgressRepository(db *sql.DB) ProgressRepository {
	return &sqlProgressRepository{db: db}
}

const progressColumns = `id, question_id, username, status, notes, time_complexity, space_complexity,
	complexity_notes, explanation, topics, started_at, completed_at`

func scanProgress(row rowScanner) (*model.ProgressRecord, error) {
	p := &model.ProgressRecord{}
	var topics sql.NullString
	var startedAt, completedAt sql.NullInt64
	if err := row.Scan(&p.ID, &p.QuestionID, &p.Username, &p.Status, &p.Notes,
		&p.TimeComplexity, &p.SpaceComplexity, &p.ComplexityNotes, &p.Explanation,
		&topics, &startedAt, &completedAt); err != nil {
		return nil, err
	}
	var err error
	if p.Topics, err = parseJSONStrings(topics); err != nil {
		return nil, err
	}
	p.StartedAt = fromNullMillis(startedAt)
	p.CompletedAt = fromNullMillis(completedAt)
	return p, nil
}

func (r *sqlProgressRepository) Create(ctx context.Context, p *model.ProgressRecord) error {
	topics, err := nullJSONStrings(p.Topics)
	if err != nil {
		return fmt.Errorf("sqlProgressRepository.Create topics: %w", err)
	}
	query := `INSERT INTO user_progress (` + progressColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.db.ExecContext(ctx, query, p.ID, p.QuestionID, p.Username, string(p.Status), p.Notes,
		p.TimeComplexity, p.SpaceComplexity, p.ComplexityNotes, p.Explanation,
		topics, nullMillis(p.StartedAt), nullMillis(p.CompletedAt))
	if err != nil {
		return fmt.Errorf("sqlProgressRepository.Create: %w", err)
	}
	return nil
}

func (r *sqlProgressRepository) Update(ctx context.Context, p *model.ProgressRecord) error {
	topics, err := nullJSONStrings(p.Topics)
	if err != nil {
		return fmt.Errorf("sqlProgressRepository.Update topics: %w", err)
	}
	query := `UPDATE user_progress SET
	            username = $1, status = $2, notes = $3, time_complexity = $4, space_complexity = $5,
	            complexity_notes = $6, explanation = $7, topics = $8, started_at = $9, completed_at = $10
	          WHERE id = $11`
	res, err := r.db.ExecContext(ctx, query, p.Username, string(p.Status), p.Notes, p.TimeComplexity,
		p.SpaceComplexity, p.ComplexityNotes, p.Explanation, topics,
		nullMillis(p.StartedAt), nullMillis(p.CompletedAt), p.ID)
	if err != nil {
		return fmt.Errorf("sqlProgressRepository.Update: %w", err)
	}
	return requireAffected(res, "progress record", p.ID)
}

func (r *sqlProgressRepository) FindByID(ctx context.Context, id string) (*model.ProgressRecord, error) {
	query := `SELECT ` + progressColumns + ` FROM user_progress WHERE id = $1`
	p, err := scanProgress(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("progress record %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("sqlProgressRepository.FindByID: %w", err)
	}
	return p, nil
}

func (r *sqlProgressRepository) FindByOwner(ctx context.Context, owner model.Owner, questionID string) (*model.ProgressRecord, error) {
	var row *sql.Row
	if owner.IsLegacy() {
		query := `SELECT ` + progressColumns + ` FROM user_progress
		          WHERE question_id = $1 AND username IS NULL ORDER BY id LIMIT 1`
		row = r.db.QueryRowContext(ctx, query, questionID)
	} else {
		query := `SELECT ` + progressColumns + ` FROM user_progress
		          WHERE username = $1 AND question_id = $2 ORDER BY id LIMIT 1`
		row = r.db.QueryRowContext(ctx, query, *owner.Username(), questionID)
	}

	p, err := scanProgress(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("progress for %s on %s: %w", owner.DisplayName(), questionID, common.ErrNotFound)
		}
		return nil, fmt.Errorf("sqlProgressRepository.FindByOwner: %w", err)
	}
	return p, nil
}

func (r *sqlProgressRepository) ListByQuestion(ctx context.Context, questionID string) ([]model.ProgressRecord, error) {
	query := `SELECT ` + progressColumns + ` FROM user_progress WHERE question_id = $1 ORDER BY id`
	return r.list(ctx, "ListByQuestion", query, questionID)
}

func (r *sqlProgressRepository) ListByOwner(ctx context.Context, owner model.Owner) ([]model.ProgressRecord, error) {
	if owner.IsLegacy() {
		query := `SELECT ` + progressColumns + ` FROM user_progress WHERE username IS NULL ORDER BY id`
		return r.list(ctx, "ListByOwner", query)
	}
	query := `SELECT ` + progressColumns + ` FROM user_progress WHERE username = $1 ORDER BY id`
	return r.list(ctx, "ListByOwner", query, *owner.Username())
}

func (r *sqlProgressRepository) ListAll(ctx context.Context) ([]model.ProgressRecord, error) {
	query := `SELECT ` + progressColumns + ` FROM user_progress ORDER BY id`
	return r.list(ctx, "ListAll", query)
}

func (r *sqlProgressRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]model.ProgressRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlProgressRepository.%s query: %w", op, err)
	}
	defer rows.Close()

	records := []model.ProgressRecord{}
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlProgressRepository.%s scan: %w", op, err)
		}
		records = append(records, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlProgressRepository.%s rows.Err: %w", op, err)
	}
	return records, nil
}

func (r *sqlProgressRepository) AssignLegacyOwner(ctx context.Context, username string) (int, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE user_progress SET username = $1 WHERE username IS NULL`, username)
	if err != nil {
		return 0, fmt.Errorf("sqlProgressRepository.AssignLegacyOwner: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlProgressRepository.AssignLegacyOwner rows affected: %w", err)
	}
	return int(affected), nil
}

func (r *sqlProgressRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_progress`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlProgressRepository.Count: %w", err)
	}
	return n, nil
}
