package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"leet_tracker/internal/common"
	"leet_tracker/internal/domain/model"
)

type QuestionRepository interface {
	Create(ctx context.Context, q *model.Question) error
	FindByID(ctx context.Context, id string) (*model.Question, error)
	FindBySlug(ctx context.Context, slug string) (*model.Question, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]model.Question, error)
	ListAll(ctx context.Context) ([]model.Question, error)
	ListCompanies(ctx context.Context) ([]string, error)
}

type sqlQuestionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) QuestionRepository {
	return &sqlQuestionRepository{db: db}
}

const questionColumns = `id, title, slug, difficulty, category, company, url, description, created_at`

func scanQuestion(row rowScanner) (*model.Question, error) {
	q := &model.Question{}
	var createdAt int64
	if err := row.Scan(&q.ID, &q.Title, &q.Slug, &q.Difficulty, &q.Category,
		&q.Company, &q.URL, &q.Description, &createdAt); err != nil {
		return nil, err
	}
	q.CreatedAt = fromMillis(createdAt)
	return q, nil
}

func (r *sqlQuestionRepository) Create(ctx context.Context, q *model.Question) error {
	query := `INSERT INTO questions (` + questionColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query, q.ID, q.Title, q.Slug, string(q.Difficulty), q.Category,
		q.Company, q.URL, q.Description, millis(q.CreatedAt))
	if err != nil {
		return fmt.Errorf("sqlQuestionRepository.Create: %w", err)
	}
	return nil
}

func (r *sqlQuestionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`
	q, err := scanQuestion(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("question %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("sqlQuestionRepository.FindByID: %w", err)
	}
	return q, nil
}

// FindBySlug returns the earliest question with the slug; titles are not unique.
func (r *sqlQuestionRepository) FindBySlug(ctx context.Context, slug string) (*model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE slug = $1
	          ORDER BY created_at ASC, id ASC LIMIT 1`
	q, err := scanQuestion(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("question %q: %w", slug, common.ErrNotFound)
		}
		return nil, fmt.Errorf("sqlQuestionRepository.FindBySlug: %w", err)
	}
	return q, nil
}

// FindByIDs returns the questions that exist among ids, keyed by id.
// Unknown ids are simply absent from the result.
func (r *sqlQuestionRepository) FindByIDs(ctx context.Context, ids []string) (map[string]model.Question, error) {
	found := make(map[string]model.Question, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT %s FROM questions WHERE id IN (%s)`, questionColumns, placeholders(1, len(ids)))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlQuestionRepository.FindByIDs query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlQuestionRepository.FindByIDs scan: %w", err)
		}
		found[q.ID] = *q
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlQuestionRepository.FindByIDs rows.Err: %w", err)
	}
	return found, nil
}

func (r *sqlQuestionRepository) ListAll(ctx context.Context) ([]model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlQuestionRepository.ListAll query: %w", err)
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlQuestionRepository.ListAll scan: %w", err)
		}
		questions = append(questions, *q)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlQuestionRepository.ListAll rows.Err: %w", err)
	}
	return questions, nil
}

// ListCompanies returns the distinct non-empty companies, unordered.
func (r *sqlQuestionRepository) ListCompanies(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT company FROM questions WHERE company IS NOT NULL AND company <> ''`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlQuestionRepository.ListCompanies query: %w", err)
	}
	defer rows.Close()

	companies := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("sqlQuestionRepository.ListCompanies scan: %w", err)
		}
		companies = append(companies, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlQuestionRepository.ListCompanies rows.Err: %w", err)
	}
	return companies, nil
}
