package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gokatarajesh/trivia-api/internal/question"
)

// DBTX is the subset of pgxpool.Pool / pgx.Tx used by the repository.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const questionColumns = `id, question, answer, category, difficulty`

// QuestionRepository is the Postgres-backed question.Store.
type QuestionRepository struct {
	db DBTX
}

var _ question.Store = (*QuestionRepository)(nil)

// NewQuestionRepository wraps a pool or transaction.
func NewQuestionRepository(db DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// ListCategories returns every category ordered by id.
func (r *QuestionRepository) ListCategories(ctx context.Context) ([]question.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, type FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []question.Category
	for rows.Next() {
		var c question.Category
		if err := rows.Scan(&c.ID, &c.Type); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return cats, nil
}

// GetCategory fetches a category by id.
func (r *QuestionRepository) GetCategory(ctx context.Context, id int64) (question.Category, error) {
	var c question.Category
	err := r.db.QueryRow(ctx, `SELECT id, type FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Type)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return question.Category{}, question.ErrRecordNotFound
		}
		return question.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

// ListQuestions returns every question ordered by id.
func (r *QuestionRepository) ListQuestions(ctx context.Context) ([]question.Question, error) {
	return r.queryQuestions(ctx, "list questions",
		`SELECT `+questionColumns+` FROM questions ORDER BY id`)
}

// SearchQuestions matches question text case-insensitively; LIKE wildcards in term are literal.
func (r *QuestionRepository) SearchQuestions(ctx context.Context, term string) ([]question.Question, error) {
	return r.queryQuestions(ctx, "search questions",
		`SELECT `+questionColumns+` FROM questions WHERE question ILIKE $1 ESCAPE '\' ORDER BY id`,
		"%"+escapeLike(term)+"%")
}

// ListQuestionsByCategory returns the category's questions ordered by id.
func (r *QuestionRepository) ListQuestionsByCategory(ctx context.Context, categoryID int64) ([]question.Question, error) {
	return r.queryQuestions(ctx, "list questions by category",
		`SELECT `+questionColumns+` FROM questions WHERE category = $1 ORDER BY id`, categoryID)
}

// GetQuestion fetches a question by id.
func (r *QuestionRepository) GetQuestion(ctx context.Context, id int64) (question.Question, error) {
	row := r.db.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id)
	q, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return question.Question{}, question.ErrRecordNotFound
		}
		return question.Question{}, fmt.Errorf("get question %d: %w", id, err)
	}
	return q, nil
}

// InsertQuestion stores a new question and returns it with its assigned id.
func (r *QuestionRepository) InsertQuestion(ctx context.Context, nq question.NewQuestion) (question.Question, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO questions (question, answer, category, difficulty)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+questionColumns,
		nq.Question, nq.Answer, nq.Category, nq.Difficulty)
	q, err := scanQuestion(row)
	if err != nil {
		return question.Question{}, fmt.Errorf("insert question: %w", err)
	}
	return q, nil
}

// DeleteQuestion removes a question; no matching row yields question.ErrRecordNotFound.
func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return question.ErrRecordNotFound
	}
	return nil
}

// CountQuestions returns the number of stored questions.
func (r *QuestionRepository) CountQuestions(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func (r *QuestionRepository) queryQuestions(ctx context.Context, op, sql string, args ...any) ([]question.Question, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	qs := []question.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		qs = append(qs, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return qs, nil
}

func scanQuestion(row pgx.Row) (question.Question, error) {
	var q question.Question
	err := row.Scan(&q.ID, &q.Question, &q.Answer, &q.Category, &q.Difficulty)
	return q, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
