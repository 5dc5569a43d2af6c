package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/abhisek/prepdeck/internal/deck"
)

// questionRow is the database shape of a catalog question. List-valued
// fields are stored as JSON text.
type questionRow struct {
	ID          string `db:"id"`
	Language    string `db:"language"`
	Difficulty  string `db:"difficulty"`
	Tags        string `db:"tags"`
	Question    string `db:"question"`
	ShortAnswer string `db:"short_answer"`
	KeyPoints   string `db:"key_points"`
	RedFlags    string `db:"red_flags"`
}

func (r *questionRow) toQuestion() (deck.Question, error) {
	q := deck.Question{
		ID:          r.ID,
		Language:    r.Language,
		Difficulty:  deck.Difficulty(r.Difficulty),
		Question:    r.Question,
		ShortAnswer: r.ShortAnswer,
	}
	for _, pair := range []struct {
		raw  string
		dest *[]string
	}{
		{r.Tags, &q.Tags},
		{r.KeyPoints, &q.KeyPoints},
		{r.RedFlags, &q.RedFlags},
	} {
		if pair.raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(pair.raw), pair.dest); err != nil {
			return deck.Question{}, fmt.Errorf("question %s: decode list field: %w", r.ID, err)
		}
	}
	return q, nil
}

func rowFromQuestion(q *deck.Question) (questionRow, error) {
	row := questionRow{
		ID:          q.ID,
		Language:    q.Language,
		Difficulty:  string(q.Difficulty),
		Question:    q.Question,
		ShortAnswer: q.ShortAnswer,
	}
	var err error
	if row.Tags, err = marshalList(q.Tags); err != nil {
		return row, err
	}
	if row.KeyPoints, err = marshalList(q.KeyPoints); err != nil {
		return row, err
	}
	if row.RedFlags, err = marshalList(q.RedFlags); err != nil {
		return row, err
	}
	return row, nil
}

func marshalList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ImportQuestions upserts catalog questions inside one transaction.
// Re-importing a deck updates content in place; learning records are
// untouched.
func (s *Store) ImportQuestions(ctx context.Context, questions []deck.Question) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		const stmt = `
INSERT INTO questions (id, language, difficulty, tags, question, short_answer, key_points, red_flags)
VALUES (:id, :language, :difficulty, :tags, :question, :short_answer, :key_points, :red_flags)
ON CONFLICT (id) DO UPDATE SET
	language = excluded.language,
	difficulty = excluded.difficulty,
	tags = excluded.tags,
	question = excluded.question,
	short_answer = excluded.short_answer,
	key_points = excluded.key_points,
	red_flags = excluded.red_flags`
		for i := range questions {
			row, err := rowFromQuestion(&questions[i])
			if err != nil {
				return fmt.Errorf("encode question %s: %w", questions[i].ID, err)
			}
			if _, err := tx.NamedExecContext(ctx, stmt, row); err != nil {
				return fmt.Errorf("upsert question %s: %w", questions[i].ID, err)
			}
		}
		return nil
	})
}

// Questions returns all catalog questions matching filters, ordered by id.
func (s *Store) Questions(ctx context.Context, filters deck.Filters) ([]deck.Question, error) {
	query, args := filterQuery(`SELECT * FROM questions q`, filters, "ORDER BY q.id")
	var rows []questionRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	return s.decodeAndFilterTags(rows, filters, 0)
}

// DueQuestions returns questions whose record says they are due at now,
// most overdue first. Ties break on question id ascending so the order is
// fully deterministic; the session builder consumes it as-is.
func (s *Store) DueQuestions(ctx context.Context, filters deck.Filters, now time.Time) ([]deck.Question, error) {
	base := `
SELECT q.* FROM questions q
JOIN records r ON r.question_id = q.id AND r.next_review_ms <= ?`
	query, args := filterQuery(base, filters, "ORDER BY r.next_review_ms ASC, q.id ASC")
	args = append([]any{now.UnixMilli()}, args...)

	var rows []questionRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query due questions: %w", err)
	}
	return s.decodeAndFilterTags(rows, filters, 0)
}

// NewQuestions returns questions with no record at all, ordered by id.
// limit of 0 means unlimited.
func (s *Store) NewQuestions(ctx context.Context, filters deck.Filters, limit int) ([]deck.Question, error) {
	base := `
SELECT q.* FROM questions q
LEFT JOIN records r ON r.question_id = q.id
WHERE r.question_id IS NULL`
	query, args := filterQuery(base, filters, "ORDER BY q.id")

	var rows []questionRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query new questions: %w", err)
	}
	// Tag filtering happens in Go, so the limit is applied after it.
	return s.decodeAndFilterTags(rows, filters, limit)
}

// filterQuery appends language/difficulty predicates to base. Tags live in
// a JSON column and are matched in Go after scanning.
func filterQuery(base string, filters deck.Filters, orderBy string) (string, []any) {
	var conds []string
	var args []any

	if filters.Language != "" {
		conds = append(conds, "LOWER(q.language) = LOWER(?)")
		args = append(args, filters.Language)
	}
	if filters.Difficulty != "" {
		conds = append(conds, "q.difficulty = ?")
		args = append(args, string(filters.Difficulty))
	}

	query := base
	if len(conds) > 0 {
		joiner := " WHERE "
		if strings.Contains(base, "WHERE") {
			joiner = " AND "
		}
		query += joiner + strings.Join(conds, " AND ")
	}
	return query + " " + orderBy, args
}

func (s *Store) decodeAndFilterTags(rows []questionRow, filters deck.Filters, limit int) ([]deck.Question, error) {
	out := make([]deck.Question, 0, len(rows))
	tagFilter := deck.Filters{Tags: filters.Tags}
	for i := range rows {
		q, err := rows[i].toQuestion()
		if err != nil {
			return nil, err
		}
		if !tagFilter.Match(&q) {
			continue
		}
		out = append(out, q)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// CountQuestions returns the catalog size, ignoring filters.
func (s *Store) CountQuestions(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM questions`); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
