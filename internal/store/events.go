package store

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/prepdeck/internal/srs"
)

type evaluationRow struct {
	ID          int64  `db:"id"`
	QuestionID  string `db:"question_id"`
	Evaluation  string `db:"evaluation"`
	CreatedAtMs int64  `db:"created_at_ms"`
}

// AllEvaluations returns the full evaluation event log in append order.
func (s *Store) AllEvaluations(ctx context.Context) ([]srs.Event, error) {
	var rows []evaluationRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM evaluations ORDER BY id`); err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	events := make([]srs.Event, len(rows))
	for i, row := range rows {
		events[i] = srs.Event{
			QuestionID: row.QuestionID,
			Evaluation: srs.Evaluation(row.Evaluation),
			At:         time.UnixMilli(row.CreatedAtMs),
		}
	}
	return events, nil
}

// EvaluationsSince returns events at or after cutoff, in append order.
// Used to bound trend queries on long-lived databases.
func (s *Store) EvaluationsSince(ctx context.Context, cutoff time.Time) ([]srs.Event, error) {
	var rows []evaluationRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM evaluations WHERE created_at_ms >= ? ORDER BY id`, cutoff.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("query evaluations since %s: %w", cutoff.Format(time.RFC3339), err)
	}
	events := make([]srs.Event, len(rows))
	for i, row := range rows {
		events[i] = srs.Event{
			QuestionID: row.QuestionID,
			Evaluation: srs.Evaluation(row.Evaluation),
			At:         time.UnixMilli(row.CreatedAtMs),
		}
	}
	return events, nil
}
