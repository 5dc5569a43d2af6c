package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/abhisek/prepdeck/internal/srs"
)

// recordRow is the database shape of a review record. Timestamps are
// epoch milliseconds so round-tripping preserves sub-second precision.
type recordRow struct {
	QuestionID     string  `db:"question_id"`
	NextReviewMs   int64   `db:"next_review_ms"`
	IntervalDays   float64 `db:"interval_days"`
	Streak         int     `db:"streak"`
	EaseFactor     float64 `db:"ease_factor"`
	TimesSeen      int     `db:"times_seen"`
	LastEvaluation string  `db:"last_evaluation"`
	GoodCount      int     `db:"good_count"`
	KindOfCount    int     `db:"kind_of_count"`
	BadCount       int     `db:"bad_count"`
	UpdatedAtMs    int64   `db:"updated_at_ms"`
}

func (r *recordRow) toRecord() srs.Record {
	return srs.Record{
		QuestionID:     r.QuestionID,
		NextReview:     time.UnixMilli(r.NextReviewMs),
		IntervalDays:   r.IntervalDays,
		Streak:         r.Streak,
		EaseFactor:     r.EaseFactor,
		TimesSeen:      r.TimesSeen,
		LastEvaluation: srs.Evaluation(r.LastEvaluation),
		GoodCount:      r.GoodCount,
		KindOfCount:    r.KindOfCount,
		BadCount:       r.BadCount,
		UpdatedAt:      time.UnixMilli(r.UpdatedAtMs),
	}
}

func rowFromRecord(rec *srs.Record) recordRow {
	return recordRow{
		QuestionID:     rec.QuestionID,
		NextReviewMs:   rec.NextReview.UnixMilli(),
		IntervalDays:   rec.IntervalDays,
		Streak:         rec.Streak,
		EaseFactor:     rec.EaseFactor,
		TimesSeen:      rec.TimesSeen,
		LastEvaluation: string(rec.LastEvaluation),
		GoodCount:      rec.GoodCount,
		KindOfCount:    rec.KindOfCount,
		BadCount:       rec.BadCount,
		UpdatedAtMs:    rec.UpdatedAt.UnixMilli(),
	}
}

// Record returns the review record for a question, or nil if the question
// has never been evaluated.
func (s *Store) Record(ctx context.Context, questionID string) (*srs.Record, error) {
	var row recordRow
	err := s.db.GetContext(ctx, &row,
		`SELECT * FROM records WHERE question_id = ?`, questionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query record %s: %w", questionID, err)
	}
	rec := row.toRecord()
	return &rec, nil
}

// AllRecords returns every review record.
func (s *Store) AllRecords(ctx context.Context) ([]srs.Record, error) {
	var rows []recordRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM records ORDER BY question_id`); err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	records := make([]srs.Record, len(rows))
	for i := range rows {
		records[i] = rows[i].toRecord()
	}
	return records, nil
}

// SaveEvaluation runs the scheduler against the question's current record
// and persists the result: record upsert plus one event-log append, in a
// single transaction. Returns the updated record.
func (s *Store) SaveEvaluation(ctx context.Context, questionID string, eval srs.Evaluation, now time.Time) (*srs.Record, error) {
	if !eval.Valid() {
		return nil, fmt.Errorf("unknown evaluation %q", eval)
	}

	var updated *srs.Record
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var prev *srs.Record
		var row recordRow
		err := tx.GetContext(ctx, &row,
			`SELECT * FROM records WHERE question_id = ?`, questionID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// First evaluation: the scheduler creates the record.
		case err != nil:
			return fmt.Errorf("load record %s: %w", questionID, err)
		default:
			rec := row.toRecord()
			prev = &rec
		}

		updated = srs.NextReviewFor(eval, prev, questionID, now)

		const upsert = `
INSERT INTO records (question_id, next_review_ms, interval_days, streak, ease_factor,
	times_seen, last_evaluation, good_count, kind_of_count, bad_count, updated_at_ms)
VALUES (:question_id, :next_review_ms, :interval_days, :streak, :ease_factor,
	:times_seen, :last_evaluation, :good_count, :kind_of_count, :bad_count, :updated_at_ms)
ON CONFLICT (question_id) DO UPDATE SET
	next_review_ms = excluded.next_review_ms,
	interval_days = excluded.interval_days,
	streak = excluded.streak,
	ease_factor = excluded.ease_factor,
	times_seen = excluded.times_seen,
	last_evaluation = excluded.last_evaluation,
	good_count = excluded.good_count,
	kind_of_count = excluded.kind_of_count,
	bad_count = excluded.bad_count,
	updated_at_ms = excluded.updated_at_ms`
		if _, err := tx.NamedExecContext(ctx, upsert, rowFromRecord(updated)); err != nil {
			return fmt.Errorf("upsert record %s: %w", questionID, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO evaluations (question_id, evaluation, created_at_ms) VALUES (?, ?, ?)`,
			questionID, string(eval), now.UnixMilli()); err != nil {
			return fmt.Errorf("append evaluation event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ResetProgress deletes all learning state. The catalog is kept.
func (s *Store) ResetProgress(ctx context.Context) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM records`,
			`DELETE FROM evaluations`,
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("%s: %w", stmt, err)
			}
		}
		return nil
	})
}
