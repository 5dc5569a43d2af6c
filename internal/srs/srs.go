// Package srs implements the review scheduler: a small, deliberately
// simplified spaced-repetition rule set. Unlike classic SM-2 the ease
// factor never adapts to answer history; interval growth is driven by the
// streak of consecutive "good" self-gradings alone.
package srs

import (
	"math"
	"time"
)

// Evaluation is the learner's self-graded recall quality.
type Evaluation string

const (
	EvalBad    Evaluation = "bad"     // failed recall
	EvalKindOf Evaluation = "kind_of" // partial recall
	EvalGood   Evaluation = "good"    // full recall
)

// Evaluations lists all valid evaluation values in ascending quality order.
var Evaluations = []Evaluation{EvalBad, EvalKindOf, EvalGood}

// Valid reports whether e is a known evaluation value.
func (e Evaluation) Valid() bool {
	switch e {
	case EvalBad, EvalKindOf, EvalGood:
		return true
	}
	return false
}

const (
	// DefaultEaseFactor is the fixed interval multiplier. It is never
	// mutated once a record exists.
	DefaultEaseFactor = 2.5

	// badRetryDelay is how soon a failed question comes back.
	badRetryDelay = 10 * time.Minute

	// MasteredIntervalDays is the interval above which a question counts
	// as mastered for analytics.
	MasteredIntervalDays = 7.0
)

// Record is the mutable learning state for one question. A record exists
// iff the question has been evaluated at least once; absence means "new".
type Record struct {
	QuestionID     string
	NextReview     time.Time
	IntervalDays   float64
	Streak         int
	EaseFactor     float64
	TimesSeen      int
	LastEvaluation Evaluation

	// Per-outcome counters, kept denormalized so analytics can reconstruct
	// attempt history without replaying the event log.
	GoodCount   int
	KindOfCount int
	BadCount    int

	// UpdatedAt is when the record was last evaluated.
	UpdatedAt time.Time
}

// Event is one logged evaluation. The append-only event log and the
// record's outcome counters carry the same information two ways; analytics
// prefers the counters and falls back to the log.
type Event struct {
	QuestionID string
	Evaluation Evaluation
	At         time.Time
}

// IsDue reports whether the question should be reviewed at t.
func (r *Record) IsDue(t time.Time) bool {
	return !t.Before(r.NextReview)
}

// IsMastered reports whether the record's interval has grown past the
// mastery threshold.
func (r *Record) IsMastered() bool {
	return r.IntervalDays > MasteredIntervalDays
}

// Attempts returns the total attempt count reconstructed from the outcome
// counters, or 0 if the counters were never populated.
func (r *Record) Attempts() int {
	return r.GoodCount + r.KindOfCount + r.BadCount
}

// NextReviewFor applies one evaluation to prev and returns the updated
// record. prev may be nil (first-ever evaluation). The input record is not
// modified; persistence is the caller's responsibility.
//
// The rules:
//
//	bad     → streak 0, interval 0, due again in 10 minutes
//	kind_of → streak 0, interval 1 day
//	good    → interval 1, 3, then round(interval × ease); streak grows
func NextReviewFor(eval Evaluation, prev *Record, questionID string, now time.Time) *Record {
	var rec Record
	if prev != nil {
		rec = *prev
	} else {
		rec = Record{
			QuestionID: questionID,
			NextReview: now,
			EaseFactor: DefaultEaseFactor,
		}
	}
	if rec.EaseFactor == 0 {
		rec.EaseFactor = DefaultEaseFactor
	}

	rec.TimesSeen++
	rec.LastEvaluation = eval
	rec.UpdatedAt = now

	switch eval {
	case EvalBad:
		rec.BadCount++
		rec.Streak = 0
		rec.IntervalDays = 0
		rec.NextReview = now.Add(badRetryDelay)

	case EvalKindOf:
		rec.KindOfCount++
		rec.Streak = 0
		rec.IntervalDays = 1
		rec.NextReview = now.Add(intervalDuration(1))

	case EvalGood:
		rec.GoodCount++
		// Growth keys off the streak before this evaluation: the geometric
		// step only kicks in from the third consecutive good answer.
		switch {
		case rec.Streak == 0:
			rec.IntervalDays = 1
		case rec.Streak == 1:
			rec.IntervalDays = 3
		default:
			rec.IntervalDays = math.Round(rec.IntervalDays * rec.EaseFactor)
		}
		rec.Streak++
		rec.NextReview = now.Add(intervalDuration(rec.IntervalDays))
	}

	return &rec
}

// intervalDuration converts a possibly fractional day count to a Duration.
func intervalDuration(days float64) time.Duration {
	return time.Duration(days * 24 * float64(time.Hour))
}
