package srs

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

func TestNextReviewFor_FirstEvaluationCreatesRecord(t *testing.T) {
	rec := NextReviewFor(EvalGood, nil, "q-1", testNow)

	if rec.QuestionID != "q-1" {
		t.Errorf("QuestionID = %q, want q-1", rec.QuestionID)
	}
	if rec.TimesSeen != 1 {
		t.Errorf("TimesSeen = %d, want 1", rec.TimesSeen)
	}
	if rec.EaseFactor != DefaultEaseFactor {
		t.Errorf("EaseFactor = %v, want %v", rec.EaseFactor, DefaultEaseFactor)
	}
	if rec.LastEvaluation != EvalGood {
		t.Errorf("LastEvaluation = %q, want good", rec.LastEvaluation)
	}
}

func TestNextReviewFor_BadResetsAndRetriesSoon(t *testing.T) {
	prev := &Record{
		QuestionID:   "q-1",
		IntervalDays: 8,
		Streak:       3,
		EaseFactor:   DefaultEaseFactor,
		TimesSeen:    3,
	}

	rec := NextReviewFor(EvalBad, prev, "q-1", testNow)

	if rec.Streak != 0 {
		t.Errorf("Streak = %d, want 0", rec.Streak)
	}
	if rec.IntervalDays != 0 {
		t.Errorf("IntervalDays = %v, want 0", rec.IntervalDays)
	}
	if rec.TimesSeen != 4 {
		t.Errorf("TimesSeen = %d, want 4", rec.TimesSeen)
	}
	if rec.BadCount != 1 {
		t.Errorf("BadCount = %d, want 1", rec.BadCount)
	}

	// Failure re-exposes within a ten-minute window, not a multi-day delay.
	lo := testNow.Add(9 * time.Minute)
	hi := testNow.Add(11 * time.Minute)
	if rec.NextReview.Before(lo) || rec.NextReview.After(hi) {
		t.Errorf("NextReview = %v, want within [%v, %v]", rec.NextReview, lo, hi)
	}
}

func TestNextReviewFor_KindOfIsOneDay(t *testing.T) {
	prev := &Record{QuestionID: "q-1", IntervalDays: 8, Streak: 3, EaseFactor: DefaultEaseFactor}

	rec := NextReviewFor(EvalKindOf, prev, "q-1", testNow)

	if rec.Streak != 0 {
		t.Errorf("Streak = %d, want 0", rec.Streak)
	}
	if rec.IntervalDays != 1 {
		t.Errorf("IntervalDays = %v, want 1", rec.IntervalDays)
	}
	want := testNow.Add(24 * time.Hour)
	if !rec.NextReview.Equal(want) {
		t.Errorf("NextReview = %v, want %v", rec.NextReview, want)
	}
}

func TestNextReviewFor_GoodStreakGrowth(t *testing.T) {
	// Three consecutive good answers from a fresh question walk the
	// 1 → 3 → round(3*2.5)=8 ladder.
	wantIntervals := []float64{1, 3, 8}
	wantStreaks := []int{1, 2, 3}

	var rec *Record
	now := testNow
	for i := range wantIntervals {
		rec = NextReviewFor(EvalGood, rec, "q-1", now)
		if rec.IntervalDays != wantIntervals[i] {
			t.Errorf("step %d: IntervalDays = %v, want %v", i, rec.IntervalDays, wantIntervals[i])
		}
		if rec.Streak != wantStreaks[i] {
			t.Errorf("step %d: Streak = %d, want %d", i, rec.Streak, wantStreaks[i])
		}
		want := now.Add(time.Duration(wantIntervals[i] * 24 * float64(time.Hour)))
		if !rec.NextReview.Equal(want) {
			t.Errorf("step %d: NextReview = %v, want %v", i, rec.NextReview, want)
		}
		now = rec.NextReview
	}

	if rec.GoodCount != 3 {
		t.Errorf("GoodCount = %d, want 3", rec.GoodCount)
	}
	if rec.TimesSeen != 3 {
		t.Errorf("TimesSeen = %d, want 3", rec.TimesSeen)
	}
}

func TestNextReviewFor_GoodNeverDecreasesStreak(t *testing.T) {
	for priorStreak := 0; priorStreak < 6; priorStreak++ {
		prev := &Record{
			QuestionID:   "q-1",
			IntervalDays: 3,
			Streak:       priorStreak,
			EaseFactor:   DefaultEaseFactor,
		}
		rec := NextReviewFor(EvalGood, prev, "q-1", testNow)
		if rec.Streak != priorStreak+1 {
			t.Errorf("prior streak %d: Streak = %d, want %d", priorStreak, rec.Streak, priorStreak+1)
		}
	}
}

func TestNextReviewFor_GeometricGrowthUsesEase(t *testing.T) {
	prev := &Record{
		QuestionID:   "q-1",
		IntervalDays: 8,
		Streak:       3,
		EaseFactor:   DefaultEaseFactor,
	}

	rec := NextReviewFor(EvalGood, prev, "q-1", testNow)

	if rec.IntervalDays != 20 { // round(8 * 2.5)
		t.Errorf("IntervalDays = %v, want 20", rec.IntervalDays)
	}
	if rec.EaseFactor != DefaultEaseFactor {
		t.Errorf("EaseFactor mutated: %v", rec.EaseFactor)
	}
}

func TestNextReviewFor_RecoveryAfterBadRestartsLadder(t *testing.T) {
	rec := NextReviewFor(EvalBad, &Record{QuestionID: "q-1", IntervalDays: 8, Streak: 3, EaseFactor: DefaultEaseFactor}, "q-1", testNow)

	// Repeated good answers from interval 0 still progress 1, 3, 8.
	for i, want := range []float64{1, 3, 8} {
		rec = NextReviewFor(EvalGood, rec, "q-1", testNow)
		if rec.IntervalDays != want {
			t.Errorf("step %d: IntervalDays = %v, want %v", i, rec.IntervalDays, want)
		}
	}
}

func TestNextReviewFor_DoesNotMutateInput(t *testing.T) {
	prev := &Record{QuestionID: "q-1", IntervalDays: 3, Streak: 2, EaseFactor: DefaultEaseFactor, TimesSeen: 2}

	_ = NextReviewFor(EvalGood, prev, "q-1", testNow)

	if prev.Streak != 2 || prev.IntervalDays != 3 || prev.TimesSeen != 2 {
		t.Errorf("input record mutated: %+v", prev)
	}
}

func TestRecord_IsMastered(t *testing.T) {
	tests := []struct {
		interval float64
		want     bool
	}{
		{0, false},
		{7, false},
		{7.5, true},
		{8, true},
	}
	for _, tt := range tests {
		r := Record{IntervalDays: tt.interval}
		if got := r.IsMastered(); got != tt.want {
			t.Errorf("IsMastered(interval=%v) = %v, want %v", tt.interval, got, tt.want)
		}
	}
}

func TestEvaluation_Valid(t *testing.T) {
	for _, e := range Evaluations {
		if !e.Valid() {
			t.Errorf("%q should be valid", e)
		}
	}
	if Evaluation("great").Valid() {
		t.Error("unknown evaluation accepted")
	}
}
