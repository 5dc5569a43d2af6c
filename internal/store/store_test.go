package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prepdeck/internal/deck"
	"github.com/abhisek/prepdeck/internal/srs"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func testCatalog() []deck.Question {
	return []deck.Question{
		{
			ID: "go-slices-01", Language: "go", Difficulty: deck.DifficultyEasy,
			Tags: []string{"slices"}, Question: "What is the zero value of a slice?",
			ShortAnswer: "nil", KeyPoints: []string{"len and cap are 0", "append works on nil"},
		},
		{
			ID: "go-maps-01", Language: "go", Difficulty: deck.DifficultyMedium,
			Tags: []string{"maps", "concurrency"}, Question: "Are map writes safe for concurrent use?",
			ShortAnswer: "No", RedFlags: []string{"claims sync.Map is always the fix"},
		},
		{
			ID: "rust-own-01", Language: "rust", Difficulty: deck.DifficultyHard,
			Tags: []string{"ownership"}, Question: "What does the borrow checker enforce?",
			ShortAnswer: "Aliasing xor mutability",
		},
	}
}

func seedCatalog(t *testing.T, s *Store) {
	t.Helper()
	require.NoError(t, s.ImportQuestions(context.Background(), testCatalog()))
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		require.NoError(t, s.DB().QueryRow("PRAGMA "+tt.pragma).Scan(&got))
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestImportQuestions_UpsertsInPlace(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)

	n, err := s.CountQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Re-import with changed content: same count, updated fields.
	cat := testCatalog()
	cat[0].ShortAnswer = "nil (updated)"
	require.NoError(t, s.ImportQuestions(ctx, cat))

	n, err = s.CountQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	qs, err := s.Questions(ctx, deck.Filters{Language: "go", Difficulty: deck.DifficultyEasy})
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "nil (updated)", qs[0].ShortAnswer)
	assert.Equal(t, []string{"len and cap are 0", "append works on nil"}, qs[0].KeyPoints)
}

func TestQuestions_Filtering(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)

	tests := []struct {
		name    string
		filters deck.Filters
		wantIDs []string
	}{
		{"no filter", deck.Filters{}, []string{"go-maps-01", "go-slices-01", "rust-own-01"}},
		{"by language", deck.Filters{Language: "go"}, []string{"go-maps-01", "go-slices-01"}},
		{"language is case-insensitive", deck.Filters{Language: "Go"}, []string{"go-maps-01", "go-slices-01"}},
		{"by difficulty", deck.Filters{Difficulty: deck.DifficultyHard}, []string{"rust-own-01"}},
		{"by tag", deck.Filters{Tags: []string{"concurrency"}}, []string{"go-maps-01"}},
		{"no match", deck.Filters{Language: "zig"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, err := s.Questions(ctx, tt.filters)
			require.NoError(t, err)
			var ids []string
			for _, q := range qs {
				ids = append(ids, q.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestRecord_NilForUnseenQuestion(t *testing.T) {
	s := openTestStore(t)
	seedCatalog(t, s)

	rec, err := s.Record(context.Background(), "go-slices-01")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSaveEvaluation_CreatesAndUpdatesRecord(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	rec, err := s.SaveEvaluation(ctx, "go-slices-01", srs.EvalGood, now)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.TimesSeen)
	assert.Equal(t, 1, rec.Streak)
	assert.Equal(t, 1.0, rec.IntervalDays)

	// Round-trip: the persisted record matches what the scheduler produced,
	// including millisecond timestamps.
	loaded, err := s.Record(ctx, "go-slices-01")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, rec.NextReview.UnixMilli(), loaded.NextReview.UnixMilli())
	assert.Equal(t, rec.IntervalDays, loaded.IntervalDays)
	assert.Equal(t, srs.EvalGood, loaded.LastEvaluation)
	assert.Equal(t, 1, loaded.GoodCount)

	// Second evaluation continues from the stored state.
	rec, err = s.SaveEvaluation(ctx, "go-slices-01", srs.EvalGood, now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, rec.TimesSeen)
	assert.Equal(t, 2, rec.Streak)
	assert.Equal(t, 3.0, rec.IntervalDays)
}

func TestSaveEvaluation_AppendsEventLog(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)

	now := time.Now()
	_, err := s.SaveEvaluation(ctx, "go-slices-01", srs.EvalBad, now)
	require.NoError(t, err)
	_, err = s.SaveEvaluation(ctx, "go-slices-01", srs.EvalGood, now.Add(11*time.Minute))
	require.NoError(t, err)

	events, err := s.AllEvaluations(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, srs.EvalBad, events[0].Evaluation)
	assert.Equal(t, srs.EvalGood, events[1].Evaluation)
}

func TestSaveEvaluation_RejectsUnknownEvaluation(t *testing.T) {
	s := openTestStore(t)
	seedCatalog(t, s)

	_, err := s.SaveEvaluation(context.Background(), "go-slices-01", srs.Evaluation("great"), time.Now())
	assert.Error(t, err)
}

func TestDueQuestions_MostOverdueFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// go-maps-01 evaluated earlier → more overdue than go-slices-01.
	_, err := s.SaveEvaluation(ctx, "go-maps-01", srs.EvalKindOf, base)
	require.NoError(t, err)
	_, err = s.SaveEvaluation(ctx, "go-slices-01", srs.EvalKindOf, base.Add(2*time.Hour))
	require.NoError(t, err)
	// rust-own-01 stays unseen.

	now := base.AddDate(0, 0, 3)
	due, err := s.DueQuestions(ctx, deck.Filters{}, now)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "go-maps-01", due[0].ID)
	assert.Equal(t, "go-slices-01", due[1].ID)

	// Not due yet just after the evaluations.
	due, err = s.DueQuestions(ctx, deck.Filters{}, base.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestNewQuestions_ExcludesEvaluated(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)

	_, err := s.SaveEvaluation(ctx, "go-slices-01", srs.EvalGood, time.Now())
	require.NoError(t, err)

	fresh, err := s.NewQuestions(ctx, deck.Filters{}, 0)
	require.NoError(t, err)
	var ids []string
	for _, q := range fresh {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{"go-maps-01", "rust-own-01"}, ids)

	limited, err := s.NewQuestions(ctx, deck.Filters{}, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "go-maps-01", limited[0].ID)
}

func TestResetProgress_KeepsCatalog(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)

	_, err := s.SaveEvaluation(ctx, "go-slices-01", srs.EvalGood, time.Now())
	require.NoError(t, err)

	require.NoError(t, s.ResetProgress(ctx))

	records, err := s.AllRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	events, err := s.AllEvaluations(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	n, err := s.CountQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestAppendLLMRequest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.AppendLLMRequest(ctx, LLMRequestData{
		Provider:  "anthropic",
		Model:     "claude-haiku",
		Purpose:   "card-generation",
		LatencyMs: 420,
		Success:   true,
	})
	require.NoError(t, err)

	var n int
	require.NoError(t, s.DB().Get(&n, `SELECT COUNT(*) FROM llm_requests`))
	assert.Equal(t, 1, n)
}

func TestLLMUsageByModel(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	calls := []LLMRequestData{
		{Provider: "anthropic", Model: "claude-haiku", Purpose: "card-generation", LatencyMs: 400, Success: true, InputTokens: 100, OutputTokens: 50},
		{Provider: "anthropic", Model: "claude-haiku", Purpose: "card-generation", LatencyMs: 600, Success: false, ErrorMessage: "rate limited"},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "card-generation", LatencyMs: 300, Success: true, InputTokens: 80, OutputTokens: 40},
	}
	for _, c := range calls {
		require.NoError(t, s.AppendLLMRequest(ctx, c))
	}

	usage, err := s.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, usage, 2)

	// Busiest model first.
	assert.Equal(t, "claude-haiku", usage[0].Model)
	assert.Equal(t, 2, usage[0].Calls)
	assert.Equal(t, 100, usage[0].InputTokens)
	assert.Equal(t, 50, usage[0].OutputTokens)
	assert.Equal(t, 1, usage[0].Failures)
	assert.Equal(t, 500, usage[0].AvgLatencyMs)

	assert.Equal(t, "gpt-4o-mini", usage[1].Model)
	assert.Equal(t, 1, usage[1].Calls)
}
