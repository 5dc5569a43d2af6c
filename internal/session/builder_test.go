package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/abhisek/prepdeck/internal/deck"
)

// fakeStore serves canned question pools and counts queries.
type fakeStore struct {
	due   []deck.Question
	fresh []deck.Question
	all   []deck.Question

	dueCalls   int
	newCalls   int
	extraCalls int
}

func (f *fakeStore) Questions(_ context.Context, _ deck.Filters) ([]deck.Question, error) {
	f.extraCalls++
	return append([]deck.Question(nil), f.all...), nil
}

func (f *fakeStore) DueQuestions(_ context.Context, _ deck.Filters, _ time.Time) ([]deck.Question, error) {
	f.dueCalls++
	return append([]deck.Question(nil), f.due...), nil
}

func (f *fakeStore) NewQuestions(_ context.Context, _ deck.Filters, limit int) ([]deck.Question, error) {
	f.newCalls++
	fresh := append([]deck.Question(nil), f.fresh...)
	if len(fresh) > limit {
		fresh = fresh[:limit]
	}
	return fresh, nil
}

func questions(prefix string, n int) []deck.Question {
	qs := make([]deck.Question, n)
	for i := range qs {
		qs[i] = deck.Question{ID: fmt.Sprintf("%s-%03d", prefix, i)}
	}
	return qs
}

func idSet(qs []deck.Question) map[string]bool {
	s := make(map[string]bool, len(qs))
	for _, q := range qs {
		s[q.ID] = true
	}
	return s
}

func seedPtr(s uint32) *uint32 { return &s }

func TestBuild_SizeInvariant(t *testing.T) {
	store := &fakeStore{
		due:   questions("due", 7),
		fresh: questions("new", 23),
		all:   questions("all", 90),
	}

	for size := MinSize; size <= MaxSize; size++ {
		opts := DefaultOptions()
		opts.Size = size
		opts.AllowExtra = true
		opts.Seed = seedPtr(42)

		res, err := NewBuilder(store).Build(context.Background(), opts)
		if err != nil {
			t.Fatalf("size %d: %v", size, err)
		}
		if len(res.Questions) > size {
			t.Errorf("size %d: got %d questions", size, len(res.Questions))
		}
		sum := res.Makeup.Due + res.Makeup.New + res.Makeup.Extra
		if sum != len(res.Questions) {
			t.Errorf("size %d: makeup sum %d != %d questions", size, sum, len(res.Questions))
		}
	}
}

func TestBuild_DuePrioritySubsetPreserved(t *testing.T) {
	// 100 due questions, budget 10: the selection must be exactly the
	// store's first 10, and the new-question query must never run.
	store := &fakeStore{
		due:   questions("due", 100),
		fresh: questions("new", 5),
	}

	opts := DefaultOptions()
	opts.Size = 10
	opts.Seed = seedPtr(7)

	res, err := NewBuilder(store).Build(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	want := idSet(store.due[:10])
	got := idSet(res.Questions)
	if len(got) != 10 {
		t.Fatalf("got %d questions, want 10", len(got))
	}
	for id := range want {
		if !got[id] {
			t.Errorf("missing priority due question %s", id)
		}
	}

	if res.Makeup != (Makeup{Due: 10}) {
		t.Errorf("makeup = %+v, want {Due:10}", res.Makeup)
	}
	if store.newCalls != 0 {
		t.Errorf("new-question query ran %d times with a full due bucket", store.newCalls)
	}
}

func TestBuild_NewBackfillsAfterDue(t *testing.T) {
	store := &fakeStore{
		due:   questions("due", 3),
		fresh: questions("new", 20),
	}

	opts := DefaultOptions()
	opts.Size = 10
	opts.Seed = seedPtr(1)

	res, err := NewBuilder(store).Build(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	if res.Makeup != (Makeup{Due: 3, New: 7}) {
		t.Errorf("makeup = %+v, want {Due:3 New:7}", res.Makeup)
	}

	// Due entries occupy the head of the queue.
	head := idSet(res.Questions[:3])
	for _, q := range store.due {
		if !head[q.ID] {
			t.Errorf("due question %s not in queue head", q.ID)
		}
	}
}

func TestBuild_ExtraRequiresOptIn(t *testing.T) {
	store := &fakeStore{
		due:   questions("due", 2),
		fresh: nil,
		all:   questions("all", 30),
	}

	opts := DefaultOptions()
	opts.Size = 10
	opts.Seed = seedPtr(1)

	res, err := NewBuilder(store).Build(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Makeup.Extra != 0 {
		t.Errorf("extra bucket filled without opt-in: %+v", res.Makeup)
	}
	if store.extraCalls != 0 {
		t.Errorf("extra query ran %d times without opt-in", store.extraCalls)
	}

	opts.AllowExtra = true
	res, err = NewBuilder(store).Build(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Makeup.Extra != 8 {
		t.Errorf("Extra = %d, want 8", res.Makeup.Extra)
	}
	if len(res.Questions) != 10 {
		t.Errorf("got %d questions, want 10", len(res.Questions))
	}
}

func TestBuild_ExtraExcludesAlreadyPicked(t *testing.T) {
	// The "all" pool contains the due questions too; they must not repeat.
	due := questions("q", 4)
	all := questions("q", 12)
	store := &fakeStore{due: due, all: all}

	opts := DefaultOptions()
	opts.Size = 12
	opts.IncludeNew = false
	opts.AllowExtra = true
	opts.Seed = seedPtr(9)

	res, err := NewBuilder(store).Build(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[string]int)
	for _, q := range res.Questions {
		seen[q.ID]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("question %s appears %d times", id, n)
		}
	}
	if res.Makeup != (Makeup{Due: 4, Extra: 8}) {
		t.Errorf("makeup = %+v, want {Due:4 Extra:8}", res.Makeup)
	}
}

func TestBuild_ExtraPrioritySubsetPreserved(t *testing.T) {
	// 12 extra candidates, budget 5: the selection must be exactly the
	// store's first 5 candidates, shuffled only among themselves.
	store := &fakeStore{all: questions("all", 12)}

	opts := DefaultOptions()
	opts.Size = 5
	opts.IncludeNew = false
	opts.AllowExtra = true
	opts.Seed = seedPtr(7)

	res, err := NewBuilder(store).Build(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	want := idSet(store.all[:5])
	if len(res.Questions) != 5 {
		t.Fatalf("got %d questions, want 5", len(res.Questions))
	}
	for _, q := range res.Questions {
		if !want[q.ID] {
			t.Errorf("selected %s, which is outside the first 5 store-order candidates", q.ID)
		}
	}
	if res.Makeup != (Makeup{Extra: 5}) {
		t.Errorf("makeup = %+v, want {Extra:5}", res.Makeup)
	}
}

func TestBuild_DeterministicForExplicitSeed(t *testing.T) {
	store := &fakeStore{
		due:   questions("due", 6),
		fresh: questions("new", 6),
		all:   questions("all", 20),
	}

	opts := DefaultOptions()
	opts.Size = 15
	opts.AllowExtra = true
	opts.Seed = seedPtr(12345)

	first, err := NewBuilder(store).Build(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewBuilder(store).Build(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	if len(first.Questions) != len(second.Questions) {
		t.Fatalf("lengths differ: %d vs %d", len(first.Questions), len(second.Questions))
	}
	for i := range first.Questions {
		if first.Questions[i].ID != second.Questions[i].ID {
			t.Errorf("position %d: %s vs %s", i, first.Questions[i].ID, second.Questions[i].ID)
		}
	}
}

func TestBuild_DerivedSeedStableWithinDay(t *testing.T) {
	store := &fakeStore{due: questions("due", 20)}

	// Seed derivation uses the local calendar day.
	now := time.Date(2025, 3, 15, 8, 0, 0, 0, time.Local)
	later := now.Add(6 * time.Hour)
	nextDay := now.Add(26 * time.Hour)

	build := func(at time.Time) *Result {
		opts := DefaultOptions()
		opts.Now = at
		res, err := NewBuilder(store).Build(context.Background(), opts)
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	morning := build(now)
	afternoon := build(later)
	tomorrow := build(nextDay)

	if morning.Seed != afternoon.Seed {
		t.Errorf("seed changed within one day: %d vs %d", morning.Seed, afternoon.Seed)
	}
	if morning.Seed == tomorrow.Seed {
		t.Errorf("seed identical across days: %d", morning.Seed)
	}
}

func TestBuild_FiltersChangeDerivedSeed(t *testing.T) {
	store := &fakeStore{due: questions("due", 5)}
	now := time.Date(2025, 3, 15, 8, 0, 0, 0, time.Local)

	optsA := DefaultOptions()
	optsA.Now = now

	optsB := DefaultOptions()
	optsB.Now = now
	optsB.Filters = deck.Filters{Language: "go"}

	a, err := NewBuilder(store).Build(context.Background(), optsA)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewBuilder(store).Build(context.Background(), optsB)
	if err != nil {
		t.Fatal(err)
	}
	if a.Seed == b.Seed {
		t.Errorf("different filters produced identical seed %d", a.Seed)
	}
}

func TestBuild_EmptyPoolsYieldEmptySession(t *testing.T) {
	store := &fakeStore{}

	opts := DefaultOptions()
	opts.AllowExtra = true
	opts.Seed = seedPtr(3)

	res, err := NewBuilder(store).Build(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Questions) != 0 {
		t.Errorf("got %d questions from empty store", len(res.Questions))
	}
	if res.Makeup != (Makeup{}) {
		t.Errorf("makeup = %+v, want all zeros", res.Makeup)
	}
}

func TestBuild_SizeClamping(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultSize},
		{-5, MinSize},
		{1, 1},
		{50, 50},
		{200, MaxSize},
	}
	for _, tt := range tests {
		if got := clampSize(tt.in); got != tt.want {
			t.Errorf("clampSize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIntn_StaysInRange(t *testing.T) {
	r := newPRNG(7)
	for i := 0; i < 1000; i++ {
		n := i%MaxSize + 1
		v := r.intn(n)
		if v < 0 || v >= n {
			t.Fatalf("intn(%d) = %d, out of range", n, v)
		}
	}
}

func TestIntn_ResiduesRoughlyUniform(t *testing.T) {
	// n=3 divides 2^32 unevenly, so a plain modulo would skew the small
	// residues. Allow 10% slack around the expected count.
	r := newPRNG(123)
	const draws = 30000
	var counts [3]int
	for i := 0; i < draws; i++ {
		counts[r.intn(3)]++
	}
	for residue, c := range counts {
		if c < draws/3-draws/10 || c > draws/3+draws/10 {
			t.Errorf("residue %d drawn %d times out of %d", residue, c, draws)
		}
	}
}

func TestShuffle_SeedStable(t *testing.T) {
	a := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	b := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	shuffle(a, 99)
	shuffle(b, 99)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different permutations: %v vs %v", a, b)
		}
	}

	c := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	shuffle(c, 100)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical permutations")
	}
}
