// Package session assembles bounded practice queues. Overdue questions
// come first, unseen questions backfill, and already-known material is
// only pulled in when the caller explicitly asks for extra practice.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/prepdeck/internal/deck"
)

const (
	// MinSize and MaxSize bound the session budget.
	MinSize = 1
	MaxSize = 50

	// DefaultSize is used when the caller passes 0.
	DefaultSize = 10
)

// Store is the question-store surface the builder depends on. DueQuestions
// must return questions most-overdue first; the builder consumes that order
// without re-sorting.
type Store interface {
	Questions(ctx context.Context, filters deck.Filters) ([]deck.Question, error)
	DueQuestions(ctx context.Context, filters deck.Filters, now time.Time) ([]deck.Question, error)
	NewQuestions(ctx context.Context, filters deck.Filters, limit int) ([]deck.Question, error)
}

// Options configures one session build.
type Options struct {
	Filters deck.Filters

	// Size is the session budget, clamped to [MinSize, MaxSize].
	// 0 means DefaultSize.
	Size int

	// IncludeNew backfills with never-evaluated questions.
	IncludeNew bool

	// AllowExtra backfills with not-due, already-seen questions. Off by
	// default: already-known material is only practiced on request.
	AllowExtra bool

	// Seed overrides the derived session seed. Nil derives one from the
	// local calendar day and the filters, so rebuilding the same session
	// on the same day yields the same order.
	Seed *uint32

	// Now is the clock reading for dueness and seed derivation.
	// Zero means time.Now().
	Now time.Time
}

// DefaultOptions returns Options with the product defaults applied.
func DefaultOptions() Options {
	return Options{Size: DefaultSize, IncludeNew: true}
}

// Makeup reports how many session entries came from each bucket.
type Makeup struct {
	Due   int `json:"due"`
	New   int `json:"new"`
	Extra int `json:"extra"`
}

// Result is an assembled practice session.
type Result struct {
	Questions []deck.Question
	Makeup    Makeup
	Seed      uint32
}

// Builder builds practice sessions against a question store.
type Builder struct {
	store Store
}

// NewBuilder creates a Builder.
func NewBuilder(store Store) *Builder {
	return &Builder{store: store}
}

// Build assembles a session. Empty pools are not errors: a store with
// nothing due and nothing new simply yields an empty session.
func (b *Builder) Build(ctx context.Context, opts Options) (*Result, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	size := clampSize(opts.Size)
	seed := b.resolveSeed(opts, now)

	// Due bucket: trust the store's urgency order, keep the first `size`
	// entries, then shuffle only within that subset so the on-screen order
	// is not trivially predictable.
	due, err := b.store.DueQuestions(ctx, opts.Filters, now)
	if err != nil {
		return nil, fmt.Errorf("query due questions: %w", err)
	}
	if len(due) > size {
		due = due[:size]
	}
	shuffle(due, seed^dueSeedSalt)

	picked := make([]deck.Question, 0, size)
	picked = append(picked, due...)
	makeup := Makeup{Due: len(due)}

	// New bucket fills remaining capacity. The query is skipped entirely
	// when the due bucket already filled the session.
	if opts.IncludeNew && len(picked) < size {
		fresh, err := b.store.NewQuestions(ctx, opts.Filters, size-len(picked))
		if err != nil {
			return nil, fmt.Errorf("query new questions: %w", err)
		}
		shuffle(fresh, seed^newSeedSalt)
		picked = append(picked, fresh...)
		makeup.New = len(fresh)
	}

	// Extra bucket: everything matching, minus what is already picked.
	// Like the due bucket, membership is the store-order prefix; only the
	// on-screen order within that subset is shuffled.
	if opts.AllowExtra && len(picked) < size {
		all, err := b.store.Questions(ctx, opts.Filters)
		if err != nil {
			return nil, fmt.Errorf("query extra questions: %w", err)
		}
		extra := subtract(all, picked)
		if remaining := size - len(picked); len(extra) > remaining {
			extra = extra[:remaining]
		}
		shuffle(extra, seed^extraSeedSalt)
		picked = append(picked, extra...)
		makeup.Extra = len(extra)
	}

	// Bucket math already respects the budget; truncate defensively anyway.
	if len(picked) > size {
		picked = picked[:size]
	}

	return &Result{Questions: picked, Makeup: makeup, Seed: seed}, nil
}

// resolveSeed returns the explicit seed or derives the day-stable one.
func (b *Builder) resolveSeed(opts Options, now time.Time) uint32 {
	if opts.Seed != nil {
		return *opts.Seed
	}
	day := now.Local().Format("2006-01-02")
	return hashSeed(day + "|" + opts.Filters.Canonical())
}

func clampSize(size int) int {
	if size == 0 {
		return DefaultSize
	}
	if size < MinSize {
		return MinSize
	}
	if size > MaxSize {
		return MaxSize
	}
	return size
}

// subtract returns the questions in all whose IDs are not in picked,
// preserving order.
func subtract(all, picked []deck.Question) []deck.Question {
	taken := make(map[string]bool, len(picked))
	for _, q := range picked {
		taken[q.ID] = true
	}
	var rest []deck.Question
	for _, q := range all {
		if !taken[q.ID] {
			rest = append(rest, q)
		}
	}
	return rest
}
