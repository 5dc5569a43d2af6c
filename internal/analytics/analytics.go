// Package analytics folds persisted review records and the evaluation
// event log into progress summaries: headline stats, per-language and
// per-difficulty breakdowns, weakness rankings, and an activity trend.
//
// Aggregation never fails on partial data. Older records without outcome
// counters degrade to the event log, and records without either still
// contribute a single attempt inferred from their last evaluation.
package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/abhisek/prepdeck/internal/deck"
	"github.com/abhisek/prepdeck/internal/srs"
)

const (
	// DefaultTopN bounds the weakness rankings.
	DefaultTopN = 10

	// DefaultTrendDays is the trailing activity window.
	DefaultTrendDays = 14
)

// Store is the persistence surface the aggregator reads from.
type Store interface {
	Questions(ctx context.Context, filters deck.Filters) ([]deck.Question, error)
	AllRecords(ctx context.Context) ([]srs.Record, error)
	AllEvaluations(ctx context.Context) ([]srs.Event, error)
}

// Stats is the headline progress summary.
type Stats struct {
	TotalQuestions int
	TotalSeen      int
	Unseen         int
	DueNow         int
	TotalAttempts  int
	MasteryPercent int
	DaysStreak     int
	LastActivity   time.Time
}

// Outcomes is an attempt breakdown for one bucket. Rates are 0, never
// NaN, when the bucket has no attempts.
type Outcomes struct {
	Attempts int
	Good     int
	KindOf   int
	Bad      int
	GoodRate float64
	BadRate  float64
}

func (o *Outcomes) add(other Outcomes) {
	o.Attempts += other.Attempts
	o.Good += other.Good
	o.KindOf += other.KindOf
	o.Bad += other.Bad
}

func (o *Outcomes) finalize() {
	if o.Attempts == 0 {
		return
	}
	o.GoodRate = float64(o.Good) / float64(o.Attempts)
	o.BadRate = float64(o.Bad) / float64(o.Attempts)
}

// TagStat ranks one topic tag by failure rate.
type TagStat struct {
	Tag string
	Outcomes
}

// QuestionStat ranks one question by failure rate.
type QuestionStat struct {
	QuestionID string
	Question   string
	Outcomes
}

// DayActivity is one day in the activity trend. Days with no activity are
// present with zero counts so the series has a fixed length.
type DayActivity struct {
	Day      string // local calendar day, 2006-01-02
	Attempts int
	Good     int
	KindOf   int
	Bad      int
}

// Options configures a Report.
type Options struct {
	TopN      int // 0 means DefaultTopN
	TrendDays int // 0 means DefaultTrendDays
}

// Report is the full analytics breakdown.
type Report struct {
	Overall      Outcomes
	ByLanguage   map[string]Outcomes
	ByDifficulty map[deck.Difficulty]Outcomes
	WeakTags     []TagStat
	MostMissed   []QuestionStat
	Trend        []DayActivity
}

// Aggregator derives summaries from a question store.
type Aggregator struct {
	store Store
}

// NewAggregator creates an Aggregator.
func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// Stats computes the headline summary as of now.
func (a *Aggregator) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	catalog, records, events, err := a.load(ctx)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		TotalQuestions: len(catalog),
		TotalSeen:      len(records),
		Unseen:         len(catalog) - len(records),
	}
	if st.Unseen < 0 {
		// Records can outlive catalog entries when a deck is re-imported
		// smaller; seen count still reflects real history.
		st.Unseen = 0
	}

	byQuestion := indexEvents(events)

	mastered := 0
	for i := range records {
		rec := &records[i]
		if rec.IsDue(now) {
			st.DueNow++
		}
		if rec.IsMastered() {
			mastered++
		}
		st.TotalAttempts += reconstruct(rec, byQuestion).Attempts
	}

	if st.TotalSeen > 0 {
		st.MasteryPercent = int(math.Round(float64(mastered) / float64(st.TotalSeen) * 100))
	}

	days := activeDays(records, events)
	st.DaysStreak = currentStreak(days)
	st.LastActivity = lastActivity(records, events)

	return st, nil
}

// Analytics computes the full breakdown as of now.
func (a *Aggregator) Analytics(ctx context.Context, opts Options, now time.Time) (*Report, error) {
	catalog, records, events, err := a.load(ctx)
	if err != nil {
		return nil, err
	}

	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	trendDays := opts.TrendDays
	if trendDays <= 0 {
		trendDays = DefaultTrendDays
	}

	byID := make(map[string]*deck.Question, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}

	rep := &Report{
		ByLanguage:   make(map[string]Outcomes),
		ByDifficulty: make(map[deck.Difficulty]Outcomes),
	}
	tagStats := make(map[string]*Outcomes)
	var missed []QuestionStat

	byQuestion := indexEvents(events)
	for i := range records {
		rec := &records[i]
		out := reconstruct(rec, byQuestion)
		if out.Attempts == 0 {
			continue
		}

		rep.Overall.add(out)

		q := byID[rec.QuestionID]
		if q != nil {
			lang := rep.ByLanguage[q.Language]
			lang.add(out)
			rep.ByLanguage[q.Language] = lang

			diff := rep.ByDifficulty[q.Difficulty]
			diff.add(out)
			rep.ByDifficulty[q.Difficulty] = diff

			for _, tag := range q.Tags {
				ts := tagStats[tag]
				if ts == nil {
					ts = &Outcomes{}
					tagStats[tag] = ts
				}
				ts.add(out)
			}
		}

		qs := QuestionStat{QuestionID: rec.QuestionID, Outcomes: out}
		if q != nil {
			qs.Question = q.Question
		}
		missed = append(missed, qs)
	}

	rep.Overall.finalize()
	for k, v := range rep.ByLanguage {
		v.finalize()
		rep.ByLanguage[k] = v
	}
	for k, v := range rep.ByDifficulty {
		v.finalize()
		rep.ByDifficulty[k] = v
	}

	rep.WeakTags = rankTags(tagStats, topN)
	rep.MostMissed = rankQuestions(missed, topN)
	rep.Trend = buildTrend(events, trendDays, now)

	return rep, nil
}

func (a *Aggregator) load(ctx context.Context) ([]deck.Question, []srs.Record, []srs.Event, error) {
	catalog, err := a.store.Questions(ctx, deck.Filters{})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("query catalog: %w", err)
	}
	records, err := a.store.AllRecords(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("query records: %w", err)
	}
	events, err := a.store.AllEvaluations(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("query evaluations: %w", err)
	}
	return catalog, records, events, nil
}

// indexEvents groups the event log by question so per-record
// reconstruction stays linear on long-lived databases.
func indexEvents(events []srs.Event) map[string][]srs.Event {
	byQuestion := make(map[string][]srs.Event)
	for _, ev := range events {
		byQuestion[ev.QuestionID] = append(byQuestion[ev.QuestionID], ev)
	}
	return byQuestion
}

// reconstruct rebuilds a record's attempt outcomes. Preference order:
// outcome counters, then the event log, then a single attempt inferred
// from the last evaluation. Partial records degrade, never drop.
func reconstruct(rec *srs.Record, eventsByQuestion map[string][]srs.Event) Outcomes {
	var out Outcomes

	if rec.Attempts() > 0 {
		out.Good = rec.GoodCount
		out.KindOf = rec.KindOfCount
		out.Bad = rec.BadCount
		out.Attempts = rec.Attempts()
		out.finalize()
		return out
	}

	for _, ev := range eventsByQuestion[rec.QuestionID] {
		out.Attempts++
		switch ev.Evaluation {
		case srs.EvalGood:
			out.Good++
		case srs.EvalKindOf:
			out.KindOf++
		case srs.EvalBad:
			out.Bad++
		}
	}
	if out.Attempts > 0 {
		out.finalize()
		return out
	}

	switch rec.LastEvaluation {
	case srs.EvalGood:
		out = Outcomes{Attempts: 1, Good: 1}
	case srs.EvalKindOf:
		out = Outcomes{Attempts: 1, KindOf: 1}
	case srs.EvalBad:
		out = Outcomes{Attempts: 1, Bad: 1}
	}
	out.finalize()
	return out
}

// rankTags orders tags by bad rate desc, attempts desc, then name asc for
// a fully deterministic ranking.
func rankTags(stats map[string]*Outcomes, topN int) []TagStat {
	ranked := make([]TagStat, 0, len(stats))
	for tag, out := range stats {
		if out.Attempts == 0 {
			continue
		}
		out.finalize()
		ranked = append(ranked, TagStat{Tag: tag, Outcomes: *out})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].BadRate != ranked[j].BadRate {
			return ranked[i].BadRate > ranked[j].BadRate
		}
		if ranked[i].Attempts != ranked[j].Attempts {
			return ranked[i].Attempts > ranked[j].Attempts
		}
		return ranked[i].Tag < ranked[j].Tag
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

func rankQuestions(missed []QuestionStat, topN int) []QuestionStat {
	sort.Slice(missed, func(i, j int) bool {
		if missed[i].BadRate != missed[j].BadRate {
			return missed[i].BadRate > missed[j].BadRate
		}
		if missed[i].Attempts != missed[j].Attempts {
			return missed[i].Attempts > missed[j].Attempts
		}
		return missed[i].QuestionID < missed[j].QuestionID
	})
	if len(missed) > topN {
		missed = missed[:topN]
	}
	return missed
}

// buildTrend returns a contiguous zero-filled series for the trailing
// window, oldest day first.
func buildTrend(events []srs.Event, days int, now time.Time) []DayActivity {
	trend := make([]DayActivity, days)
	index := make(map[string]int, days)
	start := now.Local().AddDate(0, 0, -(days - 1))
	for i := range trend {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		trend[i].Day = day
		index[day] = i
	}

	for _, ev := range events {
		day := ev.At.Local().Format("2006-01-02")
		i, ok := index[day]
		if !ok {
			continue
		}
		trend[i].Attempts++
		switch ev.Evaluation {
		case srs.EvalGood:
			trend[i].Good++
		case srs.EvalKindOf:
			trend[i].KindOf++
		case srs.EvalBad:
			trend[i].Bad++
		}
	}
	return trend
}

// activeDays collects the set of local calendar days with at least one
// evaluation. The event log is authoritative; record update timestamps
// cover stores whose log was pruned or predates event logging.
func activeDays(records []srs.Record, events []srs.Event) map[string]bool {
	days := make(map[string]bool)
	for _, ev := range events {
		days[ev.At.Local().Format("2006-01-02")] = true
	}
	if len(days) > 0 {
		return days
	}
	for i := range records {
		if !records[i].UpdatedAt.IsZero() {
			days[records[i].UpdatedAt.Local().Format("2006-01-02")] = true
		}
	}
	return days
}

// currentStreak counts consecutive active days backward from the most
// recent active day. This is a current streak, not a best-ever streak.
func currentStreak(days map[string]bool) int {
	if len(days) == 0 {
		return 0
	}

	latest := ""
	for day := range days {
		if day > latest {
			latest = day
		}
	}
	cursor, err := time.ParseInLocation("2006-01-02", latest, time.Local)
	if err != nil {
		return 0
	}

	streak := 0
	for days[cursor.Format("2006-01-02")] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

func lastActivity(records []srs.Record, events []srs.Event) time.Time {
	var last time.Time
	for _, ev := range events {
		if ev.At.After(last) {
			last = ev.At
		}
	}
	for i := range records {
		if records[i].UpdatedAt.After(last) {
			last = records[i].UpdatedAt
		}
	}
	return last
}
