// Package stats renders progress analytics: headline numbers, outcome
// breakdowns, weak tags, most-missed cards, and the activity trend.
package stats

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdeck/internal/analytics"
	"github.com/abhisek/prepdeck/internal/screen"
	"github.com/abhisek/prepdeck/internal/ui/components"
	"github.com/abhisek/prepdeck/internal/ui/layout"
	"github.com/abhisek/prepdeck/internal/ui/theme"
)

// StatsScreen shows the analytics report for the whole catalog.
type StatsScreen struct {
	agg *analytics.Aggregator

	stats  *analytics.Stats
	report *analytics.Report
	scroll int
	err    error
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

// New creates a StatsScreen; data loads on Init.
func New(agg *analytics.Aggregator) *StatsScreen {
	return &StatsScreen{agg: agg}
}

type reportMsg struct {
	stats  *analytics.Stats
	report *analytics.Report
}

type errMsg struct {
	err error
}

func (s *StatsScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		now := time.Now()
		stats, err := s.agg.Stats(ctx, now)
		if err != nil {
			return errMsg{err}
		}
		report, err := s.agg.Analytics(ctx, analytics.Options{}, now)
		if err != nil {
			return errMsg{err}
		}
		return reportMsg{stats, report}
	}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reportMsg:
		s.stats = msg.stats
		s.report = msg.report
		return s, nil
	case errMsg:
		s.err = msg.err
		return s, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.scroll > 0 {
				s.scroll--
			}
		case "down", "j":
			s.scroll++
		}
	}
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	if s.err != nil {
		return theme.Bad.Render("Error: ") + theme.Body.Render(s.err.Error())
	}
	if s.stats == nil || s.report == nil {
		return theme.Hint.Render("  Crunching numbers...")
	}

	lines := s.renderLines(width)

	if s.scroll > len(lines)-1 {
		s.scroll = len(lines) - 1
	}
	if s.scroll < 0 {
		s.scroll = 0
	}
	end := s.scroll + height
	if end > len(lines) {
		end = len(lines)
	}

	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines[s.scroll:end], "\n"))
}

func (s *StatsScreen) renderLines(width int) []string {
	var lines []string

	lines = append(lines, s.renderHeadline()...)
	lines = append(lines, "")
	lines = append(lines, s.renderOverall(width)...)

	if len(s.report.ByLanguage) > 0 {
		lines = append(lines, "")
		lines = append(lines, sectionTitle("By language"))
		lines = append(lines, renderBuckets(languageBuckets(s.report.ByLanguage), width)...)
	}

	if len(s.report.WeakTags) > 0 {
		lines = append(lines, "")
		lines = append(lines, sectionTitle("Weak tags"))
		for _, ts := range s.report.WeakTags {
			lines = append(lines, fmt.Sprintf("  %s %s",
				theme.TagPill.Render(ts.Tag),
				theme.Hint.Render(fmt.Sprintf("%d%% missed over %d attempts", int(ts.BadRate*100), ts.Attempts))))
		}
	}

	if len(s.report.MostMissed) > 0 {
		lines = append(lines, "")
		lines = append(lines, sectionTitle("Most missed"))
		for _, qs := range s.report.MostMissed {
			q := qs.Question
			if len(q) > width-30 && width > 31 {
				q = q[:width-31] + "…"
			}
			lines = append(lines, fmt.Sprintf("  %s %s",
				theme.Bad.Render(fmt.Sprintf("%2d✗", qs.Bad)),
				theme.Body.Render(q)))
		}
	}

	if len(s.report.Trend) > 0 {
		lines = append(lines, "")
		lines = append(lines, sectionTitle(fmt.Sprintf("Last %d days", len(s.report.Trend))))
		lines = append(lines, renderTrend(s.report.Trend)...)
	}

	return lines
}

func (s *StatsScreen) renderHeadline() []string {
	st := s.stats
	return []string{
		theme.Title.Render("  Progress"),
		"",
		fmt.Sprintf("  %s  %s  %s  %s",
			stat("Cards", fmt.Sprintf("%d", st.TotalQuestions)),
			stat("Seen", fmt.Sprintf("%d", st.TotalSeen)),
			stat("Due now", fmt.Sprintf("%d", st.DueNow)),
			stat("Mastered", fmt.Sprintf("%d%%", st.MasteryPercent))),
		fmt.Sprintf("  %s  %s",
			stat("Attempts", fmt.Sprintf("%d", st.TotalAttempts)),
			stat("Streak", fmt.Sprintf("%d days", st.DaysStreak))),
	}
}

func (s *StatsScreen) renderOverall(width int) []string {
	o := s.report.Overall
	barWidth := width - 20
	if barWidth > 60 {
		barWidth = 60
	}

	bar := components.NewProgressBar("Recall", o.GoodRate, true, barWidth)
	return []string{
		"  " + bar.View(),
		theme.Hint.Render(fmt.Sprintf("  %d good · %d partial · %d missed", o.Good, o.KindOf, o.Bad)),
	}
}

type bucket struct {
	name string
	analytics.Outcomes
}

func languageBuckets(m map[string]analytics.Outcomes) []bucket {
	buckets := make([]bucket, 0, len(m))
	for name, o := range m {
		buckets = append(buckets, bucket{name, o})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Attempts != buckets[j].Attempts {
			return buckets[i].Attempts > buckets[j].Attempts
		}
		return buckets[i].name < buckets[j].name
	})
	return buckets
}

func renderBuckets(buckets []bucket, width int) []string {
	barWidth := width - 36
	if barWidth > 40 {
		barWidth = 40
	}
	var lines []string
	for _, b := range buckets {
		bar := components.NewProgressBar(fmt.Sprintf("%-10s", b.name), b.GoodRate, true, barWidth)
		lines = append(lines, fmt.Sprintf("  %s %s",
			bar.View(),
			theme.Hint.Render(fmt.Sprintf("%d attempts", b.Attempts))))
	}
	return lines
}

// renderTrend draws one sparkline-style row per day, oldest first.
func renderTrend(trend []analytics.DayActivity) []string {
	max := 1
	for _, d := range trend {
		if d.Attempts > max {
			max = d.Attempts
		}
	}

	barStyle := lipgloss.NewStyle().Foreground(theme.Secondary)

	var lines []string
	for _, d := range trend {
		width := d.Attempts * 20 / max
		bar := barStyle.Render(strings.Repeat("█", width))
		lines = append(lines, fmt.Sprintf("  %s %s %s",
			theme.Hint.Render(d.Day[5:]),
			bar,
			theme.Hint.Render(fmt.Sprintf("%d", d.Attempts))))
	}
	return lines
}

func stat(label, value string) string {
	return theme.Hint.Render(label+" ") + theme.Body.Render(value)
}

func sectionTitle(s string) string {
	return lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("  " + strings.ToUpper(s))
}

func (s *StatsScreen) Title() string {
	return "Stats"
}

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}
