// Package home is the landing screen: a navigation menu plus a short
// progress summary so the user can see at a glance what is due.
package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdeck/internal/analytics"
	"github.com/abhisek/prepdeck/internal/deck"
	"github.com/abhisek/prepdeck/internal/router"
	"github.com/abhisek/prepdeck/internal/screen"
	"github.com/abhisek/prepdeck/internal/screens/browse"
	"github.com/abhisek/prepdeck/internal/screens/stats"
	"github.com/abhisek/prepdeck/internal/screens/study"
	"github.com/abhisek/prepdeck/internal/session"
	"github.com/abhisek/prepdeck/internal/store"
	"github.com/abhisek/prepdeck/internal/ui/components"
	"github.com/abhisek/prepdeck/internal/ui/layout"
	"github.com/abhisek/prepdeck/internal/ui/theme"
)

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	store *store.Store
	agg   *analytics.Aggregator
	opts  session.Options

	menu  components.Menu
	stats *analytics.Stats
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates the home screen. The session options carry any filters
// given on the command line so they apply to sessions started here.
func New(st *store.Store, agg *analytics.Aggregator, opts session.Options) *HomeScreen {
	h := &HomeScreen{
		store: st,
		agg:   agg,
		opts:  opts,
	}

	items := []components.MenuItem{
		{Label: "Start Session", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: study.New(st, h.opts)}
			}
		}},
		{Label: "Browse Cards", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: browse.New(st, deck.Filters{})}
			}
		}},
		{Label: "Stats", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: stats.New(agg)}
			}
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	h.menu = components.NewMenu(items)
	return h
}

type statsMsg struct {
	stats *analytics.Stats
}

func (h *HomeScreen) Init() tea.Cmd {
	return func() tea.Msg {
		// Best effort; the menu works without the summary line.
		st, err := h.agg.Stats(context.Background(), time.Now())
		if err != nil {
			return statsMsg{nil}
		}
		return statsMsg{st}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsMsg:
		h.stats = msg.stats
		return h, nil
	case tea.KeyMsg:
		if msg.String() == "q" {
			return h, tea.Quit
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, theme.Title.Width(width).Render("PREPDECK"))
	sections = append(sections, theme.Subtitle.Width(width).Render("interview flashcards, spaced just right"))

	if h.stats != nil {
		sections = append(sections, "", h.renderSummary(width))
	}

	sections = append(sections, "", h.menu.View())

	content := strings.Join(sections, "\n")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (h *HomeScreen) renderSummary(width int) string {
	st := h.stats

	var parts []string
	parts = append(parts, fmt.Sprintf("%d cards", st.TotalQuestions))
	if st.DueNow > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("%d due now", st.DueNow)))
	} else {
		parts = append(parts, "nothing due")
	}
	if st.DaysStreak > 0 {
		parts = append(parts, fmt.Sprintf("%d day streak", st.DaysStreak))
	}

	return theme.Hint.Width(width).Align(lipgloss.Center).Render(strings.Join(parts, " · "))
}

// DueCount reports the due-card count for the header, 0 before the
// first stats load completes.
func (h *HomeScreen) DueCount() int {
	if h.stats == nil {
		return 0
	}
	return h.stats.DueNow
}

// Streak reports the study streak for the header.
func (h *HomeScreen) Streak() int {
	if h.stats == nil {
		return 0
	}
	return h.stats.DaysStreak
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Q", Description: "Quit"},
	}
}
