// Package app wires the store, analytics, and screens into the root
// Bubble Tea program.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdeck/internal/analytics"
	"github.com/abhisek/prepdeck/internal/router"
	"github.com/abhisek/prepdeck/internal/screen"
	"github.com/abhisek/prepdeck/internal/screens/home"
	"github.com/abhisek/prepdeck/internal/screens/study"
	"github.com/abhisek/prepdeck/internal/session"
	"github.com/abhisek/prepdeck/internal/store"
	"github.com/abhisek/prepdeck/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	agg    *analytics.Aggregator

	// startScreen, when set, is pushed on top of home at startup so
	// `prepdeck study` drops straight into a session.
	startScreen screen.Screen

	width  int
	height int
	due    int
	streak int
}

// headerStatsMsg refreshes the due count and streak shown in the header.
type headerStatsMsg struct {
	due    int
	streak int
}

func newAppModel(st *store.Store, opts session.Options) AppModel {
	agg := analytics.NewAggregator(st)
	homeScreen := home.New(st, agg, opts)
	return AppModel{
		router: router.New(homeScreen),
		agg:    agg,
	}
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.router.Active().Init(), m.loadHeaderStats()}
	if m.startScreen != nil {
		s := m.startScreen
		cmds = append(cmds, func() tea.Msg { return router.PushScreenMsg{Screen: s} })
	}
	return tea.Batch(cmds...)
}

// loadHeaderStats recomputes the header numbers off the event loop.
func (m AppModel) loadHeaderStats() tea.Cmd {
	agg := m.agg
	return func() tea.Msg {
		stats, err := agg.Stats(context.Background(), time.Now())
		if err != nil {
			return headerStatsMsg{}
		}
		return headerStatsMsg{due: stats.DueNow, streak: stats.DaysStreak}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case headerStatsMsg:
		m.due = msg.due
		m.streak = msg.streak
		return m, nil

	case router.PopScreenMsg:
		// Returning from a session changes what is due.
		cmd := m.router.Update(msg)
		return m, tea.Batch(cmd, m.loadHeaderStats())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.due, m.streak, m.width)

	footerHints := m.footerHints(active)
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// footerHints asks the active screen for its hints and always appends
// the global quit binding.
func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if provider, ok := active.(screen.KeyHintProvider); ok {
		hints = provider.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Run starts the TUI on the home screen.
func Run(st *store.Store, opts session.Options) error {
	return run(newAppModel(st, opts))
}

// RunStudy starts the TUI directly in a study session.
func RunStudy(st *store.Store, opts session.Options) error {
	m := newAppModel(st, opts)
	m.startScreen = study.New(st, opts)
	return run(m)
}

func run(m AppModel) error {
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
