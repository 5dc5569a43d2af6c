// Package browse lets the user search and page through the catalog.
package browse

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdeck/internal/deck"
	"github.com/abhisek/prepdeck/internal/screen"
	"github.com/abhisek/prepdeck/internal/store"
	"github.com/abhisek/prepdeck/internal/ui/components"
	"github.com/abhisek/prepdeck/internal/ui/layout"
	"github.com/abhisek/prepdeck/internal/ui/theme"
)

const pageSize = 10

// BrowseScreen is a searchable view of the question catalog.
type BrowseScreen struct {
	store   *store.Store
	filters deck.Filters

	search   components.TextInput
	catalog  []deck.Question
	matches  []deck.Question
	selected int
	offset   int
	expanded bool
	err      error
}

var _ screen.Screen = (*BrowseScreen)(nil)
var _ screen.KeyHintProvider = (*BrowseScreen)(nil)

// New creates a BrowseScreen; the catalog loads on Init.
func New(st *store.Store, filters deck.Filters) *BrowseScreen {
	return &BrowseScreen{
		store:   st,
		filters: filters,
		search:  components.NewTextInput("search question text or tags", 64),
	}
}

type catalogLoadedMsg struct {
	questions []deck.Question
}

type errMsg struct {
	err error
}

func (b *BrowseScreen) Init() tea.Cmd {
	load := func() tea.Msg {
		qs, err := b.store.Questions(context.Background(), b.filters)
		if err != nil {
			return errMsg{err}
		}
		return catalogLoadedMsg{qs}
	}
	return tea.Batch(load, b.search.Init())
}

func (b *BrowseScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogLoadedMsg:
		b.catalog = msg.questions
		b.refilter()
		return b, nil

	case errMsg:
		b.err = msg.err
		return b, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			if b.selected > 0 {
				b.selected--
			}
			b.clampOffset()
			return b, nil
		case "down":
			if b.selected < len(b.matches)-1 {
				b.selected++
			}
			b.clampOffset()
			return b, nil
		case "enter":
			b.expanded = !b.expanded
			return b, nil
		}
	}

	var cmd tea.Cmd
	b.search, cmd = b.search.Update(msg)
	b.refilter()
	return b, cmd
}

// refilter recomputes matches from the current search query.
func (b *BrowseScreen) refilter() {
	query := strings.ToLower(strings.TrimSpace(b.search.Value()))
	if query == "" {
		b.matches = b.catalog
	} else {
		b.matches = nil
		for _, q := range b.catalog {
			if matchesQuery(&q, query) {
				b.matches = append(b.matches, q)
			}
		}
	}
	if b.selected >= len(b.matches) {
		b.selected = len(b.matches) - 1
	}
	if b.selected < 0 {
		b.selected = 0
	}
	b.clampOffset()
}

func matchesQuery(q *deck.Question, query string) bool {
	if strings.Contains(strings.ToLower(q.Question), query) {
		return true
	}
	if strings.Contains(strings.ToLower(q.ID), query) {
		return true
	}
	for _, tag := range q.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func (b *BrowseScreen) clampOffset() {
	if b.selected < b.offset {
		b.offset = b.selected
	}
	if b.selected >= b.offset+pageSize {
		b.offset = b.selected - pageSize + 1
	}
}

func (b *BrowseScreen) View(width, height int) string {
	if b.err != nil {
		return theme.Bad.Render("Error: ") + theme.Body.Render(b.err.Error())
	}

	var lines []string
	lines = append(lines, "  "+b.search.View())
	lines = append(lines, theme.Hint.Render(fmt.Sprintf("  %d of %d cards", len(b.matches), len(b.catalog))))
	lines = append(lines, "")

	end := b.offset + pageSize
	if end > len(b.matches) {
		end = len(b.matches)
	}

	for i := b.offset; i < end; i++ {
		q := b.matches[i]
		label := fmt.Sprintf("%-28s %-8s %-7s %s", truncate(q.ID, 28), q.Language, q.Difficulty, truncate(q.Question, 60))
		if i == b.selected {
			lines = append(lines, theme.Selected.Render("  ▸ "+label))
			if b.expanded {
				lines = append(lines, b.renderDetail(&q, width))
			}
		} else {
			lines = append(lines, theme.Unselected.Render("    "+label))
		}
	}

	if len(b.matches) == 0 {
		lines = append(lines, theme.Hint.Render("  No cards match."))
	}

	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (b *BrowseScreen) renderDetail(q *deck.Question, width int) string {
	cardWidth := width - 8
	if cardWidth > 100 {
		cardWidth = 100
	}

	var parts []string
	parts = append(parts, theme.Good.Render("Answer: ")+theme.Body.Render(q.ShortAnswer))
	for _, p := range q.KeyPoints {
		parts = append(parts, theme.Body.Render("  • "+p))
	}
	if len(q.Tags) > 0 {
		parts = append(parts, theme.Hint.Render("tags: "+strings.Join(q.Tags, ", ")))
	}
	return theme.Card.Width(cardWidth).Render(strings.Join(parts, "\n"))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}

func (b *BrowseScreen) Title() string {
	return "Browse"
}

func (b *BrowseScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Expand"},
		{Key: "Esc", Description: "Back"},
	}
}
