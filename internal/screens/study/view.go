package study

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdeck/internal/srs"
	"github.com/abhisek/prepdeck/internal/ui/components"
	"github.com/abhisek/prepdeck/internal/ui/theme"
)

func (s *StudyScreen) View(width, height int) string {
	var body string

	switch s.phase {
	case phaseLoading:
		body = theme.Hint.Render("Building session...")
	case phaseError:
		body = theme.Bad.Render("Error: ") + theme.Body.Render(s.err.Error())
	case phaseSummary:
		body = s.viewSummary(width)
	default:
		body = s.viewCard(width)
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)
}

func (s *StudyScreen) viewCard(width int) string {
	q := s.current()
	if q == nil {
		return ""
	}

	cardWidth := width * 3 / 4
	if cardWidth > 90 {
		cardWidth = 90
	}
	if cardWidth < 40 {
		cardWidth = 40
	}

	var sections []string

	progress := components.NewProgressBar(
		fmt.Sprintf("Card %d/%d", s.index+1, len(s.result.Questions)),
		float64(s.index)/float64(len(s.result.Questions)),
		false,
		cardWidth,
	)
	sections = append(sections, progress.View())

	meta := theme.Hint.Render(fmt.Sprintf("%s · %s", q.Language, q.Difficulty))
	if len(q.Tags) > 0 {
		meta += "  " + theme.Hint.Render(strings.Join(q.Tags, ", "))
	}
	sections = append(sections, meta)

	sections = append(sections, theme.Card.Width(cardWidth).Render(
		theme.Body.Render(q.Question),
	))

	if s.phase == phaseRevealed {
		var answer []string
		answer = append(answer, theme.Good.Render("Answer"))
		answer = append(answer, theme.Body.Render(q.ShortAnswer))

		if len(q.KeyPoints) > 0 {
			answer = append(answer, "")
			answer = append(answer, theme.Selected.Render("Key points"))
			for _, p := range q.KeyPoints {
				answer = append(answer, theme.Body.Render("  • "+p))
			}
		}
		if len(q.RedFlags) > 0 {
			answer = append(answer, "")
			answer = append(answer, theme.Bad.Render("Red flags"))
			for _, f := range q.RedFlags {
				answer = append(answer, theme.Body.Render("  ✗ "+f))
			}
		}

		sections = append(sections, theme.Card.Width(cardWidth).Render(
			strings.Join(answer, "\n"),
		))
		sections = append(sections, theme.Hint.Render("How did you do?  1 didn't know · 2 partially · 3 knew it"))
	} else {
		sections = append(sections, theme.Hint.Render("Answer out loud, then press Enter to reveal"))
	}

	return strings.Join(sections, "\n\n")
}

func (s *StudyScreen) viewSummary(width int) string {
	var lines []string

	lines = append(lines, theme.Title.Render("Session complete"))
	lines = append(lines, "")

	if s.result != nil && len(s.result.Questions) == 0 {
		lines = append(lines, theme.Body.Render("Nothing to review right now."))
		lines = append(lines, theme.Hint.Render("Import a deck or come back when cards are due."))
		return strings.Join(lines, "\n")
	}

	if s.result != nil {
		m := s.result.Makeup
		lines = append(lines, theme.Hint.Render(
			fmt.Sprintf("%d due · %d new · %d extra", m.Due, m.New, m.Extra)))
		lines = append(lines, "")
	}

	lines = append(lines, theme.Good.Render(fmt.Sprintf("  Knew it      %d", s.grades[srs.EvalGood])))
	lines = append(lines, theme.KindOf.Render(fmt.Sprintf("  Partially    %d", s.grades[srs.EvalKindOf])))
	lines = append(lines, theme.Bad.Render(fmt.Sprintf("  Didn't know  %d", s.grades[srs.EvalBad])))

	if s.lastRec != nil {
		lines = append(lines, "")
		lines = append(lines, theme.Hint.Render(
			fmt.Sprintf("Last card comes back %s", s.lastRec.NextReview.Local().Format("Jan 2 15:04"))))
	}

	lines = append(lines, "")
	lines = append(lines, theme.Hint.Render("Press Esc to go back"))

	return strings.Join(lines, "\n")
}
