// Package study implements the flashcard review flow: show a question,
// reveal the model answer, let the user self-grade, persist the result.
package study

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/prepdeck/internal/deck"
	"github.com/abhisek/prepdeck/internal/screen"
	"github.com/abhisek/prepdeck/internal/session"
	"github.com/abhisek/prepdeck/internal/srs"
	"github.com/abhisek/prepdeck/internal/store"
	"github.com/abhisek/prepdeck/internal/ui/layout"
)

// phase tracks where the user is inside the review loop.
type phase int

const (
	phaseLoading phase = iota
	phaseAsking
	phaseRevealed
	phaseSummary
	phaseError
)

// StudyScreen runs one review session.
type StudyScreen struct {
	store *store.Store
	opts  session.Options

	phase   phase
	result  *session.Result
	index   int
	grades  map[srs.Evaluation]int
	lastRec *srs.Record
	err     error
}

var _ screen.Screen = (*StudyScreen)(nil)
var _ screen.KeyHintProvider = (*StudyScreen)(nil)

// New creates a StudyScreen that builds its session on Init.
func New(st *store.Store, opts session.Options) *StudyScreen {
	return &StudyScreen{
		store:  st,
		opts:   opts,
		phase:  phaseLoading,
		grades: make(map[srs.Evaluation]int),
	}
}

type sessionReadyMsg struct {
	result *session.Result
}

type gradeSavedMsg struct {
	record *srs.Record
}

type errMsg struct {
	err error
}

func (s *StudyScreen) Init() tea.Cmd {
	return func() tea.Msg {
		builder := session.NewBuilder(s.store)
		result, err := builder.Build(context.Background(), s.opts)
		if err != nil {
			return errMsg{err}
		}
		return sessionReadyMsg{result}
	}
}

func (s *StudyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionReadyMsg:
		s.result = msg.result
		if len(s.result.Questions) == 0 {
			s.phase = phaseSummary
		} else {
			s.phase = phaseAsking
		}
		return s, nil

	case gradeSavedMsg:
		s.lastRec = msg.record
		s.index++
		if s.index >= len(s.result.Questions) {
			s.phase = phaseSummary
		} else {
			s.phase = phaseAsking
		}
		return s, nil

	case errMsg:
		s.phase = phaseError
		s.err = msg.err
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *StudyScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.phase {
	case phaseAsking:
		switch msg.String() {
		case "enter", " ":
			s.phase = phaseRevealed
		}

	case phaseRevealed:
		switch msg.String() {
		case "1":
			return s, s.grade(srs.EvalBad)
		case "2":
			return s, s.grade(srs.EvalKindOf)
		case "3":
			return s, s.grade(srs.EvalGood)
		}
	}

	return s, nil
}

// grade persists the self-evaluation for the current card.
func (s *StudyScreen) grade(eval srs.Evaluation) tea.Cmd {
	q := s.current()
	if q == nil {
		return nil
	}
	s.grades[eval]++
	id := q.ID
	return func() tea.Msg {
		rec, err := s.store.SaveEvaluation(context.Background(), id, eval, time.Now())
		if err != nil {
			return errMsg{fmt.Errorf("save evaluation for %s: %w", id, err)}
		}
		return gradeSavedMsg{rec}
	}
}

func (s *StudyScreen) current() *deck.Question {
	if s.result == nil || s.index >= len(s.result.Questions) {
		return nil
	}
	return &s.result.Questions[s.index]
}

func (s *StudyScreen) Title() string {
	return "Study"
}

func (s *StudyScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseAsking:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Reveal answer"},
			{Key: "Esc", Description: "End session"},
		}
	case phaseRevealed:
		return []layout.KeyHint{
			{Key: "1", Description: "Didn't know"},
			{Key: "2", Description: "Partially"},
			{Key: "3", Description: "Knew it"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	}
}
