// Package router keeps the screen stack for the TUI. The home menu sits
// at the bottom and is never popped; study, browse, and stats screens are
// pushed on top of it and pop back when they finish.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/prepdeck/internal/screen"
)

// PushScreenMsg asks the router to make the given screen active.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg asks the router to return to the screen underneath.
type PopScreenMsg struct{}

// Router is a stack of screens. Only the top screen receives messages
// and renders.
type Router struct {
	stack []screen.Screen
}

// New creates a Router with the given screen at the bottom of the stack.
// The caller runs the initial screen's Init itself, alongside its own
// startup commands.
func New(bottom screen.Screen) *Router {
	return &Router{stack: []screen.Screen{bottom}}
}

// Push makes s the active screen and returns its Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop discards the active screen. The bottom screen stays put: popping at
// depth 1 does nothing, so the app always has something to render.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) > 1 {
		r.stack = r.stack[:len(r.stack)-1]
	}
	return nil
}

// Active returns the screen currently on top, or nil for an empty stack.
func (r *Router) Active() screen.Screen {
	return r.top()
}

// Depth reports how many screens are stacked.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Update intercepts navigation messages and routes everything else to the
// active screen, storing whatever screen value it returns.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	}

	top := r.top()
	if top == nil {
		return nil
	}
	next, cmd := top.Update(msg)
	r.stack[len(r.stack)-1] = next
	return cmd
}

// View renders the active screen into the given content area.
func (r *Router) View(width, height int) string {
	top := r.top()
	if top == nil {
		return ""
	}
	return top.View(width, height)
}

func (r *Router) top() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}
