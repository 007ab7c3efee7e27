package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learntrack/internal/screen"
)

// PushScreenMsg requests the router to push a new screen onto the stack.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg requests the router to pop the current screen off the stack.
// A non-nil Result is delivered to the screen that becomes active.
type PopScreenMsg struct {
	Result tea.Msg
}

// ReplaceScreenMsg requests the router to swap the active screen.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router manages a stack of screens.
type Router struct {
	stack []screen.Screen
}

// New creates a new Router with the given initial screen.
func New(initial screen.Screen) *Router {
	return &Router{
		stack: []screen.Screen{initial},
	}
}

// Push adds a screen on top of the stack and calls its Init().
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop removes the top screen. No-op if stack depth would become 0.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

// Replace swaps the top screen for s and calls its Init(). Depth is unchanged.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if len(r.stack) == 0 {
		r.stack = []screen.Screen{s}
	} else {
		r.stack[len(r.stack)-1] = s
	}
	return s.Init()
}

// Active returns the top screen on the stack.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of screens on the stack.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Update handles navigation messages and forwards everything else to the
// active screen. A message owned by a screen lower in the stack goes to that
// screen instead.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case PopScreenMsg:
		if r.Depth() <= 1 {
			return nil
		}
		r.Pop()
		if msg.Result == nil {
			return nil
		}
		return r.forward(msg.Result)
	}
	if i := r.owner(msg); i >= 0 {
		return r.deliver(i, msg)
	}
	return r.forward(msg)
}

// owner returns the index of the topmost screen that owns msg, or -1.
func (r *Router) owner(msg tea.Msg) int {
	for i := len(r.stack) - 1; i >= 0; i-- {
		if o, ok := r.stack[i].(screen.MessageOwner); ok && o.Owns(msg) {
			return i
		}
	}
	return -1
}

func (r *Router) forward(msg tea.Msg) tea.Cmd {
	if len(r.stack) == 0 {
		return nil
	}
	return r.deliver(len(r.stack)-1, msg)
}

func (r *Router) deliver(i int, msg tea.Msg) tea.Cmd {
	updated, cmd := r.stack[i].Update(msg)
	r.stack[i] = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}
