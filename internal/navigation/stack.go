// Package navigation builds the payloads handed between screens and keeps the
// per-session screen stack.
package navigation

import (
	"errors"
	"fmt"

	"github.com/thali-menu/api/internal/enum"
)

var ErrInvalidTransition = errors.New("invalid screen transition")

// Host is the navigation surface the menu controller drives. It is called at
// exactly two points: "View Ingredients" and "Continue".
type Host interface {
	NavigateTo(screen enum.Screen, payload any) error
	GoBack() bool
}

// Entry is one screen on the stack together with the payload it was opened with.
type Entry struct {
	Screen  enum.Screen
	Payload any
}

// transitions lists the screens reachable from each screen. Everything else
// is reached only by going back.
var transitions = map[enum.Screen][]enum.Screen{
	enum.ScreenMenu: {enum.ScreenIngredients, enum.ScreenSummary},
}

// Stack is an in-memory Host rooted at the menu screen. It is not safe for
// concurrent use.
type Stack struct {
	entries []Entry
}

// NewStack returns a stack holding only the menu screen.
func NewStack() *Stack {
	return &Stack{entries: []Entry{{Screen: enum.ScreenMenu}}}
}

// NavigateTo pushes screen with its payload. The payload type must match the
// screen: IngredientPayload for the ingredients screen, SummaryPayload for
// the summary screen.
func (s *Stack) NavigateTo(screen enum.Screen, payload any) error {
	from := s.Current().Screen
	if !allowed(from, screen) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, screen)
	}
	switch p := payload.(type) {
	case IngredientPayload:
		if screen != enum.ScreenIngredients {
			return fmt.Errorf("%w: ingredient payload for %s", ErrInvalidTransition, screen)
		}
	case SummaryPayload:
		if screen != enum.ScreenSummary {
			return fmt.Errorf("%w: summary payload for %s", ErrInvalidTransition, screen)
		}
		payload = p.Clone()
	default:
		return fmt.Errorf("%w: unsupported payload %T", ErrInvalidTransition, payload)
	}
	s.entries = append(s.entries, Entry{Screen: screen, Payload: payload})
	return nil
}

// GoBack pops the top screen. It returns false when already at the menu.
func (s *Stack) GoBack() bool {
	if len(s.entries) <= 1 {
		return false
	}
	s.entries = s.entries[:len(s.entries)-1]
	return true
}

// Current returns the screen on top of the stack.
func (s *Stack) Current() Entry {
	return s.entries[len(s.entries)-1]
}

// Depth is the number of screens on the stack, including the menu.
func (s *Stack) Depth() int {
	return len(s.entries)
}

// Reset drops everything above the menu screen.
func (s *Stack) Reset() {
	s.entries = s.entries[:1]
}

func allowed(from, to enum.Screen) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
