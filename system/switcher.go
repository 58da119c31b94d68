package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/platformer/render"
)

// Switcher owns the active scene pointer.
type Switcher struct {
	current Scene
	ticks   int
}

func NewSwitcher(first Scene) *Switcher {
	return &Switcher{current: first}
}

// Current returns the active scene, nil once the game has closed.
func (s *Switcher) Current() Scene { return s.current }

func (s *Switcher) Closed() bool { return s.current == nil }

// Ticks returns the number of ticks stepped since creation.
func (s *Switcher) Ticks() int { return s.ticks }

// Step advances the active scene by exactly one tick and applies any scene
// change it requests. It reports whether the game is still running.
func (s *Switcher) Step(ctx TickContext) bool {
	if s.current == nil {
		return false
	}
	s.ticks++
	s.current.HandleInput(ctx)
	s.current.Update(ctx)

	next := s.current.Next()
	if next == s.current {
		return true
	}
	if next == nil {
		log.Info("closing game", "from", s.current.Kind())
	} else {
		log.Info("scene changed", "from", s.current.Kind(), "to", next.Kind())
	}
	s.current = next
	return s.current != nil
}

// Replace swaps the active scene without running a tick.
func (s *Switcher) Replace(next Scene) {
	s.current = next
}

func (s *Switcher) Draw(dst render.Sink) {
	if s.current == nil {
		return
	}
	s.current.Draw(dst)
}
