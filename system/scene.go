package system

import (
	"time"

	"github.com/milk9111/platformer/input"
	"github.com/milk9111/platformer/render"
)

// Kind tags the concrete scene behind a Scene.
type Kind int

const (
	KindMenu Kind = iota
	KindPlay
)

func (k Kind) String() string {
	switch k {
	case KindMenu:
		return "menu"
	case KindPlay:
		return "play"
	default:
		return "unknown"
	}
}

// TickContext carries everything a scene may read during one tick.
type TickContext struct {
	// Now is the monotonic clock reading for the tick.
	Now   time.Duration
	Input input.Snapshot
}

// Scene is one screen of the game. The switcher calls HandleInput, then
// Update, then asks Next for the scene to run on the following tick: the
// receiver to stay, another scene to switch, or nil to close the game.
type Scene interface {
	Kind() Kind
	HandleInput(ctx TickContext)
	Update(ctx TickContext)
	Draw(dst render.Sink)
	Next() Scene
}
