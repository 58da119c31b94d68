package system

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/milk9111/platformer/levels"
)

// LevelSource lists and loads levels.
type LevelSource interface {
	Names() []string
	Load(name string) (*levels.Level, error)
}

// Best is the best recorded result for a level.
type Best struct {
	Deaths int
	Ticks  int
}

// Records looks up best results for the menu.
type Records interface {
	Best(level string) (Best, bool)
}

// World owns level loading and builds scenes.
type World struct {
	Levels  LevelSource
	Options LevelOptions
	Records Records
}

// NewWorld creates a world. A nil event queue in opts is replaced with a
// fresh one.
func NewWorld(src LevelSource, opts LevelOptions) *World {
	if opts.Events == nil {
		opts.Events = &EventQueue{}
	}
	return &World{Levels: src, Options: opts}
}

func (w *World) Events() *EventQueue { return w.Options.Events }

// NewPlayLevel loads the named level and builds an attempt at it.
func (w *World) NewPlayLevel(name string) (*PlayLevel, error) {
	if w == nil || w.Levels == nil {
		return nil, fmt.Errorf("world is nil")
	}
	lvl, err := w.Levels.Load(name)
	if err != nil {
		return nil, err
	}
	p, err := NewPlayLevel(lvl, w.Options)
	if err != nil {
		return nil, err
	}
	p.SetMenu(func() Scene { return w.NewMenu(lvl.ID) })
	log.Info("level loaded", "level", lvl.ID, "name", lvl.Name,
		"platforms", len(lvl.Layout.Platforms), "death_zones", len(lvl.Layout.DeathZones),
		"win_zones", len(lvl.Layout.WinZones), "respawn_zones", len(lvl.Layout.RespawnZones))
	return p, nil
}

// NewMenu builds the level select menu with selected highlighted.
func (w *World) NewMenu(selected string) *Menu {
	m := &Menu{world: w, names: w.Levels.Names()}
	for i, n := range m.names {
		if n == selected {
			m.selected = i
		}
	}
	return m
}

// Reload rebuilds scene from disk if it is an attempt at level. Any other
// scene is returned unchanged.
func (w *World) Reload(scene Scene, level string) (Scene, error) {
	p, ok := scene.(*PlayLevel)
	if !ok || p.ID() != level {
		return scene, nil
	}
	fresh, err := w.NewPlayLevel(level)
	if err != nil {
		return scene, fmt.Errorf("system: reload %s: %w", level, err)
	}
	log.Info("level reloaded", "level", level)
	return fresh, nil
}

// Step advances sw by one tick and drains the events it produced. The
// events are returned even on the tick the game closes, so a run abandoned
// by quitting still reaches the caller.
func (w *World) Step(sw *Switcher, ctx TickContext) ([]Event, bool) {
	running := sw.Step(ctx)
	return w.Events().Drain(), running
}
