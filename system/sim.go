package system

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/input"
)

// SimResult is the outcome of a headless run.
type SimResult struct {
	Level  string
	State  State
	Steps  int
	Deaths int
	Jumps  int
	Ticks  int
	Marker cp.Vector
	Spawn  cp.Vector
	Events []Event
	// Left is set when the level asked to leave before the run ended.
	Left bool
}

// Simulate plays level for steps ticks against the scripted timeline on a
// fixed clock, one switcher step per tick. The run stops early when the
// level is left or won.
func (w *World) Simulate(level string, tl input.Timeline, steps int) (SimResult, error) {
	if steps <= 0 {
		return SimResult{}, fmt.Errorf("system: simulate %s: steps must be positive", level)
	}
	p, err := w.NewPlayLevel(level)
	if err != nil {
		return SimResult{}, err
	}
	w.Events().Drain()

	clock := input.NewStepClock(common.TickDuration)
	sw := NewSwitcher(p)
	res := SimResult{Level: level}
	for res.Steps < steps {
		events, _ := w.Step(sw, TickContext{Now: clock.Now(), Input: tl.Snapshot(res.Steps)})
		clock.Advance()
		res.Steps++
		res.Events = append(res.Events, events...)
		if sw.Current() != Scene(p) {
			res.Left = true
			break
		}
		if p.Won() {
			break
		}
	}

	res.State = p.State()
	res.Deaths = p.Deaths()
	res.Jumps = p.Jumps()
	res.Ticks = p.Ticks()
	res.Marker = p.Marker()
	res.Spawn = p.SpawnPoint()
	return res, nil
}
