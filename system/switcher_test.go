package system

import (
	"errors"
	"testing"
	"time"

	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/input"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/obj"
	"github.com/milk9111/platformer/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScene struct {
	kind    Kind
	inputs  int
	updates int
	next    Scene
	stay    bool
}

func (s *stubScene) Kind() Kind              { return s.kind }
func (s *stubScene) HandleInput(TickContext) { s.inputs++ }
func (s *stubScene) Update(TickContext)      { s.updates++ }
func (s *stubScene) Draw(dst render.Sink)    { dst.Text("stub", 0, 0, 10, nil, render.AlignStart) }
func (s *stubScene) Next() Scene {
	if s.stay {
		return s
	}
	return s.next
}

func TestSwitcherStep(t *testing.T) {
	second := &stubScene{kind: KindPlay, stay: true}
	first := &stubScene{kind: KindMenu, stay: true}
	sw := NewSwitcher(first)

	require.True(t, sw.Step(TickContext{}))
	assert.Equal(t, 1, first.inputs)
	assert.Equal(t, 1, first.updates)
	assert.Same(t, first, sw.Current())

	first.stay = false
	first.next = second
	require.True(t, sw.Step(TickContext{}))
	assert.Same(t, second, sw.Current())
	assert.Zero(t, second.updates, "the new scene starts on the next tick")

	second.stay = false
	assert.False(t, sw.Step(TickContext{}))
	assert.True(t, sw.Closed())
	assert.False(t, sw.Step(TickContext{}))
	assert.Equal(t, 3, sw.Ticks())

	var rec render.Recorder
	sw.Draw(&rec)
	assert.Empty(t, rec.Commands)
}

type fakeSource struct {
	levels map[string]*levels.Level
}

func (f *fakeSource) Names() []string {
	return []string{"a", "b", "broken"}
}

func (f *fakeSource) Load(name string) (*levels.Level, error) {
	if lvl, ok := f.levels[name]; ok {
		return lvl, nil
	}
	return nil, errors.Join(levels.ErrUnknownLevel, errors.New(name))
}

func TestMenu(t *testing.T) {
	a := testLevel(obj.Layout{Platforms: []common.Rect{floor}})
	a.ID = "a"
	w := NewWorld(&fakeSource{levels: map[string]*levels.Level{"a": a}}, DefaultLevelOptions())
	w.Records = bestTable{"a": {Deaths: 2, Ticks: 240}}

	m := w.NewMenu("")
	assert.Equal(t, "a", m.Selected())

	press := func(actions ...input.Action) {
		m.HandleInput(TickContext{Now: time.Second, Input: input.Snapshot{Pressed: actions}})
	}
	press(input.ActionLeft)
	assert.Equal(t, "broken", m.Selected())
	press(input.ActionRight, input.ActionRight)
	assert.Equal(t, "b", m.Selected())

	press(input.ActionJump)
	assert.Same(t, m, m.Next(), "a level that fails to load keeps the menu")

	var rec render.Recorder
	m.Draw(&rec)
	assert.Contains(t, rec.Texts(), "could not load b")
	assert.Contains(t, rec.Texts(), "a   best: 2 deaths, 2.00s")

	press(input.ActionLeft, input.ActionJump)
	next := m.Next()
	require.NotNil(t, next)
	p, ok := next.(*PlayLevel)
	require.True(t, ok)
	assert.Equal(t, "a", p.ID())

	// Leaving the level returns to a menu with it selected.
	p.HandleInput(TickContext{Input: input.Snapshot{Pressed: []input.Action{input.ActionPause, input.ActionMenu}}})
	back, ok := p.Next().(*Menu)
	require.True(t, ok)
	assert.Equal(t, "a", back.Selected())

	back.HandleInput(TickContext{Input: input.Snapshot{Pressed: []input.Action{input.ActionQuit}}})
	assert.Nil(t, back.Next())
}

type bestTable map[string]Best

func (b bestTable) Best(level string) (Best, bool) {
	best, ok := b[level]
	return best, ok
}

func TestWorldReload(t *testing.T) {
	w := NewWorld(&levels.Source{Embedded: levels.LevelsFS}, DefaultLevelOptions())
	require.NotNil(t, w.Events())

	p, err := w.NewPlayLevel("01_first_steps")
	require.NoError(t, err)
	p.HandleInput(TickContext{Input: input.Snapshot{Pressed: []input.Action{input.ActionJump}}})
	p.Update(TickContext{})
	require.Equal(t, StateRunning, p.State())

	same, err := w.Reload(p, "02_checkpoints")
	require.NoError(t, err)
	assert.Same(t, p, same)

	fresh, err := w.Reload(p, "01_first_steps")
	require.NoError(t, err)
	require.NotSame(t, p, fresh)
	assert.Equal(t, StateSpawning, fresh.(*PlayLevel).State())

	_, err = w.NewPlayLevel("missing")
	assert.ErrorIs(t, err, levels.ErrUnknownLevel)
}

func TestWorldStepDrainsOnClose(t *testing.T) {
	lvl := testLevel(obj.Layout{Platforms: []common.Rect{floor}})
	lvl.ID = "a"
	w := NewWorld(&fakeSource{levels: map[string]*levels.Level{"a": lvl}}, DefaultLevelOptions())
	p, err := w.NewPlayLevel("a")
	require.NoError(t, err)
	sw := NewSwitcher(p)

	events, running := w.Step(sw, at(0, input.ActionJump))
	require.True(t, running)
	assert.Empty(t, events)

	events, running = w.Step(sw, at(10, input.ActionPause))
	require.True(t, running)
	assert.Equal(t, []EventKind{EventPaused}, kinds(events))

	events, running = w.Step(sw, at(20, input.ActionQuit))
	assert.False(t, running)
	assert.True(t, sw.Closed())
	require.Equal(t, []EventKind{EventAbandoned}, kinds(events))
	assert.Equal(t, "a", events[0].Level)
	assert.Empty(t, w.Events().Drain())
}
