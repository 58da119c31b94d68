package system

import (
	"math"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/input"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/obj"
	"github.com/milk9111/platformer/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// home is the body's top-left corner under the default options.
var home = cp.Vector{X: 535, Y: 283}

var floor = common.NewRect(0, 293, 1080, 10)

func testLevel(layout obj.Layout) *levels.Level {
	return &levels.Level{
		ID:           "test",
		Name:         "Test",
		Spawn:        home,
		OutOfBoundsY: levels.DefaultOutOfBoundsY,
		Layout:       layout,
	}
}

func newLevel(t *testing.T, lvl *levels.Level) (*PlayLevel, *EventQueue) {
	t.Helper()
	opts := DefaultLevelOptions()
	opts.Events = &EventQueue{}
	p, err := NewPlayLevel(lvl, opts)
	require.NoError(t, err)
	return p, opts.Events
}

func at(ms int, pressed ...input.Action) TickContext {
	return TickContext{
		Now:   time.Duration(ms) * time.Millisecond,
		Input: input.Snapshot{Pressed: pressed},
	}
}

func holding(ms int, held ...input.Action) TickContext {
	ctx := at(ms)
	ctx.Input.Held = make(map[input.Action]bool)
	for _, a := range held {
		ctx.Input.Held[a] = true
	}
	return ctx
}

func tick(p *PlayLevel, ctx TickContext) {
	p.HandleInput(ctx)
	p.Update(ctx)
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func TestNewPlayLevelPlacesSpawnUnderBody(t *testing.T) {
	lvl := testLevel(obj.Layout{Platforms: []common.Rect{common.NewRect(0, 500, 400, 20)}})
	lvl.Spawn = cp.Vector{X: 100, Y: 400}
	p, _ := newLevel(t, lvl)

	assert.Equal(t, StateSpawning, p.State())
	assert.Equal(t, home, p.Marker())
	assert.Equal(t, home, p.SpawnPoint())
	assert.Equal(t, common.NewRect(435, 383, 400, 20), p.Geometry().Rect(obj.ZonePlatform, 0))
	assert.Equal(t, cp.Vector{X: 540, Y: 288}, p.Body().Position)

	_, err := NewPlayLevel(testLevel(obj.Layout{}), DefaultLevelOptions())
	assert.ErrorIs(t, err, obj.ErrNoPlatforms)
}

func TestSpawningWaitsForJump(t *testing.T) {
	p, _ := newLevel(t, testLevel(obj.Layout{Platforms: []common.Rect{common.NewRect(0, 1000, 10, 10)}}))

	for i := 0; i < 50; i++ {
		tick(p, at(i*8, input.ActionLeft))
	}
	assert.Equal(t, StateSpawning, p.State())
	assert.Equal(t, home, p.Marker())
	assert.Zero(t, p.Ticks())

	tick(p, at(400, input.ActionJump))
	assert.Equal(t, StateRunning, p.State())
	assert.True(t, p.Body().Alive)
	assert.Less(t, p.Marker().Y, home.Y, "body falls once alive")
	assert.Equal(t, 1, p.Ticks())
	assert.Zero(t, p.Jumps(), "reviving is not a jump")
}

func TestRunningOnFloor(t *testing.T) {
	p, events := newLevel(t, testLevel(obj.Layout{Platforms: []common.Rect{floor}}))
	tick(p, at(0, input.ActionJump))
	require.Equal(t, StateRunning, p.State())
	require.True(t, p.Body().Grounded())
	assert.Equal(t, home, p.Marker())

	t.Run("jump_cooldown", func(t *testing.T) {
		tick(p, at(100, input.ActionJump))
		assert.Zero(t, p.Jumps())
	})

	t.Run("jump", func(t *testing.T) {
		tick(p, at(150, input.ActionJump))
		assert.Equal(t, 1, p.Jumps())
		assert.Equal(t, home.Y+10, p.Marker().Y)
		assert.Equal(t, []EventKind{EventJumped}, kinds(events.Drain()))

		for i := 0; i < 200; i++ {
			tick(p, at(160+i*8))
		}
		assert.True(t, p.Body().Grounded())
		assert.InDelta(t, home.Y, p.Marker().Y, common.Epsilon)
	})
}

func TestHorizontalInput(t *testing.T) {
	p, _ := newLevel(t, testLevel(obj.Layout{Platforms: []common.Rect{floor}}))
	tick(p, at(0, input.ActionJump))

	// A press moves once; the first held tick also moves.
	ctx := holding(1000, input.ActionRight)
	ctx.Input.Pressed = []input.Action{input.ActionRight}
	tick(p, ctx)
	assert.Equal(t, home.X-8, p.Marker().X)

	tick(p, holding(1010, input.ActionRight))
	assert.Equal(t, home.X-8, p.Marker().X, "repeat needs more than 10ms")

	tick(p, holding(1011, input.ActionRight))
	assert.Equal(t, home.X-12, p.Marker().X)

	tick(p, holding(1030, input.ActionLeft))
	assert.Equal(t, home.X-8, p.Marker().X)
}

func TestWallStopsMovement(t *testing.T) {
	wall := common.NewRect(547, 200, 20, 93)
	p, _ := newLevel(t, testLevel(obj.Layout{Platforms: []common.Rect{floor, wall}}))
	tick(p, at(0, input.ActionJump))

	tick(p, at(100, input.ActionRight))
	assert.Equal(t, home.X-2, p.Marker().X, "clamped to the wall")
	assert.Equal(t, p.Body().Rect().Right(), p.Geometry().Rect(obj.ZonePlatform, 1).X)

	assert.True(t, p.Body().DisableRight)

	for i := 0; i < 10; i++ {
		tick(p, at(200+i*20, input.ActionRight))
		tick(p, holding(210+i*20, input.ActionRight))
	}
	assert.Equal(t, home.X-2, p.Marker().X)
	assert.True(t, p.Body().DisableRight)

	tick(p, at(500, input.ActionLeft))
	assert.Equal(t, home.X+2, p.Marker().X)
	assert.False(t, p.Body().DisableRight, "lockout clears once the wall is a full step away")
}

func TestDeathCountsOnce(t *testing.T) {
	spike := common.NewRect(530, 280, 20, 20)
	p, events := newLevel(t, testLevel(obj.Layout{
		Platforms:  []common.Rect{floor},
		DeathZones: []common.Rect{spike},
	}))

	tick(p, at(0, input.ActionJump))
	assert.Equal(t, 1, p.Deaths())
	assert.Equal(t, StateSpawning, p.State())
	assert.False(t, p.Body().Alive)
	assert.Equal(t, []EventKind{EventDied, EventSpawned}, kinds(events.Drain()))

	for i := 1; i < 20; i++ {
		tick(p, at(i*8))
	}
	assert.Equal(t, 1, p.Deaths())
	assert.Empty(t, events.Drain())
}

func TestFallIntoDeathZoneResetsToSpawn(t *testing.T) {
	p, _ := newLevel(t, testLevel(obj.Layout{
		Platforms:  []common.Rect{common.NewRect(0, 600, 100, 10)},
		DeathZones: []common.Rect{common.NewRect(0, 400, 1080, 20)},
	}))
	tick(p, at(0, input.ActionJump))
	for i := 1; i < 500 && p.Deaths() == 0; i++ {
		tick(p, at(i*8))
	}
	require.Equal(t, 1, p.Deaths())
	assert.Equal(t, StateSpawning, p.State())
	assert.Equal(t, home, p.Marker())
	assert.InDelta(t, 400, p.Geometry().Rect(obj.ZoneDeath, 0).Y, 1e-9)
}

func TestRespawnZoneSetsSpawnPoint(t *testing.T) {
	opts := DefaultLevelOptions()
	opts.Anchor = cp.Vector{X: 120, Y: 210}
	opts.Events = &EventQueue{}
	lvl := testLevel(obj.Layout{
		Platforms:    []common.Rect{common.NewRect(0, 215, 400, 10)},
		RespawnZones: []common.Rect{common.NewRect(100, 200, 40, 20)},
	})
	lvl.Spawn = cp.Vector{X: 115, Y: 205}
	p, err := NewPlayLevel(lvl, opts)
	require.NoError(t, err)

	tick(p, at(0, input.ActionJump))
	assert.Equal(t, cp.Vector{X: 115, Y: 205}, p.SpawnPoint())
	assert.Equal(t, []EventKind{EventCheckpoint}, kinds(opts.Events.Drain()))

	// Touching the same zone again is not a new checkpoint.
	tick(p, at(8))
	assert.Empty(t, opts.Events.Drain())
}

func TestCheckpointRespawn(t *testing.T) {
	p, events := newLevel(t, testLevel(obj.Layout{
		Platforms:    []common.Rect{floor},
		DeathZones:   []common.Rect{common.NewRect(800, 280, 10, 10)},
		RespawnZones: []common.Rect{common.NewRect(630, 270, 30, 23)},
	}))
	tick(p, at(0, input.ActionJump))

	// Walk right through the checkpoint and into the spike.
	for i := 1; p.Deaths() == 0; i++ {
		require.Less(t, i, 200)
		tick(p, holding(i*20, input.ActionRight))
	}
	assert.Contains(t, kinds(events.Drain()), EventCheckpoint)
	assert.Equal(t, 276.5, p.SpawnPoint().Y)

	// Reset puts the checkpoint's center on the body's center.
	assert.Equal(t, StateSpawning, p.State())
	center := p.Geometry().Rect(obj.ZoneRespawn, 0).Center()
	assert.InDelta(t, 540, center.X, 1e-9)
	assert.InDelta(t, 288, center.Y, 1e-9)

	// The body drops onto the floor from the checkpoint.
	tick(p, at(10000, input.ActionJump))
	for i := 1; i < 100; i++ {
		tick(p, at(10000+i*8))
	}
	assert.True(t, p.Body().Grounded())
	assert.InDelta(t, p.Body().Rect().Bottom(), p.Geometry().Rect(obj.ZonePlatform, 0).Y, common.Epsilon)
}

func TestOutOfBounds(t *testing.T) {
	p, events := newLevel(t, testLevel(obj.Layout{Platforms: []common.Rect{common.NewRect(0, 1000, 10, 10)}}))
	tick(p, at(0, input.ActionJump))
	events.Drain()

	p.Geometry().AlignMarker(cp.Vector{X: p.Marker().X, Y: -60})
	require.Equal(t, -60.0, p.Marker().Y)

	tick(p, at(8))
	assert.Equal(t, 1, p.Deaths())
	assert.Equal(t, StateSpawning, p.State())
	assert.Equal(t, home, p.Marker())
	assert.InDelta(t, 1000, p.Geometry().Rect(obj.ZonePlatform, 0).Y, 1e-9)
	assert.Equal(t, []EventKind{EventDied, EventSpawned}, kinds(events.Drain()))

	// Above the threshold nothing happens.
	tick(p, at(200, input.ActionJump))
	p.Geometry().AlignMarker(cp.Vector{X: p.Marker().X, Y: -40})
	tick(p, at(208))
	assert.Equal(t, 1, p.Deaths())
	assert.Equal(t, StateRunning, p.State())
}

func TestDeathZoneAndOutOfBoundsCountOnce(t *testing.T) {
	// The spike sits on the body once the marker is dragged to y=-60.
	spike := common.NewRect(530, 280+(home.Y+60), 20, 20)
	p, events := newLevel(t, testLevel(obj.Layout{
		Platforms:  []common.Rect{common.NewRect(0, 1000, 10, 10)},
		DeathZones: []common.Rect{spike},
	}))
	p.Geometry().AlignMarker(cp.Vector{X: home.X, Y: -60})
	require.True(t, p.Body().Rect().Intersects(p.Geometry().Rect(obj.ZoneDeath, 0)))

	tick(p, at(0, input.ActionJump))
	assert.Equal(t, 1, p.Deaths())
	assert.Equal(t, StateSpawning, p.State())
	assert.Equal(t, home, p.Marker())
	assert.Equal(t, []EventKind{EventDied, EventSpawned}, kinds(events.Drain()))
}

func TestPause(t *testing.T) {
	p, events := newLevel(t, testLevel(obj.Layout{Platforms: []common.Rect{floor}}))
	tick(p, at(0, input.ActionJump))
	tick(p, at(150, input.ActionJump))
	require.Equal(t, 1, p.Jumps())

	tick(p, at(160, input.ActionPause))
	require.Equal(t, StatePaused, p.State())
	require.True(t, p.Body().Frozen)
	marker := p.Marker()
	counter := p.Body().JumpCounter

	for i := 0; i < 100; i++ {
		ctx := holding(170+i*20, input.ActionRight, input.ActionJump)
		ctx.Input.Pressed = []input.Action{input.ActionLeft, input.ActionJump}
		tick(p, ctx)
	}
	assert.Equal(t, marker, p.Marker())
	assert.Equal(t, counter, p.Body().JumpCounter)
	assert.Equal(t, 1, p.Jumps())

	// A double toggle in one tick lands back where it started.
	tick(p, at(3000, input.ActionPause, input.ActionPause))
	assert.Equal(t, StatePaused, p.State())
	assert.True(t, p.Body().Frozen)

	tick(p, at(3010, input.ActionPause))
	assert.Equal(t, StateRunning, p.State())
	assert.False(t, p.Body().Frozen)

	got := kinds(events.Drain())
	assert.Equal(t, []EventKind{EventJumped, EventPaused, EventResumed, EventPaused, EventResumed}, got)
}

func TestPauseWhileSpawning(t *testing.T) {
	p, _ := newLevel(t, testLevel(obj.Layout{Platforms: []common.Rect{floor}}))
	tick(p, at(0, input.ActionPause))
	assert.Equal(t, StatePaused, p.State())

	tick(p, at(10, input.ActionJump))
	assert.Equal(t, StatePaused, p.State(), "jump does not revive while paused")

	tick(p, at(20, input.ActionPause))
	assert.Equal(t, StateSpawning, p.State())
}

func TestPausedCommands(t *testing.T) {
	setup := func(t *testing.T) *PlayLevel {
		p, _ := newLevel(t, testLevel(obj.Layout{Platforms: []common.Rect{floor}}))
		p.SetMenu(func() Scene { return &Menu{} })
		tick(p, at(0, input.ActionJump))
		return p
	}

	t.Run("ignored_while_running", func(t *testing.T) {
		p := setup(t)
		tick(p, at(10, input.ActionQuit, input.ActionRestart, input.ActionMenu))
		assert.Same(t, p, p.Next())
		assert.Zero(t, p.Deaths())
	})

	t.Run("restart_counts_death", func(t *testing.T) {
		p := setup(t)
		tick(p, at(10, input.ActionPause))
		tick(p, at(20, input.ActionRestart))
		assert.Equal(t, 1, p.Deaths())
		assert.Equal(t, StateSpawning, p.State())
		assert.False(t, p.Body().Frozen)
		assert.Same(t, p, p.Next())
	})

	t.Run("quit", func(t *testing.T) {
		p := setup(t)
		tick(p, at(10, input.ActionPause))
		tick(p, at(20, input.ActionQuit))
		assert.Nil(t, p.Next())
	})

	t.Run("menu", func(t *testing.T) {
		p := setup(t)
		tick(p, at(10, input.ActionPause))
		tick(p, at(20, input.ActionMenu))
		next := p.Next()
		require.NotNil(t, next)
		assert.Equal(t, KindMenu, next.Kind())
	})
}

func TestWin(t *testing.T) {
	p, events := newLevel(t, testLevel(obj.Layout{
		Platforms: []common.Rect{floor},
		WinZones:  []common.Rect{common.NewRect(530, 270, 30, 23)},
	}))
	p.SetMenu(func() Scene { return &Menu{} })

	tick(p, at(0, input.ActionJump))
	assert.True(t, p.Won())
	assert.False(t, p.Body().Alive)
	assert.Equal(t, 1, p.Ticks())
	assert.Equal(t, []EventKind{EventWon}, kinds(events.Drain()))

	marker := p.Marker()
	for i := 1; i < 30; i++ {
		tick(p, at(i*10, input.ActionPause, input.ActionJump, input.ActionRestart))
	}
	assert.Equal(t, StateWon, p.State())
	assert.Equal(t, marker, p.Marker())
	assert.Equal(t, 1, p.Ticks())
	assert.Zero(t, p.Deaths())

	var rec render.Recorder
	p.Draw(&rec)
	assert.Contains(t, rec.Texts(), "LEVEL COMPLETE")

	tick(p, at(500, input.ActionMenu))
	require.NotNil(t, p.Next())
	assert.Equal(t, KindMenu, p.Next().Kind())
	assert.Empty(t, events.Drain(), "a won level is not abandoned")
}

func TestAbandonEmitsRun(t *testing.T) {
	p, events := newLevel(t, testLevel(obj.Layout{Platforms: []common.Rect{floor}}))
	tick(p, at(0, input.ActionJump))
	tick(p, at(10))
	tick(p, at(20, input.ActionPause))
	events.Drain()

	tick(p, at(30, input.ActionQuit))
	evs := events.Drain()
	require.Len(t, evs, 1)
	assert.Equal(t, Event{Kind: EventAbandoned, Level: "test", Ticks: 2}, evs[0])
}

func TestInvalidBodyIsNoOp(t *testing.T) {
	p, _ := newLevel(t, testLevel(obj.Layout{Platforms: []common.Rect{common.NewRect(0, 1000, 10, 10)}}))
	tick(p, at(0, input.ActionJump))
	p.Body().Position = cp.Vector{X: math.NaN(), Y: 0}
	marker := p.Marker()

	p.Update(at(8))
	assert.Equal(t, marker, p.Marker())
	assert.Equal(t, StateRunning, p.State())
}

func TestDrawCullsOffscreen(t *testing.T) {
	p, _ := newLevel(t, testLevel(obj.Layout{
		Platforms: []common.Rect{floor, common.NewRect(5000, 0, 10, 10)},
	}))
	var rec render.Recorder
	p.Draw(&rec)

	st := render.DefaultStyle()
	assert.Equal(t, []common.Rect{floor}, rec.Rects(st.Platform))
	assert.Equal(t, []common.Rect{p.Body().Rect()}, rec.Rects(st.Player))
	assert.Contains(t, rec.Texts(), "Press jump to start")

	rec.Reset()
	tick(p, at(0, input.ActionPause))
	p.Draw(&rec)
	assert.Contains(t, rec.Texts(), "PAUSED")
}
