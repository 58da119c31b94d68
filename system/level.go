package system

import (
	"fmt"
	"image/color"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/input"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/obj"
	"github.com/milk9111/platformer/render"
)

// State is the lifecycle state of a PlayLevel.
type State int

const (
	// StateSpawning waits for a jump to bring the body to life.
	StateSpawning State = iota
	StateRunning
	StatePaused
	// StateDead is transient: the same tick's reset returns to spawning.
	StateDead
	// StateWon is terminal.
	StateWon
)

func (s State) String() string {
	switch s {
	case StateSpawning:
		return "spawning"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateDead:
		return "dead"
	case StateWon:
		return "won"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// LevelOptions configures a PlayLevel.
type LevelOptions struct {
	Tuning obj.Tuning
	// Anchor is the fixed screen position of the body's center.
	Anchor cp.Vector
	Style  render.Style

	// JumpCooldown is the minimum time between jump triggers.
	JumpCooldown time.Duration
	// MoveRepeat is the held left/right repeat delay; a repeat needs
	// strictly more than this to have elapsed.
	MoveRepeat time.Duration

	Events *EventQueue
}

func DefaultLevelOptions() LevelOptions {
	return LevelOptions{
		Tuning:       obj.DefaultTuning(),
		Anchor:       cp.Vector{X: common.BaseWidth / 2, Y: common.BaseHeight / 2},
		Style:        render.DefaultStyle(),
		JumpCooldown: 150 * time.Millisecond,
		MoveRepeat:   10 * time.Millisecond,
	}
}

// PlayLevel runs one attempt at a level. The body sits still on the screen
// anchor and the level geometry scrolls under it.
type PlayLevel struct {
	id   string
	name string

	body *obj.Body
	geom *obj.Geometry

	style  render.Style
	events *EventQueue

	// home is the body's top-left corner on screen.
	home cp.Vector
	// spawn is the current spawn point, in screen coordinates at the time
	// it was set.
	spawn cp.Vector
	// spawnMarker is where the drift marker sits when the spawn point is
	// under the body.
	spawnMarker cp.Vector
	// fallLimit is how far the marker may drop below spawnMarker.
	fallLimit  float64
	checkpoint int

	state  State
	resume State

	deaths int
	ticks  int

	jumpCooldown Cooldown
	moveRepeat   Cooldown

	menu    func() Scene
	leaving bool
	next    Scene
}

// NewPlayLevel builds a level attempt. The geometry is translated so the
// level's spawn point sits under the body.
func NewPlayLevel(lvl *levels.Level, opts LevelOptions) (*PlayLevel, error) {
	if lvl == nil {
		return nil, fmt.Errorf("system: nil level")
	}
	body, err := obj.NewBody(opts.Anchor, opts.Tuning)
	if err != nil {
		return nil, fmt.Errorf("system: level %s: %w", lvl.ID, err)
	}
	geom, err := obj.NewGeometry(lvl.Layout, lvl.Spawn)
	if err != nil {
		return nil, fmt.Errorf("system: level %s: %w", lvl.ID, err)
	}

	size := cp.Vector{X: opts.Tuning.Width, Y: opts.Tuning.Height}
	home := opts.Anchor.Sub(size.Mult(0.5))
	geom.AlignMarker(home)

	name := lvl.Name
	if name == "" {
		name = lvl.ID
	}
	p := &PlayLevel{
		id:           lvl.ID,
		name:         name,
		body:         body,
		geom:         geom,
		style:        opts.Style,
		events:       opts.Events,
		home:         home,
		spawn:        home,
		spawnMarker:  home,
		fallLimit:    lvl.Spawn.Y - lvl.OutOfBoundsY,
		checkpoint:   -1,
		jumpCooldown: Cooldown{Min: opts.JumpCooldown},
		moveRepeat:   Cooldown{Min: opts.MoveRepeat, Strict: true},
	}
	body.ResolveFloorCeiling(geom.Rects(obj.ZonePlatform))
	return p, nil
}

func (p *PlayLevel) Kind() Kind { return KindPlay }

// ID is the level file name; Name is its display name.
func (p *PlayLevel) ID() string   { return p.id }
func (p *PlayLevel) Name() string { return p.name }

func (p *PlayLevel) State() State { return p.state }
func (p *PlayLevel) Deaths() int  { return p.deaths }

// Ticks is the accumulated play time in ticks.
func (p *PlayLevel) Ticks() int { return p.ticks }

func (p *PlayLevel) PlayTime() time.Duration {
	return time.Duration(p.ticks) * common.TickDuration
}

func (p *PlayLevel) Jumps() int                { return p.body.Jumps }
func (p *PlayLevel) Won() bool                 { return p.state == StateWon }
func (p *PlayLevel) Body() *obj.Body           { return p.body }
func (p *PlayLevel) Geometry() *obj.Geometry   { return p.geom }
func (p *PlayLevel) SpawnPoint() cp.Vector     { return p.spawn }
func (p *PlayLevel) Marker() cp.Vector         { return p.geom.Marker() }
func (p *PlayLevel) SetMenu(menu func() Scene) { p.menu = menu }

func (p *PlayLevel) Next() Scene {
	if !p.leaving {
		return p
	}
	return p.next
}

func (p *PlayLevel) running() bool { return p.state == StateRunning }

// HandleInput applies the tick's discrete presses, then the held actions.
// Moves always re-run the wall query: a side that is locked out moves only
// as far as contact.
func (p *PlayLevel) HandleInput(ctx TickContext) {
	if p.leaving {
		return
	}
	now := ctx.Now
	b := p.body
	plats := p.geom.Rects(obj.ZonePlatform)

	for _, a := range ctx.Input.Pressed {
		switch a {
		case input.ActionLeft:
			if p.running() {
				p.geom.TranslateX(b.MoveLeft(plats))
			}
		case input.ActionRight:
			if p.running() {
				p.geom.TranslateX(b.MoveRight(plats))
			}
		case input.ActionJump:
			switch {
			case p.running():
				p.tryJump(now, false)
			case p.state == StateSpawning:
				p.revive(now)
			}
		case input.ActionPause:
			p.togglePause()
		case input.ActionQuit:
			if p.state == StatePaused || p.state == StateWon {
				p.leave(nil)
			}
		case input.ActionRestart:
			if p.state == StatePaused {
				b.Frozen = false
				p.die()
			}
		case input.ActionMenu:
			if p.state == StatePaused || p.state == StateWon {
				p.leave(p.menuScene())
			}
		}
		if p.leaving {
			return
		}
	}

	if ctx.Input.IsHeld(input.ActionJump) && p.running() {
		p.tryJump(now, true)
	}
	if ctx.Input.IsHeld(input.ActionLeft) && p.running() && p.moveRepeat.Ready(now) {
		p.geom.TranslateX(b.MoveLeft(plats))
		p.moveRepeat.Mark(now)
	}
	if ctx.Input.IsHeld(input.ActionRight) && p.running() && p.moveRepeat.Ready(now) {
		p.geom.TranslateX(b.MoveRight(plats))
		p.moveRepeat.Mark(now)
	}
}

func (p *PlayLevel) tryJump(now time.Duration, held bool) {
	if !p.body.Grounded() || !p.jumpCooldown.Ready(now) {
		return
	}
	p.body.TriggerJump(held)
	p.jumpCooldown.Mark(now)
	if !held {
		p.emit(EventJumped)
	}
}

func (p *PlayLevel) revive(now time.Duration) {
	p.body.Alive = true
	p.jumpCooldown.Mark(now)
	p.state = StateRunning
}

func (p *PlayLevel) togglePause() {
	switch p.state {
	case StateWon:
		return
	case StatePaused:
		p.body.Frozen = false
		p.state = p.resume
		p.emit(EventResumed)
	default:
		p.body.Frozen = true
		p.resume = p.state
		p.state = StatePaused
		p.emit(EventPaused)
	}
}

func (p *PlayLevel) die() {
	p.body.Alive = false
	p.deaths++
	p.state = StateDead
	p.emit(EventDied)
}

func (p *PlayLevel) leave(next Scene) {
	if p.state != StateWon && (p.ticks > 0 || p.deaths > 0) {
		p.emit(EventAbandoned)
	}
	p.leaving = true
	p.next = next
}

func (p *PlayLevel) menuScene() Scene {
	if p.menu == nil {
		return nil
	}
	return p.menu()
}

// Update advances the simulation by one tick.
func (p *PlayLevel) Update(ctx TickContext) {
	if p.leaving || !p.body.Valid() {
		return
	}
	b := p.body

	p.geom.TranslateY(b.Gravity())
	p.geom.TranslateY(b.Jump())

	if p.running() {
		p.ticks++
		if p.geom.FirstHit(obj.ZoneDeath, b.Rect()) >= 0 {
			p.die()
		}
		plats := p.geom.Rects(obj.ZonePlatform)
		b.ResolveFloorCeiling(plats)
		b.ResolveWalls(plats)
	}

	if p.running() && p.outOfBounds() {
		p.die()
		p.geom.AlignMarker(p.spawnMarker)
	}

	if p.running() && p.geom.FirstHit(obj.ZoneWin, b.Rect()) >= 0 {
		b.Alive = false
		p.state = StateWon
		p.emit(EventWon)
	}

	if p.running() {
		p.touchCheckpoint()
	}

	if p.state == StateDead {
		p.reset(ctx.Now)
	}
}

func (p *PlayLevel) outOfBounds() bool {
	return p.geom.Marker().Y < p.spawnMarker.Y-p.fallLimit
}

func (p *PlayLevel) touchCheckpoint() {
	i := p.geom.FirstHit(obj.ZoneRespawn, p.body.Rect())
	if i < 0 || i == p.checkpoint {
		return
	}
	zone := p.geom.Rect(obj.ZoneRespawn, i)
	t := p.body.Tuning()
	p.spawn = zone.Center().Sub(cp.Vector{X: t.Width / 2, Y: t.Height / 2})
	p.spawnMarker = p.geom.Marker().Add(p.home.Sub(p.spawn))
	p.checkpoint = i
	p.emit(EventCheckpoint)
}

// reset brings the spawn point back under the body and waits for a jump. The
// body learns its floor before the first tick so a spawn resting on a
// platform does not sink into it.
func (p *PlayLevel) reset(now time.Duration) {
	p.geom.AlignMarker(p.spawnMarker)
	p.body.ResetTo(p.body.Position)
	p.body.ResolveFloorCeiling(p.geom.Rects(obj.ZonePlatform))
	p.jumpCooldown.Mark(now)
	p.state = StateSpawning
	p.emit(EventSpawned)
}

func (p *PlayLevel) emit(kind EventKind) {
	p.events.Push(Event{
		Kind:   kind,
		Level:  p.id,
		Deaths: p.deaths,
		Jumps:  p.body.Jumps,
		Ticks:  p.ticks,
	})
}

// Draw emits the visible geometry, the body and the HUD.
func (p *PlayLevel) Draw(dst render.Sink) {
	st := p.style
	dst.Fill(st.Background)

	colors := [...]struct {
		zone obj.Zone
		c    color.RGBA
	}{
		{obj.ZonePlatform, st.Platform},
		{obj.ZoneDeath, st.Death},
		{obj.ZoneWin, st.Win},
		{obj.ZoneRespawn, st.Respawn},
	}
	for _, zc := range colors {
		for _, r := range p.geom.Rects(zc.zone) {
			if render.Visible(r) {
				dst.FillRect(r, zc.c)
			}
		}
	}
	dst.FillRect(p.body.Rect(), st.Player)

	dst.Text(p.name, 12, 10, 18, st.Text, render.AlignStart)
	dst.Text(fmt.Sprintf("Deaths: %d", p.deaths), 12, 32, 18, st.Text, render.AlignStart)

	w, h := float64(common.BaseWidth), float64(common.BaseHeight)
	switch p.state {
	case StateSpawning:
		dst.Text("Press jump to start", w/2, h/10, 24, st.Text, render.AlignCenter)
	case StatePaused:
		dst.Text("PAUSED", w/2, h/10, 72, st.Pause, render.AlignCenter)
		dst.Text("Press esc to unpause", w/2, 3*h/10, 24, st.Pause, render.AlignCenter)
		dst.Text("Press q to quit", w/2, 4*h/10, 24, st.Pause, render.AlignCenter)
		dst.Text("Press b to return to menu", w/2, 5*h/10, 24, st.Pause, render.AlignCenter)
		dst.Text("Press r to restart the level", w/2, 6*h/10, 24, st.Pause, render.AlignCenter)
	case StateWon:
		secs := p.PlayTime().Seconds()
		dst.Text("LEVEL COMPLETE", w/2, h/10, 72, st.Accent, render.AlignCenter)
		dst.Text(fmt.Sprintf("Deaths: %d   Time: %.2fs   Jumps: %d", p.deaths, secs, p.body.Jumps), w/2, 3*h/10, 24, st.Text, render.AlignCenter)
		dst.Text("Press b to return to menu", w/2, 4*h/10, 24, st.Text, render.AlignCenter)
	}
}
