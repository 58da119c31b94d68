package obj

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
)

var ErrInvalidTuning = errors.New("obj: invalid body tuning")

// Tuning holds the constants that shape movement. Counters are integers so the
// fall and rise curves are reproducible tick for tick.
type Tuning struct {
	Width  float64
	Height float64

	MaxJump        int
	MaxGravity     int
	GravityCeiling int
	CounterStep    int

	GravityScale float64
	JumpScale    float64
	MoveStep     float64
}

// DefaultTuning returns the reference constants: a 10x10 body, 50 jump
// steps, gravity counter in [95, 1100].
func DefaultTuning() Tuning {
	return Tuning{
		Width:          10,
		Height:         10,
		MaxJump:        50,
		MaxGravity:     95,
		GravityCeiling: 1100,
		CounterStep:    2,
		GravityScale:   0.00015,
		JumpScale:      0.004,
		MoveStep:       4,
	}
}

func (t Tuning) Validate() error {
	switch {
	case t.Width <= 0 || t.Height <= 0:
		return fmt.Errorf("%w: size %gx%g", ErrInvalidTuning, t.Width, t.Height)
	case t.MaxJump <= 0:
		return fmt.Errorf("%w: max jump %d", ErrInvalidTuning, t.MaxJump)
	case t.MaxGravity <= 0 || t.GravityCeiling < t.MaxGravity:
		return fmt.Errorf("%w: gravity range [%d, %d]", ErrInvalidTuning, t.MaxGravity, t.GravityCeiling)
	case t.CounterStep <= 0:
		return fmt.Errorf("%w: counter step %d", ErrInvalidTuning, t.CounterStep)
	case t.GravityScale <= 0 || t.JumpScale <= 0 || t.MoveStep <= 0:
		return fmt.Errorf("%w: scales must be positive", ErrInvalidTuning)
	}
	return nil
}

// contact is an optional coordinate recorded by the last collision pass.
type contact struct {
	at float64
	ok bool
}

// Probes are the auxiliary rectangles used to classify contacts. Each
// directional probe has the body's size and sits flush against one side.
type Probes struct {
	Broad  common.Rect
	Left   common.Rect
	Right  common.Rect
	Top    common.Rect
	Bottom common.Rect
}

// Body is the player's kinematic state. The body never moves itself: Gravity,
// Jump, MoveLeft and MoveRight return the displacement the caller applies to
// the level geometry, so the body stays put on screen while the world scrolls.
//
// A positive displacement moves the world down (the body rises) and a
// negative one moves it up (the body falls). Horizontally, positive moves the
// world right, so the body travels left.
type Body struct {
	Position cp.Vector

	// Alive gates simulation; false while awaiting spawn or after death.
	Alive bool
	// Frozen is the pause flag.
	Frozen bool

	GravityEnabled bool
	JumpEnabled    bool
	JumpCounter    int
	GravityCounter int

	CornerFlag bool
	// DisableLeft and DisableRight report that the last wall query on that
	// side found contact. They are informational: MoveLeft and MoveRight
	// re-query and clamp on their own, so callers need not gate on them.
	DisableLeft  bool
	DisableRight bool

	// Jumps counts jump triggers since the body was created.
	Jumps int

	tuning Tuning
	probes Probes

	floor     contact
	ceiling   contact
	leftWall  contact
	rightWall contact
}

// NewBody creates a suspended body centered on pos. It starts falling as
// soon as it is made alive.
func NewBody(pos cp.Vector, tuning Tuning) (*Body, error) {
	if err := tuning.Validate(); err != nil {
		return nil, err
	}
	if !common.Finite(pos) {
		return nil, fmt.Errorf("obj: non-finite body position %v", pos)
	}
	b := &Body{
		Position:       pos,
		GravityEnabled: true,
		JumpCounter:    -(tuning.MaxJump - 1),
		GravityCounter: tuning.MaxGravity,
		tuning:         tuning,
	}
	b.RefreshProbes()
	return b, nil
}

func (b *Body) Tuning() Tuning { return b.tuning }

// Rect returns the render rectangle, always centered on Position.
func (b *Body) Rect() common.Rect {
	return common.NewRect(0, 0, b.tuning.Width, b.tuning.Height).CenteredOn(b.Position)
}

// Valid reports whether the body has a usable render rectangle.
func (b *Body) Valid() bool {
	return b != nil && common.Finite(b.Position) && b.Rect().Validate() == nil
}

// RefreshProbes recomputes every probe from Position. Every collision query
// calls it first; probe positions never carry over between ticks.
func (b *Body) RefreshProbes() Probes {
	r := b.Rect()
	w, h := r.Width, r.Height
	b.probes = Probes{
		Broad:  common.NewRect(r.X-w, r.Y-h, w*3, h*3),
		Left:   common.NewRect(r.X-w, r.Y, w, h),
		Right:  common.NewRect(r.X+w, r.Y, w, h),
		Top:    common.NewRect(r.X, r.Y-h, w, h),
		Bottom: common.NewRect(r.X, r.Y+h, w, h),
	}
	return b.probes
}

// Probes returns the probes computed by the last collision query.
func (b *Body) Probes() Probes { return b.probes }

func (b *Body) top() float64    { return b.Position.Y - b.tuning.Height/2 }
func (b *Body) bottom() float64 { return b.Position.Y + b.tuning.Height/2 }
func (b *Body) left() float64   { return b.Position.X - b.tuning.Width/2 }
func (b *Body) right() float64  { return b.Position.X + b.tuning.Width/2 }

// Floor returns the nearest floor y recorded below the body.
func (b *Body) Floor() (float64, bool) { return b.floor.at, b.floor.ok }

// Ceiling returns the nearest ceiling bottom recorded above the body.
func (b *Body) Ceiling() (float64, bool) { return b.ceiling.at, b.ceiling.ok }

// LeftWall returns the nearest wall edge recorded to the left.
func (b *Body) LeftWall() (float64, bool) { return b.leftWall.at, b.leftWall.ok }

// RightWall returns the nearest wall edge recorded to the right.
func (b *Body) RightWall() (float64, bool) { return b.rightWall.at, b.rightWall.ok }

// Rising reports the jump arc drives the body. Gravity is inert while the
// jump is enabled.
func (b *Body) Rising() bool { return b.JumpEnabled && b.JumpCounter >= 0 }

// Falling reports gravity drives the body.
func (b *Body) Falling() bool { return b.GravityEnabled && !b.JumpEnabled }

// Grounded reports the last floor pass found the body resting on a platform.
func (b *Body) Grounded() bool { return !b.GravityEnabled }

func (b *Body) resetGravity() {
	b.GravityCounter = b.tuning.MaxGravity
}

func (b *Body) land() {
	b.GravityEnabled = false
	b.JumpEnabled = true
	b.resetGravity()
}

func (b *Body) capJump() {
	b.JumpEnabled = false
	b.JumpCounter = -1
	b.GravityEnabled = true
}

// Gravity advances the fall by one tick and returns the world displacement.
func (b *Body) Gravity() float64 {
	if !b.Alive {
		b.resetGravity()
		return 0
	}
	if b.Frozen {
		return 0
	}
	if b.CornerFlag {
		// corner grab: stall and lift by one unit
		b.land()
		return 1
	}
	if !b.Falling() {
		return 0
	}

	c := float64(b.GravityCounter)
	delta := c * c * b.tuning.GravityScale
	b.GravityCounter = common.ClampInt(b.GravityCounter+b.tuning.CounterStep, b.tuning.MaxGravity, b.tuning.GravityCeiling)

	if b.floor.ok && b.floor.at < b.bottom()+delta {
		b.land()
		delta = b.floor.at - b.bottom()
	}
	if delta == 0 {
		return 0
	}
	return -delta
}

// Jump advances the rise by one tick and returns the world displacement.
func (b *Body) Jump() float64 {
	if !b.Alive || b.Frozen {
		return 0
	}
	if !b.JumpEnabled || b.JumpCounter < 0 {
		b.JumpEnabled = false
		return 0
	}

	c := float64(b.JumpCounter)
	delta := c * c * b.tuning.JumpScale
	if b.ceiling.ok && b.top()-b.ceiling.at <= delta {
		b.capJump()
		return 0
	}
	b.JumpCounter -= b.tuning.CounterStep
	return delta
}

// TriggerJump arms a jump. A tap seeds the full arc; a held trigger seeds the
// negated counter, which re-arms without launching a second arc.
func (b *Body) TriggerJump(held bool) {
	b.JumpEnabled = true
	if held {
		b.JumpCounter = -b.tuning.MaxJump
	} else {
		b.JumpCounter = b.tuning.MaxJump
	}
	b.Jumps++
}

// ResetTo places the body at pos with the jump disarmed, ready to spawn.
func (b *Body) ResetTo(pos cp.Vector) {
	b.Position = pos
	b.JumpCounter = -(b.tuning.MaxJump - 1)
	b.JumpEnabled = false
	b.GravityEnabled = true
	b.CornerFlag = false
	b.resetGravity()
	b.RefreshProbes()
}
