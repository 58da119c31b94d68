package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/platformer/input"
)

// stickDeadzone is the left stick travel that counts as a direction.
const stickDeadzone = 0.3

var keyBindings = map[input.Action][]ebiten.Key{
	input.ActionLeft:    {ebiten.KeyA, ebiten.KeyArrowLeft},
	input.ActionRight:   {ebiten.KeyD, ebiten.KeyArrowRight},
	input.ActionJump:    {ebiten.KeyW, ebiten.KeyArrowUp, ebiten.KeySpace},
	input.ActionPause:   {ebiten.KeyEscape},
	input.ActionQuit:    {ebiten.KeyQ},
	input.ActionRestart: {ebiten.KeyR},
	input.ActionMenu:    {ebiten.KeyB},
}

var padBindings = map[input.Action][]ebiten.StandardGamepadButton{
	input.ActionLeft:    {ebiten.StandardGamepadButtonLeftLeft},
	input.ActionRight:   {ebiten.StandardGamepadButtonLeftRight},
	input.ActionJump:    {ebiten.StandardGamepadButtonRightBottom},
	input.ActionPause:   {ebiten.StandardGamepadButtonCenterRight},
	input.ActionQuit:    {ebiten.StandardGamepadButtonCenterLeft},
	input.ActionRestart: {ebiten.StandardGamepadButtonRightLeft},
	input.ActionMenu:    {ebiten.StandardGamepadButtonRightRight},
}

// Keyboard polls the keyboard and the first gamepad into an input snapshot.
// Actions injected by on-screen buttons are delivered as presses on the
// next poll.
type Keyboard struct {
	injected []input.Action

	prevStickLeft  bool
	prevStickRight bool
}

func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// Inject queues a press of a.
func (k *Keyboard) Inject(a input.Action) {
	k.injected = append(k.injected, a)
}

// Poll returns this tick's snapshot. Presses are ordered by action.
func (k *Keyboard) Poll() input.Snapshot {
	s := input.Snapshot{Held: make(map[input.Action]bool, input.ActionCount)}

	gid, pad := firstGamepad()
	var stickLeft, stickRight bool
	if pad {
		x := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		stickLeft = x < -stickDeadzone
		stickRight = x > stickDeadzone
	}

	for a := input.Action(0); a < input.ActionCount; a++ {
		var pressed, held bool
		for _, key := range keyBindings[a] {
			pressed = pressed || inpututil.IsKeyJustPressed(key)
			held = held || ebiten.IsKeyPressed(key)
		}
		if pad {
			for _, b := range padBindings[a] {
				pressed = pressed || inpututil.IsStandardGamepadButtonJustPressed(gid, b)
				held = held || ebiten.IsStandardGamepadButtonPressed(gid, b)
			}
			switch a {
			case input.ActionLeft:
				pressed = pressed || (stickLeft && !k.prevStickLeft)
				held = held || stickLeft
			case input.ActionRight:
				pressed = pressed || (stickRight && !k.prevStickRight)
				held = held || stickRight
			}
		}
		if pressed {
			s.Pressed = append(s.Pressed, a)
		}
		s.Held[a] = held
	}
	k.prevStickLeft, k.prevStickRight = stickLeft, stickRight

	s.Pressed = append(s.Pressed, k.injected...)
	k.injected = k.injected[:0]
	return s
}

func firstGamepad() (ebiten.GamepadID, bool) {
	ids := ebiten.AppendGamepadIDs(nil)
	for _, id := range ids {
		if ebiten.IsStandardGamepadLayoutAvailable(id) {
			return id, true
		}
	}
	return 0, false
}
