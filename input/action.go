package input

import "fmt"

// Action is one of the fixed gameplay actions. Device bindings are resolved
// by the host before actions reach a scene.
type Action int

const (
	ActionLeft Action = iota
	ActionRight
	ActionJump
	ActionPause
	ActionQuit
	ActionRestart
	ActionMenu
	ActionCount
)

var actionNames = [ActionCount]string{
	ActionLeft:    "left",
	ActionRight:   "right",
	ActionJump:    "jump",
	ActionPause:   "pause",
	ActionQuit:    "quit",
	ActionRestart: "restart",
	ActionMenu:    "menu",
}

func (a Action) String() string {
	if a < 0 || a >= ActionCount {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction resolves an action by name.
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name {
			return Action(a), nil
		}
	}
	return 0, fmt.Errorf("input: unknown action %q", name)
}

// Snapshot is the input state of one tick.
type Snapshot struct {
	// Pressed lists actions that went down this tick, in event order.
	Pressed []Action
	// Held maps every action to whether it is currently down.
	Held map[Action]bool
}

// IsHeld reports whether a is down.
func (s Snapshot) IsHeld(a Action) bool {
	return s.Held[a]
}

// WasPressed reports whether a went down this tick.
func (s Snapshot) WasPressed(a Action) bool {
	for _, p := range s.Pressed {
		if p == a {
			return true
		}
	}
	return false
}

// Press returns a copy of s with a appended to Pressed.
func (s Snapshot) Press(a Action) Snapshot {
	s.Pressed = append(append([]Action(nil), s.Pressed...), a)
	return s
}
