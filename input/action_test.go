package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	for a := Action(0); a < ActionCount; a++ {
		t.Run(a.String(), func(t *testing.T) {
			got, err := ParseAction(a.String())
			require.NoError(t, err)
			assert.Equal(t, a, got)
		})
	}

	_, err := ParseAction("crouch")
	assert.Error(t, err)
}

func TestSnapshot(t *testing.T) {
	s := Snapshot{Held: map[Action]bool{ActionLeft: true}}
	pressed := s.Press(ActionJump)

	assert.True(t, pressed.WasPressed(ActionJump))
	assert.False(t, s.WasPressed(ActionJump), "Press must not alias the original")
	assert.True(t, pressed.IsHeld(ActionLeft))
	assert.False(t, Snapshot{}.IsHeld(ActionLeft))
}

func TestStepClock(t *testing.T) {
	c := NewStepClock(10 * time.Millisecond)
	c.Advance()
	c.Advance()
	assert.Equal(t, 20*time.Millisecond, c.Now())
	c.Set(time.Second)
	assert.Equal(t, time.Second, c.Now())
}
