package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldown(t *testing.T) {
	tests := []struct {
		name   string
		strict bool
		at     time.Duration
		want   bool
	}{
		{"before", false, 149 * time.Millisecond, false},
		{"exact", false, 150 * time.Millisecond, true},
		{"strict_exact", true, 150 * time.Millisecond, false},
		{"strict_after", true, 151 * time.Millisecond, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Cooldown{Min: 150 * time.Millisecond, Strict: tt.strict}
			assert.True(t, c.Ready(0), "unmarked cooldown is ready")
			c.Mark(0)
			assert.Equal(t, tt.want, c.Ready(tt.at))
		})
	}
}

func TestEventQueue(t *testing.T) {
	var q EventQueue
	assert.Nil(t, q.Drain())
	q.Push(Event{Kind: EventDied})
	q.Push(Event{Kind: EventSpawned})
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, []Event{{Kind: EventDied}, {Kind: EventSpawned}}, q.Drain())
	assert.Zero(t, q.Len())

	var nilQ *EventQueue
	nilQ.Push(Event{Kind: EventWon})
	assert.Nil(t, nilQ.Drain())
}
