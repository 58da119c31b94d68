package input

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Cue presses an action at tick At and holds it for Hold ticks. Hold 0 is a
// tap: pressed and held for that one tick only.
type Cue struct {
	Action Action
	At     int
	Hold   int
}

// Timeline is scripted input for headless runs, indexed by tick.
type Timeline []Cue

// ParseTimeline reads cues of the form "action@tick" or
// "action@tick+hold", e.g. "right@0+240 jump@30".
func ParseTimeline(fields []string) (Timeline, error) {
	var tl Timeline
	for _, f := range fields {
		name, when, ok := strings.Cut(f, "@")
		if !ok {
			return nil, fmt.Errorf("input: cue %q: want action@tick[+hold]", f)
		}
		a, err := ParseAction(name)
		if err != nil {
			return nil, err
		}

		at, hold := when, ""
		if i := strings.IndexByte(when, '+'); i >= 0 {
			at, hold = when[:i], when[i+1:]
		}
		c := Cue{Action: a}
		if c.At, err = strconv.Atoi(at); err != nil || c.At < 0 {
			return nil, fmt.Errorf("input: cue %q: bad tick", f)
		}
		if hold != "" {
			if c.Hold, err = strconv.Atoi(hold); err != nil || c.Hold < 0 {
				return nil, fmt.Errorf("input: cue %q: bad hold", f)
			}
		}
		tl = append(tl, c)
	}
	slices.SortStableFunc(tl, func(a, b Cue) int { return a.At - b.At })
	return tl, nil
}

// Snapshot returns the input of tick.
func (tl Timeline) Snapshot(tick int) Snapshot {
	s := Snapshot{Held: make(map[Action]bool)}
	for _, c := range tl {
		if c.At == tick {
			s.Pressed = append(s.Pressed, c.Action)
		}
		if tick >= c.At && tick < c.At+max(c.Hold, 1) {
			s.Held[c.Action] = true
		}
	}
	return s
}

// End is the first tick after the last cue releases.
func (tl Timeline) End() int {
	end := 0
	for _, c := range tl {
		end = max(end, c.At+max(c.Hold, 1))
	}
	return end
}
