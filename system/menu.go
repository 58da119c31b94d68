package system

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/input"
	"github.com/milk9111/platformer/render"
)

// Menu is the level select screen.
type Menu struct {
	world    *World
	names    []string
	selected int
	status   string

	leaving bool
	next    Scene
}

func (m *Menu) Kind() Kind { return KindMenu }

// Selected returns the highlighted level name, "" when there are none.
func (m *Menu) Selected() string {
	if len(m.names) == 0 {
		return ""
	}
	return m.names[m.selected]
}

func (m *Menu) Next() Scene {
	if !m.leaving {
		return m
	}
	return m.next
}

func (m *Menu) HandleInput(ctx TickContext) {
	for _, a := range ctx.Input.Pressed {
		if m.leaving {
			return
		}
		switch a {
		case input.ActionLeft:
			m.step(-1)
		case input.ActionRight:
			m.step(1)
		case input.ActionJump:
			m.start()
		case input.ActionQuit, input.ActionPause:
			m.leaving = true
			m.next = nil
		}
	}
}

func (m *Menu) step(d int) {
	if len(m.names) == 0 {
		return
	}
	m.selected = (m.selected + d + len(m.names)) % len(m.names)
	m.status = ""
}

func (m *Menu) start() {
	name := m.Selected()
	if name == "" {
		return
	}
	p, err := m.world.NewPlayLevel(name)
	if err != nil {
		log.Error("level failed to load", "level", name, "err", err)
		m.status = fmt.Sprintf("could not load %s", name)
		return
	}
	m.leaving = true
	m.next = p
}

func (m *Menu) Update(TickContext) {}

func (m *Menu) Draw(dst render.Sink) {
	st := m.world.Options.Style
	dst.Fill(st.Background)

	w, h := float64(common.BaseWidth), float64(common.BaseHeight)
	dst.Text("PLATFORMER", w/2, h/10, 72, st.Accent, render.AlignCenter)

	if len(m.names) == 0 {
		dst.Text("No levels found", w/2, 4*h/10, 24, st.Text, render.AlignCenter)
	}
	for i, name := range m.names {
		line := name
		if i == m.selected {
			line = "> " + name + " <"
		}
		if m.world.Records != nil {
			if best, ok := m.world.Records.Best(name); ok {
				secs := float64(best.Ticks) / common.TickRate
				line += fmt.Sprintf("   best: %d deaths, %.2fs", best.Deaths, secs)
			}
		}
		c := st.Text
		if i == m.selected {
			c = st.Accent
		}
		dst.Text(line, w/2, 3*h/10+float64(i)*32, 24, c, render.AlignCenter)
	}

	if m.status != "" {
		dst.Text(m.status, w/2, 8*h/10, 20, st.Death, render.AlignCenter)
	}
	dst.Text("left/right to choose, jump to play, esc to quit", w/2, 9*h/10, 20, st.Text, render.AlignCenter)
}
