package render

import (
	"image/color"

	"github.com/milk9111/platformer/common"
)

type CommandKind int

const (
	CommandFill CommandKind = iota
	CommandRect
	CommandText
)

// Command is one recorded draw call.
type Command struct {
	Kind  CommandKind
	Rect  common.Rect
	Color color.Color
	Text  string
	X, Y  float64
	Size  float64
	Align Align
}

// Recorder is a Sink that keeps every command. Used by tests and the
// headless simulator.
type Recorder struct {
	Commands []Command
}

func (r *Recorder) Fill(c color.Color) {
	r.Commands = append(r.Commands, Command{Kind: CommandFill, Color: c})
}

func (r *Recorder) FillRect(rect common.Rect, c color.Color) {
	r.Commands = append(r.Commands, Command{Kind: CommandRect, Rect: rect, Color: c})
}

func (r *Recorder) Text(s string, x, y, size float64, c color.Color, align Align) {
	r.Commands = append(r.Commands, Command{Kind: CommandText, Text: s, X: x, Y: y, Size: size, Color: c, Align: align})
}

// Rects returns the rectangles drawn with color c.
func (r *Recorder) Rects(c color.Color) []common.Rect {
	var out []common.Rect
	for _, cmd := range r.Commands {
		if cmd.Kind == CommandRect && cmd.Color == c {
			out = append(out, cmd.Rect)
		}
	}
	return out
}

// Texts returns every string drawn, in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, cmd := range r.Commands {
		if cmd.Kind == CommandText {
			out = append(out, cmd.Text)
		}
	}
	return out
}

func (r *Recorder) Reset() { r.Commands = r.Commands[:0] }
