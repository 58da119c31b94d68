package render

import (
	"image/color"

	"github.com/milk9111/platformer/common"
	"golang.org/x/image/colornames"
)

// Align is the horizontal anchoring of a text command.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

// Sink receives draw commands. Scenes only describe what to draw; the sink
// decides how.
type Sink interface {
	Fill(c color.Color)
	FillRect(r common.Rect, c color.Color)
	// Text draws s with its top edge at y. size is the line height in
	// pixels.
	Text(s string, x, y, size float64, c color.Color, align Align)
}

// Style is the palette used by scenes.
type Style struct {
	Background color.RGBA
	Platform   color.RGBA
	Death      color.RGBA
	Win        color.RGBA
	Respawn    color.RGBA
	Player     color.RGBA
	Text       color.RGBA
	Pause      color.RGBA
	Accent     color.RGBA
}

func DefaultStyle() Style {
	return Style{
		Background: colornames.White,
		Platform:   colornames.Black,
		Death:      colornames.Crimson,
		Win:        colornames.Gold,
		Respawn:    colornames.Lightskyblue,
		Player:     colornames.Purple,
		Text:       colornames.Black,
		Pause:      colornames.Darkred,
		Accent:     colornames.Purple,
	}
}

// Visible reports whether r overlaps the screen.
func Visible(r common.Rect) bool {
	return r.Right() >= 0 && r.X <= common.BaseWidth &&
		r.Bottom() >= 0 && r.Y <= common.BaseHeight
}
