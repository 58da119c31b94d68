// Package ebitenrender draws render commands onto an Ebiten image.
package ebitenrender

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/render"
	"golang.org/x/image/font/gofont/goregular"
)

// Sink implements render.Sink for one frame. Call Begin with the frame's
// screen before the scene draws.
type Sink struct {
	screen *ebiten.Image
	source *text.GoTextFaceSource
	faces  map[float64]*text.GoTextFace
}

var _ render.Sink = (*Sink)(nil)

func New() (*Sink, error) {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("ebitenrender: load font: %w", err)
	}
	return &Sink{source: s, faces: make(map[float64]*text.GoTextFace)}, nil
}

func (s *Sink) Begin(screen *ebiten.Image) { s.screen = screen }

func (s *Sink) Fill(c color.Color) {
	if s.screen == nil {
		return
	}
	s.screen.Fill(c)
}

func (s *Sink) FillRect(r common.Rect, c color.Color) {
	if s.screen == nil {
		return
	}
	vector.FillRect(s.screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), c, false)
}

func (s *Sink) Text(str string, x, y, size float64, c color.Color, align render.Align) {
	if s.screen == nil || str == "" {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	op.LineSpacing = size * 1.2
	switch align {
	case render.AlignCenter:
		op.PrimaryAlign = text.AlignCenter
	case render.AlignEnd:
		op.PrimaryAlign = text.AlignEnd
	}
	text.Draw(s.screen, str, s.face(size), op)
}

func (s *Sink) face(size float64) *text.GoTextFace {
	if f, ok := s.faces[size]; ok {
		return f
	}
	f := &text.GoTextFace{Source: s.source, Size: size}
	s.faces[size] = f
	return f
}
