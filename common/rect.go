package common

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

// Epsilon is the overlap below which two rectangles are considered to be
// touching rather than intersecting. Geometry is translated by fractional
// deltas every tick, so exact float equality cannot be relied on.
const Epsilon = 1e-6

// Rect is an axis-aligned rectangle in level coordinates (y grows down).
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() cp.Vector {
	return cp.Vector{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// CenteredOn returns a copy of r moved so its center is c.
func (r Rect) CenteredOn(c cp.Vector) Rect {
	r.X = c.X - r.Width/2
	r.Y = c.Y - r.Height/2
	return r
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Intersects reports whether r and other overlap by more than Epsilon on both
// axes. Rectangles sharing only an edge do not intersect.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.Right()-Epsilon &&
		r.Right() > other.X+Epsilon &&
		r.Y < other.Bottom()-Epsilon &&
		r.Bottom() > other.Y+Epsilon
}

// CollideList returns the index of the first rectangle in rs that intersects
// r, or -1.
func (r Rect) CollideList(rs []Rect) int {
	for i := range rs {
		if r.Intersects(rs[i]) {
			return i
		}
	}
	return -1
}

// CollideListAll returns the indices of every rectangle in rs that
// intersects r, in order.
func (r Rect) CollideListAll(rs []Rect) []int {
	var out []int
	for i := range rs {
		if r.Intersects(rs[i]) {
			out = append(out, i)
		}
	}
	return out
}

// Validate reports an error when r has a non-positive size or a non-finite
// coordinate.
func (r Rect) Validate() error {
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite rect %v", r)
		}
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("non-positive size %gx%g", r.Width, r.Height)
	}
	return nil
}

// Nearly reports whether a and b are within Epsilon of each other.
func Nearly(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}
