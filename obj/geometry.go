package obj

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
)

var (
	ErrNoPlatforms = errors.New("obj: level has no platforms")
	ErrInvalidRect = errors.New("obj: invalid level rectangle")
)

// Zone is the role a rectangle plays in a level.
type Zone int

const (
	ZonePlatform Zone = iota
	ZoneDeath
	ZoneWin
	ZoneRespawn
	zoneCount
)

// Zones lists every zone in draw order.
var Zones = [...]Zone{ZonePlatform, ZoneDeath, ZoneWin, ZoneRespawn}

func (z Zone) String() string {
	switch z {
	case ZonePlatform:
		return "platform"
	case ZoneDeath:
		return "death"
	case ZoneWin:
		return "win"
	case ZoneRespawn:
		return "respawn"
	default:
		return fmt.Sprintf("zone(%d)", int(z))
	}
}

// Layout is the authored content of a level, in level coordinates.
type Layout struct {
	Platforms    []common.Rect
	DeathZones   []common.Rect
	WinZones     []common.Rect
	RespawnZones []common.Rect
}

// Geometry is the mutable rectangle set the body is tested against. The
// rectangles are only ever moved, all together, by the Translate family;
// sizes are fixed at load.
//
// Marker is the drift accumulator: a point that moves with the geometry and
// tracks how far the world has scrolled under the body.
type Geometry struct {
	zones  [zoneCount][]common.Rect
	marker cp.Vector
}

// NewGeometry copies layout into a new set with the marker at marker.
func NewGeometry(layout Layout, marker cp.Vector) (*Geometry, error) {
	if len(layout.Platforms) == 0 {
		return nil, ErrNoPlatforms
	}
	if !common.Finite(marker) {
		return nil, fmt.Errorf("obj: non-finite marker %v", marker)
	}

	g := &Geometry{marker: marker}
	src := [zoneCount][]common.Rect{
		ZonePlatform: layout.Platforms,
		ZoneDeath:    layout.DeathZones,
		ZoneWin:      layout.WinZones,
		ZoneRespawn:  layout.RespawnZones,
	}
	for z, rects := range src {
		for i, r := range rects {
			if err := r.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %s %d: %v", ErrInvalidRect, Zone(z), i, err)
			}
		}
		g.zones[z] = append([]common.Rect(nil), rects...)
	}
	return g, nil
}

// Rects returns the rectangles of zone z. The slice is owned by the geometry
// and must not be modified.
func (g *Geometry) Rects(z Zone) []common.Rect {
	if g == nil || z < 0 || z >= zoneCount {
		return nil
	}
	return g.zones[z]
}

// Rect returns rectangle i of zone z.
func (g *Geometry) Rect(z Zone, i int) common.Rect {
	return g.zones[z][i]
}

// Len returns the number of rectangles in zone z.
func (g *Geometry) Len(z Zone) int {
	return len(g.Rects(z))
}

func (g *Geometry) Marker() cp.Vector {
	return g.marker
}

// Translate moves every rectangle of every zone and the marker by (dx, dy).
func (g *Geometry) Translate(dx, dy float64) {
	if g == nil || (dx == 0 && dy == 0) {
		return
	}
	for z := range g.zones {
		rects := g.zones[z]
		for i := range rects {
			rects[i].X += dx
			rects[i].Y += dy
		}
	}
	g.marker = g.marker.Add(cp.Vector{X: dx, Y: dy})
}

func (g *Geometry) TranslateX(dx float64) { g.Translate(dx, 0) }
func (g *Geometry) TranslateY(dy float64) { g.Translate(0, dy) }

// AlignMarker applies the translation that brings the marker to target and
// returns it. The marker lands on target exactly.
func (g *Geometry) AlignMarker(target cp.Vector) cp.Vector {
	delta := target.Sub(g.marker)
	g.Translate(delta.X, delta.Y)
	g.marker = target
	return delta
}

// FirstHit returns the index of the first rectangle of zone z that probe
// intersects, or -1.
func (g *Geometry) FirstHit(z Zone, probe common.Rect) int {
	return probe.CollideList(g.Rects(z))
}

// AllHits returns the indices of every rectangle of zone z that probe
// intersects.
func (g *Geometry) AllHits(z Zone, probe common.Rect) []int {
	return probe.CollideListAll(g.Rects(z))
}
