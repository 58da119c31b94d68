package obj

import (
	"math"

	"github.com/milk9111/platformer/common"
)

// ResolveFloorCeiling classifies the platforms around the body as floors and
// ceilings, records the nearest of each, and snaps the gravity/jump flags
// when the body already touches one. Platforms that also touch a side probe
// are walls and never count as floor or ceiling.
func (b *Body) ResolveFloorCeiling(platforms []common.Rect) {
	p := b.RefreshProbes()
	render := b.Rect()
	top, bottom := b.top(), b.bottom()

	b.CornerFlag = false
	b.GravityEnabled = true

	floor := contact{at: math.Inf(1)}
	ceiling := contact{at: math.Inf(-1)}

	for _, i := range p.Broad.CollideListAll(platforms) {
		plat := platforms[i]
		side := p.Left.Intersects(plat) || p.Right.Intersects(plat)
		below := p.Bottom.Intersects(plat)
		above := p.Top.Intersects(plat)

		if below && !side {
			if bottom < plat.Y && plat.Y < floor.at {
				floor = contact{at: plat.Y, ok: true}
			}
			if common.Nearly(bottom, plat.Y) || render.Intersects(plat) {
				b.land()
			}
		}
		if below && side {
			b.CornerFlag = true
		}

		if above && !side {
			if plat.Bottom() < top && plat.Bottom() > ceiling.at {
				ceiling = contact{at: plat.Bottom(), ok: true}
			}
			if common.Nearly(top, plat.Bottom()) || render.Intersects(plat) {
				b.capJump()
			}
		}
	}

	b.floor = floor
	b.ceiling = ceiling
}

// ResolveWalls clears the horizontal lockouts and re-evaluates both sides.
func (b *Body) ResolveWalls(platforms []common.Rect) {
	b.DisableLeft = false
	b.DisableRight = false
	b.MoveLeft(platforms)
	b.MoveRight(platforms)
}

// MoveLeft evaluates the left side and returns the world displacement for one
// step left: MoveStep when clear, or the exact gap when a wall is closer than
// one step. A wall reaching into the body yields a negative gap, which pushes
// the body back out. Any clamp sets DisableLeft.
func (b *Body) MoveLeft(platforms []common.Rect) float64 {
	p := b.RefreshProbes()
	step := b.tuning.MoveStep
	left := b.left()

	wall := contact{at: math.Inf(-1)}
	for _, i := range p.Broad.CollideListAll(platforms) {
		plat := platforms[i]
		if !p.Left.Intersects(plat) {
			continue
		}
		if !p.Top.Intersects(plat) && !p.Bottom.Intersects(plat) && plat.Right() < left && plat.Right() > wall.at {
			wall = contact{at: plat.Right(), ok: true}
		}

		gap := left - plat.Right()
		if gap < step {
			b.DisableLeft = true
			return gap
		}
	}

	b.leftWall = wall
	return step
}

// MoveRight mirrors MoveLeft; its displacements are negative.
func (b *Body) MoveRight(platforms []common.Rect) float64 {
	p := b.RefreshProbes()
	step := b.tuning.MoveStep
	right := b.right()

	wall := contact{at: math.Inf(1)}
	for _, i := range p.Broad.CollideListAll(platforms) {
		plat := platforms[i]
		if !p.Right.Intersects(plat) {
			continue
		}
		if !p.Top.Intersects(plat) && !p.Bottom.Intersects(plat) && right < plat.X && plat.X < wall.at {
			wall = contact{at: plat.X, ok: true}
		}

		gap := plat.X - right
		if gap < step {
			b.DisableRight = true
			return -gap
		}
	}

	b.rightWall = wall
	return -step
}
