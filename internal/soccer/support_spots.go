package soccer

import (
	"math"

	"github.com/Garsondee/Soccer-Sense/internal/geom"
)

// SupportSpot is a candidate supporting position and its last score.
type SupportSpot struct {
	Pos   geom.Vec2
	Score float64
}

// SupportSpotCalculator scores a fixed grid of positions in the opponents'
// half and remembers the best one. Rescans are rate limited.
type SupportSpotCalculator struct {
	team      *Team
	spots     []SupportSpot
	best      int // index into spots, -1 before the first scan
	regulator *Regulator
}

func newSupportSpotCalculator(t *Team, numX, numY int) *SupportSpotCalculator {
	m := t.match
	area := m.playingArea
	h := area.Height() * 0.8
	w := area.Width() * 0.9
	sliceX := w / float64(numX)
	sliceY := h / float64(numY)

	left := area.Left + (area.Width()-w)/2 + sliceX/2
	right := area.Right - (area.Width()-w)/2 - sliceX/2
	top := area.Top + (area.Height()-h)/2 + sliceY/2

	c := &SupportSpotCalculator{
		team:      t,
		best:      -1,
		regulator: NewRegulator(m.params.SupportSpotUpdateFreq, m, m.rng),
	}
	for x := 0; x < numX/2-1; x++ {
		for y := 0; y < numY; y++ {
			py := top + float64(y)*sliceY
			px := right - float64(x)*sliceX
			if t.side == Blue {
				px = left + float64(x)*sliceX
			}
			c.spots = append(c.spots, SupportSpot{Pos: geom.V(px, py)})
		}
	}
	return c
}

// DetermineBestSupportingPosition rescores every spot when the regulator
// fires (or no spot has been chosen yet) and returns the best. Ties keep
// the first spot in scan order.
func (c *SupportSpotCalculator) DetermineBestSupportingPosition() geom.Vec2 {
	if c.best >= 0 && !c.regulator.IsReady() {
		return c.spots[c.best].Pos
	}
	if len(c.spots) == 0 {
		return c.team.match.ball.pos
	}

	t := c.team
	prm := &t.match.params
	from := t.match.ball.pos
	if ctrl := t.ControllingPlayer(); ctrl != nil {
		from = ctrl.pos
	}
	hasSupporter := t.SupportingPlayer() != nil

	c.best = -1
	bestScore := 0.0
	for i := range c.spots {
		s := &c.spots[i]
		s.Score = 1
		if t.IsPassSafeFromAllOpponents(from, s.Pos, nil, prm.MaxPassingForce) {
			s.Score += prm.SpotPassSafeScore
		}
		if _, ok := t.CanShoot(s.Pos, prm.MaxShootingForce); ok {
			s.Score += prm.SpotCanScoreFromPositionScore
		}
		if hasSupporter {
			opt := prm.SpotOptimalDistance
			off := math.Abs(opt - geom.Dist(from, s.Pos))
			if off < opt {
				s.Score += prm.SpotDistFromControllingScore * (opt - off) / opt
			}
		}
		if s.Score > bestScore {
			bestScore = s.Score
			c.best = i
		}
	}
	return c.spots[c.best].Pos
}

// GetBestSupportingSpot returns the remembered best spot, scanning once if
// there is none yet.
func (c *SupportSpotCalculator) GetBestSupportingSpot() geom.Vec2 {
	if c.best >= 0 {
		return c.spots[c.best].Pos
	}
	return c.DetermineBestSupportingPosition()
}

// Best returns the best spot, if one has been chosen.
func (c *SupportSpotCalculator) Best() (SupportSpot, bool) {
	if c.best < 0 {
		return SupportSpot{}, false
	}
	return c.spots[c.best], true
}

// Spots returns a copy of the grid with the last scores.
func (c *SupportSpotCalculator) Spots() []SupportSpot {
	out := make([]SupportSpot, len(c.spots))
	copy(out, c.spots)
	return out
}
