package soccer

import (
	"math"

	"github.com/Garsondee/Soccer-Sense/internal/geom"
)

// passInterceptScaling shrinks the receiver's reachable circle when
// building the tangent pass targets.
const passInterceptScaling = 0.3

// IsPassSafeFromOpponent reports whether opp cannot intercept a ball kicked
// from from to target with force. receiver may be nil for passes to a spot.
func (t *Team) IsPassSafeFromOpponent(from, target geom.Vec2, receiver, opp *Player, force float64) bool {
	dir := geom.Normalize(target.Sub(from))
	local := geom.PointToLocalSpace(opp.pos, dir, geom.Perp(dir), from)

	if local.X() < 0 {
		return true
	}

	if geom.DistSq(from, target) < geom.DistSq(opp.pos, from) {
		if receiver == nil {
			return true
		}
		return geom.DistSq(target, opp.pos) > geom.DistSq(target, receiver.pos)
	}

	ball := t.match.ball
	tt := ball.TimeToCoverDistance(geom.Vec2{}, geom.V(local.X(), 0), force)
	if tt < 0 {
		// The ball stops before it draws level with the opponent.
		return false
	}
	reach := opp.maxSpeed*tt + ball.radius + opp.radius
	return math.Abs(local.Y()) >= reach
}

// IsPassSafeFromAllOpponents is true when no opponent can intercept.
func (t *Team) IsPassSafeFromAllOpponents(from, target geom.Vec2, receiver *Player, force float64) bool {
	for _, o := range t.Opponents().Members() {
		if !t.IsPassSafeFromOpponent(from, target, receiver, o, force) {
			return false
		}
	}
	return true
}

// GetBestPassToReceiver tries the receiver's position and the two tangent
// points of its interception circle as seen from the ball, and returns the
// safe in-bounds target nearest the opponents' goal line.
func (t *Team) GetBestPassToReceiver(receiver *Player, power float64) (geom.Vec2, bool) {
	ball := t.match.ball
	tt := ball.TimeToCoverDistance(ball.pos, receiver.pos, power)
	if tt < 0 {
		return geom.Vec2{}, false
	}

	interceptRange := tt * receiver.maxSpeed * passInterceptScaling
	candidates := []geom.Vec2{receiver.pos}
	if ip1, ip2, ok := geom.TangentPoints(receiver.pos, interceptRange, ball.pos); ok {
		candidates = []geom.Vec2{ip1, receiver.pos, ip2}
	}

	gx := t.OpponentsGoal().Center().X()
	var best geom.Vec2
	found := false
	closest := math.MaxFloat64
	for _, c := range candidates {
		d := math.Abs(c.X() - gx)
		if d >= closest {
			continue
		}
		if !t.match.playingArea.Inside(c, RegionNormal) {
			continue
		}
		if !t.IsPassSafeFromAllOpponents(ball.pos, c, receiver, power) {
			continue
		}
		closest = d
		best = c
		found = true
	}
	return best, found
}

// FindPass picks, among teammates further than minDist from the passer,
// the one whose best pass target lies nearest the opponents' goal line.
func (t *Team) FindPass(passer *Player, power, minDist float64) (*Player, geom.Vec2, bool) {
	gx := t.OpponentsGoal().Center().X()
	var (
		receiver *Player
		target   geom.Vec2
	)
	closest := math.MaxFloat64
	for _, p := range t.Members() {
		if p == passer || geom.DistSq(passer.pos, p.pos) <= minDist*minDist {
			continue
		}
		c, ok := t.GetBestPassToReceiver(p, power)
		if !ok {
			continue
		}
		if d := math.Abs(c.X() - gx); d < closest {
			closest = d
			receiver = p
			target = c
		}
	}
	return receiver, target, receiver != nil
}

// CanShoot samples random points along the opponents' goal mouth and
// returns the first one a ball kicked from from with power both reaches and
// gets past every opponent. On failure the last sample is returned with
// false, so a speculative shot still has somewhere to go.
func (t *Team) CanShoot(from geom.Vec2, power float64) (geom.Vec2, bool) {
	goal := t.OpponentsGoal()
	ball := t.match.ball
	minY := int(goal.LeftPost().Y() + ball.radius)
	maxY := int(goal.RightPost().Y() - ball.radius)

	target := goal.Center()
	for i := 0; i < t.match.params.NumAttemptsToFindValidStrike; i++ {
		target = goal.Center()
		if maxY >= minY {
			target[1] = float64(minY + t.match.rng.Intn(maxY-minY+1))
		}
		if ball.TimeToCoverDistance(from, target, power) < 0 {
			continue
		}
		if t.IsPassSafeFromAllOpponents(from, target, nil, power) {
			return target, true
		}
	}
	return target, false
}
