package soccer

import (
	"fmt"
	"math"

	"github.com/Garsondee/Soccer-Sense/internal/geom"
	"github.com/Garsondee/Soccer-Sense/internal/messaging"
)

// FieldState is a node of the field player state graph. The values are
// shared by every field player; all per-player data lives on the Player.
type FieldState int

const (
	StateWait FieldState = iota
	StateChaseBall
	StateKickBall
	StateDribble
	StateReceiveBall
	StateSupportAttacker
	StateReturnToHomeRegion
	StateFieldGlobal
)

// dribbleTurnForce is the soft kick used to turn the ball when the
// dribbler faces its own goal.
const dribbleTurnForce = 0.8

var fieldStateNames = [...]string{
	StateWait:               "Wait",
	StateChaseBall:          "ChaseBall",
	StateKickBall:           "KickBall",
	StateDribble:            "Dribble",
	StateReceiveBall:        "ReceiveBall",
	StateSupportAttacker:    "SupportAttacker",
	StateReturnToHomeRegion: "ReturnToHomeRegion",
	StateFieldGlobal:        "FieldGlobal",
}

func (s FieldState) String() string {
	if s < 0 || int(s) >= len(fieldStateNames) {
		return fmt.Sprintf("FieldState(%d)", int(s))
	}
	return fieldStateNames[s]
}

func (s FieldState) Name() string { return s.String() }

func (s FieldState) Enter(p *Player) {
	switch s {
	case StateWait:
		if !p.match.gameInPlay {
			p.steering.SetTarget(p.HomeRegion().Center())
		}
	case StateChaseBall:
		p.steering.SeekOn()
	case StateKickBall:
		p.Team().SetControllingPlayer(p.id)
		if !p.IsReadyForNextKick() {
			p.ChangeState(StateChaseBall)
		}
	case StateDribble:
		p.Team().SetControllingPlayer(p.id)
	case StateReceiveBall:
		enterReceiveBall(p)
	case StateSupportAttacker:
		p.steering.ArriveOn()
		p.steering.SetTarget(p.Team().GetSupportSpot())
	case StateReturnToHomeRegion:
		p.steering.ArriveOn()
		if !p.HomeRegion().Inside(p.steering.Target(), RegionHalfsize) {
			p.steering.SetTarget(p.HomeRegion().Center())
		}
	}
}

func (s FieldState) Execute(p *Player) {
	switch s {
	case StateWait:
		executeWait(p)
	case StateChaseBall:
		executeChaseBall(p)
	case StateKickBall:
		executeKickBall(p)
	case StateDribble:
		executeDribble(p)
	case StateReceiveBall:
		executeReceiveBall(p)
	case StateSupportAttacker:
		executeSupportAttacker(p)
	case StateReturnToHomeRegion:
		executeReturnToHomeRegion(p)
	case StateFieldGlobal:
		prm := &p.match.params
		if p.BallWithinReceivingRange() && p.IsControllingPlayer() {
			p.maxSpeed = prm.PlayerMaxSpeedWithBall
		} else {
			p.maxSpeed = prm.PlayerMaxSpeedWithoutBall
		}
	}
}

func (s FieldState) Exit(p *Player) {
	switch s {
	case StateChaseBall:
		p.steering.SeekOff()
	case StateReceiveBall:
		p.steering.ArriveOff()
		p.steering.PursuitOff()
		p.Team().SetReceivingPlayer(NoPlayer)
	case StateSupportAttacker:
		if t := p.Team(); t.supporting == p.id {
			t.SetSupportingPlayer(NoPlayer)
		}
		p.steering.ArriveOff()
	case StateReturnToHomeRegion:
		p.steering.ArriveOff()
	}
}

// OnMessage is only meaningful for the global state; the others leave every
// telegram to it.
func (s FieldState) OnMessage(p *Player, msg messaging.Telegram) bool {
	if s != StateFieldGlobal {
		return false
	}
	switch msg.Msg {
	case messaging.MsgReceiveBall:
		if rb, ok := msg.ReceiveBallPayload(); ok {
			p.steering.SetTarget(rb.Target)
		}
		p.ChangeState(StateReceiveBall)
		return true
	case messaging.MsgSupportAttacker:
		if p.fsm.IsInState(StateSupportAttacker) {
			return true
		}
		p.steering.SetTarget(p.Team().GetSupportSpot())
		p.ChangeState(StateSupportAttacker)
		return true
	case messaging.MsgWait:
		p.ChangeState(StateWait)
		return true
	case messaging.MsgGoHome:
		p.SetDefaultHomeRegion()
		p.ChangeState(StateReturnToHomeRegion)
		return true
	case messaging.MsgPassToMe:
		handlePassRequest(p, msg)
		return true
	}
	return false
}

// handlePassRequest passes straight to the requester when the player can
// kick and nobody is already waiting on a pass.
func handlePassRequest(p *Player, msg messaging.Telegram) {
	req, ok := msg.PassToMePayload()
	if !ok {
		return
	}
	receiver := p.match.Player(req.Requester)
	if receiver == nil || p.Team().ReceivingPlayer() != nil || !p.BallWithinKickingRange() {
		return
	}
	ball := p.match.ball
	p.kickBall(receiver.pos.Sub(ball.pos), p.match.params.MaxPassingForce, "pass", "requested by "+receiver.label)
	p.match.dispatch(p.id, receiver.id, messaging.MsgReceiveBall, messaging.ReceiveBall{Target: receiver.pos})
	p.ChangeState(StateWait)
	p.FindSupport()
}

func executeWait(p *Player) {
	if !p.AtTarget() {
		p.steering.ArriveOn()
		return
	}
	p.steering.ArriveOff()
	p.Stop()
	p.TrackBall()

	t := p.Team()
	if t.InControl() && !p.IsControllingPlayer() && p.IsAheadOfAttacker() {
		t.RequestPass(p)
		return
	}
	if p.match.gameInPlay && p.IsClosestTeamMemberToBall() &&
		t.ReceivingPlayer() == nil && !p.match.keeperHasBall {
		p.ChangeState(StateChaseBall)
	}
}

func executeChaseBall(p *Player) {
	if p.BallWithinKickingRange() {
		p.ChangeState(StateKickBall)
		return
	}
	if p.IsClosestTeamMemberToBall() {
		p.steering.SetTarget(p.match.ball.pos)
		return
	}
	p.ChangeState(StateReturnToHomeRegion)
}

// executeKickBall shoots when a shot is on (or on a whim, or when very
// close to goal), passes when threatened and a pass exists, and otherwise
// dribbles.
func executeKickBall(p *Player) {
	m := p.match
	prm := &m.params
	t := p.Team()
	ball := m.ball

	dot := p.heading.Dot(geom.Normalize(ball.pos.Sub(p.pos)))
	if t.ReceivingPlayer() != nil || m.keeperHasBall || dot < 0 {
		p.ChangeState(StateChaseBall)
		return
	}

	power := prm.MaxShootingForce * dot
	target, canShoot := t.CanShoot(ball.pos, power)
	dist := geom.Dist(p.pos, t.OpponentsGoal().Center())
	if canShoot || m.rng.Float64() < prm.ChancePlayerAttemptsPotShot || dist < m.playingArea.Width()/8 {
		target = AddNoiseToKick(m.rng, ball.pos, target, prm.PlayerKickingAccuracy)
		p.kickBall(target.Sub(ball.pos), power, "shot", fmt.Sprintf("at (%.0f, %.0f)", target.X(), target.Y()))
		p.ChangeState(StateWait)
		p.FindSupport()
		return
	}

	power = prm.MaxPassingForce * dot
	if p.IsThreatened() {
		if receiver, passTarget, ok := t.FindPass(p, power, prm.MinPassDist); ok {
			passTarget = AddNoiseToKick(m.rng, ball.pos, passTarget, prm.PlayerKickingAccuracy)
			p.kickBall(passTarget.Sub(ball.pos), power, "pass", "to "+receiver.label)
			m.dispatch(p.id, receiver.id, messaging.MsgReceiveBall, messaging.ReceiveBall{Target: passTarget})
			p.ChangeState(StateWait)
			p.FindSupport()
			return
		}
	}

	p.FindSupport()
	p.ChangeState(StateDribble)
}

// executeDribble nudges the ball upfield, or turns it by pi/4 when the
// player faces its own goal.
func executeDribble(p *Player) {
	facing := p.Team().HomeGoal().Facing()
	if facing.Dot(p.heading) < 0 {
		angle := -math.Pi / 4 * float64(geom.Sign(facing, p.heading))
		p.kickBall(geom.Rotate(p.heading, angle), dribbleTurnForce, "kick", "dribble turn")
	} else {
		p.kickBall(facing, p.match.params.MaxDribbleForce, "kick", "dribble")
	}
	p.ChangeState(StateChaseBall)
}

func enterReceiveBall(p *Player) {
	t := p.Team()
	prm := &p.match.params
	t.SetReceivingPlayer(p.id)
	t.SetControllingPlayer(p.id)

	useArrive := p.InHotRegion() || p.match.rng.Float64() < prm.ChanceOfUsingArriveToReceiveBall
	if useArrive && !t.IsOpponentWithinRadius(p.pos, prm.ReceiverOpponentClearance) {
		p.steering.ArriveOn()
	} else {
		p.steering.PursuitOn()
	}
}

func executeReceiveBall(p *Player) {
	if p.BallWithinReceivingRange() || !p.Team().InControl() {
		p.ChangeState(StateChaseBall)
		return
	}
	if p.steering.PursuitIsOn() {
		p.steering.SetTarget(p.match.ball.pos)
	}
	if p.AtTarget() {
		p.steering.ArriveOff()
		p.steering.PursuitOff()
		p.TrackBall()
		p.Stop()
	}
}

func executeSupportAttacker(p *Player) {
	t := p.Team()
	prm := &p.match.params
	if !t.InControl() {
		p.ChangeState(StateReturnToHomeRegion)
		return
	}

	if spot := t.GetSupportSpot(); spot != p.steering.Target() {
		p.steering.SetTarget(spot)
		p.steering.ArriveOn()
	}

	if _, ok := t.CanShoot(p.pos, prm.MaxShootingForce); ok {
		t.RequestPass(p)
	}

	if p.AtTarget() {
		p.steering.ArriveOff()
		p.TrackBall()
		p.Stop()
		if !p.IsThreatened() {
			t.RequestPass(p)
		}
	}
}

func executeReturnToHomeRegion(p *Player) {
	m := p.match
	if m.gameInPlay && p.IsClosestTeamMemberToBall() &&
		p.Team().ReceivingPlayer() == nil && !m.keeperHasBall {
		p.ChangeState(StateChaseBall)
		return
	}

	if m.gameInPlay && p.HomeRegion().Inside(p.pos, RegionHalfsize) {
		p.steering.SetTarget(p.pos)
		p.ChangeState(StateWait)
	} else if !m.gameInPlay && p.AtTarget() {
		p.ChangeState(StateWait)
	}
}
