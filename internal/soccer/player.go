package soccer

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/Garsondee/Soccer-Sense/internal/fsm"
	"github.com/Garsondee/Soccer-Sense/internal/geom"
	"github.com/Garsondee/Soccer-Sense/internal/messaging"
)

// PlayerID is a player's stable index in the match arena.
type PlayerID = messaging.EntityID

// NoPlayer is the empty key-player reference.
const NoPlayer PlayerID = messaging.NoEntity

// Role is a player's position in the lineup.
type Role int

const (
	RoleGoalKeeper Role = iota
	RoleAttacker
	RoleDefender
)

func (r Role) String() string {
	switch r {
	case RoleGoalKeeper:
		return "keeper"
	case RoleAttacker:
		return "attacker"
	case RoleDefender:
		return "defender"
	default:
		return "unknown"
	}
}

const (
	playerBaseRadius = 10.0 // bounding radius before PlayerScale
	brakingRate      = 0.8  // velocity multiplier when no force is applied
)

// Player is a field player or goalkeeper. It reaches its team, the ball and
// the other players only through the owning Match.
type Player struct {
	movingEntity

	id     PlayerID
	label  string
	team   TeamSide
	role   Role
	match  *Match
	number int // 1-based position in the team roster

	homeRegion    int
	defaultRegion int

	steering  *Steering
	fsm       *fsm.Machine[*Player]
	kickLimit *Regulator

	distSqToBall float64
	lookAt       geom.Vec2 // keepers only
}

func newPlayer(m *Match, id PlayerID, team TeamSide, number int, role Role, homeRegion int) *Player {
	prm := &m.params
	home := m.regions[homeRegion].Center()
	p := &Player{
		movingEntity: newMovingEntity(home, m.goals[team].Facing(),
			playerBaseRadius*prm.PlayerScale,
			prm.PlayerMass,
			prm.PlayerMaxSpeedWithoutBall,
			prm.PlayerMaxForce,
			prm.PlayerMaxTurnRate),
		id:            id,
		label:         fmt.Sprintf("%s%d", team.Letter(), number),
		team:          team,
		role:          role,
		match:         m,
		number:        number,
		homeRegion:    homeRegion,
		defaultRegion: homeRegion,
		kickLimit:     NewRegulator(prm.PlayerKickFrequency, m, m.rng),
	}
	p.lookAt = p.heading
	p.steering = newSteering(p, prm.ViewDistance, prm.SeparationCoefficient)

	if role == RoleGoalKeeper {
		p.fsm = fsm.New[*Player](p, StateTendGoal, StateKeeperGlobal)
	} else {
		p.steering.SeparationOn()
		p.fsm = fsm.New[*Player](p, StateWait, StateFieldGlobal)
	}
	p.fsm.OnChange = p.onStateChange
	return p
}

func (p *Player) onStateChange(from, to fsm.State[*Player]) {
	p.match.event(p.label, p.team.String(), "state", "change", from.Name()+" -> "+to.Name(), 0)
	p.match.log.Debug("player state change",
		zap.String("player", p.label),
		zap.String("from", from.Name()),
		zap.String("to", to.Name()))
}

func (p *Player) ID() PlayerID          { return p.id }
func (p *Player) Label() string         { return p.label }
func (p *Player) TeamSide() TeamSide    { return p.team }
func (p *Player) Role() Role            { return p.role }
func (p *Player) IsGoalKeeper() bool    { return p.role == RoleGoalKeeper }
func (p *Player) Steering() *Steering   { return p.steering }
func (p *Player) HomeRegionID() int     { return p.homeRegion }
func (p *Player) DistSqToBall() float64 { return p.distSqToBall }

// LookAt is the keeper's gaze direction; field players look along their heading.
func (p *Player) LookAt() geom.Vec2 {
	if p.IsGoalKeeper() {
		return p.lookAt
	}
	return p.heading
}

func (p *Player) Team() *Team        { return p.match.teams[p.team] }
func (p *Player) Ball() *Ball        { return p.match.ball }
func (p *Player) HomeRegion() Region { return p.match.regions[p.homeRegion] }

// FSM exposes the player's state machine.
func (p *Player) FSM() *fsm.Machine[*Player] { return p.fsm }

// StateName is the current state's name.
func (p *Player) StateName() string { return p.fsm.CurrentName() }

// ChangeState moves the player to s.
func (p *Player) ChangeState(s fsm.State[*Player]) { p.fsm.ChangeState(s) }

// HandleMessage routes a telegram into the state machine.
func (p *Player) HandleMessage(msg messaging.Telegram) bool {
	p.match.eventVerbose(p.label, p.team.String(), "message", msg.Msg.String(), fmt.Sprintf("from %d", msg.Sender), 0)
	return p.fsm.HandleMessage(msg)
}

// SetHomeRegion assigns a new home region.
func (p *Player) SetHomeRegion(id int) { p.homeRegion = id }

// SetDefaultHomeRegion restores the lineup home region.
func (p *Player) SetDefaultHomeRegion() { p.homeRegion = p.defaultRegion }

// Update runs one tick: state machine, steering, then motion.
func (p *Player) Update() {
	p.fsm.Update()
	p.steering.Calculate(p.match.players, p.match.ball)
	if p.IsGoalKeeper() {
		p.integrateKeeper()
	} else {
		p.integrateField()
	}
	if p.match.params.NonPenetrationConstraint {
		p.enforceNonPenetration(p.match.players)
	}
}

// integrateField turns by the side component and accelerates along the
// heading by the forward component.
func (p *Player) integrateField() {
	if geom.IsZero(p.steering.Force()) {
		p.vel = p.vel.Mul(brakingRate)
	}

	turn := p.steering.SideComponent()
	if turn > p.maxTurnRate {
		turn = p.maxTurnRate
	}
	if turn < -p.maxTurnRate {
		turn = -p.maxTurnRate
	}
	p.heading = geom.Normalize(geom.Rotate(p.heading, turn))
	p.vel = p.heading.Mul(p.vel.Len())
	p.side = geom.Perp(p.heading)

	accel := p.heading.Mul(p.steering.ForwardComponent() / p.mass)
	p.vel = geom.Truncate(p.vel.Add(accel), p.maxSpeed)
	p.pos = p.pos.Add(p.vel)
}

// integrateKeeper applies the full force; heading follows velocity and the
// keeper keeps looking at the ball unless holding it.
func (p *Player) integrateKeeper() {
	accel := p.steering.Force().Mul(1 / p.mass)
	p.vel = geom.Truncate(p.vel.Add(accel), p.maxSpeed)
	p.pos = p.pos.Add(p.vel)
	if !geom.IsZero(p.vel) {
		p.SetHeading(p.vel)
	}
	if !p.match.keeperHasBall {
		if toBall := p.match.ball.pos.Sub(p.pos); !geom.IsZero(toBall) {
			p.lookAt = geom.Normalize(toBall)
		}
	}
}

// enforceNonPenetration pushes the player out of any overlapping player.
func (p *Player) enforceNonPenetration(players []*Player) {
	for _, o := range players {
		if o == nil || o == p || !geom.CirclesOverlap(p.pos, p.radius, o.pos, o.radius) {
			continue
		}
		to := p.pos.Sub(o.pos)
		if dist := to.Len(); dist > geom.Epsilon {
			p.pos = p.pos.Add(to.Mul((p.radius + o.radius - dist) / dist))
		}
	}
}

// Stop zeroes the velocity.
func (p *Player) Stop() { p.vel = geom.Vec2{} }

// IsReadyForNextKick gates kicks to PlayerKickFrequency.
func (p *Player) IsReadyForNextKick() bool { return p.kickLimit.IsReady() }

func (p *Player) ballWithin(r float64) bool {
	return geom.DistSq(p.pos, p.match.ball.pos) < r*r
}

func (p *Player) BallWithinKeeperRange() bool {
	return p.ballWithin(p.match.params.KeeperInBallRange)
}

// BallWithinKickingRange measures from the player's centre to the ball's,
// so the ball radius is added to the kicking distance.
func (p *Player) BallWithinKickingRange() bool {
	return p.ballWithin(p.match.params.PlayerKickingDistance + p.match.params.BallSize)
}

func (p *Player) BallWithinReceivingRange() bool {
	return p.ballWithin(p.match.params.BallWithinReceivingRange)
}

// InHomeRegion uses the full region for keepers and the inner half for
// field players.
func (p *Player) InHomeRegion() bool {
	if p.IsGoalKeeper() {
		return p.HomeRegion().Inside(p.pos, RegionNormal)
	}
	return p.HomeRegion().Inside(p.pos, RegionHalfsize)
}

// IsAheadOfAttacker reports whether the player is nearer the opponents'
// goal than the controlling player.
func (p *Player) IsAheadOfAttacker() bool {
	ctrl := p.Team().ControllingPlayer()
	if ctrl == nil {
		return false
	}
	gx := p.Team().OpponentsGoal().Center().X()
	return math.Abs(p.pos.X()-gx) < math.Abs(ctrl.pos.X()-gx)
}

func (p *Player) AtTarget() bool {
	r := p.match.params.PlayerInTargetRange
	return geom.DistSq(p.pos, p.steering.Target()) < r*r
}

func (p *Player) IsControllingPlayer() bool { return p.Team().controlling == p.id }

func (p *Player) IsClosestTeamMemberToBall() bool { return p.Team().closestToBall == p.id }

// IsClosestPlayerOnPitchToBall also beats every opponent.
func (p *Player) IsClosestPlayerOnPitchToBall() bool {
	return p.IsClosestTeamMemberToBall() && p.distSqToBall < p.Team().Opponents().ClosestDistSqToBall()
}

// InHotRegion is true within a third of the playing area's length of the
// opponents' goal.
func (p *Player) InHotRegion() bool {
	gx := p.Team().OpponentsGoal().Center().X()
	return math.Abs(p.pos.X()-gx) < p.match.playingArea.Width()/3
}

func (p *Player) IsPositionInFrontOfPlayer(pos geom.Vec2) bool {
	return pos.Sub(p.pos).Dot(p.heading) > 0
}

// IsThreatened reports an opponent in front and inside the comfort zone.
func (p *Player) IsThreatened() bool {
	cz := p.match.params.PlayerComfortZone
	for _, o := range p.Team().Opponents().Members() {
		if p.IsPositionInFrontOfPlayer(o.pos) && geom.DistSq(p.pos, o.pos) < cz*cz {
			return true
		}
	}
	return false
}

func (p *Player) DistToOppGoal() float64 {
	return math.Abs(p.pos.X() - p.Team().OpponentsGoal().Center().X())
}

func (p *Player) DistToHomeGoal() float64 {
	return math.Abs(p.pos.X() - p.Team().HomeGoal().Center().X())
}

// TrackBall turns the player toward the ball.
func (p *Player) TrackBall() { p.RotateHeadingToFacePosition(p.match.ball.pos) }

// TrackTarget faces the steering target.
func (p *Player) TrackTarget() { p.SetHeading(p.steering.Target().Sub(p.pos)) }

// FindSupport makes sure the best placed attacker is supporting, moving a
// displaced supporter back home.
func (p *Player) FindSupport() {
	t := p.Team()
	if t.SupportingPlayer() == nil {
		best := t.DetermineBestSupportingAttacker()
		if best == nil {
			return
		}
		t.SetSupportingPlayer(best.id)
		p.match.dispatch(p.id, best.id, messaging.MsgSupportAttacker, nil)
	}

	best := t.DetermineBestSupportingAttacker()
	if best == nil || best.id == t.supporting {
		return
	}
	if sup := t.SupportingPlayer(); sup != nil {
		p.match.dispatch(p.id, sup.id, messaging.MsgGoHome, nil)
	}
	t.SetSupportingPlayer(best.id)
	p.match.dispatch(p.id, best.id, messaging.MsgSupportAttacker, nil)
}

// kickBall kicks the ball along direction with force and records it under
// category (kick, pass or shot).
func (p *Player) kickBall(direction geom.Vec2, force float64, category, detail string) {
	p.match.ball.Kick(direction, force)
	p.match.event(p.label, p.team.String(), category, "kick", detail, force)
	p.match.log.Debug("kick",
		zap.String("player", p.label),
		zap.String("category", category),
		zap.String("detail", detail),
		zap.Float64("force", force))
}

// BallWithinRangeForIntercept is true when the ball is close enough to the
// keeper's goal to go and get it.
func (p *Player) BallWithinRangeForIntercept() bool {
	r := p.match.params.GoalKeeperInterceptRange
	return geom.DistSq(p.Team().HomeGoal().Center(), p.match.ball.pos) <= r*r
}

// TooFarFromGoalMouth is true once the keeper strays beyond intercept range
// of its rear interpose target.
func (p *Player) TooFarFromGoalMouth() bool {
	r := p.match.params.GoalKeeperInterceptRange
	return geom.DistSq(p.pos, p.RearInterposeTarget()) > r*r
}

// RearInterposeTarget is the point on the goal line the keeper interposes
// from, sliding with the ball's height on the playing area.
func (p *Player) RearInterposeTarget() geom.Vec2 {
	gw := p.match.params.GoalWidth
	area := p.match.playingArea
	x := p.Team().HomeGoal().Center().X()
	y := area.Center().Y() - gw*0.5 + (p.match.ball.pos.Y()-area.Top)*gw/area.Height()
	return geom.V(x, y)
}
