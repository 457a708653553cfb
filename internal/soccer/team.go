package soccer

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/Garsondee/Soccer-Sense/internal/fsm"
	"github.com/Garsondee/Soccer-Sense/internal/geom"
	"github.com/Garsondee/Soccer-Sense/internal/messaging"
)

// TeamSide identifies one of the two teams.
type TeamSide int

const (
	Red  TeamSide = iota // defends the left goal
	Blue                 // defends the right goal
)

func (s TeamSide) String() string {
	if s == Blue {
		return "blue"
	}
	return "red"
}

// Letter is the player label prefix.
func (s TeamSide) Letter() string {
	if s == Blue {
		return "B"
	}
	return "R"
}

func (s TeamSide) Opponent() TeamSide { return 1 - s }

// Team owns its roster, its state machine and the support spot grid. Key
// players are ids resolved through the match arena on every use, so a
// removed player reads back as nil.
type Team struct {
	side    TeamSide
	match   *Match
	roster  []PlayerID
	members []*Player // live roster, rebuilt by refreshMembers

	fsm   *fsm.Machine[*Team]
	spots *SupportSpotCalculator

	controlling      PlayerID
	supporting       PlayerID
	receiving        PlayerID
	closestToBall    PlayerID
	closestOppToGoal PlayerID

	distSqClosestToBall float64

	defendRegions []int
	attackRegions []int
}

func newTeam(m *Match, side TeamSide) *Team {
	t := &Team{
		side:                side,
		match:               m,
		distSqClosestToBall: math.MaxFloat64,
	}
	t.fsm = fsm.New[*Team](t, StatePrepareForKickoff, nil)
	t.fsm.OnChange = t.onStateChange
	return t
}

func (t *Team) onStateChange(from, to fsm.State[*Team]) {
	t.match.event("--", t.side.String(), "team", "state", from.Name()+" -> "+to.Name(), 0)
	t.match.log.Debug("team state change",
		zap.Stringer("team", t.side),
		zap.String("from", from.Name()),
		zap.String("to", to.Name()))
}

func (t *Team) Side() TeamSide                { return t.side }
func (t *Team) Name() string                  { return t.side.String() }
func (t *Team) FSM() *fsm.Machine[*Team]      { return t.fsm }
func (t *Team) StateName() string             { return t.fsm.CurrentName() }
func (t *Team) Spots() *SupportSpotCalculator { return t.spots }

// Update refreshes the per-tick bookkeeping, runs the team state machine,
// then updates every player in roster order.
func (t *Team) Update() {
	t.calculateClosestPlayerToBall()
	t.calculateClosestOpponentToGoal()
	t.fsm.Update()
	for _, p := range t.Members() {
		p.Update()
	}
}

func (t *Team) calculateClosestPlayerToBall() {
	closest := math.MaxFloat64
	t.closestToBall = NoPlayer
	for _, p := range t.Members() {
		p.distSqToBall = geom.DistSq(p.pos, t.match.ball.pos)
		if p.distSqToBall < closest {
			closest = p.distSqToBall
			t.closestToBall = p.id
		}
	}
	t.distSqClosestToBall = closest
}

func (t *Team) calculateClosestOpponentToGoal() {
	closest := math.MaxFloat64
	t.closestOppToGoal = NoPlayer
	gx := t.HomeGoal().Center().X()
	for _, o := range t.Opponents().Members() {
		if o.IsGoalKeeper() {
			continue
		}
		if d := math.Abs(o.pos.X() - gx); d < closest {
			closest = d
			t.closestOppToGoal = o.id
		}
	}
}

// Members is the live roster in roster order. The slice is shared and must
// not be modified.
func (t *Team) Members() []*Player { return t.members }

// refreshMembers resolves the roster again, skipping removed players. It
// builds a new slice so a caller ranging over the old one is unaffected.
func (t *Team) refreshMembers() {
	members := make([]*Player, 0, len(t.roster))
	for _, id := range t.roster {
		if p := t.match.Player(id); p != nil {
			members = append(members, p)
		}
	}
	t.members = members
}

func (t *Team) Opponents() *Team     { return t.match.teams[t.side.Opponent()] }
func (t *Team) HomeGoal() *Goal      { return t.match.goals[t.side] }
func (t *Team) OpponentsGoal() *Goal { return t.match.goals[t.side.Opponent()] }

func (t *Team) ControllingPlayer() *Player     { return t.match.Player(t.controlling) }
func (t *Team) SupportingPlayer() *Player      { return t.match.Player(t.supporting) }
func (t *Team) ReceivingPlayer() *Player       { return t.match.Player(t.receiving) }
func (t *Team) PlayerClosestToBall() *Player   { return t.match.Player(t.closestToBall) }
func (t *Team) OpponentClosestToGoal() *Player { return t.match.Player(t.closestOppToGoal) }

// SetControllingPlayer gives the team possession. Possession is exclusive:
// a non-empty id clears the opponents' controlling player.
func (t *Team) SetControllingPlayer(id PlayerID) {
	if id != NoPlayer {
		t.Opponents().LostControl()
		if id != t.controlling {
			label := "--"
			if p := t.match.Player(id); p != nil {
				label = p.label
			}
			t.match.event(label, t.side.String(), "possession", "gained", "", 0)
		}
	}
	t.controlling = id
}

func (t *Team) SetSupportingPlayer(id PlayerID) { t.supporting = id }
func (t *Team) SetReceivingPlayer(id PlayerID)  { t.receiving = id }

// LostControl drops possession without touching the opponents.
func (t *Team) LostControl() { t.controlling = NoPlayer }

// InControl reports whether one of the team's players has the ball.
func (t *Team) InControl() bool { return t.ControllingPlayer() != nil }

// ClosestDistSqToBall is the squared distance of the team's closest player
// to the ball as of the team's last update.
func (t *Team) ClosestDistSqToBall() float64 { return t.distSqClosestToBall }

// clearKeyPlayers empties every key-player reference without side effects
// on the opponents.
func (t *Team) clearKeyPlayers() {
	t.controlling = NoPlayer
	t.supporting = NoPlayer
	t.receiving = NoPlayer
	t.closestToBall = NoPlayer
}

// forgetPlayer drops every key-player reference to id.
func (t *Team) forgetPlayer(id PlayerID) {
	for _, ref := range []*PlayerID{&t.controlling, &t.supporting, &t.receiving, &t.closestToBall, &t.closestOppToGoal} {
		if *ref == id {
			*ref = NoPlayer
		}
	}
}

// ReturnAllFieldPlayersToHome sends GoHome to every field player.
func (t *Team) ReturnAllFieldPlayersToHome() {
	for _, p := range t.Members() {
		if !p.IsGoalKeeper() {
			t.match.dispatch(NoPlayer, p.id, messaging.MsgGoHome, nil)
		}
	}
}

// UpdateTargetsOfWaitingPlayers re-targets idle field players at their
// (possibly new) home region centre.
func (t *Team) UpdateTargetsOfWaitingPlayers() {
	for _, p := range t.Members() {
		if p.IsGoalKeeper() {
			continue
		}
		if p.fsm.IsInState(StateWait) || p.fsm.IsInState(StateReturnToHomeRegion) {
			p.steering.SetTarget(p.HomeRegion().Center())
		}
	}
}

func (t *Team) AllPlayersAtHome() bool {
	for _, p := range t.Members() {
		if !p.InHomeRegion() {
			return false
		}
	}
	return true
}

// SetPlayerHomeRegion moves one player's home region.
func (t *Team) SetPlayerHomeRegion(id PlayerID, region int) {
	if p := t.match.Player(id); p != nil && p.team == t.side {
		p.SetHomeRegion(region)
	}
}

// ChangePlayerHomeRegions assigns regions in roster order.
func (t *Team) ChangePlayerHomeRegions(regions []int) {
	for i, id := range t.roster {
		if i >= len(regions) {
			return
		}
		t.SetPlayerHomeRegion(id, regions[i])
	}
}

// RequestPass occasionally asks the controlling player for the ball, when
// a pass to the requester would be safe.
func (t *Team) RequestPass(requester *Player) {
	prm := &t.match.params
	if t.match.rng.Float64() > prm.ChancePlayerRequestsPass {
		return
	}
	ctrl := t.ControllingPlayer()
	if ctrl == nil || ctrl == requester {
		return
	}
	if t.IsPassSafeFromAllOpponents(ctrl.pos, requester.pos, requester, prm.MaxPassingForce) {
		t.match.event(requester.label, t.side.String(), "pass", "request", "to "+ctrl.label, 0)
		t.match.dispatch(requester.id, ctrl.id, messaging.MsgPassToMe, messaging.PassToMe{Requester: requester.id})
	}
}

func (t *Team) IsOpponentWithinRadius(pos geom.Vec2, r float64) bool {
	for _, o := range t.Opponents().Members() {
		if geom.DistSq(pos, o.pos) < r*r {
			return true
		}
	}
	return false
}

// GetSupportSpot is the current best support spot.
func (t *Team) GetSupportSpot() geom.Vec2 { return t.spots.GetBestSupportingSpot() }

// DetermineBestSupportingPosition rescans the support spots when the
// calculator's regulator allows it.
func (t *Team) DetermineBestSupportingPosition() geom.Vec2 {
	return t.spots.DetermineBestSupportingPosition()
}

// DetermineBestSupportingAttacker returns the non-controlling attacker
// nearest the best support spot, or nil.
func (t *Team) DetermineBestSupportingAttacker() *Player {
	spot := t.GetSupportSpot()
	var best *Player
	closest := math.MaxFloat64
	for _, p := range t.Members() {
		if p.role != RoleAttacker || p.id == t.controlling {
			continue
		}
		if d := geom.DistSq(p.pos, spot); d < closest {
			closest = d
			best = p
		}
	}
	return best
}

func (t *Team) String() string {
	return fmt.Sprintf("%s team (%s)", t.side, t.StateName())
}
