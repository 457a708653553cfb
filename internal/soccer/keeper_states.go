package soccer

import (
	"fmt"

	"github.com/Garsondee/Soccer-Sense/internal/geom"
	"github.com/Garsondee/Soccer-Sense/internal/messaging"
)

// KeeperState is a node of the goalkeeper state graph.
type KeeperState int

const (
	StateTendGoal KeeperState = iota
	StateInterceptBall
	StateReturnHomeGoal
	StatePutBallBackInPlay
	StateKeeperGlobal
)

var keeperStateNames = [...]string{
	StateTendGoal:          "TendGoal",
	StateInterceptBall:     "InterceptBall",
	StateReturnHomeGoal:    "ReturnHomeGoal",
	StatePutBallBackInPlay: "PutBallBackInPlay",
	StateKeeperGlobal:      "KeeperGlobal",
}

func (s KeeperState) String() string {
	if s < 0 || int(s) >= len(keeperStateNames) {
		return fmt.Sprintf("KeeperState(%d)", int(s))
	}
	return keeperStateNames[s]
}

func (s KeeperState) Name() string { return s.String() }

func (s KeeperState) Enter(k *Player) {
	switch s {
	case StateTendGoal:
		k.steering.InterposeOn(k.match.params.GoalKeeperTendingDistance)
		k.steering.SetTarget(k.RearInterposeTarget())
	case StateInterceptBall:
		k.steering.PursuitOn()
	case StateReturnHomeGoal:
		k.steering.ArriveOn()
		k.steering.SetTarget(k.HomeRegion().Center())
	case StatePutBallBackInPlay:
		t := k.Team()
		t.SetControllingPlayer(k.id)
		t.Opponents().ReturnAllFieldPlayersToHome()
		t.ReturnAllFieldPlayersToHome()
	}
}

func (s KeeperState) Execute(k *Player) {
	switch s {
	case StateTendGoal:
		executeTendGoal(k)
	case StateInterceptBall:
		if k.TooFarFromGoalMouth() && !k.IsClosestPlayerOnPitchToBall() {
			k.ChangeState(StateReturnHomeGoal)
			return
		}
		if k.BallWithinKeeperRange() {
			k.takePossession()
		}
	case StateReturnHomeGoal:
		k.steering.SetTarget(k.HomeRegion().Center())
		if k.InHomeRegion() || !k.Team().InControl() {
			k.ChangeState(StateTendGoal)
		}
	case StatePutBallBackInPlay:
		executePutBallBackInPlay(k)
	}
}

func (s KeeperState) Exit(k *Player) {
	switch s {
	case StateTendGoal:
		k.steering.InterposeOff()
	case StateInterceptBall:
		k.steering.PursuitOff()
	case StateReturnHomeGoal:
		k.steering.ArriveOff()
	}
}

func (s KeeperState) OnMessage(k *Player, msg messaging.Telegram) bool {
	if s != StateKeeperGlobal {
		return false
	}
	switch msg.Msg {
	case messaging.MsgGoHome:
		k.SetDefaultHomeRegion()
		k.ChangeState(StateReturnHomeGoal)
		return true
	case messaging.MsgReceiveBall:
		k.ChangeState(StateInterceptBall)
		return true
	}
	return false
}

// takePossession traps the ball and hands the keeper the restart.
func (k *Player) takePossession() {
	k.match.ball.Trap()
	k.match.SetGoalkeeperHasBall(true)
	k.match.event(k.label, k.team.String(), "possession", "keeper", "ball trapped", 0)
	k.ChangeState(StatePutBallBackInPlay)
}

func executeTendGoal(k *Player) {
	k.steering.SetTarget(k.RearInterposeTarget())

	if k.BallWithinKeeperRange() {
		k.takePossession()
		return
	}
	t := k.Team()
	if k.BallWithinRangeForIntercept() && !t.InControl() {
		k.ChangeState(StateInterceptBall)
		return
	}
	if k.TooFarFromGoalMouth() && t.InControl() {
		k.ChangeState(StateReturnHomeGoal)
	}
}

// executePutBallBackInPlay holds the ball until a teammate is open, then
// passes to it.
func executePutBallBackInPlay(k *Player) {
	m := k.match
	prm := &m.params
	receiver, target, ok := k.Team().FindPass(k, prm.MaxPassingForce, prm.GoalkeeperMinPassDist)
	if !ok {
		k.Stop()
		return
	}
	k.kickBall(geom.Normalize(target.Sub(m.ball.pos)), prm.MaxPassingForce, "pass", "restart to "+receiver.label)
	m.SetGoalkeeperHasBall(false)
	m.dispatch(k.id, receiver.id, messaging.MsgReceiveBall, messaging.ReceiveBall{Target: target})
	k.ChangeState(StateTendGoal)
}
