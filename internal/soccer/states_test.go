package soccer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Soccer-Sense/internal/geom"
	"github.com/Garsondee/Soccer-Sense/internal/messaging"
)

var testKeeper = PlayerSpec{Role: RoleGoalKeeper, DefendRegion: 16, AttackRegion: 16}

func TestKickBall_ShootsAtUnmarkedGoal(t *testing.T) {
	tm := NewTestMatch(
		WithoutTeam(Blue),
		WithRoster(Red, testAttacker),
		WithBallAt(350, 200),
		WithPlayerAt("R1", 345, 200),
	)
	p := tm.MustPlayer("R1")
	require.Equal(t, geom.V(1, 0), p.Heading())
	p.Team().SetControllingPlayer(p.ID())

	StateKickBall.Execute(p)

	ball := tm.Ball()
	prm := tm.Params()
	require.InDelta(t, prm.MaxShootingForce/prm.BallMass, ball.Speed(), 1e-9)

	// Follow the ball's line to the goal line: it lands in the mouth, give
	// or take the kicking noise.
	v := ball.Velocity()
	require.Greater(t, v.X(), 0.0)
	goalX := tm.Goal(Blue).Center().X()
	y := ball.Position().Y() + v.Y()/v.X()*(goalX-ball.Position().X())
	require.InDelta(t, 200, y, 61)

	require.True(t, p.FSM().IsInState(StateWait))
	require.True(t, tm.Log.HasEntry("shot", "kick", ""))
	require.Equal(t, 1, tm.Log.CountTeam("red", "shot", "kick"))
}

func TestKickBall_BallBehindPlayerGoesBackToChase(t *testing.T) {
	tm := NewTestMatch(
		WithoutTeam(Blue),
		WithRoster(Red, testAttacker),
		WithBallAt(340, 200),
		WithPlayerAt("R1", 345, 200),
	)
	p := tm.MustPlayer("R1")
	StateKickBall.Execute(p)
	require.True(t, p.FSM().IsInState(StateChaseBall))
	require.True(t, geom.IsZero(tm.Ball().Velocity()))
}

func TestDribble_KicksTowardOpponentsGoal(t *testing.T) {
	tm := NewTestMatch(
		WithoutTeam(Blue),
		WithRoster(Red, testAttacker),
		WithBallAt(350, 200),
		WithPlayerAt("R1", 345, 200),
	)
	p := tm.MustPlayer("R1")
	StateDribble.Execute(p)

	v := tm.Ball().Velocity()
	prm := tm.Params()
	require.InDelta(t, prm.MaxDribbleForce/prm.BallMass, v.X(), 1e-9)
	require.InDelta(t, 0, v.Y(), 1e-9)
	require.True(t, p.FSM().IsInState(StateChaseBall))
}

func TestDribble_TurnsWhenFacingOwnGoal(t *testing.T) {
	tm := NewTestMatch(
		WithoutTeam(Blue),
		WithRoster(Red, testAttacker),
		WithBallAt(340, 200),
		WithPlayerAt("R1", 345, 200),
	)
	p := tm.MustPlayer("R1")
	p.SetHeading(geom.V(-1, 0.2))
	StateDribble.Execute(p)

	v := tm.Ball().Velocity()
	require.InDelta(t, dribbleTurnForce/tm.Params().BallMass, v.Len(), 1e-9)
	// Pushed off at 45 degrees to the heading, not along it.
	require.InDelta(t, 0.7071, geom.Normalize(v).Dot(p.Heading()), 1e-3)
}

func TestTeam_PossessionStartsAttackAndIsExclusive(t *testing.T) {
	tm := NewTestMatch()
	tick := tm.RunUntil(func(tm *TestMatch) bool { return tm.BothTeamsIn(StateDefending) }, 600)
	require.NotEqual(t, -1, tick, tm.Log.Format())
	require.True(t, tm.GameInPlay())

	red, blue := tm.Team(Red), tm.Team(Blue)
	blue.SetControllingPlayer(tm.MustPlayer("B3").ID())
	require.True(t, blue.InControl())

	r2 := tm.MustPlayer("R2")
	red.SetControllingPlayer(r2.ID())
	require.Same(t, r2, red.ControllingPlayer())
	require.Nil(t, blue.ControllingPlayer())

	red.FSM().Update()
	require.True(t, red.FSM().IsInState(StateAttacking))
	require.Equal(t, "Attacking", red.StateName())

	// Attacking homes come from the attack column of the lineup.
	for i, p := range red.Members() {
		require.Equal(t, DefaultLineup(Red)[i].AttackRegion, p.HomeRegionID(), p.Label())
	}

	red.LostControl()
	red.FSM().Update()
	require.True(t, red.FSM().IsInState(StateDefending))
	require.Nil(t, red.SupportingPlayer())
}

func TestTeam_KickoffWaitsForEveryoneHome(t *testing.T) {
	tm := NewTestMatch(WithPlayerAt("R2", 600, 50))
	require.False(t, tm.GameInPlay())
	require.True(t, tm.Team(Red).FSM().IsInState(StatePrepareForKickoff))

	tm.RunTicks(1)
	require.True(t, tm.Team(Red).FSM().IsInState(StatePrepareForKickoff), "R2 is far from home")
	require.False(t, tm.GameInPlay())

	tick := tm.RunUntil(func(tm *TestMatch) bool { return tm.GameInPlay() }, 3000)
	require.NotEqual(t, -1, tick)
	require.Greater(t, tick, 1)
	require.Equal(t, 1, tm.Log.CountCategory("team", "kickoff"))
}

func TestKeeper_TrapsBallAndRestartsPlay(t *testing.T) {
	tm := NewTestMatch(
		WithoutTeam(Blue),
		WithRoster(Red, testKeeper, testAttacker),
		WithBallAt(80, 200),
	)
	keeper := tm.MustPlayer("R1")
	require.True(t, keeper.IsGoalKeeper())
	require.True(t, keeper.FSM().IsInState(StateTendGoal))

	tick := tm.RunUntil(func(tm *TestMatch) bool {
		return tm.Log.HasEntry("pass", "kick", "restart to R2")
	}, 30)
	require.NotEqual(t, -1, tick, tm.Log.Format())

	require.True(t, tm.Log.HasEntry("possession", "keeper", ""))
	require.False(t, tm.GoalkeeperHasBall())
	require.True(t, keeper.FSM().IsInState(StateTendGoal))
	require.False(t, geom.IsZero(tm.Ball().Velocity()))

	r2 := tm.MustPlayer("R2")
	require.True(t, r2.FSM().IsInState(StateReceiveBall))
	require.Same(t, r2, tm.Team(Red).ReceivingPlayer())
}

func TestKeeper_InterceptsLooseBallNearGoal(t *testing.T) {
	tm := NewTestMatch(
		WithoutTeam(Blue),
		WithRoster(Red, testKeeper),
		WithBallAt(100, 160),
	)
	keeper := tm.MustPlayer("R1")
	tm.RunTicks(1)
	require.True(t, keeper.FSM().IsInState(StateInterceptBall), tm.Log.Format())
	require.True(t, keeper.Steering().PursuitIsOn())
}

func TestFieldPlayer_GoHomeMessage(t *testing.T) {
	tm := NewTestMatch()
	r2 := tm.MustPlayer("R2")

	// Every field player was sent home by the kickoff preparation.
	require.True(t, r2.FSM().IsInState(StateReturnToHomeRegion))
	entries := tm.Log.FilterPlayer("R2")
	require.NotEmpty(t, entries)
	require.Equal(t, "Wait -> ReturnToHomeRegion", entries[0].Value)

	r2.SetHomeRegion(0)
	r2.ChangeState(StateWait)
	tm.dispatch(NoPlayer, r2.ID(), messaging.MsgGoHome, nil)
	require.True(t, r2.FSM().IsInState(StateReturnToHomeRegion))
	require.Equal(t, DefaultLineup(Red)[1].DefendRegion, r2.HomeRegionID())
	require.Equal(t, r2.HomeRegion().Center(), r2.Steering().Target())
}

func TestFieldPlayer_ReceiveBallMessageSetsTarget(t *testing.T) {
	tm := NewTestMatch()
	r2 := tm.MustPlayer("R2")
	target := geom.V(420, 300)

	tm.dispatch(tm.MustPlayer("R3").ID(), r2.ID(), messaging.MsgReceiveBall, messaging.ReceiveBall{Target: target})
	require.True(t, r2.FSM().IsInState(StateReceiveBall))
	require.Same(t, r2, tm.Team(Red).ReceivingPlayer())
	require.Same(t, r2, tm.Team(Red).ControllingPlayer())
	require.True(t, r2.Steering().ArriveIsOn() || r2.Steering().PursuitIsOn())
	if r2.Steering().ArriveIsOn() {
		require.Equal(t, target, r2.Steering().Target())
	}

	// Leaving ReceiveBall clears the receiver and turns its behaviors off.
	r2.ChangeState(StateWait)
	require.Nil(t, tm.Team(Red).ReceivingPlayer())
	require.False(t, r2.Steering().ArriveIsOn())
	require.False(t, r2.Steering().PursuitIsOn())
}

func TestFieldPlayer_PassToMeFromRequester(t *testing.T) {
	tm := NewTestMatch(
		WithoutTeam(Blue),
		WithRoster(Red, testAttacker, testAttacker),
		WithBallAt(300, 200),
		WithPlayerAt("R1", 295, 200),
		WithPlayerAt("R2", 450, 260),
	)
	r1, r2 := tm.MustPlayer("R1"), tm.MustPlayer("R2")
	tm.Team(Red).SetControllingPlayer(r1.ID())

	tm.dispatch(r2.ID(), r1.ID(), messaging.MsgPassToMe, messaging.PassToMe{Requester: r2.ID()})

	require.True(t, r2.FSM().IsInState(StateReceiveBall))
	require.True(t, tm.Log.HasEntry("pass", "kick", "requested by R2"))

	// R2 now controls the ball, so the passer is the only attacker left to
	// support it.
	require.True(t, r1.FSM().IsInState(StateSupportAttacker))
	require.Same(t, r1, tm.Team(Red).SupportingPlayer())
	dir := geom.Normalize(tm.Ball().Velocity())
	require.InDelta(t, 1, dir.Dot(geom.Normalize(r2.Position().Sub(tm.Ball().Position()))), 1e-9)
}

func TestFieldPlayer_WaitMessage(t *testing.T) {
	tm := NewTestMatch()
	r2 := tm.MustPlayer("R2")
	tm.dispatch(NoPlayer, r2.ID(), messaging.MsgWait, nil)
	require.True(t, r2.FSM().IsInState(StateWait))
}

func TestSupportAttacker_ExitOnlyClearsItself(t *testing.T) {
	tm := NewTestMatch()
	red := tm.Team(Red)
	r2, r3 := tm.MustPlayer("R2"), tm.MustPlayer("R3")
	red.SetControllingPlayer(tm.MustPlayer("R4").ID())

	tm.dispatch(NoPlayer, r2.ID(), messaging.MsgSupportAttacker, nil)
	require.True(t, r2.FSM().IsInState(StateSupportAttacker))

	red.SetSupportingPlayer(r3.ID())
	r2.ChangeState(StateWait)
	require.Same(t, r3, red.SupportingPlayer())

	red.SetSupportingPlayer(r2.ID())
	tm.dispatch(NoPlayer, r2.ID(), messaging.MsgSupportAttacker, nil)
	r2.ChangeState(StateWait)
	require.Nil(t, red.SupportingPlayer())
}

func TestStateNames(t *testing.T) {
	require.Equal(t, "ReturnToHomeRegion", StateReturnToHomeRegion.Name())
	require.Equal(t, "PutBallBackInPlay", StatePutBallBackInPlay.Name())
	require.Equal(t, "PrepareForKickoff", StatePrepareForKickoff.Name())
	require.Equal(t, "FieldState(42)", FieldState(42).String())
}
