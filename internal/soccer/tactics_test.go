package soccer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Soccer-Sense/internal/geom"
)

var testDefender = PlayerSpec{Role: RoleDefender, DefendRegion: 6, AttackRegion: 12}

func TestIsPassSafeFromOpponent(t *testing.T) {
	tm := NewTestMatch(
		WithRoster(Red, testAttacker, testAttacker),
		WithRoster(Blue, testDefender),
		WithPlayerAt("R1", 200, 200),
		WithPlayerAt("R2", 400, 200),
	)
	red := tm.Team(Red)
	receiver := tm.MustPlayer("R2")
	opp := tm.MustPlayer("B1")
	from, to := geom.V(200, 200), geom.V(400, 200)
	force := tm.Params().MaxPassingForce

	cases := []struct {
		name string
		opp  geom.Vec2
		want bool
	}{
		{"behind the passer", geom.V(150, 200), true},
		{"in the passing lane", geom.V(300, 200), false},
		{"far to the side", geom.V(300, 350), true},
		{"beyond the receiver, receiver nearer", geom.V(500, 200), true},
		{"just past the receiver", geom.V(410, 200), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			opp.SetPosition(c.opp)
			require.Equal(t, c.want, red.IsPassSafeFromOpponent(from, to, receiver, opp, force))
		})
	}
}

func TestIsPassSafeFromOpponent_BallStopsShortIsUnsafe(t *testing.T) {
	tm := NewTestMatch(
		WithRoster(Red, testAttacker),
		WithRoster(Blue, testDefender),
		WithPlayerAt("B1", 400, 370),
	)
	red := tm.Team(Red)
	// Force 1 stops the ball after ~33 units, well short of the opponent.
	ok := red.IsPassSafeFromOpponent(geom.V(50, 200), geom.V(650, 200), nil, tm.MustPlayer("B1"), 1)
	require.False(t, ok)
}

func TestFindPass_OneSafeTeammate(t *testing.T) {
	tm := NewTestMatch(
		WithoutTeam(Blue),
		WithRoster(Red, testAttacker, testAttacker, testAttacker),
		WithBallAt(200, 200),
		WithPlayerAt("R1", 195, 200),
		WithPlayerAt("R2", 400, 200),
		WithPlayerAt("R3", 250, 250), // inside the minimum pass distance
	)
	red := tm.Team(Red)
	prm := tm.Params()

	receiver, target, ok := red.FindPass(tm.MustPlayer("R1"), prm.MaxPassingForce, prm.MinPassDist)
	require.True(t, ok)
	require.Equal(t, "R2", receiver.Label())
	require.True(t, tm.PlayingArea().Inside(target, RegionNormal))
	require.Less(t, geom.Dist(target, receiver.Position()), 45.0)
	require.True(t, red.IsPassSafeFromAllOpponents(tm.Ball().Position(), target, receiver, prm.MaxPassingForce))
}

func TestFindPass_NoSafeTeammate(t *testing.T) {
	tm := NewTestMatch(
		WithRoster(Red, testAttacker, testAttacker),
		WithRoster(Blue, testDefender),
		WithBallAt(200, 200),
		WithPlayerAt("R1", 195, 200),
		WithPlayerAt("R2", 400, 200),
		WithPlayerAt("B1", 300, 200),
	)
	prm := tm.Params()
	receiver, _, ok := tm.Team(Red).FindPass(tm.MustPlayer("R1"), prm.MaxPassingForce, prm.MinPassDist)
	require.False(t, ok)
	require.Nil(t, receiver)
}

func TestGetBestPassToReceiver_OutOfReach(t *testing.T) {
	tm := NewTestMatch(
		WithoutTeam(Blue),
		WithRoster(Red, testAttacker),
		WithBallAt(40, 200),
		WithPlayerAt("R1", 640, 200),
	)
	_, ok := tm.Team(Red).GetBestPassToReceiver(tm.MustPlayer("R1"), 1)
	require.False(t, ok)
}

func TestCanShoot_UnmarkedGoal(t *testing.T) {
	tm := NewTestMatch(WithoutTeam(Blue), WithRoster(Red, testAttacker))
	goal := tm.Goal(Blue)

	for i := 0; i < 20; i++ {
		target, ok := tm.Team(Red).CanShoot(geom.V(500, 200), tm.Params().MaxShootingForce)
		require.True(t, ok)
		require.Equal(t, goal.Center().X(), target.X())
		require.Greater(t, target.Y(), goal.LeftPost().Y())
		require.Less(t, target.Y(), goal.RightPost().Y())
	}
}

func TestCanShoot_SamplesBothEndsOfGoalMouth(t *testing.T) {
	tm := NewTestMatch(WithoutTeam(Blue), WithRoster(Red, testAttacker))
	goal := tm.Goal(Blue)
	r := tm.Ball().BoundingRadius()
	minY := float64(int(goal.LeftPost().Y() + r))
	maxY := float64(int(goal.RightPost().Y() - r))

	seen := map[float64]bool{}
	for i := 0; i < 3000; i++ {
		target, ok := tm.Team(Red).CanShoot(geom.V(600, 200), tm.Params().MaxShootingForce)
		require.True(t, ok)
		require.GreaterOrEqual(t, target.Y(), minY)
		require.LessOrEqual(t, target.Y(), maxY)
		seen[target.Y()] = true
	}
	require.True(t, seen[minY], "lowest point of the mouth is reachable")
	require.True(t, seen[maxY], "highest point of the mouth is reachable")
}

func TestCanShoot_TooWeak(t *testing.T) {
	tm := NewTestMatch(WithoutTeam(Blue), WithRoster(Red, testAttacker))
	target, ok := tm.Team(Red).CanShoot(geom.V(100, 200), 1)
	require.False(t, ok)
	require.Equal(t, tm.Goal(Blue).Center().X(), target.X(), "the last sample is still on the goal line")
}

func TestSupportSpots_InOpponentsHalf(t *testing.T) {
	tm := NewTestMatch()
	midX := tm.PlayingArea().Center().X()
	prm := tm.Params()
	want := (prm.NumSupportSpotsX/2 - 1) * prm.NumSupportSpotsY

	red := tm.Team(Red).Spots().Spots()
	require.Len(t, red, want)
	for _, s := range red {
		require.Greater(t, s.Pos.X(), midX)
		require.True(t, tm.PlayingArea().Inside(s.Pos, RegionNormal))
	}
	blue := tm.Team(Blue).Spots().Spots()
	require.Len(t, blue, want)
	for _, s := range blue {
		require.Less(t, s.Pos.X(), midX)
	}
}

func TestSupportSpots_BestIsChosenAndRemembered(t *testing.T) {
	tm := NewTestMatch(WithoutTeam(Blue))
	calc := tm.Team(Red).Spots()
	_, ok := calc.Best()
	require.False(t, ok)

	pos := calc.DetermineBestSupportingPosition()
	best, ok := calc.Best()
	require.True(t, ok)
	require.Equal(t, best.Pos, pos)
	require.GreaterOrEqual(t, best.Score, 1.0)
	for _, s := range calc.Spots() {
		require.LessOrEqual(t, s.Score, best.Score)
	}

	// Until the regulator fires the remembered spot is returned unchanged.
	require.Equal(t, pos, tm.Team(Red).GetSupportSpot())
}

func TestSupportSpots_UnmarkedSpotsScorePassAndShot(t *testing.T) {
	tm := NewTestMatch(WithoutTeam(Blue), WithRoster(Red, testAttacker))
	prm := tm.Params()
	calc := tm.Team(Red).Spots()
	calc.DetermineBestSupportingPosition()

	best, ok := calc.Best()
	require.True(t, ok)
	// With no opponents every spot is pass-safe; a spot in range of goal can
	// also score. No supporter means no distance bonus.
	require.Equal(t, 1+prm.SpotPassSafeScore+prm.SpotCanScoreFromPositionScore, best.Score)
}
