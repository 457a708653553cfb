package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/Garsondee/Soccer-Sense/internal/config"
	"github.com/Garsondee/Soccer-Sense/internal/logging"
	"github.com/Garsondee/Soccer-Sense/internal/soccer"
)

func TestCollectStats(t *testing.T) {
	entries := []soccer.MatchLogEntry{
		{Tick: 0, Player: "--", Team: "--", Category: "team", Key: "kickoff"},
		{Tick: 3, Player: "R2", Team: "red", Category: "state", Key: "change", Value: "ReturnToHomeRegion -> ChaseBall"},
		{Tick: 9, Player: "R2", Team: "red", Category: "possession", Key: "gained"},
		{Tick: 10, Player: "R2", Team: "red", Category: "pass", Key: "kick", Value: "to R3"},
		{Tick: 12, Player: "R3", Team: "red", Category: "state", Key: "change", Value: "Wait -> ReceiveBall"},
		{Tick: 20, Player: "R3", Team: "red", Category: "shot", Key: "kick", Value: "at (680, 190)"},
		{Tick: 25, Player: "--", Team: "red", Category: "goal", Key: "scored", Value: "red 1 - 0 blue"},
		{Tick: 25, Player: "--", Team: "--", Category: "team", Key: "kickoff"},
		{Tick: 40, Player: "B1", Team: "blue", Category: "possession", Key: "keeper", Value: "ball trapped"},
		{Tick: 41, Player: "B3", Team: "blue", Category: "pass", Key: "request", Value: "to B2"},
		{Tick: 50, Player: "B2", Team: "blue", Category: "state", Key: "change", Value: "Wait -> ChaseBall"},
	}

	rs := collectStats(entries)
	require.Equal(t, 1, rs.redGoals)
	require.Equal(t, 0, rs.blueGoals)
	require.Equal(t, 10, rs.firstKickTick)
	require.Equal(t, 20, rs.firstShotTick)
	require.Equal(t, 25, rs.firstGoalTick)
	require.Equal(t, [2]int{1, 0}, rs.shots)
	require.Equal(t, [2]int{1, 0}, rs.passes)
	require.Equal(t, [2]int{0, 1}, rs.passAsks)
	require.Equal(t, [2]int{1, 0}, rs.possession)
	require.Equal(t, [2]int{0, 1}, rs.keeperSaves)
	require.Equal(t, 2, rs.kickoffs)
	require.Equal(t, 3, rs.stateChanges)
	require.Equal(t, map[string]int{"ChaseBall": 2, "ReceiveBall": 1}, rs.states)
}

func TestCollectStats_EmptyLog(t *testing.T) {
	rs := collectStats(nil)
	require.Equal(t, -1, rs.firstKickTick)
	require.Equal(t, -1, rs.firstGoalTick)
	require.Equal(t, "none", joinCounts(rs.states))
}

func TestRunAll_DeterministicAndOrdered(t *testing.T) {
	log := logging.Nop()
	a, err := runAll(context.Background(), config.Default(), 3, 300, 7, 2, 3, log)
	require.NoError(t, err)
	b, err := runAll(context.Background(), config.Default(), 3, 300, 7, 2, 1, log)
	require.NoError(t, err)

	require.Len(t, a, 3)
	for i := range a {
		require.Equal(t, i+1, a[i].runIndex)
		require.Equal(t, int64(7+2*i), a[i].seed)
		require.NotEqual(t, a[i].matchID, b[i].matchID)
		a[i].matchID, b[i].matchID = "", ""
		require.Equal(t, a[i], b[i], "run %d differs between parallel and serial", i+1)
		require.GreaterOrEqual(t, a[i].kickoffs, 1)
	}
}

func TestRunAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runAll(ctx, config.Default(), 2, 100, 1, 1, 1, logging.Nop())
	require.ErrorIs(t, err, context.Canceled)
}

func TestPrintAggregate(t *testing.T) {
	all := []runStats{
		{redGoals: 2, blueGoals: 1, firstShotTick: 100, firstGoalTick: 150, states: map[string]int{"Wait": 2}},
		{redGoals: 0, blueGoals: 0, firstShotTick: -1, firstGoalTick: -1, states: map[string]int{"Wait": 1, "Dribble": 4}},
	}
	var buf bytes.Buffer
	printAggregate(&buf, all)
	out := buf.String()
	require.Contains(t, out, "runs=2 red_wins=1 blue_wins=0 draws=1\n")
	require.Contains(t, out, "avg_goals_per_run: red=1.00 blue=0.50\n")
	require.Contains(t, out, "first_shot=100.0 first_goal=150.0\n")
	require.Contains(t, out, "states_entered: Dribble=4 Wait=3\n")
}
