package soccer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleLog() *MatchLog {
	ml := NewMatchLog(false)
	ml.Add(1, "R2", "red", "state", "change", "Wait -> ChaseBall", 0)
	ml.Add(2, "R2", "red", "pass", "kick", "to R3", 3)
	ml.Add(2, "B4", "blue", "possession", "gained", "", 0)
	ml.Add(5, "B4", "blue", "shot", "kick", "at (20, 190)", 6)
	ml.AddVerbose(5, "R1", "red", "message", "go_home", "from 0", 0)
	return ml
}

func TestMatchLogEntry_String(t *testing.T) {
	e := MatchLogEntry{Tick: 7, Player: "R2", Category: "pass", Key: "kick", Value: "to R3"}
	require.Equal(t, "[T=007] R2   pass      kick             to R3", e.String())
}

func TestMatchLog_VerboseOnlyWhenEnabled(t *testing.T) {
	require.Equal(t, 4, sampleLog().Len())

	ml := NewMatchLog(true)
	ml.AddVerbose(1, "R1", "red", "message", "wait", "", 0)
	require.Equal(t, 1, ml.Len())
}

func TestMatchLog_Queries(t *testing.T) {
	ml := sampleLog()

	require.Len(t, ml.Filter("", "kick"), 2)
	require.Len(t, ml.Filter("pass", ""), 1)
	require.Len(t, ml.FilterPlayer("B4"), 2)
	require.Len(t, ml.FilterTickRange(2, 4), 2)
	require.Equal(t, 1, ml.CountCategory("shot", "kick"))
	require.Equal(t, 1, ml.CountTeam("red", "pass", "kick"))
	require.Equal(t, 0, ml.CountTeam("blue", "pass", ""))

	last, ok := ml.LastOf("", "kick")
	require.True(t, ok)
	require.Equal(t, "B4", last.Player)
	_, ok = ml.LastOf("goal", "")
	require.False(t, ok)

	require.True(t, ml.HasEntry("state", "change", "ChaseBall"))
	require.False(t, ml.HasEntry("state", "change", "Dribble"))
	require.True(t, ml.HasEntry("", "", ""))
}

func TestMatchLog_SinceCopiesTail(t *testing.T) {
	ml := sampleLog()

	tail := ml.Since(2)
	require.Len(t, tail, 2)
	require.Equal(t, "possession", tail[0].Category)
	tail[0].Category = "changed"
	require.Equal(t, "possession", ml.Entries()[2].Category)

	require.Len(t, ml.Since(-3), 4)
	require.Nil(t, ml.Since(4))
	require.Nil(t, ml.Since(100))
}

func TestMatchLog_LimitKeepsNewestAndCountsAll(t *testing.T) {
	ml := NewMatchLog(false)
	ml.SetLimit(3)
	for i := 0; i < 10; i++ {
		ml.Add(i, "R2", "red", "state", "change", "", 0)
	}
	require.Equal(t, 10, ml.Len())
	require.Equal(t, 3, ml.Limit())

	kept := ml.Entries()
	require.Len(t, kept, 3)
	require.Equal(t, []int{7, 8, 9}, []int{kept[0].Tick, kept[1].Tick, kept[2].Tick})
	require.Len(t, ml.Filter("state", ""), 3)
	require.Len(t, ml.FilterTickRange(0, 6), 0)

	// Indexes stay absolute: anything older than the window is gone.
	require.Len(t, ml.Since(0), 3)
	tail := ml.Since(8)
	require.Len(t, tail, 2)
	require.Equal(t, 8, tail[0].Tick)
	require.Nil(t, ml.Since(10))

	ml.Add(10, "R2", "red", "state", "change", "", 0)
	require.Equal(t, 9, kept[2].Tick, "earlier results are not overwritten")
	require.Equal(t, 11, ml.Len())
}

func TestMatchLog_SetLimitTrimsExisting(t *testing.T) {
	ml := sampleLog()
	ml.SetLimit(2)
	require.Equal(t, 4, ml.Len())
	require.Len(t, ml.Entries(), 2)
	require.Equal(t, "shot", ml.Entries()[1].Category)

	ml.SetLimit(-1)
	require.Zero(t, ml.Limit())
	ml.Add(6, "R1", "red", "kick", "kick", "", 1)
	require.Len(t, ml.Entries(), 3)
}

func TestMatch_EventLimitKeepsSnapshotIndexes(t *testing.T) {
	tm := NewTestMatch(WithEventLimit(8))
	tm.RunTicks(400)
	total := tm.Log.Len()
	require.Greater(t, total, 8)
	require.LessOrEqual(t, len(tm.Log.Entries()), 8)

	s := tm.Snapshot(5)
	require.Equal(t, total, s.EventTotal)
	require.Len(t, s.Events, 5)
	require.Equal(t, tm.Log.Entries()[len(tm.Log.Entries())-1], s.Events[4])
}

func TestMatchLog_FormatAndReset(t *testing.T) {
	ml := sampleLog()
	require.Equal(t, "[T=005] B4   shot      kick             at (20, 190)\n", ml.FormatRange(3, 9))

	ml.Reset()
	require.Equal(t, 0, ml.Len())
	require.Empty(t, ml.Format())
}
