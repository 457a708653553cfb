package viewer

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"

	"github.com/Garsondee/Soccer-Sense/internal/config"
	"github.com/Garsondee/Soccer-Sense/internal/geom"
	"github.com/Garsondee/Soccer-Sense/internal/soccer"
)

func entry(tick int, key string) soccer.MatchLogEntry {
	return soccer.MatchLogEntry{Tick: tick, Player: "R2", Team: "red", Category: "state", Key: key}
}

func window(id string, total, n int) *soccer.Snapshot {
	s := &soccer.Snapshot{MatchID: id, EventTotal: total}
	for i := total - n; i < total; i++ {
		s.Events = append(s.Events, entry(i, fmt.Sprintf("e%d", i)))
	}
	return s
}

func newTestViewer(t *testing.T, opts ...soccer.MatchOption) (*Viewer, *soccer.TestMatch, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	tm := soccer.NewTestMatch(opts...)
	r := soccer.NewRunner(tm.Match)
	v := New(r, config.Display{}, zap.New(core))
	return v, tm, logs
}

func TestEventLog_KeepsNewest(t *testing.T) {
	el := NewEventLog()
	for i := 0; i < logMaxEntries+5; i++ {
		el.Add(entry(i, "k"))
	}
	got := el.Recent()
	require.Len(t, got, logMaxEntries)
	require.Equal(t, 5, got[0].Tick)
	require.Equal(t, logMaxEntries+4, got[len(got)-1].Tick)
}

func TestEventLog_FeedFollowsSnapshots(t *testing.T) {
	el := NewEventLog()
	require.Equal(t, 0, el.Feed(nil))

	require.Equal(t, 3, el.Feed(window("m1", 3, 3)))
	require.Equal(t, 0, el.Feed(window("m1", 3, 3)), "same snapshot twice")
	require.Equal(t, 2, el.Feed(window("m1", 5, 5)))

	got := el.Recent()
	require.Len(t, got, 5)
	require.Equal(t, "e4", got[4].Key)

	// A new match starts over.
	require.Equal(t, 1, el.Feed(window("m2", 1, 1)))
	got = el.Recent()
	require.Len(t, got, 1)
	require.Equal(t, "e0", got[0].Key)
}

func TestEventLog_FeedSkipsEventsOutsideWindow(t *testing.T) {
	el := NewEventLog()
	el.Feed(window("m1", 2, 2))
	// 10 more events happened, but only the last 4 are in the window.
	require.Equal(t, 4, el.Feed(window("m1", 12, 4)))
	got := el.Recent()
	require.Equal(t, "e8", got[2].Key)
}

func TestEventLine(t *testing.T) {
	e := soccer.MatchLogEntry{Tick: 42, Player: "B4", Team: "blue", Category: "shot", Key: "kick", Value: "at (20, 190)"}
	require.Equal(t, "   42 B4  shot/kick at (20, 190)", eventLine(e))
	e.Value = ""
	require.Equal(t, "   42 B4  shot/kick", eventLine(e))
}

func TestInspector_CycleWrapsThroughPlayers(t *testing.T) {
	s := soccer.NewTestMatch().Snapshot(0)
	var in Inspector

	in.Cycle(s)
	require.Equal(t, s.Players[0].Label, in.selected)
	for i := 1; i < len(s.Players); i++ {
		in.Cycle(s)
		require.Equal(t, s.Players[i].Label, in.selected)
	}
	in.Cycle(s)
	require.Empty(t, in.selected)
	_, ok := in.Selected(s)
	require.False(t, ok)

	in.selected = "R9"
	in.Cycle(s)
	require.Equal(t, s.Players[0].Label, in.selected)
}

func TestPickPlayer(t *testing.T) {
	s := soccer.NewTestMatch(soccer.WithPlayerAt("R3", 300, 100)).Snapshot(0)
	require.Equal(t, "R3", pickPlayer(s, geom.V(303, 102), 8))
	require.Empty(t, pickPlayer(s, geom.V(350, 10), 8))
}

func TestBodyOutline_FollowsHeading(t *testing.T) {
	s := soccer.NewTestMatch(soccer.WithPlayerAt("R3", 300, 100)).Snapshot(0)
	var p soccer.PlayerView
	for _, pv := range s.Players {
		if pv.Label == "R3" {
			p = pv
		}
	}
	require.Equal(t, geom.V(1, 0), p.Heading)

	out := bodyOutline(p)
	require.Len(t, out, len(playerBody))
	for _, pt := range out {
		require.LessOrEqual(t, geom.Dist(pt, p.Pos), p.Radius*1.05)
	}
	// the shoulders sit ahead of the back corners
	require.InDelta(t, 300+0.3*p.Radius, out[1].X(), 1e-9)
	require.InDelta(t, 300-0.3*p.Radius, out[0].X(), 1e-9)
	require.InDelta(t, p.Radius*2, geom.Dist(out[1], out[2]), 1e-9)
}

func TestHandleInspectorClick(t *testing.T) {
	v, tm, _ := newTestViewer(t, soccer.WithPlayerAt("R3", 300, 100))
	s := tm.Snapshot(0)

	mx := v.offX + int(300*v.scale)
	my := v.offY + int(100*v.scale)
	require.True(t, v.handleInspectorClick(s, mx, my))
	require.Equal(t, "R3", v.inspector.selected)

	require.False(t, v.handleInspectorClick(s, v.offX+2, v.offY+2))
	require.Empty(t, v.inspector.selected)
}

func TestScreenWorldRoundTrip(t *testing.T) {
	v, _, _ := newTestViewer(t)
	x, y := v.toScreen(geom.V(100, 50))
	w := v.toWorld(int(x), int(y))
	require.InDelta(t, 100, w.X(), 1)
	require.InDelta(t, 50, w.Y(), 1)

	width, height := v.WindowSize()
	require.Equal(t, borderWidth*2+int(700*pixelsPerUnit)+logPanelWidth, width)
	require.Equal(t, scoreBarHeight+int(400*pixelsPerUnit)+borderWidth, height)
}

func TestInspectorLines(t *testing.T) {
	tm := soccer.NewTestMatch()
	tm.Team(soccer.Red).SetControllingPlayer(tm.MustPlayer("R3").ID())
	s := tm.Snapshot(0)
	p, ok := s.PlayerByLabel("R3")
	require.True(t, ok)

	curated := inspectorLines(s, p, false)
	require.Equal(t, "R3  RED attacker", curated[0])
	require.Contains(t, curated, "-- SITUATION --")
	require.Contains(t, curated, "state:  "+p.State)
	require.Contains(t, curated, "role:   controlling")

	raw := inspectorLines(s, p, true)
	require.True(t, strings.HasPrefix(raw[0], fmt.Sprintf("id=%d R3 team=red", p.ID)))
	require.Contains(t, raw, fmt.Sprintf("pos=(%.1f,%.1f)", p.Pos.X(), p.Pos.Y()))
	require.Contains(t, raw[8], "ctl=true")
}

func TestApply_TogglesOverlays(t *testing.T) {
	v, tm, _ := newTestViewer(t)
	s := tm.Snapshot(0)

	for _, k := range []ebiten.Key{ebiten.KeyR, ebiten.KeyS, ebiten.KeyI, ebiten.KeyT, ebiten.KeyV, ebiten.KeyX} {
		v.apply(k, s)
	}
	require.Equal(t, config.Display{
		Regions:      true,
		SupportSpots: true,
		IDs:          true,
		States:       true,
		ViewTargets:  true,
		Threatened:   true,
	}, v.display)

	v.apply(ebiten.KeyH, s)
	require.False(t, v.showHUD)
	v.apply(ebiten.KeyD, s)
	require.True(t, v.inspector.rawView)
	v.apply(ebiten.KeyTab, s)
	require.Equal(t, s.Players[0].Label, v.inspector.selected)

	v.apply(ebiten.KeyR, s)
	require.False(t, v.display.Regions)
}

func TestCopy_SelectedPlayerOrSummary(t *testing.T) {
	v, tm, logs := newTestViewer(t)
	s := tm.Snapshot(0)
	var copied []string
	v.copyText = func(text string) error {
		copied = append(copied, text)
		return nil
	}

	v.apply(ebiten.KeyC, s)
	require.Len(t, copied, 1)
	require.Equal(t, matchSummary(s), copied[0])

	v.inspector.selected = "B4"
	v.apply(ebiten.KeyC, s)
	require.Len(t, copied, 2)
	require.True(t, strings.HasPrefix(copied[1], "id="))
	require.Contains(t, copied[1], " B4 team=blue")
	require.Equal(t, 2, logs.FilterMessage("copied to clipboard").Len())

	v.copyText = func(string) error { return errors.New("no clipboard") }
	v.apply(ebiten.KeyC, s)
	require.Equal(t, 1, logs.FilterMessage("clipboard copy failed").Len())
}

func TestMatchSummary(t *testing.T) {
	s := soccer.NewTestMatch().Snapshot(0)
	sum := matchSummary(s)
	require.True(t, strings.HasPrefix(sum, fmt.Sprintf("match %s tick 0\n", s.MatchID)))
	require.Contains(t, sum, "score: red 0 - 0 blue\n")
	require.Contains(t, sum, "red: PrepareForKickoff in_control=false\n")
	for _, p := range s.Players {
		require.Contains(t, sum, "  "+p.Label)
	}
}

func TestHUDLines(t *testing.T) {
	v, tm, _ := newTestViewer(t)
	s := tm.Snapshot(0)

	lines := v.hudLines(s)
	require.Equal(t, "SIM: RUN  P=pause", lines[0])
	require.Equal(t, "[R]  regions  [S]  spots", lines[1])

	v.display.Regions = true
	s.Paused = true
	lines = v.hudLines(s)
	require.Equal(t, "SIM: PAUSED  P=pause", lines[0])
	require.Equal(t, "[R]* regions  [S]  spots", lines[1])
}

func TestNewViewer_FeedsInitialEvents(t *testing.T) {
	v, tm, _ := newTestViewer(t)
	require.Equal(t, tm.Events().Len() > 0, len(v.events.Recent()) > 0)
	require.Equal(t, tm.ID(), v.events.matchID)
}
