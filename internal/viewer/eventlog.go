package viewer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Soccer-Sense/internal/soccer"
)

const (
	logPanelWidth = 320
	logMaxEntries = 60
	logLineHeight = 12
)

// EventLog is a ring buffer of match events rendered on-screen. It pulls
// new events from each snapshot it is fed, tracking how far into the match
// log it has read.
type EventLog struct {
	entries []soccer.MatchLogEntry
	head    int
	count   int

	matchID string
	cursor  int // match log index of the next unread event
}

// NewEventLog creates an event log with a fixed capacity.
func NewEventLog() *EventLog {
	return &EventLog{
		entries: make([]soccer.MatchLogEntry, logMaxEntries),
	}
}

// Add appends an entry, overwriting the oldest once full.
func (el *EventLog) Add(e soccer.MatchLogEntry) {
	el.entries[el.head] = e
	el.head = (el.head + 1) % logMaxEntries
	if el.count < logMaxEntries {
		el.count++
	}
}

// Feed adds every event in s not seen yet and returns how many it added.
// A snapshot from a different match starts the log over.
func (el *EventLog) Feed(s *soccer.Snapshot) int {
	if s == nil {
		return 0
	}
	if s.MatchID != el.matchID {
		el.reset()
		el.matchID = s.MatchID
	}
	fresh := s.EventsSince(el.cursor)
	for _, e := range fresh {
		el.Add(e)
	}
	el.cursor = s.EventTotal
	return len(fresh)
}

func (el *EventLog) reset() {
	el.head = 0
	el.count = 0
	el.cursor = 0
}

// Recent returns entries in chronological order (oldest first).
func (el *EventLog) Recent() []soccer.MatchLogEntry {
	result := make([]soccer.MatchLogEntry, el.count)
	for i := 0; i < el.count; i++ {
		idx := (el.head - el.count + i + logMaxEntries) % logMaxEntries
		result[i] = el.entries[idx]
	}
	return result
}

// Draw renders the event panel on the right side of the screen.
func (el *EventLog) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "MATCH EVENTS", panelX+8, 0)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+logPanelWidth), 16, 1.0, color.RGBA{R: 50, G: 80, B: 50, A: 200}, false)

	entries := el.Recent()

	// Newest at the bottom.
	maxVisible := (panelH - 24) / logLineHeight
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}
	visible := entries[startIdx:]
	const highlight = 3

	y := 20
	for i, e := range visible {
		if i >= len(visible)-highlight {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 30, G: 40, B: 30, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, teamDotColor(e.Team), false)
		ebitenutil.DebugPrintAt(screen, eventLine(e), panelX+12, y-2)
		y += logLineHeight
	}
}

// eventLine is the one-line panel rendering of an event.
func eventLine(e soccer.MatchLogEntry) string {
	line := fmt.Sprintf("%5d %-3s %s/%s", e.Tick, e.Player, e.Category, e.Key)
	if e.Value != "" {
		line += " " + e.Value
	}
	return line
}

func teamDotColor(team string) color.RGBA {
	switch team {
	case "red":
		return color.RGBA{R: 210, G: 70, B: 70, A: 255}
	case "blue":
		return color.RGBA{R: 70, G: 110, B: 210, A: 255}
	default:
		return color.RGBA{R: 160, G: 160, B: 160, A: 255}
	}
}
