package soccer

import (
	"fmt"
	"sort"
	"strings"
)

// MatchLogEntry is one recorded match event.
type MatchLogEntry struct {
	Tick     int
	Player   string  // label e.g. "R2", "B1", or "--" for team and match events
	Team     string  // "red", "blue", or "--"
	Category string  // state, kick, pass, shot, goal, possession, team, message
	Key      string  // event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value, e.g. kick force
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] R2   state     change           Wait -> ChaseBall
func (e MatchLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Player, e.Category, e.Key, e.Value)
}

// MatchLog collects structured events for a match. With a limit set only
// the newest limit entries are kept, but Len and Since still count every
// entry ever recorded so readers can follow the log by index.
type MatchLog struct {
	entries []MatchLogEntry
	verbose bool
	limit   int // 0 keeps everything
	dropped int // entries trimmed from the front
}

// NewMatchLog creates a MatchLog. If verbose is true, every delivered
// telegram is recorded too.
func NewMatchLog(verbose bool) *MatchLog {
	return &MatchLog{verbose: verbose}
}

// SetLimit caps the retained entries at n; n <= 0 removes the cap.
func (ml *MatchLog) SetLimit(n int) {
	if n < 0 {
		n = 0
	}
	ml.limit = n
	ml.trim()
}

// Add records a new entry.
func (ml *MatchLog) Add(tick int, player, team, category, key, value string, numVal float64) {
	ml.entries = append(ml.entries, MatchLogEntry{
		Tick:     tick,
		Player:   player,
		Team:     team,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
	if ml.limit > 0 && len(ml.entries) >= 2*ml.limit {
		ml.trim()
	}
}

// trim compacts the backing slice down to the newest limit entries. It
// copies into a fresh slice so earlier Entries results stay intact.
func (ml *MatchLog) trim() {
	n := len(ml.entries) - ml.limit
	if ml.limit == 0 || n <= 0 {
		return
	}
	kept := make([]MatchLogEntry, ml.limit, 2*ml.limit)
	copy(kept, ml.entries[n:])
	ml.entries = kept
	ml.dropped += n
}

// retained is the visible part of the log: the newest limit entries.
func (ml *MatchLog) retained() []MatchLogEntry {
	if ml.limit > 0 && len(ml.entries) > ml.limit {
		return ml.entries[len(ml.entries)-ml.limit:]
	}
	return ml.entries
}

// AddVerbose records an entry only when verbose mode is on.
func (ml *MatchLog) AddVerbose(tick int, player, team, category, key, value string, numVal float64) {
	if !ml.verbose {
		return
	}
	ml.Add(tick, player, team, category, key, value, numVal)
}

// Entries returns the retained entries, oldest first.
func (ml *MatchLog) Entries() []MatchLogEntry { return ml.retained() }

// Len counts every entry recorded, trimmed ones included.
func (ml *MatchLog) Len() int { return ml.dropped + len(ml.entries) }

// Limit is the retention cap, 0 when unbounded.
func (ml *MatchLog) Limit() int { return ml.limit }

// Since returns the entries recorded after the first n that are still
// retained.
func (ml *MatchLog) Since(n int) []MatchLogEntry {
	kept := ml.retained()
	total := ml.Len()
	first := total - len(kept)
	if n < first {
		n = first
	}
	if n >= total {
		return nil
	}
	out := make([]MatchLogEntry, total-n)
	copy(out, kept[n-first:])
	return out
}

// Reset drops every entry and starts counting from zero again.
func (ml *MatchLog) Reset() {
	ml.entries = ml.entries[:0]
	ml.dropped = 0
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (ml *MatchLog) Filter(category, key string) []MatchLogEntry {
	var out []MatchLogEntry
	for _, e := range ml.retained() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterPlayer returns entries for one player label.
func (ml *MatchLog) FilterPlayer(label string) []MatchLogEntry {
	var out []MatchLogEntry
	for _, e := range ml.retained() {
		if e.Player == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (ml *MatchLog) FilterTickRange(fromTick, toTick int) []MatchLogEntry {
	var out []MatchLogEntry
	for _, e := range ml.retained() {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (ml *MatchLog) CountCategory(category, key string) int {
	return len(ml.Filter(category, key))
}

// CountTeam counts entries of category (and key, if not empty) for a team.
func (ml *MatchLog) CountTeam(team, category, key string) int {
	n := 0
	for _, e := range ml.Filter(category, key) {
		if e.Team == team {
			n++
		}
	}
	return n
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (ml *MatchLog) LastOf(category, key string) (MatchLogEntry, bool) {
	entries := ml.Filter(category, key)
	if len(entries) == 0 {
		return MatchLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (ml *MatchLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range ml.retained() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (ml *MatchLog) Format() string {
	return formatEntries(ml.retained())
}

// FormatRange returns a log string filtered to a tick range.
func (ml *MatchLog) FormatRange(fromTick, toTick int) string {
	return formatEntries(ml.FilterTickRange(fromTick, toTick))
}

func formatEntries(entries []MatchLogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the match so far.
func (ml *MatchLog) Summary(m *Match) string {
	var sb strings.Builder
	red, blue := m.Score()
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", m.Tick())
	fmt.Fprintf(&sb, "Score: red %d - %d blue\n", red, blue)

	for _, side := range []TeamSide{Red, Blue} {
		t := m.Team(side)
		fmt.Fprintf(&sb, "%s: state=%s shots=%d passes=%d possession=%d\n",
			side, t.StateName(),
			ml.CountTeam(side.String(), "shot", ""),
			ml.CountTeam(side.String(), "pass", "kick"),
			ml.CountTeam(side.String(), "possession", "gained"))

		counts := map[string]int{}
		for _, p := range t.Members() {
			counts[p.StateName()]++
		}
		names := make([]string, 0, len(counts))
		for n := range counts {
			names = append(names, n)
		}
		sort.Strings(names)
		sb.WriteString("  states: ")
		for _, n := range names {
			fmt.Fprintf(&sb, "%s=%d  ", n, counts[n])
		}
		sb.WriteByte('\n')
	}

	if ctrl := m.Team(Red).ControllingPlayer(); ctrl != nil {
		fmt.Fprintf(&sb, "Ball: %s (red)\n", ctrl.Label())
	} else if ctrl := m.Team(Blue).ControllingPlayer(); ctrl != nil {
		fmt.Fprintf(&sb, "Ball: %s (blue)\n", ctrl.Label())
	} else {
		sb.WriteString("Ball: loose\n")
	}
	return sb.String()
}
