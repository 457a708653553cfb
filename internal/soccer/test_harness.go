package soccer

import "fmt"

// TestMatch is a headless match harness for tests and batch reports. It
// defaults to seed 1 so runs are reproducible.
type TestMatch struct {
	*Match
	Log *MatchLog
}

// NewTestMatch builds a match from opts and panics if that fails.
func NewTestMatch(opts ...MatchOption) *TestMatch {
	m, err := NewMatch(append([]MatchOption{WithSeed(1)}, opts...)...)
	if err != nil {
		panic(fmt.Sprintf("soccer: test match: %v", err))
	}
	return &TestMatch{Match: m, Log: m.Events()}
}

// RunTicks advances the match n ticks.
func (tm *TestMatch) RunTicks(n int) {
	for i := 0; i < n; i++ {
		tm.Update()
	}
}

// RunUntil advances up to maxTicks, stopping as soon as predicate holds.
// It returns the tick at which the predicate was satisfied, or -1.
func (tm *TestMatch) RunUntil(predicate func(*TestMatch) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		tm.Update()
		if predicate(tm) {
			return tm.Tick()
		}
	}
	return -1
}

// MustPlayer looks a player up by label and panics if it is missing.
func (tm *TestMatch) MustPlayer(label string) *Player {
	p := tm.PlayerByLabel(label)
	if p == nil {
		panic(fmt.Sprintf("soccer: no player %q", label))
	}
	return p
}

// BothTeamsIn reports whether both teams are in state s.
func (tm *TestMatch) BothTeamsIn(s TeamState) bool {
	return tm.Team(Red).FSM().IsInState(s) && tm.Team(Blue).FSM().IsInState(s)
}

// StateCounts tallies the current state names of a team's players.
func (tm *TestMatch) StateCounts(side TeamSide) map[string]int {
	counts := map[string]int{}
	for _, p := range tm.Team(side).Members() {
		counts[p.StateName()]++
	}
	return counts
}
