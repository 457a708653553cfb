package soccer

import "github.com/Garsondee/Soccer-Sense/internal/geom"

// PlayerView is a read-only copy of one player.
type PlayerView struct {
	ID         PlayerID
	Label      string
	Team       TeamSide
	Role       Role
	Pos        geom.Vec2
	Vel        geom.Vec2
	Heading    geom.Vec2
	Side       geom.Vec2
	LookAt     geom.Vec2
	Radius     float64
	State      string
	Target     geom.Vec2
	HomeRegion int

	Controlling bool
	Supporting  bool
	Receiving   bool
	Threatened  bool
}

// TeamView is a read-only copy of one team.
type TeamView struct {
	Side      TeamSide
	State     string
	InControl bool
	Spots     []SupportSpot
	BestSpot  int // index into Spots, -1 when none
}

// BallView is a read-only copy of the ball.
type BallView struct {
	Pos    geom.Vec2
	Vel    geom.Vec2
	Radius float64
}

// GoalView is a read-only copy of one goal.
type GoalView struct {
	LeftPost  geom.Vec2
	RightPost geom.Vec2
	Facing    geom.Vec2
}

// Snapshot is an immutable copy of the match taken between ticks. It shares
// no memory with the Match, so it can be handed to another goroutine.
type Snapshot struct {
	MatchID    string
	Tick       int
	RedScore   int
	BlueScore  int
	GameInPlay bool
	KeeperBall bool
	Paused     bool

	Width       float64
	Height      float64
	PlayingArea Region
	Regions     []Region
	Goals       [2]GoalView
	Walls       []Wall

	Ball    BallView
	Teams   [2]TeamView
	Players []PlayerView

	// Events is the trailing window of the match log; EventTotal counts
	// every event ever recorded, so Events[i] has log index
	// EventTotal-len(Events)+i.
	Events     []MatchLogEntry
	EventTotal int
}

// Snapshot copies the current match state with at most recent trailing
// log events.
func (m *Match) Snapshot(recent int) *Snapshot {
	s := &Snapshot{
		MatchID:     m.id,
		Tick:        m.tick,
		GameInPlay:  m.gameInPlay,
		KeeperBall:  m.keeperHasBall,
		Paused:      m.paused,
		Width:       m.width,
		Height:      m.height,
		PlayingArea: m.playingArea,
		Regions:     append([]Region(nil), m.regions...),
		Walls:       append([]Wall(nil), m.walls...),
		Ball: BallView{
			Pos:    m.ball.pos,
			Vel:    m.ball.vel,
			Radius: m.ball.radius,
		},
		Events:     m.events.Since(m.events.Len() - recent),
		EventTotal: m.events.Len(),
	}
	s.RedScore, s.BlueScore = m.Score()

	for side, g := range m.goals {
		s.Goals[side] = GoalView{LeftPost: g.leftPost, RightPost: g.rightPost, Facing: g.facing}
	}
	for side, t := range m.teams {
		tv := TeamView{
			Side:      TeamSide(side),
			State:     t.StateName(),
			InControl: t.InControl(),
			Spots:     t.spots.Spots(),
			BestSpot:  -1,
		}
		if t.InControl() {
			tv.BestSpot = t.spots.best
		}
		s.Teams[side] = tv
	}

	for _, p := range m.Players() {
		t := p.Team()
		s.Players = append(s.Players, PlayerView{
			ID:          p.id,
			Label:       p.label,
			Team:        p.team,
			Role:        p.role,
			Pos:         p.pos,
			Vel:         p.vel,
			Heading:     p.heading,
			Side:        p.side,
			LookAt:      p.LookAt(),
			Radius:      p.radius,
			State:       p.StateName(),
			Target:      p.steering.Target(),
			HomeRegion:  p.homeRegion,
			Controlling: t.controlling == p.id,
			Supporting:  t.supporting == p.id,
			Receiving:   t.receiving == p.id,
			Threatened:  !p.IsGoalKeeper() && p.IsThreatened(),
		})
	}
	return s
}

// EventsSince returns the events in the window whose log index is at least
// n. Events older than the window are gone.
func (s *Snapshot) EventsSince(n int) []MatchLogEntry {
	first := s.EventTotal - len(s.Events)
	if n < first {
		n = first
	}
	if n >= s.EventTotal {
		return nil
	}
	return s.Events[n-first:]
}

// PlayerByLabel finds a player in the snapshot.
func (s *Snapshot) PlayerByLabel(label string) (PlayerView, bool) {
	for _, p := range s.Players {
		if p.Label == label {
			return p, true
		}
	}
	return PlayerView{}, false
}
