package soccer

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Garsondee/Soccer-Sense/internal/config"
	"github.com/Garsondee/Soccer-Sense/internal/geom"
	"github.com/Garsondee/Soccer-Sense/internal/logging"
	"github.com/Garsondee/Soccer-Sense/internal/messaging"
)

// Match is the aggregate that owns the pitch, both teams, every player and
// the ball. Teams and players hold only a back pointer to the Match and
// resolve each other through it by id.
type Match struct {
	id     string
	seed   int64
	params config.Params
	log    *zap.Logger
	rng    *rand.Rand

	width       float64
	height      float64
	playingArea Region
	regions     []Region
	goals       [2]*Goal
	walls       []Wall

	ball    *Ball
	teams   [2]*Team
	players []*Player // indexed by PlayerID; slot 0 is never used

	registry     *messaging.Registry
	dispatcher   *messaging.Dispatcher
	dispatchOpts []messaging.Option
	events       *MatchLog

	lineups  [2][]PlayerSpec
	buildErr error

	tick          int
	frame         time.Duration
	gameInPlay    bool
	keeperHasBall bool
	paused        bool
}

// optionKind controls the pass in which an option is applied.
type optionKind int

const (
	optInfra     optionKind = iota // params, seed, logger, lineups: applied before the pitch is built
	optPlacement                   // ball and player positions: applied after every player exists
)

// MatchOption configures a Match during construction.
type MatchOption struct {
	kind optionKind
	fn   func(*Match)
}

// WithParams replaces the whole parameter set.
func WithParams(p config.Params) MatchOption {
	return MatchOption{optInfra, func(m *Match) { m.params = p }}
}

// WithPitchSize overrides the pitch dimensions.
func WithPitchSize(w, h float64) MatchOption {
	return MatchOption{optInfra, func(m *Match) {
		m.params.PitchWidth = w
		m.params.PitchHeight = h
	}}
}

// WithSeed makes the match reproducible.
func WithSeed(seed int64) MatchOption {
	return MatchOption{optInfra, func(m *Match) {
		m.seed = seed
		m.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- simulation randomness
	}}
}

func WithLogger(l *zap.Logger) MatchOption {
	return MatchOption{optInfra, func(m *Match) { m.log = l }}
}

// WithVerbose records per-message entries in the match log.
func WithVerbose(v bool) MatchOption {
	return MatchOption{optInfra, func(m *Match) { m.events.verbose = v }}
}

// WithEventLimit keeps only the newest n match log entries; 0 keeps all.
func WithEventLimit(n int) MatchOption {
	return MatchOption{optInfra, func(m *Match) { m.events.SetLimit(n) }}
}

// WithDispatcherOptions passes options through to the message dispatcher.
func WithDispatcherOptions(opts ...messaging.Option) MatchOption {
	return MatchOption{optInfra, func(m *Match) {
		m.dispatchOpts = append(m.dispatchOpts, opts...)
	}}
}

// WithRoster replaces a team's lineup.
func WithRoster(side TeamSide, specs ...PlayerSpec) MatchOption {
	return MatchOption{optInfra, func(m *Match) { m.lineups[side] = specs }}
}

// WithoutTeam leaves a team with no players.
func WithoutTeam(side TeamSide) MatchOption {
	return MatchOption{optInfra, func(m *Match) { m.lineups[side] = nil }}
}

// WithBallAt places the ball at rest.
func WithBallAt(x, y float64) MatchOption {
	return MatchOption{optPlacement, func(m *Match) { m.ball.PlaceAt(geom.V(x, y)) }}
}

// WithPlayerAt moves the player with the given label (e.g. "R2").
func WithPlayerAt(label string, x, y float64) MatchOption {
	return MatchOption{optPlacement, func(m *Match) {
		p := m.PlayerByLabel(label)
		if p == nil {
			if m.buildErr == nil {
				m.buildErr = fmt.Errorf("no player labelled %q", label)
			}
			return
		}
		p.SetPosition(geom.V(x, y))
	}}
}

// NewMatch builds a match ready for kickoff: both teams preparing, the ball
// at the centre spot and the game not yet in play.
func NewMatch(opts ...MatchOption) (*Match, error) {
	seed := time.Now().UnixNano()
	m := &Match{
		id:      uuid.NewString(),
		seed:    seed,
		params:  config.Default(),
		log:     logging.Nop(),
		rng:     rand.New(rand.NewSource(seed)), // #nosec G404 -- simulation randomness
		events:  NewMatchLog(false),
		lineups: [2][]PlayerSpec{DefaultLineup(Red), DefaultLineup(Blue)},
	}
	for _, o := range opts {
		if o.kind == optInfra {
			o.fn(m)
		}
	}
	if err := m.params.Validate(); err != nil {
		return nil, fmt.Errorf("soccer: new match: %w", err)
	}
	for side, specs := range m.lineups {
		if err := validateLineup(specs); err != nil {
			return nil, fmt.Errorf("soccer: %s lineup: %w", TeamSide(side), err)
		}
	}

	m.log = m.log.With(zap.String("match", m.id))
	m.frame = time.Duration(float64(time.Second) / m.params.FrameRate)
	m.buildPitch()

	m.registry = messaging.NewRegistry()
	dopts := append([]messaging.Option{messaging.WithLogger(m.log)}, m.dispatchOpts...)
	m.dispatcher = messaging.NewDispatcher(m.registry, m, dopts...)

	prm := &m.params
	m.ball = NewBall(m.playingArea.Center(), prm.BallSize, prm.BallMass, prm.Friction, m.walls)

	m.players = []*Player{nil}
	for _, side := range []TeamSide{Red, Blue} {
		m.teams[side] = newTeam(m, side)
	}
	for _, side := range []TeamSide{Red, Blue} {
		m.buildRoster(m.teams[side], m.lineups[side])
	}
	for _, t := range m.teams {
		t.spots = newSupportSpotCalculator(t, prm.NumSupportSpotsX, prm.NumSupportSpotsY)
	}

	for _, o := range opts {
		if o.kind == optPlacement {
			o.fn(m)
		}
	}
	if m.buildErr != nil {
		return nil, fmt.Errorf("soccer: placement: %w", m.buildErr)
	}

	for _, p := range m.players[1:] {
		p.fsm.Current().Enter(p)
	}
	for _, t := range m.teams {
		t.fsm.Current().Enter(t)
	}

	m.log.Info("match created",
		zap.Int64("seed", m.seed),
		zap.Int("players", len(m.players)-1))
	return m, nil
}

func validateLineup(specs []PlayerSpec) error {
	n := regionCols * regionRows
	for i, s := range specs {
		if s.DefendRegion < 0 || s.DefendRegion >= n || s.AttackRegion < 0 || s.AttackRegion >= n {
			return fmt.Errorf("slot %d: region out of range [0,%d)", i, n)
		}
	}
	return nil
}

// buildPitch lays out the playing area, regions, goals and walls.
func (m *Match) buildPitch() {
	prm := &m.params
	m.width, m.height = prm.PitchWidth, prm.PitchHeight
	mg := prm.PitchMargin
	m.playingArea = NewRegion(-1, mg, mg, m.width-mg, m.height-mg)
	m.regions = buildRegions(m.playingArea)

	a := m.playingArea
	top := (m.height - prm.GoalWidth) / 2
	bottom := m.height - top
	m.goals[Red] = NewGoal(geom.V(a.Left, top), geom.V(a.Left, bottom), geom.V(1, 0))
	m.goals[Blue] = NewGoal(geom.V(a.Right, top), geom.V(a.Right, bottom), geom.V(-1, 0))

	tl, tr := geom.V(a.Left, a.Top), geom.V(a.Right, a.Top)
	bl, br := geom.V(a.Left, a.Bottom), geom.V(a.Right, a.Bottom)
	m.walls = []Wall{
		NewWall(bl, m.goals[Red].RightPost()),
		NewWall(m.goals[Red].LeftPost(), tl),
		NewWall(tl, tr),
		NewWall(tr, m.goals[Blue].LeftPost()),
		NewWall(m.goals[Blue].RightPost(), br),
		NewWall(br, bl),
	}
}

func (m *Match) buildRoster(t *Team, specs []PlayerSpec) {
	t.defendRegions = make([]int, len(specs))
	t.attackRegions = make([]int, len(specs))
	for i, s := range specs {
		t.defendRegions[i] = s.DefendRegion
		t.attackRegions[i] = s.AttackRegion

		id := PlayerID(len(m.players))
		p := newPlayer(m, id, t.side, i+1, s.Role, s.DefendRegion)
		m.players = append(m.players, p)
		m.registry.Register(p)
		t.roster = append(t.roster, id)
	}
	t.refreshMembers()
}

// Update advances the match one tick. It is a no-op while paused.
func (m *Match) Update() {
	if m.paused {
		return
	}
	m.tick++
	m.dispatcher.DispatchDelayedMessages()
	m.ball.Update()
	m.teams[Red].Update()
	m.teams[Blue].Update()
	m.checkGoals()
}

// checkGoals restarts play from the centre spot after a goal.
func (m *Match) checkGoals() {
	for _, side := range []TeamSide{Blue, Red} {
		if !m.goals[side].Scored(m.ball) {
			continue
		}
		scorer := side.Opponent()
		red, blue := m.Score()
		m.event("--", scorer.String(), "goal", "scored", fmt.Sprintf("red %d - %d blue", red, blue), 0)
		m.log.Info("goal",
			zap.Stringer("scorer", scorer),
			zap.Int("tick", m.tick),
			zap.Int("red", red),
			zap.Int("blue", blue))

		m.gameInPlay = false
		m.keeperHasBall = false
		m.ball.PlaceAt(m.playingArea.Center())
		m.teams[Red].fsm.ChangeState(StatePrepareForKickoff)
		m.teams[Blue].fsm.ChangeState(StatePrepareForKickoff)
		return
	}
}

// Now is the simulated time: ticks elapsed times the frame period.
func (m *Match) Now() time.Duration { return time.Duration(m.tick) * m.frame }

func (m *Match) ID() string                        { return m.id }
func (m *Match) Seed() int64                       { return m.seed }
func (m *Match) Tick() int                         { return m.tick }
func (m *Match) FrameDuration() time.Duration      { return m.frame }
func (m *Match) Params() config.Params             { return m.params }
func (m *Match) Ball() *Ball                       { return m.ball }
func (m *Match) Team(side TeamSide) *Team          { return m.teams[side] }
func (m *Match) Regions() []Region                 { return m.regions }
func (m *Match) PlayingArea() Region               { return m.playingArea }
func (m *Match) Goal(side TeamSide) *Goal          { return m.goals[side] }
func (m *Match) Walls() []Wall                     { return m.walls }
func (m *Match) Dispatcher() *messaging.Dispatcher { return m.dispatcher }
func (m *Match) Events() *MatchLog                 { return m.events }
func (m *Match) Logger() *zap.Logger               { return m.log }
func (m *Match) Size() (w, h float64)              { return m.width, m.height }
func (m *Match) GameInPlay() bool                  { return m.gameInPlay }
func (m *Match) GoalkeeperHasBall() bool           { return m.keeperHasBall }
func (m *Match) Paused() bool                      { return m.paused }
func (m *Match) SetPaused(v bool)                  { m.paused = v }
func (m *Match) TogglePause()                      { m.paused = !m.paused }
func (m *Match) SetGoalkeeperHasBall(v bool)       { m.keeperHasBall = v }

// SetGameInPlay starts or stops play; the start is logged as a kickoff.
func (m *Match) SetGameInPlay(v bool) {
	if v && !m.gameInPlay {
		m.event("--", "--", "team", "kickoff", "", 0)
		m.log.Info("kickoff", zap.Int("tick", m.tick))
	}
	m.gameInPlay = v
}

// Score returns the goals each team has scored: red counts the ball
// crossing the blue goal line and vice versa.
func (m *Match) Score() (red, blue int) {
	return m.goals[Blue].GoalsScored(), m.goals[Red].GoalsScored()
}

// Player resolves an id to a live player, or nil.
func (m *Match) Player(id PlayerID) *Player {
	if id <= NoPlayer || int(id) >= len(m.players) {
		return nil
	}
	return m.players[id]
}

// Players returns the live players in id order.
func (m *Match) Players() []*Player {
	out := make([]*Player, 0, len(m.players))
	for _, p := range m.players {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// PlayerByLabel finds a live player by label, or nil.
func (m *Match) PlayerByLabel(label string) *Player {
	for _, p := range m.players {
		if p != nil && p.label == label {
			return p
		}
	}
	return nil
}

// RemovePlayer takes a player out of the arena and the message directory.
// Both teams drop their key-player references to it, and a keeper holding
// the ball releases it so play can go on.
func (m *Match) RemovePlayer(id PlayerID) {
	p := m.Player(id)
	if p == nil {
		return
	}
	m.players[id] = nil
	m.registry.Remove(id)
	for _, t := range m.teams {
		t.forgetPlayer(id)
	}
	m.teams[p.team].refreshMembers()
	if p.IsGoalKeeper() && m.keeperHasBall && p.fsm.IsInState(StatePutBallBackInPlay) {
		m.keeperHasBall = false
	}
	m.event(p.label, p.team.String(), "team", "removed", "", 0)
}

func (m *Match) event(player, team, category, key, value string, num float64) {
	m.events.Add(m.tick, player, team, category, key, value, num)
}

func (m *Match) eventVerbose(player, team, category, key, value string, num float64) {
	m.events.AddVerbose(m.tick, player, team, category, key, value, num)
}

// dispatch sends an immediate telegram.
func (m *Match) dispatch(sender, receiver PlayerID, msg messaging.MessageType, payload messaging.Payload) {
	m.dispatcher.Dispatch(0, sender, receiver, msg, payload)
}
