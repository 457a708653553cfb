package soccer

import "github.com/Garsondee/Soccer-Sense/internal/geom"

// Deceleration tiers for Arrive; larger is gentler.
type Deceleration int

const (
	DecelFast   Deceleration = 1
	DecelNormal Deceleration = 2
	DecelSlow   Deceleration = 3
)

// decelerationTweaker scales every deceleration tier.
const decelerationTweaker = 0.3

type behavior uint8

const (
	behaviorSeek behavior = 1 << iota
	behaviorArrive
	behaviorSeparation
	behaviorPursuit
	behaviorInterpose
)

// Steering combines the enabled behaviors of one player into a single force
// no larger than the player's MaxForce. Higher-priority behaviors claim the
// force budget first: separation, seek, arrive, pursuit, interpose.
type Steering struct {
	owner *Player
	flags behavior

	force         geom.Vec2
	target        geom.Vec2
	interposeDist float64

	viewDistance   float64
	separationMult float64

	neighbors []*Player
}

func newSteering(owner *Player, viewDistance, separationMult float64) *Steering {
	return &Steering{owner: owner, viewDistance: viewDistance, separationMult: separationMult}
}

// Calculate recomputes the steering force. players is the whole arena and
// ball the match ball.
func (s *Steering) Calculate(players []*Player, ball *Ball) geom.Vec2 {
	s.force = geom.Vec2{}
	s.findNeighbours(players)
	s.sumForces(ball)
	s.force = geom.Truncate(s.force, s.owner.maxForce)
	return s.force
}

func (s *Steering) sumForces(ball *Ball) {
	if s.on(behaviorSeparation) {
		if !s.accumulateForce(s.separation().Mul(s.separationMult)) {
			return
		}
	}
	if s.on(behaviorSeek) {
		if !s.accumulateForce(s.seek(s.target)) {
			return
		}
	}
	if s.on(behaviorArrive) {
		if !s.accumulateForce(s.arrive(s.target, DecelFast)) {
			return
		}
	}
	if s.on(behaviorPursuit) {
		if !s.accumulateForce(s.pursuit(ball)) {
			return
		}
	}
	if s.on(behaviorInterpose) {
		s.accumulateForce(s.interpose(ball, s.target, s.interposeDist))
	}
}

// accumulateForce adds as much of add as the remaining budget allows and
// reports whether any budget was left.
func (s *Steering) accumulateForce(add geom.Vec2) bool {
	remaining := s.owner.maxForce - s.force.Len()
	if remaining <= 0 {
		return false
	}
	mag := add.Len()
	if mag > remaining {
		mag = remaining
	}
	s.force = s.force.Add(geom.Normalize(add).Mul(mag))
	return true
}

// findNeighbours collects the players within view distance, self included.
func (s *Steering) findNeighbours(players []*Player) {
	s.neighbors = s.neighbors[:0]
	for _, p := range players {
		if p == nil {
			continue
		}
		r := s.viewDistance + p.radius
		if geom.DistSq(s.owner.pos, p.pos) < r*r {
			s.neighbors = append(s.neighbors, p)
		}
	}
}

func (s *Steering) seek(target geom.Vec2) geom.Vec2 {
	desired := geom.Normalize(target.Sub(s.owner.pos)).Mul(s.owner.maxSpeed)
	return desired.Sub(s.owner.vel)
}

func (s *Steering) arrive(target geom.Vec2, decel Deceleration) geom.Vec2 {
	toTarget := target.Sub(s.owner.pos)
	dist := toTarget.Len()
	if dist <= 0 {
		return geom.Vec2{}
	}
	speed := dist / (float64(decel) * decelerationTweaker)
	if speed > s.owner.maxSpeed {
		speed = s.owner.maxSpeed
	}
	desired := toTarget.Mul(speed / dist)
	return desired.Sub(s.owner.vel)
}

// pursuit arrives at the ball's predicted position. The lookahead ignores
// the pursuer's own acceleration.
func (s *Steering) pursuit(ball *Ball) geom.Vec2 {
	toBall := ball.pos.Sub(s.owner.pos)
	lookAhead := 0.0
	if speed := ball.Speed(); speed > geom.Epsilon {
		lookAhead = toBall.Len() / speed
	}
	s.target = ball.FuturePosition(lookAhead)
	return s.arrive(s.target, DecelFast)
}

func (s *Steering) separation() geom.Vec2 {
	var force geom.Vec2
	for _, n := range s.neighbors {
		if n == s.owner {
			continue
		}
		toAgent := s.owner.pos.Sub(n.pos)
		dist := toAgent.Len()
		if dist > geom.Epsilon {
			force = force.Add(geom.Normalize(toAgent).Mul(1 / dist))
		}
	}
	return force
}

// interpose arrives at the point dist away from target toward the ball.
func (s *Steering) interpose(ball *Ball, target geom.Vec2, dist float64) geom.Vec2 {
	offset := geom.Normalize(ball.pos.Sub(target)).Mul(dist)
	return s.arrive(target.Add(offset), DecelNormal)
}

// Force is the last calculated steering force.
func (s *Steering) Force() geom.Vec2 { return s.force }

// ForwardComponent is the share of the force along the owner's heading.
func (s *Steering) ForwardComponent() float64 { return s.owner.heading.Dot(s.force) }

// SideComponent is the share of the force across the owner's heading,
// scaled by its turn rate.
func (s *Steering) SideComponent() float64 {
	return s.owner.side.Dot(s.force) * s.owner.maxTurnRate
}

func (s *Steering) Target() geom.Vec2     { return s.target }
func (s *Steering) SetTarget(t geom.Vec2) { s.target = t }

// Neighbors are the players tagged by the last Calculate.
func (s *Steering) Neighbors() []*Player { return s.neighbors }

func (s *Steering) on(b behavior) bool { return s.flags&b != 0 }
func (s *Steering) set(b behavior)     { s.flags |= b }
func (s *Steering) clear(b behavior)   { s.flags &^= b }

func (s *Steering) SeekOn()        { s.set(behaviorSeek) }
func (s *Steering) SeekOff()       { s.clear(behaviorSeek) }
func (s *Steering) SeekIsOn() bool { return s.on(behaviorSeek) }

func (s *Steering) ArriveOn()        { s.set(behaviorArrive) }
func (s *Steering) ArriveOff()       { s.clear(behaviorArrive) }
func (s *Steering) ArriveIsOn() bool { return s.on(behaviorArrive) }

func (s *Steering) PursuitOn()        { s.set(behaviorPursuit) }
func (s *Steering) PursuitOff()       { s.clear(behaviorPursuit) }
func (s *Steering) PursuitIsOn() bool { return s.on(behaviorPursuit) }

func (s *Steering) SeparationOn()        { s.set(behaviorSeparation) }
func (s *Steering) SeparationOff()       { s.clear(behaviorSeparation) }
func (s *Steering) SeparationIsOn() bool { return s.on(behaviorSeparation) }

// InterposeOn enables interposing dist units in front of the target.
func (s *Steering) InterposeOn(dist float64) {
	s.set(behaviorInterpose)
	s.interposeDist = dist
}
func (s *Steering) InterposeOff()       { s.clear(behaviorInterpose) }
func (s *Steering) InterposeIsOn() bool { return s.on(behaviorInterpose) }

// SetInterposeDistance changes the interpose offset.
func (s *Steering) SetInterposeDistance(d float64) { s.interposeDist = d }
