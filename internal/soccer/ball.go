package soccer

import (
	"math"
	"math/rand"

	"github.com/Garsondee/Soccer-Sense/internal/geom"
)

// wallProbeLength is how far either side of the wall the on-segment probe reaches.
const wallProbeLength = 20.0

// Ball is the match ball. Friction is a negative per-tick deceleration.
type Ball struct {
	movingEntity
	oldPos   geom.Vec2
	friction float64
	walls    []Wall
}

// NewBall places a ball at rest at pos. walls is shared, never modified.
func NewBall(pos geom.Vec2, radius, mass, friction float64, walls []Wall) *Ball {
	return &Ball{
		movingEntity: newMovingEntity(pos, geom.V(1, 0), radius, mass, 0, 0, 0),
		oldPos:       pos,
		friction:     friction,
		walls:        walls,
	}
}

// OldPosition is the position before the last Update.
func (b *Ball) OldPosition() geom.Vec2 { return b.oldPos }
func (b *Ball) Friction() float64      { return b.friction }

// Update advances the ball one tick: wall collisions first, then friction
// and integration. A ball slower than the friction step does not move.
func (b *Ball) Update() {
	b.oldPos = b.pos
	b.testCollisionWithWalls()

	if b.vel.LenSqr() > b.friction*b.friction {
		b.vel = b.vel.Add(geom.Normalize(b.vel).Mul(b.friction))
		b.pos = b.pos.Add(b.vel)
		b.SetHeading(b.vel)
	}
}

// testCollisionWithWalls reflects the velocity off the nearest wall the ball
// will reach this tick, if the ball is travelling into it.
func (b *Ball) testCollisionWithWalls() {
	closest := -1
	closestDistSq := math.MaxFloat64
	dir := geom.Normalize(b.vel)
	speedSq := b.vel.LenSqr()

	for i, w := range b.walls {
		contact := b.pos.Sub(w.Normal.Mul(b.radius))

		var hit geom.Vec2
		if geom.WhereIsPoint(contact, w.From, w.Normal) == geom.PlaneBehind {
			d := geom.DistanceToRayPlaneIntersection(contact, w.Normal, w.From, w.Normal)
			hit = contact.Add(w.Normal.Mul(d))
		} else {
			d := geom.DistanceToRayPlaneIntersection(contact, dir, w.From, w.Normal)
			hit = contact.Add(dir.Mul(d))
		}

		onSegment := geom.SegmentsIntersect(w.From, w.To,
			contact.Sub(w.Normal.Mul(wallProbeLength)),
			contact.Add(w.Normal.Mul(wallProbeLength)))

		distSq := geom.DistSq(contact, hit)
		if onSegment && distSq <= speedSq && distSq < closestDistSq {
			closestDistSq = distSq
			closest = i
		}
	}

	if closest >= 0 && dir.Dot(b.walls[closest].Normal) < 0 {
		b.vel = geom.Reflect(b.vel, b.walls[closest].Normal)
	}
}

// Kick overwrites the velocity with direction scaled to force/mass.
func (b *Ball) Kick(direction geom.Vec2, force float64) {
	b.vel = geom.Normalize(direction).Mul(force / b.mass)
}

// TimeToCoverDistance returns the ticks a ball kicked with force needs to
// travel from a to b, or -1 if friction stops it first.
func (b *Ball) TimeToCoverDistance(from, to geom.Vec2, force float64) float64 {
	u := force / b.mass
	s := geom.Dist(from, to)
	term := u*u + 2*s*b.friction
	if term < 0 {
		return -1
	}
	v := math.Sqrt(term)
	return (v - u) / b.friction
}

// FuturePosition predicts where the ball will be after t ticks.
func (b *Ball) FuturePosition(t float64) geom.Vec2 {
	ut := b.vel.Mul(t)
	half := 0.5 * b.friction * t * t
	return b.pos.Add(ut).Add(geom.Normalize(b.vel).Mul(half))
}

// Trap stops the ball dead.
func (b *Ball) Trap() { b.vel = geom.Vec2{} }

// PlaceAt moves the ball to p at rest, with no previous movement.
func (b *Ball) PlaceAt(p geom.Vec2) {
	b.pos = p
	b.oldPos = p
	b.vel = geom.Vec2{}
}

// AddNoiseToKick rotates the shot at target about ballPos by a random angle
// that shrinks as accuracy approaches 1.
func AddNoiseToKick(rng *rand.Rand, ballPos, target geom.Vec2, accuracy float64) geom.Vec2 {
	displacement := (math.Pi - math.Pi*accuracy) * (rng.Float64() - rng.Float64())
	toTarget := geom.Rotate(target.Sub(ballPos), displacement)
	return toTarget.Add(ballPos)
}
