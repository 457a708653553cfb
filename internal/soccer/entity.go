// Package soccer is the match kernel: pitch, ball physics, players driven by
// state machines and steering forces, and the team-level tactics that
// coordinate them. Everything advances one fixed tick at a time on a single
// goroutine.
package soccer

import "github.com/Garsondee/Soccer-Sense/internal/geom"

// Agent is the capability set shared by the ball and the players.
type Agent interface {
	Position() geom.Vec2
	Velocity() geom.Vec2
	Heading() geom.Vec2
	Side() geom.Vec2
	Mass() float64
	MaxSpeed() float64
	MaxForce() float64
	MaxTurnRate() float64
	BoundingRadius() float64
}

var (
	_ Agent = (*Ball)(nil)
	_ Agent = (*Player)(nil)
)

// headingFacedAngle is the angle below which an agent counts as facing its target.
const headingFacedAngle = 1e-5

// movingEntity holds the kinematic state common to every agent.
// heading and side are unit length and side == Perp(heading) at all times.
type movingEntity struct {
	pos     geom.Vec2
	vel     geom.Vec2
	heading geom.Vec2
	side    geom.Vec2

	mass        float64
	maxSpeed    float64
	maxForce    float64
	maxTurnRate float64
	radius      float64
}

func newMovingEntity(pos, heading geom.Vec2, radius, mass, maxSpeed, maxForce, maxTurnRate float64) movingEntity {
	e := movingEntity{
		pos:         pos,
		heading:     geom.V(1, 0),
		side:        geom.V(0, 1),
		mass:        mass,
		maxSpeed:    maxSpeed,
		maxForce:    maxForce,
		maxTurnRate: maxTurnRate,
		radius:      radius,
	}
	e.SetHeading(heading)
	return e
}

func (e *movingEntity) Position() geom.Vec2     { return e.pos }
func (e *movingEntity) Velocity() geom.Vec2     { return e.vel }
func (e *movingEntity) Heading() geom.Vec2      { return e.heading }
func (e *movingEntity) Side() geom.Vec2         { return e.side }
func (e *movingEntity) Mass() float64           { return e.mass }
func (e *movingEntity) MaxSpeed() float64       { return e.maxSpeed }
func (e *movingEntity) MaxForce() float64       { return e.maxForce }
func (e *movingEntity) MaxTurnRate() float64    { return e.maxTurnRate }
func (e *movingEntity) BoundingRadius() float64 { return e.radius }
func (e *movingEntity) Speed() float64          { return e.vel.Len() }

func (e *movingEntity) SetPosition(p geom.Vec2) { e.pos = p }
func (e *movingEntity) SetVelocity(v geom.Vec2) { e.vel = v }

// SetHeading points the entity along h. Zero-length headings are ignored.
func (e *movingEntity) SetHeading(h geom.Vec2) {
	if geom.IsZero(h) {
		return
	}
	e.heading = geom.Normalize(h)
	e.side = geom.Perp(e.heading)
}

// RotateHeadingToFacePosition turns the entity toward target by at most
// maxTurnRate, rotating velocity with it. It returns true once the entity
// is already facing target.
func (e *movingEntity) RotateHeadingToFacePosition(target geom.Vec2) bool {
	toTarget := target.Sub(e.pos)
	if geom.IsZero(toTarget) {
		return true
	}
	toTarget = geom.Normalize(toTarget)

	angle := geom.AngleBetween(e.heading, toTarget)
	if angle < headingFacedAngle {
		return true
	}
	if angle > e.maxTurnRate {
		angle = e.maxTurnRate
	}
	angle *= float64(geom.Sign(e.heading, toTarget))

	e.heading = geom.Normalize(geom.Rotate(e.heading, angle))
	e.vel = geom.Rotate(e.vel, angle)
	e.side = geom.Perp(e.heading)
	return false
}
