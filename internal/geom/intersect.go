package geom

import "math"

// PlaneSide classifies a point against a plane.
type PlaneSide int

const (
	PlaneFront PlaneSide = iota
	PlaneBehind
	PlaneOn
)

func (s PlaneSide) String() string {
	switch s {
	case PlaneFront:
		return "front"
	case PlaneBehind:
		return "behind"
	default:
		return "on"
	}
}

// WhereIsPoint reports which side of the plane through planePoint with normal
// n the point p lies on.
func WhereIsPoint(p, planePoint, n Vec2) PlaneSide {
	d := planePoint.Sub(p).Dot(n)
	if d < -MinPrecision {
		return PlaneFront
	}
	if d > MinPrecision {
		return PlaneBehind
	}
	return PlaneOn
}

// DistanceToRayPlaneIntersection returns the distance along rayHeading from
// rayOrigin to the plane, or -1 when the ray is parallel to it.
func DistanceToRayPlaneIntersection(rayOrigin, rayHeading, planePoint, planeNormal Vec2) float64 {
	d := -planeNormal.Dot(planePoint)
	numer := planeNormal.Dot(rayOrigin) + d
	denom := planeNormal.Dot(rayHeading)
	if math.Abs(denom) < Epsilon {
		return -1
	}
	return -(numer / denom)
}

// SegmentsIntersect reports whether segment AB strictly crosses segment CD.
// Parallel segments never intersect.
func SegmentsIntersect(a, b, c, d Vec2) bool {
	rTop := (a[1]-c[1])*(d[0]-c[0]) - (a[0]-c[0])*(d[1]-c[1])
	sTop := (a[1]-c[1])*(b[0]-a[0]) - (a[0]-c[0])*(b[1]-a[1])
	bot := (b[0]-a[0])*(d[1]-c[1]) - (b[1]-a[1])*(d[0]-c[0])
	if math.Abs(bot) <= MinPrecision {
		return false
	}
	r := rTop / bot
	s := sTop / bot
	return r > 0 && r < 1 && s > 0 && s < 1
}

// TangentPoints returns the two points on the circle (c, r) whose tangents
// pass through p. ok is false when p lies inside or on the circle.
func TangentPoints(c Vec2, r float64, p Vec2) (t1, t2 Vec2, ok bool) {
	pmc := p.Sub(c)
	sq := pmc.LenSqr()
	rsq := r * r
	if sq <= rsq {
		return Vec2{}, Vec2{}, false
	}
	root := math.Sqrt(sq - rsq)
	t1 = Vec2{
		c[0] + r*(r*pmc[0]-pmc[1]*root)/sq,
		c[1] + r*(r*pmc[1]+pmc[0]*root)/sq,
	}
	t2 = Vec2{
		c[0] + r*(r*pmc[0]+pmc[1]*root)/sq,
		c[1] + r*(r*pmc[1]-pmc[0]*root)/sq,
	}
	return t1, t2, true
}

// CirclesOverlap reports whether two circles intersect or touch.
func CirclesOverlap(c1 Vec2, r1 float64, c2 Vec2, r2 float64) bool {
	return DistSq(c1, c2) <= (r1+r2)*(r1+r2)
}
