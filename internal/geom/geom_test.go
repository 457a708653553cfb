package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize_UnitOrUnchanged(t *testing.T) {
	for _, v := range []Vec2{V(3, 4), V(-1e6, 2), V(0.001, -0.002)} {
		require.InDelta(t, 1.0, Normalize(v).Len(), 1e-9)
	}
	tiny := V(1e-14, 0)
	require.Equal(t, tiny, Normalize(tiny))
	require.Equal(t, V(0, 0), Normalize(V(0, 0)))
}

func TestTruncate(t *testing.T) {
	require.InDelta(t, 2.0, Truncate(V(30, 40), 2).Len(), 1e-9)
	require.Equal(t, V(1, 1), Truncate(V(1, 1), 5))
}

func TestPerpAndSign(t *testing.T) {
	h := Normalize(V(1, 2))
	p := Perp(h)
	require.InDelta(t, 0, h.Dot(p), 1e-12)
	require.InDelta(t, h.Len(), p.Len(), 1e-12)

	require.Equal(t, 1, Sign(V(1, 0), V(0, 1)))
	require.Equal(t, -1, Sign(V(1, 0), V(0, -1)))
}

func TestReflect_FlipsNormalComponent(t *testing.T) {
	v := V(3, -2)
	n := V(0, 1)
	r := Reflect(v, n)
	require.InDelta(t, 3, r.X(), 1e-12)
	require.InDelta(t, 2, r.Y(), 1e-12)
}

func TestRotate(t *testing.T) {
	r := Rotate(V(1, 0), math.Pi/2)
	require.InDelta(t, 0, r.X(), 1e-12)
	require.InDelta(t, 1, r.Y(), 1e-12)
}

func TestLocalWorldRoundTrip(t *testing.T) {
	heading := Normalize(V(1, 1))
	side := Perp(heading)
	pos := V(10, -5)
	p := V(42, 17)

	local := PointToLocalSpace(p, heading, side, pos)
	back := PointToWorldSpace(local, heading, side, pos)
	require.InDelta(t, p.X(), back.X(), 1e-9)
	require.InDelta(t, p.Y(), back.Y(), 1e-9)

	ahead := PointToLocalSpace(pos.Add(heading.Mul(5)), heading, side, pos)
	require.InDelta(t, 5, ahead.X(), 1e-9)
	require.InDelta(t, 0, ahead.Y(), 1e-9)
}

func TestWorldTransform_ScalesAndPlaces(t *testing.T) {
	out := WorldTransform([]Vec2{V(1, 0), V(0, 1)}, V(100, 100), V(0, 1), V(-1, 0), 2)
	require.InDelta(t, 100, out[0].X(), 1e-9)
	require.InDelta(t, 102, out[0].Y(), 1e-9)
	require.InDelta(t, 98, out[1].X(), 1e-9)
	require.InDelta(t, 100, out[1].Y(), 1e-9)
}

func TestWhereIsPoint(t *testing.T) {
	n := V(0, -1)
	plane := V(0, 10)
	require.Equal(t, PlaneFront, WhereIsPoint(V(0, 5), plane, n))
	require.Equal(t, PlaneBehind, WhereIsPoint(V(0, 15), plane, n))
	require.Equal(t, PlaneOn, WhereIsPoint(V(3, 10), plane, n))
}

func TestDistanceToRayPlaneIntersection(t *testing.T) {
	d := DistanceToRayPlaneIntersection(V(0, 0), V(0, 1), V(0, 10), V(0, -1))
	require.InDelta(t, 10, d, 1e-9)
	require.Equal(t, -1.0, DistanceToRayPlaneIntersection(V(0, 0), V(1, 0), V(0, 10), V(0, -1)))
}

func TestSegmentsIntersect(t *testing.T) {
	require.True(t, SegmentsIntersect(V(0, 0), V(10, 10), V(0, 10), V(10, 0)))
	require.False(t, SegmentsIntersect(V(0, 0), V(10, 0), V(0, 1), V(10, 1)), "parallel")
	require.False(t, SegmentsIntersect(V(0, 0), V(1, 1), V(5, 0), V(5, 10)), "disjoint")
}

func TestTangentPoints(t *testing.T) {
	c := V(0, 0)
	p := V(10, 0)
	t1, t2, ok := TangentPoints(c, 5, p)
	require.True(t, ok)
	for _, tp := range []Vec2{t1, t2} {
		require.InDelta(t, 5, tp.Len(), 1e-9)
		// radius is perpendicular to the tangent line
		require.InDelta(t, 0, tp.Sub(c).Dot(p.Sub(tp)), 1e-9)
	}
	require.NotEqual(t, t1, t2)

	_, _, ok = TangentPoints(c, 5, V(1, 1))
	require.False(t, ok)
}

func TestCirclesOverlap(t *testing.T) {
	require.True(t, CirclesOverlap(V(0, 0), 2, V(3, 0), 1))
	require.False(t, CirclesOverlap(V(0, 0), 1, V(3, 0), 1))
}
