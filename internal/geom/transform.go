package geom

import "github.com/go-gl/mathgl/mgl64"

// localFrame builds the matrix mapping world points into the frame whose
// origin is pos and whose axes are heading and side.
func localFrame(heading, side, pos Vec2) mgl64.Mat3 {
	tx := -pos.Dot(heading)
	ty := -pos.Dot(side)
	// Column-major: rows are (heading, tx) and (side, ty).
	return mgl64.Mat3{
		heading[0], side[0], 0,
		heading[1], side[1], 0,
		tx, ty, 1,
	}
}

// PointToLocalSpace expresses the world point p in the frame of an agent at
// pos facing heading with the given side vector.
func PointToLocalSpace(p, heading, side, pos Vec2) Vec2 {
	return localFrame(heading, side, pos).Mul3x1(p.Vec3(1)).Vec2()
}

// PointToWorldSpace is the inverse of PointToLocalSpace.
func PointToWorldSpace(p, heading, side, pos Vec2) Vec2 {
	m := mgl64.Mat3{
		heading[0], heading[1], 0,
		side[0], side[1], 0,
		pos[0], pos[1], 1,
	}
	return m.Mul3x1(p.Vec3(1)).Vec2()
}

// WorldTransform maps a local-space polygon (x forward, y side) into world
// space for an agent at pos with the given heading, scaled by scale.
func WorldTransform(points []Vec2, pos, heading, side Vec2, scale float64) []Vec2 {
	out := make([]Vec2, len(points))
	for i, p := range points {
		out[i] = PointToWorldSpace(p.Mul(scale), heading, side, pos)
	}
	return out
}
