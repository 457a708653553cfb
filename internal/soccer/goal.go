package soccer

import "github.com/Garsondee/Soccer-Sense/internal/geom"

// Wall is a directed boundary segment. Normal points into the pitch.
type Wall struct {
	From   geom.Vec2
	To     geom.Vec2
	Normal geom.Vec2
}

func NewWall(from, to geom.Vec2) Wall {
	dir := geom.Normalize(to.Sub(from))
	return Wall{From: from, To: to, Normal: geom.V(-dir.Y(), dir.X())}
}

// Goal is a goal mouth between two posts. Facing points up the pitch, away
// from the goal line.
type Goal struct {
	leftPost  geom.Vec2
	rightPost geom.Vec2
	center    geom.Vec2
	facing    geom.Vec2
	scored    int
}

func NewGoal(leftPost, rightPost, facing geom.Vec2) *Goal {
	return &Goal{
		leftPost:  leftPost,
		rightPost: rightPost,
		center:    leftPost.Add(rightPost).Mul(0.5),
		facing:    geom.Normalize(facing),
	}
}

func (g *Goal) LeftPost() geom.Vec2  { return g.leftPost }
func (g *Goal) RightPost() geom.Vec2 { return g.rightPost }
func (g *Goal) Center() geom.Vec2    { return g.center }
func (g *Goal) Facing() geom.Vec2    { return g.facing }
func (g *Goal) GoalsScored() int     { return g.scored }

// Scored reports whether the ball crossed the goal line between the posts
// during its last move, and counts the goal if so.
func (g *Goal) Scored(b *Ball) bool {
	if geom.SegmentsIntersect(b.pos, b.oldPos, g.leftPost, g.rightPost) {
		g.scored++
		return true
	}
	return false
}

