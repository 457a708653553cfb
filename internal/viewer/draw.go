package viewer

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Soccer-Sense/internal/geom"
	"github.com/Garsondee/Soccer-Sense/internal/soccer"
)

var (
	backgroundColor = color.RGBA{R: 12, G: 14, B: 12, A: 255}
	grassColor      = color.RGBA{R: 34, G: 110, B: 44, A: 255}
	grassStripe     = color.RGBA{R: 38, G: 120, B: 48, A: 255}
	lineColor       = color.RGBA{R: 230, G: 235, B: 230, A: 255}
	regionColor     = color.NRGBA{R: 200, G: 220, B: 200, A: 70}

	teamColors = [2]color.RGBA{
		soccer.Red:  {R: 210, G: 70, B: 70, A: 255},
		soccer.Blue: {R: 70, G: 110, B: 210, A: 255},
	}
	keeperColors = [2]color.RGBA{
		soccer.Red:  {R: 240, G: 150, B: 60, A: 255},
		soccer.Blue: {R: 60, G: 190, B: 210, A: 255},
	}
)

// playerBody is the player outline in local space (x forward, y side) for
// a unit bounding radius: narrow front to back, wide across the shoulders.
var playerBody = []geom.Vec2{
	{-0.3, 0.8},
	{0.3, 1},
	{0.3, -1},
	{-0.3, -0.8},
}

// bodyOutline places playerBody at the player's position and heading.
func bodyOutline(p soccer.PlayerView) []geom.Vec2 {
	return geom.WorldTransform(playerBody, p.Pos, p.Heading, p.Side, p.Radius)
}

// fillPolygon fills a world-space polygon and strokes its edges.
func (v *Viewer) fillPolygon(screen *ebiten.Image, pts []geom.Vec2, fill, edge color.Color) {
	var path vector.Path
	for i, pt := range pts {
		x, y := v.toScreen(pt)
		if i == 0 {
			path.MoveTo(x, y)
			continue
		}
		path.LineTo(x, y)
	}
	path.Close()

	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(fill)
	vector.FillPath(screen, &path, &vector.FillOptions{}, op)

	for i := range pts {
		x0, y0 := v.toScreen(pts[i])
		x1, y1 := v.toScreen(pts[(i+1)%len(pts)])
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, edge, true)
	}
}

// drawPitch renders the grass, the playing area markings and both goals.
func (v *Viewer) drawPitch(screen *ebiten.Image, s *soccer.Snapshot) {
	ox, oy := float32(v.offX), float32(v.offY)
	pw, ph := float32(v.pitchW), float32(v.pitchH)
	vector.FillRect(screen, ox, oy, pw, ph, grassColor, false)

	const stripes = 12
	sw := pw / stripes
	for i := 0; i < stripes; i += 2 {
		vector.FillRect(screen, ox+float32(i)*sw, oy, sw, ph, grassStripe, false)
	}

	a := s.PlayingArea
	x0, y0 := v.toScreen(geom.V(a.Left, a.Top))
	x1, y1 := v.toScreen(geom.V(a.Right, a.Bottom))
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 2, lineColor, true)

	cx, cy := v.toScreen(a.Center())
	vector.StrokeLine(screen, cx, y0, cx, y1, 2, lineColor, true)
	vector.StrokeCircle(screen, cx, cy, float32(a.Height()*0.2*v.scale), 2, lineColor, true)
	vector.FillCircle(screen, cx, cy, 3, lineColor, true)

	for side, g := range s.Goals {
		lx, ly := v.toScreen(g.LeftPost)
		rx, ry := v.toScreen(g.RightPost)
		depth := float32(-8 * g.Facing.X() * v.scale)
		col := teamColors[side]
		vector.StrokeLine(screen, lx, ly, lx+depth, ly, 3, col, true)
		vector.StrokeLine(screen, rx, ry, rx+depth, ry, 3, col, true)
		vector.StrokeLine(screen, lx+depth, ly, rx+depth, ry, 3, col, true)
	}
}

// drawRegions outlines every region with its id.
func (v *Viewer) drawRegions(screen *ebiten.Image, s *soccer.Snapshot) {
	for _, r := range s.Regions {
		x0, y0 := v.toScreen(geom.V(r.Left, r.Top))
		x1, y1 := v.toScreen(geom.V(r.Right, r.Bottom))
		vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1, regionColor, false)
		ebitenutil.DebugPrintAt(screen, strconv.Itoa(r.ID), int(x0)+3, int(y0)+1)
	}
}

// drawSupportSpots shows the attacking team's scored spots; the circle
// grows with the score and the best spot is filled.
func (v *Viewer) drawSupportSpots(screen *ebiten.Image, s *soccer.Snapshot) {
	for _, t := range s.Teams {
		if !t.InControl {
			continue
		}
		tc := teamColors[t.Side]
		col := color.NRGBA{R: tc.R, G: tc.G, B: tc.B, A: 150}
		for i, spot := range t.Spots {
			x, y := v.toScreen(spot.Pos)
			r := float32(spot.Score * v.scale)
			if r < 1 {
				r = 1
			}
			if i == t.BestSpot {
				vector.FillCircle(screen, x, y, r, col, true)
				continue
			}
			vector.StrokeCircle(screen, x, y, r, 1, col, true)
		}
	}
}

// drawPlayers draws each player body with a heading tick, plus the enabled
// labels and overlays.
func (v *Viewer) drawPlayers(screen *ebiten.Image, s *soccer.Snapshot) {
	for _, p := range s.Players {
		x, y := v.toScreen(p.Pos)
		r := float32(p.Radius * v.scale)

		col := teamColors[p.Team]
		if p.Role == soccer.RoleGoalKeeper {
			col = keeperColors[p.Team]
		}

		if v.display.ViewTargets {
			tx, ty := v.toScreen(p.Target)
			vector.StrokeLine(screen, x, y, tx, ty, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 60}, true)
			vector.StrokeRect(screen, tx-2, ty-2, 4, 4, 1, col, false)
		}

		v.fillPolygon(screen, bodyOutline(p), col, color.Black)
		if p.Controlling && v.display.ControllingTeam {
			vector.StrokeCircle(screen, x, y, r+3, 2, color.RGBA{R: 255, G: 230, B: 60, A: 255}, true)
		}
		if p.Threatened && v.display.Threatened {
			vector.StrokeCircle(screen, x, y, r+6, 1.5, color.RGBA{R: 255, G: 40, B: 40, A: 255}, true)
		}

		look := p.Heading
		if p.Role == soccer.RoleGoalKeeper {
			look = p.LookAt
		}
		hx, hy := v.toScreen(p.Pos.Add(look.Mul(p.Radius * 1.6)))
		vector.StrokeLine(screen, x, y, hx, hy, 2, lineColor, true)

		label := ""
		if v.display.IDs {
			label = p.Label
		}
		if v.display.States {
			if label != "" {
				label += " "
			}
			label += p.State
		}
		if label != "" {
			v.printText(screen, label, float64(x)-float64(r), float64(y+r)+2, lineColor)
		}
	}
}

func (v *Viewer) drawBall(screen *ebiten.Image, s *soccer.Snapshot) {
	x, y := v.toScreen(s.Ball.Pos)
	r := float32(s.Ball.Radius * v.scale)
	vector.FillCircle(screen, x, y, r, color.White, true)
	vector.StrokeCircle(screen, x, y, r, 1, color.Black, true)
}

// drawScoreBar renders the score, the clock and which team has the ball.
func (v *Viewer) drawScoreBar(screen *ebiten.Image, s *soccer.Snapshot) {
	v.printText(screen, fmt.Sprintf("RED %d", s.RedScore), float64(v.offX), 8, teamColors[soccer.Red])
	blue := fmt.Sprintf("%d BLUE", s.BlueScore)
	bx := float64(v.offX+v.pitchW) - text.Advance(blue, v.face)
	v.printText(screen, blue, bx, 8, teamColors[soccer.Blue])

	status := fmt.Sprintf("tick %d", s.Tick)
	switch {
	case s.Paused:
		status += "  PAUSED"
	case !s.GameInPlay:
		status += "  kickoff"
	case s.KeeperBall:
		status += "  keeper's ball"
	}
	if v.display.ControllingTeam {
		for _, t := range s.Teams {
			if t.InControl {
				status += "  ball: " + t.Side.String()
			}
		}
	}
	mid := float64(v.offX) + float64(v.pitchW)/2 - text.Advance(status, v.face)/2
	v.printText(screen, status, mid, 8, lineColor)
}

// hudLines lists the key bindings with the current toggle states.
func (v *Viewer) hudLines(s *soccer.Snapshot) []string {
	on := func(b bool) string {
		if b {
			return "*"
		}
		return " "
	}
	sim := "RUN"
	if s.Paused {
		sim = "PAUSED"
	}
	return []string{
		fmt.Sprintf("SIM: %s  P=pause", sim),
		fmt.Sprintf("[R]%s regions  [S]%s spots", on(v.display.Regions), on(v.display.SupportSpots)),
		fmt.Sprintf("[I]%s ids      [T]%s states", on(v.display.IDs), on(v.display.States)),
		fmt.Sprintf("[V]%s targets  [X]%s threats", on(v.display.ViewTargets), on(v.display.Threatened)),
		"Tab/click=inspect  C=copy  H=hide",
	}
}

// drawHUD renders the key legend in the bottom-left corner of the pitch.
func (v *Viewer) drawHUD(screen *ebiten.Image, s *soccer.Snapshot) {
	lines := v.hudLines(s)
	const lineH = 14
	const charW = 6
	const padX = 5
	const padY = 4

	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)
	bx := float32(v.offX + 6)
	by := float32(v.offY+v.pitchH) - boxH - 6

	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 6, G: 10, B: 6, A: 210}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 100, B: 60, A: 180}, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, int(bx)+padX, int(by)+padY+i*lineH)
	}
}

func (v *Viewer) printText(dst *ebiten.Image, str string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, str, v.face, op)
}
