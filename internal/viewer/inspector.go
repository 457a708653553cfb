package viewer

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/Garsondee/Soccer-Sense/internal/geom"
	"github.com/Garsondee/Soccer-Sense/internal/soccer"
)

// Inspector panel, rendered into an offscreen buffer at 1x then blitted at inspScale.
const (
	inspScale = 2
	inspBufW  = 200
	inspBufH  = 230
	inspPad   = 4
	inspLineH = 13
)

// Inspector holds the selected player and view toggle state. The selection
// is a label so it survives from one snapshot to the next.
type Inspector struct {
	selected string
	rawView  bool
}

// Selected resolves the selection against s.
func (in *Inspector) Selected(s *soccer.Snapshot) (soccer.PlayerView, bool) {
	if in.selected == "" || s == nil {
		return soccer.PlayerView{}, false
	}
	return s.PlayerByLabel(in.selected)
}

// Cycle selects the next player in snapshot order; after the last player
// the selection is cleared.
func (in *Inspector) Cycle(s *soccer.Snapshot) {
	if s == nil || len(s.Players) == 0 {
		in.selected = ""
		return
	}
	if in.selected == "" {
		in.selected = s.Players[0].Label
		return
	}
	for i, p := range s.Players {
		if p.Label != in.selected {
			continue
		}
		if i+1 < len(s.Players) {
			in.selected = s.Players[i+1].Label
		} else {
			in.selected = ""
		}
		return
	}
	// The selected player is gone.
	in.selected = s.Players[0].Label
}

// pickPlayer returns the label of the player nearest world position w
// within radius, or "".
func pickPlayer(s *soccer.Snapshot, w geom.Vec2, radius float64) string {
	best := math.MaxFloat64
	label := ""
	for _, p := range s.Players {
		if d := geom.DistSq(p.Pos, w); d < radius*radius && d < best {
			best = d
			label = p.Label
		}
	}
	return label
}

// handleInspectorClick selects the player under the cursor, or clears the
// selection when the click misses.
func (v *Viewer) handleInspectorClick(s *soccer.Snapshot, mx, my int) bool {
	w := v.toWorld(mx, my)
	// 12 screen pixels expressed in world units.
	v.inspector.selected = pickPlayer(s, w, 12/v.scale)
	return v.inspector.selected != ""
}

// inspectorLines describes p, either curated or as a raw field dump.
func inspectorLines(s *soccer.Snapshot, p soccer.PlayerView, raw bool) []string {
	if raw {
		return []string{
			fmt.Sprintf("id=%d %s team=%s role=%s", p.ID, p.Label, p.Team, p.Role),
			fmt.Sprintf("pos=(%.1f,%.1f)", p.Pos.X(), p.Pos.Y()),
			fmt.Sprintf("vel=(%.2f,%.2f)", p.Vel.X(), p.Vel.Y()),
			fmt.Sprintf("head=(%.2f,%.2f)", p.Heading.X(), p.Heading.Y()),
			fmt.Sprintf("side=(%.2f,%.2f)", p.Side.X(), p.Side.Y()),
			fmt.Sprintf("look=(%.2f,%.2f)", p.LookAt.X(), p.LookAt.Y()),
			fmt.Sprintf("tgt=(%.1f,%.1f)", p.Target.X(), p.Target.Y()),
			fmt.Sprintf("st=%s home=%d r=%.0f", p.State, p.HomeRegion, p.Radius),
			fmt.Sprintf("ctl=%v sup=%v rcv=%v thr=%v", p.Controlling, p.Supporting, p.Receiving, p.Threatened),
			fmt.Sprintf("tick=%d", s.Tick),
		}
	}

	var roles []string
	if p.Controlling {
		roles = append(roles, "controlling")
	}
	if p.Supporting {
		roles = append(roles, "supporting")
	}
	if p.Receiving {
		roles = append(roles, "receiving")
	}
	if len(roles) == 0 {
		roles = append(roles, "-")
	}
	lines := []string{
		fmt.Sprintf("%s  %s %s", p.Label, strings.ToUpper(p.Team.String()), p.Role),
		"-- SITUATION --",
		fmt.Sprintf("state:  %s", p.State),
		fmt.Sprintf("role:   %s", strings.Join(roles, ",")),
		fmt.Sprintf("home:   region %d", p.HomeRegion),
		"-- MOTION --",
		fmt.Sprintf("pos:    (%.0f, %.0f)", p.Pos.X(), p.Pos.Y()),
		fmt.Sprintf("speed:  %.2f", p.Vel.Len()),
		fmt.Sprintf("target: (%.0f, %.0f)", p.Target.X(), p.Target.Y()),
		fmt.Sprintf("ball:   %.0f away", geom.Dist(p.Pos, s.Ball.Pos)),
	}
	if p.Threatened {
		lines = append(lines, "THREATENED")
	}
	return lines
}

// drawInspector renders the inspector panel bottom-right of the pitch.
func (v *Viewer) drawInspector(screen *ebiten.Image, s *soccer.Snapshot) {
	p, ok := v.inspector.Selected(s)
	if !ok {
		return
	}
	if v.inspBuf == nil {
		v.inspBuf = ebiten.NewImage(inspBufW, inspBufH)
	}
	buf := v.inspBuf
	buf.Clear()

	bw := float32(inspBufW)
	bh := float32(inspBufH)
	panelBorder := color.RGBA{R: 55, G: 80, B: 55, A: 255}
	vector.FillRect(buf, 0, 0, bw, bh, color.RGBA{R: 14, G: 16, B: 14, A: 230}, false)
	vector.StrokeRect(buf, 0, 0, bw, bh, 1.0, panelBorder, false)

	lx, ly := inspPad, inspPad
	viewName := "CURATED"
	if v.inspector.rawView {
		viewName = "RAW"
	}
	ebitenutil.DebugPrintAt(buf, fmt.Sprintf("view: %s  [D]ump [C]opy", viewName), lx, ly)
	ly += inspLineH + 2
	vector.StrokeLine(buf, float32(lx), float32(ly), bw-float32(inspPad), float32(ly), 1.0, panelBorder, false)
	ly += 3

	for _, line := range inspectorLines(s, p, v.inspector.rawView) {
		ebitenutil.DebugPrintAt(buf, line, lx, ly)
		ly += inspLineH
	}

	px := v.offX + v.pitchW - inspBufW*inspScale - 8
	py := v.offY + v.pitchH - inspBufH*inspScale - 8
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(inspScale, inspScale)
	opts.GeoM.Translate(float64(px), float64(py))
	screen.DrawImage(buf, opts)
}

// copyToClipboard copies the inspected player, or the match summary when
// nobody is selected.
func (v *Viewer) copyToClipboard(s *soccer.Snapshot) {
	var text string
	if p, ok := v.inspector.Selected(s); ok {
		text = strings.Join(inspectorLines(s, p, true), "\n")
	} else {
		text = matchSummary(s)
	}
	if err := v.copyText(text); err != nil {
		v.log.Warn("clipboard copy failed", zap.Error(err))
		return
	}
	v.log.Info("copied to clipboard", zap.Int("bytes", len(text)))
}

// matchSummary is a plain-text digest of a snapshot.
func matchSummary(s *soccer.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "match %s tick %d\n", s.MatchID, s.Tick)
	fmt.Fprintf(&sb, "score: red %d - %d blue\n", s.RedScore, s.BlueScore)
	for _, t := range s.Teams {
		fmt.Fprintf(&sb, "%s: %s in_control=%v\n", t.Side, t.State, t.InControl)
	}
	for _, p := range s.Players {
		fmt.Fprintf(&sb, "  %-3s %-18s (%.0f,%.0f)\n", p.Label, p.State, p.Pos.X(), p.Pos.Y())
	}
	return sb.String()
}
