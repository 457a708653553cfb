// Package viewer renders a running match with ebiten. It only ever reads
// the snapshots a soccer.Runner publishes; the Match itself stays on the
// runner's goroutine.
package viewer

import (
	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Soccer-Sense/internal/config"
	"github.com/Garsondee/Soccer-Sense/internal/geom"
	"github.com/Garsondee/Soccer-Sense/internal/soccer"
)

const (
	// borderWidth is the pixel gap around the pitch.
	borderWidth = 16
	// scoreBarHeight is the strip above the pitch holding the score.
	scoreBarHeight = 28
	// pixelsPerUnit scales pitch units to screen pixels.
	pixelsPerUnit = 1.5
)

// Viewer implements ebiten.Game for one match.
type Viewer struct {
	runner  *soccer.Runner
	log     *zap.Logger
	display config.Display
	showHUD bool

	width  int
	height int
	pitchW int
	pitchH int
	offX   int
	offY   int
	scale  float64

	events    *EventLog
	inspector Inspector
	inspBuf   *ebiten.Image
	face      *text.GoXFace

	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool
	copyText      func(string) error
}

// New builds a viewer for r. The overlay toggles start from display.
func New(r *soccer.Runner, display config.Display, log *zap.Logger) *Viewer {
	s := r.Latest()
	v := &Viewer{
		runner:   r,
		log:      log,
		display:  display,
		showHUD:  true,
		scale:    pixelsPerUnit,
		events:   NewEventLog(),
		face:     text.NewGoXFace(basicfont.Face7x13),
		prevKeys: make(map[ebiten.Key]bool),
		copyText: clipboard.WriteAll,
	}
	v.pitchW = int(s.Width * v.scale)
	v.pitchH = int(s.Height * v.scale)
	v.offX = borderWidth
	v.offY = scoreBarHeight
	v.width = borderWidth + v.pitchW + borderWidth + logPanelWidth
	v.height = scoreBarHeight + v.pitchH + borderWidth
	v.events.Feed(s)
	return v
}

// WindowSize is the layout size in pixels.
func (v *Viewer) WindowSize() (int, int) { return v.width, v.height }

func (v *Viewer) Update() error {
	s := v.runner.Latest()
	v.events.Feed(s)
	v.handleInput(s)
	return nil
}

// viewerKeys are the edge-triggered toggles.
var viewerKeys = []ebiten.Key{
	ebiten.KeyP, ebiten.KeyR, ebiten.KeyS, ebiten.KeyI, ebiten.KeyT,
	ebiten.KeyV, ebiten.KeyH, ebiten.KeyC, ebiten.KeyTab, ebiten.KeyX,
	ebiten.KeyD,
}

// handleInput processes toggle keypresses (edge-triggered) and clicks.
func (v *Viewer) handleInput(s *soccer.Snapshot) {
	currentKeys := make(map[ebiten.Key]bool, len(viewerKeys))
	for _, k := range viewerKeys {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		if currentKeys[k] && !v.prevKeys[k] {
			v.apply(k, s)
		}
	}
	v.prevKeys = currentKeys

	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if left && !v.prevMouseLeft {
		mx, my := ebiten.CursorPosition()
		v.handleInspectorClick(s, mx, my)
	}
	v.prevMouseLeft = left
}

// apply performs the action bound to k.
func (v *Viewer) apply(k ebiten.Key, s *soccer.Snapshot) {
	switch k {
	case ebiten.KeyP:
		v.runner.TogglePause()
	case ebiten.KeyR:
		v.display.Regions = !v.display.Regions
	case ebiten.KeyS:
		v.display.SupportSpots = !v.display.SupportSpots
	case ebiten.KeyI:
		v.display.IDs = !v.display.IDs
	case ebiten.KeyT:
		v.display.States = !v.display.States
	case ebiten.KeyV:
		v.display.ViewTargets = !v.display.ViewTargets
	case ebiten.KeyX:
		v.display.Threatened = !v.display.Threatened
	case ebiten.KeyH:
		v.showHUD = !v.showHUD
	case ebiten.KeyC:
		v.copyToClipboard(s)
	case ebiten.KeyTab:
		v.inspector.Cycle(s)
	case ebiten.KeyD:
		v.inspector.rawView = !v.inspector.rawView
	}
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	s := v.runner.Latest()
	screen.Fill(backgroundColor)

	v.drawPitch(screen, s)
	if v.display.Regions {
		v.drawRegions(screen, s)
	}
	if v.display.SupportSpots {
		v.drawSupportSpots(screen, s)
	}
	v.drawPlayers(screen, s)
	v.drawBall(screen, s)
	v.drawScoreBar(screen, s)

	v.events.Draw(screen, v.offX+v.pitchW+borderWidth, v.height)
	if v.showHUD {
		v.drawHUD(screen, s)
	}
	v.drawInspector(screen, s)
}

func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.width, v.height
}

// toScreen maps a pitch position to screen pixels.
func (v *Viewer) toScreen(p geom.Vec2) (float32, float32) {
	return float32(float64(v.offX) + p.X()*v.scale), float32(float64(v.offY) + p.Y()*v.scale)
}

// toWorld is the inverse of toScreen.
func (v *Viewer) toWorld(x, y int) geom.Vec2 {
	return geom.V(float64(x-v.offX)/v.scale, float64(y-v.offY)/v.scale)
}
