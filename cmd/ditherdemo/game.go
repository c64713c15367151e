package main

import (
	"fmt"
	"image"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/fortressfx/dither"
	"github.com/fortressfx/dither/integration/ebitenfx"
)

// Damage feedback tuning.
const (
	hitPulse  = 0.5
	hitDamage = 0.1
	orbRadius = 24
)

// Game holds the demo state.
type Game struct {
	tick   int
	health float32

	ctrl  *dither.Controller
	pass  *ebitenfx.Pass
	back  *ebiten.Image
	orb   *ebiten.Image
	scene *ebiten.Image
}

// NewGame builds the static layers and compiles the dither shader.
func NewGame() (*Game, error) {
	pass, err := ebitenfx.NewPass()
	if err != nil {
		return nil, fmt.Errorf("ditherdemo: %w", err)
	}
	return &Game{
		health: 1,
		ctrl:   dither.NewController(dither.DefaultControllerConfig()),
		pass:   pass,
		back:   ebiten.NewImageFromImage(backdrop(ScreenWidth, ScreenHeight)),
		orb:    ebiten.NewImageFromImage(orb(orbRadius)),
		scene:  ebiten.NewImage(ScreenWidth, ScreenHeight),
	}, nil
}

// Update: logic (60 TPS).
func (g *Game) Update() error {
	g.tick++

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.hit()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.health = 1
		g.ctrl.Reset()
	}

	g.ctrl.Update(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

func (g *Game) hit() {
	g.health -= hitDamage
	if g.health < 0 {
		g.health = 0
	}
	g.ctrl.Pulse(hitPulse)
	g.ctrl.SetOscillate(dither.OscillateForHealth(g.health))
}

// Draw: scene offscreen, then the dither pass onto the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.DrawImage(g.back, nil)

	t := float64(g.tick) / 60
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(
		ScreenWidth/2-orbRadius+math.Cos(t)*90,
		ScreenHeight/2-orbRadius+math.Sin(t*1.3)*60,
	)
	g.scene.DrawImage(g.orb, op)

	s := g.ctrl.Snapshot()
	if err := g.pass.Draw(screen, g.scene, s); err != nil {
		screen.DrawImage(g.scene, nil)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"HP %3.0f%%  intensity %.2f  oscillate %.2f\nSPACE: hit  R: reset",
		g.health*100, s.Intensity, s.Oscillate))
}

// Layout: always render at 320x240, let Ebiten scale it up.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// Close releases GPU resources.
func (g *Game) Close() {
	g.pass.Dispose()
	g.back.Deallocate()
	g.orb.Deallocate()
	g.scene.Deallocate()
}

// backdrop paints a vertical dusk gradient with a darker floor band.
func backdrop(w, h int) image.Image {
	pm := dither.NewPixmap(w, h)
	for y := range h {
		v := float32(y) / float32(h)
		c := dither.RGBA{R: 0.1 + v*0.4, G: 0.2 + v*0.3, B: 0.4 + v*0.2, A: 1}
		if y > h*3/4 {
			c = dither.RGBA{R: 0.15, G: 0.25, B: 0.1, A: 1}
		}
		for x := range w {
			pm.SetPixel(x, y, c)
		}
	}
	return pm
}

// orb paints a shaded disc with a transparent surround.
func orb(r int) image.Image {
	pm := dither.NewPixmap(2*r, 2*r)
	for y := range 2 * r {
		for x := range 2 * r {
			dx := float64(x-r) + 0.5
			dy := float64(y-r) + 0.5
			d := math.Sqrt(dx*dx+dy*dy) / float64(r)
			if d > 1 {
				continue
			}
			shade := float32(1 - 0.7*d)
			pm.SetPixel(x, y, dither.RGBA{R: shade, G: shade * 0.6, B: 0.2, A: 1})
		}
	}
	return pm
}
