// Package ebitenfx applies the dither effect to Ebitengine images.
//
// The effect runs as a Kage shader over an offscreen image, so a game draws
// its scene into an intermediate image and then dithers it onto the screen:
//
//	scene -> offscreen *ebiten.Image -> Pass.Draw -> screen
//
// # Usage
//
//	pass, err := ebitenfx.NewPass()
//	if err != nil {
//	    return err
//	}
//	defer pass.Dispose()
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//	    g.offscreen.Clear()
//	    g.drawScene(g.offscreen)
//	    _ = g.pass.Draw(screen, g.offscreen, g.controller.Snapshot())
//	}
//
// The shader reproduces dither.Apply exactly: the same 8x8 Bayer threshold,
// the red and mean decisions, and opaque output. Intensity 0 passes colors
// through unchanged.
//
// # Thread Safety
//
// Pass follows Ebitengine's rules: call Draw from the game's Draw method.
package ebitenfx
