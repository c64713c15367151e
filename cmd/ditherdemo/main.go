// Command ditherdemo shows the dither effect driven by damage feedback.
//
// Space takes a hit, R restores health.
package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screen constants (retro 4:3).
const (
	ScreenWidth  = 320
	ScreenHeight = 240
	WindowTitle  = "Dither Demo"
)

func main() {
	ebiten.SetWindowSize(ScreenWidth*3, ScreenHeight*3)
	ebiten.SetWindowTitle(WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	game, err := NewGame()
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
