package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tatianab/ghost-hunter/internal/app"
	"github.com/tatianab/ghost-hunter/internal/gui"
	"github.com/tatianab/ghost-hunter/internal/session"
)

func main() {
	a, err := app.Load(context.Background())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	g := gui.New(a.Oracle, func() *session.Session { return a.NewSession() })
	defer g.Close()

	ebiten.SetWindowSize(gui.ScreenWidth, gui.ScreenHeight)
	ebiten.SetWindowTitle("Ghost Hunter")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		fmt.Printf("Error running window: %v\n", err)
		os.Exit(1)
	}
}
