package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tatianab/ghost-hunter/internal/app"
	"github.com/tatianab/ghost-hunter/internal/session"
	"github.com/tatianab/ghost-hunter/internal/tui"
)

func main() {
	ctx := context.Background()

	a, err := app.Load(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := tui.Run(a.Oracle, func() *session.Session { return a.NewSession() }); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
