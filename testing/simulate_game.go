package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tatianab/ghost-hunter/internal/app"
	"github.com/tatianab/ghost-hunter/internal/iso"
	"github.com/tatianab/ghost-hunter/internal/models"
	"github.com/tatianab/ghost-hunter/internal/session"
	"github.com/tatianab/ghost-hunter/internal/task"
)

const (
	maxDuration = 10 * time.Minute
	// reaction is how long the scripted hunter takes between shots.
	reaction = 700 * time.Millisecond
	// crowd is how many ghosts it waits for before spending a ritual.
	crowd = 4
)

func main() {
	ctx := context.Background()
	a, err := app.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load: %v", err)
	}
	defer a.Close()

	scope := task.NewScope(ctx)
	defer scope.Close()

	s := a.NewSession()
	proj := iso.ForScreen(1024, 768)
	s.Start()

	fmt.Println("--- The hunt begins ---")
	wave := 0
	for s.Phase() == session.PhasePlaying && s.Elapsed() < maxDuration {
		if w, ok := s.NextAnalysis(); ok {
			r := task.Do(scope, func(ctx context.Context) (models.SpectralAnalysis, error) {
				return a.Oracle.SpectralAnalysis(ctx, w)
			})
			s.ResolveAnalysis(w, r.Value, r.Err)
		}
		if s.Wave() != wave {
			wave = s.Wave()
			report(s)
		}

		if len(s.State().Ghosts()) >= crowd && s.CastRitual() {
			fmt.Printf("[%s] Ritual cast, energy now %d\n", s.Elapsed(), s.State().SpiritEnergy)
		} else if g, ok := nearest(s.State().Ghosts()); ok {
			s.Click(proj.ToScreen(g.Pos), proj)
		}
		s.Advance(reaction)
	}

	fmt.Println("--- The hunt is over ---")
	st := s.State()
	if s.Phase() == session.PhaseDefeated {
		fmt.Println("Game Ended: Hunter was possessed!")
	} else {
		fmt.Println("Game Ended: Hunter survived the night!")
	}
	fmt.Printf("Survived: %s, Wave: %d, Souls reaped: %d, Health: %d\n", s.Elapsed(), s.Wave(), st.Score, st.Health)
}

func report(s *session.Session) {
	st := s.State()
	fmt.Printf("--- Wave %d at %s ---\n", s.Wave(), s.Elapsed())
	fmt.Printf("Stats: Health=%d, Spirit=%d, Score=%d, Ghosts=%d\n", st.Health, st.SpiritEnergy, st.Score, len(st.Ghosts()))
	if a, ok := s.Analysis(); ok {
		fmt.Printf("Risk: %s\nStrategy: %s\nLore: %s\n", a.RiskLevel, a.Strategy, a.Lore)
	}
}

// nearest returns the ghost closest to the hero.
func nearest(ghosts []models.Ghost) (models.Ghost, bool) {
	if len(ghosts) == 0 {
		return models.Ghost{}, false
	}
	best := ghosts[0]
	for _, g := range ghosts[1:] {
		if g.Pos.Len() < best.Pos.Len() {
			best = g
		}
	}
	return best, true
}
