package gui

import (
	"context"
	"testing"
	"time"

	"github.com/tatianab/ghost-hunter/internal/engine"
	"github.com/tatianab/ghost-hunter/internal/game"
	"github.com/tatianab/ghost-hunter/internal/iso"
	"github.com/tatianab/ghost-hunter/internal/models"
	"github.com/tatianab/ghost-hunter/internal/session"
)

type fakeOracle struct{}

func (fakeOracle) SpectralAnalysis(ctx context.Context, wave int) (models.SpectralAnalysis, error) {
	return models.SpectralAnalysis{RiskLevel: "Low", Strategy: "Wait.", Lore: "Quiet night."}, nil
}

func (fakeOracle) SplashImage(ctx context.Context, prompt string) (*engine.Image, error) {
	return nil, engine.ErrOffline
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	return newTestGameWith(t, game.DefaultTuning())
}

func newTestGameWith(t *testing.T, tuning game.Tuning) *Game {
	t.Helper()
	layout, err := models.DefaultLayout()
	if err != nil {
		t.Fatalf("Failed to load layout: %v", err)
	}
	g := New(fakeOracle{}, func() *session.Session {
		return session.New(tuning, layout)
	})
	t.Cleanup(g.Close)
	return g
}

func receive(t *testing.T, g *Game) delivery {
	t.Helper()
	select {
	case d := <-g.results:
		return d
	case <-time.After(time.Second):
		t.Fatalf("Timed out waiting for a delivery")
	}
	return delivery{}
}

func TestSplashFailureKeepsGradient(t *testing.T) {
	g := newTestGame(t)
	d := receive(t, g)
	d.apply(g)
	if g.splash != nil {
		t.Errorf("Expected no splash image when the oracle is offline")
	}
}

func TestAnalysisDelivery(t *testing.T) {
	g := newTestGame(t)
	receive(t, g)

	g.session.Start()
	g.requestAnalysis()
	if !g.session.AnalysisPending() {
		t.Fatalf("Expected the analysis to be in flight")
	}
	g.results <- receive(t, g)
	g.drain()
	if a, ok := g.session.Analysis(); !ok || a.RiskLevel != "Low" {
		t.Errorf("Expected the delivered analysis, got %+v", a)
	}
}

func TestStaleDeliveryDropped(t *testing.T) {
	g := newTestGame(t)
	receive(t, g)
	g.session.Start()
	g.requestAnalysis()
	d := receive(t, g)

	g.restart()
	g.results <- d
	g.drain()
	if _, ok := g.session.Analysis(); ok {
		t.Errorf("Expected the old session's analysis to be dropped")
	}
}

func TestClick(t *testing.T) {
	g := newTestGame(t)
	g.session.Start()
	g.session.Advance(2800 * time.Millisecond)
	ghosts := g.session.State().Ghosts()
	if len(ghosts) != 1 {
		t.Fatalf("Expected one ghost, got %d", len(ghosts))
	}

	g.click(g.projection().ToScreen(ghosts[0].Pos))
	if st := g.session.State(); len(st.Ghosts()) != 0 || st.Score != 10 {
		t.Errorf("Expected the ghost exorcised, got %+v", st)
	}

	center, _ := ritualButton(g.width, g.height)
	g.click(center)
	if g.session.State().ExorcismActive {
		t.Errorf("Expected the ritual to be refused at 35 energy")
	}
}

func TestRitualButtonCasts(t *testing.T) {
	tuning := game.DefaultTuning()
	tuning.StartEnergy = 100
	g := newTestGameWith(t, tuning)
	g.session.Start()
	g.session.Advance(2800 * time.Millisecond)
	if n := len(g.session.State().Ghosts()); n != 1 {
		t.Fatalf("Expected one ghost, got %d", n)
	}

	center, r := ritualButton(g.width, g.height)
	g.click(iso.Point{X: center.X + r + 1, Y: center.Y})
	if g.session.State().ExorcismActive {
		t.Fatalf("Expected a click outside the button not to cast")
	}

	g.click(center)
	st := g.session.State()
	if !st.ExorcismActive {
		t.Fatalf("Expected the ritual to be cast")
	}
	if st.SpiritEnergy != 50 || st.Score != 50 {
		t.Errorf("Expected energy 50 and score 50, got %d and %d", st.SpiritEnergy, st.Score)
	}
	if n := len(st.Ghosts()); n != 0 {
		t.Errorf("Expected the distant ghost banished, %d remain", n)
	}
}

func TestRitualButton(t *testing.T) {
	center, r := ritualButton(1024, 768)
	if center != (iso.Point{X: 512, Y: 688}) || r != 40 {
		t.Errorf("Unexpected button at %v radius %v", center, r)
	}
}

func TestFill(t *testing.T) {
	for _, tc := range []struct {
		v, total int
		want     float64
	}{
		{50, 100, 0.5},
		{0, 100, 0},
		{150, 100, 1},
		{-5, 100, 0},
		{5, 0, 0},
	} {
		if got := fill(tc.v, tc.total); got != tc.want {
			t.Errorf("fill(%d, %d) = %v, want %v", tc.v, tc.total, got, tc.want)
		}
	}
}
