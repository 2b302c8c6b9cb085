package game

import (
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tatianab/ghost-hunter/internal/models"
)

func stateWith(entities ...models.Entity) models.GameState {
	t := DefaultTuning()
	return models.GameState{
		Entities:     append([]models.Entity{models.Hero{ID: "hero"}}, entities...),
		SpiritEnergy: t.StartEnergy,
		Health:       t.StartHealth,
	}
}

func TestStepGhostReachesHero(t *testing.T) {
	tuning := DefaultTuning()
	s := stateWith(models.Ghost{ID: "g", Pos: models.Vec{X: 5}})

	for i := 0; i < 180; i++ {
		s, _ = Step(s, tuning, 1)
	}
	if _, ok := s.Find("g"); !ok {
		t.Fatalf("Expected ghost to survive 180 ticks")
	}
	if s.Health != 100 {
		t.Fatalf("Expected health 100 after 180 ticks, got %d", s.Health)
	}

	total := 0
	for i := 0; i < 2; i++ {
		var reached int
		s, reached = Step(s, tuning, 1)
		total += reached
	}
	if _, ok := s.Find("g"); ok {
		t.Fatalf("Expected ghost to be gone by tick 182")
	}
	if total != 1 {
		t.Errorf("Expected exactly one ghost to reach the hero, got %d", total)
	}
	if s.Health != 95 {
		t.Errorf("Expected health 95, got %d", s.Health)
	}
}

func TestStepDistanceNeverIncreases(t *testing.T) {
	tuning := DefaultTuning()
	tuning.BaseSpeed = 3 // larger than the starting distance
	s := stateWith(models.Ghost{ID: "g", Pos: models.Vec{X: 1.2, Y: -0.9}})

	prev := 1.5
	for i := 0; i < 10; i++ {
		s, _ = Step(s, tuning, 0)
		g, ok := s.Find("g")
		if !ok {
			return
		}
		d := g.Position().Len()
		if d > prev+1e-12 {
			t.Fatalf("Distance grew from %f to %f on tick %d", prev, d, i)
		}
		prev = d
	}
	t.Fatalf("Expected ghost to be removed within 10 ticks")
}

func TestStepGhostOnOrigin(t *testing.T) {
	s := stateWith(models.Ghost{ID: "g"})
	s, reached := Step(s, DefaultTuning(), 1)
	if reached != 1 {
		t.Fatalf("Expected ghost at origin to be reached, got %d", reached)
	}
	for _, e := range s.Entities {
		if math.IsNaN(e.Position().X) || math.IsNaN(e.Position().Y) {
			t.Fatalf("Entity %s has NaN position", e.EntityID())
		}
	}
}

func TestStepDamageClampsAtZero(t *testing.T) {
	s := stateWith(
		models.Ghost{ID: "a", Pos: models.Vec{X: 0.1}},
		models.Ghost{ID: "b", Pos: models.Vec{Y: 0.2}},
		models.Ghost{ID: "c", Pos: models.Vec{X: -0.3}},
	)
	s.Health = 12

	s, reached := Step(s, DefaultTuning(), 1)
	if reached != 3 {
		t.Fatalf("Expected 3 ghosts reached, got %d", reached)
	}
	if s.Health != 0 || !s.Defeated() {
		t.Errorf("Expected health clamped to 0, got %d", s.Health)
	}
}

func TestStepLeavesScenery(t *testing.T) {
	tree := models.Scenery{ID: "tree", Pos: models.Vec{X: 0.1}, Prop: models.KindTree}
	s := stateWith(tree)
	before := len(s.Entities)

	s, _ = Step(s, DefaultTuning(), 3)
	if len(s.Entities) != before {
		t.Fatalf("Expected %d entities, got %d", before, len(s.Entities))
	}
	e, _ := s.Find("tree")
	if e != models.Entity(tree) {
		t.Errorf("Expected scenery untouched, got %v", e)
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	s := stateWith(models.Ghost{ID: "g", Pos: models.Vec{X: 4}})
	snapshot := s.Entities[1]

	Step(s, DefaultTuning(), 1)
	if s.Entities[1] != snapshot {
		t.Errorf("Step changed the input snapshot: %v", s.Entities[1])
	}
}

func TestSpawnInterval(t *testing.T) {
	tuning := DefaultTuning()
	tests := []struct {
		wave int
		want time.Duration
	}{
		{0, 3000 * time.Millisecond},
		{1, 2800 * time.Millisecond},
		{5, 2000 * time.Millisecond},
		{10, 1000 * time.Millisecond},
		{50, 1000 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := tuning.SpawnInterval(tt.wave); got != tt.want {
			t.Errorf("SpawnInterval(%d) = %s, want %s", tt.wave, got, tt.want)
		}
	}

	prev := tuning.SpawnInterval(0)
	for w := 1; w < 100; w++ {
		got := tuning.SpawnInterval(w)
		if got > prev {
			t.Fatalf("SpawnInterval increased at wave %d: %s > %s", w, got, prev)
		}
		if got < tuning.SpawnFloor {
			t.Fatalf("SpawnInterval(%d) = %s is below the floor", w, got)
		}
		prev = got
	}
}

func TestSpawnPointInBand(t *testing.T) {
	tuning := DefaultTuning()
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		p := SpawnPoint(rng, tuning)
		d := p.Len()
		if d < tuning.SpawnRadiusMin-1e-9 || d >= tuning.SpawnRadiusMax+1e-9 {
			t.Fatalf("Spawn point %v at distance %f is outside [4, 6)", p, d)
		}
	}
}

func TestSpawnAppendsGhost(t *testing.T) {
	s := stateWith()
	next := Spawn(s, models.Ghost{ID: NewGhostID(), Pos: models.Vec{X: 5}})
	if len(s.Entities) != 1 {
		t.Fatalf("Spawn changed the input snapshot")
	}
	ghosts := next.Ghosts()
	if len(ghosts) != 1 || !strings.HasPrefix(ghosts[0].ID, "ghost-") {
		t.Fatalf("Unexpected ghosts after spawn: %v", ghosts)
	}
}

func TestNewGhostIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := NewGhostID()
		if seen[id] {
			t.Fatalf("Duplicate ghost id %s", id)
		}
		seen[id] = true
	}
}

func TestExorcise(t *testing.T) {
	tuning := DefaultTuning()
	s := stateWith(
		models.Ghost{ID: "g1", Pos: models.Vec{X: 2}},
		models.Ghost{ID: "g2", Pos: models.Vec{Y: 2}},
		models.Scenery{ID: "tomb", Pos: models.Vec{X: 1}, Prop: models.KindTombstone},
	)

	next, ok := Exorcise(s, tuning, "g1")
	if !ok {
		t.Fatalf("Expected exorcism to succeed")
	}
	if _, found := next.Find("g1"); found {
		t.Errorf("Expected g1 removed")
	}
	if _, found := next.Find("g2"); !found {
		t.Errorf("Expected g2 to remain")
	}
	if next.Score != 10 || next.SpiritEnergy != 35 {
		t.Errorf("Expected score 10 and energy 35, got %d and %d", next.Score, next.SpiritEnergy)
	}

	for _, id := range []string{"tomb", "hero", "missing"} {
		same, ok := Exorcise(next, tuning, id)
		if ok {
			t.Errorf("Expected exorcising %q to be ignored", id)
		}
		if len(same.Entities) != len(next.Entities) || same.Score != next.Score {
			t.Errorf("Exorcising %q changed the state", id)
		}
	}
}

func TestExorciseEnergyClamp(t *testing.T) {
	s := stateWith(models.Ghost{ID: "g", Pos: models.Vec{X: 2}})
	s.SpiritEnergy = 98
	s, _ = Exorcise(s, DefaultTuning(), "g")
	if s.SpiritEnergy != 100 {
		t.Errorf("Expected energy clamped to 100, got %d", s.SpiritEnergy)
	}
}

func TestCastRitual(t *testing.T) {
	tuning := DefaultTuning()
	s := stateWith(
		models.Ghost{ID: "near", Pos: models.Vec{X: 1, Y: 1}},
		models.Ghost{ID: "edge", Pos: models.Vec{X: 3}},
		models.Ghost{ID: "far", Pos: models.Vec{X: 4, Y: 1}},
		models.Scenery{ID: "tree", Pos: models.Vec{X: -5, Y: -5}, Prop: models.KindTree},
	)

	if _, ok := CastRitual(s, tuning); ok {
		t.Fatalf("Expected ritual to fail with 30 energy")
	}

	s.SpiritEnergy = 60
	next, ok := CastRitual(s, tuning)
	if !ok {
		t.Fatalf("Expected ritual to succeed with 60 energy")
	}
	if !next.ExorcismActive {
		t.Errorf("Expected exorcism to be active")
	}
	if next.SpiritEnergy != 10 || next.Score != 50 {
		t.Errorf("Expected energy 10 and score 50, got %d and %d", next.SpiritEnergy, next.Score)
	}
	for id, want := range map[string]bool{"near": true, "edge": true, "far": false, "tree": true, "hero": true} {
		if _, found := next.Find(id); found != want {
			t.Errorf("Entity %s present = %v, want %v", id, found, want)
		}
	}

	next.SpiritEnergy = 100
	again, ok := CastRitual(next, tuning)
	if ok {
		t.Errorf("Expected re-cast during an active ritual to be ignored")
	}
	if again.SpiritEnergy != 100 || again.Score != 50 {
		t.Errorf("Ignored re-cast changed resources: %d energy, %d score", again.SpiritEnergy, again.Score)
	}

	ended := EndRitual(next)
	if ended.ExorcismActive {
		t.Errorf("Expected EndRitual to clear the flag")
	}
	if !CanCastRitual(ended, tuning) {
		t.Errorf("Expected ritual to be castable again after it ended")
	}
}

func TestFallbackAnalysis(t *testing.T) {
	if got := FallbackAnalysis(4); got.RiskLevel != "Critical" {
		t.Errorf("Expected wave 4 to select Critical, got %q", got.RiskLevel)
	}
	if FallbackAnalysis(1) != FallbackAnalysis(4) {
		t.Errorf("Expected waves 1 and 4 to share a fallback")
	}
	for w := 0; w < 6; w++ {
		if !FallbackAnalysis(w).Complete() {
			t.Errorf("Fallback for wave %d is incomplete", w)
		}
	}
}

func TestTuningValidate(t *testing.T) {
	if err := DefaultTuning().Validate(); err != nil {
		t.Fatalf("Default tuning is invalid: %v", err)
	}

	bad := DefaultTuning()
	bad.SpawnFloor = 5 * time.Second
	if err := bad.Validate(); err == nil {
		t.Errorf("Expected spawn_base below spawn_floor to be rejected")
	}

	bad = DefaultTuning()
	bad.StartEnergy = 101
	if err := bad.Validate(); err == nil {
		t.Errorf("Expected start_energy above max to be rejected")
	}

	for name, mutate := range map[string]func(*Tuning){
		"negative base_speed":     func(tu *Tuning) { tu.BaseSpeed = -0.01 },
		"negative speed_per_wave": func(tu *Tuning) { tu.SpeedPerWave = -0.005 },
		"zero reach_radius":       func(tu *Tuning) { tu.ReachRadius = 0 },
		"zero hit_radius":         func(tu *Tuning) { tu.HitRadius = 0 },
		"zero ritual_cost":        func(tu *Tuning) { tu.RitualCost = 0 },
	} {
		bad := DefaultTuning()
		mutate(&bad)
		if err := bad.Validate(); err == nil {
			t.Errorf("Expected %s to be rejected", name)
		}
	}

	still := DefaultTuning()
	still.BaseSpeed, still.SpeedPerWave = 0, 0
	if err := still.Validate(); err != nil {
		t.Errorf("Expected stationary ghosts to be allowed, got %v", err)
	}
}

func TestLoadTuningOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	data := "tick_interval: 25ms\nritual_cost: 40\nspawn_radius_max: 8.5\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write tuning: %v", err)
	}

	tuning, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("Failed to load tuning: %v", err)
	}
	if tuning.TickInterval != 25*time.Millisecond {
		t.Errorf("Expected tick interval 25ms, got %s", tuning.TickInterval)
	}
	if tuning.RitualCost != 40 || tuning.SpawnRadiusMax != 8.5 {
		t.Errorf("Overrides not applied: cost %d, radius %g", tuning.RitualCost, tuning.SpawnRadiusMax)
	}
	if tuning.WaveInterval != 30*time.Second {
		t.Errorf("Expected untouched wave interval to keep its default, got %s", tuning.WaveInterval)
	}

	if err := os.WriteFile(path, []byte("tick_interval: -1s\n"), 0644); err != nil {
		t.Fatalf("Failed to write tuning: %v", err)
	}
	if _, err := LoadTuning(path); err == nil {
		t.Errorf("Expected a negative tick interval to be rejected")
	}
}
