package game

import (
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/tatianab/ghost-hunter/internal/models"
)

// NewGhostID returns a ghost id that is unique for the life of the process.
func NewGhostID() string {
	return "ghost-" + uuid.NewString()
}

// SpawnPoint picks a uniformly random angle and a radius in the spawn band.
func SpawnPoint(rng *rand.Rand, t Tuning) models.Vec {
	angle := rng.Float64() * 2 * math.Pi
	r := t.SpawnRadiusMin + rng.Float64()*(t.SpawnRadiusMax-t.SpawnRadiusMin)
	return models.Vec{X: math.Cos(angle) * r, Y: math.Sin(angle) * r}
}

// Spawn returns s with one more ghost appended.
func Spawn(s models.GameState, g models.Ghost) models.GameState {
	entities := make([]models.Entity, 0, len(s.Entities)+1)
	entities = append(entities, s.Entities...)
	s.Entities = append(entities, g)
	return s
}
