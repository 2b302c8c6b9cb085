package game

import "github.com/tatianab/ghost-hunter/internal/models"

// Step advances the world by one simulation tick. Every ghost moves toward
// the hero; ghosts already inside the reach radius are removed and each one
// costs ReachDamage health. It returns the new state and the number of
// ghosts that reached the hero.
func Step(s models.GameState, t Tuning, wave int) (models.GameState, int) {
	speed := t.Speed(wave)
	next := make([]models.Entity, 0, len(s.Entities))
	reached := 0

	for _, e := range s.Entities {
		g, ok := e.(models.Ghost)
		if !ok {
			next = append(next, e)
			continue
		}

		dist := g.Pos.Len()
		// Also covers dist == 0, so the normalisation below never divides by zero.
		if dist < t.ReachRadius {
			reached++
			continue
		}

		move := min(speed, dist)
		g.Pos = models.Vec{
			X: g.Pos.X - g.Pos.X/dist*move,
			Y: g.Pos.Y - g.Pos.Y/dist*move,
		}
		next = append(next, g)
	}

	s.Entities = next
	s.Health = clamp(s.Health-reached*t.ReachDamage, 0, t.MaxHealth)
	return s, reached
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
