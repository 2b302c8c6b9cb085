package game

import "github.com/tatianab/ghost-hunter/internal/models"

// Exorcise removes the ghost with the given id and pays out score and
// energy. Ids that are missing or not ghosts leave the state unchanged.
func Exorcise(s models.GameState, t Tuning, id string) (models.GameState, bool) {
	e, ok := s.Find(id)
	if !ok || e.Kind() != models.KindGhost {
		return s, false
	}

	s.Entities = filter(s.Entities, func(e models.Entity) bool {
		return e.EntityID() != id
	})
	s.Score += t.ExorciseScore
	s.SpiritEnergy = clamp(s.SpiritEnergy+t.ExorciseEnergy, 0, t.MaxEnergy)
	return s, true
}

// CanCastRitual reports whether a ritual would succeed right now.
func CanCastRitual(s models.GameState, t Tuning) bool {
	return !s.ExorcismActive && s.SpiritEnergy >= t.RitualCost
}

// CastRitual spends energy to banish every ghost farther than RitualRadius
// from the hero; ghosts already at the circle are spared. It is refused
// while a ritual is active or when energy is short. The caller owns the
// timer that calls EndRitual.
func CastRitual(s models.GameState, t Tuning) (models.GameState, bool) {
	if !CanCastRitual(s, t) {
		return s, false
	}

	s.Entities = filter(s.Entities, func(e models.Entity) bool {
		g, ok := e.(models.Ghost)
		return !ok || g.Pos.Len() <= t.RitualRadius
	})
	s.ExorcismActive = true
	s.SpiritEnergy = clamp(s.SpiritEnergy-t.RitualCost, 0, t.MaxEnergy)
	s.Score += t.RitualScore
	return s, true
}

// EndRitual clears the exorcism flag.
func EndRitual(s models.GameState) models.GameState {
	s.ExorcismActive = false
	return s
}

// NewState builds the opening state from a layout.
func NewState(layout models.Layout, t Tuning) models.GameState {
	return models.GameState{
		Entities:     layout.Entities(),
		SpiritEnergy: t.StartEnergy,
		Health:       t.StartHealth,
	}
}

func filter(entities []models.Entity, keep func(models.Entity) bool) []models.Entity {
	out := make([]models.Entity, 0, len(entities))
	for _, e := range entities {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
