package models

import "math"

// Vec is a point or direction in world units. The hero stands at the origin.
type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Len returns the distance of v from the origin.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Depth is the painter's-algorithm key: entities with a smaller depth are
// further back and are drawn first.
func (v Vec) Depth() float64 {
	return v.X + v.Y
}

// Kind names an entity variant.
type Kind string

const (
	KindHero      Kind = "hero"
	KindGhost     Kind = "ghost"
	KindTree      Kind = "tree"
	KindTombstone Kind = "tombstone"
	KindPumpkin   Kind = "pumpkin"
)

// Entity is one of Hero, Ghost or Scenery. The set is closed.
type Entity interface {
	EntityID() string
	Position() Vec
	Kind() Kind
	isEntity()
}

// Hero is the player character. It never moves.
type Hero struct {
	ID string
}

func (h Hero) EntityID() string { return h.ID }
func (h Hero) Position() Vec    { return Vec{} }
func (h Hero) Kind() Kind       { return KindHero }
func (Hero) isEntity()          {}

// Ghost drifts toward the hero until it is exorcised or reaches the circle.
type Ghost struct {
	ID  string
	Pos Vec
}

func (g Ghost) EntityID() string { return g.ID }
func (g Ghost) Position() Vec    { return g.Pos }
func (g Ghost) Kind() Kind       { return KindGhost }
func (Ghost) isEntity()          {}

// Scenery is a static prop: a tree, a tombstone or a pumpkin.
type Scenery struct {
	ID   string
	Pos  Vec
	Prop Kind
}

func (s Scenery) EntityID() string { return s.ID }
func (s Scenery) Position() Vec    { return s.Pos }
func (s Scenery) Kind() Kind       { return s.Prop }
func (Scenery) isEntity()          {}

// IsProp reports whether k is a scenery kind.
func IsProp(k Kind) bool {
	switch k {
	case KindTree, KindTombstone, KindPumpkin:
		return true
	}
	return false
}

// GameState is an immutable snapshot of the world. Rules that change it
// return a new value and leave the receiver's entity slice untouched.
type GameState struct {
	Entities       []Entity
	Score          int
	SpiritEnergy   int
	Health         int
	ExorcismActive bool
}

// Ghosts returns the ghosts in entity order.
func (s GameState) Ghosts() []Ghost {
	var ghosts []Ghost
	for _, e := range s.Entities {
		if g, ok := e.(Ghost); ok {
			ghosts = append(ghosts, g)
		}
	}
	return ghosts
}

// Find returns the entity with the given id.
func (s GameState) Find(id string) (Entity, bool) {
	for _, e := range s.Entities {
		if e.EntityID() == id {
			return e, true
		}
	}
	return nil, false
}

// Defeated reports whether the hero has fallen.
func (s GameState) Defeated() bool {
	return s.Health <= 0
}

// SpectralAnalysis is the flavor text shown for a wave.
type SpectralAnalysis struct {
	RiskLevel string `yaml:"riskLevel"`
	Strategy  string `yaml:"strategy"`
	Lore      string `yaml:"lore"`
}

// Complete reports whether all three fields are present.
func (a SpectralAnalysis) Complete() bool {
	return a.RiskLevel != "" && a.Strategy != "" && a.Lore != ""
}
