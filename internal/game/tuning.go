package game

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Tuning holds every gameplay number. Zero values are not meaningful; start
// from DefaultTuning and override.
type Tuning struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	WaveInterval time.Duration `yaml:"wave_interval"`

	BaseSpeed    float64 `yaml:"base_speed"`     // world units per tick at wave 0
	SpeedPerWave float64 `yaml:"speed_per_wave"` // added per wave
	ReachRadius  float64 `yaml:"reach_radius"`
	ReachDamage  int     `yaml:"reach_damage"`

	SpawnBase      time.Duration `yaml:"spawn_base"`
	SpawnDecrement time.Duration `yaml:"spawn_decrement"`
	SpawnFloor     time.Duration `yaml:"spawn_floor"`
	SpawnRadiusMin float64       `yaml:"spawn_radius_min"`
	SpawnRadiusMax float64       `yaml:"spawn_radius_max"`

	ExorciseScore  int     `yaml:"exorcise_score"`
	ExorciseEnergy int     `yaml:"exorcise_energy"`
	HitRadius      float64 `yaml:"hit_radius"` // screen pixels

	RitualCost     int           `yaml:"ritual_cost"`
	RitualScore    int           `yaml:"ritual_score"`
	RitualRadius   float64       `yaml:"ritual_radius"` // ghosts beyond this are banished
	RitualDuration time.Duration `yaml:"ritual_duration"`

	MaxHealth   int `yaml:"max_health"`
	MaxEnergy   int `yaml:"max_energy"`
	StartHealth int `yaml:"start_health"`
	StartEnergy int `yaml:"start_energy"`
}

// DefaultTuning returns the stock game balance.
func DefaultTuning() Tuning {
	return Tuning{
		TickInterval: 50 * time.Millisecond,
		WaveInterval: 30 * time.Second,

		BaseSpeed:    0.02,
		SpeedPerWave: 0.005,
		ReachRadius:  0.5,
		ReachDamage:  5,

		SpawnBase:      3000 * time.Millisecond,
		SpawnDecrement: 200 * time.Millisecond,
		SpawnFloor:     1000 * time.Millisecond,
		SpawnRadiusMin: 4,
		SpawnRadiusMax: 6,

		ExorciseScore:  10,
		ExorciseEnergy: 5,
		HitRadius:      40,

		RitualCost:     50,
		RitualScore:    50,
		RitualRadius:   3,
		RitualDuration: 2 * time.Second,

		MaxHealth:   100,
		MaxEnergy:   100,
		StartHealth: 100,
		StartEnergy: 30,
	}
}

// LoadTuning reads YAML overrides on top of DefaultTuning. Keys missing from
// the file keep their default.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("failed to parse tuning %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}

// Validate rejects settings the rules cannot run with.
func (t Tuning) Validate() error {
	switch {
	case t.TickInterval <= 0:
		return fmt.Errorf("tick_interval must be positive")
	case t.WaveInterval <= 0:
		return fmt.Errorf("wave_interval must be positive")
	case t.SpawnFloor <= 0:
		return fmt.Errorf("spawn_floor must be positive")
	case t.SpawnBase < t.SpawnFloor:
		return fmt.Errorf("spawn_base %s is below spawn_floor %s", t.SpawnBase, t.SpawnFloor)
	case t.SpawnDecrement < 0:
		return fmt.Errorf("spawn_decrement must not be negative")
	case t.SpawnRadiusMin < 0 || t.SpawnRadiusMax < t.SpawnRadiusMin:
		return fmt.Errorf("spawn radius band [%g, %g) is invalid", t.SpawnRadiusMin, t.SpawnRadiusMax)
	case t.BaseSpeed < 0 || t.SpeedPerWave < 0:
		return fmt.Errorf("base_speed and speed_per_wave must not be negative")
	case t.ReachRadius <= 0:
		return fmt.Errorf("reach_radius must be positive")
	case t.HitRadius <= 0:
		return fmt.Errorf("hit_radius must be positive")
	case t.RitualCost <= 0:
		return fmt.Errorf("ritual_cost must be positive")
	case t.MaxHealth <= 0 || t.MaxEnergy <= 0:
		return fmt.Errorf("max_health and max_energy must be positive")
	case t.StartHealth <= 0 || t.StartHealth > t.MaxHealth:
		return fmt.Errorf("start_health must be in (0, %d]", t.MaxHealth)
	case t.StartEnergy < 0 || t.StartEnergy > t.MaxEnergy:
		return fmt.Errorf("start_energy must be in [0, %d]", t.MaxEnergy)
	case t.RitualDuration <= 0:
		return fmt.Errorf("ritual_duration must be positive")
	}
	return nil
}

// Speed is how far a ghost moves per tick during the given wave.
func (t Tuning) Speed(wave int) float64 {
	return t.BaseSpeed + float64(wave)*t.SpeedPerWave
}

// SpawnInterval is the delay between spawns during the given wave. It never
// increases with the wave and never drops below SpawnFloor.
func (t Tuning) SpawnInterval(wave int) time.Duration {
	return max(t.SpawnFloor, t.SpawnBase-time.Duration(wave)*t.SpawnDecrement)
}
