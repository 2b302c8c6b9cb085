// Package session runs one game from the title screen to defeat. It owns
// the current snapshot and turns elapsed wall-clock time into simulation
// ticks, spawns, wave changes and the ritual timeout. All methods must be
// called from the goroutine that owns the session.
package session

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tatianab/ghost-hunter/internal/engine"
	"github.com/tatianab/ghost-hunter/internal/game"
	"github.com/tatianab/ghost-hunter/internal/iso"
	"github.com/tatianab/ghost-hunter/internal/logger"
	"github.com/tatianab/ghost-hunter/internal/models"
)

// SplashPrompt is sent to the image model once per launch.
const SplashPrompt = "Top-down isometric view of a spooky graveyard level in a 'Kill Ghost' game. " +
	"A small hero character is surrounded by a circle of glowing salt, " +
	"firing a silver crossbow at rising green translucent spirits."

// Oracle supplies the generated flavor for a session.
type Oracle interface {
	SpectralAnalysis(ctx context.Context, wave int) (models.SpectralAnalysis, error)
	SplashImage(ctx context.Context, prompt string) (*engine.Image, error)
}

type Phase int

const (
	PhaseSplash Phase = iota
	PhasePlaying
	PhaseDefeated
)

func (p Phase) String() string {
	switch p {
	case PhaseSplash:
		return "splash"
	case PhasePlaying:
		return "playing"
	case PhaseDefeated:
		return "defeated"
	}
	return "unknown"
}

type Option func(*Session)

// WithRand fixes the random source used for spawn positions.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithIDs replaces the ghost id source.
func WithIDs(next func() string) Option {
	return func(s *Session) { s.newID = next }
}

type Session struct {
	tuning game.Tuning
	rng    *rand.Rand
	newID  func() string
	log    *logrus.Entry

	phase   Phase
	state   models.GameState
	wave    int
	elapsed time.Duration

	simClock   time.Duration
	spawnClock time.Duration
	waveClock  time.Duration
	ritualLeft time.Duration

	analysis         models.SpectralAnalysis
	hasAnalysis      bool
	analysisQueued   bool
	analysisInFlight bool
}

func New(tuning game.Tuning, layout models.Layout, opts ...Option) *Session {
	s := &Session{
		tuning: tuning,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		newID:  game.NewGhostID,
		log:    logger.For("session"),
		phase:  PhaseSplash,
		state:  game.NewState(layout, tuning),
		wave:   1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Phase() Phase            { return s.phase }
func (s *Session) State() models.GameState { return s.state }
func (s *Session) Wave() int               { return s.wave }
func (s *Session) Elapsed() time.Duration  { return s.elapsed }
func (s *Session) Tuning() game.Tuning     { return s.tuning }
func (s *Session) AnalysisPending() bool   { return s.analysisInFlight }
func (s *Session) CanCastRitual() bool     { return s.phase == PhasePlaying && game.CanCastRitual(s.state, s.tuning) }

// Analysis returns the latest flavor text, if any has arrived.
func (s *Session) Analysis() (models.SpectralAnalysis, bool) {
	return s.analysis, s.hasAnalysis
}

// Start leaves the title screen. It queues the first analysis request.
func (s *Session) Start() bool {
	if s.phase != PhaseSplash {
		return false
	}
	s.phase = PhasePlaying
	s.queueAnalysis()
	s.log.WithField("wave", s.wave).Info("hunt started")
	return true
}

// Advance moves the game forward by dt. Timers fire in chronological order;
// events due at the same instant fire as tick, spawn, wave, ritual end.
func (s *Session) Advance(dt time.Duration) {
	for dt > 0 && s.phase == PhasePlaying {
		step := min(dt,
			s.tuning.TickInterval-s.simClock,
			s.tuning.SpawnInterval(s.wave)-s.spawnClock,
			s.tuning.WaveInterval-s.waveClock,
		)
		if s.state.ExorcismActive {
			step = min(step, s.ritualLeft)
		}

		dt -= step
		s.elapsed += step
		s.simClock += step
		s.spawnClock += step
		s.waveClock += step
		if s.state.ExorcismActive {
			s.ritualLeft -= step
		}

		if s.simClock >= s.tuning.TickInterval {
			s.simClock -= s.tuning.TickInterval
			s.tick()
			if s.phase != PhasePlaying {
				return
			}
		}
		if s.spawnClock >= s.tuning.SpawnInterval(s.wave) {
			s.spawnClock = 0
			s.spawn()
		}
		if s.waveClock >= s.tuning.WaveInterval {
			s.waveClock = 0
			s.nextWave()
		}
		if s.state.ExorcismActive && s.ritualLeft <= 0 {
			s.state = game.EndRitual(s.state)
			s.ritualLeft = 0
			s.log.Debug("ritual faded")
		}
	}
}

func (s *Session) tick() {
	var reached int
	s.state, reached = game.Step(s.state, s.tuning, s.wave)
	if reached == 0 {
		return
	}
	s.log.WithFields(logrus.Fields{"reached": reached, "health": s.state.Health}).Debug("ghosts breached the circle")
	if s.state.Defeated() {
		s.phase = PhaseDefeated
		s.log.WithFields(logrus.Fields{"score": s.state.Score, "wave": s.wave, "elapsed": s.elapsed}).Info("hunter possessed")
	}
}

func (s *Session) spawn() {
	g := models.Ghost{ID: s.newID(), Pos: game.SpawnPoint(s.rng, s.tuning)}
	s.state = game.Spawn(s.state, g)
	s.log.WithFields(logrus.Fields{"id": g.ID, "x": g.Pos.X, "y": g.Pos.Y}).Trace("ghost spawned")
}

func (s *Session) nextWave() {
	s.wave++
	s.spawnClock = 0
	s.log.WithFields(logrus.Fields{"wave": s.wave, "spawn_interval": s.tuning.SpawnInterval(s.wave)}).Info("wave advanced")
	s.queueAnalysis()
}

func (s *Session) queueAnalysis() {
	if s.analysisInFlight {
		s.log.WithField("wave", s.wave).Debug("analysis already in flight, skipping")
		return
	}
	s.analysisQueued = true
}

// NextAnalysis hands out the pending analysis request, if any, and marks it
// in flight. No further request is handed out until ResolveAnalysis.
func (s *Session) NextAnalysis() (int, bool) {
	if !s.analysisQueued || s.analysisInFlight {
		return 0, false
	}
	s.analysisQueued = false
	s.analysisInFlight = true
	return s.wave, true
}

// ResolveAnalysis records the oracle's answer for wave. A failed call is
// replaced by the fallback for that wave.
func (s *Session) ResolveAnalysis(wave int, a models.SpectralAnalysis, err error) {
	s.analysisInFlight = false
	switch {
	case err != nil:
		s.log.WithError(err).WithField("wave", wave).Warn("spectral analysis failed, using fallback")
		a = game.FallbackAnalysis(wave)
	case !a.Complete():
		s.log.WithField("wave", wave).Warn("spectral analysis incomplete, using fallback")
		a = game.FallbackAnalysis(wave)
	}
	s.analysis = a
	s.hasAnalysis = true
}

// Click exorcises the ghost nearest to p, if one is within the hit radius.
func (s *Session) Click(p iso.Point, proj iso.Projection) (string, bool) {
	if s.phase != PhasePlaying {
		return "", false
	}
	id, ok := proj.PickGhost(s.state.Ghosts(), p, s.tuning.HitRadius)
	if !ok {
		return "", false
	}
	s.state, ok = game.Exorcise(s.state, s.tuning, id)
	if ok {
		s.log.WithFields(logrus.Fields{"id": id, "score": s.state.Score}).Debug("ghost exorcised")
	}
	return id, ok
}

// CastRitual starts a ritual if energy allows and none is active.
func (s *Session) CastRitual() bool {
	if s.phase != PhasePlaying {
		return false
	}
	before := len(s.state.Entities)
	next, ok := game.CastRitual(s.state, s.tuning)
	if !ok {
		return false
	}
	s.state = next
	s.ritualLeft = s.tuning.RitualDuration
	s.log.WithFields(logrus.Fields{"banished": before - len(next.Entities), "energy": next.SpiritEnergy}).Info("ritual cast")
	return true
}
