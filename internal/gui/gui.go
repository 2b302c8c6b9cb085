// Package gui runs the hunt in a desktop window.
package gui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"
	"github.com/tatianab/ghost-hunter/internal/iso"
	"github.com/tatianab/ghost-hunter/internal/logger"
	"github.com/tatianab/ghost-hunter/internal/models"
	"github.com/tatianab/ghost-hunter/internal/render"
	"github.com/tatianab/ghost-hunter/internal/session"
	"github.com/tatianab/ghost-hunter/internal/task"
)

const (
	ScreenWidth  = 1024
	ScreenHeight = 768

	buttonRadius = 40
	barWidth     = 220
	barHeight    = 18
)

var (
	hudPanel      = render.RGBA(0, 0, 0, 0.6)
	barEmpty      = render.Hex("#111827")
	barHealth     = render.Hex("#dc2626")
	barSpirit     = render.Hex("#06b6d4")
	buttonReady   = render.RGBA(6, 78, 59, 0.8)
	buttonIdle    = render.Hex("#1f2937")
	buttonRing    = render.Hex("#34d399")
	buttonOffRing = render.Hex("#4b5563")
	warningBand   = render.RGBA(127, 29, 29, 0.6)
	splashShade   = render.RGBA(0, 0, 0, 0.6)
)

// delivery is a result from a task goroutine, applied on the game loop.
type delivery struct {
	scope *task.Scope
	apply func(g *Game)
}

type Game struct {
	oracle  session.Oracle
	newGame func() *session.Session

	session  *session.Session
	scope    *task.Scope
	results  chan delivery
	splash   image.Image
	backdrop *ebiten.Image

	width, height int
	now           func() time.Time
	log           *logrus.Entry
}

// New returns a game on its title screen and starts fetching the splash
// image.
func New(oracle session.Oracle, newGame func() *session.Session) *Game {
	g := &Game{
		oracle:  oracle,
		newGame: newGame,
		session: newGame(),
		scope:   task.NewScope(context.Background()),
		results: make(chan delivery, 8),
		width:   ScreenWidth,
		height:  ScreenHeight,
		now:     time.Now,
		log:     logger.For("gui"),
	}
	g.fetchSplash()
	return g
}

// Close stops any outstanding oracle calls.
func (g *Game) Close() {
	g.scope.Close()
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.drain()

	clicked := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	x, y := ebiten.CursorPosition()
	pointer := iso.Point{X: float64(x), Y: float64(y)}

	switch g.session.Phase() {
	case session.PhaseSplash:
		if clicked || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			g.session.Start()
		}

	case session.PhasePlaying:
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			g.session.CastRitual()
		}
		if clicked {
			g.click(pointer)
		}
		g.session.Advance(time.Second / time.Duration(ebiten.TPS()))

	case session.PhaseDefeated:
		if clicked || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			g.restart()
		}
	}

	g.requestAnalysis()
	return nil
}

func (g *Game) click(p iso.Point) {
	if center, r := ritualButton(g.width, g.height); p.Dist(center) < r {
		g.session.CastRitual()
		return
	}
	g.session.Click(p, g.projection())
}

func (g *Game) restart() {
	g.scope.Close()
	g.scope = task.NewScope(context.Background())
	g.session = g.newGame()
	g.session.Start()
	g.log.Info("hunt restarted")
}

func (g *Game) projection() iso.Projection {
	return iso.ForScreen(float64(g.width), float64(g.height))
}

// drain applies every result that has arrived without blocking.
func (g *Game) drain() {
	for {
		select {
		case d := <-g.results:
			if d.scope == g.scope {
				d.apply(g)
			}
		default:
			return
		}
	}
}

func (g *Game) post(scope *task.Scope, apply func(g *Game)) {
	select {
	case g.results <- delivery{scope: scope, apply: apply}:
	case <-scope.Context().Done():
	}
}

func (g *Game) requestAnalysis() {
	wave, ok := g.session.NextAnalysis()
	if !ok {
		return
	}
	scope, oracle := g.scope, g.oracle
	task.Go(scope, func(ctx context.Context) (models.SpectralAnalysis, error) {
		return oracle.SpectralAnalysis(ctx, wave)
	}, func(a models.SpectralAnalysis, err error) {
		g.post(scope, func(g *Game) { g.session.ResolveAnalysis(wave, a, err) })
	})
}

func (g *Game) fetchSplash() {
	scope, oracle := g.scope, g.oracle
	task.Go(scope, func(ctx context.Context) (image.Image, error) {
		img, err := oracle.SplashImage(ctx, session.SplashPrompt)
		if err != nil {
			return nil, err
		}
		return render.DecodeImage(img.Data)
	}, func(img image.Image, err error) {
		g.post(scope, func(g *Game) {
			if err != nil {
				g.log.WithError(err).Warn("splash image unavailable, using gradient")
				return
			}
			g.splash = img
			g.backdrop = nil
		})
	})
}

func (g *Game) Draw(screen *ebiten.Image) {
	switch g.session.Phase() {
	case session.PhaseSplash:
		g.drawSplash(screen)
	case session.PhaseDefeated:
		g.drawDefeat(screen)
	default:
		st := g.session.State()
		render.Draw(NewCanvas(screen), g.projection(), render.Scene{
			Entities:       st.Entities,
			ExorcismActive: st.ExorcismActive,
			Now:            g.now(),
		})
		g.drawHUD(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func (g *Game) drawSplash(screen *ebiten.Image) {
	if g.backdrop == nil {
		src := g.splash
		if src == nil {
			src = render.Gradient(g.width, g.height)
		}
		g.backdrop = ebiten.NewImageFromImage(src)
	}
	op := &ebiten.DrawImageOptions{}
	b := g.backdrop.Bounds()
	op.GeoM.Scale(float64(g.width)/float64(b.Dx()), float64(g.height)/float64(b.Dy()))
	screen.DrawImage(g.backdrop, op)
	vector.DrawFilledRect(screen, 0, 0, float32(g.width), float32(g.height), splashShade, false)

	cx, cy := g.width/2, g.height/2
	printCentered(screen, "GHOST HUNTER", cx, cy-40)
	printCentered(screen, "Protect the salt circle. Exorcise the rising spirits of the ancient graveyard.", cx, cy)
	printCentered(screen, "[ ENTER THE GRAVEYARD ]", cx, cy+40)
}

func (g *Game) drawDefeat(screen *ebiten.Image) {
	screen.Fill(render.Hex("#000000"))
	cx, cy := g.width/2, g.height/2
	printCentered(screen, "YOU WERE POSSESSED", cx, cy-30)
	printCentered(screen, fmt.Sprintf("Souls reaped: %d", g.session.State().Score), cx, cy)
	printCentered(screen, "[ TRY AGAIN ]", cx, cy+30)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	st := g.session.State()
	tuning := g.session.Tuning()

	drawBar(screen, 16, 16, fill(st.Health, tuning.MaxHealth), barHealth)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("HP: %d", st.Health), 24, 17)
	drawBar(screen, 16, 16+barHeight+8, fill(st.SpiritEnergy, tuning.MaxEnergy), barSpirit)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("SPIRIT: %d", st.SpiritEnergy), 24, 17+barHeight+8)

	vector.DrawFilledRect(screen, float32(g.width-200), 0, 200, 44, hudPanel, false)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Graveyard Lv. %d", g.session.Wave()), g.width-188, 6)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Souls Reaped: %d", st.Score), g.width-188, 24)

	if a, ok := g.session.Analysis(); ok {
		warning := fmt.Sprintf("Warning: %s Spectral Activity Detected", a.RiskLevel)
		vector.DrawFilledRect(screen, float32(g.width/2-200), 76, 400, 20, warningBand, false)
		printCentered(screen, warning, g.width/2, 78)

		vector.DrawFilledRect(screen, 0, float32(g.height-80), float32(g.width/3), 80, hudPanel, false)
		ebitenutil.DebugPrintAt(screen, "Hunter's Log:", 12, g.height-72)
		ebitenutil.DebugPrintAt(screen, a.Lore, 12, g.height-52)
	}
	if g.session.AnalysisPending() {
		ebitenutil.DebugPrintAt(screen, "consulting the spirits...", 16, 72)
	}

	center, r := ritualButton(g.width, g.height)
	face, ring := buttonIdle, buttonOffRing
	if g.session.CanCastRitual() {
		face, ring = buttonReady, buttonRing
	}
	vector.DrawFilledCircle(screen, float32(center.X), float32(center.Y), float32(r), face, true)
	vector.StrokeCircle(screen, float32(center.X), float32(center.Y), float32(r), 4, ring, true)
	printCentered(screen, "CAST RITUAL", int(center.X), int(center.Y)-8)
	printCentered(screen, "TAP TARGETS TO EXORCISE", int(center.X), int(center.Y+r)+8)
}

// ritualButton is the centre and radius of the ritual button on a w×h
// screen.
func ritualButton(w, h int) (iso.Point, float64) {
	return iso.Point{X: float64(w) / 2, Y: float64(h) - 2*buttonRadius}, buttonRadius
}

// fill is the share of a bar covered by v out of total, clamped to [0, 1].
func fill(v, total int) float64 {
	if total <= 0 {
		return 0
	}
	return max(0, min(1, float64(v)/float64(total)))
}

func drawBar(screen *ebiten.Image, x, y float32, f float64, col color.Color) {
	vector.DrawFilledRect(screen, x, y, barWidth, barHeight, barEmpty, false)
	vector.DrawFilledRect(screen, x, y, float32(f)*barWidth, barHeight, col, false)
}

// printCentered prints s with the debug font centred on x. The font is 6px
// wide per glyph.
func printCentered(screen *ebiten.Image, s string, x, y int) {
	ebitenutil.DebugPrintAt(screen, s, x-3*len(s), y)
}
