package render

import (
	"image/color"
	"math"
	"slices"
	"time"

	"github.com/tatianab/ghost-hunter/internal/iso"
	"github.com/tatianab/ghost-hunter/internal/models"
)

var (
	groundOuter = Hex("#000000")
	groundMid   = Hex("#0f0f1a")
	groundInner = Hex("#1a1a2e")

	saltIdle   = Hex("#ffffff")
	saltActive = Hex("#00ffff")

	heroBase     = Hex("#4a5568")
	heroBody     = Hex("#2d3748")
	heroHead     = Hex("#e2e8f0")
	heroCrossbow = Hex("#cbd5e0")

	ghostBody = RGBA(50, 255, 100, 0.4)
	ghostEye  = Hex("#ffffff")

	tombStone = Hex("#4a4a4a")
	tombText  = Hex("#333333")

	pumpkinSkin = Hex("#ff7a00")
	pumpkinStem = Hex("#2d5a27")
	pumpkinEyes = Hex("#ffff00")

	treeBark = Hex("#2d1a1a")
)

// Scene is everything a frame needs. Now drives cosmetic animation only.
type Scene struct {
	Entities       []models.Entity
	ExorcismActive bool
	Now            time.Time
}

// Bob is the vertical float offset of ghosts at wall-clock time t.
func Bob(t time.Time) float64 {
	return math.Sin(float64(t.UnixMilli())/500) * 10
}

// DrawOrder returns the entities sorted back to front by world x+y.
func DrawOrder(entities []models.Entity) []models.Entity {
	sorted := slices.Clone(entities)
	slices.SortStableFunc(sorted, func(a, b models.Entity) int {
		da, db := a.Position().Depth(), b.Position().Depth()
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})
	return sorted
}

// Draw paints one frame.
func Draw(c Canvas, proj iso.Projection, s Scene) {
	c.Clear(groundOuter)
	origin := pen{c: c, ox: proj.Origin.X, oy: proj.Origin.Y}

	drawGround(origin)
	drawSaltCircle(origin, s.ExorcismActive)

	bob := Bob(s.Now)
	for _, e := range DrawOrder(s.Entities) {
		o := proj.Offset(e.Position())
		p := origin.at(o.X, o.Y)
		switch e.Kind() {
		case models.KindHero:
			drawHero(p)
		case models.KindGhost:
			drawGhost(p.at(0, bob))
		case models.KindTombstone:
			drawTombstone(p)
		case models.KindPumpkin:
			drawPumpkin(p)
		case models.KindTree:
			drawTree(p)
		}
	}

	drawFog(c)
}

func drawGround(p pen) {
	for _, layer := range []struct {
		scale float64
		col   color.Color
	}{
		{1, Hex("#05050a")},
		{0.6, groundMid},
		{0.15, groundInner},
	} {
		w, h := 800*layer.scale, 500*layer.scale
		p.polygon([]iso.Point{{X: 0, Y: -h}, {X: w, Y: 0}, {X: 0, Y: h}, {X: -w, Y: 0}}, layer.col)
	}
}

func drawSaltCircle(p pen, active bool) {
	col := saltIdle
	if active {
		col = saltActive
	}
	glow := color.NRGBA{R: col.R, G: col.G, B: col.B, A: 0x40}
	p.strokeEllipse(0, 0, 100, 50, 12, 48, 0, glow)
	p.strokeEllipse(0, 0, 100, 50, 4, 48, 3, col)
}

func drawHero(p pen) {
	p.ellipse(0, 0, 20, 10, heroBase)
	p.rect(-10, -50, 20, 45, heroBody)
	p.circle(0, -60, 12, heroHead)
	p.line(10, -40, 30, -35, 3, heroCrossbow)
}

func drawGhost(p pen) {
	p.polygon([]iso.Point{{X: -15, Y: 0}, {X: 0, Y: -40}, {X: 15, Y: 0}}, ghostBody)
	p.circle(0, -40, 15, ghostBody)
	p.circle(-5, -45, 2, ghostEye)
	p.circle(5, -45, 2, ghostEye)
}

func drawTombstone(p pen) {
	p.rect(-15, -30, 30, 35, tombStone)
	p.rect(-5, -40, 10, 10, tombStone)
	p.circle(-5, -30, 10, tombStone)
	p.circle(5, -30, 10, tombStone)
	p.text(-8, -25, "RIP", tombText)
}

func drawPumpkin(p pen) {
	p.circle(0, -5, 12, pumpkinSkin)
	p.rect(-2, -18, 4, 6, pumpkinStem)
	p.polygon([]iso.Point{{X: -5, Y: -8}, {X: -2, Y: -10}, {X: -1, Y: -7}}, pumpkinEyes)
	p.polygon([]iso.Point{{X: 5, Y: -8}, {X: 2, Y: -10}, {X: 1, Y: -7}}, pumpkinEyes)
}

func drawTree(p pen) {
	p.line(0, 0, -5, -60, 8, treeBark)
	p.line(-2, -30, -20, -45, 4, treeBark)
	p.line(-3, -45, 15, -65, 4, treeBark)
}

// drawFog darkens the lower part of the screen with a green haze.
func drawFog(c Canvas) {
	const bands = 10
	w, h := c.Size()
	bandH := h / bands
	for i := 0; i < bands; i++ {
		f := (float64(i) + 0.5) / bands
		var a float64
		if f < 0.8 {
			a = 0.2 * f / 0.8
		} else {
			a = 0.2 + 0.2*(f-0.8)/0.2
		}
		c.FillRect(0, float64(i)*bandH, w, bandH, RGBA(10, 40, 10, a))
	}
}
