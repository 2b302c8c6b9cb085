// Package iso maps world coordinates onto an isometric screen and back to
// the entity under a pointer.
package iso

import (
	"math"

	"github.com/tatianab/ghost-hunter/internal/models"
)

const (
	TileWidth  = 120.0
	TileHeight = 60.0
)

// Point is a screen position in pixels.
type Point struct {
	X, Y float64
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Projection places the world origin at Origin on a screen of the given
// tile size.
type Projection struct {
	Origin     Point
	TileWidth  float64
	TileHeight float64
}

// ForScreen returns the standard projection for a w×h screen: the hero sits
// half way across and a third of the way down.
func ForScreen(w, h float64) Projection {
	return Projection{
		Origin:     Point{X: w / 2, Y: h / 3},
		TileWidth:  TileWidth,
		TileHeight: TileHeight,
	}
}

// Offset returns the screen displacement of v from the origin.
func (p Projection) Offset(v models.Vec) Point {
	return Point{
		X: (v.X - v.Y) * (p.TileWidth / 2),
		Y: (v.X + v.Y) * (p.TileHeight / 2),
	}
}

// ToScreen returns the absolute screen position of v.
func (p Projection) ToScreen(v models.Vec) Point {
	o := p.Offset(v)
	return Point{X: p.Origin.X + o.X, Y: p.Origin.Y + o.Y}
}

// ToWorld inverts ToScreen.
func (p Projection) ToWorld(s Point) models.Vec {
	u := (s.X - p.Origin.X) / (p.TileWidth / 2)  // x - y
	v := (s.Y - p.Origin.Y) / (p.TileHeight / 2) // x + y
	return models.Vec{X: (u + v) / 2, Y: (v - u) / 2}
}

// PickGhost returns the id of the ghost whose projected position is nearest
// to click, provided it lies strictly within radius pixels.
func (p Projection) PickGhost(ghosts []models.Ghost, click Point, radius float64) (string, bool) {
	best, bestDist := "", radius
	for _, g := range ghosts {
		d := p.ToScreen(g.Pos).Dist(click)
		if d < bestDist {
			best, bestDist = g.ID, d
		}
	}
	return best, best != ""
}
