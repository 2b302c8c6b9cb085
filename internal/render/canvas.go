// Package render draws the graveyard scene onto any surface that can fill
// shapes and stroke lines.
package render

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tatianab/ghost-hunter/internal/iso"
)

// Canvas is a drawing surface measured in pixels, origin top-left.
type Canvas interface {
	Size() (w, h float64)
	Clear(c color.Color)
	FillRect(x, y, w, h float64, c color.Color)
	FillCircle(cx, cy, r float64, c color.Color)
	// FillEllipse fills an axis-aligned ellipse.
	FillEllipse(cx, cy, rx, ry float64, c color.Color)
	// FillPolygon fills a simple closed polygon.
	FillPolygon(pts []iso.Point, c color.Color)
	StrokeLine(x0, y0, x1, y1, width float64, c color.Color)
	Text(x, y float64, s string, c color.Color)
}

// pen draws in coordinates local to an origin, the way a translated 2D
// context does.
type pen struct {
	c      Canvas
	ox, oy float64
}

func (p pen) at(dx, dy float64) pen {
	return pen{c: p.c, ox: p.ox + dx, oy: p.oy + dy}
}

func (p pen) rect(x, y, w, h float64, col color.Color) {
	p.c.FillRect(p.ox+x, p.oy+y, w, h, col)
}

func (p pen) circle(cx, cy, r float64, col color.Color) {
	p.c.FillCircle(p.ox+cx, p.oy+cy, r, col)
}

func (p pen) line(x0, y0, x1, y1, width float64, col color.Color) {
	p.c.StrokeLine(p.ox+x0, p.oy+y0, p.ox+x1, p.oy+y1, width, col)
}

func (p pen) text(x, y float64, s string, col color.Color) {
	p.c.Text(p.ox+x, p.oy+y, s, col)
}

func (p pen) ellipse(cx, cy, rx, ry float64, col color.Color) {
	if rx <= 0 || ry <= 0 {
		return
	}
	p.c.FillEllipse(p.ox+cx, p.oy+cy, rx, ry, col)
}

// strokeEllipse outlines an ellipse with segs segments. With dash > 0 every
// dash-th segment is skipped.
func (p pen) strokeEllipse(cx, cy, rx, ry, width float64, segs, dash int, col color.Color) {
	for i := 0; i < segs; i++ {
		if dash > 0 && i%dash == dash-1 {
			continue
		}
		a0 := 2 * math.Pi * float64(i) / float64(segs)
		a1 := 2 * math.Pi * float64(i+1) / float64(segs)
		p.line(cx+rx*math.Cos(a0), cy+ry*math.Sin(a0), cx+rx*math.Cos(a1), cy+ry*math.Sin(a1), width, col)
	}
}

func (p pen) polygon(pts []iso.Point, col color.Color) {
	if len(pts) < 3 {
		return
	}
	moved := make([]iso.Point, len(pts))
	for i, pt := range pts {
		moved[i] = iso.Point{X: p.ox + pt.X, Y: p.oy + pt.Y}
	}
	p.c.FillPolygon(moved, col)
}

// ellipsePoints approximates an axis-aligned ellipse with segs vertices.
func ellipsePoints(cx, cy, rx, ry float64, segs int) []iso.Point {
	pts := make([]iso.Point, segs)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(segs)
		pts[i] = iso.Point{X: cx + rx*math.Cos(a), Y: cy + ry*math.Sin(a)}
	}
	return pts
}

// Hex parses "#rrggbb" into an opaque colour. Malformed input is black.
func Hex(s string) color.RGBA {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// RGBA builds a colour from 8-bit channels and a 0..1 alpha. The result is
// not premultiplied, so it is an NRGBA.
func RGBA(r, g, b uint8, a float64) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(a * 255))}
}
