package gui

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tatianab/ghost-hunter/internal/iso"
)

// whiteImage is the texture behind filled paths, created on first draw.
var whiteImage *ebiten.Image

// Canvas draws onto an ebiten image.
type Canvas struct {
	dst *ebiten.Image
}

func NewCanvas(dst *ebiten.Image) Canvas {
	return Canvas{dst: dst}
}

func (c Canvas) Size() (float64, float64) {
	b := c.dst.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (c Canvas) Clear(col color.Color) {
	c.dst.Fill(col)
}

func (c Canvas) FillRect(x, y, w, h float64, col color.Color) {
	vector.DrawFilledRect(c.dst, float32(x), float32(y), float32(w), float32(h), col, false)
}

func (c Canvas) FillCircle(cx, cy, r float64, col color.Color) {
	vector.DrawFilledCircle(c.dst, float32(cx), float32(cy), float32(r), col, true)
}

func (c Canvas) FillEllipse(cx, cy, rx, ry float64, col color.Color) {
	if rx <= 0 || ry <= 0 {
		return
	}
	c.fill(ellipseTriangles(cx, cy, rx, ry, col))
}

func (c Canvas) FillPolygon(pts []iso.Point, col color.Color) {
	if len(pts) < 3 {
		return
	}
	c.fill(polygonTriangles(pts, col))
}

func (c Canvas) fill(vs []ebiten.Vertex, is []uint16) {
	if whiteImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	c.dst.DrawTriangles(vs, is, whiteImage, &ebiten.DrawTrianglesOptions{FillRule: ebiten.NonZero, AntiAlias: true})
}

func polygonTriangles(pts []iso.Point, col color.Color) ([]ebiten.Vertex, []uint16) {
	var path vector.Path
	path.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		path.LineTo(float32(p.X), float32(p.Y))
	}
	path.Close()
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	paint(vs, col)
	return vs, is
}

// ellipseTriangles builds a circle of radius rx and squashes it vertically.
func ellipseTriangles(cx, cy, rx, ry float64, col color.Color) ([]ebiten.Vertex, []uint16) {
	var path vector.Path
	path.Arc(float32(cx), float32(cy), float32(rx), 0, 2*math.Pi, vector.Clockwise)
	path.Close()
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	squash := float32(ry / rx)
	for i := range vs {
		vs[i].DstY = float32(cy) + (vs[i].DstY-float32(cy))*squash
	}
	paint(vs, col)
	return vs, is
}

// paint points every vertex at the white texel and tints it col.
func paint(vs []ebiten.Vertex, col color.Color) {
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(n.R) / 0xff
		vs[i].ColorG = float32(n.G) / 0xff
		vs[i].ColorB = float32(n.B) / 0xff
		vs[i].ColorA = float32(n.A) / 0xff
	}
}

func (c Canvas) StrokeLine(x0, y0, x1, y1, width float64, col color.Color) {
	vector.StrokeLine(c.dst, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), col, true)
}

// Text uses the built-in debug font, which is always white.
func (c Canvas) Text(x, y float64, s string, _ color.Color) {
	ebitenutil.DebugPrintAt(c.dst, s, int(x), int(y))
}
