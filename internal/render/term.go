package render

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/tatianab/ghost-hunter/internal/iso"
	"golang.org/x/image/vector"
)

// Pixel size of one terminal cell. Cells are roughly twice as tall as wide.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// Cell is one character of terminal output.
type Cell struct {
	Rune rune
	FG   color.RGBA
	BG   color.RGBA
}

// TermCanvas rasterises drawing calls onto a grid of terminal cells.
// Rectangles and circles fill the cells whose centres they contain. Polygons
// and ellipses fill the cells they cover by at least half.
type TermCanvas struct {
	cols, rows int
	cells      []Cell
}

func NewTermCanvas(cols, rows int) *TermCanvas {
	cols, rows = max(cols, 1), max(rows, 1)
	return &TermCanvas{cols: cols, rows: rows, cells: make([]Cell, cols*rows)}
}

func (t *TermCanvas) Size() (float64, float64) {
	return float64(t.cols) * CellWidth, float64(t.rows) * CellHeight
}

// CellAt returns the cell at col, row. Out of range returns the zero cell.
func (t *TermCanvas) CellAt(col, row int) Cell {
	if col < 0 || col >= t.cols || row < 0 || row >= t.rows {
		return Cell{}
	}
	return t.cells[row*t.cols+col]
}

// CellCenter converts a cell position, such as a mouse event, to pixels.
func CellCenter(col, row int) iso.Point {
	return iso.Point{X: (float64(col) + 0.5) * CellWidth, Y: (float64(row) + 0.5) * CellHeight}
}

func (t *TermCanvas) Clear(c color.Color) {
	bg := opaque(c)
	for i := range t.cells {
		t.cells[i] = Cell{Rune: ' ', FG: bg, BG: bg}
	}
}

func (t *TermCanvas) FillRect(x, y, w, h float64, c color.Color) {
	c0, c1 := span(x, x+w, CellWidth, t.cols)
	r0, r1 := span(y, y+h, CellHeight, t.rows)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			t.fill(col, row, c)
		}
	}
}

func (t *TermCanvas) FillCircle(cx, cy, r float64, c color.Color) {
	c0, c1 := span(cx-r, cx+r, CellWidth, t.cols)
	r0, r1 := span(cy-r, cy+r, CellHeight, t.rows)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			if CellCenter(col, row).Dist(iso.Point{X: cx, Y: cy}) < r {
				t.fill(col, row, c)
			}
		}
	}
}

// ellipseSegments is the vertex count used to approximate an ellipse. More
// would not change which cells are covered at terminal resolution.
const ellipseSegments = 32

func (t *TermCanvas) FillEllipse(cx, cy, rx, ry float64, c color.Color) {
	t.FillPolygon(ellipsePoints(cx, cy, rx, ry, ellipseSegments), c)
}

// FillPolygon rasterises the polygon in cell units, so each cell gets its
// covered fraction in one pass.
func (t *TermCanvas) FillPolygon(pts []iso.Point, c color.Color) {
	if len(pts) < 3 {
		return
	}
	z := vector.NewRasterizer(t.cols, t.rows)
	z.MoveTo(float32(pts[0].X/CellWidth), float32(pts[0].Y/CellHeight))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X/CellWidth), float32(p.Y/CellHeight))
	}
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, t.cols, t.rows))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	for row := 0; row < t.rows; row++ {
		for col := 0; col < t.cols; col++ {
			if mask.AlphaAt(col, row).A >= 0x80 {
				t.fill(col, row, c)
			}
		}
	}
}

// StrokeLine draws thin lines with box-drawing glyphs and lines at least a
// cell wide as a fill.
func (t *TermCanvas) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	dx, dy := x1-x0, y1-y0
	glyph := lineGlyph(dx/CellWidth, dy/CellHeight)
	steps := int(math.Ceil(2*math.Max(math.Abs(dx)/CellWidth, math.Abs(dy)/CellHeight))) + 1
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		col := int(math.Floor((x0 + dx*f) / CellWidth))
		row := int(math.Floor((y0 + dy*f) / CellHeight))
		if col < 0 || col >= t.cols || row < 0 || row >= t.rows {
			continue
		}
		if width >= CellWidth {
			t.fill(col, row, c)
			continue
		}
		cell := &t.cells[row*t.cols+col]
		cell.Rune = glyph
		cell.FG = blend(cell.BG, c)
	}
}

func (t *TermCanvas) Text(x, y float64, s string, c color.Color) {
	row := int(math.Floor(y / CellHeight))
	col := int(math.Floor(x / CellWidth))
	if row < 0 || row >= t.rows {
		return
	}
	for _, r := range s {
		if col >= 0 && col < t.cols {
			cell := &t.cells[row*t.cols+col]
			cell.Rune = r
			cell.FG = blend(cell.BG, c)
		}
		col++
	}
}

// String renders the grid with ANSI colours, one line per row.
func (t *TermCanvas) String() string {
	var b strings.Builder
	for row := 0; row < t.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		line := t.cells[row*t.cols : (row+1)*t.cols]
		for start := 0; start < len(line); {
			end := start + 1
			for end < len(line) && line[end].FG == line[start].FG && line[end].BG == line[start].BG {
				end++
			}
			runes := make([]rune, 0, end-start)
			for _, cell := range line[start:end] {
				runes = append(runes, cell.Rune)
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hex(line[start].FG))).
				Background(lipgloss.Color(hex(line[start].BG)))
			b.WriteString(style.Render(string(runes)))
			start = end
		}
	}
	return b.String()
}

// Plain returns the grid's runes without colour.
func (t *TermCanvas) Plain() string {
	var b strings.Builder
	for row := 0; row < t.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for _, cell := range t.cells[row*t.cols : (row+1)*t.cols] {
			b.WriteRune(cell.Rune)
		}
	}
	return b.String()
}

func (t *TermCanvas) fill(col, row int, c color.Color) {
	cell := &t.cells[row*t.cols+col]
	cell.BG = blend(cell.BG, c)
	if cell.Rune == ' ' || cell.Rune == 0 {
		cell.FG = cell.BG
	}
}

// span returns the inclusive range of cells whose centres lie in [lo, hi),
// clipped to n cells. An empty range has first > last.
func span(lo, hi, size float64, n int) (int, int) {
	first := int(math.Ceil(lo/size - 0.5))
	last := int(math.Ceil(hi/size-0.5)) - 1
	return max(first, 0), min(last, n-1)
}

func lineGlyph(dx, dy float64) rune {
	switch {
	case math.Abs(dy) < 0.5*math.Abs(dx):
		return '─'
	case math.Abs(dx) < 0.5*math.Abs(dy):
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	}
	return '╱'
}

// blend composites c over dst.
func blend(dst color.RGBA, c color.Color) color.RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return color.RGBA{R: n.R, G: n.G, B: n.B, A: 0xff}
	}
	under := colorful.Color{R: float64(dst.R) / 255, G: float64(dst.G) / 255, B: float64(dst.B) / 255}
	over := colorful.Color{R: float64(n.R) / 255, G: float64(n.G) / 255, B: float64(n.B) / 255}
	r, g, b := under.BlendRgb(over, float64(n.A)/255).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func opaque(c color.Color) color.RGBA {
	return blend(color.RGBA{A: 0xff}, c)
}

func hex(c color.RGBA) string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}
