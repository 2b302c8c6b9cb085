package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	splashTop    = Hex("#2e1a47")
	splashBottom = Hex("#000000")
)

// DecodeImage decodes PNG or JPEG bytes from the image model.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode splash image: %w", err)
	}
	return img, nil
}

// Gradient is the title backdrop used when no splash image is available.
func Gradient(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	top, _ := colorful.MakeColor(splashTop)
	bottom, _ := colorful.MakeColor(splashBottom)
	for y := 0; y < img.Bounds().Dy(); y++ {
		f := float64(y) / float64(max(img.Bounds().Dy()-1, 1))
		r, g, b := top.BlendLab(bottom, f).Clamped().RGB255()
		row := color.RGBA{R: r, G: g, B: b, A: 0xff}
		for x := 0; x < img.Bounds().Dx(); x++ {
			img.SetRGBA(x, y, row)
		}
	}
	return img
}

// Blit scales img into the w×h box at x, y by sampling one pixel per
// cellW×cellH block. It suits coarse canvases such as a terminal grid.
func Blit(c Canvas, img image.Image, x, y, w, h, cellW, cellH float64) {
	b := img.Bounds()
	if b.Empty() || w <= 0 || h <= 0 {
		return
	}
	for py := 0.0; py < h; py += cellH {
		sy := b.Min.Y + int((py+cellH/2)/h*float64(b.Dy()))
		for px := 0.0; px < w; px += cellW {
			sx := b.Min.X + int((px+cellW/2)/w*float64(b.Dx()))
			c.FillRect(x+px, y+py, cellW, cellH, img.At(min(sx, b.Max.X-1), min(sy, b.Max.Y-1)))
		}
	}
}
