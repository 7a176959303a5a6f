package debug

import (
	"image"
	"image/color"
	"image/draw"
	gomath "math"

	"golang.org/x/image/vector"
)

// Canvas is an offscreen drawing surface. It accepts the same point and
// line commands as the window so frames can be rendered headless.
type Canvas struct {
	Image      *image.RGBA
	Background color.RGBA
	LineWidth  float64

	raster *vector.Rasterizer
}

// NewCanvas creates a black canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		Image:      image.NewRGBA(image.Rect(0, 0, width, height)),
		Background: color.RGBA{A: 255},
		LineWidth:  2,
		raster:     vector.NewRasterizer(width, height),
	}
	c.Clear()
	return c
}

// Clear fills the canvas with the background colour.
func (c *Canvas) Clear() {
	draw.Draw(c.Image, c.Image.Bounds(), image.NewUniform(c.Background), image.Point{}, draw.Src)
}

// DrawPoint fills a size x size square centred on (x, y).
func (c *Canvas) DrawPoint(x, y, size float64, col color.RGBA) {
	h := size / 2
	r := image.Rect(
		int(gomath.Floor(x-h)), int(gomath.Floor(y-h)),
		int(gomath.Ceil(x+h)), int(gomath.Ceil(y+h)),
	)
	if r.Empty() {
		r = image.Rect(int(x), int(y), int(x)+1, int(y)+1)
	}
	draw.Draw(c.Image, r.Intersect(c.Image.Bounds()), image.NewUniform(col), image.Point{}, draw.Over)
}

// DrawLine rasterizes an anti-aliased line LineWidth pixels wide.
func (c *Canvas) DrawLine(x0, y0, x1, y1 float64, col color.RGBA) {
	b := c.Image.Bounds()
	x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1, float64(b.Dx()), float64(b.Dy()))
	if !ok {
		return
	}

	dx, dy := x1-x0, y1-y0
	length := gomath.Hypot(dx, dy)
	if length == 0 {
		c.DrawPoint(x0, y0, c.LineWidth, col)
		return
	}
	nx, ny := -dy/length*c.LineWidth/2, dx/length*c.LineWidth/2

	c.raster.Reset(b.Dx(), b.Dy())
	c.raster.DrawOp = draw.Over
	c.raster.MoveTo(float32(x0+nx), float32(y0+ny))
	c.raster.LineTo(float32(x1+nx), float32(y1+ny))
	c.raster.LineTo(float32(x1-nx), float32(y1-ny))
	c.raster.LineTo(float32(x0-nx), float32(y0-ny))
	c.raster.ClosePath()
	c.raster.Draw(c.Image, b, image.NewUniform(col), image.Point{})
}

// clipSegment clips a segment to [0,w]x[0,h] (Liang-Barsky).
func clipSegment(x0, y0, x1, y1, w, h float64) (float64, float64, float64, float64, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0
	for _, e := range [4][2]float64{{-dx, x0}, {dx, w - x0}, {-dy, y0}, {dy, h - y0}} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = gomath.Max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = gomath.Min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}
