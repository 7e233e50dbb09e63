// Package raster draws into an RGBA image with anti-aliased coverage from
// golang.org/x/image/vector.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/golang/geo/r2"
	"golang.org/x/image/vector"

	"geomesh/internal/render"
)

// Device is a gpu.Device backed by an *image.RGBA.
type Device struct {
	*render.Pipeline
	img *image.RGBA
	ras *vector.Rasterizer
}

// New returns a Device drawing into a new w x h image.
func New(w, h int) *Device {
	d := &Device{img: image.NewRGBA(image.Rect(0, 0, w, h)), ras: vector.NewRasterizer(0, 0)}
	d.Pipeline = render.NewPipeline(d)
	return d
}

func (d *Device) Size() (int, int) {
	s := d.img.Bounds().Size()
	return s.X, s.Y
}

// Image returns the image drawn into.
func (d *Device) Image() *image.RGBA { return d.img }

// Resize replaces the image with a cleared w x h one.
func (d *Device) Resize(w, h int) {
	d.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

// Clear fills the image with c.
func (d *Device) Clear(c color.Color) {
	draw.Draw(d.img, d.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Line draws a one pixel wide line.
func (d *Device) Line(a, b render.Vertex) {
	dir := b.Pos.Sub(a.Pos)
	if dir.Norm() == 0 {
		return
	}
	n := dir.Normalize().Ortho().Mul(0.5)
	d.fill([]r2.Point{a.Pos.Add(n), b.Pos.Add(n), b.Pos.Sub(n), a.Pos.Sub(n)}, image.NewUniform(a.Color.RGBA()))
}

// Triangle fills abc with the colour of a. Textured triangles scale that
// colour's alpha by the texture.
func (d *Device) Triangle(a, b, c render.Vertex, textured bool) {
	var src image.Image = image.NewUniform(a.Color.RGBA())
	if textured {
		src = &texturedSource{a: a, b: b, c: c, tex: d.Texture(), col: a.Color.RGBA()}
	}
	d.fill([]r2.Point{a.Pos, b.Pos, c.Pos}, src)
}

// fill rasterises the polygon over its bounding box clipped to the image.
// The rasteriser clamps path coverage outside its area onto the edges.
func (d *Device) fill(pts []r2.Point, src image.Image) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
	}
	box := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	box = box.Intersect(d.img.Bounds())
	if box.Empty() {
		return
	}
	d.ras.Reset(box.Dx(), box.Dy())
	d.ras.DrawOp = draw.Over
	for i, p := range pts {
		x, y := float32(p.X-float64(box.Min.X)), float32(p.Y-float64(box.Min.Y))
		if i == 0 {
			d.ras.MoveTo(x, y)
		} else {
			d.ras.LineTo(x, y)
		}
	}
	d.ras.ClosePath()
	d.ras.Draw(d.img, box, src, box.Min)
}

// texturedSource colours a glyph quad: the vertex colour with alpha scaled
// by the texture sampled at the interpolated coordinate.
type texturedSource struct {
	a, b, c render.Vertex
	tex     image.Image
	col     color.NRGBA
}

func (s *texturedSource) ColorModel() color.Model { return color.NRGBAModel }

func (s *texturedSource) Bounds() image.Rectangle {
	return image.Rect(-1e9, -1e9, 1e9, 1e9)
}

func (s *texturedSource) At(x, y int) color.Color {
	uv := render.TexCoord(r2.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}, s.a, s.b, s.c)
	c := s.col
	c.A = uint8(uint16(c.A) * uint16(render.SampleAlpha(s.tex, uv)) / 0xff)
	return c
}
