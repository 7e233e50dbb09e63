package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/golang/geo/r2"

	"geomesh/internal/render"
	"geomesh/internal/shape"
)

func TestTriangle(t *testing.T) {
	d := New(20, 20)
	d.Clear(color.White)
	red := shape.MustParseColor("#ff0000")
	d.Triangle(
		render.Vertex{Pos: r2.Point{X: 0, Y: 0}, Color: red},
		render.Vertex{Pos: r2.Point{X: 20, Y: 0}, Color: red},
		render.Vertex{Pos: r2.Point{X: 0, Y: 20}, Color: red},
		false,
	)
	if got := d.Image().RGBAAt(3, 3); got != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Errorf("inside pixel = %v", got)
	}
	if got := d.Image().RGBAAt(18, 18); got != (color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
		t.Errorf("outside pixel = %v", got)
	}
}

func TestClipsOffImage(t *testing.T) {
	d := New(10, 10)
	blue := shape.MustParseColor("#0000ff")
	d.Triangle(
		render.Vertex{Pos: r2.Point{X: -50, Y: -50}, Color: blue},
		render.Vertex{Pos: r2.Point{X: 100, Y: -50}, Color: blue},
		render.Vertex{Pos: r2.Point{X: -50, Y: 100}, Color: blue},
		false,
	)
	if got := d.Image().RGBAAt(5, 5); got != (color.RGBA{B: 0xff, A: 0xff}) {
		t.Errorf("pixel = %v", got)
	}
	d.Line(render.Vertex{Pos: r2.Point{X: -100, Y: -100}}, render.Vertex{Pos: r2.Point{X: -90, Y: -90}})
}

func TestLine(t *testing.T) {
	d := New(10, 10)
	green := shape.MustParseColor("#00ff00")
	d.Line(render.Vertex{Pos: r2.Point{X: 0, Y: 5}, Color: green}, render.Vertex{Pos: r2.Point{X: 10, Y: 5}, Color: green})
	if got := d.Image().RGBAAt(5, 4); got.G == 0 {
		t.Errorf("pixel on line = %v", got)
	}
	if got := d.Image().RGBAAt(5, 8); got.A != 0 {
		t.Errorf("pixel off line = %v", got)
	}
}

func TestTexturedTriangle(t *testing.T) {
	d := New(10, 10)
	tex := image.NewAlpha(image.Rect(0, 0, 1, 1))
	tex.SetAlpha(0, 0, color.Alpha{A: 0x80})
	if err := d.SetTexture(tex); err != nil {
		t.Fatal(err)
	}
	white := shape.MustParseColor("#ffffff")
	d.Triangle(
		render.Vertex{Pos: r2.Point{X: 0, Y: 0}, Color: white},
		render.Vertex{Pos: r2.Point{X: 10, Y: 0}, Color: white, UV: r2.Point{X: 1}},
		render.Vertex{Pos: r2.Point{X: 0, Y: 10}, Color: white, UV: r2.Point{Y: 1}},
		true,
	)
	got := d.Image().RGBAAt(2, 2)
	if got.A < 0x70 || got.A > 0x90 {
		t.Errorf("textured pixel = %v, want about half alpha", got)
	}
}

func TestResize(t *testing.T) {
	d := New(4, 4)
	d.Resize(8, 2)
	if w, h := d.Size(); w != 8 || h != 2 {
		t.Errorf("Size() = %d, %d", w, h)
	}
}
