package triangulate

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"geomesh/internal/coords"
	"geomesh/internal/plane"
	"geomesh/internal/sphere"
)

func nv(lat, lon float64) r3.Vector {
	return coords.LatLongToGeocentric(coords.LatLongDegrees(lat, lon))
}

var (
	ystad        = nv(55.4295, 13.82)
	malmo        = nv(55.605, 13.0038)
	lund         = nv(55.7047, 13.191)
	helsingborg  = nv(56.0465, 12.6945)
	kristianstad = nv(56.0294, 14.1567)
)

func TestTriangulateConcaveSpherical(t *testing.T) {
	polygon := []r3.Vector{ystad, malmo, lund, helsingborg, kristianstad}
	got, err := Triangulate[r3.Vector](sphere.Geometry{}, polygon)
	if err != nil {
		t.Fatalf("Triangulate() error = %v", err)
	}
	want := [][3]r3.Vector{
		{kristianstad, ystad, malmo},
		{kristianstad, malmo, lund},
		{lund, helsingborg, kristianstad},
	}
	assertTriangles(t, got, want)
}

func TestTriangulateIgnoresInputWinding(t *testing.T) {
	ccw := []r3.Vector{kristianstad, helsingborg, lund, malmo, ystad}
	got, err := Triangulate[r3.Vector](sphere.Geometry{}, ccw)
	if err != nil {
		t.Fatalf("Triangulate() error = %v", err)
	}
	want := [][3]r3.Vector{
		{kristianstad, ystad, malmo},
		{kristianstad, malmo, lund},
		{lund, helsingborg, kristianstad},
	}
	assertTriangles(t, got, want)
}

func TestTriangulateConcavePlanar(t *testing.T) {
	p := func(lat, lon float64) r2.Point { return r2.Point{X: lon, Y: lat} }
	y, m, l, h, k := p(55.4295, 13.82), p(55.605, 13.0038), p(55.7047, 13.191), p(56.0465, 12.6945), p(56.0294, 14.1567)
	got, err := Triangulate[r2.Point](plane.Geometry{}, []r2.Point{y, m, l, h, k, y})
	if err != nil {
		t.Fatalf("Triangulate() error = %v", err)
	}
	want := [][3]r2.Point{{k, y, m}, {k, m, l}, {l, h, k}}
	assertTriangles(t, got, want)
}

func TestTriangulateTriangle(t *testing.T) {
	a, b, c := r2.Point{X: 0, Y: 0}, r2.Point{X: 0, Y: 1}, r2.Point{X: 1, Y: 0}
	got, err := Triangulate[r2.Point](plane.Geometry{}, []r2.Point{a, b, c, a})
	if err != nil {
		t.Fatalf("Triangulate() error = %v", err)
	}
	assertTriangles(t, got, [][3]r2.Point{{a, b, c}})
}

func TestTriangulateQuadFansFromReflexVertex(t *testing.T) {
	quad := []r2.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 4}}
	got, err := Triangulate[r2.Point](plane.Geometry{}, quad)
	if err != nil {
		t.Fatalf("Triangulate() error = %v", err)
	}
	want := [][3]r2.Point{
		{{X: 1, Y: 1}, {X: 4, Y: 0}, {X: 0, Y: 0}},
		{{X: 1, Y: 1}, {X: 0, Y: 0}, {X: 0, Y: 4}},
	}
	assertTriangles(t, got, want)
}

func TestTriangulatePreservesArea(t *testing.T) {
	// A comb-like concave polygon, counter-clockwise.
	polygon := []r2.Point{
		{X: 0, Y: 0}, {X: 6, Y: 0}, {X: 6, Y: 4}, {X: 5, Y: 4}, {X: 5, Y: 1},
		{X: 4, Y: 1}, {X: 4, Y: 4}, {X: 2, Y: 4}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 4}, {X: 0, Y: 4},
	}
	got, err := Triangulate[r2.Point](plane.Geometry{}, polygon)
	if err != nil {
		t.Fatalf("Triangulate() error = %v", err)
	}
	if len(got) != len(polygon)-2 {
		t.Errorf("got %d triangles, want %d", len(got), len(polygon)-2)
	}
	var area float64
	for _, tri := range got {
		area += math.Abs(tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))) / 2
	}
	if want := 6.0*4 - 3 - 3; math.Abs(area-want) > 1e-9 {
		t.Errorf("total triangle area = %v, want %v", area, want)
	}
}

func TestTriangulateTooFewVertices(t *testing.T) {
	for _, polygon := range [][]r2.Point{
		nil,
		{{X: 1, Y: 1}},
		{{X: 1, Y: 1}, {X: 2, Y: 2}},
		{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 1, Y: 1}},
	} {
		_, err := Triangulate[r2.Point](plane.Geometry{}, polygon)
		if !errors.Is(err, ErrTooFewVertices) {
			t.Errorf("Triangulate(%v) error = %v, want ErrTooFewVertices", polygon, err)
		}
	}
}

func TestTriangulateDoesNotMutateInput(t *testing.T) {
	polygon := []r2.Point{{X: 0, Y: 0}, {X: 0, Y: 3}, {X: 1, Y: 1}, {X: 3, Y: 3}, {X: 3, Y: 0}}
	orig := append([]r2.Point{}, polygon...)
	if _, err := Triangulate[r2.Point](plane.Geometry{}, polygon); err != nil {
		t.Fatalf("Triangulate() error = %v", err)
	}
	for i := range orig {
		if polygon[i] != orig[i] {
			t.Fatalf("input modified at %d: %v, want %v", i, polygon[i], orig[i])
		}
	}
}

func assertTriangles[T comparable](t *testing.T, got, want [][3]T) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d triangles, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("triangle %d = %v, want %v", i, got[i], want[i])
		}
	}
}
