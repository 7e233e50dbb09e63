package coords

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r2"

	"geomesh/internal/units"
)

// CanvasAffineTransform maps stereographic metres to canvas pixels. Row0 and
// Row1 are the first two rows of a row-major 3x3 matrix whose third row is
// always [0 0 1].
type CanvasAffineTransform struct {
	Row0 [3]float64
	Row1 [3]float64
}

// ComputeCanvasAffineTransform returns the transform that puts centre at the
// canvas midpoint and fits rng across the canvas width. A positive rotation
// turns the map clockwise on screen. It panics when the canvas size or range
// is not positive since the result would not be invertible.
func ComputeCanvasAffineTransform(centre LatLong, rotation units.Angle, rng units.Length,
	width, height int, sp StereographicProjection) CanvasAffineTransform {
	if width <= 0 || height <= 0 || rng.Metres() <= 0 {
		panic(fmt.Sprintf("coords: degenerate canvas transform (size %dx%d, range %v)", width, height, rng))
	}
	c := GeocentricToStereographic(LatLongToGeocentric(centre), sp)
	s := float64(width) / rng.Metres()
	midX, midY := float64(width)/2, float64(height)/2

	m := mgl64.Translate2D(-c.X, -c.Y)
	m = mgl64.Scale2D(s, -s).Mul3(m)
	m = mgl64.Translate2D(midX, midY).Mul3(m)
	if rotation != units.Zero {
		rot := mgl64.Translate2D(midX, midY).
			Mul3(mgl64.HomogRotate2D(rotation.Radians())).
			Mul3(mgl64.Translate2D(-midX, -midY))
		m = rot.Mul3(m)
	}
	return CanvasAffineTransform{
		Row0: [3]float64{m.At(0, 0), m.At(0, 1), m.At(0, 2)},
		Row1: [3]float64{m.At(1, 0), m.At(1, 1), m.At(1, 2)},
	}
}

// StereographicToCanvas maps p to canvas pixels.
func StereographicToCanvas(p r2.Point, at CanvasAffineTransform) r2.Point {
	return r2.Point{
		X: at.Row0[0]*p.X + at.Row0[1]*p.Y + at.Row0[2],
		Y: at.Row1[0]*p.X + at.Row1[1]*p.Y + at.Row1[2],
	}
}

// CanvasToStereographic inverts StereographicToCanvas with Cramer's rule.
// at must come from ComputeCanvasAffineTransform, whose linear part is never
// singular.
func CanvasToStereographic(p r2.Point, at CanvasAffineTransform) r2.Point {
	a, b, c := at.Row0[0], at.Row0[1], at.Row0[2]
	d, e, f := at.Row1[0], at.Row1[1], at.Row1[2]
	det := a*e - b*d
	x, y := p.X-c, p.Y-f
	return r2.Point{
		X: (x*e - b*y) / det,
		Y: (a*y - d*x) / det,
	}
}

// CanvasToClipspace returns the column-major matrix mapping canvas pixels to
// clip space: [2/w 0 -1; 0 -2/h 1; 0 0 1].
func CanvasToClipspace(width, height int) mgl32.Mat3 {
	w, h := float32(width), float32(height)
	return mgl32.Mat3{
		2 / w, 0, 0,
		0, -2 / h, 0,
		-1, 1, 1,
	}
}

// CanvasPointToClip applies CanvasToClipspace to a single point.
func CanvasPointToClip(p r2.Point, width, height int) r2.Point {
	return r2.Point{
		X: 2*p.X/float64(width) - 1,
		Y: 1 - 2*p.Y/float64(height),
	}
}

// LatLongToCanvas projects ll all the way to canvas pixels.
func LatLongToCanvas(ll LatLong, sp StereographicProjection, at CanvasAffineTransform) r2.Point {
	return StereographicToCanvas(GeocentricToStereographic(LatLongToGeocentric(ll), sp), at)
}

// CanvasToLatLong returns the position under canvas pixel p.
func CanvasToLatLong(p r2.Point, at CanvasAffineTransform, sp StereographicProjection) LatLong {
	return GeocentricToLatLong(StereographicToGeocentric(CanvasToStereographic(p, at), sp))
}
