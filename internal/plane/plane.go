// Package plane implements the planar counterparts of the spherical
// predicates, used for pixel-relative geometry, plus polyline extrusion.
package plane

import (
	"math"

	"github.com/golang/geo/r2"
)

// Right reports whether p0 is right of (clockwise from) the directed line
// p1 -> p2 in a Y-up system. Collinear or coincident points count as right.
func Right(p0, p1, p2 r2.Point) bool {
	return p2.Sub(p1).Cross(p0.Sub(p1)) <= 0
}

// InsideSurface reports whether p is inside polygon by ray casting. The
// polygon may be open or closed (first == last). Polygons with fewer than 3
// vertices contain nothing, and a vertex is not inside its own polygon.
func InsideSurface(p r2.Point, polygon []r2.Point) bool {
	vs := open(polygon)
	if len(vs) < 3 {
		return false
	}
	inside := false
	j := len(vs) - 1
	for i, a := range vs {
		if a == p {
			return false
		}
		b := vs[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// DiscretiseCircle returns n points of the circle of radius around centre,
// starting at angle 0 and evenly spaced over a full turn.
func DiscretiseCircle(centre r2.Point, radius float64, n int) []r2.Point {
	out := make([]r2.Point, n)
	for i := range out {
		s, c := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		out[i] = r2.Point{X: centre.X + radius*c, Y: centre.Y + radius*s}
	}
	return out
}

// Geometry is the planar capability set used by the triangulator.
type Geometry struct{}

func (Geometry) Right(p0, p1, p2 r2.Point) bool                  { return Right(p0, p1, p2) }
func (Geometry) InsideSurface(p r2.Point, polygon []r2.Point) bool { return InsideSurface(p, polygon) }

func open(polygon []r2.Point) []r2.Point {
	if n := len(polygon); n > 1 && polygon[0] == polygon[n-1] {
		return polygon[:n-1]
	}
	return polygon
}
