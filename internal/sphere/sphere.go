// Package sphere implements geodetic predicates and constructions over
// geocentric n-vectors on a spherical earth.
package sphere

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"geomesh/internal/units"
)

var northPole = r3.Vector{X: 0, Y: 0, Z: 1}

// Right reports whether p0 is right of (clockwise from) the great circle
// p1 -> p2. Collinear or coincident points count as right.
func Right(p0, p1, p2 r3.Vector) bool {
	return p0.Dot(p1.Cross(p2)) <= 0
}

// InsideSurface reports whether p is inside polygon using the sum of the
// angles subtended by consecutive vertices. The polygon may be open or
// closed (first == last) and in either winding. Polygons with fewer than 3
// vertices contain nothing, and a vertex is not inside its own polygon.
func InsideSurface(p r3.Vector, polygon []r3.Vector) bool {
	vs := open(polygon)
	if len(vs) < 3 {
		return false
	}
	var sum float64
	for i, a := range vs {
		if a == p {
			return false
		}
		b := vs[(i+1)%len(vs)]
		sum += signedAngle(p.Cross(a), p.Cross(b), p)
	}
	return math.Abs(sum) > math.Pi
}

// Distance returns the great circle distance between p1 and p2.
func Distance(p1, p2 r3.Vector, earthRadius units.Length) units.Length {
	return units.Metres(angleBetween(p1, p2) * earthRadius.Metres())
}

// Destination returns the position reached from p after travelling distance
// along the initial bearing. A zero distance returns p unchanged.
func Destination(p r3.Vector, bearing units.Angle, distance, earthRadius units.Length) r3.Vector {
	if distance.IsZero() {
		return p
	}
	east, north := localFrame(p)
	sb, cb := math.Sincos(bearing.Radians())
	dir := north.Mul(cb).Add(east.Mul(sb))
	sd, cd := math.Sincos(distance.Metres() / earthRadius.Metres())
	return p.Mul(cd).Add(dir.Mul(sd)).Normalize()
}

// InitialBearing returns the bearing from p1 towards p2 in [0, 360)
// degrees. There is no bearing between identical points.
func InitialBearing(p1, p2 r3.Vector) (units.Angle, bool) {
	if coincident(p1, p2) {
		return units.Zero, false
	}
	gc1 := p1.Cross(p2)
	gc2 := p1.Cross(northPole)
	if gc2.Norm2() == 0 {
		// p1 is a pole: measure against the prime meridian plane.
		gc2 = p1.Cross(r3.Vector{X: 1}).Mul(-1)
	}
	return units.Radians(signedAngle(gc1, gc2, p1)).Normalised(), true
}

// FinalBearing returns the bearing on arrival at p2 when travelling from p1
// along the great circle.
func FinalBearing(p1, p2 r3.Vector) (units.Angle, bool) {
	b, ok := InitialBearing(p2, p1)
	if !ok {
		return units.Zero, false
	}
	return b.Add(units.Degrees(180)).Normalised(), true
}

// Interpolate returns the position at fraction f along the great circle from
// p0 to p1. f must be in [0, 1]; 0 and 1 return p0 and p1 themselves.
func Interpolate(p0, p1 r3.Vector, f float64) r3.Vector {
	if f < 0 || f > 1 || math.IsNaN(f) {
		panic(fmt.Sprintf("sphere: interpolation fraction %v outside [0, 1]", f))
	}
	switch f {
	case 0:
		return p0
	case 1:
		return p1
	}
	d := angleBetween(p0, p1)
	if d == 0 {
		return p0
	}
	sd := math.Sin(d)
	a := math.Sin((1-f)*d) / sd
	b := math.Sin(f*d) / sd
	return p0.Mul(a).Add(p1.Mul(b)).Normalize()
}

// DiscretiseCircle returns n points on the small circle of the given surface
// radius around centre, starting due east of centre and turning towards
// north, evenly spaced over a full turn.
func DiscretiseCircle(centre r3.Vector, radius, earthRadius units.Length, n int) []r3.Vector {
	alpha := radius.Metres() / earthRadius.Metres()
	// Circle of chord radius sin(alpha) at depth cos(alpha) below the tangent
	// plane, rotated onto centre.
	r, z := math.Sin(alpha), math.Cos(alpha)
	east, north := localFrame(centre)
	up := centre.Mul(z)
	out := make([]r3.Vector, n)
	for i := range out {
		s, c := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		out[i] = up.Add(east.Mul(r * c)).Add(north.Mul(r * s)).Normalize()
	}
	return out
}

// Geometry is the spherical capability set used by the triangulator.
type Geometry struct{}

func (Geometry) Right(p0, p1, p2 r3.Vector) bool                  { return Right(p0, p1, p2) }
func (Geometry) InsideSurface(p r3.Vector, polygon []r3.Vector) bool { return InsideSurface(p, polygon) }

// localFrame returns the unit east and north vectors at p. At the poles
// east is taken along +Y.
func localFrame(p r3.Vector) (east, north r3.Vector) {
	east = northPole.Cross(p)
	if east.Norm2() < 1e-30 {
		east = r3.Vector{Y: 1}
	} else {
		east = east.Normalize()
	}
	return east, p.Cross(east).Normalize()
}

func angleBetween(p1, p2 r3.Vector) float64 {
	return math.Atan2(p1.Cross(p2).Norm(), p1.Dot(p2))
}

// signedAngle is the angle from v1 to v2, positive when counter-clockwise
// seen from the tip of n.
func signedAngle(v1, v2, n r3.Vector) float64 {
	return math.Atan2(v1.Cross(v2).Dot(n), v1.Dot(v2))
}

func coincident(p1, p2 r3.Vector) bool {
	return p1 == p2 || (p1.Cross(p2).Norm() < 1e-15 && p1.Dot(p2) > 0)
}

func open(polygon []r3.Vector) []r3.Vector {
	if n := len(polygon); n > 1 && polygon[0] == polygon[n-1] {
		return polygon[:n-1]
	}
	return polygon
}
