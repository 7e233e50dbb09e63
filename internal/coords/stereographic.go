package coords

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"geomesh/internal/units"
)

// StereographicProjection projects the sphere onto the plane tangent at
// Centre, from the antipode of Centre. DirectRotation maps geocentric axes
// to the local (east, north, up) system; InverseRotation is its transpose.
type StereographicProjection struct {
	Centre           LatLong
	CentreGeocentric r3.Vector
	EarthRadius      units.Length
	DirectRotation   mgl64.Mat3
	InverseRotation  mgl64.Mat3
}

// ComputeStereographicProjection returns the projection centred at centre.
func ComputeStereographicProjection(centre LatLong, earthRadius units.Length) StereographicProjection {
	lat, lon := centre.Lat.Radians(), centre.Long.Radians()
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)
	east := mgl64.Vec3{-sinLon, cosLon, 0}
	north := mgl64.Vec3{-sinLat * cosLon, -sinLat * sinLon, cosLat}
	up := mgl64.Vec3{cosLat * cosLon, cosLat * sinLon, sinLat}
	direct := mgl64.Mat3FromRows(east, north, up)
	return StereographicProjection{
		Centre:           centre,
		CentreGeocentric: LatLongToGeocentric(centre),
		EarthRadius:      earthRadius,
		DirectRotation:   direct,
		InverseRotation:  direct.Transpose(),
	}
}

// GeocentricToStereographic projects the n-vector v, returning metres east
// and north of the projection centre.
func GeocentricToStereographic(v r3.Vector, sp StereographicProjection) r2.Point {
	r := sp.EarthRadius.Metres()
	t := v.Sub(sp.CentreGeocentric).Mul(r)
	local := sp.DirectRotation.Mul3x1(mgl64.Vec3{t.X, t.Y, t.Z})
	k := 2 * r / (2*r + local[2])
	return r2.Point{X: k * local[0], Y: k * local[1]}
}

// StereographicToGeocentric is the inverse of GeocentricToStereographic.
func StereographicToGeocentric(p r2.Point, sp StereographicProjection) r3.Vector {
	r := sp.EarthRadius.Metres()
	fourR2 := 4 * r * r
	t := fourR2 / (p.X*p.X + p.Y*p.Y + fourR2)
	local := mgl64.Vec3{t * p.X, t * p.Y, -2*r + 2*r*t}
	w := sp.InverseRotation.Mul3x1(local)
	g := r3.Vector{X: w[0], Y: w[1], Z: w[2]}.Mul(1 / r).Add(sp.CentreGeocentric)
	return g.Normalize()
}
