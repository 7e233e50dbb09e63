// Package coords converts positions between the four coordinate systems of
// the rendering pipeline: latitude/longitude, geocentric n-vectors,
// stereographic plane (metres) and canvas pixels, plus the fixed canvas to
// clip-space mapping.
package coords

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"

	"geomesh/internal/units"
)

// LatLong is a geodetic position on the spherical earth model.
type LatLong struct {
	Lat  units.Angle
	Long units.Angle
}

// LatLongDegrees returns the position at lat, lon degrees.
func LatLongDegrees(lat, lon float64) LatLong {
	return LatLong{Lat: units.Degrees(lat), Long: units.Degrees(lon)}
}

// S2 returns the position as an s2.LatLng.
func (ll LatLong) S2() s2.LatLng {
	return s2.LatLng{Lat: ll.Lat.S1(), Lng: ll.Long.S1()}
}

func (ll LatLong) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", ll.Lat.Degrees(), ll.Long.Degrees())
}

// LatLongToGeocentric returns the unit n-vector of ll. Z points to the north
// pole, X to (0, 0).
func LatLongToGeocentric(ll LatLong) r3.Vector {
	lat, lon := ll.Lat.Radians(), ll.Long.Radians()
	cl := math.Cos(lat)
	return r3.Vector{X: cl * math.Cos(lon), Y: cl * math.Sin(lon), Z: math.Sin(lat)}
}

// GeocentricToLatLong returns the position of the n-vector v. Longitude is 0
// at the poles.
func GeocentricToLatLong(v r3.Vector) LatLong {
	lat := math.Atan2(v.Z, math.Hypot(v.X, v.Y))
	lon := math.Atan2(v.Y, v.X)
	return LatLong{Lat: units.Radians(lat), Long: units.Radians(lon)}
}
