// Package kinematics dead-reckons tracks on the sphere.
package kinematics

import (
	"math"
	"time"

	"github.com/golang/geo/r2"

	"geomesh/internal/coords"
	"geomesh/internal/sphere"
	"geomesh/internal/units"
)

// Track is a position moving along a great circle at constant speed.
type Track struct {
	Position coords.LatLong
	Bearing  units.Angle
	Speed    units.Speed
}

// Position returns where t will be after d.
func Position(t Track, d time.Duration, earthRadius units.Length) coords.LatLong {
	p := coords.LatLongToGeocentric(t.Position)
	return coords.GeocentricToLatLong(sphere.Destination(p, t.Bearing, t.Speed.Mul(d), earthRadius))
}

// CPA is the closest point of approach of two tracks.
type CPA struct {
	Time      time.Duration
	Distance  units.Length
	Position1 coords.LatLong
	Position2 coords.LatLong
}

// ClosestPointOfApproach returns when and where two tracks pass closest.
// The relative motion is solved in a stereographic plane centred on the
// first track. ok is false when the tracks are not closing: the closest
// approach is in the past or they keep their separation.
func ClosestPointOfApproach(t1, t2 Track, earthRadius units.Length) (CPA, bool) {
	sp := coords.ComputeStereographicProjection(t1.Position, earthRadius)
	rel := coords.GeocentricToStereographic(coords.LatLongToGeocentric(t2.Position), sp)
	dv := velocity(t2).Sub(velocity(t1))
	speed2 := dv.Dot(dv)
	if speed2 < 1e-12 {
		return CPA{}, false
	}
	tcpa := -rel.Dot(dv) / speed2
	if tcpa < 0 {
		return CPA{}, false
	}
	d := time.Duration(tcpa * float64(time.Second))
	p1, p2 := Position(t1, d, earthRadius), Position(t2, d, earthRadius)
	return CPA{
		Time:      d,
		Distance:  sphere.Distance(coords.LatLongToGeocentric(p1), coords.LatLongToGeocentric(p2), earthRadius),
		Position1: p1,
		Position2: p2,
	}, true
}

// velocity is east and north metres per second.
func velocity(t Track) r2.Point {
	s, c := math.Sincos(t.Bearing.Radians())
	v := t.Speed.MetresPerSecond()
	return r2.Point{X: v * s, Y: v * c}
}
