// Package units provides angle, length and speed value types with named
// unit constructors and accessors. Each type has a fixed resolution;
// construction rounds to it and nothing else is lost.
package units

import (
	"math"

	"github.com/golang/geo/s1"
)

// Angle is an angle with a resolution of one nanodegree.
type Angle struct {
	nanodegrees int64
}

// Zero angle.
var Zero Angle

// Degrees returns an angle of d degrees.
func Degrees(d float64) Angle {
	return Angle{nanodegrees: int64(math.Round(d * 1e9))}
}

// Radians returns an angle of r radians.
func Radians(r float64) Angle {
	return Degrees(r * 180 / math.Pi)
}

// FromS1 converts an s1.Angle.
func FromS1(a s1.Angle) Angle {
	return Degrees(a.Degrees())
}

// Degrees returns the angle in degrees.
func (a Angle) Degrees() float64 {
	return float64(a.nanodegrees) / 1e9
}

// Radians returns the angle in radians.
func (a Angle) Radians() float64 {
	return a.Degrees() * math.Pi / 180
}

// S1 returns the angle as an s1.Angle.
func (a Angle) S1() s1.Angle {
	return s1.Angle(a.Radians())
}

// Add returns a + b.
func (a Angle) Add(b Angle) Angle {
	return Angle{nanodegrees: a.nanodegrees + b.nanodegrees}
}

// Sub returns a - b.
func (a Angle) Sub(b Angle) Angle {
	return Angle{nanodegrees: a.nanodegrees - b.nanodegrees}
}

// Negate returns -a.
func (a Angle) Negate() Angle {
	return Angle{nanodegrees: -a.nanodegrees}
}

// Normalised returns the angle wrapped to [0, 360) degrees.
func (a Angle) Normalised() Angle {
	const full = 360 * 1e9
	n := a.nanodegrees % full
	if n < 0 {
		n += full
	}
	return Angle{nanodegrees: n}
}

func (a Angle) String() string {
	return s1.Angle(a.Radians()).String()
}
