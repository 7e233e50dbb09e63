package units

import (
	"math"
	"strconv"
	"time"
)

const (
	metresPerNauticalMile = 1852
	metresPerFoot         = 0.3048
)

// Length is a distance with a resolution of one micrometre.
type Length struct {
	micrometres int64
}

// Metres returns a length of m metres.
func Metres(m float64) Length {
	return Length{micrometres: int64(math.Round(m * 1e6))}
}

// Kilometres returns a length of km kilometres.
func Kilometres(km float64) Length { return Metres(km * 1000) }

// NauticalMiles returns a length of nm nautical miles.
func NauticalMiles(nm float64) Length { return Metres(nm * metresPerNauticalMile) }

// Feet returns a length of ft feet.
func Feet(ft float64) Length { return Metres(ft * metresPerFoot) }

func (l Length) Metres() float64        { return float64(l.micrometres) / 1e6 }
func (l Length) Kilometres() float64    { return l.Metres() / 1000 }
func (l Length) NauticalMiles() float64 { return l.Metres() / metresPerNauticalMile }
func (l Length) Feet() float64          { return l.Metres() / metresPerFoot }

// Scale returns the length multiplied by f.
func (l Length) Scale(f float64) Length {
	return Length{micrometres: int64(math.Round(float64(l.micrometres) * f))}
}

// IsZero reports whether the length is exactly zero.
func (l Length) IsZero() bool { return l.micrometres == 0 }

func (l Length) String() string {
	return strconv.FormatFloat(l.Metres(), 'f', -1, 64) + "m"
}

// Speed has a resolution of one micrometre per second.
type Speed struct {
	micrometresPerSecond int64
}

// MetresPerSecond returns a speed of v m/s.
func MetresPerSecond(v float64) Speed {
	return Speed{micrometresPerSecond: int64(math.Round(v * 1e6))}
}

// KilometresPerHour returns a speed of v km/h.
func KilometresPerHour(v float64) Speed { return MetresPerSecond(v / 3.6) }

// Knots returns a speed of v knots.
func Knots(v float64) Speed { return MetresPerSecond(v * metresPerNauticalMile / 3600) }

func (s Speed) MetresPerSecond() float64   { return float64(s.micrometresPerSecond) / 1e6 }
func (s Speed) KilometresPerHour() float64 { return s.MetresPerSecond() * 3.6 }
func (s Speed) Knots() float64             { return s.MetresPerSecond() * 3600 / metresPerNauticalMile }

// Mul returns the distance covered at s during d.
func (s Speed) Mul(d time.Duration) Length {
	return Metres(s.MetresPerSecond() * d.Seconds())
}
