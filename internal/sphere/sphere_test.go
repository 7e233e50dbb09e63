package sphere

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"

	"geomesh/internal/coords"
	"geomesh/internal/units"
)

var earthRadius = units.Metres(6371e3)

func nv(lat, lon float64) r3.Vector {
	return coords.LatLongToGeocentric(coords.LatLongDegrees(lat, lon))
}

func TestRight(t *testing.T) {
	p1, p2 := nv(0, 0), nv(0, 10)
	tests := []struct {
		name string
		p0   r3.Vector
		want bool
	}{
		{"south of eastward arc", nv(-5, 5), true},
		{"north of eastward arc", nv(5, 5), false},
		{"on the arc", nv(0, 5), true},
		{"coincident with start", p1, true},
	}
	for _, tt := range tests {
		if got := Right(tt.p0, p1, p2); got != tt.want {
			t.Errorf("%s: Right = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestInsideSurfaceBoundaries(t *testing.T) {
	p := nv(0, 0)
	tests := []struct {
		name    string
		polygon []r3.Vector
	}{
		{"empty", nil},
		{"one vertex", []r3.Vector{nv(1, 1)}},
		{"two vertices", []r3.Vector{nv(1, 1), nv(-1, -1)}},
		{"two vertices closed", []r3.Vector{nv(1, 1), nv(-1, -1), nv(1, 1)}},
	}
	for _, tt := range tests {
		if InsideSurface(p, tt.polygon) {
			t.Errorf("%s: InsideSurface = true, want false", tt.name)
		}
	}
	square := []r3.Vector{nv(-1, -1), nv(1, -1), nv(1, 1), nv(-1, 1)}
	if InsideSurface(square[2], square) {
		t.Error("a vertex should not be inside its own polygon")
	}
}

func TestInsideSurface(t *testing.T) {
	square := []r3.Vector{nv(-1, -1), nv(1, -1), nv(1, 1), nv(-1, 1)}
	closed := append(append([]r3.Vector{}, square...), square[0])
	reversed := []r3.Vector{square[3], square[2], square[1], square[0]}
	for _, polygon := range [][]r3.Vector{square, closed, reversed} {
		if !InsideSurface(nv(0.2, 0.3), polygon) {
			t.Errorf("centre should be inside %v", polygon)
		}
		if InsideSurface(nv(3, 0), polygon) {
			t.Errorf("(3, 0) should be outside %v", polygon)
		}
	}
}

func TestInsideSurfaceMatchesS2(t *testing.T) {
	lls := [][2]float64{{55.4295, 13.82}, {55.605, 13.0038}, {55.7047, 13.191}, {56.0465, 12.6945}, {56.0294, 14.1567}}
	var polygon []r3.Vector
	var pts []s2.Point
	// s2 loops are counter-clockwise, the fixture is clockwise.
	for i := len(lls) - 1; i >= 0; i-- {
		v := nv(lls[i][0], lls[i][1])
		polygon = append(polygon, v)
		pts = append(pts, s2.Point{Vector: v})
	}
	loop := s2.LoopFromPoints(pts)
	for lat := 55.3; lat <= 56.2; lat += 0.07 {
		for lon := 12.5; lon <= 14.3; lon += 0.11 {
			p := nv(lat, lon)
			if got, want := InsideSurface(p, polygon), loop.ContainsPoint(s2.Point{Vector: p}); got != want {
				t.Errorf("InsideSurface(%v, %v) = %v, s2 says %v", lat, lon, got, want)
			}
		}
	}
}

func TestDestinationZeroDistance(t *testing.T) {
	p := nv(12.3, 45.6)
	if got := Destination(p, units.Degrees(72), units.Metres(0), earthRadius); got != p {
		t.Errorf("Destination with zero distance = %v, want %v", got, p)
	}
}

func TestDestination(t *testing.T) {
	quarter := units.Metres(math.Pi / 2 * earthRadius.Metres())
	tests := []struct {
		name    string
		bearing float64
		want    r3.Vector
	}{
		{"north", 0, nv(90, 0)},
		{"east", 90, nv(0, 90)},
		{"south", 180, nv(-90, 0)},
		{"west", 270, nv(0, -90)},
	}
	for _, tt := range tests {
		got := Destination(nv(0, 0), units.Degrees(tt.bearing), quarter, earthRadius)
		if got.Sub(tt.want).Norm() > 1e-6 {
			t.Errorf("%s: Destination = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDistance(t *testing.T) {
	got := Distance(nv(0, 0), nv(0, 90), earthRadius)
	want := math.Pi / 2 * earthRadius.Metres()
	if math.Abs(got.Metres()-want) > 1e-3 {
		t.Errorf("Distance = %v, want %v", got.Metres(), want)
	}
	if d := Distance(nv(10, 10), nv(10, 10), earthRadius); !d.IsZero() {
		t.Errorf("Distance to self = %v, want 0", d)
	}
}

func TestBearings(t *testing.T) {
	if _, ok := InitialBearing(nv(1, 2), nv(1, 2)); ok {
		t.Error("InitialBearing between identical points should have no value")
	}
	if _, ok := FinalBearing(nv(1, 2), nv(1, 2)); ok {
		t.Error("FinalBearing between identical points should have no value")
	}
	tests := []struct {
		name     string
		from, to r3.Vector
		initial  float64
		final    float64
	}{
		{"due east on the equator", nv(0, 0), nv(0, 10), 90, 90},
		{"due north", nv(0, 0), nv(10, 0), 0, 0},
		{"due west", nv(0, 10), nv(0, 0), 270, 270},
		{"south-west", nv(10, 10), nv(0, 0), 225.44, 224.56},
	}
	for _, tt := range tests {
		ib, ok := InitialBearing(tt.from, tt.to)
		if !ok || math.Abs(ib.Degrees()-tt.initial) > 0.01 {
			t.Errorf("%s: InitialBearing = %v (%v), want %v", tt.name, ib.Degrees(), ok, tt.initial)
		}
		fb, ok := FinalBearing(tt.from, tt.to)
		if !ok || math.Abs(fb.Degrees()-tt.final) > 0.01 {
			t.Errorf("%s: FinalBearing = %v (%v), want %v", tt.name, fb.Degrees(), ok, tt.final)
		}
	}
}

func TestInterpolate(t *testing.T) {
	p0, p1 := nv(0, 0), nv(0, 90)
	if got := Interpolate(p0, p1, 0); got != p0 {
		t.Errorf("Interpolate(0) = %v, want p0", got)
	}
	if got := Interpolate(p0, p1, 1); got != p1 {
		t.Errorf("Interpolate(1) = %v, want p1", got)
	}
	if got := Interpolate(p0, p1, 0.5); got.Sub(nv(0, 45)).Norm() > 1e-12 {
		t.Errorf("Interpolate(0.5) = %v, want %v", got, nv(0, 45))
	}
}

func TestInterpolatePanicsOutsideUnitInterval(t *testing.T) {
	for _, f := range []float64{-0.1, 1.5, math.NaN()} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Interpolate(%v) should panic", f)
				}
			}()
			Interpolate(nv(0, 0), nv(1, 1), f)
		}()
	}
}

func TestDiscretiseCircle(t *testing.T) {
	centre := nv(-33.9, 151.2)
	radius := units.Kilometres(10)
	pts := DiscretiseCircle(centre, radius, earthRadius, 16)
	if len(pts) != 16 {
		t.Fatalf("len = %d, want 16", len(pts))
	}
	for i, p := range pts {
		if d := Distance(centre, p, earthRadius); math.Abs(d.Metres()-10000) > 1e-3 {
			t.Errorf("point %d at %v from centre, want 10km", i, d)
		}
	}
	if b, _ := InitialBearing(centre, pts[0]); math.Abs(b.Degrees()-90) > 0.01 {
		t.Errorf("first point bearing = %v, want 90 (due east)", b.Degrees())
	}
	if b, _ := InitialBearing(centre, pts[4]); math.Abs(b.Degrees()) > 0.01 && math.Abs(b.Degrees()-360) > 0.01 {
		t.Errorf("quarter-turn point bearing = %v, want 0 (due north)", b.Degrees())
	}
}
