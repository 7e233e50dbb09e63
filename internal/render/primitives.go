package render

import (
	"image"
	"math"
	"sort"

	"github.com/golang/geo/r2"
)

// Line plots a Bresenham line between two pixels, both ends included.
func Line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// FillPolygon plots the pixels whose centres fall inside pts by the
// even-odd rule, clipped to a w x h grid.
func FillPolygon(pts []r2.Point, w, h int, plot func(x, y int)) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	y0 := max(0, int(math.Floor(minY)))
	y1 := min(h-1, int(math.Ceil(maxY)))
	xs := make([]float64, 0, 4)
	for y := y0; y <= y1; y++ {
		sy := float64(y) + 0.5
		xs = xs[:0]
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			if a.Y == b.Y {
				continue
			}
			if (sy >= a.Y && sy < b.Y) || (sy >= b.Y && sy < a.Y) {
				t := (sy - a.Y) / (b.Y - a.Y)
				xs = append(xs, a.X+t*(b.X-a.X))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			xa := max(0, int(math.Ceil(xs[i]-0.5)))
			xb := min(w-1, int(math.Floor(xs[i+1]-0.5)))
			for x := xa; x <= xb; x++ {
				plot(x, y)
			}
		}
	}
}

// Barycentric returns the weights of p relative to triangle abc. ok is
// false for a degenerate triangle.
func Barycentric(p, a, b, c r2.Point) (wa, wb, wc float64, ok bool) {
	d := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if d == 0 {
		return 0, 0, 0, false
	}
	wa = ((b.Y-c.Y)*(p.X-c.X) + (c.X-b.X)*(p.Y-c.Y)) / d
	wb = ((c.Y-a.Y)*(p.X-c.X) + (a.X-c.X)*(p.Y-c.Y)) / d
	return wa, wb, 1 - wa - wb, true
}

// TexCoord interpolates the texture coordinates of abc at p.
func TexCoord(p r2.Point, a, b, c Vertex) r2.Point {
	wa, wb, wc, ok := Barycentric(p, a.Pos, b.Pos, c.Pos)
	if !ok {
		return a.UV
	}
	return a.UV.Mul(wa).Add(b.UV.Mul(wb)).Add(c.UV.Mul(wc))
}

// SampleAlpha returns the nearest texel alpha of tex at normalised uv.
func SampleAlpha(tex image.Image, uv r2.Point) uint8 {
	if tex == nil {
		return 0xff
	}
	r := tex.Bounds()
	x := r.Min.X + int(math.Floor(uv.X*float64(r.Dx())))
	y := r.Min.Y + int(math.Floor(uv.Y*float64(r.Dy())))
	x = min(max(x, r.Min.X), r.Max.X-1)
	y = min(max(y, r.Min.Y), r.Max.Y-1)
	_, _, _, a := tex.At(x, y).RGBA()
	return uint8(a >> 8)
}

// Pixel truncates a position to the pixel containing it.
func Pixel(p r2.Point) (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// FillTriangle fills abc like FillPolygon and passes each pixel with the
// texture coordinate interpolated at its centre.
func FillTriangle(a, b, c Vertex, w, h int, plot func(x, y int, uv r2.Point)) {
	FillPolygon([]r2.Point{a.Pos, b.Pos, c.Pos}, w, h, func(x, y int) {
		plot(x, y, TexCoord(r2.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}, a, b, c))
	})
}
