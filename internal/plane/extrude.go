package plane

import "github.com/golang/geo/r2"

// JoinOffset returns the offset from cur to the left edge of a line of the
// given half width passing prev -> cur -> next. Interior vertices use the
// miter direction; when the miter would be longer than miterLimit half
// widths the incoming edge normal is used instead. Bevel and square joins
// are not supported. An endpoint is marked by prev == cur or next == cur.
func JoinOffset(prev, cur, next r2.Point, halfWidth, miterLimit float64) r2.Point {
	switch {
	case prev == cur && next == cur:
		return r2.Point{}
	case prev == cur:
		return normal(cur, next).Mul(halfWidth)
	case next == cur:
		return normal(prev, cur).Mul(halfWidth)
	}
	in, out := normal(prev, cur), normal(cur, next)
	m := in.Add(out)
	if m.Norm() < 1e-9 {
		return in.Mul(halfWidth)
	}
	m = m.Normalize()
	cosHalf := m.Dot(in)
	if cosHalf <= 0 || 1/cosHalf > miterLimit {
		return in.Mul(halfWidth)
	}
	return m.Mul(halfWidth / cosHalf)
}

// Extrude widens points into a triangle strip: two vertices per point, left
// then right. A closed line repeats its first pair at the end.
func Extrude(points []r2.Point, width, miterLimit float64, closed bool) []r2.Point {
	pts := dedupe(points)
	if closed {
		pts = open(pts)
	}
	n := len(pts)
	if n < 2 {
		return nil
	}
	hw := width / 2
	strip := make([]r2.Point, 0, 2*n+2)
	for i, cur := range pts {
		prev, next := cur, cur
		switch {
		case closed:
			prev, next = pts[(i+n-1)%n], pts[(i+1)%n]
		default:
			if i > 0 {
				prev = pts[i-1]
			}
			if i < n-1 {
				next = pts[i+1]
			}
		}
		o := JoinOffset(prev, cur, next, hw, miterLimit)
		strip = append(strip, cur.Add(o), cur.Sub(o))
	}
	if closed {
		strip = append(strip, strip[0], strip[1])
	}
	return strip
}

// StripToTriangles converts a triangle strip into a triangle list, keeping
// a consistent winding.
func StripToTriangles[T any](strip []T) [][3]T {
	if len(strip) < 3 {
		return nil
	}
	out := make([][3]T, 0, len(strip)-2)
	for k := 0; k+2 < len(strip); k++ {
		if k%2 == 0 {
			out = append(out, [3]T{strip[k], strip[k+1], strip[k+2]})
		} else {
			out = append(out, [3]T{strip[k+1], strip[k], strip[k+2]})
		}
	}
	return out
}

// normal is the unit left normal of a -> b.
func normal(a, b r2.Point) r2.Point {
	return b.Sub(a).Normalize().Ortho()
}

func dedupe(points []r2.Point) []r2.Point {
	out := make([]r2.Point, 0, len(points))
	for i, p := range points {
		if i > 0 && p == points[i-1] {
			continue
		}
		out = append(out, p)
	}
	return out
}
