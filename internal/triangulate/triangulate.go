// Package triangulate decomposes simple polygons into triangles by ear
// clipping. It is generic over the vertex type: the orientation and
// containment predicates come from a Geometry, so the same code serves
// geocentric and planar vertices.
package triangulate

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrTooFewVertices is returned for polygons with fewer than 3 vertices.
	ErrTooFewVertices = errors.New("triangulate: polygon has fewer than 3 vertices")
	// ErrNoEar is returned when clipping stalls, which happens for
	// self-intersecting or degenerate input.
	ErrNoEar = errors.New("triangulate: no ear found")
)

// Geometry provides the predicates the triangulator needs.
type Geometry[T any] interface {
	// Right reports whether p0 is clockwise of the directed edge p1 -> p2.
	Right(p0, p1, p2 T) bool
	// InsideSurface reports whether p is strictly inside polygon.
	InsideSurface(p T, polygon []T) bool
}

// Triangulate returns the triangles of polygon. The polygon may be open or
// closed and in either winding; triangles are emitted clockwise as
// (previous, ear, next). Self-intersecting polygons are not supported.
func Triangulate[T comparable](g Geometry[T], polygon []T) ([][3]T, error) {
	vs := open(polygon)
	if len(vs) < 3 {
		return nil, errors.Wrapf(ErrTooFewVertices, "got %d", len(vs))
	}
	vs = clockwise(g, vs)
	switch len(vs) {
	case 3:
		return [][3]T{{vs[0], vs[1], vs[2]}}, nil
	case 4:
		return fan(g, vs), nil
	}
	return earClip(g, vs)
}

func earClip[T comparable](g Geometry[T], vs []T) ([][3]T, error) {
	tris := make([][3]T, 0, len(vs)-2)
	for len(vs) > 3 {
		ear := -1
		for i := range vs {
			if isEar(g, vs, i) {
				ear = i
				break
			}
		}
		if ear < 0 {
			return nil, errors.Wrapf(ErrNoEar, "%d vertices remaining", len(vs))
		}
		prev, next := neighbours(vs, ear)
		tris = append(tris, [3]T{prev, vs[ear], next})
		vs = append(vs[:ear], vs[ear+1:]...)
	}
	return append(tris, [3]T{vs[0], vs[1], vs[2]}), nil
}

// isEar reports whether vs[i] is convex and its triangle holds no reflex
// vertex of the remaining polygon.
func isEar[T comparable](g Geometry[T], vs []T, i int) bool {
	prev, next := neighbours(vs, i)
	if !convex(g, prev, vs[i], next) {
		return false
	}
	tri := []T{prev, vs[i], next}
	n := len(vs)
	for j := range vs {
		if j == i || j == (i+1)%n || j == (i+n-1)%n {
			continue
		}
		p, q := neighbours(vs, j)
		if !convex(g, p, vs[j], q) && g.InsideSurface(vs[j], tri) {
			return false
		}
	}
	return true
}

// fan splits a quadrilateral along the diagonal from its reflex vertex, or
// from the first vertex when it is convex.
func fan[T comparable](g Geometry[T], vs []T) [][3]T {
	a := 0
	for i := range vs {
		prev, next := neighbours(vs, i)
		if !convex(g, prev, vs[i], next) {
			a = i
			break
		}
	}
	at := func(k int) T { return vs[(a+k)%4] }
	return [][3]T{{at(0), at(1), at(2)}, {at(0), at(2), at(3)}}
}

// clockwise orients vs clockwise by majority vote over the turn direction at
// each vertex. This is a heuristic, not a signed area.
func clockwise[T comparable](g Geometry[T], vs []T) []T {
	right := 0
	for i := range vs {
		prev, next := neighbours(vs, i)
		if convex(g, prev, vs[i], next) {
			right++
		}
	}
	out := make([]T, len(vs))
	if len(vs)-right > right {
		for i, v := range vs {
			out[len(vs)-1-i] = v
		}
		return out
	}
	copy(out, vs)
	return out
}

// convex reports whether the path prev -> cur -> next turns right.
func convex[T comparable](g Geometry[T], prev, cur, next T) bool {
	return g.Right(next, prev, cur)
}

func neighbours[T any](vs []T, i int) (prev, next T) {
	n := len(vs)
	return vs[(i+n-1)%n], vs[(i+1)%n]
}

func open[T comparable](polygon []T) []T {
	if n := len(polygon); n > 1 && polygon[0] == polygon[n-1] {
		return polygon[:n-1]
	}
	return polygon
}

// SplitSelfIntersecting returns polygon as the only simple part. Splitting
// at self-intersections is not implemented, so such input still fails in
// Triangulate with ErrNoEar.
func SplitSelfIntersecting[T any](polygon []T) [][]T {
	return [][]T{polygon}
}
