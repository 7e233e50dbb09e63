package mesh

import (
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"geomesh/internal/coords"
	"geomesh/internal/font"
	"geomesh/internal/plane"
	"geomesh/internal/shape"
	"geomesh/internal/sphere"
	"geomesh/internal/triangulate"
	"geomesh/internal/units"
)

// Config parameterises meshing.
type Config struct {
	EarthRadius units.Length
	// CircleResolution is the number of vertices per discretised circle.
	CircleResolution int
	// MiterLimit is the longest miter, in half widths, before a join falls
	// back to the segment normal.
	MiterLimit float64
}

// DefaultConfig returns the mean earth radius, 64-gon circles and a miter
// limit of 4.
func DefaultConfig() Config {
	return Config{
		EarthRadius:      units.Kilometres(6371.0088),
		CircleResolution: 64,
		MiterLimit:       4,
	}
}

// Mesher converts shapes to meshes. It holds no mutable state and is safe
// for concurrent use.
type Mesher struct {
	cfg   Config
	atlas *font.Atlas
}

// NewMesher returns a Mesher. Zero config fields take their defaults.
// atlas may be nil if no text is meshed.
func NewMesher(cfg Config, atlas *font.Atlas) *Mesher {
	def := DefaultConfig()
	if cfg.EarthRadius.Metres() <= 0 {
		cfg.EarthRadius = def.EarthRadius
	}
	if cfg.CircleResolution < 3 {
		cfg.CircleResolution = def.CircleResolution
	}
	if cfg.MiterLimit <= 0 {
		cfg.MiterLimit = def.MiterLimit
	}
	return &Mesher{cfg: cfg, atlas: atlas}
}

func (m *Mesher) Config() Config { return m.cfg }

// MeshGraphic meshes every shape of g in order.
func (m *Mesher) MeshGraphic(g shape.Graphic) (RenderableGraphic, error) {
	out := RenderableGraphic{Name: g.Name, ZIndex: g.ZIndex}
	for i, s := range g.Shapes {
		ms, err := m.MeshShape(s)
		if err != nil {
			return RenderableGraphic{}, errors.Wrapf(err, "graphic %q shape %d", g.Name, i)
		}
		out.Meshes = append(out.Meshes, ms...)
	}
	return out, nil
}

// MeshShape returns the meshes of s: the fill first, then the stroke.
func (m *Mesher) MeshShape(s shape.Shape) ([]Mesh, error) {
	switch s := s.(type) {
	case shape.GeoCircle:
		centre := coords.LatLongToGeocentric(s.Centre)
		ring := sphere.DiscretiseCircle(centre, s.Radius, m.cfg.EarthRadius, m.cfg.CircleResolution)
		return m.geoArea(ring, s.Paint)
	case shape.GeoPolygon:
		return m.geoArea(geocentric(s.Vertices), s.Paint)
	case shape.GeoPolyline:
		return m.collect(m.geoStroke(geocentric(s.Vertices), s.Stroke, false))
	case shape.GeoRelativeCircle:
		ring := plane.DiscretiseCircle(r2.Point{}, s.Radius, m.cfg.CircleResolution)
		return m.relativeArea(coords.LatLongToGeocentric(s.Centre), ring, s.Paint)
	case shape.GeoRelativePolygon:
		return m.relativeArea(coords.LatLongToGeocentric(s.Reference), s.Offsets, s.Paint)
	case shape.GeoRelativePolyline:
		return m.collect(m.relativeStroke(coords.LatLongToGeocentric(s.Reference), s.Offsets, s.Stroke, false))
	case shape.GeoRelativeText:
		return m.collect(m.text(s))
	case nil:
		return nil, errors.New("mesh: nil shape")
	}
	return nil, errors.Wrapf(shape.ErrUnknownType, "%T", s)
}

func (m *Mesher) geoArea(ring []r3.Vector, p shape.Paint) ([]Mesh, error) {
	var out []Mesh
	if p.Fill != nil {
		tris, err := triangulate.Triangulate[r3.Vector](sphere.Geometry{}, dedupe(ring, true))
		if err != nil {
			return nil, err
		}
		b := builder{color: uint32(p.Fill.Color)}
		for _, t := range tris {
			b.geo(t[0]).geo(t[1]).geo(t[2])
		}
		out = append(out, b.mesh(Triangles))
	}
	if p.Stroke != nil {
		ms, err := m.geoStroke(ring, *p.Stroke, true)
		if err != nil {
			return nil, err
		}
		out = append(out, ms...)
	}
	return nonEmpty(out), nil
}

// geoStroke emits a line list for hairlines, otherwise a triangle list whose
// vertices carry extrusion data so the width stays constant in pixels.
func (m *Mesher) geoStroke(points []r3.Vector, s shape.Stroke, closed bool) ([]Mesh, error) {
	pts := dedupe(points, closed)
	n := len(pts)
	if n < 2 || s.Width <= 0 {
		return nil, nil
	}
	b := builder{color: uint32(s.Color)}
	if s.Width == 1 {
		for _, seg := range segments(n, closed) {
			b.geo(pts[seg[0]]).geo(pts[seg[1]])
		}
		return []Mesh{b.mesh(Lines)}, nil
	}

	type side struct {
		index int
		sign  float32
	}
	strip := make([]side, 0, 2*n+2)
	for i := range pts {
		strip = append(strip, side{i, 1}, side{i, -1})
	}
	if closed {
		strip = append(strip, strip[0], strip[1])
	}
	b.ext = &Extrusion{}
	hw := float32(s.Width / 2)
	for _, t := range plane.StripToTriangles(strip) {
		for _, v := range t {
			prev, next := neighbours(pts, v.index, closed)
			b.geo(pts[v.index])
			b.ext.Previous = appendVec3(b.ext.Previous, prev)
			b.ext.Next = appendVec3(b.ext.Next, next)
			b.ext.HalfWidths = append(b.ext.HalfWidths, v.sign*hw)
		}
	}
	return []Mesh{b.mesh(Triangles)}, nil
}

func (m *Mesher) relativeArea(ref r3.Vector, ring []r2.Point, p shape.Paint) ([]Mesh, error) {
	var out []Mesh
	if p.Fill != nil {
		tris, err := triangulate.Triangulate[r2.Point](plane.Geometry{}, dedupe(ring, true))
		if err != nil {
			return nil, err
		}
		b := builder{color: uint32(p.Fill.Color), ref: &ref}
		for _, t := range tris {
			b.offset(t[0]).offset(t[1]).offset(t[2])
		}
		out = append(out, b.mesh(Triangles))
	}
	if p.Stroke != nil {
		ms, err := m.relativeStroke(ref, ring, *p.Stroke, true)
		if err != nil {
			return nil, err
		}
		out = append(out, ms...)
	}
	return nonEmpty(out), nil
}

// relativeStroke extrudes on the CPU: pixel offsets do not change with the
// view.
func (m *Mesher) relativeStroke(ref r3.Vector, offsets []r2.Point, s shape.Stroke, closed bool) ([]Mesh, error) {
	if s.Width <= 0 {
		return nil, nil
	}
	b := builder{color: uint32(s.Color), ref: &ref}
	if s.Width == 1 {
		pts := offsets
		if closed {
			pts = openRing(pts)
		}
		if len(pts) < 2 {
			return nil, nil
		}
		for _, seg := range segments(len(pts), closed) {
			b.offset(pts[seg[0]]).offset(pts[seg[1]])
		}
		return []Mesh{b.mesh(Lines)}, nil
	}
	strip := plane.Extrude(offsets, s.Width, m.cfg.MiterLimit, closed)
	for _, t := range plane.StripToTriangles(strip) {
		b.offset(t[0]).offset(t[1]).offset(t[2])
	}
	return []Mesh{b.mesh(Triangles)}, nil
}

// text emits two textured triangles per visible glyph. The first line starts
// at the offset; each newline moves down one line height.
func (m *Mesher) text(s shape.GeoRelativeText) ([]Mesh, error) {
	if m.atlas == nil {
		return nil, errors.Wrap(font.ErrGlyphNotFound, "no font atlas configured")
	}
	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}
	ref := coords.LatLongToGeocentric(s.Reference)
	b := builder{color: uint32(s.Color), ref: &ref}
	tex := m.atlas.TextureSize()
	pen := s.Offset
	for _, r := range s.Text {
		if r == '\n' {
			pen = r2.Point{X: s.Offset.X, Y: pen.Y + float64(m.atlas.LineHeight())*scale}
			continue
		}
		g, err := m.atlas.Lookup(r)
		if err != nil {
			return nil, err
		}
		if !unicode.IsSpace(r) {
			x0 := pen.X + float64(g.Bounds.Min.X)*scale
			y0 := pen.Y + float64(g.Bounds.Min.Y)*scale
			x1 := pen.X + float64(g.Bounds.Max.X)*scale
			y1 := pen.Y + float64(g.Bounds.Max.Y)*scale
			w, h := g.Bounds.Dx(), g.Bounds.Dy()
			u0 := float32(g.Origin.X) / float32(tex.X)
			v0 := float32(g.Origin.Y) / float32(tex.Y)
			u1 := float32(g.Origin.X+w) / float32(tex.X)
			v1 := float32(g.Origin.Y+h) / float32(tex.Y)
			corners := [4]struct {
				p    r2.Point
				u, v float32
			}{
				{r2.Point{X: x0, Y: y0}, u0, v0},
				{r2.Point{X: x1, Y: y0}, u1, v0},
				{r2.Point{X: x0, Y: y1}, u0, v1},
				{r2.Point{X: x1, Y: y1}, u1, v1},
			}
			for _, k := range [6]int{0, 1, 2, 2, 1, 3} {
				b.offset(corners[k].p)
				b.tex = append(b.tex, corners[k].u, corners[k].v)
			}
		}
		pen.X += float64(g.Advance) * scale
	}
	if b.n == 0 {
		return nil, nil
	}
	return []Mesh{b.mesh(Triangles)}, nil
}

func (m *Mesher) collect(ms []Mesh, err error) ([]Mesh, error) {
	if err != nil {
		return nil, err
	}
	return nonEmpty(ms), nil
}

// builder accumulates the arrays of one mesh.
type builder struct {
	color   uint32
	ref     *r3.Vector
	n       int
	geos    []float32
	offsets []float32
	tex     []float32
	ext     *Extrusion
}

func (b *builder) geo(v r3.Vector) *builder {
	b.geos = appendVec3(b.geos, v)
	b.n++
	return b
}

func (b *builder) offset(p r2.Point) *builder {
	b.offsets = append(b.offsets, float32(p.X), float32(p.Y))
	if b.ref != nil {
		b.geos = appendVec3(b.geos, *b.ref)
	}
	b.n++
	return b
}

func (b *builder) mesh(mode DrawMode) Mesh {
	colors := make([]uint32, b.n)
	for i := range colors {
		colors[i] = b.color
	}
	return Mesh{Geos: b.geos, Extrusion: b.ext, Offsets: b.offsets, Colors: colors, Mode: mode, TexCoords: b.tex}
}

func appendVec3(dst []float32, v r3.Vector) []float32 {
	return append(dst, float32(v.X), float32(v.Y), float32(v.Z))
}

func geocentric(lls []coords.LatLong) []r3.Vector {
	out := make([]r3.Vector, len(lls))
	for i, ll := range lls {
		out[i] = coords.LatLongToGeocentric(ll)
	}
	return out
}

// dedupe drops consecutive repeats and, for rings, a closing repeat.
func dedupe[T comparable](points []T, closed bool) []T {
	out := make([]T, 0, len(points))
	for i, p := range points {
		if i > 0 && p == points[i-1] {
			continue
		}
		out = append(out, p)
	}
	if n := len(out); closed && n > 1 && out[0] == out[n-1] {
		out = out[:n-1]
	}
	return out
}

func openRing(pts []r2.Point) []r2.Point {
	if n := len(pts); n > 1 && pts[0] == pts[n-1] {
		return pts[:n-1]
	}
	return pts
}

// neighbours returns the vertices before and after i. Open line endpoints
// use themselves, which marks them as caps.
func neighbours(pts []r3.Vector, i int, closed bool) (prev, next r3.Vector) {
	n := len(pts)
	if closed {
		return pts[(i+n-1)%n], pts[(i+1)%n]
	}
	prev, next = pts[i], pts[i]
	if i > 0 {
		prev = pts[i-1]
	}
	if i < n-1 {
		next = pts[i+1]
	}
	return prev, next
}

// segments lists the index pairs of a line list through n points.
func segments(n int, closed bool) [][2]int {
	out := make([][2]int, 0, n)
	for i := 0; i+1 < n; i++ {
		out = append(out, [2]int{i, i + 1})
	}
	if closed && n > 2 {
		out = append(out, [2]int{n - 1, 0})
	}
	return out
}

func nonEmpty(ms []Mesh) []Mesh {
	out := ms[:0]
	for _, m := range ms {
		if m.VertexCount() > 0 {
			out = append(out, m)
		}
	}
	return out
}
