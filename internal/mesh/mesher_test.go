package mesh

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"geomesh/internal/coords"
	"geomesh/internal/font"
	"geomesh/internal/shape"
	"geomesh/internal/sphere"
	"geomesh/internal/triangulate"
	"geomesh/internal/units"
)

var (
	red  = shape.MustParseColor("#ff0000")
	blue = shape.MustParseColor("#0000ff")

	ystad        = coords.LatLongDegrees(55.4295, 13.82)
	malmo        = coords.LatLongDegrees(55.605, 13.0038)
	lund         = coords.LatLongDegrees(55.7047, 13.191)
	helsingborg  = coords.LatLongDegrees(56.0465, 12.6945)
	kristianstad = coords.LatLongDegrees(56.0294, 14.1567)
)

func testMesher() *Mesher {
	cfg := DefaultConfig()
	cfg.CircleResolution = 16
	return NewMesher(cfg, font.NewAtlas())
}

func TestMeshShape(t *testing.T) {
	sweden := []coords.LatLong{ystad, malmo, lund, helsingborg, kristianstad}
	square := []r2.Point{{X: -5, Y: -5}, {X: 5, Y: -5}, {X: 5, Y: 5}, {X: -5, Y: 5}}

	type want struct {
		mode     DrawMode
		vertices int
		color    shape.Color
		extruded bool
		offset   bool
		textured bool
	}
	tests := []struct {
		name  string
		shape shape.Shape
		want  []want
	}{
		{
			name:  "polygon fill",
			shape: shape.GeoPolygon{Vertices: sweden[:3], Paint: shape.Paint{Fill: &shape.Fill{Color: red}}},
			want:  []want{{mode: Triangles, vertices: 3, color: red}},
		},
		{
			name: "polygon fill and hairline",
			shape: shape.GeoPolygon{Vertices: sweden, Paint: shape.Paint{
				Fill: &shape.Fill{Color: red}, Stroke: &shape.Stroke{Color: blue, Width: 1}}},
			want: []want{{mode: Triangles, vertices: 9, color: red}, {mode: Lines, vertices: 10, color: blue}},
		},
		{
			name:  "closed polygon ring",
			shape: shape.GeoPolygon{Vertices: append(sweden[:3:3], ystad), Paint: shape.Paint{Stroke: &shape.Stroke{Color: blue, Width: 3}}},
			want:  []want{{mode: Triangles, vertices: 18, color: blue, extruded: true}},
		},
		{
			name:  "polyline hairline",
			shape: shape.GeoPolyline{Vertices: sweden[:3], Stroke: shape.Stroke{Color: blue, Width: 1}},
			want:  []want{{mode: Lines, vertices: 4, color: blue}},
		},
		{
			name:  "polyline wide",
			shape: shape.GeoPolyline{Vertices: sweden[:3], Stroke: shape.Stroke{Color: blue, Width: 4}},
			want:  []want{{mode: Triangles, vertices: 12, color: blue, extruded: true}},
		},
		{
			name:  "polyline single point",
			shape: shape.GeoPolyline{Vertices: sweden[:1], Stroke: shape.Stroke{Color: blue, Width: 4}},
			want:  nil,
		},
		{
			name:  "circle fill",
			shape: shape.GeoCircle{Centre: lund, Radius: units.Kilometres(10), Paint: shape.Paint{Fill: &shape.Fill{Color: red}}},
			want:  []want{{mode: Triangles, vertices: 42, color: red}},
		},
		{
			name:  "relative circle",
			shape: shape.GeoRelativeCircle{Centre: lund, Radius: 4, Paint: shape.Paint{Fill: &shape.Fill{Color: red}, Stroke: &shape.Stroke{Color: blue, Width: 1}}},
			want:  []want{{mode: Triangles, vertices: 42, color: red, offset: true}, {mode: Lines, vertices: 32, color: blue, offset: true}},
		},
		{
			name:  "relative polygon wide stroke",
			shape: shape.GeoRelativePolygon{Reference: lund, Offsets: square, Paint: shape.Paint{Stroke: &shape.Stroke{Color: blue, Width: 2}}},
			want:  []want{{mode: Triangles, vertices: 24, color: blue, offset: true}},
		},
		{
			name:  "relative polyline",
			shape: shape.GeoRelativePolyline{Reference: lund, Offsets: square[:2], Stroke: shape.Stroke{Color: red, Width: 2}},
			want:  []want{{mode: Triangles, vertices: 6, color: red, offset: true}},
		},
		{
			name:  "text",
			shape: shape.GeoRelativeText{Reference: lund, Text: "A B", Color: red, Scale: 1},
			want:  []want{{mode: Triangles, vertices: 12, color: red, offset: true, textured: true}},
		},
	}
	m := testMesher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.MeshShape(tt.shape)
			if err != nil {
				t.Fatalf("MeshShape() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d meshes, want %d", len(got), len(tt.want))
			}
			for i, w := range tt.want {
				g := got[i]
				if err := g.Validate(); err != nil {
					t.Errorf("mesh %d: Validate() error = %v", i, err)
				}
				if g.Mode != w.mode || g.VertexCount() != w.vertices {
					t.Errorf("mesh %d: %s with %d vertices, want %s with %d", i, g.Mode, g.VertexCount(), w.mode, w.vertices)
				}
				if g.Colors[0] != uint32(w.color) {
					t.Errorf("mesh %d: colour %#x, want %#x", i, g.Colors[0], uint32(w.color))
				}
				l := g.Layout()
				if l.Extruded != w.extruded || l.Offset != w.offset || l.Textured != w.textured || !l.Geo {
					t.Errorf("mesh %d: layout %v", i, l)
				}
			}
		})
	}
}

func TestMeshRelativeRepeatsReference(t *testing.T) {
	m := testMesher()
	got, err := m.MeshShape(shape.GeoRelativePolyline{Reference: lund, Offsets: []r2.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}, Stroke: shape.Stroke{Width: 1}})
	if err != nil {
		t.Fatal(err)
	}
	ref := coords.LatLongToGeocentric(lund)
	want := []float32{float32(ref.X), float32(ref.Y), float32(ref.Z)}
	g := got[0]
	for i := 0; i < g.VertexCount(); i++ {
		if !reflect.DeepEqual(g.Geos[3*i:3*i+3], want) {
			t.Errorf("vertex %d geo = %v, want %v", i, g.Geos[3*i:3*i+3], want)
		}
	}
	if wantOffsets := []float32{0, 0, 10, 0}; !reflect.DeepEqual(g.Offsets, wantOffsets) {
		t.Errorf("offsets = %v, want %v", g.Offsets, wantOffsets)
	}
}

func TestMeshCircleRadius(t *testing.T) {
	m := testMesher()
	radius := units.Kilometres(10)
	got, err := m.MeshShape(shape.GeoCircle{Centre: lund, Radius: radius, Paint: shape.Paint{Stroke: &shape.Stroke{Width: 1}}})
	if err != nil {
		t.Fatal(err)
	}
	centre := coords.LatLongToGeocentric(lund)
	g := got[0]
	for i := 0; i < g.VertexCount(); i++ {
		v := r3.Vector{X: float64(g.Geos[3*i]), Y: float64(g.Geos[3*i+1]), Z: float64(g.Geos[3*i+2])}.Normalize()
		d := sphere.Distance(centre, v, DefaultConfig().EarthRadius)
		if math.Abs(d.Metres()-radius.Metres()) > 5 {
			t.Fatalf("vertex %d is %v from centre, want %v", i, d, radius)
		}
	}
}

func TestMeshExtrusionSides(t *testing.T) {
	m := testMesher()
	got, err := m.MeshShape(shape.GeoPolyline{Vertices: []coords.LatLong{ystad, malmo}, Stroke: shape.Stroke{Width: 6}})
	if err != nil {
		t.Fatal(err)
	}
	e := got[0].Extrusion
	plus, minus := 0, 0
	for _, hw := range e.HalfWidths {
		switch hw {
		case 3:
			plus++
		case -3:
			minus++
		default:
			t.Fatalf("half width %v", hw)
		}
	}
	if plus != 3 || minus != 3 {
		t.Errorf("sides = %d/%d, want 3/3", plus, minus)
	}
	// Endpoints are caps: the first vertex is its own previous.
	if !reflect.DeepEqual(got[0].Geos[:3], e.Previous[:3]) {
		t.Errorf("first vertex previous = %v, want %v", e.Previous[:3], got[0].Geos[:3])
	}
}

func TestMeshTextLayout(t *testing.T) {
	m := testMesher()
	got, err := m.MeshShape(shape.GeoRelativeText{Reference: lund, Offset: r2.Point{X: 10, Y: 20}, Text: "AB", Color: red, Scale: 2})
	if err != nil {
		t.Fatal(err)
	}
	g := got[0]
	// First corner of each glyph is its top-left.
	if g.Offsets[0] != 10 || g.Offsets[1] != 20 {
		t.Errorf("A top-left = (%v, %v), want (10, 20)", g.Offsets[0], g.Offsets[1])
	}
	if g.Offsets[12] != 24 || g.Offsets[13] != 20 {
		t.Errorf("B top-left = (%v, %v), want (24, 20)", g.Offsets[12], g.Offsets[13])
	}
	for _, c := range g.TexCoords {
		if c < 0 || c > 1 {
			t.Fatalf("texture coordinate %v out of range", c)
		}
	}
}

func TestMeshShapeErrors(t *testing.T) {
	m := testMesher()
	tests := []struct {
		name  string
		shape shape.Shape
		want  error
	}{
		{"degenerate fill", shape.GeoPolygon{Vertices: []coords.LatLong{ystad, malmo}, Paint: shape.Paint{Fill: &shape.Fill{}}}, triangulate.ErrTooFewVertices},
		{"missing glyph", shape.GeoRelativeText{Reference: lund, Text: "ok 中"}, font.ErrGlyphNotFound},
	}
	for _, tt := range tests {
		if _, err := m.MeshShape(tt.shape); !errors.Is(err, tt.want) {
			t.Errorf("%s: error = %v, want %v", tt.name, err, tt.want)
		}
	}
	if _, err := NewMesher(DefaultConfig(), nil).MeshShape(shape.GeoRelativeText{Text: "a"}); !errors.Is(err, font.ErrGlyphNotFound) {
		t.Errorf("no atlas: error = %v", err)
	}
}

func TestMeshFillRepeatedVertex(t *testing.T) {
	m := testMesher()
	fill := shape.Paint{Fill: &shape.Fill{Color: red}}
	// A notched ring with one vertex repeated, as GeoJSON rings often are.
	ring := []r2.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 4, Y: 4}, {X: 2, Y: 1}, {X: 0, Y: 4}, {X: 0, Y: 0}}
	lls := make([]coords.LatLong, len(ring))
	for i, p := range ring {
		lls[i] = coords.LatLongDegrees(p.Y/10, p.X/10)
	}
	for _, s := range []shape.Shape{
		shape.GeoPolygon{Vertices: lls, Paint: fill},
		shape.GeoRelativePolygon{Reference: lund, Offsets: ring, Paint: fill},
	} {
		got, err := m.MeshShape(s)
		if err != nil {
			t.Errorf("%s: %v", s.Type(), err)
			continue
		}
		if len(got) != 1 || got[0].VertexCount() != 9 {
			t.Errorf("%s: got %d meshes, want one of three triangles", s.Type(), len(got))
		}
	}
}

func TestMeshGraphic(t *testing.T) {
	m := testMesher()
	g := shape.Graphic{Name: "g", ZIndex: 2, Shapes: []shape.Shape{
		shape.GeoPolyline{Vertices: []coords.LatLong{ystad, malmo}, Stroke: shape.Stroke{Color: red, Width: 1}},
		shape.GeoRelativeCircle{Centre: lund, Radius: 3, Paint: shape.Paint{Fill: &shape.Fill{Color: blue}}},
	}}
	rg, err := m.MeshGraphic(g)
	if err != nil {
		t.Fatal(err)
	}
	if rg.Name != "g" || rg.ZIndex != 2 || len(rg.Meshes) != 2 {
		t.Fatalf("MeshGraphic() = %s z=%d with %d meshes", rg.Name, rg.ZIndex, len(rg.Meshes))
	}
	if rg.Meshes[0].Mode != Lines || rg.Meshes[1].Colors[0] != uint32(blue) {
		t.Errorf("meshes out of order")
	}
	if rg.VertexCount() != 2+42 {
		t.Errorf("VertexCount() = %d", rg.VertexCount())
	}

	g.Shapes = append(g.Shapes, shape.GeoPolygon{Paint: shape.Paint{Fill: &shape.Fill{}}})
	if _, err := m.MeshGraphic(g); !errors.Is(err, triangulate.ErrTooFewVertices) {
		t.Errorf("MeshGraphic() error = %v", err)
	}
}

func TestWorker(t *testing.T) {
	m := testMesher()
	var graphics []shape.Graphic
	for i, ll := range []coords.LatLong{ystad, malmo, lund, helsingborg, kristianstad} {
		graphics = append(graphics, shape.Graphic{Name: string(rune('a' + i)), ZIndex: i, Shapes: []shape.Shape{
			shape.GeoCircle{Centre: ll, Radius: units.Kilometres(5), Paint: shape.Paint{Fill: &shape.Fill{Color: red}, Stroke: &shape.Stroke{Color: blue, Width: 2}}},
		}})
	}
	encoded, err := NewWorker(m, 2).Mesh(context.Background(), graphics)
	if err != nil {
		t.Fatalf("Mesh() error = %v", err)
	}
	if len(encoded) != len(graphics) {
		t.Fatalf("got %d results, want %d", len(encoded), len(graphics))
	}
	for i, b := range encoded {
		got, err := DecodeRenderable(b)
		if err != nil {
			t.Fatalf("DecodeRenderable() error = %v", err)
		}
		want, err := m.MeshGraphic(graphics[i])
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("graphic %d differs after decoding", i)
		}
	}
}

func TestWorkerErrors(t *testing.T) {
	m := testMesher()
	bad := []shape.Graphic{{Name: "bad", Shapes: []shape.Shape{shape.GeoPolygon{Paint: shape.Paint{Fill: &shape.Fill{}}}}}}
	if _, err := NewWorker(m, 0).Mesh(context.Background(), bad); !errors.Is(err, triangulate.ErrTooFewVertices) {
		t.Errorf("Mesh() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	good := []shape.Graphic{{Name: "good"}}
	if _, err := NewWorker(m, 1).Mesh(ctx, good); !errors.Is(err, context.Canceled) {
		t.Errorf("Mesh() with cancelled context error = %v", err)
	}
}

func TestDecodeRenderableInvalid(t *testing.T) {
	tests := []string{
		`{`,
		`{"name":"x","meshes":[{"geos":[0,0,1],"colors":[],"mode":"TRIANGLES"}]}`,
		`{"name":"x","meshes":[{"geos":[0,0,1,0,1,0],"colors":[1,1],"mode":"POINTS"}]}`,
	}
	for _, in := range tests {
		if _, err := DecodeRenderable([]byte(in)); !errors.Is(err, ErrInvalidMesh) {
			t.Errorf("DecodeRenderable(%s) error = %v, want ErrInvalidMesh", in, err)
		}
	}
}
