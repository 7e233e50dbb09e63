// Package mesh turns shapes into flat vertex arrays ready for upload.
//
// A Mesh is plain data: every field is a slice of numbers so it can cross a
// goroutine or process boundary as JSON. Absolute geometry carries
// geocentric positions; pixel-relative geometry carries pixel offsets plus
// the reference position repeated once per vertex.
package mesh

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrInvalidMesh is returned by Validate and by decoding.
var ErrInvalidMesh = errors.New("mesh: invalid mesh")

// DrawMode is the primitive type a mesh is drawn with.
type DrawMode uint8

const (
	Lines DrawMode = iota + 1
	Triangles
)

func (m DrawMode) String() string {
	switch m {
	case Lines:
		return "LINES"
	case Triangles:
		return "TRIANGLES"
	}
	return fmt.Sprintf("DrawMode(%d)", uint8(m))
}

// Vertices returns the number of vertices per primitive.
func (m DrawMode) Vertices() int {
	switch m {
	case Lines:
		return 2
	case Triangles:
		return 3
	}
	return 0
}

func (m DrawMode) MarshalText() ([]byte, error) {
	if m.Vertices() == 0 {
		return nil, errors.Wrapf(ErrInvalidMesh, "draw mode %d", uint8(m))
	}
	return []byte(m.String()), nil
}

func (m *DrawMode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "LINES":
		*m = Lines
	case "TRIANGLES":
		*m = Triangles
	default:
		return errors.Wrapf(ErrInvalidMesh, "draw mode %q", b)
	}
	return nil
}

// Extrusion widens a geocentric line in canvas space. Each vertex carries
// its neighbours along the line and a signed half width in pixels; the sign
// picks the side of the line.
type Extrusion struct {
	Previous   []float32 `json:"previous"`
	Next       []float32 `json:"next"`
	HalfWidths []float32 `json:"halfWidths"`
}

// Mesh is the renderable form of a shape.
type Mesh struct {
	Geos      []float32  `json:"geos,omitempty"`
	Extrusion *Extrusion `json:"extrusion,omitempty"`
	Offsets   []float32  `json:"offsets,omitempty"`
	Colors    []uint32   `json:"colors"`
	Mode      DrawMode   `json:"mode"`
	TexCoords []float32  `json:"texCoords,omitempty"`
}

// VertexCount is driven by the offsets when present, else by the geos.
func (m Mesh) VertexCount() int {
	if len(m.Offsets) > 0 {
		return len(m.Offsets) / 2
	}
	return len(m.Geos) / 3
}

// Validate checks that every array agrees with the vertex count and that
// the count is a whole number of primitives.
func (m Mesh) Validate() error {
	n := m.VertexCount()
	switch {
	case n == 0:
		return errors.Wrap(ErrInvalidMesh, "no vertices")
	case len(m.Offsets)%2 != 0:
		return errors.Wrapf(ErrInvalidMesh, "%d offset components", len(m.Offsets))
	case len(m.Geos)%3 != 0:
		return errors.Wrapf(ErrInvalidMesh, "%d geo components", len(m.Geos))
	case len(m.Offsets) > 0 && len(m.Geos) != 0 && len(m.Geos) != 3*n:
		return errors.Wrapf(ErrInvalidMesh, "%d reference geos for %d offsets", len(m.Geos)/3, n)
	case len(m.Colors) != n:
		return errors.Wrapf(ErrInvalidMesh, "%d colours for %d vertices", len(m.Colors), n)
	case m.Mode.Vertices() == 0:
		return errors.Wrapf(ErrInvalidMesh, "draw mode %d", uint8(m.Mode))
	case n%m.Mode.Vertices() != 0:
		return errors.Wrapf(ErrInvalidMesh, "%d vertices for %s", n, m.Mode)
	case len(m.TexCoords) != 0 && len(m.TexCoords) != 2*n:
		return errors.Wrapf(ErrInvalidMesh, "%d texture coordinates for %d vertices", len(m.TexCoords)/2, n)
	}
	if e := m.Extrusion; e != nil {
		if len(m.Geos) != 3*n || len(m.Offsets) != 0 {
			return errors.Wrap(ErrInvalidMesh, "extrusion needs absolute geos")
		}
		if len(e.Previous) != 3*n || len(e.Next) != 3*n || len(e.HalfWidths) != n {
			return errors.Wrap(ErrInvalidMesh, "extrusion length mismatch")
		}
	}
	return nil
}

// Layout is the draw mode together with the attribute set a mesh uses.
// Meshes with equal layouts can share a draw call.
type Layout struct {
	Mode     DrawMode
	Geo      bool
	Extruded bool
	Offset   bool
	Textured bool
}

func (m Mesh) Layout() Layout {
	return Layout{
		Mode:     m.Mode,
		Geo:      len(m.Geos) > 0,
		Extruded: m.Extrusion != nil,
		Offset:   len(m.Offsets) > 0,
		Textured: len(m.TexCoords) > 0,
	}
}

func (l Layout) String() string {
	s := l.Mode.String()
	for _, f := range []struct {
		on   bool
		name string
	}{{l.Geo, "geo"}, {l.Extruded, "extruded"}, {l.Offset, "offset"}, {l.Textured, "textured"}} {
		if f.on {
			s += "+" + f.name
		}
	}
	return s
}

// RenderableGraphic is a named, z-indexed list of meshes.
type RenderableGraphic struct {
	Name   string `json:"name"`
	ZIndex int    `json:"zIndex"`
	Meshes []Mesh `json:"meshes"`
}

// VertexCount sums the vertex counts of the meshes.
func (g RenderableGraphic) VertexCount() int {
	n := 0
	for _, m := range g.Meshes {
		n += m.VertexCount()
	}
	return n
}
