// Package render is a CPU implementation of the gpu binding: a vertex stage
// that projects attribute arrays the way a shader would, and the primitive
// rasterisers shared by the concrete targets.
package render

import (
	"image"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"geomesh/internal/coords"
	"geomesh/internal/gpu"
	"geomesh/internal/mesh"
	"geomesh/internal/plane"
	"geomesh/internal/shape"
)

// Vertex is a projected vertex in target pixels.
type Vertex struct {
	Pos   r2.Point
	Color shape.Color
	UV    r2.Point
}

// Target receives primitives in its own pixel space.
type Target interface {
	Size() (width, height int)
	Line(a, b Vertex)
	Triangle(a, b, c Vertex, textured bool)
}

// Pipeline implements gpu.Device on top of a Target.
type Pipeline struct {
	target   Target
	uniforms gpu.Uniforms
	texture  image.Image
}

var _ gpu.Device = (*Pipeline)(nil)

func NewPipeline(t Target) *Pipeline {
	return &Pipeline{target: t}
}

func (p *Pipeline) NewBinding() (gpu.Binding, error) {
	return &Binding{
		p:      p,
		floats: make(map[string][]float32),
		uints:  make(map[string][]uint32),
	}, nil
}

func (p *Pipeline) SetUniforms(u gpu.Uniforms) { p.uniforms = u }

func (p *Pipeline) Uniforms() gpu.Uniforms { return p.uniforms }

func (p *Pipeline) SetTexture(img image.Image) error {
	if img == nil {
		return errors.Wrap(gpu.ErrResourceCreation, "render: nil texture")
	}
	p.texture = img
	return nil
}

// Texture returns the bound texture, or nil.
func (p *Pipeline) Texture() image.Image { return p.texture }

// Binding keeps attribute arrays in memory.
type Binding struct {
	p        *Pipeline
	floats   map[string][]float32
	uints    map[string][]uint32
	released bool
}

var errReleased = errors.New("render: binding released")

func (b *Binding) UploadFloat32(a gpu.Attribute, data []float32) error {
	if b.released {
		return errReleased
	}
	b.floats[a.Name] = data
	return nil
}

func (b *Binding) UploadUint32(a gpu.Attribute, data []uint32) error {
	if b.released {
		return errReleased
	}
	b.uints[a.Name] = data
	return nil
}

func (b *Binding) Disable(a gpu.Attribute) {
	delete(b.floats, a.Name)
	delete(b.uints, a.Name)
}

func (b *Binding) Release() {
	b.released = true
	b.floats, b.uints = nil, nil
}

// Draw projects count vertices and hands the primitives to the target.
// Primitives with a vertex that does not project to a finite position are
// dropped.
func (b *Binding) Draw(mode mesh.DrawMode, count int) error {
	if b.released {
		return errReleased
	}
	vs, ok, err := b.Vertices(count)
	if err != nil {
		return err
	}
	_, textured := b.floats[gpu.AttrTexCoord.Name]
	switch mode {
	case mesh.Lines:
		for i := 0; i+1 < count; i += 2 {
			if ok[i] && ok[i+1] {
				b.p.target.Line(vs[i], vs[i+1])
			}
		}
	case mesh.Triangles:
		for i := 0; i+2 < count; i += 3 {
			if ok[i] && ok[i+1] && ok[i+2] {
				b.p.target.Triangle(vs[i], vs[i+1], vs[i+2], textured)
			}
		}
	default:
		return errors.Newf("render: draw mode %v", mode)
	}
	return nil
}

// Vertices runs the vertex stage over the first count vertices.
func (b *Binding) Vertices(count int) ([]Vertex, []bool, error) {
	u := b.p.uniforms
	if u.Width <= 0 || u.Height <= 0 {
		return nil, nil, errors.New("render: uniforms not set")
	}
	geo := b.floats[gpu.AttrGeo.Name]
	prev := b.floats[gpu.AttrPrevious.Name]
	next := b.floats[gpu.AttrNext.Name]
	hw := b.floats[gpu.AttrHalfWidth.Name]
	offset := b.floats[gpu.AttrOffset.Name]
	tex := b.floats[gpu.AttrTexCoord.Name]
	colors := b.uints[gpu.AttrColor.Name]
	for _, c := range []struct {
		name string
		have int
		per  int
	}{
		{"geo", len(geo), 3}, {"previous", len(prev), 3}, {"next", len(next), 3},
		{"halfWidth", len(hw), 1}, {"offset", len(offset), 2}, {"texCoord", len(tex), 2}, {"color", len(colors), 1},
	} {
		if c.have != 0 && c.have < count*c.per {
			return nil, nil, errors.Newf("render: attribute %s holds %d components, need %d", c.name, c.have, count*c.per)
		}
	}

	tw, th := b.p.target.Size()
	vs := make([]Vertex, count)
	ok := make([]bool, count)
	for i := range vs {
		var pos r2.Point
		if len(geo) > 0 {
			pos = toCanvas(u, vec3(geo, i))
			if len(hw) > 0 && len(prev) > 0 && len(next) > 0 {
				w := float64(hw[i])
				o := plane.JoinOffset(toCanvas(u, vec3(prev, i)), pos, toCanvas(u, vec3(next, i)), math.Abs(w), u.MiterLimit)
				if w < 0 {
					o = o.Mul(-1)
				}
				pos = pos.Add(o)
			}
		}
		if len(offset) > 0 {
			pos = pos.Add(r2.Point{X: float64(offset[2*i]), Y: float64(offset[2*i+1])})
		}
		clip := u.Clip.Mul3x1(mgl32.Vec3{float32(pos.X), float32(pos.Y), 1})
		v := Vertex{Pos: r2.Point{
			X: (float64(clip[0]) + 1) / 2 * float64(tw),
			Y: (1 - float64(clip[1])) / 2 * float64(th),
		}}
		if len(colors) > 0 {
			v.Color = shape.Color(colors[i])
		}
		if len(tex) > 0 {
			v.UV = r2.Point{X: float64(tex[2*i]), Y: float64(tex[2*i+1])}
		}
		vs[i] = v
		ok[i] = finite(v.Pos.X) && finite(v.Pos.Y)
	}
	return vs, ok, nil
}

func toCanvas(u gpu.Uniforms, v r3.Vector) r2.Point {
	return coords.StereographicToCanvas(coords.GeocentricToStereographic(v, u.Projection), u.Affine)
}

func vec3(a []float32, i int) r3.Vector {
	return r3.Vector{X: float64(a[3*i]), Y: float64(a[3*i+1]), Z: float64(a[3*i+2])}.Normalize()
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
