package gpu

import (
	"github.com/cockroachdb/errors"

	"geomesh/internal/batch"
	"geomesh/internal/mesh"
)

// Backend draws a batch through one Binding.
type Backend struct {
	binding Binding
	mode    mesh.DrawMode
	count   int
}

var _ batch.Backend = (*Backend)(nil)

// Upload concatenates the meshes attribute by attribute. Attributes none of
// the meshes use are disabled. All meshes must share one layout.
func (b *Backend) Upload(mode mesh.DrawMode, meshes []mesh.Mesh) error {
	if len(meshes) == 0 {
		b.mode, b.count = mode, 0
		return nil
	}
	layout := meshes[0].Layout()
	count := 0
	for i, m := range meshes {
		if m.Layout() != layout {
			return errors.Newf("gpu: mesh %d has layout %s, batch has %s", i, m.Layout(), layout)
		}
		count += m.VertexCount()
	}

	floats := func(a Attribute, on bool, get func(mesh.Mesh) []float32) error {
		if !on {
			b.binding.Disable(a)
			return nil
		}
		data := make([]float32, 0, count*a.Components)
		for _, m := range meshes {
			data = append(data, get(m)...)
		}
		return errors.Wrapf(b.binding.UploadFloat32(a, data), "upload %s", a.Name)
	}
	steps := []struct {
		a   Attribute
		on  bool
		get func(mesh.Mesh) []float32
	}{
		{AttrGeo, layout.Geo, func(m mesh.Mesh) []float32 { return m.Geos }},
		{AttrPrevious, layout.Extruded, func(m mesh.Mesh) []float32 { return m.Extrusion.Previous }},
		{AttrNext, layout.Extruded, func(m mesh.Mesh) []float32 { return m.Extrusion.Next }},
		{AttrHalfWidth, layout.Extruded, func(m mesh.Mesh) []float32 { return m.Extrusion.HalfWidths }},
		{AttrOffset, layout.Offset, func(m mesh.Mesh) []float32 { return m.Offsets }},
		{AttrTexCoord, layout.Textured, func(m mesh.Mesh) []float32 { return m.TexCoords }},
	}
	for _, s := range steps {
		if err := floats(s.a, s.on, s.get); err != nil {
			return err
		}
	}
	colors := make([]uint32, 0, count)
	for _, m := range meshes {
		colors = append(colors, m.Colors...)
	}
	if err := b.binding.UploadUint32(AttrColor, colors); err != nil {
		return errors.Wrapf(err, "upload %s", AttrColor.Name)
	}
	b.mode, b.count = mode, count
	return nil
}

// Draw issues one draw call for everything uploaded.
func (b *Backend) Draw() error {
	if b.count == 0 {
		return nil
	}
	return b.binding.Draw(b.mode, b.count)
}

func (b *Backend) Destroy() {
	b.binding.Release()
}

// Factory is the batch policy for a Device: a mesh joins a batch when the
// layouts match and the batch stays under MaxVertices.
type Factory struct {
	Device Device
	// MaxVertices caps the vertices per batch; zero means no cap.
	MaxVertices int
}

var _ batch.Policy = Factory{}

func (f Factory) Fits(b *batch.Batch, m mesh.Mesh) bool {
	if b.Layout() != m.Layout() {
		return false
	}
	return f.MaxVertices <= 0 || b.VertexCount()+m.VertexCount() <= f.MaxVertices
}

func (f Factory) NewBackend(mesh.Mesh) (batch.Backend, error) {
	bnd, err := f.Device.NewBinding()
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "gpu: new binding"), ErrResourceCreation)
	}
	if bnd == nil {
		return nil, errors.Wrap(ErrResourceCreation, "gpu: nil binding")
	}
	return &Backend{binding: bnd}, nil
}
