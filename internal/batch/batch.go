// Package batch groups the meshes of named, z-indexed graphics into as few
// draw calls as draw order allows.
//
// A Batch holds the meshes of one or more graphics that share a layout and
// is drawn with a single call. The Batcher keeps batches in layers sorted
// by z-index and indexes every graphic name to its layer, so replacing or
// deleting a graphic touches only the batches of its layer.
package batch

import (
	"github.com/cockroachdb/errors"

	"geomesh/internal/logging"
	"geomesh/internal/mesh"
)

// Backend owns the GPU side of one batch.
type Backend interface {
	// Upload replaces the batch contents with meshes.
	Upload(mode mesh.DrawMode, meshes []mesh.Mesh) error
	// Draw draws the last upload.
	Draw() error
	// Destroy releases the GPU resources. The backend is unusable after.
	Destroy()
}

// Policy decides batch membership and creates backends for new batches.
type Policy interface {
	Fits(b *Batch, m mesh.Mesh) bool
	NewBackend(m mesh.Mesh) (Backend, error)
}

// Batch is the meshes of one or more graphics drawn with one call. A batch
// starts dirty and becomes dirty again whenever its contents change.
type Batch struct {
	id       int
	layout   mesh.Layout
	backend  Backend
	order    []string
	meshes   map[string][]mesh.Mesh
	vertices int
	dirty    bool
}

// NewBatch returns an empty dirty batch for meshes of the given layout.
func NewBatch(backend Backend, layout mesh.Layout) *Batch {
	return &Batch{layout: layout, backend: backend, meshes: make(map[string][]mesh.Mesh), dirty: true}
}

// Add appends m to the meshes of graphic name.
func (b *Batch) Add(name string, m mesh.Mesh) {
	if _, ok := b.meshes[name]; !ok {
		b.order = append(b.order, name)
	}
	b.meshes[name] = append(b.meshes[name], m)
	b.vertices += m.VertexCount()
	b.dirty = true
}

// Remove drops every mesh of graphic name and reports whether there were
// any.
func (b *Batch) Remove(name string) bool {
	ms, ok := b.meshes[name]
	if !ok {
		return false
	}
	for _, m := range ms {
		b.vertices -= m.VertexCount()
	}
	delete(b.meshes, name)
	for i, n := range b.order {
		if n == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	b.dirty = true
	return true
}

// Clean uploads the meshes in graphic insertion order.
func (b *Batch) Clean() error {
	if err := b.backend.Upload(b.layout.Mode, b.Meshes()); err != nil {
		return errors.Wrapf(err, "batch %d: upload", b.id)
	}
	b.dirty = false
	logging.Logger().Debug("batch cleaned", "batch", b.id, "graphics", len(b.order), "vertices", b.vertices)
	return nil
}

// Draw cleans the batch if needed and issues its draw call.
func (b *Batch) Draw() error {
	if b.dirty {
		if err := b.Clean(); err != nil {
			return err
		}
	}
	return errors.Wrapf(b.backend.Draw(), "batch %d: draw", b.id)
}

// Destroy releases the backend.
func (b *Batch) Destroy() {
	b.backend.Destroy()
	b.backend = nil
	logging.Logger().Debug("batch destroyed", "batch", b.id)
}

// Meshes returns the meshes in graphic insertion order.
func (b *Batch) Meshes() []mesh.Mesh {
	var out []mesh.Mesh
	for _, n := range b.order {
		out = append(out, b.meshes[n]...)
	}
	return out
}

// Names returns the graphic names in insertion order.
func (b *Batch) Names() []string {
	return append([]string(nil), b.order...)
}

// Len is the number of graphics with meshes in the batch.
func (b *Batch) Len() int { return len(b.order) }

func (b *Batch) VertexCount() int    { return b.vertices }
func (b *Batch) Dirty() bool         { return b.dirty }
func (b *Batch) Layout() mesh.Layout { return b.layout }
