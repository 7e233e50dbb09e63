package tui

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"

	"geomesh/internal/logging"
	"geomesh/internal/mesh"
	"geomesh/internal/shape"
	"geomesh/internal/source"
)

// loadedMsg carries a dataset meshed off the update loop. Meshes are the
// worker's wire encoding and are decoded on the update loop.
type loadedMsg struct {
	name    string
	counts  string
	bound   orb.Bound
	meshes  [][]byte
	skipped int
	err     error
}

func load(ctx context.Context, w *mesh.Worker, m *mesh.Mesher, st source.Style, path string) loadedMsg {
	d, err := source.Load(path)
	if err != nil {
		return loadedMsg{name: path, err: err}
	}
	return meshData(ctx, w, m, st, d)
}

func paste(ctx context.Context, w *mesh.Worker, m *mesh.Mesher, st source.Style, name, wkt string) loadedMsg {
	d, err := source.ParseWKT(wkt)
	if err != nil {
		return loadedMsg{name: name, err: err}
	}
	d.Name = name
	return meshData(ctx, w, m, st, d)
}

func meshData(ctx context.Context, w *mesh.Worker, m *mesh.Mesher, st source.Style, d source.Data) loadedMsg {
	msg := loadedMsg{
		name:   d.Name,
		counts: fmt.Sprintf("pts=%d ls=%d poly=%d", len(d.Points), len(d.Lines), len(d.Polygons)),
		bound:  d.Bound,
	}
	graphics := source.Graphics(d, st)
	msg.meshes, msg.err = w.Mesh(ctx, graphics)
	if msg.err == nil || ctx.Err() != nil {
		return msg
	}
	// Some shape failed to mesh: drop the failures and try again.
	graphics, msg.skipped = prune(m, graphics)
	msg.meshes, msg.err = w.Mesh(ctx, graphics)
	return msg
}

// prune returns graphics without the shapes m cannot mesh, and how many
// were dropped.
func prune(m *mesh.Mesher, graphics []shape.Graphic) ([]shape.Graphic, int) {
	skipped := 0
	out := make([]shape.Graphic, 0, len(graphics))
	for _, g := range graphics {
		kept := g
		kept.Shapes = nil
		for i, s := range g.Shapes {
			if _, err := m.MeshShape(s); err != nil {
				logging.Logger().Warn("shape skipped", "graphic", g.Name, "shape", i, "type", string(s.Type()), "err", err)
				skipped++
				continue
			}
			kept.Shapes = append(kept.Shapes, s)
		}
		if len(kept.Shapes) > 0 {
			out = append(out, kept)
		}
	}
	return out, skipped
}

// apply decodes a loaded dataset into the world, replacing any dataset of
// the same name, and fits the view to it.
func (m *Model) apply(msg loadedMsg) error {
	if msg.err != nil {
		return msg.err
	}
	set := &dataset{name: msg.name}
	for _, b := range msg.meshes {
		g, err := mesh.DecodeRenderable(b)
		if err != nil {
			return errors.Wrapf(err, "%s", msg.name)
		}
		set.graphics = append(set.graphics, g)
	}
	m.remove(msg.name)
	for i, g := range set.graphics {
		if m.hidden[source.Layer(g.ZIndex)] {
			continue
		}
		if err := m.world.InsertRenderable(g); err != nil {
			// The set is not recorded, so nothing else could delete these.
			for _, done := range set.graphics[:i] {
				m.world.Delete(done.Name)
			}
			m.dirty = true
			return errors.Wrapf(err, "%s", g.Name)
		}
	}
	m.sets = append(m.sets, set)
	m.fit(msg.bound)
	m.dirty = true
	return nil
}

// remove deletes every graphic of the dataset called name.
func (m *Model) remove(name string) {
	for i, s := range m.sets {
		if s.name != name {
			continue
		}
		for _, g := range s.graphics {
			m.world.Delete(g.Name)
		}
		m.sets = append(m.sets[:i], m.sets[i+1:]...)
		return
	}
}

// toggle shows or hides layer l of every dataset by deleting or
// re-inserting its graphics.
func (m *Model) toggle(l source.Layer) error {
	hide := !m.hidden[l]
	m.hidden[l] = hide
	m.dirty = true
	for _, s := range m.sets {
		for _, g := range s.graphics {
			if source.Layer(g.ZIndex) != l {
				continue
			}
			if hide {
				m.world.Delete(g.Name)
				continue
			}
			if err := m.world.InsertRenderable(g); err != nil {
				return errors.Wrapf(err, "%s", g.Name)
			}
		}
	}
	return nil
}
