package batch

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/cockroachdb/errors"

	"geomesh/internal/logging"
	"geomesh/internal/mesh"
)

type layer struct {
	z       int
	batches []*Batch
}

// Batcher owns every batch. It is not safe for concurrent use; callers
// mutate and draw from one goroutine.
type Batcher struct {
	policy Policy
	layers []layer         // sorted by z
	index  map[string]int  // graphic name -> z
	nextID int
}

// Stats summarises the batcher contents.
type Stats struct {
	Layers   int
	Batches  int
	Graphics int
	Vertices int
	Dirty    int
}

func NewBatcher(p Policy) *Batcher {
	return &Batcher{policy: p, index: make(map[string]int)}
}

// Insert adds g, replacing any graphic of the same name. Each mesh joins
// the last batch of its layer when the policy allows, else starts a new
// batch at the end of the layer. A graphic without meshes is only removed.
// On error the graphic is absent from the batcher.
func (b *Batcher) Insert(g mesh.RenderableGraphic) error {
	b.remove(g.Name)
	if len(g.Meshes) == 0 {
		return nil
	}
	l := b.layer(g.ZIndex)
	b.index[g.Name] = g.ZIndex
	for i, m := range g.Meshes {
		var last *Batch
		if n := len(l.batches); n > 0 {
			last = l.batches[n-1]
		}
		if last != nil && b.policy.Fits(last, m) {
			last.Add(g.Name, m)
			continue
		}
		backend, err := b.policy.NewBackend(m)
		if err != nil {
			b.drop(g.Name, false)
			return errors.Wrapf(err, "insert %q mesh %d", g.Name, i)
		}
		nb := NewBatch(backend, m.Layout())
		nb.id = b.nextID
		b.nextID++
		nb.Add(g.Name, m)
		l.batches = append(l.batches, nb)
		logging.Logger().Debug("batch created", "batch", nb.id, "z", g.ZIndex, "layout", nb.layout.String())
	}
	return nil
}

// Delete removes the graphic called name and reports whether it existed.
func (b *Batcher) Delete(name string) bool {
	return b.remove(name)
}

func (b *Batcher) remove(name string) bool {
	return b.drop(name, true)
}

// drop removes the contributions of name from its layer, destroying batches
// left empty and the layer if it empties. strict panics when the index and
// the layer disagree; a partially inserted graphic is dropped non-strictly.
func (b *Batcher) drop(name string, strict bool) bool {
	z, ok := b.index[name]
	if !ok {
		return false
	}
	li, found := b.find(z)
	if !found {
		panic(fmt.Sprintf("batch: graphic %q indexed at z=%d but the layer does not exist", name, z))
	}
	l := &b.layers[li]
	removed := false
	kept := l.batches[:0]
	for _, bt := range l.batches {
		if bt.Remove(name) {
			removed = true
		}
		if bt.Len() == 0 {
			bt.Destroy()
			continue
		}
		kept = append(kept, bt)
	}
	clear(l.batches[len(kept):])
	l.batches = kept
	if strict && !removed {
		panic(fmt.Sprintf("batch: graphic %q indexed at z=%d but no batch holds it", name, z))
	}
	if len(l.batches) == 0 {
		b.layers = slices.Delete(b.layers, li, li+1)
	}
	delete(b.index, name)
	return true
}

// layer returns the layer for z, creating it in sorted position.
func (b *Batcher) layer(z int) *layer {
	i, found := b.find(z)
	if !found {
		b.layers = slices.Insert(b.layers, i, layer{z: z})
	}
	return &b.layers[i]
}

func (b *Batcher) find(z int) (int, bool) {
	return slices.BinarySearchFunc(b.layers, z, func(l layer, z int) int { return cmp.Compare(l.z, z) })
}

// Draw draws every batch: layers in ascending z, batches in creation order.
// Dirty batches are uploaded first.
func (b *Batcher) Draw() error {
	for _, l := range b.layers {
		for _, bt := range l.batches {
			if err := bt.Draw(); err != nil {
				return errors.Wrapf(err, "z=%d", l.z)
			}
		}
	}
	return nil
}

// Batches returns the batches at z in creation order.
func (b *Batcher) Batches(z int) []*Batch {
	i, ok := b.find(z)
	if !ok {
		return nil
	}
	return append([]*Batch(nil), b.layers[i].batches...)
}

// ZIndices returns the occupied z-indices in ascending order.
func (b *Batcher) ZIndices() []int {
	out := make([]int, len(b.layers))
	for i, l := range b.layers {
		out[i] = l.z
	}
	return out
}

// ZIndex returns the z-index of the graphic called name.
func (b *Batcher) ZIndex(name string) (int, bool) {
	z, ok := b.index[name]
	return z, ok
}

func (b *Batcher) Stats() Stats {
	s := Stats{Layers: len(b.layers), Graphics: len(b.index)}
	for _, l := range b.layers {
		s.Batches += len(l.batches)
		for _, bt := range l.batches {
			s.Vertices += bt.VertexCount()
			if bt.Dirty() {
				s.Dirty++
			}
		}
	}
	return s
}

// Close destroys every batch and empties the batcher.
func (b *Batcher) Close() {
	for _, l := range b.layers {
		for _, bt := range l.batches {
			bt.Destroy()
		}
	}
	b.layers = nil
	clear(b.index)
}
