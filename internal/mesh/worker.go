package mesh

import (
	"context"
	"encoding/json"
	"runtime"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"geomesh/internal/shape"
)

// Worker meshes graphics off the caller's goroutine. Results come back as
// encoded bytes, the only form that crosses from the workers to the render
// loop.
type Worker struct {
	mesher *Mesher
	limit  int
}

// NewWorker returns a Worker running at most concurrency meshing goroutines.
// A non-positive concurrency uses GOMAXPROCS.
func NewWorker(m *Mesher, concurrency int) *Worker {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	return &Worker{mesher: m, limit: concurrency}
}

// Mesh meshes and encodes every graphic. The result is in input order. The
// first failure cancels the remaining work and is returned.
func (w *Worker) Mesh(ctx context.Context, graphics []shape.Graphic) ([][]byte, error) {
	out := make([][]byte, len(graphics))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.limit)
	for i, gr := range graphics {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rg, err := w.mesher.MeshGraphic(gr)
			if err != nil {
				return err
			}
			b, err := EncodeRenderable(rg)
			if err != nil {
				return err
			}
			out[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeRenderable returns the JSON form of g.
func EncodeRenderable(g RenderableGraphic) ([]byte, error) {
	b, err := json.Marshal(g)
	return b, errors.Wrapf(err, "mesh: encode %q", g.Name)
}

// DecodeRenderable parses and validates a graphic produced by
// EncodeRenderable.
func DecodeRenderable(b []byte) (RenderableGraphic, error) {
	var g RenderableGraphic
	if err := json.Unmarshal(b, &g); err != nil {
		return RenderableGraphic{}, errors.Mark(errors.Wrap(err, "mesh: decode"), ErrInvalidMesh)
	}
	for i, m := range g.Meshes {
		if err := m.Validate(); err != nil {
			return RenderableGraphic{}, errors.Wrapf(err, "graphic %q mesh %d", g.Name, i)
		}
	}
	return g, nil
}
