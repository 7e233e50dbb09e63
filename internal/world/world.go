// Package world is the composition root: it owns the view, the mesher and
// the batcher, and draws through a gpu.Device.
package world

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/golang/geo/r2"

	"geomesh/internal/batch"
	"geomesh/internal/coords"
	"geomesh/internal/font"
	"geomesh/internal/gpu"
	"geomesh/internal/logging"
	"geomesh/internal/mesh"
	"geomesh/internal/shape"
	"geomesh/internal/units"
)

// Config is the mesher configuration and the initial view.
type Config struct {
	Mesh     mesh.Config
	Centre   coords.LatLong
	Range    units.Length
	Rotation units.Angle
	Width    int
	Height   int
	// MaxBatchVertices caps batch size; zero means no cap.
	MaxBatchVertices int
}

func DefaultConfig() Config {
	return Config{
		Mesh:   mesh.DefaultConfig(),
		Centre: coords.LatLongDegrees(0, 0),
		Range:  units.Kilometres(10000),
		Width:  800,
		Height: 600,
	}
}

// View is the current view state. Range is the distance across the canvas
// width.
type View struct {
	Centre   coords.LatLong
	Range    units.Length
	Rotation units.Angle
	Width    int
	Height   int
}

const minRange = 1.0 // metres

// World holds graphics and the view they are drawn in. It is not safe for
// concurrent use.
type World struct {
	view    View
	mesher  *mesh.Mesher
	batcher *batch.Batcher
	device  gpu.Device
	cfg     mesh.Config
}

// New returns a World drawing through dev and binds the glyph texture.
func New(dev gpu.Device, cfg Config) (*World, error) {
	atlas := font.NewAtlas()
	if err := dev.SetTexture(atlas.Texture()); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "world: bind glyph texture"), gpu.ErrResourceCreation)
	}
	w := &World{
		view: View{
			Centre:   cfg.Centre,
			Range:    cfg.Range,
			Rotation: cfg.Rotation,
			Width:    cfg.Width,
			Height:   cfg.Height,
		},
		mesher:  mesh.NewMesher(cfg.Mesh, atlas),
		batcher: batch.NewBatcher(gpu.Factory{Device: dev, MaxVertices: cfg.MaxBatchVertices}),
		device:  dev,
	}
	w.cfg = w.mesher.Config()
	w.clampRange()
	logging.Logger().Info("world created", "centre", w.view.Centre.String(), "range", w.view.Range.String(),
		"width", w.view.Width, "height", w.view.Height)
	return w, nil
}

// Mesher returns the mesher, for meshing off the render goroutine.
func (w *World) Mesher() *mesh.Mesher { return w.mesher }

// Insert meshes g and adds it, replacing any graphic of the same name. If
// meshing fails the previous graphic is kept.
func (w *World) Insert(g shape.Graphic) error {
	rg, err := w.mesher.MeshGraphic(g)
	if err != nil {
		return err
	}
	return w.InsertRenderable(rg)
}

// InsertRenderable adds an already meshed graphic.
func (w *World) InsertRenderable(g mesh.RenderableGraphic) error {
	return w.batcher.Insert(g)
}

// Delete removes the graphic called name and reports whether it existed.
func (w *World) Delete(name string) bool {
	return w.batcher.Delete(name)
}

// Has reports whether a graphic called name is present.
func (w *World) Has(name string) bool {
	_, ok := w.batcher.ZIndex(name)
	return ok
}

// Pan moves the map content by dx, dy canvas pixels.
func (w *World) Pan(dx, dy float64) {
	if !w.drawable() {
		return
	}
	mid := r2.Point{X: float64(w.view.Width) / 2, Y: float64(w.view.Height) / 2}
	w.view.Centre = w.LatLongAt(mid.X-dx, mid.Y-dy)
}

// Zoom divides the range by factor; factors above one zoom in.
func (w *World) Zoom(factor float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	w.view.Range = w.view.Range.Scale(1 / factor)
	w.clampRange()
}

// ZoomAt zooms keeping the position under canvas pixel (x, y) in place.
func (w *World) ZoomAt(factor, x, y float64) {
	if !w.drawable() {
		w.Zoom(factor)
		return
	}
	anchor := w.LatLongAt(x, y)
	w.Zoom(factor)
	// Recentring turns north with the meridian convergence, so a second
	// pass corrects what the first leaves.
	for range 2 {
		p := w.CanvasAt(anchor)
		w.Pan(x-p.X, y-p.Y)
	}
}

// Rotate turns the map clockwise on screen by a.
func (w *World) Rotate(a units.Angle) {
	w.view.Rotation = w.view.Rotation.Add(a).Normalised()
}

// Recentre moves the view centre to ll.
func (w *World) Recentre(ll coords.LatLong) {
	w.view.Centre = ll
}

// SetRange sets the distance across the canvas width.
func (w *World) SetRange(r units.Length) {
	w.view.Range = r
	w.clampRange()
}

// Resize sets the canvas size in pixels.
func (w *World) Resize(width, height int) {
	w.view.Width, w.view.Height = width, height
}

// Draw sets the frame uniforms and draws every batch. A canvas without
// area draws nothing.
func (w *World) Draw() error {
	if !w.drawable() {
		return nil
	}
	w.device.SetUniforms(w.Uniforms())
	return w.batcher.Draw()
}

// Uniforms returns the uniforms for the current view.
func (w *World) Uniforms() gpu.Uniforms {
	sp, at := w.transforms()
	return gpu.Uniforms{
		Projection: sp,
		Affine:     at,
		Clip:       coords.CanvasToClipspace(w.view.Width, w.view.Height),
		Width:      w.view.Width,
		Height:     w.view.Height,
		MiterLimit: w.cfg.MiterLimit,
	}
}

// LatLongAt returns the position under canvas pixel (x, y).
func (w *World) LatLongAt(x, y float64) coords.LatLong {
	sp, at := w.transforms()
	return coords.CanvasToLatLong(r2.Point{X: x, Y: y}, at, sp)
}

// CanvasAt returns the canvas pixel of ll.
func (w *World) CanvasAt(ll coords.LatLong) r2.Point {
	sp, at := w.transforms()
	return coords.LatLongToCanvas(ll, sp, at)
}

func (w *World) View() View { return w.view }

func (w *World) Stats() batch.Stats { return w.batcher.Stats() }

// Batcher exposes the batches for inspection.
func (w *World) Batcher() *batch.Batcher { return w.batcher }

// Close releases every batch.
func (w *World) Close() {
	w.batcher.Close()
}

// transforms projects around the view centre. The canvas transform needs a
// positive size; callers check drawable first.
func (w *World) transforms() (coords.StereographicProjection, coords.CanvasAffineTransform) {
	sp := coords.ComputeStereographicProjection(w.view.Centre, w.cfg.EarthRadius)
	width, height := max(w.view.Width, 1), max(w.view.Height, 1)
	at := coords.ComputeCanvasAffineTransform(w.view.Centre, w.view.Rotation, w.view.Range, width, height, sp)
	return sp, at
}

func (w *World) drawable() bool {
	return w.view.Width > 0 && w.view.Height > 0
}

// clampRange keeps the range between a metre and the circumference.
func (w *World) clampRange() {
	maxRange := units.Metres(2 * math.Pi * w.cfg.EarthRadius.Metres())
	switch {
	case w.view.Range.Metres() < minRange:
		w.view.Range = units.Metres(minRange)
	case w.view.Range.Metres() > maxRange.Metres():
		w.view.Range = maxRange
	}
}
