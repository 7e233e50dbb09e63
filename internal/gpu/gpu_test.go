package gpu_test

import (
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"

	"geomesh/internal/batch"
	"geomesh/internal/gpu"
	"geomesh/internal/gpu/gputest"
	"geomesh/internal/mesh"
)

func TestLookupAttribute(t *testing.T) {
	for _, a := range gpu.Attributes {
		got, err := gpu.LookupAttribute(a.Name)
		if err != nil || got != a {
			t.Errorf("LookupAttribute(%q) = %v, %v", a.Name, got, err)
		}
	}
	if _, err := gpu.LookupAttribute("normal"); !errors.Is(err, gpu.ErrUnknownAttribute) {
		t.Errorf("LookupAttribute(normal) error = %v", err)
	}
}

func TestBackendConcatenates(t *testing.T) {
	dev := &gputest.Device{}
	f := gpu.Factory{Device: dev}
	a := mesh.Mesh{Geos: []float32{1, 0, 0, 0, 1, 0, 0, 0, 1}, Colors: []uint32{1, 1, 1}, Mode: mesh.Triangles}
	b := mesh.Mesh{Geos: []float32{0, 0, 1, 0, 1, 0, 1, 0, 0}, Colors: []uint32{2, 2, 2}, Mode: mesh.Triangles}

	backend, err := f.NewBackend(a)
	if err != nil {
		t.Fatal(err)
	}
	if err := backend.Upload(mesh.Triangles, []mesh.Mesh{a, b}); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if err := backend.Draw(); err != nil {
		t.Fatal(err)
	}
	bnd := dev.Bindings[0]
	if got := bnd.Floats["geo"]; !reflect.DeepEqual(got, append(append([]float32(nil), a.Geos...), b.Geos...)) {
		t.Errorf("geo = %v", got)
	}
	if got := bnd.Uints["color"]; !reflect.DeepEqual(got, []uint32{1, 1, 1, 2, 2, 2}) {
		t.Errorf("color = %v", got)
	}
	for _, name := range []string{"previous", "next", "halfWidth", "offset", "texCoord"} {
		if !bnd.Disabled[name] {
			t.Errorf("attribute %s not disabled", name)
		}
	}
	if want := []gputest.Draw{{Mode: mesh.Triangles, Count: 6}}; !reflect.DeepEqual(bnd.Draws, want) {
		t.Errorf("draws = %v, want %v", bnd.Draws, want)
	}
	backend.Destroy()
	if dev.Live() != 0 {
		t.Error("binding not released")
	}
}

func TestBackendEnablesUsedAttributes(t *testing.T) {
	dev := &gputest.Device{}
	m := mesh.Mesh{
		Geos:      make([]float32, 18),
		Offsets:   make([]float32, 12),
		TexCoords: make([]float32, 12),
		Colors:    make([]uint32, 6),
		Mode:      mesh.Triangles,
	}
	backend, err := gpu.Factory{Device: dev}.NewBackend(m)
	if err != nil {
		t.Fatal(err)
	}
	if err := backend.Upload(m.Mode, []mesh.Mesh{m}); err != nil {
		t.Fatal(err)
	}
	bnd := dev.Bindings[0]
	for _, name := range []string{"geo", "offset", "texCoord"} {
		if _, ok := bnd.Floats[name]; !ok || bnd.Disabled[name] {
			t.Errorf("attribute %s not uploaded", name)
		}
	}
	if !bnd.Disabled["halfWidth"] {
		t.Error("halfWidth not disabled")
	}
}

func TestBackendRejectsMixedLayouts(t *testing.T) {
	dev := &gputest.Device{}
	a := mesh.Mesh{Geos: make([]float32, 9), Colors: make([]uint32, 3), Mode: mesh.Triangles}
	b := a
	b.Offsets = make([]float32, 6)
	backend, _ := gpu.Factory{Device: dev}.NewBackend(a)
	if err := backend.Upload(mesh.Triangles, []mesh.Mesh{a, b}); err == nil {
		t.Error("Upload() of mixed layouts expected error")
	}
}

func TestFactoryFits(t *testing.T) {
	tri := mesh.Mesh{Geos: make([]float32, 9), Colors: make([]uint32, 3), Mode: mesh.Triangles}
	lines := mesh.Mesh{Geos: make([]float32, 6), Colors: make([]uint32, 2), Mode: mesh.Lines}
	bt := batch.NewBatch(nil, tri.Layout())
	bt.Add("a", tri)

	tests := []struct {
		name string
		f    gpu.Factory
		m    mesh.Mesh
		want bool
	}{
		{"same layout", gpu.Factory{}, tri, true},
		{"other mode", gpu.Factory{}, lines, false},
		{"under cap", gpu.Factory{MaxVertices: 6}, tri, true},
		{"over cap", gpu.Factory{MaxVertices: 5}, tri, false},
	}
	for _, tt := range tests {
		if got := tt.f.Fits(bt, tt.m); got != tt.want {
			t.Errorf("%s: Fits() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFactoryResourceFailure(t *testing.T) {
	dev := &gputest.Device{Err: errors.New("out of memory")}
	_, err := gpu.Factory{Device: dev}.NewBackend(mesh.Mesh{})
	if !errors.Is(err, gpu.ErrResourceCreation) {
		t.Errorf("NewBackend() error = %v, want ErrResourceCreation", err)
	}
}

func TestBatcherOverDevice(t *testing.T) {
	dev := &gputest.Device{}
	b := batch.NewBatcher(gpu.Factory{Device: dev})
	tri := mesh.Mesh{Geos: make([]float32, 9), Colors: make([]uint32, 3), Mode: mesh.Triangles}
	for _, name := range []string{"foo", "bar"} {
		if err := b.Insert(mesh.RenderableGraphic{Name: name, ZIndex: 1, Meshes: []mesh.Mesh{tri}}); err != nil {
			t.Fatal(err)
		}
	}
	for range 2 {
		if err := b.Draw(); err != nil {
			t.Fatal(err)
		}
	}
	// One upload of geo and one of color, then a draw per frame.
	if got := dev.Uploads(); got != 2 {
		t.Errorf("Uploads() = %d, want 2", got)
	}
	if want := []gputest.Draw{{Mode: mesh.Triangles, Count: 6}, {Mode: mesh.Triangles, Count: 6}}; !reflect.DeepEqual(dev.Draws(), want) {
		t.Errorf("Draws() = %v, want %v", dev.Draws(), want)
	}
	b.Delete("foo")
	b.Delete("bar")
	if dev.Live() != 0 {
		t.Errorf("Live() = %d after deleting everything", dev.Live())
	}
}
