// Package gputest provides an in-memory gpu.Device that records what it is
// asked to do.
package gputest

import (
	"image"

	"github.com/cockroachdb/errors"

	"geomesh/internal/gpu"
	"geomesh/internal/mesh"
)

// Draw is one recorded draw call.
type Draw struct {
	Mode  mesh.DrawMode
	Count int
}

// Device records bindings, uniforms and the texture.
type Device struct {
	Bindings []*Binding
	Uniforms gpu.Uniforms
	Texture  image.Image
	// Err, when set, is returned by NewBinding.
	Err error
}

var _ gpu.Device = (*Device)(nil)

func (d *Device) NewBinding() (gpu.Binding, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	b := &Binding{
		Floats:   make(map[string][]float32),
		Uints:    make(map[string][]uint32),
		Disabled: make(map[string]bool),
	}
	d.Bindings = append(d.Bindings, b)
	return b, nil
}

func (d *Device) SetUniforms(u gpu.Uniforms) { d.Uniforms = u }

func (d *Device) SetTexture(img image.Image) error {
	d.Texture = img
	return nil
}

// Live counts bindings not yet released.
func (d *Device) Live() int {
	n := 0
	for _, b := range d.Bindings {
		if !b.Released {
			n++
		}
	}
	return n
}

// Uploads counts attribute uploads over every binding.
func (d *Device) Uploads() int {
	n := 0
	for _, b := range d.Bindings {
		n += b.Uploads
	}
	return n
}

// Draws returns every draw call in order of binding creation.
func (d *Device) Draws() []Draw {
	var out []Draw
	for _, b := range d.Bindings {
		out = append(out, b.Draws...)
	}
	return out
}

// Binding records attribute data and draw calls.
type Binding struct {
	Floats   map[string][]float32
	Uints    map[string][]uint32
	Disabled map[string]bool
	Uploads  int
	Draws    []Draw
	Released bool
}

var errReleased = errors.New("gputest: binding released")

func (b *Binding) UploadFloat32(a gpu.Attribute, data []float32) error {
	if b.Released {
		return errReleased
	}
	b.Floats[a.Name] = append([]float32(nil), data...)
	delete(b.Disabled, a.Name)
	b.Uploads++
	return nil
}

func (b *Binding) UploadUint32(a gpu.Attribute, data []uint32) error {
	if b.Released {
		return errReleased
	}
	b.Uints[a.Name] = append([]uint32(nil), data...)
	delete(b.Disabled, a.Name)
	b.Uploads++
	return nil
}

func (b *Binding) Disable(a gpu.Attribute) {
	delete(b.Floats, a.Name)
	delete(b.Uints, a.Name)
	b.Disabled[a.Name] = true
}

func (b *Binding) Draw(mode mesh.DrawMode, count int) error {
	if b.Released {
		return errReleased
	}
	b.Draws = append(b.Draws, Draw{Mode: mode, Count: count})
	return nil
}

func (b *Binding) Release() { b.Released = true }
