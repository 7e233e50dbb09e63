// Package gpu is the boundary between the batch stack and whatever draws
// the pixels. A Device hands out Bindings; a Binding holds named vertex
// attribute arrays and draws them.
package gpu

import (
	"image"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"

	"geomesh/internal/coords"
	"geomesh/internal/mesh"
)

var (
	ErrUnknownAttribute = errors.New("gpu: unknown attribute")
	// ErrResourceCreation marks a failure to create a binding or texture.
	ErrResourceCreation = errors.New("gpu: resource creation failed")
)

// AttributeType is the component type of an attribute.
type AttributeType uint8

const (
	Float32 AttributeType = iota + 1
	Uint32
)

// Attribute describes one per-vertex input.
type Attribute struct {
	Name       string
	Components int
	Type       AttributeType
}

var (
	AttrGeo       = Attribute{Name: "geo", Components: 3, Type: Float32}
	AttrPrevious  = Attribute{Name: "previous", Components: 3, Type: Float32}
	AttrNext      = Attribute{Name: "next", Components: 3, Type: Float32}
	AttrHalfWidth = Attribute{Name: "halfWidth", Components: 1, Type: Float32}
	AttrOffset    = Attribute{Name: "offset", Components: 2, Type: Float32}
	AttrColor     = Attribute{Name: "color", Components: 1, Type: Uint32}
	AttrTexCoord  = Attribute{Name: "texCoord", Components: 2, Type: Float32}
)

// Attributes lists every attribute a mesh can use.
var Attributes = []Attribute{AttrGeo, AttrPrevious, AttrNext, AttrHalfWidth, AttrOffset, AttrColor, AttrTexCoord}

// LookupAttribute returns the attribute called name.
func LookupAttribute(name string) (Attribute, error) {
	for _, a := range Attributes {
		if a.Name == name {
			return a, nil
		}
	}
	return Attribute{}, errors.Wrapf(ErrUnknownAttribute, "%q", name)
}

// Uniforms is the per-frame view state shared by every draw call.
type Uniforms struct {
	Projection coords.StereographicProjection
	Affine     coords.CanvasAffineTransform
	Clip       mgl32.Mat3
	Width      int
	Height     int
	MiterLimit float64
}

// Binding owns the buffers of one batch.
type Binding interface {
	UploadFloat32(a Attribute, data []float32) error
	UploadUint32(a Attribute, data []uint32) error
	// Disable leaves a at its default value for every vertex.
	Disable(a Attribute)
	Draw(mode mesh.DrawMode, count int) error
	Release()
}

// Device creates bindings and holds state shared between them.
type Device interface {
	NewBinding() (Binding, error)
	SetUniforms(u Uniforms)
	SetTexture(img image.Image) error
}
