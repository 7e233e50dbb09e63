// Package shape defines the declarative geometry handed to the mesher: the
// Shape variants, their paint, named z-indexed graphics, and the plain JSON
// literal form used to move them across goroutine or process boundaries.
package shape

import (
	"github.com/golang/geo/r2"

	"geomesh/internal/coords"
	"geomesh/internal/units"
)

// Type discriminates the Shape variants in their literal form.
type Type string

const (
	TypeGeoCircle           Type = "GeoCircle"
	TypeGeoPolygon          Type = "GeoPolygon"
	TypeGeoPolyline         Type = "GeoPolyline"
	TypeGeoRelativeCircle   Type = "GeoRelativeCircle"
	TypeGeoRelativePolygon  Type = "GeoRelativePolygon"
	TypeGeoRelativePolyline Type = "GeoRelativePolyline"
	TypeGeoRelativeText     Type = "GeoRelativeText"
)

// Stroke is an outline of Width pixels.
type Stroke struct {
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}

// Fill paints the interior.
type Fill struct {
	Color Color `json:"color"`
}

// Paint holds an optional stroke and an optional fill.
type Paint struct {
	Stroke *Stroke `json:"stroke,omitempty"`
	Fill   *Fill   `json:"fill,omitempty"`
}

// Shape is one of the Geo* or GeoRelative* variants. Shapes are values and
// are never modified after construction.
type Shape interface {
	Type() Type
	literal() literal
}

// GeoCircle is a circle of a surface radius around an absolute position.
type GeoCircle struct {
	Centre coords.LatLong
	Radius units.Length
	Paint  Paint
}

// GeoPolygon is a simple polygon with absolute vertices.
type GeoPolygon struct {
	Vertices []coords.LatLong
	Paint    Paint
}

// GeoPolyline is an open line through absolute vertices.
type GeoPolyline struct {
	Vertices []coords.LatLong
	Stroke   Stroke
}

// GeoRelativeCircle is a circle of Radius pixels anchored at Centre.
type GeoRelativeCircle struct {
	Centre coords.LatLong
	Radius float64
	Paint  Paint
}

// GeoRelativePolygon is a polygon whose vertices are pixel offsets from
// Reference, X right and Y down.
type GeoRelativePolygon struct {
	Reference coords.LatLong
	Offsets   []r2.Point
	Paint     Paint
}

// GeoRelativePolyline is an open line of pixel offsets from Reference.
type GeoRelativePolyline struct {
	Reference coords.LatLong
	Offsets   []r2.Point
	Stroke    Stroke
}

// GeoRelativeText is a single line of text whose top-left corner sits at
// Offset pixels from Reference. Scale multiplies the glyph size.
type GeoRelativeText struct {
	Reference coords.LatLong
	Offset    r2.Point
	Text      string
	Color     Color
	Scale     float64
}

func (GeoCircle) Type() Type           { return TypeGeoCircle }
func (GeoPolygon) Type() Type          { return TypeGeoPolygon }
func (GeoPolyline) Type() Type         { return TypeGeoPolyline }
func (GeoRelativeCircle) Type() Type   { return TypeGeoRelativeCircle }
func (GeoRelativePolygon) Type() Type  { return TypeGeoRelativePolygon }
func (GeoRelativePolyline) Type() Type { return TypeGeoRelativePolyline }
func (GeoRelativeText) Type() Type     { return TypeGeoRelativeText }

// Graphic is a named, z-indexed collection of shapes. The name identifies
// the graphic for replacement and deletion; higher z-indices draw on top.
type Graphic struct {
	Name   string
	ZIndex int
	Shapes []Shape
}
