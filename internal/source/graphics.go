package source

import (
	"github.com/golang/geo/r2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"

	"geomesh/internal/coords"
	"geomesh/internal/shape"
)

// Layer is one of the graphics a Data set is split into.
type Layer int

const (
	LayerPolygons Layer = iota
	LayerLines
	LayerPoints
	LayerLabels
)

// Layers lists every layer, bottom first.
var Layers = []Layer{LayerPolygons, LayerLines, LayerPoints, LayerLabels}

func (l Layer) String() string {
	switch l {
	case LayerPolygons:
		return "polygons"
	case LayerLines:
		return "lines"
	case LayerPoints:
		return "points"
	case LayerLabels:
		return "labels"
	}
	return "unknown"
}

// ZIndex is the draw order of the layer; the layer constants are already
// ordered bottom to top.
func (l Layer) ZIndex() int { return int(l) }

// GraphicName is the name of layer l of the data set called name.
func GraphicName(name string, l Layer) string {
	return name + "/" + l.String()
}

// Style controls how Data becomes shapes.
type Style struct {
	Fill        shape.Color
	Stroke      shape.Color
	StrokeWidth float64
	// PointRadius is the radius of point markers in pixels.
	PointRadius float64
	LabelColor  shape.Color
	LabelScale  float64
	// Simplify is the Douglas-Peucker threshold in degrees applied to lines
	// and polygon rings. Zero keeps every vertex.
	Simplify float64
}

// DefaultStyle returns translucent blue areas with white outlines.
func DefaultStyle() Style {
	return Style{
		Fill:        shape.RGBA(0x33, 0x66, 0xcc, 0x80),
		Stroke:      shape.RGBA(0xff, 0xff, 0xff, 0xff),
		StrokeWidth: 1,
		PointRadius: 3,
		LabelColor:  shape.RGBA(0xff, 0xdd, 0x55, 0xff),
		LabelScale:  1,
	}
}

// Graphics returns one graphic per non-empty layer of d, named with
// GraphicName. Polygon holes are dropped: the shapes are simple polygons.
func Graphics(d Data, st Style) []shape.Graphic {
	var out []shape.Graphic
	add := func(l Layer, shapes []shape.Shape) {
		if len(shapes) == 0 {
			return
		}
		out = append(out, shape.Graphic{Name: GraphicName(d.Name, l), ZIndex: l.ZIndex(), Shapes: shapes})
	}
	var polys, lines, points, labels []shape.Shape
	stroke := shape.Stroke{Color: st.Stroke, Width: st.StrokeWidth}
	for _, p := range d.Polygons {
		if len(p) == 0 {
			continue
		}
		ring := st.simplify(orb.LineString(p[0]))
		vs := latLongs(ring)
		if n := len(vs); n > 1 && vs[0] == vs[n-1] {
			vs = vs[:n-1]
		}
		if len(vs) < 3 {
			continue
		}
		polys = append(polys, shape.GeoPolygon{
			Vertices: vs,
			Paint:    shape.Paint{Fill: &shape.Fill{Color: st.Fill}, Stroke: &stroke},
		})
	}
	for _, l := range d.Lines {
		vs := latLongs(st.simplify(l))
		if len(vs) < 2 {
			continue
		}
		lines = append(lines, shape.GeoPolyline{Vertices: vs, Stroke: stroke})
	}
	for _, p := range d.Points {
		points = append(points, shape.GeoRelativeCircle{
			Centre: latLong(p),
			Radius: st.PointRadius,
			Paint:  shape.Paint{Fill: &shape.Fill{Color: st.Stroke}},
		})
	}
	for _, l := range d.Labels {
		labels = append(labels, shape.GeoRelativeText{
			Reference: latLong(l.Point),
			Offset:    r2.Point{X: st.PointRadius + 2, Y: st.PointRadius + 2},
			Text:      l.Text,
			Color:     st.LabelColor,
			Scale:     st.LabelScale,
		})
	}
	add(LayerPolygons, polys)
	add(LayerLines, lines)
	add(LayerPoints, points)
	add(LayerLabels, labels)
	return out
}

func (st Style) simplify(ls orb.LineString) orb.LineString {
	if st.Simplify <= 0 || len(ls) < 3 {
		return ls
	}
	return simplify.DouglasPeucker(st.Simplify).LineString(ls.Clone())
}

func latLong(p orb.Point) coords.LatLong {
	return coords.LatLongDegrees(p.Lat(), p.Lon())
}

func latLongs(ls orb.LineString) []coords.LatLong {
	out := make([]coords.LatLong, len(ls))
	for i, p := range ls {
		out[i] = latLong(p)
	}
	return out
}
