package shape

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/golang/geo/r2"

	"geomesh/internal/coords"
	"geomesh/internal/units"
)

// ErrUnknownType is returned when decoding a literal with an unknown
// discriminant.
var ErrUnknownType = errors.New("shape: unknown type")

// ErrInvalidLiteral is returned when a literal lacks a field its variant
// needs.
var ErrInvalidLiteral = errors.New("shape: invalid literal")

// latLong is [lat, lon] in degrees.
type latLong [2]float64

// literal is the plain key-value form of every Shape variant. Radius is
// metres for GeoCircle and pixels for GeoRelativeCircle.
type literal struct {
	Type      Type         `json:"type"`
	Centre    *latLong     `json:"centre,omitempty"`
	Reference *latLong     `json:"reference,omitempty"`
	Radius    float64      `json:"radius,omitempty"`
	Vertices  []latLong    `json:"vertices,omitempty"`
	Offsets   [][2]float64 `json:"offsets,omitempty"`
	Offset    *[2]float64  `json:"offset,omitempty"`
	Text      string       `json:"text,omitempty"`
	Color     *Color       `json:"color,omitempty"`
	Scale     float64      `json:"scale,omitempty"`
	Stroke    *Stroke      `json:"stroke,omitempty"`
	Fill      *Fill        `json:"fill,omitempty"`
}

// Encode returns the JSON literal of s.
func Encode(s Shape) ([]byte, error) {
	return json.Marshal(s.literal())
}

// Decode parses a literal produced by Encode.
func Decode(b []byte) (Shape, error) {
	var l literal
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, errors.Wrap(err, "shape: decode")
	}
	return l.shape()
}

type graphicLiteral struct {
	Name   string            `json:"name"`
	ZIndex int               `json:"zIndex"`
	Shapes []json.RawMessage `json:"shapes"`
}

func (g Graphic) MarshalJSON() ([]byte, error) {
	gl := graphicLiteral{Name: g.Name, ZIndex: g.ZIndex, Shapes: make([]json.RawMessage, len(g.Shapes))}
	for i, s := range g.Shapes {
		b, err := Encode(s)
		if err != nil {
			return nil, err
		}
		gl.Shapes[i] = b
	}
	return json.Marshal(gl)
}

func (g *Graphic) UnmarshalJSON(b []byte) error {
	var gl graphicLiteral
	if err := json.Unmarshal(b, &gl); err != nil {
		return err
	}
	shapes := make([]Shape, len(gl.Shapes))
	for i, raw := range gl.Shapes {
		s, err := Decode(raw)
		if err != nil {
			return errors.Wrapf(err, "graphic %q shape %d", gl.Name, i)
		}
		shapes[i] = s
	}
	*g = Graphic{Name: gl.Name, ZIndex: gl.ZIndex, Shapes: shapes}
	return nil
}

func (s GeoCircle) literal() literal {
	return literal{Type: s.Type(), Centre: toLatLong(s.Centre), Radius: s.Radius.Metres(), Stroke: s.Paint.Stroke, Fill: s.Paint.Fill}
}

func (s GeoPolygon) literal() literal {
	return literal{Type: s.Type(), Vertices: toLatLongs(s.Vertices), Stroke: s.Paint.Stroke, Fill: s.Paint.Fill}
}

func (s GeoPolyline) literal() literal {
	st := s.Stroke
	return literal{Type: s.Type(), Vertices: toLatLongs(s.Vertices), Stroke: &st}
}

func (s GeoRelativeCircle) literal() literal {
	return literal{Type: s.Type(), Centre: toLatLong(s.Centre), Radius: s.Radius, Stroke: s.Paint.Stroke, Fill: s.Paint.Fill}
}

func (s GeoRelativePolygon) literal() literal {
	return literal{Type: s.Type(), Reference: toLatLong(s.Reference), Offsets: toPairs(s.Offsets), Stroke: s.Paint.Stroke, Fill: s.Paint.Fill}
}

func (s GeoRelativePolyline) literal() literal {
	st := s.Stroke
	return literal{Type: s.Type(), Reference: toLatLong(s.Reference), Offsets: toPairs(s.Offsets), Stroke: &st}
}

func (s GeoRelativeText) literal() literal {
	c := s.Color
	return literal{Type: s.Type(), Reference: toLatLong(s.Reference), Offset: &[2]float64{s.Offset.X, s.Offset.Y},
		Text: s.Text, Color: &c, Scale: s.Scale}
}

func (l literal) shape() (Shape, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	paint := Paint{Stroke: l.Stroke, Fill: l.Fill}
	switch l.Type {
	case TypeGeoCircle:
		return GeoCircle{Centre: fromLatLong(l.Centre), Radius: units.Metres(l.Radius), Paint: paint}, nil
	case TypeGeoPolygon:
		return GeoPolygon{Vertices: fromLatLongs(l.Vertices), Paint: paint}, nil
	case TypeGeoPolyline:
		return GeoPolyline{Vertices: fromLatLongs(l.Vertices), Stroke: *l.Stroke}, nil
	case TypeGeoRelativeCircle:
		return GeoRelativeCircle{Centre: fromLatLong(l.Centre), Radius: l.Radius, Paint: paint}, nil
	case TypeGeoRelativePolygon:
		return GeoRelativePolygon{Reference: fromLatLong(l.Reference), Offsets: fromPairs(l.Offsets), Paint: paint}, nil
	case TypeGeoRelativePolyline:
		return GeoRelativePolyline{Reference: fromLatLong(l.Reference), Offsets: fromPairs(l.Offsets), Stroke: *l.Stroke}, nil
	case TypeGeoRelativeText:
		return GeoRelativeText{
			Reference: fromLatLong(l.Reference),
			Offset:    r2.Point{X: l.Offset[0], Y: l.Offset[1]},
			Text:      l.Text,
			Color:     *l.Color,
			Scale:     l.Scale,
		}, nil
	}
	return nil, errors.Wrapf(ErrUnknownType, "%q", l.Type)
}

// check reports the first field l.Type needs that the literal omits.
// Zero numbers and empty text are legal since Encode omits them.
func (l literal) check() error {
	var missing string
	switch l.Type {
	case TypeGeoCircle, TypeGeoRelativeCircle:
		if l.Centre == nil {
			missing = "centre"
		}
	case TypeGeoPolygon:
		if l.Vertices == nil {
			missing = "vertices"
		}
	case TypeGeoPolyline:
		switch {
		case l.Vertices == nil:
			missing = "vertices"
		case l.Stroke == nil:
			missing = "stroke"
		}
	case TypeGeoRelativePolygon, TypeGeoRelativePolyline:
		switch {
		case l.Reference == nil:
			missing = "reference"
		case l.Offsets == nil:
			missing = "offsets"
		case l.Type == TypeGeoRelativePolyline && l.Stroke == nil:
			missing = "stroke"
		}
	case TypeGeoRelativeText:
		switch {
		case l.Reference == nil:
			missing = "reference"
		case l.Offset == nil:
			missing = "offset"
		case l.Color == nil:
			missing = "color"
		}
	}
	if missing != "" {
		return errors.Wrapf(ErrInvalidLiteral, "%s without %s", l.Type, missing)
	}
	return nil
}

func toLatLong(ll coords.LatLong) *latLong {
	return &latLong{ll.Lat.Degrees(), ll.Long.Degrees()}
}

func fromLatLong(l *latLong) coords.LatLong {
	return coords.LatLongDegrees(l[0], l[1])
}

func toLatLongs(lls []coords.LatLong) []latLong {
	out := make([]latLong, len(lls))
	for i, ll := range lls {
		out[i] = *toLatLong(ll)
	}
	return out
}

func fromLatLongs(ls []latLong) []coords.LatLong {
	if ls == nil {
		return nil
	}
	out := make([]coords.LatLong, len(ls))
	for i := range ls {
		out[i] = fromLatLong(&ls[i])
	}
	return out
}

func toPairs(ps []r2.Point) [][2]float64 {
	out := make([][2]float64, len(ps))
	for i, p := range ps {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

func fromPairs(ps [][2]float64) []r2.Point {
	if ps == nil {
		return nil
	}
	out := make([]r2.Point, len(ps))
	for i, p := range ps {
		out[i] = r2.Point{X: p[0], Y: p[1]}
	}
	return out
}
