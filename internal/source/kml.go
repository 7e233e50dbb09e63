package source

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
)

type kmlCoordinates struct {
	Coordinates string `xml:"coordinates"`
}

type kmlBoundary struct {
	LinearRing kmlCoordinates `xml:"LinearRing"`
}

type kmlPolygon struct {
	Outer kmlBoundary   `xml:"outerBoundaryIs"`
	Inner []kmlBoundary `xml:"innerBoundaryIs"`
}

type kmlGeometry struct {
	Points      []kmlCoordinates `xml:"Point"`
	LineStrings []kmlCoordinates `xml:"LineString"`
	Polygons    []kmlPolygon     `xml:"Polygon"`
	Multi       []kmlGeometry    `xml:"MultiGeometry"`
}

type kmlPlacemark struct {
	Name string `xml:"name"`
	kmlGeometry
}

// ParseKML extracts Point, LineString and Polygon geometry from every
// Placemark, however deeply nested in Documents and Folders. KML
// coordinates are "lon,lat[,alt]"; altitude is ignored.
func ParseKML(b []byte) (Data, error) {
	var d Data
	dec := xml.NewDecoder(bytes.NewReader(b))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Data{}, errors.Wrap(err, "kml")
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Placemark" {
			continue
		}
		var pm kmlPlacemark
		if err := dec.DecodeElement(&pm, &se); err != nil {
			return Data{}, errors.Wrap(err, "kml placemark")
		}
		var g orb.Collection
		pm.collect(&g)
		if len(g) == 0 {
			continue
		}
		d.Add(g)
		if name := strings.TrimSpace(pm.Name); name != "" {
			d.Labels = append(d.Labels, Label{Point: g.Bound().Center(), Text: name})
		}
	}
	return nonEmpty(d)
}

func (k kmlGeometry) collect(out *orb.Collection) {
	for _, p := range k.Points {
		if pts := parseKMLCoordinates(p.Coordinates); len(pts) > 0 {
			*out = append(*out, pts[0])
		}
	}
	for _, l := range k.LineStrings {
		if pts := parseKMLCoordinates(l.Coordinates); len(pts) > 1 {
			*out = append(*out, orb.LineString(pts))
		}
	}
	for _, p := range k.Polygons {
		outer := parseKMLCoordinates(p.Outer.LinearRing.Coordinates)
		if len(outer) < 3 {
			continue
		}
		poly := orb.Polygon{orb.Ring(outer)}
		for _, in := range p.Inner {
			if pts := parseKMLCoordinates(in.LinearRing.Coordinates); len(pts) >= 3 {
				poly = append(poly, orb.Ring(pts))
			}
		}
		*out = append(*out, poly)
	}
	for _, m := range k.Multi {
		m.collect(out)
	}
}

// parseKMLCoordinates splits whitespace separated "lon,lat[,alt]" tuples,
// skipping malformed ones.
func parseKMLCoordinates(s string) []orb.Point {
	var pts []orb.Point
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		pts = append(pts, orb.Point{lon, lat})
	}
	return pts
}
