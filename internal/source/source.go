// Package source loads vector geometry from files and turns it into
// graphics for the world.
package source

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"

	"geomesh/internal/logging"
)

var (
	// ErrUnsupported marks a file extension or geometry type the loaders
	// cannot read.
	ErrUnsupported = errors.New("source: unsupported")
	// ErrNoGeometry is returned when a file parses but holds nothing to draw.
	ErrNoGeometry = errors.New("source: no geometries found")
)

// Label is a piece of text attached to a position, taken from feature
// names.
type Label struct {
	Point orb.Point
	Text  string
}

// Data is a minimal geometry container for rendering. Points are
// [lon, lat] in degrees.
type Data struct {
	Name     string
	Points   []orb.Point
	Lines    []orb.LineString
	Polygons []orb.Polygon // first ring outer, following rings holes
	Labels   []Label
	Bound    orb.Bound
}

// Empty reports whether d has no geometry.
func (d *Data) Empty() bool {
	return len(d.Points)+len(d.Lines)+len(d.Polygons) == 0
}

// Add appends every part of g. Collections and multi-geometries are
// flattened.
func (d *Data) Add(g orb.Geometry) {
	if g == nil {
		return
	}
	first := d.Empty()
	switch g := g.(type) {
	case orb.Point:
		d.Points = append(d.Points, g)
	case orb.MultiPoint:
		d.Points = append(d.Points, g...)
	case orb.LineString:
		d.Lines = append(d.Lines, g)
	case orb.MultiLineString:
		d.Lines = append(d.Lines, g...)
	case orb.Ring:
		d.Polygons = append(d.Polygons, orb.Polygon{g})
	case orb.Polygon:
		d.Polygons = append(d.Polygons, g)
	case orb.MultiPolygon:
		d.Polygons = append(d.Polygons, g...)
	case orb.Bound:
		d.Polygons = append(d.Polygons, g.ToPolygon())
	case orb.Collection:
		for _, c := range g {
			d.Add(c)
		}
		return
	default:
		return
	}
	d.extend(g.Bound(), first)
}

func (d *Data) extend(b orb.Bound, first bool) {
	if first {
		d.Bound = b
		return
	}
	d.Bound = d.Bound.Union(b)
}

// Merge appends everything in o to d.
func (d *Data) Merge(o Data) {
	if o.Empty() {
		return
	}
	first := d.Empty()
	d.Points = append(d.Points, o.Points...)
	d.Lines = append(d.Lines, o.Lines...)
	d.Polygons = append(d.Polygons, o.Polygons...)
	d.Labels = append(d.Labels, o.Labels...)
	d.extend(o.Bound, first)
}

// Extensions lists the file extensions Load understands.
var Extensions = []string{".geojson", ".json", ".wkt", ".kml", ".csv"}

// Supported reports whether path has an extension Load understands.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load reads the file at path, choosing the format from its extension.
func Load(path string) (Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Data{}, errors.Wrapf(err, "read %s", path)
	}
	var d Data
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".geojson", ".json":
		d, err = ParseGeoJSON(b)
	case ".wkt":
		d, err = ParseWKT(string(b))
	case ".kml":
		d, err = ParseKML(b)
	case ".csv":
		d, err = ParseCSV(b)
	default:
		return Data{}, errors.Mark(errors.Newf("source: extension %q", ext), ErrUnsupported)
	}
	if err != nil {
		return Data{}, errors.Wrapf(err, "load %s", path)
	}
	d.Name = filepath.Base(path)
	logging.Logger().Info("file loaded",
		"path", path,
		"points", len(d.Points),
		"lines", len(d.Lines),
		"polygons", len(d.Polygons))
	return d, nil
}

func nonEmpty(d Data) (Data, error) {
	if d.Empty() {
		return Data{}, ErrNoGeometry
	}
	return d, nil
}
