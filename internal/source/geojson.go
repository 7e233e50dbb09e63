package source

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb/geojson"
)

// ParseGeoJSON reads a FeatureCollection, a Feature or a bare geometry.
// Features with a "name" property contribute a label at the centre of
// their bound.
func ParseGeoJSON(b []byte) (Data, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return Data{}, errors.Wrap(err, "geojson")
	}
	var d Data
	switch head.Type {
	case "":
		return Data{}, errors.New("geojson: missing type")
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(b)
		if err != nil {
			return Data{}, errors.Wrap(err, "geojson")
		}
		for _, f := range fc.Features {
			d.addFeature(f)
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(b)
		if err != nil {
			return Data{}, errors.Wrap(err, "geojson")
		}
		d.addFeature(f)
	default:
		g, err := geojson.UnmarshalGeometry(b)
		if err != nil {
			return Data{}, errors.Mark(errors.Wrapf(err, "geojson type %q", head.Type), ErrUnsupported)
		}
		d.Add(g.Geometry())
	}
	return nonEmpty(d)
}

func (d *Data) addFeature(f *geojson.Feature) {
	if f == nil || f.Geometry == nil {
		return
	}
	d.Add(f.Geometry)
	if name := f.Properties.MustString("name", ""); name != "" {
		d.Labels = append(d.Labels, Label{Point: f.Geometry.Bound().Center(), Text: name})
	}
}
