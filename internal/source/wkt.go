package source

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb/encoding/wkt"
)

// ParseWKT parses one WKT geometry: POINT, MULTIPOINT, LINESTRING,
// MULTILINESTRING, POLYGON, MULTIPOLYGON or GEOMETRYCOLLECTION.
func ParseWKT(s string) (Data, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Data{}, errors.New("wkt: empty")
	}
	g, err := wkt.Unmarshal(s)
	if err != nil {
		if errors.Is(err, wkt.ErrUnsupportedGeometry) {
			return Data{}, errors.Mark(errors.Wrap(err, "wkt"), ErrUnsupported)
		}
		return Data{}, errors.Wrap(err, "wkt")
	}
	var d Data
	d.Add(g)
	return nonEmpty(d)
}
