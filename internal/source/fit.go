package source

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"geomesh/internal/coords"
	"geomesh/internal/units"
)

// minFitRange keeps a single point from zooming in to the metre limit.
const minFitRange = 1000 // metres

// Fit returns the view centre and range across the canvas width that show
// b on a width x height canvas with a margin. Bounds crossing the
// antimeridian are not handled.
func Fit(b orb.Bound, width, height int) (coords.LatLong, units.Length) {
	c := b.Center()
	across := geo.Distance(orb.Point{b.Min.Lon(), c.Lat()}, orb.Point{b.Max.Lon(), c.Lat()})
	down := geo.Distance(orb.Point{c.Lon(), b.Min.Lat()}, orb.Point{c.Lon(), b.Max.Lat()})
	if width > 0 && height > 0 {
		down *= float64(width) / float64(height)
	}
	r := math.Max(math.Max(across, down)*1.2, minFitRange)
	return coords.LatLongDegrees(c.Lat(), c.Lon()), units.Metres(r)
}
