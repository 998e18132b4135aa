// Package geo provides great-circle distance and a grid-based spatial index
// for live entity positions.
package geo

import (
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// Distance returns the great-circle distance in meters between two points,
// computed with the haversine formula on a spherical Earth. Radii in this
// system range from 100 m to 10 km, so the planar approximation is not used.
func Distance(a, b orb.Point) float64 {
	return orbgeo.DistanceHaversine(a, b)
}
