package geo

import (
	"math"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// metersPerDegreeLat is the approximate north-south span of one degree.
const metersPerDegreeLat = 111_000.0

// cellKey addresses one grid cell by rounded coordinate buckets.
type cellKey struct {
	latCell int
	lonCell int
}

// Grid is a dynamic grid-based spatial index over entity positions. It keeps
// radius queries from scanning every tracked entity: candidates come from the
// cells overlapping the query's bounding box and are then exact-filtered with
// the haversine distance.
//
// Grid is not safe for concurrent use; callers wrap it with their own lock.
type Grid struct {
	cellSizeDeg float64
	cells       map[cellKey]map[uuid.UUID]orb.Point
	byID        map[uuid.UUID]cellKey
}

// NewGrid creates a grid index with the given cell size.
// cellSizeKm determines the bucket granularity (smaller = more cells, faster
// lookup but more memory).
func NewGrid(cellSizeKm float64) *Grid {
	return &Grid{
		cellSizeDeg: cellSizeKm * 1000 / metersPerDegreeLat,
		cells:       make(map[cellKey]map[uuid.UUID]orb.Point),
		byID:        make(map[uuid.UUID]cellKey),
	}
}

// Set inserts or moves an entity's position.
func (g *Grid) Set(id uuid.UUID, pt orb.Point) {
	key := g.keyFor(pt)

	if prev, ok := g.byID[id]; ok {
		if prev == key {
			g.cells[prev][id] = pt

			return
		}
		g.removeFromCell(id, prev)
	}

	cell, ok := g.cells[key]
	if !ok {
		cell = make(map[uuid.UUID]orb.Point)
		g.cells[key] = cell
	}
	cell[id] = pt
	g.byID[id] = key
}

// Remove drops an entity from the index.
func (g *Grid) Remove(id uuid.UUID) {
	key, ok := g.byID[id]
	if !ok {
		return
	}
	g.removeFromCell(id, key)
	delete(g.byID, id)
}

// Len returns the number of indexed entities.
func (g *Grid) Len() int {
	return len(g.byID)
}

// Within returns the IDs of all entities within radiusMeters of center,
// together with their exact haversine distance.
func (g *Grid) Within(center orb.Point, radiusMeters float64) map[uuid.UUID]float64 {
	if len(g.byID) == 0 {
		return nil
	}

	dLat := radiusMeters / metersPerDegreeLat
	// Longitude degrees shrink with latitude; clamp the cosine away from the
	// poles to keep the bounding box finite.
	cosLat := math.Cos(center.Lat() * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	dLon := radiusMeters / (metersPerDegreeLat * cosLat)

	minKey := g.keyFor(orb.Point{center.Lon() - dLon, center.Lat() - dLat})
	maxKey := g.keyFor(orb.Point{center.Lon() + dLon, center.Lat() + dLat})

	result := make(map[uuid.UUID]float64)
	for latCell := minKey.latCell; latCell <= maxKey.latCell; latCell++ {
		for lonCell := minKey.lonCell; lonCell <= maxKey.lonCell; lonCell++ {
			for id, pt := range g.cells[cellKey{latCell: latCell, lonCell: lonCell}] {
				if d := Distance(center, pt); d <= radiusMeters {
					result[id] = d
				}
			}
		}
	}

	return result
}

func (g *Grid) keyFor(pt orb.Point) cellKey {
	return cellKey{
		latCell: int(math.Floor(pt.Lat() / g.cellSizeDeg)),
		lonCell: int(math.Floor(pt.Lon() / g.cellSizeDeg)),
	}
}

func (g *Grid) removeFromCell(id uuid.UUID, key cellKey) {
	cell, ok := g.cells[key]
	if !ok {
		return
	}
	delete(cell, id)
	if len(cell) == 0 {
		delete(g.cells, key)
	}
}
