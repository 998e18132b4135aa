package geo

import (
	"testing"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance_ShortRange(t *testing.T) {
	// Two points in central Delhi roughly 87 m apart.
	a := orb.Point{77.2090, 28.6139}
	b := orb.Point{77.2095, 28.6145}

	d := Distance(a, b)

	assert.InDelta(t, 85, d, 10)
}

func TestDistance_ZeroForSamePoint(t *testing.T) {
	p := orb.Point{77.2090, 28.6139}

	assert.Zero(t, Distance(p, p))
}

func TestDistance_Symmetric(t *testing.T) {
	a := orb.Point{77.2090, 28.6139}
	b := orb.Point{77.3000, 28.7000}

	assert.InDelta(t, Distance(a, b), Distance(b, a), 0.001)
}

func TestGrid_SetAndWithin(t *testing.T) {
	grid := NewGrid(1.0)
	center := orb.Point{77.2090, 28.6139}

	near := uuid.New()
	far := uuid.New()
	grid.Set(near, orb.Point{77.2095, 28.6145})  // ~87 m away
	grid.Set(far, orb.Point{77.2500, 28.6139})   // ~4 km away

	got := grid.Within(center, 1000)

	require.Len(t, got, 1)
	assert.Contains(t, got, near)
	assert.InDelta(t, 85, got[near], 10)
}

func TestGrid_WithinFindsNeighborsAcrossCells(t *testing.T) {
	grid := NewGrid(1.0)

	// Entities straddling a cell boundary must still be found.
	ids := make([]uuid.UUID, 0, 4)
	points := []orb.Point{
		{77.2090, 28.6139},
		{77.2190, 28.6139},
		{77.2090, 28.6239},
		{77.1990, 28.6039},
	}
	for _, pt := range points {
		id := uuid.New()
		ids = append(ids, id)
		grid.Set(id, pt)
	}

	got := grid.Within(orb.Point{77.2090, 28.6139}, 2000)

	for _, id := range ids {
		assert.Contains(t, got, id)
	}
}

func TestGrid_SetMovesEntity(t *testing.T) {
	grid := NewGrid(1.0)
	id := uuid.New()

	grid.Set(id, orb.Point{77.2090, 28.6139})
	grid.Set(id, orb.Point{77.5000, 28.9000})

	assert.Equal(t, 1, grid.Len())
	assert.Empty(t, grid.Within(orb.Point{77.2090, 28.6139}, 1000))
	assert.Contains(t, grid.Within(orb.Point{77.5000, 28.9000}, 1000), id)
}

func TestGrid_Remove(t *testing.T) {
	grid := NewGrid(1.0)
	id := uuid.New()

	grid.Set(id, orb.Point{77.2090, 28.6139})
	grid.Remove(id)
	grid.Remove(id) // second remove is a no-op

	assert.Zero(t, grid.Len())
	assert.Empty(t, grid.Within(orb.Point{77.2090, 28.6139}, 1000))
}
