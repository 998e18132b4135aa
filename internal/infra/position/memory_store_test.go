package position

import (
	"context"
	"testing"
	"time"

	"farmradar/internal/domain/entity"
	"farmradar/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPosition(id uuid.UUID, role entity.Role, lat, lon float64, capturedAt time.Time) *entity.Position {
	return &entity.Position{
		EntityID:   id,
		Role:       role,
		Point:      orbPoint(lon, lat),
		CapturedAt: capturedAt,
	}
}

func TestMemoryStore_UpsertAndLatest(t *testing.T) {
	now := time.Now()
	store := newMemoryStore(5*time.Minute, 1.0, func() time.Time { return now })
	ctx := context.Background()

	vendorID := uuid.New()
	require.NoError(t, store.Upsert(ctx, testPosition(vendorID, entity.RoleVendor, 28.6139, 77.2090, now)))

	got, err := store.Latest(ctx, vendorID)
	require.NoError(t, err)
	assert.Equal(t, vendorID, got.EntityID)
	assert.InDelta(t, 28.6139, got.Lat(), 0.0001)
	assert.InDelta(t, 77.2090, got.Lon(), 0.0001)
}

func TestMemoryStore_LatestUnknownEntity(t *testing.T) {
	store := newMemoryStore(5*time.Minute, 1.0, time.Now)

	_, err := store.Latest(context.Background(), uuid.New())

	assert.ErrorIs(t, err, repository.ErrPositionNotFound)
}

func TestMemoryStore_NewReportSupersedesOld(t *testing.T) {
	now := time.Now()
	store := newMemoryStore(5*time.Minute, 1.0, func() time.Time { return now })
	ctx := context.Background()

	vendorID := uuid.New()
	require.NoError(t, store.Upsert(ctx, testPosition(vendorID, entity.RoleVendor, 28.6139, 77.2090, now.Add(-time.Minute))))
	require.NoError(t, store.Upsert(ctx, testPosition(vendorID, entity.RoleVendor, 28.7000, 77.3000, now)))

	got, err := store.Latest(ctx, vendorID)
	require.NoError(t, err)
	assert.InDelta(t, 28.7000, got.Lat(), 0.0001)

	// The grid index moved with the entity.
	near, err := store.ActiveWithin(ctx, entity.RoleVendor, 28.6139, 77.2090, 500)
	require.NoError(t, err)
	assert.Empty(t, near)
}

func TestMemoryStore_StalePositionIsAbsent(t *testing.T) {
	current := time.Now()
	store := newMemoryStore(5*time.Minute, 1.0, func() time.Time { return current })
	ctx := context.Background()

	vendorID := uuid.New()
	require.NoError(t, store.Upsert(ctx, testPosition(vendorID, entity.RoleVendor, 28.6139, 77.2090, current)))

	current = current.Add(6 * time.Minute)

	_, err := store.Latest(ctx, vendorID)
	assert.ErrorIs(t, err, repository.ErrPositionNotFound)

	active, err := store.ActiveWithin(ctx, entity.RoleVendor, 28.6139, 77.2090, 1000)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestMemoryStore_ActiveWithinFiltersByRoleAndRadius(t *testing.T) {
	now := time.Now()
	store := newMemoryStore(5*time.Minute, 1.0, func() time.Time { return now })
	ctx := context.Background()

	nearConsumer := uuid.New()
	farConsumer := uuid.New()
	vendor := uuid.New()

	require.NoError(t, store.Upsert(ctx, testPosition(nearConsumer, entity.RoleConsumer, 28.6145, 77.2095, now)))
	require.NoError(t, store.Upsert(ctx, testPosition(farConsumer, entity.RoleConsumer, 28.7000, 77.3000, now)))
	require.NoError(t, store.Upsert(ctx, testPosition(vendor, entity.RoleVendor, 28.6140, 77.2091, now)))

	got, err := store.ActiveWithin(ctx, entity.RoleConsumer, 28.6139, 77.2090, 1000)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, nearConsumer, got[0].EntityID)
}

func TestMemoryStore_Remove(t *testing.T) {
	now := time.Now()
	store := newMemoryStore(5*time.Minute, 1.0, func() time.Time { return now })
	ctx := context.Background()

	vendorID := uuid.New()
	require.NoError(t, store.Upsert(ctx, testPosition(vendorID, entity.RoleVendor, 28.6139, 77.2090, now)))
	require.NoError(t, store.Remove(ctx, vendorID, entity.RoleVendor))

	_, err := store.Latest(ctx, vendorID)
	assert.ErrorIs(t, err, repository.ErrPositionNotFound)
}

func TestMemoryStore_CompactDropsStaleEntries(t *testing.T) {
	current := time.Now()
	store := newMemoryStore(5*time.Minute, 1.0, func() time.Time { return current })
	ctx := context.Background()

	stale := uuid.New()
	fresh := uuid.New()
	require.NoError(t, store.Upsert(ctx, testPosition(stale, entity.RoleVendor, 28.6139, 77.2090, current.Add(-10*time.Minute))))
	require.NoError(t, store.Upsert(ctx, testPosition(fresh, entity.RoleVendor, 28.6139, 77.2090, current)))

	removed, err := store.Compact(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = store.Latest(ctx, fresh)
	assert.NoError(t, err)

	// Compacting again finds nothing left to drop.
	removed, err = store.Compact(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
