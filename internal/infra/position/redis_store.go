package position

import (
	"context"
	"encoding/json"
	"time"

	"farmradar/internal/domain/entity"
	"farmradar/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// redisStore keeps live positions in Redis: one geo set per role for radius
// queries plus a per-entity JSON document whose TTL is the staleness window,
// so expiry and staleness are the same mechanism.
type redisStore struct {
	client    *redis.Client
	staleness time.Duration
}

// NewRedisStore creates a Redis-backed position store.
func NewRedisStore(client *redis.Client, staleness time.Duration) repository.PositionStore {
	return &redisStore{
		client:    client,
		staleness: staleness,
	}
}

func geoSetKey(role entity.Role) string {
	return "positions:" + string(role)
}

func entityKey(entityID uuid.UUID) string {
	return "position:" + entityID.String()
}

func (s *redisStore) Upsert(ctx context.Context, pos *entity.Position) error {
	payload, err := json.Marshal(pos)
	if err != nil {
		return errors.WithStack(err)
	}

	pipe := s.client.TxPipeline()
	pipe.GeoAdd(ctx, geoSetKey(pos.Role), &redis.GeoLocation{
		Name:      pos.EntityID.String(),
		Longitude: pos.Lon(),
		Latitude:  pos.Lat(),
	})
	pipe.Set(ctx, entityKey(pos.EntityID), payload, s.staleness)

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "redis upsert position")
	}

	return nil
}

func (s *redisStore) Latest(ctx context.Context, entityID uuid.UUID) (*entity.Position, error) {
	raw, err := s.client.Get(ctx, entityKey(entityID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrPositionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get position")
	}

	var pos entity.Position
	if err := json.Unmarshal(raw, &pos); err != nil {
		return nil, errors.WithStack(err)
	}
	if pos.StaleAt(time.Now(), s.staleness) {
		return nil, repository.ErrPositionNotFound
	}

	return &pos, nil
}

func (s *redisStore) ActiveWithin(ctx context.Context, role entity.Role, lat, lon, radiusMeters float64) ([]*entity.Position, error) {
	locations, err := s.client.GeoSearchLocation(ctx, geoSetKey(role), &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  lon,
			Latitude:   lat,
			Radius:     radiusMeters,
			RadiusUnit: "m",
		},
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		return nil, errors.Wrap(err, "redis geo search")
	}

	return s.resolveMembers(ctx, role, memberNames(locations))
}

func (s *redisStore) Remove(ctx context.Context, entityID uuid.UUID, role entity.Role) error {
	pipe := s.client.TxPipeline()
	pipe.ZRem(ctx, geoSetKey(role), entityID.String())
	pipe.Del(ctx, entityKey(entityID))

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "redis remove position")
	}

	return nil
}

// Compact prunes geo set members whose document expired. The TTL only
// covers the per-entity documents; without compaction the geo sets
// accumulate dead members as entities churn.
func (s *redisStore) Compact(ctx context.Context) (int, error) {
	removed := 0
	for _, role := range []entity.Role{entity.RoleVendor, entity.RoleConsumer} {
		members, err := s.client.ZRange(ctx, geoSetKey(role), 0, -1).Result()
		if err != nil {
			return removed, errors.Wrap(err, "redis zrange positions")
		}

		live, err := s.resolveMembers(ctx, role, members)
		if err != nil {
			return removed, err
		}
		removed += len(members) - len(live)
	}

	return removed, nil
}

func (s *redisStore) Staleness() time.Duration {
	return s.staleness
}

// resolveMembers loads the per-entity documents for geo set members. Members
// whose document has expired are stale: they are pruned from the geo set and
// omitted from the result.
func (s *redisStore) resolveMembers(ctx context.Context, role entity.Role, members []string) ([]*entity.Position, error) {
	if len(members) == 0 {
		return nil, nil
	}

	keys := make([]string, len(members))
	for idx, member := range members {
		keys[idx] = "position:" + member
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "redis mget positions")
	}

	now := time.Now()
	result := make([]*entity.Position, 0, len(values))
	var expired []any

	for idx, value := range values {
		raw, ok := value.(string)
		if !ok {
			expired = append(expired, members[idx])

			continue
		}

		var pos entity.Position
		if err := json.Unmarshal([]byte(raw), &pos); err != nil {
			expired = append(expired, members[idx])

			continue
		}
		if pos.Role != role || pos.StaleAt(now, s.staleness) {
			expired = append(expired, members[idx])

			continue
		}

		result = append(result, &pos)
	}

	if len(expired) > 0 {
		// Best effort cleanup; the next query prunes again if this fails.
		s.client.ZRem(ctx, geoSetKey(role), expired...)
	}

	return result, nil
}

func memberNames(locations []redis.GeoLocation) []string {
	names := make([]string, len(locations))
	for idx, loc := range locations {
		names[idx] = loc.Name
	}

	return names
}
