package impl

import (
	"sync"
	"time"

	"farmradar/internal/domain/entity"

	"github.com/google/uuid"
)

const pairShardCount = 32

type pairKey struct {
	vendorID   uuid.UUID
	consumerID uuid.UUID
}

type pairShard struct {
	mu    sync.Mutex
	pairs map[pairKey]*entity.PairState
}

// pairTable holds the in-memory per-pair state records, sharded by vendor so
// that all pairs of one vendor live behind a single mutex. That gives the
// notifier its per-vendor serialization: two evaluations of the same vendor
// cannot interleave, keeping per-pair sequence numbers monotonic.
type pairTable struct {
	shards [pairShardCount]*pairShard
}

func newPairTable() *pairTable {
	t := &pairTable{}
	for i := range t.shards {
		t.shards[i] = &pairShard{pairs: make(map[pairKey]*entity.PairState)}
	}

	return t
}

func (t *pairTable) shardFor(vendorID uuid.UUID) *pairShard {
	// The first byte of a UUID is effectively random for v4/v7 IDs.
	return t.shards[int(vendorID[0])%pairShardCount]
}

// withVendor runs fn while holding the vendor's shard lock. All state
// mutations for that vendor's pairs must happen inside fn.
func (t *pairTable) withVendor(vendorID uuid.UUID, fn func(get func(consumerID uuid.UUID) *entity.PairState, tracked func() []*entity.PairState)) {
	shard := t.shardFor(vendorID)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	get := func(consumerID uuid.UUID) *entity.PairState {
		key := pairKey{vendorID: vendorID, consumerID: consumerID}
		state, ok := shard.pairs[key]
		if !ok {
			state = entity.NewPairState(vendorID, consumerID)
			shard.pairs[key] = state
		}

		return state
	}

	tracked := func() []*entity.PairState {
		states := make([]*entity.PairState, 0)
		for key, state := range shard.pairs {
			if key.vendorID == vendorID {
				states = append(states, state)
			}
		}

		return states
	}

	fn(get, tracked)
}

// vendorsForConsumer returns the vendors that currently track a pair with the
// given consumer. Used on consumer movement to advance pairs with vendors the
// scan no longer sees.
func (t *pairTable) vendorsForConsumer(consumerID uuid.UUID) []uuid.UUID {
	vendors := make([]uuid.UUID, 0)
	for _, shard := range t.shards {
		shard.mu.Lock()
		for key := range shard.pairs {
			if key.consumerID == consumerID {
				vendors = append(vendors, key.vendorID)
			}
		}
		shard.mu.Unlock()
	}

	return vendors
}

// trackedVendors returns every vendor with at least one pair record.
func (t *pairTable) trackedVendors() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	for _, shard := range t.shards {
		shard.mu.Lock()
		for key := range shard.pairs {
			seen[key.vendorID] = struct{}{}
		}
		shard.mu.Unlock()
	}

	vendors := make([]uuid.UUID, 0, len(seen))
	for vendorID := range seen {
		vendors = append(vendors, vendorID)
	}

	return vendors
}

// dropSettled removes pair records that carry no pending obligations: pairs
// that are Inactive, or in Cooldown with the cooldown already elapsed and not
// updated since cutoff. Returns the number of records removed.
func (t *pairTable) dropSettled(now time.Time, cutoff time.Time) int {
	removed := 0
	for _, shard := range t.shards {
		shard.mu.Lock()
		for key, state := range shard.pairs {
			settled := state.Status == entity.PairInactive ||
				(state.Status == entity.PairCooldown && now.After(state.CooldownUntil))
			if settled && state.UpdatedAt.Before(cutoff) {
				delete(shard.pairs, key)
				removed++
			}
		}
		shard.mu.Unlock()
	}

	return removed
}

// len returns the total number of tracked pairs.
func (t *pairTable) len() int {
	total := 0
	for _, shard := range t.shards {
		shard.mu.Lock()
		total += len(shard.pairs)
		shard.mu.Unlock()
	}

	return total
}
