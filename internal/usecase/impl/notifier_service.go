package impl

import (
	"context"
	"log/slog"
	"time"

	"farmradar/config"
	deliverycontext "farmradar/internal/delivery/context"
	"farmradar/internal/domain/entity"
	domainerrors "farmradar/internal/domain/errors"
	"farmradar/internal/domain/repository"
	"farmradar/internal/domain/service"
	"farmradar/internal/errors"
	"farmradar/internal/usecase"

	"github.com/google/uuid"
)

// settledPairTTL is how long a settled pair record survives before the
// sweeper drops it.
const settledPairTTL = 10 * time.Minute

type notifierService struct {
	proximity        usecase.ProximityUsecase
	notificationRepo repository.NotificationRepository
	vendorRepo       repository.VendorRepository
	publisher        service.EventPublisher
	cfg              *config.ProximityConfig
	logger           *slog.Logger
	pairs            *pairTable
	now              func() time.Time
}

// NewNotifierService creates the transition engine. It is the single owner
// of the pair-state records; nothing else mutates them.
func NewNotifierService(
	proximity usecase.ProximityUsecase,
	notificationRepo repository.NotificationRepository,
	vendorRepo repository.VendorRepository,
	publisher service.EventPublisher,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.NotifierUsecase {
	return &notifierService{
		proximity:        proximity,
		notificationRepo: notificationRepo,
		vendorRepo:       vendorRepo,
		publisher:        publisher,
		cfg:              cfg.Proximity,
		logger:           logger,
		pairs:            newPairTable(),
		now:              time.Now,
	}
}

// ProcessVendor advances every pair of one vendor. Consumers the scan still
// sees are advanced with their fresh evaluation; tracked consumers the scan
// no longer sees are advanced as out of range, which is how departures and
// consumer staleness surface.
func (s *notifierService) ProcessVendor(ctx context.Context, vendorID uuid.UUID) (int, error) {
	scan, err := s.proximity.ScanVendor(ctx, vendorID)
	if err != nil {
		return 0, err
	}

	return s.advanceVendor(ctx, scan), nil
}

// ProcessConsumer advances every pair of one consumer. Vendors the scan sees
// get fresh evaluations; tracked vendors outside the scan are advanced as
// out of range.
func (s *notifierService) ProcessConsumer(ctx context.Context, consumerID uuid.UUID) (int, error) {
	scans, err := s.proximity.ScanConsumer(ctx, consumerID)
	if err != nil {
		return 0, err
	}

	now := s.now()
	emitted := 0
	seen := make(map[uuid.UUID]struct{}, len(scans))

	for _, scan := range scans {
		seen[scan.Vendor.ID] = struct{}{}
		emitted += s.advancePair(ctx, scan.Vendor, scan.Candidates[0], now)
	}

	// Vendors that track this consumer but fell out of the scan radius.
	for _, vendorID := range s.pairs.vendorsForConsumer(consumerID) {
		if _, ok := seen[vendorID]; ok {
			continue
		}

		vendor, err := s.vendorRepo.FindVendorByID(ctx, vendorID)
		if err != nil {
			s.logger.Warn("failed to load vendor for departure processing",
				slog.String("vendor_id", vendorID.String()),
				slog.String("error", err.Error()),
			)

			continue
		}

		s.pairs.withVendor(vendorID, func(get func(uuid.UUID) *entity.PairState, _ func() []*entity.PairState) {
			state := get(consumerID)
			tr := state.Depart(now, s.cfg.Cooldown)
			emitted += s.emit(ctx, vendor, state, tr)
		})
	}

	return emitted, nil
}

// Acknowledge records a consumer's dismissal of an active notification. The
// pair enters cooldown silently; no event is published for a dismissal.
func (s *notifierService) Acknowledge(ctx context.Context, consumerID, notificationID uuid.UUID) error {
	notification, err := s.notificationRepo.FindNotificationByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return domainerrors.ErrNotificationNotFound
		}

		return err
	}
	if notification.ConsumerID != consumerID {
		return domainerrors.ErrNotificationNotFound
	}

	now := s.now()
	if err := s.notificationRepo.MarkAcknowledged(ctx, notificationID, now); err != nil {
		return err
	}

	s.pairs.withVendor(notification.VendorID, func(get func(uuid.UUID) *entity.PairState, _ func() []*entity.PairState) {
		state := get(consumerID)
		state.Dismiss(now, s.cfg.Cooldown)
	})

	return nil
}

// NotificationHistory lists a consumer's notifications, newest first.
func (s *notifierService) NotificationHistory(ctx context.Context, consumerID uuid.UUID, limit, offset int) ([]*entity.ProximityNotification, error) {
	return s.notificationRepo.FindRecentByConsumer(ctx, consumerID, limit, offset)
}

// SweepStale re-evaluates every tracked vendor so pairs whose vendor
// position went stale depart, then drops settled pair records. Stale
// consumer positions age out the same way: the vendor scan no longer sees
// them, so their pairs are advanced out of range.
func (s *notifierService) SweepStale(ctx context.Context) (int, error) {
	for _, vendorID := range s.pairs.trackedVendors() {
		scan, err := s.proximity.ScanVendor(ctx, vendorID)
		if err != nil {
			s.logger.Warn("sweep: vendor scan failed",
				slog.String("vendor_id", vendorID.String()),
				slog.String("error", err.Error()),
			)

			continue
		}

		s.advanceVendor(ctx, scan)
	}

	now := s.now()
	removed := s.pairs.dropSettled(now, now.Add(-settledPairTTL))
	if removed > 0 {
		s.logger.Debug("sweep: dropped settled pairs",
			slog.Int("removed", removed),
			slog.Int("tracked", s.pairs.len()),
		)
	}

	return removed, nil
}

// advanceVendor applies one vendor scan to all of that vendor's pairs under
// the vendor's shard lock, so a concurrent evaluation of the same vendor
// cannot interleave and per-pair event order holds.
func (s *notifierService) advanceVendor(ctx context.Context, scan *usecase.VendorScan) int {
	now := s.now()
	emitted := 0

	s.pairs.withVendor(scan.Vendor.ID, func(get func(uuid.UUID) *entity.PairState, tracked func() []*entity.PairState) {
		seen := make(map[uuid.UUID]struct{}, len(scan.Candidates))
		for _, candidate := range scan.Candidates {
			seen[candidate.ConsumerID] = struct{}{}

			state := get(candidate.ConsumerID)
			tr := state.Advance(entity.PairInput{
				DistanceMeters: candidate.DistanceMeters,
				WithinRadius:   candidate.WithinRadius,
				Suppressed:     candidate.Suppressed,
				Now:            now,
			}, s.cfg.Cooldown)
			emitted += s.emit(ctx, scan.Vendor, state, tr)
		}

		// Tracked consumers the scan no longer sees: out of the search
		// radius, stale, or gone. All read as a departure.
		for _, state := range tracked() {
			if _, ok := seen[state.ConsumerID]; ok {
				continue
			}

			tr := state.Depart(now, s.cfg.Cooldown)
			emitted += s.emit(ctx, scan.Vendor, state, tr)
		}
	})

	return emitted
}

// advancePair applies one candidate evaluation under the vendor's shard lock.
func (s *notifierService) advancePair(ctx context.Context, vendor *entity.VendorProfile, candidate *usecase.PairCandidate, now time.Time) int {
	emitted := 0
	s.pairs.withVendor(vendor.ID, func(get func(uuid.UUID) *entity.PairState, _ func() []*entity.PairState) {
		state := get(candidate.ConsumerID)
		tr := state.Advance(entity.PairInput{
			DistanceMeters: candidate.DistanceMeters,
			WithinRadius:   candidate.WithinRadius,
			Suppressed:     candidate.Suppressed,
			Now:            now,
		}, s.cfg.Cooldown)
		emitted = s.emit(ctx, vendor, state, tr)
	})

	return emitted
}

// emit persists and publishes the event of one transition, if any. Must be
// called while holding the vendor's shard lock so events leave in seq order.
func (s *notifierService) emit(ctx context.Context, vendor *entity.VendorProfile, state *entity.PairState, tr entity.Transition) int {
	if tr.Emit == entity.EventNone {
		return 0
	}

	logger := deliverycontext.GetLoggerOrDefault(ctx, s.logger)

	notificationID := service.NotificationID(vendor.ID, state.ConsumerID, tr.At)
	if tr.Emit == entity.EventVendorNearby {
		state.ActiveNotificationID = notificationID
	}

	notification := &entity.ProximityNotification{
		ID:             notificationID,
		VendorID:       vendor.ID,
		ConsumerID:     state.ConsumerID,
		Kind:           tr.Emit,
		DistanceMeters: state.LastDistanceMeters,
		Seq:            tr.Seq,
		CreatedAt:      tr.At,
	}
	if err := s.notificationRepo.CreateNotification(ctx, notification); err != nil {
		if !errors.Is(err, repository.ErrDuplicateNotification) {
			logger.Error("failed to persist notification",
				slog.String("notification_id", notificationID.String()),
				slog.String("error", err.Error()),
			)
			// The event is still published: delivery is at-least-once and
			// the worker tolerates records it cannot look up.
		}
	}

	event := &service.ProximityEvent{
		RequestID:      deliverycontext.GetRequestIDFromContext(ctx),
		Type:           tr.Emit,
		VendorID:       vendor.ID.String(),
		VendorName:     vendor.Name,
		ConsumerID:     state.ConsumerID.String(),
		DistanceMeters: state.LastDistanceMeters,
		NotificationID: notificationID.String(),
		Seq:            tr.Seq,
		Timestamp:      tr.At,
	}
	if tr.Emit == entity.EventVendorNearby {
		event.Products = s.productNames(ctx, vendor.ID)
	}

	if err := s.publisher.PublishProximityEvent(ctx, event); err != nil {
		logger.Error("failed to publish proximity event",
			slog.String("notification_id", notificationID.String()),
			slog.String("type", string(tr.Emit)),
			slog.String("error", err.Error()),
		)

		return 0
	}

	return 1
}

// productNames fetches the short product list attached to nearby events.
func (s *notifierService) productNames(ctx context.Context, vendorID uuid.UUID) []string {
	products, err := s.vendorRepo.FindActiveProducts(ctx, vendorID, nearbyProductLimit)
	if err != nil {
		s.logger.Warn("failed to load vendor products for event",
			slog.String("vendor_id", vendorID.String()),
			slog.String("error", err.Error()),
		)

		return nil
	}

	names := make([]string, 0, len(products))
	for _, product := range products {
		names = append(names, product.Name)
	}

	return names
}
