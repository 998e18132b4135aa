package impl

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"farmradar/config"
	"farmradar/internal/domain/entity"
	domainerrors "farmradar/internal/domain/errors"
	"farmradar/internal/domain/repository"
	"farmradar/internal/errors"
	"farmradar/internal/infra/geo"
	"farmradar/internal/usecase"

	"github.com/google/uuid"
)

// nearbyProductLimit caps the product names attached to nearby-vendor rows
// and vendor-nearby events.
const nearbyProductLimit = 5

type proximityService struct {
	positions  repository.PositionStore
	vendorRepo repository.VendorRepository
	prefRepo   repository.PreferenceRepository
	proximity  *config.ProximityConfig
	logger     *slog.Logger
	now        func() time.Time
}

// NewProximityService creates the proximity scan engine.
func NewProximityService(
	positions repository.PositionStore,
	vendorRepo repository.VendorRepository,
	prefRepo repository.PreferenceRepository,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.ProximityUsecase {
	return &proximityService{
		positions:  positions,
		vendorRepo: vendorRepo,
		prefRepo:   prefRepo,
		proximity:  cfg.Proximity,
		logger:     logger,
		now:        time.Now,
	}
}

// ScanVendor evaluates one vendor against every active consumer around it.
// A missing or stale vendor position yields a scan with no position and no
// candidates, which the notifier interprets as the vendor departing all of
// its tracked pairs.
func (s *proximityService) ScanVendor(ctx context.Context, vendorID uuid.UUID) (*usecase.VendorScan, error) {
	vendor, err := s.vendorRepo.FindVendorByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, repository.ErrVendorNotFound) {
			return nil, domainerrors.ErrVendorNotFound
		}

		return nil, err
	}

	scan := &usecase.VendorScan{Vendor: vendor}
	if !vendor.IsActive {
		return scan, nil
	}

	pos, err := s.positions.Latest(ctx, vendorID)
	if err != nil {
		if errors.Is(err, repository.ErrPositionNotFound) {
			return scan, nil
		}

		return nil, err
	}
	scan.Position = pos

	consumers, err := s.positions.ActiveWithin(ctx, entity.RoleConsumer, pos.Lat(), pos.Lon(), s.proximity.MaxSearchRadiusMeters)
	if err != nil {
		return nil, err
	}
	if len(consumers) == 0 {
		return scan, nil
	}

	consumerIDs := make([]uuid.UUID, 0, len(consumers))
	for _, consumerPos := range consumers {
		consumerIDs = append(consumerIDs, consumerPos.EntityID)
	}

	prefsByConsumer, err := s.prefRepo.FindByConsumers(ctx, consumerIDs)
	if err != nil {
		return nil, err
	}

	now := s.now()
	scan.Candidates = make([]*usecase.PairCandidate, 0, len(consumers))
	for _, consumerPos := range consumers {
		distance := geo.Distance(pos.Point, consumerPos.Point)
		scan.Candidates = append(scan.Candidates, s.buildCandidate(
			vendorID, consumerPos.EntityID, distance, vendor.Rating,
			prefsByConsumer[consumerPos.EntityID], now,
		))
	}

	return scan, nil
}

// ScanConsumer evaluates one consumer against every active vendor around it.
func (s *proximityService) ScanConsumer(ctx context.Context, consumerID uuid.UUID) ([]*usecase.VendorScan, error) {
	pos, err := s.positions.Latest(ctx, consumerID)
	if err != nil {
		if errors.Is(err, repository.ErrPositionNotFound) {
			return []*usecase.VendorScan{}, nil
		}

		return nil, err
	}

	prefs := s.preferencesFor(ctx, consumerID)

	vendorPositions, err := s.positions.ActiveWithin(ctx, entity.RoleVendor, pos.Lat(), pos.Lon(), s.proximity.MaxSearchRadiusMeters)
	if err != nil {
		return nil, err
	}

	now := s.now()
	scans := make([]*usecase.VendorScan, 0, len(vendorPositions))
	for _, vendorPos := range vendorPositions {
		vendor, err := s.vendorRepo.FindVendorByID(ctx, vendorPos.EntityID)
		if err != nil {
			if errors.Is(err, repository.ErrVendorNotFound) {
				// Position without a profile, e.g. the profile was deleted
				// while a session was live. Skip it.
				continue
			}

			return nil, err
		}

		distance := geo.Distance(vendorPos.Point, pos.Point)
		candidate := s.applyPreferences(vendorPos.EntityID, consumerID, distance, vendor.Rating, prefs, now)
		if !vendor.IsActive {
			candidate.WithinRadius = false
		}

		scans = append(scans, &usecase.VendorScan{
			Vendor:     vendor,
			Position:   vendorPos,
			Candidates: []*usecase.PairCandidate{candidate},
		})
	}

	return scans, nil
}

// NearbyVendors answers a consumer's pull query for vendors currently in
// range. The rating filter does not apply here; it only gates notifications.
func (s *proximityService) NearbyVendors(ctx context.Context, consumerID uuid.UUID, radiusMeters float64) ([]*usecase.NearbyVendor, error) {
	pos, err := s.positions.Latest(ctx, consumerID)
	if err != nil {
		if errors.Is(err, repository.ErrPositionNotFound) {
			return nil, domainerrors.ErrStalePosition
		}

		return nil, err
	}

	if radiusMeters <= 0 {
		radiusMeters = s.preferencesFor(ctx, consumerID).RadiusMeters
	}
	radiusMeters = s.clampRadius(radiusMeters)

	vendorPositions, err := s.positions.ActiveWithin(ctx, entity.RoleVendor, pos.Lat(), pos.Lon(), radiusMeters)
	if err != nil {
		return nil, err
	}

	nearby := make([]*usecase.NearbyVendor, 0, len(vendorPositions))
	for _, vendorPos := range vendorPositions {
		vendor, err := s.vendorRepo.FindVendorByID(ctx, vendorPos.EntityID)
		if err != nil {
			if errors.Is(err, repository.ErrVendorNotFound) {
				continue
			}

			return nil, err
		}
		if !vendor.IsActive {
			continue
		}

		products, err := s.vendorRepo.FindActiveProducts(ctx, vendor.ID, nearbyProductLimit)
		if err != nil {
			return nil, err
		}

		nearby = append(nearby, &usecase.NearbyVendor{
			Vendor:         vendor,
			DistanceMeters: geo.Distance(vendorPos.Point, pos.Point),
			Products:       products,
		})
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceMeters < nearby[j].DistanceMeters
	})

	return nearby, nil
}

// buildCandidate annotates one pair with the consumer's effective radius and
// suppression verdict.
func (s *proximityService) buildCandidate(vendorID, consumerID uuid.UUID, distance, vendorRating float64, prefs *entity.ConsumerPreferences, now time.Time) *usecase.PairCandidate {
	if prefs == nil {
		prefs = entity.DefaultConsumerPreferences(consumerID, s.proximity.DefaultRadiusMeters)
	}

	return s.applyPreferences(vendorID, consumerID, distance, vendorRating, prefs, now)
}

func (s *proximityService) applyPreferences(vendorID, consumerID uuid.UUID, distance, vendorRating float64, prefs *entity.ConsumerPreferences, now time.Time) *usecase.PairCandidate {
	candidate := &usecase.PairCandidate{
		VendorID:       vendorID,
		ConsumerID:     consumerID,
		DistanceMeters: distance,
	}

	if err := prefs.Validate(); err != nil {
		// Malformed stored preferences never crash a cycle: the consumer is
		// treated as suppressed until the record is fixed.
		s.logger.Warn("malformed consumer preferences, suppressing for this cycle",
			slog.String("consumer_id", consumerID.String()),
			slog.String("error", err.Error()),
		)
		candidate.WithinRadius = distance <= s.clampRadius(s.proximity.DefaultRadiusMeters)
		candidate.Suppressed = true

		return candidate
	}

	candidate.WithinRadius = distance <= s.clampRadius(prefs.RadiusMeters)
	candidate.Suppressed = prefs.SuppressedAt(now, vendorRating)

	return candidate
}

// preferencesFor loads a consumer's preferences, falling back to defaults.
func (s *proximityService) preferencesFor(ctx context.Context, consumerID uuid.UUID) *entity.ConsumerPreferences {
	prefs, err := s.prefRepo.FindByConsumer(ctx, consumerID)
	if err != nil {
		if !errors.Is(err, repository.ErrPreferencesNotFound) {
			s.logger.Warn("failed to load consumer preferences, using defaults",
				slog.String("consumer_id", consumerID.String()),
				slog.String("error", err.Error()),
			)
		}

		return entity.DefaultConsumerPreferences(consumerID, s.proximity.DefaultRadiusMeters)
	}

	return prefs
}

func (s *proximityService) clampRadius(radius float64) float64 {
	if radius < s.proximity.MinRadiusMeters {
		return s.proximity.MinRadiusMeters
	}
	if radius > s.proximity.MaxRadiusMeters {
		return s.proximity.MaxRadiusMeters
	}

	return radius
}
