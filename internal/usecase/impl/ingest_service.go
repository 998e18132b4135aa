package impl

import (
	"context"
	"log/slog"
	"time"

	"farmradar/config"
	"farmradar/internal/domain/entity"
	domainerrors "farmradar/internal/domain/errors"
	"farmradar/internal/domain/repository"
	"farmradar/internal/usecase"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

type ingestService struct {
	positions repository.PositionStore
	notifier  usecase.NotifierUsecase
	cfg       *config.ProximityConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewIngestService creates the position ingest entry point of the pipeline.
func NewIngestService(
	positions repository.PositionStore,
	notifier usecase.NotifierUsecase,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.IngestUsecase {
	return &ingestService{
		positions: positions,
		notifier:  notifier,
		cfg:       cfg.Proximity,
		logger:    logger,
		now:       time.Now,
	}
}

// ReportVendorPosition ingests a vendor sample and re-evaluates the pairs
// around the vendor.
func (s *ingestService) ReportVendorPosition(ctx context.Context, vendorID uuid.UUID, input *usecase.ReportPositionInput) (*usecase.IngestResult, error) {
	pos, err := s.accept(ctx, vendorID, entity.RoleVendor, input)
	if err != nil {
		return nil, err
	}

	emitted, err := s.notifier.ProcessVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	return &usecase.IngestResult{Position: pos, EventsEmitted: emitted}, nil
}

// ReportConsumerPosition ingests a consumer sample and re-evaluates the pairs
// around the consumer.
func (s *ingestService) ReportConsumerPosition(ctx context.Context, consumerID uuid.UUID, input *usecase.ReportPositionInput) (*usecase.IngestResult, error) {
	pos, err := s.accept(ctx, consumerID, entity.RoleConsumer, input)
	if err != nil {
		return nil, err
	}

	emitted, err := s.notifier.ProcessConsumer(ctx, consumerID)
	if err != nil {
		return nil, err
	}

	return &usecase.IngestResult{Position: pos, EventsEmitted: emitted}, nil
}

// RemovePosition drops an entity from the live store and re-evaluates so its
// pairs observe the absence immediately instead of waiting for staleness.
func (s *ingestService) RemovePosition(ctx context.Context, entityID uuid.UUID, role entity.Role) error {
	if !role.Valid() {
		return domainerrors.ErrInvalidPosition.WrapMessage("unknown role")
	}

	if err := s.positions.Remove(ctx, entityID, role); err != nil {
		return err
	}

	var err error
	if role == entity.RoleVendor {
		_, err = s.notifier.ProcessVendor(ctx, entityID)
	} else {
		_, err = s.notifier.ProcessConsumer(ctx, entityID)
	}

	return err
}

// accept validates one sample and writes it to the live store. Invalid
// samples are discarded whole; samples older than the staleness window are
// rejected rather than stored already dead.
func (s *ingestService) accept(ctx context.Context, entityID uuid.UUID, role entity.Role, input *usecase.ReportPositionInput) (*entity.Position, error) {
	now := s.now()

	capturedAt := now
	if input.CapturedAt != nil && !input.CapturedAt.IsZero() {
		capturedAt = *input.CapturedAt
	}

	pos := &entity.Position{
		EntityID:       entityID,
		Role:           role,
		Point:          orb.Point{input.Longitude, input.Latitude},
		AccuracyMeters: input.AccuracyMeters,
		CapturedAt:     capturedAt,
	}

	if err := pos.Validate(); err != nil {
		return nil, domainerrors.ErrInvalidPosition.WrapMessage(err.Error())
	}

	if pos.StaleAt(now, s.cfg.StalenessWindow) {
		s.logger.Debug("dropping stale position report",
			slog.String("entity_id", entityID.String()),
			slog.Time("captured_at", capturedAt),
		)

		return nil, domainerrors.ErrStalePosition
	}

	if err := s.positions.Upsert(ctx, pos); err != nil {
		return nil, err
	}

	return pos, nil
}
