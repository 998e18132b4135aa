// Package sweeper runs the periodic staleness sweep of the proximity
// pipeline: vendors that stopped reporting are departed, settled pair
// records are dropped, and the position store is compacted.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"farmradar/config"
	"farmradar/internal/delivery"
	"farmradar/internal/domain/repository"
	"farmradar/internal/usecase"

	"go.uber.org/fx"
)

type sweeper struct {
	interval   time.Duration
	logger     *slog.Logger
	notifierUC usecase.NotifierUsecase
	positions  repository.PositionStore
	stop       chan struct{}
	done       chan struct{}
}

// Params holds dependencies for the sweeper, injected by Fx.
type Params struct {
	fx.In

	Lc         fx.Lifecycle
	Cfg        *config.Config
	Logger     *slog.Logger
	NotifierUC usecase.NotifierUsecase
	Positions  repository.PositionStore
}

// New creates the staleness sweeper.
func New(params Params) (delivery.Delivery, error) {
	s := &sweeper{
		interval:   params.Cfg.Proximity.SweepInterval,
		logger:     params.Logger,
		notifierUC: params.NotifierUC,
		positions:  params.Positions,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: s.shutdown,
	})

	return s, nil
}

// Serve runs the sweep loop until shutdown.
func (s *sweeper) Serve(ctx context.Context) error {
	defer close(s.done)

	s.logger.Info("Starting staleness sweeper", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stop:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// sweep departs stale pairs first so departure events still see the
// pair state, then compacts the position store.
func (s *sweeper) sweep(ctx context.Context) {
	pairsRemoved, err := s.notifierUC.SweepStale(ctx)
	if err != nil {
		s.logger.Error("Staleness sweep failed", slog.Any("error", err))
	}

	positionsRemoved, err := s.positions.Compact(ctx)
	if err != nil {
		s.logger.Error("Position store compaction failed", slog.Any("error", err))
	}

	if pairsRemoved > 0 || positionsRemoved > 0 {
		s.logger.Info("Staleness sweep completed",
			slog.Int("pairs_removed", pairsRemoved),
			slog.Int("positions_removed", positionsRemoved),
		)
	}
}

func (s *sweeper) shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down staleness sweeper")
	close(s.stop)

	select {
	case <-s.done:
	case <-ctx.Done():
	}

	return nil
}
