package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"eksporyuk-platform/internal/infra/metrics"
	red "eksporyuk-platform/internal/infra/redis"
	"eksporyuk-platform/internal/usecase"
)

const expiryLockKey = "lock:membership_expiry_sweep"

// ExpiryWorker runs the membership expiry sweep. A redis lock keeps the
// sweep single-flight across replicas.
type ExpiryWorker struct {
	interval    time.Duration
	memberships usecase.MembershipUseCase
	locker      red.Locker
	log         *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, memberships usecase.MembershipUseCase, locker red.Locker, logger *zerolog.Logger) *ExpiryWorker {
	compLog := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{
		interval:    interval,
		memberships: memberships,
		locker:      locker,
		log:         &compLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting membership expiry worker")
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping membership expiry worker")
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	token, err := w.locker.TryLock(ctx, expiryLockKey, w.interval/2)
	if err != nil {
		w.log.Debug().Msg("expiry sweep already running elsewhere")
		return
	}
	defer w.locker.Unlock(ctx, expiryLockKey, token)

	expired, downgraded, err := w.memberships.ExpireDue(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("expiry sweep failed")
		return
	}
	if expired > 0 || downgraded > 0 {
		metrics.AddSweepResult("expired", expired)
		metrics.AddSweepResult("downgraded", downgraded)
		w.log.Info().Int("expired", expired).Int("downgraded", downgraded).Msg("membership sweep done")
	}
}
