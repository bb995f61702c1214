package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"eksporyuk-platform/internal/usecase"
)

// PaymentReconciler expires stale pending invoices so abandoned checkouts do
// not linger forever.
type PaymentReconciler struct {
	interval time.Duration
	payments usecase.PaymentUseCase
	log      *zerolog.Logger
}

func NewPaymentReconciler(interval time.Duration, payments usecase.PaymentUseCase, logger *zerolog.Logger) *PaymentReconciler {
	compLog := logger.With().Str("component", "PaymentReconciler").Logger()
	return &PaymentReconciler{
		interval: interval,
		payments: payments,
		log:      &compLog,
	}
}

func (w *PaymentReconciler) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting payment reconciler")
	w.reconcile(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping payment reconciler")
			return ctx.Err()
		case <-ticker.C:
			w.reconcile(ctx)
		}
	}
}

func (w *PaymentReconciler) reconcile(ctx context.Context) {
	n, err := w.payments.ExpireStale(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("stale invoice reconcile failed")
		return
	}
	if n > 0 {
		w.log.Info().Int("count", n).Msg("stale invoices expired")
	}
}
