package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"eksporyuk-platform/internal/usecase"
)

// ReminderWorker nudges buyers whose invoices have sat unpaid for a while.
// The scan window equals the tick interval so each invoice is reminded once.
type ReminderWorker struct {
	interval time.Duration
	payments usecase.PaymentUseCase
	log      *zerolog.Logger
}

func NewReminderWorker(interval time.Duration, payments usecase.PaymentUseCase, logger *zerolog.Logger) *ReminderWorker {
	compLog := logger.With().Str("component", "ReminderWorker").Logger()
	return &ReminderWorker{
		interval: interval,
		payments: payments,
		log:      &compLog,
	}
}

func (w *ReminderWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting payment reminder worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping payment reminder worker")
			return ctx.Err()
		case <-ticker.C:
			sent, err := w.payments.RemindPending(ctx, w.interval)
			if err != nil {
				w.log.Error().Err(err).Msg("payment reminder scan failed")
				continue
			}
			if sent > 0 {
				w.log.Info().Int("count", sent).Msg("payment reminders queued")
			}
		}
	}
}
