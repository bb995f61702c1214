package repository

import (
	"context"
	"time"

	"eksporyuk-platform/internal/domain/model"
)

type TransactionRepository interface {
	Save(ctx context.Context, tx Tx, t *model.Transaction) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Transaction, error)
	FindByExternalID(ctx context.Context, tx Tx, externalID string) (*model.Transaction, error)
	// UpdateStatusIfPending atomically moves a PENDING transaction to the
	// given status and reports whether this call won the transition. Losing
	// callers (duplicate webhook deliveries) must treat false as a no-op.
	UpdateStatusIfPending(ctx context.Context, tx Tx, id string, status model.TransactionStatus, paidAt *time.Time) (bool, error)
	// SetCommissionBreakdown stamps the split onto a SUCCESS transaction.
	SetCommissionBreakdown(ctx context.Context, tx Tx, id string, affiliate, admin, founder, cofounder int64) error
	ListPendingOlderThan(ctx context.Context, tx Tx, olderThan time.Time, limit int) ([]*model.Transaction, error)
	ListPendingCreatedBetween(ctx context.Context, tx Tx, from, to time.Time, limit int) ([]*model.Transaction, error)
	SumByPeriod(ctx context.Context, tx Tx, period string) (int64, error)
}
