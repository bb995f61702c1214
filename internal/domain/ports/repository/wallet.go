package repository

import (
	"context"

	"eksporyuk-platform/internal/domain/model"
)

type WalletRepository interface {
	// CreditBalance upserts the user's wallet and adds amount to the
	// withdrawable balance (and total earnings), returning the wallet id.
	CreditBalance(ctx context.Context, tx Tx, userID string, amount int64) (string, error)
	// CreditPending upserts the wallet and adds amount to the pending
	// balance, returning the wallet id.
	CreditPending(ctx context.Context, tx Tx, userID string, amount int64) (string, error)
	// SettlePending moves approved funds from pending to balance. The
	// credited amount may differ from the released amount when an admin
	// adjusted the revenue before approval; rejected revenue releases with
	// credit == 0.
	SettlePending(ctx context.Context, tx Tx, walletID string, release, credit int64) error
	FindByUser(ctx context.Context, tx Tx, userID string) (*model.Wallet, error)
	SaveTransaction(ctx context.Context, tx Tx, wt *model.WalletTransaction) error
	ListTransactions(ctx context.Context, tx Tx, walletID string, limit int) ([]*model.WalletTransaction, error)
	SavePayout(ctx context.Context, tx Tx, p *model.Payout) error
	// DebitBalance subtracts amount from the withdrawable balance and adds
	// it to total payout; insufficient funds surface
	// domain.ErrInsufficientBalance.
	DebitBalance(ctx context.Context, tx Tx, walletID string, amount int64) error
}

type PendingRevenueRepository interface {
	Save(ctx context.Context, tx Tx, pr *model.PendingRevenue) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.PendingRevenue, error)
	ListPending(ctx context.Context, tx Tx, limit int) ([]*model.PendingRevenue, error)
	// Decide moves a PENDING row to its final status and reports whether
	// this call won the transition (compare-and-set on status).
	Decide(ctx context.Context, tx Tx, id string, status model.PendingRevenueStatus, adjustedAmount *int64, note, approvedBy string) (bool, error)
}
