package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

var _ repository.WalletRepository = (*walletRepo)(nil)

type walletRepo struct{ pool *pgxpool.Pool }

func NewWalletRepo(pool *pgxpool.Pool) *walletRepo {
	return &walletRepo{pool: pool}
}

// CreditBalance upserts the user's wallet row on the unique user_id key, so
// a first commission creates the wallet in the same statement.
func (r *walletRepo) CreditBalance(ctx context.Context, tx repository.Tx, userID string, amount int64) (string, error) {
	const q = `
INSERT INTO wallets (id, user_id, balance, balance_pending, total_earnings, total_payout, created_at, updated_at)
VALUES (gen_random_uuid()::text, $1, $2, 0, $2, 0, NOW(), NOW())
ON CONFLICT (user_id) DO UPDATE SET
  balance=wallets.balance+$2, total_earnings=wallets.total_earnings+$2, updated_at=NOW()
RETURNING id;`

	row, err := pickRow(ctx, r.pool, tx, q, userID, amount)
	if err != nil {
		return "", err
	}
	var id string
	if err := row.Scan(&id); err != nil {
		return "", domain.ErrReadDatabaseRow
	}
	return id, nil
}

func (r *walletRepo) CreditPending(ctx context.Context, tx repository.Tx, userID string, amount int64) (string, error) {
	const q = `
INSERT INTO wallets (id, user_id, balance, balance_pending, total_earnings, total_payout, created_at, updated_at)
VALUES (gen_random_uuid()::text, $1, 0, $2, 0, 0, NOW(), NOW())
ON CONFLICT (user_id) DO UPDATE SET
  balance_pending=wallets.balance_pending+$2, updated_at=NOW()
RETURNING id;`

	row, err := pickRow(ctx, r.pool, tx, q, userID, amount)
	if err != nil {
		return "", err
	}
	var id string
	if err := row.Scan(&id); err != nil {
		return "", domain.ErrReadDatabaseRow
	}
	return id, nil
}

// SettlePending releases an approved (or rejected) hold. release leaves the
// pending balance; credit, which may be adjusted or zero, enters the
// withdrawable balance.
func (r *walletRepo) SettlePending(ctx context.Context, tx repository.Tx, walletID string, release, credit int64) error {
	const q = `
UPDATE wallets SET
  balance_pending=balance_pending-$2,
  balance=balance+$3,
  total_earnings=total_earnings+$3,
  updated_at=NOW()
WHERE id=$1;`

	_, err := execSQL(ctx, r.pool, tx, q, walletID, release, credit)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *walletRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Wallet, error) {
	const q = `SELECT id, user_id, balance, balance_pending, total_earnings, total_payout, created_at, updated_at FROM wallets WHERE user_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	w := &model.Wallet{}
	if err := row.Scan(&w.ID, &w.UserID, &w.Balance, &w.BalancePending, &w.TotalEarnings, &w.TotalPayout, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, mapScanError(err)
	}
	return w, nil
}

func (r *walletRepo) SaveTransaction(ctx context.Context, tx repository.Tx, wt *model.WalletTransaction) error {
	const q = `
INSERT INTO wallet_transactions (id, wallet_id, amount, type, description, reference, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7);`

	_, err := execSQL(ctx, r.pool, tx, q, wt.ID, wt.WalletID, wt.Amount, wt.Type, wt.Description, wt.Reference, wt.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *walletRepo) ListTransactions(ctx context.Context, tx repository.Tx, walletID string, limit int) ([]*model.WalletTransaction, error) {
	const q = `SELECT id, wallet_id, amount, type, description, reference, created_at FROM wallet_transactions WHERE wallet_id=$1 ORDER BY created_at DESC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, walletID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.WalletTransaction
	for rows.Next() {
		wt := &model.WalletTransaction{}
		if err := rows.Scan(&wt.ID, &wt.WalletID, &wt.Amount, &wt.Type, &wt.Description, &wt.Reference, &wt.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, wt)
	}
	return out, rows.Err()
}

func (r *walletRepo) SavePayout(ctx context.Context, tx repository.Tx, p *model.Payout) error {
	const q = `
INSERT INTO payouts (id, wallet_id, amount, status, method, account_details, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7);`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.WalletID, p.Amount, p.Status, p.Method, p.AccountDetails, p.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

// DebitBalance guards against overdraw in the WHERE clause; zero rows
// affected means the balance was insufficient.
func (r *walletRepo) DebitBalance(ctx context.Context, tx repository.Tx, walletID string, amount int64) error {
	const q = `UPDATE wallets SET balance=balance-$2, total_payout=total_payout+$2, updated_at=NOW() WHERE id=$1 AND balance >= $2;`
	tag, err := execSQL(ctx, r.pool, tx, q, walletID, amount)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientBalance
	}
	return nil
}

var _ repository.PendingRevenueRepository = (*pendingRevenueRepo)(nil)

type pendingRevenueRepo struct{ pool *pgxpool.Pool }

func NewPendingRevenueRepo(pool *pgxpool.Pool) *pendingRevenueRepo {
	return &pendingRevenueRepo{pool: pool}
}

const pendingRevenueColumns = `id, wallet_id, transaction_id, amount, type, percentage, status, adjusted_amount, adjustment_note, approved_by, approved_at, created_at`

func scanPendingRevenue(row rowScanner) (*model.PendingRevenue, error) {
	pr := &model.PendingRevenue{}
	if err := row.Scan(&pr.ID, &pr.WalletID, &pr.TransactionID, &pr.Amount, &pr.Type, &pr.Percentage, &pr.Status, &pr.AdjustedAmount, &pr.AdjustmentNote, &pr.ApprovedBy, &pr.ApprovedAt, &pr.CreatedAt); err != nil {
		return nil, mapScanError(err)
	}
	return pr, nil
}

func (r *pendingRevenueRepo) Save(ctx context.Context, tx repository.Tx, pr *model.PendingRevenue) error {
	const q = `
INSERT INTO pending_revenues (id, wallet_id, transaction_id, amount, type, percentage, status, adjusted_amount, adjustment_note, approved_by, approved_at, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12);`

	_, err := execSQL(ctx, r.pool, tx, q, pr.ID, pr.WalletID, pr.TransactionID, pr.Amount, pr.Type, pr.Percentage, pr.Status, pr.AdjustedAmount, pr.AdjustmentNote, pr.ApprovedBy, pr.ApprovedAt, pr.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *pendingRevenueRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PendingRevenue, error) {
	q := `SELECT ` + pendingRevenueColumns + ` FROM pending_revenues WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanPendingRevenue(row)
}

func (r *pendingRevenueRepo) ListPending(ctx context.Context, tx repository.Tx, limit int) ([]*model.PendingRevenue, error) {
	q := `SELECT ` + pendingRevenueColumns + ` FROM pending_revenues WHERE status='PENDING' ORDER BY created_at LIMIT $1;`
	rows, err := queryRows(ctx, r.pool, tx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.PendingRevenue
	for rows.Next() {
		pr, err := scanPendingRevenue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

// Decide is first-writer-wins on status; a second decision sees zero rows
// affected and reports false.
func (r *pendingRevenueRepo) Decide(ctx context.Context, tx repository.Tx, id string, status model.PendingRevenueStatus, adjustedAmount *int64, note, approvedBy string) (bool, error) {
	const q = `
UPDATE pending_revenues SET
  status=$2, adjusted_amount=$3, adjustment_note=$4, approved_by=$5, approved_at=NOW()
WHERE id=$1 AND status='PENDING';`

	tag, err := execSQL(ctx, r.pool, tx, q, id, status, adjustedAmount, note, approvedBy)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return tag.RowsAffected() > 0, nil
}
