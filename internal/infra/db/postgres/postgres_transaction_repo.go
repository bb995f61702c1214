package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

var _ repository.TransactionRepository = (*transactionRepo)(nil)

type transactionRepo struct{ pool *pgxpool.Pool }

func NewTransactionRepo(pool *pgxpool.Pool) *transactionRepo {
	return &transactionRepo{pool: pool}
}

const transactionColumns = `id, invoice_number, user_id, type, status, amount, original_amount, discount_amount,
  membership_id, product_id, course_id, coupon_id, affiliate_id,
  payment_method, payment_channel, external_id, payment_url, description,
  affiliate_share, admin_fee, founder_share, cofounder_share,
  paid_at, created_at, updated_at`

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	t := &model.Transaction{}
	if err := row.Scan(
		&t.ID, &t.InvoiceNumber, &t.UserID, &t.Type, &t.Status, &t.Amount, &t.OriginalAmount, &t.DiscountAmount,
		&t.MembershipID, &t.ProductID, &t.CourseID, &t.CouponID, &t.AffiliateID,
		&t.PaymentMethod, &t.PaymentChannel, &t.ExternalID, &t.PaymentURL, &t.Description,
		&t.AffiliateShare, &t.AdminFee, &t.FounderShare, &t.CofounderShare,
		&t.PaidAt, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, mapScanError(err)
	}
	return t, nil
}

func (r *transactionRepo) Save(ctx context.Context, tx repository.Tx, t *model.Transaction) error {
	const q = `
INSERT INTO transactions (
  id, invoice_number, user_id, type, status, amount, original_amount, discount_amount,
  membership_id, product_id, course_id, coupon_id, affiliate_id,
  payment_method, payment_channel, external_id, payment_url, description,
  affiliate_share, admin_fee, founder_share, cofounder_share,
  paid_at, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25
) ON CONFLICT (id) DO UPDATE SET
  status=$5, payment_method=$14, payment_channel=$15, external_id=$16, payment_url=$17,
  description=$18, paid_at=$23, updated_at=$25;`

	_, err := execSQL(ctx, r.pool, tx, q,
		t.ID, t.InvoiceNumber, t.UserID, t.Type, t.Status, t.Amount, t.OriginalAmount, t.DiscountAmount,
		t.MembershipID, t.ProductID, t.CourseID, t.CouponID, t.AffiliateID,
		t.PaymentMethod, t.PaymentChannel, t.ExternalID, t.PaymentURL, t.Description,
		t.AffiliateShare, t.AdminFee, t.FounderShare, t.CofounderShare,
		t.PaidAt, t.CreatedAt, t.UpdatedAt)
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

func (r *transactionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Transaction, error) {
	q := `SELECT ` + transactionColumns + ` FROM transactions WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanTransaction(row)
}

func (r *transactionRepo) FindByExternalID(ctx context.Context, tx repository.Tx, externalID string) (*model.Transaction, error) {
	q := `SELECT ` + transactionColumns + ` FROM transactions WHERE external_id=$1 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, externalID)
	if err != nil {
		return nil, err
	}
	return scanTransaction(row)
}

// UpdateStatusIfPending is the idempotency gate for webhook settlement. The
// WHERE clause makes the transition first-writer-wins; duplicate deliveries
// see zero rows affected.
func (r *transactionRepo) UpdateStatusIfPending(ctx context.Context, tx repository.Tx, id string, status model.TransactionStatus, paidAt *time.Time) (bool, error) {
	const q = `UPDATE transactions SET status=$2, paid_at=COALESCE($3, paid_at), updated_at=NOW() WHERE id=$1 AND status='PENDING';`
	tag, err := execSQL(ctx, r.pool, tx, q, id, status, paidAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return tag.RowsAffected() > 0, nil
}

func (r *transactionRepo) SetCommissionBreakdown(ctx context.Context, tx repository.Tx, id string, affiliate, admin, founder, cofounder int64) error {
	const q = `UPDATE transactions SET affiliate_share=$2, admin_fee=$3, founder_share=$4, cofounder_share=$5, updated_at=NOW() WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, affiliate, admin, founder, cofounder)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *transactionRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Transaction, error) {
	q := `SELECT ` + transactionColumns + ` FROM transactions WHERE status='PENDING' AND created_at < $1 ORDER BY created_at LIMIT $2;`
	return r.list(ctx, tx, q, olderThan, limit)
}

func (r *transactionRepo) ListPendingCreatedBetween(ctx context.Context, tx repository.Tx, from, to time.Time, limit int) ([]*model.Transaction, error) {
	q := `SELECT ` + transactionColumns + ` FROM transactions WHERE status='PENDING' AND created_at >= $1 AND created_at < $2 ORDER BY created_at LIMIT $3;`
	return r.list(ctx, tx, q, from, to, limit)
}

func (r *transactionRepo) SumByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	const q = `SELECT COALESCE(SUM(amount),0) FROM transactions WHERE status='SUCCESS' AND paid_at >= DATE_TRUNC($1, NOW());`
	row, err := pickRow(ctx, r.pool, tx, q, period)
	if err != nil {
		return 0, err
	}
	var sum int64
	if err := row.Scan(&sum); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return sum, nil
}

func (r *transactionRepo) list(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.Transaction, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
