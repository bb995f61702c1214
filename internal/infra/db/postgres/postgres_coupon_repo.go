package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

var _ repository.CouponRepository = (*couponRepo)(nil)

type couponRepo struct{ pool *pgxpool.Pool }

func NewCouponRepo(pool *pgxpool.Pool) *couponRepo {
	return &couponRepo{pool: pool}
}

const couponColumns = `id, code, discount_type, discount_value, is_active, valid_until, max_uses, used_count, created_at`

func scanCoupon(row rowScanner) (*model.Coupon, error) {
	c := &model.Coupon{}
	if err := row.Scan(&c.ID, &c.Code, &c.DiscountType, &c.DiscountValue, &c.IsActive, &c.ValidUntil, &c.MaxUses, &c.UsedCount, &c.CreatedAt); err != nil {
		return nil, mapScanError(err)
	}
	return c, nil
}

func (r *couponRepo) Save(ctx context.Context, tx repository.Tx, c *model.Coupon) error {
	const q = `
INSERT INTO coupons (id, code, discount_type, discount_value, is_active, valid_until, max_uses, used_count, created_at)
VALUES ($1,UPPER($2),$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  code=UPPER($2), discount_type=$3, discount_value=$4, is_active=$5, valid_until=$6, max_uses=$7;`

	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.Code, c.DiscountType, c.DiscountValue, c.IsActive, c.ValidUntil, c.MaxUses, c.UsedCount, c.CreatedAt)
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

func (r *couponRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.Coupon, error) {
	q := `SELECT ` + couponColumns + ` FROM coupons WHERE code=UPPER($1) LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, code)
	if err != nil {
		return nil, err
	}
	return scanCoupon(row)
}

func (r *couponRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Coupon, error) {
	q := `SELECT ` + couponColumns + ` FROM coupons WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanCoupon(row)
}

func (r *couponRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Coupon, error) {
	q := `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *couponRepo) IncrementUse(ctx context.Context, tx repository.Tx, id string) error {
	const q = `UPDATE coupons SET used_count=used_count+1 WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *couponRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM coupons WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}
