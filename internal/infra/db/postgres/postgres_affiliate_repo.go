package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

var _ repository.AffiliateRepository = (*affiliateRepo)(nil)

type affiliateRepo struct{ pool *pgxpool.Pool }

func NewAffiliateRepo(pool *pgxpool.Pool) *affiliateRepo {
	return &affiliateRepo{pool: pool}
}

const affiliateProfileColumns = `id, user_id, affiliate_code, commission_rate, total_earnings, total_conversions, total_clicks, is_active, created_at`

func scanAffiliateProfile(row rowScanner) (*model.AffiliateProfile, error) {
	p := &model.AffiliateProfile{}
	if err := row.Scan(&p.ID, &p.UserID, &p.AffiliateCode, &p.CommissionRate, &p.TotalEarnings, &p.TotalConversions, &p.TotalClicks, &p.IsActive, &p.CreatedAt); err != nil {
		return nil, mapScanError(err)
	}
	return p, nil
}

func (r *affiliateRepo) SaveProfile(ctx context.Context, tx repository.Tx, p *model.AffiliateProfile) error {
	const q = `
INSERT INTO affiliate_profiles (id, user_id, affiliate_code, commission_rate, total_earnings, total_conversions, total_clicks, is_active, created_at)
VALUES ($1,$2,LOWER($3),$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  affiliate_code=LOWER($3), commission_rate=$4, is_active=$8;`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.UserID, p.AffiliateCode, p.CommissionRate, p.TotalEarnings, p.TotalConversions, p.TotalClicks, p.IsActive, p.CreatedAt)
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

func (r *affiliateRepo) FindProfileByID(ctx context.Context, tx repository.Tx, id string) (*model.AffiliateProfile, error) {
	q := `SELECT ` + affiliateProfileColumns + ` FROM affiliate_profiles WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanAffiliateProfile(row)
}

func (r *affiliateRepo) FindProfileByUser(ctx context.Context, tx repository.Tx, userID string) (*model.AffiliateProfile, error) {
	q := `SELECT ` + affiliateProfileColumns + ` FROM affiliate_profiles WHERE user_id=$1 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	return scanAffiliateProfile(row)
}

func (r *affiliateRepo) FindProfileByCode(ctx context.Context, tx repository.Tx, code string) (*model.AffiliateProfile, error) {
	q := `SELECT ` + affiliateProfileColumns + ` FROM affiliate_profiles WHERE affiliate_code=LOWER($1) LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, code)
	if err != nil {
		return nil, err
	}
	return scanAffiliateProfile(row)
}

func (r *affiliateRepo) AddConversionStats(ctx context.Context, tx repository.Tx, id string, earnings int64, conversions int64) error {
	const q = `UPDATE affiliate_profiles SET total_earnings=total_earnings+$2, total_conversions=total_conversions+$3 WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, earnings, conversions)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *affiliateRepo) AddClick(ctx context.Context, tx repository.Tx, click *model.AffiliateClick) error {
	const insert = `INSERT INTO affiliate_clicks (id, affiliate_id, source, created_at) VALUES ($1,$2,$3,$4);`
	if _, err := execSQL(ctx, r.pool, tx, insert, click.ID, click.AffiliateID, click.Source, click.CreatedAt); err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	const bump = `UPDATE affiliate_profiles SET total_clicks=total_clicks+1 WHERE id=$1;`
	if _, err := execSQL(ctx, r.pool, tx, bump, click.AffiliateID); err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *affiliateRepo) SaveConversion(ctx context.Context, tx repository.Tx, c *model.AffiliateConversion) error {
	const q = `
INSERT INTO affiliate_conversions (id, affiliate_id, transaction_id, commission_amount, commission_rate, commission_type, paid_out, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8);`

	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.AffiliateID, c.TransactionID, c.CommissionAmount, c.CommissionRate, c.CommissionType, c.PaidOut, c.CreatedAt)
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

func (r *affiliateRepo) ListConversions(ctx context.Context, tx repository.Tx, affiliateID string, limit int) ([]*model.AffiliateConversion, error) {
	const q = `
SELECT id, affiliate_id, transaction_id, commission_amount, commission_rate, commission_type, paid_out, created_at
FROM affiliate_conversions WHERE affiliate_id=$1 ORDER BY created_at DESC LIMIT $2;`

	rows, err := queryRows(ctx, r.pool, tx, q, affiliateID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.AffiliateConversion
	for rows.Next() {
		c := &model.AffiliateConversion{}
		if err := rows.Scan(&c.ID, &c.AffiliateID, &c.TransactionID, &c.CommissionAmount, &c.CommissionRate, &c.CommissionType, &c.PaidOut, &c.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *affiliateRepo) TopByEarnings(ctx context.Context, tx repository.Tx, limit int) ([]*model.AffiliateProfile, error) {
	q := `SELECT ` + affiliateProfileColumns + ` FROM affiliate_profiles WHERE is_active ORDER BY total_earnings DESC LIMIT $1;`
	rows, err := queryRows(ctx, r.pool, tx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.AffiliateProfile
	for rows.Next() {
		p, err := scanAffiliateProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
