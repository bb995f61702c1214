package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

var _ repository.ProductRepository = (*productRepo)(nil)

type productRepo struct{ pool *pgxpool.Pool }

func NewProductRepo(pool *pgxpool.Pool) *productRepo {
	return &productRepo{pool: pool}
}

const productColumns = `id, name, slug, description, price, commission_type, affiliate_commission_rate, is_active, course_ids, created_at`

func scanProduct(row rowScanner) (*model.Product, error) {
	p := &model.Product{}
	if err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.CommissionType, &p.AffiliateCommissionRate, &p.IsActive, &p.CourseIDs, &p.CreatedAt); err != nil {
		return nil, mapScanError(err)
	}
	return p, nil
}

func (r *productRepo) Save(ctx context.Context, tx repository.Tx, p *model.Product) error {
	const q = `
INSERT INTO products (id, name, slug, description, price, commission_type, affiliate_commission_rate, is_active, course_ids, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  name=$2, slug=$3, description=$4, price=$5, commission_type=$6, affiliate_commission_rate=$7, is_active=$8, course_ids=$9;`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.Name, p.Slug, p.Description, p.Price, p.CommissionType, p.AffiliateCommissionRate, p.IsActive, p.CourseIDs, p.CreatedAt)
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

func (r *productRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanProduct(row)
}

func (r *productRepo) FindBySlug(ctx context.Context, tx repository.Tx, slug string) (*model.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE slug=$1 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, slug)
	if err != nil {
		return nil, err
	}
	return scanProduct(row)
}

func (r *productRepo) UpdateCommission(ctx context.Context, tx repository.Tx, id string, typ model.CommissionType, rate decimal.Decimal) error {
	const q = `UPDATE products SET commission_type=$2, affiliate_commission_rate=$3 WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, typ, rate)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *productRepo) SaveUserProduct(ctx context.Context, tx repository.Tx, up *model.UserProduct) error {
	const q = `
INSERT INTO user_products (id, user_id, product_id, transaction_id, price, is_active, expires_at, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (user_id, product_id) DO NOTHING;`

	_, err := execSQL(ctx, r.pool, tx, q, up.ID, up.UserID, up.ProductID, up.TransactionID, up.Price, up.IsActive, up.ExpiresAt, up.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}
