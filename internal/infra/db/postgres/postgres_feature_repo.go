package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

var _ repository.FeatureRepository = (*featureRepo)(nil)

type featureRepo struct{ pool *pgxpool.Pool }

func NewFeatureRepo(pool *pgxpool.Pool) *featureRepo {
	return &featureRepo{pool: pool}
}

func (r *featureRepo) Save(ctx context.Context, tx repository.Tx, f *model.PlatformFeature) error {
	const q = `
INSERT INTO platform_features (key, enabled, value, updated_at)
VALUES ($1,$2,$3,NOW())
ON CONFLICT (key) DO UPDATE SET enabled=$2, value=$3, updated_at=NOW();`

	_, err := execSQL(ctx, r.pool, tx, q, f.Key, f.Enabled, f.Value)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *featureRepo) FindByKey(ctx context.Context, tx repository.Tx, key string) (*model.PlatformFeature, error) {
	const q = `SELECT key, enabled, value, updated_at FROM platform_features WHERE key=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, key)
	if err != nil {
		return nil, err
	}
	f := &model.PlatformFeature{}
	if err := row.Scan(&f.Key, &f.Enabled, &f.Value, &f.UpdatedAt); err != nil {
		return nil, mapScanError(err)
	}
	return f, nil
}

func (r *featureRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.PlatformFeature, error) {
	const q = `SELECT key, enabled, value, updated_at FROM platform_features ORDER BY key;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.PlatformFeature
	for rows.Next() {
		f := &model.PlatformFeature{}
		if err := rows.Scan(&f.Key, &f.Enabled, &f.Value, &f.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
