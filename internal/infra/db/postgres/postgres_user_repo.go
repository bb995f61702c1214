package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct{ pool *pgxpool.Pool }

func NewUserRepo(pool *pgxpool.Pool) *userRepo {
	return &userRepo{pool: pool}
}

const userColumns = `id, name, email, phone, whatsapp, role, is_active, email_verified, created_at, updated_at`

func scanUser(row rowScanner) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Whatsapp, &u.Role, &u.IsActive, &u.EmailVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapScanError(err)
	}
	return u, nil
}

func (r *userRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO users (id, name, email, phone, whatsapp, role, is_active, email_verified, created_at, updated_at)
VALUES ($1,$2,LOWER($3),$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  name=$2, phone=$4, whatsapp=$5, role=$6, is_active=$7, email_verified=$8, updated_at=$10;`

	_, err := execSQL(ctx, r.pool, tx, q, u.ID, u.Name, u.Email, u.Phone, u.Whatsapp, u.Role, u.IsActive, u.EmailVerified, u.CreatedAt, u.UpdatedAt)
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

func (r *userRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *userRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email=LOWER($1) LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, email)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *userRepo) UpdateRole(ctx context.Context, tx repository.Tx, id string, role model.UserRole) error {
	const q = `UPDATE users SET role=$2, updated_at=NOW() WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, role)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *userRepo) ListPremiumWithoutActiveMembership(ctx context.Context, tx repository.Tx, limit int) ([]*model.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users u
WHERE u.role='MEMBER_PREMIUM'
  AND NOT EXISTS (
    SELECT 1 FROM user_memberships um
    WHERE um.user_id=u.id AND um.status='ACTIVE' AND um.end_date > NOW()
  )
LIMIT $1;`

	rows, err := queryRows(ctx, r.pool, tx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
