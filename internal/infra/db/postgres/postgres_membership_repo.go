package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

var _ repository.MembershipRepository = (*membershipRepo)(nil)

type membershipRepo struct{ pool *pgxpool.Pool }

func NewMembershipRepo(pool *pgxpool.Pool) *membershipRepo {
	return &membershipRepo{pool: pool}
}

const membershipColumns = `id, name, slug, description, duration, price, commission_type, affiliate_commission_rate, is_active, course_ids, created_at`

func scanMembership(row rowScanner) (*model.Membership, error) {
	m := &model.Membership{}
	if err := row.Scan(&m.ID, &m.Name, &m.Slug, &m.Description, &m.Duration, &m.Price, &m.CommissionType, &m.AffiliateCommissionRate, &m.IsActive, &m.CourseIDs, &m.CreatedAt); err != nil {
		return nil, mapScanError(err)
	}
	return m, nil
}

func (r *membershipRepo) Save(ctx context.Context, tx repository.Tx, m *model.Membership) error {
	const q = `
INSERT INTO memberships (id, name, slug, description, duration, price, commission_type, affiliate_commission_rate, is_active, course_ids, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO UPDATE SET
  name=$2, slug=$3, description=$4, duration=$5, price=$6, commission_type=$7, affiliate_commission_rate=$8, is_active=$9, course_ids=$10;`

	_, err := execSQL(ctx, r.pool, tx, q, m.ID, m.Name, m.Slug, m.Description, m.Duration, m.Price, m.CommissionType, m.AffiliateCommissionRate, m.IsActive, m.CourseIDs, m.CreatedAt)
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

func (r *membershipRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Membership, error) {
	q := `SELECT ` + membershipColumns + ` FROM memberships WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanMembership(row)
}

func (r *membershipRepo) FindBySlug(ctx context.Context, tx repository.Tx, slug string) (*model.Membership, error) {
	q := `SELECT ` + membershipColumns + ` FROM memberships WHERE slug=$1 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, slug)
	if err != nil {
		return nil, err
	}
	return scanMembership(row)
}

func (r *membershipRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.Membership, error) {
	q := `SELECT ` + membershipColumns + ` FROM memberships WHERE is_active ORDER BY price;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *membershipRepo) UpdateCommission(ctx context.Context, tx repository.Tx, id string, typ model.CommissionType, rate decimal.Decimal) error {
	const q = `UPDATE memberships SET commission_type=$2, affiliate_commission_rate=$3 WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, typ, rate)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *membershipRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM memberships WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

var _ repository.UserMembershipRepository = (*userMembershipRepo)(nil)

type userMembershipRepo struct{ pool *pgxpool.Pool }

func NewUserMembershipRepo(pool *pgxpool.Pool) *userMembershipRepo {
	return &userMembershipRepo{pool: pool}
}

const userMembershipColumns = `id, user_id, membership_id, transaction_id, status, start_date, end_date, activated_at, price`

func scanUserMembership(row rowScanner) (*model.UserMembership, error) {
	um := &model.UserMembership{}
	if err := row.Scan(&um.ID, &um.UserID, &um.MembershipID, &um.TransactionID, &um.Status, &um.StartDate, &um.EndDate, &um.ActivatedAt, &um.Price); err != nil {
		return nil, mapScanError(err)
	}
	return um, nil
}

func (r *userMembershipRepo) Save(ctx context.Context, tx repository.Tx, um *model.UserMembership) error {
	const q = `
INSERT INTO user_memberships (id, user_id, membership_id, transaction_id, status, start_date, end_date, activated_at, price)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  status=$5, start_date=$6, end_date=$7, activated_at=$8, price=$9;`

	_, err := execSQL(ctx, r.pool, tx, q, um.ID, um.UserID, um.MembershipID, um.TransactionID, um.Status, um.StartDate, um.EndDate, um.ActivatedAt, um.Price)
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

func (r *userMembershipRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.UserMembership, error) {
	q := `SELECT ` + userMembershipColumns + ` FROM user_memberships WHERE user_id=$1 AND status='ACTIVE' AND end_date > NOW() ORDER BY end_date DESC LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	return scanUserMembership(row)
}

func (r *userMembershipRepo) ExpireActiveByUser(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	const q = `UPDATE user_memberships SET status='EXPIRED' WHERE user_id=$1 AND status='ACTIVE';`
	tag, err := execSQL(ctx, r.pool, tx, q, userID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return 0, err
		}
		return 0, domain.ErrOperationFailed
	}
	return int(tag.RowsAffected()), nil
}

func (r *userMembershipRepo) ExpireDue(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	const q = `UPDATE user_memberships SET status='EXPIRED' WHERE status='ACTIVE' AND end_date <= $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, now)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return 0, err
		}
		return 0, domain.ErrOperationFailed
	}
	return int(tag.RowsAffected()), nil
}

func (r *userMembershipRepo) CountActiveByMembership(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	const q = `SELECT membership_id, COUNT(*) FROM user_memberships WHERE status='ACTIVE' AND end_date > NOW() GROUP BY membership_id;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out[id] = n
	}
	return out, rows.Err()
}
