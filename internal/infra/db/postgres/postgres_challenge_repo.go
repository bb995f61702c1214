package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

var _ repository.ChallengeRepository = (*challengeRepo)(nil)

type challengeRepo struct{ pool *pgxpool.Pool }

func NewChallengeRepo(pool *pgxpool.Pool) *challengeRepo {
	return &challengeRepo{pool: pool}
}

const challengeColumns = `id, title, description, target_type, target_value, reward, membership_id, product_id, course_id, starts_at, ends_at, is_active, created_at`

func scanChallenge(row rowScanner) (*model.Challenge, error) {
	c := &model.Challenge{}
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.TargetType, &c.TargetValue, &c.Reward, &c.MembershipID, &c.ProductID, &c.CourseID, &c.StartsAt, &c.EndsAt, &c.IsActive, &c.CreatedAt); err != nil {
		return nil, mapScanError(err)
	}
	return c, nil
}

func (r *challengeRepo) Save(ctx context.Context, tx repository.Tx, c *model.Challenge) error {
	const q = `
INSERT INTO challenges (id, title, description, target_type, target_value, reward, membership_id, product_id, course_id, starts_at, ends_at, is_active, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (id) DO UPDATE SET
  title=$2, description=$3, target_type=$4, target_value=$5, reward=$6,
  membership_id=$7, product_id=$8, course_id=$9, starts_at=$10, ends_at=$11, is_active=$12;`

	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.Title, c.Description, c.TargetType, c.TargetValue, c.Reward, c.MembershipID, c.ProductID, c.CourseID, c.StartsAt, c.EndsAt, c.IsActive, c.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *challengeRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Challenge, error) {
	q := `SELECT ` + challengeColumns + ` FROM challenges WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanChallenge(row)
}

func (r *challengeRepo) ListOpen(ctx context.Context, tx repository.Tx, at time.Time) ([]*model.Challenge, error) {
	q := `SELECT ` + challengeColumns + ` FROM challenges WHERE is_active AND starts_at <= $1 AND ends_at > $1 ORDER BY ends_at;`
	rows, err := queryRows(ctx, r.pool, tx, q, at)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *challengeRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM challenges WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

const progressColumns = `id, challenge_id, affiliate_id, current_value, target_value, completed, completed_at, joined_at`

func scanProgress(row rowScanner) (*model.ChallengeProgress, error) {
	p := &model.ChallengeProgress{}
	if err := row.Scan(&p.ID, &p.ChallengeID, &p.AffiliateID, &p.CurrentValue, &p.TargetValue, &p.Completed, &p.CompletedAt, &p.JoinedAt); err != nil {
		return nil, mapScanError(err)
	}
	return p, nil
}

func (r *challengeRepo) SaveProgress(ctx context.Context, tx repository.Tx, p *model.ChallengeProgress) error {
	const q = `
INSERT INTO challenge_progress (id, challenge_id, affiliate_id, current_value, target_value, completed, completed_at, joined_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8);`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.ChallengeID, p.AffiliateID, p.CurrentValue, p.TargetValue, p.Completed, p.CompletedAt, p.JoinedAt)
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

func (r *challengeRepo) FindProgress(ctx context.Context, tx repository.Tx, challengeID, affiliateID string) (*model.ChallengeProgress, error) {
	q := `SELECT ` + progressColumns + ` FROM challenge_progress WHERE challenge_id=$1 AND affiliate_id=$2;`
	row, err := pickRow(ctx, r.pool, tx, q, challengeID, affiliateID)
	if err != nil {
		return nil, err
	}
	return scanProgress(row)
}

func (r *challengeRepo) ListProgressByAffiliate(ctx context.Context, tx repository.Tx, affiliateID string) ([]*model.ChallengeProgress, error) {
	q := `SELECT ` + progressColumns + ` FROM challenge_progress WHERE affiliate_id=$1 ORDER BY joined_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, affiliateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ChallengeProgress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// IncrementProgress bumps current_value in one UPDATE. The SET expressions
// read the pre-update row, so completed flips and completed_at is stamped
// exactly on the increment that crosses the target. RETURNING derives the
// before value from the new one, keeping the whole operation a single
// round trip that is safe under concurrent increments.
func (r *challengeRepo) IncrementProgress(ctx context.Context, tx repository.Tx, progressID string, delta int64) (repository.IncrementResult, error) {
	const q = `
UPDATE challenge_progress SET
  current_value = current_value + $2,
  completed     = completed OR current_value + $2 >= target_value,
  completed_at  = CASE WHEN NOT completed AND current_value + $2 >= target_value THEN NOW() ELSE completed_at END
WHERE id=$1
RETURNING current_value - $2, current_value, target_value,
  (current_value - $2 < target_value AND current_value >= target_value);`

	row, err := pickRow(ctx, r.pool, tx, q, progressID, delta)
	if err != nil {
		return repository.IncrementResult{}, err
	}

	var res repository.IncrementResult
	if err := row.Scan(&res.Before, &res.After, &res.Target, &res.JustComplete); err != nil {
		return repository.IncrementResult{}, mapScanError(err)
	}
	return res, nil
}
