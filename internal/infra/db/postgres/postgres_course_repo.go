package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

var _ repository.CourseRepository = (*courseRepo)(nil)

type courseRepo struct{ pool *pgxpool.Pool }

func NewCourseRepo(pool *pgxpool.Pool) *courseRepo {
	return &courseRepo{pool: pool}
}

const courseColumns = `id, title, slug, status, role_access, price, affiliate_only, membership_included, mentor_id, created_at`

func scanCourse(row rowScanner) (*model.Course, error) {
	c := &model.Course{}
	if err := row.Scan(&c.ID, &c.Title, &c.Slug, &c.Status, &c.RoleAccess, &c.Price, &c.AffiliateOnly, &c.MembershipIncluded, &c.MentorID, &c.CreatedAt); err != nil {
		return nil, mapScanError(err)
	}
	return c, nil
}

func (r *courseRepo) Save(ctx context.Context, tx repository.Tx, c *model.Course) error {
	const q = `
INSERT INTO courses (id, title, slug, status, role_access, price, affiliate_only, membership_included, mentor_id, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  title=$2, slug=$3, status=$4, role_access=$5, price=$6, affiliate_only=$7, membership_included=$8, mentor_id=$9;`

	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.Title, c.Slug, c.Status, c.RoleAccess, c.Price, c.AffiliateOnly, c.MembershipIncluded, c.MentorID, c.CreatedAt)
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

func (r *courseRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Course, error) {
	q := `SELECT ` + courseColumns + ` FROM courses WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanCourse(row)
}

func (r *courseRepo) FindBySlug(ctx context.Context, tx repository.Tx, slug string) (*model.Course, error) {
	q := `SELECT ` + courseColumns + ` FROM courses WHERE slug=$1 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, slug)
	if err != nil {
		return nil, err
	}
	return scanCourse(row)
}

func (r *courseRepo) ListByIDs(ctx context.Context, tx repository.Tx, ids []string) ([]*model.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `SELECT ` + courseColumns + ` FROM courses WHERE id = ANY($1);`
	rows, err := queryRows(ctx, r.pool, tx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ repository.EnrollmentRepository = (*enrollmentRepo)(nil)

type enrollmentRepo struct{ pool *pgxpool.Pool }

func NewEnrollmentRepo(pool *pgxpool.Pool) *enrollmentRepo {
	return &enrollmentRepo{pool: pool}
}

const enrollmentColumns = `id, user_id, course_id, has_access, progress, access_granted_at, access_expires_at, last_accessed_at`

func scanEnrollment(row rowScanner) (*model.CourseEnrollment, error) {
	e := &model.CourseEnrollment{}
	if err := row.Scan(&e.ID, &e.UserID, &e.CourseID, &e.HasAccess, &e.Progress, &e.AccessGrantedAt, &e.AccessExpiresAt, &e.LastAccessedAt); err != nil {
		return nil, mapScanError(err)
	}
	return e, nil
}

// Grant upserts on the (user_id, course_id) unique key. Re-granting restores
// access and refreshes the expiry without touching progress.
func (r *enrollmentRepo) Grant(ctx context.Context, tx repository.Tx, userID, courseID string, expiresAt *time.Time) error {
	const q = `
INSERT INTO course_enrollments (id, user_id, course_id, has_access, progress, access_granted_at, access_expires_at)
VALUES (gen_random_uuid()::text, $1, $2, TRUE, 0, NOW(), $3)
ON CONFLICT (user_id, course_id) DO UPDATE SET
  has_access=TRUE, access_granted_at=NOW(), access_expires_at=$3;`

	_, err := execSQL(ctx, r.pool, tx, q, userID, courseID, expiresAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *enrollmentRepo) Find(ctx context.Context, tx repository.Tx, userID, courseID string) (*model.CourseEnrollment, error) {
	q := `SELECT ` + enrollmentColumns + ` FROM course_enrollments WHERE user_id=$1 AND course_id=$2;`
	row, err := pickRow(ctx, r.pool, tx, q, userID, courseID)
	if err != nil {
		return nil, err
	}
	return scanEnrollment(row)
}

func (r *enrollmentRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.CourseEnrollment, error) {
	q := `SELECT ` + enrollmentColumns + ` FROM course_enrollments WHERE user_id=$1 ORDER BY access_granted_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.CourseEnrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *enrollmentRepo) LockExpired(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	const q = `UPDATE course_enrollments SET has_access=FALSE WHERE has_access AND access_expires_at IS NOT NULL AND access_expires_at <= $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, now)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return 0, err
		}
		return 0, domain.ErrOperationFailed
	}
	return int(tag.RowsAffected()), nil
}
