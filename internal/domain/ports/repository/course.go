package repository

import (
	"context"
	"time"

	"eksporyuk-platform/internal/domain/model"
)

type CourseRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Course) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Course, error)
	FindBySlug(ctx context.Context, tx Tx, slug string) (*model.Course, error)
	ListByIDs(ctx context.Context, tx Tx, ids []string) ([]*model.Course, error)
}

type EnrollmentRepository interface {
	// Grant upserts the (user, course) access row; the unique key makes
	// repeated grants idempotent by contract.
	Grant(ctx context.Context, tx Tx, userID, courseID string, expiresAt *time.Time) error
	Find(ctx context.Context, tx Tx, userID, courseID string) (*model.CourseEnrollment, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.CourseEnrollment, error)
	// LockExpired revokes access on rows whose expiry has passed, keeping
	// progress intact.
	LockExpired(ctx context.Context, tx Tx, now time.Time) (int, error)
}
