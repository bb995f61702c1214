package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"eksporyuk-platform/internal/domain/model"
)

type MembershipRepository interface {
	Save(ctx context.Context, tx Tx, m *model.Membership) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Membership, error)
	FindBySlug(ctx context.Context, tx Tx, slug string) (*model.Membership, error)
	ListActive(ctx context.Context, tx Tx) ([]*model.Membership, error)
	UpdateCommission(ctx context.Context, tx Tx, id string, typ model.CommissionType, rate decimal.Decimal) error
	Delete(ctx context.Context, tx Tx, id string) error
}

type UserMembershipRepository interface {
	// Save upserts on id. Creation of a duplicate (user, membership, ACTIVE)
	// grant surfaces domain.ErrAlreadyExists; callers decide whether that is
	// an error or an idempotent no-op.
	Save(ctx context.Context, tx Tx, um *model.UserMembership) error
	FindActiveByUser(ctx context.Context, tx Tx, userID string) (*model.UserMembership, error)
	// ExpireActiveByUser marks every ACTIVE grant of the user EXPIRED and
	// returns how many rows changed.
	ExpireActiveByUser(ctx context.Context, tx Tx, userID string) (int, error)
	// ExpireDue locks all grants past their end date.
	ExpireDue(ctx context.Context, tx Tx, now time.Time) (int, error)
	CountActiveByMembership(ctx context.Context, tx Tx) (map[string]int, error)
}
