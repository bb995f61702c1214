package repository

import (
	"context"

	"eksporyuk-platform/internal/domain/model"
)

type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)
	UpdateRole(ctx context.Context, tx Tx, id string, role model.UserRole) error
	// ListPremiumWithoutActiveMembership feeds the expiry sweep's downgrade
	// pass: MEMBER_PREMIUM users whose grants have all lapsed.
	ListPremiumWithoutActiveMembership(ctx context.Context, tx Tx, limit int) ([]*model.User, error)
}
