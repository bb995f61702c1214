package repository

import (
	"context"

	"eksporyuk-platform/internal/domain/model"
)

type CouponRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Coupon) error
	FindByCode(ctx context.Context, tx Tx, code string) (*model.Coupon, error)
	FindByID(ctx context.Context, tx Tx, id string) (*model.Coupon, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.Coupon, error)
	// IncrementUse bumps used_count atomically.
	IncrementUse(ctx context.Context, tx Tx, id string) error
	Delete(ctx context.Context, tx Tx, id string) error
}
