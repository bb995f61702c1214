package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ CouponUseCase = (*couponUC)(nil)

type CouponUseCase interface {
	// Validate checks a code against a price and returns the coupon and the
	// discount it would yield. Distinct failures map to distinct errors so
	// the checkout form can explain the rejection.
	Validate(ctx context.Context, code string, price int64) (*model.Coupon, int64, error)
	Create(ctx context.Context, c *model.Coupon) error
	Update(ctx context.Context, c *model.Coupon) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*model.Coupon, error)
}

type couponUC struct {
	coupons repository.CouponRepository
	now     func() time.Time
}

func NewCouponUseCase(coupons repository.CouponRepository) *couponUC {
	return &couponUC{coupons: coupons, now: time.Now}
}

func (u *couponUC) Validate(ctx context.Context, code string, price int64) (*model.Coupon, int64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, 0, domain.ErrInvalidArgument
	}
	c, err := u.coupons.FindByCode(ctx, repository.NoTX, code)
	if err != nil {
		return nil, 0, err
	}
	now := u.now()
	if !c.IsActive {
		return nil, 0, domain.ErrCouponInactive
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return nil, 0, domain.ErrCouponExpired
	}
	if c.MaxUses > 0 && c.UsedCount >= c.MaxUses {
		return nil, 0, domain.ErrCouponExhausted
	}
	return c, c.Discount(price), nil
}

func (u *couponUC) Create(ctx context.Context, c *model.Coupon) error {
	if c.Code == "" {
		return domain.ErrInvalidArgument
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if c.CreatedAt.IsZero() {
		c.CreatedAt = u.now()
	}
	return u.coupons.Save(ctx, repository.NoTX, c)
}

func (u *couponUC) Update(ctx context.Context, c *model.Coupon) error {
	if c.ID == "" {
		return domain.ErrInvalidArgument
	}
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	return u.coupons.Save(ctx, repository.NoTX, c)
}

func (u *couponUC) Delete(ctx context.Context, id string) error {
	return u.coupons.Delete(ctx, repository.NoTX, id)
}

func (u *couponUC) List(ctx context.Context) ([]*model.Coupon, error) {
	return u.coupons.ListAll(ctx, repository.NoTX)
}
