//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/usecase"
)

func seedCoupon(t *testing.T, repo *MockCouponRepo, mut func(*model.Coupon)) *model.Coupon {
	t.Helper()
	c := &model.Coupon{
		ID: "c1", Code: "HEMAT20", DiscountType: model.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(20), IsActive: true, CreatedAt: time.Now(),
	}
	if mut != nil {
		mut(c)
	}
	if err := repo.Save(context.Background(), nil, c); err != nil {
		t.Fatalf("seed coupon: %v", err)
	}
	return c
}

func TestCouponValidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("percentage discount", func(t *testing.T) {
		t.Parallel()
		repo := NewMockCouponRepo()
		seedCoupon(t, repo, nil)
		uc := usecase.NewCouponUseCase(repo)
		_, discount, err := uc.Validate(ctx, "hemat20", 100000)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if discount != 20000 {
			t.Fatalf("discount = %d, want 20000", discount)
		}
	})

	t.Run("flat discount never exceeds price", func(t *testing.T) {
		t.Parallel()
		repo := NewMockCouponRepo()
		seedCoupon(t, repo, func(c *model.Coupon) {
			c.DiscountType = model.DiscountFlat
			c.DiscountValue = decimal.NewFromInt(150000)
		})
		uc := usecase.NewCouponUseCase(repo)
		_, discount, err := uc.Validate(ctx, "HEMAT20", 100000)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if discount != 100000 {
			t.Fatalf("discount = %d, want floored 100000", discount)
		}
	})

	t.Run("inactive", func(t *testing.T) {
		t.Parallel()
		repo := NewMockCouponRepo()
		seedCoupon(t, repo, func(c *model.Coupon) { c.IsActive = false })
		uc := usecase.NewCouponUseCase(repo)
		if _, _, err := uc.Validate(ctx, "HEMAT20", 100000); !errors.Is(err, domain.ErrCouponInactive) {
			t.Fatalf("err = %v, want ErrCouponInactive", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		repo := NewMockCouponRepo()
		seedCoupon(t, repo, func(c *model.Coupon) {
			past := time.Now().Add(-time.Hour)
			c.ValidUntil = &past
		})
		uc := usecase.NewCouponUseCase(repo)
		if _, _, err := uc.Validate(ctx, "HEMAT20", 100000); !errors.Is(err, domain.ErrCouponExpired) {
			t.Fatalf("err = %v, want ErrCouponExpired", err)
		}
	})

	t.Run("exhausted", func(t *testing.T) {
		t.Parallel()
		repo := NewMockCouponRepo()
		seedCoupon(t, repo, func(c *model.Coupon) {
			c.MaxUses = 5
			c.UsedCount = 5
		})
		uc := usecase.NewCouponUseCase(repo)
		if _, _, err := uc.Validate(ctx, "HEMAT20", 100000); !errors.Is(err, domain.ErrCouponExhausted) {
			t.Fatalf("err = %v, want ErrCouponExhausted", err)
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		t.Parallel()
		uc := usecase.NewCouponUseCase(NewMockCouponRepo())
		if _, _, err := uc.Validate(ctx, "NOPE", 100000); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}
