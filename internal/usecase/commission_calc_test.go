//go:build !integration

package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/usecase"
)

func TestCalculateBreakdown_SharesSumToAmount(t *testing.T) {
	t.Parallel()
	cfg := usecase.DefaultRevenueConfig()
	amounts := []int64{1, 99, 100, 5000, 99999, 250000, 1000000, 1234567}
	rates := []decimal.Decimal{
		decimal.NewFromInt(10),
		decimal.NewFromInt(30),
		decimal.NewFromFloat(12.5),
		decimal.NewFromInt(100),
	}
	for _, amount := range amounts {
		for _, rate := range rates {
			b := usecase.CalculateBreakdown(amount, model.CommissionPercentage, rate, true, cfg)
			sum := b.AffiliateShare + b.AdminFee + b.FounderShare + b.CofounderShare
			if sum != amount {
				t.Fatalf("amount %d rate %s: shares sum to %d", amount, rate, sum)
			}
		}
	}
}

func TestCalculateBreakdown_FlatCappedAtAmount(t *testing.T) {
	t.Parallel()
	cfg := usecase.DefaultRevenueConfig()
	b := usecase.CalculateBreakdown(50000, model.CommissionFlat, decimal.NewFromInt(75000), true, cfg)
	if b.AffiliateShare != 50000 {
		t.Fatalf("flat share = %d, want capped 50000", b.AffiliateShare)
	}
	if b.AdminFee != 0 || b.FounderShare != 0 || b.CofounderShare != 0 {
		t.Fatalf("company shares should be zero when affiliate takes all: %+v", b)
	}
}

func TestCalculateBreakdown_NoAffiliate(t *testing.T) {
	t.Parallel()
	cfg := usecase.DefaultRevenueConfig()
	b := usecase.CalculateBreakdown(100000, model.CommissionPercentage, decimal.NewFromInt(30), false, cfg)
	if b.AffiliateShare != 0 {
		t.Fatalf("affiliate share = %d without attribution", b.AffiliateShare)
	}
	if b.AdminFee != 15000 {
		t.Fatalf("admin fee = %d, want 15000", b.AdminFee)
	}
	if b.FounderShare != 51000 {
		t.Fatalf("founder share = %d, want 51000", b.FounderShare)
	}
	if b.CofounderShare != 34000 {
		t.Fatalf("cofounder share = %d, want 34000", b.CofounderShare)
	}
}

func TestCalculateBreakdown_KnownSplit(t *testing.T) {
	t.Parallel()
	// 100000 at 30%: affiliate 30000, admin 15% of 70000 = 10500,
	// founder 60% of 59500 = 35700, cofounder the rest.
	cfg := usecase.DefaultRevenueConfig()
	b := usecase.CalculateBreakdown(100000, model.CommissionPercentage, decimal.NewFromInt(30), true, cfg)
	if b.AffiliateShare != 30000 || b.AdminFee != 10500 || b.FounderShare != 35700 || b.CofounderShare != 23800 {
		t.Fatalf("unexpected split: %+v", b)
	}
}

func TestCalculateBreakdown_ZeroAmount(t *testing.T) {
	t.Parallel()
	b := usecase.CalculateBreakdown(0, model.CommissionPercentage, decimal.NewFromInt(30), true, usecase.DefaultRevenueConfig())
	if b.AffiliateShare != 0 || b.AdminFee != 0 || b.FounderShare != 0 || b.CofounderShare != 0 {
		t.Fatalf("zero amount must split to zero: %+v", b)
	}
}
