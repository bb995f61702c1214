package usecase

import (
	"github.com/shopspring/decimal"

	"eksporyuk-platform/internal/domain/model"
)

// RevenueConfig holds the company-side split percentages. Founder and
// cofounder percentages apply to the remainder after the admin fee and
// should sum to 100.
type RevenueConfig struct {
	AdminFeePercent  decimal.Decimal
	FounderPercent   decimal.Decimal
	CofounderPercent decimal.Decimal
}

// DefaultRevenueConfig mirrors the production split: 15% admin fee, then
// 60/40 founder/cofounder on what remains.
func DefaultRevenueConfig() RevenueConfig {
	return RevenueConfig{
		AdminFeePercent:  decimal.NewFromInt(15),
		FounderPercent:   decimal.NewFromInt(60),
		CofounderPercent: decimal.NewFromInt(40),
	}
}

// CommissionBreakdown is the full split of one paid transaction, in IDR.
// AffiliateShare + AdminFee + FounderShare + CofounderShare == Amount.
type CommissionBreakdown struct {
	Amount         int64
	AffiliateShare int64
	AdminFee       int64
	FounderShare   int64
	CofounderShare int64
}

var oneHundred = decimal.NewFromInt(100)

func pct(amount int64, percent decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(percent).Div(oneHundred).Round(0).IntPart()
}

// CalculateBreakdown splits a paid amount. The affiliate share is taken off
// the top (a FLAT rate is capped at the full amount), the admin fee is a
// percentage of the remainder, and founder/cofounder divide what is left.
// The cofounder share absorbs rounding so the four parts always sum to
// exactly amount.
func CalculateBreakdown(amount int64, commissionType model.CommissionType, rate decimal.Decimal, hasAffiliate bool, cfg RevenueConfig) CommissionBreakdown {
	b := CommissionBreakdown{Amount: amount}
	if amount <= 0 {
		return b
	}

	if hasAffiliate {
		if commissionType == model.CommissionFlat {
			b.AffiliateShare = rate.Round(0).IntPart()
		} else {
			b.AffiliateShare = pct(amount, rate)
		}
		if b.AffiliateShare > amount {
			b.AffiliateShare = amount
		}
		if b.AffiliateShare < 0 {
			b.AffiliateShare = 0
		}
	}

	remainder := amount - b.AffiliateShare
	b.AdminFee = pct(remainder, cfg.AdminFeePercent)
	afterAdmin := remainder - b.AdminFee
	b.FounderShare = pct(afterAdmin, cfg.FounderPercent)
	b.CofounderShare = afterAdmin - b.FounderShare
	return b
}
