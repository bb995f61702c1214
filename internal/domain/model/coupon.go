package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFlat       DiscountType = "FLAT"
)

type Coupon struct {
	ID            string // UUID
	Code          string // unique, case-insensitive lookup
	DiscountType  DiscountType
	DiscountValue decimal.Decimal // percentage or flat IDR amount
	IsActive      bool
	ValidUntil    *time.Time // nil = no expiry
	MaxUses       int        // 0 = unlimited
	UsedCount     int
	CreatedAt     time.Time
}

// Usable reports whether the coupon can be applied at the given instant.
func (c *Coupon) Usable(at time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ValidUntil != nil && at.After(*c.ValidUntil) {
		return false
	}
	if c.MaxUses > 0 && c.UsedCount >= c.MaxUses {
		return false
	}
	return true
}

// Discount returns the discount for a price in IDR, floored so the final
// price never goes negative. A 100% percentage coupon yields exactly price.
func (c *Coupon) Discount(price int64) int64 {
	var cut decimal.Decimal
	if c.DiscountType == DiscountPercentage {
		cut = decimal.NewFromInt(price).Mul(c.DiscountValue).Div(decimal.NewFromInt(100))
	} else {
		cut = c.DiscountValue
	}
	d := cut.Round(0).IntPart()
	if d > price {
		return price
	}
	if d < 0 {
		return 0
	}
	return d
}
