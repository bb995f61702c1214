package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMembershipEndDateDurations(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		duration MembershipDuration
		days     int
	}{
		{DurationOneMonth, 30},
		{DurationThreeMonths, 90},
		{DurationSixMonths, 180},
		{DurationTwelveMonths, 365},
	}
	for _, c := range cases {
		got := MembershipEndDate(c.duration, start)
		want := start.AddDate(0, 0, c.days)
		if !got.Equal(want) {
			t.Fatalf("%s: expected %v got %v", c.duration, want, got)
		}
	}
}

func TestMembershipEndDateLifetime(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := MembershipEndDate(DurationLifetime, start)
	// effectively unbounded: decades past start
	if end.Before(start.AddDate(90, 0, 0)) {
		t.Fatalf("lifetime end date %v not decades past start %v", end, start)
	}
}

func TestCouponDiscountPercentage(t *testing.T) {
	t.Parallel()

	c := &Coupon{DiscountType: DiscountPercentage, DiscountValue: decimal.NewFromInt(25), IsActive: true}
	if d := c.Discount(200_000); d != 50_000 {
		t.Fatalf("expected 50000 got %d", d)
	}
}

func TestCouponDiscountFullPercentage(t *testing.T) {
	t.Parallel()

	c := &Coupon{DiscountType: DiscountPercentage, DiscountValue: decimal.NewFromInt(100), IsActive: true}
	for _, price := range []int64{1, 999, 150_000, 2_500_000} {
		if d := c.Discount(price); d != price {
			t.Fatalf("100%% coupon on %d: expected discount %d got %d", price, price, d)
		}
	}
}

func TestCouponDiscountFlatFloorsAtPrice(t *testing.T) {
	t.Parallel()

	c := &Coupon{DiscountType: DiscountFlat, DiscountValue: decimal.NewFromInt(75_000), IsActive: true}
	if d := c.Discount(50_000); d != 50_000 {
		t.Fatalf("flat discount must not exceed price, got %d", d)
	}
	if d := c.Discount(100_000); d != 75_000 {
		t.Fatalf("expected 75000 got %d", d)
	}
}

func TestCouponUsableWindow(t *testing.T) {
	t.Parallel()

	now := time.Now()
	past := now.Add(-time.Hour)
	c := &Coupon{DiscountType: DiscountFlat, DiscountValue: decimal.NewFromInt(10), IsActive: true, ValidUntil: &past}
	if c.Usable(now) {
		t.Fatalf("expired coupon reported usable")
	}
	c.ValidUntil = nil
	c.MaxUses = 2
	c.UsedCount = 2
	if c.Usable(now) {
		t.Fatalf("exhausted coupon reported usable")
	}
}

func TestMilestonesCrossed(t *testing.T) {
	t.Parallel()

	// 0 -> 5 of 10 crosses 25 and 50
	got := MilestonesCrossed(0, 5, 10)
	if len(got) != 2 || got[0] != 25 || got[1] != 50 {
		t.Fatalf("expected [25 50] got %v", got)
	}
	// 5 -> 10 crosses 75 and 100
	got = MilestonesCrossed(5, 10, 10)
	if len(got) != 2 || got[0] != 75 || got[1] != 100 {
		t.Fatalf("expected [75 100] got %v", got)
	}
	// no re-crossing
	if got := MilestonesCrossed(5, 5, 10); got != nil {
		t.Fatalf("expected nil got %v", got)
	}
}

func TestChallengeMatches(t *testing.T) {
	t.Parallel()

	mID := "m-1"
	other := "m-2"
	unrestricted := &Challenge{}
	if !unrestricted.Matches(&mID, nil, nil) {
		t.Fatalf("unrestricted challenge must match any sale")
	}
	scoped := &Challenge{MembershipID: &mID}
	if !scoped.Matches(&mID, nil, nil) {
		t.Fatalf("expected match on membership id")
	}
	if scoped.Matches(&other, nil, nil) {
		t.Fatalf("expected no match on different membership")
	}
	if scoped.Matches(nil, nil, nil) {
		t.Fatalf("expected no match on nil item")
	}
}

func TestAffiliateCapableRoles(t *testing.T) {
	t.Parallel()

	for _, r := range []UserRole{RoleAffiliate, RoleMentor, RoleAdmin} {
		if !r.AffiliateCapable() {
			t.Fatalf("%s should be affiliate-capable", r)
		}
	}
	for _, r := range []UserRole{RoleMemberFree, RoleMemberPremium, RoleFounder, RoleCoFounder} {
		if r.AffiliateCapable() {
			t.Fatalf("%s should not be affiliate-capable", r)
		}
	}
}
