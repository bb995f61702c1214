//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/usecase"
)

func TestCheckout_CreatesPendingInvoice(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d := newSettleDeps()
	d.seedPlan(250000)

	res, err := d.checkout.Checkout(ctx, usecase.CheckoutInput{
		Name: "Budi", Email: "budi@example.com", Phone: "0812",
		MembershipID: "plan-1", PaymentMethod: "ewallet", PaymentChannel: "OVO",
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if res.Free {
		t.Fatal("paid checkout flagged free")
	}
	if res.PaymentURL == "" {
		t.Fatal("missing payment URL")
	}
	txn := res.Transaction
	if txn.Status != model.TransactionPending || txn.Amount != 250000 {
		t.Fatalf("unexpected transaction: %+v", txn)
	}
	if !strings.HasPrefix(txn.InvoiceNumber, "INV-") {
		t.Fatalf("invoice number = %q", txn.InvoiceNumber)
	}

	// Buyer registered on the fly as MEMBER_FREE.
	buyer, err := d.users.FindByEmail(ctx, nil, "budi@example.com")
	if err != nil {
		t.Fatalf("buyer not registered: %v", err)
	}
	if buyer.Role != model.RoleMemberFree {
		t.Fatalf("buyer role = %s, want MEMBER_FREE", buyer.Role)
	}
}

func TestCheckout_ReusesExistingUserByEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d := newSettleDeps()
	d.seedPlan(250000)
	existing := d.seedBuyer()

	res, err := d.checkout.Checkout(ctx, usecase.CheckoutInput{
		Name: "Budi Lagi", Email: "BUDI@example.com",
		MembershipID: "plan-1",
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if res.Transaction.UserID != existing.ID {
		t.Fatalf("transaction user = %s, want existing %s", res.Transaction.UserID, existing.ID)
	}
}

func TestCheckout_CouponDiscountAndFloor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d := newSettleDeps()
	d.seedPlan(100000)
	_ = d.coupons.Save(ctx, nil, &model.Coupon{
		ID: "c1", Code: "HEMAT20", DiscountType: model.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(20), IsActive: true,
	})

	res, err := d.checkout.Checkout(ctx, usecase.CheckoutInput{
		Name: "Budi", Email: "budi@example.com",
		MembershipID: "plan-1", CouponCode: "hemat20",
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if res.Transaction.Amount != 80000 || res.Transaction.DiscountAmount != 20000 {
		t.Fatalf("discounted txn: %+v", res.Transaction)
	}
}

func TestCheckout_FullDiscountSettlesImmediately(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d := newSettleDeps()
	d.seedPlan(100000)
	_ = d.coupons.Save(ctx, nil, &model.Coupon{
		ID: "c1", Code: "GRATIS", DiscountType: model.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(100), IsActive: true,
	})

	res, err := d.checkout.Checkout(ctx, usecase.CheckoutInput{
		Name: "Budi", Email: "budi@example.com",
		MembershipID: "plan-1", CouponCode: "GRATIS",
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if !res.Free {
		t.Fatal("zero-amount checkout should settle as free")
	}
	if res.Transaction.Status != model.TransactionSuccess {
		t.Fatalf("status = %s, want SUCCESS", res.Transaction.Status)
	}
	buyer, _ := d.users.FindByEmail(ctx, nil, "budi@example.com")
	if _, err := d.grants.FindActiveByUser(ctx, nil, buyer.ID); err != nil {
		t.Fatalf("free membership not activated: %v", err)
	}
	// The coupon burn still counts.
	c, _ := d.coupons.FindByID(ctx, nil, "c1")
	if c.UsedCount != 1 {
		t.Fatalf("coupon used count = %d, want 1", c.UsedCount)
	}
}

func TestCheckout_SelfReferralDropsAttribution(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d := newSettleDeps()
	d.seedPlan(100000)
	buyer := d.seedBuyer()
	_ = d.affiliates.SaveProfile(ctx, nil, &model.AffiliateProfile{
		ID: "aff-1", UserID: buyer.ID, AffiliateCode: "budi", IsActive: true,
	})

	res, err := d.checkout.Checkout(ctx, usecase.CheckoutInput{
		Name: "Budi", Email: buyer.Email,
		MembershipID: "plan-1", AffiliateCode: "budi",
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if res.Transaction.AffiliateID != nil {
		t.Fatal("self-referral must not be attributed")
	}
}

func TestCheckout_UnknownAffiliateCodeIgnored(t *testing.T) {
	t.Parallel()
	d := newSettleDeps()
	d.seedPlan(100000)

	res, err := d.checkout.Checkout(context.Background(), usecase.CheckoutInput{
		Name: "Budi", Email: "budi@example.com",
		MembershipID: "plan-1", AffiliateCode: "nobody",
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if res.Transaction.AffiliateID != nil {
		t.Fatal("unknown code must not be attributed")
	}
}

func TestCheckout_DisabledChannelRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d := newSettleDeps()
	d.seedPlan(100000)
	_ = d.features.Save(ctx, nil, &model.PlatformFeature{
		Key: model.PaymentChannelKey("OVO"), Enabled: false, UpdatedAt: time.Now(),
	})

	_, err := d.checkout.Checkout(ctx, usecase.CheckoutInput{
		Name: "Budi", Email: "budi@example.com",
		MembershipID: "plan-1", PaymentChannel: "ovo",
	})
	if !errors.Is(err, domain.ErrPaymentChannelDisabled) {
		t.Fatalf("err = %v, want ErrPaymentChannelDisabled", err)
	}
}

func TestCheckout_RequiresExactlyOneItem(t *testing.T) {
	t.Parallel()
	d := newSettleDeps()
	d.seedPlan(100000)

	_, err := d.checkout.Checkout(context.Background(), usecase.CheckoutInput{
		Name: "Budi", Email: "budi@example.com",
		MembershipID: "plan-1", ProductID: "prod-1",
	})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestCheckout_InactivePlanRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d := newSettleDeps()
	plan := d.seedPlan(100000)
	plan.IsActive = false
	_ = d.memberships.Save(ctx, nil, plan)

	_, err := d.checkout.Checkout(ctx, usecase.CheckoutInput{
		Name: "Budi", Email: "budi@example.com", MembershipID: "plan-1",
	})
	if !errors.Is(err, domain.ErrMembershipInactive) {
		t.Fatalf("err = %v, want ErrMembershipInactive", err)
	}
}
