package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

// CheckoutInput is one purchase attempt from the public checkout form.
// Exactly one of MembershipID, ProductID, CourseID must be set.
type CheckoutInput struct {
	Name           string
	Email          string
	Phone          string
	Whatsapp       string
	MembershipID   string
	ProductID      string
	CourseID       string
	CouponCode     string
	AffiliateCode  string
	PaymentMethod  string
	PaymentChannel string
}

type CheckoutResult struct {
	Transaction *model.Transaction
	PaymentURL  string
	// Free is true when the discounted total was zero and the purchase was
	// fulfilled immediately.
	Free bool
}

type CheckoutUseCase interface {
	Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error)
}

type checkoutUC struct {
	users        UserUseCase
	payments     PaymentUseCase
	coupons      CouponUseCase
	memberships  repository.MembershipRepository
	products     repository.ProductRepository
	courses      repository.CourseRepository
	affiliates   repository.AffiliateRepository
	transactions repository.TransactionRepository
	features     repository.FeatureRepository
	txm          repository.TransactionManager
	log          *zerolog.Logger
	now          func() time.Time
}

func NewCheckoutUseCase(
	users UserUseCase,
	payments PaymentUseCase,
	coupons CouponUseCase,
	memberships repository.MembershipRepository,
	products repository.ProductRepository,
	courses repository.CourseRepository,
	affiliates repository.AffiliateRepository,
	transactions repository.TransactionRepository,
	features repository.FeatureRepository,
	txm repository.TransactionManager,
	logger *zerolog.Logger,
) *checkoutUC {
	return &checkoutUC{
		users:        users,
		payments:     payments,
		coupons:      coupons,
		memberships:  memberships,
		products:     products,
		courses:      courses,
		affiliates:   affiliates,
		transactions: transactions,
		features:     features,
		txm:          txm,
		log:          logger,
		now:          time.Now,
	}
}

type checkoutItem struct {
	typ          model.TransactionType
	price        int64
	description  string
	membershipID *string
	productID    *string
	courseID     *string
}

func (u *checkoutUC) resolveItem(ctx context.Context, in CheckoutInput) (*checkoutItem, error) {
	set := 0
	for _, id := range []string{in.MembershipID, in.ProductID, in.CourseID} {
		if id != "" {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("%w: exactly one item must be selected", domain.ErrInvalidArgument)
	}

	switch {
	case in.MembershipID != "":
		plan, err := u.memberships.FindByID(ctx, repository.NoTX, in.MembershipID)
		if err != nil {
			return nil, err
		}
		if !plan.IsActive {
			return nil, domain.ErrMembershipInactive
		}
		return &checkoutItem{
			typ:          model.TransactionMembership,
			price:        plan.Price,
			description:  "Membership " + plan.Name,
			membershipID: &plan.ID,
		}, nil
	case in.ProductID != "":
		p, err := u.products.FindByID(ctx, repository.NoTX, in.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.IsActive {
			return nil, domain.ErrNotFound
		}
		return &checkoutItem{
			typ:         model.TransactionProduct,
			price:       p.Price,
			description: p.Name,
			productID:   &p.ID,
		}, nil
	default:
		c, err := u.courses.FindByID(ctx, repository.NoTX, in.CourseID)
		if err != nil {
			return nil, err
		}
		if c.Status != model.CoursePublished {
			return nil, domain.ErrNotFound
		}
		return &checkoutItem{
			typ:         model.TransactionCourse,
			price:       c.Price,
			description: "Kelas " + c.Title,
			courseID:    &c.ID,
		}, nil
	}
}

// channelEnabled checks the feature flag gating a payment channel. A channel
// without a flag is enabled; flags exist to switch channels off.
func (u *checkoutUC) channelEnabled(ctx context.Context, channel string) (bool, error) {
	if channel == "" {
		return true, nil
	}
	f, err := u.features.FindByKey(ctx, repository.NoTX, model.PaymentChannelKey(channel))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	return f.Enabled, nil
}

func (u *checkoutUC) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	item, err := u.resolveItem(ctx, in)
	if err != nil {
		return nil, err
	}

	ok, err := u.channelEnabled(ctx, strings.ToUpper(in.PaymentChannel))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrPaymentChannelDisabled
	}

	var coupon *model.Coupon
	var discount int64
	if in.CouponCode != "" {
		coupon, discount, err = u.coupons.Validate(ctx, in.CouponCode, item.price)
		if err != nil {
			return nil, err
		}
	}
	total := item.price - discount

	var txn *model.Transaction
	err = u.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		buyer, err := u.users.FindOrCreateTx(ctx, tx, in.Name, in.Email, in.Phone, in.Whatsapp)
		if err != nil {
			return err
		}

		txn, err = model.NewTransaction(uuid.NewString(), newInvoiceNumber(u.now()), buyer.ID, item.typ, total, item.price, discount)
		if err != nil {
			return err
		}
		txn.MembershipID = item.membershipID
		txn.ProductID = item.productID
		txn.CourseID = item.courseID
		txn.Description = item.description
		txn.PaymentMethod = in.PaymentMethod
		txn.PaymentChannel = strings.ToUpper(in.PaymentChannel)
		if coupon != nil {
			txn.CouponID = &coupon.ID
		}

		if code := strings.TrimSpace(in.AffiliateCode); code != "" {
			profile, err := u.affiliates.FindProfileByCode(ctx, tx, code)
			switch {
			case err == nil && profile.IsActive && profile.UserID != buyer.ID:
				// Self-referrals never earn commission.
				txn.AffiliateID = &profile.ID
			case err != nil && !errors.Is(err, domain.ErrNotFound):
				return err
			}
		}

		return u.transactions.Save(ctx, tx, txn)
	})
	if err != nil {
		return nil, err
	}

	if total == 0 {
		settled, err := u.payments.SettleFree(ctx, txn.ID)
		if err != nil {
			return nil, err
		}
		u.log.Info().Str("transaction_id", txn.ID).Msg("free checkout settled")
		return &CheckoutResult{Transaction: settled, Free: true}, nil
	}

	payURL, err := u.payments.CreateInvoice(ctx, txn, in.Email)
	if err != nil {
		return nil, err
	}
	u.log.Info().Str("transaction_id", txn.ID).Str("invoice", txn.InvoiceNumber).Int64("amount", total).Msg("checkout created")
	return &CheckoutResult{Transaction: txn, PaymentURL: payURL}, nil
}

// newInvoiceNumber derives a sortable, unique invoice reference.
func newInvoiceNumber(at time.Time) string {
	return "INV-" + ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()).String()
}
