package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/adapter"
	"eksporyuk-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// pendingInvoiceTTL is how long an unpaid invoice stays payable before the
// reconciler expires it.
const pendingInvoiceTTL = 24 * time.Hour

type PaymentUseCase interface {
	// CreateInvoice registers the transaction with the gateway and stamps
	// the external id and payment URL onto it.
	CreateInvoice(ctx context.Context, txn *model.Transaction, payerEmail string) (string, error)
	// ConfirmWebhook settles a gateway callback. The PENDING->final
	// compare-and-set makes duplicate deliveries no-ops; only the winning
	// call runs fulfillment and the commission split.
	ConfirmWebhook(ctx context.Context, externalID, gatewayStatus string, paidAt time.Time) (*model.Transaction, error)
	// SettleFree fulfills a zero-amount transaction without a gateway
	// round-trip.
	SettleFree(ctx context.Context, transactionID string) (*model.Transaction, error)
	// ExpireStale fails invoices that outlived the payment window.
	ExpireStale(ctx context.Context) (int, error)
	// RemindPending nudges buyers whose invoices entered the reminder
	// window. The window is one scheduler interval wide so each invoice is
	// reminded once.
	RemindPending(ctx context.Context, interval time.Duration) (int, error)
	FindByID(ctx context.Context, id string) (*model.Transaction, error)
}

type paymentUC struct {
	transactions repository.TransactionRepository
	users        repository.UserRepository
	memberships  repository.MembershipRepository
	products     repository.ProductRepository
	enrollments  repository.EnrollmentRepository
	coupons      repository.CouponRepository
	affiliates   repository.AffiliateRepository
	gateway      adapter.PaymentGateway
	membership   MembershipUseCase
	commission   CommissionUseCase
	challenges   ChallengeUseCase
	notify       NotificationUseCase
	txm          repository.TransactionManager
	log          *zerolog.Logger
	now          func() time.Time
}

func NewPaymentUseCase(
	transactions repository.TransactionRepository,
	users repository.UserRepository,
	memberships repository.MembershipRepository,
	products repository.ProductRepository,
	enrollments repository.EnrollmentRepository,
	coupons repository.CouponRepository,
	affiliates repository.AffiliateRepository,
	gateway adapter.PaymentGateway,
	membership MembershipUseCase,
	commission CommissionUseCase,
	challenges ChallengeUseCase,
	notify NotificationUseCase,
	txm repository.TransactionManager,
	logger *zerolog.Logger,
) *paymentUC {
	return &paymentUC{
		transactions: transactions,
		users:        users,
		memberships:  memberships,
		products:     products,
		enrollments:  enrollments,
		coupons:      coupons,
		affiliates:   affiliates,
		gateway:      gateway,
		membership:   membership,
		commission:   commission,
		challenges:   challenges,
		notify:       notify,
		txm:          txm,
		log:          logger,
		now:          time.Now,
	}
}

func (u *paymentUC) CreateInvoice(ctx context.Context, txn *model.Transaction, payerEmail string) (string, error) {
	inv, err := u.gateway.CreateInvoice(ctx, txn, payerEmail, txn.Description)
	if err != nil {
		return "", err
	}
	txn.ExternalID = inv.ExternalID
	txn.PaymentURL = inv.PayURL
	if err := u.transactions.Save(ctx, repository.NoTX, txn); err != nil {
		return "", err
	}
	return inv.PayURL, nil
}

func (u *paymentUC) ConfirmWebhook(ctx context.Context, externalID, gatewayStatus string, paidAt time.Time) (*model.Transaction, error) {
	txn, err := u.transactions.FindByExternalID(ctx, repository.NoTX, externalID)
	if err != nil {
		return nil, err
	}
	switch strings.ToUpper(gatewayStatus) {
	case "PAID", "SETTLED", "SUCCESS":
		return u.settle(ctx, txn.ID, paidAt)
	case "EXPIRED":
		won, err := u.transactions.UpdateStatusIfPending(ctx, repository.NoTX, txn.ID, model.TransactionExpired, nil)
		if err != nil {
			return nil, err
		}
		if won {
			txn.Status = model.TransactionExpired
		}
		return txn, nil
	case "FAILED":
		won, err := u.transactions.UpdateStatusIfPending(ctx, repository.NoTX, txn.ID, model.TransactionFailed, nil)
		if err != nil {
			return nil, err
		}
		if won {
			txn.Status = model.TransactionFailed
		}
		return txn, nil
	default:
		return nil, fmt.Errorf("%w: unknown gateway status %q", domain.ErrInvalidArgument, gatewayStatus)
	}
}

func (u *paymentUC) SettleFree(ctx context.Context, transactionID string) (*model.Transaction, error) {
	return u.settle(ctx, transactionID, u.now())
}

// settle runs the full success flow in one transaction: status CAS,
// fulfillment, coupon consumption, commission split and challenge progress.
// Notifications fire after the commit so a delivery failure can never roll
// back money movement.
func (u *paymentUC) settle(ctx context.Context, transactionID string, paidAt time.Time) (*model.Transaction, error) {
	var (
		txn        *model.Transaction
		buyer      *model.User
		breakdown  *CommissionBreakdown
		milestones []MilestoneEvent
		won        bool
	)
	err := u.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		var err error
		txn, err = u.transactions.FindByID(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		won, err = u.transactions.UpdateStatusIfPending(ctx, tx, txn.ID, model.TransactionSuccess, &paidAt)
		if err != nil {
			return err
		}
		if !won {
			return nil
		}
		txn.Status = model.TransactionSuccess
		txn.PaidAt = &paidAt

		buyer, err = u.users.FindByID(ctx, tx, txn.UserID)
		if err != nil {
			return err
		}

		if err := u.fulfillTx(ctx, tx, txn); err != nil {
			return err
		}

		if txn.CouponID != nil {
			if err := u.coupons.IncrementUse(ctx, tx, *txn.CouponID); err != nil {
				return err
			}
		}

		breakdown, err = u.commission.ProcessSaleTx(ctx, tx, txn)
		if err != nil {
			return err
		}
		if breakdown != nil {
			txn.AffiliateShare = breakdown.AffiliateShare
			txn.AdminFee = breakdown.AdminFee
			txn.FounderShare = breakdown.FounderShare
			txn.CofounderShare = breakdown.CofounderShare
		}

		if txn.AffiliateID != nil {
			milestones, err = u.challenges.RecordSaleTx(ctx, tx, *txn.AffiliateID, txn)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !won {
		u.log.Debug().Str("transaction_id", transactionID).Msg("settle skipped, not pending")
		return txn, nil
	}

	u.notify.PaymentSucceeded(ctx, buyer, txn)
	if breakdown != nil && breakdown.AffiliateShare > 0 && txn.AffiliateID != nil {
		u.notifyAffiliate(ctx, txn, breakdown.AffiliateShare)
	}
	if len(milestones) > 0 {
		u.notify.ChallengeMilestones(ctx, milestones)
	}
	u.log.Info().Str("transaction_id", txn.ID).Str("invoice", txn.InvoiceNumber).Int64("amount", txn.Amount).Msg("payment settled")
	return txn, nil
}

func (u *paymentUC) notifyAffiliate(ctx context.Context, txn *model.Transaction, share int64) {
	// AffiliateID points at the profile; the notification goes to its user.
	profile, err := u.affiliates.FindProfileByID(ctx, repository.NoTX, *txn.AffiliateID)
	if err != nil {
		return
	}
	u.notify.CommissionEarned(ctx, profile.UserID, share, txn.InvoiceNumber)
}

// fulfillTx delivers what was bought: membership activation, product
// delivery with its linked courses, or a single course grant.
func (u *paymentUC) fulfillTx(ctx context.Context, tx repository.Tx, txn *model.Transaction) error {
	switch txn.Type {
	case model.TransactionMembership:
		if txn.MembershipID == nil {
			return domain.ErrInvalidArgument
		}
		plan, err := u.memberships.FindByID(ctx, tx, *txn.MembershipID)
		if err != nil {
			return err
		}
		_, err = u.membership.ActivateTx(ctx, tx, txn.UserID, txn.ID, plan, txn.Amount)
		return err
	case model.TransactionProduct:
		if txn.ProductID == nil {
			return domain.ErrInvalidArgument
		}
		p, err := u.products.FindByID(ctx, tx, *txn.ProductID)
		if err != nil {
			return err
		}
		up := &model.UserProduct{
			ID:            uuid.NewString(),
			UserID:        txn.UserID,
			ProductID:     p.ID,
			TransactionID: txn.ID,
			Price:         txn.Amount,
			IsActive:      true,
			CreatedAt:     u.now(),
		}
		if err := u.products.SaveUserProduct(ctx, tx, up); err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
			return err
		}
		for _, courseID := range p.CourseIDs {
			if err := u.enrollments.Grant(ctx, tx, txn.UserID, courseID, nil); err != nil {
				return err
			}
		}
		return nil
	case model.TransactionCourse:
		if txn.CourseID == nil {
			return domain.ErrInvalidArgument
		}
		return u.enrollments.Grant(ctx, tx, txn.UserID, *txn.CourseID, nil)
	}
	return fmt.Errorf("%w: transaction type %q", domain.ErrInvalidArgument, txn.Type)
}

func (u *paymentUC) ExpireStale(ctx context.Context) (int, error) {
	cutoff := u.now().Add(-pendingInvoiceTTL)
	stale, err := u.transactions.ListPendingOlderThan(ctx, repository.NoTX, cutoff, 200)
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, txn := range stale {
		won, err := u.transactions.UpdateStatusIfPending(ctx, repository.NoTX, txn.ID, model.TransactionExpired, nil)
		if err != nil {
			return expired, err
		}
		if won {
			expired++
		}
	}
	if expired > 0 {
		u.log.Info().Int("expired", expired).Msg("stale invoices expired")
	}
	return expired, nil
}

// reminderDelay is how long an invoice sits unpaid before the buyer gets a
// reminder.
const reminderDelay = time.Hour

func (u *paymentUC) RemindPending(ctx context.Context, interval time.Duration) (int, error) {
	to := u.now().Add(-reminderDelay)
	from := to.Add(-interval)
	due, err := u.transactions.ListPendingCreatedBetween(ctx, repository.NoTX, from, to, 200)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, txn := range due {
		buyer, err := u.users.FindByID(ctx, repository.NoTX, txn.UserID)
		if err != nil {
			continue
		}
		u.notify.PaymentReminder(ctx, buyer, txn)
		sent++
	}
	if sent > 0 {
		u.log.Info().Int("sent", sent).Msg("payment reminders dispatched")
	}
	return sent, nil
}

func (u *paymentUC) FindByID(ctx context.Context, id string) (*model.Transaction, error) {
	return u.transactions.FindByID(ctx, repository.NoTX, id)
}
