package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ CommissionUseCase = (*commissionUC)(nil)

// RevenueRecipients maps each company-side share to the user whose wallet
// receives it.
type RevenueRecipients struct {
	AdminUserID     string
	FounderUserID   string
	CofounderUserID string
}

type CommissionUseCase interface {
	// ProcessSaleTx runs the full split for a SUCCESS transaction inside
	// the caller's transaction. The affiliate share is credited to the
	// affiliate's withdrawable balance immediately; company shares land as
	// PENDING revenue on the recipients' pending balances. A conversion
	// that was already recorded for this transaction is a no-op.
	ProcessSaleTx(ctx context.Context, tx repository.Tx, txn *model.Transaction) (*CommissionBreakdown, error)
	// Approve settles a pending revenue row into the withdrawable balance.
	// A non-nil adjustedAmount credits that amount instead of the original.
	Approve(ctx context.Context, id, approvedBy string, adjustedAmount *int64, note string) error
	// Reject releases a pending revenue row without crediting anything.
	Reject(ctx context.Context, id, approvedBy, note string) error
	ListPending(ctx context.Context, limit int) ([]*model.PendingRevenue, error)
}

type commissionUC struct {
	transactions repository.TransactionRepository
	affiliates   repository.AffiliateRepository
	wallets      repository.WalletRepository
	pending      repository.PendingRevenueRepository
	memberships  repository.MembershipRepository
	products     repository.ProductRepository
	txm          repository.TransactionManager
	cfg          RevenueConfig
	recipients   RevenueRecipients
	log          *zerolog.Logger
}

func NewCommissionUseCase(
	transactions repository.TransactionRepository,
	affiliates repository.AffiliateRepository,
	wallets repository.WalletRepository,
	pending repository.PendingRevenueRepository,
	memberships repository.MembershipRepository,
	products repository.ProductRepository,
	txm repository.TransactionManager,
	cfg RevenueConfig,
	recipients RevenueRecipients,
	logger *zerolog.Logger,
) *commissionUC {
	return &commissionUC{
		transactions: transactions,
		affiliates:   affiliates,
		wallets:      wallets,
		pending:      pending,
		memberships:  memberships,
		products:     products,
		txm:          txm,
		cfg:          cfg,
		recipients:   recipients,
		log:          logger,
	}
}

// commissionConfig resolves the rate to apply for this sale. The purchased
// item's configuration wins; an item with no rate falls back to the
// affiliate profile's percentage rate.
func (u *commissionUC) commissionConfig(ctx context.Context, tx repository.Tx, txn *model.Transaction, profile *model.AffiliateProfile) (model.CommissionType, decimal.Decimal, error) {
	var typ model.CommissionType
	var rate decimal.Decimal
	switch {
	case txn.MembershipID != nil:
		plan, err := u.memberships.FindByID(ctx, tx, *txn.MembershipID)
		if err != nil {
			return "", decimal.Zero, err
		}
		typ, rate = plan.CommissionType, plan.AffiliateCommissionRate
	case txn.ProductID != nil:
		p, err := u.products.FindByID(ctx, tx, *txn.ProductID)
		if err != nil {
			return "", decimal.Zero, err
		}
		typ, rate = p.CommissionType, p.AffiliateCommissionRate
	default:
		typ, rate = model.CommissionPercentage, decimal.Zero
	}
	if rate.IsZero() && profile != nil && profile.CommissionRate.IsPositive() {
		return model.CommissionPercentage, profile.CommissionRate, nil
	}
	return typ, rate, nil
}

func (u *commissionUC) ProcessSaleTx(ctx context.Context, tx repository.Tx, txn *model.Transaction) (*CommissionBreakdown, error) {
	if txn.Status != model.TransactionSuccess {
		return nil, fmt.Errorf("%w: transaction %s is %s", domain.ErrInvalidArgument, txn.ID, txn.Status)
	}
	if txn.Amount <= 0 {
		return &CommissionBreakdown{}, nil
	}

	var profile *model.AffiliateProfile
	if txn.AffiliateID != nil {
		p, err := u.affiliates.FindProfileByID(ctx, tx, *txn.AffiliateID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		profile = p
	}

	typ, rate, err := u.commissionConfig(ctx, tx, txn, profile)
	if err != nil {
		return nil, err
	}
	b := CalculateBreakdown(txn.Amount, typ, rate, profile != nil, u.cfg)

	if profile != nil && b.AffiliateShare > 0 {
		conv := &model.AffiliateConversion{
			ID:               uuid.NewString(),
			AffiliateID:      profile.ID,
			TransactionID:    txn.ID,
			CommissionAmount: b.AffiliateShare,
			CommissionRate:   rate,
			CommissionType:   typ,
			CreatedAt:        time.Now(),
		}
		if err := u.affiliates.SaveConversion(ctx, tx, conv); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				// Split already ran for this transaction.
				return &b, nil
			}
			return nil, err
		}
		walletID, err := u.wallets.CreditBalance(ctx, tx, profile.UserID, b.AffiliateShare)
		if err != nil {
			return nil, err
		}
		if err := u.walletEntry(ctx, tx, walletID, b.AffiliateShare, model.WalletTxnCommission, txn); err != nil {
			return nil, err
		}
		if err := u.affiliates.AddConversionStats(ctx, tx, profile.ID, b.AffiliateShare, 1); err != nil {
			return nil, err
		}
	}

	shares := []struct {
		userID string
		amount int64
		typ    model.PendingRevenueType
		pct    decimal.Decimal
	}{
		{u.recipients.AdminUserID, b.AdminFee, model.RevenueAdminFee, u.cfg.AdminFeePercent},
		{u.recipients.FounderUserID, b.FounderShare, model.RevenueFounderShare, u.cfg.FounderPercent},
		{u.recipients.CofounderUserID, b.CofounderShare, model.RevenueCofounderShare, u.cfg.CofounderPercent},
	}
	for _, s := range shares {
		if s.amount <= 0 || s.userID == "" {
			continue
		}
		walletID, err := u.wallets.CreditPending(ctx, tx, s.userID, s.amount)
		if err != nil {
			return nil, err
		}
		pr := &model.PendingRevenue{
			ID:            uuid.NewString(),
			WalletID:      walletID,
			TransactionID: txn.ID,
			Amount:        s.amount,
			Type:          s.typ,
			Percentage:    s.pct,
			Status:        model.PendingRevenuePending,
			CreatedAt:     time.Now(),
		}
		if err := u.pending.Save(ctx, tx, pr); err != nil {
			return nil, err
		}
	}

	if err := u.transactions.SetCommissionBreakdown(ctx, tx, txn.ID, b.AffiliateShare, b.AdminFee, b.FounderShare, b.CofounderShare); err != nil {
		return nil, err
	}

	u.log.Info().
		Str("transaction_id", txn.ID).
		Int64("amount", txn.Amount).
		Int64("affiliate_share", b.AffiliateShare).
		Int64("admin_fee", b.AdminFee).
		Msg("commission split recorded")
	return &b, nil
}

func (u *commissionUC) walletEntry(ctx context.Context, tx repository.Tx, walletID string, amount int64, typ model.WalletTransactionType, txn *model.Transaction) error {
	return u.wallets.SaveTransaction(ctx, tx, &model.WalletTransaction{
		ID:          uuid.NewString(),
		WalletID:    walletID,
		Amount:      amount,
		Type:        typ,
		Description: fmt.Sprintf("commission for invoice %s", txn.InvoiceNumber),
		Reference:   txn.ID,
		CreatedAt:   time.Now(),
	})
}

func (u *commissionUC) Approve(ctx context.Context, id, approvedBy string, adjustedAmount *int64, note string) error {
	return u.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		pr, err := u.pending.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		status := model.PendingRevenueApproved
		credit := pr.Amount
		if adjustedAmount != nil {
			if *adjustedAmount < 0 {
				return domain.ErrInvalidArgument
			}
			status = model.PendingRevenueAdjusted
			credit = *adjustedAmount
		}
		won, err := u.pending.Decide(ctx, tx, id, status, adjustedAmount, note, approvedBy)
		if err != nil {
			return err
		}
		if !won {
			return domain.ErrRevenueAlreadyDecided
		}
		if err := u.wallets.SettlePending(ctx, tx, pr.WalletID, pr.Amount, credit); err != nil {
			return err
		}
		if credit > 0 {
			if err := u.wallets.SaveTransaction(ctx, tx, &model.WalletTransaction{
				ID:          uuid.NewString(),
				WalletID:    pr.WalletID,
				Amount:      credit,
				Type:        model.WalletTxnCredit,
				Description: fmt.Sprintf("approved %s revenue", pr.Type),
				Reference:   pr.TransactionID,
				CreatedAt:   time.Now(),
			}); err != nil {
				return err
			}
		}
		u.log.Info().Str("pending_revenue_id", id).Str("approved_by", approvedBy).Int64("credited", credit).Msg("pending revenue approved")
		return nil
	})
}

func (u *commissionUC) Reject(ctx context.Context, id, approvedBy, note string) error {
	return u.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		pr, err := u.pending.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		won, err := u.pending.Decide(ctx, tx, id, model.PendingRevenueRejected, nil, note, approvedBy)
		if err != nil {
			return err
		}
		if !won {
			return domain.ErrRevenueAlreadyDecided
		}
		if err := u.wallets.SettlePending(ctx, tx, pr.WalletID, pr.Amount, 0); err != nil {
			return err
		}
		u.log.Info().Str("pending_revenue_id", id).Str("approved_by", approvedBy).Msg("pending revenue rejected")
		return nil
	})
}

func (u *commissionUC) ListPending(ctx context.Context, limit int) ([]*model.PendingRevenue, error) {
	return u.pending.ListPending(ctx, repository.NoTX, limit)
}
