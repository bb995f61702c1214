package usecase

import (
	"context"
	"errors"
	"strings"
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
var _ AffiliateUseCase = (*affiliateUC)(nil)

// AffiliateDashboard aggregates everything the affiliate area shows.
type AffiliateDashboard struct {
	Profile     *model.AffiliateProfile
	Wallet      *model.Wallet
	Conversions []*model.AffiliateConversion
	Progress    []*model.ChallengeProgress
}

type AffiliateUseCase interface {
	// Register creates the affiliate profile for a user; a second call
	// returns the existing profile.
	Register(ctx context.Context, userID, code string, rate decimal.Decimal) (*model.AffiliateProfile, error)
	// TrackClick records a referral-link hit and advances click challenges.
	// Unknown or inactive codes are silently ignored so the redirect always
	// works.
	TrackClick(ctx context.Context, code, sourceHash string) error
	FindByCode(ctx context.Context, code string) (*model.AffiliateProfile, error)
	Dashboard(ctx context.Context, userID string) (*AffiliateDashboard, error)
	// RequestPayout withdraws from the affiliate's balance.
	RequestPayout(ctx context.Context, userID string, amount int64, method, accountDetails string) (*model.Payout, error)
	TopEarners(ctx context.Context, limit int) ([]*model.AffiliateProfile, error)
}

type affiliateUC struct {
	affiliates repository.AffiliateRepository
	wallets    repository.WalletRepository
	users      repository.UserRepository
	challenges ChallengeUseCase
	txm        repository.TransactionManager
	log        *zerolog.Logger
	now        func() time.Time
}

func NewAffiliateUseCase(affiliates repository.AffiliateRepository, wallets repository.WalletRepository, users repository.UserRepository, challenges ChallengeUseCase, txm repository.TransactionManager, logger *zerolog.Logger) *affiliateUC {
	return &affiliateUC{affiliates: affiliates, wallets: wallets, users: users, challenges: challenges, txm: txm, log: logger, now: time.Now}
}

func (u *affiliateUC) Register(ctx context.Context, userID, code string, rate decimal.Decimal) (*model.AffiliateProfile, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if existing, err := u.affiliates.FindProfileByUser(ctx, repository.NoTX, userID); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	user, err := u.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	profile, err := model.NewAffiliateProfile(uuid.NewString(), user.ID, code, rate)
	if err != nil {
		return nil, err
	}
	if err := u.affiliates.SaveProfile(ctx, repository.NoTX, profile); err != nil {
		return nil, err
	}
	if user.Role == model.RoleMemberFree || user.Role == model.RoleMemberPremium {
		if err := u.users.UpdateRole(ctx, repository.NoTX, user.ID, model.RoleAffiliate); err != nil {
			return nil, err
		}
	}
	u.log.Info().Str("user_id", userID).Str("code", code).Msg("affiliate registered")
	return profile, nil
}

func (u *affiliateUC) TrackClick(ctx context.Context, code, sourceHash string) error {
	profile, err := u.affiliates.FindProfileByCode(ctx, repository.NoTX, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if !profile.IsActive {
		return nil
	}
	click := &model.AffiliateClick{
		ID:          uuid.NewString(),
		AffiliateID: profile.ID,
		Source:      sourceHash,
		CreatedAt:   u.now(),
	}
	if err := u.affiliates.AddClick(ctx, repository.NoTX, click); err != nil {
		return err
	}
	if _, err := u.challenges.RecordClick(ctx, profile.ID); err != nil {
		u.log.Warn().Err(err).Str("affiliate_id", profile.ID).Msg("click challenge update failed")
	}
	return nil
}

func (u *affiliateUC) FindByCode(ctx context.Context, code string) (*model.AffiliateProfile, error) {
	return u.affiliates.FindProfileByCode(ctx, repository.NoTX, strings.TrimSpace(code))
}

func (u *affiliateUC) Dashboard(ctx context.Context, userID string) (*AffiliateDashboard, error) {
	profile, err := u.affiliates.FindProfileByUser(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	wallet, err := u.wallets.FindByUser(ctx, repository.NoTX, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	conversions, err := u.affiliates.ListConversions(ctx, repository.NoTX, profile.ID, 50)
	if err != nil {
		return nil, err
	}
	progress, err := u.challenges.ProgressFor(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	return &AffiliateDashboard{Profile: profile, Wallet: wallet, Conversions: conversions, Progress: progress}, nil
}

func (u *affiliateUC) RequestPayout(ctx context.Context, userID string, amount int64, method, accountDetails string) (*model.Payout, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	var payout *model.Payout
	err := u.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		wallet, err := u.wallets.FindByUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := u.wallets.DebitBalance(ctx, tx, wallet.ID, amount); err != nil {
			return err
		}
		payout = &model.Payout{
			ID:             uuid.NewString(),
			WalletID:       wallet.ID,
			Amount:         amount,
			Status:         "PENDING",
			Method:         method,
			AccountDetails: accountDetails,
			CreatedAt:      u.now(),
		}
		if err := u.wallets.SavePayout(ctx, tx, payout); err != nil {
			return err
		}
		return u.wallets.SaveTransaction(ctx, tx, &model.WalletTransaction{
			ID:          uuid.NewString(),
			WalletID:    wallet.ID,
			Amount:      -amount,
			Type:        model.WalletTxnPayout,
			Description: "payout request",
			Reference:   payout.ID,
			CreatedAt:   u.now(),
		})
	})
	if err != nil {
		return nil, err
	}
	u.log.Info().Str("user_id", userID).Int64("amount", amount).Msg("payout requested")
	return payout, nil
}

func (u *affiliateUC) TopEarners(ctx context.Context, limit int) ([]*model.AffiliateProfile, error) {
	return u.affiliates.TopByEarnings(ctx, repository.NoTX, limit)
}
