package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ ChallengeUseCase = (*challengeUC)(nil)

// MilestoneEvent is emitted when an increment pushes progress past one or
// more notification thresholds. The caller notifies after its transaction
// commits.
type MilestoneEvent struct {
	Challenge   *model.Challenge
	AffiliateID string
	Milestones  []int
	Completed   bool
	Current     int64
}

type ChallengeUseCase interface {
	// Join opts an affiliate into an open challenge. Joining twice is an
	// idempotent no-op.
	Join(ctx context.Context, challengeID, affiliateID string) (*model.ChallengeProgress, error)
	// RecordSaleTx advances SALES_COUNT and REVENUE challenges for an
	// attributed sale, inside the caller's transaction. Only joined
	// affiliates progress.
	RecordSaleTx(ctx context.Context, tx repository.Tx, affiliateID string, txn *model.Transaction) ([]MilestoneEvent, error)
	// RecordClick advances CLICKS challenges for one tracked click.
	RecordClick(ctx context.Context, affiliateID string) ([]MilestoneEvent, error)
	ListOpen(ctx context.Context) ([]*model.Challenge, error)
	ProgressFor(ctx context.Context, affiliateID string) ([]*model.ChallengeProgress, error)
	Create(ctx context.Context, c *model.Challenge) error
	Update(ctx context.Context, c *model.Challenge) error
	Delete(ctx context.Context, id string) error
}

type challengeUC struct {
	challenges repository.ChallengeRepository
	log        *zerolog.Logger
	now        func() time.Time
}

func NewChallengeUseCase(challenges repository.ChallengeRepository, logger *zerolog.Logger) *challengeUC {
	return &challengeUC{challenges: challenges, log: logger, now: time.Now}
}

func (u *challengeUC) Join(ctx context.Context, challengeID, affiliateID string) (*model.ChallengeProgress, error) {
	ch, err := u.challenges.FindByID(ctx, repository.NoTX, challengeID)
	if err != nil {
		return nil, err
	}
	if !ch.Open(u.now()) {
		return nil, domain.ErrChallengeClosed
	}
	p, err := model.NewChallengeProgress(uuid.NewString(), ch, affiliateID)
	if err != nil {
		return nil, err
	}
	if err := u.challenges.SaveProgress(ctx, repository.NoTX, p); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return u.challenges.FindProgress(ctx, repository.NoTX, challengeID, affiliateID)
		}
		return nil, err
	}
	return p, nil
}

func (u *challengeUC) RecordSaleTx(ctx context.Context, tx repository.Tx, affiliateID string, txn *model.Transaction) ([]MilestoneEvent, error) {
	open, err := u.challenges.ListOpen(ctx, tx, u.now())
	if err != nil {
		return nil, err
	}
	var events []MilestoneEvent
	for _, ch := range open {
		var delta int64
		switch ch.TargetType {
		case model.ChallengeTargetSalesCount:
			delta = 1
		case model.ChallengeTargetRevenue:
			delta = txn.Amount
		default:
			continue
		}
		if !ch.Matches(txn.MembershipID, txn.ProductID, txn.CourseID) {
			continue
		}
		ev, err := u.advance(ctx, tx, ch, affiliateID, delta)
		if err != nil {
			return nil, err
		}
		if ev != nil {
			events = append(events, *ev)
		}
	}
	return events, nil
}

func (u *challengeUC) RecordClick(ctx context.Context, affiliateID string) ([]MilestoneEvent, error) {
	open, err := u.challenges.ListOpen(ctx, repository.NoTX, u.now())
	if err != nil {
		return nil, err
	}
	var events []MilestoneEvent
	for _, ch := range open {
		if ch.TargetType != model.ChallengeTargetClicks {
			continue
		}
		ev, err := u.advance(ctx, repository.NoTX, ch, affiliateID, 1)
		if err != nil {
			return nil, err
		}
		if ev != nil {
			events = append(events, *ev)
		}
	}
	return events, nil
}

// advance applies one atomic increment and converts the before/after window
// into milestone events. A missing progress row means the affiliate never
// joined; that is not an error.
func (u *challengeUC) advance(ctx context.Context, tx repository.Tx, ch *model.Challenge, affiliateID string, delta int64) (*MilestoneEvent, error) {
	p, err := u.challenges.FindProgress(ctx, tx, ch.ID, affiliateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if p.Completed {
		return nil, nil
	}
	res, err := u.challenges.IncrementProgress(ctx, tx, p.ID, delta)
	if err != nil {
		return nil, err
	}
	crossed := model.MilestonesCrossed(res.Before, res.After, res.Target)
	if len(crossed) == 0 {
		return nil, nil
	}
	u.log.Info().
		Str("challenge_id", ch.ID).
		Str("affiliate_id", affiliateID).
		Ints("milestones", crossed).
		Msg("challenge milestone crossed")
	return &MilestoneEvent{
		Challenge:   ch,
		AffiliateID: affiliateID,
		Milestones:  crossed,
		Completed:   res.JustComplete,
		Current:     res.After,
	}, nil
}

func (u *challengeUC) ListOpen(ctx context.Context) ([]*model.Challenge, error) {
	return u.challenges.ListOpen(ctx, repository.NoTX, u.now())
}

func (u *challengeUC) ProgressFor(ctx context.Context, affiliateID string) ([]*model.ChallengeProgress, error) {
	return u.challenges.ListProgressByAffiliate(ctx, repository.NoTX, affiliateID)
}

func (u *challengeUC) Create(ctx context.Context, c *model.Challenge) error {
	if c.Title == "" || c.TargetValue <= 0 || !c.EndsAt.After(c.StartsAt) {
		return domain.ErrInvalidArgument
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = u.now()
	}
	return u.challenges.Save(ctx, repository.NoTX, c)
}

func (u *challengeUC) Update(ctx context.Context, c *model.Challenge) error {
	if c.ID == "" {
		return domain.ErrInvalidArgument
	}
	return u.challenges.Save(ctx, repository.NoTX, c)
}

func (u *challengeUC) Delete(ctx context.Context, id string) error {
	return u.challenges.Delete(ctx, repository.NoTX, id)
}
