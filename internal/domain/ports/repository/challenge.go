package repository

import (
	"context"
	"time"

	"eksporyuk-platform/internal/domain/model"
)

// IncrementResult reports the before/after state of an atomic progress bump,
// so milestone crossings can be derived without a read-modify-write cycle.
type IncrementResult struct {
	Before       int64
	After        int64
	Target       int64
	JustComplete bool
}

type ChallengeRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Challenge) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Challenge, error)
	ListOpen(ctx context.Context, tx Tx, at time.Time) ([]*model.Challenge, error)
	Delete(ctx context.Context, tx Tx, id string) error

	// SaveProgress inserts an opt-in row; duplicates per
	// (challenge, affiliate) surface domain.ErrAlreadyExists.
	SaveProgress(ctx context.Context, tx Tx, p *model.ChallengeProgress) error
	FindProgress(ctx context.Context, tx Tx, challengeID, affiliateID string) (*model.ChallengeProgress, error)
	ListProgressByAffiliate(ctx context.Context, tx Tx, affiliateID string) ([]*model.ChallengeProgress, error)
	// IncrementProgress bumps current_value by delta in a single statement
	// that also flips completed and sets completed_at exactly once when the
	// target is reached. Concurrent increments cannot lose updates.
	IncrementProgress(ctx context.Context, tx Tx, progressID string, delta int64) (IncrementResult, error)
}
