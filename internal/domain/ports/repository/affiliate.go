package repository

import (
	"context"

	"eksporyuk-platform/internal/domain/model"
)

type AffiliateRepository interface {
	SaveProfile(ctx context.Context, tx Tx, p *model.AffiliateProfile) error
	FindProfileByID(ctx context.Context, tx Tx, id string) (*model.AffiliateProfile, error)
	FindProfileByUser(ctx context.Context, tx Tx, userID string) (*model.AffiliateProfile, error)
	FindProfileByCode(ctx context.Context, tx Tx, code string) (*model.AffiliateProfile, error)
	// AddConversionStats increments earnings/conversion counters atomically.
	AddConversionStats(ctx context.Context, tx Tx, id string, earnings int64, conversions int64) error
	// AddClick increments the click counter and records the click row.
	AddClick(ctx context.Context, tx Tx, click *model.AffiliateClick) error
	// SaveConversion inserts one conversion row per transaction; a duplicate
	// transaction id surfaces domain.ErrAlreadyExists.
	SaveConversion(ctx context.Context, tx Tx, c *model.AffiliateConversion) error
	ListConversions(ctx context.Context, tx Tx, affiliateID string, limit int) ([]*model.AffiliateConversion, error)
	TopByEarnings(ctx context.Context, tx Tx, limit int) ([]*model.AffiliateProfile, error)
}
