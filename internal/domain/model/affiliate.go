package model

import (
	"time"

	"github.com/shopspring/decimal"

	"eksporyuk-platform/internal/domain"
)

// AffiliateProfile is the one-per-user affiliate record. AffiliateCode is the
// public short code used in referral links; counters are aggregates kept in
// sync by the commission engine and click tracker.
type AffiliateProfile struct {
	ID               string // UUID
	UserID           string // unique
	AffiliateCode    string // unique
	CommissionRate   decimal.Decimal
	TotalEarnings    int64
	TotalConversions int64
	TotalClicks      int64
	IsActive         bool
	CreatedAt        time.Time
}

func NewAffiliateProfile(id, userID, code string, rate decimal.Decimal) (*AffiliateProfile, error) {
	if id == "" || userID == "" || code == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &AffiliateProfile{
		ID:             id,
		UserID:         userID,
		AffiliateCode:  code,
		CommissionRate: rate,
		IsActive:       true,
		CreatedAt:      time.Now(),
	}, nil
}

// AffiliateConversion is one row per attributed sale, unique per transaction.
// The unique key is the idempotency guard against duplicate webhook delivery.
type AffiliateConversion struct {
	ID               string
	AffiliateID      string
	TransactionID    string // unique
	CommissionAmount int64
	CommissionRate   decimal.Decimal
	CommissionType   CommissionType
	PaidOut          bool
	CreatedAt        time.Time
}

// AffiliateClick records a tracked referral-link hit.
type AffiliateClick struct {
	ID          string
	AffiliateID string
	Source      string // hashed remote addr
	CreatedAt   time.Time
}
