package model

import (
	"time"

	"github.com/shopspring/decimal"

	"eksporyuk-platform/internal/domain"
)

type MembershipDuration string

const (
	DurationOneMonth     MembershipDuration = "ONE_MONTH"
	DurationThreeMonths  MembershipDuration = "THREE_MONTHS"
	DurationSixMonths    MembershipDuration = "SIX_MONTHS"
	DurationTwelveMonths MembershipDuration = "TWELVE_MONTHS"
	DurationLifetime     MembershipDuration = "LIFETIME"
)

// Days returns the grant length for a duration. LIFETIME is modelled as 100
// years so that endDate stays a finite, comparable timestamp.
func (d MembershipDuration) Days() int {
	switch d {
	case DurationOneMonth:
		return 30
	case DurationThreeMonths:
		return 90
	case DurationSixMonths:
		return 180
	case DurationTwelveMonths:
		return 365
	case DurationLifetime:
		return 36500
	}
	return 30
}

type CommissionType string

const (
	CommissionFlat       CommissionType = "FLAT"
	CommissionPercentage CommissionType = "PERCENTAGE"
)

// Membership is a purchasable plan. Courses are linked through a join table
// (many-to-many access grant), loaded into CourseIDs.
type Membership struct {
	ID                      string // UUID
	Name                    string
	Slug                    string
	Description             string
	Duration                MembershipDuration
	Price                   int64 // IDR
	CommissionType          CommissionType
	AffiliateCommissionRate decimal.Decimal // percentage or flat IDR amount
	IsActive                bool
	CourseIDs               []string
	CreatedAt               time.Time
}

type UserMembershipStatus string

const (
	UserMembershipActive    UserMembershipStatus = "ACTIVE"
	UserMembershipExpired   UserMembershipStatus = "EXPIRED"
	UserMembershipCancelled UserMembershipStatus = "CANCELLED"
)

// UserMembership is the active grant of a plan to a user. At most one grant
// per user is ACTIVE; activating a new one expires the previous grant.
type UserMembership struct {
	ID            string
	UserID        string
	MembershipID  string
	TransactionID string
	Status        UserMembershipStatus
	StartDate     time.Time
	EndDate       time.Time
	ActivatedAt   time.Time
	Price         int64
}

// MembershipEndDate derives the grant end deterministically from the plan
// duration and start date.
func MembershipEndDate(duration MembershipDuration, start time.Time) time.Time {
	return start.AddDate(0, 0, duration.Days())
}

// NewUserMembership creates an ACTIVE grant for a user.
func NewUserMembership(id, userID, transactionID string, plan *Membership, start time.Time, price int64) (*UserMembership, error) {
	if id == "" || userID == "" || plan == nil {
		return nil, domain.ErrInvalidArgument
	}
	return &UserMembership{
		ID:            id,
		UserID:        userID,
		MembershipID:  plan.ID,
		TransactionID: transactionID,
		Status:        UserMembershipActive,
		StartDate:     start,
		EndDate:       MembershipEndDate(plan.Duration, start),
		ActivatedAt:   time.Now(),
		Price:         price,
	}, nil
}

// Active reports whether the grant is usable at the given instant.
func (um *UserMembership) Active(at time.Time) bool {
	return um.Status == UserMembershipActive && at.Before(um.EndDate)
}
