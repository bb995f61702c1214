package model

import (
	"time"

	"eksporyuk-platform/internal/domain"
)

type ChallengeTargetType string

const (
	ChallengeTargetSalesCount ChallengeTargetType = "SALES_COUNT"
	ChallengeTargetRevenue    ChallengeTargetType = "REVENUE"
	ChallengeTargetClicks     ChallengeTargetType = "CLICKS"
)

// Challenge is a time-boxed affiliate incentive with a numeric target.
// At most one of MembershipID/ProductID/CourseID is set; all nil means any
// qualifying sale counts.
type Challenge struct {
	ID           string // UUID
	Title        string
	Description  string
	TargetType   ChallengeTargetType
	TargetValue  int64
	Reward       string
	MembershipID *string
	ProductID    *string
	CourseID     *string
	StartsAt     time.Time
	EndsAt       time.Time
	IsActive     bool
	CreatedAt    time.Time
}

// Open reports whether the challenge accepts progress at the given instant.
func (c *Challenge) Open(at time.Time) bool {
	return c.IsActive && !at.Before(c.StartsAt) && at.Before(c.EndsAt)
}

// Matches reports whether a sale of the given item qualifies for this
// challenge. An unrestricted challenge matches everything.
func (c *Challenge) Matches(membershipID, productID, courseID *string) bool {
	if c.MembershipID == nil && c.ProductID == nil && c.CourseID == nil {
		return true
	}
	if c.MembershipID != nil && membershipID != nil && *c.MembershipID == *membershipID {
		return true
	}
	if c.ProductID != nil && productID != nil && *c.ProductID == *productID {
		return true
	}
	if c.CourseID != nil && courseID != nil && *c.CourseID == *courseID {
		return true
	}
	return false
}

// ChallengeProgress tracks one affiliate's progress toward a challenge.
// Rows exist only after an explicit opt-in; there is no implicit enrollment.
// completed flips exactly when currentValue reaches targetValue, and
// completedAt is set by that same update.
type ChallengeProgress struct {
	ID           string
	ChallengeID  string
	AffiliateID  string // unique with ChallengeID
	CurrentValue int64
	TargetValue  int64
	Completed    bool
	CompletedAt  *time.Time
	JoinedAt     time.Time
}

func NewChallengeProgress(id string, ch *Challenge, affiliateID string) (*ChallengeProgress, error) {
	if id == "" || ch == nil || affiliateID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &ChallengeProgress{
		ID:          id,
		ChallengeID: ch.ID,
		AffiliateID: affiliateID,
		TargetValue: ch.TargetValue,
		JoinedAt:    time.Now(),
	}, nil
}

// Milestones are the notification thresholds, in percent.
var Milestones = [4]int{25, 50, 75, 100}

// MilestonesCrossed returns the thresholds passed when progress moves from
// before to after against target.
func MilestonesCrossed(before, after, target int64) []int {
	if target <= 0 || after <= before {
		return nil
	}
	var out []int
	for _, m := range Milestones {
		bar := target * int64(m) / 100
		if before < bar && after >= bar {
			out = append(out, m)
		}
	}
	return out
}
