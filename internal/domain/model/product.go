package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a one-off purchasable item. Like memberships it carries its own
// affiliate commission configuration and may unlock courses.
type Product struct {
	ID                      string // UUID
	Name                    string
	Slug                    string
	Description             string
	Price                   int64 // IDR
	CommissionType          CommissionType
	AffiliateCommissionRate decimal.Decimal
	IsActive                bool
	CourseIDs               []string
	CreatedAt               time.Time
}

// UserProduct records a delivered one-off purchase.
type UserProduct struct {
	ID            string
	UserID        string
	ProductID     string
	TransactionID string
	Price         int64
	IsActive      bool
	ExpiresAt     *time.Time
	CreatedAt     time.Time
}
