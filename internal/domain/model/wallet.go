package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds withdrawable and pending balances per user, one row per user.
// Affiliate commissions credit Balance immediately; company revenue shares
// accumulate in BalancePending until an admin decision moves or drops them.
type Wallet struct {
	ID             string // UUID
	UserID         string // unique
	Balance        int64  // IDR, withdrawable
	BalancePending int64  // IDR, awaiting approval
	TotalEarnings  int64
	TotalPayout    int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type WalletTransactionType string

const (
	WalletTxnCommission WalletTransactionType = "COMMISSION"
	WalletTxnCredit     WalletTransactionType = "CREDIT"
	WalletTxnPayout     WalletTransactionType = "PAYOUT"
	WalletTxnRefund     WalletTransactionType = "REFUND"
	WalletTxnAdjustment WalletTransactionType = "ADJUSTMENT"
)

// WalletTransaction is the ledger entry behind every balance mutation.
type WalletTransaction struct {
	ID          string
	WalletID    string
	Amount      int64 // signed
	Type        WalletTransactionType
	Description string
	Reference   string // transaction or payout id
	CreatedAt   time.Time
}

type PendingRevenueType string

const (
	RevenueAdminFee       PendingRevenueType = "ADMIN_FEE"
	RevenueFounderShare   PendingRevenueType = "FOUNDER_SHARE"
	RevenueCofounderShare PendingRevenueType = "COFOUNDER_SHARE"
)

type PendingRevenueStatus string

const (
	PendingRevenuePending  PendingRevenueStatus = "PENDING"
	PendingRevenueApproved PendingRevenueStatus = "APPROVED"
	PendingRevenueAdjusted PendingRevenueStatus = "ADJUSTED"
	PendingRevenueRejected PendingRevenueStatus = "REJECTED"
)

// PendingRevenue is a company-side revenue share awaiting manual approval
// before it becomes withdrawable. Each row is decided exactly once.
type PendingRevenue struct {
	ID             string
	WalletID       string
	TransactionID  string
	Amount         int64
	Type           PendingRevenueType
	Percentage     decimal.Decimal
	Status         PendingRevenueStatus
	AdjustedAmount *int64
	AdjustmentNote string
	ApprovedBy     string
	ApprovedAt     *time.Time
	CreatedAt      time.Time
}

// Payout is a withdrawal request against a wallet balance.
type Payout struct {
	ID             string
	WalletID       string
	Amount         int64
	Status         string // PENDING | COMPLETED | REJECTED
	Method         string
	AccountDetails string
	CreatedAt      time.Time
}
