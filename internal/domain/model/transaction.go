package model

import (
	"time"

	"eksporyuk-platform/internal/domain"
)

type TransactionType string

const (
	TransactionMembership TransactionType = "MEMBERSHIP"
	TransactionProduct    TransactionType = "PRODUCT"
	TransactionCourse     TransactionType = "COURSE"
)

type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "PENDING"
	TransactionSuccess  TransactionStatus = "SUCCESS"
	TransactionFailed   TransactionStatus = "FAILED"
	TransactionExpired  TransactionStatus = "EXPIRED"
	TransactionRefunded TransactionStatus = "REFUNDED"
)

// Transaction is a purchase record. The commission breakdown fields
// (AffiliateShare, AdminFee, FounderShare, CofounderShare) are only
// meaningful once Status is SUCCESS.
type Transaction struct {
	ID             string // UUID
	InvoiceNumber  string // ULID-derived, unique
	UserID         string
	Type           TransactionType
	Status         TransactionStatus
	Amount         int64 // final charged amount, IDR
	OriginalAmount int64 // before discount
	DiscountAmount int64
	MembershipID   *string
	ProductID      *string
	CourseID       *string
	CouponID       *string
	AffiliateID    *string // AffiliateProfile ID when attributed
	PaymentMethod  string  // bank_transfer | ewallet | qris | retail | free | manual
	PaymentChannel string  // BCA, OVO, QRIS, ...
	ExternalID     string  // gateway invoice id
	PaymentURL     string
	Description    string
	AffiliateShare int64
	AdminFee       int64
	FounderShare   int64
	CofounderShare int64
	PaidAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewTransaction creates a PENDING purchase record.
func NewTransaction(id, invoiceNumber, userID string, typ TransactionType, amount, originalAmount, discount int64) (*Transaction, error) {
	if id == "" || userID == "" || typ == "" {
		return nil, domain.ErrInvalidArgument
	}
	if amount < 0 || originalAmount < 0 || discount < 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Transaction{
		ID:             id,
		InvoiceNumber:  invoiceNumber,
		UserID:         userID,
		Type:           typ,
		Status:         TransactionPending,
		Amount:         amount,
		OriginalAmount: originalAmount,
		DiscountAmount: discount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
