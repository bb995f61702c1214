package adapter

import (
	"context"

	"eksporyuk-platform/internal/domain/model"
)

// Invoice is the gateway-side view of a payment request.
type Invoice struct {
	ExternalID string
	PayURL     string
	Channel    string
}

// PaymentGateway creates hosted invoices at an external payment provider.
// Implementations must be safe for concurrent use.
type PaymentGateway interface {
	Name() string
	// CreateInvoice registers the transaction with the provider and returns
	// the provider-side invoice reference and redirect URL.
	CreateInvoice(ctx context.Context, txn *model.Transaction, payerEmail, description string) (*Invoice, error)
}
