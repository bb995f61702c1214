package payment

import (
	"context"
	"fmt"
	"sync"

	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*NoopPaymentGateway)(nil)

// NoopPaymentGateway is a simple in-memory gateway for development and
// tests; every invoice is accepted and never paid.
type NoopPaymentGateway struct {
	mu  sync.Mutex
	seq int64
}

func NewNoopPaymentGateway() *NoopPaymentGateway {
	return &NoopPaymentGateway{}
}

func (g *NoopPaymentGateway) Name() string { return "noop" }

func (g *NoopPaymentGateway) CreateInvoice(ctx context.Context, txn *model.Transaction, payerEmail, description string) (*adapter.Invoice, error) {
	g.mu.Lock()
	g.seq++
	id := fmt.Sprintf("noop-%d", g.seq)
	g.mu.Unlock()
	return &adapter.Invoice{
		ExternalID: id,
		PayURL:     "https://example.test/pay/" + id,
		Channel:    txn.PaymentChannel,
	}, nil
}
