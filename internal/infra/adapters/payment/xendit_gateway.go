package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"eksporyuk-platform/internal/config"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*XenditGateway)(nil)

// XenditGateway creates hosted invoices through the Xendit Invoice API.
// Authentication is HTTP basic with the secret key as the username.
type XenditGateway struct {
	apiKey     string
	baseURL    string
	successURL string
	failureURL string
	invoiceTTL time.Duration
	client     *http.Client
}

func NewXenditGateway(cfg *config.XenditConfig, invoiceTTL time.Duration) (*XenditGateway, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("xendit api key empty")
	}
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.xendit.co"
	}
	if invoiceTTL <= 0 {
		invoiceTTL = 24 * time.Hour
	}
	return &XenditGateway{
		apiKey:     cfg.APIKey,
		baseURL:    base,
		successURL: cfg.SuccessURL,
		failureURL: cfg.FailureURL,
		invoiceTTL: invoiceTTL,
		client:     &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (g *XenditGateway) Name() string { return "xendit" }

func (g *XenditGateway) CreateInvoice(ctx context.Context, txn *model.Transaction, payerEmail, description string) (*adapter.Invoice, error) {
	payload := map[string]any{
		"external_id":      txn.InvoiceNumber,
		"amount":           txn.Amount,
		"payer_email":      payerEmail,
		"description":      description,
		"invoice_duration": int(g.invoiceTTL.Seconds()),
		"currency":         "IDR",
	}
	if g.successURL != "" {
		payload["success_redirect_url"] = g.successURL
	}
	if g.failureURL != "" {
		payload["failure_redirect_url"] = g.failureURL
	}
	if txn.PaymentChannel != "" {
		payload["payment_methods"] = []string{txn.PaymentChannel}
	}

	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v2/invoices", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.apiKey, "")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out struct {
		ID         string `json:"id"`
		InvoiceURL string `json:"invoice_url"`
		Status     string `json:"status"`
		Message    string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 || out.ID == "" || out.InvoiceURL == "" {
		return nil, fmt.Errorf("xendit invoice request failed: %s", out.Message)
	}
	return &adapter.Invoice{
		ExternalID: out.ID,
		PayURL:     out.InvoiceURL,
		Channel:    txn.PaymentChannel,
	}, nil
}
