//go:build !integration

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// --- Mock use cases ---

type mockCheckoutUC struct {
	usecase.CheckoutUseCase // Embed interface for forward compatibility
	result                  *usecase.CheckoutResult
	CheckoutError           error
	lastInput               usecase.CheckoutInput
}

func (m *mockCheckoutUC) Checkout(ctx context.Context, in usecase.CheckoutInput) (*usecase.CheckoutResult, error) {
	m.lastInput = in
	if m.CheckoutError != nil {
		return nil, m.CheckoutError
	}
	return m.result, nil
}

type mockPaymentUC struct {
	usecase.PaymentUseCase // Embed interface
	confirmed              *model.Transaction
	ConfirmError           error
	lastExternalID         string
}

func (m *mockPaymentUC) ConfirmWebhook(ctx context.Context, externalID, gatewayStatus string, paidAt time.Time) (*model.Transaction, error) {
	m.lastExternalID = externalID
	if m.ConfirmError != nil {
		return nil, m.ConfirmError
	}
	return m.confirmed, nil
}

type mockCouponUC struct {
	usecase.CouponUseCase // Embed interface
	coupon                *model.Coupon
	discount              int64
	ValidateError         error
}

func (m *mockCouponUC) Validate(ctx context.Context, code string, price int64) (*model.Coupon, int64, error) {
	if m.ValidateError != nil {
		return nil, 0, m.ValidateError
	}
	return m.coupon, m.discount, nil
}

type mockAffiliateUC struct {
	usecase.AffiliateUseCase // Embed interface
	mu                       sync.Mutex
	clicks                   []string
	TrackError               error
}

func (m *mockAffiliateUC) TrackClick(ctx context.Context, code, sourceHash string) error {
	if m.TrackError != nil {
		return m.TrackError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clicks = append(m.clicks, code)
	return nil
}

type mockChallengeUC struct {
	usecase.ChallengeUseCase // Embed interface
	open                     []*model.Challenge
}

func (m *mockChallengeUC) ListOpen(ctx context.Context) ([]*model.Challenge, error) {
	return m.open, nil
}

// stubDeduper returns a fixed allow/err pair for every click.
type stubDeduper struct {
	allow bool
	err   error
}

func (d *stubDeduper) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return d.allow, d.err
}

type testEnv struct {
	router     http.Handler
	checkout   *mockCheckoutUC
	payments   *mockPaymentUC
	coupons    *mockCouponUC
	affiliates *mockAffiliateUC
	challenges *mockChallengeUC
	deduper    *stubDeduper
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		checkout:   &mockCheckoutUC{},
		payments:   &mockPaymentUC{},
		coupons:    &mockCouponUC{},
		affiliates: &mockAffiliateUC{},
		challenges: &mockChallengeUC{},
		deduper:    &stubDeduper{allow: true},
	}
	srv := NewServer(
		env.checkout, env.payments, env.coupons, nil, nil, env.affiliates, env.challenges, nil,
		env.deduper,
		"cb-secret", "https://eksporyuk.test/landing", "100-M",
		newTestLogger(),
	)
	router, err := srv.Router()
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	env.router = router
	return env
}

func (e *testEnv) do(method, path string, body interface{}, hdr map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do("GET", "/health", nil, nil)
	if rr.Code != http.StatusOK {
		t.Errorf("got %d want %d", rr.Code, http.StatusOK)
	}
}

func TestCheckoutHandler(t *testing.T) {
	env := newTestEnv(t)
	env.checkout.result = &usecase.CheckoutResult{
		Transaction: &model.Transaction{
			ID:            "txn-1",
			InvoiceNumber: "INV-001",
			Type:          model.TransactionMembership,
			Status:        model.TransactionPending,
			Amount:        299000,
		},
		PaymentURL: "https://pay.test/inv-1",
	}

	body := map[string]string{
		"name":            "Budi",
		"email":           "budi@example.com",
		"membership_id":   "plan-1",
		"payment_channel": "BCA",
	}
	rr := env.do("POST", "/api/v1/checkout", body, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("got %d want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	var resp map[string]interface{}
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp["transaction_id"] != "txn-1" {
		t.Error("handler returned wrong transaction")
	}
	if resp["payment_url"] != "https://pay.test/inv-1" {
		t.Error("handler returned wrong payment url")
	}
	if env.checkout.lastInput.Email != "budi@example.com" {
		t.Error("checkout input not forwarded")
	}

	t.Run("blocked email domain maps to 422", func(t *testing.T) {
		env.checkout.CheckoutError = domain.ErrEmailDomainNotAllowed
		defer func() { env.checkout.CheckoutError = nil }()

		rr := env.do("POST", "/api/v1/checkout", body, nil)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("got %d want %d", rr.Code, http.StatusUnprocessableEntity)
		}
	})

	t.Run("unknown plan maps to 404", func(t *testing.T) {
		env.checkout.CheckoutError = domain.ErrNotFound
		defer func() { env.checkout.CheckoutError = nil }()

		rr := env.do("POST", "/api/v1/checkout", body, nil)
		if rr.Code != http.StatusNotFound {
			t.Errorf("got %d want %d", rr.Code, http.StatusNotFound)
		}
	})
}

func TestCouponValidateHandler(t *testing.T) {
	env := newTestEnv(t)

	t.Run("valid coupon", func(t *testing.T) {
		env.coupons.coupon = &model.Coupon{Code: "LAUNCH10"}
		env.coupons.discount = 29900

		rr := env.do("GET", "/api/v1/coupons/validate?code=LAUNCH10&price=299000", nil, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("got %d want %d", rr.Code, http.StatusOK)
		}
		var resp map[string]interface{}
		_ = json.Unmarshal(rr.Body.Bytes(), &resp)
		if resp["valid"] != true {
			t.Error("expected valid coupon")
		}
		if resp["final_price"].(float64) != 269100 {
			t.Errorf("got final price %v want 269100", resp["final_price"])
		}
	})

	t.Run("rejection is 200 with reason", func(t *testing.T) {
		env.coupons.ValidateError = domain.ErrCouponExpired

		rr := env.do("GET", "/api/v1/coupons/validate?code=OLD&price=299000", nil, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("got %d want %d", rr.Code, http.StatusOK)
		}
		var resp map[string]interface{}
		_ = json.Unmarshal(rr.Body.Bytes(), &resp)
		if resp["valid"] != false {
			t.Error("expected invalid coupon")
		}
		if resp["reason"] == "" {
			t.Error("expected a rejection reason")
		}
	})
}

func TestXenditWebhookHandler(t *testing.T) {
	env := newTestEnv(t)
	aff := "aff-1"
	env.payments.confirmed = &model.Transaction{
		ID:             "txn-1",
		Type:           model.TransactionMembership,
		Status:         model.TransactionSuccess,
		Amount:         299000,
		AffiliateID:    &aff,
		AffiliateShare: 89700,
	}

	payload := map[string]string{
		"id":          "xnd-inv-1",
		"external_id": "INV-001",
		"status":      "PAID",
		"paid_at":     "2026-09-01T10:00:00Z",
	}

	t.Run("missing token rejected", func(t *testing.T) {
		rr := env.do("POST", "/api/v1/webhooks/xendit", payload, nil)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("got %d want %d", rr.Code, http.StatusUnauthorized)
		}
	})

	t.Run("confirms by gateway invoice id", func(t *testing.T) {
		rr := env.do("POST", "/api/v1/webhooks/xendit", payload, map[string]string{"X-Callback-Token": "cb-secret"})
		if rr.Code != http.StatusOK {
			t.Fatalf("got %d want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
		}
		if env.payments.lastExternalID != "xnd-inv-1" {
			t.Errorf("got external id %q want the gateway invoice id", env.payments.lastExternalID)
		}
	})

	t.Run("duplicate delivery surfaces upstream error", func(t *testing.T) {
		env.payments.ConfirmError = errors.New("boom")
		defer func() { env.payments.ConfirmError = nil }()

		rr := env.do("POST", "/api/v1/webhooks/xendit", payload, map[string]string{"X-Callback-Token": "cb-secret"})
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("got %d want %d", rr.Code, http.StatusInternalServerError)
		}
	})
}

func TestReferralHandler(t *testing.T) {
	t.Run("redirects and counts the click", func(t *testing.T) {
		env := newTestEnv(t)
		rr := env.do("GET", "/r/BUDI123", nil, nil)
		if rr.Code != http.StatusFound {
			t.Fatalf("got %d want %d", rr.Code, http.StatusFound)
		}
		if loc := rr.Header().Get("Location"); loc != "https://eksporyuk.test/landing?ref=BUDI123" {
			t.Errorf("got location %q", loc)
		}
		if len(env.affiliates.clicks) != 1 {
			t.Errorf("expected 1 tracked click, got %d", len(env.affiliates.clicks))
		}
	})

	t.Run("deduped click still redirects", func(t *testing.T) {
		env := newTestEnv(t)
		env.deduper.allow = false

		rr := env.do("GET", "/r/BUDI123", nil, nil)
		if rr.Code != http.StatusFound {
			t.Fatalf("got %d want %d", rr.Code, http.StatusFound)
		}
		if len(env.affiliates.clicks) != 0 {
			t.Errorf("expected 0 tracked clicks, got %d", len(env.affiliates.clicks))
		}
	})

	t.Run("redis failure counts the click anyway", func(t *testing.T) {
		env := newTestEnv(t)
		env.deduper.allow = false
		env.deduper.err = errors.New("redis down")

		rr := env.do("GET", "/r/BUDI123", nil, nil)
		if rr.Code != http.StatusFound {
			t.Fatalf("got %d want %d", rr.Code, http.StatusFound)
		}
		if len(env.affiliates.clicks) != 1 {
			t.Errorf("expected 1 tracked click, got %d", len(env.affiliates.clicks))
		}
	})
}

func TestListChallengesHandler(t *testing.T) {
	env := newTestEnv(t)
	env.challenges.open = []*model.Challenge{
		{ID: "ch-1", Title: "10 Sales Sprint", TargetType: model.ChallengeTargetSalesCount, TargetValue: 10},
	}

	rr := env.do("GET", "/api/v1/challenges/", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want %d", rr.Code, http.StatusOK)
	}
	var resp []map[string]interface{}
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if len(resp) != 1 {
		t.Fatalf("expected 1 open challenge, got %d", len(resp))
	}
}
