package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/infra/metrics"
	red "eksporyuk-platform/internal/infra/redis"
	"eksporyuk-platform/internal/usecase"
)

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyExists):
		code = http.StatusConflict
	case errors.Is(err, domain.ErrCouponInactive),
		errors.Is(err, domain.ErrCouponExpired),
		errors.Is(err, domain.ErrCouponExhausted),
		errors.Is(err, domain.ErrMembershipInactive),
		errors.Is(err, domain.ErrPaymentChannelDisabled),
		errors.Is(err, domain.ErrEmailDomainNotAllowed),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrChallengeClosed):
		code = http.StatusUnprocessableEntity
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

type checkoutRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Whatsapp       string `json:"whatsapp"`
	MembershipID   string `json:"membership_id"`
	ProductID      string `json:"product_id"`
	CourseID       string `json:"course_id"`
	CouponCode     string `json:"coupon_code"`
	AffiliateCode  string `json:"affiliate_code"`
	PaymentMethod  string `json:"payment_method"`
	PaymentChannel string `json:"payment_channel"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	start := time.Now()
	res, err := s.checkout.Checkout(r.Context(), usecase.CheckoutInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Whatsapp:       req.Whatsapp,
		MembershipID:   req.MembershipID,
		ProductID:      req.ProductID,
		CourseID:       req.CourseID,
		CouponCode:     req.CouponCode,
		AffiliateCode:  req.AffiliateCode,
		PaymentMethod:  req.PaymentMethod,
		PaymentChannel: req.PaymentChannel,
	})
	metrics.ObserveCheckoutLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.IncTransaction(string(res.Transaction.Type), string(res.Transaction.Status))

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"transaction_id": res.Transaction.ID,
		"invoice_number": res.Transaction.InvoiceNumber,
		"status":         res.Transaction.Status,
		"amount":         res.Transaction.Amount,
		"payment_url":    res.PaymentURL,
		"free":           res.Free,
	})
}

func (s *Server) handleCouponValidate(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	price, _ := strconv.ParseInt(r.URL.Query().Get("price"), 10, 64)

	coupon, discount, err := s.coupons.Validate(r.Context(), code, price)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"valid": false, "reason": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":       true,
		"code":        coupon.Code,
		"discount":    discount,
		"final_price": price - discount,
	})
}

func (s *Server) handleListMemberships(w http.ResponseWriter, r *http.Request) {
	plans, err := s.catalog.ListMemberships(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleTransactionStatus(w http.ResponseWriter, r *http.Request) {
	txn, err := s.payments.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transaction_id": txn.ID,
		"invoice_number": txn.InvoiceNumber,
		"status":         txn.Status,
		"amount":         txn.Amount,
		"payment_url":    txn.PaymentURL,
		"paid_at":        txn.PaidAt,
	})
}

func (s *Server) handleCourseAccess(w http.ResponseWriter, r *http.Request) {
	var user *model.User
	if uid := r.URL.Query().Get("user_id"); uid != "" {
		u, err := s.users.FindByID(r.Context(), uid)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			writeError(w, err)
			return
		}
		user = u
	}

	course, decision, err := s.access.ResolveByID(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"course_id":  course.ID,
		"title":      course.Title,
		"can_view":   decision.CanView,
		"can_access": decision.CanAccess,
		"reason":     decision.Reason,
	})
}

// xenditCallback is the invoice webhook payload subset we act on. The id
// field is Xendit's invoice id, which we stored as the transaction's
// external id when the invoice was created.
type xenditCallback struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`
	Status     string `json:"status"`
	PaidAt     string `json:"paid_at"`
}

func (s *Server) handleXenditWebhook(w http.ResponseWriter, r *http.Request) {
	if s.callbackToken == "" || r.Header.Get("X-Callback-Token") != s.callbackToken {
		http.Error(w, "invalid callback token", http.StatusUnauthorized)
		return
	}

	var cb xenditCallback
	if err := json.NewDecoder(r.Body).Decode(&cb); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	paidAt := time.Now()
	if cb.PaidAt != "" {
		if t, err := time.Parse(time.RFC3339, cb.PaidAt); err == nil {
			paidAt = t
		}
	}

	txn, err := s.payments.ConfirmWebhook(r.Context(), cb.ID, cb.Status, paidAt)
	if err != nil {
		writeError(w, err)
		return
	}
	if txn.Status == model.TransactionSuccess {
		metrics.AddRevenue(txn.Amount)
		if txn.AffiliateID != nil {
			metrics.IncAffiliateConversion()
			metrics.AddCommission("affiliate", txn.AffiliateShare)
		}
		metrics.AddCommission("admin_fee", txn.AdminFee)
		metrics.AddCommission("founder", txn.FounderShare)
		metrics.AddCommission("cofounder", txn.CofounderShare)
	}
	metrics.IncTransaction(string(txn.Type), string(txn.Status))

	writeJSON(w, http.StatusOK, map[string]string{"status": string(txn.Status)})
}

func (s *Server) handleReferral(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	sum := sha256.Sum256([]byte(host + "|" + r.UserAgent()))
	sourceHash := hex.EncodeToString(sum[:8])

	ok := true
	if s.clicks != nil {
		ok, err = s.clicks.Allow(r.Context(), red.ClickDedupKey(code, sourceHash), 1, 24*time.Hour)
		if err != nil {
			// Dedup is best effort; count the click when redis is down.
			ok = true
		}
	}
	if ok {
		if err := s.affiliates.TrackClick(r.Context(), code, sourceHash); err == nil {
			metrics.IncAffiliateClick()
		}
	}

	http.Redirect(w, r, s.redirectURL+"?ref="+code, http.StatusFound)
}

type affiliateRegisterRequest struct {
	UserID string `json:"user_id"`
	Code   string `json:"code"`
	Rate   string `json:"rate"`
}

func (s *Server) handleAffiliateRegister(w http.ResponseWriter, r *http.Request) {
	var req affiliateRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	rate := decimal.Zero
	if req.Rate != "" {
		d, err := decimal.NewFromString(req.Rate)
		if err != nil {
			http.Error(w, "invalid rate", http.StatusBadRequest)
			return
		}
		rate = d
	}

	profile, err := s.affiliates.Register(r.Context(), req.UserID, req.Code, rate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (s *Server) handleAffiliateDashboard(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id required", http.StatusBadRequest)
		return
	}
	dash, err := s.affiliates.Dashboard(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

type payoutRequest struct {
	UserID         string `json:"user_id"`
	Amount         int64  `json:"amount"`
	Method         string `json:"method"`
	AccountDetails string `json:"account_details"`
}

func (s *Server) handleAffiliatePayout(w http.ResponseWriter, r *http.Request) {
	var req payoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	payout, err := s.affiliates.RequestPayout(r.Context(), req.UserID, req.Amount, req.Method, req.AccountDetails)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payout)
}

func (s *Server) handleTopAffiliates(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	top, err := s.affiliates.TopEarners(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}

func (s *Server) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	open, err := s.challenges.ListOpen(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, open)
}

type challengeJoinRequest struct {
	AffiliateID string `json:"affiliate_id"`
}

func (s *Server) handleChallengeJoin(w http.ResponseWriter, r *http.Request) {
	var req challengeJoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	progress, err := s.challenges.Join(r.Context(), chi.URLParam(r, "id"), req.AffiliateID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, progress)
}
