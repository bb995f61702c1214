package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/infra/metrics"
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
	case errors.Is(err, domain.ErrRevenueAlreadyDecided):
		code = http.StatusConflict
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

type loginRequest struct {
	Key     string `json:"key"`
	AdminID string `json:"admin_id"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if s.loginKey == "" || req.Key != s.loginKey {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	subject := req.AdminID
	if subject == "" {
		subject = "admin"
	}
	token, err := s.auth.Mint(w, subject)
	if err != nil {
		http.Error(w, "failed to mint session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	week, month, year, err := s.stats.Revenue(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	active, err := s.stats.ActiveMemberships(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	for plan, n := range active {
		metrics.SetActiveMemberships(plan, n)
	}
	top, err := s.stats.TopAffiliates(ctx, 10)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"revenue_idr": map[string]int64{
			"week":  week,
			"month": month,
			"year":  year,
		},
		"active_memberships": active,
		"top_affiliates":     top,
	})
}

type membershipRequest struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description"`
	Duration       string   `json:"duration"`
	Price          int64    `json:"price"`
	CommissionType string   `json:"commission_type"`
	CommissionRate string   `json:"commission_rate"`
	IsActive       bool     `json:"is_active"`
	CourseIDs      []string `json:"course_ids"`
}

func (s *Server) handleSaveMembership(w http.ResponseWriter, r *http.Request) {
	var req membershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	rate, err := decimal.NewFromString(defaultStr(req.CommissionRate, "0"))
	if err != nil {
		http.Error(w, "invalid commission_rate", http.StatusBadRequest)
		return
	}
	m := &model.Membership{
		ID:                      defaultStr(req.ID, uuid.NewString()),
		Name:                    req.Name,
		Slug:                    req.Slug,
		Description:             req.Description,
		Duration:                model.MembershipDuration(req.Duration),
		Price:                   req.Price,
		CommissionType:          model.CommissionType(defaultStr(req.CommissionType, string(model.CommissionPercentage))),
		AffiliateCommissionRate: rate,
		IsActive:                req.IsActive,
		CourseIDs:               req.CourseIDs,
		CreatedAt:               time.Now(),
	}
	if err := s.catalog.SaveMembership(r.Context(), m); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleListMemberships(w http.ResponseWriter, r *http.Request) {
	plans, err := s.catalog.ListMemberships(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleDeleteMembership(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteMembership(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type commissionRequest struct {
	Type string `json:"type"`
	Rate string `json:"rate"`
}

func (s *Server) handleMembershipCommission(w http.ResponseWriter, r *http.Request) {
	var req commissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	rate, err := decimal.NewFromString(req.Rate)
	if err != nil {
		http.Error(w, "invalid rate", http.StatusBadRequest)
		return
	}
	if err := s.catalog.SetMembershipCommission(r.Context(), chi.URLParam(r, "id"), model.CommissionType(req.Type), rate); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type productRequest struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description"`
	Price          int64    `json:"price"`
	CommissionType string   `json:"commission_type"`
	CommissionRate string   `json:"commission_rate"`
	IsActive       bool     `json:"is_active"`
	CourseIDs      []string `json:"course_ids"`
}

func (s *Server) handleSaveProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	rate, err := decimal.NewFromString(defaultStr(req.CommissionRate, "0"))
	if err != nil {
		http.Error(w, "invalid commission_rate", http.StatusBadRequest)
		return
	}
	p := &model.Product{
		ID:                      defaultStr(req.ID, uuid.NewString()),
		Name:                    req.Name,
		Slug:                    req.Slug,
		Description:             req.Description,
		Price:                   req.Price,
		CommissionType:          model.CommissionType(defaultStr(req.CommissionType, string(model.CommissionPercentage))),
		AffiliateCommissionRate: rate,
		IsActive:                req.IsActive,
		CourseIDs:               req.CourseIDs,
		CreatedAt:               time.Now(),
	}
	if err := s.catalog.SaveProduct(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleProductCommission(w http.ResponseWriter, r *http.Request) {
	var req commissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	rate, err := decimal.NewFromString(req.Rate)
	if err != nil {
		http.Error(w, "invalid rate", http.StatusBadRequest)
		return
	}
	if err := s.catalog.SetProductCommission(r.Context(), chi.URLParam(r, "id"), model.CommissionType(req.Type), rate); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bulkCommissionItem struct {
	MembershipID string `json:"membership_id"`
	ProductID    string `json:"product_id"`
	Type         string `json:"type"`
	Rate         string `json:"rate"`
}

type bulkCommissionResult struct {
	MembershipID string `json:"membership_id,omitempty"`
	ProductID    string `json:"product_id,omitempty"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
}

// handleBulkCommission applies commission updates item by item; one bad item
// does not abort the rest.
func (s *Server) handleBulkCommission(w http.ResponseWriter, r *http.Request) {
	var items []bulkCommissionItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	results := make([]bulkCommissionResult, 0, len(items))
	for _, it := range items {
		res := bulkCommissionResult{MembershipID: it.MembershipID, ProductID: it.ProductID}
		rate, err := decimal.NewFromString(it.Rate)
		if err == nil {
			switch {
			case it.MembershipID != "":
				err = s.catalog.SetMembershipCommission(r.Context(), it.MembershipID, model.CommissionType(it.Type), rate)
			case it.ProductID != "":
				err = s.catalog.SetProductCommission(r.Context(), it.ProductID, model.CommissionType(it.Type), rate)
			default:
				err = domain.ErrInvalidArgument
			}
		}
		if err != nil {
			res.Error = err.Error()
		} else {
			res.Success = true
		}
		results = append(results, res)
	}
	writeJSON(w, http.StatusOK, results)
}

type courseRequest struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Slug               string `json:"slug"`
	Status             string `json:"status"`
	RoleAccess         string `json:"role_access"`
	Price              int64  `json:"price"`
	AffiliateOnly      bool   `json:"affiliate_only"`
	MembershipIncluded bool   `json:"membership_included"`
	MentorID           string `json:"mentor_id"`
}

func (s *Server) handleSaveCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	c := &model.Course{
		ID:                 defaultStr(req.ID, uuid.NewString()),
		Title:              req.Title,
		Slug:               req.Slug,
		Status:             model.CourseStatus(req.Status),
		RoleAccess:         model.CourseRoleAccess(req.RoleAccess),
		Price:              req.Price,
		AffiliateOnly:      req.AffiliateOnly,
		MembershipIncluded: req.MembershipIncluded,
		MentorID:           req.MentorID,
		CreatedAt:          time.Now(),
	}
	if err := s.catalog.SaveCourse(r.Context(), c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

type couponRequest struct {
	ID            string     `json:"id"`
	Code          string     `json:"code"`
	DiscountType  string     `json:"discount_type"`
	DiscountValue string     `json:"discount_value"`
	IsActive      bool       `json:"is_active"`
	ValidUntil    *time.Time `json:"valid_until"`
	MaxUses       int        `json:"max_uses"`
}

func (s *Server) handleSaveCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	value, err := decimal.NewFromString(req.DiscountValue)
	if err != nil {
		http.Error(w, "invalid discount_value", http.StatusBadRequest)
		return
	}
	c := &model.Coupon{
		ID:            req.ID,
		Code:          req.Code,
		DiscountType:  model.DiscountType(req.DiscountType),
		DiscountValue: value,
		IsActive:      req.IsActive,
		ValidUntil:    req.ValidUntil,
		MaxUses:       req.MaxUses,
		CreatedAt:     time.Now(),
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
		err = s.coupons.Create(r.Context(), c)
	} else {
		err = s.coupons.Update(r.Context(), c)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := s.coupons.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, coupons)
}

func (s *Server) handleDeleteCoupon(w http.ResponseWriter, r *http.Request) {
	if err := s.coupons.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type challengeRequest struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	TargetType   string    `json:"target_type"`
	TargetValue  int64     `json:"target_value"`
	Reward       string    `json:"reward"`
	MembershipID *string   `json:"membership_id"`
	ProductID    *string   `json:"product_id"`
	CourseID     *string   `json:"course_id"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	IsActive     bool      `json:"is_active"`
}

func (s *Server) handleSaveChallenge(w http.ResponseWriter, r *http.Request) {
	var req challengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	c := &model.Challenge{
		ID:           req.ID,
		Title:        req.Title,
		Description:  req.Description,
		TargetType:   model.ChallengeTargetType(req.TargetType),
		TargetValue:  req.TargetValue,
		Reward:       req.Reward,
		MembershipID: req.MembershipID,
		ProductID:    req.ProductID,
		CourseID:     req.CourseID,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
		IsActive:     req.IsActive,
		CreatedAt:    time.Now(),
	}
	var err error
	if c.ID == "" {
		c.ID = uuid.NewString()
		err = s.challenges.Create(r.Context(), c)
	} else {
		err = s.challenges.Update(r.Context(), c)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleDeleteChallenge(w http.ResponseWriter, r *http.Request) {
	if err := s.challenges.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePendingRevenue(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := s.commission.ListPending(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

type approveRevenueRequest struct {
	AdjustedAmount *int64 `json:"adjusted_amount"`
	Note           string `json:"note"`
}

func (s *Server) handleApproveRevenue(w http.ResponseWriter, r *http.Request) {
	var req approveRevenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.commission.Approve(r.Context(), chi.URLParam(r, "id"), adminSubject(r.Context()), req.AdjustedAmount, req.Note); err != nil {
		writeError(w, err)
		return
	}
	if req.AdjustedAmount != nil {
		metrics.IncRevenueDecision("adjusted")
	} else {
		metrics.IncRevenueDecision("approved")
	}
	w.WriteHeader(http.StatusNoContent)
}

type rejectRevenueRequest struct {
	Note string `json:"note"`
}

func (s *Server) handleRejectRevenue(w http.ResponseWriter, r *http.Request) {
	var req rejectRevenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.commission.Reject(r.Context(), chi.URLParam(r, "id"), adminSubject(r.Context()), req.Note); err != nil {
		writeError(w, err)
		return
	}
	metrics.IncRevenueDecision("rejected")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListFeatures(w http.ResponseWriter, r *http.Request) {
	features, err := s.catalog.ListFeatures(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, features)
}

type featureRequest struct {
	Key     string `json:"key"`
	Enabled bool   `json:"enabled"`
	Value   string `json:"value"`
}

func (s *Server) handleSetFeature(w http.ResponseWriter, r *http.Request) {
	var req featureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.catalog.SetFeature(r.Context(), req.Key, req.Enabled, req.Value); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type userRoleRequest struct {
	Role string `json:"role"`
}

func (s *Server) handleUserRole(w http.ResponseWriter, r *http.Request) {
	var req userRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.users.UpdateRole(r.Context(), chi.URLParam(r, "id"), model.UserRole(req.Role)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func defaultStr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
